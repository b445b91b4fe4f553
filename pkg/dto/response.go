package dto

// Response is the envelope for every REST reply.
type Response struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

func OK(data any) Response {
	return Response{Success: true, Data: data}
}

func Err(msg string) Response {
	return Response{Success: false, Error: msg}
}
