// Package auth defines the admission check injected into the channel
// gateway. The gateway always invokes its Verifier; only the wiring decides
// how strict it is.
package auth

import "net/http"

// Verifier admits or rejects the principal behind an incoming connection.
type Verifier func(r *http.Request) error

// Passthrough admits every connection. It stands in until credential
// verification lands; production deployments should verify the bearer token
// from the handshake here.
func Passthrough() Verifier {
	return func(*http.Request) error { return nil }
}
