package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/fleetwatch/internal/auth"
	"github.com/your-org/fleetwatch/internal/channel"
	"github.com/your-org/fleetwatch/internal/config"
	"github.com/your-org/fleetwatch/internal/models"
	"github.com/your-org/fleetwatch/internal/ratelimit"
	"github.com/your-org/fleetwatch/internal/registry"
	"github.com/your-org/fleetwatch/internal/session"
)

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	RetryAfter int             `json:"retryAfter"`
}

func newTestRouter(t *testing.T, maxRequests int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.Load("testdata/nonexistent.yaml")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.RateLimit.MaxRequests = maxRequests

	reg := registry.Seed(time.Now())
	sessions := session.NewManager("system_1")
	hub := channel.NewHub(reg, sessions, channel.AuthFunc(auth.Passthrough()), *cfg)

	return NewRouter(RouterConfig{
		Server:   cfg.Server,
		Registry: reg,
		Sessions: sessions,
		Limiter:  ratelimit.New(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests, cfg.RateLimit.SweepInterval),
		Hub:      hub,
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope from %q: %v", w.Body.String(), err)
	}
	return w, env
}

func TestListSystems(t *testing.T) {
	r := newTestRouter(t, 1000)

	w, env := doJSON(t, r, http.MethodGet, "/api/systems", "")
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d success = %v", w.Code, env.Success)
	}

	var systems []models.System
	if err := json.Unmarshal(env.Data, &systems); err != nil {
		t.Fatalf("decode systems: %v", err)
	}
	if len(systems) != 2 {
		t.Errorf("got %d systems, want 2", len(systems))
	}
}

func TestGetSystemErrors(t *testing.T) {
	r := newTestRouter(t, 1000)

	tests := []struct {
		name string
		path string
		code int
	}{
		{name: "invalid id format", path: "/api/systems/sys;1", code: http.StatusBadRequest},
		{name: "unknown id", path: "/api/systems/system_9", code: http.StatusNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w, env := doJSON(t, r, http.MethodGet, test.path, "")
			if w.Code != test.code {
				t.Errorf("status = %d, want %d", w.Code, test.code)
			}
			if env.Success || env.Error == "" {
				t.Errorf("envelope = %+v, want failure with message", env)
			}
		})
	}
}

func TestSystemCameras(t *testing.T) {
	r := newTestRouter(t, 1000)

	_, env := doJSON(t, r, http.MethodGet, "/api/systems/system_1/cameras", "")
	var cameras []models.Camera
	if err := json.Unmarshal(env.Data, &cameras); err != nil {
		t.Fatalf("decode cameras: %v", err)
	}
	if len(cameras) != 4 {
		t.Errorf("got %d cameras, want 4", len(cameras))
	}

	_, env = doJSON(t, r, http.MethodGet, "/api/systems/system_2/cameras", "")
	if err := json.Unmarshal(env.Data, &cameras); err != nil {
		t.Fatalf("decode cameras: %v", err)
	}
	if len(cameras) != 0 {
		t.Errorf("system_2 has %d cameras, want 0", len(cameras))
	}
}

func TestUpdateCameraSettings(t *testing.T) {
	r := newTestRouter(t, 1000)

	w, env := doJSON(t, r, http.MethodPut, "/api/cameras/camera_1/settings", `{"exposure": 2000}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	var result struct {
		CameraID string                `json:"cameraId"`
		Settings models.CameraSettings `json:"settings"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if result.Settings.Exposure != 1000 {
		t.Errorf("exposure = %v, want clamped to 1000", result.Settings.Exposure)
	}
}

func TestUpdateCameraSettingsRejections(t *testing.T) {
	r := newTestRouter(t, 1000)

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{name: "invalid id", path: "/api/cameras/cam;1/settings", body: `{"gain": 1}`, code: http.StatusBadRequest},
		{name: "unknown key", path: "/api/cameras/camera_1/settings", body: `{"exposure": 10, "foo": 1}`, code: http.StatusBadRequest},
		{name: "non-numeric value", path: "/api/cameras/camera_1/settings", body: `{"gain": "high"}`, code: http.StatusBadRequest},
		{name: "empty body", path: "/api/cameras/camera_1/settings", body: `{}`, code: http.StatusBadRequest},
		{name: "unknown camera", path: "/api/cameras/camera_9/settings", body: `{"gain": 1}`, code: http.StatusNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w, env := doJSON(t, r, http.MethodPut, test.path, test.body)
			if w.Code != test.code {
				t.Errorf("status = %d, want %d", w.Code, test.code)
			}
			if env.Success {
				t.Error("envelope reports success for rejected command")
			}
		})
	}
}

func TestRecordingLifecycle(t *testing.T) {
	r := newTestRouter(t, 1000)

	w, env := doJSON(t, r, http.MethodPost, "/api/recording/start",
		`{"videoQuality":"high","codec":"<script>x"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("start status = %d body = %s", w.Code, w.Body.String())
	}

	var s models.RecordingSession
	if err := json.Unmarshal(env.Data, &s); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if s.Config.Codec != "scriptx" {
		t.Errorf("codec = %q, want scriptx", s.Config.Codec)
	}
	if s.Status != models.RecordingStatusRecording {
		t.Errorf("status = %q, want recording", s.Status)
	}

	// Double start conflicts.
	w, _ = doJSON(t, r, http.MethodPost, "/api/recording/start", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("double start status = %d, want 400", w.Code)
	}

	// Stop succeeds, second stop has nothing to act on.
	w, _ = doJSON(t, r, http.MethodPost, "/api/recording/stop", "")
	if w.Code != http.StatusOK {
		t.Errorf("stop status = %d, want 200", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodPost, "/api/recording/stop", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("stop without session status = %d, want 400", w.Code)
	}
}

func TestStartRecordingInvalidConfig(t *testing.T) {
	r := newTestRouter(t, 1000)

	w, _ := doJSON(t, r, http.MethodPost, "/api/recording/start", `{"videoQuality":"ultra"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRecordingSessionsHistory(t *testing.T) {
	r := newTestRouter(t, 1000)

	_, env := doJSON(t, r, http.MethodGet, "/api/recording/sessions", "")
	var sessions []models.RecordingSession
	if err := json.Unmarshal(env.Data, &sessions); err != nil {
		t.Fatalf("decode sessions: %v", err)
	}
	if len(sessions) == 0 {
		t.Error("history is empty, want at least one session")
	}
	for _, s := range sessions {
		if s.Status != models.RecordingStatusStopped {
			t.Errorf("history session %s status = %q, want stopped", s.ID, s.Status)
		}
	}
}

func TestStatusFallsBackToDefaultSystem(t *testing.T) {
	r := newTestRouter(t, 1000)

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "absent param", path: "/api/status", want: "system_1"},
		{name: "invalid param", path: "/api/status?systemId=sys;tem", want: "system_1"},
		{name: "valid param", path: "/api/status?systemId=system_2", want: "system_2"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, env := doJSON(t, r, http.MethodGet, test.path, "")
			var snap struct {
				SystemID string `json:"systemId"`
			}
			if err := json.Unmarshal(env.Data, &snap); err != nil {
				t.Fatalf("decode status: %v", err)
			}
			if snap.SystemID != test.want {
				t.Errorf("systemId = %q, want %q", snap.SystemID, test.want)
			}
		})
	}
}

func TestRateLimitExhaustion(t *testing.T) {
	r := newTestRouter(t, 3)

	for i := 0; i < 3; i++ {
		w, _ := doJSON(t, r, http.MethodGet, "/api/systems", "")
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}

	w, env := doJSON(t, r, http.MethodGet, "/api/systems", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if env.RetryAfter <= 0 {
		t.Errorf("retryAfter = %d, want > 0", env.RetryAfter)
	}
}

func TestHealthzNotRateLimited(t *testing.T) {
	r := newTestRouter(t, 1)

	doJSON(t, r, http.MethodGet, "/api/systems", "")
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("healthz status = %d, want 200", w.Code)
		}
	}
}
