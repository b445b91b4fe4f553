package registry

import (
	"errors"
	"testing"
	"time"

	"github.com/your-org/fleetwatch/internal/errs"
	"github.com/your-org/fleetwatch/internal/models"
)

func TestSeedFleet(t *testing.T) {
	t.Parallel()
	r := Seed(time.Now())

	systems := r.Systems()
	if len(systems) != 2 {
		t.Fatalf("got %d systems, want 2", len(systems))
	}
	if systems[0].ID != "system_1" {
		t.Errorf("first system id = %q, want system_1", systems[0].ID)
	}

	cameras := r.Cameras()
	if len(cameras) != 4 {
		t.Fatalf("got %d cameras, want 4", len(cameras))
	}
	for _, c := range cameras {
		if c.SystemID != "system_1" {
			t.Errorf("camera %s systemId = %q, want system_1", c.ID, c.SystemID)
		}
	}
}

func TestApplySettingsClamps(t *testing.T) {
	t.Parallel()
	r := Seed(time.Now())

	tests := []struct {
		name  string
		key   string
		value float64
		want  float64
	}{
		{name: "above max clamps to 1000", key: "exposure", value: 2000, want: 1000},
		{name: "below min clamps to 0", key: "exposure", value: -5, want: 0},
		{name: "in range stored as-is", key: "exposure", value: 320, want: 320},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			stored, err := r.ApplySettings("camera_1", map[string]float64{test.key: test.value}, time.Now())
			if err != nil {
				t.Fatalf("ApplySettings: %v", err)
			}
			if stored.Exposure != test.want {
				t.Errorf("exposure = %v, want %v", stored.Exposure, test.want)
			}
		})
	}
}

func TestApplySettingsUnknownCamera(t *testing.T) {
	t.Parallel()
	r := Seed(time.Now())

	_, err := r.ApplySettings("camera_99", map[string]float64{"gain": 10}, time.Now())
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestReadsDoNotAlias(t *testing.T) {
	t.Parallel()
	r := Seed(time.Now())

	before := r.Cameras()[0]
	before.Settings.Gain = 999

	after := r.Cameras()[0]
	if after.Settings.Gain == 999 {
		t.Error("mutating a returned camera changed registry state")
	}
}

func TestRefreshHeartbeatsOnlineOnly(t *testing.T) {
	t.Parallel()
	seed := time.Now().Add(-time.Hour)
	r := Seed(seed)
	r.AddSystem(&models.System{
		ID:            "system_3",
		Name:          "Dark Site",
		Status:        models.SystemStatusOffline,
		LastHeartbeat: seed,
	})

	now := time.Now()
	r.RefreshHeartbeats(now)

	for _, s := range r.Systems() {
		switch s.Status {
		case models.SystemStatusOnline:
			if !s.LastHeartbeat.Equal(now) {
				t.Errorf("online system %s heartbeat not refreshed", s.ID)
			}
		default:
			if s.LastHeartbeat.Equal(now) {
				t.Errorf("offline system %s heartbeat refreshed", s.ID)
			}
		}
	}
}

func TestResampleMetricsBands(t *testing.T) {
	t.Parallel()
	r := Seed(time.Now())
	now := time.Now()
	r.ResampleMetrics(now)

	for _, c := range r.Cameras() {
		if c.Metrics.FPS < 28 || c.Metrics.FPS > 32 {
			t.Errorf("camera %s fps = %v, want within [28,32]", c.ID, c.Metrics.FPS)
		}
		if c.Metrics.Temperature < 40 || c.Metrics.Temperature > 50 {
			t.Errorf("camera %s temperature = %v, want within [40,50]", c.ID, c.Metrics.Temperature)
		}
		if c.Metrics.Resolution != "1920x1080" {
			t.Errorf("camera %s resolution changed to %q", c.ID, c.Metrics.Resolution)
		}
		if !c.LastUpdate.Equal(now) {
			t.Errorf("camera %s lastUpdate not refreshed", c.ID)
		}
	}
}

func TestCamerasForUnknownSystem(t *testing.T) {
	t.Parallel()
	r := Seed(time.Now())
	if got := r.CamerasFor("system_404"); len(got) != 0 {
		t.Errorf("got %d cameras for unknown system, want 0", len(got))
	}
}
