package validate

import (
	"math"
	"strings"
	"testing"

	"github.com/your-org/fleetwatch/pkg/dto"
)

func TestID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "simple", id: "camera_1", want: true},
		{name: "hyphen", id: "cam-1", want: true},
		{name: "max length", id: strings.Repeat("a", 100), want: true},
		{name: "empty", id: "", want: false},
		{name: "too long", id: strings.Repeat("a", 101), want: false},
		{name: "semicolon", id: "cam;1", want: false},
		{name: "space", id: "cam 1", want: false},
		{name: "path traversal", id: "../etc", want: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := ID(test.id); got != test.want {
				t.Errorf("ID(%q) = %v, want %v", test.id, got, test.want)
			}
		})
	}
}

func TestSettings(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		settings map[string]float64
		want     bool
	}{
		{
			name:     "all keys in range",
			settings: map[string]float64{"exposure": 50, "gain": 50, "whiteBalance": 50, "focus": 50, "zoom": 1},
			want:     true,
		},
		{
			name:     "single key",
			settings: map[string]float64{"exposure": 0},
			want:     true,
		},
		{
			name:     "boundary values",
			settings: map[string]float64{"gain": 0, "zoom": 1000},
			want:     true,
		},
		{
			name:     "unknown key rejects whole payload",
			settings: map[string]float64{"exposure": 10, "foo": 1},
			want:     false,
		},
		{
			name:     "above range passes, clamped at the write",
			settings: map[string]float64{"exposure": 2000},
			want:     true,
		},
		{
			name:     "below range passes, clamped at the write",
			settings: map[string]float64{"focus": -1},
			want:     true,
		},
		{
			name:     "nan",
			settings: map[string]float64{"zoom": math.NaN()},
			want:     false,
		},
		{
			name:     "infinity",
			settings: map[string]float64{"gain": math.Inf(1)},
			want:     false,
		},
		{
			name:     "empty payload",
			settings: map[string]float64{},
			want:     false,
		},
		{
			name:     "nil payload",
			settings: nil,
			want:     false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := Settings(test.settings); got != test.want {
				t.Errorf("Settings(%v) = %v, want %v", test.settings, got, test.want)
			}
		})
	}
}

func TestRecordingConfig(t *testing.T) {
	t.Parallel()
	density := func(v float64) *float64 { return &v }
	tests := []struct {
		name string
		cfg  dto.RecordingConfigRequest
		want bool
	}{
		{name: "empty config is valid", cfg: dto.RecordingConfigRequest{}, want: true},
		{name: "high quality", cfg: dto.RecordingConfigRequest{VideoQuality: "high"}, want: true},
		{name: "low quality", cfg: dto.RecordingConfigRequest{VideoQuality: "low"}, want: true},
		{name: "unknown quality", cfg: dto.RecordingConfigRequest{VideoQuality: "ultra"}, want: false},
		{name: "zero density", cfg: dto.RecordingConfigRequest{LidarPointDensity: density(0)}, want: true},
		{name: "positive density", cfg: dto.RecordingConfigRequest{LidarPointDensity: density(2.5)}, want: true},
		{name: "negative density", cfg: dto.RecordingConfigRequest{LidarPointDensity: density(-1)}, want: false},
		{name: "nan density", cfg: dto.RecordingConfigRequest{LidarPointDensity: density(math.NaN())}, want: false},
		{name: "codec alone", cfg: dto.RecordingConfigRequest{Codec: "h265"}, want: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := RecordingConfig(test.cfg); got != test.want {
				t.Errorf("RecordingConfig(%+v) = %v, want %v", test.cfg, got, test.want)
			}
		})
	}
}

func TestSanitizeString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "h264", want: "h264"},
		{name: "script tag", in: "<script>x", want: "scriptx"},
		{name: "surrounding space", in: "  output/path  ", want: "output/path"},
		{name: "angle brackets only", in: "<>", want: ""},
		{name: "empty", in: "", want: ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeString(test.in); got != test.want {
				t.Errorf("SanitizeString(%q) = %q, want %q", test.in, got, test.want)
			}
		})
	}
}
