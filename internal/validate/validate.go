// Package validate holds the pure input checks every command must pass
// before it may touch shared device state.
package validate

import (
	"math"
	"regexp"
	"strings"

	"github.com/your-org/fleetwatch/internal/models"
	"github.com/your-org/fleetwatch/pkg/dto"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)

// ID reports whether s is a well-formed device/system/session identifier:
// alphanumeric plus underscore and hyphen, 1 to 100 characters.
func ID(s string) bool {
	return idPattern.MatchString(s)
}

// Settings reports whether a decoded settings payload is acceptable: every
// key must be a recognized setting name and every value a finite number. A
// single bad key or value rejects the whole payload. Range is not checked
// here; out-of-range values are clamped at the write, not rejected.
func Settings(settings map[string]float64) bool {
	if len(settings) == 0 {
		return false
	}
	for key, value := range settings {
		if !knownSettingKey(key) {
			return false
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return false
		}
	}
	return true
}

func knownSettingKey(key string) bool {
	for _, k := range models.SettingKeys {
		if k == key {
			return true
		}
	}
	return false
}

// RecordingConfig reports whether an inbound recording config is acceptable.
// All fields are optional; present fields must be well-formed. Defaults for
// absent fields are applied by the session manager, not here.
func RecordingConfig(cfg dto.RecordingConfigRequest) bool {
	switch models.VideoQuality(cfg.VideoQuality) {
	case "", models.VideoQualityLow, models.VideoQualityMedium, models.VideoQualityHigh:
	default:
		return false
	}
	if cfg.LidarPointDensity != nil {
		d := *cfg.LidarPointDensity
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return false
		}
	}
	return true
}

// SanitizeString trims surrounding whitespace and strips angle brackets from
// free-text input before storage. Defense in depth only; it is not an HTML
// sanitizer.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "<", "")
	return strings.ReplaceAll(s, ">", "")
}
