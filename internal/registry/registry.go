// Package registry is the in-memory source of truth for systems and
// cameras. Every mutation happens through a validated command or the
// telemetry broadcaster; reads hand out copies so callers never alias
// guarded state.
package registry

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/your-org/fleetwatch/internal/errs"
	"github.com/your-org/fleetwatch/internal/models"
)

// Registry holds the device fleet. Construct one per server instance; there
// is no package-level singleton so tests and multi-tenant setups can hold
// isolated registries.
type Registry struct {
	mu      sync.RWMutex
	systems map[string]*models.System
	cameras map[string]*models.Camera

	// order of seeded ids, for stable listing
	systemOrder []string
	cameraOrder []string
}

func New() *Registry {
	return &Registry{
		systems: make(map[string]*models.System),
		cameras: make(map[string]*models.Camera),
	}
}

// Seed populates the registry with the default demo fleet: two systems and
// four cameras on the primary one.
func Seed(now time.Time) *Registry {
	r := New()

	r.AddSystem(&models.System{
		ID:            "system_1",
		Name:          "Primary Monitoring System",
		Status:        models.SystemStatusOnline,
		LastHeartbeat: now,
		Location:      "Building A - Floor 3",
	})
	r.AddSystem(&models.System{
		ID:            "system_2",
		Name:          "Secondary Monitoring System",
		Status:        models.SystemStatusOnline,
		LastHeartbeat: now.Add(-5 * time.Second),
		Location:      "Building B - Floor 1",
	})

	names := []string{"Front Camera", "Rear Camera", "Side Camera", "Top Camera"}
	samples := []string{
		"https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
		"https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4",
		"https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ForBiggerBlazes.mp4",
		"https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ForBiggerEscapes.mp4",
	}
	temps := []float64{45, 43, 47, 44}

	for i, name := range names {
		r.AddCamera(&models.Camera{
			ID:       fmt.Sprintf("camera_%d", i+1),
			Name:     name,
			SystemID: "system_1",
			URL:      samples[i],
			Status:   models.CameraStatusConnected,
			Settings: models.CameraSettings{
				Exposure:     50,
				Gain:         50,
				WhiteBalance: 50,
				Focus:        50,
				Zoom:         1,
			},
			Metrics: models.CameraMetrics{
				FPS:         30,
				Resolution:  "1920x1080",
				Temperature: temps[i],
				Errors:      []string{},
			},
			LastUpdate: now,
		})
	}

	return r
}

func (r *Registry) AddSystem(s *models.System) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.systems[s.ID]; !ok {
		r.systemOrder = append(r.systemOrder, s.ID)
	}
	cp := *s
	r.systems[s.ID] = &cp
}

func (r *Registry) AddCamera(c *models.Camera) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cameras[c.ID]; !ok {
		r.cameraOrder = append(r.cameraOrder, c.ID)
	}
	cp := *c
	cp.Metrics.Errors = append([]string(nil), c.Metrics.Errors...)
	r.cameras[c.ID] = &cp
}

// Systems returns all systems in seed order.
func (r *Registry) Systems() []models.System {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.System, 0, len(r.systemOrder))
	for _, id := range r.systemOrder {
		out = append(out, *r.systems[id])
	}
	return out
}

// System returns one system by id.
func (r *Registry) System(id string) (models.System, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.systems[id]
	if !ok {
		return models.System{}, errs.ErrNotFound
	}
	return *s, nil
}

// Cameras returns all cameras in seed order.
func (r *Registry) Cameras() []models.Camera {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Camera, 0, len(r.cameraOrder))
	for _, id := range r.cameraOrder {
		out = append(out, copyCamera(r.cameras[id]))
	}
	return out
}

// CamerasFor returns the cameras attached to a system. An unknown system id
// yields an empty slice; the reference is weak, lookup only.
func (r *Registry) CamerasFor(systemID string) []models.Camera {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Camera{}
	for _, id := range r.cameraOrder {
		if c := r.cameras[id]; c.SystemID == systemID {
			out = append(out, copyCamera(c))
		}
	}
	return out
}

// ApplySettings writes validated settings onto a camera, clamping each value
// into the allowed range, and returns the stored settings. The write is
// total: either the camera exists and every given key is assigned, or
// nothing changes.
func (r *Registry) ApplySettings(cameraID string, settings map[string]float64, now time.Time) (models.CameraSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cameras[cameraID]
	if !ok {
		return models.CameraSettings{}, errs.ErrNotFound
	}

	for key, value := range settings {
		c.Settings.Set(key, value)
	}
	c.LastUpdate = now

	return c.Settings, nil
}

// RefreshHeartbeats advances the heartbeat of every online system.
func (r *Registry) RefreshHeartbeats(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.systems {
		if s.Status == models.SystemStatusOnline {
			s.LastHeartbeat = now
		}
	}
}

// ResampleMetrics re-synthesizes the jittered camera metrics: frame rate in
// a band around 30 fps, temperature around ambient. Resolution and the
// error list are left untouched.
func (r *Registry) ResampleMetrics(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cameras {
		c.Metrics.FPS = 28 + rand.Float64()*4
		c.Metrics.Temperature = 40 + rand.Float64()*10
		c.LastUpdate = now
	}
}

func copyCamera(c *models.Camera) models.Camera {
	cp := *c
	cp.Metrics.Errors = append([]string(nil), c.Metrics.Errors...)
	return cp
}
