package refresh

import (
	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	scheduler *Scheduler
	handler   *Handler
}

// NewFeature creates the refresh feature around an existing scheduler.
func NewFeature(scheduler *Scheduler) *Feature {
	return &Feature{scheduler: scheduler, handler: NewHandler(scheduler)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "refresh"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.scheduler != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
