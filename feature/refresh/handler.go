package refresh

import (
	"context"
	"errors"

	"collection-pricer/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the refresh scheduler.
type Handler struct {
	scheduler *Scheduler
}

// NewHandler creates a new HTTP handler.
func NewHandler(scheduler *Scheduler) *Handler {
	return &Handler{scheduler: scheduler}
}

// RegisterRoutes registers the refresh routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/refresh")
	group.Post("/", h.HandleRun)
	group.Post("/restart", h.HandleRestart)
	group.Get("/status", h.HandleStatus)
}

// HandleRun runs one refresh invocation, resuming a checkpointed run if any.
// @Summary Run Refresh
// @Description Process the next batch of rows, resuming from the persisted cursor.
// @Tags refresh
// @Produce json
// @Success 200 {object} Report "Invocation report"
// @Failure 409 {object} map[string]string "Run in progress"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /refresh [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	return h.respond(c, h.scheduler.Run)
}

// HandleRestart discards the cursor and starts a fresh run.
// @Summary Restart Refresh
// @Description Discard any checkpoint and start a fresh refresh run.
// @Tags refresh
// @Produce json
// @Success 200 {object} Report "Invocation report"
// @Failure 409 {object} map[string]string "Run in progress"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /refresh/restart [post]
func (h *Handler) HandleRestart(c *fiber.Ctx) error {
	return h.respond(c, h.scheduler.Restart)
}

// HandleStatus reports the persisted refresh state.
// @Summary Refresh Status
// @Description Current cursor, last completed refresh and whether a run is active.
// @Tags refresh
// @Produce json
// @Success 200 {object} Status "Status"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /refresh/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	st, err := h.scheduler.Status(c.UserContext())
	if err != nil {
		logger.WithRayID(h.scheduler.deps.Logger, c).Error("Refresh status failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(st)
}

func (h *Handler) respond(c *fiber.Ctx, run func(context.Context) (*Report, error)) error {
	report, err := run(c.UserContext())
	if errors.Is(err, ErrRunInProgress) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.scheduler.deps.Logger, c).Error("Refresh failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
