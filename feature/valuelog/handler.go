package valuelog

import (
	"collection-pricer/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the value log.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the value log routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/valuelog")
	group.Get("/", h.HandleHistory)
	group.Post("/", h.HandleRecord)
}

// HandleHistory returns recent snapshots.
// @Summary Value History
// @Description Newest collection value snapshots first.
// @Tags valuelog
// @Produce json
// @Param limit query int false "Maximum snapshots (default 30)"
// @Success 200 {object} History "History"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /valuelog [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	history, err := h.service.History(c.UserContext(), c.QueryInt("limit", 30))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Value history failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(history)
}

// HandleRecord records a snapshot now.
// @Summary Record Snapshot
// @Description Value the owned collection and store a snapshot.
// @Tags valuelog
// @Produce json
// @Success 201 {object} Snapshot "Snapshot"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /valuelog [post]
func (h *Handler) HandleRecord(c *fiber.Ctx) error {
	snap, err := h.service.Record(c.UserContext())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Value snapshot failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(snap)
}
