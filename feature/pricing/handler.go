package pricing

import (
	"errors"

	"collection-pricer/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for price lookups.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the pricing routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/prices", h.HandleGetPrice)
}

// HandleGetPrice resolves the price of a single card.
// @Summary Get Price
// @Description Resolve a card price from the catalog and marketplace sources.
// @Tags prices
// @Produce json
// @Param name query string false "Card name"
// @Param set query string false "Set name"
// @Param rarity query string false "Rarity"
// @Param card_id query string false "Catalog card ID"
// @Param set_id query string false "Catalog set ID"
// @Param quantity query int false "Quantity (default 1)"
// @Param condition query string false "Condition (NM, LP, PL, DMG)"
// @Success 200 {object} Quote "Quote"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "No price data"
// @Failure 503 {object} map[string]string "No source configured"
// @Router /prices [get]
func (h *Handler) HandleGetPrice(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	q := Query{
		Name:      c.Query("name"),
		Set:       c.Query("set"),
		Rarity:    c.Query("rarity"),
		CardID:    c.Query("card_id"),
		SetID:     c.Query("set_id"),
		Quantity:  c.QueryInt("quantity", 1),
		Condition: c.Query("condition"),
	}

	quote, err := h.service.Lookup(c.UserContext(), q)
	switch {
	case err == nil:
		return c.JSON(quote)
	case errors.Is(err, ErrInvalidQuery):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotConfigured):
		l.Warn("Price lookup with no source configured")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNoPriceData):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		l.Error("Price lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
