package synchro

import (
	"errors"
	"strconv"

	"catalog-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for synchronization.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the synchronization routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/venue-providers/:id", h.HandleSyncVenueProvider)
	group.Get("/providers/:id/events", h.HandleGetEvents)
}

// HandleSyncVenueProvider runs a synchronization and returns its counters.
// @Summary Synchronize Venue Provider
// @Description Synchronize the catalog of one venue provider from its provider.
// @Tags sync
// @Produce json
// @Param id path int true "Venue provider ID"
// @Param limit query int false "Maximum number of checked entries"
// @Success 200 {object} reconcile.Stats "Run counters"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Venue provider not found"
// @Failure 422 {object} map[string]string "Provider has no adapter"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/venue-providers/{id} [post]
func (h *Handler) HandleSyncVenueProvider(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid venue provider id"})
	}
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must not be negative"})
	}

	l := logger.WithRayID(h.logger, c)
	stats, err := h.service.SyncVenueProvider(c.UserContext(), id, limit)
	switch {
	case errors.Is(err, ErrVenueProviderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrUnknownProvider):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		l.Error("Synchronization failed", zap.Uint("venue_provider_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
			"stats": stats,
		})
	}
	return c.JSON(stats)
}

// HandleGetEvents returns the event trail of a provider.
// @Summary Get Provider Events
// @Description List the latest synchronization events of a provider, newest first.
// @Tags sync
// @Produce json
// @Param id path int true "Provider ID"
// @Param limit query int false "Maximum number of events" default(100)
// @Success 200 {array} catalog.LocalProviderEvent "Events"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/providers/{id}/events [get]
func (h *Handler) HandleGetEvents(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid provider id"})
	}

	events, err := h.service.Events(c.UserContext(), id, c.QueryInt("limit", 100))
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to list provider events", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(events)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
