package integrity

import (
	"catalog-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/storage", h.HandleStorageCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Checks the catalog schema and the thumbnail storage.
// @Tags integrity
// @Produce json
// @Success 200 {object} Report "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := h.service.CheckAll(c.UserContext())
	if len(report.Errors) > 0 {
		l.Warn("Integrity checks reported errors", zap.Any("errors", report.Errors))
	}
	return c.JSON(report)
}

// HandleSchemaCheck checks the catalog schema.
// @Summary Check Catalog Schema
// @Description Checks that the database tables match the catalog models.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleStorageCheck checks and optionally fixes the thumbnail storage.
// @Summary Check Storage
// @Description Checks that the thumbnail bucket and prefixes exist. Optionally creates them.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the missing bucket and prefixes"
// @Success 200 {object} map[string]interface{} "Storage Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckStorage(c.UserContext())
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if fix && (!report.BucketExists || len(report.MissingPrefixes) > 0) {
		l.Info("Attempting to fix storage", zap.Strings("missing", report.MissingPrefixes))
		if err := h.service.FixStorage(c.UserContext(), report.MissingPrefixes); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to fix storage",
				"details": err.Error(),
				"missing": report.MissingPrefixes,
			})
		}
		return c.JSON(fiber.Map{
			"status": "fixed",
			"fixed":  report.MissingPrefixes,
		})
	}

	return c.JSON(fiber.Map{
		"status": "checked",
		"report": report,
	})
}
