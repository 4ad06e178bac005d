package integrity

import (
	"vocab-manager/core/logger"

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

// ImageCheckResponse is the body of GET /integrity/images.
type ImageCheckResponse struct {
	Status string `json:"status"`
	ImageReport
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/images", h.HandleImageCheck)
}

// HandleImageCheck checks and optionally fixes image storage.
// @Summary Check Image Storage
// @Description Compares image rows with the objects in the bucket. With fix=true rows without object are deleted and stray objects removed.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Fix the differences"
// @Success 200 {object} integrity.ImageCheckResponse
// @Failure 500 {object} server.ErrorResponse
// @Security ApiKeyAuth
// @Router /integrity/images [get]
func (h *Handler) HandleImageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.QueryBool("fix")

	report, err := h.service.CheckImages(c.UserContext())
	if err != nil {
		l.Error("Image check failed", zap.Error(err))
		return err
	}

	if report.Clean() || !fix {
		if !report.Clean() {
			l.Warn("Image storage out of sync", zap.Strings("missing", report.Missing), zap.Strings("stray", report.Stray))
		}
		return c.JSON(ImageCheckResponse{Status: "checked", ImageReport: *report})
	}

	l.Info("Attempting to fix image storage")
	if err := h.service.FixImages(c.UserContext(), report); err != nil {
		l.Error("Image fix failed", zap.Error(err))
		return err
	}
	return c.JSON(ImageCheckResponse{Status: "fixed", ImageReport: *report})
}
