package languages

import (
	"vocab-manager/core/logger"
	"vocab-manager/core/middleware/auth"
	"vocab-manager/core/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for languages.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the language routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/languages", h.HandleList)

	me := app.Group("/users/me/languages", auth.Required())
	me.Get("/", h.HandleListMine)
	me.Post("/", h.HandleAdd)
	me.Delete("/:code", h.HandleRemove)
}

// HandleList returns all languages.
// @Summary List languages
// @Tags languages
// @Produce json
// @Success 200 {array} languages.Language
// @Router /languages [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	langs, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(langs)
}

// HandleListMine returns the caller's languages.
// @Summary List my languages
// @Tags languages
// @Produce json
// @Param kind query string false "native or learning"
// @Success 200 {array} languages.UserLanguage
// @Security BearerAuth
// @Router /users/me/languages [get]
func (h *Handler) HandleListMine(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	kind := Kind(c.Query("kind"))
	if kind != "" && !kind.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "kind must be native or learning")
	}
	out, err := h.service.UserLanguages(c.UserContext(), userID, kind)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// HandleAdd adds a language to the caller's list.
// @Summary Add my language
// @Tags languages
// @Accept json
// @Produce json
// @Param body body languages.AddInput true "Language"
// @Success 201 {object} languages.UserLanguage
// @Failure 409 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /users/me/languages [post]
func (h *Handler) HandleAdd(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	var in AddInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(in); err != nil {
		return err
	}
	ul, err := h.service.Add(c.UserContext(), userID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ul)
}

// HandleRemove removes a language from the caller's list.
// @Summary Remove my language
// @Tags languages
// @Param code path string true "Iso code or name"
// @Param kind query string false "native or learning"
// @Success 204
// @Failure 404 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /users/me/languages/{code} [delete]
func (h *Handler) HandleRemove(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	code := c.Params("code")
	if err := h.service.Remove(c.UserContext(), userID, code, Kind(c.Query("kind"))); err != nil {
		return err
	}
	logger.WithRayID(h.service.logger, c).Info("User language removed", zap.Uint("user_id", userID), zap.String("language", code))
	return c.SendStatus(fiber.StatusNoContent)
}
