package exercises

import (
	"strconv"

	"vocab-manager/core/middleware/auth"
	"vocab-manager/core/utils"
	"vocab-manager/core/validation"
	"vocab-manager/feature/vocabulary"

	"github.com/gofiber/fiber/v2"
)

// Handler handles HTTP requests for exercises.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the exercise routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	ex := app.Group("/exercises", auth.Required())
	ex.Get("/", h.HandleList)
	ex.Get("/favorites", h.HandleFavorites)
	ex.Get("/translator/settings", h.HandleSettings)
	ex.Patch("/translator/settings", h.HandleUpdateSettings)
	ex.Get("/:exercise/available-words", h.HandleAvailableWords)
	ex.Get("/:exercise/available-collections", h.HandleAvailableCollections)
	ex.Post("/:exercise/favorite", h.HandleAddFavorite)
	ex.Delete("/:exercise/favorite", h.HandleRemoveFavorite)
	ex.Get("/:exercise/word-sets", h.HandleSetList)
	ex.Post("/:exercise/word-sets", h.HandleSetCreate)
	ex.Get("/:exercise/word-sets/:id", h.HandleSetGet)
	ex.Patch("/:exercise/word-sets/:id", h.HandleSetUpdate)
	ex.Delete("/:exercise/word-sets/:id", h.HandleSetDelete)
}

func exerciseParam(c *fiber.Ctx) (Exercise, error) {
	ex := Exercise(c.Params("exercise"))
	if !ex.Valid() {
		return "", fiber.NewError(fiber.StatusNotFound, "unknown exercise "+strconv.Quote(string(ex)))
	}
	return ex, nil
}

func setParams(c *fiber.Ctx) (Exercise, uint, error) {
	ex, err := exerciseParam(c)
	if err != nil {
		return "", 0, err
	}
	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return "", 0, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return ex, id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return validation.Struct(out)
}

// HandleList returns the exercises.
// @Summary List exercises
// @Tags exercises
// @Produce json
// @Success 200 {array} exercises.Info
// @Security BearerAuth
// @Router /exercises [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	return c.JSON(Exercises)
}

// HandleSettings returns the caller's translator defaults.
// @Summary Translator settings
// @Tags exercises
// @Produce json
// @Success 200 {object} exercises.TranslatorSettings
// @Security BearerAuth
// @Router /exercises/translator/settings [get]
func (h *Handler) HandleSettings(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	st, err := h.service.TranslatorSettings(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(st)
}

// HandleUpdateSettings changes the caller's translator defaults.
// @Summary Update translator settings
// @Tags exercises
// @Accept json
// @Produce json
// @Param body body exercises.SettingsPatch true "Settings to change"
// @Success 200 {object} exercises.TranslatorSettings
// @Failure 400 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /exercises/translator/settings [patch]
func (h *Handler) HandleUpdateSettings(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	var in SettingsPatch
	if err := parseBody(c, &in); err != nil {
		return err
	}
	st, err := h.service.UpdateTranslatorSettings(c.UserContext(), userID, in)
	if err != nil {
		return err
	}
	return c.JSON(st)
}

// HandleAvailableWords lists the caller's words usable in an exercise.
// @Summary Available words
// @Tags exercises
// @Produce json
// @Param exercise path string true "translator or associate"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} vocabulary.Page[vocabulary.Word]
// @Security BearerAuth
// @Router /exercises/{exercise}/available-words [get]
func (h *Handler) HandleAvailableWords(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	ex, err := exerciseParam(c)
	if err != nil {
		return err
	}
	words, total, err := h.service.AvailableWords(c.UserContext(), userID, ex, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(vocabulary.Page[*vocabulary.Word]{Count: total, Results: words})
}

// HandleAvailableCollections lists the caller's collections holding words usable in an exercise.
// @Summary Available collections
// @Tags exercises
// @Produce json
// @Param exercise path string true "translator or associate"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} vocabulary.Page[exercises.AvailableCollection]
// @Security BearerAuth
// @Router /exercises/{exercise}/available-collections [get]
func (h *Handler) HandleAvailableCollections(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	ex, err := exerciseParam(c)
	if err != nil {
		return err
	}
	cols, total, err := h.service.AvailableCollections(c.UserContext(), userID, ex, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(vocabulary.Page[*AvailableCollection]{Count: total, Results: cols})
}

// HandleFavorites lists the caller's favorite exercises.
// @Summary Favorite exercises
// @Tags exercises
// @Produce json
// @Success 200 {array} exercises.Info
// @Security BearerAuth
// @Router /exercises/favorites [get]
func (h *Handler) HandleFavorites(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	favs, err := h.service.Favorites(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(favs)
}

// HandleAddFavorite marks an exercise as favorite.
// @Summary Favorite exercise
// @Tags exercises
// @Produce json
// @Param exercise path string true "translator or associate"
// @Success 201 {object} exercises.Info
// @Failure 409 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /exercises/{exercise}/favorite [post]
func (h *Handler) HandleAddFavorite(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	ex, err := exerciseParam(c)
	if err != nil {
		return err
	}
	if err := h.service.AddFavorite(c.UserContext(), userID, ex); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(InfoOf(ex))
}

// HandleRemoveFavorite unmarks a favorite exercise.
// @Summary Unfavorite exercise
// @Tags exercises
// @Param exercise path string true "translator or associate"
// @Success 204
// @Failure 404 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /exercises/{exercise}/favorite [delete]
func (h *Handler) HandleRemoveFavorite(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	ex, err := exerciseParam(c)
	if err != nil {
		return err
	}
	if err := h.service.RemoveFavorite(c.UserContext(), userID, ex); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSetList lists the caller's word sets of an exercise.
// @Summary List word sets
// @Tags exercises
// @Produce json
// @Param exercise path string true "translator or associate"
// @Param search query string false "Name or word text contains"
// @Success 200 {object} vocabulary.Page[exercises.WordSet]
// @Security BearerAuth
// @Router /exercises/{exercise}/word-sets [get]
func (h *Handler) HandleSetList(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	ex, err := exerciseParam(c)
	if err != nil {
		return err
	}
	sets, total, err := h.service.ListSets(c.UserContext(), userID, ex, c.Query("search"), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(vocabulary.Page[*WordSet]{Count: total, Results: sets})
}

// HandleSetCreate creates a word set.
// @Summary Create word set
// @Tags exercises
// @Accept json
// @Produce json
// @Param exercise path string true "translator or associate"
// @Param body body exercises.SetInput true "Word set"
// @Success 201 {object} exercises.WordSet
// @Failure 404 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /exercises/{exercise}/word-sets [post]
func (h *Handler) HandleSetCreate(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	ex, err := exerciseParam(c)
	if err != nil {
		return err
	}
	var in SetInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	ws, err := h.service.CreateSet(c.UserContext(), userID, ex, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ws)
}

// HandleSetGet returns a word set with its words.
// @Summary Get word set
// @Tags exercises
// @Produce json
// @Param exercise path string true "translator or associate"
// @Param id path int true "Word set id"
// @Success 200 {object} exercises.WordSet
// @Failure 404 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /exercises/{exercise}/word-sets/{id} [get]
func (h *Handler) HandleSetGet(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	ex, id, err := setParams(c)
	if err != nil {
		return err
	}
	ws, err := h.service.GetSet(c.UserContext(), userID, ex, id)
	if err != nil {
		return err
	}
	return c.JSON(ws)
}

// HandleSetUpdate partially updates a word set.
// @Summary Update word set
// @Tags exercises
// @Accept json
// @Produce json
// @Param exercise path string true "translator or associate"
// @Param id path int true "Word set id"
// @Param body body exercises.SetPatch true "Fields to change"
// @Success 200 {object} exercises.WordSet
// @Failure 409 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /exercises/{exercise}/word-sets/{id} [patch]
func (h *Handler) HandleSetUpdate(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	ex, id, err := setParams(c)
	if err != nil {
		return err
	}
	var in SetPatch
	if err := parseBody(c, &in); err != nil {
		return err
	}
	ws, err := h.service.UpdateSet(c.UserContext(), userID, ex, id, in)
	if err != nil {
		return err
	}
	return c.JSON(ws)
}

// HandleSetDelete deletes a word set.
// @Summary Delete word set
// @Tags exercises
// @Param exercise path string true "translator or associate"
// @Param id path int true "Word set id"
// @Success 204
// @Failure 404 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /exercises/{exercise}/word-sets/{id} [delete]
func (h *Handler) HandleSetDelete(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	ex, id, err := setParams(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteSet(c.UserContext(), userID, ex, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
