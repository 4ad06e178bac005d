package vocabulary

import (
	"io"
	"slices"
	"strconv"

	"vocab-manager/core/logger"
	"vocab-manager/core/middleware/auth"
	"vocab-manager/core/utils"
	"vocab-manager/core/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for words and collections.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Page is a paginated list response.
type Page[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}

// RegisterRoutes registers the vocabulary routes. Every route needs a user.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	words := app.Group("/words", auth.Required())
	words.Get("/", h.HandleList)
	words.Post("/", h.HandleCreate)
	words.Post("/multiple", h.HandleCreateMany)
	words.Get("/:id", h.HandleGet)
	words.Patch("/:id", h.HandleUpdate)
	words.Delete("/:id", h.HandleDelete)
	words.Post("/:id/favorite", h.HandleAddFavorite)
	words.Delete("/:id/favorite", h.HandleRemoveFavorite)
	words.Post("/:id/images/upload", h.HandleUploadImage)
	words.Get("/:id/relations/:kind", h.HandleRelationList)
	words.Post("/:id/relations/:kind", h.HandleRelationAppend)
	words.Delete("/:id/relations/:kind/:child", h.HandleRelationRemove)
	words.Get("/:id/:field", h.HandleRelatedList)
	words.Post("/:id/:field", h.HandleRelatedAppend)
	words.Get("/:id/:field/:child", h.HandleRelatedGet)
	words.Patch("/:id/:field/:child", h.HandleRelatedPatch)
	words.Delete("/:id/:field/:child", h.HandleRelatedRemove)

	app.Get("/images/:id/content", auth.Required(), h.HandleImageContent)

	cols := app.Group("/collections", auth.Required())
	cols.Get("/", h.HandleCollectionList)
	cols.Post("/", h.HandleCollectionCreate)
	cols.Get("/:id", h.HandleCollectionGet)
	cols.Patch("/:id", h.HandleCollectionUpdate)
	cols.Delete("/:id", h.HandleCollectionDelete)
	cols.Post("/:id/words", h.HandleCollectionAppend)
	cols.Delete("/:id/words/:word", h.HandleCollectionRemoveWord)
	cols.Post("/:id/favorite", h.HandleCollectionAddFavorite)
	cols.Delete("/:id/favorite", h.HandleCollectionRemoveFavorite)
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := utils.ParseID(c.Params(name))
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return id, nil
}

func relatedParam(c *fiber.Ctx) (string, error) {
	field := c.Params("field")
	if !slices.Contains(RelatedFields, field) {
		return "", fiber.NewError(fiber.StatusNotFound, "unknown related field "+strconv.Quote(field))
	}
	return field, nil
}

func kindParam(c *fiber.Ctx) (RelationKind, error) {
	kind := RelationKind(c.Params("kind"))
	if !kind.Valid() {
		return "", fiber.NewError(fiber.StatusNotFound, "unknown relation kind "+strconv.Quote(string(kind)))
	}
	return kind, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return validation.Struct(out)
}

// HandleList lists the caller's words.
// @Summary List words
// @Tags words
// @Produce json
// @Param search query string false "Text contains"
// @Param language query string false "Iso code or name"
// @Param tag query string false "Tag name"
// @Param activity_status query string false "active, inactive or mastered"
// @Param favorite query bool false "Only favorites"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} vocabulary.Page[vocabulary.Word]
// @Security BearerAuth
// @Router /words [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	filter := WordFilter{
		Search:         c.Query("search"),
		Language:       c.Query("language"),
		Tag:            c.Query("tag"),
		ActivityStatus: ActivityStatus(c.Query("activity_status")),
		Favorite:       utils.ToBool(c.Query("favorite")),
		Limit:          c.QueryInt("limit", 20),
		Offset:         c.QueryInt("offset", 0),
	}
	words, total, err := h.service.List(c.UserContext(), userID, filter)
	if err != nil {
		return err
	}
	return c.JSON(Page[*Word]{Count: total, Results: words})
}

// HandleCreate creates a word with its nested fields.
// @Summary Create word
// @Tags words
// @Accept json
// @Produce json
// @Param body body vocabulary.WordInput true "Word"
// @Success 201 {object} vocabulary.WordDetail
// @Success 200 {object} vocabulary.WordDetail "An identical word already existed"
// @Failure 400 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /words [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	var in WordInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	word, created, err := h.service.Create(c.UserContext(), userID, in)
	if err != nil {
		return err
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(word)
}

// HandleCreateMany creates several words in one transaction.
// @Summary Create words
// @Tags words
// @Accept json
// @Produce json
// @Param body body vocabulary.WordsInput true "Words"
// @Success 201 {array} vocabulary.WordDetail
// @Failure 409 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /words/multiple [post]
func (h *Handler) HandleCreateMany(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	var in WordsInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	words, err := h.service.CreateMany(c.UserContext(), userID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(words)
}

// HandleGet returns one word.
// @Summary Get word
// @Tags words
// @Produce json
// @Param id path int true "Word id"
// @Success 200 {object} vocabulary.WordDetail
// @Failure 404 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /words/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	word, err := h.service.Get(c.UserContext(), userID, id)
	if err != nil {
		return err
	}
	return c.JSON(word)
}

// HandleUpdate partially updates a word.
// @Summary Update word
// @Tags words
// @Accept json
// @Produce json
// @Param id path int true "Word id"
// @Param body body vocabulary.WordPatch true "Fields to change"
// @Success 200 {object} vocabulary.WordDetail
// @Failure 409 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /words/{id} [patch]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in WordPatch
	if err := parseBody(c, &in); err != nil {
		return err
	}
	word, err := h.service.Update(c.UserContext(), userID, id, in)
	if err != nil {
		return err
	}
	return c.JSON(word)
}

// HandleDelete deletes a word.
// @Summary Delete word
// @Tags words
// @Param id path int true "Word id"
// @Success 204
// @Failure 404 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /words/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	report, err := h.service.Delete(c.UserContext(), userID, id)
	if err != nil {
		return err
	}
	logger.WithRayID(h.service.logger, c).Debug("Word orphans swept", zap.Any("deleted", report.Deleted))
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleAddFavorite marks a word as favorite.
// @Summary Favorite word
// @Tags words
// @Param id path int true "Word id"
// @Success 201
// @Failure 409 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /words/{id}/favorite [post]
func (h *Handler) HandleAddFavorite(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.AddFavorite(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusCreated)
}

// HandleRemoveFavorite unmarks a favorite word.
// @Summary Unfavorite word
// @Tags words
// @Param id path int true "Word id"
// @Success 204
// @Failure 404 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /words/{id}/favorite [delete]
func (h *Handler) HandleRemoveFavorite(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.RemoveFavorite(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRelatedList lists the children of a word field.
// @Summary List related objects
// @Tags words
// @Produce json
// @Param id path int true "Word id"
// @Param field path string true "translations, definitions, examples, notes, quote_associations, image_associations, tags or form_groups"
// @Param search query string false "Text contains"
// @Success 200 {array} object
// @Security BearerAuth
// @Router /words/{id}/{field} [get]
func (h *Handler) HandleRelatedList(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	field, err := relatedParam(c)
	if err != nil {
		return err
	}
	out, err := h.service.RelatedList(c.UserContext(), userID, id, field, c.Query("search"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// HandleRelatedAppend adds children to a word field.
// @Summary Add related objects
// @Tags words
// @Accept json
// @Produce json
// @Param id path int true "Word id"
// @Param field path string true "Related field"
// @Param body body []object true "Objects to add"
// @Success 201 {array} object
// @Failure 409 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /words/{id}/{field} [post]
func (h *Handler) HandleRelatedAppend(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	field, err := relatedParam(c)
	if err != nil {
		return err
	}
	out, err := h.service.RelatedAppend(c.UserContext(), userID, id, field, c.Body())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// HandleRelatedGet returns one child of a word field.
// @Summary Get related object
// @Tags words
// @Produce json
// @Param id path int true "Word id"
// @Param field path string true "Related field"
// @Param child path int true "Object id"
// @Success 200 {object} object
// @Failure 404 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /words/{id}/{field}/{child} [get]
func (h *Handler) HandleRelatedGet(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	field, err := relatedParam(c)
	if err != nil {
		return err
	}
	child, err := paramID(c, "child")
	if err != nil {
		return err
	}
	out, err := h.service.RelatedGet(c.UserContext(), userID, id, field, child)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// HandleRelatedPatch updates one child of a word field.
// @Summary Update related object
// @Tags words
// @Accept json
// @Produce json
// @Param id path int true "Word id"
// @Param field path string true "Related field"
// @Param child path int true "Object id"
// @Param body body object true "Fields to change"
// @Success 200 {object} object
// @Failure 409 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /words/{id}/{field}/{child} [patch]
func (h *Handler) HandleRelatedPatch(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	field, err := relatedParam(c)
	if err != nil {
		return err
	}
	child, err := paramID(c, "child")
	if err != nil {
		return err
	}
	out, err := h.service.RelatedPatch(c.UserContext(), userID, id, field, child, c.Body())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// HandleRelatedRemove detaches one child from a word.
// @Summary Remove related object
// @Tags words
// @Param id path int true "Word id"
// @Param field path string true "Related field"
// @Param child path int true "Object id"
// @Success 204
// @Failure 404 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /words/{id}/{field}/{child} [delete]
func (h *Handler) HandleRelatedRemove(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	field, err := relatedParam(c)
	if err != nil {
		return err
	}
	child, err := paramID(c, "child")
	if err != nil {
		return err
	}
	if err := h.service.RelatedRemove(c.UserContext(), userID, id, field, child); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRelationList lists the synonyms, antonyms, forms or similars of a word.
// @Summary List relations
// @Tags words
// @Produce json
// @Param id path int true "Word id"
// @Param kind path string true "synonym, antonym, form or similar"
// @Success 200 {array} vocabulary.RelatedWord
// @Security BearerAuth
// @Router /words/{id}/relations/{kind} [get]
func (h *Handler) HandleRelationList(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	out, err := h.service.RelatedList(c.UserContext(), userID, id, RelationField(kind), "")
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// HandleRelationAppend links words to a word.
// @Summary Add relations
// @Tags words
// @Accept json
// @Produce json
// @Param id path int true "Word id"
// @Param kind path string true "synonym, antonym, form or similar"
// @Param body body []vocabulary.RelationInput true "Relations"
// @Success 201 {array} vocabulary.RelatedWord
// @Failure 400 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /words/{id}/relations/{kind} [post]
func (h *Handler) HandleRelationAppend(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	out, err := h.service.RelatedAppend(c.UserContext(), userID, id, RelationField(kind), c.Body())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// HandleRelationRemove unlinks a related word.
// @Summary Remove relation
// @Tags words
// @Param id path int true "Word id"
// @Param kind path string true "synonym, antonym, form or similar"
// @Param child path int true "Relation id"
// @Success 204
// @Failure 404 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /words/{id}/relations/{kind}/{child} [delete]
func (h *Handler) HandleRelationRemove(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	child, err := paramID(c, "child")
	if err != nil {
		return err
	}
	if err := h.service.RelatedRemove(c.UserContext(), userID, id, RelationField(kind), child); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUploadImage attaches an uploaded image to a word.
// @Summary Upload image
// @Tags words
// @Accept mpfd
// @Produce json
// @Param id path int true "Word id"
// @Param image formData file true "jpeg, png, gif or webp, max 4 MB"
// @Success 201 {object} vocabulary.ImageAssociation
// @Failure 400 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /words/{id}/images/upload [post]
func (h *Handler) HandleUploadImage(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "image file is required")
	}
	if fh.Size > MaxImageSize {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "image is too large")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return err
	}
	img, err := h.service.UploadImage(c.UserContext(), userID, id, data)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(img)
}

// HandleImageContent streams a stored image.
// @Summary Image content
// @Tags words
// @Produce image/png,image/jpeg,image/gif,image/webp
// @Param id path int true "Image id"
// @Success 200 {file} binary
// @Failure 404 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /images/{id}/content [get]
func (h *Handler) HandleImageContent(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	rc, img, err := h.service.OpenImage(c.UserContext(), userID, id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, img.ContentType)
	return c.SendStream(rc, int(img.Size))
}

// HandleCollectionList lists the caller's collections.
// @Summary List collections
// @Tags collections
// @Produce json
// @Param search query string false "Title contains"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} vocabulary.Page[vocabulary.CollectionDetail]
// @Security BearerAuth
// @Router /collections [get]
func (h *Handler) HandleCollectionList(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	out, total, err := h.service.ListCollections(c.UserContext(), userID, c.Query("search"), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(Page[*CollectionDetail]{Count: total, Results: out})
}

// HandleCollectionCreate creates a collection.
// @Summary Create collection
// @Tags collections
// @Accept json
// @Produce json
// @Param body body vocabulary.CollectionInput true "Collection"
// @Success 201 {object} vocabulary.CollectionDetail
// @Failure 404 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /collections [post]
func (h *Handler) HandleCollectionCreate(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	var in CollectionInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.service.CreateCollection(c.UserContext(), userID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// HandleCollectionGet returns a collection with its words.
// @Summary Get collection
// @Tags collections
// @Produce json
// @Param id path int true "Collection id"
// @Success 200 {object} vocabulary.CollectionDetail
// @Failure 404 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /collections/{id} [get]
func (h *Handler) HandleCollectionGet(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.service.GetCollection(c.UserContext(), userID, id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// HandleCollectionUpdate partially updates a collection.
// @Summary Update collection
// @Tags collections
// @Accept json
// @Produce json
// @Param id path int true "Collection id"
// @Param body body vocabulary.CollectionPatch true "Fields to change"
// @Success 200 {object} vocabulary.CollectionDetail
// @Failure 409 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /collections/{id} [patch]
func (h *Handler) HandleCollectionUpdate(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in CollectionPatch
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.service.UpdateCollection(c.UserContext(), userID, id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// HandleCollectionDelete deletes a collection.
// @Summary Delete collection
// @Tags collections
// @Param id path int true "Collection id"
// @Success 204
// @Security BearerAuth
// @Router /collections/{id} [delete]
func (h *Handler) HandleCollectionDelete(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteCollection(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type collectionWords struct {
	Words []WordRef `json:"words" validate:"required,min=1,dive"`
}

// HandleCollectionAppend adds words to a collection.
// @Summary Add collection words
// @Tags collections
// @Accept json
// @Produce json
// @Param id path int true "Collection id"
// @Param body body vocabulary.collectionWords true "Words"
// @Success 200 {object} vocabulary.CollectionDetail
// @Failure 404 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /collections/{id}/words [post]
func (h *Handler) HandleCollectionAppend(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in collectionWords
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.service.AppendCollectionWords(c.UserContext(), userID, id, in.Words)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// HandleCollectionRemoveWord takes a word out of a collection.
// @Summary Remove collection word
// @Tags collections
// @Param id path int true "Collection id"
// @Param word path int true "Word id"
// @Success 204
// @Security BearerAuth
// @Router /collections/{id}/words/{word} [delete]
func (h *Handler) HandleCollectionRemoveWord(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	wordID, err := paramID(c, "word")
	if err != nil {
		return err
	}
	if err := h.service.RemoveCollectionWord(c.UserContext(), userID, id, wordID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleCollectionAddFavorite marks a collection as favorite.
// @Summary Favorite collection
// @Tags collections
// @Param id path int true "Collection id"
// @Success 201
// @Failure 409 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /collections/{id}/favorite [post]
func (h *Handler) HandleCollectionAddFavorite(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.AddFavoriteCollection(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusCreated)
}

// HandleCollectionRemoveFavorite unmarks a favorite collection.
// @Summary Unfavorite collection
// @Tags collections
// @Param id path int true "Collection id"
// @Success 204
// @Failure 404 {object} server.ErrorResponse
// @Security BearerAuth
// @Router /collections/{id}/favorite [delete]
func (h *Handler) HandleCollectionRemoveFavorite(c *fiber.Ctx) error {
	userID, _ := auth.UserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.RemoveFavoriteCollection(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
