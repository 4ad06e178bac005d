package vocabulary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vocab-manager/core/reconcile"
	"vocab-manager/core/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const collectionConflictDetail = "This collection already exists."

// CollectionDetail is a collection as returned by the API.
type CollectionDetail struct {
	*Collection
	WordsCount int64 `json:"words_count"`
	Favorite   bool  `json:"favorite"`
}

type collectionIn struct {
	authorID    uint
	title       *string
	description *string
	words       *[]WordRef
	raw         any
}

type collectionWriter struct{}

func (collectionWriter) Build(uow *reconcile.UnitOfWork, in *collectionIn) (*Collection, error) {
	c := &Collection{AuthorID: in.authorID}
	if in.description != nil {
		c.Description = strings.TrimSpace(*in.description)
	}
	return c, retitle(uow, c, *in.title, in.raw)
}

func (collectionWriter) Assign(uow *reconcile.UnitOfWork, c *Collection, in *collectionIn) error {
	if in.description != nil {
		c.Description = strings.TrimSpace(*in.description)
	}
	if in.title == nil || strings.TrimSpace(*in.title) == c.Title {
		return nil
	}
	return retitle(uow, c, *in.title, in.raw)
}

// retitle sets the title of c unless another collection of the author holds it.
func retitle(uow *reconcile.UnitOfWork, c *Collection, title string, raw any) error {
	c.Title = strings.TrimSpace(title)
	c.Folded = utils.Fold(c.Title)

	var other Collection
	err := uow.Tx.Where("author_id = ? AND folded = ? AND id <> ?", c.AuthorID, c.Folded, c.ID).Take(&other).Error
	if err == nil {
		return reconcile.NewAlreadyExist(collectionConflictDetail, &other, raw)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (s *Service) collectionWordsBinding() reconcile.Binding[Collection, *collectionIn] {
	field, err := Registry.Field("collection", FieldCollectionWords)
	if err != nil {
		panic(err)
	}
	return reconcile.Binding[Collection, *collectionIn]{
		Field:   field.Name,
		Present: func(in *collectionIn) bool { return in.words != nil },
		Apply: func(uow *reconcile.UnitOfWork, field reconcile.NestedFieldSpec, c *Collection, in *collectionIn) error {
			_, err := s.reconcileCollectionWords(uow, field, c, *in.words, reconcile.Options{})
			return err
		},
	}
}

func (s *Service) reconcileCollectionWords(uow *reconcile.UnitOfWork, field reconcile.NestedFieldSpec, c *Collection, refs []WordRef, opts reconcile.Options) (*reconcile.Result[Word], error) {
	var existing []*Word
	if c.ID != 0 {
		if err := uow.Tx.Model(c).Association("Words").Find(&existing); err != nil {
			return nil, fmt.Errorf("load collection words: %w", err)
		}
	}
	res, err := s.ReconcileWordRefs(uow, c.AuthorID, field, existing, refs, opts)
	if err != nil {
		return nil, err
	}
	if opts.Append {
		if len(res.Rows) == 0 {
			return res, nil
		}
		return res, uow.Tx.Model(c).Association("Words").Append(res.Rows)
	}
	return res, reconcile.Associate(uow, c, "Words", res.Rows)
}

// ReconcileWordRefs reconciles references to existing words of the author
// against existing. References never create words: an unknown id or key is a
// NotFoundError. The caller links the returned rows.
func (s *Service) ReconcileWordRefs(uow *reconcile.UnitOfWork, authorID uint, field reconcile.NestedFieldSpec, existing []*Word, refs []WordRef, opts reconcile.Options) (*reconcile.Result[Word], error) {
	keys := make([]wordKey, len(refs))
	for i, ref := range refs {
		key := wordKey{ID: ref.ID, Text: strings.TrimSpace(ref.Text)}
		if ref.ID == 0 {
			if ref.Language == "" {
				return nil, reconcile.Invalid("", field.Name, "A word reference needs an id or a language.")
			}
			lang, err := s.langs.Resolve(uow, ref.Language)
			if err != nil {
				return nil, err
			}
			key.LanguageID = lang.ID
		}
		keys[i] = key
	}
	return reconcile.ReconcileAndApply[Word, wordKey](uow, wordKeyAdapter{authorID: authorID}, field, existing, keys, authorScope(authorID), opts)
}

func loadCollection(uow *reconcile.UnitOfWork, authorID, id uint) (*Collection, error) {
	c, err := reconcile.LoadByID[Collection](uow, "collection", id, authorScope(authorID))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCollections returns the author's collections whose title contains search.
func (s *Service) ListCollections(ctx context.Context, authorID uint, search string, limit, offset int) ([]*CollectionDetail, int64, error) {
	q := s.db.WithContext(ctx).Model(&Collection{}).Where("author_id = ?", authorID)
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("folded LIKE ?", "%"+utils.Fold(search)+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count collections: %w", err)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []*Collection
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list collections: %w", err)
	}

	out := make([]*CollectionDetail, 0, len(rows))
	for _, c := range rows {
		d, err := s.collectionDetail(s.db.WithContext(ctx), authorID, c)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, nil
}

func (s *Service) collectionDetail(db *gorm.DB, authorID uint, c *Collection) (*CollectionDetail, error) {
	d := &CollectionDetail{Collection: c}
	if err := db.Table("collection_words").Where("collection_id = ?", c.ID).Count(&d.WordsCount).Error; err != nil {
		return nil, err
	}
	var fav int64
	if err := db.Model(&FavoriteCollection{}).Where("user_id = ? AND collection_id = ?", authorID, c.ID).Count(&fav).Error; err != nil {
		return nil, err
	}
	d.Favorite = fav > 0
	return d, nil
}

// GetCollection returns a collection with its words.
func (s *Service) GetCollection(ctx context.Context, authorID, id uint) (*CollectionDetail, error) {
	db := s.db.WithContext(ctx)
	var c Collection
	err := db.Preload("Words", func(tx *gorm.DB) *gorm.DB { return tx.Order("words.id") }).
		Preload("Words.Language").
		Where("author_id = ?", authorID).
		Take(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &reconcile.NotFoundError{Entity: "collection", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return s.collectionDetail(db, authorID, &c)
}

// CreateCollection creates a collection of existing words.
func (s *Service) CreateCollection(ctx context.Context, authorID uint, input CollectionInput) (*CollectionDetail, error) {
	var id uint
	err := reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		c, err := s.collections.Create(uow, &collectionIn{
			authorID:    authorID,
			title:       &input.Title,
			description: &input.Description,
			words:       input.Words,
			raw:         input,
		})
		if err != nil {
			return err
		}
		id = c.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Collection created", zap.Uint("author_id", authorID), zap.Uint("collection_id", id))
	return s.GetCollection(ctx, authorID, id)
}

// UpdateCollection partially updates a collection. A present word list
// replaces the collection words.
func (s *Service) UpdateCollection(ctx context.Context, authorID, id uint, patch CollectionPatch) (*CollectionDetail, error) {
	err := reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		c, err := loadCollection(uow, authorID, id)
		if err != nil {
			return err
		}
		_, err = s.collections.Update(uow, c, &collectionIn{
			authorID:    authorID,
			title:       patch.Title,
			description: patch.Description,
			words:       patch.Words,
			raw:         patch,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetCollection(ctx, authorID, id)
}

// AppendCollectionWords adds words to a collection, keeping the current ones.
func (s *Service) AppendCollectionWords(ctx context.Context, authorID, id uint, refs []WordRef) (*CollectionDetail, error) {
	field, err := Registry.Field("collection", FieldCollectionWords)
	if err != nil {
		return nil, err
	}
	err = reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		c, err := loadCollection(uow, authorID, id)
		if err != nil {
			return err
		}
		_, err = s.reconcileCollectionWords(uow, field, c, refs, reconcile.Options{Append: true})
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetCollection(ctx, authorID, id)
}

// RemoveCollectionWord takes a word out of a collection.
func (s *Service) RemoveCollectionWord(ctx context.Context, authorID, id, wordID uint) error {
	return reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		if _, err := loadCollection(uow, authorID, id); err != nil {
			return err
		}
		res := uow.Tx.Exec("DELETE FROM collection_words WHERE collection_id = ? AND word_id = ?", id, wordID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &reconcile.NotFoundError{Entity: "word", ID: wordID}
		}
		return nil
	})
}

// DeleteCollection removes a collection. Its words are kept.
func (s *Service) DeleteCollection(ctx context.Context, authorID, id uint) error {
	err := reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		c, err := loadCollection(uow, authorID, id)
		if err != nil {
			return err
		}
		if err := uow.Tx.Model(c).Association("Words").Clear(); err != nil {
			return err
		}
		if err := uow.Tx.Where("collection_id = ?", id).Delete(&FavoriteCollection{}).Error; err != nil {
			return err
		}
		return uow.Tx.Delete(c).Error
	})
	if err != nil {
		return err
	}
	s.logger.Info("Collection deleted", zap.Uint("author_id", authorID), zap.Uint("collection_id", id))
	return nil
}

// AddFavoriteCollection marks a collection as favorite.
func (s *Service) AddFavoriteCollection(ctx context.Context, authorID, id uint) error {
	return reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		if _, err := loadCollection(uow, authorID, id); err != nil {
			return err
		}
		var existing FavoriteCollection
		err := uow.Tx.Where("user_id = ? AND collection_id = ?", authorID, id).Take(&existing).Error
		if err == nil {
			return reconcile.NewAlreadyExist("This collection is already in favorites.", existing, nil)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return uow.Tx.Create(&FavoriteCollection{UserID: authorID, CollectionID: id}).Error
	})
}

// RemoveFavoriteCollection unmarks a favorite collection.
func (s *Service) RemoveFavoriteCollection(ctx context.Context, authorID, id uint) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND collection_id = ?", authorID, id).Delete(&FavoriteCollection{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &reconcile.NotFoundError{Entity: "favorite collection", ID: id}
	}
	return nil
}
