package exercises

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vocab-manager/core/reconcile"
	"vocab-manager/core/utils"
	"vocab-manager/feature/vocabulary"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FieldSetWords is the nested field holding the words of a set.
const FieldSetWords = "words"

const setConflictDetail = "Same word set already exists."

// Registry declares the nested fields of a word set.
var Registry = reconcile.MustRegistry(reconcile.EntitySpec{
	Entity: "word_set",
	Order:  reconcile.ParentFirst,
	Fields: []reconcile.NestedFieldSpec{{
		Name:        FieldSetWords,
		Entity:      "word",
		Kind:        reconcile.KindReference,
		Limit:       MaxSetWords,
		LimitDetail: fmt.Sprintf("A word set holds at most %d words.", MaxSetWords),
	}},
})

// SetInput is the payload of POST /exercises/:exercise/word-sets.
type SetInput struct {
	Name  string                `json:"name" validate:"required,notblank,max=64"`
	Words *[]vocabulary.WordRef `json:"words,omitempty" validate:"omitempty,dive"`
}

// SetPatch is the payload of PATCH /exercises/:exercise/word-sets/:id.
type SetPatch struct {
	Name  *string               `json:"name,omitempty" validate:"omitempty,notblank,max=64"`
	Words *[]vocabulary.WordRef `json:"words,omitempty" validate:"omitempty,dive"`
}

type setIn struct {
	authorID uint
	exercise Exercise
	name     *string
	words    *[]vocabulary.WordRef
	raw      any
}

// Service manages word sets and translator settings.
type Service struct {
	db     *gorm.DB
	words  *vocabulary.Service
	logger *zap.Logger
	sets   *reconcile.Nested[WordSet, *setIn]
}

// NewService creates a new service. Deleting a word through words also takes
// it out of every word set.
func NewService(db *gorm.DB, words *vocabulary.Service, logger *zap.Logger) *Service {
	s := &Service{db: db, words: words, logger: logger}
	words.AddWordReference(reconcile.JoinRef{Table: "word_set_words", Column: "word_id"})
	s.sets = reconcile.MustNested[WordSet, *setIn](Registry, "word_set", setWriter{}, nil, s.setWordsBinding())
	return s
}

func setScope(authorID uint, ex Exercise) reconcile.Scope {
	return reconcile.Scope{"author_id": authorID, "exercise": ex}
}

type setWriter struct{}

func (setWriter) Build(uow *reconcile.UnitOfWork, in *setIn) (*WordSet, error) {
	var count int64
	if err := uow.Tx.Model(&WordSet{}).Where("author_id = ?", in.authorID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count word sets: %w", err)
	}
	detail := fmt.Sprintf("You can create at most %d word sets.", MaxWordSets)
	if lim := reconcile.CheckAmountLimit(int(count), 1, MaxWordSets, detail); lim != nil {
		return nil, lim
	}
	ws := &WordSet{AuthorID: in.authorID, Exercise: in.exercise}
	return ws, rename(uow, ws, *in.name, in.raw)
}

func (setWriter) Assign(uow *reconcile.UnitOfWork, ws *WordSet, in *setIn) error {
	if in.name == nil || strings.TrimSpace(*in.name) == ws.Name {
		return nil
	}
	return rename(uow, ws, *in.name, in.raw)
}

// rename sets the name of ws unless another set of the same exercise holds it.
func rename(uow *reconcile.UnitOfWork, ws *WordSet, name string, raw any) error {
	ws.Name = strings.TrimSpace(name)
	ws.Folded = utils.Fold(ws.Name)

	var other WordSet
	err := uow.Tx.Where("author_id = ? AND exercise = ? AND folded = ? AND id <> ?", ws.AuthorID, ws.Exercise, ws.Folded, ws.ID).
		Take(&other).Error
	switch {
	case err == nil:
		return reconcile.NewAlreadyExist(setConflictDetail, &other, raw)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return err
	}
}

func (s *Service) setWordsBinding() reconcile.Binding[WordSet, *setIn] {
	return reconcile.Binding[WordSet, *setIn]{
		Field:   FieldSetWords,
		Present: func(in *setIn) bool { return in.words != nil },
		Apply: func(uow *reconcile.UnitOfWork, field reconcile.NestedFieldSpec, ws *WordSet, in *setIn) error {
			var existing []*vocabulary.Word
			if ws.ID != 0 {
				if err := uow.Tx.Model(ws).Association("Words").Find(&existing); err != nil {
					return fmt.Errorf("load word set words: %w", err)
				}
			}
			res, err := s.words.ReconcileWordRefs(uow, ws.AuthorID, field, existing, *in.words, reconcile.Options{})
			if err != nil {
				return err
			}
			return reconcile.Associate(uow, ws, "Words", res.Rows)
		},
	}
}

func (s *Service) countWords(db *gorm.DB, ws *WordSet) error {
	return db.Table("word_set_words").Where("word_set_id = ?", ws.ID).Count(&ws.WordsCount).Error
}

// ListSets returns the author's sets of an exercise whose name or words contain search.
func (s *Service) ListSets(ctx context.Context, authorID uint, ex Exercise, search string, limit, offset int) ([]*WordSet, int64, error) {
	db := s.db.WithContext(ctx)
	q := db.Model(&WordSet{}).Where("author_id = ? AND exercise = ?", authorID, ex)
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("word_sets.folded LIKE ? OR EXISTS (SELECT 1 FROM word_set_words JOIN words ON words.id = word_set_words.word_id WHERE word_set_words.word_set_id = word_sets.id AND LOWER(words.text) LIKE ?)",
			"%"+utils.Fold(search)+"%", "%"+strings.ToLower(search)+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count word sets: %w", err)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var sets []*WordSet
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&sets).Error; err != nil {
		return nil, 0, fmt.Errorf("list word sets: %w", err)
	}
	for _, ws := range sets {
		if err := s.countWords(db, ws); err != nil {
			return nil, 0, err
		}
	}
	return sets, total, nil
}

// GetSet returns one set with its words.
func (s *Service) GetSet(ctx context.Context, authorID uint, ex Exercise, id uint) (*WordSet, error) {
	db := s.db.WithContext(ctx)
	var ws WordSet
	err := db.Preload("Words", func(tx *gorm.DB) *gorm.DB { return tx.Order("words.id") }).
		Preload("Words.Language").
		Where("author_id = ? AND exercise = ?", authorID, ex).
		Take(&ws, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &reconcile.NotFoundError{Entity: "word set", ID: id}
	}
	if err != nil {
		return nil, err
	}
	ws.WordsCount = int64(len(ws.Words))
	return &ws, nil
}

// CreateSet creates a set of existing words.
func (s *Service) CreateSet(ctx context.Context, authorID uint, ex Exercise, input SetInput) (*WordSet, error) {
	var id uint
	err := reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		ws, err := s.sets.Create(uow, &setIn{authorID: authorID, exercise: ex, name: &input.Name, words: input.Words, raw: input})
		if err != nil {
			return err
		}
		id = ws.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Word set created",
		zap.Uint("author_id", authorID),
		zap.String("exercise", string(ex)),
		zap.Uint("word_set_id", id),
	)
	return s.GetSet(ctx, authorID, ex, id)
}

// UpdateSet partially updates a set. A present word list replaces its words.
func (s *Service) UpdateSet(ctx context.Context, authorID uint, ex Exercise, id uint, patch SetPatch) (*WordSet, error) {
	err := reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		ws, err := reconcile.LoadByID[WordSet](uow, "word set", id, setScope(authorID, ex))
		if err != nil {
			return err
		}
		_, err = s.sets.Update(uow, ws, &setIn{authorID: authorID, exercise: ex, name: patch.Name, words: patch.Words, raw: patch})
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetSet(ctx, authorID, ex, id)
}

// DeleteSet deletes a set. Its words are kept.
func (s *Service) DeleteSet(ctx context.Context, authorID uint, ex Exercise, id uint) error {
	return reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		ws, err := reconcile.LoadByID[WordSet](uow, "word set", id, setScope(authorID, ex))
		if err != nil {
			return err
		}
		if err := uow.Tx.Model(ws).Association("Words").Clear(); err != nil {
			return fmt.Errorf("clear word set words: %w", err)
		}
		return uow.Tx.Delete(ws).Error
	})
}

// AvailableWords returns the author's words usable in an exercise. The
// translator needs words with at least one translation; other exercises have
// no word source yet.
func (s *Service) AvailableWords(ctx context.Context, authorID uint, ex Exercise, limit, offset int) ([]*vocabulary.Word, int64, error) {
	cond := wordsUsableBy(ex)
	if cond == "" {
		return []*vocabulary.Word{}, 0, nil
	}
	q := s.db.WithContext(ctx).Model(&vocabulary.Word{}).Where("author_id = ?", authorID).Where(cond)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count available words: %w", err)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var words []*vocabulary.Word
	if err := q.Preload("Language").Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&words).Error; err != nil {
		return nil, 0, fmt.Errorf("list available words: %w", err)
	}
	return words, total, nil
}

// wordsUsableBy returns the condition selecting words usable in ex, or an
// empty string when ex has no word source.
func wordsUsableBy(ex Exercise) string {
	if ex == ExerciseTranslator {
		return "EXISTS (SELECT 1 FROM word_translations WHERE word_translations.word_id = words.id)"
	}
	return ""
}

// AvailableCollections returns the author's collections holding at least one
// word usable in an exercise, each with the number of such words.
func (s *Service) AvailableCollections(ctx context.Context, authorID uint, ex Exercise, limit, offset int) ([]*AvailableCollection, int64, error) {
	cond := wordsUsableBy(ex)
	if cond == "" {
		return []*AvailableCollection{}, 0, nil
	}
	db := s.db.WithContext(ctx)
	usable := "SELECT COUNT(*) FROM collection_words JOIN words ON words.id = collection_words.word_id " +
		"WHERE collection_words.collection_id = collections.id AND " + cond
	q := db.Model(&vocabulary.Collection{}).Where("collections.author_id = ? AND ("+usable+") > 0", authorID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count available collections: %w", err)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var cols []*vocabulary.Collection
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&cols).Error; err != nil {
		return nil, 0, fmt.Errorf("list available collections: %w", err)
	}

	out := make([]*AvailableCollection, 0, len(cols))
	for _, c := range cols {
		ac := &AvailableCollection{Collection: c}
		err := db.Table("collection_words").
			Joins("JOIN words ON words.id = collection_words.word_id").
			Where("collection_words.collection_id = ?", c.ID).
			Where(cond).
			Count(&ac.AvailableWords).Error
		if err != nil {
			return nil, 0, fmt.Errorf("count collection %d words: %w", c.ID, err)
		}
		out = append(out, ac)
	}
	return out, total, nil
}

// Favorites returns the user's favorite exercises, latest first.
func (s *Service) Favorites(ctx context.Context, userID uint) ([]Info, error) {
	var slugs []Exercise
	err := s.db.WithContext(ctx).Model(&FavoriteExercise{}).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Pluck("exercise", &slugs).Error
	if err != nil {
		return nil, fmt.Errorf("list favorite exercises: %w", err)
	}
	out := make([]Info, 0, len(slugs))
	for _, ex := range slugs {
		out = append(out, InfoOf(ex))
	}
	return out, nil
}

// AddFavorite marks an exercise as favorite.
func (s *Service) AddFavorite(ctx context.Context, userID uint, ex Exercise) error {
	return reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		var existing FavoriteExercise
		err := uow.Tx.Where("user_id = ? AND exercise = ?", userID, ex).Take(&existing).Error
		if err == nil {
			return reconcile.NewAlreadyExist("This exercise is already in favorites.", InfoOf(ex), nil)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return uow.Tx.Create(&FavoriteExercise{UserID: userID, Exercise: ex}).Error
	})
}

// RemoveFavorite unmarks a favorite exercise.
func (s *Service) RemoveFavorite(ctx context.Context, userID uint, ex Exercise) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND exercise = ?", userID, ex).Delete(&FavoriteExercise{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &reconcile.NotFoundError{Entity: "favorite exercise", Key: string(ex)}
	}
	return nil
}
