package vocabulary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"vocab-manager/core/reconcile"
	"vocab-manager/core/utils"
	"vocab-manager/feature/languages"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ObjectStore keeps uploaded images. *storage.Bucket implements it.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, keys ...string) error
}

// RelatedFields lists the word fields exposed through /words/:id/:field.
var RelatedFields = []string{
	FieldTranslations, FieldDefinitions, FieldExamples, FieldNotes,
	FieldQuoteAssociations, FieldImageAssociations, FieldTags, FieldFormGroups,
}

var errDryRun = errors.New("dry run")

// Service manages words and everything attached to them.
type Service struct {
	db     *gorm.DB
	langs  *languages.Service
	store  ObjectStore
	logger *zap.Logger

	sweeper     *reconcile.Sweeper
	words       *reconcile.Nested[Word, *wordIn]
	relations   map[RelationKind]*reconcile.Nested[Relation, *relationIn]
	fields      map[string]related
	order       []related
	collections *reconcile.Nested[Collection, *collectionIn]
	wordRefs    []reconcile.JoinRef
}

// NewService wires the nested-field bindings of every vocabulary entity.
// store may be nil, in which case image uploads are rejected.
func NewService(db *gorm.DB, langs *languages.Service, store ObjectStore, logger *zap.Logger) *Service {
	s := &Service{
		db:        db,
		langs:     langs,
		store:     store,
		logger:    logger,
		relations: make(map[RelationKind]*reconcile.Nested[Relation, *relationIn]),
		fields:    make(map[string]related),
		wordRefs: []reconcile.JoinRef{
			{Table: "favorite_words", Column: "word_id"},
			{Table: "collection_words", Column: "word_id"},
		},
	}
	s.sweeper = reconcile.MustSweeper(orphanRules(s.sweepImages)...)

	for _, f := range s.wordFields() {
		s.fields[f.Name()] = f
		s.order = append(s.order, f)
	}
	bindings := make([]reconcile.Binding[Word, *wordIn], 0, len(s.order))
	for _, f := range s.order {
		bindings = append(bindings, f.binding())
	}
	s.words = reconcile.MustNested[Word, *wordIn](Registry, "word", wordWriter{}, s.sweeper, bindings...)

	for _, kind := range RelationKinds {
		s.relations[kind] = reconcile.MustNested[Relation, *relationIn](Registry, string(kind), relationWriter{}, nil, s.fromWordBinding())
	}
	s.collections = reconcile.MustNested[Collection, *collectionIn](Registry, "collection", collectionWriter{}, nil, s.collectionWordsBinding())
	return s
}

// Sweeper returns the orphan sweeper of the vocabulary tables.
func (s *Service) Sweeper() *reconcile.Sweeper {
	return s.sweeper
}

// AddWordReference registers a join column that must be cleared when a word is deleted.
func (s *Service) AddWordReference(ref reconcile.JoinRef) {
	s.wordRefs = append(s.wordRefs, ref)
}

func mustField(name string) reconcile.NestedFieldSpec {
	f, err := Registry.Field("word", name)
	if err != nil {
		panic(err)
	}
	return f
}

// wordIn is the normalized word payload passed through the engine.
type wordIn struct {
	authorID    uint
	languageID  uint
	text        *string
	activity    *ActivityStatus
	problematic *bool
	children    WordChildren
	raw         any

	// word is the stored parent once it exists.
	word *Word
}

func (in *wordIn) status() ActivityStatus {
	if in.activity != nil && *in.activity != "" {
		return *in.activity
	}
	return StatusActive
}

func (in *wordIn) problematicOr(def bool) bool {
	if in.problematic != nil {
		return *in.problematic
	}
	return def
}

func fromInput(authorID uint, in WordInput) *wordIn {
	text := strings.TrimSpace(in.Text)
	status := in.ActivityStatus
	problematic := in.IsProblematic
	return &wordIn{
		authorID:    authorID,
		text:        &text,
		activity:    &status,
		problematic: &problematic,
		children:    in.WordChildren,
		raw:         in,
	}
}

func fromPatch(authorID uint, word *Word, p WordPatch) *wordIn {
	in := &wordIn{
		authorID:    authorID,
		languageID:  word.LanguageID,
		activity:    p.ActivityStatus,
		problematic: p.IsProblematic,
		children:    p.WordChildren,
		raw:         p,
		word:        word,
	}
	if p.Text != nil {
		text := strings.TrimSpace(*p.Text)
		in.text = &text
	}
	return in
}

type wordWriter struct{}

func (wordWriter) Build(_ *reconcile.UnitOfWork, in *wordIn) (*Word, error) {
	return wordAdapter{authorID: in.authorID}.Build(in), nil
}

func (wordWriter) Assign(uow *reconcile.UnitOfWork, word *Word, in *wordIn) error {
	keyChanged := false
	if in.text != nil && *in.text != word.Text {
		word.Text = *in.text
		keyChanged = true
	}
	if in.languageID != 0 && in.languageID != word.LanguageID {
		word.LanguageID = in.languageID
		word.Language = languages.Language{}
		keyChanged = true
	}
	if in.activity != nil && *in.activity != "" {
		word.ActivityStatus = *in.activity
	}
	if in.problematic != nil {
		word.IsProblematic = *in.problematic
	}
	if !keyChanged {
		return nil
	}

	word.Slug = utils.Slugify(word.Text)
	var other Word
	err := uow.Tx.Where("author_id = ? AND language_id = ? AND slug = ? AND id <> ?",
		word.AuthorID, word.LanguageID, word.Slug, word.ID).Take(&other).Error
	if err == nil {
		return reconcile.NewAlreadyExist(wordConflictDetail, &other, in.raw)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// resolveLanguage turns a language value into an id, optionally requiring it
// to be one of the author's learning languages.
func (s *Service) resolveLanguage(uow *reconcile.UnitOfWork, authorID uint, value string, learning bool) (uint, error) {
	lang, err := s.langs.Resolve(uow, value)
	if err != nil {
		return 0, err
	}
	if learning {
		if err := s.langs.RequireLearning(uow, authorID, lang.ID); err != nil {
			return 0, err
		}
	}
	return lang.ID, nil
}

// childLanguage resolves the optional language of a nested child. Children
// without a language inherit the word language unless they only carry an id.
func (s *Service) childLanguage(uow *reconcile.UnitOfWork, in *wordIn, field string, id uint, value string) (uint, error) {
	if value == "" {
		if id != 0 {
			return 0, nil
		}
		return in.languageID, nil
	}
	lang, err := s.langs.Resolve(uow, value)
	if err != nil {
		return 0, err
	}
	if lang.ID != in.languageID {
		return 0, reconcile.Invalid(CodeLanguageMismatch, field, "The language must match the word language.")
	}
	return lang.ID, nil
}

// createWord creates one word inside uow, reusing an identical stored word.
func (s *Service) createWord(uow *reconcile.UnitOfWork, authorID uint, input WordInput) (*Word, bool, error) {
	in := fromInput(authorID, input)
	langID, err := s.resolveLanguage(uow, authorID, input.Language, true)
	if err != nil {
		return nil, false, err
	}
	in.languageID = langID

	a := wordAdapter{authorID: authorID}
	existing, err := reconcile.FindConflicting[Word, *wordIn](uow, a, in, authorScope(authorID))
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if a.Equal(existing, in) {
			return existing, false, nil
		}
		return nil, false, reconcile.NewAlreadyExist(wordConflictDetail, existing, input)
	}

	word, err := s.words.Create(uow, in)
	if err != nil {
		return nil, false, err
	}
	return word, true, nil
}

// Create creates a word with its nested children. It returns false when an
// identical word already existed and was returned instead.
func (s *Service) Create(ctx context.Context, authorID uint, input WordInput) (*WordDetail, bool, error) {
	var (
		id      uint
		created bool
	)
	err := reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		word, ok, err := s.createWord(uow, authorID, input)
		if err != nil {
			return err
		}
		id, created = word.ID, ok
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		s.logger.Info("Word created", zap.Uint("author_id", authorID), zap.Uint("word_id", id))
	}
	detail, err := s.Get(ctx, authorID, id)
	return detail, created, err
}

// CreateMany creates several words in one transaction.
func (s *Service) CreateMany(ctx context.Context, authorID uint, input WordsInput) ([]*WordDetail, error) {
	ids := make([]uint, 0, len(input.Words))
	err := reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		for i, wi := range input.Words {
			word, _, err := s.createWord(uow, authorID, wi)
			if err != nil {
				var exists *reconcile.ObjectAlreadyExist
				if errors.As(err, &exists) && exists.Field == "" {
					exists.Field = "words"
					exists.Index = i
				}
				return err
			}
			ids = append(ids, word.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]*WordDetail, 0, len(ids))
	for _, id := range ids {
		d, err := s.Get(ctx, authorID, id)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Update partially updates a word and reconciles every nested field present
// in the patch. Shared children that lose their last word are deleted.
func (s *Service) Update(ctx context.Context, authorID, id uint, patch WordPatch) (*WordDetail, error) {
	err := reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		word, err := loadWord(uow, authorID, id)
		if err != nil {
			return err
		}
		in := fromPatch(authorID, word, patch)
		if patch.Language != nil {
			langID, err := s.resolveLanguage(uow, authorID, *patch.Language, true)
			if err != nil {
				return err
			}
			in.languageID = langID
		}
		report, err := s.words.Update(uow, word, in)
		if err != nil {
			return err
		}
		if report.Total() > 0 {
			s.logger.Debug("Orphans swept", zap.Uint("word_id", id), zap.Any("deleted", report.Deleted))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, authorID, id)
}

// Delete removes a word, its notes and relations, and sweeps orphaned children.
func (s *Service) Delete(ctx context.Context, authorID, id uint) (*reconcile.SweepReport, error) {
	var report *reconcile.SweepReport
	err := reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		word, err := loadWord(uow, authorID, id)
		if err != nil {
			return err
		}
		in := &wordIn{authorID: authorID, languageID: word.LanguageID, word: word}
		for _, f := range s.order {
			if err := f.clear(uow, in, word); err != nil {
				return err
			}
		}
		for _, ref := range s.wordRefs {
			if err := uow.Tx.Exec("DELETE FROM "+ref.Table+" WHERE "+ref.Column+" = ?", word.ID).Error; err != nil {
				return fmt.Errorf("clear %s: %w", ref.Table, err)
			}
		}
		if err := uow.Tx.Delete(word).Error; err != nil {
			return err
		}
		report, err = s.sweeper.SweepDetached(uow)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Word deleted", zap.Uint("author_id", authorID), zap.Uint("word_id", id), zap.Int("orphans", report.Total()))
	return report, nil
}

// Get returns a word with every nested field and its relations.
func (s *Service) Get(ctx context.Context, authorID, id uint) (*WordDetail, error) {
	db := s.db.WithContext(ctx)
	var w Word
	err := db.Preload("Language").
		Preload("Types").
		Preload("Tags").
		Preload("FormGroups").
		Preload("Translations").
		Preload("Definitions").
		Preload("Examples").
		Preload("Notes", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Preload("ImageAssociations").
		Preload("QuoteAssociations").
		Where("author_id = ?", authorID).
		Take(&w, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &reconcile.NotFoundError{Entity: "word", ID: id}
	}
	if err != nil {
		return nil, err
	}

	detail := &WordDetail{Word: &w}
	var rels []*Relation
	if err := db.Where("from_word_id = ? OR to_word_id = ?", w.ID, w.ID).Order("id").Find(&rels).Error; err != nil {
		return nil, err
	}
	views, err := relationViews(db, w.ID, rels)
	if err != nil {
		return nil, err
	}
	detail.Synonyms, detail.Antonyms, detail.Forms, detail.Similars = []RelatedWord{}, []RelatedWord{}, []RelatedWord{}, []RelatedWord{}
	for i, rel := range rels {
		switch rel.Kind {
		case KindSynonym:
			detail.Synonyms = append(detail.Synonyms, views[i])
		case KindAntonym:
			detail.Antonyms = append(detail.Antonyms, views[i])
		case KindForm:
			detail.Forms = append(detail.Forms, views[i])
		case KindSimilar:
			detail.Similars = append(detail.Similars, views[i])
		}
	}

	var fav int64
	if err := db.Model(&FavoriteWord{}).Where("user_id = ? AND word_id = ?", authorID, w.ID).Count(&fav).Error; err != nil {
		return nil, err
	}
	detail.Favorite = fav > 0
	return detail, nil
}

// List returns the author's words matching filter and the total count.
func (s *Service) List(ctx context.Context, authorID uint, filter WordFilter) ([]*Word, int64, error) {
	filtered := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&Word{}).Where("words.author_id = ?", authorID)
		if search := strings.TrimSpace(filter.Search); search != "" {
			q = q.Where("LOWER(words.text) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
		if lang := strings.ToLower(strings.TrimSpace(filter.Language)); lang != "" {
			q = q.Where("words.language_id IN (SELECT id FROM languages WHERE LOWER(iso_code) = ? OR LOWER(name) = ?)", lang, lang)
		}
		if filter.Tag != "" {
			q = q.Where("EXISTS (SELECT 1 FROM word_tags JOIN tags ON tags.id = word_tags.tag_id WHERE word_tags.word_id = words.id AND tags.folded = ?)",
				utils.Fold(filter.Tag))
		}
		if filter.ActivityStatus != "" {
			q = q.Where("words.activity_status = ?", filter.ActivityStatus)
		}
		if filter.Favorite {
			q = q.Where("EXISTS (SELECT 1 FROM favorite_words WHERE favorite_words.word_id = words.id AND favorite_words.user_id = ?)", authorID)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count words: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var words []*Word
	err := filtered().
		Preload("Language").
		Preload("Translations").
		Preload("Tags").
		Order("words.created_at DESC, words.id DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&words).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list words: %w", err)
	}
	return words, total, nil
}

// AddFavorite marks a word as favorite.
func (s *Service) AddFavorite(ctx context.Context, authorID, id uint) error {
	return reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		if _, err := loadWord(uow, authorID, id); err != nil {
			return err
		}
		var existing FavoriteWord
		err := uow.Tx.Where("user_id = ? AND word_id = ?", authorID, id).Take(&existing).Error
		if err == nil {
			return reconcile.NewAlreadyExist("This word is already in favorites.", existing, nil)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return uow.Tx.Create(&FavoriteWord{UserID: authorID, WordID: id}).Error
	})
}

// RemoveFavorite unmarks a favorite word.
func (s *Service) RemoveFavorite(ctx context.Context, authorID, id uint) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND word_id = ?", authorID, id).Delete(&FavoriteWord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &reconcile.NotFoundError{Entity: "favorite word", ID: id}
	}
	return nil
}

// Sweep deletes every orphaned shared child. With dryRun the deletions are
// rolled back and only reported.
func (s *Service) Sweep(ctx context.Context, dryRun bool) (*reconcile.SweepReport, error) {
	var report *reconcile.SweepReport
	err := reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		var err error
		report, err = s.sweeper.Run(uow, nil)
		if err != nil {
			return err
		}
		if dryRun {
			return errDryRun
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRun) {
		return nil, err
	}
	return report, nil
}
