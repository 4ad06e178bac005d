package languages

import (
	"context"
	"errors"
	"fmt"

	"vocab-manager/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CodeNotLearning is returned when a word uses a language the author does not learn.
const CodeNotLearning = "language_not_learning"

// AddInput is the payload of POST /users/me/languages.
type AddInput struct {
	Language string `json:"language" validate:"required,max=64"`
	Kind     Kind   `json:"kind" validate:"required,oneof=native learning"`
}

// Service manages reference languages and the languages of each user.
type Service struct {
	db     *gorm.DB
	cache  *Cache
	logger *zap.Logger
}

// NewService creates a new service.
func NewService(db *gorm.DB, cache *Cache, logger *zap.Logger) *Service {
	if cache == nil {
		cache = NewCache(0)
	}
	return &Service{db: db, cache: cache, logger: logger}
}

// Migrate creates the language tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Language{}, &UserLanguage{})
}

// Seed inserts the default languages that are missing and returns how many were added.
func Seed(db *gorm.DB) (int, error) {
	added := 0
	for _, def := range Defaults {
		lang := def
		res := db.Where(Language{IsoCode: lang.IsoCode}).FirstOrCreate(&lang)
		if res.Error != nil {
			return added, fmt.Errorf("seed language %s: %w", def.IsoCode, res.Error)
		}
		added += int(res.RowsAffected)
	}
	return added, nil
}

// List returns every reference language ordered by name.
func (s *Service) List(ctx context.Context) ([]Language, error) {
	var langs []Language
	if err := s.db.WithContext(ctx).Order("name").Find(&langs).Error; err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	return langs, nil
}

// UserLanguages returns the user's languages, optionally filtered by kind.
func (s *Service) UserLanguages(ctx context.Context, userID uint, kind Kind) ([]UserLanguage, error) {
	q := s.db.WithContext(ctx).Preload("Language").Where("user_id = ?", userID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var out []UserLanguage
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list user languages: %w", err)
	}
	return out, nil
}

// Add links a language to the user, enforcing the per-kind amount limit.
func (s *Service) Add(ctx context.Context, userID uint, in AddInput) (*UserLanguage, error) {
	var created *UserLanguage
	err := reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		lang, err := s.Resolve(uow, in.Language)
		if err != nil {
			return err
		}

		var existing UserLanguage
		err = uow.Tx.Preload("Language").Where("user_id = ? AND language_id = ?", userID, lang.ID).Take(&existing).Error
		if err == nil {
			return reconcile.NewAlreadyExist("This language is already in your list.", existing, in)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var count int64
		if err := uow.Tx.Model(&UserLanguage{}).Where("user_id = ? AND kind = ?", userID, in.Kind).Count(&count).Error; err != nil {
			return err
		}
		detail := fmt.Sprintf("You can add at most %d %s languages.", in.Kind.Limit(), in.Kind)
		if lim := reconcile.CheckAmountLimit(int(count), 1, in.Kind.Limit(), detail); lim != nil {
			return lim
		}

		created = &UserLanguage{UserID: userID, LanguageID: lang.ID, Kind: in.Kind, Language: *lang}
		return uow.Tx.Omit("Language").Create(created).Error
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("User language added",
		zap.Uint("user_id", userID),
		zap.String("language", created.Language.IsoCode),
		zap.String("kind", string(created.Kind)),
	)
	return created, nil
}

// Remove unlinks a language from the user. A kind of "" matches either kind.
func (s *Service) Remove(ctx context.Context, userID uint, value string, kind Kind) error {
	return reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
		lang, err := s.Resolve(uow, value)
		if err != nil {
			return err
		}
		q := uow.Tx.Where("user_id = ? AND language_id = ?", userID, lang.ID)
		if kind != "" {
			q = q.Where("kind = ?", kind)
		}
		res := q.Delete(&UserLanguage{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &reconcile.NotFoundError{Entity: "user language", ID: lang.ID}
		}
		return nil
	})
}

// Resolve looks a language up by iso code or name through the cache.
func (s *Service) Resolve(uow *reconcile.UnitOfWork, value string) (*Language, error) {
	return s.cache.Resolve(uow.Tx, value)
}

// RequireLearning fails unless languageID is one of the user's learning languages.
func (s *Service) RequireLearning(uow *reconcile.UnitOfWork, userID, languageID uint) error {
	var count int64
	err := uow.Tx.Model(&UserLanguage{}).
		Where("user_id = ? AND language_id = ? AND kind = ?", userID, languageID, KindLearning).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return reconcile.Invalid(CodeNotLearning, "language", "The language must be one of your learning languages.")
	}
	return nil
}
