package exercises

import (
	"context"
	"testing"
	"time"

	"vocab-manager/core/database"
	"vocab-manager/feature/languages"
	"vocab-manager/feature/vocabulary"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const author uint = 7

type fixture struct {
	db    *gorm.DB
	words *vocabulary.Service
	svc   *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, languages.Migrate(db))
	_, err = languages.Seed(db)
	require.NoError(t, err)
	require.NoError(t, vocabulary.Migrate(db))
	require.NoError(t, Migrate(db))

	langs := languages.NewService(db, languages.NewCache(time.Minute), zap.NewNop())
	_, err = langs.Add(context.Background(), author, languages.AddInput{Language: "en", Kind: languages.KindLearning})
	require.NoError(t, err)

	words := vocabulary.NewService(db, langs, nil, zap.NewNop())
	return &fixture{db: db, words: words, svc: NewService(db, words, zap.NewNop())}
}

func (f *fixture) word(t *testing.T, text string, translations ...string) *vocabulary.WordDetail {
	t.Helper()
	in := vocabulary.WordInput{Text: text, Language: "en"}
	if len(translations) > 0 {
		items := make([]vocabulary.TranslationInput, 0, len(translations))
		for _, tr := range translations {
			items = append(items, vocabulary.TranslationInput{Text: tr, Language: "ru"})
		}
		in.Translations = &items
	}
	w, _, err := f.words.Create(context.Background(), author, in)
	require.NoError(t, err)
	return w
}

func (f *fixture) count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Table(table).Count(&n).Error)
	return n
}

func ptr[T any](v T) *T {
	return &v
}

func refs(ids ...uint) *[]vocabulary.WordRef {
	out := make([]vocabulary.WordRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, vocabulary.WordRef{ID: id})
	}
	return &out
}
