package vocabulary

import (
	"context"
	"testing"
	"time"

	"vocab-manager/core/database"
	"vocab-manager/feature/languages"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const author uint = 7

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, languages.Migrate(db))
	_, err = languages.Seed(db)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

// newService returns a service whose test author learns English.
func newService(t *testing.T, store ObjectStore) (*Service, *gorm.DB) {
	t.Helper()
	db := openDB(t)
	langs := languages.NewService(db, languages.NewCache(time.Minute), zap.NewNop())
	_, err := langs.Add(context.Background(), author, languages.AddInput{Language: "en", Kind: languages.KindLearning})
	require.NoError(t, err)
	return NewService(db, langs, store, zap.NewNop()), db
}

func ptr[T any](v T) *T {
	return &v
}

func mustCreate(t *testing.T, svc *Service, in WordInput) *WordDetail {
	t.Helper()
	d, created, err := svc.Create(context.Background(), author, in)
	require.NoError(t, err)
	require.True(t, created)
	return d
}

func countRows(t *testing.T, db *gorm.DB, model any, query ...any) int64 {
	t.Helper()
	q := db.Model(model)
	if len(query) > 0 {
		q = q.Where(query[0], query[1:]...)
	}
	var n int64
	require.NoError(t, q.Count(&n).Error)
	return n
}

func translations(items ...TranslationInput) *[]TranslationInput {
	if items == nil {
		items = []TranslationInput{}
	}
	return &items
}

func texts[T any](rows []*T, text func(*T) string) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, text(r))
	}
	return out
}

func translationText(t *Translation) string { return t.Text }
