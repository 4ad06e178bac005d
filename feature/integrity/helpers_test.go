package integrity

import (
	"bytes"
	"context"
	"testing"
	"time"

	"vocab-manager/core/database"
	"vocab-manager/core/storage"
	"vocab-manager/core/storage/mocks"
	"vocab-manager/feature/languages"
	"vocab-manager/feature/vocabulary"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	author     = uint(7)
	bucketName = "vocabulary"
)

var pngData = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

type fixture struct {
	db     *gorm.DB
	client *mocks.Client
	words  *vocabulary.Service
	svc    *Service
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

	langs := languages.NewService(db, languages.NewCache(time.Minute), zap.NewNop())
	_, err = langs.Add(context.Background(), author, languages.AddInput{Language: "en", Kind: languages.KindLearning})
	require.NoError(t, err)

	client := new(mocks.Client)
	bucket := storage.NewBucket(client, bucketName)
	return &fixture{
		db:     db,
		client: client,
		words:  vocabulary.NewService(db, langs, bucket, zap.NewNop()),
		svc:    NewService(db, bucket, zap.NewNop()),
	}
}

// upload creates a word with one stored image and returns the image key.
func (f *fixture) upload(t *testing.T, text string) (uint, string) {
	t.Helper()
	ctx := context.Background()
	word, _, err := f.words.Create(ctx, author, vocabulary.WordInput{Text: text, Language: "en"})
	require.NoError(t, err)

	f.client.On("PutObject", mock.Anything, bucketName, mock.AnythingOfType("string"), mock.Anything, int64(len(pngData)),
		minio.PutObjectOptions{ContentType: "image/png"}).Return(minio.UploadInfo{}, nil).Once()
	img, err := f.words.UploadImage(ctx, author, word.ID, pngData)
	require.NoError(t, err)
	return word.ID, img.ObjectKey
}

// stored makes the bucket list keys under images/.
func (f *fixture) stored(keys ...string) {
	f.client.On("ListObjects", mock.Anything, bucketName, minio.ListObjectsOptions{Prefix: "images/", Recursive: true}).
		Return(func(context.Context, string, minio.ListObjectsOptions) <-chan minio.ObjectInfo {
			ch := make(chan minio.ObjectInfo, len(keys))
			for _, k := range keys {
				ch <- minio.ObjectInfo{Key: k}
			}
			close(ch)
			return ch
		})
}

// recordRemovals makes the mock collect every key passed to RemoveObjects.
func (f *fixture) recordRemovals(removed *[]string) {
	f.client.On("RemoveObjects", mock.Anything, bucketName, mock.Anything, minio.RemoveObjectsOptions{}).
		Return(func(objects <-chan minio.ObjectInfo) <-chan minio.RemoveObjectError {
			for obj := range objects {
				*removed = append(*removed, obj.Key)
			}
			out := make(chan minio.RemoveObjectError)
			close(out)
			return out
		})
}
