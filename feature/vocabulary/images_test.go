package vocabulary

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"vocab-manager/core/reconcile"
	"vocab-manager/core/storage"
	"vocab-manager/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngData = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

// recordRemovals makes the mock collect every key passed to RemoveObjects.
func recordRemovals(client *mocks.Client, removed *[]string) {
	client.On("RemoveObjects", mock.Anything, "vocabulary", mock.Anything, minio.RemoveObjectsOptions{}).
		Return(func(objects <-chan minio.ObjectInfo) <-chan minio.RemoveObjectError {
			for obj := range objects {
				*removed = append(*removed, obj.Key)
			}
			out := make(chan minio.RemoveObjectError)
			close(out)
			return out
		})
}

func expectPut(client *mocks.Client, data []byte) {
	client.On("PutObject", mock.Anything, "vocabulary", mock.AnythingOfType("string"), mock.Anything, int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/png"}).Return(minio.UploadInfo{}, nil)
}

func TestImages_UploadOpenSweep(t *testing.T) {
	client := new(mocks.Client)
	svc, db := newService(t, storage.NewBucket(client, "vocabulary"))
	ctx := context.Background()
	cat := mustCreate(t, svc, WordInput{Text: "cat", Language: "en"})

	expectPut(client, pngData)
	img, err := svc.UploadImage(ctx, author, cat.ID, pngData)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img.ObjectKey, "images/7/"))
	assert.True(t, strings.HasSuffix(img.ObjectKey, ".png"))
	assert.Equal(t, "image/png", img.ContentType)

	got, err := svc.Get(ctx, author, cat.ID)
	require.NoError(t, err)
	require.Len(t, got.ImageAssociations, 1)

	client.On("GetObject", mock.Anything, "vocabulary", img.ObjectKey, minio.GetObjectOptions{}).
		Return(io.NopCloser(bytes.NewReader(pngData)), nil)
	rc, meta, err := svc.OpenImage(ctx, author, img.ID)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pngData, body)
	assert.Equal(t, int64(len(pngData)), meta.Size)

	_, _, err = svc.OpenImage(ctx, author+1, img.ID)
	assert.Equal(t, reconcile.CodeObjectNotExist, reconcile.Code(err))

	var removed []string
	recordRemovals(client, &removed)
	_, err = svc.Update(ctx, author, cat.ID, WordPatch{WordChildren: WordChildren{ImageAssociations: &[]ImageInput{}}})
	require.NoError(t, err)
	assert.Equal(t, []string{img.ObjectKey}, removed)
	assert.Zero(t, countRows(t, db, &ImageAssociation{}))
	client.AssertExpectations(t)
}

// TestImages_RollbackRemovesUpload tests that an aborted word write deletes the uploaded object.
func TestImages_RollbackRemovesUpload(t *testing.T) {
	client := new(mocks.Client)
	svc, db := newService(t, storage.NewBucket(client, "vocabulary"))
	ctx := context.Background()
	mustCreate(t, svc, WordInput{
		Text:         "be",
		Language:     "en",
		WordChildren: WordChildren{QuoteAssociations: &[]QuoteInput{{Text: "To be, or not to be", Author: "Shakespeare"}}},
	})

	expectPut(client, pngData)
	var removed []string
	recordRemovals(client, &removed)

	_, _, err := svc.Create(ctx, author, WordInput{
		Text:     "question",
		Language: "en",
		WordChildren: WordChildren{
			ImageAssociations: &[]ImageInput{{Image: pngData}},
			QuoteAssociations: &[]QuoteInput{{Text: "to be, or not to be", Author: "Hamlet"}},
		},
	})
	assert.Equal(t, reconcile.CodeAlreadyExist, reconcile.Code(err))
	require.Len(t, removed, 1)
	assert.True(t, strings.HasPrefix(removed[0], "images/7/"))
	assert.Zero(t, countRows(t, db, &ImageAssociation{}))
}

func TestImages_Rejected(t *testing.T) {
	client := new(mocks.Client)
	svc, _ := newService(t, storage.NewBucket(client, "vocabulary"))
	ctx := context.Background()
	cat := mustCreate(t, svc, WordInput{Text: "cat", Language: "en"})

	_, err := svc.UploadImage(ctx, author, cat.ID, []byte("plain text, not an image"))
	assert.Equal(t, CodeImageType, reconcile.Code(err))

	_, err = svc.UploadImage(ctx, author, cat.ID, append(pngData, make([]byte, MaxImageSize)...))
	assert.Equal(t, CodeImageTooLarge, reconcile.Code(err))
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	noStore, _ := newService(t, nil)
	word := mustCreate(t, noStore, WordInput{Text: "cat", Language: "en"})
	_, err = noStore.UploadImage(ctx, author, word.ID, pngData)
	assert.Equal(t, CodeImageStorageDisabled, reconcile.Code(err))
}
