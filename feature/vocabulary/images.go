package vocabulary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"vocab-manager/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxImageSize is the largest accepted image in bytes.
const MaxImageSize = 4 << 20

// Image error codes.
const (
	CodeImageStorageDisabled = "image_storage_disabled"
	CodeImageTooLarge        = "image_too_large"
	CodeImageType            = "image_type_not_allowed"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// storeImage uploads data and records it. The object is removed again when
// the unit of work rolls back.
func (s *Service) storeImage(uow *reconcile.UnitOfWork, authorID uint, data []byte) (*ImageAssociation, error) {
	if s.store == nil {
		return nil, reconcile.Invalid(CodeImageStorageDisabled, FieldImageAssociations, "Image storage is not configured.")
	}
	if len(data) == 0 {
		return nil, reconcile.Invalid("", FieldImageAssociations, "The image is empty.")
	}
	if len(data) > MaxImageSize {
		return nil, reconcile.Invalid(CodeImageTooLarge, FieldImageAssociations, fmt.Sprintf("The image exceeds %d MB.", MaxImageSize>>20))
	}
	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, reconcile.Invalid(CodeImageType, FieldImageAssociations, "Only jpeg, png, gif and webp images are allowed.")
	}

	key := fmt.Sprintf("images/%d/%s%s", authorID, uuid.NewString(), ext)
	if err := s.store.Put(uow.Context(), key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, err
	}
	uow.OnRollback(func(ctx context.Context) {
		if err := s.store.Remove(ctx, key); err != nil {
			s.logger.Warn("Failed to remove uploaded image", zap.String("key", key), zap.Error(err))
		}
	})

	img := &ImageAssociation{AuthorID: authorID, ObjectKey: key, ContentType: contentType, Size: int64(len(data))}
	if err := uow.Tx.Create(img).Error; err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}
	return img, nil
}

// sweepImages queues removal of the objects behind orphaned image rows.
func (s *Service) sweepImages(uow *reconcile.UnitOfWork, ids []uint) error {
	if s.store == nil {
		return nil
	}
	var keys []string
	if err := uow.Tx.Model(&ImageAssociation{}).Where("id IN ?", ids).Pluck("object_key", &keys).Error; err != nil {
		return err
	}
	uow.AfterCommit(func(ctx context.Context) {
		if err := s.store.Remove(ctx, keys...); err != nil {
			s.logger.Warn("Failed to remove swept images", zap.Strings("keys", keys), zap.Error(err))
		}
	})
	return nil
}

// UploadImage stores data and attaches it to a word.
func (s *Service) UploadImage(ctx context.Context, authorID, wordID uint, data []byte) (*ImageAssociation, error) {
	f := s.fields[FieldImageAssociations].(*relatedField[ImageAssociation, ImageInput, ImageInput])
	var img *ImageAssociation
	err := s.withWord(ctx, authorID, wordID, func(uow *reconcile.UnitOfWork, in *wordIn, word *Word) error {
		res, err := f.reconcile(uow, in, word, []ImageInput{{Image: data}}, reconcile.Options{Append: true})
		if err != nil {
			return err
		}
		img = res.Rows[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Image uploaded", zap.Uint("word_id", wordID), zap.String("key", img.ObjectKey))
	return img, nil
}

// OpenImage streams an image of the author.
func (s *Service) OpenImage(ctx context.Context, authorID, id uint) (io.ReadCloser, *ImageAssociation, error) {
	if s.store == nil {
		return nil, nil, reconcile.Invalid(CodeImageStorageDisabled, "", "Image storage is not configured.")
	}
	var img ImageAssociation
	err := s.db.WithContext(ctx).Where("author_id = ?", authorID).Take(&img, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, &reconcile.NotFoundError{Entity: "image", ID: id}
	}
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(ctx, img.ObjectKey)
	if err != nil {
		return nil, nil, err
	}
	return rc, &img, nil
}
