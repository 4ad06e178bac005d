package integrity

import (
	"context"
	"fmt"

	"vocab-manager/core/reconcile"
	"vocab-manager/feature/integrity/checks"
	"vocab-manager/feature/vocabulary"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Bucket is the part of the object store the checks need.
type Bucket interface {
	checks.Lister
	Remove(ctx context.Context, keys ...string) error
}

// ImageReport is the outcome of CheckImages.
type ImageReport struct {
	// Checked is the number of image rows compared.
	Checked int `json:"checked"`
	// Missing lists keys recorded in the database without an object.
	Missing []string `json:"missing"`
	// Stray lists objects no image row points at.
	Stray []string `json:"stray"`
}

// Clean reports whether database and bucket agree.
func (r *ImageReport) Clean() bool {
	return len(r.Missing) == 0 && len(r.Stray) == 0
}

// Service handles integrity checks.
type Service struct {
	db     *gorm.DB
	bucket Bucket
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(db *gorm.DB, bucket Bucket, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		bucket: bucket,
		logger: logger,
	}
}

// CheckImages compares the image rows with the objects under images/.
func (s *Service) CheckImages(ctx context.Context) (*ImageReport, error) {
	var recorded []string
	if err := s.db.WithContext(ctx).Model(&vocabulary.ImageAssociation{}).Pluck("object_key", &recorded).Error; err != nil {
		return nil, fmt.Errorf("failed to load image keys: %w", err)
	}
	stored, err := checks.ListImages(ctx, s.bucket)
	if err != nil {
		return nil, err
	}

	missing, stray := checks.CompareKeys(recorded, stored)
	return &ImageReport{Checked: len(recorded), Missing: missing, Stray: stray}, nil
}

// FixImages deletes the rows listed as missing, unlinking them from their
// words, then removes the stray objects.
func (s *Service) FixImages(ctx context.Context, report *ImageReport) error {
	if len(report.Missing) > 0 {
		err := reconcile.Atomic(ctx, s.db, func(uow *reconcile.UnitOfWork) error {
			var ids []uint
			if err := uow.Tx.Model(&vocabulary.ImageAssociation{}).Where("object_key IN ?", report.Missing).Pluck("id", &ids).Error; err != nil {
				return err
			}
			if len(ids) == 0 {
				return nil
			}
			if err := uow.Tx.Exec("DELETE FROM word_image_associations WHERE image_association_id IN ?", ids).Error; err != nil {
				return err
			}
			return uow.Tx.Where("id IN ?", ids).Delete(&vocabulary.ImageAssociation{}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to delete missing images: %w", err)
		}
		s.logger.Info("Deleted image rows without object", zap.Int("count", len(report.Missing)))
	}

	if len(report.Stray) > 0 {
		if err := s.bucket.Remove(ctx, report.Stray...); err != nil {
			return fmt.Errorf("failed to remove stray objects: %w", err)
		}
		s.logger.Info("Removed stray objects", zap.Int("count", len(report.Stray)))
	}
	return nil
}
