package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sujalbistaa/secretos/internal/models"
)

type gormImageRepo struct {
	db *gorm.DB
}

// NewImageRepository returns a gorm-backed ImageRepository.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &gormImageRepo{db: db}
}

func (r *gormImageRepo) Create(ctx context.Context, image *models.SecretImage) error {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return fmt.Errorf("insert secret image: %w", err)
	}
	return nil
}

func (r *gormImageRepo) ListBySecret(ctx context.Context, secretID uint) ([]models.SecretImage, error) {
	var images []models.SecretImage
	if err := r.db.WithContext(ctx).Where("secret_id = ?", secretID).Order("id asc").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("list secret images: %w", err)
	}
	return images, nil
}
