package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sujalbistaa/secretos/internal/apperr"
	"github.com/sujalbistaa/secretos/internal/models"
)

type gormSecretRepo struct {
	db *gorm.DB
}

// NewSecretRepository returns a gorm-backed SecretRepository.
func NewSecretRepository(db *gorm.DB) SecretRepository {
	return &gormSecretRepo{db: db}
}

func (r *gormSecretRepo) Create(ctx context.Context, secret *models.Secret) error {
	if err := r.db.WithContext(ctx).Create(secret).Error; err != nil {
		return fmt.Errorf("insert secret: %w", err)
	}
	return nil
}

func (r *gormSecretRepo) List(ctx context.Context) ([]models.Secret, error) {
	var secrets []models.Secret
	if err := r.db.WithContext(ctx).Order("created_at desc, id desc").Find(&secrets).Error; err != nil {
		return nil, fmt.Errorf("list secrets: %w", err)
	}
	return secrets, nil
}

func (r *gormSecretRepo) ListApproved(ctx context.Context, limit int) ([]models.Secret, error) {
	var secrets []models.Secret
	q := r.db.WithContext(ctx).Where("approved = ?", true).Order("created_at desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&secrets).Error; err != nil {
		return nil, fmt.Errorf("list approved secrets: %w", err)
	}
	return secrets, nil
}

func (r *gormSecretRepo) SetApproval(ctx context.Context, id uint, approved bool) error {
	res := r.db.WithContext(ctx).Model(&models.Secret{}).Where("id = ?", id).Update("approved", approved)
	if res.Error != nil {
		return fmt.Errorf("update secret approval: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: Secret not found", apperr.ErrNotFound)
	}
	return nil
}

func (r *gormSecretRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("secret_id = ?", id).Delete(&models.SecretImage{}).Error; err != nil {
			return fmt.Errorf("delete secret images: %w", err)
		}
		res := tx.Delete(&models.Secret{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete secret: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: Secret not found", apperr.ErrNotFound)
		}
		return nil
	})
}
