package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/sujalbistaa/secretos/internal/apperr"
	"github.com/sujalbistaa/secretos/internal/models"
)

type gormAdminUserRepo struct {
	db *gorm.DB
}

// NewAdminUserRepository returns a gorm-backed AdminUserRepository.
func NewAdminUserRepository(db *gorm.DB) AdminUserRepository {
	return &gormAdminUserRepo{db: db}
}

func (r *gormAdminUserRepo) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: admin user", apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("lookup admin user: %w", err)
	}
	return &user, nil
}

func (r *gormAdminUserRepo) GetByID(ctx context.Context, id uint) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: admin user", apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("lookup admin user: %w", err)
	}
	return &user, nil
}

func (r *gormAdminUserRepo) Create(ctx context.Context, user *models.AdminUser) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	return nil
}
