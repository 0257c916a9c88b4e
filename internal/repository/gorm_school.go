package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sujalbistaa/secretos/internal/models"
)

type gormSchoolRepo struct {
	db *gorm.DB
}

// NewSchoolRepository returns a gorm-backed SchoolRepository.
func NewSchoolRepository(db *gorm.DB) SchoolRepository {
	return &gormSchoolRepo{db: db}
}

func (r *gormSchoolRepo) List(ctx context.Context) ([]models.School, error) {
	var schools []models.School
	if err := r.db.WithContext(ctx).Order("id asc").Find(&schools).Error; err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return schools, nil
}

func (r *gormSchoolRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.School{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("lookup school: %w", err)
	}
	return count > 0, nil
}
