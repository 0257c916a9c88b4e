// Package repository is the table-access half of the backend collaborator.
// Handlers and services depend on these interfaces; the gorm
// implementations below work against Postgres and SQLite alike.
package repository

import (
	"context"

	"github.com/sujalbistaa/secretos/internal/models"
)

// SchoolRepository reads the school reference data.
type SchoolRepository interface {
	List(ctx context.Context) ([]models.School, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

// SecretRepository manages confessions.
type SecretRepository interface {
	Create(ctx context.Context, secret *models.Secret) error
	// List returns every secret, newest first.
	List(ctx context.Context) ([]models.Secret, error)
	// ListApproved returns approved secrets, newest first.
	ListApproved(ctx context.Context, limit int) ([]models.Secret, error)
	SetApproval(ctx context.Context, id uint, approved bool) error
	// Delete removes the secret and its image rows.
	Delete(ctx context.Context, id uint) error
}

// ImageRepository manages attachment metadata rows.
type ImageRepository interface {
	Create(ctx context.Context, image *models.SecretImage) error
	ListBySecret(ctx context.Context, secretID uint) ([]models.SecretImage, error)
}

// AdminUserRepository backs password sign-in.
type AdminUserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	GetByID(ctx context.Context, id uint) (*models.AdminUser, error)
	Create(ctx context.Context, user *models.AdminUser) error
}
