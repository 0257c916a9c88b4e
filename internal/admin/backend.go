// Package admin implements the review table administrators use to approve
// or delete secrets.
package admin

import (
	"context"

	"github.com/sujalbistaa/secretos/internal/models"
	"github.com/sujalbistaa/secretos/internal/repository"
)

// Backend is the storage the review table reads from and writes to.
type Backend interface {
	ListSecrets(ctx context.Context) ([]models.Secret, error)
	SetApproval(ctx context.Context, id uint, approved bool) error
	DeleteSecret(ctx context.Context, id uint) error
}

type repositoryBackend struct {
	secrets repository.SecretRepository
}

// NewBackend adapts the secret repository to Backend.
func NewBackend(secrets repository.SecretRepository) Backend {
	return &repositoryBackend{secrets: secrets}
}

func (b *repositoryBackend) ListSecrets(ctx context.Context) ([]models.Secret, error) {
	return b.secrets.List(ctx)
}

func (b *repositoryBackend) SetApproval(ctx context.Context, id uint, approved bool) error {
	return b.secrets.SetApproval(ctx, id, approved)
}

func (b *repositoryBackend) DeleteSecret(ctx context.Context, id uint) error {
	return b.secrets.Delete(ctx, id)
}
