package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/sujalbistaa/secretos/internal/apperr"
	"github.com/sujalbistaa/secretos/internal/db/dbtest"
	"github.com/sujalbistaa/secretos/internal/models"
	"github.com/sujalbistaa/secretos/internal/repository"
)

func TestSchoolRepository(t *testing.T) {
	gdb := dbtest.New(t)
	dbtest.SeedSchools(t, gdb,
		models.School{ID: 5, Name: "ESCUELA 5", Department: "CONCORDIA", Locality: "CONCORDIA"},
		models.School{ID: 7, Name: "ESCUELA 7", Department: "FEDERAL", Locality: "FEDERAL"},
	)
	repo := repository.NewSchoolRepository(gdb)
	ctx := context.Background()

	ok, err := repo.Exists(ctx, 5)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.Exists(ctx, 99)
	require.NoError(t, err)
	require.False(t, ok)

	schools, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, schools, 2)
	require.Equal(t, "CONCORDIA", schools[0].Department)
}

func TestSecretRepository_ListOrderAndApproval(t *testing.T) {
	gdb := dbtest.New(t)
	repo := repository.NewSecretRepository(gdb)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"old", "middle", "new"} {
		s := &models.Secret{Title: title, Content: "c", SchoolID: 1, Approved: i != 1, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.Create(ctx, s))
		require.NotZero(t, s.ID)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "new", all[0].Title)
	require.Equal(t, "old", all[2].Title)

	approved, err := repo.ListApproved(ctx, 0)
	require.NoError(t, err)
	require.Len(t, approved, 2)

	require.NoError(t, repo.SetApproval(ctx, all[1].ID, true))
	approved, err = repo.ListApproved(ctx, 0)
	require.NoError(t, err)
	require.Len(t, approved, 3)

	err = repo.SetApproval(ctx, 404, true)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSecretRepository_DeleteRemovesImages(t *testing.T) {
	gdb := dbtest.New(t)
	secrets := repository.NewSecretRepository(gdb)
	images := repository.NewImageRepository(gdb)
	ctx := context.Background()

	s := &models.Secret{Title: "t", Content: "c", SchoolID: 1, Approved: true}
	require.NoError(t, secrets.Create(ctx, s))
	require.NoError(t, images.Create(ctx, &models.SecretImage{
		SecretID: s.ID,
		URLs:     datatypes.NewJSONType(models.ImageURLs{PublicURL: "https://cdn/a.jpg"}),
	}))

	got, err := images.ListBySecret(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "https://cdn/a.jpg", got[0].URLs.Data().PublicURL)

	require.NoError(t, secrets.Delete(ctx, s.ID))

	got, err = images.ListBySecret(ctx, s.ID)
	require.NoError(t, err)
	require.Empty(t, got)

	require.ErrorIs(t, secrets.Delete(ctx, s.ID), apperr.ErrNotFound)
}

func TestAdminUserRepository(t *testing.T) {
	gdb := dbtest.New(t)
	repo := repository.NewAdminUserRepository(gdb)
	ctx := context.Background()

	u := &models.AdminUser{Email: " Admin@Example.com ", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByEmail(ctx, "ADMIN@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, "admin@example.com", got.Email)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, got.Email, byID.Email)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
