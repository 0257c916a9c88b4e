// Package service holds the request-level business rules shared by the
// JSON API and the server-rendered pages.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sujalbistaa/secretos/internal/apperr"
	"github.com/sujalbistaa/secretos/internal/models"
	"github.com/sujalbistaa/secretos/internal/repository"
)

// CreatePostInput is the create-post request body.
type CreatePostInput struct {
	Content  string `json:"content"`
	SchoolID FlexID `json:"schoolId"`
	Title    string `json:"titulo"`
}

type PostService struct {
	schools repository.SchoolRepository
	secrets repository.SecretRepository
}

func NewPostService(schools repository.SchoolRepository, secrets repository.SecretRepository) *PostService {
	return &PostService{schools: schools, secrets: secrets}
}

// Create validates the input, checks that the school exists and stores the
// secret. New secrets are published immediately (approved = true).
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Secret, error) {
	if strings.TrimSpace(in.Content) == "" || in.SchoolID == "" || strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: All fields are required", apperr.ErrBadRequest)
	}
	// a blank but present id reads as zero, which matches no school
	if strings.TrimSpace(string(in.SchoolID)) == "" {
		return nil, fmt.Errorf("%w: School not found", apperr.ErrNotFound)
	}

	schoolID, whole, err := parseNumber(string(in.SchoolID))
	if err != nil {
		return nil, fmt.Errorf("%w: Invalid school ID", apperr.ErrBadRequest)
	}
	if !whole {
		return nil, fmt.Errorf("%w: School not found", apperr.ErrNotFound)
	}

	exists, err := s.schools.Exists(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: School not found", apperr.ErrNotFound)
	}

	secret := &models.Secret{
		Content:  in.Content,
		Title:    in.Title,
		SchoolID: schoolID,
		Approved: true,
	}
	if err := s.secrets.Create(ctx, secret); err != nil {
		return nil, err
	}
	return secret, nil
}

// ListPublished returns approved secrets, newest first.
func (s *PostService) ListPublished(ctx context.Context, limit int) ([]models.Secret, error) {
	return s.secrets.ListApproved(ctx, limit)
}

// Schools returns the school reference data.
func (s *PostService) Schools(ctx context.Context) ([]models.School, error) {
	return s.schools.List(ctx)
}
