package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/sujalbistaa/secretos/internal/apperr"
	"github.com/sujalbistaa/secretos/internal/imageproc"
	"github.com/sujalbistaa/secretos/internal/models"
	"github.com/sujalbistaa/secretos/internal/repository"
	"github.com/sujalbistaa/secretos/internal/storage"
)

type ImageService struct {
	images repository.ImageRepository
	store  storage.Uploader
	now    func() time.Time
}

func NewImageService(images repository.ImageRepository, store storage.Uploader) *ImageService {
	return &ImageService{images: images, store: store, now: time.Now}
}

// Upload normalizes an image, stores it and records its public URL for
// secretID. Nothing is recorded when the upload fails.
func (s *ImageService) Upload(ctx context.Context, secretID uint, data []byte, mimeType string) (*models.SecretImage, error) {
	if !imageproc.IsAllowed(mimeType) {
		return nil, fmt.Errorf("%w: Invalid file type. Only images are allowed.", apperr.ErrBadRequest)
	}

	res, err := imageproc.Normalize(data, mimeType)
	if errors.Is(err, imageproc.ErrTooManyPixels) {
		return nil, fmt.Errorf("%w: Image dimensions are too large", apperr.ErrBadRequest)
	}
	if err != nil {
		return nil, fmt.Errorf("normalize image: %w", err)
	}

	key := imageproc.StorageKey(s.now(), secretID, res.Extension)
	if err := s.store.Upload(ctx, key, res.Data, res.ContentType); err != nil {
		return nil, err
	}

	image := &models.SecretImage{
		SecretID: secretID,
		URLs:     datatypes.NewJSONType(models.ImageURLs{PublicURL: s.store.PublicURL(key)}),
	}
	if err := s.images.Create(ctx, image); err != nil {
		return nil, err
	}
	return image, nil
}

// URLs returns the public URLs of every image attached to secretID.
func (s *ImageService) URLs(ctx context.Context, secretID uint) ([]string, error) {
	images, err := s.images.ListBySecret(ctx, secretID)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.URLs.Data().PublicURL)
	}
	return urls, nil
}
