package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/farmcare/farmcare/domain"
	"github.com/farmcare/farmcare/internal/classifier"
	"github.com/farmcare/farmcare/internal/metrics"
	"github.com/farmcare/farmcare/internal/storage"
)

// MaxUploadBytes is the largest accepted image.
const MaxUploadBytes = 5 << 20

var (
	// ErrUnsupportedImage is returned for file types outside the allowed set.
	ErrUnsupportedImage = errors.New("unsupported image type, use jpg, jpeg, png, gif or webp")

	// ErrImageTooLarge is returned when the upload exceeds MaxUploadBytes.
	ErrImageTooLarge = errors.New("image exceeds the 5 MB limit")
)

var allowedImageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ValidateImage checks an upload's extension and size, returning its content
// type.
func ValidateImage(fileName string, size int) (string, error) {
	contentType, ok := allowedImageExts[strings.ToLower(path.Ext(fileName))]
	if !ok {
		return "", ErrUnsupportedImage
	}
	if size > MaxUploadBytes {
		return "", ErrImageTooLarge
	}
	return contentType, nil
}

// UploadService handles plant-image uploads: store the image, ask the
// external classifier for a verdict, record the result.
type UploadService struct {
	uploads    domain.UploadRepository
	store      storage.ObjectStore
	classifier *classifier.Client
}

// NewUploadService creates an UploadService.
func NewUploadService(uploads domain.UploadRepository, store storage.ObjectStore, cls *classifier.Client) *UploadService {
	return &UploadService{
		uploads:    uploads,
		store:      store,
		classifier: cls,
	}
}

// Analyze stores the image and records the classifier's verdict. A
// classifier failure still produces an upload record, just without an
// analysis, so the user's history stays complete.
func (s *UploadService) Analyze(ctx context.Context, userID, fileName string, image []byte) (*domain.Upload, error) {
	contentType, err := ValidateImage(fileName, len(image))
	if err != nil {
		return nil, err
	}

	url, key, err := s.store.Put(ctx, "crop-images", fileName, contentType, image)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	upload := &domain.Upload{
		UserID:   userID,
		FileName: fileName,
		ImageURL: url,
		ImageKey: key,
	}

	result, err := s.classifier.Classify(ctx, fileName, image)
	if err != nil {
		log.Warn().Err(err).Str("userID", userID).Msg("Classifier unavailable, recording upload without analysis")
	} else {
		upload.Analysis = fmt.Sprintf("%s (%.0f%% confidence). %s", result.Disease, result.Confidence*100, result.Advice)
	}

	if err := s.uploads.Create(ctx, upload); err != nil {
		return nil, err
	}

	metrics.UploadsTotal.Inc()
	return upload, nil
}

// StoreProfileImage stores an avatar image and returns its URL and key.
// Validation is the caller's job.
func (s *UploadService) StoreProfileImage(ctx context.Context, fileName, contentType string, data []byte) (string, string, error) {
	return s.store.Put(ctx, "profile-images", fileName, contentType, data)
}

// History returns the user's recent uploads and their total count.
func (s *UploadService) History(ctx context.Context, userID string, limit int) ([]*domain.Upload, int64, error) {
	uploads, err := s.uploads.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.uploads.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return uploads, count, nil
}
