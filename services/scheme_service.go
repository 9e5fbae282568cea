package services

import (
	"context"
	"errors"

	"github.com/farmcare/farmcare/domain"
)

// ErrMissingFields is returned when a create request lacks required fields.
var ErrMissingFields = errors.New("missing required fields")

// SchemeService manages government scheme entries.
type SchemeService struct {
	schemes domain.SchemeRepository
}

// NewSchemeService creates a SchemeService.
func NewSchemeService(schemes domain.SchemeRepository) *SchemeService {
	return &SchemeService{schemes: schemes}
}

// Create adds a new scheme. Name and description are required.
func (s *SchemeService) Create(ctx context.Context, scheme *domain.Scheme) (*domain.Scheme, error) {
	if scheme.Name == "" || scheme.Description == "" {
		return nil, ErrMissingFields
	}
	if err := s.schemes.Create(ctx, scheme); err != nil {
		return nil, err
	}
	return scheme, nil
}

// Update applies a partial update and returns the updated scheme.
func (s *SchemeService) Update(ctx context.Context, id string, fields map[string]any) (*domain.Scheme, error) {
	return s.schemes.Update(ctx, id, fields)
}

// Delete removes a scheme.
func (s *SchemeService) Delete(ctx context.Context, id string) error {
	return s.schemes.Delete(ctx, id)
}

// List returns schemes, optionally filtered by state.
func (s *SchemeService) List(ctx context.Context, state string) ([]*domain.Scheme, error) {
	return s.schemes.List(ctx, state)
}
