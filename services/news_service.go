package services

import (
	"context"

	"github.com/farmcare/farmcare/domain"
)

// NewsService manages daily news entries.
type NewsService struct {
	news domain.NewsRepository
}

// NewNewsService creates a NewsService.
func NewNewsService(news domain.NewsRepository) *NewsService {
	return &NewsService{news: news}
}

// Create adds a news entry. Title and description are required.
func (s *NewsService) Create(ctx context.Context, item *domain.News) (*domain.News, error) {
	if item.Title == "" || item.Description == "" {
		return nil, ErrMissingFields
	}
	if err := s.news.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update applies a partial update and returns the updated entry.
func (s *NewsService) Update(ctx context.Context, id string, fields map[string]any) (*domain.News, error) {
	return s.news.Update(ctx, id, fields)
}

// Delete removes a news entry.
func (s *NewsService) Delete(ctx context.Context, id string) error {
	return s.news.Delete(ctx, id)
}

// Get returns a single news entry.
func (s *NewsService) Get(ctx context.Context, id string) (*domain.News, error) {
	return s.news.GetByID(ctx, id)
}

// List returns all news entries, newest first.
func (s *NewsService) List(ctx context.Context) ([]*domain.News, error) {
	return s.news.List(ctx)
}
