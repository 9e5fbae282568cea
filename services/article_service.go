package services

import (
	"context"

	"github.com/farmcare/farmcare/domain"
)

// ArticleService manages expert farming articles.
type ArticleService struct {
	articles domain.ArticleRepository
}

// NewArticleService creates an ArticleService.
func NewArticleService(articles domain.ArticleRepository) *ArticleService {
	return &ArticleService{articles: articles}
}

// Create adds a new article. Title and description are required.
func (s *ArticleService) Create(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	if article.Title == "" || article.Description == "" {
		return nil, ErrMissingFields
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Update applies a partial update and returns the updated article.
func (s *ArticleService) Update(ctx context.Context, id string, fields map[string]any) (*domain.Article, error) {
	return s.articles.Update(ctx, id, fields)
}

// Delete removes an article.
func (s *ArticleService) Delete(ctx context.Context, id string) error {
	return s.articles.Delete(ctx, id)
}

// Get returns a single article.
func (s *ArticleService) Get(ctx context.Context, id string) (*domain.Article, error) {
	return s.articles.GetByID(ctx, id)
}

// List returns articles, optionally filtered by category.
func (s *ArticleService) List(ctx context.Context, category string) ([]*domain.Article, error) {
	return s.articles.List(ctx, category)
}
