package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmcare/farmcare/domain"
)

// ArticleRepository implements domain.ArticleRepository.
type ArticleRepository struct {
	articles *mongo.Collection
}

// NewArticleRepository creates a new ArticleRepository backed by MongoDB.
func NewArticleRepository(ctx context.Context, db *mongo.Database) (domain.ArticleRepository, error) {
	repo := &ArticleRepository{
		articles: db.Collection(ArticlesCollection),
	}

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := repo.articles.Indexes().CreateMany(ctx, indexModels); err != nil {
		log.Warn().Err(err).Msg("Failed to create article indexes (might be due to existing compatible indexes)")
	}
	return repo, nil
}

// Create inserts a new article.
func (r *ArticleRepository) Create(ctx context.Context, article *domain.Article) error {
	if article.ID == "" {
		article.ID = NewObjectID()
	}
	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now

	if _, err := r.articles.InsertOne(ctx, article); err != nil {
		log.Error().Err(err).Str("title", article.Title).Msg("Error creating article in MongoDB")
		return err
	}
	return nil
}

// Update applies a partial update and returns the updated article.
func (r *ArticleRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Article, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var article domain.Article
	err := r.articles.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&article)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("Error updating article in MongoDB")
		return nil, err
	}
	return &article, nil
}

// Delete removes an article by ID.
func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.articles.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error deleting article from MongoDB")
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID retrieves a single article.
func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	var article domain.Article
	err := r.articles.FindOne(ctx, bson.M{"_id": id}).Decode(&article)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("Error getting article from MongoDB")
		return nil, err
	}
	return &article, nil
}

// List returns articles, optionally filtered by category, newest first.
func (r *ArticleRepository) List(ctx context.Context, category string) ([]*domain.Article, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.articles.Find(ctx, filter, findOptions)
	if err != nil {
		log.Error().Err(err).Msg("Error listing articles from MongoDB")
		return nil, err
	}
	defer cursor.Close(ctx)

	articles := []*domain.Article{}
	if err = cursor.All(ctx, &articles); err != nil {
		log.Error().Err(err).Msg("Error decoding listed articles from MongoDB")
		return nil, err
	}
	return articles, nil
}

// Ensure interface compliance
var _ domain.ArticleRepository = (*ArticleRepository)(nil)
