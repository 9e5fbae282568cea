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

// NewsRepository implements domain.NewsRepository.
type NewsRepository struct {
	news *mongo.Collection
}

// NewNewsRepository creates a new NewsRepository backed by MongoDB.
func NewNewsRepository(ctx context.Context, db *mongo.Database) (domain.NewsRepository, error) {
	repo := &NewsRepository{
		news: db.Collection(NewsCollection),
	}

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	if _, err := repo.news.Indexes().CreateMany(ctx, indexModels); err != nil {
		log.Warn().Err(err).Msg("Failed to create news indexes (might be due to existing compatible indexes)")
	}
	return repo, nil
}

// Create inserts a new news entry.
func (r *NewsRepository) Create(ctx context.Context, news *domain.News) error {
	if news.ID == "" {
		news.ID = NewObjectID()
	}
	now := time.Now().UTC()
	news.CreatedAt = now
	news.UpdatedAt = now

	if _, err := r.news.InsertOne(ctx, news); err != nil {
		log.Error().Err(err).Str("title", news.Title).Msg("Error creating news in MongoDB")
		return err
	}
	return nil
}

// Update applies a partial update and returns the updated news entry.
func (r *NewsRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.News, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var news domain.News
	err := r.news.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&news)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("Error updating news in MongoDB")
		return nil, err
	}
	return &news, nil
}

// Delete removes a news entry by ID.
func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	result, err := r.news.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error deleting news from MongoDB")
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID retrieves a single news entry.
func (r *NewsRepository) GetByID(ctx context.Context, id string) (*domain.News, error) {
	var news domain.News
	err := r.news.FindOne(ctx, bson.M{"_id": id}).Decode(&news)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("Error getting news from MongoDB")
		return nil, err
	}
	return &news, nil
}

// List returns all news entries, newest first.
func (r *NewsRepository) List(ctx context.Context) ([]*domain.News, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.news.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		log.Error().Err(err).Msg("Error listing news from MongoDB")
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []*domain.News{}
	if err = cursor.All(ctx, &items); err != nil {
		log.Error().Err(err).Msg("Error decoding listed news from MongoDB")
		return nil, err
	}
	return items, nil
}

// Ensure interface compliance
var _ domain.NewsRepository = (*NewsRepository)(nil)
