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

// SchemeRepository implements domain.SchemeRepository.
type SchemeRepository struct {
	schemes *mongo.Collection
}

// NewSchemeRepository creates a new SchemeRepository backed by MongoDB.
func NewSchemeRepository(ctx context.Context, db *mongo.Database) (domain.SchemeRepository, error) {
	repo := &SchemeRepository{
		schemes: db.Collection(SchemesCollection),
	}

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "state", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	if _, err := repo.schemes.Indexes().CreateMany(ctx, indexModels); err != nil {
		log.Warn().Err(err).Msg("Failed to create scheme indexes (might be due to existing compatible indexes)")
	}
	return repo, nil
}

// Create inserts a new scheme.
func (r *SchemeRepository) Create(ctx context.Context, scheme *domain.Scheme) error {
	if scheme.ID == "" {
		scheme.ID = NewObjectID()
	}
	now := time.Now().UTC()
	scheme.CreatedAt = now
	scheme.UpdatedAt = now

	if _, err := r.schemes.InsertOne(ctx, scheme); err != nil {
		log.Error().Err(err).Str("name", scheme.Name).Msg("Error creating scheme in MongoDB")
		return err
	}
	return nil
}

// Update applies a partial update and returns the updated scheme.
func (r *SchemeRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Scheme, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var scheme domain.Scheme
	err := r.schemes.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&scheme)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("Error updating scheme in MongoDB")
		return nil, err
	}
	return &scheme, nil
}

// Delete removes a scheme by ID.
func (r *SchemeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.schemes.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error deleting scheme from MongoDB")
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns schemes, optionally filtered by state, newest first.
func (r *SchemeRepository) List(ctx context.Context, state string) ([]*domain.Scheme, error) {
	filter := bson.M{}
	if state != "" {
		filter["state"] = state
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.schemes.Find(ctx, filter, findOptions)
	if err != nil {
		log.Error().Err(err).Msg("Error listing schemes from MongoDB")
		return nil, err
	}
	defer cursor.Close(ctx)

	schemes := []*domain.Scheme{}
	if err = cursor.All(ctx, &schemes); err != nil {
		log.Error().Err(err).Msg("Error decoding listed schemes from MongoDB")
		return nil, err
	}
	return schemes, nil
}

// Ensure interface compliance
var _ domain.SchemeRepository = (*SchemeRepository)(nil)
