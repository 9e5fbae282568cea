package mongodb

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmcare/farmcare/domain"
)

// UploadRepository implements domain.UploadRepository.
type UploadRepository struct {
	uploads *mongo.Collection
}

// NewUploadRepository creates a new UploadRepository backed by MongoDB.
func NewUploadRepository(ctx context.Context, db *mongo.Database) (domain.UploadRepository, error) {
	repo := &UploadRepository{
		uploads: db.Collection(UploadsCollection),
	}

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := repo.uploads.Indexes().CreateMany(ctx, indexModels); err != nil {
		log.Warn().Err(err).Msg("Failed to create upload indexes (might be due to existing compatible indexes)")
	}
	return repo, nil
}

// Create inserts a new upload record.
func (r *UploadRepository) Create(ctx context.Context, upload *domain.Upload) error {
	if upload.ID == "" {
		upload.ID = NewObjectID()
	}
	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = time.Now().UTC()
	}

	if _, err := r.uploads.InsertOne(ctx, upload); err != nil {
		log.Error().Err(err).Str("user_id", upload.UserID).Msg("Error creating upload record in MongoDB")
		return err
	}
	return nil
}

// CountByUser returns the number of uploads a user has made.
func (r *UploadRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	count, err := r.uploads.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Error counting uploads in MongoDB")
		return 0, err
	}
	return count, nil
}

// ListByUser returns a user's most recent uploads.
func (r *UploadRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Upload, error) {
	if limit <= 0 {
		limit = 20
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.uploads.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Error listing uploads from MongoDB")
		return nil, err
	}
	defer cursor.Close(ctx)

	uploads := []*domain.Upload{}
	if err = cursor.All(ctx, &uploads); err != nil {
		log.Error().Err(err).Msg("Error decoding listed uploads from MongoDB")
		return nil, err
	}
	return uploads, nil
}

// Ensure interface compliance
var _ domain.UploadRepository = (*UploadRepository)(nil)
