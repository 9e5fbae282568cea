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

// PriceRepository implements domain.PriceRepository.
type PriceRepository struct {
	prices *mongo.Collection
}

// NewPriceRepository creates a new PriceRepository backed by MongoDB.
func NewPriceRepository(ctx context.Context, db *mongo.Database) (domain.PriceRepository, error) {
	repo := &PriceRepository{
		prices: db.Collection(PricesCollection),
	}

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "state", Value: 1}, {Key: "region", Value: 1}}},
		{Keys: bson.D{{Key: "crop_name", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := repo.prices.Indexes().CreateMany(ctx, indexModels); err != nil {
		log.Warn().Err(err).Msg("Failed to create price indexes (might be due to existing compatible indexes)")
	}
	return repo, nil
}

// Create inserts a new price entry.
func (r *PriceRepository) Create(ctx context.Context, price *domain.Price) error {
	if price.ID == "" {
		price.ID = NewObjectID()
	}
	now := time.Now().UTC()
	price.CreatedAt = now
	price.UpdatedAt = now

	if _, err := r.prices.InsertOne(ctx, price); err != nil {
		log.Error().Err(err).Str("crop", price.CropName).Msg("Error creating price in MongoDB")
		return err
	}
	return nil
}

// Update applies a partial update and returns the updated price entry.
func (r *PriceRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Price, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var price domain.Price
	err := r.prices.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&price)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("Error updating price in MongoDB")
		return nil, err
	}
	return &price, nil
}

// Delete removes a price entry by ID.
func (r *PriceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.prices.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error deleting price from MongoDB")
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID retrieves a single price entry.
func (r *PriceRepository) GetByID(ctx context.Context, id string) (*domain.Price, error) {
	var price domain.Price
	err := r.prices.FindOne(ctx, bson.M{"_id": id}).Decode(&price)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("Error getting price from MongoDB")
		return nil, err
	}
	return &price, nil
}

// List returns price entries matching the filter, newest first.
func (r *PriceRepository) List(ctx context.Context, filter domain.PriceFilter) ([]*domain.Price, error) {
	query := bson.M{}
	if filter.State != "" {
		query["state"] = filter.State
	}
	if filter.Region != "" {
		query["region"] = filter.Region
	}
	if filter.CropName != "" {
		query["crop_name"] = filter.CropName
	}
	if filter.BeforeDate != nil {
		query["created_at"] = bson.M{"$lte": *filter.BeforeDate}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.prices.Find(ctx, query, findOptions)
	if err != nil {
		log.Error().Err(err).Msg("Error listing prices from MongoDB")
		return nil, err
	}
	defer cursor.Close(ctx)

	prices := []*domain.Price{}
	if err = cursor.All(ctx, &prices); err != nil {
		log.Error().Err(err).Msg("Error decoding listed prices from MongoDB")
		return nil, err
	}
	return prices, nil
}

// Ensure interface compliance
var _ domain.PriceRepository = (*PriceRepository)(nil)
