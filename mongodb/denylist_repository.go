package mongodb

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmcare/farmcare/cache"
	"github.com/farmcare/farmcare/domain"
)

// deniedToken is the persisted shape of a revoked token. Tokens are stored
// hashed, never verbatim.
type deniedToken struct {
	TokenHash string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	RevokedAt time.Time `bson:"revoked_at"`
}

// DenylistRepository implements domain.DenylistRepository.
type DenylistRepository struct {
	tokens *mongo.Collection
}

// NewDenylistRepository creates a new DenylistRepository backed by MongoDB.
// A TTL index on expires_at lets MongoDB discard entries once the token
// would have expired on its own.
func NewDenylistRepository(ctx context.Context, db *mongo.Database) (domain.DenylistRepository, error) {
	repo := &DenylistRepository{
		tokens: db.Collection(TokenDenylistCollection),
	}

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
	if _, err := repo.tokens.Indexes().CreateMany(ctx, indexModels); err != nil {
		log.Warn().Err(err).Msg("Failed to create denylist indexes (might be due to existing compatible indexes)")
	}
	return repo, nil
}

// Add records a revoked token. Adding the same token twice is a no-op.
func (r *DenylistRepository) Add(ctx context.Context, token string, expiresAt time.Time) error {
	entry := deniedToken{
		TokenHash: cache.HashToken(token),
		ExpiresAt: expiresAt,
		RevokedAt: time.Now().UTC(),
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.tokens.ReplaceOne(ctx, bson.M{"_id": entry.TokenHash}, entry, opts); err != nil {
		log.Error().Err(err).Msg("Error adding token to denylist in MongoDB")
		return err
	}
	return nil
}

// Contains reports whether the token has been revoked.
func (r *DenylistRepository) Contains(ctx context.Context, token string) (bool, error) {
	count, err := r.tokens.CountDocuments(ctx, bson.M{"_id": cache.HashToken(token)})
	if err != nil {
		log.Error().Err(err).Msg("Error checking token denylist in MongoDB")
		return false, err
	}
	return count > 0, nil
}

// Ensure interface compliance
var _ domain.DenylistRepository = (*DenylistRepository)(nil)
