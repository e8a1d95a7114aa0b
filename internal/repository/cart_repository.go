package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vinyl-crate/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const cartKeyPrefix = "cart:"

// cartRepository implements the CartRepository interface using Redis. Each
// cart is stored as a JSON blob under cart:<userID> with a sliding TTL.
type cartRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCartRepository creates a new Redis-backed cart repository. A zero ttl
// means carts never expire.
func NewCartRepository(client *redis.Client, ttl time.Duration, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

func cartKey(userID string) string {
	return cartKeyPrefix + userID
}

// Get retrieves a user's cart. Returns nil when no cart exists.
func (r *cartRepository) Get(ctx context.Context, userID string) (*model.CartSnapshot, error) {
	data, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug().Str("user_id", userID).Msg("cart not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	var snapshot model.CartSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to unmarshal cart")
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}

	return &snapshot, nil
}

// Save persists a user's cart, replacing any previous state.
func (r *cartRepository) Save(ctx context.Context, snapshot *model.CartSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", snapshot.UserID).Msg("failed to marshal cart")
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, cartKey(snapshot.UserID), data, r.ttl).Err(); err != nil {
		r.logger.Error().Err(err).Str("user_id", snapshot.UserID).Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}

	r.logger.Debug().
		Str("user_id", snapshot.UserID).
		Int("lines", len(snapshot.Lines)).
		Msg("cart saved")

	return nil
}

// Delete removes a user's cart.
func (r *cartRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to delete cart")
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	r.logger.Debug().Str("user_id", userID).Msg("cart deleted")

	return nil
}
