package repository

import (
	"context"

	"vinyl-crate/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// VinylRepository defines the interface for catalogue data access operations.
type VinylRepository interface {
	// GetAll retrieves all vinyls with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Vinyl, error)

	// GetByID retrieves a single vinyl by its ID.
	GetByID(ctx context.Context, id string) (*model.Vinyl, error)

	// GetBySlug retrieves a single vinyl by its URL slug.
	GetBySlug(ctx context.Context, slug string) (*model.Vinyl, error)

	// GetByIDs retrieves multiple vinyls by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Vinyl, error)

	// Search retrieves vinyls whose title or artist matches the query.
	Search(ctx context.Context, query string, limit int) ([]model.Vinyl, error)

	// GetFeatured retrieves the vinyls flagged for the landing page.
	GetFeatured(ctx context.Context, limit int) ([]model.Vinyl, error)

	// ValidateVinylsExist checks if all provided vinyl IDs exist in the database.
	// Returns error if any vinyl ID does not exist.
	ValidateVinylsExist(ctx context.Context, ids []string) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// GetByIdempotencyKey retrieves the order created for a given idempotency
	// key, along with its items.
	GetByIdempotencyKey(ctx context.Context, key string) (*model.Order, []model.OrderItem, error)

	// ListByUser retrieves all orders belonging to a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)

	// Update applies a partial update to an order.
	Update(ctx context.Context, id uuid.UUID, update model.OrderUpdate) (*model.Order, error)

	// Delete removes an order and its items. Returns the number of orders deleted.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// UserRepository defines the interface for account data access operations.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// SetVerified marks a user's email as verified.
	SetVerified(ctx context.Context, id uuid.UUID) error

	// UpdatePassword replaces a user's password hash.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// CartRepository defines the interface for persisted cart access.
type CartRepository interface {
	// Get retrieves a user's cart. Returns nil when no cart exists.
	Get(ctx context.Context, userID string) (*model.CartSnapshot, error)

	// Save persists a user's cart, replacing any previous state.
	Save(ctx context.Context, snapshot *model.CartSnapshot) error

	// Delete removes a user's cart.
	Delete(ctx context.Context, userID string) error
}
