package service

import (
	"context"

	"vinyl-crate/internal/model"

	"github.com/google/uuid"
)

// CatalogService defines operations for browsing the vinyl catalogue.
type CatalogService interface {
	// GetAll retrieves all vinyls with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Vinyl, error)

	// GetByID retrieves a single vinyl by ID.
	GetByID(ctx context.Context, id string) (*model.Vinyl, error)

	// GetBySlug retrieves a single vinyl by its URL slug.
	GetBySlug(ctx context.Context, slug string) (*model.Vinyl, error)

	// Search retrieves vinyls matching the query by title or artist.
	Search(ctx context.Context, query string, limit int) ([]model.Vinyl, error)

	// GetFeatured retrieves the vinyls flagged for the landing page.
	GetFeatured(ctx context.Context, limit int) ([]model.Vinyl, error)
}

// CartService defines server-side operations on persisted carts. Mutations
// return the full cart state after the change so callers can adopt it.
type CartService interface {
	// GetCart retrieves a user's cart, empty if none was saved.
	GetCart(ctx context.Context, userID string) (*model.CartSnapshot, error)

	// UpsertItem sets the absolute quantity for a product line, snapshotting
	// price and display fields from the catalogue when the line is new.
	UpsertItem(ctx context.Context, userID, productID string, quantity int) (*model.CartSnapshot, error)

	// RemoveItem deletes a product line from the cart.
	RemoveItem(ctx context.Context, userID, productID string) (*model.CartSnapshot, error)

	// ReplaceCart overwrites the cart with the provided lines.
	ReplaceCart(ctx context.Context, userID string, lines []model.CartLine) (*model.CartSnapshot, error)

	// DeleteCart removes a user's cart entirely.
	DeleteCart(ctx context.Context, userID string) error

	// MergeGuestLines folds a guest cart into the user's saved cart after
	// login, summing quantities for lines with the same product.
	MergeGuestLines(ctx context.Context, userID string, lines []model.CartLine) (*model.CartSnapshot, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// Create creates a new order from a checkout draft. Resubmitting a draft
	// with the same idempotency key returns the already-created order.
	Create(ctx context.Context, draft *model.OrderDraft) (*model.OrderResponse, error)

	// GetByID retrieves an order by its ID with all items and vinyl details.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)

	// ListByUser retrieves all orders belonging to a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)

	// Update applies a partial update to an order's status or payment flag.
	Update(ctx context.Context, id uuid.UUID, update model.OrderUpdate) (*model.Order, error)

	// Delete removes an order.
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuthService defines operations for account management.
type AuthService interface {
	// Register creates a new account and returns it with a verification code pending.
	Register(ctx context.Context, email, password string) (*model.User, error)

	// Login verifies credentials and returns a signed token with the user.
	Login(ctx context.Context, email, password string) (*model.LoginResponse, error)

	// VerifyEmail confirms the account's email with the emailed code.
	VerifyEmail(ctx context.Context, email, code string) error

	// ChangePassword replaces the user's password after checking the current one.
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error

	// ParseToken validates a signed token and returns the user it identifies.
	ParseToken(ctx context.Context, token string) (*model.User, error)
}
