package cart

import (
	"context"
	"sync"

	"vinyl-crate/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderPlacer is the order service surface the checkout depends on.
type OrderPlacer interface {
	Create(ctx context.Context, draft *model.OrderDraft) (*model.OrderResponse, error)
}

// Bag abstracts over the two cart variants at checkout time.
type Bag interface {
	Lines() []model.CartLine
	Clear(ctx context.Context) error
}

// LocalBag adapts the pure in-memory Cart to the Bag interface.
type LocalBag struct {
	*Cart
}

// Clear empties the underlying cart; the context is unused because the local
// variant has no remote side.
func (b LocalBag) Clear(ctx context.Context) error {
	b.Cart.Clear()
	return nil
}

// Checkout assembles an OrderDraft from a non-empty cart and an authenticated
// user and submits it. A failed submission leaves the cart untouched so the
// user can retry; the retry reuses the same idempotency key, so a submission
// that reached the server but whose response was lost cannot create a second
// order.
type Checkout struct {
	orders OrderPlacer
	logger zerolog.Logger

	mu      sync.Mutex
	pending *model.OrderDraft
}

// NewCheckout creates a checkout bound to the given order service.
func NewCheckout(orders OrderPlacer, logger zerolog.Logger) *Checkout {
	return &Checkout{
		orders: orders,
		logger: logger.With().Str("component", "checkout").Logger(),
	}
}

// Submit validates preconditions, builds the order draft and submits it.
// An empty cart returns model.ErrCartEmpty and a nil user returns
// model.ErrLoginRequired; in both cases the order service is not called.
// On success the bag is cleared before returning.
func (c *Checkout) Submit(ctx context.Context, user *model.User, bag Bag) (*model.OrderResponse, error) {
	if user == nil {
		return nil, model.ErrLoginRequired
	}

	lines := bag.Lines()
	if len(lines) == 0 {
		return nil, model.ErrCartEmpty
	}

	c.mu.Lock()
	draft := c.draftFor(user.ID.String(), lines)
	c.mu.Unlock()

	resp, err := c.orders.Create(ctx, draft)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("user_id", draft.UserID).
			Str("idempotency_key", draft.IdempotencyKey).
			Msg("order submission failed, cart preserved")
		return nil, err
	}

	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()

	if err := bag.Clear(ctx); err != nil {
		// The order exists; a stale remote cart is the lesser problem.
		c.logger.Warn().
			Err(err).
			Str("order_id", resp.ID.String()).
			Msg("failed to clear cart after successful checkout")
	}

	c.logger.Info().
		Str("order_id", resp.ID.String()).
		Str("user_id", draft.UserID).
		Int("total_quantity", draft.TotalQuantity).
		Msg("checkout completed")

	return resp, nil
}

// draftFor builds the draft for the given lines, reusing the pending draft's
// idempotency key when the retry submits the same items for the same user.
// Callers hold the mutex.
func (c *Checkout) draftFor(userID string, lines []model.CartLine) *model.OrderDraft {
	items := make([]model.DraftItem, 0, len(lines))
	total := 0
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		items = append(items, model.DraftItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			ImageRef:  l.ImageRef,
		})
		total += l.Quantity
	}

	if c.pending != nil && c.pending.UserID == userID && sameItems(c.pending.Items, items) {
		return c.pending
	}

	draft := &model.OrderDraft{
		UserID:         userID,
		Items:          items,
		TotalQuantity:  total,
		IdempotencyKey: uuid.New().String(),
	}
	c.pending = draft
	return draft
}

func sameItems(a, b []model.DraftItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
