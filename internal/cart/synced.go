package cart

import (
	"context"
	"sync"
	"time"

	"vinyl-crate/internal/model"

	"github.com/rs/zerolog"
)

// reconcileTimeout bounds the follow-up fetch after a failed mutation. The
// fetch deliberately does not reuse the caller's context, which may already
// be cancelled.
const reconcileTimeout = 5 * time.Second

// SyncService is the remote cart store consumed by SyncedCart. Quantities
// passed to UpsertItem are absolute, not deltas.
type SyncService interface {
	GetCart(ctx context.Context, userID string) (*model.CartSnapshot, error)
	UpsertItem(ctx context.Context, userID, productID string, quantity int) (*model.CartSnapshot, error)
	RemoveItem(ctx context.Context, userID, productID string) (*model.CartSnapshot, error)
	ReplaceCart(ctx context.Context, userID string, lines []model.CartLine) (*model.CartSnapshot, error)
	DeleteCart(ctx context.Context, userID string) error
}

// SyncedCart is the server-backed cart variant: every mutation is applied to
// the local aggregate first (optimistic) and then pushed to the sync service.
// On success the server's snapshot is adopted, so the last response wins per
// product. On failure the error is returned to the caller and the local state
// is reconciled to the server's last-known-good snapshot, so an optimistic
// value the server rejected does not linger.
//
// A mutex serialises mutations end to end: a mutation never observes local
// state mutated by another caller between its optimistic apply and its remote
// completion.
type SyncedCart struct {
	mu     sync.Mutex
	userID string
	local  *Cart
	svc    SyncService
	logger zerolog.Logger
}

// NewSynced creates a server-backed cart for the given user.
func NewSynced(userID string, svc SyncService, logger zerolog.Logger) *SyncedCart {
	return &SyncedCart{
		userID: userID,
		local:  New(),
		svc:    svc,
		logger: logger.With().Str("component", "synced-cart").Str("user_id", userID).Logger(),
	}
}

// Load fetches the user's cart from the sync service into the local
// aggregate. A missing server cart loads as empty.
func (s *SyncedCart) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.svc.GetCart(ctx, s.userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load cart")
		return err
	}
	s.local.Restore(snap.Lines)
	return nil
}

// Add merges qty units of v into the cart and pushes the new absolute
// quantity to the sync service.
func (s *SyncedCart) Add(ctx context.Context, v model.Vinyl, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.local.Add(v, qty)
	line, _ := s.local.Line(v.ID)
	return s.push(ctx, v.ID, line.Quantity)
}

// Inc increases the quantity of the line for productID by 1. Unknown product
// IDs are a no-op and issue no request.
func (s *SyncedCart) Inc(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.local.Line(productID); !ok {
		return nil
	}
	s.local.Inc(productID)
	line, _ := s.local.Line(productID)
	return s.push(ctx, productID, line.Quantity)
}

// Dec decreases the quantity of the line for productID by 1, floored at 1.
// A dec that changes nothing issues no request.
func (s *SyncedCart) Dec(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, ok := s.local.Line(productID)
	if !ok || before.Quantity <= 1 {
		return nil
	}
	s.local.Dec(productID)
	line, _ := s.local.Line(productID)
	return s.push(ctx, productID, line.Quantity)
}

// Update sets the quantity of the line for productID; a quantity below 1
// removes the line. Unknown product IDs are a no-op.
func (s *SyncedCart) Update(ctx context.Context, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.local.Line(productID); !ok {
		return nil
	}
	if qty < 1 {
		s.local.Remove(productID)
		return s.adopt(s.svc.RemoveItem(ctx, s.userID, productID))
	}
	s.local.Update(productID, qty)
	return s.push(ctx, productID, qty)
}

// Remove deletes the line for productID; removing an absent line is a no-op
// and issues no request.
func (s *SyncedCart) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.local.Line(productID); !ok {
		return nil
	}
	s.local.Remove(productID)
	return s.adopt(s.svc.RemoveItem(ctx, s.userID, productID))
}

// Clear empties the cart locally and deletes it server-side. The local clear
// always sticks, even when the remote delete fails: after a successful
// checkout the lines must not resurface and allow resubmission.
func (s *SyncedCart) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.local.Clear()
	if err := s.svc.DeleteCart(ctx, s.userID); err != nil {
		s.logger.Warn().Err(err).Msg("failed to delete remote cart")
		return err
	}
	return nil
}

// Subtotal returns the subtotal of the local optimistic state.
func (s *SyncedCart) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local.Subtotal()
}

// Count returns the unit count of the local optimistic state.
func (s *SyncedCart) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local.Count()
}

// Lines returns a copy of the local cart lines in insertion order.
func (s *SyncedCart) Lines() []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local.Lines()
}

// push sends the absolute quantity for productID to the sync service and
// adopts the resulting snapshot.
func (s *SyncedCart) push(ctx context.Context, productID string, quantity int) error {
	return s.adopt(s.svc.UpsertItem(ctx, s.userID, productID, quantity))
}

// adopt applies the outcome of a remote mutation. On success the server
// snapshot replaces the local state; on failure the local state is
// reconciled to the server's last-known-good cart and the original error is
// returned. Callers hold the mutex.
func (s *SyncedCart) adopt(snap *model.CartSnapshot, err error) error {
	if err != nil {
		s.logger.Error().Err(err).Msg("cart mutation failed, reconciling to server state")
		s.reconcile()
		return err
	}
	if snap != nil {
		s.local.Restore(snap.Lines)
	}
	return nil
}

// reconcile replaces the local state with the server's current cart. When the
// server cannot be reached either, the optimistic local state is left intact
// so the user's view does not go blank on a transient outage.
func (s *SyncedCart) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	snap, err := s.svc.GetCart(ctx, s.userID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("reconcile fetch failed, keeping optimistic state")
		return
	}
	s.local.Restore(snap.Lines)
}
