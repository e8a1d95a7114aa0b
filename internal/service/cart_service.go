package service

import (
	"context"
	"fmt"
	"time"

	"vinyl-crate/internal/cart"
	"vinyl-crate/internal/model"
	"vinyl-crate/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService over the Redis-backed cart repository.
type cartService struct {
	cartRepo  repository.CartRepository
	vinylRepo repository.VinylRepository
	logger    zerolog.Logger
}

// cartService also satisfies cart.SyncService, so the synced client aggregate
// can talk to it directly in-process.
var _ cart.SyncService = (*cartService)(nil)

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	vinylRepo repository.VinylRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:  cartRepo,
		vinylRepo: vinylRepo,
		logger:    logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart retrieves a user's cart, empty if none was saved.
func (s *cartService) GetCart(ctx context.Context, userID string) (*model.CartSnapshot, error) {
	snapshot, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if snapshot == nil {
		snapshot = &model.CartSnapshot{UserID: userID, Lines: []model.CartLine{}}
	}

	return snapshot, nil
}

// UpsertItem sets the absolute quantity for a product line. New lines snapshot
// price, title and cover from the catalogue; existing lines keep their
// snapshot and only change quantity.
func (s *cartService) UpsertItem(ctx context.Context, userID, productID string, quantity int) (*model.CartSnapshot, error) {
	if quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	snapshot, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range snapshot.Lines {
		if snapshot.Lines[i].ProductID == productID {
			snapshot.Lines[i].Quantity = quantity
			found = true
			break
		}
	}

	if !found {
		vinyl, err := s.vinylRepo.GetByID(ctx, productID)
		if err != nil {
			s.logger.Error().Err(err).Str("vinyl_id", productID).Msg("failed to look up vinyl for cart line")
			return nil, fmt.Errorf("failed to look up vinyl: %w", err)
		}
		if vinyl == nil {
			s.logger.Warn().Str("vinyl_id", productID).Msg("attempt to add unknown vinyl to cart")
			return nil, model.ErrVinylNotFound
		}

		snapshot.Lines = append(snapshot.Lines, model.CartLine{
			ProductID:   vinyl.ID,
			Quantity:    quantity,
			UnitPrice:   vinyl.Price,
			DisplayName: vinyl.Title,
			ImageRef:    vinyl.CoverPath,
		})
	}

	return s.save(ctx, snapshot)
}

// RemoveItem deletes a product line from the cart. Removing an absent line
// leaves the cart unchanged.
func (s *cartService) RemoveItem(ctx context.Context, userID, productID string) (*model.CartSnapshot, error) {
	snapshot, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range snapshot.Lines {
		if snapshot.Lines[i].ProductID == productID {
			snapshot.Lines = append(snapshot.Lines[:i], snapshot.Lines[i+1:]...)
			return s.save(ctx, snapshot)
		}
	}

	return snapshot, nil
}

// ReplaceCart overwrites the cart with the provided lines. Lines with a
// non-positive quantity or blank product ID are dropped, and lines sharing a
// product ID are merged by summing quantities, the first line's snapshot
// fields winning. The saved cart always holds at most one line per product.
func (s *cartService) ReplaceCart(ctx context.Context, userID string, lines []model.CartLine) (*model.CartSnapshot, error) {
	kept := make([]model.CartLine, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity < 1 {
			continue
		}
		if i, ok := index[l.ProductID]; ok {
			kept[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(kept)
		kept = append(kept, l)
	}

	return s.save(ctx, &model.CartSnapshot{UserID: userID, Lines: kept})
}

// DeleteCart removes a user's cart entirely.
func (s *cartService) DeleteCart(ctx context.Context, userID string) error {
	if err := s.cartRepo.Delete(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to delete cart")
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Msg("cart deleted")

	return nil
}

// MergeGuestLines folds a guest cart into the user's saved cart after login.
// Quantities are summed for lines sharing a product ID; the saved line's
// snapshot fields win.
func (s *cartService) MergeGuestLines(ctx context.Context, userID string, lines []model.CartLine) (*model.CartSnapshot, error) {
	snapshot, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, guest := range lines {
		if guest.ProductID == "" || guest.Quantity < 1 {
			continue
		}

		merged := false
		for i := range snapshot.Lines {
			if snapshot.Lines[i].ProductID == guest.ProductID {
				snapshot.Lines[i].Quantity += guest.Quantity
				merged = true
				break
			}
		}
		if !merged {
			snapshot.Lines = append(snapshot.Lines, guest)
		}
	}

	s.logger.Info().
		Str("user_id", userID).
		Int("guest_lines", len(lines)).
		Int("merged_lines", len(snapshot.Lines)).
		Msg("guest cart merged")

	return s.save(ctx, snapshot)
}

func (s *cartService) save(ctx context.Context, snapshot *model.CartSnapshot) (*model.CartSnapshot, error) {
	snapshot.UpdatedAt = time.Now().UTC()

	if err := s.cartRepo.Save(ctx, snapshot); err != nil {
		s.logger.Error().Err(err).Str("user_id", snapshot.UserID).Msg("failed to save cart")
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return snapshot, nil
}
