package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vinyl-crate/internal/model"
	"vinyl-crate/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// uniqueViolationCode is the postgres error code for a unique-constraint
// violation.
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	vinylRepo repository.VinylRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	vinylRepo repository.VinylRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		vinylRepo: vinylRepo,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Create creates a new order from a checkout draft. Resubmitting a draft with
// the same idempotency key returns the already-created order instead of
// creating a duplicate.
func (s *orderService) Create(ctx context.Context, draft *model.OrderDraft) (*model.OrderResponse, error) {
	if err := s.validateDraft(draft); err != nil {
		return nil, err
	}

	// A retry of a draft we already processed returns the original order.
	if existing, items, err := s.orderRepo.GetByIdempotencyKey(ctx, draft.IdempotencyKey); err != nil {
		s.logger.Error().Err(err).Msg("failed to check idempotency key")
		return nil, fmt.Errorf("failed to create order: %w", err)
	} else if existing != nil {
		s.logger.Info().
			Str("order_id", existing.ID.String()).
			Msg("duplicate order submission, returning existing order")
		return s.buildResponse(ctx, existing, items)
	}

	productIDs := make([]string, len(draft.Items))
	for i, item := range draft.Items {
		productIDs[i] = item.ProductID
	}

	if err := s.vinylRepo.ValidateVinylsExist(ctx, productIDs); err != nil {
		s.logger.Warn().
			Int("vinyl_count", len(productIDs)).
			Err(err).
			Msg("vinyl validation failed")
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()
	order := &model.Order{
		ID:             uuid.New(),
		UserID:         draft.UserID,
		Status:         model.OrderStatusPending,
		IdempotencyKey: draft.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		// A concurrent submission with the same key can win the insert race
		// after our dedupe check; the loser returns the winner's order. The
		// deferred rollback aborts this transaction either way.
		if isUniqueViolation(err) {
			existing, items, lookupErr := s.orderRepo.GetByIdempotencyKey(ctx, draft.IdempotencyKey)
			if lookupErr == nil && existing != nil {
				s.logger.Info().
					Str("order_id", existing.ID.String()).
					Msg("concurrent duplicate submission, returning existing order")
				return s.buildResponse(ctx, existing, items)
			}
		}
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	orderItems := make([]model.OrderItem, len(draft.Items))
	for i, item := range draft.Items {
		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			ImageRef:  item.ImageRef,
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", order.UserID).
		Int("item_count", len(orderItems)).
		Msg("order created successfully")

	return s.buildResponse(ctx, order, orderItems)
}

// GetByID retrieves an order by its ID with all items and vinyl details.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, nil
	}

	return s.buildResponse(ctx, order, items)
}

// ListByUser retrieves all orders belonging to a user, newest first.
func (s *orderService) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	if orders == nil {
		orders = []model.Order{}
	}

	return orders, nil
}

// Update applies a partial update to an order's status or payment flag.
func (s *orderService) Update(ctx context.Context, id uuid.UUID, update model.OrderUpdate) (*model.Order, error) {
	if update.Status != nil && !model.ValidStatus(*update.Status) {
		return nil, model.ErrInvalidStatus
	}

	order, err := s.orderRepo.Update(ctx, id, update)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order")
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("status", order.Status).
		Msg("order updated")

	return order, nil
}

// Delete removes an order.
func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if deleted == 0 {
		return model.ErrOrderNotFound
	}

	s.logger.Info().Str("order_id", id.String()).Msg("order deleted")

	return nil
}

// buildResponse assembles the response payload with vinyl details attached.
func (s *orderService) buildResponse(ctx context.Context, order *model.Order, items []model.OrderItem) (*model.OrderResponse, error) {
	productIDs := make([]string, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	vinyls, err := s.vinylRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to retrieve vinyl details")
		return nil, fmt.Errorf("failed to retrieve vinyl details: %w", err)
	}

	return &model.OrderResponse{
		ID:               order.ID,
		UserID:           order.UserID,
		Status:           order.Status,
		PaymentConfirmed: order.PaymentConfirmed,
		Items:            items,
		Vinyls:           vinyls,
		CreatedAt:        order.CreatedAt,
	}, nil
}

// validateDraft validates the checkout draft.
func (s *orderService) validateDraft(draft *model.OrderDraft) error {
	if draft == nil {
		return fmt.Errorf("order draft is nil")
	}

	if draft.UserID == "" {
		return model.ErrLoginRequired
	}

	if len(draft.Items) == 0 {
		return model.ErrCartEmpty
	}

	if draft.IdempotencyKey == "" {
		return fmt.Errorf("idempotency key is required")
	}

	for i, item := range draft.Items {
		if item.ProductID == "" {
			return fmt.Errorf("item %d: product ID is required", i)
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	return nil
}
