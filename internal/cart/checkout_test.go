package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"vinyl-crate/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderPlacer is a mock implementation of OrderPlacer.
type MockOrderPlacer struct {
	mock.Mock
}

func (m *MockOrderPlacer) Create(ctx context.Context, draft *model.OrderDraft) (*model.OrderResponse, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func customer() *model.User {
	return &model.User{
		ID:        uuid.New(),
		Email:     "crate-digger@example.com",
		Roles:     []string{model.RoleCustomer},
		Verified:  true,
		CreatedAt: time.Now(),
	}
}

func filledCart(t *testing.T) *Cart {
	t.Helper()
	c := New()
	c.Add(vinyl("v1", 150), 2)
	c.Add(vinyl("v2", 250), 1)
	return c
}

func TestCheckout_Success(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderPlacer)
	co := NewCheckout(orders, zerolog.Nop())

	c := filledCart(t)
	user := customer()

	resp := &model.OrderResponse{ID: uuid.New(), UserID: user.ID.String(), Status: model.OrderStatusPending}
	orders.On("Create", ctx, mock.AnythingOfType("*model.OrderDraft")).Return(resp, nil).
		Run(func(args mock.Arguments) {
			draft := args.Get(1).(*model.OrderDraft)
			assert.Equal(t, user.ID.String(), draft.UserID)
			assert.Equal(t, 3, draft.TotalQuantity)
			assert.NotEmpty(t, draft.IdempotencyKey)
			require.Len(t, draft.Items, 2)
			assert.Equal(t, model.DraftItem{ProductID: "v1", Quantity: 2, ImageRef: "/images/v1.png"}, draft.Items[0])
			assert.Equal(t, model.DraftItem{ProductID: "v2", Quantity: 1, ImageRef: "/images/v2.png"}, draft.Items[1])
		})

	got, err := co.Submit(ctx, user, LocalBag{c})

	require.NoError(t, err)
	assert.Equal(t, resp, got)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Count())
	orders.AssertExpectations(t)
}

func TestCheckout_EmptyCart(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderPlacer)
	co := NewCheckout(orders, zerolog.Nop())

	got, err := co.Submit(ctx, customer(), LocalBag{New()})

	require.Error(t, err)
	assert.Equal(t, model.ErrCartEmpty, err)
	assert.Nil(t, got)
	orders.AssertNotCalled(t, "Create")
}

func TestCheckout_Unauthenticated(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderPlacer)
	co := NewCheckout(orders, zerolog.Nop())

	got, err := co.Submit(ctx, nil, LocalBag{filledCart(t)})

	require.Error(t, err)
	assert.Equal(t, model.ErrLoginRequired, err)
	assert.Nil(t, got)
	orders.AssertNotCalled(t, "Create")
}

func TestCheckout_FailurePreservesCart(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderPlacer)
	co := NewCheckout(orders, zerolog.Nop())

	c := filledCart(t)
	before := c.Lines()

	orders.On("Create", ctx, mock.AnythingOfType("*model.OrderDraft")).
		Return(nil, errors.New("order service unavailable"))

	got, err := co.Submit(ctx, customer(), LocalBag{c})

	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, before, c.Lines())
	assert.Equal(t, 3, c.Count())
}

func TestCheckout_RetryReusesIdempotencyKey(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderPlacer)
	co := NewCheckout(orders, zerolog.Nop())

	c := filledCart(t)
	user := customer()

	var keys []string
	orders.On("Create", ctx, mock.AnythingOfType("*model.OrderDraft")).
		Return(nil, errors.New("timeout")).Once().
		Run(func(args mock.Arguments) {
			keys = append(keys, args.Get(1).(*model.OrderDraft).IdempotencyKey)
		})

	_, err := co.Submit(ctx, user, LocalBag{c})
	require.Error(t, err)

	resp := &model.OrderResponse{ID: uuid.New(), Status: model.OrderStatusPending}
	orders.On("Create", ctx, mock.AnythingOfType("*model.OrderDraft")).
		Return(resp, nil).Once().
		Run(func(args mock.Arguments) {
			keys = append(keys, args.Get(1).(*model.OrderDraft).IdempotencyKey)
		})

	_, err = co.Submit(ctx, user, LocalBag{c})
	require.NoError(t, err)

	require.Len(t, keys, 2)
	assert.Equal(t, keys[0], keys[1], "retry of the same draft must reuse the idempotency key")
}

func TestCheckout_ChangedCartGetsFreshKey(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderPlacer)
	co := NewCheckout(orders, zerolog.Nop())

	c := filledCart(t)
	user := customer()

	var keys []string
	record := func(args mock.Arguments) {
		keys = append(keys, args.Get(1).(*model.OrderDraft).IdempotencyKey)
	}

	orders.On("Create", ctx, mock.AnythingOfType("*model.OrderDraft")).
		Return(nil, errors.New("timeout")).Once().Run(record)

	_, err := co.Submit(ctx, user, LocalBag{c})
	require.Error(t, err)

	// The user edits the cart before retrying; the new draft is a new order.
	c.Inc("v1")

	resp := &model.OrderResponse{ID: uuid.New(), Status: model.OrderStatusPending}
	orders.On("Create", ctx, mock.AnythingOfType("*model.OrderDraft")).
		Return(resp, nil).Once().Run(record)

	_, err = co.Submit(ctx, user, LocalBag{c})
	require.NoError(t, err)

	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])
}

func TestCheckout_SyncedBagClearedOnSuccess(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderPlacer)
	svc := new(MockSyncService)
	co := NewCheckout(orders, zerolog.Nop())

	sc := NewSynced("u1", svc, zerolog.Nop())
	line := model.CartLine{ProductID: "v1", Quantity: 2, UnitPrice: 150, ImageRef: "/images/v1.png"}
	svc.On("UpsertItem", ctx, "u1", "v1", 2).Return(snapshot("u1", line), nil)
	require.NoError(t, sc.Add(ctx, vinyl("v1", 150), 2))

	resp := &model.OrderResponse{ID: uuid.New(), Status: model.OrderStatusPending}
	orders.On("Create", ctx, mock.AnythingOfType("*model.OrderDraft")).Return(resp, nil)
	svc.On("DeleteCart", ctx, "u1").Return(nil)

	_, err := co.Submit(ctx, customer(), sc)

	require.NoError(t, err)
	assert.Empty(t, sc.Lines())
	svc.AssertCalled(t, "DeleteCart", ctx, "u1")
}
