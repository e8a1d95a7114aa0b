package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vinyl-crate/internal/middleware"
	"vinyl-crate/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func cartRouter(h *CartHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/cart", h.Get)
	r.Put("/api/cart", h.Replace)
	r.Delete("/api/cart", h.Delete)
	r.Post("/api/cart/merge", h.Merge)
	r.Put("/api/cart/items/{productId}", h.UpsertItem)
	r.Delete("/api/cart/items/{productId}", h.RemoveItem)
	return r
}

func asCustomer(req *http.Request, user *model.User) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), user))
}

func testCustomer() *model.User {
	return &model.User{
		ID:        uuid.New(),
		Email:     "crate-digger@example.com",
		Roles:     []string{model.RoleCustomer},
		Verified:  true,
		CreatedAt: time.Now(),
	}
}

func TestCartHandler_Get(t *testing.T) {
	svc := new(MockCartService)
	h := NewCartHandler(svc, zerolog.Nop())
	user := testCustomer()

	snapshot := &model.CartSnapshot{
		UserID: user.ID.String(),
		Lines:  []model.CartLine{{ProductID: "v1", Quantity: 2, UnitPrice: 150}},
	}
	svc.On("GetCart", mock.Anything, user.ID.String()).Return(snapshot, nil)

	req := asCustomer(httptest.NewRequest(http.MethodGet, "/api/cart", nil), user)
	rec := httptest.NewRecorder()
	cartRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got model.CartSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, snapshot.Lines, got.Lines)
}

func TestCartHandler_Get_Anonymous(t *testing.T) {
	svc := new(MockCartService)
	h := NewCartHandler(svc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	cartRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "GetCart")
}

func TestCartHandler_Get_AdminForbidden(t *testing.T) {
	svc := new(MockCartService)
	h := NewCartHandler(svc, zerolog.Nop())

	admin := testCustomer()
	admin.Roles = []string{model.RoleAdmin}

	req := asCustomer(httptest.NewRequest(http.MethodGet, "/api/cart", nil), admin)
	rec := httptest.NewRecorder()
	cartRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	svc.AssertNotCalled(t, "GetCart")
}

func TestCartHandler_UpsertItem(t *testing.T) {
	svc := new(MockCartService)
	h := NewCartHandler(svc, zerolog.Nop())
	user := testCustomer()

	snapshot := &model.CartSnapshot{
		UserID: user.ID.String(),
		Lines:  []model.CartLine{{ProductID: "v1", Quantity: 3, UnitPrice: 150}},
	}
	svc.On("UpsertItem", mock.Anything, user.ID.String(), "v1", 3).Return(snapshot, nil)

	body := strings.NewReader(`{"quantity": 3}`)
	req := asCustomer(httptest.NewRequest(http.MethodPut, "/api/cart/items/v1", body), user)
	rec := httptest.NewRecorder()
	cartRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestCartHandler_UpsertItem_UnknownVinyl(t *testing.T) {
	svc := new(MockCartService)
	h := NewCartHandler(svc, zerolog.Nop())
	user := testCustomer()

	svc.On("UpsertItem", mock.Anything, user.ID.String(), "ghost", 1).Return(nil, model.ErrVinylNotFound)

	body := strings.NewReader(`{"quantity": 1}`)
	req := asCustomer(httptest.NewRequest(http.MethodPut, "/api/cart/items/ghost", body), user)
	rec := httptest.NewRecorder()
	cartRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartHandler_UpsertItem_BadBody(t *testing.T) {
	svc := new(MockCartService)
	h := NewCartHandler(svc, zerolog.Nop())
	user := testCustomer()

	body := strings.NewReader(`{"quantity": "three"}`)
	req := asCustomer(httptest.NewRequest(http.MethodPut, "/api/cart/items/v1", body), user)
	rec := httptest.NewRecorder()
	cartRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "UpsertItem")
}

func TestCartHandler_RemoveItem(t *testing.T) {
	svc := new(MockCartService)
	h := NewCartHandler(svc, zerolog.Nop())
	user := testCustomer()

	snapshot := &model.CartSnapshot{UserID: user.ID.String(), Lines: []model.CartLine{}}
	svc.On("RemoveItem", mock.Anything, user.ID.String(), "v1").Return(snapshot, nil)

	req := asCustomer(httptest.NewRequest(http.MethodDelete, "/api/cart/items/v1", nil), user)
	rec := httptest.NewRecorder()
	cartRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartHandler_Delete(t *testing.T) {
	svc := new(MockCartService)
	h := NewCartHandler(svc, zerolog.Nop())
	user := testCustomer()

	svc.On("DeleteCart", mock.Anything, user.ID.String()).Return(nil)

	req := asCustomer(httptest.NewRequest(http.MethodDelete, "/api/cart", nil), user)
	rec := httptest.NewRecorder()
	cartRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCartHandler_Merge(t *testing.T) {
	svc := new(MockCartService)
	h := NewCartHandler(svc, zerolog.Nop())
	user := testCustomer()

	guest := []model.CartLine{{ProductID: "v2", Quantity: 1, UnitPrice: 250}}
	merged := &model.CartSnapshot{UserID: user.ID.String(), Lines: guest}
	svc.On("MergeGuestLines", mock.Anything, user.ID.String(), guest).Return(merged, nil)

	body := strings.NewReader(`{"lines": [{"productId": "v2", "quantity": 1, "unitPrice": 250}]}`)
	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/cart/merge", body), user)
	rec := httptest.NewRecorder()
	cartRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
