package handler

import (
	"net/http"

	"vinyl-crate/internal/middleware"
	"vinyl-crate/internal/model"
	"vinyl-crate/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order and checkout HTTP requests.
type OrderHandler struct {
	orders service.OrderService
	carts  service.CartService
	logger zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders service.OrderService, carts service.CartService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		carts:  carts,
		logger: logger.With().Str("handler", "order").Logger(),
	}
}

// checkoutRequest is the body for POST /api/checkout. The idempotency key is
// generated client-side and reused verbatim on retries of the same draft.
type checkoutRequest struct {
	IdempotencyKey string `json:"idempotencyKey"`
}

// Checkout handles POST /api/checkout requests. The order draft is assembled
// from the user's saved cart; the cart is cleared only after the order is
// created, so a failed submission leaves it intact.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeDomainError(w, model.ErrLoginRequired, h.logger)
		return
	}

	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if req.IdempotencyKey == "" {
		writeError(w, http.StatusBadRequest, "idempotency key is required", h.logger)
		return
	}

	snapshot, err := h.carts.GetCart(r.Context(), user.ID.String())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve cart", h.logger)
		return
	}

	if len(snapshot.Lines) == 0 {
		writeDomainError(w, model.ErrCartEmpty, h.logger)
		return
	}

	draft := &model.OrderDraft{
		UserID:         user.ID.String(),
		Items:          make([]model.DraftItem, len(snapshot.Lines)),
		TotalQuantity:  snapshot.Count(),
		IdempotencyKey: req.IdempotencyKey,
	}
	for i, line := range snapshot.Lines {
		draft.Items[i] = model.DraftItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			ImageRef:  line.ImageRef,
		}
	}

	resp, err := h.orders.Create(r.Context(), draft)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	// The order exists; a failed cart delete must not fail the checkout.
	if err := h.carts.DeleteCart(r.Context(), user.ID.String()); err != nil {
		h.logger.Warn().
			Err(err).
			Str("order_id", resp.ID.String()).
			Msg("order created but cart delete failed")
	}

	writeJSON(w, http.StatusCreated, resp)
}

// GetByID handles GET /api/orders/{id} requests. Customers can only read
// their own orders; admins can read any.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeDomainError(w, model.ErrLoginRequired, h.logger)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID", h.logger)
		return
	}

	resp, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve order", h.logger)
		return
	}

	if resp == nil || (!user.IsAdmin() && resp.UserID != user.ID.String()) {
		writeDomainError(w, model.ErrOrderNotFound, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListMine handles GET /api/orders requests, returning the caller's orders.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeDomainError(w, model.ErrLoginRequired, h.logger)
		return
	}

	orders, err := h.orders.ListByUser(r.Context(), user.ID.String())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list orders", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// Update handles PATCH /api/orders/{id} requests. Admin only, enforced by
// route middleware.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID", h.logger)
		return
	}

	var update model.OrderUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.orders.Update(r.Context(), id, update)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Delete handles DELETE /api/orders/{id} requests. Admin only, enforced by
// route middleware.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID", h.logger)
		return
	}

	if err := h.orders.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
