package handler

import (
	"net/http"

	"vinyl-crate/internal/middleware"
	"vinyl-crate/internal/model"
	"vinyl-crate/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests. All routes require an
// authenticated user; admins do not get consumer cart actions.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// upsertItemRequest is the body for PUT /api/cart/items/{productId}.
type upsertItemRequest struct {
	Quantity int `json:"quantity"`
}

// replaceCartRequest is the body for PUT /api/cart.
type replaceCartRequest struct {
	Lines []model.CartLine `json:"lines"`
}

// mergeCartRequest is the body for POST /api/cart/merge.
type mergeCartRequest struct {
	Lines []model.CartLine `json:"lines"`
}

func (h *CartHandler) cartUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeDomainError(w, model.ErrLoginRequired, h.logger)
		return nil, false
	}
	if user.IsAdmin() {
		writeError(w, http.StatusForbidden, "cart actions are not available to admin accounts", h.logger)
		return nil, false
	}
	return user, true
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.cartUser(w, r)
	if !ok {
		return
	}

	snapshot, err := h.service.GetCart(r.Context(), user.ID.String())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// UpsertItem handles PUT /api/cart/items/{productId} requests. The body
// carries the absolute quantity for the line.
func (h *CartHandler) UpsertItem(w http.ResponseWriter, r *http.Request) {
	user, ok := h.cartUser(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productId")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "product ID is required", h.logger)
		return
	}

	var req upsertItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	snapshot, err := h.service.UpsertItem(r.Context(), user.ID.String(), productID, req.Quantity)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// RemoveItem handles DELETE /api/cart/items/{productId} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user, ok := h.cartUser(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productId")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "product ID is required", h.logger)
		return
	}

	snapshot, err := h.service.RemoveItem(r.Context(), user.ID.String(), productID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// Replace handles PUT /api/cart requests, overwriting the whole cart.
func (h *CartHandler) Replace(w http.ResponseWriter, r *http.Request) {
	user, ok := h.cartUser(w, r)
	if !ok {
		return
	}

	var req replaceCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	snapshot, err := h.service.ReplaceCart(r.Context(), user.ID.String(), req.Lines)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// Delete handles DELETE /api/cart requests.
func (h *CartHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.cartUser(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteCart(r.Context(), user.ID.String()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete cart", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Merge handles POST /api/cart/merge requests, folding a guest cart into the
// user's saved cart after login.
func (h *CartHandler) Merge(w http.ResponseWriter, r *http.Request) {
	user, ok := h.cartUser(w, r)
	if !ok {
		return
	}

	var req mergeCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	snapshot, err := h.service.MergeGuestLines(r.Context(), user.ID.String(), req.Lines)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}
