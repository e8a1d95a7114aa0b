package handler

import (
	"net/http"
	"strconv"

	"vinyl-crate/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// VinylHandler handles catalogue HTTP requests.
type VinylHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewVinylHandler creates a new vinyl handler.
func NewVinylHandler(service service.CatalogService, logger zerolog.Logger) *VinylHandler {
	return &VinylHandler{
		service: service,
		logger:  logger.With().Str("handler", "vinyl").Logger(),
	}
}

// GetAll handles GET /api/vinyls requests with pagination.
func (h *VinylHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit parameter", h.logger)
		return
	}

	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset parameter", h.logger)
		return
	}

	vinyls, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve vinyls", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, vinyls)
}

// GetByID handles GET /api/vinyls/{id} requests.
func (h *VinylHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "vinyl ID is required", h.logger)
		return
	}

	vinyl, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, vinyl)
}

// GetBySlug handles GET /api/vinyls/slug/{slug} requests.
func (h *VinylHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		writeError(w, http.StatusBadRequest, "slug is required", h.logger)
		return
	}

	vinyl, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, vinyl)
}

// Search handles GET /api/vinyls/search?q= requests.
func (h *VinylHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit parameter", h.logger)
		return
	}

	vinyls, err := h.service.Search(r.Context(), query, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to search vinyls", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, vinyls)
}

// GetFeatured handles GET /api/vinyls/featured requests.
func (h *VinylHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 8)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit parameter", h.logger)
		return
	}

	vinyls, err := h.service.GetFeatured(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve featured vinyls", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, vinyls)
}

// queryInt parses an integer query parameter with a default.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
