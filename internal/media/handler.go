package media

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"vinyl-crate/internal/model"

	"github.com/rs/zerolog"
)

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	URL string `json:"url"`
}

// Handler serves the upload endpoint of the media server.
type Handler struct {
	store  Store
	logger zerolog.Logger
}

// NewHandler creates a new media handler.
func NewHandler(store Store, logger zerolog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger.With().Str("handler", "media").Logger(),
	}
}

// uploadEnvelopeSlack is the extra room granted to the request body beyond
// MaxUploadSize for multipart boundaries and part headers. The exact file
// size limit is enforced by ValidateUpload, not by the body reader.
const uploadEnvelopeSlack = 1 << 20

// Upload handles POST /upload multipart requests with a single "file" part.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+uploadEnvelopeSlack)

	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		h.writeError(w, model.ErrFileTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.logger.Warn().Err(err).Msg("missing file part")
		h.writeStatus(w, http.StatusBadRequest, "a file part named 'file' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to read upload")
		h.writeStatus(w, http.StatusInternalServerError, "failed to read upload")
		return
	}

	contentType, err := ValidateUpload(data)
	if err != nil {
		h.writeError(w, err)
		return
	}

	url, err := h.store.Save(r.Context(), header.Filename, contentType, data)
	if err != nil {
		h.logger.Error().Err(err).Str("file", header.Filename).Msg("failed to store upload")
		h.writeStatus(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(UploadResponse{URL: url})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusBadRequest
		switch domainErr.Code {
		case model.ErrCodeFileTooLarge:
			status = http.StatusRequestEntityTooLarge
		case model.ErrCodeUnsupportedFile:
			status = http.StatusUnsupportedMediaType
		}
		h.logger.Warn().Str("code", domainErr.Code).Msg("upload rejected")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(model.ErrorResponse{Error: domainErr.Code, Message: domainErr.Message})
		return
	}

	h.writeStatus(w, http.StatusBadRequest, err.Error())
}

func (h *Handler) writeStatus(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: http.StatusText(status), Message: message})
}
