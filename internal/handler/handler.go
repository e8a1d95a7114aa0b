package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"vinyl-crate/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: http.StatusText(status), Message: message})
}

// writeDomainError maps a domain error to its HTTP status and writes it. Any
// non-domain error is treated as internal.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		writeError(w, http.StatusInternalServerError, "internal server error", logger)
		return
	}

	status := domainStatus(domainErr.Code)
	logger.Warn().Str("code", domainErr.Code).Int("status", status).Msg("domain error")
	writeJSON(w, status, model.ErrorResponse{Error: domainErr.Code, Message: domainErr.Message})
}

func domainStatus(code string) int {
	switch code {
	case model.ErrCodeVinylNotFound, model.ErrCodeOrderNotFound, model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeLoginRequired:
		return http.StatusUnauthorized
	case model.ErrCodeInvalidCredentials, model.ErrCodeInvalidVerifyCode:
		return http.StatusUnauthorized
	case model.ErrCodeEmailTaken:
		return http.StatusConflict
	case model.ErrCodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case model.ErrCodeUnsupportedFile:
		return http.StatusUnsupportedMediaType
	case model.ErrCodeInvalidQuantity, model.ErrCodeCartEmpty, model.ErrCodeInvalidStatus:
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}

// decodeJSON decodes a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
