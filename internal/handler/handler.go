package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code. The status
// line is already on the wire by the time encoding can fail, so an encode
// error is not reportable to the client.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a standardised error response.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Warn().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// respondDomainError maps a service error to an HTTP response. Domain
// errors carry a code that decides the status; anything else is an
// internal error whose detail stays out of the response body.
func respondDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domErr *model.DomainError
	if !errors.As(err, &domErr) {
		logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
		return
	}

	status := http.StatusBadRequest
	switch domErr.Code {
	case model.ErrCodeProductNotFound, model.ErrCodeOrderNotFound, model.ErrCodeAddressNotFound:
		status = http.StatusNotFound
	case model.ErrCodeForbidden:
		status = http.StatusForbidden
	case model.ErrCodeUnauthorised:
		status = http.StatusUnauthorized
	case model.ErrCodeInsufficientStock, model.ErrCodeProductInactive, model.ErrCodeIllegalTransition, model.ErrCodePostPaymentStock:
		status = http.StatusConflict
	}

	writeError(w, status, domErr.Code, domErr.Message, logger)
}
