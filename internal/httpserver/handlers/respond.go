package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/sneyderangulo/readinglist/internal/apperror"
	"github.com/sneyderangulo/readinglist/internal/logger"
)

type envelope struct {
	OK      bool   `json:"ok"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeOK(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{OK: true, Payload: payload})
}

// writeErr maps the error taxonomy to HTTP statuses. Unexpected errors are
// logged in full and reported opaquely.
func writeErr(w http.ResponseWriter, log logger.Logger, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		msg = appErr.Message
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		}
	} else {
		log.Errorf("request failed: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{OK: false, Error: msg})
}

// decode parses and validates a JSON request body.
func decode(r *http.Request, validate *validator.Validate, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.Validation("body", "malformed request body")
	}
	if err := validate.Struct(v); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return apperror.Validation(fields[0].Field(), "invalid value for "+fields[0].Field())
		}
		return apperror.Validation("body", "invalid request body")
	}
	return nil
}
