// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/crownvoyages/backoffice/internal/model"
	"github.com/crownvoyages/backoffice/internal/repository"
	"github.com/crownvoyages/backoffice/internal/wizard"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

// writeFieldErrors reports wizard validation failures inline, keyed by
// the offending field.
func writeFieldErrors(w http.ResponseWriter, errs wizard.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
		Error:  errs.Error(),
		Fields: errs,
	})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// respondServiceError maps domain errors onto HTTP statuses. Unmatched
// errors fall back to 400 with the error's message, matching the
// validation-style failures the service layer returns.
func respondServiceError(w http.ResponseWriter, err error) {
	var fieldErrs wizard.ValidationErrors
	switch {
	case errors.As(err, &fieldErrs):
		writeFieldErrors(w, fieldErrs)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, wizard.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "wizard session not found")
	case errors.Is(err, repository.ErrNoAvailability):
		writeError(w, http.StatusConflict, "no availability for the requested dates")
	case errors.Is(err, repository.ErrOverpayment):
		writeError(w, http.StatusConflict, "receipt exceeds outstanding balance")
	case errors.Is(err, repository.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, wizard.ErrNotInReview):
		writeError(w, http.StatusConflict, "wizard is not in the review stage")
	case errors.Is(err, wizard.ErrNoBookings):
		writeError(w, http.StatusBadRequest, "no bookings to submit")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
