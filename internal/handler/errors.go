package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/hublocal-manager/internal/domain"
)

// respondError maps a service error onto the error envelope. Anything that is
// not a known domain error is logged and reported as a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, r, http.StatusConflict, "email already registered")
	case errors.Is(err, domain.ErrDuplicateCNPJ):
		writeError(w, r, http.StatusConflict, "cnpj already registered")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "resource not found")
	default:
		slog.Error(op, "error", err, "path", r.URL.Path)
		writeError(w, r, http.StatusInternalServerError, "an unexpected error occurred")
	}
}
