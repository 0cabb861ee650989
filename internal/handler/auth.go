package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/hublocal-manager/internal/domain"
	"github.com/msomdec/hublocal-manager/internal/metrics"
	"github.com/msomdec/hublocal-manager/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth    *service.AuthService
	metrics *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler. m may be nil.
func NewAuthHandler(auth *service.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{auth: auth, metrics: m}
}

// HandleRegister processes a JSON registration request.
// POST /api/auth/register
// Request:  {"name":"...","email":"...","password":"..."}
// Response: {"access_token":"...","id":1,"email":"...","name":"..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		h.metrics.AuthAttempt("register", "invalid_input")
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.metrics.AuthAttempt("register", outcomeOf(err))
		respondError(w, r, "register user", err)
		return
	}

	h.metrics.AuthAttempt("register", "success")
	writeJSON(w, http.StatusCreated, toAuthResponse(session))
}

// HandleLogin processes a JSON login request.
// POST /api/auth/login
// Request:  {"email":"...","password":"..."}
// Response: {"access_token":"...","id":1,"email":"...","name":"..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		h.metrics.AuthAttempt("login", "invalid_input")
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.AuthAttempt("login", outcomeOf(err))
		respondError(w, r, "login user", err)
		return
	}

	h.metrics.AuthAttempt("login", "success")
	writeJSON(w, http.StatusOK, toAuthResponse(session))
}

// HandleMe returns the authenticated user.
// GET /api/auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(identity))
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	default:
		return "error"
	}
}
