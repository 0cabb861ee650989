package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/msomdec/hublocal-manager/internal/metrics"
	"github.com/msomdec/hublocal-manager/internal/service"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	DB          Pinger
	Auth        *service.AuthService
	Companies   *service.CompanyService
	Locations   *service.LocationService
	AuthLimiter *service.TokenBucket
	Metrics     *metrics.Metrics
	CORSOrigins []string
}

// NewRouter builds the API handler with the full middleware chain.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, d)

	var h http.Handler = RequestLogger(d.Metrics)(mux)
	h = SecurityHeaders(h)
	h = cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	})(h)
	h = middleware.Recoverer(h)
	h = middleware.RealIP(h)
	h = middleware.RequestID(h)
	return h
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, d Deps) {
	authHandler := NewAuthHandler(d.Auth, d.Metrics)
	companyHandler := NewCompanyHandler(d.Companies)
	locationHandler := NewLocationHandler(d.Locations)

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(d.Auth, d.Metrics, h)
	}
	limited := func(h http.HandlerFunc) http.Handler {
		if d.AuthLimiter == nil {
			return h
		}
		return RateLimit(d.AuthLimiter, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz(d.DB))

	mux.Handle("POST /api/auth/register", limited(authHandler.HandleRegister))
	mux.Handle("POST /api/auth/login", limited(authHandler.HandleLogin))
	mux.Handle("GET /api/auth/me", requireAuth(authHandler.HandleMe))

	mux.Handle("GET /api/companies", requireAuth(companyHandler.HandleList))
	mux.Handle("POST /api/companies", requireAuth(companyHandler.HandleCreate))
	mux.Handle("GET /api/companies/{id}", requireAuth(companyHandler.HandleGet))
	mux.Handle("PATCH /api/companies/{id}", requireAuth(companyHandler.HandleUpdate))
	mux.Handle("DELETE /api/companies/{id}", requireAuth(companyHandler.HandleDelete))

	mux.Handle("GET /api/companies/{companyId}/locations", requireAuth(locationHandler.HandleList))
	mux.Handle("POST /api/companies/{companyId}/locations", requireAuth(locationHandler.HandleCreate))
	mux.Handle("GET /api/companies/{companyId}/locations/{id}", requireAuth(locationHandler.HandleGet))
	mux.Handle("PATCH /api/companies/{companyId}/locations/{id}", requireAuth(locationHandler.HandleUpdate))
	mux.Handle("DELETE /api/companies/{companyId}/locations/{id}", requireAuth(locationHandler.HandleDelete))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "route not found")
	})
}
