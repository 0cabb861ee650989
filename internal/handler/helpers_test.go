package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/msomdec/hublocal-manager/internal/handler"
	"github.com/msomdec/hublocal-manager/internal/metrics"
	"github.com/msomdec/hublocal-manager/internal/repository/sqlite"
	"github.com/msomdec/hublocal-manager/internal/security/password"
	"github.com/msomdec/hublocal-manager/internal/security/token"
	"github.com/msomdec/hublocal-manager/internal/service"
)

const (
	testJWTSecret = "test-secret-for-handler-tests-0123456789"
	testPassword  = "password123"
)

type testApp struct {
	srv      *httptest.Server
	router   http.Handler
	db       *sqlite.DB
	issuer   *token.Issuer
	auth     *service.AuthService
	registry *prometheus.Registry
}

type appOption func(*handler.Deps)

func withAuthLimiter(tb *service.TokenBucket) appOption {
	return func(d *handler.Deps) { d.AuthLimiter = tb }
}

func newTestApp(t *testing.T, opts ...appOption) *testApp {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hasher, err := password.NewHasher(4)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	issuer, err := token.NewIssuer(testJWTSecret, "hublocal-test", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	auth := service.NewAuthService(db.Users(), hasher, issuer, 8)
	companies := service.NewCompanyService(db.Companies(), service.NewOwnershipGuard(m))

	deps := handler.Deps{
		DB:          db,
		Auth:        auth,
		Companies:   companies,
		Locations:   service.NewLocationService(db.Locations(), companies),
		Metrics:     m,
		CORSOrigins: []string{"http://localhost:3000"},
	}
	for _, opt := range opts {
		opt(&deps)
	}

	router := handler.NewRouter(deps)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testApp{srv: srv, router: router, db: db, issuer: issuer, auth: auth, registry: registry}
}

// do sends a JSON request and returns the status and raw body.
func (a *testApp) do(t *testing.T, method, path, bearer string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, a.srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

// registerUser registers through the API and returns the auth response.
func (a *testApp) registerUser(t *testing.T, name, email string) handler.AuthResponse {
	t.Helper()
	status, raw := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": testPassword,
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", email, status, raw)
	}
	return decode[handler.AuthResponse](t, raw)
}
