package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/hublocal-manager/internal/domain"
	"github.com/msomdec/hublocal-manager/internal/repository/sqlite"
	"github.com/msomdec/hublocal-manager/internal/security/password"
	"github.com/msomdec/hublocal-manager/internal/security/token"
	"github.com/msomdec/hublocal-manager/internal/service"
)

const (
	testJWTSecret  = "test-secret-key-that-is-long-enough-for-hs256"
	testPassword   = "password123"
	testMinPassLen = 8
)

type testEnv struct {
	db        *sqlite.DB
	issuer    *token.Issuer
	auth      *service.AuthService
	companies *service.CompanyService
	locations *service.LocationService
	denials   *denyCounter
}

type denyCounter struct {
	byResource map[string]int
}

func (d *denyCounter) OwnershipDenied(resource string) {
	d.byResource[resource]++
}

func newTestEnv(t *testing.T) *testEnv {
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

	// Use cost 4 for fast tests.
	hasher, err := password.NewHasher(4)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	issuer, err := token.NewIssuer(testJWTSecret, "hublocal-test", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	denials := &denyCounter{byResource: map[string]int{}}
	guard := service.NewOwnershipGuard(denials)
	companies := service.NewCompanyService(db.Companies(), guard)

	return &testEnv{
		db:        db,
		issuer:    issuer,
		auth:      service.NewAuthService(db.Users(), hasher, issuer, testMinPassLen),
		companies: companies,
		locations: service.NewLocationService(db.Locations(), companies),
		denials:   denials,
	}
}

func (e *testEnv) register(t *testing.T, name, email string) domain.Identity {
	t.Helper()
	session, err := e.auth.Register(context.Background(), name, email, testPassword)
	if err != nil {
		t.Fatalf("Register %s: %v", email, err)
	}
	return session.Identity
}
