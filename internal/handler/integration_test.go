package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/msomdec/hublocal-manager/internal/handler"
)

func TestIntegration_RegisterLoginCompaniesLocations(t *testing.T) {
	app := newTestApp(t)

	// 1. Register.
	reg := app.registerUser(t, "Integration User", "integ@example.com")
	if reg.AccessToken == "" || reg.ID == 0 {
		t.Fatalf("unexpected register response: %+v", reg)
	}

	// 2. Login.
	status, raw := app.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "integ@example.com", "password": testPassword,
	})
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", status, raw)
	}
	login := decode[handler.AuthResponse](t, raw)
	if login.ID != reg.ID || login.Email != "integ@example.com" || login.Name != "Integration User" {
		t.Fatalf("unexpected login response: %+v", login)
	}
	tok := login.AccessToken

	// 3. Me.
	status, raw = app.do(t, http.MethodGet, "/api/auth/me", tok, nil)
	if status != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", status, raw)
	}
	if me := decode[handler.UserDTO](t, raw); me.ID != reg.ID {
		t.Fatalf("me: expected id %d, got %d", reg.ID, me.ID)
	}

	// 4. Create a company.
	status, raw = app.do(t, http.MethodPost, "/api/companies", tok, map[string]string{
		"name": "Acme Ltda", "cnpj": "11222333000181", "website": "https://acme.example.com",
	})
	if status != http.StatusCreated {
		t.Fatalf("create company: expected 201, got %d: %s", status, raw)
	}
	company := decode[handler.CompanyDTO](t, raw)
	companyPath := "/api/companies/" + strconv.FormatInt(company.ID, 10)

	// 5. Add a location.
	status, raw = app.do(t, http.MethodPost, companyPath+"/locations", tok, map[string]string{
		"name": "HQ", "cep": "01001000", "street": "Praca da Se", "number": "100",
		"neighborhood": "Se", "city": "Sao Paulo", "state": "SP",
	})
	if status != http.StatusCreated {
		t.Fatalf("create location: expected 201, got %d: %s", status, raw)
	}
	location := decode[handler.LocationDTO](t, raw)
	locationPath := companyPath + "/locations/" + strconv.FormatInt(location.ID, 10)

	// 6. List companies shows the location count.
	status, raw = app.do(t, http.MethodGet, "/api/companies?page=1&limit=10", tok, nil)
	if status != http.StatusOK {
		t.Fatalf("list companies: expected 200, got %d: %s", status, raw)
	}
	list := decode[handler.CompanyListDTO](t, raw)
	if list.Count != 1 || len(list.Companies) != 1 || list.Companies[0].LocationsCount != 1 {
		t.Fatalf("unexpected list: %+v", list)
	}

	// 7. Patch the company; other fields are untouched.
	status, raw = app.do(t, http.MethodPatch, companyPath, tok, map[string]string{"name": "Acme SA"})
	if status != http.StatusOK {
		t.Fatalf("patch company: expected 200, got %d: %s", status, raw)
	}
	if patched := decode[handler.CompanyDTO](t, raw); patched.Name != "Acme SA" || patched.CNPJ != "11222333000181" {
		t.Fatalf("unexpected patched company: %+v", patched)
	}

	// 8. Patch and read the location.
	status, raw = app.do(t, http.MethodPatch, locationPath, tok, map[string]string{"city": "Campinas"})
	if status != http.StatusOK {
		t.Fatalf("patch location: expected 200, got %d: %s", status, raw)
	}
	status, raw = app.do(t, http.MethodGet, locationPath, tok, nil)
	if status != http.StatusOK {
		t.Fatalf("get location: expected 200, got %d: %s", status, raw)
	}
	if got := decode[handler.LocationDTO](t, raw); got.City != "Campinas" || got.Street != "Praca da Se" {
		t.Fatalf("unexpected location: %+v", got)
	}

	// 9. Delete the company; its location goes with it.
	if status, raw = app.do(t, http.MethodDelete, companyPath, tok, nil); status != http.StatusNoContent {
		t.Fatalf("delete company: expected 204, got %d: %s", status, raw)
	}
	if status, raw = app.do(t, http.MethodGet, locationPath, tok, nil); status != http.StatusNotFound {
		t.Fatalf("location after company delete: expected 404, got %d: %s", status, raw)
	}
}

func TestIntegration_ForeignResourcesLookMissing(t *testing.T) {
	app := newTestApp(t)

	ann := app.registerUser(t, "Ann", "ann@example.com")
	bob := app.registerUser(t, "Bob", "bob@example.com")

	status, raw := app.do(t, http.MethodPost, "/api/companies", ann.AccessToken, map[string]string{
		"name": "Ann Co", "cnpj": "11222333000181",
	})
	if status != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", status, raw)
	}
	company := decode[handler.CompanyDTO](t, raw)
	foreignPath := "/api/companies/" + strconv.FormatInt(company.ID, 10)
	missingPath := "/api/companies/" + strconv.FormatInt(company.ID+1000, 10)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		fStatus, fRaw := app.do(t, method, foreignPath, bob.AccessToken, nil)
		mStatus, mRaw := app.do(t, method, missingPath, bob.AccessToken, nil)

		if fStatus != http.StatusNotFound || mStatus != http.StatusNotFound {
			t.Fatalf("%s: expected 404 for both, got %d and %d", method, fStatus, mStatus)
		}
		foreign := decode[handler.ErrorResponse](t, fRaw)
		missing := decode[handler.ErrorResponse](t, mRaw)
		if foreign.Message != missing.Message || foreign.Error != missing.Error {
			t.Fatalf("%s: responses differ: %+v vs %+v", method, foreign, missing)
		}
	}

	status, raw = app.do(t, http.MethodGet, foreignPath+"/locations", bob.AccessToken, nil)
	if status != http.StatusNotFound {
		t.Fatalf("foreign locations: expected 404, got %d: %s", status, raw)
	}

	// Ann still sees her company.
	if status, raw = app.do(t, http.MethodGet, foreignPath, ann.AccessToken, nil); status != http.StatusOK {
		t.Fatalf("owner get: expected 200, got %d: %s", status, raw)
	}

	if n, err := testutil.GatherAndCount(app.registry, "hublocal_ownership_denials_total"); err != nil || n != 1 {
		t.Fatalf("expected one ownership denial series, got %d (%v)", n, err)
	}
}

func TestIntegration_AuthErrors(t *testing.T) {
	app := newTestApp(t)
	app.registerUser(t, "Ann", "ann@example.com")

	t.Run("duplicate email", func(t *testing.T) {
		status, raw := app.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Ann Again", "email": "ann@example.com", "password": testPassword,
		})
		if status != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", status, raw)
		}
		body := decode[handler.ErrorResponse](t, raw)
		if body.StatusCode != http.StatusConflict || body.Error != "Conflict" || body.Path != "/api/auth/register" || body.Timestamp == "" {
			t.Fatalf("unexpected envelope: %+v", body)
		}
	})

	t.Run("login failures are indistinguishable", func(t *testing.T) {
		wStatus, wRaw := app.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "ann@example.com", "password": "wrong-password",
		})
		uStatus, uRaw := app.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "nobody@example.com", "password": testPassword,
		})
		if wStatus != http.StatusUnauthorized || uStatus != http.StatusUnauthorized {
			t.Fatalf("expected 401 for both, got %d and %d", wStatus, uStatus)
		}
		if decode[handler.ErrorResponse](t, wRaw).Message != decode[handler.ErrorResponse](t, uRaw).Message {
			t.Fatalf("messages differ: %s vs %s", wRaw, uRaw)
		}
	})

	t.Run("response never carries the hash", func(t *testing.T) {
		status, raw := app.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "ann@example.com", "password": testPassword,
		})
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if strings.Contains(string(raw), "$2a$") || strings.Contains(string(raw), "password") {
			t.Fatalf("response leaks credential material: %s", raw)
		}
	})

	t.Run("validation", func(t *testing.T) {
		status, raw := app.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Bob", "email": "bob@example.com", "password": "short",
		})
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", status, raw)
		}
	})
}

func TestIntegration_MalformedBodies(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"not json", "name=ann"},
		{"unknown field", `{"name":"Ann","email":"ann@example.com","password":"password123","admin":true}`},
		{"trailing data", `{"name":"Ann","email":"ann@example.com","password":"password123"}{}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, raw := app.do(t, http.MethodPost, "/api/auth/register", "", tc.body)
			if status != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", status, raw)
			}
		})
	}
}

func TestIntegration_BodyTooLarge(t *testing.T) {
	app := newTestApp(t)

	body := `{"name":"` + strings.Repeat("a", 2<<20) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	app.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if msg := decode[handler.ErrorResponse](t, w.Body.Bytes()).Message; !strings.Contains(msg, "must not exceed") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestIntegration_RoutingErrors(t *testing.T) {
	app := newTestApp(t)
	reg := app.registerUser(t, "Ann", "ann@example.com")

	if status, raw := app.do(t, http.MethodGet, "/api/companies/abc", reg.AccessToken, nil); status != http.StatusBadRequest {
		t.Fatalf("non-numeric id: expected 400, got %d: %s", status, raw)
	}
	if status, raw := app.do(t, http.MethodGet, "/api/companies?page=zero", reg.AccessToken, nil); status != http.StatusBadRequest {
		t.Fatalf("bad page: expected 400, got %d: %s", status, raw)
	}
	for _, query := range []string{"page=100000000000000001&limit=100", "limit=500"} {
		if status, raw := app.do(t, http.MethodGet, "/api/companies?"+query, reg.AccessToken, nil); status != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %s", query, status, raw)
		}
	}
	if status, raw := app.do(t, http.MethodGet, "/api/companies", "", nil); status != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d: %s", status, raw)
	}

	status, raw := app.do(t, http.MethodGet, "/nope", "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("unknown route: expected 404, got %d: %s", status, raw)
	}
	if body := decode[handler.ErrorResponse](t, raw); body.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown route: unexpected envelope %+v", body)
	}
}
