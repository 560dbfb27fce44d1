package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chargehub/internal/service"
)

func TestAuthRejectsMissingHeader(t *testing.T) {
	tokens := service.NewTokenService("test-secret", time.Hour)
	handler := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without credentials")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vehicles", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthRejectsBadToken(t *testing.T) {
	tokens := service.NewTokenService("test-secret", time.Hour)
	handler := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with a bad token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthStoresIdentity(t *testing.T) {
	tokens := service.NewTokenService("test-secret", time.Hour)
	token, err := tokens.Generate(7, "Operator")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	var gotID int64
	var gotType string
	handler := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserID(r.Context())
		gotType, _ = AccountType(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotID != 7 {
		t.Errorf("user id = %d, want 7", gotID)
	}
	if gotType != "Operator" {
		t.Errorf("account type = %q, want Operator", gotType)
	}
}

func TestRequireOperator(t *testing.T) {
	tokens := service.NewTokenService("test-secret", time.Hour)

	run := func(accountType string) int {
		token, err := tokens.Generate(7, accountType)
		if err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}
		handler := Auth(tokens)(RequireOperator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))
		req := httptest.NewRequest(http.MethodPatch, "/api/operator/charge-points/3/status", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := run("Standard"); code != http.StatusForbidden {
		t.Errorf("standard account status = %d, want 403", code)
	}
	if code := run("Operator"); code != http.StatusOK {
		t.Errorf("operator account status = %d, want 200", code)
	}
}
