package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func authProbe(t *testing.T, a *Auth, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var gotUser string
	handler := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserID(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, gotUser
}

// TestAuthTokenRoundTrip tests issuing and verifying a token
func TestAuthTokenRoundTrip(t *testing.T) {
	a := NewAuth("test-secret")

	token, err := a.IssueToken("user-1", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	rec, user := authProbe(t, a, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if user != "user-1" {
		t.Errorf("Expected user-1, got %q", user)
	}
}

// TestAuthMissingHeader tests rejection without a bearer token
func TestAuthMissingHeader(t *testing.T) {
	a := NewAuth("test-secret")

	rec, _ := authProbe(t, a, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

// TestAuthWrongSecret tests rejection of a foreign token
func TestAuthWrongSecret(t *testing.T) {
	a := NewAuth("test-secret")
	other := NewAuth("other-secret")

	token, err := other.IssueToken("user-1", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	rec, _ := authProbe(t, a, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

// TestAuthExpiredToken tests rejection of an expired token
func TestAuthExpiredToken(t *testing.T) {
	a := NewAuth("test-secret")

	token, err := a.IssueToken("user-1", -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	rec, _ := authProbe(t, a, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

// TestUserIDWithoutAuth tests the extraction fallback
func TestUserIDWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := UserID(req); got != "" {
		t.Errorf("Expected empty user ID, got %q", got)
	}
}
