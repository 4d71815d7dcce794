package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avelez/photodeck-be/internal/apperrors"
)

func TestGenerateAndValidate_Success(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", time.Hour)

	tok, err := tm.Generate("alice")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	subject, err := tm.Validate(tok)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if subject != "alice" {
		t.Fatalf("subject mismatch: got %q want %q", subject, "alice")
	}
}

func TestValidate_Expired(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("secret", -1*time.Second)

	tok, err := tm.Generate("bob")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	_, err = tm.Validate(tok)
	if err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
	if !apperrors.IsKind(err, apperrors.KindUnauthorized) {
		t.Fatalf("expected unauthorized kind, got %v", err)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenManager("right-secret", time.Hour).Generate("carol")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if _, err := NewTokenManager("wrong-secret", time.Hour).Validate(tok); err == nil {
		t.Fatalf("expected error for tampered signature, got nil")
	}
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("k", time.Hour)
	if _, err := tm.Validate("not.a.jwt"); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}

func TestMiddleware_BearerHeader(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("mw-secret", time.Hour)
	tok, err := tm.Generate("dave")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	var gotSubject string
	handler := tm.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject, _ = SubjectFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotSubject != "dave" {
		t.Fatalf("expected subject in context, got %q", gotSubject)
	}
}

func TestMiddleware_MissingToken(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("mw-secret", time.Hour)
	handler := tm.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
