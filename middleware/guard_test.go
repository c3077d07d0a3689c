package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	goJose "github.com/MrEthical07/goJose"
	"github.com/MrEthical07/goJose/jwk"
)

func newTestEngine(t *testing.T) *goJose.Engine {
	t.Helper()
	e, err := goJose.NewEngine(goJose.Config{})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	key, err := jwk.NewSymmetric("HS256", "k1", []byte("middleware-secret-middleware-32!"))
	if err != nil {
		t.Fatalf("NewSymmetric failed: %v", err)
	}
	if err := e.AddKey(key); err != nil {
		t.Fatalf("AddKey failed: %v", err)
	}
	return e
}

func echoClaims(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Fatal("claims missing from context")
		}
		sub, _ := claims["sub"].(string)
		w.Write([]byte(sub))
	})
}

func TestRequireVerifiedAcceptsValidToken(t *testing.T) {
	e := newTestEngine(t)
	token, err := e.Sign(map[string]any{"sub": "alice"}, goJose.SignOptions{Algorithm: "HS256"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	handler := RequireVerified(e)(echoClaims(t))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "alice" {
		t.Fatalf("body = %q, want alice", rec.Body.String())
	}
}

func TestRequireVerifiedRejects(t *testing.T) {
	e := newTestEngine(t)
	handler := RequireVerified(e)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	cases := map[string]string{
		"no header":     "",
		"not bearer":    "Basic abc",
		"empty token":   "Bearer ",
		"garbage token": "Bearer not.a.token",
		"bad signature": "Bearer eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0.AAAA",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", name, rec.Code)
		}
	}
}

func TestGuardNilAuthenticatorRejects(t *testing.T) {
	handler := RequireVerified(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
