package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mkamau/bloghub/internal/domain/user"
	"github.com/mkamau/bloghub/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResolver struct {
	user user.User
	err  error

	gotRaw string
}

func (f *fakeResolver) ResolveToken(ctx context.Context, raw string) (user.User, error) {
	f.gotRaw = raw

	if f.err != nil {
		return user.User{}, f.err
	}

	return f.user, nil
}

func (f *fakeResolver) HashToken(raw string) string {
	return "hash-" + raw
}

func setupAuthRouter(resolver middlewares.TokenResolver) *gin.Engine {
	r := gin.New()

	mw := middlewares.NewAuthMiddleware(resolver)

	r.GET("/me", mw.RequireAuth(), func(c *gin.Context) {
		id, _ := middlewares.UserIDFromContext(c)
		hash, _ := middlewares.TokenHashFromContext(c)

		c.JSON(http.StatusOK, gin.H{"id": id, "tokenHash": hash})
	})

	return r
}

func TestRequireAuth_RejectsBadHeaders(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing_header", header: ""},
		{name: "wrong_scheme", header: "Basic abc123"},
		{name: "empty_bearer", header: "Bearer "},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			resolver := &fakeResolver{user: user.User{ID: "u-1"}}
			r := setupAuthRouter(resolver)

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusUnauthorized, w.Body.String())
			}

			// resolver must never see a request without a bearer token
			if resolver.gotRaw != "" {
				t.Fatalf("resolver was called with %q", resolver.gotRaw)
			}
		})
	}
}

func TestRequireAuth_RejectsInvalidToken(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("revoked")}
	r := setupAuthRouter(resolver)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer stale-token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusUnauthorized, w.Body.String())
	}

	if resolver.gotRaw != "stale-token" {
		t.Fatalf("resolver got %q, want stale-token", resolver.gotRaw)
	}
}

func TestRequireAuth_SetsIdentityOnContext(t *testing.T) {
	resolver := &fakeResolver{
		user: user.User{ID: "u-1", Email: "sam@example.com", Name: "Sam Doe"},
	}
	r := setupAuthRouter(resolver)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	body := w.Body.String()
	if !strings.Contains(body, `"id":"u-1"`) || !strings.Contains(body, `"tokenHash":"hash-good-token"`) {
		t.Fatalf("identity not propagated, body=%s", body)
	}
}
