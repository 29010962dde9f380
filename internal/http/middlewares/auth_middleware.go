package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mkamau/bloghub/internal/domain/user"
)

// Keep this small interface so tests can fake it easily.
type TokenResolver interface {
	ResolveToken(ctx context.Context, raw string) (user.User, error)
	HashToken(raw string) string
}

type AuthMiddleware struct {
	resolver TokenResolver
}

func NewAuthMiddleware(resolver TokenResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Missing or invalid Authorization header",
				},
			})
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Missing or invalid bearer token",
				},
			})
			return
		}

		u, err := m.resolver.ResolveToken(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Invalid or revoked token",
				},
			})
			return
		}

		// Stash useful bits of identity on the context. The raw token is
		// dropped here; only its hash travels further.
		c.Set(ctxUserIDKey, u.ID)
		c.Set(ctxUserEmailKey, u.Email)
		c.Set(ctxUserNameKey, u.Name)
		c.Set(ctxTokenHashKey, m.resolver.HashToken(raw))

		c.Next()
	}
}

// Optional helpers so handlers don’t need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// TokenHashFromContext returns the hash of the token that authenticated the
// current request, for per-session revocation.
func TokenHashFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxTokenHashKey)
	if !ok {
		return "", false
	}
	h, ok := v.(string)
	return h, ok
}
