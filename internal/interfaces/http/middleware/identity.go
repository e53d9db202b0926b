package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"civic-connect.backend/internal/domain/entities"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// IdentityKey is the context key for the resolved caller identity
	IdentityKey = "identity"
)

// IdentityResolver reconciles a bearer token from either trust domain
// into a caller identity. A nil result means anonymous.
type IdentityResolver interface {
	ResolveCredential(ctx context.Context, token string) *entities.Identity
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader(AuthorizationHeader)
	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(authHeader, BearerPrefix)
}

// OptionalAuth resolves the caller identity when a credential is
// presented and lets the request through either way. Handlers behind it
// treat a missing identity as an anonymous caller.
func OptionalAuth(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity := resolver.ResolveCredential(c.Request.Context(), bearerToken(c)); identity != nil {
			c.Set(IdentityKey, identity)
		}
		c.Next()
	}
}

// RequireAuth resolves the caller identity and rejects the request when
// no credential from either trust domain checks out.
func RequireAuth(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header is required",
			})
			return
		}

		identity := resolver.ResolveCredential(c.Request.Context(), token)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
			})
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// GetIdentity returns the resolved identity, or nil for anonymous callers
func GetIdentity(c *gin.Context) *entities.Identity {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}
	identity, ok := value.(*entities.Identity)
	if !ok {
		return nil
	}
	return identity
}
