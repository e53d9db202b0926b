package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civic-connect.backend/internal/domain/entities"
)

type stubResolver struct {
	identity *entities.Identity
	token    string
}

func (s *stubResolver) ResolveCredential(_ context.Context, token string) *entities.Identity {
	s.token = token
	return s.identity
}

func newIdentityRouter(handler gin.HandlerFunc) (*gin.Engine, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handler)
	r.GET("/probe", func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID.String()})
	})
	return r, httptest.NewRecorder()
}

func TestOptionalAuthWithIdentity(t *testing.T) {
	userID := uuid.New()
	resolver := &stubResolver{identity: &entities.Identity{UserID: userID, Credential: entities.CredentialSession}}
	r, w := newIdentityRouter(OptionalAuth(resolver))

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+"some-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Equal(t, "some-token", resolver.token)
}

func TestOptionalAuthAnonymousPassesThrough(t *testing.T) {
	resolver := &stubResolver{}
	r, w := newIdentityRouter(OptionalAuth(resolver))

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")
}

func TestRequireAuthMissingHeader(t *testing.T) {
	r, w := newIdentityRouter(RequireAuth(&stubResolver{}))

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthBadToken(t *testing.T) {
	r, w := newIdentityRouter(RequireAuth(&stubResolver{}))

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+"garbage")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthNonBearerScheme(t *testing.T) {
	r, w := newIdentityRouter(RequireAuth(&stubResolver{identity: &entities.Identity{UserID: uuid.New()}}))

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(AuthorizationHeader, "Basic dXNlcjpwYXNz")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthWithIdentity(t *testing.T) {
	userID := uuid.New()
	resolver := &stubResolver{identity: &entities.Identity{UserID: userID, Credential: entities.CredentialDelegated}}
	r, w := newIdentityRouter(RequireAuth(resolver))

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+"delegated-token")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestGetIdentityWrongType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(IdentityKey, "not-an-identity")

	assert.Nil(t, GetIdentity(c))
}
