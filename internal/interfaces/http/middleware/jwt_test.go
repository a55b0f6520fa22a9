package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fanstore/backend/internal/application/replenishment"
	"github.com/fanstore/backend/internal/infrastructure/auth"
	"github.com/fanstore/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-characters",
		AccessTokenExpiration: time.Hour,
		Issuer:                "fanstore-inventory-test",
	})
}

func newAuthEngine(svc *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(JWTAuthMiddleware(svc))
	engine.GET("/api/v1/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	engine.GET("/protected", func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.String(http.StatusInternalServerError, "no actor")
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": actor.ID, "role": actor.Role})
	})
	return engine
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newJWTService(t)
	engine := newAuthEngine(svc)

	userID := uuid.New()
	token, err := svc.GenerateAccessToken(userID, "clerk", replenishment.RoleStaff)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), replenishment.RoleStaff)
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	engine := newAuthEngine(newJWTService(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	engine := newAuthEngine(newJWTService(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abcdef")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	svc := newJWTService(t)
	expired := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-characters",
		AccessTokenExpiration: -time.Minute,
		Issuer:                "fanstore-inventory-test",
	})
	engine := newAuthEngine(svc)

	token, err := expired.GenerateAccessToken(uuid.New(), "clerk", replenishment.RoleStaff)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestJWTAuthMiddleware_SkipPath(t *testing.T) {
	engine := newAuthEngine(newJWTService(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	svc := newJWTService(t)
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(JWTAuthMiddleware(svc))
	engine.POST("/admin-only", RequireRole(replenishment.RoleAdmin), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	staffToken, err := svc.GenerateAccessToken(uuid.New(), "clerk", replenishment.RoleStaff)
	require.NoError(t, err)
	adminToken, err := svc.GenerateAccessToken(uuid.New(), "boss", replenishment.RoleAdmin)
	require.NoError(t, err)

	t.Run("staff is forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin-only", nil)
		req.Header.Set("Authorization", "Bearer "+staffToken)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "FORBIDDEN")
	})

	t.Run("admin passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin-only", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
