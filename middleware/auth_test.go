package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crownworks/kingdoms-server/cache/local"
	"github.com/crownworks/kingdoms-server/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, *local.LocalCache, config.SecurityConfig) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, err := local.NewCache(local.Config{})
	require.NoError(t, err)
	t.Cleanup(c.Close)

	sec := config.SecurityConfig{JWTSecret: "test-secret", JWTTTLH: time.Hour}

	r := gin.New()
	r.GET("/me", Auth(sec, c), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"user_id":  GetUserID(ctx),
			"username": GetUsername(ctx),
		})
	})
	return r, c, sec
}

func get(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAccepts(t *testing.T) {
	r, c, sec := setupAuthRouter(t)

	token, err := GenerateToken("u1", "Ava", sec.JWTSecret, time.Hour)
	require.NoError(t, err)
	require.NoError(t, c.Set(context.Background(), "session:"+token, "u1", time.Hour))

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1")
	assert.Contains(t, w.Body.String(), "Ava")
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	r, _, _ := setupAuthRouter(t)
	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Basic abc").Code)
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	r, _, _ := setupAuthRouter(t)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer garbage").Code)
}

func TestAuthRejectsMissingSession(t *testing.T) {
	r, _, sec := setupAuthRouter(t)

	// Valid JWT, but no session entry in the cache (logged out).
	token, err := GenerateToken("u1", "Ava", sec.JWTSecret, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+token).Code)
}
