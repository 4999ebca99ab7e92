package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/crownworks/kingdoms-server/cache"
	"github.com/crownworks/kingdoms-server/config"
	"github.com/crownworks/kingdoms-server/errs"
	"github.com/gin-gonic/gin"
)

const UserIDKey = "user_id"
const UsernameKey = "username"

// Auth validates the Bearer JWT token and checks the session cache.
func Auth(sec config.SecurityConfig, c cache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortAuth(ctx, "missing token")
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims, err := ParseToken(tokenStr, sec.JWTSecret)
		if err != nil {
			abortAuth(ctx, "invalid token")
			return
		}

		// Check session still valid in cache.
		sessionKey := "session:" + tokenStr
		cacheCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		exists, err := c.Exists(cacheCtx, sessionKey)
		if err != nil || !exists {
			abortAuth(ctx, "session expired")
			return
		}

		ctx.Set(UserIDKey, claims.UserID)
		ctx.Set(UsernameKey, claims.Username)
		ctx.Next()
	}
}

func abortAuth(ctx *gin.Context, msg string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":  string(errs.CodeAuth),
		"error": msg,
	})
}

// GetUserID retrieves the authenticated user ID from the Gin context.
func GetUserID(c *gin.Context) string {
	if v, exists := c.Get(UserIDKey); exists {
		return v.(string)
	}
	return ""
}

// GetUsername retrieves the authenticated username from the Gin context.
func GetUsername(c *gin.Context) string {
	if v, exists := c.Get(UsernameKey); exists {
		return v.(string)
	}
	return ""
}
