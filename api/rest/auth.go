package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/crownworks/kingdoms-server/cache"
	"github.com/crownworks/kingdoms-server/config"
	"github.com/crownworks/kingdoms-server/errs"
	"github.com/crownworks/kingdoms-server/game/kingdom"
	mw "github.com/crownworks/kingdoms-server/middleware"
	"github.com/crownworks/kingdoms-server/model"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles registration, login, and logout.
type AuthHandler struct {
	reg   *kingdom.Registry
	cache cache.Cache
	sec   config.SecurityConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(reg *kingdom.Registry, c cache.Cache, sec config.SecurityConfig) *AuthHandler {
	return &AuthHandler{reg: reg, cache: c, sec: sec}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=4,max=64"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/register. The user and its kingdom are created
// atomically.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	user, k, err := h.reg.CreateUser(req.Username, string(hash))
	if err != nil {
		fail(c, err)
		return
	}

	token, err := h.issueSession(c, user)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user":    user.Public(),
		"kingdom": k,
	})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.reg.FindUser(req.Username)
	if err != nil {
		// Do not reveal whether the username exists.
		fail(c, errs.New(errs.CodeAuth, "invalid credentials"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		fail(c, errs.New(errs.CodeAuth, "invalid credentials"))
		return
	}

	k, err := h.reg.Get(user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	token, err := h.issueSession(c, user)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user":    user.Public(),
		"kingdom": k,
	})
}

// Logout handles POST /api/logout: it invalidates the session cache entry.
func (h *AuthHandler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	tokenStr := strings.TrimPrefix(header, "Bearer ")
	if tokenStr == "" {
		fail(c, errs.New(errs.CodeAuth, "missing token"))
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	_ = h.cache.Del(ctx, "session:"+tokenStr)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// issueSession signs a JWT and records it in the session cache.
func (h *AuthHandler) issueSession(c *gin.Context, user *model.User) (string, error) {
	token, err := mw.GenerateToken(user.ID, user.Username, h.sec.JWTSecret, h.sec.JWTTTLH)
	if err != nil {
		return "", errs.Wrap(errs.CodeAuth, "token error", err)
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.cache.Set(ctx, "session:"+token, user.ID, h.sec.JWTTTLH); err != nil {
		return "", errs.Wrap(errs.CodeStorage, "session not stored", err)
	}
	return token, nil
}
