package rest

import (
	"net/http"

	"github.com/crownworks/kingdoms-server/game/kingdom"
	mw "github.com/crownworks/kingdoms-server/middleware"
	"github.com/gin-gonic/gin"
)

// KingdomHandler serves the caller's own kingdom and its mutations.
type KingdomHandler struct {
	reg *kingdom.Registry
}

func NewKingdomHandler(reg *kingdom.Registry) *KingdomHandler {
	return &KingdomHandler{reg: reg}
}

// Get handles GET /api/kingdom.
func (h *KingdomHandler) Get(c *gin.Context) {
	k, err := h.reg.Get(mw.GetUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kingdom": k})
}

type buildRequest struct {
	Type string `json:"type" binding:"required"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// Build handles POST /api/kingdom/build.
func (h *KingdomHandler) Build(c *gin.Context) {
	var req buildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	k, err := h.reg.Build(mw.GetUserID(c), req.Type, req.X, req.Y)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kingdom": k})
}

type trainRequest struct {
	UnitType string `json:"unitType" binding:"required"`
	Count    int    `json:"count" binding:"required,min=1"`
}

// Train handles POST /api/kingdom/train.
func (h *KingdomHandler) Train(c *gin.Context) {
	var req trainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	k, err := h.reg.Train(mw.GetUserID(c), req.UnitType, req.Count)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kingdom": k})
}
