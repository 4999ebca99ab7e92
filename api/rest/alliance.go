package rest

import (
	"net/http"

	"github.com/crownworks/kingdoms-server/game/kingdom"
	mw "github.com/crownworks/kingdoms-server/middleware"
	"github.com/gin-gonic/gin"
)

// AllianceHandler creates and lists alliances.
type AllianceHandler struct {
	reg *kingdom.Registry
}

func NewAllianceHandler(reg *kingdom.Registry) *AllianceHandler {
	return &AllianceHandler{reg: reg}
}

type createAllianceRequest struct {
	Name string `json:"name" binding:"required,min=2,max=32"`
}

// Create handles POST /api/alliance/create.
func (h *AllianceHandler) Create(c *gin.Context) {
	var req createAllianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	a, err := h.reg.CreateAlliance(mw.GetUserID(c), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alliance": a})
}

// List handles GET /api/alliances.
func (h *AllianceHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"alliances": h.reg.Alliances()})
}
