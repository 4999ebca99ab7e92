package rest

import (
	"net/http"

	"github.com/crownworks/kingdoms-server/game/kingdom"
	mw "github.com/crownworks/kingdoms-server/middleware"
	"github.com/crownworks/kingdoms-server/model"
	"github.com/gin-gonic/gin"
)

// BattleNotifier pushes resolved battles to connected realtime clients.
// Implemented by the websocket hub; may be nil in tests.
type BattleNotifier interface {
	BroadcastBattle(record *model.BattleRecord)
}

// BattleHandler resolves attacks and serves the battle log.
type BattleHandler struct {
	reg      *kingdom.Registry
	notifier BattleNotifier
}

func NewBattleHandler(reg *kingdom.Registry, notifier BattleNotifier) *BattleHandler {
	return &BattleHandler{reg: reg, notifier: notifier}
}

type attackRequest struct {
	TargetID string `json:"targetId" binding:"required"`
}

// Attack handles POST /api/battle/attack. The outcome is applied to both
// kingdoms before the response is written, then fanned out to realtime
// clients.
func (h *BattleHandler) Attack(c *gin.Context) {
	var req attackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	record, k, err := h.reg.Attack(mw.GetUserID(c), req.TargetID)
	if err != nil {
		fail(c, err)
		return
	}
	if h.notifier != nil {
		h.notifier.BroadcastBattle(record)
	}
	c.JSON(http.StatusOK, gin.H{"result": record, "kingdom": k})
}

// List handles GET /api/battles.
func (h *BattleHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"battles": h.reg.Battles(50)})
}
