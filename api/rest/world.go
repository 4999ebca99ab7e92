package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/crownworks/kingdoms-server/cache"
	"github.com/crownworks/kingdoms-server/game/battle"
	"github.com/crownworks/kingdoms-server/game/kingdom"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const leaderboardKey = "leaderboard"

// WorldHandler serves the public world views: the map and the leaderboard.
// The leaderboard ordering is cached in a sorted set and refreshed on a
// ticker; reads fall back to a direct scan when the cache is cold.
type WorldHandler struct {
	reg    *kingdom.Registry
	cache  cache.Cache
	size   int
	logger *zap.Logger
}

func NewWorldHandler(reg *kingdom.Registry, c cache.Cache, size int, logger *zap.Logger) *WorldHandler {
	if size <= 0 {
		size = 20
	}
	return &WorldHandler{reg: reg, cache: c, size: size, logger: logger}
}

// RefreshLeaderboard recomputes every kingdom's score into the sorted set.
// Wired to the scheduler alongside the production tick.
func (h *WorldHandler) RefreshLeaderboard() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, e := range h.reg.Leaderboard(0) {
		if err := h.cache.ZAdd(ctx, leaderboardKey, float64(e.Score), e.KingdomID); err != nil {
			return err
		}
	}
	return nil
}

// Leaderboard handles GET /api/leaderboard. The sorted set supplies the
// ordering; rows are hydrated from the live registry so scores are current.
func (h *WorldHandler) Leaderboard(c *gin.Context) {
	n := h.size
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 && v < 100 {
			n = v
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	ids, err := h.cache.ZRevRange(ctx, leaderboardKey, 0, int64(n-1))
	if err != nil || len(ids) == 0 {
		if err != nil {
			h.logger.Debug("leaderboard cache read failed", zap.Error(err))
		}
		c.JSON(http.StatusOK, gin.H{"leaderboard": h.reg.Leaderboard(n)})
		return
	}

	entries := make([]kingdom.LeaderboardEntry, 0, len(ids))
	for _, id := range ids {
		k, err := h.reg.Get(id)
		if err != nil {
			continue
		}
		entries = append(entries, kingdom.LeaderboardEntry{
			Rank:      len(entries) + 1,
			KingdomID: k.ID,
			Name:      k.Name,
			Owner:     k.Owner,
			Power:     battle.Power(k.Army),
			Buildings: len(k.Buildings),
			Score:     kingdom.Score(k),
		})
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// Map handles GET /api/world.
func (h *WorldHandler) Map(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"kingdoms": h.reg.WorldMap()})
}
