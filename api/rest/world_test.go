package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crownworks/kingdoms-server/game/kingdom"
	"github.com/crownworks/kingdoms-server/model"
	"github.com/crownworks/kingdoms-server/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLeaderboardServedFromCache(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg, _ := testutil.SetupTestRegistry(t)
	c, _ := testutil.SetupTestCache(t)

	_, _, err := reg.CreateUser("Ava", "hash")
	require.NoError(t, err)
	strong, _, err := reg.CreateUser("Brom", "hash")
	require.NoError(t, err)
	_, err = reg.Train(strong.ID, model.UnitCavalry, 5)
	require.NoError(t, err)

	h := NewWorldHandler(reg, c, 20, zap.NewNop())
	require.NoError(t, h.RefreshLeaderboard())

	r := gin.New()
	r.GET("/leaderboard", h.Leaderboard)

	req := httptest.NewRequest(http.MethodGet, "/leaderboard", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Leaderboard []kingdom.LeaderboardEntry `json:"leaderboard"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Leaderboard, 2)
	assert.Equal(t, strong.ID, body.Leaderboard[0].KingdomID)
	assert.Equal(t, 1, body.Leaderboard[0].Rank)
	assert.Greater(t, body.Leaderboard[0].Score, body.Leaderboard[1].Score)
}
