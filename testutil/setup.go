package testutil

import (
	"testing"

	"github.com/crownworks/kingdoms-server/cache"
	"github.com/crownworks/kingdoms-server/config"
	"github.com/crownworks/kingdoms-server/game/kingdom"
	"github.com/crownworks/kingdoms-server/store/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// SetupTestRegistry creates a registry on an in-memory store. It requires no
// external services and is safe to use in parallel tests. The returned store
// can be primed to fail saves.
func SetupTestRegistry(t *testing.T) (*kingdom.Registry, *memory.Store) {
	t.Helper()
	st := memory.New()
	reg, err := kingdom.NewRegistry(st, config.GameConfig{
		ProductionIntervalS: 60,
		ChatHistory:         100,
		BattleHistory:       500,
		LeaderboardSize:     20,
		MapSize:             1000,
	}, zap.NewNop())
	require.NoError(t, err, "SetupTestRegistry: NewRegistry")
	return reg, st
}

// SetupTestCache creates LocalCache and LocalPubSub (no Redis required).
func SetupTestCache(t *testing.T) (cache.Cache, cache.PubSub) {
	t.Helper()
	cfg := cache.Config{} // empty RedisAddr → LocalCache
	c, err := cache.NewCache(cfg)
	require.NoError(t, err, "SetupTestCache: NewCache")
	ps, err := cache.NewPubSub(cfg)
	require.NoError(t, err, "SetupTestCache: NewPubSub")
	return c, ps
}
