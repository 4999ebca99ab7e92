package kingdom

import (
	"testing"

	"github.com/crownworks/kingdoms-server/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionTick(t *testing.T) {
	reg, _ := newTestRegistry(t)
	user, _, err := reg.CreateUser("Ava", "hash")
	require.NoError(t, err)

	// Upgrade the starting farm to level 2.
	reg.snap.Kingdoms[user.ID].Buildings[1].Level = 2

	require.NoError(t, reg.ProductionTick())

	k, err := reg.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 520, k.Resources[model.ResourceFood]) // 500 + 10 × 2
	assert.Equal(t, 1000, k.Resources[model.ResourceGold])
	assert.Equal(t, 200, k.Resources[model.ResourceIron])
}

func TestProductionTickAllProducers(t *testing.T) {
	reg, _ := newTestRegistry(t)
	user, _, err := reg.CreateUser("Ava", "hash")
	require.NoError(t, err)

	k := reg.snap.Kingdoms[user.ID]
	k.Buildings = append(k.Buildings,
		model.Building{Type: model.BuildingMine, X: 40, Y: 10, Level: 3},
		model.Building{Type: model.BuildingMarket, X: 50, Y: 10, Level: 1},
	)

	require.NoError(t, reg.ProductionTick())

	got, err := reg.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 510, got.Resources[model.ResourceFood]) // farm level 1
	assert.Equal(t, 215, got.Resources[model.ResourceIron]) // mine 5 × 3
	assert.Equal(t, 1008, got.Resources[model.ResourceGold])
}

func TestProductionTickPersists(t *testing.T) {
	reg, st := newTestRegistry(t)
	_, _, err := reg.CreateUser("Ava", "hash")
	require.NoError(t, err)
	savesBefore := st.Saves()

	require.NoError(t, reg.ProductionTick())
	assert.Equal(t, savesBefore+1, st.Saves())
}

func TestProductionTickEmptyWorld(t *testing.T) {
	reg, _ := newTestRegistry(t)
	require.NoError(t, reg.ProductionTick())
}
