package db

import (
	"path/filepath"
	"testing"

	"github.com/crownworks/kingdoms-server/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRoundtrip(t *testing.T) {
	st, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)

	// Empty table yields an empty snapshot.
	snap, err := st.Load()
	require.NoError(t, err)
	assert.Empty(t, snap.Users)

	snap.Users["ava"] = &model.User{ID: "u1", Username: "Ava"}
	snap.Kingdoms["u1"] = &model.Kingdom{
		ID:        "u1",
		Name:      "Ava's Kingdom",
		Resources: map[string]int{model.ResourceGold: 1000},
	}
	require.NoError(t, st.Save(snap))

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, "Ava", loaded.Users["ava"].Username)
	assert.Equal(t, 1000, loaded.Kingdoms["u1"].Resources[model.ResourceGold])
}

func TestSQLiteSaveReplaces(t *testing.T) {
	st, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)

	snap := model.NewSnapshot()
	snap.Users["ava"] = &model.User{ID: "u1", Username: "Ava"}
	require.NoError(t, st.Save(snap))

	// A second save fully replaces the document, it does not merge.
	next := model.NewSnapshot()
	next.Users["brom"] = &model.User{ID: "u2", Username: "Brom"}
	require.NoError(t, st.Save(next))

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Len(t, loaded.Users, 1)
	assert.Contains(t, loaded.Users, "brom")
}
