package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crownworks/kingdoms-server/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "state.json"))

	snap, err := st.Load()
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Empty(t, snap.Users)
	assert.NotNil(t, snap.Kingdoms)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "state.json")
	st := New(path)

	snap := model.NewSnapshot()
	snap.Users["ava"] = &model.User{ID: "u1", Username: "Ava", PasswordHash: "h"}
	snap.Kingdoms["u1"] = &model.Kingdom{
		ID:        "u1",
		Name:      "Ava's Kingdom",
		Owner:     "Ava",
		Level:     1,
		Resources: map[string]int{model.ResourceGold: 1000},
		Army:      map[string]int{model.UnitInfantry: 30},
		Buildings: []model.Building{{Type: model.BuildingCastle, X: 10, Y: 10, Level: 1}},
	}
	snap.Chat = append(snap.Chat, &model.ChatMessage{Sender: "Ava", Text: "hello"})

	require.NoError(t, st.Save(snap))

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, "Ava", loaded.Users["ava"].Username)
	assert.Equal(t, 1000, loaded.Kingdoms["u1"].Resources[model.ResourceGold])
	require.Len(t, loaded.Chat, 1)
	assert.Equal(t, "hello", loaded.Chat[0].Text)
}

func TestSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	st := New(filepath.Join(dir, "state.json"))

	snap := model.NewSnapshot()
	require.NoError(t, st.Save(snap))
	snap.Users["ava"] = &model.User{ID: "u1", Username: "Ava"}
	require.NoError(t, st.Save(snap))

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Len(t, loaded.Users, 1)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := New(path).Load()
	assert.Error(t, err)
}

func TestLoadNormalizesOldDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"users":{}}`), 0o644))

	snap, err := New(path).Load()
	require.NoError(t, err)
	assert.NotNil(t, snap.Kingdoms)
	assert.NotNil(t, snap.Alliances)
}
