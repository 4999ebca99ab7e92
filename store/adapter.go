// Package store provides whole-snapshot persistence of the game state.
package store

import (
	"fmt"

	"github.com/crownworks/kingdoms-server/model"
	"github.com/crownworks/kingdoms-server/store/db"
	"github.com/crownworks/kingdoms-server/store/file"
	"github.com/crownworks/kingdoms-server/store/memory"
)

const (
	ModeFile   = "file"
	ModeSQLite = "sqlite"
	ModeMySQL  = "mysql"
	ModeMemory = "memory"
)

// StateStore persists the full game-state document. Load returns the last
// saved snapshot, or an empty one when nothing has been saved yet. Save
// replaces the stored document wholesale; it must never leave a partially
// written document visible.
type StateStore interface {
	Load() (*model.Snapshot, error)
	Save(*model.Snapshot) error
}

// Config selects and configures a StateStore backend.
type Config struct {
	Mode         string `mapstructure:"mode"` // file | sqlite | mysql | memory
	FilePath     string `mapstructure:"file_path"`
	SQLitePath   string `mapstructure:"sqlite_path"`
	MySQLDSN     string `mapstructure:"mysql_dsn"`
	MySQLMaxOpen int    `mapstructure:"mysql_max_open"`
	MySQLMaxIdle int    `mapstructure:"mysql_max_idle"`
}

// Open returns a StateStore for the configured mode.
func Open(cfg Config) (StateStore, error) {
	switch cfg.Mode {
	case ModeFile:
		return file.New(cfg.FilePath), nil
	case ModeSQLite:
		return db.OpenSQLite(cfg.SQLitePath)
	case ModeMySQL:
		return db.OpenMySQL(cfg.MySQLDSN, cfg.MySQLMaxOpen, cfg.MySQLMaxIdle)
	case ModeMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("store: unknown mode %q", cfg.Mode)
	}
}
