// Package db persists the game state as a single JSON row through GORM.
package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/crownworks/kingdoms-server/model"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// snapshotRow is the single-row table holding the whole game-state document.
// Keeping one row (fixed primary key) gives the same whole-document-replace
// semantics as the file backend.
type snapshotRow struct {
	ID        int            `gorm:"primaryKey"`
	Document  datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (snapshotRow) TableName() string { return "snapshots" }

// Store implements StateStore on top of a GORM database.
type Store struct {
	db *gorm.DB
}

// OpenSQLite creates a SQLite-backed store.
func OpenSQLite(path string) (*Store, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return newStore(gdb)
}

// OpenMySQL creates a MySQL-backed store with a connection pool.
func OpenMySQL(dsn string, maxOpen, maxIdle int) (*Store, error) {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		sqlDB.SetMaxIdleConns(maxIdle)
	}
	return newStore(gdb)
}

func newStore(gdb *gorm.DB) (*Store, error) {
	if err := gdb.AutoMigrate(&snapshotRow{}); err != nil {
		return nil, fmt.Errorf("db store: migrate: %w", err)
	}
	return &Store{db: gdb}, nil
}

// Load reads the stored snapshot. An empty table yields an empty snapshot.
func (s *Store) Load() (*model.Snapshot, error) {
	var row snapshotRow
	err := s.db.First(&row, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("db store: load: %w", err)
	}
	snap := &model.Snapshot{}
	if err := json.Unmarshal(row.Document, snap); err != nil {
		return nil, fmt.Errorf("db store: decode: %w", err)
	}
	snap.Normalize()
	return snap, nil
}

// Save replaces the stored document in one upsert.
func (s *Store) Save(snap *model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("db store: encode: %w", err)
	}
	row := snapshotRow{ID: 1, Document: datatypes.JSON(data)}
	if err := s.db.Save(&row).Error; err != nil {
		return fmt.Errorf("db store: save: %w", err)
	}
	return nil
}
