// Package db opens the backing gorm database for the memory service.
package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/kavira-ai/voicecore/internal/config"
)

// Open connects to the configured backing store.
//
// For sqlite, DB_PATH ":memory:" selects the ephemeral shared in-memory
// database. Its contents vanish when the last connection closes, so the pool
// is pinned to a single long-lived connection. A file path gets its parent
// directory created on open and a normal pool; sqlite itself serializes
// concurrent writers.
func Open(cfg config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "mysql":
		gdb, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("storage unavailable: %w", err)
		}
		return gdb, nil

	case "", "sqlite":
		dsn := cfg.DBPath
		ephemeral := dsn == ":memory:"
		if ephemeral {
			dsn = "file::memory:?cache=shared"
		} else {
			if dir := filepath.Dir(dsn); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("storage unavailable: %w", err)
				}
			}
		}

		gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("storage unavailable: %w", err)
		}

		if ephemeral {
			sqlDB, err := gdb.DB()
			if err != nil {
				return nil, err
			}
			// Closing the only connection would destroy the database.
			sqlDB.SetMaxOpenConns(1)
			sqlDB.SetMaxIdleConns(1)
			sqlDB.SetConnMaxLifetime(0)
			sqlDB.SetConnMaxIdleTime(0)
		}
		return gdb, nil

	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER=%q", cfg.DBDriver)
	}
}
