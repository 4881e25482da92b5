// Package database opens the SQLite file backing the media library cache.
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite" // Pure Go SQLite driver (no CGO required)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps the gorm handle and owns the underlying connection.
type DB struct {
	*gorm.DB
}

// Open connects to the SQLite database at url (either "file:./path" or a
// bare path), creating the parent directory if needed. With debug set, SQL
// statements are logged.
func Open(url string, debug bool) (*DB, error) {
	path := strings.TrimPrefix(url, "file:")

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	// WAL keeps sensor-poll writes from blocking concurrent reads; the
	// busy timeout rides out the poller and a request writing at once.
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// The library cache is a single small table written by one poller and
	// the occasional play record; a pair of connections is plenty.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(2)

	return &DB{DB: db}, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
