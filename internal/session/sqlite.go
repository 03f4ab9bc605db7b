package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// sessionEntry is one stored key.
type sessionEntry struct {
	Key       string `gorm:"column:entry_key;primaryKey;size:64"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

func (sessionEntry) TableName() string { return "console_session_entries" }

// SQLiteBackend persists values in a SQLite table through gorm.
type SQLiteBackend struct {
	db    *gorm.DB
	owned bool
}

// OpenSQLiteBackend opens (or creates) the database file at path.
func OpenSQLiteBackend(path string) (*SQLiteBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path required")
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	b, err := NewSQLiteBackend(db)
	if err != nil {
		return nil, err
	}
	b.owned = true
	return b, nil
}

// NewSQLiteBackend uses an existing handle and migrates the entries table.
func NewSQLiteBackend(db *gorm.DB) (*SQLiteBackend, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite backend requires database handle")
	}
	if err := db.AutoMigrate(&sessionEntry{}); err != nil {
		return nil, fmt.Errorf("migrate session entries: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var entry sessionEntry
	err := b.db.WithContext(ctx).Where("entry_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (b *SQLiteBackend) Set(ctx context.Context, key, value string) error {
	entry := sessionEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (b *SQLiteBackend) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return b.db.WithContext(ctx).Where("entry_key IN ?", keys).Delete(&sessionEntry{}).Error
}

func (b *SQLiteBackend) Close() error {
	if !b.owned {
		return nil
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
