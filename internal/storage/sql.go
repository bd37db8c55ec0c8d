package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type setting struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value string `gorm:"column:value;not null"`
}

func (setting) TableName() string { return "settings" }

// SQLBackend stores keys as rows of a SQLite table.
type SQLBackend struct {
	db *gorm.DB
}

// OpenSQLBackend opens (or creates) the SQLite database at dsn.
func OpenSQLBackend(dsn string) (*SQLBackend, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return NewSQLBackend(db)
}

// NewSQLBackend wraps an existing gorm handle and migrates the settings table.
func NewSQLBackend(db *gorm.DB) (*SQLBackend, error) {
	if err := db.AutoMigrate(&setting{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite store: %w", err)
	}
	return &SQLBackend{db: db}, nil
}

func (b *SQLBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var row setting
	err := b.db.WithContext(ctx).Where("name = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return row.Value, true, nil
}

func (b *SQLBackend) Set(ctx context.Context, key, value string) error {
	err := b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&setting{Name: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (b *SQLBackend) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := b.db.WithContext(ctx).Where("name IN ?", keys).Delete(&setting{}).Error; err != nil {
		return fmt.Errorf("remove keys: %w", err)
	}
	return nil
}

func (b *SQLBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
