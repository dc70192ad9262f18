package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is one key/value row.
type Record struct {
	Key       string    `gorm:"primaryKey;type:varchar(128)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// GormBackend stores records in the `records` table.
type GormBackend struct {
	db *gorm.DB
}

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

// OpenGormBackend migrates the records table and returns the backend. The
// connection is closed if the migration fails.
func OpenGormBackend(db *gorm.DB) (*GormBackend, error) {
	g := NewGormBackend(db)
	if err := g.AutoMigrate(); err != nil {
		_ = g.Close()
		return nil, fmt.Errorf("migrate records table: %w", err)
	}
	return g, nil
}

// AutoMigrate creates or updates the records table.
func (g *GormBackend) AutoMigrate() error {
	return g.db.AutoMigrate(&Record{})
}

func (g *GormBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var rec Record
	err := g.db.WithContext(ctx).Where("key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.Value, true, nil
}

func (g *GormBackend) Set(ctx context.Context, key, value string) error {
	rec := Record{Key: key, Value: value}
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).Error
}

func (g *GormBackend) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
