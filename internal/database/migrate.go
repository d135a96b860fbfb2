package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

// KVSnapshot stores one whole-value JSON document under a fixed name.
type KVSnapshot struct {
	Name      string `gorm:"primaryKey;size:128"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName pins the snapshot table name.
func (KVSnapshot) TableName() string {
	return "kv_snapshots"
}

// RunMigrations creates or updates the tables used by the SQL stores.
func RunMigrations(db *gorm.DB) error {
	log.Printf("Running GORM auto-migration for %s", db.Dialector.Name())
	if err := db.AutoMigrate(&KVSnapshot{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
