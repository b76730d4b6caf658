package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema owned by the cart service.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&snapshotRecord{})
}

// Snapshot schema mirrors the cart Postgres snapshot store.
type snapshotRecord struct {
	Key       string    `gorm:"primaryKey;column:key;size:255"`
	Value     string    `gorm:"column:value;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

func (snapshotRecord) TableName() string { return "cart_snapshots" }
