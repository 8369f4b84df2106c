package domain

import "time"

// Category groups equipment items. Name uniqueness is case-insensitive,
// enforced by a lower(name) unique index created during migration.
type Category struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Populated by the list query, not a stored column.
	EquipmentCount int64 `json:"equipment_count" gorm:"->;-:migration"`
}

func (Category) TableName() string { return "categories" }
