package domain

import "time"

// Equipment is a single tracked office-equipment item. InventoryNumber
// uniqueness is case-insensitive via a lower(inventory_number) unique index.
type Equipment struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name"`
	InventoryNumber string    `json:"inventory_number"`
	CategoryID      int64     `json:"category_id"`
	Category        *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Room            string    `json:"room"`
	DateAdded       time.Time `json:"date_added"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Equipment) TableName() string { return "equipment" }
