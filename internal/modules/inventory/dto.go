package inventory

import "equipreg/internal/domain"

type CreateEquipmentRequest struct {
	Name            string `json:"name" validate:"required"`
	InventoryNumber string `json:"inventory_number" validate:"required"`
	CategoryID      int64  `json:"category_id" validate:"required"`
	Room            string `json:"room" validate:"required"`
}

type UpdateEquipmentRequest struct {
	Name            string `json:"name" validate:"required"`
	InventoryNumber string `json:"inventory_number" validate:"required"`
	CategoryID      int64  `json:"category_id" validate:"required"`
	Room            string `json:"room" validate:"required"`
}

type Pagination struct {
	Total     int64 `json:"total"`
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	PageCount int   `json:"page_count"`
}

type FilterOptions struct {
	Rooms      []string          `json:"rooms"`
	Categories []domain.Category `json:"categories"`
}

type ListResult struct {
	Items      []domain.Equipment `json:"items"`
	Pagination Pagination         `json:"pagination"`
	Filters    FilterOptions      `json:"filters"`
}
