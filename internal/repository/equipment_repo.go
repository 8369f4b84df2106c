package repository

import (
	"context"

	"equipreg/internal/domain"

	"gorm.io/gorm"
)

// equipmentSortColumns is the allow-list of sortable fields. Caller-supplied
// sort names are never interpolated into the query; anything outside this
// map is rejected before the repository is reached.
var equipmentSortColumns = map[string]string{
	"name":            "name",
	"inventoryNumber": "inventory_number",
	"room":            "room",
	"dateAdded":       "date_added",
}

// EquipmentSortColumn resolves a caller-facing sort field to its column.
func EquipmentSortColumn(field string) (string, bool) {
	col, ok := equipmentSortColumns[field]
	return col, ok
}

type EquipmentFilters struct {
	Search     string
	CategoryID int64
	Room       string
	SortBy     string // validated against the allow-list by the service
	SortOrder  string // "asc" or "desc"
	Page       int
	PageSize   int // 0 disables pagination (export path)
}

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) DB() *gorm.DB {
	return r.db
}

// List returns the filtered, sorted page of equipment with categories
// preloaded, plus the total match count before pagination.
func (r *EquipmentRepository) List(
	ctx context.Context,
	f EquipmentFilters,
) ([]domain.Equipment, int64, error) {

	var items []domain.Equipment
	var total int64

	q := r.db.WithContext(ctx).Model(&domain.Equipment{})

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(
			"lower(name) LIKE lower(?) OR lower(inventory_number) LIKE lower(?)",
			pattern, pattern,
		)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Room != "" {
		q = q.Where("room = ?", f.Room)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := equipmentSortColumns[f.SortBy]
	if !ok {
		col = "date_added"
	}
	dir := "DESC"
	if f.SortOrder == "asc" {
		dir = "ASC"
	}
	q = q.Order(col + " " + dir)

	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		q = q.Limit(f.PageSize).Offset(offset)
	}

	err := q.Preload("Category").Find(&items).Error
	return items, total, err
}

// DistinctRooms returns every room label in use, for the filter controls.
// Independent of any active filter so the options never shrink.
func (r *EquipmentRepository) DistinctRooms(ctx context.Context) ([]string, error) {
	var rooms []string
	err := r.db.WithContext(ctx).
		Model(&domain.Equipment{}).
		Distinct("room").
		Order("room ASC").
		Pluck("room", &rooms).Error
	return rooms, err
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	var e domain.Equipment
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&e, id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ExistsByInventoryNumber reports whether another record already uses the
// inventory number, compared case-insensitively. excludeID skips the record
// itself on update (0 excludes nothing). This is the friendly pre-check;
// the lower() unique index is the authoritative enforcement.
func (r *EquipmentRepository) ExistsByInventoryNumber(
	ctx context.Context,
	inventoryNumber string,
	excludeID int64,
) (bool, error) {

	var count int64
	q := r.db.WithContext(ctx).
		Model(&domain.Equipment{}).
		Where("lower(inventory_number) = lower(?)", inventoryNumber)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}
