package repository

import (
	"context"

	"equipreg/internal/domain"

	"gorm.io/gorm"
)

var categorySortColumns = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
}

// CategorySortColumn resolves a caller-facing sort field to its column.
func CategorySortColumn(field string) (string, bool) {
	col, ok := categorySortColumns[field]
	return col, ok
}

type CategoryFilters struct {
	Search    string
	SortBy    string
	SortOrder string
}

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) DB() *gorm.DB {
	return r.db
}

// List returns categories with their referencing-equipment counts.
func (r *CategoryRepository) List(
	ctx context.Context,
	f CategoryFilters,
) ([]domain.Category, error) {

	var categories []domain.Category

	q := r.db.WithContext(ctx).
		Model(&domain.Category{}).
		Select("categories.*, (SELECT COUNT(*) FROM equipment WHERE equipment.category_id = categories.id) AS equipment_count")

	if f.Search != "" {
		q = q.Where("lower(name) LIKE lower(?)", "%"+f.Search+"%")
	}

	col, ok := categorySortColumns[f.SortBy]
	if !ok {
		col = "name"
	}
	dir := "ASC"
	if f.SortOrder == "desc" {
		dir = "DESC"
	}

	err := q.Order(col + " " + dir).Find(&categories).Error
	return categories, err
}

// ListOptions returns id+name pairs for the equipment filter controls.
func (r *CategoryRepository) ListOptions(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.WithContext(ctx).
		Model(&domain.Category{}).
		Select("id, name").
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ExistsByName reports whether another category already uses the name,
// compared case-insensitively. Pre-check only; the lower() unique index
// backs it up under concurrency.
func (r *CategoryRepository) ExistsByName(
	ctx context.Context,
	name string,
	excludeID int64,
) (bool, error) {

	var count int64
	q := r.db.WithContext(ctx).
		Model(&domain.Category{}).
		Where("lower(name) = lower(?)", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// CountEquipment counts equipment referencing the category.
func (r *CategoryRepository) CountEquipment(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Equipment{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}
