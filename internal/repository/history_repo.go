package repository

import (
	"context"

	"equipreg/internal/domain"

	"gorm.io/gorm"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) DB() *gorm.DB {
	return r.db
}

// ListByEquipment returns the audit trail for one equipment id, newest
// first. Rows survive the equipment delete, so this works for ids that no
// longer resolve to a live record.
func (r *HistoryRepository) ListByEquipment(
	ctx context.Context,
	equipmentID int64,
) ([]domain.EquipmentHistory, error) {

	var entries []domain.EquipmentHistory
	err := r.db.WithContext(ctx).
		Where("equipment_id = ?", equipmentID).
		Order("timestamp DESC, id DESC").
		Find(&entries).Error
	return entries, err
}
