package inventory

import (
	"context"
	"errors"
	"time"

	"equipreg/internal/domain"
	"equipreg/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Service struct {
	equipment  *repository.EquipmentRepository
	categories *repository.CategoryRepository
	history    *repository.HistoryRepository
}

func NewService(
	equipment *repository.EquipmentRepository,
	categories *repository.CategoryRepository,
	history *repository.HistoryRepository,
) *Service {
	return &Service{
		equipment:  equipment,
		categories: categories,
		history:    history,
	}
}

/* ---------- QUERIES ---------- */

// List runs the combined search/filter/sort/paginate query and gathers the
// filter options. Options come from unfiltered queries so narrowing the
// result set never shrinks the controls.
func (s *Service) List(ctx context.Context, f repository.EquipmentFilters) (*ListResult, error) {
	if f.SortBy != "" {
		if _, ok := repository.EquipmentSortColumn(f.SortBy); !ok {
			return nil, ErrInvalidSortField
		}
	}

	items, total, err := s.equipment.List(ctx, f)
	if err != nil {
		return nil, err
	}

	rooms, err := s.equipment.DistinctRooms(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.ListOptions(ctx)
	if err != nil {
		return nil, err
	}

	pageCount := 0
	if f.PageSize > 0 {
		pageCount = int((total + int64(f.PageSize) - 1) / int64(f.PageSize))
	}

	if items == nil {
		items = []domain.Equipment{}
	}
	if rooms == nil {
		rooms = []string{}
	}
	if categories == nil {
		categories = []domain.Category{}
	}

	return &ListResult{
		Items: items,
		Pagination: Pagination{
			Total:     total,
			Page:      f.Page,
			PageSize:  f.PageSize,
			PageCount: pageCount,
		},
		Filters: FilterOptions{
			Rooms:      rooms,
			Categories: categories,
		},
	}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Equipment, error) {
	e, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// History returns the audit trail for one equipment id, including ids whose
// equipment row has since been deleted.
func (s *Service) History(ctx context.Context, equipmentID int64) ([]domain.EquipmentHistory, error) {
	entries, err := s.history.ListByEquipment(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.EquipmentHistory{}
	}
	return entries, nil
}

/* ---------- MUTATIONS ---------- */

// Create persists a new equipment record and its "created" audit row in one
// transaction. The uniqueness pre-check gives a friendly error; a race lost
// at the unique index still comes back as ErrDuplicateInventoryNumber.
func (s *Service) Create(ctx context.Context, userID int64, req CreateEquipmentRequest) (*domain.Equipment, error) {
	category, err := s.categories.GetByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	taken, err := s.equipment.ExistsByInventoryNumber(ctx, req.InventoryNumber, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateInventoryNumber
	}

	now := time.Now()
	e := &domain.Equipment{
		Name:            req.Name,
		InventoryNumber: req.InventoryNumber,
		CategoryID:      req.CategoryID,
		Room:            req.Room,
		DateAdded:       now,
		UpdatedAt:       now,
	}

	err = s.equipment.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		// "created" carries no details payload.
		return tx.Create(&domain.EquipmentHistory{
			EquipmentID: e.ID,
			Action:      domain.ActionCreated,
			UserID:      userID,
			Timestamp:   now,
		}).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateInventoryNumber
		}
		return nil, err
	}

	e.Category = category
	return e, nil
}

// Update applies the new field values and, when at least one tracked field
// changed, appends an "updated" audit row carrying the diff. An empty diff
// still persists the update (updatedAt bump) but writes no history.
func (s *Service) Update(ctx context.Context, userID, id int64, req UpdateEquipmentRequest) (*domain.Equipment, error) {
	old, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := s.categories.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	taken, err := s.equipment.ExistsByInventoryNumber(ctx, req.InventoryNumber, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateInventoryNumber
	}

	updated := &domain.Equipment{
		ID:              id,
		Name:            req.Name,
		InventoryNumber: req.InventoryNumber,
		CategoryID:      req.CategoryID,
		Room:            req.Room,
	}
	diff := domain.ComputeDiff(old, updated)

	now := time.Now()
	err = s.equipment.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"name":             req.Name,
			"inventory_number": req.InventoryNumber,
			"category_id":      req.CategoryID,
			"room":             req.Room,
			"updated_at":       now,
		}
		if err := tx.Model(&domain.Equipment{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		if len(diff) == 0 {
			return nil
		}

		details, err := domain.MarshalDetails(diff)
		if err != nil {
			return err
		}
		return tx.Create(&domain.EquipmentHistory{
			EquipmentID: id,
			Action:      domain.ActionUpdated,
			Details:     details,
			UserID:      userID,
			Timestamp:   now,
		}).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateInventoryNumber
		}
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete captures the snapshot from the live joined record, writes the
// "deleted" audit row, then removes the equipment, all in one transaction.
// The ordering matters: the category must still be resolvable when the
// snapshot is taken, and a failure at any step rolls back both writes.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	e, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	details, err := domain.MarshalDetails(domain.Snapshot(e))
	if err != nil {
		return err
	}

	return s.equipment.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&domain.EquipmentHistory{
			EquipmentID: id,
			Action:      domain.ActionDeleted,
			Details:     details,
			UserID:      userID,
			Timestamp:   time.Now(),
		}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Equipment{}, id).Error
	})
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
