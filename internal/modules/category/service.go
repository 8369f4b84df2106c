package category

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
	categories *repository.CategoryRepository
}

func NewService(categories *repository.CategoryRepository) *Service {
	return &Service{categories: categories}
}

func (s *Service) List(ctx context.Context, f repository.CategoryFilters) ([]domain.Category, error) {
	if f.SortBy != "" {
		if _, ok := repository.CategorySortColumn(f.SortBy); !ok {
			return nil, ErrInvalidSort
		}
	}

	categories, err := s.categories.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

// Create adds a category after the case-insensitive name pre-check; the
// lower(name) unique index catches the concurrent-duplicate race.
func (s *Service) Create(ctx context.Context, name string) (*domain.Category, error) {
	taken, err := s.categories.ExistsByName(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateName
	}

	c := &domain.Category{Name: name}
	if err := s.categories.DB().WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id int64, name string) (*domain.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	taken, err := s.categories.ExistsByName(ctx, name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateName
	}

	c.Name = name
	c.UpdatedAt = time.Now()
	if err := s.categories.DB().WithContext(ctx).Save(c).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return c, nil
}

// Delete removes a category unless equipment still references it. The guard
// and the delete run in one transaction so equipment linked between the two
// cannot orphan.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.categories.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Equipment{}).
			Where("category_id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrInUse
		}
		return tx.Delete(&domain.Category{}, id).Error
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
