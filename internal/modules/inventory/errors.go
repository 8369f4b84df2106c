package inventory

import "errors"

var (
	ErrNotFound                 = errors.New("equipment not found")
	ErrDuplicateInventoryNumber = errors.New("inventory number already in use")
	ErrCategoryNotFound         = errors.New("category not found")
	ErrInvalidSortField         = errors.New("invalid sort field")
)
