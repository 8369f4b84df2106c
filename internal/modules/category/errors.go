package category

import "errors"

var (
	ErrNotFound      = errors.New("category not found")
	ErrDuplicateName = errors.New("category name already in use")
	ErrInUse         = errors.New("category has referencing equipment")
	ErrInvalidSort   = errors.New("invalid sort field")
)
