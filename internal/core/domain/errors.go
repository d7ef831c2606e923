package domain

import "errors"

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartExists       = errors.New("cart already exists")
	ErrItemNotFound     = errors.New("cart item not found")
	ErrDiscountNotFound = errors.New("discount not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidProduct   = errors.New("invalid product")
	ErrInvalidItem      = errors.New("invalid cart item")
	ErrEmptyUsername    = errors.New("username is required")
	ErrNegativePrice    = errors.New("discounted price is negative")

	// ErrConflict is returned when a cart changed between load and commit.
	ErrConflict = errors.New("cart modified concurrently")

	// ErrLockTimeout is returned when a cart commit lock could not be taken in time.
	ErrLockTimeout = errors.New("cart lock timeout")
)
