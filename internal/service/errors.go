package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is wrapped by every lookup failure.
	ErrNotFound = errors.New("not found")

	ErrPeriodNotFound = fmt.Errorf("period %w", ErrNotFound)
	ErrItemNotFound   = fmt.Errorf("item %w", ErrNotFound)

	// ErrNotPayable is returned when toggling paid on an income or expense item.
	ErrNotPayable = errors.New("item has no paid flag")

	// ErrDuplicateItemID is returned when a replacement template repeats an item id.
	ErrDuplicateItemID = errors.New("duplicate item id")
)
