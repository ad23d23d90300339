package models

import "errors"

var (
	ErrUnknownCategory  = errors.New("unknown category")
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrEmptyName        = errors.New("name must not be empty")
	ErrEmptyID          = errors.New("id must not be empty")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrDetailsMismatch  = errors.New("item details do not match category")
	ErrInvalidRange     = errors.New("end date precedes start date")
)
