package models

import "time"

// Period is a dated snapshot of the template representing one budgeting
// cycle. Its items are independent copies: later template edits do not
// reach existing periods.
type Period struct {
	// ID is the unique identifier for the period (UUID format).
	ID string `json:"id"`

	// Name is the display name (e.g., "August 1-15").
	Name string `json:"name"`

	// StartDate is the first day of the cycle.
	StartDate Date `json:"startDate"`

	// EndDate is the last day of the cycle. It must not precede StartDate.
	EndDate Date `json:"endDate"`

	// Items are the period lines in display order.
	Items []Item `json:"items"`

	// CreatedAt is when the period was created from the template.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is refreshed whenever the period or one of its items changes.
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidateRange checks that end does not precede start.
func ValidateRange(start, end Date) error {
	if start.IsZero() || end.IsZero() {
		return ErrInvalidDate
	}
	if end.Before(start) {
		return ErrInvalidRange
	}
	return nil
}

// Clone returns a deep copy of the period.
func (p Period) Clone() Period {
	p.Items = CloneItems(p.Items)
	if p.Items == nil {
		p.Items = []Item{}
	}
	return p
}

// ClonePeriods deep-copies a slice of periods.
func ClonePeriods(periods []Period) []Period {
	out := make([]Period, len(periods))
	for i := range periods {
		out[i] = periods[i].Clone()
	}
	return out
}

// IndexOfPeriod returns the position of the period with the given id, or -1.
func IndexOfPeriod(periods []Period, id string) int {
	for i := range periods {
		if periods[i].ID == id {
			return i
		}
	}
	return -1
}
