package input

import (
	"strings"

	"github.com/mmynk/budgetkeeper/internal/models"
)

// Period is the raw form data for creating or editing a period.
type Period struct {
	Name      string `json:"name" validate:"required,max=200"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// Parse validates the form and returns the period name and dates.
func (in Period) Parse() (name string, start, end models.Date, err error) {
	in.Name = strings.TrimSpace(in.Name)
	in.StartDate = strings.TrimSpace(in.StartDate)
	in.EndDate = strings.TrimSpace(in.EndDate)
	if err := check(in); err != nil {
		return "", models.Date{}, models.Date{}, err
	}

	if start, err = models.ParseDate(in.StartDate); err != nil {
		return "", models.Date{}, models.Date{}, err
	}
	if end, err = models.ParseDate(in.EndDate); err != nil {
		return "", models.Date{}, models.Date{}, err
	}
	if end.Before(start) {
		return "", models.Date{}, models.Date{}, &ValidationError{Fields: []FieldError{
			{Field: "endDate", Message: "Must not be before startDate"},
		}}
	}
	return in.Name, start, end, nil
}
