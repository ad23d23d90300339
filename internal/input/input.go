// Package input validates raw user input (CLI flags, form fields) and
// turns it into domain values. Nothing that fails here reaches the store.
package input

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetkeeper/internal/models"
)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Has reports whether field failed.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("amount", validAmount); err != nil {
		panic(fmt.Sprintf("register amount validation: %v", err))
	}
	if err := v.RegisterValidation("category", validCategory); err != nil {
		panic(fmt.Sprintf("register category validation: %v", err))
	}
	return v
}

// validAmount accepts a decimal string that is not negative.
func validAmount(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	return err == nil && !d.IsNegative()
}

func validCategory(fl validator.FieldLevel) bool {
	return models.Category(fl.Field().String()).Valid()
}

// check runs the validator on s and converts failures to *ValidationError.
func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &ValidationError{}
	for _, e := range validationErrors {
		out.Fields = append(out.Fields, FieldError{Field: e.Field(), Message: message(e)})
	}
	return out
}

// message returns a human-readable validation message.
func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "amount":
		return "Must be a number greater than or equal to 0"
	case "category":
		return "Must be one of: income bills expenses savings debt"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "datetime":
		return "Must be a date formatted as YYYY-MM-DD"
	case "max":
		return "Must be at most " + e.Param() + " characters"
	default:
		return "Invalid value"
	}
}
