// Package templatefile reads template upload files: a JSON (or YAML)
// object with a name, a description and a list of items without ids.
package templatefile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/budgetkeeper/internal/models"
)

//go:embed example.json
var exampleJSON []byte

// ErrInvalidTemplate is returned when the file parses but does not have
// the expected shape.
var ErrInvalidTemplate = errors.New("invalid template format")

// File is a parsed upload.
type File struct {
	Name        string
	Description string
	Items       []models.NewItem
}

type fileJSON struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Items       json.RawMessage `json:"items"`
}

type itemJSON struct {
	Name             string          `json:"name"`
	Amount           json.RawMessage `json:"amount"`
	Category         models.Category `json:"category"`
	Notes            string          `json:"notes"`
	DueDate          string          `json:"dueDate"`
	Frequency        string          `json:"frequency"`
	ExpenseFrequency string          `json:"expenseFrequency"`
	Paid             bool            `json:"paid"`
}

// Parse reads and validates an upload. Name, description and items are
// required; every item needs a name, a numeric amount and a known
// category. Paid defaults to false.
func Parse(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	var raw fileJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse template file: %w", err)
	}
	if strings.TrimSpace(raw.Name) == "" || strings.TrimSpace(raw.Description) == "" {
		return nil, fmt.Errorf("%w: name and description are required", ErrInvalidTemplate)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw.Items), []byte("[")) {
		return nil, fmt.Errorf("%w: items must be an array", ErrInvalidTemplate)
	}

	var items []itemJSON
	if err := json.Unmarshal(raw.Items, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	f := &File{Name: raw.Name, Description: raw.Description, Items: make([]models.NewItem, 0, len(items))}
	for i, it := range items {
		item, err := it.newItem()
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %w", ErrInvalidTemplate, i, err)
		}
		f.Items = append(f.Items, item)
	}
	return f, nil
}

func (it itemJSON) newItem() (models.NewItem, error) {
	if strings.TrimSpace(it.Name) == "" {
		return models.NewItem{}, models.ErrEmptyName
	}
	amount, err := parseAmount(it.Amount)
	if err != nil {
		return models.NewItem{}, err
	}

	item := models.NewItem{
		Name:     it.Name,
		Amount:   amount,
		Category: it.Category,
		Notes:    it.Notes,
	}
	switch it.Category {
	case models.CategoryBills:
		item.Details = models.BillDetails{Paid: it.Paid, DueDate: it.DueDate, Frequency: models.BillFrequency(it.Frequency)}
	case models.CategoryExpenses:
		item.Details = models.ExpenseDetails{Frequency: models.ExpenseFrequency(it.ExpenseFrequency)}
	case models.CategorySavings:
		item.Details = models.SavingsDetails{Paid: it.Paid}
	case models.CategoryDebt:
		item.Details = models.DebtDetails{Paid: it.Paid}
	}
	if err := item.Validate(); err != nil {
		return models.NewItem{}, fmt.Errorf("%s: %w", it.Name, err)
	}
	return item, nil
}

// parseAmount accepts only a JSON number, never a quoted string.
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !(raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		return decimal.Decimal{}, errors.New("amount must be a number")
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount must be a number: %w", err)
	}
	return d, nil
}

// ParseYAML reads a YAML upload with the same shape and rules as Parse.
func ParseYAML(r io.Reader) (*File, error) {
	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse template file: %w", err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template file: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Example returns the built-in example template.
func Example() *File {
	f, err := Parse(bytes.NewReader(exampleJSON))
	if err != nil {
		panic(fmt.Sprintf("embedded example template is invalid: %v", err))
	}
	return f
}
