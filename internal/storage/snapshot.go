package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/budgetkeeper/internal/models"
)

// SnapshotVersion tags every export.
const SnapshotVersion = "1.0.0"

// Snapshot is the full persisted budget state.
type Snapshot struct {
	Template        models.Template
	Periods         []models.Period
	CurrentPeriodID string // "" when no period is selected
}

// snapshotJSON is the export/import wire shape.
type snapshotJSON struct {
	Template        *models.Template `json:"template"`
	Periods         []models.Period  `json:"periods"`
	CurrentPeriodID *string          `json:"currentPeriodId"`
	ExportedAt      string           `json:"exportedAt"`
	Version         string           `json:"version"`
}

// ErrInvalidFormat is wrapped by ImportError when required top-level
// fields are missing or have the wrong shape.
var ErrInvalidFormat = errors.New("invalid data format")

// ErrDuplicateID is wrapped by ImportError when a payload repeats a period
// id, or an item id within the template or within one period.
var ErrDuplicateID = errors.New("duplicate id")

// ImportError reports an import payload that could not be accepted.
type ImportError struct {
	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("failed to import data: %v", e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// MarshalSnapshot encodes a snapshot as indented JSON stamped with
// exportedAt and the current version.
func MarshalSnapshot(s Snapshot, exportedAt time.Time) ([]byte, error) {
	tpl := s.Template.Clone()
	w := snapshotJSON{
		Template:   &tpl,
		Periods:    s.Periods,
		ExportedAt: exportedAt.UTC().Format(time.RFC3339Nano),
		Version:    SnapshotVersion,
	}
	if w.Periods == nil {
		w.Periods = []models.Period{}
	}
	if s.CurrentPeriodID != "" {
		id := s.CurrentPeriodID
		w.CurrentPeriodID = &id
	}
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot parses an exported payload. It requires a template
// object and a periods array; currentPeriodId, exportedAt and version are
// optional. Every template and period item is validated. All failures are
// returned as *ImportError.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var raw struct {
		Template        json.RawMessage `json:"template"`
		Periods         json.RawMessage `json:"periods"`
		CurrentPeriodID json.RawMessage `json:"currentPeriodId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ImportError{Err: err}
	}
	if !isJSONKind(raw.Template, '{') || !isJSONKind(raw.Periods, '[') {
		return nil, &ImportError{Err: ErrInvalidFormat}
	}

	snap := &Snapshot{}
	if err := json.Unmarshal(raw.Template, &snap.Template); err != nil {
		return nil, &ImportError{Err: fmt.Errorf("template: %w", err)}
	}
	if err := json.Unmarshal(raw.Periods, &snap.Periods); err != nil {
		return nil, &ImportError{Err: fmt.Errorf("periods: %w", err)}
	}
	if len(raw.CurrentPeriodID) > 0 && !bytes.Equal(raw.CurrentPeriodID, []byte("null")) {
		if err := json.Unmarshal(raw.CurrentPeriodID, &snap.CurrentPeriodID); err != nil {
			return nil, &ImportError{Err: fmt.Errorf("currentPeriodId: %w", err)}
		}
	}

	if err := validateSnapshot(snap); err != nil {
		return nil, &ImportError{Err: err}
	}
	snap.Template = snap.Template.Clone()
	if snap.Periods == nil {
		snap.Periods = []models.Period{}
	}
	for i := range snap.Periods {
		snap.Periods[i] = snap.Periods[i].Clone()
	}
	return snap, nil
}

func validateSnapshot(s *Snapshot) error {
	if s.Template.ID == "" {
		return fmt.Errorf("template: %w", models.ErrEmptyID)
	}
	if err := validateItems(s.Template.Items); err != nil {
		return fmt.Errorf("template %w", err)
	}
	periodIDs := make(map[string]bool, len(s.Periods))
	for _, p := range s.Periods {
		if p.ID == "" {
			return fmt.Errorf("period %q: %w", p.Name, models.ErrEmptyID)
		}
		if periodIDs[p.ID] {
			return fmt.Errorf("period %q: %w", p.ID, ErrDuplicateID)
		}
		periodIDs[p.ID] = true
		if err := validateItems(p.Items); err != nil {
			return fmt.Errorf("period %q %w", p.ID, err)
		}
	}
	return nil
}

// validateItems checks every item and that no id repeats.
func validateItems(items []models.Item) error {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %q: %w", item.ID, err)
		}
		if seen[item.ID] {
			return fmt.Errorf("item %q: %w", item.ID, ErrDuplicateID)
		}
		seen[item.ID] = true
	}
	return nil
}

// isJSONKind reports whether raw is a JSON value opening with want
// ('{' for objects, '[' for arrays).
func isJSONKind(raw json.RawMessage, want byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == want
}
