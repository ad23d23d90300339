package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmynk/budgetkeeper/internal/models"
)

// Adapter defines the persistence contract used by the service layer.
// Implementations never own domain objects; they serialize the copies
// they are given.
type Adapter interface {
	// GetTemplate returns the persisted template, or nil if none is stored.
	GetTemplate(ctx context.Context) (*models.Template, error)

	// SaveTemplate persists the template under its own key.
	SaveTemplate(ctx context.Context, template models.Template) error

	// GetPeriods returns the persisted periods, or an empty slice.
	GetPeriods(ctx context.Context) ([]models.Period, error)

	// SavePeriods persists the whole period list under its own key.
	SavePeriods(ctx context.Context, periods []models.Period) error

	// GetCurrentPeriodID returns the selected period id, or "" if none.
	GetCurrentPeriodID(ctx context.Context) (string, error)

	// SaveCurrentPeriodID persists the selected period id. "" removes it.
	SaveCurrentPeriodID(ctx context.Context, id string) error

	// SaveChanges writes every key set in changes in a single atomic batch.
	SaveChanges(ctx context.Context, changes Changes) error

	// ClearAll removes every persisted key.
	ClearAll(ctx context.Context) error

	// ExportData serializes the persisted state as a versioned snapshot.
	ExportData(ctx context.Context) ([]byte, error)

	// ImportData parses a snapshot. It does not write anything.
	// Returns *ImportError for unusable payloads.
	ImportData(data []byte) (*Snapshot, error)

	// Available reports whether anything is actually persisted.
	Available() bool
}

// Changes selects which keys a SaveChanges call writes. Nil fields are
// left untouched.
type Changes struct {
	Template        *models.Template
	Periods         []models.Period
	PeriodsSet      bool
	CurrentPeriodID *string
}

// WithTemplate marks the template key dirty.
func (c Changes) WithTemplate(t models.Template) Changes {
	c.Template = &t
	return c
}

// WithPeriods marks the periods key dirty.
func (c Changes) WithPeriods(periods []models.Period) Changes {
	c.Periods = periods
	c.PeriodsSet = true
	return c
}

// WithCurrentPeriodID marks the current period key dirty.
func (c Changes) WithCurrentPeriodID(id string) Changes {
	c.CurrentPeriodID = &id
	return c
}

// Empty reports whether no key is dirty.
func (c Changes) Empty() bool {
	return c.Template == nil && !c.PeriodsSet && c.CurrentPeriodID == nil
}

// Keys lists the dirty keys.
func (c Changes) Keys() []string {
	var keys []string
	if c.Template != nil {
		keys = append(keys, KeyTemplate)
	}
	if c.PeriodsSet {
		keys = append(keys, KeyPeriods)
	}
	if c.CurrentPeriodID != nil {
		keys = append(keys, KeyCurrentPeriodID)
	}
	return keys
}

// Ensure JSONAdapter implements Adapter
var _ Adapter = (*JSONAdapter)(nil)

// JSONAdapter implements Adapter by storing each key as a JSON blob in a KV.
type JSONAdapter struct {
	kv  KV
	now func() time.Time
}

// NewJSONAdapter creates an adapter over the given backend.
func NewJSONAdapter(kv KV) *JSONAdapter {
	return &JSONAdapter{kv: kv, now: time.Now}
}

// Available reports whether the underlying backend persists anything.
func (a *JSONAdapter) Available() bool {
	return a.kv.Available()
}

// Close closes the underlying backend.
func (a *JSONAdapter) Close() error {
	return a.kv.Close()
}

// GetTemplate reads the template key.
func (a *JSONAdapter) GetTemplate(ctx context.Context) (*models.Template, error) {
	data, ok, err := a.kv.Get(ctx, KeyTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var tpl models.Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("failed to decode template: %w", err)
	}
	tpl = tpl.Clone()
	return &tpl, nil
}

// SaveTemplate writes the template key.
func (a *JSONAdapter) SaveTemplate(ctx context.Context, template models.Template) error {
	return a.SaveChanges(ctx, Changes{}.WithTemplate(template))
}

// GetPeriods reads the periods key.
func (a *JSONAdapter) GetPeriods(ctx context.Context) ([]models.Period, error) {
	data, ok, err := a.kv.Get(ctx, KeyPeriods)
	if err != nil {
		return nil, fmt.Errorf("failed to read periods: %w", err)
	}
	if !ok {
		return []models.Period{}, nil
	}
	var periods []models.Period
	if err := json.Unmarshal(data, &periods); err != nil {
		return nil, fmt.Errorf("failed to decode periods: %w", err)
	}
	if periods == nil {
		periods = []models.Period{}
	}
	return periods, nil
}

// SavePeriods writes the periods key.
func (a *JSONAdapter) SavePeriods(ctx context.Context, periods []models.Period) error {
	return a.SaveChanges(ctx, Changes{}.WithPeriods(periods))
}

// GetCurrentPeriodID reads the current period key. The id is stored as a
// raw string, not JSON.
func (a *JSONAdapter) GetCurrentPeriodID(ctx context.Context) (string, error) {
	data, ok, err := a.kv.Get(ctx, KeyCurrentPeriodID)
	if err != nil {
		return "", fmt.Errorf("failed to read current period id: %w", err)
	}
	if !ok {
		return "", nil
	}
	return string(data), nil
}

// SaveCurrentPeriodID writes or removes the current period key.
func (a *JSONAdapter) SaveCurrentPeriodID(ctx context.Context, id string) error {
	return a.SaveChanges(ctx, Changes{}.WithCurrentPeriodID(id))
}

// SaveChanges encodes every dirty key and applies them as one batch.
func (a *JSONAdapter) SaveChanges(ctx context.Context, changes Changes) error {
	if changes.Empty() {
		return nil
	}
	ops := make([]Op, 0, 3)
	if changes.Template != nil {
		data, err := json.Marshal(changes.Template.Clone())
		if err != nil {
			return fmt.Errorf("failed to encode template: %w", err)
		}
		ops = append(ops, Set(KeyTemplate, data))
	}
	if changes.PeriodsSet {
		periods := changes.Periods
		if periods == nil {
			periods = []models.Period{}
		}
		data, err := json.Marshal(periods)
		if err != nil {
			return fmt.Errorf("failed to encode periods: %w", err)
		}
		ops = append(ops, Set(KeyPeriods, data))
	}
	if changes.CurrentPeriodID != nil {
		if *changes.CurrentPeriodID == "" {
			ops = append(ops, Delete(KeyCurrentPeriodID))
		} else {
			ops = append(ops, Set(KeyCurrentPeriodID, []byte(*changes.CurrentPeriodID)))
		}
	}
	if err := a.kv.Apply(ctx, ops...); err != nil {
		return fmt.Errorf("failed to persist %v: %w", changes.Keys(), err)
	}
	return nil
}

// ClearAll removes every key owned by the adapter.
func (a *JSONAdapter) ClearAll(ctx context.Context) error {
	ops := make([]Op, len(AllKeys))
	for i, key := range AllKeys {
		ops[i] = Delete(key)
	}
	if err := a.kv.Apply(ctx, ops...); err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	return nil
}

// ExportData reads all keys and encodes them as a snapshot. A missing
// template is exported as null.
func (a *JSONAdapter) ExportData(ctx context.Context) ([]byte, error) {
	tpl, err := a.GetTemplate(ctx)
	if err != nil {
		return nil, err
	}
	periods, err := a.GetPeriods(ctx)
	if err != nil {
		return nil, err
	}
	current, err := a.GetCurrentPeriodID(ctx)
	if err != nil {
		return nil, err
	}

	if tpl != nil {
		return MarshalSnapshot(Snapshot{Template: *tpl, Periods: periods, CurrentPeriodID: current}, a.now())
	}

	w := snapshotJSON{
		Periods:    periods,
		ExportedAt: a.now().UTC().Format(time.RFC3339Nano),
		Version:    SnapshotVersion,
	}
	if current != "" {
		w.CurrentPeriodID = &current
	}
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// ImportData parses and validates a snapshot payload.
func (a *JSONAdapter) ImportData(data []byte) (*Snapshot, error) {
	return UnmarshalSnapshot(data)
}
