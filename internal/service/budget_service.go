// Package service holds the budget store: the in-memory template,
// periods and current selection, kept in sync with a storage.Adapter.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/budgetkeeper/internal/calculator"
	"github.com/mmynk/budgetkeeper/internal/metrics"
	"github.com/mmynk/budgetkeeper/internal/models"
	"github.com/mmynk/budgetkeeper/internal/storage"
)

// BudgetService owns the budget state. Every mutation is applied in
// memory first and then written through the adapter. Write failures are
// logged and counted but never surface to the caller.
type BudgetService struct {
	mu      sync.Mutex
	adapter storage.Adapter
	state   state

	now     func() time.Time
	newID   func() string
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// Option configures a BudgetService.
type Option func(*BudgetService)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *BudgetService) { s.now = now }
}

// WithIDGenerator overrides uuid.NewString.
func WithIDGenerator(newID func() string) Option {
	return func(s *BudgetService) { s.newID = newID }
}

// WithMetrics records operations and persistence on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(s *BudgetService) { s.metrics = r }
}

// WithLogger replaces slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *BudgetService) { s.logger = l }
}

// NewBudgetService loads the persisted state through adapter. When
// nothing is stored, or the adapter is unavailable, it starts from an
// empty template. A stored current period id that matches no period is
// dropped.
func NewBudgetService(ctx context.Context, adapter storage.Adapter, opts ...Option) (*BudgetService, error) {
	s := &BudgetService{
		adapter: adapter,
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	st, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}
	s.state = st
	s.metrics.State(len(st.periods), len(st.template.Items))

	s.logger.Info("Budget loaded",
		"storage_available", adapter.Available(),
		"template_items", len(st.template.Items),
		"periods", len(st.periods),
		"current_period_id", st.currentPeriodID,
	)
	return s, nil
}

func (s *BudgetService) load(ctx context.Context) (state, error) {
	st := state{
		template: models.NewTemplate(s.newID(), s.now().UTC()),
		periods:  []models.Period{},
	}
	if !s.adapter.Available() {
		s.logger.Warn("Storage unavailable, changes will not be persisted")
		return st, nil
	}

	tpl, err := s.adapter.GetTemplate(ctx)
	if err != nil {
		return state{}, err
	}
	if tpl != nil {
		st.template = tpl.Clone()
	}
	if st.periods, err = s.adapter.GetPeriods(ctx); err != nil {
		return state{}, err
	}
	current, err := s.adapter.GetCurrentPeriodID(ctx)
	if err != nil {
		return state{}, err
	}
	st.currentPeriodID = s.resolveCurrent(st.periods, current)
	return st, nil
}

// resolveCurrent returns id if it names one of periods, otherwise "".
func (s *BudgetService) resolveCurrent(periods []models.Period, id string) string {
	if id == "" || models.IndexOfPeriod(periods, id) >= 0 {
		return id
	}
	s.logger.Warn("Dropping unknown current period", "period_id", id)
	return ""
}

func (s *BudgetService) env() env {
	return env{now: s.now().UTC(), newID: s.newID}
}

// mutate runs fn against a copy of the state. On success the copy
// replaces the state and the dirty keys are persisted in one batch. On
// failure nothing changes.
func (s *BudgetService) mutate(ctx context.Context, op string, fn func(st *state, e env) (dirty, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	d, err := fn(&next, s.env())
	if err != nil {
		s.metrics.Operation(op, resultOf(err))
		s.logger.Warn("Operation rejected", "operation", op, "error", err)
		return err
	}

	s.state = next
	s.metrics.Operation(op, metrics.ResultOK)
	s.metrics.State(len(next.periods), len(next.template.Items))
	s.persist(ctx, op, next.changes(d))
	return nil
}

func (s *BudgetService) persist(ctx context.Context, op string, changes storage.Changes) {
	if changes.Empty() || !s.adapter.Available() {
		return
	}
	start := time.Now()
	err := s.adapter.SaveChanges(ctx, changes)
	s.metrics.Persist(time.Since(start), err)
	if err != nil {
		s.logger.Error("Failed to persist budget",
			"operation", op,
			"keys", changes.Keys(),
			"error", err,
		)
	}
}

// resultOf maps a rejected transition to a metrics result. Transitions
// only fail on lookups or invalid input.
func resultOf(err error) string {
	if errors.Is(err, ErrNotFound) {
		return metrics.ResultNotFound
	}
	return metrics.ResultInvalid
}

// UpdateTemplate replaces the template. An empty ID or zero CreatedAt
// keeps the current value. UpdatedAt is always refreshed.
func (s *BudgetService) UpdateTemplate(ctx context.Context, tpl models.Template) error {
	err := s.mutate(ctx, "update_template", func(st *state, e env) (dirty, error) {
		return st.replaceTemplate(e, tpl)
	})
	if err == nil {
		s.logger.Info("Template replaced", "name", tpl.Name, "items", len(tpl.Items))
	}
	return err
}

// RenameTemplate changes the template's display name.
func (s *BudgetService) RenameTemplate(ctx context.Context, name string) error {
	err := s.mutate(ctx, "rename_template", func(st *state, e env) (dirty, error) {
		return st.renameTemplate(e, name)
	})
	if err == nil {
		s.logger.Info("Template renamed", "name", name)
	}
	return err
}

// AddTemplateItem appends an item to the template and returns its id.
func (s *BudgetService) AddTemplateItem(ctx context.Context, item models.NewItem) (string, error) {
	ids, err := s.AddTemplateItems(ctx, []models.NewItem{item})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// AddTemplateItems appends several items at once. Either all of them are
// added or none.
func (s *BudgetService) AddTemplateItems(ctx context.Context, items []models.NewItem) ([]string, error) {
	var ids []string
	err := s.mutate(ctx, "add_template_items", func(st *state, e env) (d dirty, err error) {
		ids, d, err = st.addTemplateItems(e, items)
		return d, err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Template items added", "count", len(ids))
	return ids, nil
}

// UpdateTemplateItem merges u into the template item with the given id.
func (s *BudgetService) UpdateTemplateItem(ctx context.Context, id string, u models.ItemUpdate) error {
	return s.mutate(ctx, "update_template_item", func(st *state, e env) (dirty, error) {
		return st.updateTemplateItem(e, id, u)
	})
}

// DeleteTemplateItem removes an item from the template. Existing periods
// keep their own copies.
func (s *BudgetService) DeleteTemplateItem(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete_template_item", func(st *state, e env) (dirty, error) {
		return st.deleteTemplateItem(e, id)
	})
}

// CreatePeriod snapshots the template into a new period, makes it the
// current period and returns its id. Copied items get fresh ids and
// start unpaid.
func (s *BudgetService) CreatePeriod(ctx context.Context, name string, start, end models.Date) (string, error) {
	var id string
	err := s.mutate(ctx, "create_period", func(st *state, e env) (d dirty, err error) {
		id, d, err = st.createPeriod(e, name, start, end)
		return d, err
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("Period created", "period_id", id, "name", name, "start", start, "end", end)
	return id, nil
}

// UpdatePeriod changes the name and dates of a period.
func (s *BudgetService) UpdatePeriod(ctx context.Context, id, name string, start, end models.Date) error {
	return s.mutate(ctx, "update_period", func(st *state, e env) (dirty, error) {
		return st.updatePeriod(e, id, name, start, end)
	})
}

// DeletePeriod removes a period. Deleting the current period clears the
// selection.
func (s *BudgetService) DeletePeriod(ctx context.Context, id string) error {
	err := s.mutate(ctx, "delete_period", func(st *state, _ env) (dirty, error) {
		return st.deletePeriod(id)
	})
	if err == nil {
		s.logger.Info("Period deleted", "period_id", id)
	}
	return err
}

// SetCurrentPeriod selects a period. An empty id clears the selection.
func (s *BudgetService) SetCurrentPeriod(ctx context.Context, id string) error {
	return s.mutate(ctx, "set_current_period", func(st *state, _ env) (dirty, error) {
		return st.setCurrentPeriod(id)
	})
}

// AddPeriodItem appends a one-off item to a period and returns its id.
func (s *BudgetService) AddPeriodItem(ctx context.Context, periodID string, item models.NewItem) (string, error) {
	var ids []string
	err := s.mutate(ctx, "add_period_item", func(st *state, e env) (d dirty, err error) {
		ids, d, err = st.addPeriodItems(e, periodID, []models.NewItem{item})
		return d, err
	})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// AddTemplateItemsToPeriod copies the selected template items into a
// period with fresh ids and paid cleared. Unknown template ids fail the
// whole call.
func (s *BudgetService) AddTemplateItemsToPeriod(ctx context.Context, periodID string, templateItemIDs []string) ([]string, error) {
	var ids []string
	err := s.mutate(ctx, "add_template_items_to_period", func(st *state, e env) (d dirty, err error) {
		ids, d, err = st.pickTemplateItems(e, periodID, templateItemIDs)
		return d, err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Template items copied to period", "period_id", periodID, "count", len(ids))
	return ids, nil
}

// UpdatePeriodItem merges u into one item of a period.
func (s *BudgetService) UpdatePeriodItem(ctx context.Context, periodID, itemID string, u models.ItemUpdate) error {
	return s.mutate(ctx, "update_period_item", func(st *state, e env) (dirty, error) {
		return st.updatePeriodItem(e, periodID, itemID, u)
	})
}

// DeletePeriodItem removes one item from a period.
func (s *BudgetService) DeletePeriodItem(ctx context.Context, periodID, itemID string) error {
	return s.mutate(ctx, "delete_period_item", func(st *state, e env) (dirty, error) {
		return st.deletePeriodItem(e, periodID, itemID)
	})
}

// ToggleItemPaid flips the paid flag of a bill, savings or debt item and
// returns the new value.
func (s *BudgetService) ToggleItemPaid(ctx context.Context, periodID, itemID string) (bool, error) {
	var paid bool
	err := s.mutate(ctx, "toggle_item_paid", func(st *state, e env) (d dirty, err error) {
		paid, d, err = st.toggleItemPaid(e, periodID, itemID)
		return d, err
	})
	return paid, err
}

// Template returns a copy of the template.
func (s *BudgetService) Template() models.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.template.Clone()
}

// Periods returns copies of all periods in creation order.
func (s *BudgetService) Periods() []models.Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.ClonePeriods(s.state.periods)
}

// Period returns a copy of the period with the given id.
func (s *BudgetService) Period(id string) (models.Period, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := models.IndexOfPeriod(s.state.periods, id)
	if i < 0 {
		return models.Period{}, false
	}
	return s.state.periods[i].Clone(), true
}

// CurrentPeriodID returns the selected period id, or "".
func (s *BudgetService) CurrentPeriodID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.currentPeriodID
}

// CurrentPeriod returns the selected period, if any.
func (s *BudgetService) CurrentPeriod() (models.Period, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.state.currentPeriodID
	if id == "" {
		return models.Period{}, false
	}
	i := models.IndexOfPeriod(s.state.periods, id)
	if i < 0 {
		return models.Period{}, false
	}
	return s.state.periods[i].Clone(), true
}

// Summary totals items. It is a shortcut for calculator.CalculateSummary.
func (s *BudgetService) Summary(items []models.Item) calculator.Summary {
	return calculator.CalculateSummary(items)
}

// PeriodSummary totals the items of one period.
func (s *BudgetService) PeriodSummary(id string) (calculator.Summary, error) {
	p, ok := s.Period(id)
	if !ok {
		return calculator.Summary{}, fmt.Errorf("%w: %s", ErrPeriodNotFound, id)
	}
	return calculator.CalculateSummary(p.Items), nil
}

// ExportData encodes the in-memory state as a snapshot. It works the
// same whether or not storage is available.
func (s *BudgetService) ExportData(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	snap := s.state.snapshot()
	s.mu.Unlock()

	data, err := storage.MarshalSnapshot(snap, s.now())
	if err != nil {
		s.metrics.Operation("export_data", metrics.ResultError)
		return nil, err
	}
	s.metrics.Operation("export_data", metrics.ResultOK)
	s.logger.Info("Budget exported", "bytes", len(data), "periods", len(snap.Periods))
	return data, nil
}

// ImportData replaces the whole state with a previously exported
// snapshot. An unusable payload returns *storage.ImportError and leaves
// the state untouched.
func (s *BudgetService) ImportData(ctx context.Context, data []byte) error {
	snap, err := s.adapter.ImportData(data)
	if err != nil {
		s.metrics.Operation("import_data", resultOf(err))
		s.logger.Warn("Operation rejected", "operation", "import_data", "error", err)
		return err
	}

	err = s.mutate(ctx, "import_data", func(st *state, _ env) (dirty, error) {
		*st = state{
			template:        snap.Template.Clone(),
			periods:         models.ClonePeriods(snap.Periods),
			currentPeriodID: s.resolveCurrent(snap.Periods, snap.CurrentPeriodID),
		}
		return dirtyAll, nil
	})
	if err == nil {
		s.logger.Info("Budget imported", "periods", len(snap.Periods), "template_items", len(snap.Template.Items))
	}
	return err
}

// ClearAll wipes persisted data and resets to an empty template. The
// in-memory reset always happens; the returned error reports whether
// storage could be cleared.
func (s *BudgetService) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.env()
	s.state = state{
		template: models.NewTemplate(e.newID(), e.now),
		periods:  []models.Period{},
	}
	s.metrics.State(0, 0)

	if err := s.adapter.ClearAll(ctx); err != nil {
		s.metrics.Operation("clear_all", metrics.ResultError)
		s.logger.Error("Failed to clear storage", "error", err)
		return err
	}
	s.metrics.Operation("clear_all", metrics.ResultOK)
	s.logger.Info("Budget cleared")
	return nil
}
