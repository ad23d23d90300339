package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/budgetkeeper/internal/models"
	"github.com/mmynk/budgetkeeper/internal/storage"
)

// dirty is a bit set of the persisted keys a transition touched.
type dirty uint8

const (
	dirtyTemplate dirty = 1 << iota
	dirtyPeriods
	dirtyCurrent

	dirtyAll = dirtyTemplate | dirtyPeriods | dirtyCurrent
)

// env carries the non-deterministic inputs of a transition.
type env struct {
	now   time.Time
	newID func() string
}

// state is the whole in-memory budget. Transitions mutate a clone and
// report which keys changed; the service swaps the clone in afterwards.
type state struct {
	template        models.Template
	periods         []models.Period
	currentPeriodID string
}

func (s state) clone() state {
	return state{
		template:        s.template.Clone(),
		periods:         models.ClonePeriods(s.periods),
		currentPeriodID: s.currentPeriodID,
	}
}

func (s state) snapshot() storage.Snapshot {
	return storage.Snapshot{
		Template:        s.template.Clone(),
		Periods:         models.ClonePeriods(s.periods),
		CurrentPeriodID: s.currentPeriodID,
	}
}

// changes selects the parts of s named by d for persistence.
func (s state) changes(d dirty) storage.Changes {
	var c storage.Changes
	if d&dirtyTemplate != 0 {
		c = c.WithTemplate(s.template.Clone())
	}
	if d&dirtyPeriods != 0 {
		c = c.WithPeriods(models.ClonePeriods(s.periods))
	}
	if d&dirtyCurrent != 0 {
		c = c.WithCurrentPeriodID(s.currentPeriodID)
	}
	return c
}

func (s *state) period(id string) (*models.Period, error) {
	i := models.IndexOfPeriod(s.periods, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrPeriodNotFound, id)
	}
	return &s.periods[i], nil
}

func itemIndex(items []models.Item, id string) (int, error) {
	i := models.IndexOfItem(items, id)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return i, nil
}

// newItems validates every input before assigning ids, so a bad entry
// leaves nothing half-added.
func newItems(e env, inputs []models.NewItem) ([]models.Item, error) {
	for i, in := range inputs {
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("item %d (%s): %w", i, in.Name, err)
		}
	}
	items := make([]models.Item, len(inputs))
	for i, in := range inputs {
		items[i] = in.WithID(e.newID())
	}
	return items, nil
}

// copyForPeriod returns a fresh, unpaid copy of a template item.
func copyForPeriod(e env, it models.Item) models.Item {
	out := it.Clone()
	out.ID = e.newID()
	out, _ = out.WithPaid(false)
	return out
}

func (s *state) replaceTemplate(e env, tpl models.Template) (dirty, error) {
	seen := make(map[string]bool, len(tpl.Items))
	for _, it := range tpl.Items {
		if err := it.Validate(); err != nil {
			return 0, fmt.Errorf("template item %q: %w", it.ID, err)
		}
		if seen[it.ID] {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateItemID, it.ID)
		}
		seen[it.ID] = true
	}
	tpl = tpl.Clone()
	if tpl.ID == "" {
		tpl.ID = s.template.ID
	}
	if tpl.CreatedAt.IsZero() {
		tpl.CreatedAt = s.template.CreatedAt
	}
	tpl.UpdatedAt = e.now
	s.template = tpl
	return dirtyTemplate, nil
}

func (s *state) renameTemplate(e env, name string) (dirty, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, models.ErrEmptyName
	}
	s.template.Name = name
	s.template.UpdatedAt = e.now
	return dirtyTemplate, nil
}

func (s *state) addTemplateItems(e env, inputs []models.NewItem) ([]string, dirty, error) {
	items, err := newItems(e, inputs)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	s.template.Items = append(s.template.Items, items...)
	s.template.UpdatedAt = e.now
	return ids, dirtyTemplate, nil
}

func (s *state) updateTemplateItem(e env, id string, u models.ItemUpdate) (dirty, error) {
	i, err := itemIndex(s.template.Items, id)
	if err != nil {
		return 0, err
	}
	updated := s.template.Items[i].ApplyUpdate(u)
	if err := updated.Validate(); err != nil {
		return 0, err
	}
	s.template.Items[i] = updated
	s.template.UpdatedAt = e.now
	return dirtyTemplate, nil
}

func (s *state) deleteTemplateItem(e env, id string) (dirty, error) {
	i, err := itemIndex(s.template.Items, id)
	if err != nil {
		return 0, err
	}
	s.template.Items = append(s.template.Items[:i], s.template.Items[i+1:]...)
	s.template.UpdatedAt = e.now
	return dirtyTemplate, nil
}

// createPeriod seeds a period from the template and selects it.
func (s *state) createPeriod(e env, name string, start, end models.Date) (string, dirty, error) {
	if strings.TrimSpace(name) == "" {
		return "", 0, models.ErrEmptyName
	}
	if err := models.ValidateRange(start, end); err != nil {
		return "", 0, err
	}
	items := make([]models.Item, len(s.template.Items))
	for i, it := range s.template.Items {
		items[i] = copyForPeriod(e, it)
	}
	p := models.Period{
		ID:        e.newID(),
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Items:     items,
		CreatedAt: e.now,
		UpdatedAt: e.now,
	}
	s.periods = append(s.periods, p)
	s.currentPeriodID = p.ID
	return p.ID, dirtyPeriods | dirtyCurrent, nil
}

func (s *state) updatePeriod(e env, id, name string, start, end models.Date) (dirty, error) {
	p, err := s.period(id)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(name) == "" {
		return 0, models.ErrEmptyName
	}
	if err := models.ValidateRange(start, end); err != nil {
		return 0, err
	}
	p.Name = name
	p.StartDate = start
	p.EndDate = end
	p.UpdatedAt = e.now
	return dirtyPeriods, nil
}

func (s *state) deletePeriod(id string) (dirty, error) {
	i := models.IndexOfPeriod(s.periods, id)
	if i < 0 {
		return 0, fmt.Errorf("%w: %s", ErrPeriodNotFound, id)
	}
	s.periods = append(s.periods[:i], s.periods[i+1:]...)
	if s.currentPeriodID != id {
		return dirtyPeriods, nil
	}
	s.currentPeriodID = ""
	return dirtyPeriods | dirtyCurrent, nil
}

// setCurrentPeriod selects id. An empty id clears the selection.
func (s *state) setCurrentPeriod(id string) (dirty, error) {
	if id != "" {
		if _, err := s.period(id); err != nil {
			return 0, err
		}
	}
	s.currentPeriodID = id
	return dirtyCurrent, nil
}

func (s *state) addPeriodItems(e env, periodID string, inputs []models.NewItem) ([]string, dirty, error) {
	p, err := s.period(periodID)
	if err != nil {
		return nil, 0, err
	}
	items, err := newItems(e, inputs)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	p.Items = append(p.Items, items...)
	p.UpdatedAt = e.now
	return ids, dirtyPeriods, nil
}

// pickTemplateItems copies the chosen template items into a period.
func (s *state) pickTemplateItems(e env, periodID string, templateItemIDs []string) ([]string, dirty, error) {
	p, err := s.period(periodID)
	if err != nil {
		return nil, 0, err
	}
	picked := make([]models.Item, 0, len(templateItemIDs))
	for _, id := range templateItemIDs {
		i, err := itemIndex(s.template.Items, id)
		if err != nil {
			return nil, 0, fmt.Errorf("template %w", err)
		}
		picked = append(picked, copyForPeriod(e, s.template.Items[i]))
	}
	ids := make([]string, len(picked))
	for i, it := range picked {
		ids[i] = it.ID
	}
	p.Items = append(p.Items, picked...)
	p.UpdatedAt = e.now
	return ids, dirtyPeriods, nil
}

func (s *state) updatePeriodItem(e env, periodID, itemID string, u models.ItemUpdate) (dirty, error) {
	p, err := s.period(periodID)
	if err != nil {
		return 0, err
	}
	i, err := itemIndex(p.Items, itemID)
	if err != nil {
		return 0, err
	}
	updated := p.Items[i].ApplyUpdate(u)
	if err := updated.Validate(); err != nil {
		return 0, err
	}
	p.Items[i] = updated
	p.UpdatedAt = e.now
	return dirtyPeriods, nil
}

func (s *state) deletePeriodItem(e env, periodID, itemID string) (dirty, error) {
	p, err := s.period(periodID)
	if err != nil {
		return 0, err
	}
	i, err := itemIndex(p.Items, itemID)
	if err != nil {
		return 0, err
	}
	p.Items = append(p.Items[:i], p.Items[i+1:]...)
	p.UpdatedAt = e.now
	return dirtyPeriods, nil
}

func (s *state) toggleItemPaid(e env, periodID, itemID string) (bool, dirty, error) {
	p, err := s.period(periodID)
	if err != nil {
		return false, 0, err
	}
	i, err := itemIndex(p.Items, itemID)
	if err != nil {
		return false, 0, err
	}
	paid, ok := p.Items[i].Paid()
	if !ok {
		return false, 0, fmt.Errorf("%w: %s is %s", ErrNotPayable, itemID, p.Items[i].Category)
	}
	p.Items[i], _ = p.Items[i].WithPaid(!paid)
	p.UpdatedAt = e.now
	return !paid, dirtyPeriods, nil
}
