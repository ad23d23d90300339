package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/budgetkeeper/internal/models"
	"github.com/mmynk/budgetkeeper/internal/storage"
)

func testEnv() env {
	n := 0
	return env{
		now: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
		newID: func() string {
			n++
			return "gen-" + string(rune('a'+n-1))
		},
	}
}

func TestTransitionsWorkOnClones(t *testing.T) {
	e := testEnv()
	base := state{template: models.NewTemplate("t", e.now), periods: []models.Period{}}
	_, _, err := base.addTemplateItems(e, []models.NewItem{{
		Name: "Rent", Amount: decimal.NewFromInt(400), Category: models.CategoryBills,
	}})
	require.NoError(t, err)

	next := base.clone()
	id, d, err := next.createPeriod(e, "August", models.NewDate(2024, 8, 1), models.NewDate(2024, 8, 15))
	require.NoError(t, err)
	assert.Equal(t, dirtyPeriods|dirtyCurrent, d)

	_, _, err = next.toggleItemPaid(e, id, next.periods[0].Items[0].ID)
	require.NoError(t, err)

	assert.Empty(t, base.periods)
	assert.Empty(t, base.currentPeriodID)
	paid, _ := next.periods[0].Items[0].Paid()
	assert.True(t, paid)
}

func TestChangesFollowDirtyBits(t *testing.T) {
	st := state{template: models.NewTemplate("t", time.Now()), currentPeriodID: "p"}

	tests := []struct {
		name string
		d    dirty
		want []string
	}{
		{name: "none", d: 0, want: nil},
		{name: "template", d: dirtyTemplate, want: []string{storage.KeyTemplate}},
		{name: "periods and current", d: dirtyPeriods | dirtyCurrent, want: []string{storage.KeyPeriods, storage.KeyCurrentPeriodID}},
		{name: "all", d: dirtyAll, want: []string{storage.KeyTemplate, storage.KeyPeriods, storage.KeyCurrentPeriodID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, st.changes(tt.d).Keys())
		})
	}
}
