package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	r.Operation("create_period", ResultOK)
	r.Operation("create_period", ResultOK)
	r.Operation("delete_period", ResultNotFound)
	r.Persist(time.Millisecond, nil)
	r.Persist(time.Millisecond, errors.New("disk full"))
	r.State(3, 7)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.operations.WithLabelValues("create_period", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.operations.WithLabelValues("delete_period", ResultNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.persistErrors))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.periods))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.templateItems))
}

func TestRecordersDoNotCollide(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.Operation("x", ResultOK)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.operations.WithLabelValues("x", ResultOK)))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Operation("clear_all", ResultOK)

	path := filepath.Join(t.TempDir(), "budget.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `budget_store_operations_total{operation="clear_all",result="ok"} 1`)
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Operation("x", ResultOK)
		r.Persist(time.Second, errors.New("boom"))
		r.State(1, 1)
	})
	assert.Nil(t, r.Registry())

	path := filepath.Join(t.TempDir(), "budget.prom")
	assert.NoError(t, r.WriteTextfile(path))
	assert.NoFileExists(t, path)
}
