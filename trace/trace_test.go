package trace_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/njchilds90/gonumerics/trace"
)

type step struct {
	i    int
	x, e float64
}

func (s step) Iter() int    { return s.i }
func (s step) Err() float64 { return s.e }
func (s step) Columns() []trace.Column {
	return []trace.Column{{Name: "x", Value: s.x}, {Name: "x2", Value: s.x * s.x}}
}

func TestTable(t *testing.T) {
	records := []step{{1, 1.5, 0.5}, {2, 1.25, 0.25}, {3, 1.375, 0.125}}

	rows := trace.Table(records, nil)
	assert.Len(t, rows, 3)
	for i, r := range rows {
		assert.Equal(t, i+1, r["iter"])
	}
	assert.Equal(t, trace.Row{"iter": 2, "x": 1.25, "x2": 1.5625, "error": 0.25}, rows[1])

	floor := func(v float64) float64 { return math.Floor(v) }
	rows = trace.Table(records, floor)
	assert.Equal(t, trace.Row{"iter": 2, "x": 1.0, "x2": 1.0, "error": 0.0}, rows[1])
}

func TestTable_Empty(t *testing.T) {
	rows := trace.Table([]step(nil), nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestHeader(t *testing.T) {
	assert.Equal(t, []string{"iter", "x", "x2", "error"}, trace.Header(step{}))
}

func TestLast(t *testing.T) {
	_, ok := trace.Last([]trace.Record(nil))
	assert.False(t, ok)

	last, ok := trace.Last([]trace.Record{step{i: 1}, step{i: 2}})
	assert.True(t, ok)
	assert.Equal(t, 2, last.Iter())
}
