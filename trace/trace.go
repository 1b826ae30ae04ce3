// Package trace defines the minimal view every iteration record exposes,
// so a client can render the table of any method without knowing which
// method produced it.
package trace

// Column is one named cell of a trace row.
type Column struct {
	Name  string
	Value float64
}

// Record is one iteration step. Iter is 1-based.
type Record interface {
	Iter() int
	Err() float64
	Columns() []Column
}

// Row is a flattened record keyed by column name, with the iteration index
// under "iter" and the error magnitude under "error".
type Row map[string]any

// Formatter converts a cell value for display. A nil Formatter keeps the
// raw float64.
type Formatter func(float64) float64

// Table renders records in order. Rows are never reordered.
func Table[R Record](records []R, format Formatter) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row := Row{"iter": r.Iter()}
		for _, c := range r.Columns() {
			row[c.Name] = apply(format, c.Value)
		}
		row["error"] = apply(format, r.Err())
		rows = append(rows, row)
	}
	return rows
}

// Header returns the column names of a record in display order.
func Header(r Record) []string {
	cols := r.Columns()
	names := make([]string, 0, len(cols)+2)
	names = append(names, "iter")
	for _, c := range cols {
		names = append(names, c.Name)
	}
	return append(names, "error")
}

// Last returns the final record, or false for an empty trace.
func Last[R Record](records []R) (R, bool) {
	var zero R
	if len(records) == 0 {
		return zero, false
	}
	return records[len(records)-1], true
}

func apply(format Formatter, v float64) float64 {
	if format == nil {
		return v
	}
	return format(v)
}
