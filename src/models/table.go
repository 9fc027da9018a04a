package models

// Table is a small column-oriented holder for tabular collaborator output,
// e.g. the discount-curve rate table. Cells are whatever the upstream
// component produced (floats, dates as strings); the encoder serializes the
// whole table to a JSON string rather than expanding it in place.
type Table struct {
	Columns []string
	Rows    [][]interface{}
}

func (t Table) Tree() map[string]interface{} {
	cols := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = c
	}

	rows := make([]interface{}, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]interface{}, len(row))
		copy(cells, row)
		rows[i] = cells
	}

	return map[string]interface{}{
		"columns": cols,
		"rows":    rows,
	}
}
