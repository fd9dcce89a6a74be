package storage

// Table is an in-memory snapshot of one CSV-backed store: a header row
// plus zero or more data rows. Rows are kept as raw strings in file
// order; interpretation of the columns belongs to the callers.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable returns an empty table with the given column header.
func NewTable(columns []string) *Table {
	return &Table{
		Columns: append([]string(nil), columns...),
		Rows:    [][]string{},
	}
}

// Append adds a data row to the end of the table.
func (t *Table) Append(row []string) {
	t.Rows = append(t.Rows, row)
}

// Len returns the number of data rows, excluding the header.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1 when the
// table has no such column.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}
