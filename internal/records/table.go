package records

import (
	"fmt"
	"slices"
)

// Table is an in-memory tabular dataset read from one input file.
// Columns are ordered; cell values are strings, with the empty string
// standing in for a missing value (NULL once it reaches the database).
type Table struct {
	// Name identifies the source file in error messages (e.g. "event.tsv").
	Name string

	Columns []string
	Rows    [][]string

	// Lines maps each row in Rows to its 1-based line number in the
	// source file. Nil for tables built in memory; Line falls back to
	// position-based numbering then.
	Lines []int

	// BadRows records source rows that did not match the header's field
	// count. They are excluded from Rows and fail validation.
	BadRows []RowError
}

// Line returns the source line number of row i.
func (t *Table) Line(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	return slices.Index(t.Columns, name)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Column returns all values of the named column in row order.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%s: missing column %q", t.Name, name)
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// Select returns a new table containing only the named columns, in the
// given order. All requested columns must exist.
func (t *Table) Select(columns []string) (*Table, error) {
	indices := make([]int, len(columns))
	for i, c := range columns {
		idx := t.ColumnIndex(c)
		if idx < 0 {
			return nil, fmt.Errorf("%s: missing column %q", t.Name, c)
		}
		indices[i] = idx
	}

	out := &Table{
		Name:    t.Name,
		Columns: slices.Clone(columns),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		selected := make([]string, len(indices))
		for j, idx := range indices {
			selected[j] = row[idx]
		}
		out.Rows[i] = selected
	}
	return out, nil
}

// Rename changes a column name in place. Missing columns are ignored,
// mirroring how submissions may or may not use the Darwin Core name.
func (t *Table) Rename(old, new string) {
	if idx := t.ColumnIndex(old); idx >= 0 {
		t.Columns[idx] = new
	}
}

// AddColumn appends a column computed per row. The compute function
// receives a row accessor bound to the current row.
func (t *Table) AddColumn(name string, compute func(row RowView) (string, error)) error {
	if t.HasColumn(name) {
		return fmt.Errorf("%s: column %q already exists", t.Name, name)
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		value, err := compute(RowView{table: t, row: t.Rows[i]})
		if err != nil {
			return fmt.Errorf("%s: row %d: %w", t.Name, i+1, err)
		}
		t.Rows[i] = append(t.Rows[i], value)
	}
	return nil
}

// SetColumn overwrites every value of an existing column using the
// compute function, or appends the column if it does not exist yet.
func (t *Table) SetColumn(name string, compute func(row RowView) (string, error)) error {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return t.AddColumn(name, compute)
	}
	for i := range t.Rows {
		value, err := compute(RowView{table: t, row: t.Rows[i]})
		if err != nil {
			return fmt.Errorf("%s: row %d: %w", t.Name, i+1, err)
		}
		t.Rows[i][idx] = value
	}
	return nil
}

// DropColumns removes the named columns. Missing names are ignored.
func (t *Table) DropColumns(names ...string) {
	drop := make(map[int]bool, len(names))
	for _, n := range names {
		if idx := t.ColumnIndex(n); idx >= 0 {
			drop[idx] = true
		}
	}
	if len(drop) == 0 {
		return
	}

	keep := make([]int, 0, len(t.Columns)-len(drop))
	for i := range t.Columns {
		if !drop[i] {
			keep = append(keep, i)
		}
	}

	cols := make([]string, len(keep))
	for i, idx := range keep {
		cols[i] = t.Columns[idx]
	}
	t.Columns = cols

	for r, row := range t.Rows {
		trimmed := make([]string, len(keep))
		for i, idx := range keep {
			trimmed[i] = row[idx]
		}
		t.Rows[r] = trimmed
	}
}

// DedupeBy removes rows whose value in the named column was already
// seen, keeping the first occurrence.
func (t *Table) DedupeBy(column string) error {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return fmt.Errorf("%s: missing column %q", t.Name, column)
	}

	seen := make(map[string]bool, len(t.Rows))
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		if seen[row[idx]] {
			continue
		}
		seen[row[idx]] = true
		kept = append(kept, row)
	}
	t.Rows = kept
	return nil
}

// RowView provides named access to one row's cells.
type RowView struct {
	table *Table
	row   []string
}

// Get returns the value of the named column in this row.
// Returns the empty string for unknown columns.
func (r RowView) Get(name string) string {
	idx := r.table.ColumnIndex(name)
	if idx < 0 || idx >= len(r.row) {
		return ""
	}
	return r.row[idx]
}

// Row returns a RowView for the given row index.
func (t *Table) Row(i int) RowView {
	return RowView{table: t, row: t.Rows[i]}
}
