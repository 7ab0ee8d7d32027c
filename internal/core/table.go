package core

import (
	"fmt"
	"strings"
)

// Cell is a single table value. An invalid cell is null (empty in the source).
// Valid=false means "no value", the way database null types do.
type Cell struct {
	Value string
	Valid bool
}

// Null is the null cell.
var Null = Cell{}

// TextCell builds a cell from raw text. Empty text is null.
func TextCell(s string) Cell {
	if s == "" {
		return Null
	}
	return Cell{Value: s, Valid: true}
}

// String returns the cell text, "" for null.
func (c Cell) String() string {
	if !c.Valid {
		return ""
	}
	return c.Value
}

// Row maps column names to cells. Rows are only ever built by the loader or by
// table operations, so every row carries exactly the table's column set.
type Row map[string]Cell

// Get returns the cell for col, or a MissingColumn error if the row has no
// such column.
func (r Row) Get(col string) (Cell, error) {
	c, ok := r[col]
	if !ok {
		return Null, MissingColumnError(col)
	}
	return c, nil
}

// clone returns a shallow copy of the row.
func (r Row) clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of rows sharing a named-column header.
// Tables are treated as immutable: filtering and unwrapping return new tables.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable creates a table from a header and positional records.
// Records shorter than the header are padded with null cells.
// It returns a ParseError if a record has non-empty values past the header.
func NewTable(columns []string, records [][]string) (*Table, error) {
	t := &Table{
		Columns: columns,
		Rows:    make([]Row, 0, len(records)),
	}
	for i, rec := range records {
		row, err := t.rowFromRecord(rec)
		if err != nil {
			return nil, newError(ParseError, err, "data row %d", i+1)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func (t *Table) rowFromRecord(rec []string) (Row, error) {
	if len(rec) > len(t.Columns) {
		for _, extra := range rec[len(t.Columns):] {
			if strings.TrimSpace(extra) != "" {
				return nil, fmt.Errorf("has %d fields, header has %d", len(rec), len(t.Columns))
			}
		}
	}
	row := make(Row, len(t.Columns))
	for i, col := range t.Columns {
		if i < len(rec) {
			row[col] = TextCell(rec[i])
		} else {
			row[col] = Null
		}
	}
	return row, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether col is in the header.
func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// RequireColumns returns a MissingColumn error for the first column in cols
// that the table does not have. Empty names are ignored.
func (t *Table) RequireColumns(cols ...string) error {
	for _, col := range cols {
		if col == "" {
			continue
		}
		if !t.HasColumn(col) {
			return MissingColumnError(col)
		}
	}
	return nil
}

// Values returns the distinct values of col in first-seen order.
// Null cells are reported as "".
func (t *Table) Values(col string) ([]string, error) {
	if !t.HasColumn(col) {
		return nil, MissingColumnError(col)
	}
	seen := make(map[string]bool)
	var out []string
	for _, row := range t.Rows {
		v := row[col].String()
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}

// Record returns the row's values in header order, null cells as "".
func (t *Table) Record(row Row) []string {
	rec := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		rec[i] = row[col].String()
	}
	return rec
}

// withRows returns a table sharing t's header with the given rows.
func (t *Table) withRows(rows []Row) *Table {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	return &Table{Columns: cols, Rows: rows}
}

// normalizeHeader applies the header policy: blank names become
// "Unnamed: <index>" and repeated names get ".1", ".2", ... suffixes in order
// of appearance.
func normalizeHeader(raw []string) []string {
	out := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	for i, h := range raw {
		name := h
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := name
		for n := 1; used[candidate]; n++ {
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}

// isBlankRecord reports whether every field in rec is empty or whitespace.
func isBlankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
