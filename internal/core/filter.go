package core

import (
	"fmt"
	"strings"
)

// FilterMode selects the predicate a FilterSpec applies.
type FilterMode int

const (
	// FilterNone keeps every row.
	FilterNone FilterMode = iota
	// FilterIn keeps rows whose value is one of Values (exact, case sensitive).
	FilterIn
	// FilterEquals keeps rows whose trimmed value equals the trimmed Value.
	// Null cells compare as empty text.
	FilterEquals
	// FilterPresent keeps rows whose value is non-null and non-empty.
	FilterPresent
)

func (m FilterMode) String() string {
	switch m {
	case FilterIn:
		return "in"
	case FilterEquals:
		return "equals"
	case FilterPresent:
		return "present"
	default:
		return "none"
	}
}

// ParseFilterMode parses the transport representation of a FilterMode.
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return FilterNone, nil
	case "in":
		return FilterIn, nil
	case "equals", "eq":
		return FilterEquals, nil
	case "present":
		return FilterPresent, nil
	default:
		return FilterNone, fmt.Errorf("invalid filter mode %q (want in, equals, present or none)", s)
	}
}

// FilterSpec is a declarative row-selection rule. The zero value keeps all rows.
type FilterSpec struct {
	Mode   FilterMode
	Column string
	Values []string // FilterIn
	Value  string   // FilterEquals
}

// In returns a set-membership filter.
func In(column string, values ...string) FilterSpec {
	return FilterSpec{Mode: FilterIn, Column: column, Values: values}
}

// Equals returns an exact-value filter.
func Equals(column, value string) FilterSpec {
	return FilterSpec{Mode: FilterEquals, Column: column, Value: value}
}

// Present returns a presence filter.
func Present(column string) FilterSpec {
	return FilterSpec{Mode: FilterPresent, Column: column}
}

func (s FilterSpec) String() string {
	switch s.Mode {
	case FilterIn:
		return fmt.Sprintf("%s in %v", s.Column, s.Values)
	case FilterEquals:
		return fmt.Sprintf("%s == %q", s.Column, s.Value)
	case FilterPresent:
		return fmt.Sprintf("%s present", s.Column)
	default:
		return "all rows"
	}
}

// predicate compiles s into a row test.
func (s FilterSpec) predicate() func(Cell) bool {
	switch s.Mode {
	case FilterIn:
		set := make(map[string]bool, len(s.Values))
		for _, v := range s.Values {
			set[v] = true
		}
		return func(c Cell) bool {
			return c.Valid && set[c.Value]
		}
	case FilterEquals:
		want := strings.TrimSpace(s.Value)
		return func(c Cell) bool {
			return strings.TrimSpace(c.String()) == want
		}
	case FilterPresent:
		return func(c Cell) bool {
			return c.Valid && c.Value != ""
		}
	default:
		return func(Cell) bool { return true }
	}
}

// Filter returns a new table holding the rows of t that satisfy spec, in
// their original order. It fails with MissingColumn if spec names a column
// t does not have.
func Filter(t *Table, spec FilterSpec) (*Table, error) {
	if spec.Mode == FilterNone {
		rows := make([]Row, len(t.Rows))
		copy(rows, t.Rows)
		return t.withRows(rows), nil
	}

	if !t.HasColumn(spec.Column) {
		return nil, MissingColumnError(spec.Column)
	}

	keep := spec.predicate()
	rows := make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		if keep(row[spec.Column]) {
			rows = append(rows, row)
		}
	}
	return t.withRows(rows), nil
}
