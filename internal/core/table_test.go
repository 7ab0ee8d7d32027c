package core

import "testing"

func TestNewTable(t *testing.T) {
	table := mustTable(t, []string{"a", "b"}, []string{"1"}, []string{"", "2"})

	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
	for i, row := range table.Rows {
		if len(row) != len(table.Columns) {
			t.Errorf("row %d has %d cells, want %d", i, len(row), len(table.Columns))
		}
	}
	if table.Rows[1]["a"] != Null {
		t.Errorf("empty text should be null, got %+v", table.Rows[1]["a"])
	}
}

func TestRowGet(t *testing.T) {
	table := mustTable(t, []string{"a"}, []string{"x"})

	c, err := table.Rows[0].Get("a")
	if err != nil || c.Value != "x" {
		t.Errorf("Get(a) = %+v, %v", c, err)
	}
	if _, err := table.Rows[0].Get("b"); !IsKind(err, MissingColumn) {
		t.Errorf("Get(b) error = %v, want MissingColumn", err)
	}
}

func TestTableValues(t *testing.T) {
	table := mustTable(t, []string{"country"},
		[]string{"US"}, []string{"UK"}, []string{"US"}, []string{""})

	got, err := table.Values("country")
	if err != nil {
		t.Fatalf("Values() error = %v", err)
	}
	if !equalStrings(got, []string{"US", "UK", ""}) {
		t.Errorf("Values() = %v, want first-seen order", got)
	}
	if _, err := table.Values("region"); !IsKind(err, MissingColumn) {
		t.Errorf("Values(region) error = %v", err)
	}
}

func TestRequireColumns(t *testing.T) {
	table := mustTable(t, []string{"a", "b"})

	if err := table.RequireColumns("a", "", "b"); err != nil {
		t.Errorf("RequireColumns() error = %v", err)
	}
	err := table.RequireColumns("a", "c")
	if !IsKind(err, MissingColumn) {
		t.Errorf("RequireColumns(c) error = %v, want MissingColumn", err)
	}
}

// Three rows with status a, b, a: membership in {a} keeps the first and third.
func TestFilter_KeepsFirstAndThird(t *testing.T) {
	table := mustTable(t, []string{"id", "status"},
		[]string{"1", "a"}, []string{"2", "b"}, []string{"3", "a"})

	got, err := Filter(table, In("status", "a"))
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if ids := column(got, "id"); !equalStrings(ids, []string{"1", "3"}) {
		t.Errorf("ids = %v, want [1 3]", ids)
	}
}
