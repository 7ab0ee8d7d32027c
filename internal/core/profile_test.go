package core

import (
	"errors"
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestBuiltinProfiles(t *testing.T) {
	set := BuiltinProfiles()

	if got := set.Default().Name; got != "rdcman" {
		t.Fatalf("default = %q, want rdcman", got)
	}
	if got := set.Names(); !equalStrings(got, []string{"rdcman", "filtered-csv"}) {
		t.Errorf("Names() = %v", got)
	}
	for _, p := range set.List() {
		if err := p.Validate(); err != nil {
			t.Errorf("builtin %q invalid: %v", p.Name, err)
		}
	}
}

func TestProfileSet_Get(t *testing.T) {
	set := BuiltinProfiles()

	p, err := set.Get("")
	if err != nil || p.Name != "rdcman" {
		t.Fatalf("Get(\"\") = %q, %v", p.Name, err)
	}

	_, err = set.Get("nope")
	if !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("Get(nope) error = %v, want ErrUnknownProfile", err)
	}

	other, err := set.WithDefault("filtered-csv")
	if err != nil {
		t.Fatalf("WithDefault() error = %v", err)
	}
	if other.Default().Name != "filtered-csv" || set.Default().Name != "rdcman" {
		t.Error("WithDefault should return a copy")
	}
	if _, err := set.WithDefault("nope"); !errors.Is(err, ErrUnknownProfile) {
		t.Errorf("WithDefault(nope) error = %v", err)
	}
}

func TestParseProfiles(t *testing.T) {
	set, err := ParseProfiles([]byte(`
default: emea
profiles:
  - name: flat
    output: csv
  - name: emea
    output: manifest
    sheet_index: 0
    header_offset: 2
    group_name: EMEA
    filter:
      mode: equals
      column: Region
      values: [EMEA]
    group_keys: [Country]
    columns:
      display: Host
      address: IP
      identifier: CI
`))
	if err != nil {
		t.Fatalf("ParseProfiles() error = %v", err)
	}

	p := set.Default()
	if p.Name != "emea" || p.HeaderOffset != 2 || p.GroupName != "EMEA" {
		t.Errorf("default profile = %+v", p)
	}
	if p.Columns.Identifier != "CI" || p.Filter.Values[0] != "EMEA" {
		t.Errorf("nested fields not parsed: %+v", p)
	}
}

func TestParseProfiles_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"empty", "profiles: []", "no profiles"},
		{"bad yaml", "profiles: [", "parse profiles"},
		{"duplicate", "profiles:\n  - {name: a, output: csv}\n  - {name: a, output: csv}", "defined twice"},
		{"unknown default", "default: b\nprofiles:\n  - {name: a, output: csv}", "unknown profile"},
		{"filter without column", "profiles:\n  - {name: a, output: csv, filter: {mode: in}}", "filter.column"},
		{"manifest without columns", "profiles:\n  - {name: a, output: manifest}", "columns.display"},
		{"too many keys", "profiles:\n  - {name: a, output: csv, group_keys: [a, b, c, d]}", "group_keys"},
		{"bad output", "profiles:\n  - {name: a, output: pdf}", "invalid output mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfiles([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ParseProfiles() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestProfile_Request(t *testing.T) {
	p, _ := BuiltinProfiles().Get("rdcman")

	req, err := p.Request([]byte("x"), "export.xlsx", Overrides{})
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if req.Kind != KindSpreadsheet || req.Output != OutputManifest {
		t.Errorf("kind/output = %v/%v", req.Kind, req.Output)
	}
	if req.Load.SheetIndex != 1 || req.Load.HeaderOffset != 6 {
		t.Errorf("load = %s", req.Load)
	}
	if req.Labels.GroupName != DefaultGroupName {
		t.Errorf("group name = %q, want %q", req.Labels.GroupName, DefaultGroupName)
	}
	if req.Filter.Mode != FilterIn || len(req.Filter.Values) != 2 {
		t.Errorf("filter = %s", req.Filter)
	}
	if !equalStrings(req.GroupKeys, []string{"Customer", "Country", "Location"}) {
		t.Errorf("group keys = %v", req.GroupKeys)
	}
}

func TestProfile_RequestOverrides(t *testing.T) {
	p, _ := BuiltinProfiles().Get("rdcman")

	req, err := p.Request([]byte("x"), "export.tsv", Overrides{
		GroupName:    "  Lab  ",
		FilterMode:   "equals",
		FilterColumn: "Country",
		FilterValues: []string{"UK"},
		GroupKeys:    []string{},
		SheetIndex:   intPtr(0),
		HeaderOffset: intPtr(0),
		Output:       "csv",
	})
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}

	if req.Labels.GroupName != "Lab" {
		t.Errorf("group name = %q", req.Labels.GroupName)
	}
	if req.Filter.Mode != FilterEquals || req.Filter.Column != "Country" || req.Filter.Value != "UK" {
		t.Errorf("filter = %s", req.Filter)
	}
	if len(req.GroupKeys) != 0 {
		t.Errorf("empty group key override should clear keys, got %v", req.GroupKeys)
	}
	if req.Load.SheetIndex != 0 || req.Load.HeaderOffset != 0 || req.Load.Comma != '\t' {
		t.Errorf("load = %+v", req.Load)
	}
	if req.Output != OutputDelimited {
		t.Errorf("output = %v", req.Output)
	}
}

func TestProfile_RequestErrors(t *testing.T) {
	p, _ := BuiltinProfiles().Get("rdcman")

	tests := []struct {
		name    string
		file    string
		ov      Overrides
		wantErr string
	}{
		{"unsupported file", "notes.pdf", Overrides{}, "unsupported file type"},
		{"bad output", "a.csv", Overrides{Output: "pdf"}, "invalid output mode"},
		{"bad filter mode", "a.csv", Overrides{FilterMode: "like"}, "invalid filter mode"},
		{"equals needs one value", "a.csv", Overrides{FilterMode: "equals", FilterValues: []string{"a", "b"}}, "invalid option"},
		{"negative sheet", "a.csv", Overrides{SheetIndex: intPtr(-1)}, "invalid option"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Request(nil, tt.file, tt.ov)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Request() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
