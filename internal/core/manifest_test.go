package core

import "testing"

var testColumns = ColumnMap{
	Display:    "FQDN",
	Address:    "IP Address",
	Identifier: "Configuration Item Name",
	SecretURL:  DefaultSecretURLColumn,
}

func assetTable(t *testing.T) *Table {
	t.Helper()
	return mustTable(t,
		[]string{"Customer", "Country", "Location", "FQDN", "IP Address", "Configuration Item Name", DefaultSecretURLColumn},
		[]string{"Acme", "US", "NYC", "a.acme.local", "10.0.0.1", "CI-1", "https://vault/1"},
		[]string{"Acme", "UK", "LON", "c.acme.local", "10.0.0.3", "CI-3", ""},
		[]string{"Acme", "US", "BOS", "b.acme.local", "10.0.0.2", "CI-2", ""},
	)
}

func names(nodes []*ManifestNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestBuildManifest_Grouping(t *testing.T) {
	root, err := BuildManifest(assetTable(t), "Servers", []string{"Customer", "Country"}, testColumns)
	if err != nil {
		t.Fatalf("BuildManifest() error = %v", err)
	}

	if root.Name != "Servers" || !root.Expanded {
		t.Errorf("root = %q expanded=%v", root.Name, root.Expanded)
	}
	customers := root.Groups()
	if got := names(customers); !equalStrings(got, []string{"Acme"}) {
		t.Fatalf("customers = %v, want [Acme]", got)
	}

	countries := customers[0].Groups()
	if got := names(countries); !equalStrings(got, []string{"US", "UK"}) {
		t.Fatalf("countries = %v, want [US UK] in first-seen order", got)
	}
	if got := names(countries[0].Entries()); !equalStrings(got, []string{"a.acme.local", "b.acme.local"}) {
		t.Errorf("US entries = %v", got)
	}
	if got := len(countries[1].Entries()); got != 1 {
		t.Errorf("UK entries = %d, want 1", got)
	}
	if root.CountEntries() != 3 {
		t.Errorf("CountEntries() = %d, want 3", root.CountEntries())
	}
}

func TestBuildManifest_EntryFields(t *testing.T) {
	root, err := BuildManifest(assetTable(t), "Servers", nil, testColumns)
	if err != nil {
		t.Fatalf("BuildManifest() error = %v", err)
	}

	entries := root.Entries()
	if len(entries) != 3 || len(root.Groups()) != 0 {
		t.Fatalf("without keys entries sit under the root, got %d entries %d groups", len(entries), len(root.Groups()))
	}

	first := entries[0]
	if first.Address != "10.0.0.1" {
		t.Errorf("address = %q", first.Address)
	}
	if want := "Configuration Item :CI-1\nSS URL:https://vault/1"; first.Comment != want {
		t.Errorf("comment = %q, want %q", first.Comment, want)
	}
	if want := "Configuration Item :CI-3\nSS URL:" + URLNotAvailable; entries[1].Comment != want {
		t.Errorf("comment = %q, want %q", entries[1].Comment, want)
	}
}

func TestBuildManifest_NoSecretColumn(t *testing.T) {
	table := mustTable(t, []string{"FQDN", "IP Address", "Configuration Item Name"},
		[]string{"a", "10.0.0.1", "CI-1"})

	root, err := BuildManifest(table, "Servers", nil, testColumns)
	if err != nil {
		t.Fatalf("BuildManifest() error = %v", err)
	}
	if want := "Configuration Item :CI-1\nSS URL:" + URLNotAvailable; root.Entries()[0].Comment != want {
		t.Errorf("comment = %q, want %q", root.Entries()[0].Comment, want)
	}
}

func TestBuildManifest_Errors(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		cols ColumnMap
		want ErrorKind
	}{
		{"too many keys", []string{"Customer", "Country", "Location", "FQDN"}, testColumns, StructuralError},
		{"missing key", []string{"Region"}, testColumns, MissingColumn},
		{"missing display", nil, ColumnMap{Display: "Host", Address: "IP Address", Identifier: "Configuration Item Name"}, MissingColumn},
		{"unconfigured columns", nil, ColumnMap{}, StructuralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildManifest(assetTable(t), "Servers", tt.keys, tt.cols)
			if !IsKind(err, tt.want) {
				t.Errorf("error = %v, want kind %q", err, tt.want)
			}
		})
	}
}

func TestBuildManifest_NullKeyGroupsTogether(t *testing.T) {
	table := mustTable(t, []string{"Customer", "FQDN", "IP Address", "Configuration Item Name"},
		[]string{"", "a", "1", "CI-1"},
		[]string{"Acme", "b", "2", "CI-2"},
		[]string{"", "c", "3", "CI-3"},
	)

	root, err := BuildManifest(table, "Servers", []string{"Customer"}, testColumns)
	if err != nil {
		t.Fatalf("BuildManifest() error = %v", err)
	}
	groups := root.Groups()
	if len(groups) != 2 || len(groups[0].Entries()) != 2 {
		t.Errorf("groups = %v", names(groups))
	}
}
