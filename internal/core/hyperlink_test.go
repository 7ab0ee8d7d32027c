package core

import "testing"

func TestUnwrapHyperlink(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"formula", `=HYPERLINK("https://x/y","label")`, "https://x/y"},
		{"label after space", `=HYPERLINK("https://x/y", "label")`, "https://x/y"},
		{"label with parens", `=HYPERLINK("https://x/y","open (vault)")`, "https://x/y"},
		{"no label", `=HYPERLINK("https://vault/secret?id=7")`, "https://vault/secret?id=7"},
		{"plain url", "https://x/y", "https://x/y"},
		{"empty", "", ""},
		{"lowercase formula untouched", `=hyperlink("https://x/y","label")`, `=hyperlink("https://x/y","label")`},
		{"unquoted argument untouched", `=HYPERLINK(A1,"label")`, `=HYPERLINK(A1,"label")`},
		{"unterminated untouched", `=HYPERLINK("https://x/y`, `=HYPERLINK("https://x/y`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnwrapHyperlink(tt.in)
			if got != tt.want {
				t.Errorf("UnwrapHyperlink(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := UnwrapHyperlink(got); again != got {
				t.Errorf("UnwrapHyperlink is not idempotent: %q then %q", got, again)
			}
		})
	}
}

func TestUnwrapHyperlinks(t *testing.T) {
	table := mustTable(t, []string{"FQDN", DefaultSecretURLColumn},
		[]string{"a", `=HYPERLINK("https://x/y","label")`},
		[]string{"b", "https://plain"},
		[]string{"c", ""},
	)

	once := UnwrapHyperlinks(table, DefaultSecretURLColumn)
	want := []string{"https://x/y", "https://plain", ""}
	if got := column(once, DefaultSecretURLColumn); !equalStrings(got, want) {
		t.Fatalf("unwrapped = %v, want %v", got, want)
	}
	if once.Rows[2][DefaultSecretURLColumn].Valid {
		t.Error("null cell should stay null")
	}

	twice := UnwrapHyperlinks(once, DefaultSecretURLColumn)
	if got := column(twice, DefaultSecretURLColumn); !equalStrings(got, want) {
		t.Errorf("second pass = %v, want %v", got, want)
	}

	if got := table.Rows[0][DefaultSecretURLColumn].Value; got != `=HYPERLINK("https://x/y","label")` {
		t.Errorf("input table mutated: %q", got)
	}
}

func TestUnwrapHyperlinks_MissingColumn(t *testing.T) {
	table := mustTable(t, []string{"FQDN"}, []string{"a"})

	if got := UnwrapHyperlinks(table, DefaultSecretURLColumn); got != table {
		t.Error("table without the column should be returned as is")
	}
}
