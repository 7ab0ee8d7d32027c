package core

import "strings"

// DefaultSecretURLColumn is the column holding password-vault links in the
// exported CMDB sheets.
const DefaultSecretURLColumn = "Secret Server URL"

// hyperlinkMarker prefixes an Excel HYPERLINK formula stored as cell text.
const hyperlinkMarker = "=HYPERLINK("

// UnwrapHyperlink returns the first quoted argument of a HYPERLINK formula,
// e.g. `=HYPERLINK("https://x/y","label")` yields "https://x/y". Text that is
// not a HYPERLINK formula, or whose argument is not quoted, is returned as is.
func UnwrapHyperlink(s string) string {
	if !strings.HasPrefix(s, hyperlinkMarker) {
		return s
	}
	start := strings.Index(s, `("`)
	if start < 0 {
		return s
	}
	start += 2
	end := strings.IndexByte(s[start:], '"')
	if end < 0 {
		return s
	}
	return s[start : start+end]
}

// UnwrapHyperlinks returns a copy of t with every HYPERLINK formula in column
// replaced by its URL. Null cells are left alone. If t has no such column, t
// is returned unchanged. Applying it twice is the same as applying it once.
func UnwrapHyperlinks(t *Table, column string) *Table {
	if column == "" || !t.HasColumn(column) {
		return t
	}

	rows := make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		c := row[column]
		if !c.Valid {
			rows[i] = row
			continue
		}
		unwrapped := UnwrapHyperlink(c.Value)
		if unwrapped == c.Value {
			rows[i] = row
			continue
		}
		nr := row.clone()
		nr[column] = TextCell(unwrapped)
		rows[i] = nr
	}
	return t.withRows(rows)
}
