package core

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteDelimited writes t as comma-separated UTF-8 text: header first, then
// one record per row in header order. Null cells are written empty.
func WriteDelimited(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := cw.Write(t.Record(row)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
