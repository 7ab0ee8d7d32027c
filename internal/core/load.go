package core

// load.go parses uploaded bytes into a Table.
//
// Input formats are a closed set (Kind). KindFromFilename maps an upload's
// extension to a Kind and Load dispatches to the matching parser:
//
//   - KindDelimited: CSV/TSV text, header on the first record. Byte order
//     marks (UTF-8, UTF-16) are honoured and invalid UTF-8 is replaced.
//   - KindSpreadsheet: an Excel workbook. One sheet is read, selected by
//     position; the header sits HeaderOffset rows down from the top.
//
// Both parsers share the same row policy: blank rows are skipped, short rows
// are padded with nulls and every value is kept as text.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Kind identifies the format of an uploaded file.
type Kind int

const (
	KindUnknown Kind = iota
	KindDelimited
	KindSpreadsheet
)

func (k Kind) String() string {
	switch k {
	case KindDelimited:
		return "delimited"
	case KindSpreadsheet:
		return "spreadsheet"
	default:
		return "unknown"
	}
}

// extensionKinds lists accepted upload extensions (lowercase, with dot).
var extensionKinds = map[string]Kind{
	".csv":  KindDelimited,
	".tsv":  KindDelimited,
	".txt":  KindDelimited,
	".xlsx": KindSpreadsheet,
	".xlsm": KindSpreadsheet,
}

// KindFromFilename returns the Kind for a file name based on its extension.
func KindFromFilename(name string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if k, ok := extensionKinds[ext]; ok {
		return k, nil
	}
	if ext == "" {
		return KindUnknown, newError(UnsupportedFormat, nil, "file %q has no extension; expected .csv or .xlsx", name)
	}
	return KindUnknown, newError(UnsupportedFormat, nil, "unsupported file type %q; expected .csv or .xlsx", ext)
}

// DefaultComma returns the field separator implied by a file name:
// tab for .tsv, comma otherwise.
func DefaultComma(name string) rune {
	if strings.EqualFold(filepath.Ext(name), ".tsv") {
		return '\t'
	}
	return ','
}

// LoadOptions controls how a file is parsed.
type LoadOptions struct {
	SheetIndex   int  // Spreadsheet only: 0-based sheet position
	HeaderOffset int  // Spreadsheet only: rows above the header row
	Comma        rune // Delimited only: field separator (default ',')
}

// Load parses data of the given kind into a Table.
func Load(data []byte, kind Kind, opts LoadOptions) (*Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, newError(EmptyUpload, nil, "the uploaded file is empty")
	}

	switch kind {
	case KindDelimited:
		return loadDelimited(data, opts)
	case KindSpreadsheet:
		return loadSpreadsheet(data, opts)
	default:
		return nil, newError(UnsupportedFormat, nil, "unsupported file kind %s", kind)
	}
}

// decodeText wraps r so that a leading BOM selects UTF-8/UTF-16 decoding and
// is dropped. Without a BOM input is treated as UTF-8, invalid bytes replaced
// with U+FFFD.
func decodeText(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

func loadDelimited(data []byte, opts LoadOptions) (*Table, error) {
	reader := csv.NewReader(decodeText(bytes.NewReader(data)))
	reader.FieldsPerRecord = -1
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}

	var header []string
	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, newError(ParseError, pe.Err, "invalid csv at line %d", pe.Line)
			}
			return nil, newError(ParseError, err, "invalid csv")
		}
		if header == nil {
			header = rec
			continue
		}
		if isBlankRecord(rec) {
			continue
		}
		records = append(records, rec)
	}

	if header == nil || isBlankRecord(header) {
		return nil, newError(EmptyUpload, nil, "the uploaded file has no header row")
	}

	return NewTable(normalizeHeader(header), records)
}

func loadSpreadsheet(data []byte, opts LoadOptions) (*Table, error) {
	if mt := mimetype.Detect(data); !isZipContainer(mt) {
		return nil, newError(ParseError, nil, "file is not an Excel workbook (detected %s)", mt.String())
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, newError(ParseError, err, "open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if opts.SheetIndex < 0 || opts.SheetIndex >= len(sheets) {
		return nil, newError(StructuralError, nil,
			"workbook has %d sheet(s); sheet %d is required", len(sheets), opts.SheetIndex+1)
	}
	sheet := sheets[opts.SheetIndex]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, newError(ParseError, err, "read sheet %q", sheet)
	}

	if opts.HeaderOffset < 0 || opts.HeaderOffset >= len(rows) || isBlankRecord(rows[opts.HeaderOffset]) {
		return nil, newError(StructuralError, nil,
			"sheet %q has no header row at row %d", sheet, opts.HeaderOffset+1)
	}

	body := rows[opts.HeaderOffset+1:]

	// excelize trims trailing empty cells per row, so the header can be
	// narrower than the data. Widen it with unnamed columns.
	width := len(rows[opts.HeaderOffset])
	for _, rec := range body {
		if len(rec) > width {
			width = len(rec)
		}
	}
	header := make([]string, width)
	copy(header, rows[opts.HeaderOffset])

	records := make([][]string, 0, len(body))
	for _, rec := range body {
		if isBlankRecord(rec) {
			continue
		}
		records = append(records, rec)
	}

	return NewTable(normalizeHeader(header), records)
}

// isZipContainer reports whether mt is a zip archive or a format built on one
// (xlsx, xlsm, ...).
func isZipContainer(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer for LoadOptions, used in log lines.
func (o LoadOptions) String() string {
	return fmt.Sprintf("sheet=%d header_offset=%d", o.SheetIndex, o.HeaderOffset)
}
