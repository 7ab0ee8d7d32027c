package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/JonMunkholm/RdgUpload/internal/core"
)

var (
	errNoFile       = errors.New("no file provided")
	errFileTooLarge = errors.New("file too large")
)

// formOverhead is the room left for non-file form fields and multipart
// framing on top of the file size limit.
const formOverhead = 64 << 10

// readUpload parses a multipart conversion request into a ConvertInput.
//
// Fields: file (required), profile, group_name, output, filter_mode,
// filter_column, filter_value (repeatable or comma separated), group_keys
// (comma separated), sheet (1-based) and header_offset (rows above the
// header).
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (core.ConvertInput, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+formOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return core.ConvertInput{}, s.tooLarge()
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return core.ConvertInput{}, errNoFile
		}
		return core.ConvertInput{}, fmt.Errorf("invalid option: malformed form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return core.ConvertInput{}, errNoFile
	}
	defer file.Close()

	if header.Size > maxSize {
		return core.ConvertInput{}, s.tooLarge()
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return core.ConvertInput{}, fmt.Errorf("read upload: %w", err)
	}

	ov, err := parseOverrides(r)
	if err != nil {
		return core.ConvertInput{}, err
	}

	return core.ConvertInput{
		FileName:  header.Filename,
		Data:      data,
		Profile:   strings.TrimSpace(r.FormValue("profile")),
		Overrides: ov,
	}, nil
}

func (s *Server) tooLarge() error {
	return fmt.Errorf("%w: the limit is %s", errFileTooLarge, humanize.Bytes(uint64(s.cfg.Upload.MaxFileSize)))
}

// parseOverrides reads the optional per-request overrides from a parsed form.
func parseOverrides(r *http.Request) (core.Overrides, error) {
	ov := core.Overrides{
		GroupName:    strings.TrimSpace(r.FormValue("group_name")),
		Output:       strings.TrimSpace(r.FormValue("output")),
		FilterMode:   strings.TrimSpace(r.FormValue("filter_mode")),
		FilterColumn: strings.TrimSpace(r.FormValue("filter_column")),
	}

	if vals := splitList(r.MultipartForm.Value["filter_value"]); len(vals) > 0 {
		ov.FilterValues = vals
	}
	if keys := splitList(r.MultipartForm.Value["group_keys"]); len(keys) > 0 {
		ov.GroupKeys = keys
	}

	if v := strings.TrimSpace(r.FormValue("sheet")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return ov, fmt.Errorf("invalid option: sheet must be a number from 1, got %q", v)
		}
		idx := n - 1
		ov.SheetIndex = &idx
	}
	if v := strings.TrimSpace(r.FormValue("header_offset")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return ov, fmt.Errorf("invalid option: header_offset must be a non-negative number, got %q", v)
		}
		ov.HeaderOffset = &n
	}

	return ov, nil
}

// splitList flattens repeated and comma-separated values, dropping blanks.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
