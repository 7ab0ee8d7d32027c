package core

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// OutputMode selects the artifact a conversion produces.
type OutputMode int

const (
	// OutputManifest renders an RDCMan .rdg connection manifest.
	OutputManifest OutputMode = iota
	// OutputDelimited re-encodes the filtered rows as CSV.
	OutputDelimited
)

func (m OutputMode) String() string {
	if m == OutputDelimited {
		return "delimited"
	}
	return "manifest"
}

// ParseOutputMode parses "manifest" (or "rdg") and "delimited" (or "csv").
func ParseOutputMode(s string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manifest", "rdg":
		return OutputManifest, nil
	case "delimited", "csv":
		return OutputDelimited, nil
	default:
		return OutputManifest, fmt.Errorf("invalid output mode %q (want manifest or delimited)", s)
	}
}

// Labels carries caller-supplied display text.
type Labels struct {
	GroupName string // Name of the manifest's top-level group
}

// Request is a single conversion: one input file in, one artifact out.
type Request struct {
	Input      []byte
	Kind       Kind
	Load       LoadOptions
	Filter     FilterSpec
	GroupKeys  []string
	Labels     Labels
	Columns    ColumnMap
	Output     OutputMode
	SourceName string // Uploaded file name, used to derive the artifact name
}

// Artifact is a generated output file.
type Artifact struct {
	Data        []byte
	Name        string // Suggested download file name
	ContentType string
	Rows        int // Rows that made it into the artifact
}

// Process runs Load, Filter, the hyperlink unwrapper and the selected
// serializer. It has no side effects; on error no artifact is returned.
func Process(req Request) (*Artifact, error) {
	table, err := Load(req.Input, req.Kind, req.Load)
	if err != nil {
		return nil, err
	}

	table, err = Filter(table, req.Filter)
	if err != nil {
		return nil, err
	}

	if req.Columns.SecretURL != "" {
		table = UnwrapHyperlinks(table, req.Columns.SecretURL)
	}

	var buf bytes.Buffer
	name, contentType, err := writeArtifact(&buf, table, req)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Data:        buf.Bytes(),
		Name:        name,
		ContentType: contentType,
		Rows:        table.Len(),
	}, nil
}

// writeArtifact serializes t in the requested output mode and returns the
// artifact's file name and content type.
func writeArtifact(w io.Writer, t *Table, req Request) (name, contentType string, err error) {
	if req.Output == OutputDelimited {
		if err := WriteDelimited(w, t); err != nil {
			return "", "", newError(StructuralError, err, "encode csv")
		}
		return ArtifactName("filtered", req.SourceName, ".csv"), "text/csv; charset=utf-8", nil
	}

	root, err := BuildManifest(t, req.Labels.GroupName, req.GroupKeys, req.Columns)
	if err != nil {
		return "", "", err
	}
	if err := WriteRDG(w, root); err != nil {
		return "", "", newError(StructuralError, err, "encode rdg")
	}
	return ArtifactName("processed", req.SourceName, ".rdg"), "application/xml; charset=utf-8", nil
}

// ArtifactName builds "<prefix>_<stem><ext>" from an uploaded file name.
// Directory components are dropped.
func ArtifactName(prefix, source, ext string) string {
	base := filepath.Base(strings.ReplaceAll(source, `\`, "/"))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == "/" {
		stem = "upload"
	}
	return prefix + "_" + stem + ext
}
