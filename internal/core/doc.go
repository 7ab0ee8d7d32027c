// Package core converts uploaded asset exports into filtered CSV files or
// RDCMan connection manifests.
//
// This package holds all conversion logic independent of any transport. The
// web server and the rdgconv command both drive it through [Service], and
// tests call the pipeline functions directly.
//
// # Pipeline
//
// A conversion is a single pass with no state kept between calls:
//
//  1. [Load] parses CSV/TSV text or one sheet of an Excel workbook into a
//     [Table] of text cells.
//  2. [Filter] keeps the rows matching a [FilterSpec].
//  3. [UnwrapHyperlinks] replaces =HYPERLINK("url","label") formulas with
//     their URL.
//  4. [WriteDelimited] re-encodes the rows as CSV, or [BuildManifest] groups
//     them by up to three key columns and [WriteRDG] renders the tree as an
//     .rdg XML document.
//
// [Process] runs the whole pipeline for one [Request].
//
// # Profiles
//
// A [Profile] fixes the sheet, header row, filter, grouping keys and column
// names for a kind of export. [BuiltinProfiles] covers the standard asset
// export; [LoadProfiles] reads replacements from YAML.
//
// # Error Handling
//
// Pipeline failures are *[Error] values carrying an [ErrorKind]. [MapError]
// turns any error into a [UserMessage] with a support code:
//
//   - FILE001-FILE006: upload problems (size, format, parsing, layout)
//   - VAL004, VAL007: missing columns and invalid options
//   - CNV001-CNV005: service problems (busy, expired download, timeouts)
package core
