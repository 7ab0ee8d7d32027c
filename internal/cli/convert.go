package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/RdgUpload/internal/core"
)

type convertOptions struct {
	profile      string
	out          string
	output       string
	group        string
	sheet        int
	headerOffset int
	filterMode   string
	filterColumn string
	filterValues []string
	groupKeys    []string
}

func newConvertCmd(app *App, global *globalOptions) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a CSV or Excel export",
		Long: `Convert reads a .csv, .tsv or .xlsx export, applies the profile's row
filter and writes the result. Flags override individual profile settings.

The artifact is written to the current directory under its generated name
(processed_<file>.rdg or filtered_<file>.csv) unless --out is given.
Use --out - to write to stdout.`,
		Example: `  rdgconv convert assets.xlsx
  rdgconv convert assets.xlsx --group "EMEA servers" --group-keys Country,Location
  rdgconv convert export.csv --output csv --filter-mode present --filter-column FQDN --out -`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ov, err := opts.overrides(cmd)
			if err != nil {
				return err
			}
			return runConvert(cmd, app, global, opts, args[0], ov)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.profile, "profile", "p", "", "Conversion profile (default: the configured default)")
	f.StringVarP(&opts.out, "out", "o", "", "Output path, or - for stdout")
	f.StringVar(&opts.output, "output", "", "Output format: manifest (rdg) or delimited (csv)")
	f.StringVarP(&opts.group, "group", "g", "", "Name of the top-level RDCMan group")
	f.IntVar(&opts.sheet, "sheet", 0, "Workbook sheet to read, counting from 1")
	f.IntVar(&opts.headerOffset, "header-offset", 0, "Rows above the header row in the sheet")
	f.StringVar(&opts.filterMode, "filter-mode", "", "Row filter: in, equals, present or none")
	f.StringVar(&opts.filterColumn, "filter-column", "", "Column the row filter tests")
	f.StringSliceVar(&opts.filterValues, "filter-value", nil, "Accepted value; repeat or comma-separate")
	f.StringSliceVar(&opts.groupKeys, "group-keys", nil, "Up to three columns to group by, outermost first")
	return cmd
}

// overrides turns the changed flags into profile overrides.
func (o *convertOptions) overrides(cmd *cobra.Command) (core.Overrides, error) {
	ov := core.Overrides{
		GroupName:    o.group,
		FilterMode:   o.filterMode,
		FilterColumn: o.filterColumn,
		Output:       o.output,
	}
	flags := cmd.Flags()

	if flags.Changed("filter-value") {
		ov.FilterValues = o.filterValues
	}
	if flags.Changed("group-keys") {
		if len(o.groupKeys) > core.MaxGroupKeys {
			return ov, newUsageError(fmt.Errorf("--group-keys takes at most %d columns, got %d", core.MaxGroupKeys, len(o.groupKeys)))
		}
		ov.GroupKeys = o.groupKeys
	}
	if flags.Changed("sheet") {
		if o.sheet < 1 {
			return ov, newUsageError(errors.New("--sheet counts from 1"))
		}
		idx := o.sheet - 1
		ov.SheetIndex = &idx
	}
	if flags.Changed("header-offset") {
		if o.headerOffset < 0 {
			return ov, newUsageError(errors.New("--header-offset must not be negative"))
		}
		off := o.headerOffset
		ov.HeaderOffset = &off
	}
	return ov, nil
}

func runConvert(cmd *cobra.Command, app *App, global *globalOptions, opts *convertOptions, path string, ov core.Overrides) error {
	set, err := global.profiles()
	if err != nil {
		return err
	}
	profile, err := set.Get(opts.profile)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	req, err := profile.Request(data, filepath.Base(path), ov)
	if err != nil {
		return err
	}

	if err := cmd.Context().Err(); err != nil {
		return err
	}

	start := time.Now()
	art, err := core.Process(req)
	if err != nil {
		return err
	}
	slog.Debug("conversion complete",
		"profile", profile.Name,
		"output", req.Output.String(),
		"rows", art.Rows,
		"input", humanize.Bytes(uint64(len(data))),
		"duration", time.Since(start),
	)

	if opts.out == "-" {
		_, err := app.Stdout.Write(art.Data)
		return err
	}

	dest := opts.out
	if dest == "" {
		dest = art.Name
	}
	if err := os.WriteFile(dest, art.Data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	okLabel.Fprint(app.Stderr, "wrote ")
	fmt.Fprintf(app.Stderr, "%s (%d rows, %s)\n", dest, art.Rows, humanize.Bytes(uint64(len(art.Data))))
	return nil
}
