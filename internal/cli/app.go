// Package cli implements rdgconv, the command-line front end to the
// conversion pipeline. It shares profiles and error messages with the web
// server but writes artifacts straight to disk or stdout.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// App owns CLI wiring and execution configuration.
type App struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Version string
}

// NewApp constructs an App bound to the process's standard streams.
func NewApp() *App {
	return &App{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Version: "dev",
	}
}

// Execute runs the CLI with the provided args.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := newRootCmd(a)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		if isCommandLineError(err) {
			err = newUsageError(err)
		}
		printError(a.Stderr, err)
		return err
	}
	return nil
}

// RootCommand exposes the root command for tests.
func (a *App) RootCommand() *cobra.Command {
	return newRootCmd(a)
}

// isCommandLineError reports errors cobra raises while resolving the command
// itself, before any RunE runs.
func isCommandLineError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}
