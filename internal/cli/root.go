package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/RdgUpload/internal/application"
	"github.com/JonMunkholm/RdgUpload/internal/config"
	"github.com/JonMunkholm/RdgUpload/internal/core"
	"github.com/JonMunkholm/RdgUpload/internal/logging"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	logLevel       string
	profilesFile   string
	defaultProfile string
}

func newRootCmd(app *App) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "rdgconv",
		Short: "Convert CMDB exports to RDCMan files",
		Long: `rdgconv filters a CSV or Excel asset export and writes either the
filtered rows as CSV or an RDCMan (.rdg) connection file grouped by up to
three columns.`,
		Version: app.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Errors and usage are printed once, by App.Execute.
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			slog.SetDefault(logging.New(app.Stderr, opts.logLevel, "text"))
			return nil
		},
		// Bare invocation prints help.
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.SetOut(app.Stdout)
	rootCmd.SetErr(app.Stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return newUsageError(err)
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringVar(&opts.profilesFile, "profiles-file", os.Getenv("CONVERT_PROFILES_FILE"), "YAML file replacing the built-in profiles")
	pf.StringVar(&opts.defaultProfile, "default-profile", os.Getenv("CONVERT_DEFAULT_PROFILE"), "Profile used when --profile is not given")

	rootCmd.AddCommand(
		newConvertCmd(app, opts),
		newProfilesCmd(app, opts),
	)
	return rootCmd
}

func (o *globalOptions) profiles() (*core.ProfileSet, error) {
	return application.LoadProfiles(config.ConvertConfig{
		ProfilesFile:   o.profilesFile,
		DefaultProfile: o.defaultProfile,
	})
}

// exactArgs wraps cobra.ExactArgs so arity mistakes exit with the usage code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return newUsageError(cobra.ExactArgs(n)(cmd, args))
	}
}

func newProfilesCmd(app *App, opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"ls"},
		Short:   "List conversion profiles",
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := opts.profiles()
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(app.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(set.List())
			}

			def := set.Default().Name
			tw := tabwriter.NewWriter(app.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tOUTPUT\tDESCRIPTION")
			for _, p := range set.List() {
				name := p.Name
				if name == def {
					name += " (default)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", nameLabel.Sprint(name), p.Output, p.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print profiles as JSON")
	return cmd
}
