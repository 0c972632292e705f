// Package cli implements the cobra-based command line of css-ts-setup.
//
// There is a single root command. It resolves settings from flags, the
// optional YAML config file and CSS_TS_SETUP_* environment variables,
// configures slog, runs the project mutators and prints the report.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kt-tools/css-ts-setup/internal/install"
	"github.com/kt-tools/css-ts-setup/internal/model"
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates the css-ts-setup command. Dependency installation
// shells out through install.ExecRunner.
func NewRootCommand() *cobra.Command {
	return newRootCommand(install.NewInstaller(nil))
}

func newRootCommand(installer *install.Installer) *cobra.Command {
	var settings *Settings

	rootCmd := &cobra.Command{
		Use:   "css-ts-setup",
		Short: "Setup helper for @kt-tools/css-ts projects",
		Long: `css-ts-setup configures a SvelteKit + Vite project for the @kt-tools/css-ts
Vite plugin.

In Deno mode it adds the import map entries and nodeModulesDir to deno.json,
in npm mode it adds the dependency to package.json. In both modes it
registers ct.vite() in vite.config and then installs the package with
deno add or the project's package manager.

The mode is detected from package.json or deno.json unless --deno or --npm
is given.

Examples:
  css-ts-setup
  css-ts-setup --deno --no-install
  css-ts-setup --npm --cwd ./web --output json`,

		Args: cobra.NoArgs,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors lets Execute format errors (text or JSON).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// Settings are resolved before anything else so that logging is
		// configured for the whole run.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			h, err := newLogHandler(cmd.ErrOrStderr(), s.LogLevel, s.Verbose)
			if err != nil {
				return model.WrapCLIError(model.ExitGeneralError, "invalid argument", err)
			}
			slog.SetDefault(slog.New(h))

			settings = s
			return nil
		},

		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSetup(cmd.Context(), cmd.OutOrStdout(), settings, installer)
		},
	}

	flags := rootCmd.Flags()
	flags.Bool("deno", false, "Configure for SvelteKit + Deno + Vite")
	flags.Bool("npm", false, "Configure for SvelteKit + npm + Vite")
	flags.Bool("no-install", false, "Skip dependency installation")
	flags.String("cwd", "", "Run in a specific project directory (default: current directory)")
	flags.String("output", OutputText, "Report format: text, json, yaml")
	flags.String("descriptor", "", "Tool descriptor used to pin the css-ts version (default: deno.json next to the install directory)")
	flags.String("config", "", "Config file (default: <cwd>/"+configFileName+" when present)")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.String("log-level", defaultLogLevel, "Log level: debug, info, warn, error")

	return rootCmd
}

// errorFormatAnnotation records on the root command the output format that
// fatal errors are printed in.
const errorFormatAnnotation = "css-ts-setup/error-format"

// setErrorFormat remembers the output format resolved from all settings
// sources, so that errors match the report when output comes from the
// config file or the environment.
func setErrorFormat(cmd *cobra.Command, format string) {
	root := cmd.Root()
	if root.Annotations == nil {
		root.Annotations = map[string]string{}
	}
	root.Annotations[errorFormatAnnotation] = strings.ToLower(strings.TrimSpace(format))
}

// errorFormat returns the format recorded by setErrorFormat, falling back to
// the --output flag when settings were never loaded.
func errorFormat(rootCmd *cobra.Command) string {
	if format, ok := rootCmd.Annotations[errorFormatAnnotation]; ok {
		return format
	}
	format, _ := rootCmd.Flags().GetString("output")
	return format
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	if code := run(rootCmd, os.Stderr); code != model.ExitSuccess {
		os.Exit(int(code))
	}
}

// run executes rootCmd, prints a failure to stderr and returns the exit code.
// CLIError types carry their own exit codes; other errors map to exit code 1.
func run(rootCmd *cobra.Command, stderr io.Writer) model.ExitCode {
	err := rootCmd.Execute()
	if err == nil {
		return model.ExitSuccess
	}

	format := errorFormat(rootCmd)

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		printError(stderr, format, cliErr.Message, cliErr.Err)
		return cliErr.Code
	}

	printError(stderr, format, err.Error(), nil)
	return model.ExitGeneralError
}
