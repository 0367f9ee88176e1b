// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/scriptdeck/scriptdeck/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	configPath string
	scriptsDir string
	verbose    bool
	logLevel   string
}

// NewRootCommand builds the scriptdeck command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "scriptdeck",
		Short: "Browse helper scripts and compile their command lines",
		Long: TitleStyle.Render("scriptdeck") + SubtitleStyle.Render(" - Browse helper scripts and compile their command lines") + `

scriptdeck catalogs a directory of helper scripts, reads each script's
argparse-style --help output and lets you pick arguments while it keeps
mutually exclusive groups and required flags consistent.

` + SubtitleStyle.Render("Examples:") + `
  scriptdeck list                          List all cataloged scripts
  scriptdeck show recipe_conveyor          Show a script's arguments
  scriptdeck compile recipe_conveyor --set --from-ip=10.0.0.1 --set --id=7
  scriptdeck select                        Pick a script and arguments interactively
  scriptdeck serve                         Serve the selector over SSH`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/scriptdeck/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&flags.scriptsDir, "scripts-dir", "d", "", "scripts directory (overrides scripts.dir)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides log.level)")

	rootCmd.AddCommand(
		newListCommand(app, flags),
		newShowCommand(app, flags),
		newStatusCommand(app, flags),
		newCompileCommand(app, flags),
		newSelectCommand(app, flags),
		newWatchCommand(app, flags),
		newServeCommand(app, flags),
		newConfigCommand(app, flags),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process with the resulting code.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			renderError(w, err, app.verbose)
		}),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitFailure)
	}
}

// renderError prints err for the user. Cancelled prompts print nothing. In
// verbose mode the linked issue page follows the message.
func renderError(w io.Writer, err error, verbose bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code == ExitCancelled {
		return
	}

	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	var ae *issue.ActionableError
	if !verbose || !errors.As(err, &ae) {
		return
	}
	if page := ae.Page(); page != nil {
		rendered, renderErr := page.Render("auto")
		if renderErr != nil {
			return
		}
		fmt.Fprint(w, rendered)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
