// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/scriptdeck/scriptdeck/internal/catalog"
	"github.com/scriptdeck/scriptdeck/internal/config"
	"github.com/scriptdeck/scriptdeck/internal/issue"
	"github.com/scriptdeck/scriptdeck/internal/tui"
)

type (
	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference.
	App struct {
		Config config.Provider
		// Runner overrides the help runner derived from configuration.
		Runner    catalog.HelpRunner
		configDir string
		stdin     io.Reader
		stdout    io.Writer
		stderr    io.Writer
		terminal  func() bool
		verbose   bool
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Runner catalog.HelpRunner
		// ConfigDir overrides the platform config directory.
		ConfigDir string
		Stdin     io.Reader
		Stdout    io.Writer
		Stderr    io.Writer
		// IsTerminal reports whether interactive prompts may be shown.
		IsTerminal func() bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.IsTerminal == nil {
		deps.IsTerminal = func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
		}
	}

	return &App{
		Config:    deps.Config,
		Runner:    deps.Runner,
		configDir: deps.ConfigDir,
		stdin:     deps.Stdin,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		terminal:  deps.IsTerminal,
	}
}

func (a *App) loadOptions(flags *rootFlagValues) config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: flags.configPath,
		ConfigDirPath:  a.configDir,
	}
}

// loadConfig loads configuration, applies the persistent flag overrides and
// installs the process-wide logger.
func (a *App) loadConfig(ctx context.Context, flags *rootFlagValues) (*config.Config, error) {
	a.verbose = flags.verbose

	cfg, err := a.Config.Load(ctx, a.loadOptions(flags))
	if err != nil {
		return nil, err
	}

	if flags.scriptsDir != "" {
		cfg.Scripts.Dir = flags.scriptsDir
	}
	if flags.logLevel != "" {
		level := config.LogLevel(strings.ToLower(flags.logLevel))
		if valid, errs := level.IsValid(); !valid {
			return nil, issue.NewErrorContext().
				WithOperation("parse --log-level").
				WithSuggestion("Use one of: debug, info, warn, error").
				Wrap(errs[0]).
				BuildError()
		}
		cfg.Log.Level = level
	}
	if !a.verbose {
		a.verbose = cfg.UI.Verbose
	}

	slog.SetDefault(slog.New(newLogger(a.stderr, cfg.Log.Level, cfg.Log.Format)))
	return cfg, nil
}

func (a *App) runner(cfg *config.Config) catalog.HelpRunner {
	if a.Runner != nil {
		return a.Runner
	}
	return &catalog.ExecRunner{
		HelpFlag:     cfg.Scripts.HelpFlag,
		Interpreters: cfg.Scripts.Interpreters,
	}
}

func (a *App) catalogOptions(cfg *config.Config) catalog.Options {
	return catalog.Options{
		Dir:         cfg.Scripts.Dir,
		Patterns:    cfg.Scripts.Patterns,
		Probe:       cfg.Scripts.Probe,
		Timeout:     cfg.Scripts.HelpTimeout,
		Concurrency: cfg.Scripts.Concurrency,
		Runner:      a.runner(cfg),
	}
}

// buildCatalog builds the catalog and logs its diagnostics.
func (a *App) buildCatalog(ctx context.Context, cfg *config.Config) (*catalog.Result, error) {
	res, err := catalog.Build(ctx, a.catalogOptions(cfg))
	if err != nil {
		return nil, catalogError(cfg.Scripts.Dir, err)
	}
	logDiagnostics(res.Diagnostics)
	return res, nil
}

func catalogError(dir string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("build script catalog").
		WithResource(dir).
		Wrap(err)

	switch {
	case errors.Is(err, catalog.ErrScriptsDirNotFound):
		ctx.WithIssue(issue.ScriptsDirNotFoundId).
			WithSuggestion("Pass --scripts-dir or set scripts.dir in the config file")
	case errors.Is(err, catalog.ErrInvalidPattern):
		ctx.WithSuggestion("Check scripts.patterns and scripts.probe for doublestar syntax errors")
	}
	return ctx.BuildError()
}

func logDiagnostics(diags []catalog.Diagnostic) {
	for _, d := range diags {
		level := slog.LevelWarn
		if d.Severity == catalog.SeverityError {
			level = slog.LevelError
		}
		attrs := []any{"code", d.Code, "path", d.Path}
		if d.Cause != nil {
			attrs = append(attrs, "error", d.Cause)
		}
		slog.Log(context.Background(), level, d.Message, attrs...)
	}
}

// findScript resolves ref to a script of cat. Unknown references suggest the
// closest script IDs.
func findScript(cat *catalog.Catalog, ref string) (*catalog.Script, error) {
	if script, ok := cat.Lookup(ref); ok {
		return script, nil
	}

	ctx := issue.NewErrorContext().
		WithOperation("find script").
		WithResource(ref).
		WithIssue(issue.ScriptNotFoundId).
		Wrap(fmt.Errorf("no script matches %q", ref))

	matches := tui.FilterScripts(cat.Scripts(), ref)
	for i, s := range matches {
		if i == 3 {
			break
		}
		ctx.WithSuggestion("Did you mean " + s.ID + "?")
	}
	if len(matches) == 0 {
		ctx.WithSuggestion("Run 'scriptdeck list' to see the cataloged scripts")
	}
	return nil, ctx.BuildError()
}

// chooseScript resolves the optional script argument, prompting for one when
// it is missing and a terminal is attached.
func (a *App) chooseScript(cfg *config.Config, cat *catalog.Catalog, args []string, title string) (*catalog.Script, error) {
	if len(args) > 0 {
		return findScript(cat, args[0])
	}
	if !a.terminal() {
		return nil, issue.NewErrorContext().
			WithOperation("choose script").
			WithSuggestion("Pass the script ID, stem or name as an argument").
			Wrap(errors.New("no script given and no terminal to prompt on")).
			BuildError()
	}

	script, err := tui.ChooseScript(cat, title, a.tuiConfig(cfg))
	switch {
	case errors.Is(err, tui.ErrCancelled):
		return nil, &ExitError{Code: ExitCancelled, Err: err}
	case errors.Is(err, tui.ErrNoScripts):
		return nil, noScriptsError(cat.Dir())
	case err != nil:
		return nil, err
	}
	return script, nil
}

func noScriptsError(dir string) error {
	return issue.NewErrorContext().
		WithOperation("choose script").
		WithResource(dir).
		WithIssue(issue.NoScriptsId).
		WithSuggestion("Check scripts.patterns against the file names in the scripts directory").
		Wrap(tui.ErrNoScripts).
		BuildError()
}

func (a *App) tuiConfig(cfg *config.Config) tui.Config {
	return tui.Config{
		Theme:      tui.Theme(cfg.UI.Theme),
		Accessible: cfg.UI.Accessible,
		Input:      a.stdin,
		Output:     a.stderr,
	}
}
