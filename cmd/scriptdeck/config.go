// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scriptdeck/scriptdeck/internal/config"
	"github.com/scriptdeck/scriptdeck/internal/tui"
)

// newConfigCommand creates the `scriptdeck config` command tree.
func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage scriptdeck configuration",
		Long: `Manage scriptdeck configuration.

Configuration is read from the first of:
  - the file given with --config
  - Linux: $XDG_CONFIG_HOME/scriptdeck/config.cue (default ~/.config)
    macOS: ~/Library/Application Support/scriptdeck/config.cue
    Windows: %APPDATA%\scriptdeck\config.cue
  - ./config.cue

SCRIPTDECK_* environment variables (SCRIPTDECK_SCRIPTS_DIR, SCRIPTDECK_LOG_LEVEL,
...) override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, flags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app, flags)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, flags *rootFlagValues) error {
	cfg, err := app.loadConfig(ctx, flags)
	if err != nil {
		return err
	}
	path, err := config.ResolvePath(app.loadOptions(flags))
	if err != nil {
		return err
	}

	w := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	section := func(name string, rows ...[2]string) {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s:\n", keyStyle.Render(name))
		for _, row := range rows {
			fmt.Fprintf(w, "  %s: %s\n", row[0], valueStyle.Render(row[1]))
		}
	}

	section("scripts",
		[2]string{"dir", cfg.Scripts.Dir},
		[2]string{"patterns", strings.Join(cfg.Scripts.Patterns, ", ")},
		[2]string{"probe", strings.Join(cfg.Scripts.Probe, ", ")},
		[2]string{"help_flag", cfg.Scripts.HelpFlag},
		[2]string{"help_timeout", cfg.Scripts.HelpTimeout.String()},
		[2]string{"concurrency", concurrencyLabel(cfg.Scripts.Concurrency)},
	)
	writeInterpreters(w, cfg.Scripts.Interpreters)
	section("ui",
		[2]string{"theme", cfg.UI.Theme.String()},
		[2]string{"verbose", fmt.Sprintf("%v", cfg.UI.Verbose)},
		[2]string{"accessible", fmt.Sprintf("%v", cfg.UI.Accessible)},
	)
	section("log",
		[2]string{"level", cfg.Log.Level.String()},
		[2]string{"format", cfg.Log.Format.String()},
	)
	section("serve",
		[2]string{"host", cfg.Serve.Host},
		[2]string{"port", fmt.Sprintf("%d", cfg.Serve.Port)},
		[2]string{"host_key_path", app.hostKeyPath(cfg)},
	)
	section("watch",
		[2]string{"debounce", cfg.Watch.Debounce.String()},
		[2]string{"ignore", strings.Join(cfg.Watch.Ignore, ", ")},
	)
	return nil
}

func concurrencyLabel(n int) string {
	if n == 0 {
		return "0 (GOMAXPROCS)"
	}
	return fmt.Sprintf("%d", n)
}

func writeInterpreters(w io.Writer, interpreters map[string]string) {
	if len(interpreters) == 0 {
		fmt.Fprintf(w, "  interpreters: %s\n", SubtitleStyle.Render("(none configured)"))
		return
	}
	fmt.Fprintln(w, "  interpreters:")
	exts := make([]string, 0, len(interpreters))
	for ext := range interpreters {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	for _, ext := range exts {
		fmt.Fprintf(w, "    .%s: %s\n", ext, SuccessStyle.Render(interpreters[ext]))
	}
}

func showConfigPath(app *App, flags *rootFlagValues) error {
	cfgDir := app.configDir
	if cfgDir == "" {
		var err error
		if cfgDir, err = config.ConfigDir(); err != nil {
			return err
		}
	}
	path, err := config.ResolvePath(app.loadOptions(flags))
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	if path == "" {
		fmt.Fprintf(app.stdout, "Config file: %s %s\n",
			filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt),
			SubtitleStyle.Render("(not created)"))
	} else {
		fmt.Fprintf(app.stdout, "Config file: %s\n", path)
	}
	return nil
}

func initConfig(app *App, force bool) error {
	path, written, err := config.WriteDefault(app.configDir, force)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	if !written && app.terminal() {
		tcfg := tui.DefaultConfig()
		tcfg.Input = app.stdin
		tcfg.Output = app.stderr
		overwrite, confirmErr := tui.Confirm("Overwrite "+path+"?", "The existing file will be replaced with the defaults.", tcfg)
		if errors.Is(confirmErr, tui.ErrCancelled) {
			return &ExitError{Code: ExitCancelled, Err: confirmErr}
		}
		if confirmErr != nil {
			return confirmErr
		}
		if overwrite {
			if path, written, err = config.WriteDefault(app.configDir, true); err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
		}
	}

	if !written {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s (use --force to overwrite)\n",
			WarningStyle.Render("!"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
