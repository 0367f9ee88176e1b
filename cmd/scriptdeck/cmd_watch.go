// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scriptdeck/scriptdeck/internal/catalog"
	"github.com/scriptdeck/scriptdeck/internal/config"
	"github.com/scriptdeck/scriptdeck/internal/watch"
)

func newWatchCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-list the catalog whenever scripts change",
		Long: `Watch the scripts directory and rebuild the catalog when a script is
created, edited, renamed or removed. Bursts of changes are coalesced
(watch.debounce) and the fresh catalog is listed after every rebuild.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}
			res, err := app.buildCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := writeListing(app.stdout, res.Catalog, format, app.verbose); err != nil {
				return err
			}

			refresher := watch.NewRefresher(app.catalogOptions(cfg), res.Catalog)
			refresher.OnUpdate = func(fresh *catalog.Result, changed []string) {
				logDiagnostics(fresh.Diagnostics)
				fmt.Fprintf(app.stdout, "\n%s %d change(s): %s\n\n",
					CmdStyle.Render("→"), len(changed), strings.Join(changed, ", "))
				if err := writeListing(app.stdout, fresh.Catalog, format, app.verbose); err != nil {
					fmt.Fprintf(app.stderr, "%s %v\n", WarningStyle.Render("!"), err)
				}
			}

			w, err := newCatalogWatcher(cfg, refresher.Rebuild)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stderr, "\n%s Watching %s for changes (Ctrl+C to stop)...\n",
				CmdStyle.Render("→"), cfg.Scripts.Dir)
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or toml")
	return cmd
}

// newCatalogWatcher watches the configured scripts directory.
func newCatalogWatcher(cfg *config.Config, rebuild func(ctx context.Context, changed []string) error) (*watch.Watcher, error) {
	w, err := watch.New(watch.Config{
		Dir:      cfg.Scripts.Dir,
		Patterns: cfg.Scripts.Patterns,
		Ignore:   cfg.Watch.Ignore,
		Debounce: cfg.Watch.Debounce,
		Rebuild:  rebuild,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}
	return w, nil
}
