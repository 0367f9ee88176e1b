// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/scriptdeck/scriptdeck/internal/catalog"
	"github.com/scriptdeck/scriptdeck/internal/config"
	"github.com/scriptdeck/scriptdeck/internal/issue"
	"github.com/scriptdeck/scriptdeck/internal/sshserver"
	"github.com/scriptdeck/scriptdeck/internal/tui"
	"github.com/scriptdeck/scriptdeck/internal/watch"
)

// hostKeyFile is the default host key name inside the config directory.
const hostKeyFile = "ssh_host_ed25519"

type serveFlagValues struct {
	host           string
	port           int
	hostKey        string
	authorizedKeys string
	idleTimeout    time.Duration
	watch          bool
}

func newServeCommand(app *App, flags *rootFlagValues) *cobra.Command {
	sf := &serveFlagValues{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive selector over SSH",
		Long: `Serve the interactive selector over SSH.

Every connection gets its own selection session. When the session completes,
the compiled command line is printed in the client's terminal; nothing is
executed on the server.

Without --authorized-keys every client is accepted, so bind to localhost or
a trusted network.`,
		Example: `  scriptdeck serve --port 23234 --watch
  ssh -p 23234 localhost`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}
			applyServeFlags(cmd, cfg, sf)
			return app.serve(cmd.Context(), cfg, sf)
		},
	}

	cmd.Flags().StringVar(&sf.host, "host", "", "address to bind (overrides serve.host)")
	cmd.Flags().IntVarP(&sf.port, "port", "p", 0, "port to listen on (overrides serve.port)")
	cmd.Flags().StringVar(&sf.hostKey, "host-key", "", "host key path, generated if missing (overrides serve.host_key_path)")
	cmd.Flags().StringVar(&sf.authorizedKeys, "authorized-keys", "", "only accept the public keys listed in this file")
	cmd.Flags().DurationVar(&sf.idleTimeout, "idle-timeout", 0, "close sessions idle for this long (0 disables)")
	cmd.Flags().BoolVarP(&sf.watch, "watch", "w", false, "rebuild the catalog for new sessions when scripts change")
	return cmd
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Config, sf *serveFlagValues) {
	if cmd.Flags().Changed("host") {
		cfg.Serve.Host = sf.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Serve.Port = sf.port
	}
	if cmd.Flags().Changed("host-key") {
		cfg.Serve.HostKeyPath = sf.hostKey
	}
}

// hostKeyPath returns the configured host key path or the default inside the
// config directory. An empty result means an ephemeral key.
func (a *App) hostKeyPath(cfg *config.Config) string {
	if cfg.Serve.HostKeyPath != "" {
		return cfg.Serve.HostKeyPath
	}
	dir := a.configDir
	if dir == "" {
		var err error
		if dir, err = config.ConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(dir, hostKeyFile)
}

func (a *App) serve(ctx context.Context, cfg *config.Config, sf *serveFlagValues) error {
	res, err := a.buildCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	refresher := watch.NewRefresher(a.catalogOptions(cfg), res.Catalog)
	refresher.OnUpdate = func(fresh *catalog.Result, _ []string) {
		logDiagnostics(fresh.Diagnostics)
	}

	hostKey := a.hostKeyPath(cfg)
	if hostKey != "" {
		if err := os.MkdirAll(filepath.Dir(hostKey), 0o700); err != nil {
			return serveError(cfg, err)
		}
	}

	srv, err := sshserver.New(sshserver.Config{
		Host:               cfg.Serve.Host,
		Port:               cfg.Serve.Port,
		HostKeyPath:        hostKey,
		AuthorizedKeysPath: sf.authorizedKeys,
		IdleTimeout:        sf.idleTimeout,
		Catalog:            refresher.Current,
		Theme:              tui.Theme(cfg.UI.Theme),
	}, newServeLogger(a.stderr, cfg.Log.Level))
	if err != nil {
		return serveError(cfg, err)
	}
	if err := srv.Start(ctx); err != nil {
		return serveError(cfg, err)
	}
	fmt.Fprintf(a.stderr, "%s Serving %d script(s) on %s (ssh -p %d %s)\n",
		CmdStyle.Render("→"), res.Catalog.Len(), srv.Address(), srv.Port(), cfg.Serve.Host)

	g, gctx := errgroup.WithContext(ctx)
	if sf.watch {
		w, err := newCatalogWatcher(cfg, refresher.Rebuild)
		if err != nil {
			_ = srv.Stop()
			return err
		}
		g.Go(func() error { return w.Run(gctx) })
	}
	g.Go(func() error {
		select {
		case <-gctx.Done():
			return srv.Stop()
		case err, ok := <-srv.Err():
			if ok && err != nil {
				_ = srv.Stop()
				return serveError(cfg, err)
			}
			return nil
		}
	})
	return g.Wait()
}

func newServeLogger(w io.Writer, level config.LogLevel) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "scriptdeck-serve",
		ReportTimestamp: true,
	})
	// Connection records are logged at info, so warn is raised to info here.
	switch level {
	case config.LogLevelDebug:
		logger.SetLevel(log.DebugLevel)
	case config.LogLevelError:
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}

func serveError(cfg *config.Config, err error) error {
	return issue.NewErrorContext().
		WithOperation("serve selector over SSH").
		WithResource(fmt.Sprintf("%s:%d", cfg.Serve.Host, cfg.Serve.Port)).
		WithIssue(issue.ServeFailedId).
		WithSuggestion("Pick another port with --port or stop the process holding it").
		Wrap(err).
		BuildError()
}
