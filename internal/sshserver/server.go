// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"

	"github.com/scriptdeck/scriptdeck/internal/core/serverbase"
)

// Server serves the selector to SSH clients.
// A Server instance is single-use: once stopped or failed, create a new instance.
type Server struct {
	*serverbase.Base

	// Immutable configuration (set at creation, never modified)
	cfg Config

	// Initialized during Start() - protected by mu for writes
	mu       sync.Mutex
	srv      *ssh.Server
	listener net.Listener
	addr     string

	sessions atomic.Int64

	logger *log.Logger
}

// New creates a new SSH server instance.
// The server is not started; call Start() to begin accepting connections.
func New(cfg Config, logger *log.Logger) (*Server, error) {
	defaults := DefaultConfig()
	if cfg.Host == "" {
		cfg.Host = defaults.Host
	}
	if cfg.Theme == "" {
		cfg.Theme = defaults.Theme
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = defaults.StartupTimeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "scriptdeck-serve",
		})
	}

	return &Server{
		Base:   serverbase.NewBase(),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Start starts the SSH server and blocks until either:
//   - The server is ready to accept connections (returns nil)
//   - The server fails to start (returns error)
//   - The context is cancelled (returns context error)
//   - The startup timeout is exceeded (returns error)
//
// After Start() returns nil, use Err() to monitor for runtime errors.
func (s *Server) Start(ctx context.Context) error {
	if err := s.TransitionToStarting(ctx); err != nil {
		return err
	}

	startupCtx, startupCancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer startupCancel()

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	var lc net.ListenConfig
	listener, err := lc.Listen(startupCtx, "tcp", addr)
	if err != nil {
		s.TransitionToFailed(fmt.Errorf("failed to listen on %s: %w", addr, err))
		return s.LastError()
	}

	srv, err := wish.NewServer(s.serverOptions(listener.Addr().String())...)
	if err != nil {
		_ = listener.Close()
		s.TransitionToFailed(fmt.Errorf("failed to create SSH server: %w", err))
		return s.LastError()
	}

	s.mu.Lock()
	s.listener = listener
	s.addr = listener.Addr().String()
	s.srv = srv
	s.mu.Unlock()

	s.AddGoroutine()
	go s.serve()

	select {
	case <-s.StartedChannel():
		s.logger.Info("SSH server started", "address", s.addr)
		return nil

	case err := <-s.Err():
		s.TransitionToFailed(err)
		return err

	case <-startupCtx.Done():
		_ = listener.Close()
		s.TransitionToFailed(fmt.Errorf("startup timeout: %w", startupCtx.Err()))
		return s.LastError()
	}
}

func (s *Server) serverOptions(addr string) []ssh.Option {
	opts := []ssh.Option{wish.WithAddress(addr)}
	if s.cfg.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(s.cfg.HostKeyPath))
	}
	if s.cfg.AuthorizedKeysPath != "" {
		opts = append(opts, wish.WithAuthorizedKeys(s.cfg.AuthorizedKeysPath))
	}
	if s.cfg.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(s.cfg.IdleTimeout))
	}
	// Middleware runs last to first: logging wraps everything.
	opts = append(opts, wish.WithMiddleware(
		bm.Middleware(s.teaHandler),
		s.catalogMiddleware(),
		activeterm.Middleware(),
		logging.MiddlewareWithLogger(s.logger),
	))
	return opts
}

// Stop gracefully stops the SSH server.
// It blocks until all connections are closed or the shutdown timeout is reached.
// Safe to call multiple times; subsequent calls are no-ops.
func (s *Server) Stop() error {
	if !s.TransitionToStopping() {
		s.WaitForShutdown()
		return nil
	}
	return s.doStop()
}

func (s *Server) doStop() error {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error
	s.mu.Lock()
	if s.srv != nil {
		shutdownErr = s.srv.Shutdown(shutdownCtx)
		if shutdownErr != nil && !isClosedConnError(shutdownErr) {
			s.logger.Error("shutdown error", "error", shutdownErr)
		} else {
			shutdownErr = nil
		}
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.mu.Unlock()

	s.WaitForShutdown()

	s.TransitionToStopped()
	s.logger.Info("SSH server stopped")
	s.CloseErrChannel()

	return shutdownErr
}

func (s *Server) serve() {
	defer s.DoneGoroutine()

	s.TransitionToRunning()

	s.mu.Lock()
	srv := s.srv
	listener := s.listener
	s.mu.Unlock()

	if srv == nil || listener == nil {
		return
	}

	if err := srv.Serve(listener); err != nil {
		if errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
			return
		}
		s.logger.Error("SSH server error", "error", err)
		s.SendError(fmt.Errorf("serve error: %w", err))
	}
}

// ActiveSessions returns the number of sessions currently showing the selector.
func (s *Server) ActiveSessions() int64 {
	return s.sessions.Load()
}

// Address returns the server's bound address (host:port).
// Blocks until the server has started or failed.
// Returns empty string if server never started or failed.
func (s *Server) Address() string {
	select {
	case <-s.StartedChannel():
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.addr
	case <-s.Done():
		return ""
	}
}

// Port returns the server's listening port, or 0 if it never started.
func (s *Server) Port() int {
	addr := s.Address()
	if addr == "" {
		return 0
	}
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return port
}

// Wait blocks until the server stops (either gracefully or due to error).
// Returns the error if the server failed, nil otherwise.
func (s *Server) Wait() error {
	<-s.Done()
	s.WaitForShutdown()

	if s.State() == serverbase.StateFailed {
		return s.LastError()
	}
	return nil
}

// isClosedConnError checks if the error is a "use of closed network connection" error.
func isClosedConnError(err error) bool {
	return errors.Is(err, net.ErrClosed)
}

