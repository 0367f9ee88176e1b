// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/scriptdeck/scriptdeck/internal/catalog"
	"github.com/scriptdeck/scriptdeck/internal/tui"
)

var (
	// ErrInvalidSSHConfig is the sentinel error wrapped by InvalidSSHConfigError.
	ErrInvalidSSHConfig = errors.New("invalid SSH server config")
	// ErrNoCatalog is returned when a session starts without a catalog.
	ErrNoCatalog = errors.New("no catalog available")
)

type (
	// CatalogFunc returns the catalog a new session should browse.
	CatalogFunc func() *catalog.Catalog

	// Config holds immutable configuration for the SSH server.
	Config struct {
		// Host is the address to bind to (default: localhost)
		Host string
		// Port is the port to listen on (0 = auto-select)
		Port int
		// HostKeyPath is the server key, generated on first start. An empty
		// path uses an ephemeral key.
		HostKeyPath string
		// AuthorizedKeysPath restricts logins to the listed public keys. An
		// empty path accepts every client.
		AuthorizedKeysPath string
		// Catalog provides the catalog for each new session.
		Catalog CatalogFunc
		// Theme is the selector theme.
		Theme tui.Theme
		// IdleTimeout closes sessions without input (0 = never)
		IdleTimeout time.Duration
		// ShutdownTimeout is the timeout for graceful shutdown (default: 10s)
		ShutdownTimeout time.Duration
		// StartupTimeout is the max time to wait for server to be ready (default: 5s)
		StartupTimeout time.Duration
	}

	// InvalidSSHConfigError is returned when an SSH server Config has invalid fields.
	// It wraps ErrInvalidSSHConfig for errors.Is() compatibility.
	InvalidSSHConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Host:            "localhost",
		Port:            0,
		Theme:           tui.ThemeDefault,
		ShutdownTimeout: 10 * time.Second,
		StartupTimeout:  5 * time.Second,
	}
}

// Validate checks the fields that New cannot default.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Host) == "" {
		errs = append(errs, errors.New("host must not be empty"))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Catalog == nil {
		errs = append(errs, errors.New("catalog provider is required"))
	}
	if c.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("idle timeout %s must not be negative", c.IdleTimeout))
	}
	if len(errs) > 0 {
		return &InvalidSSHConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidSSHConfigError.
func (e *InvalidSSHConfigError) Error() string {
	return fmt.Sprintf("invalid SSH server config: %s", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidSSHConfig for errors.Is() compatibility.
func (e *InvalidSSHConfigError) Unwrap() error { return ErrInvalidSSHConfig }
