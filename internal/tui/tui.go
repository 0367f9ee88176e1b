// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Theme represents the visual theme for TUI components.
type Theme string

const (
	// ThemeDefault uses the default huh theme.
	ThemeDefault Theme = "default"
	// ThemeCharm uses the Charm theme.
	ThemeCharm Theme = "charm"
	// ThemeDracula uses the Dracula theme.
	ThemeDracula Theme = "dracula"
	// ThemeCatppuccin uses the Catppuccin theme.
	ThemeCatppuccin Theme = "catppuccin"
	// ThemeBase16 uses the Base16 theme.
	ThemeBase16 Theme = "base16"
)

// ErrCancelled is returned when the user leaves a prompt without a result.
var ErrCancelled = errors.New("cancelled by user")

// Config holds common configuration for TUI components.
type Config struct {
	// Theme specifies the visual theme to use.
	Theme Theme
	// Accessible enables accessible mode for screen readers.
	Accessible bool
	// Width specifies the width of the component (0 for auto).
	Width int
	// Input is where prompts read keys from (nil for stdin).
	Input io.Reader
	// Output specifies where to write the component output.
	Output io.Writer
}

// DefaultConfig returns the default configuration for TUI components.
// It automatically enables accessible mode when stdin is not a terminal or
// the ACCESSIBLE environment variable is set.
//
// When accessible mode is needed, output is directed to stderr so prompts
// aren't captured by command substitution ($() or backticks).
func DefaultConfig() Config {
	accessible := !isInputTerminal() || os.Getenv("ACCESSIBLE") != ""

	var output io.Writer = os.Stdout
	if accessible {
		output = os.Stderr
	}

	return Config{
		Theme:      ThemeDefault,
		Accessible: accessible,
		Width:      0,
		Output:     output,
	}
}

// isInputTerminal returns true if stdin is connected to a terminal.
func isInputTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ShouldUseAccessible returns true if accessible mode should be used.
// Even if cfg.Accessible is false, this returns true when stdin is not a
// terminal and no explicit input was configured.
func ShouldUseAccessible(cfg Config) bool {
	return cfg.Accessible || (cfg.Input == nil && !isInputTerminal())
}

// getOutputWriter returns cfg.Output, or stderr in accessible mode and stdout
// otherwise.
func getOutputWriter(cfg Config) io.Writer {
	if cfg.Output != nil {
		return cfg.Output
	}
	if ShouldUseAccessible(cfg) {
		return os.Stderr
	}
	return os.Stdout
}

// getHuhTheme converts a Theme to a huh.Theme.
func getHuhTheme(t Theme) *huh.Theme {
	switch t {
	case ThemeCharm:
		return huh.ThemeCharm()
	case ThemeDracula:
		return huh.ThemeDracula()
	case ThemeCatppuccin:
		return huh.ThemeCatppuccin()
	case ThemeBase16:
		return huh.ThemeBase16()
	default:
		return huh.ThemeBase()
	}
}

// newForm applies the shared theme, accessibility and IO settings to a form.
func newForm(cfg Config, groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).
		WithTheme(getHuhTheme(cfg.Theme)).
		WithAccessible(ShouldUseAccessible(cfg)).
		WithOutput(getOutputWriter(cfg))
	if cfg.Input != nil {
		form = form.WithInput(cfg.Input)
	}
	if cfg.Width > 0 {
		form = form.WithWidth(cfg.Width)
	}
	return form
}

// runForm runs form and maps an aborted form to ErrCancelled.
func runForm(form *huh.Form) error {
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return err
	}
	return nil
}
