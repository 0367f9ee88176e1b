// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// ThemeDefault uses the base huh theme.
	ThemeDefault Theme = "default"
	// ThemeCharm uses the Charm theme.
	ThemeCharm Theme = "charm"
	// ThemeDracula uses the Dracula theme.
	ThemeDracula Theme = "dracula"
	// ThemeCatppuccin uses the Catppuccin theme.
	ThemeCatppuccin Theme = "catppuccin"
	// ThemeBase16 uses the Base16 theme.
	ThemeBase16 Theme = "base16"

	// LogLevelDebug logs everything, including skipped scripts.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs informational messages and above.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs warnings and errors.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"

	// LogFormatText is the human-readable charm log format.
	LogFormatText LogFormat = "text"
	// LogFormatJSON emits one JSON object per record.
	LogFormatJSON LogFormat = "json"
	// LogFormatLogfmt emits logfmt key=value records.
	LogFormatLogfmt LogFormat = "logfmt"

	// DefaultServePort is the SSH port used by `scriptdeck serve`.
	DefaultServePort = 23234
)

var (
	// ErrInvalidTheme is returned when a Theme value is not recognized.
	ErrInvalidTheme = errors.New("invalid theme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat is returned when a LogFormat value is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format")
	// ErrInvalidScriptsConfig is the sentinel error wrapped by InvalidScriptsConfigError.
	ErrInvalidScriptsConfig = errors.New("invalid scripts config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Theme selects the prompt and selector color theme.
	Theme string

	// InvalidThemeError is returned when a Theme value is not recognized.
	// It wraps ErrInvalidTheme for errors.Is() compatibility.
	InvalidThemeError struct {
		Value Theme
	}

	// LogLevel is the minimum level of emitted log records.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// LogFormat selects the log record encoding.
	LogFormat string

	// InvalidLogFormatError is returned when a LogFormat value is not recognized.
	// It wraps ErrInvalidLogFormat for errors.Is() compatibility.
	InvalidLogFormatError struct {
		Value LogFormat
	}

	// InvalidScriptsConfigError is returned when a ScriptsConfig has invalid fields.
	// It wraps ErrInvalidScriptsConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidScriptsConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Scripts configures discovery and help probing
		Scripts ScriptsConfig `json:"scripts" mapstructure:"scripts"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Log configures the process-wide logger
		Log LogConfig `json:"log" mapstructure:"log"`
		// Serve configures the SSH selector server
		Serve ServeConfig `json:"serve" mapstructure:"serve"`
		// Watch configures catalog refresh on file changes
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
	}

	// ScriptsConfig configures where scripts live and how they are asked for help.
	ScriptsConfig struct {
		// Dir is the scripts directory
		Dir string `json:"dir" mapstructure:"dir"`
		// Patterns select the files to catalog (doublestar syntax)
		Patterns []string `json:"patterns" mapstructure:"patterns"`
		// Probe selects the cataloged files that are run with HelpFlag
		Probe []string `json:"probe" mapstructure:"probe"`
		// HelpFlag is appended to every help invocation
		HelpFlag string `json:"help_flag" mapstructure:"help_flag"`
		// HelpTimeout bounds a single help invocation
		HelpTimeout time.Duration `json:"help_timeout" mapstructure:"help_timeout"`
		// Concurrency limits parallel help invocations (0 means GOMAXPROCS)
		Concurrency int `json:"concurrency" mapstructure:"concurrency"`
		// Interpreters maps file extensions (without the dot) to interpreter command lines
		Interpreters map[string]string `json:"interpreters" mapstructure:"interpreters"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Theme sets the prompt theme
		Theme Theme `json:"theme" mapstructure:"theme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Accessible forces accessible (line-based) prompts
		Accessible bool `json:"accessible" mapstructure:"accessible"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level  LogLevel  `json:"level" mapstructure:"level"`
		Format LogFormat `json:"format" mapstructure:"format"`
	}

	// ServeConfig configures the SSH server.
	ServeConfig struct {
		Host string `json:"host" mapstructure:"host"`
		Port int    `json:"port" mapstructure:"port"`
		// HostKeyPath is where the server host key is stored (generated if missing)
		HostKeyPath string `json:"host_key_path" mapstructure:"host_key_path"`
	}

	// WatchConfig configures catalog refresh.
	WatchConfig struct {
		// Debounce coalesces bursts of file events
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
		// Ignore lists additional doublestar patterns to skip
		Ignore []string `json:"ignore" mapstructure:"ignore"`
	}
)

// String returns the string representation of the Theme.
func (t Theme) String() string { return string(t) }

// IsValid returns whether the Theme is one of the defined themes,
// and a list of validation errors if it is not.
func (t Theme) IsValid() (bool, []error) {
	switch t {
	case ThemeDefault, ThemeCharm, ThemeDracula, ThemeCatppuccin, ThemeBase16:
		return true, nil
	default:
		return false, []error{&InvalidThemeError{Value: t}}
	}
}

// Error implements the error interface for InvalidThemeError.
func (e *InvalidThemeError) Error() string {
	return fmt.Sprintf("invalid theme %q (valid: default, charm, dracula, catppuccin, base16)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidThemeError) Unwrap() error { return ErrInvalidTheme }

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels,
// and a list of validation errors if it is not.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the string representation of the LogFormat.
func (f LogFormat) String() string { return string(f) }

// IsValid returns whether the LogFormat is one of the defined formats,
// and a list of validation errors if it is not.
func (f LogFormat) IsValid() (bool, []error) {
	switch f {
	case LogFormatText, LogFormatJSON, LogFormatLogfmt:
		return true, nil
	default:
		return false, []error{&InvalidLogFormatError{Value: f}}
	}
}

// Error implements the error interface for InvalidLogFormatError.
func (e *InvalidLogFormatError) Error() string {
	return fmt.Sprintf("invalid log format %q (valid: text, json, logfmt)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLogFormatError) Unwrap() error { return ErrInvalidLogFormat }

// IsValid returns whether the ScriptsConfig has valid fields.
// CUE validates file input; this also covers env and flag overrides.
func (c ScriptsConfig) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Dir) == "" {
		errs = append(errs, errors.New("scripts.dir must not be empty"))
	}
	if c.HelpTimeout < 0 {
		errs = append(errs, fmt.Errorf("scripts.help_timeout %s must not be negative", c.HelpTimeout))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("scripts.concurrency %d must not be negative", c.Concurrency))
	}
	if c.HelpFlag != "" && !strings.HasPrefix(c.HelpFlag, "-") {
		errs = append(errs, fmt.Errorf("scripts.help_flag %q must start with '-'", c.HelpFlag))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidScriptsConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidScriptsConfigError.
func (e *InvalidScriptsConfigError) Error() string {
	return fmt.Sprintf("invalid scripts config: %s", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidScriptsConfig for errors.Is() compatibility.
func (e *InvalidScriptsConfigError) Unwrap() error { return ErrInvalidScriptsConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to Scripts.IsValid(), UI.Theme.IsValid(), Log.Level.IsValid()
// and Log.Format.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Scripts.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.Theme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Log.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.Serve.Port <= 0 || c.Serve.Port > 65535 {
		errs = append(errs, fmt.Errorf("serve.port %d out of range", c.Serve.Port))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Scripts: ScriptsConfig{
			Dir:          "scripts",
			Patterns:     []string{"*.py", "*/*.sh"},
			Probe:        []string{"**/*.py"},
			HelpFlag:     "--help",
			HelpTimeout:  10 * time.Second,
			Concurrency:  0,
			Interpreters: map[string]string{"py": "python3"},
		},
		UI: UIConfig{
			Theme:      ThemeDefault,
			Verbose:    false,
			Accessible: false,
		},
		Log: LogConfig{
			Level:  LogLevelWarn,
			Format: LogFormatText,
		},
		Serve: ServeConfig{
			Host:        "localhost",
			Port:        DefaultServePort,
			HostKeyPath: "", // Will use <ConfigDir>/ssh_host_ed25519 if empty
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
			Ignore:   []string{},
		},
	}
}
