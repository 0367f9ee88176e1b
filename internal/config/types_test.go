// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestTheme_IsValid(t *testing.T) {
	t.Parallel()

	for _, theme := range []Theme{ThemeDefault, ThemeCharm, ThemeDracula, ThemeCatppuccin, ThemeBase16} {
		if valid, errs := theme.IsValid(); !valid || errs != nil {
			t.Errorf("Theme(%q).IsValid() = %v, %v", theme, valid, errs)
		}
	}

	valid, errs := Theme("neon").IsValid()
	if valid || len(errs) != 1 || !errors.Is(errs[0], ErrInvalidTheme) {
		t.Errorf("Theme(neon).IsValid() = %v, %v", valid, errs)
	}
}

func TestLogLevelAndFormat_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		isValid func() (bool, []error)
		want    bool
		wantErr error
	}{
		{"debug", LogLevelDebug.IsValid, true, nil},
		{"error", LogLevelError.IsValid, true, nil},
		{"trace", LogLevel("trace").IsValid, false, ErrInvalidLogLevel},
		{"empty level", LogLevel("").IsValid, false, ErrInvalidLogLevel},
		{"logfmt", LogFormatLogfmt.IsValid, true, nil},
		{"xml", LogFormat("xml").IsValid, false, ErrInvalidLogFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			valid, errs := tt.isValid()
			if valid != tt.want {
				t.Errorf("IsValid() = %v, want %v", valid, tt.want)
			}
			if tt.wantErr != nil && (len(errs) == 0 || !errors.Is(errs[0], tt.wantErr)) {
				t.Errorf("errors = %v, want %v", errs, tt.wantErr)
			}
		})
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	if valid, errs := DefaultConfig().IsValid(); !valid {
		t.Fatalf("DefaultConfig().IsValid() = false: %v", errs)
	}

	cfg := DefaultConfig()
	cfg.Scripts.Dir = "  "
	cfg.Scripts.Concurrency = -1
	cfg.Serve.Port = 0

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("expected invalid config")
	}
	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("error should be *InvalidConfigError, got %T", errs[0])
	}
	if len(cfgErr.FieldErrors) != 2 {
		t.Errorf("expected scripts and port errors, got %v", cfgErr.FieldErrors)
	}
	if !errors.Is(cfgErr.FieldErrors[0], ErrInvalidScriptsConfig) {
		t.Errorf("first error should wrap ErrInvalidScriptsConfig: %v", cfgErr.FieldErrors[0])
	}
	var scriptsErr *InvalidScriptsConfigError
	if errors.As(cfgErr.FieldErrors[0], &scriptsErr) && len(scriptsErr.FieldErrors) != 2 {
		t.Errorf("expected dir and concurrency errors, got %v", scriptsErr.FieldErrors)
	}
}
