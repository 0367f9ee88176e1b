// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/scriptdeck/scriptdeck/internal/issue"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.cue"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return dir
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	defaults := DefaultConfig()
	if cfg.Scripts.Dir != defaults.Scripts.Dir {
		t.Errorf("Scripts.Dir = %q, want %q", cfg.Scripts.Dir, defaults.Scripts.Dir)
	}
	if !slices.Equal(cfg.Scripts.Patterns, defaults.Scripts.Patterns) {
		t.Errorf("Scripts.Patterns = %v, want %v", cfg.Scripts.Patterns, defaults.Scripts.Patterns)
	}
	if cfg.Scripts.HelpTimeout != 10*time.Second {
		t.Errorf("Scripts.HelpTimeout = %v, want 10s", cfg.Scripts.HelpTimeout)
	}
	if cfg.Scripts.Interpreters["py"] != "python3" {
		t.Errorf("Scripts.Interpreters = %v", cfg.Scripts.Interpreters)
	}
	if cfg.Serve.Port != DefaultServePort {
		t.Errorf("Serve.Port = %d, want %d", cfg.Serve.Port, DefaultServePort)
	}
	if cfg.Log.Level != LogLevelWarn || cfg.Log.Format != LogFormatText {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	dir := writeConfig(t, `
scripts: {
	dir: "/opt/recipes"
	help_timeout: "2s"
	probe: ["**/*.py", "**/*.rb"]
	interpreters: {rb: "ruby -W0"}
}
ui: theme: "dracula"
watch: debounce: "250ms"
`)

	cfg, err := NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Scripts.Dir != "/opt/recipes" {
		t.Errorf("Scripts.Dir = %q", cfg.Scripts.Dir)
	}
	if cfg.Scripts.HelpTimeout != 2*time.Second {
		t.Errorf("Scripts.HelpTimeout = %v", cfg.Scripts.HelpTimeout)
	}
	if !slices.Equal(cfg.Scripts.Probe, []string{"**/*.py", "**/*.rb"}) {
		t.Errorf("Scripts.Probe = %v", cfg.Scripts.Probe)
	}
	if cfg.Scripts.Interpreters["rb"] != "ruby -W0" {
		t.Errorf("Scripts.Interpreters = %v", cfg.Scripts.Interpreters)
	}
	if cfg.UI.Theme != ThemeDracula {
		t.Errorf("UI.Theme = %q", cfg.UI.Theme)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("Watch.Debounce = %v", cfg.Watch.Debounce)
	}
	// Unset keys keep their defaults.
	if cfg.Scripts.HelpFlag != "--help" {
		t.Errorf("Scripts.HelpFlag = %q, want default", cfg.Scripts.HelpFlag)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"unknown theme", `ui: theme: "neon"`, "ui.theme"},
		{"port out of range", `serve: port: 70000`, "serve.port"},
		{"bad duration", `scripts: help_timeout: "soon"`, "scripts.help_timeout"},
		{"unknown field", `scripts: folder: "x"`, "folder"},
		{"help flag without dash", `scripts: help_flag: "help"`, "scripts.help_flag"},
		{"syntax error", `scripts: {`, "config.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := writeConfig(t, tt.content)
			_, err := NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("Load() expected error")
			}

			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error should be *issue.ActionableError, got %T", err)
			}
			if ae.Issue != issue.ConfigLoadFailedId {
				t.Errorf("Issue = %d, want ConfigLoadFailedId", ae.Issue)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.cue")
	_, err := NewProvider().Load(t.Context(), LoadOptions{ConfigFilePath: missing})
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("Load() error = %v, want config file not found", err)
	}
}

func TestLoad_ExplicitFileWins(t *testing.T) {
	t.Parallel()

	dirCfg := writeConfig(t, `scripts: dir: "from-dir"`)
	explicit := filepath.Join(writeConfig(t, `scripts: dir: "from-flag"`), "config.cue")

	cfg, err := NewProvider().Load(t.Context(), LoadOptions{ConfigFilePath: explicit, ConfigDirPath: dirCfg})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scripts.Dir != "from-flag" {
		t.Errorf("Scripts.Dir = %q, want from-flag", cfg.Scripts.Dir)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := writeConfig(t, `scripts: dir: "from-file"`)
	t.Setenv("SCRIPTDECK_SCRIPTS_DIR", "from-env")
	t.Setenv("SCRIPTDECK_SCRIPTS_PATTERNS", "*.py,tools/*.sh")
	t.Setenv("SCRIPTDECK_LOG_LEVEL", "debug")

	cfg, err := NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scripts.Dir != "from-env" {
		t.Errorf("Scripts.Dir = %q, want from-env", cfg.Scripts.Dir)
	}
	if !slices.Equal(cfg.Scripts.Patterns, []string{"*.py", "tools/*.sh"}) {
		t.Errorf("Scripts.Patterns = %v", cfg.Scripts.Patterns)
	}
	if cfg.Log.Level != LogLevelDebug {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	t.Setenv("SCRIPTDECK_LOG_FORMAT", "xml")

	_, err := NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
	}
	if !errors.Is(err, ErrInvalidLogFormat) {
		t.Errorf("Load() error = %v, want ErrInvalidLogFormat in chain", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Scripts.Dir = "/srv/scripts"
	cfg.Scripts.Interpreters["sh"] = "bash --norc"
	cfg.Serve.HostKeyPath = "/etc/scriptdeck/host_key"
	cfg.Watch.Ignore = []string{"**/__pycache__/**"}

	dir := writeConfig(t, GenerateCUE(cfg))
	loaded, err := NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load(GenerateCUE()) error = %v", err)
	}

	if loaded.Scripts.Dir != cfg.Scripts.Dir || loaded.Serve.HostKeyPath != cfg.Serve.HostKeyPath {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.Scripts.Interpreters["sh"] != "bash --norc" || loaded.Scripts.Interpreters["py"] != "python3" {
		t.Errorf("Interpreters = %v", loaded.Scripts.Interpreters)
	}
	if !slices.Equal(loaded.Watch.Ignore, cfg.Watch.Ignore) {
		t.Errorf("Watch.Ignore = %v", loaded.Watch.Ignore)
	}
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested")
	path, written, err := WriteDefault(dir, false)
	if err != nil || !written {
		t.Fatalf("WriteDefault() = %q, %v, %v", path, written, err)
	}
	if path != filepath.Join(dir, "config.cue") {
		t.Errorf("path = %q", path)
	}

	if err := os.WriteFile(path, []byte(`ui: theme: "charm"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, written, _ := WriteDefault(dir, false); written {
		t.Error("WriteDefault() should not overwrite without force")
	}
	if _, written, _ := WriteDefault(dir, true); !written {
		t.Error("WriteDefault(force) should overwrite")
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), `"charm"`) {
		t.Error("forced write should restore defaults")
	}
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	empty := t.TempDir()
	if p, err := ResolvePath(LoadOptions{ConfigDirPath: empty}); err != nil || p != "" {
		t.Errorf("ResolvePath(empty) = %q, %v", p, err)
	}

	dir := writeConfig(t, "")
	if p, _ := ResolvePath(LoadOptions{ConfigDirPath: dir}); p != filepath.Join(dir, "config.cue") {
		t.Errorf("ResolvePath() = %q", p)
	}
	if p, _ := ResolvePath(LoadOptions{ConfigFilePath: "/x.cue", ConfigDirPath: dir}); p != "/x.cue" {
		t.Errorf("ResolvePath(explicit) = %q", p)
	}
}

func TestConfigDir_Override(t *testing.T) {
	SetConfigDirOverride("/tmp/scriptdeck-test")
	t.Cleanup(Reset)

	dir, err := ConfigDir()
	if err != nil || dir != "/tmp/scriptdeck-test" {
		t.Errorf("ConfigDir() = %q, %v", dir, err)
	}
}
