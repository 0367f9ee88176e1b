// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/scriptdeck/scriptdeck/internal/catalog"
	"github.com/scriptdeck/scriptdeck/internal/issue"
	"github.com/scriptdeck/scriptdeck/internal/selection"
	"github.com/scriptdeck/scriptdeck/internal/testutil"
)

const recipeHelp = `usage: recipe_conveyor.py [-h] (--from-path FROM_PATH | --from-ip FROM_IP --id ID) [--verbose]

Recipe Conveyor (v1.0.0), maintained by LT.
Moves recipes between machines

options:
  -h, --help            show this help message and exit
  --from-path FROM_PATH
                        file path to read the recipe from (default: None)
  --from-ip FROM_IP     IP address to read the recipe from
  --id ID               recipe id to use (default: 1)
  --verbose             show access tokens
`

// stubRunner returns canned help output keyed by script base name.
type stubRunner map[string]string

func (r stubRunner) Help(_ context.Context, path string) (string, error) {
	return r[filepath.Base(path)], nil
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// scriptsDir creates recipe_conveyor.py and tools/backup.sh in a temp dir.
func scriptsDir(t *testing.T) string {
	t.Helper()
	return testutil.WriteScripts(t, "recipe_conveyor.py", "tools/backup.sh")
}

// runCLI executes the root command against dir with a stub runner and an
// empty config directory.
func runCLI(t *testing.T, dir string, args ...string) cliResult {
	t.Helper()
	return runCLIWithConfig(t, dir, t.TempDir(), args...)
}

func runCLIWithConfig(t *testing.T, dir, configDir string, args ...string) cliResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{
		Runner:     stubRunner{"recipe_conveyor.py": recipeHelp},
		ConfigDir:  configDir,
		Stdin:      strings.NewReader(""),
		Stdout:     &stdout,
		Stderr:     &stderr,
		IsTerminal: func() bool { return false },
	})

	root := NewRootCommand(app)
	root.SetArgs(append([]string{"--scripts-dir", dir}, args...))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SilenceErrors = true

	err := root.ExecuteContext(t.Context())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestList_Text(t *testing.T) {
	t.Parallel()

	res := runCLI(t, scriptsDir(t), "list")
	if res.err != nil {
		t.Fatalf("list error = %v", res.err)
	}
	for _, want := range []string{"recipe_conveyor.py", "Moves recipes between machines", "tools/", "tools/backup.sh", "(no arguments described)"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestList_JSON(t *testing.T) {
	t.Parallel()

	dir := scriptsDir(t)
	res := runCLI(t, dir, "list", "--format", "json")
	if res.err != nil {
		t.Fatalf("list error = %v", res.err)
	}

	var got catalogListing
	if err := json.Unmarshal([]byte(res.stdout), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, res.stdout)
	}
	if len(got.Scripts) != 2 {
		t.Fatalf("len(Scripts) = %d, want 2", len(got.Scripts))
	}
	recipe := got.Scripts[0]
	if recipe.ID != "recipe_conveyor.py" || recipe.Name != "Recipe Conveyor" || !recipe.Describable {
		t.Errorf("recipe = %+v", recipe)
	}
	if want := "[-h] (--from-path FROM_PATH | --from-ip FROM_IP --id ID) [--verbose]"; recipe.Usage != want {
		t.Errorf("Usage = %q, want %q", recipe.Usage, want)
	}
	if backup := got.Scripts[1]; backup.Folder != "tools" || backup.Describable {
		t.Errorf("backup = %+v", backup)
	}
}

func TestList_TOML(t *testing.T) {
	t.Parallel()

	res := runCLI(t, scriptsDir(t), "list", "--format", "toml")
	if res.err != nil {
		t.Fatalf("list error = %v", res.err)
	}

	var got catalogListing
	if err := toml.Unmarshal([]byte(res.stdout), &got); err != nil {
		t.Fatalf("output is not TOML: %v\n%s", err, res.stdout)
	}
	if len(got.Scripts) != 2 || got.Scripts[0].Version != "v1.0.0" {
		t.Errorf("listing = %+v", got)
	}
}

func TestList_Query(t *testing.T) {
	t.Parallel()

	res := runCLI(t, scriptsDir(t), "list", "recipe", "--format", "json")
	if res.err != nil {
		t.Fatalf("list error = %v", res.err)
	}
	var got catalogListing
	if err := json.Unmarshal([]byte(res.stdout), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Scripts) != 1 || got.Scripts[0].ID != "recipe_conveyor.py" {
		t.Errorf("filtered listing = %+v", got.Scripts)
	}
}

func TestList_UnknownFormat(t *testing.T) {
	t.Parallel()

	res := runCLI(t, scriptsDir(t), "list", "--format", "yaml")
	if res.err == nil || !strings.Contains(res.err.Error(), "unknown format") {
		t.Errorf("list error = %v, want unknown format", res.err)
	}
}

func TestShow_Markdown(t *testing.T) {
	t.Parallel()

	res := runCLI(t, scriptsDir(t), "show", "recipe_conveyor", "--markdown")
	if res.err != nil {
		t.Fatalf("show error = %v", res.err)
	}
	for _, want := range []string{
		"# Recipe Conveyor",
		"`recipe_conveyor.py` · version v1.0.0 · by LT",
		"recipe_conveyor [-h] (--from-path FROM_PATH | --from-ip FROM_IP --id ID) [--verbose]",
		"| `-h` | optional | - | show this help message and exit |",
		"| `--id ID` | group 1, choice 2 | 1 | recipe id to use |",
		"| `--verbose` | optional | - | show access tokens |",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("markdown missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestShow_Rendered(t *testing.T) {
	t.Parallel()

	res := runCLI(t, scriptsDir(t), "show", "tools/backup.sh")
	if res.err != nil {
		t.Fatalf("show error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "backup") || !strings.Contains(res.stdout, "does not describe its arguments") {
		t.Errorf("rendered output = %q", res.stdout)
	}
}

func TestShow_NoArgumentWithoutTerminal(t *testing.T) {
	t.Parallel()

	res := runCLI(t, scriptsDir(t), "show")
	if res.err == nil || !strings.Contains(res.err.Error(), "no terminal") {
		t.Errorf("show error = %v, want no terminal", res.err)
	}
}

func TestShow_UnknownScript(t *testing.T) {
	t.Parallel()

	res := runCLI(t, scriptsDir(t), "show", "recipeconv")

	var ae *issue.ActionableError
	if !errors.As(res.err, &ae) {
		t.Fatalf("show error = %v, want ActionableError", res.err)
	}
	if ae.Issue != issue.ScriptNotFoundId {
		t.Errorf("Issue = %v, want ScriptNotFoundId", ae.Issue)
	}
	if len(ae.Suggestions) == 0 || !strings.Contains(ae.Suggestions[0], "recipe_conveyor.py") {
		t.Errorf("Suggestions = %v, want a recipe_conveyor.py hint", ae.Suggestions)
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	res := runCLI(t, scriptsDir(t), "status", "recipe_conveyor", "--set", "--from-ip=10.0.0.1")
	if res.err != nil {
		t.Fatalf("status error = %v", res.err)
	}
	for _, want := range []string{"Recipe Conveyor (v1.0.0)", "SELECTED", "REQUIRED", "NOT_AVAILABLE", "Still required: --id"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("status missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestStatus_NoArguments(t *testing.T) {
	t.Parallel()

	res := runCLI(t, scriptsDir(t), "status", "backup")
	if res.err != nil {
		t.Fatalf("status error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "This script takes no arguments.") || !strings.Contains(res.stdout, "Complete") {
		t.Errorf("status output = %q", res.stdout)
	}
}

func TestCompile(t *testing.T) {
	t.Parallel()

	dir := scriptsDir(t)
	script := filepath.Join(dir, "recipe_conveyor.py")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "set flags in order",
			args: []string{"--set", "--verbose", "--set", "--from-ip=10.0.0.1", "--set", "--id=7"},
			want: script + " --verbose --from-ip=10.0.0.1 --id=7",
		},
		{
			name: "settings after dash",
			args: []string{"--", "--from-path=/tmp/r.json"},
			want: script + " --from-path=/tmp/r.json",
		},
		{
			name: "quoted",
			args: []string{"--quoted", "--", "--from-path=/tmp/my recipe.json"},
			want: script + " '--from-path=/tmp/my recipe.json'",
		},
		{
			name: "allow incomplete",
			args: []string{"--allow-incomplete", "--set", "--from-ip=10.0.0.1"},
			want: script + " --from-ip=10.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := runCLI(t, dir, append([]string{"compile", "recipe_conveyor"}, tt.args...)...)
			if res.err != nil {
				t.Fatalf("compile error = %v", res.err)
			}
			if got := strings.TrimSpace(res.stdout); got != tt.want {
				t.Errorf("compile = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompile_Incomplete(t *testing.T) {
	t.Parallel()

	res := runCLI(t, scriptsDir(t), "compile", "recipe_conveyor", "--set", "--from-ip=10.0.0.1")

	var exitErr *ExitError
	if !errors.As(res.err, &exitErr) || exitErr.Code != ExitSelection {
		t.Fatalf("compile error = %v, want ExitError code %d", res.err, ExitSelection)
	}
	if !strings.Contains(res.err.Error(), "still required: --id") {
		t.Errorf("error = %q", res.err)
	}
	if res.stdout != "" {
		t.Errorf("stdout = %q, want empty", res.stdout)
	}
}

func TestCompile_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"excluded alternative", []string{"--set", "--from-ip=1", "--set", "--from-path=x"}, selection.ErrArgumentLocked},
		{"unknown argument", []string{"--set", "--nope"}, selection.ErrUnknownArgument},
		{"missing value", []string{"--set", "--id"}, selection.ErrValueRequired},
		{"value on flag", []string{"--set", "--verbose=yes"}, selection.ErrValueNotAllowed},
		{"duplicate", []string{"--set", "--verbose", "--set", "--verbose"}, selection.ErrAlreadySelected},
	}

	dir := scriptsDir(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := runCLI(t, dir, append([]string{"compile", "recipe_conveyor"}, tt.args...)...)
			if !errors.Is(res.err, tt.wantErr) {
				t.Fatalf("compile error = %v, want %v", res.err, tt.wantErr)
			}
			var exitErr *ExitError
			if !errors.As(res.err, &exitErr) || exitErr.Code != ExitSelection {
				t.Errorf("error = %v, want ExitError code %d", res.err, ExitSelection)
			}
			var ae *issue.ActionableError
			if !errors.As(res.err, &ae) || !ae.HasSuggestions() || ae.Issue != issue.SelectionRejectedId {
				t.Errorf("ActionableError = %+v", ae)
			}
		})
	}
}

func TestMissingScriptsDir(t *testing.T) {
	t.Parallel()

	res := runCLI(t, filepath.Join(t.TempDir(), "missing"), "list")
	if !errors.Is(res.err, catalog.ErrScriptsDirNotFound) {
		t.Fatalf("list error = %v, want ErrScriptsDirNotFound", res.err)
	}
	var ae *issue.ActionableError
	if !errors.As(res.err, &ae) || ae.Issue != issue.ScriptsDirNotFoundId {
		t.Errorf("ActionableError = %+v", ae)
	}
}

func TestInvalidLogLevelFlag(t *testing.T) {
	t.Parallel()

	res := runCLI(t, scriptsDir(t), "--log-level", "loud", "list")
	if res.err == nil || !strings.Contains(res.err.Error(), "--log-level") {
		t.Errorf("error = %v, want --log-level failure", res.err)
	}
}

func TestSelect_RequiresTerminal(t *testing.T) {
	t.Parallel()

	res := runCLI(t, scriptsDir(t), "select")
	if res.err == nil || !strings.Contains(res.err.Error(), "interactive terminal") {
		t.Errorf("select error = %v", res.err)
	}
}

func TestConfigInitPathAndDump(t *testing.T) {
	t.Parallel()

	dir := scriptsDir(t)
	configDir := t.TempDir()
	cfgFile := filepath.Join(configDir, "config.cue")

	res := runCLIWithConfig(t, dir, configDir, "config", "path")
	if res.err != nil {
		t.Fatalf("config path error = %v", res.err)
	}
	if !strings.Contains(res.stdout, cfgFile) || !strings.Contains(res.stdout, "(not created)") {
		t.Errorf("config path before init = %q", res.stdout)
	}

	res = runCLIWithConfig(t, dir, configDir, "config", "init")
	if res.err != nil {
		t.Fatalf("config init error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "Created default configuration at "+cfgFile) {
		t.Errorf("config init = %q", res.stdout)
	}
	if _, err := os.Stat(cfgFile); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	res = runCLIWithConfig(t, dir, configDir, "config", "init")
	if res.err != nil || !strings.Contains(res.stdout, "use --force to overwrite") {
		t.Errorf("second config init = %q, %v", res.stdout, res.err)
	}

	res = runCLIWithConfig(t, dir, configDir, "config", "path")
	if res.err != nil || strings.Contains(res.stdout, "(not created)") {
		t.Errorf("config path after init = %q, %v", res.stdout, res.err)
	}

	res = runCLIWithConfig(t, dir, configDir, "config", "dump")
	if res.err != nil {
		t.Fatalf("config dump error = %v", res.err)
	}
	for _, want := range []string{"scripts: {", `dir: "` + dir + `"`, "ui: {"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("config dump missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	t.Run("cancelled prints nothing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		renderError(&buf, &ExitError{Code: ExitCancelled, Err: errors.New("cancelled")}, false)
		if buf.Len() != 0 {
			t.Errorf("output = %q, want empty", buf.String())
		}
	})

	t.Run("actionable error shows suggestions", func(t *testing.T) {
		t.Parallel()

		err := issue.NewErrorContext().
			WithOperation("find script").
			WithResource("foo").
			WithSuggestion("Did you mean foo.py?").
			Wrap(errors.New("no script matches")).
			BuildError()

		var buf bytes.Buffer
		renderError(&buf, &ExitError{Code: ExitSelection, Err: err}, false)
		out := buf.String()
		if !strings.Contains(out, "failed to find script: foo: no script matches") || !strings.Contains(out, "Did you mean foo.py?") {
			t.Errorf("output = %q", out)
		}
	})
}

func TestExitError(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	if got := (&ExitError{Code: 3, Err: inner}).Error(); got != "boom" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&ExitError{Code: 3}).Error(); got != "exit status 3" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(&ExitError{Code: 1, Err: inner}, inner) {
		t.Error("ExitError should unwrap to its cause")
	}
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
	})

	Version, Commit, BuildDate = "v1.2.3", "abc1234", "2026-06-15T10:00:00Z"
	if got, want := getVersionString(), "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}

	Version = "dev"
	if got, want := getVersionString(), "dev (built from source)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}
}
