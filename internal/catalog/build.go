// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/scriptdeck/scriptdeck/internal/usage"
)

// DefaultHelpTimeout bounds a single help invocation when no timeout is configured.
const DefaultHelpTimeout = 10 * time.Second

var (
	// DefaultPatterns selects the scripts to catalog.
	DefaultPatterns = []string{"*.py", "*/*.sh"}
	// DefaultProbe selects the cataloged scripts that are asked for help.
	DefaultProbe = []string{"**/*.py"}

	// ErrScriptsDirNotFound is returned when the scripts directory does not exist.
	ErrScriptsDirNotFound = errors.New("scripts directory not found")
	// ErrInvalidPattern is returned when a discovery pattern is not valid doublestar syntax.
	ErrInvalidPattern = errors.New("invalid script pattern")
	// ErrNoRunner is returned when scripts must be probed but Options.Runner is nil.
	ErrNoRunner = errors.New("no help runner configured")
)

type (
	// Options configures catalog discovery and probing.
	Options struct {
		// Dir is the scripts directory.
		Dir string
		// Patterns select the files to catalog (default: DefaultPatterns).
		Patterns []string
		// Probe selects the cataloged files that are asked for help (default: DefaultProbe).
		Probe []string
		// Timeout bounds each help invocation (default: DefaultHelpTimeout).
		Timeout time.Duration
		// Concurrency limits parallel help invocations (default: GOMAXPROCS).
		Concurrency int
		// Runner produces help output. Required when any file matches Probe.
		Runner HelpRunner
	}

	// Result bundles a catalog with the diagnostics produced while building it.
	Result struct {
		Catalog     *Catalog
		Diagnostics []Diagnostic
	}

	// probeResult is the slot each probing goroutine fills in.
	probeResult struct {
		script *Script
		diag   *Diagnostic
	}
)

// Discover returns the slash-separated IDs of the files under dir that match
// any of patterns, sorted and without duplicates.
func Discover(dir string, patterns []string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrScriptsDirNotFound, dir)
	}

	fsys := os.DirFS(dir)
	seen := make(map[string]struct{})
	var ids []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			ids = append(ids, m)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// Build discovers scripts under opts.Dir, probes the ones matching opts.Probe
// in parallel and returns the resulting catalog. Only a missing directory, an
// invalid pattern or a canceled context fail the build; per-script problems
// become diagnostics.
func Build(ctx context.Context, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve scripts directory: %w", err)
	}
	ids, err := Discover(dir, opts.Patterns)
	if err != nil {
		return nil, err
	}
	for _, p := range opts.Probe {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, p)
		}
	}

	if opts.Runner == nil && slices.ContainsFunc(ids, func(id string) bool { return matchesAny(opts.Probe, id) }) {
		return nil, ErrNoRunner
	}

	results := make([]probeResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, id := range ids {
		script := baseScript(dir, id)
		if !matchesAny(opts.Probe, id) {
			results[i] = probeResult{script: script}
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = probe(gctx, opts, script)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{}
	scripts := make([]*Script, 0, len(results))
	for _, r := range results {
		if r.diag != nil {
			res.Diagnostics = append(res.Diagnostics, *r.diag)
		}
		if r.script != nil {
			scripts = append(scripts, r.script)
		}
	}
	res.Catalog = New(dir, scripts)
	slog.Debug("catalog built", "dir", dir, "scripts", res.Catalog.Len(), "diagnostics", len(res.Diagnostics))
	return res, nil
}

// Describe turns help output into a script record. It returns a nil script and
// a diagnostic when the script must be skipped.
func Describe(base *Script, output string) (*Script, *Diagnostic) {
	h := ParseHelpText(output)
	if !h.HasTitle {
		return base, nil
	}
	if !h.HasUsage {
		return nil, &Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeHelpMalformed,
			Message:  "help output has a title but no usage line",
			Path:     base.Path,
		}
	}

	tree, err := usage.Parse(h.Usage)
	if err != nil {
		return nil, &Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeUsageSyntax,
			Message:  "usage line does not parse",
			Path:     base.Path,
			Cause:    err,
		}
	}
	tree, err = usage.Merge(tree, h.Options)
	if err != nil {
		return nil, &Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeDescriptionMissing,
			Message:  "option block does not describe every argument",
			Path:     base.Path,
			Cause:    err,
		}
	}

	s := *base
	s.Name = h.Name
	s.Version = h.Version
	s.Author = h.Author
	s.Summary = h.Summary
	s.Describable = true
	s.Tree = tree
	return &s, nil
}

func probe(ctx context.Context, opts Options, base *Script) probeResult {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	output, err := opts.Runner.Help(ctx, base.Path)
	if err != nil {
		d := &Diagnostic{
			Severity: SeverityError,
			Code:     CodeHelpInvocationFailed,
			Message:  "help invocation failed",
			Path:     base.Path,
			Cause:    err,
		}
		if errors.Is(err, ErrHelpTimeout) || errors.Is(err, context.DeadlineExceeded) {
			d.Severity = SeverityWarning
			d.Code = CodeHelpTimeout
			d.Message = fmt.Sprintf("help invocation exceeded %s", opts.Timeout)
		}
		slog.Debug("script skipped", "path", base.Path, "code", d.Code, "error", err)
		return probeResult{diag: d}
	}

	script, diag := Describe(base, output)
	if diag != nil {
		slog.Debug("script skipped", "path", base.Path, "code", diag.Code, "error", diag.Cause)
	}
	return probeResult{script: script, diag: diag}
}

func baseScript(dir, id string) *Script {
	folder := path.Dir(id)
	if folder == "." {
		folder = ""
	}
	s := &Script{
		ID:     id,
		Path:   filepath.Join(dir, filepath.FromSlash(id)),
		Folder: folder,
	}
	s.Name = s.Stem()
	return s
}

func matchesAny(patterns []string, id string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, id); ok {
			return true
		}
	}
	return false
}

func (o Options) withDefaults() Options {
	if len(o.Patterns) == 0 {
		o.Patterns = DefaultPatterns
	}
	if o.Probe == nil {
		o.Probe = DefaultProbe
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultHelpTimeout
	}
	if o.Concurrency <= 0 {
		o.Concurrency = runtime.GOMAXPROCS(0)
	}
	return o
}

// IsScriptFile reports whether the slash-separated id matches any of patterns.
// The watcher uses it to ignore unrelated file events.
func IsScriptFile(patterns []string, id string) bool {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	return matchesAny(patterns, strings.TrimPrefix(id, "./"))
}
