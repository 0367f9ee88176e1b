// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"
)

// DefaultHelpFlag is passed to scripts when no help flag is configured.
const DefaultHelpFlag = "--help"

// waitDelay bounds how long a killed help process may keep its pipes open.
const waitDelay = 2 * time.Second

var (
	// ErrHelpFailed is the sentinel wrapped by HelpError for invocation failures.
	ErrHelpFailed = errors.New("help invocation failed")
	// ErrHelpTimeout is the sentinel wrapped by HelpError when the deadline expires.
	ErrHelpTimeout = errors.New("help invocation timed out")
)

type (
	// HelpRunner returns the help output of the script at path.
	HelpRunner interface {
		Help(ctx context.Context, path string) (string, error)
	}

	// ExecRunner runs scripts as child processes to read their help output.
	ExecRunner struct {
		// HelpFlag is appended to the command line (default: DefaultHelpFlag).
		HelpFlag string
		// Interpreters maps a lower-case file extension without the dot ("py")
		// to an interpreter command line ("python3 -B"). Scripts without an
		// entry are executed directly.
		Interpreters map[string]string
	}

	// HelpError describes a failed help invocation.
	HelpError struct {
		Argv   []string
		Stderr string
		Err    error
		kind   error
	}
)

// Error implements the error interface.
func (e *HelpError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.kind, strings.Join(e.Argv, " "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap returns the sentinel and the underlying cause.
func (e *HelpError) Unwrap() []error {
	return []error{e.kind, e.Err}
}

// Command returns the argv used to ask the script at path for help.
func (r *ExecRunner) Command(path string) ([]string, error) {
	var argv []string
	if interp, ok := r.Interpreters[extension(path)]; ok && strings.TrimSpace(interp) != "" {
		words, err := shellwords.Parse(interp)
		if err != nil {
			return nil, fmt.Errorf("invalid interpreter %q: %w", interp, err)
		}
		argv = append(argv, words...)
	}

	flag := r.HelpFlag
	if flag == "" {
		flag = DefaultHelpFlag
	}
	return append(argv, path, flag), nil
}

// Help runs the script with its help flag and returns standard output.
func (r *ExecRunner) Help(ctx context.Context, path string) (string, error) {
	argv, err := r.Command(path)
	if err != nil {
		return "", &HelpError{Argv: []string{path}, Err: err, kind: ErrHelpFailed}
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = filepath.Dir(path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		kind := ErrHelpFailed
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			kind = ErrHelpTimeout
			err = ctxErr
		}
		return "", &HelpError{Argv: argv, Stderr: strings.TrimSpace(stderr.String()), Err: err, kind: kind}
	}
	return stdout.String(), nil
}

func extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
