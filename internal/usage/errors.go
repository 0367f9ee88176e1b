// SPDX-License-Identifier: MPL-2.0

package usage

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is the sentinel wrapped by SyntaxError.
	ErrSyntax = errors.New("usage syntax error")
	// ErrLookup is the sentinel wrapped by LookupError.
	ErrLookup = errors.New("argument description not found")
)

type (
	// SyntaxError reports a malformed usage line and the byte offset at fault.
	// It wraps ErrSyntax for errors.Is() compatibility.
	SyntaxError struct {
		Input  string
		Pos    int
		Reason string
	}

	// LookupError reports a grammar argument that has no matching description line.
	// It wraps ErrLookup for errors.Is() compatibility.
	LookupError struct {
		Name string
	}
)

// Error implements the error interface for SyntaxError.
func (e *SyntaxError) Error() string {
	if e.Pos < len(e.Input) {
		return fmt.Sprintf("usage syntax error at position %d (%q): %s", e.Pos, e.Input[e.Pos], e.Reason)
	}
	return fmt.Sprintf("usage syntax error at end of input: %s", e.Reason)
}

// Unwrap returns ErrSyntax for errors.Is() compatibility.
func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Error implements the error interface for LookupError.
func (e *LookupError) Error() string {
	return fmt.Sprintf("no description found for argument %q", e.Name)
}

// Unwrap returns ErrLookup for errors.Is() compatibility.
func (e *LookupError) Unwrap() error { return ErrLookup }
