// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyActive is returned when a script is selected while another is active.
	ErrAlreadyActive = errors.New("a script is already selected")
	// ErrNoActiveScript is returned when an operation needs an active script.
	ErrNoActiveScript = errors.New("no script selected")
	// ErrAlreadySelected is returned when an argument is added twice.
	ErrAlreadySelected = errors.New("argument already selected")
	// ErrUnknownArgument is returned when a name is not part of the active script's tree.
	ErrUnknownArgument = errors.New("unknown argument")
	// ErrArgumentLocked is returned when an argument belongs to an alternative
	// that another selection has excluded.
	ErrArgumentLocked = errors.New("argument excluded by another selection")
	// ErrValueRequired is returned when a value-bearing argument is added without a value.
	ErrValueRequired = errors.New("argument requires a value")
	// ErrValueNotAllowed is returned when a flag without a value slot is given one.
	ErrValueNotAllowed = errors.New("argument does not take a value")
	// ErrNotSelected is returned when removing an argument that is not selected.
	ErrNotSelected = errors.New("argument not selected")
)

// ArgumentError reports a rejected operation on a single argument.
// It wraps one of the package sentinels for errors.Is() compatibility.
type ArgumentError struct {
	Op   string
	Name string
	Err  error
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *ArgumentError) Unwrap() error { return e.Err }
