// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"strings"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/scriptdeck/scriptdeck/internal/catalog"
)

// Session is the selection state of one user. It is safe for concurrent use;
// every mutation happens in a single critical section and validates before it
// writes, so a rejected operation leaves the state unchanged.
type Session struct {
	mu         sync.Mutex
	script     *catalog.Script
	selections *orderedmap.OrderedMap[string, Selection]
}

// NewSession returns a session with no script selected.
func NewSession() *Session {
	return &Session{}
}

// SelectScript makes script the active script with no selections.
func (s *Session) SelectScript(script *catalog.Script) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.script != nil {
		return ErrAlreadyActive
	}
	s.script = script
	s.selections = orderedmap.New[string, Selection]()
	return nil
}

// ClearScript discards the active script and all selections.
func (s *Session) ClearScript() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.script = nil
	s.selections = nil
}

// Script returns the active script, or nil.
func (s *Session) Script() *catalog.Script {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.script
}

// Add appends the named argument with value to the selections.
func (s *Session) Add(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.script == nil {
		return &ArgumentError{Op: "add", Name: name, Err: ErrNoActiveScript}
	}
	if _, dup := s.selections.Get(name); dup {
		return &ArgumentError{Op: "add", Name: name, Err: ErrAlreadySelected}
	}
	arg, ok := s.script.Tree.Find(name)
	if !ok {
		return &ArgumentError{Op: "add", Name: name, Err: ErrUnknownArgument}
	}
	if st, _ := ComputeStatus(s.script.Tree, s.list()).Lookup(name); st == StatusNotAvailable {
		return &ArgumentError{Op: "add", Name: name, Err: ErrArgumentLocked}
	}
	if arg.Kind.TakesValue() && value == "" {
		return &ArgumentError{Op: "add", Name: name, Err: ErrValueRequired}
	}
	if !arg.Kind.TakesValue() && value != "" {
		return &ArgumentError{Op: "add", Name: name, Err: ErrValueNotAllowed}
	}

	s.selections.Set(name, Selection{Argument: arg, Value: value})
	return nil
}

// Remove drops the named argument, keeping the order of the others.
func (s *Session) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.script == nil {
		return &ArgumentError{Op: "remove", Name: name, Err: ErrNoActiveScript}
	}
	if _, present := s.selections.Delete(name); !present {
		return &ArgumentError{Op: "remove", Name: name, Err: ErrNotSelected}
	}
	return nil
}

// Apply adds each "name" or "name=value" setting in order and stops at the
// first rejected one.
func (s *Session) Apply(settings []string) error {
	for _, setting := range settings {
		name, value := SplitSetting(setting)
		if err := s.Add(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Selections returns a copy of the selections in order.
func (s *Session) Selections() []Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.list()
}

// Board returns the status of the active script's tree, or nil without one.
func (s *Session) Board() Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.script == nil {
		return nil
	}
	return ComputeStatus(s.script.Tree, s.list())
}

// Unsatisfied reports what still blocks a complete invocation.
func (s *Session) Unsatisfied() []Requirement {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.script == nil {
		return nil
	}
	return Unsatisfied(s.script.Tree, s.list())
}

// Compile renders the active script and its selections.
func (s *Session) Compile() (Invocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.script == nil {
		return Invocation{}, ErrNoActiveScript
	}
	return Compile(s.script, s.list()), nil
}

// list must be called with mu held.
func (s *Session) list() []Selection {
	if s.selections == nil {
		return nil
	}
	out := make([]Selection, 0, s.selections.Len())
	for pair := s.selections.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// SplitSetting splits "name=value" at the first '='. A setting without '='
// has an empty value.
func SplitSetting(setting string) (name, value string) {
	name, value, _ = strings.Cut(setting, "=")
	return strings.TrimSpace(name), value
}
