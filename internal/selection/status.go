// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"fmt"
	"strings"

	"github.com/scriptdeck/scriptdeck/internal/usage"
)

const (
	// StatusAvailable marks an argument that may be chosen.
	StatusAvailable Status = iota
	// StatusSelected marks a chosen argument.
	StatusSelected
	// StatusRequired marks a member of the active alternative that still has to be chosen.
	StatusRequired
	// StatusNotAvailable marks a member of an alternative excluded by another choice.
	StatusNotAvailable
)

// NoActiveAlternative is the GroupStatus.Active value when no alternative has a selection.
const NoActiveAlternative = -1

type (
	// Status is the display status of one argument.
	Status int

	// Selection is one chosen argument and the value given for it.
	Selection struct {
		Argument usage.Argument
		Value    string
	}

	// ArgumentStatus pairs an argument with its display status.
	ArgumentStatus struct {
		Argument usage.Argument
		Status   Status
	}

	// GroupStatus holds the statuses of every alternative of an OrGroup.
	GroupStatus struct {
		Alternatives [][]ArgumentStatus
		// Active is the index of the alternative that holds a selection, or
		// NoActiveAlternative.
		Active int
	}

	// NodeStatus is the status of one top-level node. Exactly one field is set.
	NodeStatus struct {
		Argument *ArgumentStatus
		Group    *GroupStatus
	}

	// Board is the status of a whole tree, in tree order.
	Board []NodeStatus
)

// String returns the upper-case status label.
func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "AVAILABLE"
	case StatusSelected:
		return "SELECTED"
	case StatusRequired:
		return "REQUIRED"
	case StatusNotAvailable:
		return "NOT_AVAILABLE"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Token renders the selection the way it appears on the command line.
func (s Selection) Token() string {
	if s.Argument.Kind.TakesValue() {
		return s.Argument.Name + "=" + s.Value
	}
	return s.Argument.Name
}

// ComputeStatus derives the status of every argument in tree from selections.
// It has no side effects and keeps no state between calls.
func ComputeStatus(tree usage.Tree, selections []Selection) Board {
	selected := make(map[string]struct{}, len(selections))
	for _, s := range selections {
		selected[s.Argument.Name] = struct{}{}
	}

	board := make(Board, 0, len(tree))
	for _, n := range tree {
		switch n := n.(type) {
		case usage.Argument:
			st := argumentStatus(n, selected)
			board = append(board, NodeStatus{Argument: &st})
		case usage.OrGroup:
			g := orGroupStatus(n, selected)
			board = append(board, NodeStatus{Group: &g})
		case usage.RequiredGroup:
			g := GroupStatus{
				Alternatives: [][]ArgumentStatus{requiredGroupStatus(n, selected, false)},
				Active:       NoActiveAlternative,
			}
			if anySelected(n, selected) {
				g.Active = 0
			}
			board = append(board, NodeStatus{Group: &g})
		default:
			panic(fmt.Sprintf("selection: unhandled node type %T", n))
		}
	}
	return board
}

func argumentStatus(arg usage.Argument, selected map[string]struct{}) ArgumentStatus {
	if _, ok := selected[arg.Name]; ok {
		return ArgumentStatus{Argument: arg, Status: StatusSelected}
	}
	return ArgumentStatus{Argument: arg, Status: StatusAvailable}
}

func orGroupStatus(g usage.OrGroup, selected map[string]struct{}) GroupStatus {
	active := NoActiveAlternative
	for i, alt := range g.Alternatives {
		if anySelected(alt, selected) {
			active = i
			break
		}
	}

	st := GroupStatus{Alternatives: make([][]ArgumentStatus, len(g.Alternatives)), Active: active}
	for i, alt := range g.Alternatives {
		locked := active != NoActiveAlternative && active != i
		st.Alternatives[i] = requiredGroupStatus(alt, selected, locked)
	}
	return st
}

func requiredGroupStatus(g usage.RequiredGroup, selected map[string]struct{}, locked bool) []ArgumentStatus {
	out := make([]ArgumentStatus, len(g.Arguments))
	if locked {
		for i, arg := range g.Arguments {
			out[i] = ArgumentStatus{Argument: arg, Status: StatusNotAvailable}
		}
		return out
	}

	entered := anySelected(g, selected)
	for i, arg := range g.Arguments {
		switch _, ok := selected[arg.Name]; {
		case ok:
			out[i] = ArgumentStatus{Argument: arg, Status: StatusSelected}
		case entered && !arg.Kind.IsOptional():
			out[i] = ArgumentStatus{Argument: arg, Status: StatusRequired}
		default:
			out[i] = ArgumentStatus{Argument: arg, Status: StatusAvailable}
		}
	}
	return out
}

func anySelected(g usage.RequiredGroup, selected map[string]struct{}) bool {
	for _, arg := range g.Arguments {
		if _, ok := selected[arg.Name]; ok {
			return true
		}
	}
	return false
}

// Arguments flattens the board into tree order.
func (b Board) Arguments() []ArgumentStatus {
	var out []ArgumentStatus
	for _, n := range b {
		if n.Argument != nil {
			out = append(out, *n.Argument)
			continue
		}
		for _, alt := range n.Group.Alternatives {
			out = append(out, alt...)
		}
	}
	return out
}

// Lookup returns the status of the argument with the given display name.
func (b Board) Lookup(name string) (Status, bool) {
	for _, a := range b.Arguments() {
		if a.Argument.Name == name {
			return a.Status, true
		}
	}
	return 0, false
}

const (
	// RequirementArgument is a single argument that still has to be chosen.
	RequirementArgument RequirementKind = iota
	// RequirementChoice is an alternative group with no alternative chosen yet.
	RequirementChoice
)

type (
	// RequirementKind distinguishes the entries returned by Unsatisfied.
	RequirementKind int

	// Requirement is one thing that blocks a complete invocation.
	Requirement struct {
		Kind RequirementKind
		// Names holds the argument name, or for a choice the first name of each alternative.
		Names []string
	}
)

// String renders the requirement for messages.
func (r Requirement) String() string {
	if r.Kind == RequirementChoice {
		return "one of (" + strings.Join(r.Names, " | ") + ")"
	}
	return strings.Join(r.Names, " ")
}

// Unsatisfied lists what still blocks a complete invocation: every REQUIRED
// member, every unselected top-level argument that is not bracketed as optional
// and every alternative group without an active alternative.
func Unsatisfied(tree usage.Tree, selections []Selection) []Requirement {
	board := ComputeStatus(tree, selections)

	var reqs []Requirement
	for _, n := range board {
		if n.Argument != nil {
			if n.Argument.Status == StatusAvailable && !n.Argument.Argument.Kind.IsOptional() {
				reqs = append(reqs, Requirement{Kind: RequirementArgument, Names: []string{n.Argument.Argument.Name}})
			}
			continue
		}

		if n.Group.Active == NoActiveAlternative {
			names := make([]string, 0, len(n.Group.Alternatives))
			for _, alt := range n.Group.Alternatives {
				if len(alt) > 0 {
					names = append(names, alt[0].Argument.Name)
				}
			}
			reqs = append(reqs, Requirement{Kind: RequirementChoice, Names: names})
			continue
		}
		for _, alt := range n.Group.Alternatives {
			for _, a := range alt {
				if a.Status == StatusRequired {
					reqs = append(reqs, Requirement{Kind: RequirementArgument, Names: []string{a.Argument.Name}})
				}
			}
		}
	}
	return reqs
}
