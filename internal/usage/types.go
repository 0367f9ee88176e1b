// SPDX-License-Identifier: MPL-2.0

package usage

import (
	"fmt"
	"strings"
)

const (
	// KindUnknown is a bare flag that carries no value placeholder.
	KindUnknown Kind = iota
	// KindRequiredWithValue is a bare flag followed by a value placeholder.
	KindRequiredWithValue
	// KindOptional is a bracketed flag without a value.
	KindOptional
	// KindOptionalWithValue is a bracketed flag with a value placeholder.
	KindOptionalWithValue
)

type (
	// Kind classifies an argument by whether it is optional and whether it takes a value.
	Kind int

	// Node is one element of an argument tree. The set of implementations is closed:
	// Argument, RequiredGroup and OrGroup. Consumers switch over all three.
	Node interface {
		isNode()
		// String renders the node back to usage grammar text.
		String() string
	}

	// Argument is a single flag of a usage line.
	Argument struct {
		// Token is the raw text the flag was parsed from, decoration included
		// (e.g. "[--rename NEW_NAME]").
		Token string
		// Name is the flag without decoration (e.g. "--rename"). It identifies the
		// argument within one tree.
		Name string
		// Kind tells whether the flag is optional and whether it takes a value.
		Kind Kind
		// ValueName is the placeholder shown for the value (e.g. "NEW_NAME").
		ValueName string
		// Default is the value advertised by a "(default: VALUE)" suffix.
		Default string
		// Description is the help text from the option block.
		Description string
	}

	// RequiredGroup is one alternative path of an OrGroup. Once any member is
	// chosen, every non-optional member must eventually be supplied.
	RequiredGroup struct {
		Arguments []Argument
	}

	// OrGroup holds mutually exclusive alternatives; at most one may be active.
	OrGroup struct {
		Alternatives []RequiredGroup
	}

	// Tree is the ordered sequence of top-level nodes of one usage line.
	Tree []Node
)

func (Argument) isNode()      {}
func (RequiredGroup) isNode() {}
func (OrGroup) isNode()       {}

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindRequiredWithValue:
		return "required-with-value"
	case KindOptional:
		return "optional"
	case KindOptionalWithValue:
		return "optional-with-value"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// TakesValue reports whether an argument of this kind must be given a value.
func (k Kind) TakesValue() bool {
	return k == KindRequiredWithValue || k == KindOptionalWithValue
}

// IsOptional reports whether the kind is one of the bracketed kinds.
func (k Kind) IsOptional() bool {
	return k == KindOptional || k == KindOptionalWithValue
}

// String renders the argument in usage grammar.
func (a Argument) String() string {
	s := a.Name
	if a.Kind.TakesValue() {
		valueName := a.ValueName
		if valueName == "" {
			valueName = "VALUE"
		}
		s += " " + valueName
	}
	if a.Kind.IsOptional() {
		return "[" + s + "]"
	}
	return s
}

// String renders the group members separated by spaces.
func (g RequiredGroup) String() string {
	parts := make([]string, len(g.Arguments))
	for i, arg := range g.Arguments {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}

// String renders the alternatives in parentheses separated by " | ".
func (g OrGroup) String() string {
	parts := make([]string, len(g.Alternatives))
	for i, alt := range g.Alternatives {
		parts[i] = alt.String()
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

// String renders the tree back to canonical usage text.
func (t Tree) String() string {
	parts := make([]string, len(t))
	for i, n := range t {
		parts[i] = n.String()
	}
	return strings.Join(parts, " ")
}

// Arguments returns every argument of the tree in document order, including
// the members of alternative groups.
func (t Tree) Arguments() []Argument {
	var args []Argument
	for _, n := range t {
		args = appendArguments(args, n)
	}
	return args
}

// Find returns the argument whose display name equals name.
func (t Tree) Find(name string) (Argument, bool) {
	for _, arg := range t.Arguments() {
		if arg.Name == name {
			return arg, true
		}
	}
	return Argument{}, false
}

// IsEmpty reports whether the tree has no nodes.
func (t Tree) IsEmpty() bool {
	return len(t) == 0
}

func appendArguments(dst []Argument, n Node) []Argument {
	switch n := n.(type) {
	case Argument:
		return append(dst, n)
	case RequiredGroup:
		return append(dst, n.Arguments...)
	case OrGroup:
		for _, alt := range n.Alternatives {
			dst = append(dst, alt.Arguments...)
		}
		return dst
	default:
		panic(fmt.Sprintf("usage: unhandled node type %T", n))
	}
}
