// SPDX-License-Identifier: MPL-2.0

package usage

import (
	"fmt"
	"strings"
)

const (
	// foldSeparator joins a continuation line to the flag line it belongs to.
	foldSeparator = "  "
	defaultPrefix = "(default: "
)

// Description is one folded entry of an option block.
type Description struct {
	// Name is the canonical display name: the first alias of the flag part.
	Name string
	// Aliases holds every comma-separated spelling of the flag, Name included.
	Aliases []string
	// ValueName is the placeholder printed after the canonical alias, if any.
	ValueName string
	// Text is the description with any "(default: ...)" suffix removed.
	Text string
	// Default is the advertised default value; valid only when HasDefault is set.
	Default    string
	HasDefault bool
}

// FoldDescriptions trims each line and appends lines that do not start with a
// flag marker to the preceding flag line. Continuation lines that appear before
// any flag line are dropped.
func FoldDescriptions(lines []string) []string {
	var folded []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "-") {
			folded = append(folded, line)
			continue
		}
		if len(folded) == 0 {
			continue
		}
		folded[len(folded)-1] += foldSeparator + line
	}
	return folded
}

// ParseDescription extracts the fields of a single folded option line.
func ParseDescription(line string) Description {
	flagPart, text := line, ""
	if i := strings.Index(line, "  "); i >= 0 {
		flagPart = line[:i]
		text = strings.TrimLeft(line[i:], " ")
	}

	var d Description
	for i, alias := range strings.Split(flagPart, ",") {
		name, value, _ := strings.Cut(strings.TrimSpace(alias), " ")
		if name == "" {
			continue
		}
		d.Aliases = append(d.Aliases, name)
		if i == 0 {
			d.Name = name
			d.ValueName = strings.TrimSpace(value)
		}
	}

	if strings.HasSuffix(text, ")") {
		if i := strings.LastIndex(text, defaultPrefix); i >= 0 {
			d.Default = text[i+len(defaultPrefix) : len(text)-1]
			d.HasDefault = true
			text = text[:i]
		}
	}
	d.Text = text

	return d
}

// ParseDescriptions folds the raw option block and parses every entry.
func ParseDescriptions(lines []string) []Description {
	folded := FoldDescriptions(lines)
	descs := make([]Description, len(folded))
	for i, line := range folded {
		descs[i] = ParseDescription(line)
	}
	return descs
}

// Merge returns a copy of tree whose arguments carry the value names, defaults
// and help text of the matching description lines. The input tree is left
// untouched. An argument without a matching entry fails the whole merge with a
// *LookupError.
func Merge(tree Tree, lines []string) (Tree, error) {
	index := indexDescriptions(ParseDescriptions(lines))

	merged := make(Tree, 0, len(tree))
	for _, n := range tree {
		m, err := mergeNode(n, index)
		if err != nil {
			return nil, err
		}
		merged = append(merged, m)
	}
	return merged, nil
}

// indexDescriptions maps every alias to its entry. The first entry to claim an
// alias keeps it.
func indexDescriptions(descs []Description) map[string]Description {
	index := make(map[string]Description, len(descs))
	for _, d := range descs {
		for _, alias := range d.Aliases {
			if _, taken := index[alias]; !taken {
				index[alias] = d
			}
		}
	}
	return index
}

func mergeNode(n Node, index map[string]Description) (Node, error) {
	switch n := n.(type) {
	case Argument:
		return annotate(n, index)
	case RequiredGroup:
		return mergeGroup(n, index)
	case OrGroup:
		out := OrGroup{Alternatives: make([]RequiredGroup, len(n.Alternatives))}
		for i, alt := range n.Alternatives {
			g, err := mergeGroup(alt, index)
			if err != nil {
				return nil, err
			}
			out.Alternatives[i] = g
		}
		return out, nil
	default:
		panic(fmt.Sprintf("usage: unhandled node type %T", n))
	}
}

func mergeGroup(g RequiredGroup, index map[string]Description) (RequiredGroup, error) {
	out := RequiredGroup{Arguments: make([]Argument, len(g.Arguments))}
	for i, arg := range g.Arguments {
		a, err := annotate(arg, index)
		if err != nil {
			return RequiredGroup{}, err
		}
		out.Arguments[i] = a
	}
	return out, nil
}

func annotate(arg Argument, index map[string]Description) (Argument, error) {
	d, ok := index[arg.Name]
	if !ok {
		return Argument{}, &LookupError{Name: arg.Name}
	}
	if d.ValueName != "" {
		arg.ValueName = d.ValueName
	}
	if d.HasDefault {
		arg.Default = d.Default
	}
	arg.Description = d.Text
	return arg, nil
}
