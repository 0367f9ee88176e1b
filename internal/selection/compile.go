// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/scriptdeck/scriptdeck/internal/catalog"
)

// Invocation is a compiled command line.
type Invocation struct {
	Path string
	Args []string
}

// Compile renders script and selections in selection order. Value-bearing
// arguments become "name=value"; the others are emitted bare.
func Compile(script *catalog.Script, selections []Selection) Invocation {
	inv := Invocation{Path: script.Path, Args: make([]string, 0, len(selections))}
	for _, s := range selections {
		inv.Args = append(inv.Args, s.Token())
	}
	return inv
}

// Argv returns the path followed by the arguments.
func (i Invocation) Argv() []string {
	return append([]string{i.Path}, i.Args...)
}

// String joins Argv with single spaces.
func (i Invocation) String() string {
	return strings.Join(i.Argv(), " ")
}

// Quoted joins Argv with each element quoted for a POSIX shell, for display.
func (i Invocation) Quoted() string {
	argv := i.Argv()
	quoted := make([]string, len(argv))
	for n, arg := range argv {
		q, err := syntax.Quote(arg, syntax.LangPOSIX)
		if err != nil {
			q = arg
		}
		quoted[n] = q
	}
	return strings.Join(quoted, " ")
}
