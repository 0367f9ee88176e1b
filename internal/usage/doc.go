// SPDX-License-Identifier: MPL-2.0

// Package usage parses command usage lines into argument grammars and annotates
// them with the per-flag description lines printed by a script's --help output.
//
// The grammar is small:
//
//	usage   := node*
//	node    := optional | group | bareArg
//	optional:= '[' innerText ']'
//	group   := '(' altRun ('|' altRun)* ')'
//	altRun  := (bareArg | optional)+
//	bareArg := '-' flagChars (' ' valueToken)?
//
// A '|' outside any parentheses turns the top-level sequence into one implicit
// alternative group. Bracketed optionals that open the line are kept as
// top-level nodes; everything after them belongs to an alternative, so
// choosing one alternative locks the members of the others.
//
// Flag names cannot contain '='. A value is always a separate placeholder token.
//
// A value token is attached to a bare flag unless the next non-space character
// closes a node (']', ')', '|') or opens a new one ('-', '[', '('). There is no
// escape syntax, so a value placeholder can never start with one of those.
//
// File organization:
//   - types.go: Kind, Argument, RequiredGroup, OrGroup, Tree
//   - parser.go: Parse
//   - merge.go: ParseDescriptions, Merge
//   - errors.go: SyntaxError, LookupError
package usage
