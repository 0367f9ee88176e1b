// SPDX-License-Identifier: MPL-2.0

package usage

import (
	"strings"
)

const (
	// closers end a bare flag or its value.
	closers = "])|"
	// openers start a new node; a bare flag followed by one of them has no value.
	openers = "-[("
)

type (
	// parser is a single-use cursor over one usage line.
	parser struct {
		input string
		pos   int
		seen  map[string]struct{}
	}

	// runNode remembers where a node started so later checks can report it.
	runNode struct {
		node Node
		pos  int
	}
)

// Parse turns a usage line into an unannotated argument tree.
//
// Arguments in the returned tree only carry what the usage line itself says:
// token, display name, kind and (for value-bearing flags) the placeholder name.
// Use Merge to attach descriptions and defaults.
func Parse(line string) (Tree, error) {
	p := &parser{input: line, seen: make(map[string]struct{})}

	runs, err := p.parseRuns(false)
	if err != nil {
		return nil, err
	}

	if len(runs) == 1 {
		tree := make(Tree, 0, len(runs[0]))
		for _, rn := range runs[0] {
			tree = append(tree, rn.node)
		}
		return tree, nil
	}

	// A top-level '|' makes the rest of the line one implicit alternative
	// group. Bracketed optionals that open the line stay outside it.
	lead := leadingOptionals(runs[0])
	tree := make(Tree, 0, lead+1)
	for _, rn := range runs[0][:lead] {
		tree = append(tree, rn.node)
	}
	runs[0] = runs[0][lead:]

	group, err := p.buildOrGroup(runs)
	if err != nil {
		return nil, err
	}
	return append(tree, group), nil
}

// leadingOptionals counts the bracketed optionals at the start of run. The last
// node is never counted so the first alternative keeps at least one member.
func leadingOptionals(run []runNode) int {
	n := 0
	for n < len(run)-1 {
		arg, ok := run[n].node.(Argument)
		if !ok || !arg.Kind.IsOptional() {
			break
		}
		n++
	}
	return n
}

// parseRuns reads nodes until the input ends or, inside a group, until the
// closing ')'. Each '|' starts a new run. The closing ')' is not consumed.
func (p *parser) parseRuns(inGroup bool) ([][]runNode, error) {
	var (
		runs [][]runNode
		run  []runNode
	)

loop:
	for {
		p.skipSpaces()
		if p.eof() {
			break
		}

		start := p.pos
		switch c := p.input[p.pos]; c {
		case '|':
			if len(run) == 0 {
				return nil, p.errorAt(start, "empty alternative before '|'")
			}
			runs = append(runs, run)
			run = nil
			p.pos++
		case ')':
			if !inGroup {
				return nil, p.errorAt(start, "unexpected ')' without matching '('")
			}
			break loop
		case ']':
			return nil, p.errorAt(start, "unexpected ']' without matching '['")
		case '[':
			arg, err := p.parseOptional()
			if err != nil {
				return nil, err
			}
			run = append(run, runNode{node: arg, pos: start})
		case '(':
			if inGroup {
				return nil, p.errorAt(start, "nested groups are not supported")
			}
			group, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			run = append(run, runNode{node: group, pos: start})
		case '-':
			arg, err := p.parseBare()
			if err != nil {
				return nil, err
			}
			run = append(run, runNode{node: arg, pos: start})
		default:
			return nil, p.errorAt(start, "unexpected character")
		}
	}

	if len(run) == 0 && len(runs) > 0 {
		return nil, p.errorAt(p.pos, "empty alternative after '|'")
	}
	return append(runs, run), nil
}

// parseGroup reads '(' altRun ('|' altRun)* ')'. Every run before, between and
// after the '|' separators becomes one RequiredGroup, including the whole
// leading run.
func (p *parser) parseGroup() (OrGroup, error) {
	start := p.pos
	p.pos++ // '('

	runs, err := p.parseRuns(true)
	if err != nil {
		return OrGroup{}, err
	}
	if p.eof() {
		return OrGroup{}, p.errorAt(start, "unterminated '('")
	}
	p.pos++ // ')'

	if len(runs) == 1 && len(runs[0]) == 0 {
		return OrGroup{}, p.errorAt(start, "empty group")
	}
	return p.buildOrGroup(runs)
}

func (p *parser) buildOrGroup(runs [][]runNode) (OrGroup, error) {
	group := OrGroup{Alternatives: make([]RequiredGroup, 0, len(runs))}
	for _, run := range runs {
		alt := RequiredGroup{Arguments: make([]Argument, 0, len(run))}
		for _, rn := range run {
			arg, ok := rn.node.(Argument)
			if !ok {
				return OrGroup{}, p.errorAt(rn.pos, "groups cannot be alternatives of a top-level '|'")
			}
			alt.Arguments = append(alt.Arguments, arg)
		}
		group.Alternatives = append(group.Alternatives, alt)
	}
	return group, nil
}

// parseOptional reads '[' innerText ']'.
func (p *parser) parseOptional() (Argument, error) {
	start := p.pos
	rel := strings.IndexByte(p.input[start+1:], ']')
	if rel < 0 {
		return Argument{}, p.errorAt(start, "unterminated '['")
	}
	end := start + 1 + rel
	inner := p.input[start+1 : end]

	if i := strings.IndexAny(inner, "[()|"); i >= 0 {
		return Argument{}, p.errorAt(start+1+i, "only a single flag may appear inside '[...]'")
	}

	fields := strings.Fields(inner)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "-") {
		return Argument{}, p.errorAt(start+1, "expected a flag inside '[...]'")
	}
	flagPos := start + 1 + strings.Index(inner, fields[0])
	if err := p.checkName(fields[0], flagPos); err != nil {
		return Argument{}, err
	}
	if err := p.claim(fields[0], flagPos); err != nil {
		return Argument{}, err
	}

	arg := Argument{
		Token: p.input[start : end+1],
		Name:  fields[0],
		Kind:  KindOptional,
	}
	if len(fields) > 1 {
		arg.Kind = KindOptionalWithValue
		arg.ValueName = strings.Join(fields[1:], " ")
	}

	p.pos = end + 1
	return arg, nil
}

// parseBare reads '-' flagChars (' ' valueToken)?.
func (p *parser) parseBare() (Argument, error) {
	start := p.pos
	nameEnd := p.scanUntil(start, " \t"+closers+"[(")
	name := p.input[start:nameEnd]
	if strings.TrimLeft(name, "-") == "" {
		return Argument{}, p.errorAt(start, "flag has no name")
	}
	if err := p.checkName(name, start); err != nil {
		return Argument{}, err
	}
	if err := p.claim(name, start); err != nil {
		return Argument{}, err
	}

	arg := Argument{Token: name, Name: name, Kind: KindUnknown}
	p.pos = nameEnd

	// A value follows only when the flag is separated by whitespace and the next
	// character neither closes the current node nor opens a new one.
	next := nameEnd
	for next < len(p.input) && isSpace(p.input[next]) {
		next++
	}
	if next == nameEnd || next == len(p.input) || strings.IndexByte(closers+openers, p.input[next]) >= 0 {
		return arg, nil
	}

	valueEnd := p.scanUntil(next, " \t"+closers)
	arg.Kind = KindRequiredWithValue
	arg.ValueName = p.input[next:valueEnd]
	arg.Token = p.input[start:valueEnd]
	p.pos = valueEnd
	return arg, nil
}

// checkName rejects '=' in a flag name. Values are written as a separate
// placeholder token, never as "--flag=VALUE".
func (p *parser) checkName(name string, pos int) error {
	if i := strings.IndexByte(name, '='); i >= 0 {
		return p.errorAt(pos+i, "'=' is not allowed in a flag name; separate the value with a space")
	}
	return nil
}

// claim records a display name and rejects duplicates, which would break
// argument identity.
func (p *parser) claim(name string, pos int) error {
	if _, dup := p.seen[name]; dup {
		return p.errorAt(pos, "duplicate argument "+name)
	}
	p.seen[name] = struct{}{}
	return nil
}

func (p *parser) scanUntil(from int, stop string) int {
	i := from
	for i < len(p.input) && strings.IndexByte(stop, p.input[i]) < 0 {
		i++
	}
	return i
}

func (p *parser) skipSpaces() {
	for !p.eof() && isSpace(p.input[p.pos]) {
		p.pos++
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) errorAt(pos int, reason string) *SyntaxError {
	return &SyntaxError{Input: p.input, Pos: pos, Reason: reason}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
