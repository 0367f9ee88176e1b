// SPDX-License-Identifier: MPL-2.0

package usage

import (
	"errors"
	"reflect"
	"testing"
)

func TestMerge_DefaultSuffix(t *testing.T) {
	t.Parallel()

	tree, err := Parse("--id ID")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	merged, err := Merge(tree, []string{"  --id ID  recipe id to use (default: 1)"})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	arg := merged[0].(Argument)
	if arg.ValueName != "ID" {
		t.Errorf("ValueName = %q, want %q", arg.ValueName, "ID")
	}
	if arg.Description != "recipe id to use " {
		t.Errorf("Description = %q, want %q", arg.Description, "recipe id to use ")
	}
	if arg.Default != "1" {
		t.Errorf("Default = %q, want %q", arg.Default, "1")
	}
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	tree, err := Parse("(--a A | --b)")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	before, _ := Parse("(--a A | --b)")

	if _, err := Merge(tree, []string{"--a NAME  first", "--b  second"}); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if !reflect.DeepEqual(tree, before) {
		t.Errorf("input tree was modified: %#v", tree)
	}
}

func TestMerge_NestedArgumentsAndAliases(t *testing.T) {
	t.Parallel()

	tree, err := Parse("[--help] (--from-path FROM_PATH | --from-ip FROM_IP [--verbose])")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	lines := []string{
		"  -h, --help            show this help message and exit",
		"  --from-path FROM_PATH",
		"                        file path to retrieve the Recipe from. (default: None)",
		"  --from-ip FROM_IP     IP address to retrieve the Recipe from.",
		"  --verbose             show access tokens",
		"                        for IP connections. (default: False)",
	}

	merged, err := Merge(tree, lines)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	help := merged[0].(Argument)
	if help.Description != "show this help message and exit" {
		t.Errorf("help.Description = %q", help.Description)
	}

	group := merged[1].(OrGroup)
	fromPath := group.Alternatives[0].Arguments[0]
	if fromPath.Description != "file path to retrieve the Recipe from. " || fromPath.Default != "None" {
		t.Errorf("from-path = %+v", fromPath)
	}
	verbose := group.Alternatives[1].Arguments[1]
	if verbose.Description != "show access tokens  for IP connections. " || verbose.Default != "False" {
		t.Errorf("verbose = %+v", verbose)
	}
}

func TestMerge_MissingDescription(t *testing.T) {
	t.Parallel()

	tree, err := Parse("--id ID (--a | --b)")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	_, err = Merge(tree, []string{"--id ID  identifier", "--a  first"})
	if !errors.Is(err, ErrLookup) {
		t.Fatalf("Merge() error = %v, want ErrLookup", err)
	}
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) || lookupErr.Name != "--b" {
		t.Errorf("LookupError = %+v, want Name --b", lookupErr)
	}
}

func TestFoldDescriptions(t *testing.T) {
	t.Parallel()

	got := FoldDescriptions([]string{
		"orphan continuation",
		"  --a  first",
		"        continued",
		"",
		"  --b",
	})
	want := []string{"--a  first  continued", "--b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FoldDescriptions() = %q, want %q", got, want)
	}
}

func TestParseDescription(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want Description
	}{
		{
			name: "flag only",
			line: "--verbose",
			want: Description{Name: "--verbose", Aliases: []string{"--verbose"}},
		},
		{
			name: "aliases with value",
			line: "-i ID, --id ID  the id",
			want: Description{Name: "-i", Aliases: []string{"-i", "--id"}, ValueName: "ID", Text: "the id"},
		},
		{
			name: "parenthesis without default",
			line: "--mode MODE  one of (a, b)",
			want: Description{Name: "--mode", Aliases: []string{"--mode"}, ValueName: "MODE", Text: "one of (a, b)"},
		},
		{
			name: "default containing parenthesis",
			line: "--expr E  expression (default: f(x))",
			want: Description{
				Name: "--expr", Aliases: []string{"--expr"}, ValueName: "E",
				Text: "expression ", Default: "f(x)", HasDefault: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ParseDescription(tt.line); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseDescription(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}
