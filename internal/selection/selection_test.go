// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"errors"
	"reflect"
	"slices"
	"sync"
	"testing"

	"github.com/scriptdeck/scriptdeck/internal/catalog"
	"github.com/scriptdeck/scriptdeck/internal/usage"
)

const recipeUsage = "[-h] [--credentials CREDENTIALS] (--from-path FROM_PATH | --from-ip FROM_IP --id ID " +
	"[--version VERSION] [--delete-origin]) [--rename NEW_NAME] [--to-path TO_PATH] [--to-ip TO_IP] [--verbose]"

func mustScript(t *testing.T, line string) *catalog.Script {
	t.Helper()

	tree, err := usage.Parse(line)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", line, err)
	}
	return &catalog.Script{ID: "tool.py", Name: "tool", Path: "/scripts/tool.py", Describable: true, Tree: tree}
}

func mustSession(t *testing.T, line string) *Session {
	t.Helper()

	s := NewSession()
	if err := s.SelectScript(mustScript(t, line)); err != nil {
		t.Fatalf("SelectScript() error = %v", err)
	}
	return s
}

func status(t *testing.T, s *Session, name string) Status {
	t.Helper()

	st, ok := s.Board().Lookup(name)
	if !ok {
		t.Fatalf("no status for %s", name)
	}
	return st
}

func TestScenario_OptionalAndRequiredWithValue(t *testing.T) {
	t.Parallel()

	s := mustSession(t, "[--foo] --bar VAL")
	if err := s.Add("--bar", "x"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	inv, err := s.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got := inv.String(); got != "/scripts/tool.py --bar=x" {
		t.Errorf("String() = %q", got)
	}
}

func TestScenario_MutualExclusion(t *testing.T) {
	t.Parallel()

	s := mustSession(t, "(--a|--b)")
	if err := s.Add("--a", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got := status(t, s, "--a"); got != StatusSelected {
		t.Errorf("--a = %v, want SELECTED", got)
	}
	if got := status(t, s, "--b"); got != StatusNotAvailable {
		t.Errorf("--b = %v, want NOT_AVAILABLE", got)
	}

	if err := s.Add("--b", ""); !errors.Is(err, ErrArgumentLocked) {
		t.Errorf("Add(--b) error = %v, want ErrArgumentLocked", err)
	}

	if err := s.Remove("--a"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	for _, name := range []string{"--a", "--b"} {
		if got := status(t, s, name); got != StatusAvailable {
			t.Errorf("%s = %v, want AVAILABLE", name, got)
		}
	}
}

func TestScenario_TopLevelAlternatives(t *testing.T) {
	t.Parallel()

	s := mustSession(t, "--from-path PATH|--from-ip IP --id ID")
	if err := s.Add("--from-ip", "10.0.0.1"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	want := map[string]Status{
		"--from-ip":   StatusSelected,
		"--id":        StatusRequired,
		"--from-path": StatusNotAvailable,
	}
	for name, st := range want {
		if got := status(t, s, name); got != st {
			t.Errorf("%s = %v, want %v", name, got, st)
		}
	}

	reqs := s.Unsatisfied()
	if len(reqs) != 1 || reqs[0].String() != "--id" {
		t.Errorf("Unsatisfied() = %v, want [--id]", reqs)
	}
}

func TestAdd_ValidationOrder(t *testing.T) {
	t.Parallel()

	s := mustSession(t, "(--a A | --b) [--c] [--d D]")
	if err := s.Add("--b", ""); err != nil {
		t.Fatalf("Add(--b) error = %v", err)
	}

	tests := []struct {
		name    string
		arg     string
		value   string
		wantErr error
	}{
		{"already selected beats value checks", "--b", "v", ErrAlreadySelected},
		{"unknown", "--zzz", "", ErrUnknownArgument},
		{"locked beats missing value", "--a", "", ErrArgumentLocked},
		{"value required", "--d", "", ErrValueRequired},
		{"value not allowed", "--c", "v", ErrValueNotAllowed},
	}
	for _, tt := range tests {
		err := s.Add(tt.arg, tt.value)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: Add(%s, %q) error = %v, want %v", tt.name, tt.arg, tt.value, err, tt.wantErr)
		}
		var argErr *ArgumentError
		if !errors.As(err, &argErr) || argErr.Name != tt.arg || argErr.Op != "add" {
			t.Errorf("%s: error = %#v, want *ArgumentError for %s", tt.name, err, tt.arg)
		}
	}

	if got := s.Selections(); len(got) != 1 || got[0].Argument.Name != "--b" {
		t.Errorf("rejected adds changed state: %v", got)
	}
}

func TestSession_NoActiveScript(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if err := s.Add("--a", ""); !errors.Is(err, ErrNoActiveScript) {
		t.Errorf("Add() error = %v, want ErrNoActiveScript", err)
	}
	if err := s.Remove("--a"); !errors.Is(err, ErrNoActiveScript) {
		t.Errorf("Remove() error = %v, want ErrNoActiveScript", err)
	}
	if _, err := s.Compile(); !errors.Is(err, ErrNoActiveScript) {
		t.Errorf("Compile() error = %v, want ErrNoActiveScript", err)
	}
	if s.Board() != nil || s.Unsatisfied() != nil || s.Selections() != nil {
		t.Error("expected empty state without a script")
	}
}

func TestSession_SelectAndClearScript(t *testing.T) {
	t.Parallel()

	s := mustSession(t, "--a")
	if err := s.SelectScript(mustScript(t, "--b")); !errors.Is(err, ErrAlreadyActive) {
		t.Errorf("SelectScript() error = %v, want ErrAlreadyActive", err)
	}
	if err := s.Add("--a", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	s.ClearScript()
	if s.Script() != nil {
		t.Error("Script() should be nil after ClearScript")
	}

	if err := s.SelectScript(mustScript(t, "--a")); err != nil {
		t.Fatalf("SelectScript() error = %v", err)
	}
	if got := s.Selections(); len(got) != 0 {
		t.Errorf("Selections() = %v, want none after reselect", got)
	}
}

func TestSession_RemoveNotSelected(t *testing.T) {
	t.Parallel()

	s := mustSession(t, "--a [--b]")
	if err := s.Remove("--b"); !errors.Is(err, ErrNotSelected) {
		t.Errorf("Remove() error = %v, want ErrNotSelected", err)
	}
}

func TestSession_OrderPreservation(t *testing.T) {
	t.Parallel()

	s := mustSession(t, "[--a] [--b] [--c] [--d D]")
	if err := s.Apply([]string{"--a", "--b", "--c", "--d=1"}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if err := s.Remove("--b"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := s.Add("--b", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	inv, _ := s.Compile()
	if want := []string{"--a", "--c", "--d=1", "--b"}; !slices.Equal(inv.Args, want) {
		t.Errorf("Args = %v, want %v", inv.Args, want)
	}
}

func TestComputeStatus_Pure(t *testing.T) {
	t.Parallel()

	script := mustScript(t, recipeUsage)
	sels := []Selection{{Argument: usage.Argument{Name: "--from-ip", Kind: usage.KindRequiredWithValue}, Value: "x"}}
	before := slices.Clone(sels)

	first := ComputeStatus(script.Tree, sels)
	second := ComputeStatus(script.Tree, sels)
	if !reflect.DeepEqual(first, second) {
		t.Error("ComputeStatus returned different boards for the same input")
	}
	if !reflect.DeepEqual(sels, before) {
		t.Error("ComputeStatus modified its input")
	}
}

func TestComputeStatus_OptionalMembersStayOptional(t *testing.T) {
	t.Parallel()

	s := mustSession(t, recipeUsage)
	if err := s.Add("--from-ip", "10.0.0.1"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	want := map[string]Status{
		"-h":              StatusAvailable,
		"--credentials":   StatusAvailable,
		"--from-path":     StatusNotAvailable,
		"--from-ip":       StatusSelected,
		"--id":            StatusRequired,
		"--version":       StatusAvailable,
		"--delete-origin": StatusAvailable,
		"--verbose":       StatusAvailable,
	}
	for name, st := range want {
		if got := status(t, s, name); got != st {
			t.Errorf("%s = %v, want %v", name, got, st)
		}
	}

	board := s.Board()
	if board[2].Group == nil || board[2].Group.Active != 1 {
		t.Errorf("group status = %+v, want active alternative 1", board[2].Group)
	}
}

func TestUnsatisfied(t *testing.T) {
	t.Parallel()

	s := mustSession(t, "--out FILE (--a | --b B) [--c]")
	got := s.Unsatisfied()
	if len(got) != 2 || got[0].String() != "--out" || got[1].String() != "one of (--a | --b)" {
		t.Errorf("Unsatisfied() = %v", got)
	}

	if err := s.Apply([]string{"--out=x", "--b=y"}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := s.Unsatisfied(); len(got) != 0 {
		t.Errorf("Unsatisfied() = %v, want none", got)
	}
}

func TestTopLevelAlternatives_LeadingOptionalStaysAvailable(t *testing.T) {
	t.Parallel()

	s := mustSession(t, "[-h] --from-path P | --from-ip IP --id ID")
	if err := s.Add("--from-ip", "10.0.0.1"); err != nil {
		t.Fatalf("Add(--from-ip) error = %v", err)
	}

	board := s.Board()
	if st, _ := board.Lookup("-h"); st != StatusAvailable {
		t.Errorf("-h status = %v, want AVAILABLE", st)
	}
	if st, _ := board.Lookup("--from-path"); st != StatusNotAvailable {
		t.Errorf("--from-path status = %v, want NOT_AVAILABLE", st)
	}
	if err := s.Add("-h", ""); err != nil {
		t.Errorf("Add(-h) error = %v", err)
	}
}

func TestUnsatisfied_BareTopLevelFlag(t *testing.T) {
	t.Parallel()

	s := mustSession(t, "--force --out FILE [--dry-run]")
	if err := s.Add("--out", "x"); err != nil {
		t.Fatalf("Add(--out) error = %v", err)
	}

	got := s.Unsatisfied()
	if len(got) != 1 || got[0].Kind != RequirementArgument || got[0].String() != "--force" {
		t.Fatalf("Unsatisfied() = %v, want [--force]", got)
	}

	if err := s.Add("--force", ""); err != nil {
		t.Fatalf("Add(--force) error = %v", err)
	}
	if got := s.Unsatisfied(); len(got) != 0 {
		t.Errorf("Unsatisfied() = %v, want none", got)
	}
}

func TestRoundTrip_RequiredFlagsAppearOnce(t *testing.T) {
	t.Parallel()

	s := mustSession(t, recipeUsage)
	if err := s.Apply([]string{"--from-ip=172.16.14.14", "--id=42", "--to-ip=172.16.14.12"}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if reqs := s.Unsatisfied(); len(reqs) != 0 {
		t.Fatalf("Unsatisfied() = %v", reqs)
	}

	inv, err := s.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	want := "/scripts/tool.py --from-ip=172.16.14.14 --id=42 --to-ip=172.16.14.12"
	if got := inv.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	for _, name := range []string{"--from-ip", "--id"} {
		n := 0
		for _, a := range inv.Args {
			if a == name || len(a) > len(name) && a[:len(name)+1] == name+"=" {
				n++
			}
		}
		if n != 1 {
			t.Errorf("%s appears %d times", name, n)
		}
	}
}

func TestSession_ConcurrentAdds(t *testing.T) {
	t.Parallel()

	s := mustSession(t, "(--a | --b)")
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for _, name := range []string{"--a", "--b", "--a", "--b"} {
		wg.Go(func() {
			if s.Add(name, "") == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	if accepted != 1 {
		t.Errorf("accepted = %d, want exactly 1", accepted)
	}
}

func TestInvocation(t *testing.T) {
	t.Parallel()

	inv := Invocation{Path: "/my scripts/run.py", Args: []string{"--name=a b", "--v"}}
	if got := inv.String(); got != "/my scripts/run.py --name=a b --v" {
		t.Errorf("String() = %q", got)
	}
	if got := inv.Argv(); len(got) != 3 || got[0] != inv.Path {
		t.Errorf("Argv() = %q", got)
	}
	if got := inv.Quoted(); got != "'/my scripts/run.py' '--name=a b' --v" {
		t.Errorf("Quoted() = %q", got)
	}
}

func TestSplitSetting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, name, value string
	}{
		{"--a", "--a", ""},
		{"--id=42", "--id", "42"},
		{"--expr=a=b", "--expr", "a=b"},
		{" --x =", "--x", ""},
	}
	for _, tt := range tests {
		if name, value := SplitSetting(tt.in); name != tt.name || value != tt.value {
			t.Errorf("SplitSetting(%q) = (%q, %q), want (%q, %q)", tt.in, name, value, tt.name, tt.value)
		}
	}
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	want := []string{"AVAILABLE", "SELECTED", "REQUIRED", "NOT_AVAILABLE"}
	for i, w := range want {
		if got := Status(i).String(); got != w {
			t.Errorf("Status(%d) = %q, want %q", i, got, w)
		}
	}
}
