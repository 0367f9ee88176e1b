// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scriptdeck/scriptdeck/internal/issue"
	"github.com/scriptdeck/scriptdeck/internal/selection"
)

// selectionFlagValues holds the flags shared by status and compile.
type selectionFlagValues struct {
	settings []string
}

func (f *selectionFlagValues) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.settings, "set", "s", nil,
		"select an argument as NAME or NAME=VALUE (repeatable, applied in order)")
}

// openSession builds the catalog, activates the script named by args[0] and
// applies the --set flags followed by any settings after "--".
func (a *App) openSession(ctx context.Context, flags *rootFlagValues, args []string, sel *selectionFlagValues) (*selection.Session, error) {
	cfg, err := a.loadConfig(ctx, flags)
	if err != nil {
		return nil, err
	}
	res, err := a.buildCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}
	script, err := findScript(res.Catalog, args[0])
	if err != nil {
		return nil, err
	}

	session := selection.NewSession()
	if err := session.SelectScript(script); err != nil {
		return nil, err
	}

	settings := append(append([]string(nil), sel.settings...), args[1:]...)
	if err := session.Apply(settings); err != nil {
		return nil, selectionError(script.ID, err)
	}
	return session, nil
}

// selectionError wraps a rejected setting with a hint that matches the reason.
func selectionError(scriptID string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("select arguments of " + scriptID).
		WithIssue(issue.SelectionRejectedId).
		Wrap(err)

	var argErr *selection.ArgumentError
	if errors.As(err, &argErr) {
		ctx.WithResource(argErr.Name)
	}

	switch {
	case errors.Is(err, selection.ErrUnknownArgument):
		ctx.WithSuggestion("Run 'scriptdeck show " + scriptID + "' to list its arguments")
	case errors.Is(err, selection.ErrArgumentLocked):
		ctx.WithSuggestion("The argument belongs to an alternative excluded by an earlier --set")
	case errors.Is(err, selection.ErrValueRequired):
		ctx.WithSuggestion("Give a value with --set NAME=VALUE")
	case errors.Is(err, selection.ErrValueNotAllowed):
		ctx.WithSuggestion("Drop the '=VALUE' part: the argument is a plain flag")
	case errors.Is(err, selection.ErrAlreadySelected):
		ctx.WithSuggestion("Each argument may be given only once")
	}
	return &ExitError{Code: ExitSelection, Err: ctx.BuildError()}
}

// incompleteError reports the requirements that block a complete invocation.
func incompleteError(scriptID string, reqs []selection.Requirement) error {
	names := make([]string, len(reqs))
	for i, r := range reqs {
		names[i] = r.String()
	}
	err := issue.NewErrorContext().
		WithOperation("compile " + scriptID).
		WithIssue(issue.SelectionIncompleteId).
		WithSuggestion("Add the missing arguments with --set").
		WithSuggestion("Pass --allow-incomplete to print the partial command anyway").
		Wrap(errors.New("still required: " + strings.Join(names, ", "))).
		BuildError()
	return &ExitError{Code: ExitSelection, Err: err}
}
