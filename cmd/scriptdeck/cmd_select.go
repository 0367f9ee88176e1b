// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scriptdeck/scriptdeck/internal/issue"
	"github.com/scriptdeck/scriptdeck/internal/selection"
	"github.com/scriptdeck/scriptdeck/internal/tui"
)

func newSelectCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var quoted bool

	cmd := &cobra.Command{
		Use:   "select [script]",
		Short: "Pick a script and its arguments interactively",
		Long: `Pick a script and its arguments interactively.

The selector is drawn on stderr; the compiled command line is printed on
stdout, so the result can be captured:

  cmd=$(scriptdeck select --quoted) && eval "$cmd"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}
			if !app.terminal() {
				return issue.NewErrorContext().
					WithOperation("start selector").
					WithSuggestion("Use 'scriptdeck compile <script> --set NAME=VALUE' in scripts and pipelines").
					Wrap(errors.New("select needs an interactive terminal")).
					BuildError()
			}

			res, err := app.buildCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if res.Catalog.Len() == 0 {
				return noScriptsError(res.Catalog.Dir())
			}

			session := selection.NewSession()
			if len(args) == 1 {
				script, err := findScript(res.Catalog, args[0])
				if err != nil {
					return err
				}
				if err := session.SelectScript(script); err != nil {
					return err
				}
			}

			inv, err := tui.RunSelector(cmd.Context(), tui.SelectorOptions{
				Catalog: res.Catalog,
				Session: session,
				Config:  app.tuiConfig(cfg),
			})
			if errors.Is(err, tui.ErrCancelled) {
				return &ExitError{Code: ExitCancelled, Err: err}
			}
			if err != nil {
				return err
			}

			if quoted {
				fmt.Fprintln(app.stdout, inv.Quoted())
			} else {
				fmt.Fprintln(app.stdout, inv.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quoted, "quoted", "q", false, "quote tokens for POSIX shells")
	return cmd
}
