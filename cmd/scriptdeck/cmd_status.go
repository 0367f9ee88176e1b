// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scriptdeck/scriptdeck/internal/selection"
	"github.com/scriptdeck/scriptdeck/internal/tui"
)

func newStatusCommand(app *App, flags *rootFlagValues) *cobra.Command {
	sel := &selectionFlagValues{}

	cmd := &cobra.Command{
		Use:   "status <script> [-- NAME[=VALUE]...]",
		Short: "Show the display status of every argument after a set of choices",
		Long: `Show the display status of every argument of a script after applying
the given choices in order.

Each argument is AVAILABLE, SELECTED, REQUIRED (a member of the chosen
alternative that is still missing) or NOT_AVAILABLE (excluded by a choice in
another alternative).`,
		Example: `  scriptdeck status recipe_conveyor --set --from-ip=10.0.0.1
  scriptdeck status recipe_conveyor -- --from-path=/tmp/r.json --verbose`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.openSession(cmd.Context(), flags, args, sel)
			if err != nil {
				return err
			}
			writeStatus(app.stdout, session)
			return nil
		},
	}

	sel.register(cmd)
	return cmd
}

func writeStatus(w io.Writer, session *selection.Session) {
	script := session.Script()

	title := script.Name
	if script.Version != "" {
		title += " (" + script.Version + ")"
	}
	fmt.Fprintln(w, TitleStyle.Render(title)+"  "+SubtitleStyle.Render(script.ID))
	fmt.Fprintln(w)

	board := session.Board()
	if len(board) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("This script takes no arguments."))
	} else {
		fmt.Fprint(w, tui.RenderBoard(board, session.Selections(), -1))
	}
	fmt.Fprintln(w)

	reqs := session.Unsatisfied()
	if len(reqs) == 0 {
		fmt.Fprintln(w, SuccessStyle.Render("Complete"))
	} else {
		names := make([]string, len(reqs))
		for i, r := range reqs {
			names[i] = r.String()
		}
		fmt.Fprintln(w, WarningStyle.Render("Still required: ")+strings.Join(names, ", "))
	}

	if inv, err := session.Compile(); err == nil {
		fmt.Fprintln(w, CmdStyle.Render(inv.Quoted()))
	}
}
