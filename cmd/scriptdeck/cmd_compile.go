// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCompileCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var (
		sel             = &selectionFlagValues{}
		quoted          bool
		allowIncomplete bool
	)

	cmd := &cobra.Command{
		Use:   "compile <script> [-- NAME[=VALUE]...]",
		Short: "Print the command line for a script and a set of choices",
		Long: `Print the command line for a script and a set of choices.

The line is the script's absolute path followed by one token per choice, in
the order given: NAME for plain flags and NAME=VALUE for flags with values.
Incomplete choices are refused unless --allow-incomplete is set.`,
		Example: `  scriptdeck compile recipe_conveyor --set --from-ip=10.0.0.1 --set --id=7
  scriptdeck compile recipe_conveyor --quoted -- --from-path="/tmp/my recipe.json"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.openSession(cmd.Context(), flags, args, sel)
			if err != nil {
				return err
			}

			if reqs := session.Unsatisfied(); len(reqs) > 0 && !allowIncomplete {
				return incompleteError(session.Script().ID, reqs)
			}

			inv, err := session.Compile()
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

	sel.register(cmd)
	cmd.Flags().BoolVarP(&quoted, "quoted", "q", false, "quote tokens for POSIX shells")
	cmd.Flags().BoolVar(&allowIncomplete, "allow-incomplete", false, "print the line even when required arguments are missing")
	return cmd
}
