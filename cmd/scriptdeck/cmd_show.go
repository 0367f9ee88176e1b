// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/scriptdeck/scriptdeck/internal/catalog"
	"github.com/scriptdeck/scriptdeck/internal/usage"
)

const showWordWrap = 100

func newShowCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show [script]",
		Short: "Show a script's metadata, usage and arguments",
		Long: `Show a script's metadata, canonical usage line and argument table.

The script may be given by ID (tools/recipe_conveyor.py), file stem
(recipe_conveyor) or title name. Without an argument an interactive chooser
is shown when a terminal is attached.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}
			res, err := app.buildCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			script, err := app.chooseScript(cfg, res.Catalog, args, "Show which script?")
			if err != nil {
				return err
			}

			md := scriptMarkdown(script)
			if raw {
				fmt.Fprint(app.stdout, md)
				return nil
			}
			out, err := renderMarkdown(md, app.terminal())
			if err != nil {
				return fmt.Errorf("render script details: %w", err)
			}
			fmt.Fprint(app.stdout, out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "markdown", false, "print the Markdown source instead of rendering it")
	return cmd
}

func renderMarkdown(md string, styled bool) (string, error) {
	style := glamour.WithStandardStyle("notty")
	if styled {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(showWordWrap))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// scriptMarkdown describes a script as a Markdown document.
func scriptMarkdown(s *catalog.Script) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", s.Name)

	meta := []string{"`" + s.ID + "`"}
	if s.Version != "" {
		meta = append(meta, "version "+s.Version)
	}
	if s.Author != "" {
		meta = append(meta, "by "+s.Author)
	}
	sb.WriteString(strings.Join(meta, " · ") + "\n\n")

	if s.Summary != "" {
		sb.WriteString(s.Summary + "\n\n")
	}
	fmt.Fprintf(&sb, "Path: `%s`\n\n", s.Path)

	if !s.Describable {
		sb.WriteString("_This script does not describe its arguments._\n")
		return sb.String()
	}

	sb.WriteString("## Usage\n\n")
	fmt.Fprintf(&sb, "```\n%s %s\n```\n\n", s.Stem(), s.Tree.String())

	if s.Tree.IsEmpty() {
		sb.WriteString("This script takes no arguments.\n")
		return sb.String()
	}

	sb.WriteString("## Arguments\n\n")
	sb.WriteString("| Argument | Requirement | Default | Description |\n")
	sb.WriteString("|---|---|---|---|\n")
	group := 0
	for _, n := range s.Tree {
		switch n := n.(type) {
		case usage.Argument:
			writeArgumentRow(&sb, n, requirement(n))
		case usage.OrGroup:
			group++
			for i, alt := range n.Alternatives {
				for _, arg := range alt.Arguments {
					req := fmt.Sprintf("group %d, choice %d", group, i+1)
					if arg.Kind.IsOptional() {
						req += " (optional)"
					}
					writeArgumentRow(&sb, arg, req)
				}
			}
		}
	}
	return sb.String()
}

func requirement(arg usage.Argument) string {
	if arg.Kind.IsOptional() {
		return "optional"
	}
	return "required"
}

func writeArgumentRow(sb *strings.Builder, arg usage.Argument, req string) {
	name := arg.Name
	if arg.Kind.TakesValue() {
		name += " " + arg.ValueName
	}
	def := arg.Default
	if def == "" {
		def = "-"
	}
	fmt.Fprintf(sb, "| `%s` | %s | %s | %s |\n",
		name, req, escapeCell(def), escapeCell(strings.TrimSpace(arg.Description)))
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
