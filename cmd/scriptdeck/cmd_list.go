// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/scriptdeck/scriptdeck/internal/catalog"
	"github.com/scriptdeck/scriptdeck/internal/tui"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatTOML = "toml"
)

type (
	// scriptListing is the machine-readable form of one catalog entry.
	scriptListing struct {
		ID          string `json:"id" toml:"id"`
		Name        string `json:"name" toml:"name"`
		Folder      string `json:"folder,omitempty" toml:"folder,omitempty"`
		Path        string `json:"path" toml:"path"`
		Version     string `json:"version,omitempty" toml:"version,omitempty"`
		Author      string `json:"author,omitempty" toml:"author,omitempty"`
		Summary     string `json:"summary,omitempty" toml:"summary,omitempty"`
		Describable bool   `json:"describable" toml:"describable"`
		Usage       string `json:"usage,omitempty" toml:"usage,omitempty"`
	}

	// catalogListing is the document written by `list --format json|toml`.
	catalogListing struct {
		Dir     string          `json:"dir" toml:"dir"`
		Scripts []scriptListing `json:"scripts" toml:"scripts"`
	}
)

func newListCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List cataloged scripts grouped by folder",
		Long: `List cataloged scripts grouped by folder.

An optional query fuzzy-filters the scripts by ID and name.`,
		Args:    cobra.MaximumNArgs(1),
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}
			res, err := app.buildCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			cat := res.Catalog
			if len(args) == 1 {
				cat = catalog.New(cat.Dir(), tui.FilterScripts(cat.Scripts(), args[0]))
			}
			return writeListing(app.stdout, cat, format, app.verbose)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or toml")
	return cmd
}

func writeListing(w io.Writer, cat *catalog.Catalog, format string, verbose bool) error {
	switch format {
	case formatText:
		writeTextListing(w, cat, verbose)
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newCatalogListing(cat))
	case formatTOML:
		return toml.NewEncoder(w).Encode(newCatalogListing(cat))
	default:
		return fmt.Errorf("unknown format %q (expected %s, %s or %s)", format, formatText, formatJSON, formatTOML)
	}
}

func newCatalogListing(cat *catalog.Catalog) catalogListing {
	scripts := cat.Scripts()
	out := catalogListing{Dir: cat.Dir(), Scripts: make([]scriptListing, len(scripts))}
	for i, s := range scripts {
		out.Scripts[i] = scriptListing{
			ID:          s.ID,
			Name:        s.Name,
			Folder:      s.Folder,
			Path:        s.Path,
			Version:     s.Version,
			Author:      s.Author,
			Summary:     s.Summary,
			Describable: s.Describable,
			Usage:       s.Tree.String(),
		}
	}
	return out
}

func writeTextListing(w io.Writer, cat *catalog.Catalog, verbose bool) {
	if cat.Len() == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No scripts found in "+cat.Dir()))
		return
	}

	fmt.Fprintln(w, TitleStyle.Render("Scripts")+SubtitleStyle.Render(" ("+cat.Dir()+")"))
	for _, folder := range cat.Folders() {
		fmt.Fprintln(w)
		if folder.Name != "" {
			fmt.Fprintln(w, SubtitleStyle.Render(folder.Name+"/"))
		}

		width := 0
		for _, s := range folder.Scripts {
			width = max(width, len(s.ID))
		}
		for _, s := range folder.Scripts {
			line := "  " + CmdStyle.Render(s.ID) + strings.Repeat(" ", width-len(s.ID))
			if s.Summary != "" {
				line += "  " + s.Summary
			}
			if !s.Describable {
				line += " " + SubtitleStyle.Render("(no arguments described)")
			}
			fmt.Fprintln(w, line)
			if verbose && s.Describable {
				fmt.Fprintln(w, "    "+SubtitleStyle.Render(s.Tree.String()))
			}
		}
	}
}
