// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/scriptdeck/scriptdeck/internal/catalog"
)

// ErrNoScripts is returned by ChooseScript for an empty catalog.
var ErrNoScripts = errors.New("no scripts to choose from")

// ChooseScript prompts for one script of cat, grouped by folder in the
// option labels.
func ChooseScript(cat *catalog.Catalog, title string, cfg Config) (*catalog.Script, error) {
	scripts := cat.Scripts()
	if len(scripts) == 0 {
		return nil, ErrNoScripts
	}

	opts := make([]huh.Option[*catalog.Script], len(scripts))
	for i, s := range scripts {
		opts[i] = huh.NewOption(scriptLabel(s), s)
	}

	var chosen *catalog.Script
	sel := huh.NewSelect[*catalog.Script]().
		Title(title).
		Options(opts...).
		Value(&chosen)

	if err := runForm(newForm(cfg, huh.NewGroup(sel))); err != nil {
		return nil, err
	}
	if chosen == nil {
		return nil, ErrCancelled
	}
	return chosen, nil
}

// Confirm asks a yes/no question. The default answer is no.
func Confirm(title, description string, cfg Config) (bool, error) {
	var answer bool
	c := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)

	if err := runForm(newForm(cfg, huh.NewGroup(c))); err != nil {
		return false, err
	}
	return answer, nil
}

func scriptLabel(s *catalog.Script) string {
	if s.Summary == "" {
		return s.ID
	}
	return s.ID + " - " + s.Summary
}
