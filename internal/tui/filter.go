// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"github.com/sahilm/fuzzy"

	"github.com/scriptdeck/scriptdeck/internal/catalog"
)

// FuzzyMatch performs fuzzy matching on a list of options.
// Returns the matched options sorted by score.
func FuzzyMatch(pattern string, options []string) []string {
	if pattern == "" {
		return options
	}

	matches := fuzzy.Find(pattern, options)

	results := make([]string, len(matches))
	for i, m := range matches {
		results[i] = options[m.Index]
	}
	return results
}

// FilterScripts returns the scripts whose ID or name fuzzily matches pattern,
// best match first. An empty pattern keeps every script in catalog order.
func FilterScripts(scripts []*catalog.Script, pattern string) []*catalog.Script {
	if pattern == "" {
		return scripts
	}

	keys := make([]string, len(scripts))
	for i, s := range scripts {
		keys[i] = s.ID + " " + s.Name
	}

	matches := fuzzy.Find(pattern, keys)
	out := make([]*catalog.Script, len(matches))
	for i, m := range matches {
		out[i] = scripts[m.Index]
	}
	return out
}
