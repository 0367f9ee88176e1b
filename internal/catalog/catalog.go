// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"path"
	"slices"
	"strings"

	"github.com/scriptdeck/scriptdeck/internal/usage"
)

type (
	// Script is one cataloged helper script. It is built once and never mutated.
	Script struct {
		// ID is the slash-separated path relative to the scripts directory.
		ID string
		// Name is the title name, or the file stem when the script has no title.
		Name string
		// Path is the absolute path of the script.
		Path string
		// Folder is the parent of ID, or "" for top-level scripts.
		Folder  string
		Version string
		Author  string
		Summary string
		// Describable reports whether help text was parsed into Tree.
		Describable bool
		Tree        usage.Tree
	}

	// Folder groups the scripts that share a parent directory.
	Folder struct {
		Name    string
		Scripts []*Script
	}

	// Catalog is an immutable, ID-ordered set of scripts.
	Catalog struct {
		dir     string
		scripts []*Script
	}
)

// Stem returns the file name of the script without its extension.
func (s *Script) Stem() string {
	base := path.Base(s.ID)
	return strings.TrimSuffix(base, path.Ext(base))
}

// New creates a catalog rooted at dir. Scripts are ordered by ID.
func New(dir string, scripts []*Script) *Catalog {
	sorted := slices.Clone(scripts)
	slices.SortFunc(sorted, func(a, b *Script) int { return strings.Compare(a.ID, b.ID) })
	return &Catalog{dir: dir, scripts: sorted}
}

// Dir returns the scripts directory the catalog was built from.
func (c *Catalog) Dir() string { return c.dir }

// Len returns the number of cataloged scripts.
func (c *Catalog) Len() int { return len(c.scripts) }

// Scripts returns every script in ID order.
func (c *Catalog) Scripts() []*Script { return slices.Clone(c.scripts) }

// Describable returns the scripts that carry an argument tree.
func (c *Catalog) Describable() []*Script {
	var out []*Script
	for _, s := range c.scripts {
		if s.Describable {
			out = append(out, s)
		}
	}
	return out
}

// Lookup resolves ref by exact ID, then by file stem, then by title name
// (case-insensitive). The first script in ID order wins within each rule.
func (c *Catalog) Lookup(ref string) (*Script, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, false
	}
	for _, s := range c.scripts {
		if s.ID == ref {
			return s, true
		}
	}
	for _, s := range c.scripts {
		if s.Stem() == ref {
			return s, true
		}
	}
	for _, s := range c.scripts {
		if strings.EqualFold(s.Name, ref) {
			return s, true
		}
	}
	return nil, false
}

// Folders groups scripts by folder. Top-level scripts come first under "", then
// folders in name order.
func (c *Catalog) Folders() []Folder {
	byName := make(map[string]*Folder)
	var names []string
	for _, s := range c.scripts {
		f, ok := byName[s.Folder]
		if !ok {
			f = &Folder{Name: s.Folder}
			byName[s.Folder] = f
			names = append(names, s.Folder)
		}
		f.Scripts = append(f.Scripts, s)
	}

	slices.Sort(names)
	folders := make([]Folder, 0, len(names))
	for _, n := range names {
		folders = append(folders, *byName[n])
	}
	return folders
}
