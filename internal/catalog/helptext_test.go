// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func readHelpFixture(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return string(data)
}

func TestParseHelpText_ArgparseOutput(t *testing.T) {
	t.Parallel()

	h := ParseHelpText(readHelpFixture(t, "recipe_conveyor.help"))

	if !h.HasUsage || !h.HasTitle {
		t.Fatalf("HasUsage = %v, HasTitle = %v, want both true", h.HasUsage, h.HasTitle)
	}
	if h.Name != "Recipe Conveyor" || h.Version != "v1.0.0" || h.Author != "LT" {
		t.Errorf("title = (%q, %q, %q)", h.Name, h.Version, h.Author)
	}
	if want := "utility to download a recipe from a machine and upload it to another"; h.Summary != want {
		t.Errorf("Summary = %q, want %q", h.Summary, want)
	}
	if want := "[-h] [--credentials CREDENTIALS] "; len(h.Usage) < len(want) || h.Usage[:len(want)] != want {
		t.Errorf("Usage = %q, want prefix %q", h.Usage, want)
	}
	if len(h.Options) != 13 {
		t.Errorf("len(Options) = %d, want 13", len(h.Options))
	}
	if h.Options[len(h.Options)-1] != "  --verbose             show access tokens" {
		t.Errorf("last option line = %q", h.Options[len(h.Options)-1])
	}
}

func TestParseHelpText_WrappedUsage(t *testing.T) {
	t.Parallel()

	out := "usage: tool.py [-h] [--a A]\n" +
		"               [--b]\n" +
		"\n" +
		"Tool (2.1), maintained by Ops Team\n" +
		"\n" +
		"options:\n" +
		"  -h, --help  help\n"

	h := ParseHelpText(out)
	if h.Usage != "[-h] [--a A] [--b]" {
		t.Errorf("Usage = %q", h.Usage)
	}
	if h.Author != "Ops Team" {
		t.Errorf("Author = %q", h.Author)
	}
	if h.Summary != "" {
		t.Errorf("Summary = %q, want empty for section header", h.Summary)
	}
	if len(h.Options) != 1 {
		t.Errorf("Options = %q", h.Options)
	}
}

func TestParseHelpText_MissingSections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		output    string
		wantUsage bool
		wantTitle bool
	}{
		{"empty", "", false, false},
		{"usage only", "usage: x.sh [-v]\n", true, false},
		{"title only", "X (1), maintained by me.\n", false, true},
		{"case-insensitive prefix", "Usage: x.py\n\nX (1), maintained by me.\n", true, true},
		{"title without version", "X, maintained by me\n", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := ParseHelpText(tt.output)
			if h.HasUsage != tt.wantUsage || h.HasTitle != tt.wantTitle {
				t.Errorf("HasUsage = %v, HasTitle = %v, want %v, %v", h.HasUsage, h.HasTitle, tt.wantUsage, tt.wantTitle)
			}
		})
	}
}
