// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"regexp"
	"strings"
)

const usagePrefix = "usage:"

// titlePattern matches "NAME (VERSION), maintained by AUTHOR." title lines.
var titlePattern = regexp.MustCompile(`^\s*(.+?)\s*\(([^()]+)\),?\s+maintained by\s+(.+?)\.?\s*$`)

// HelpText is the help output of one script split into the fields the catalog needs.
type HelpText struct {
	// Usage is the usage line without the "usage:" prefix and program token.
	Usage    string
	HasUsage bool

	// Name, Version and Author come from the title line.
	Name     string
	Version  string
	Author   string
	HasTitle bool

	// Summary is the first non-blank line after the title, unless that line
	// already belongs to a section.
	Summary string

	// Options holds the raw option block lines, unfolded and untrimmed.
	Options []string
}

// ParseHelpText splits argparse-shaped help output. It never fails: missing
// sections are reported through HasUsage and HasTitle.
func ParseHelpText(output string) HelpText {
	lines := strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")

	var h HelpText
	titleLine := -1
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if !h.HasUsage && strings.HasPrefix(strings.ToLower(line), usagePrefix) {
			i = h.readUsage(lines, i)
			continue
		}
		if m := titlePattern.FindStringSubmatch(line); m != nil {
			h.Name, h.Version, h.Author = m[1], strings.TrimSpace(m[2]), m[3]
			h.HasTitle = true
			titleLine = i
			break
		}
	}
	if !h.HasTitle {
		return h
	}

	rest := lines[titleLine+1:]
	for _, line := range rest {
		if s := strings.TrimSpace(line); s != "" {
			// Section headers such as "options:" are not a summary.
			if !isIndented(line) && !strings.HasSuffix(s, ":") {
				h.Summary = s
			}
			break
		}
	}
	h.Options = optionBlock(rest)
	return h
}

// readUsage consumes the usage line at lines[i] and its indented continuations.
// It returns the index of the last consumed line.
func (h *HelpText) readUsage(lines []string, i int) int {
	parts := []string{strings.TrimSpace(lines[i][len(usagePrefix):])}
	for i+1 < len(lines) && isIndented(lines[i+1]) && strings.TrimSpace(lines[i+1]) != "" {
		i++
		parts = append(parts, strings.TrimSpace(lines[i]))
	}

	joined := strings.Join(parts, " ")
	// Drop the program token.
	if _, rest, ok := strings.Cut(joined, " "); ok {
		h.Usage = strings.TrimSpace(rest)
	}
	h.HasUsage = true
	return i
}

// optionBlock returns the blank-terminated run of indented lines starting at the
// first indented line whose text starts with '-'.
func optionBlock(lines []string) []string {
	start := -1
	for i, line := range lines {
		if isIndented(line) && strings.HasPrefix(strings.TrimSpace(line), "-") {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	var block []string
	for _, line := range lines[start:] {
		if strings.TrimSpace(line) == "" {
			break
		}
		block = append(block, line)
	}
	return block
}

func isIndented(line string) bool {
	return line != "" && (line[0] == ' ' || line[0] == '\t')
}
