// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/scriptdeck/scriptdeck/internal/selection"
	"github.com/scriptdeck/scriptdeck/internal/usage"
)

var (
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	subtleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	commandStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cursorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	groupStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	selectedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	requiredStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	availableStyle    = lipgloss.NewStyle()
	notAvailableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
)

// StatusStyle returns the style used for arguments with status s.
func StatusStyle(s selection.Status) lipgloss.Style {
	switch s {
	case selection.StatusSelected:
		return selectedStyle
	case selection.StatusRequired:
		return requiredStyle
	case selection.StatusNotAvailable:
		return notAvailableStyle
	default:
		return availableStyle
	}
}

func statusMarker(s selection.Status) string {
	switch s {
	case selection.StatusSelected:
		return "[x]"
	case selection.StatusRequired:
		return "[!]"
	case selection.StatusNotAvailable:
		return "[-]"
	default:
		return "[ ]"
	}
}

// RenderBoard renders one line per argument in tree order. Alternatives of a
// group are listed under a "one of:" header and separated by "or". The line
// of the argument at index cursor in board.Arguments() gets a pointer; pass -1
// for none.
func RenderBoard(board selection.Board, selections []selection.Selection, cursor int) string {
	values := make(map[string]string, len(selections))
	for _, s := range selections {
		values[s.Argument.Name] = s.Value
	}

	var labels []string
	for _, a := range board.Arguments() {
		labels = append(labels, argumentLabel(a.Argument, values))
	}
	width := 0
	for _, l := range labels {
		width = max(width, lipgloss.Width(l))
	}

	var (
		sb  strings.Builder
		idx int
	)
	line := func(indent string, a selection.ArgumentStatus) {
		pointer := "  "
		if idx == cursor {
			pointer = cursorStyle.Render("> ")
		}
		label := labels[idx]
		padding := strings.Repeat(" ", width-lipgloss.Width(label))
		style := StatusStyle(a.Status)

		sb.WriteString(pointer + indent)
		sb.WriteString(style.Render(statusMarker(a.Status) + " " + label))
		sb.WriteString(padding + "  ")
		sb.WriteString(style.Render(padRight(a.Status.String(), len("NOT_AVAILABLE"))))
		if desc := describe(a.Argument); desc != "" {
			sb.WriteString("  " + subtleStyle.Render(desc))
		}
		sb.WriteString("\n")
		idx++
	}

	for _, n := range board {
		if n.Argument != nil {
			line("", *n.Argument)
			continue
		}
		sb.WriteString("  " + groupStyle.Render("one of:") + "\n")
		for i, alt := range n.Group.Alternatives {
			if i > 0 {
				sb.WriteString("    " + groupStyle.Render("or") + "\n")
			}
			for _, a := range alt {
				line("  ", a)
			}
		}
	}
	return sb.String()
}

func argumentLabel(arg usage.Argument, values map[string]string) string {
	if !arg.Kind.TakesValue() {
		return arg.Name
	}
	if v, ok := values[arg.Name]; ok {
		return arg.Name + "=" + v
	}
	return arg.Name + " " + arg.ValueName
}

func describe(arg usage.Argument) string {
	desc := strings.TrimSpace(arg.Description)
	if arg.Default != "" {
		if desc != "" {
			desc += " "
		}
		desc += "(default: " + arg.Default + ")"
	}
	return desc
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
