// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/scriptdeck/scriptdeck/internal/catalog"
	"github.com/scriptdeck/scriptdeck/internal/selection"
)

const (
	phaseScripts phase = iota
	phaseBoard
	phaseValue
)

const (
	defaultWidth  = 80
	defaultHeight = 20
)

type (
	phase int

	// SelectorOptions configures a Selector.
	SelectorOptions struct {
		// Catalog lists the scripts offered in the first step. It may be nil
		// when Session already has an active script.
		Catalog *catalog.Catalog
		// Session receives every selection. A new session is created when nil.
		Session *selection.Session
		// ShowResult keeps the compiled command in the final view. Used when
		// nothing prints the result after the program exits, as over SSH.
		ShowResult bool
		Config     Config
	}

	keyMap struct {
		Up      key.Binding
		Down    key.Binding
		Toggle  key.Binding
		Compile key.Binding
		Back    key.Binding
		Quit    key.Binding
	}

	// Selector is the interactive selector model: pick a script, toggle its
	// arguments on the status board, enter values, and compile.
	Selector struct {
		session    *selection.Session
		phase      phase
		scripts    list.Model
		hasList    bool
		input      textinput.Model
		help       help.Model
		keys       keyMap
		cursor     int
		pending    string
		message    string
		invocation selection.Invocation
		showResult bool
		done       bool
		cancelled  bool
		width      int
		height     int
	}

	scriptItem struct {
		script *catalog.Script
	}
)

func (i scriptItem) Title() string { return i.script.ID }

func (i scriptItem) Description() string {
	switch {
	case i.script.Summary != "":
		return i.script.Summary
	case i.script.Describable:
		return i.script.Name
	default:
		return "no usage information"
	}
}

func (i scriptItem) FilterValue() string { return i.script.ID + " " + i.script.Name }

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		Compile: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "compile")),
		Back:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// NewSelector creates a selector. It starts on the argument board when the
// session already has an active script.
func NewSelector(opts SelectorOptions) *Selector {
	session := opts.Session
	if session == nil {
		session = selection.NewSession()
	}

	width, height := defaultWidth, defaultHeight
	if opts.Config.Width > 0 {
		width = opts.Config.Width
	}

	var items []list.Item
	if opts.Catalog != nil {
		for _, s := range opts.Catalog.Scripts() {
			items = append(items, scriptItem{script: s})
		}
	}
	l := list.New(items, list.NewDefaultDelegate(), width, height-2)
	l.Title = "Scripts"
	l.SetShowStatusBar(false)
	l.Styles.Title = titleStyle

	input := textinput.New()
	input.Prompt = "› "

	m := &Selector{
		session:    session,
		scripts:    l,
		hasList:    opts.Catalog != nil,
		input:      input,
		help:       help.New(),
		keys:       defaultKeyMap(),
		showResult: opts.ShowResult,
		width:      width,
		height:     height,
	}
	if session.Script() != nil {
		m.phase = phaseBoard
	}
	return m
}

// Init implements tea.Model.
func (m *Selector) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Selector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.cancel()
		}
	}

	switch m.phase {
	case phaseScripts:
		return m.updateScripts(msg)
	case phaseBoard:
		return m.updateBoard(msg)
	default:
		return m.updateValue(msg)
	}
}

func (m *Selector) updateScripts(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.scripts.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "q":
			return m, m.cancel()
		case "esc":
			if m.scripts.FilterState() == list.Unfiltered {
				return m, m.cancel()
			}
		case "enter":
			item, ok := m.scripts.SelectedItem().(scriptItem)
			if !ok {
				return m, nil
			}
			if err := m.session.SelectScript(item.script); err != nil {
				m.message = err.Error()
				return m, nil
			}
			m.phase = phaseBoard
			m.cursor = 0
			m.message = ""
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.scripts, cmd = m.scripts.Update(msg)
	return m, cmd
}

func (m *Selector) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	args := m.session.Board().Arguments()
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(args)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		if m.cursor < len(args) {
			return m, m.toggle(args[m.cursor])
		}
	case key.Matches(keyMsg, m.keys.Compile):
		return m, m.compile()
	case key.Matches(keyMsg, m.keys.Back):
		if !m.hasList {
			return m, m.cancel()
		}
		m.session.ClearScript()
		m.phase = phaseScripts
		m.message = ""
	case key.Matches(keyMsg, m.keys.Quit):
		return m, m.cancel()
	}
	return m, nil
}

func (m *Selector) updateValue(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			if err := m.session.Add(m.pending, m.input.Value()); err != nil {
				m.message = err.Error()
				return m, nil
			}
			m.leaveValue()
			return m, nil
		case tea.KeyEsc:
			m.leaveValue()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// toggle removes a selected argument, asks for the value of a value-bearing
// one, and adds any other.
func (m *Selector) toggle(a selection.ArgumentStatus) tea.Cmd {
	name := a.Argument.Name
	m.message = ""

	switch {
	case a.Status == selection.StatusSelected:
		if err := m.session.Remove(name); err != nil {
			m.message = err.Error()
		}
		return nil
	case a.Status == selection.StatusNotAvailable:
		m.message = name + " is excluded by the current choices"
		return nil
	case a.Argument.Kind.TakesValue():
		m.pending = name
		m.phase = phaseValue
		m.input.Reset()
		m.input.Placeholder = a.Argument.ValueName
		if a.Argument.Default != "" {
			m.input.Placeholder += " (default: " + a.Argument.Default + ")"
		}
		return m.input.Focus()
	default:
		if err := m.session.Add(name, ""); err != nil {
			m.message = err.Error()
		}
		return nil
	}
}

func (m *Selector) leaveValue() {
	m.input.Blur()
	m.pending = ""
	m.phase = phaseBoard
}

func (m *Selector) compile() tea.Cmd {
	if reqs := m.session.Unsatisfied(); len(reqs) > 0 {
		names := make([]string, len(reqs))
		for i, r := range reqs {
			names[i] = r.String()
		}
		m.message = "still required: " + strings.Join(names, ", ")
		return nil
	}

	inv, err := m.session.Compile()
	if err != nil {
		m.message = err.Error()
		return nil
	}
	m.invocation = inv
	m.done = true
	return tea.Quit
}

func (m *Selector) cancel() tea.Cmd {
	m.done = true
	m.cancelled = true
	return tea.Quit
}

// View implements tea.Model.
func (m *Selector) View() string {
	if m.done {
		if m.showResult && !m.cancelled {
			return m.invocation.Quoted() + "\n"
		}
		return ""
	}

	var sb strings.Builder
	switch m.phase {
	case phaseScripts:
		sb.WriteString(m.scripts.View())
		sb.WriteString("\n")
	default:
		sb.WriteString(m.boardView())
	}
	if m.message != "" {
		sb.WriteString(errorStyle.Render(m.message) + "\n")
	}
	return sb.String()
}

func (m *Selector) boardView() string {
	script := m.session.Script()
	if script == nil {
		return ""
	}

	var sb strings.Builder
	title := script.Name
	if script.Version != "" {
		title += " (" + script.Version + ")"
	}
	sb.WriteString(titleStyle.Render(title) + "\n")
	sb.WriteString(subtleStyle.Render(script.Path) + "\n\n")

	cursor := m.cursor
	if m.phase == phaseValue {
		cursor = -1
	}
	board := m.session.Board()
	if len(board) == 0 {
		sb.WriteString(subtleStyle.Render("This script takes no arguments.") + "\n")
	}
	sb.WriteString(RenderBoard(board, m.session.Selections(), cursor))
	sb.WriteString("\n")

	if inv, err := m.session.Compile(); err == nil {
		sb.WriteString(commandStyle.Render(inv.Quoted()) + "\n")
	}

	if m.phase == phaseValue {
		fmt.Fprintf(&sb, "\nValue for %s:\n%s\n", m.pending, m.input.View())
		return sb.String()
	}
	sb.WriteString(m.help.ShortHelpView([]key.Binding{
		m.keys.Up, m.keys.Down, m.keys.Toggle, m.keys.Compile, m.keys.Back, m.keys.Quit,
	}) + "\n")
	return sb.String()
}

// SetSize resizes the selector.
func (m *Selector) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.scripts.SetSize(width, max(height-2, 1))
	m.help.Width = width
	m.input.Width = max(width-4, 10)
}

// IsDone returns true once the selector has a result or was cancelled.
func (m *Selector) IsDone() bool { return m.done }

// Cancelled returns true if the user quit without compiling.
func (m *Selector) Cancelled() bool { return m.cancelled }

// Invocation returns the compiled invocation and whether one was produced.
func (m *Selector) Invocation() (selection.Invocation, bool) {
	return m.invocation, m.done && !m.cancelled
}

// RunSelector runs a full-screen selector and returns the compiled invocation.
// It returns ErrCancelled when the user quits.
func RunSelector(ctx context.Context, opts SelectorOptions) (selection.Invocation, error) {
	m := NewSelector(opts)

	progOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(getOutputWriter(opts.Config)),
		tea.WithAltScreen(),
	}
	if opts.Config.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Config.Input))
	}

	final, err := tea.NewProgram(m, progOpts...).Run()
	if err != nil {
		return selection.Invocation{}, fmt.Errorf("run selector: %w", err)
	}

	sel, ok := final.(*Selector)
	if !ok {
		return selection.Invocation{}, fmt.Errorf("run selector: unexpected model %T", final)
	}
	inv, ok := sel.Invocation()
	if !ok {
		return selection.Invocation{}, ErrCancelled
	}
	return inv, nil
}
