package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-factorial/engine"
	"github.com/wippyai/wasm-factorial/factorial"
	"github.com/wippyai/wasm-factorial/lower"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = dimStyle
)

type modelState int

const (
	stateSelectWidth modelState = iota
	stateInput
	stateShowResult
)

type interactiveModel struct {
	err      error
	eng      *engine.Engine
	opts     *engine.Options
	modules  map[factorial.Width]*engine.Module
	input    textinput.Model
	result   *evaluation
	selected int
	state    modelState
}

// evaluation is one input run on both sides.
type evaluation struct {
	width     factorial.Width
	input     int64 // as typed
	arg       int64 // truncated to the width
	want, got int64
}

func (e *evaluation) agree() bool   { return e.want == e.got }
func (e *evaluation) wrapped() bool { return e.arg >= e.width.OverflowPoint() }

type loadedMsg struct {
	err     error
	eng     *engine.Engine
	modules map[factorial.Width]*engine.Module
}

type callResultMsg struct {
	err    error
	result *evaluation
}

func newInteractiveModel(initial factorial.Width, opts *engine.Options) *interactiveModel {
	m := &interactiveModel{opts: opts, state: stateSelectWidth}
	for i, w := range factorial.Widths {
		if w == initial {
			m.selected = i
		}
	}
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadModules
}

func (m *interactiveModel) loadModules() tea.Msg {
	ctx := context.Background()

	eng, err := engine.New(ctx, m.opts)
	if err != nil {
		return loadedMsg{err: err}
	}

	modules := make(map[factorial.Width]*engine.Module, len(factorial.Widths))
	for _, w := range factorial.Widths {
		mod, err := eng.LoadFixture(ctx, w)
		if err != nil {
			eng.Close(ctx)
			return loadedMsg{err: err}
		}
		modules[w] = mod
	}
	return loadedMsg{eng: eng, modules: modules}
}

func (m *interactiveModel) width() factorial.Width {
	return factorial.Widths[m.selected]
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, m.quit()

		case "q":
			if m.state != stateInput {
				return m, m.quit()
			}

		case "up", "k":
			if m.state == stateSelectWidth && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectWidth && m.selected < len(factorial.Widths)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectWidth:
				if m.modules == nil {
					break
				}
				m.prepareInput()
				m.state = stateInput
				return m, textinput.Blink

			case stateInput:
				return m, m.evaluate(m.input.Value())

			case stateShowResult:
				m.result = nil
				m.err = nil
				m.prepareInput()
				m.state = stateInput
				return m, textinput.Blink
			}

		case "esc":
			switch m.state {
			case stateInput, stateShowResult:
				m.state = stateSelectWidth
				m.result = nil
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.eng = msg.eng
		m.modules = msg.modules

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) quit() tea.Cmd {
	if m.eng != nil {
		_ = m.eng.Close(context.Background())
		m.eng = nil
	}
	return tea.Quit
}

func (m *interactiveModel) prepareInput() {
	ti := textinput.New()
	ti.Placeholder = "integer"
	ti.Prompt = "i: "
	ti.Width = 40
	ti.CharLimit = 20
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) evaluate(value string) tea.Cmd {
	w := m.width()
	mod := m.modules[w]
	return func() tea.Msg {
		ev, err := evaluate(context.Background(), mod, w, value)
		return callResultMsg{result: ev, err: err}
	}
}

// evaluate parses value and runs it through the reference and mod.
func evaluate(ctx context.Context, mod *engine.Module, w factorial.Width, value string) (*evaluation, error) {
	in, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("not an integer: %q", value)
	}
	arg := w.Truncate(in)
	// The loop runs i times; refuse inputs that would hang the TUI.
	if arg > maxInteractiveInput {
		return nil, fmt.Errorf("%d is too large to evaluate interactively (limit %d)", arg, maxInteractiveInput)
	}
	got, err := mod.Call(ctx, in)
	if err != nil {
		return nil, err
	}
	return &evaluation{
		width: w,
		input: in,
		arg:   arg,
		want:  factorial.At(w, in),
		got:   got,
	}, nil
}

const maxInteractiveInput = 1 << 24

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.modules == nil {
		return "Compiling fixtures..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Factorial Check"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectWidth:
		b.WriteString("Select a width:\n\n")
		for i, w := range factorial.Widths {
			line := formatFunc(w)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter choose • q quit"))

	case stateInput:
		w := m.width()
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(lower.ExportName(w))))
		b.WriteString(m.input.View())
		b.WriteString(" ")
		b.WriteString(typeStyle.Render(w.String()))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter call • esc back"))

	case stateShowResult:
		w := m.width()
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(lower.ExportName(w))))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(formatEvaluation(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter again • esc back • q quit"))
	}

	return b.String()
}

func formatFunc(w factorial.Width) string {
	decl, err := lower.WITDecl(w)
	if err != nil {
		return w.String()
	}
	name, sig, _ := strings.Cut(decl, ": ")
	return funcStyle.Render(name) + " " + typeStyle.Render(sig)
}

func formatEvaluation(ev *evaluation) string {
	var b strings.Builder
	if ev.arg != ev.input {
		fmt.Fprintf(&b, "input      %d truncated to %d\n", ev.input, ev.arg)
	}
	fmt.Fprintf(&b, "reference  %d\n", ev.want)
	fmt.Fprintf(&b, "compiled   %d\n", ev.got)
	if ev.agree() {
		b.WriteString(okStyle.Render("agree"))
	} else {
		b.WriteString(failStyle.Render("MISMATCH"))
	}
	if ev.wrapped() {
		b.WriteString("  ")
		b.WriteString(wrapStyle.Render(fmt.Sprintf("wrapped (overflow at %d)", ev.width.OverflowPoint())))
	}
	return b.String()
}

func runInteractive(initial factorial.Width, opts *engine.Options) error {
	p := tea.NewProgram(newInteractiveModel(initial, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
