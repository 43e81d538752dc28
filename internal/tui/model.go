// Package tui implements the interactive budget calculator. Every edit to a
// field recomputes the result so the budget panel always matches the inputs.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/lead-budget/internal/budget"
	"github.com/iwvelando/lead-budget/internal/inputs"
	"github.com/iwvelando/lead-budget/pkg/output"
)

// Model is the Bubble Tea model for the calculator.
type Model struct {
	fields  []inputs.Field
	editors []textinput.Model
	focus   int

	values budget.Inputs
	calc   *budget.Calculator
	result budget.Result

	// per-field feedback keyed by field index
	errs  map[int]string
	notes map[int]string

	opts   output.Options
	styles styles
	width  int
}

// New returns a Model seeded with start. Out-of-range values in start are
// clamped before the first calculation.
func New(start budget.Inputs, opts output.Options) Model {
	values, _ := inputs.Sanitize(start)

	m := Model{
		fields: inputs.Fields(),
		values: values,
		calc:   budget.NewCalculator(budget.DefaultConstants()),
		errs:   make(map[int]string),
		notes:  make(map[int]string),
		opts:   opts,
		styles: newStyles(),
	}

	m.editors = make([]textinput.Model, len(m.fields))
	for i, f := range m.fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 16
		ti.Width = 12
		ti.SetValue(f.Format(f.Get(values)))
		m.editors[i] = ti
	}
	m.editors[0].Focus()

	m.result = m.calc.Compute(m.values)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down", "enter":
			return m, m.moveFocus(1)
		case "shift+tab", "up":
			return m, m.moveFocus(-1)
		case "ctrl+r":
			m.reset()
			return m, nil
		}
	}

	before := m.editors[m.focus].Value()
	var cmd tea.Cmd
	m.editors[m.focus], cmd = m.editors[m.focus].Update(msg)
	if m.editors[m.focus].Value() != before {
		m.apply(m.focus)
	}
	return m, cmd
}

// moveFocus shifts focus by delta, wrapping at either end.
func (m *Model) moveFocus(delta int) tea.Cmd {
	m.editors[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.editors)) % len(m.editors)
	return m.editors[m.focus].Focus()
}

// apply parses the editor text for field i and recomputes. Text that is not
// a number keeps the previous value.
func (m *Model) apply(i int) {
	f := m.fields[i]
	delete(m.errs, i)
	delete(m.notes, i)

	current := f.Get(m.values)
	v, err := f.Parse(m.editors[i].Value(), current)
	if err != nil {
		m.errs[i] = err.Error()
		return
	}

	applied, changed := f.Clamp(v)
	if changed {
		m.notes[i] = fmt.Sprintf("using %s", f.Format(applied))
	}
	f.Set(&m.values, applied)
	m.result = m.calc.Compute(m.values)
}

func (m *Model) reset() {
	m.values = inputs.Defaults()
	m.errs = make(map[int]string)
	m.notes = make(map[int]string)
	for i, f := range m.fields {
		m.editors[i].SetValue(f.Format(f.Get(m.values)))
	}
	m.result = m.calc.Compute(m.values)
}

// Inputs returns the record the current result was computed from.
func (m Model) Inputs() budget.Inputs {
	return m.values
}

// Result returns the current calculation.
func (m Model) Result() budget.Result {
	return m.result
}

// View implements tea.Model.
func (m Model) View() string {
	left := m.styles.panel.Render(m.renderInputs())
	right := m.styles.panel.Render(m.renderResult())

	var body string
	if m.width > 0 && m.width < lipgloss.Width(left)+lipgloss.Width(right) {
		body = lipgloss.JoinVertical(lipgloss.Left, left, right)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	help := m.styles.help.Render("tab/shift+tab move  ctrl+r reset  esc quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.title.Render("Lead budget calculator"),
		body,
		help,
	) + "\n"
}

func (m Model) renderInputs() string {
	var b strings.Builder
	for i, f := range m.fields {
		label := m.styles.label.Render(fmt.Sprintf("%-32s", f.Label))
		if i == m.focus {
			label = m.styles.focused.Render(fmt.Sprintf("%-32s", f.Label))
		}
		b.WriteString(label)
		b.WriteString(" ")
		b.WriteString(m.editors[i].View())
		if msg, ok := m.errs[i]; ok {
			b.WriteString(" " + m.styles.errorMsg.Render(msg))
		} else if note, ok := m.notes[i]; ok {
			b.WriteString(" " + m.styles.note.Render(note))
		}
		if i < len(m.fields)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderResult() string {
	var b strings.Builder
	section := ""
	for _, line := range output.Lines(m.result) {
		if line.Section != section {
			if section != "" {
				b.WriteString("\n")
			}
			section = line.Section
			b.WriteString(m.styles.section.Render(section))
			b.WriteString("\n")
		}

		value := m.styles.value.Render(fmt.Sprintf("%14s", m.opts.Value(line)))
		if line.Key == "budget.total" || line.Key == "financials.roiPercent" {
			value = m.styles.total.Render(fmt.Sprintf("%14s", m.opts.Value(line)))
		}
		b.WriteString(m.styles.label.Render(fmt.Sprintf("%-26s", line.Label)))
		b.WriteString(value)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Run starts the calculator on the terminal and returns the final inputs.
func Run(start budget.Inputs, opts output.Options) (budget.Inputs, error) {
	final, err := tea.NewProgram(New(start, opts), tea.WithAltScreen()).Run()
	if err != nil {
		return start, err
	}
	if m, ok := final.(Model); ok {
		return m.Inputs(), nil
	}
	return start, nil
}
