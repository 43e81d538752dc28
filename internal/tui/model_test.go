package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iwvelando/lead-budget/internal/budget"
	"github.com/iwvelando/lead-budget/internal/inputs"
	"github.com/iwvelando/lead-budget/pkg/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel() Model {
	return New(inputs.Defaults(), output.DefaultOptions())
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok, "Update returned %T", next)
	}
	return m
}

func keys(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	backspace = tea.KeyMsg{Type: tea.KeyBackspace}
	tab       = tea.KeyMsg{Type: tea.KeyTab}
	shiftTab  = tea.KeyMsg{Type: tea.KeyShiftTab}
)

func focusField(t *testing.T, m Model, key string) Model {
	t.Helper()
	for i := 0; i < len(m.fields); i++ {
		if m.fields[m.focus].Key == key {
			return m
		}
		m = send(t, m, tab)
	}
	t.Fatalf("field %s not found", key)
	return m
}

func TestNewComputesInitialResult(t *testing.T) {
	m := newTestModel()

	assert.Equal(t, inputs.Defaults(), m.Inputs())
	assert.Equal(t, budget.Compute(inputs.Defaults(), budget.DefaultConstants()), m.Result())
	assert.Equal(t, 1, m.calc.Runs())
	assert.Equal(t, "regions", m.fields[m.focus].Key)
	assert.Equal(t, "13", m.editors[0].Value())
}

func TestNewSanitizesStart(t *testing.T) {
	start := inputs.Defaults()
	start.GoogleSplit = 4

	m := New(start, output.DefaultOptions())
	assert.Equal(t, 1.0, m.Inputs().GoogleSplit)
}

func TestEditingRecomputes(t *testing.T) {
	m := newTestModel()

	m = send(t, m, backspace, backspace, keys("20"))

	assert.Equal(t, 20, m.Inputs().Regions)
	assert.Equal(t, float64(20*15*52), m.Result().Leads.RMF)
	assert.Empty(t, m.errs)
}

func TestInvalidTextKeepsPreviousValue(t *testing.T) {
	m := newTestModel()
	m = focusField(t, m, "monthlyFee")

	// "120" -> "12" -> "1" -> ""
	m = send(t, m, backspace, backspace, backspace)
	assert.Equal(t, 1.0, m.Inputs().MonthlyFee)
	assert.Contains(t, m.errs[m.focus], "value is required")

	m = send(t, m, keys("abc"))
	assert.Equal(t, 1.0, m.Inputs().MonthlyFee)
	assert.Contains(t, m.errs[m.focus], "not a number")
}

func TestOutOfRangeIsClamped(t *testing.T) {
	m := newTestModel()
	m = focusField(t, m, "conversionRate")

	m = send(t, m, backspace, backspace, backspace, backspace, keys("2"))
	assert.Equal(t, 1.0, m.Inputs().ConversionRate)
	assert.Equal(t, "using 1", m.notes[m.focus])
	assert.Equal(t, "2", m.editors[m.focus].Value())
}

func TestNavigationDoesNotRecompute(t *testing.T) {
	m := newTestModel()
	runs := m.calc.Runs()

	m = send(t, m, tab, tab, shiftTab)
	assert.Equal(t, 1, m.focus)
	assert.Equal(t, runs, m.calc.Runs())

	// wraps around
	m = send(t, m, shiftTab, shiftTab)
	assert.Equal(t, len(m.fields)-1, m.focus)
}

func TestUnchangedValueSkipsCalculation(t *testing.T) {
	m := newTestModel()
	runs := m.calc.Runs()

	// "13." parses to the value already computed
	m = send(t, m, keys("."))
	assert.Equal(t, "13.", m.editors[0].Value())
	assert.Equal(t, 13, m.Inputs().Regions)
	assert.Equal(t, runs, m.calc.Runs())
}

func TestReset(t *testing.T) {
	m := newTestModel()
	m = send(t, m, backspace, backspace, keys("40"))
	require.Equal(t, 40, m.Inputs().Regions)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, inputs.Defaults(), m.Inputs())
	assert.Equal(t, "13", m.editors[0].Value())
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel()
	for _, msg := range []tea.KeyMsg{{Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := m.Update(msg)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestView(t *testing.T) {
	m := newTestModel()
	m = send(t, m, tea.WindowSizeMsg{Width: 200, Height: 60})

	view := m.View()
	for _, want := range []string{
		"Lead budget calculator",
		"Regions",
		output.SectionBudget,
		"Total annual budget",
		"$149,844",
		"7,270.9%",
	} {
		assert.True(t, strings.Contains(view, want), "view missing %q", want)
	}
}
