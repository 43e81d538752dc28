package tui

import "github.com/charmbracelet/lipgloss"

// palette holds the color roles used by the calculator view.
type palette struct {
	Border      lipgloss.Color
	TextDim     lipgloss.Color
	TextMuted   lipgloss.Color
	TextPrimary lipgloss.Color
	Accent      lipgloss.Color
	Green       lipgloss.Color
	Orange      lipgloss.Color
	Red         lipgloss.Color
}

var colors = palette{
	Border:      lipgloss.Color("#403E3C"),
	TextDim:     lipgloss.Color("#575653"),
	TextMuted:   lipgloss.Color("#878580"),
	TextPrimary: lipgloss.Color("#FFFCF0"),
	Accent:      lipgloss.Color("#3AA99F"),
	Green:       lipgloss.Color("#879A39"),
	Orange:      lipgloss.Color("#DA702C"),
	Red:         lipgloss.Color("#D14D41"),
}

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	focused  lipgloss.Style
	value    lipgloss.Style
	section  lipgloss.Style
	total    lipgloss.Style
	note     lipgloss.Style
	errorMsg lipgloss.Style
	help     lipgloss.Style
	panel    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Foreground(colors.Accent).Bold(true),
		label:    lipgloss.NewStyle().Foreground(colors.TextMuted),
		focused:  lipgloss.NewStyle().Foreground(colors.Accent).Bold(true),
		value:    lipgloss.NewStyle().Foreground(colors.TextPrimary),
		section:  lipgloss.NewStyle().Foreground(colors.Accent).Underline(true),
		total:    lipgloss.NewStyle().Foreground(colors.Green).Bold(true),
		note:     lipgloss.NewStyle().Foreground(colors.Orange),
		errorMsg: lipgloss.NewStyle().Foreground(colors.Red),
		help:     lipgloss.NewStyle().Foreground(colors.TextDim),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(0, 1),
	}
}
