package tui

import (
	"github.com/charmbracelet/lipgloss"
)

type palette struct {
	text     lipgloss.Color
	muted    lipgloss.Color
	faint    lipgloss.Color
	border   lipgloss.Color
	accent   lipgloss.Color
	pro      lipgloss.Color
	danger   lipgloss.Color
	positive lipgloss.Color
}

var (
	darkPalette = palette{
		text:     lipgloss.Color("#FFFFFF"),
		muted:    lipgloss.Color("#CCCCCC"),
		faint:    lipgloss.Color("#666666"),
		border:   lipgloss.Color("#444444"),
		accent:   lipgloss.Color("#6366F1"),
		pro:      lipgloss.Color("#F59E0B"),
		danger:   lipgloss.Color("#EF4444"),
		positive: lipgloss.Color("#22C55E"),
	}

	lightPalette = palette{
		text:     lipgloss.Color("#111111"),
		muted:    lipgloss.Color("#333333"),
		faint:    lipgloss.Color("#888888"),
		border:   lipgloss.Color("#BBBBBB"),
		accent:   lipgloss.Color("#4338CA"),
		pro:      lipgloss.Color("#B45309"),
		danger:   lipgloss.Color("#B91C1C"),
		positive: lipgloss.Color("#15803D"),
	}
)

var (
	colors palette

	titleStyle     lipgloss.Style
	subtitleStyle  lipgloss.Style
	tabStyle       lipgloss.Style
	tabActiveStyle lipgloss.Style
	labelStyle     lipgloss.Style
	valueStyle     lipgloss.Style
	infoStyle      lipgloss.Style
	helpStyle      lipgloss.Style
	errorStyle     lipgloss.Style
	toastStyle     lipgloss.Style
	proStyle       lipgloss.Style
	optionOnStyle  lipgloss.Style
	optionOffStyle lipgloss.Style
	selectedStyle  lipgloss.Style
	boxStyle       lipgloss.Style
	modalStyle     lipgloss.Style
)

func init() {
	applyTheme(true)
}

// rebuilds every style from the dark or light palette
func applyTheme(dark bool) {
	colors = lightPalette
	if dark {
		colors = darkPalette
	}

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colors.text).
		MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colors.muted).
		MarginBottom(1)

	tabStyle = lipgloss.NewStyle().
		Foreground(colors.faint).
		Padding(0, 2)

	tabActiveStyle = lipgloss.NewStyle().
		Foreground(colors.text).
		Bold(true).
		Underline(true).
		Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
		Foreground(colors.faint)

	valueStyle = lipgloss.NewStyle().
		Foreground(colors.text).
		Bold(true)

	infoStyle = lipgloss.NewStyle().
		Foreground(colors.muted).
		Italic(true)

	helpStyle = lipgloss.NewStyle().
		Foreground(colors.faint).
		Italic(true).
		MarginTop(1)

	errorStyle = lipgloss.NewStyle().
		Foreground(colors.danger).
		Bold(true)

	toastStyle = lipgloss.NewStyle().
		Foreground(colors.text).
		Background(colors.accent).
		Bold(true).
		Padding(0, 2)

	proStyle = lipgloss.NewStyle().
		Foreground(colors.pro).
		Bold(true)

	optionOnStyle = lipgloss.NewStyle().
		Foreground(colors.positive).
		Bold(true)

	optionOffStyle = lipgloss.NewStyle().
		Foreground(colors.faint)

	selectedStyle = lipgloss.NewStyle().
		Foreground(colors.text).
		Bold(true).
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(colors.accent)

	boxStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colors.border).
		Padding(1, 2)

	modalStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(colors.accent).
		Padding(1, 3).
		Align(lipgloss.Center)
}

const logo = `
 ██╗    ██╗██╗  ██╗██████╗
 ██║    ██║██║  ██║██╔══██╗
 ██║ █╗ ██║███████║██████╔╝
 ██║███╗██║██╔══██║██╔══██╗
 ╚███╔███╔╝██║  ██║██████╔╝
  ╚══╝╚══╝ ╚═╝  ╚═╝╚═════╝
`
