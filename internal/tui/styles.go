package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorRed       = lipgloss.Color("#ff5555")
	colorGreen     = lipgloss.Color("#50fa7b")
	colorYellow    = lipgloss.Color("#f1fa8c")
	colorBlue      = lipgloss.Color("#8be9fd")
	colorPurple    = lipgloss.Color("#bd93f9")
	colorDim       = lipgloss.Color("#6272a4")
	colorFg        = lipgloss.Color("#f8f8f2")
	colorBorder    = lipgloss.Color("#44475a")
	colorHighlight = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	// Symbol list styles
	nodeListStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	nodeItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	nodeItemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Background(colorHighlight).
				Bold(true)

	nodeSeedStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	nodeKindStyle = lipgloss.NewStyle().
			Foreground(colorPurple)

	// Source view styles
	sourceViewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	sourceHeaderStyle = lipgloss.NewStyle().
				Foreground(colorBlue).
				Bold(true)

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Width(5).
			Align(lipgloss.Right)

	referrerStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBorder)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)
