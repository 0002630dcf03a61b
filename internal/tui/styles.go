package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
const (
	colorAccent  = lipgloss.Color("63")
	colorSubtle  = lipgloss.Color("241")
	colorText    = lipgloss.Color("252")
	colorInfo    = lipgloss.Color("39")
	colorWarning = lipgloss.Color("214")
	colorError   = lipgloss.Color("196")
	colorAye     = lipgloss.Color("42")
	colorNay     = lipgloss.Color("160")
	colorAbsent  = lipgloss.Color("244")
	colorExcused = lipgloss.Color("178")
)

// Shared text styles.
var (
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	LabelStyle    = lipgloss.NewStyle().Foreground(colorSubtle)
	ValueStyle    = lipgloss.NewStyle().Foreground(colorText)
	SubtleStyle   = lipgloss.NewStyle().Foreground(colorSubtle).Italic(true)
	InfoStyle     = lipgloss.NewStyle().Foreground(colorInfo)
	WarningStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	CriticalStyle = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	LinkStyle     = lipgloss.NewStyle().Foreground(colorInfo).Underline(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
)

// Table styles.
var (
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(colorSubtle)
	TableSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(colorAccent)
	TableCellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// Vote bar segment styles.
var (
	AyeStyle     = lipgloss.NewStyle().Foreground(colorAye)
	NayStyle     = lipgloss.NewStyle().Foreground(colorNay)
	AbsentStyle  = lipgloss.NewStyle().Foreground(colorAbsent)
	ExcusedStyle = lipgloss.NewStyle().Foreground(colorExcused)
)

// Menu item styles.
var (
	MenuItemStyle     = lipgloss.NewStyle().PaddingLeft(2) //nolint:mnd // indent
	MenuSelectedStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(colorAccent).Bold(true)
)
