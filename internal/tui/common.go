// Package tui is the interactive terminal browser: a home menu, sortable and
// filterable grids for every list view, and detail cards whose related lists
// navigate further through the router.
package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState is the screen the browser is showing.
type ViewState int

// View states.
const (
	ViewStateLoading ViewState = iota
	ViewStateMenu
	ViewStateList
	ViewStateDetail
	ViewStateRecord
	ViewStateError
	ViewStateQuitting
)

func (s ViewState) String() string {
	switch s {
	case ViewStateLoading:
		return "loading"
	case ViewStateMenu:
		return "menu"
	case ViewStateList:
		return "list"
	case ViewStateDetail:
		return "detail"
	case ViewStateRecord:
		return "record"
	case ViewStateError:
		return "error"
	case ViewStateQuitting:
		return "quitting"
	default:
		return "unknown"
	}
}

// Key bindings.
const (
	keyQuit      = "q"
	keyCtrlC     = "ctrl+c"
	keyEnter     = "enter"
	keyEsc       = "esc"
	keyBackspace = "backspace"
	keySlash     = "/"
	keyS         = "s"
	keyR         = "r"
	keyTab       = "tab"
	keyShiftTab  = "shift+tab"
	keyPgUp      = "pgup"
	keyPgDown    = "pgdown"
)

// Layout defaults.
const (
	defaultWidth  = 100
	defaultHeight = 30
	minHeight     = 5
	borderPadding = 2
	// chromeHeight is the lines taken by title, status bar, and footer.
	chromeHeight = 6
	// rowsPerPage is the grid pagination threshold.
	rowsPerPage = 200
	// maxColumnWidth caps auto-sized grid columns.
	maxColumnWidth = 40
	minColumnWidth = 4
)

const truncateSuffix = "..."

// newTextInput builds the filter prompt.
func newTextInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.CharLimit = 100 //nolint:mnd // generous query limit
	ti.Width = 40      //nolint:mnd // prompt width
	return ti
}

// LoadingState wraps the spinner shown while a view loads.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState returns a spinner with the default message.
func NewLoadingState() *LoadingState {
	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(InfoStyle))
	return &LoadingState{spinner: s, message: "Loading..."}
}

// Init starts the spinner ticking.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// SetMessage changes the text beside the spinner.
func (l *LoadingState) SetMessage(msg string) {
	l.message = msg
}

// Update advances the spinner on tick messages.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// View renders the spinner line.
func (l *LoadingState) View() string {
	return l.spinner.View() + " " + l.message
}

// truncate shortens s to at most width runes.
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width <= len(truncateSuffix) {
		return string(r[:width])
	}
	return string(r[:width-len(truncateSuffix)]) + truncateSuffix
}
