package tui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// OutputMode says how much terminal capability the output has.
type OutputMode int

// Output modes, from least to most capable.
const (
	OutputModePlain OutputMode = iota
	OutputModeStyled
	OutputModeInteractive
)

func (m OutputMode) String() string {
	switch m {
	case OutputModePlain:
		return "plain"
	case OutputModeStyled:
		return "styled"
	case OutputModeInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// DetectOutputMode inspects out and the environment. Styling needs a
// terminal on out; interactivity also needs a terminal on stdin. NO_COLOR
// and TERM=dumb force plain output.
func DetectOutputMode(out io.Writer) OutputMode {
	if _, ok := os.LookupEnv("NO_COLOR"); ok || os.Getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return OutputModePlain
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return OutputModeInteractive
	}
	return OutputModeStyled
}

// TerminalWidth returns the width of out, or defaultWidth when unknown.
func TerminalWidth(out io.Writer) int {
	if f, ok := out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return defaultWidth
}
