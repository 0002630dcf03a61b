package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"github.com/rshade/confirmvotes/internal/router"
)

// ErrNotInteractive is returned when the browser has no terminal to run in.
var ErrNotInteractive = errors.New("the browser needs an interactive terminal")

// Option configures Run.
type Option func(*runOptions)

type runOptions struct {
	locale    language.Tag
	input     io.Reader
	output    io.Writer
	altScreen bool
}

// WithLocale sets the collation locale for grid sorting.
func WithLocale(tag language.Tag) Option {
	return func(o *runOptions) { o.locale = tag }
}

// WithIO replaces the terminal streams and disables the alternate screen.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(o *runOptions) {
		o.input = in
		o.output = out
		o.altScreen = false
	}
}

// Run starts the browser at start and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, loader Loader, start router.Route, opts ...Option) error {
	o := runOptions{locale: language.Und, altScreen: true}
	for _, opt := range opts {
		opt(&o)
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if o.altScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if o.input != nil {
		programOpts = append(programOpts, tea.WithInput(o.input))
	}
	if o.output != nil {
		programOpts = append(programOpts, tea.WithOutput(o.output))
	}

	p := tea.NewProgram(NewBrowserModel(ctx, loader, start, o.locale), programOpts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
