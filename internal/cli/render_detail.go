package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rshade/confirmvotes/internal/config"
	"github.com/rshade/confirmvotes/internal/record"
	"github.com/rshade/confirmvotes/internal/router"
	"github.com/rshade/confirmvotes/internal/tui"
	"github.com/rshade/confirmvotes/internal/views"
)

// sectionOutput is a related list of a detail page.
type sectionOutput struct {
	Title string      `json:"title" yaml:"title"`
	Count int         `json:"count" yaml:"count"`
	Rows  []rowOutput `json:"rows"  yaml:"rows"`
}

// detailOutput is an entity page in json, ndjson, and yaml output.
type detailOutput struct {
	Kind     router.Kind         `json:"kind"                yaml:"kind"`
	ID       string              `json:"id"                  yaml:"id"`
	Title    string              `json:"title"               yaml:"title"`
	PhotoURL string              `json:"photo_url,omitempty" yaml:"photo_url,omitempty"`
	Tally    *record.Tally       `json:"tally,omitempty"     yaml:"tally,omitempty"`
	Links    []views.LinkSummary `json:"links,omitempty"     yaml:"links,omitempty"`
	Sections []sectionOutput     `json:"sections,omitempty"  yaml:"sections,omitempty"`
}

func newDetailOutput(d *views.Detail) detailOutput {
	out := detailOutput{
		Kind:     d.Kind,
		ID:       d.Record.ID,
		Title:    d.Title,
		PhotoURL: d.PhotoURL,
		Tally:    d.Tally,
		Links:    d.Links,
	}
	for _, s := range d.Sections {
		res := newResultOutput(s.Result, nil)
		out.Sections = append(out.Sections, sectionOutput{Title: s.Title, Count: len(res.Rows), Rows: res.Rows})
	}
	return out
}

// renderDetail writes a found entity page in format.
func renderDetail(w io.Writer, format string, d *views.Detail) error {
	var err error
	switch format {
	case config.FormatJSON:
		err = renderJSON(w, newDetailOutput(d))
	case config.FormatNDJSON:
		err = renderNDJSONValue(w, newDetailOutput(d))
	case config.FormatYAML:
		err = renderYAML(w, newDetailOutput(d))
	default:
		err = renderDetailText(w, d)
	}
	if isBrokenPipe(err) {
		return nil
	}
	return err
}

func renderDetailText(w io.Writer, d *views.Detail) error {
	styled := tui.DetectOutputMode(w) != tui.OutputModePlain

	fmt.Fprintln(w, d.Title)
	fmt.Fprintf(w, "%s %s\n", d.Kind, d.Record.ID)
	if d.PhotoURL != "" {
		fmt.Fprintf(w, "Photo: %s\n", d.PhotoURL)
	}
	for _, l := range d.Links {
		fmt.Fprintf(w, "%s: %s (%s)\n", l.Label, l.Text, l.Path())
	}

	if d.Tally != nil {
		fmt.Fprintln(w)
		if styled {
			fmt.Fprintln(w, tui.VoteBar(*d.Tally, tui.TerminalWidth(w)/2))
		} else {
			fmt.Fprintln(w, tallyLine(*d.Tally))
		}
	}

	for _, s := range d.Sections {
		fmt.Fprintf(w, "\n%s (%d)\n", s.Title, s.Result.Len())
		if err := renderResultTable(w, s.Result, nil); err != nil {
			return err
		}
	}
	return nil
}

// tallyLine is the uncolored vote breakdown.
func tallyLine(t record.Tally) string {
	if t.Total() == 0 {
		return "No votes recorded."
	}
	return fmt.Sprintf("Aye %d (%.0f%%)  Nay %d (%.0f%%)  Absent %d  Excused %d",
		t.Ayes, t.Percent(t.Ayes), t.Nays, t.Percent(t.Nays), t.Absent, t.Excused)
}

// renderRecordPage writes a generic record in format.
func renderRecordPage(w io.Writer, format string, p *views.RecordPage) error {
	var err error
	switch format {
	case config.FormatJSON:
		err = renderJSON(w, p)
	case config.FormatNDJSON:
		err = renderNDJSONValue(w, p)
	case config.FormatYAML:
		err = renderYAML(w, p)
	default:
		err = renderRecordText(w, p)
	}
	if isBrokenPipe(err) {
		return nil
	}
	return err
}

func renderRecordText(w io.Writer, p *views.RecordPage) error {
	fmt.Fprintln(w, p.Title)
	fmt.Fprintf(w, "%s %s\n\n", p.Table, p.ID)

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	fmt.Fprintln(tw, "-----\t-----")
	for _, f := range p.Fields {
		value := f.Value.Text()
		if len(f.Links) > 0 {
			parts := make([]string, len(f.Links))
			for i, l := range f.Links {
				parts[i] = fmt.Sprintf("%s (%s)", l.Text, l.Path())
			}
			value = strings.Join(parts, ", ")
		}
		fmt.Fprintf(tw, "%s\t%s\n", f.Name, value)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}
	return nil
}
