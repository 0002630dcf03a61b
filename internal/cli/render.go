package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/rshade/confirmvotes/internal/config"
	"github.com/rshade/confirmvotes/internal/pagination"
	"github.com/rshade/confirmvotes/internal/resolver"
	"github.com/rshade/confirmvotes/internal/tui"
)

// tabPadding is the minimum column padding for tabwriter output.
const tabPadding = 2

// rowOutput is one resolved row in json, ndjson, and yaml output. Fields
// holds display text; Links holds the record id behind each linked cell.
type rowOutput struct {
	ID     string            `json:"id"              yaml:"id"`
	Fields map[string]string `json:"fields"          yaml:"fields"`
	Links  map[string]string `json:"links,omitempty" yaml:"links,omitempty"`
}

// resultOutput is a whole view in json and yaml output.
type resultOutput struct {
	View       string           `json:"view"                 yaml:"view"`
	Columns    []string         `json:"columns"              yaml:"columns"`
	Rows       []rowOutput      `json:"rows"                 yaml:"rows"`
	Pagination *pagination.Meta `json:"pagination,omitempty" yaml:"pagination,omitempty"`
}

func newRowOutput(res *resolver.Result, row resolver.Row) rowOutput {
	out := rowOutput{ID: row.RecordID, Fields: make(map[string]string)}
	for _, i := range res.VisibleColumns() {
		name := res.Columns[i].Name
		out.Fields[name] = res.CellText(row, i)
		if id := row.Cells[i].LinkID; id != "" && res.Columns[i].LinkTo != resolver.LinkNone {
			if out.Links == nil {
				out.Links = make(map[string]string)
			}
			out.Links[name] = id
		}
	}
	return out
}

func newResultOutput(res *resolver.Result, meta *pagination.Meta) resultOutput {
	out := resultOutput{
		View:       res.View,
		Columns:    pagination.ValidFields(res),
		Rows:       make([]rowOutput, 0, len(res.Rows)),
		Pagination: meta,
	}
	for _, row := range res.Rows {
		out.Rows = append(out.Rows, newRowOutput(res, row))
	}
	return out
}

// renderResult writes res in format. meta is nil when no window was requested.
func renderResult(w io.Writer, format string, res *resolver.Result, meta *pagination.Meta) error {
	var err error
	switch format {
	case config.FormatJSON:
		err = renderJSON(w, newResultOutput(res, meta))
	case config.FormatNDJSON:
		err = renderResultNDJSON(w, res)
	case config.FormatYAML:
		err = renderYAML(w, newResultOutput(res, meta))
	default:
		err = renderResultTable(w, res, meta)
	}
	if isBrokenPipe(err) {
		return nil
	}
	return err
}

// renderResultTable picks a lipgloss table on a terminal and a tabwriter
// table everywhere else.
func renderResultTable(w io.Writer, res *resolver.Result, meta *pagination.Meta) error {
	if res.Len() == 0 {
		_, err := fmt.Fprintln(w, "No rows.")
		return err
	}

	var err error
	if tui.DetectOutputMode(w) == tui.OutputModePlain {
		err = renderPlainTable(w, res)
	} else {
		err = renderStyledTable(w, res)
	}
	if err != nil {
		return err
	}

	if meta != nil && meta.TotalPages > 1 {
		_, err = fmt.Fprintf(w, "\nPage %d/%d (%d rows)\n", meta.CurrentPage, meta.TotalPages, meta.TotalItems)
	}
	return err
}

func renderPlainTable(w io.Writer, res *resolver.Result) error {
	visible := res.VisibleColumns()
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)

	headers := make([]string, len(visible))
	dashes := make([]string, len(visible))
	for j, i := range visible {
		headers[j] = strings.ToUpper(res.Columns[i].Name)
		dashes[j] = strings.Repeat("-", len(headers[j]))
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))

	cells := make([]string, len(visible))
	for _, row := range res.Rows {
		for j, i := range visible {
			cells[j] = res.CellText(row, i)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}
	return nil
}

func renderStyledTable(w io.Writer, res *resolver.Result) error {
	visible := res.VisibleColumns()
	headers := make([]string, len(visible))
	for j, i := range visible {
		headers[j] = res.Columns[i].Name
	}

	rows := make([][]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		cells := make([]string, len(visible))
		for j, i := range visible {
			cells[j] = res.CellText(row, i)
		}
		rows = append(rows, cells)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tui.SubtleStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tui.HeaderStyle.Padding(0, 1)
			}
			return tui.TableCellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func renderResultNDJSON(w io.Writer, res *resolver.Result) error {
	encoder := json.NewEncoder(w)
	for _, row := range res.Rows {
		if err := encoder.Encode(newRowOutput(res, row)); err != nil {
			return fmt.Errorf("encoding row %s: %w", row.RecordID, err)
		}
	}
	return nil
}

// renderNDJSONValue writes v as a single JSON line.
func renderNDJSONValue(w io.Writer, v any) error {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func renderJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func renderYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return encoder.Close()
}

// isBrokenPipe checks if an error is a broken pipe error (SIGPIPE).
// This occurs when output is piped to commands like `head` that close the pipe early.
func isBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EPIPE
	}
	return strings.Contains(err.Error(), "broken pipe")
}
