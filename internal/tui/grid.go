package tui

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/rshade/confirmvotes/internal/pagination"
	"github.com/rshade/confirmvotes/internal/resolver"
	"github.com/rshade/confirmvotes/internal/router"
)

// defaultSort means the view's own ordering.
const defaultSort = -1

// GridModel shows a resolved view as a table with filtering, sort cycling,
// and paging. It is embedded by the browser rather than run on its own.
//
//nolint:recvcheck // Bubble Tea style value receivers with pointer helpers.
type GridModel struct {
	base   *resolver.Result // as loaded
	rows   *resolver.Result // filtered and sorted
	locale language.Tag

	table     table.Model
	textInput textinput.Model

	showFilter bool
	// sortCol indexes VisibleColumns, or defaultSort.
	sortCol    int
	descending bool

	paginationEnabled bool
	currentPage       int
	totalPages        int

	width   int
	height  int
	focused bool
}

// NewGridModel builds a focused grid over res.
func NewGridModel(res *resolver.Result, locale language.Tag, width, height int) GridModel {
	if res == nil {
		res = &resolver.Result{}
	}
	m := GridModel{
		base:        res,
		rows:        res,
		locale:      locale,
		textInput:   newTextInput(),
		sortCol:     defaultSort,
		currentPage: 1,
		width:       width,
		height:      height,
		focused:     true,
	}
	m.applyFilter("")
	return m
}

// Update handles grid keys. Keys the grid does not own go to the table.
func (m GridModel) Update(msg tea.Msg) (GridModel, tea.Cmd) {
	if m.showFilter {
		return m.handleFilterInput(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case keySlash:
		m.showFilter = true
		return m, m.textInput.Focus()
	case keyS:
		m.cycleSort()
		return m, nil
	case keyR:
		m.descending = !m.descending
		m.refreshTable()
		return m, nil
	case keyEsc:
		if m.textInput.Value() != "" {
			m.textInput.SetValue("")
			m.applyFilter("")
		}
		return m, nil
	case keyPgUp:
		if m.paginationEnabled {
			if m.currentPage > 1 {
				m.currentPage--
				m.rebuildTable()
			}
			return m, nil
		}
	case keyPgDown:
		if m.paginationEnabled {
			if m.currentPage < m.totalPages {
				m.currentPage++
				m.rebuildTable()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(keyMsg)
	return m, cmd
}

func (m GridModel) handleFilterInput(msg tea.Msg) (GridModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter, keyEsc:
			m.showFilter = false
			m.textInput.Blur()
			m.applyFilter(m.textInput.Value())
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.applyFilter(m.textInput.Value())
	return m, cmd
}

// Filtering reports whether the filter prompt has the keyboard.
func (m GridModel) Filtering() bool {
	return m.showFilter
}

// FilterText returns the active filter query.
func (m GridModel) FilterText() string {
	return m.textInput.Value()
}

// Len is the number of rows after filtering.
func (m GridModel) Len() int {
	return m.rows.Len()
}

// Rows returns the filtered, sorted rows.
func (m GridModel) Rows() []resolver.Row {
	return m.rows.Rows
}

// SortLabel names the current sort column and direction.
func (m GridModel) SortLabel() string {
	name := "default"
	if m.sortCol != defaultSort {
		name = m.base.Columns[m.base.VisibleColumns()[m.sortCol]].Name
	}
	if m.descending {
		return name + " (desc)"
	}
	return name
}

// SelectedRow returns the row under the cursor.
func (m GridModel) SelectedRow() (resolver.Row, bool) {
	idx := m.absoluteIndex(m.table.Cursor())
	if idx < 0 || idx >= m.rows.Len() {
		return resolver.Row{}, false
	}
	return m.rows.Rows[idx], true
}

// SelectedLink returns where enter should go: the first linkable cell of
// the selected row that resolved to a record.
func (m GridModel) SelectedLink() (router.Route, bool) {
	row, ok := m.SelectedRow()
	if !ok {
		return router.Route{}, false
	}
	for i, col := range m.rows.Columns {
		if col.LinkTo == resolver.LinkNone || col.Kind == "" || i >= len(row.Cells) {
			continue
		}
		if id := row.Cells[i].LinkID; id != "" {
			return router.Route{Kind: router.Kind(col.Kind), ID: id}, true
		}
	}
	return router.Route{}, false
}

// Resize fits the grid to a new window.
func (m *GridModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.rebuildTable()
}

// SetFocused toggles whether the grid highlights its cursor.
func (m *GridModel) SetFocused(focused bool) {
	m.focused = focused
	if focused {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

// cycleSort advances through default order and each visible column.
func (m *GridModel) cycleSort() {
	visible := m.base.VisibleColumns()
	m.sortCol++
	if m.sortCol >= len(visible) {
		m.sortCol = defaultSort
	}
	m.refreshTable()
}

// applyFilter narrows the base rows to those matching filterText and
// resets paging.
func (m *GridModel) applyFilter(filterText string) {
	m.rows = m.base.Search(filterText)
	m.enablePaginationIfNeeded()
	m.refreshTable()
}

// refreshTable re-sorts the filtered rows and rebuilds the table.
func (m *GridModel) refreshTable() {
	filtered := m.base.Search(m.textInput.Value())
	if m.sortCol == defaultSort {
		if m.descending {
			slices.Reverse(filtered.Rows)
		}
		m.rows = filtered
	} else {
		idx := m.base.VisibleColumns()[m.sortCol]
		key := resolver.SortKey{
			Column:     m.base.Columns[idx].Name,
			Descending: m.descending,
			Compare:    pagination.InferCompare(m.base, idx),
		}
		m.rows = filtered.Sorted([]resolver.SortKey{key}, m.locale)
	}
	m.rebuildTable()
}

func (m *GridModel) rebuildTable() {
	m.table = m.buildTable()
}

func (m *GridModel) buildTable() table.Model {
	visible := m.rows.VisibleColumns()
	page := m.getVisibleRows()

	widths := make([]int, len(visible))
	for i, col := range visible {
		widths[i] = utf8.RuneCountInString(m.rows.Columns[col].Name)
	}
	rows := make([]table.Row, len(page))
	for r, row := range page {
		cells := make(table.Row, len(visible))
		for i, col := range visible {
			cells[i] = m.rows.CellText(row, col)
			widths[i] = max(widths[i], utf8.RuneCountInString(cells[i]))
		}
		rows[r] = cells
	}

	columns := make([]table.Column, len(visible))
	for i, col := range visible {
		w := min(max(widths[i], minColumnWidth), maxColumnWidth)
		columns[i] = table.Column{Title: m.rows.Columns[col].Name, Width: w}
		for _, cells := range rows {
			cells[i] = truncate(cells[i], w)
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(m.focused),
		table.WithHeight(max(m.height, minHeight)),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)

	return t
}

func (m *GridModel) enablePaginationIfNeeded() {
	m.currentPage = 1
	if m.rows.Len() > rowsPerPage {
		m.paginationEnabled = true
		m.totalPages = (m.rows.Len() + rowsPerPage - 1) / rowsPerPage
		return
	}
	m.paginationEnabled = false
	m.totalPages = 1
}

func (m GridModel) getVisibleRows() []resolver.Row {
	if !m.paginationEnabled {
		return m.rows.Rows
	}
	start := (m.currentPage - 1) * rowsPerPage
	if start >= m.rows.Len() {
		return nil
	}
	end := min(start+rowsPerPage, m.rows.Len())
	return m.rows.Rows[start:end]
}

// absoluteIndex converts a page-relative table cursor to a row index.
func (m GridModel) absoluteIndex(cursor int) int {
	if m.paginationEnabled {
		return (m.currentPage-1)*rowsPerPage + cursor
	}
	return cursor
}

// View renders the table with its footer, status line, and filter prompt.
func (m GridModel) View() string {
	sections := []string{}
	if m.rows.Len() == 0 {
		sections = append(sections, SubtleStyle.Render("No rows."))
	} else {
		sections = append(sections, m.table.View())
	}
	if m.paginationEnabled {
		sections = append(sections, m.renderPaginationFooter())
	}
	sections = append(sections, m.renderStatusBar())
	if m.showFilter {
		sections = append(sections, LabelStyle.Render("Filter: ")+m.textInput.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m GridModel) renderStatusBar() string {
	status := fmt.Sprintf("%d rows | Sort: %s", m.rows.Len(), m.SortLabel())
	if q := m.textInput.Value(); q != "" {
		status = fmt.Sprintf("%d/%d rows | Filter: %q | Sort: %s", m.rows.Len(), m.base.Len(), q, m.SortLabel())
	}
	return SubtleStyle.Render(status)
}

func (m GridModel) renderPaginationFooter() string {
	return fmt.Sprintf("Page %d/%d | Use PgUp/PgDn to navigate", m.currentPage, m.totalPages)
}
