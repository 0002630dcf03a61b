package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/rshade/confirmvotes/internal/logging"
	"github.com/rshade/confirmvotes/internal/resolver"
	"github.com/rshade/confirmvotes/internal/router"
	listview "github.com/rshade/confirmvotes/internal/tui/list"
	"github.com/rshade/confirmvotes/internal/views"
)

// Loader fetches the data behind a route. *views.Service satisfies it.
type Loader interface {
	List(ctx context.Context, kind router.Kind) (*resolver.Result, error)
	Detail(ctx context.Context, kind router.Kind, id string) (*views.Detail, error)
	Record(ctx context.Context, table, id string) (*views.RecordPage, error)
}

// page is one loaded route. Exactly one of list, detail, or record is set.
type page struct {
	route  router.Route
	list   *resolver.Result
	detail *views.Detail
	record *views.RecordPage
}

// pageLoadedMsg carries a finished load back to Update.
type pageLoadedMsg struct {
	ticket views.Ticket
	page   page
	err    error
}

type menuItem struct {
	kind  router.Kind
	label string
}

// BrowserModel is the root Bubble Tea model of the interactive browser.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type BrowserModel struct {
	ctx    context.Context
	loader Loader
	locale language.Tag

	state   ViewState
	route   router.Route
	history []router.Route
	session *views.Session[page]
	current page

	menu     *listview.VirtualListModel[menuItem]
	grid     GridModel
	sections []GridModel
	focus    int

	loadingState *LoadingState

	width  int
	height int
	err    error
}

// NewBrowserModel returns a browser that opens at start.
func NewBrowserModel(ctx context.Context, loader Loader, start router.Route, locale language.Tag) BrowserModel {
	items := make([]menuItem, 0, len(router.EntityKinds()))
	for _, k := range router.EntityKinds() {
		label := string(k)
		items = append(items, menuItem{kind: k, label: strings.ToUpper(label[:1]) + label[1:]})
	}

	state := ViewStateMenu
	if start.Kind != router.KindHome && start.Kind != "" {
		state = ViewStateLoading
	}

	return BrowserModel{
		ctx:          ctx,
		loader:       loader,
		locale:       locale,
		state:        state,
		route:        start,
		session:      &views.Session[page]{},
		menu:         listview.NewVirtualListModel(items, len(items), defaultWidth, renderMenuItem),
		loadingState: NewLoadingState(),
		width:        defaultWidth,
		height:       defaultHeight,
	}
}

func renderMenuItem(item menuItem, selected bool) string {
	if selected {
		return MenuSelectedStyle.Render("> " + item.label)
	}
	return MenuItemStyle.Render(item.label)
}

// Init loads the starting route.
func (m BrowserModel) Init() tea.Cmd {
	if m.route.Kind == router.KindHome || m.route.Kind == "" {
		return nil
	}
	return tea.Batch(m.loadingState.Init(), func() tea.Msg {
		return startMsg{}
	})
}

// startMsg asks Update to load the starting route. Init cannot change
// model state.
type startMsg struct{}

// State returns the current screen.
func (m BrowserModel) State() ViewState {
	return m.state
}

// Route returns the route being shown or loaded.
func (m BrowserModel) Route() router.Route {
	return m.route
}

// Err returns the error shown in the error state.
func (m BrowserModel) Err() error {
	return m.err
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case startMsg:
		return m.load(m.route)
	case pageLoadedMsg:
		return m.handlePageLoaded(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == ViewStateLoading {
		return m, m.loadingState.Update(msg)
	}
	return m.forwardToGrid(msg)
}

func (m BrowserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == keyCtrlC {
		m.state = ViewStateQuitting
		return m, tea.Quit
	}
	if m.filtering() {
		return m.forwardToGrid(msg)
	}
	if key == keyQuit {
		m.state = ViewStateQuitting
		return m, tea.Quit
	}

	switch m.state {
	case ViewStateMenu:
		return m.handleMenuKey(msg)
	case ViewStateList:
		return m.handleListKey(msg)
	case ViewStateDetail:
		return m.handleDetailKey(msg)
	case ViewStateRecord:
		return m.handleRecordKey(msg)
	case ViewStateError:
		switch key {
		case keyR:
			return m.load(m.route)
		case keyEsc, keyBackspace:
			return m.back()
		}
	case ViewStateLoading:
		if key == keyEsc || key == keyBackspace {
			return m.back()
		}
	case ViewStateQuitting:
	}
	return m, nil
}

func (m BrowserModel) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == keyEnter {
		if item := m.menu.GetSelectedItem(); item != nil {
			return m.navigate(router.Route{Kind: item.kind})
		}
		return m, nil
	}
	m.menu.Update(msg)
	return m, nil
}

func (m BrowserModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		if route, ok := m.grid.SelectedLink(); ok {
			return m.navigate(route)
		}
		return m, nil
	case keyEsc, keyBackspace:
		if m.grid.FilterText() != "" {
			break
		}
		return m.back()
	}
	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

func (m BrowserModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if route, ok := m.hotkeyLink(key, m.current.detail.Links); ok {
		return m.navigate(route)
	}

	switch key {
	case keyTab, keyShiftTab:
		if len(m.sections) > 1 {
			step := 1
			if key == keyShiftTab {
				step = len(m.sections) - 1
			}
			m.focusSection((m.focus + step) % len(m.sections))
		}
		return m, nil
	case keyEnter:
		if len(m.sections) > 0 {
			if route, ok := m.sections[m.focus].SelectedLink(); ok {
				return m.navigate(route)
			}
		}
		return m, nil
	case keyEsc, keyBackspace:
		if len(m.sections) > 0 && m.sections[m.focus].FilterText() != "" {
			break
		}
		return m.back()
	}
	if len(m.sections) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.sections[m.focus], cmd = m.sections[m.focus].Update(msg)
	return m, cmd
}

func (m BrowserModel) handleRecordKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.current.record != nil {
		if route, ok := m.hotkeyLink(key, recordLinks(m.current.record)); ok {
			return m.navigate(route)
		}
	}
	if key == keyEsc || key == keyBackspace {
		return m.back()
	}
	return m, nil
}

// hotkeyLink maps "1".."9" to the matching link.
func (m BrowserModel) hotkeyLink(key string, links []views.LinkSummary) (router.Route, bool) {
	n, err := strconv.Atoi(key)
	if err != nil || n < 1 || n > len(links) || n > maxLinkHotkeys {
		return router.Route{}, false
	}
	route, err := router.Parse(links[n-1].Path())
	if err != nil {
		return router.Route{}, false
	}
	return route, true
}

// forwardToGrid sends non-key messages (and keys while filtering) to the
// active grid.
func (m BrowserModel) forwardToGrid(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case ViewStateList:
		m.grid, cmd = m.grid.Update(msg)
	case ViewStateDetail:
		if len(m.sections) > 0 {
			m.sections[m.focus], cmd = m.sections[m.focus].Update(msg)
		}
	case ViewStateLoading, ViewStateMenu, ViewStateRecord, ViewStateError, ViewStateQuitting:
	}
	return m, cmd
}

func (m BrowserModel) filtering() bool {
	switch m.state {
	case ViewStateList:
		return m.grid.Filtering()
	case ViewStateDetail:
		return len(m.sections) > 0 && m.sections[m.focus].Filtering()
	default:
		return false
	}
}

// navigate records the current route and opens route.
func (m BrowserModel) navigate(route router.Route) (tea.Model, tea.Cmd) {
	m.history = append(m.history, m.route)
	return m.load(route)
}

// back returns to the previous route, or the menu when there is none.
func (m BrowserModel) back() (tea.Model, tea.Cmd) {
	if len(m.history) == 0 {
		if m.route.Kind == router.KindHome || m.route.Kind == "" {
			return m, nil
		}
		return m.load(router.Route{Kind: router.KindHome})
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	return m.load(prev)
}

// load starts fetching route. Results of earlier loads still in flight are
// discarded when they arrive.
func (m BrowserModel) load(route router.Route) (tea.Model, tea.Cmd) {
	m.route = route
	m.err = nil

	if route.Kind == router.KindHome || route.Kind == "" {
		m.session.Reset()
		m.state = ViewStateMenu
		return m, nil
	}

	ticket := m.session.Begin(views.Params{View: route.Path(), ID: route.ID})
	m.state = ViewStateLoading
	m.loadingState.SetMessage("Loading " + route.Path() + "...")

	ctx, loader := m.ctx, m.loader
	fetch := func() tea.Msg {
		p, err := fetchPage(ctx, loader, route)
		return pageLoadedMsg{ticket: ticket, page: p, err: err}
	}
	return m, tea.Batch(m.loadingState.Init(), fetch)
}

func fetchPage(ctx context.Context, loader Loader, route router.Route) (page, error) {
	logger := logging.ComponentLogger(*logging.FromContext(ctx), "tui")
	logger.Debug().Ctx(ctx).Str("route", route.Path()).Msg("loading route")

	p := page{route: route}
	var err error
	switch {
	case route.Kind == router.KindRecord:
		p.record, err = loader.Record(ctx, route.Table, route.ID)
	case route.IsDetail():
		p.detail, err = loader.Detail(ctx, route.Kind, route.ID)
	default:
		p.list, err = loader.List(ctx, route.Kind)
	}
	if err != nil {
		logger.Error().Ctx(ctx).Err(err).Str("route", route.Path()).Msg("load failed")
	}
	return p, err
}

func (m BrowserModel) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.session.Complete(msg.ticket, msg.page, msg.err) {
		return m, nil
	}
	if msg.err != nil {
		m.state = ViewStateError
		m.err = msg.err
		return m, nil
	}

	m.current = msg.page
	switch {
	case msg.page.list != nil:
		m.state = ViewStateList
		m.grid = NewGridModel(msg.page.list, m.locale, m.width, m.gridHeight())
	case msg.page.detail != nil:
		m.state = ViewStateDetail
		m.sections = make([]GridModel, 0, len(msg.page.detail.Sections))
		for _, s := range msg.page.detail.Sections {
			m.sections = append(m.sections, NewGridModel(s.Result, m.locale, m.width, m.sectionHeight()))
		}
		m.focusSection(0)
	case msg.page.record != nil:
		m.state = ViewStateRecord
	default:
		m.state = ViewStateError
		m.err = errors.New("empty page")
	}
	return m, nil
}

func (m *BrowserModel) focusSection(i int) {
	m.focus = i
	for j := range m.sections {
		m.sections[j].SetFocused(j == i)
	}
}

func (m *BrowserModel) gridHeight() int {
	return max(m.height-chromeHeight, minHeight)
}

// sectionHeight leaves room for the detail card above the focused section.
func (m *BrowserModel) sectionHeight() int {
	const cardHeight = 10
	return max(m.height-chromeHeight-cardHeight, minHeight)
}

func (m *BrowserModel) resize() {
	m.menu.SetSize(m.width, m.menu.ItemCount())
	if m.state == ViewStateList {
		m.grid.Resize(m.width, m.gridHeight())
	}
	for i := range m.sections {
		m.sections[i].Resize(m.width, m.sectionHeight())
	}
}

// View renders the current view (Bubble Tea interface).
func (m BrowserModel) View() string {
	if m.state == ViewStateQuitting {
		return ""
	}

	title := HeaderStyle.Render("Confirmation Votes") + "  " + SubtleStyle.Render(m.route.Path())
	var body, help string
	switch m.state {
	case ViewStateMenu:
		body = m.menu.View()
		help = "up/down to move | enter to open | q to quit"
	case ViewStateLoading:
		body = m.loadingState.View()
		help = "esc to go back | q to quit"
	case ViewStateList:
		body = m.grid.View()
		help = "enter to open | / filter | s sort | r reverse | esc back | q quit"
	case ViewStateDetail:
		body = m.renderDetailView()
		help = "1-9 follow link | tab switch list | enter open | / filter | s sort | esc back | q quit"
	case ViewStateRecord:
		body = renderRecordPage(m.current.record, m.width)
		help = "1-9 follow link | esc back | q quit"
	case ViewStateError:
		body = CriticalStyle.Render(fmt.Sprintf("Error: %v", m.err))
		help = "r to reload | esc back | q quit"
	case ViewStateQuitting:
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", SubtleStyle.Render(help))
}

func (m BrowserModel) renderDetailView() string {
	d := m.current.detail
	parts := []string{renderDetailCard(d, m.width)}
	if d == nil || !d.Found {
		return parts[0]
	}

	if len(m.sections) > 0 {
		tabs := make([]string, len(d.Sections))
		for i, s := range d.Sections {
			label := fmt.Sprintf("%s (%d)", s.Title, m.sections[i].Len())
			if i == m.focus {
				tabs[i] = HeaderStyle.Render("[" + label + "]")
			} else {
				tabs[i] = LabelStyle.Render(" " + label + " ")
			}
		}
		parts = append(parts, strings.Join(tabs, " "), m.sections[m.focus].View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
