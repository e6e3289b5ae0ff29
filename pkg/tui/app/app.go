// Package app hosts the Bubble Tea root model for the almanac TUI: it owns
// the grid cache, the selection machine, the event sources and the view
// components, and routes input between them.
package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/clock"
	"tableflip.dev/almanac/pkg/event"
	"tableflip.dev/almanac/pkg/event/ics"
	"tableflip.dev/almanac/pkg/grid"
	gridcache "tableflip.dev/almanac/pkg/grid/cache"
	"tableflip.dev/almanac/pkg/selection"
	"tableflip.dev/almanac/pkg/store"
	"tableflip.dev/almanac/pkg/tui/components/minical"
	"tableflip.dev/almanac/pkg/tui/components/monthgrid"
	"tableflip.dev/almanac/pkg/tui/components/quickadd"
	"tableflip.dev/almanac/pkg/tui/components/timegrid"
	"tableflip.dev/almanac/pkg/tui/events"
	"tableflip.dev/almanac/pkg/tui/theme"
)

const rootID = events.ComponentID("app")

// yearCols is the number of mini calendars per row in the year view.
const yearCols = 3

// Options configures the root model.
type Options struct {
	Settings   grid.Settings
	SlotConfig selection.SlotConfig
	Store      store.Persistence
	Feed       *ics.Feed
	Clock      clock.Clock
	Location   *time.Location
}

// Model contains the UI state.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	th       theme.Theme
	settings grid.Settings
	clk      clock.Clock
	loc      *time.Location

	cache   *gridcache.Cache
	sel     *selection.Machine
	persist store.Persistence
	feed    *ics.Feed
	sources []event.Source

	granularity grid.Granularity
	anchor      civil.Date
	today       civil.Date

	month   *monthgrid.Model
	timegd  *timegrid.Model
	overlay *quickadd.Model

	events  []event.Event
	status  string
	loadErr error

	watchCh     <-chan store.Notification
	watchCancel context.CancelFunc

	width    int
	height   int
	dragging bool
}

// New creates the root model.
func New(opts Options) *Model {
	if opts.Clock == nil {
		opts.Clock = clock.System()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	th := theme.Default()
	today := civil.DateOf(opts.Clock.Now().In(opts.Location))
	ctx, cancel := context.WithCancel(context.Background())

	m := &Model{
		ctx:         ctx,
		cancel:      cancel,
		th:          th,
		settings:    opts.Settings,
		clk:         opts.Clock,
		loc:         opts.Location,
		cache:       gridcache.New(opts.Settings),
		sel:         selection.New(opts.SlotConfig, opts.Location),
		persist:     opts.Store,
		feed:        opts.Feed,
		granularity: grid.Month,
		anchor:      today,
		today:       today,
		month:       monthgrid.New(th, opts.Settings.MaxVisibleLanes),
		timegd:      timegrid.New(th, opts.Settings, opts.Location),
	}
	if opts.Store != nil {
		m.sources = append(m.sources, opts.Store)
	}
	if opts.Feed != nil {
		m.sources = append(m.sources, opts.Feed)
	}
	m.cache.SetToday(today)
	m.refreshGrid()
	return m
}

// Init loads the initial period and starts the clock tick and the store
// watcher.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadEvents(), events.Tick()}
	if cmd := m.startWatch(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Close releases the model's background resources.
func (m *Model) Close() {
	m.stopWatch()
	m.cancel()
}

// Grid returns the active grid model.
func (m *Model) Grid() *grid.Model {
	return m.cache.GetOrBuild(m.granularity, m.anchor)
}

// Period returns the date range the active grid covers.
func (m *Model) Period() event.Period {
	g := m.Grid()
	return event.Period{Start: g.FirstDate(), End: g.LastDate()}
}

// Selection exposes the drag machine, mainly for tests.
func (m *Model) Selection() *selection.Machine { return m.sel }

func (m *Model) loadEvents() tea.Cmd {
	period := m.Period()
	sources := m.sources
	ctx := m.ctx
	return func() tea.Msg {
		var all []event.Event
		var firstErr error
		for _, src := range sources {
			evs, err := src.Events(ctx, period)
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("%s: %w", src.Name(), err)
				}
				continue
			}
			all = append(all, evs...)
		}
		sort.SliceStable(all, func(i, j int) bool {
			if !all[i].Start.Equal(all[j].Start) {
				return all[i].Start.Before(all[j].Start)
			}
			return all[i].ID < all[j].ID
		})
		return events.EventsLoadedMsg{Component: rootID, Period: period, Events: all, Err: firstErr}
	}
}

func (m *Model) startWatch() tea.Cmd {
	if m.persist == nil {
		return nil
	}
	ctx, cancel := context.WithCancel(m.ctx)
	ch, err := m.persist.Watch(ctx)
	if err != nil {
		cancel()
		m.status = fmt.Sprintf("watch unavailable: %v", err)
		return nil
	}
	m.watchCh = ch
	m.watchCancel = cancel
	return m.waitForWatch()
}

func (m *Model) waitForWatch() tea.Cmd {
	ch := m.watchCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return events.StoreChangedMsg{Calendar: n.Calendar}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

// refreshGrid rebuilds component state from the cache after navigation,
// view switches or data loads.
func (m *Model) refreshGrid() {
	g := m.Grid()
	switch m.granularity {
	case grid.Month:
		m.month.SetGrid(g, m.events)
	case grid.Week, grid.Day:
		m.timegd.SetGrid(g, m.events)
		m.timegd.SetNow(m.clk.Now().In(m.loc))
	}
}

// Update processes Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.month.SetSize(msg.Width, msg.Height-1)
		m.timegd.SetSize(msg.Width, msg.Height-1)
		if m.overlay != nil {
			m.overlay.SetSize(msg.Width, msg.Height)
		}

	case tea.KeyPressMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case tea.BlurMsg:
		// Losing terminal focus abandons any in-flight drag.
		m.cancelDrag()

	case tea.MouseClickMsg:
		if cmd := m.handleMouseDown(msg.X, msg.Y, msg.Button); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case tea.MouseMotionMsg:
		if cmd := m.handleMouseMove(msg.X, msg.Y); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case tea.MouseReleaseMsg:
		if cmd := m.handleMouseUp(); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case events.ViewChangeMsg:
		m.switchView(msg.Granularity, &cmds)

	case events.NavigateMsg:
		m.navigate(msg, &cmds)

	case events.EventsLoadedMsg:
		m.loadErr = msg.Err
		if msg.Err == nil || len(msg.Events) > 0 {
			m.events = msg.Events
		}
		m.refreshGrid()

	case events.SelectionPreviewMsg:
		r := msg.Range
		m.month.SetPreview(&r)
		m.timegd.SetPreview(&r)

	case events.SelectionCancelMsg:
		m.clearPreview()

	case events.SelectionCommitMsg:
		m.clearPreview()
		m.overlay = quickadd.New(m.th, msg.Range)
		m.overlay.SetSize(m.width, m.height)
		cmds = append(cmds, m.overlay.Init())

	case events.QuickAddSubmitMsg:
		m.overlay = nil
		cmds = append(cmds, m.createEvent(msg.Summary, msg.Range))

	case events.QuickAddCancelMsg:
		m.overlay = nil

	case events.EventCreatedMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("create failed: %v", msg.Err)
		} else {
			m.status = fmt.Sprintf("created %q", msg.Event.Summary)
		}
		cmds = append(cmds, m.loadEvents())

	case events.RefreshRequestMsg:
		cmds = append(cmds, m.refreshFeed())

	case events.RefreshDoneMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("refresh failed: %v", msg.Err)
		} else {
			m.status = "subscriptions refreshed"
		}
		cmds = append(cmds, m.loadEvents())

	case events.StoreChangedMsg:
		cmds = append(cmds, m.loadEvents())
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case events.TickMsg:
		now := msg.Now.In(m.loc)
		m.timegd.SetNow(now)
		if today := civil.DateOf(now); today != m.today {
			m.today = today
			m.cache.SetToday(today)
			m.refreshGrid()
		}
		cmds = append(cmds, events.Tick())
	}

	if m.overlay != nil {
		if _, cmd := m.overlay.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	// The overlay captures all keys while open.
	if m.overlay != nil {
		return nil, false
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.Close()
		return tea.Quit, true
	case "m":
		return events.ViewChangeCmd(rootID, grid.Month), true
	case "w":
		return events.ViewChangeCmd(rootID, grid.Week), true
	case "d":
		return events.ViewChangeCmd(rootID, grid.Day), true
	case "y":
		return events.ViewChangeCmd(rootID, grid.Year), true
	case "h", "left":
		return events.NavigateCmd(rootID, -1), true
	case "l", "right":
		return events.NavigateCmd(rootID, 1), true
	case "t":
		return events.JumpCmd(rootID, civil.DateOf(m.clk.Now().In(m.loc))), true
	case "r":
		return events.RefreshCmd(rootID), true
	case "esc":
		m.cancelDrag()
		return nil, true
	}
	return nil, false
}

func (m *Model) cancelDrag() {
	if !m.sel.Active() {
		return
	}
	m.sel.Cancel()
	m.dragging = false
	m.clearPreview()
}

func (m *Model) switchView(g grid.Granularity, cmds *[]tea.Cmd) {
	// Switching views abandons any in-flight drag.
	m.cancelDrag()
	if g == m.granularity {
		return
	}
	m.granularity = g
	m.refreshGrid()
	*cmds = append(*cmds, m.loadEvents())
}

func (m *Model) navigate(msg events.NavigateMsg, cmds *[]tea.Cmd) {
	if msg.Jump != nil {
		m.anchor = *msg.Jump
	} else {
		switch m.granularity {
		case grid.Month:
			m.anchor = m.anchor.AddMonths(msg.Periods)
		case grid.Week:
			m.anchor = m.anchor.AddDays(7 * msg.Periods)
		case grid.Day:
			m.anchor = m.anchor.AddDays(msg.Periods)
		case grid.Year:
			m.anchor = m.anchor.AddMonths(12 * msg.Periods)
		}
	}
	m.refreshGrid()
	*cmds = append(*cmds, m.loadEvents())
}

func (m *Model) clearPreview() {
	m.month.SetPreview(nil)
	m.timegd.SetPreview(nil)
}

func (m *Model) createEvent(summary string, r selection.Range) tea.Cmd {
	persist := m.persist
	return func() tea.Msg {
		e := event.Event{
			Summary: summary,
			AllDay:  r.AllDay,
			Start:   r.Start,
			End:     r.End,
		}
		if persist == nil {
			return events.EventCreatedMsg{Component: rootID, Event: e, Err: fmt.Errorf("no store configured")}
		}
		err := persist.Save(&e)
		return events.EventCreatedMsg{Component: rootID, Event: e, Err: err}
	}
}

func (m *Model) refreshFeed() tea.Cmd {
	feed := m.feed
	ctx := m.ctx
	return func() tea.Msg {
		if feed == nil {
			return events.RefreshDoneMsg{Component: rootID}
		}
		return events.RefreshDoneMsg{Component: rootID, Err: feed.Refresh(ctx)}
	}
}

// ----- mouse -----

func (m *Model) handleMouseDown(x, y int, button tea.MouseButton) tea.Cmd {
	if button != tea.MouseLeft || m.overlay != nil {
		return nil
	}
	switch m.granularity {
	case grid.Month:
		if d, ok := m.month.CellAt(x, y); ok {
			m.sel.StartDate(d)
			m.dragging = true
			return m.previewCmd()
		}
	case grid.Week, grid.Day:
		if day, slot, ok := m.timegd.SlotAt(x, y); ok {
			m.sel.StartTime(day, slot)
			m.dragging = true
			return m.previewCmd()
		}
	case grid.Year:
		if d, ok := m.yearCellAt(x, y); ok {
			m.sel.StartDate(d)
			m.dragging = true
			return m.previewCmd()
		}
	}
	return nil
}

func (m *Model) handleMouseMove(x, y int) tea.Cmd {
	if !m.dragging {
		return nil
	}
	switch m.granularity {
	case grid.Month:
		if d, ok := m.month.CellAt(x, y); ok {
			m.sel.UpdateDate(d)
			return m.previewCmd()
		}
	case grid.Week, grid.Day:
		if _, slot, ok := m.timegd.SlotAt(x, y); ok {
			m.sel.UpdateTime(slot)
			return m.previewCmd()
		}
	case grid.Year:
		if d, ok := m.yearCellAt(x, y); ok {
			m.sel.UpdateDate(d)
			return m.previewCmd()
		}
	}
	return nil
}

func (m *Model) handleMouseUp() tea.Cmd {
	if !m.dragging {
		return nil
	}
	m.dragging = false
	r, ok := m.sel.Release()
	if !ok {
		return nil
	}
	return events.SelectionCommitCmd(rootID, r)
}

func (m *Model) previewCmd() tea.Cmd {
	r, ok := m.sel.Preview()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return events.SelectionPreviewMsg{Component: rootID, Range: r}
	}
}

// yearCellAt hit-tests the year view's mini calendar blocks.
func (m *Model) yearCellAt(x, y int) (civil.Date, bool) {
	g := m.Grid()
	if g.Granularity != grid.Year {
		return civil.Date{}, false
	}
	blockW := minical.Width() + 2
	top := 2 // title + blank line

	yy := y - top
	if yy < 0 {
		return civil.Date{}, false
	}
	for idx := 0; idx < len(g.Months); idx += yearCols {
		rowH := 0
		for c := idx; c < idx+yearCols && c < len(g.Months); c++ {
			if h := minical.Height(g.Months[c]); h > rowH {
				rowH = h
			}
		}
		rowH++ // spacing line between block rows
		if yy < rowH {
			col := x / blockW
			if col < 0 || col >= yearCols {
				return civil.Date{}, false
			}
			i := idx + col
			if i >= len(g.Months) {
				return civil.Date{}, false
			}
			return minical.CellAt(g.Months[i], x-col*blockW, yy)
		}
		yy -= rowH
	}
	return civil.Date{}, false
}

// ----- view -----

// View renders the active view plus the footer, with the quick-add
// overlay centered on top when open.
func (m *Model) View() (string, *tea.Cursor) {
	var body string
	switch m.granularity {
	case grid.Month:
		body = m.month.View()
	case grid.Week, grid.Day:
		body = m.timegd.View()
	case grid.Year:
		body = m.renderYear()
	}

	view := body + "\n" + m.footer()

	if m.overlay != nil {
		box, cursor := m.overlay.View()
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box), cursor
		}
		return box, cursor
	}
	return view, nil
}

func (m *Model) renderYear() string {
	g := m.Grid()
	busy := m.busyDates()

	opts := minical.Options{
		TitleStyle:    m.th.Grid.Title,
		HeaderStyle:   m.th.Grid.DayHeader,
		DayStyle:      m.th.Grid.Cell,
		OutsideStyle:  m.th.Grid.CellOutside,
		WeekendStyle:  m.th.Grid.CellWeekend,
		TodayStyle:    m.th.Grid.CellToday,
		SelectedStyle: m.th.Grid.Selected,
		Busy:          func(d civil.Date) bool { return busy[d] },
	}
	if r, ok := m.sel.Preview(); ok && r.AllDay {
		start, end := r.StartDate(), r.EndDate()
		opts.Selected = func(d civil.Date) bool {
			return !d.Before(start) && !d.After(end)
		}
	}

	var rows []string
	for idx := 0; idx < len(g.Months); idx += yearCols {
		var blocks []string
		for c := idx; c < idx+yearCols && c < len(g.Months); c++ {
			blocks = append(blocks, minical.Render(g.Months[c], opts))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(blocks, 2)...))
	}
	title := m.th.Grid.Title.Render(g.Title)
	return title + "\n\n" + strings.Join(rows, "\n\n")
}

// busyDates marks every date covered by at least one loaded event.
func (m *Model) busyDates() map[civil.Date]bool {
	busy := make(map[civil.Date]bool)
	for _, e := range m.events {
		for d := e.StartDate(); !d.After(e.EndDate()); d = d.AddDays(1) {
			busy[d] = true
		}
	}
	return busy
}

func joinWithGap(blocks []string, gap int) []string {
	if gap <= 0 || len(blocks) < 2 {
		return blocks
	}
	spacer := strings.Repeat(" ", gap)
	out := make([]string, 0, len(blocks)*2-1)
	for i, b := range blocks {
		if i > 0 {
			out = append(out, spacer)
		}
		out = append(out, b)
	}
	return out
}

func (m *Model) footer() string {
	help := m.th.Footer.Help.Render("m/w/d/y views · h/l navigate · t today · r refresh · drag to select · q quit")
	if m.loadErr != nil {
		return m.th.Footer.Error.Render(fmt.Sprintf("load: %v", m.loadErr)) + "  " + help
	}
	if m.status != "" {
		return m.th.Footer.Status.Render(m.status) + "  " + help
	}
	return help
}
