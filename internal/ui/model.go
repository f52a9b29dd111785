package ui

import (
	"context"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"everywhere/internal/config"
	"everywhere/internal/domain"
	"everywhere/internal/eventbus"
	"everywhere/internal/providers"
	"everywhere/internal/results"
	"everywhere/internal/session"
	"everywhere/internal/ui/commands"
	"everywhere/internal/ui/services/events"
	"everywhere/internal/ui/services/navigation"
	"everywhere/internal/ui/services/selection"
	"everywhere/internal/ui/views"
)

// E2EEnv enables the end-to-end test ready marker when set to 1
const E2EEnv = "EVERYWHERE_E2E_TEST"

// Model represents the UI state
type Model struct {
	ctx    context.Context
	bus    eventbus.EventBus
	config *config.Config

	results *results.Model
	session *session.Session

	// UI services
	uiBus     *events.Bus
	navigator *navigation.Service
	selection *selection.Service

	// Widgets
	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	renderer *views.Renderer
	executor *commands.Executor
	pager    *Pager

	width         int
	height        int
	query         string
	statusMessage string
	statusIsError bool
	e2e           bool
}

// NewModel creates a new UI model searching with the configured providers
func NewModel(ctx context.Context, bus eventbus.EventBus, cfg *config.Config) *Model {
	return newModel(ctx, bus, cfg, providers.FromConfig(cfg))
}

func newModel(ctx context.Context, bus eventbus.EventBus, cfg *config.Config, provs []providers.Provider) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "Search everywhere"
	input.Focus()

	dir := ""
	if len(cfg.Roots) > 0 {
		dir = cfg.Roots[0]
	}

	m := &Model{
		ctx:      ctx,
		bus:      bus,
		config:   cfg,
		uiBus:    events.NewBus(),
		input:    input,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:     help.New(),
		keys:     newKeyMap(),
		renderer: views.NewRenderer(cfg.UISettings.ShowProvider),
		pager:    NewPager(),
		e2e:      os.Getenv(E2EEnv) == "1",
	}
	m.executor = commands.NewExecutor(m.pager, dir)

	m.navigator = navigation.NewService(m.uiBus)
	m.selection = selection.NewService(m.uiBus)

	m.results = results.NewModel(results.Options{
		Priorities:        cfg.Priorities(),
		FullReplaceSearch: cfg.Results.FullReplaceSearch,
		Cursor:            m.selection,
	})
	m.session = session.New(m.results, provs, cfg.Throttle, bus)

	m.navigator.SetCountFunction(m.results.Size)
	m.selection.SetCursorFunctions(m.navigator.GetCursor, m.navigator.MoveToIndex, m.results.Size)
	m.uiBus.Subscribe(events.TypeOf(navigation.CursorMovedEvent{}), m.onCursorMoved)

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pager.SetProgram(p)
}

// Init starts the empty query
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.startSearch(""))
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 6
		m.navigator.SetViewportHeight(msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case batchMsg:
		if m.session.Apply(msg.batch) {
			m.clampCursor()
		}
		return m, waitForBatch(msg.batch.Generation, msg.batches)

	case batchesClosedMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case commands.OpenedMsg:
		if msg.Err != nil {
			m.setStatus("Failed to open "+msg.Target+": "+msg.Err.Error(), true)
		}
		return m, nil

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.session.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.navigator.Navigate(navigation.DirectionUp)
	case key.Matches(msg, m.keys.Down):
		m.navigator.Navigate(navigation.DirectionDown)
	case key.Matches(msg, m.keys.PageUp):
		m.navigator.Navigate(navigation.DirectionPageUp)
	case key.Matches(msg, m.keys.PageDown):
		m.navigator.Navigate(navigation.DirectionPageDown)
	case key.Matches(msg, m.keys.Home):
		m.navigator.Navigate(navigation.DirectionHome)
	case key.Matches(msg, m.keys.End):
		m.navigator.Navigate(navigation.DirectionEnd)
	case key.Matches(msg, m.keys.Toggle):
		if cursor := m.navigator.GetCursor(); m.itemAt(cursor) != nil {
			m.selection.Toggle(cursor)
		}
	case key.Matches(msg, m.keys.Range):
		if cursor := m.navigator.GetCursor(); m.itemAt(cursor) != nil {
			m.selection.SelectRange(cursor)
		}
	case key.Matches(msg, m.keys.Clear):
		m.selection.DeselectAll()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Open):
		return m, m.openSelected()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if value := m.input.Value(); value != m.query {
			return m, tea.Batch(cmd, m.startSearch(value))
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) startSearch(query string) tea.Cmd {
	m.query = query
	m.setStatus("", false)
	if m.selection.GetCount() > 0 {
		m.selection.DeselectAll()
	}
	m.navigator.Reset()

	generation, batches := m.session.Start(m.ctx, query)
	return waitForBatch(generation, batches)
}

func waitForBatch(generation int, batches <-chan session.Batch) tea.Cmd {
	return func() tea.Msg {
		b, ok := <-batches
		if !ok {
			return batchesClosedMsg{generation: generation}
		}
		return batchMsg{batch: b, batches: batches}
	}
}

// onCursorMoved pins the rows the user has seen once they start navigating
func (m *Model) onCursorMoved(e interface{}) {
	event, ok := e.(navigation.CursorMovedEvent)
	if !ok || !event.ByUser {
		return
	}
	if !m.results.IsFreezingEnabled() {
		m.results.EnableFreezing()
	}
	m.results.FreezeIfEnabled(min(m.navigator.VisibleEnd(), m.results.Size()))
}

func (m *Model) clampCursor() {
	if size := m.results.Size(); m.navigator.GetCursor() >= size {
		m.navigator.MoveToIndex(size - 1)
	}
}

func (m *Model) openSelected() tea.Cmd {
	var cmds []tea.Cmd
	for _, i := range m.selection.SelectedIndices() {
		if cmd := m.executor.ExecuteOpen(m.itemAt(i)); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Sequence(cmds...)
}

func (m *Model) itemAt(i int) *domain.ResultItem {
	if i < 0 || i >= m.results.Size() {
		return nil
	}
	return domain.RowItem(m.results.Row(i))
}

func (m *Model) handleEvent(event eventbus.DomainEvent) {
	switch e := event.(type) {
	case eventbus.ErrorEvent:
		m.setStatus(e.Message+": "+e.Err.Error(), true)
	}
}

func (m *Model) setStatus(message string, isError bool) {
	m.statusMessage = message
	m.statusIsError = isError
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	marked := make(map[int]bool, m.selection.GetCount())
	for i := 0; i < m.results.Size(); i++ {
		if m.selection.IsSelected(i) {
			marked[i] = true
		}
	}

	progress := m.session.Progress()
	return m.renderer.Render(views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Input:          m.input.View(),
		Rows:           m.results.Rows(),
		Cursor:         m.navigator.GetCursor(),
		Marked:         marked,
		ViewportOffset: m.navigator.GetViewportOffset(),
		ViewportHeight: m.navigator.GetViewportHeight(),
		Spinner:        m.spinner.View(),
		Progress:       progress,
		FrozenCount:    m.results.FrozenCount(),
		StatusMessage:  m.statusMessage,
		StatusIsError:  m.statusIsError,
		HelpModel:      m.help,
		HelpKeys:       m.keys,
		ShowReady:      m.e2e && !progress.IsSearching,
	})
}
