package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/bookshelf/internal/catalog"
	"github.com/five82/bookshelf/internal/prefs"
	"github.com/five82/bookshelf/internal/state"
)

// pane identifies the focused half of the screen.
type pane int

const (
	paneForm pane = iota
	paneTable
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *catalog.Controller
	Formatter  catalog.Formatter
	Logger     *zap.Logger
	APIURL     string
	PollTick   time.Duration
	Prefs      prefs.Prefs
	PrefsPath  string
}

// statusLine is a transient message under the panes.
type statusLine struct {
	level   catalog.Level
	text    string
	field   string
	expires time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	ctrl      *catalog.Controller
	store     *state.Store
	formatter catalog.Formatter
	logger    *zap.Logger
	apiURL    string
	prefs     prefs.Prefs
	prefsPath string
	pollTick  time.Duration
	keys      keyMap

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool
	pane   pane

	// Data state
	snapshot    state.Snapshot
	selectedRow int

	// Form state
	form formPane
	busy bool

	status   statusLine
	showHelp bool
	modal    Modal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	userPrefs := opts.Prefs
	if userPrefs.Theme == "" {
		userPrefs = prefs.Defaults()
	}

	return Model{
		ctx:       ctx,
		ctrl:      opts.Controller,
		store:     opts.Controller.Store(),
		formatter: opts.Formatter,
		logger:    logger,
		apiURL:    opts.APIURL,
		prefs:     userPrefs,
		prefsPath: opts.PrefsPath,
		pollTick:  pollTick,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(userPrefs.Theme),
		pane:      paneForm,
		form:      newFormPane(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(m.pollTick),
		reloadCmd(m.ctx, m.ctrl),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.clampSelection()
		return m, nil

	case reloadDoneMsg:
		return m, fetchSnapshotCmd(m.store)

	case submitDoneMsg:
		m.busy = false
		m.setOutcome(msg.outcome)
		var cmd tea.Cmd
		if msg.outcome.Failed() {
			cmd = m.form.focusNamed(msg.outcome.Field)
		} else if msg.outcome.ResetForm {
			cmd = m.form.reset()
		}
		return m, tea.Batch(cmd, fetchSnapshotCmd(m.store))

	case editLoadedMsg:
		if msg.err != nil {
			m.setOutcome(catalog.Outcome{Level: catalog.LevelError, Message: catalog.Message(msg.err)})
			return m, nil
		}
		m.form.setValues(msg.form)
		m.clearStatus()
		m.pane = paneForm
		return m, m.form.focus(fieldTitle)

	case deleteDoneMsg:
		m.setOutcome(msg.outcome)
		var cmd tea.Cmd
		if msg.outcome.ResetForm {
			cmd = m.form.reset()
			if m.pane == paneTable {
				m.form.blur()
			}
		}
		return m, tea.Batch(cmd, fetchSnapshotCmd(m.store))
	}

	if m.pane == paneForm && m.modal == nil {
		return m, m.form.update(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Tab):
		return m, m.focusNext()
	case key.Matches(msg, m.keys.ShiftTab):
		return m, m.focusPrev()
	case key.Matches(msg, m.keys.Escape):
		return m, m.cancelEdit()
	}

	if m.pane == paneForm {
		return m.handleFormKey(msg)
	}
	return m.handleTableKey(msg)
}

// handleFormKey processes keys while a form field has focus.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.NextField):
		if msg.Type == tea.KeyEnter && m.form.onLast() {
			return m.submit()
		}
		if m.form.onLast() {
			return m, nil
		}
		return m, m.form.focus(m.form.focused + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.form.focus(m.form.focused - 1)
	}
	return m, m.form.update(msg)
}

// handleTableKey processes keys while the table has focus.
func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snapshot.Books)

	switch {
	case key.Matches(msg, m.keys.QuitTable):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, reloadCmd(m.ctx, m.ctrl)
	case key.Matches(msg, m.keys.NewBook):
		cmd := m.cancelEdit()
		m.pane = paneForm
		return m, tea.Batch(cmd, m.form.focus(fieldTitle))
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = maxInt(count-1, 0)
	case key.Matches(msg, m.keys.Edit):
		if b, ok := m.selectedBook(); ok {
			return m, editCmd(m.ctx, m.ctrl, b.ID)
		}
	case key.Matches(msg, m.keys.Delete):
		b, ok := m.selectedBook()
		if !ok {
			return m, nil
		}
		del := deleteCmd(m.ctx, m.ctrl, b.ID)
		if !m.prefs.ConfirmDelete {
			return m, del
		}
		m.modal = newConfirmModal(catalog.DeletePrompt(b.Title), del)
	}
	return m, nil
}

// submit sends the form unless a request is already in flight.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.busy = true
	return m, submitCmd(m.ctx, m.ctrl, m.form.values())
}

// cancelEdit leaves edit mode, resets the form and hides the message.
func (m *Model) cancelEdit() tea.Cmd {
	m.ctrl.Cancel()
	m.clearStatus()
	cmd := m.form.reset()
	if m.pane != paneForm {
		m.form.blur()
		return nil
	}
	return cmd
}

// focusNext moves through the form fields, then to the table, then back.
func (m *Model) focusNext() tea.Cmd {
	if m.pane == paneForm {
		if !m.form.onLast() {
			return m.form.focus(m.form.focused + 1)
		}
		m.pane = paneTable
		m.form.blur()
		return nil
	}
	m.pane = paneForm
	return m.form.focus(fieldTitle)
}

// focusPrev is the reverse of focusNext.
func (m *Model) focusPrev() tea.Cmd {
	if m.pane == paneForm {
		if m.form.focused > 0 {
			return m.form.focus(m.form.focused - 1)
		}
		m.pane = paneTable
		m.form.blur()
		return nil
	}
	m.pane = paneForm
	return m.form.focus(fieldCount - 1)
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", zap.Error(err))
	}
}

func (m *Model) setOutcome(o catalog.Outcome) {
	m.status = statusLine{
		level:   o.Level,
		text:    o.Message,
		field:   o.Field,
		expires: time.Now().Add(MessageTTL),
	}
}

func (m *Model) clearStatus() {
	m.status = statusLine{}
}

// handleTick expires the status message and pulls the latest snapshot.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.status.text != "" && now.After(m.status.expires) {
		m.clearStatus()
	}
	return m, tea.Batch(fetchSnapshotCmd(m.store), tickCmd(m.pollTick))
}

// renderMain renders the header, the two panes and the status line.
func (m Model) renderMain() string {
	header := m.renderHeader()
	commands := m.renderCommandBar()
	status := m.renderStatusLine()

	bodyHeight := maxInt(m.height-3, 10)

	var body string
	if m.width < LayoutCompactWidth {
		form := m.renderForm(m.width)
		tableHeight := maxInt(bodyHeight-lipgloss.Height(form), 6)
		body = lipgloss.JoinVertical(lipgloss.Left, form, m.renderTable(m.width, tableHeight))
	} else {
		form := m.renderForm(FormPaneWidth)
		table := m.renderTable(m.width-FormPaneWidth, bodyHeight)
		body = lipgloss.JoinHorizontal(lipgloss.Top, form, table)
	}

	return strings.Join([]string{header, commands, body, status}, "\n")
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type reloadDoneMsg struct{ err error }

type submitDoneMsg struct{ outcome catalog.Outcome }

type deleteDoneMsg struct{ outcome catalog.Outcome }

type editLoadedMsg struct {
	form catalog.Form
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func reloadCmd(ctx context.Context, ctrl *catalog.Controller) tea.Cmd {
	return func() tea.Msg {
		return reloadDoneMsg{err: ctrl.Reload(ctx)}
	}
}

func submitCmd(ctx context.Context, ctrl *catalog.Controller, form catalog.Form) tea.Cmd {
	return func() tea.Msg {
		return submitDoneMsg{outcome: ctrl.Submit(ctx, form)}
	}
}

func deleteCmd(ctx context.Context, ctrl *catalog.Controller, id int64) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{outcome: ctrl.Delete(ctx, id)}
	}
}

func editCmd(ctx context.Context, ctrl *catalog.Controller, id int64) tea.Cmd {
	return func() tea.Msg {
		form, err := ctrl.BeginEdit(ctx, id)
		return editLoadedMsg{form: form, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}
