package ui

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/koi/internal/config"
	"github.com/five82/koi/internal/feeder"
	"github.com/five82/koi/internal/flow"
	"github.com/five82/koi/internal/notify"
	"github.com/five82/koi/internal/prefs"
	"github.com/five82/koi/internal/state"
)

// Screen is a top-level page of the main app.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenSchedules
	ScreenHistory
	ScreenSettings
	ScreenLogs
)

var screenOrder = []Screen{ScreenHome, ScreenSchedules, ScreenHistory, ScreenSettings, ScreenLogs}

// Title is the tab label of the screen.
func (s Screen) Title() string {
	switch s {
	case ScreenSchedules:
		return "Schedules"
	case ScreenHistory:
		return "History"
	case ScreenSettings:
		return "Settings"
	case ScreenLogs:
		return "Diagnostics"
	default:
		return "Home"
	}
}

// key names the screen in the preferences file.
func (s Screen) key() string {
	switch s {
	case ScreenSchedules:
		return "schedules"
	case ScreenHistory:
		return "history"
	case ScreenSettings:
		return "settings"
	case ScreenLogs:
		return "logs"
	default:
		return "home"
	}
}

// screenFromKey maps a remembered key back to its screen. Unknown keys
// open the home screen.
func screenFromKey(k string) Screen {
	for _, s := range screenOrder {
		if s.key() == k {
			return s
		}
	}
	return ScreenHome
}

// Device is everything the screens need from the feeder. *feeder.Client implements it.
type Device interface {
	flow.ScheduleAPI
	flow.SetupAPI
	flow.FeedAPI
	flow.HistoryAPI
	flow.DeviceAPI
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    Device
	Store     *state.Store
	Notes     *notify.Center
	Config    *config.Config
	PollTick  time.Duration
	ThemeName string // empty uses the remembered theme
	PrefsPath string

	// OnHomeVisible is told whenever the home screen appears or goes away.
	OnHomeVisible func(visible bool)

	// Zero values select the flow defaults.
	Probe flow.ProbeConfig
	Home  flow.HomeOptions
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    Device
	store     *state.Store
	notes     *notify.Center
	config    *config.Config
	prefsPath string
	pollTick  time.Duration

	onHomeVisible func(bool)
	startScreen   Screen

	// UI state
	keys     keyMap
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	spinner  spinner.Model

	// Data state
	snapshot    state.Snapshot
	snapshots   <-chan state.Snapshot
	unsubscribe func()
	routed      bool
	inSetup     bool

	// Navigation. epoch changes whenever the visible page changes so results
	// of requests started on a page the user already left are dropped.
	screen Screen
	epoch  int

	// Screen controllers
	setup     *flow.Setup
	home      *flow.Home
	schedules *flow.Schedules
	history   *flow.History
	device    *flow.Device
	refills   *flow.Refills

	// Per-screen view state
	setupState    setupState
	homeState     homeState
	scheduleState scheduleState
	historyView   viewport.Model
	settingsState settingsState
	logState      logState
}

// New creates the Bubble Tea model and subscribes to the state store.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	remembered := prefs.Load(prefsPath)

	themeName := strings.TrimSpace(opts.ThemeName)
	if themeName == "" {
		themeName = remembered.Theme
	}

	notes := opts.Notes
	if notes == nil {
		notes = notify.NewCenter(notify.DefaultTTL)
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := Model{
		ctx:       ctx,
		client:    opts.Client,
		store:     opts.Store,
		notes:     notes,
		config:    opts.Config,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(themeName),
		spinner:   sp,
		snapshot:  state.Snapshot{Loading: true},
		screen:    ScreenHome,

		onHomeVisible: opts.OnHomeVisible,
		startScreen:   screenFromKey(remembered.Screen),

		setup:     flow.NewSetup(opts.Client, opts.Store, notes, opts.Probe),
		home:      flow.NewHome(opts.Client, opts.Store, notes, opts.Home),
		schedules: flow.NewSchedules(opts.Client, notes),
		history:   flow.NewHistory(opts.Client, notes),
		device:    flow.NewDevice(opts.Client, opts.Store, notes),
		refills:   flow.NewRefills(opts.Client, opts.Store, notes),

		homeState:     newHomeState(feeder.RefillType(remembered.Refill)),
		setupState:    newSetupState(),
		scheduleState: newScheduleState(),
		settingsState: newSettingsState(),
		logState:      newLogState(),
	}
	if m.store != nil {
		m.snapshots, m.unsubscribe = m.store.Subscribe()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
	}
	if m.snapshots != nil {
		cmds = append(cmds, listenSnapshotCmd(m.snapshots))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.historyView = viewport.New(0, 0)
			m.logState.viewport = viewport.New(0, 0)
		}
		m.ready = true
		m.resizeViewports()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		return m.handleSnapshot(state.Snapshot(msg))

	case flowDoneMsg:
		return m.handleFlowDone(msg)

	case logTailMsg:
		m.handleLogTail(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
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
	return m.renderMain()
}

// handleKey routes keyboard input. Text inputs get keys before any global
// binding so typing a password never quits the app.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if msg.String() == "ctrl+c" {
		return m, m.quit()
	}
	if m.capturingText() {
		return m.handleScreenKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		name := m.theme.Name
		m.remember(func(p *prefs.Prefs) { p.Theme = name })
		return m, nil
	}

	if m.snapshot.Loading || m.inSetup {
		return m.handleScreenKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Tab):
		return m.switchScreen(nextScreen(m.screen, 1))
	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchScreen(nextScreen(m.screen, -1))
	case key.Matches(msg, m.keys.ViewHome):
		return m.switchScreen(ScreenHome)
	case key.Matches(msg, m.keys.ViewSchedules):
		return m.switchScreen(ScreenSchedules)
	case key.Matches(msg, m.keys.ViewHistory):
		return m.switchScreen(ScreenHistory)
	case key.Matches(msg, m.keys.ViewSettings):
		return m.switchScreen(ScreenSettings)
	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchScreen(ScreenLogs)
	}

	return m.handleScreenKey(msg)
}

func (m Model) handleScreenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.snapshot.Loading {
		return m, nil
	}
	if m.inSetup {
		return m.handleSetupKey(msg)
	}
	switch m.screen {
	case ScreenSchedules:
		return m.handleSchedulesKey(msg)
	case ScreenHistory:
		return m.handleHistoryKey(msg)
	case ScreenSettings:
		return m.handleSettingsKey(msg)
	case ScreenLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleHomeKey(msg)
	}
}

// capturingText reports whether a text input currently owns the keyboard.
func (m Model) capturingText() bool {
	switch {
	case m.inSetup:
		return m.setupState.password.Focused()
	case m.screen == ScreenSchedules:
		return m.schedules.View().Mode == flow.Editing
	case m.screen == ScreenSettings:
		return m.settingsState.renaming
	case m.screen == ScreenLogs:
		return m.logState.filtering
	}
	return false
}

func (m Model) quit() tea.Cmd {
	m.setHomeVisible(false)
	m.home.Close()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return tea.Quit
}

func (m Model) switchScreen(s Screen) (tea.Model, tea.Cmd) {
	cmd := m.enterScreen(s)
	return m, cmd
}

// enterScreen switches to s and starts its initial load.
func (m *Model) enterScreen(s Screen) tea.Cmd {
	m.screen = s
	m.epoch++
	m.setHomeVisible(s == ScreenHome)
	m.remember(func(p *prefs.Prefs) { p.Screen = s.key() })
	switch s {
	case ScreenSchedules:
		m.schedules.Cancel()
		m.scheduleState.confirmDelete = false
		return m.run(opScheduleRefresh, m.schedules.Refresh)
	case ScreenHistory:
		return m.run(opHistoryLoad, m.history.Load)
	case ScreenSettings:
		m.settingsState.reset()
		m.refills.Cancel()
		return m.run(opNetworkLoad, m.device.LoadNetwork)
	case ScreenLogs:
		return m.refreshLogs()
	default:
		return m.run(opHomeLoad, m.home.Load)
	}
}

func (m Model) setHomeVisible(visible bool) {
	if m.onHomeVisible != nil {
		m.onHomeVisible(visible)
	}
}

// remember records a UI choice for the next run. Failing to write only costs
// the choice, so it is logged.
func (m Model) remember(edit func(*prefs.Prefs)) {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Update(m.prefsPath, edit); err != nil {
		log.Printf("ui: save prefs: %v", err)
	}
}

func nextScreen(current Screen, delta int) Screen {
	for i, s := range screenOrder {
		if s == current {
			n := len(screenOrder)
			return screenOrder[((i+delta)%n+n)%n]
		}
	}
	return ScreenHome
}

// handleSnapshot applies a new snapshot and routes between the setup wizard
// and the main app when the configured flag changes.
func (m Model) handleSnapshot(snap state.Snapshot) (tea.Model, tea.Cmd) {
	m.snapshot = snap
	cmds := []tea.Cmd{listenSnapshotCmd(m.snapshots)}

	if !snap.Loading {
		switch {
		case !snap.Config.Configured && (!m.routed || !m.inSetup):
			m.inSetup = true
			m.epoch++
			m.setHomeVisible(false)
			m.setup.Restart()
			m.setupState = newSetupState()
		case snap.Config.Configured && (!m.routed || m.inSetup):
			// A fresh start reopens the last screen; finishing the wizard lands on home.
			next := ScreenHome
			if !m.routed {
				next = m.startScreen
			}
			m.inSetup = false
			cmds = append(cmds, m.enterScreen(next))
		}
		m.routed = true
	}
	if m.screen == ScreenHistory {
		m.refreshHistoryViewport()
	}
	return m, tea.Batch(cmds...)
}

// handleTick processes the periodic tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if !m.inSetup && m.screen == ScreenLogs && m.logState.follow {
		cmds = append(cmds, m.refreshLogs())
	}
	return m, tea.Batch(cmds...)
}

// handleFlowDone runs the follow-up of a finished request. Results from a
// page the user has left only refresh the render.
func (m Model) handleFlowDone(msg flowDoneMsg) (tea.Model, tea.Cmd) {
	if msg.epoch != m.epoch {
		return m, nil
	}
	switch msg.op {
	case opProbe:
		if msg.err == nil {
			return m, m.run(opScan, m.setup.ScanNetworks)
		}
	case opConnect:
		if msg.err == nil {
			m.setupState.password.Reset()
			m.setupState.password.Blur()
			m.setupState.cursor = 0
		}
	case opFoodNext:
		if msg.err == nil {
			m.setupState.cursor = 0
		}
	case opRename:
		if msg.err == nil {
			m.settingsState.renaming = false
			m.settingsState.name.Blur()
		}
	case opChangeFood:
		if msg.err == nil {
			m.settingsState.pickerCursor = 0
		}
	case opHistoryLoad:
		m.refreshHistoryViewport()
	case opScheduleSave:
		if msg.err == nil {
			m.scheduleState.blurInputs()
		}
	}
	return m, nil
}

// renderMain renders header, command bar, the active page and the toast line.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderToast())
	return b.String()
}

func (m Model) contentHeight() int {
	h := m.height - 3
	if h < 3 {
		h = 3
	}
	return h
}

func (m Model) renderContent() string {
	if m.snapshot.Loading {
		return m.renderTitledBox("koi", m.spinner.View()+" Loading configuration...", m.width, m.contentHeight(), false)
	}
	if m.inSetup {
		return m.renderSetup()
	}
	switch m.screen {
	case ScreenSchedules:
		return m.renderSchedules()
	case ScreenHistory:
		return m.renderHistory()
	case ScreenSettings:
		return m.renderSettings()
	case ScreenLogs:
		return m.renderLogs()
	default:
		return m.renderHome()
	}
}

func (m *Model) resizeViewports() {
	inner := m.width - 4
	if inner < 10 {
		inner = 10
	}
	body := m.contentHeight() - 2
	if body < 1 {
		body = 1
	}
	m.historyView.Width = inner
	m.historyView.Height = body - historyHeaderLines
	if m.historyView.Height < 1 {
		m.historyView.Height = 1
	}
	m.logState.viewport.Width = inner
	m.logState.viewport.Height = body - 1
	if m.logState.viewport.Height < 1 {
		m.logState.viewport.Height = 1
	}
	m.refreshHistoryViewport()
	m.updateLogViewport()
}

// Request names carried by flowDoneMsg.
const (
	opProbe           = "setup.probe"
	opScan            = "setup.scan"
	opConnect         = "setup.connect"
	opFoodNext        = "setup.food"
	opFinish          = "setup.finish"
	opSkip            = "setup.skip"
	opHomeLoad        = "home.load"
	opFeed            = "home.feed"
	opScheduleRefresh = "schedules.refresh"
	opScheduleSave    = "schedules.save"
	opScheduleToggle  = "schedules.toggle"
	opScheduleDelete  = "schedules.delete"
	opHistoryLoad     = "history.load"
	opNetworkLoad     = "settings.network"
	opRename          = "settings.rename"
	opChangeFood      = "settings.food"
	opReset           = "settings.reset"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type flowDoneMsg struct {
	op    string
	epoch int
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func listenSnapshotCmd(ch <-chan state.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

// run executes fn off the UI goroutine and reports back with the current epoch.
func (m Model) run(op string, fn func(context.Context) error) tea.Cmd {
	ctx, epoch := m.ctx, m.epoch
	return func() tea.Msg {
		return flowDoneMsg{op: op, epoch: epoch, err: fn(ctx)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	m.home.Close()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return err
}
