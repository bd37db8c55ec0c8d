package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/koi/internal/applog"
)

// logTailLimit is the number of log lines kept in memory.
const logTailLimit = 500

// logState holds diagnostics screen state.
type logState struct {
	viewport  viewport.Model
	lines     []string
	follow    bool
	filtering bool
	query     string
	input     textinput.Model
	err       error
}

func newLogState() logState {
	ti := textinput.New()
	ti.Placeholder = "Filter log lines..."
	ti.CharLimit = 100
	return logState{follow: true, input: ti}
}

type logTailMsg struct {
	lines []string
	err   error
}

func (m Model) logPath() string {
	if m.config == nil {
		return ""
	}
	return m.config.LogPath
}

// refreshLogs reads the end of the log file off the UI goroutine.
func (m Model) refreshLogs() tea.Cmd {
	path := m.logPath()
	return func() tea.Msg {
		if path == "" {
			return logTailMsg{}
		}
		lines, err := applog.Tail(path, logTailLimit)
		return logTailMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogTail(msg logTailMsg) {
	m.logState.err = msg.err
	if msg.err == nil {
		m.logState.lines = msg.lines
	}
	m.updateLogViewport()
}

// updateLogViewport renders the filtered lines into the viewport.
func (m *Model) updateLogViewport() {
	if m.logState.viewport.Width == 0 {
		return
	}
	styles := m.theme.Styles()
	lines := applog.Matching(m.logState.lines, m.logState.query)

	var content string
	switch {
	case m.logPath() == "":
		content = styles.MutedText.Render("Logging to a file is disabled.")
	case len(lines) == 0 && m.logState.query != "":
		content = styles.MutedText.Render("No lines match " + m.logState.query)
	case len(lines) == 0:
		content = styles.MutedText.Render("The log is empty.")
	default:
		width := m.logState.viewport.Width
		rendered := make([]string, len(lines))
		for i, line := range lines {
			rendered[i] = colorLogLine(truncate(line, width), styles)
		}
		content = strings.Join(rendered, "\n")
	}
	m.logState.viewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logState.viewport.SetContent(content)
	if m.logState.follow {
		m.logState.viewport.GotoBottom()
	}
}

func colorLogLine(line string, styles Styles) string {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "failed"), strings.Contains(lower, "error"):
		return styles.DangerText.UnsetBold().Render(line)
	case strings.Contains(lower, "retry"), strings.Contains(lower, "warn"):
		return styles.WarningText.Render(line)
	default:
		return styles.Text.Render(line)
	}
}

// handleLogsKey processes keyboard input for the diagnostics screen.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.logState.filtering {
		return m.handleLogFilterInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logState.viewport.GotoBottom()
		}
	case key.Matches(msg, m.keys.Search):
		m.logState.filtering = true
		m.logState.input.SetValue(m.logState.query)
		m.logState.input.CursorEnd()
		return m, m.logState.input.Focus()
	case key.Matches(msg, m.keys.Escape):
		if m.logState.query != "" {
			m.logState.query = ""
			m.updateLogViewport()
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshLogs()
	case key.Matches(msg, m.keys.Top):
		m.logState.viewport.GotoTop()
		m.logState.follow = false
	case key.Matches(msg, m.keys.Bottom):
		m.logState.viewport.GotoBottom()
		m.logState.follow = true
	case key.Matches(msg, m.keys.Down):
		m.logState.viewport.ScrollDown(1)
		m.logState.follow = m.logState.viewport.AtBottom()
	case key.Matches(msg, m.keys.Up):
		m.logState.viewport.ScrollUp(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.PageDown):
		m.logState.viewport.HalfPageDown()
		m.logState.follow = m.logState.viewport.AtBottom()
	case key.Matches(msg, m.keys.PageUp):
		m.logState.viewport.HalfPageUp()
		m.logState.follow = false
	}
	return m, nil
}

func (m Model) handleLogFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.logState.filtering = false
		m.logState.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.logState.filtering = false
		m.logState.input.Blur()
		m.logState.query = strings.TrimSpace(m.logState.input.Value())
		m.updateLogViewport()
		return m, nil
	}
	var cmd tea.Cmd
	m.logState.input, cmd = m.logState.input.Update(msg)
	return m, cmd
}

// renderLogs renders the log box and a one-line status below it.
func (m Model) renderLogs() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	title := "Diagnostics"
	if m.logState.query != "" {
		title = "Diagnostics (filtered)"
	}
	box := m.renderTitledBox(title, m.logState.viewport.View(), m.width, m.contentHeight()-1, true)

	var status string
	switch {
	case m.logState.filtering:
		status = bg.Render("/", styles.AccentText) + m.logState.input.View()
	case m.logState.err != nil:
		status = bg.Render("! "+m.logState.err.Error(), styles.WarningText)
	default:
		mode := "following"
		if !m.logState.follow {
			mode = "paused"
		}
		status = bg.Render(truncateMiddle(m.logPath(), 50), styles.FaintText) + bg.Spaces(2) +
			bg.Render(mode, styles.MutedText)
	}
	return box + "\n" + bg.FillLine(status, m.width)
}
