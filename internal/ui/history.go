package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/koi/internal/feeder"
	"github.com/five82/koi/internal/flow"
)

// historyHeaderLines is the summary block above the scrolling list.
const historyHeaderLines = 3

// handleHistoryKey processes keyboard input for the history screen.
func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, m.run(opHistoryLoad, m.history.Load)
	case key.Matches(msg, m.keys.Top):
		m.historyView.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.historyView.GotoBottom()
	case key.Matches(msg, m.keys.Down):
		m.historyView.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.historyView.ScrollUp(1)
	case key.Matches(msg, m.keys.PageDown):
		m.historyView.HalfPageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.historyView.HalfPageUp()
	}
	return m, nil
}

// refreshHistoryViewport renders the entries into the viewport.
func (m *Model) refreshHistoryViewport() {
	if m.history == nil || m.historyView.Width == 0 {
		return
	}
	view := m.history.View()
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	if len(view.Entries) == 0 {
		msg := "No feedings recorded yet."
		if !view.Loaded {
			msg = "Loading history..."
		}
		m.historyView.SetContent(bg.Render(msg, styles.MutedText))
		return
	}

	lines := make([]string, 0, len(view.Entries))
	for _, e := range view.Entries {
		lines = append(lines, formatHistoryEntry(e, time.Local, styles, bg))
	}
	m.historyView.SetContent(strings.Join(lines, "\n"))
}

func formatHistoryEntry(e feeder.HistoryEntry, loc *time.Location, styles Styles, bg BgStyle) string {
	kind := "agendado"
	if e.Manual {
		kind = "manual"
	}
	line := bg.Render(feeder.FormatTimestamp(e.Timestamp, loc), styles.MutedText) + bg.Spaces(2) +
		styles.StatusStyle(string(e.Refill)).Render(e.Refill.Label()) + bg.Spaces(2) +
		styles.StatusStyle(kind).Render(e.KindLabel())
	if e.Quantity > 0 {
		line += bg.Spaces(2) + bg.Render(fmt.Sprintf("%d portions", e.Quantity), styles.FaintText)
	}
	return line
}

// renderHistory renders the summary block and the entry viewport.
func (m Model) renderHistory() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	view := m.history.View()

	today := flow.TodayCount(view.Entries, time.Now())
	summary := fmt.Sprintf("Total %d   Today %d", view.Total, today)
	var breakdown string
	if s := view.Stats; s != nil {
		summary = fmt.Sprintf("Total %d   Today %d   Week %d", s.Total, s.Today, s.Week)
		breakdown = fmt.Sprintf("Left %d   Right %d   Both %d   Manual %d   Scheduled %d",
			s.ByRefill.Refill1, s.ByRefill.Refill2, s.ByRefill.Both, s.ByKind.Manual, s.ByKind.Scheduled)
	}

	header := []string{
		bg.Render(summary, styles.Text.Bold(true)),
		bg.Render(breakdown, styles.MutedText),
		bg.Render(strings.Repeat("─", max(m.historyView.Width, 1)), styles.FaintText),
	}
	if view.Loading {
		header[1] = m.spinner.View() + " " + bg.Render("Refreshing...", styles.AccentText)
	}
	header = append(header, m.historyView.View())

	return m.renderTitledBox("History", strings.Join(header, "\n"), m.width, m.contentHeight(), true)
}
