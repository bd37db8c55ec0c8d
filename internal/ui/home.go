package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/koi/internal/catalog"
	"github.com/five82/koi/internal/feeder"
	"github.com/five82/koi/internal/flow"
	"github.com/five82/koi/internal/prefs"
	"github.com/five82/koi/internal/storage"
)

// homeState holds home screen view state.
type homeState struct {
	cursor int
}

var feedButtons = []feeder.RefillType{feeder.RefillLeft, feeder.RefillBoth, feeder.RefillRight}

func feedButtonIndex(refill feeder.RefillType) int {
	for i, r := range feedButtons {
		if r == refill {
			return i
		}
	}
	return -1
}

// newHomeState starts with the cursor on the refill fed last, if known.
func newHomeState(last feeder.RefillType) homeState {
	return homeState{cursor: max(feedButtonIndex(last), 0)}
}

// handleHomeKey processes keyboard input for the home screen.
func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var refill feeder.RefillType
	switch {
	case key.Matches(msg, m.keys.FeedBoth):
		refill = feeder.RefillBoth
	case key.Matches(msg, m.keys.FeedLeft):
		refill = feeder.RefillLeft
	case key.Matches(msg, m.keys.FeedRight):
		refill = feeder.RefillRight
	case key.Matches(msg, m.keys.Confirm):
		refill = feedButtons[clampCursor(m.homeState.cursor, len(feedButtons))]
	case key.Matches(msg, m.keys.Left):
		m.homeState.cursor = clampCursor(m.homeState.cursor-1, len(feedButtons))
	case key.Matches(msg, m.keys.Right):
		m.homeState.cursor = clampCursor(m.homeState.cursor+1, len(feedButtons))
	case key.Matches(msg, m.keys.Refresh):
		return m, m.run(opHomeLoad, m.home.Load)
	}
	if refill != "" {
		cmd := m.feed(refill)
		return m, cmd
	}
	return m, nil
}

func (m *Model) feed(refill feeder.RefillType) tea.Cmd {
	if i := feedButtonIndex(refill); i >= 0 {
		m.homeState.cursor = i
	}
	m.remember(func(p *prefs.Prefs) { p.Refill = string(refill) })
	return m.run(opFeed, func(ctx context.Context) error {
		return m.home.Feed(ctx, refill)
	})
}

// renderHome renders device status, refills, feed buttons and the next schedule.
func (m Model) renderHome() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	status := m.snapshot.Status
	cfg := m.snapshot.Config

	var lines []string
	if status == nil {
		msg := "Waiting for the feeder..."
		if m.snapshot.LastError != nil {
			msg = "Feeder unreachable. Press r to retry."
		}
		lines = append(lines, m.spinner.View()+" "+bg.Render(msg, styles.WarningText))
		if cfg.DeviceIP != "" {
			lines = append(lines, "", m.kv(bg, styles, "Last known IP", cfg.DeviceIP))
		}
		return m.renderTitledBox("Home", strings.Join(lines, "\n"), m.width, m.contentHeight(), false)
	}

	name := status.DeviceName
	if name == "" {
		name = "Feeder"
	}
	lines = append(lines,
		bg.Render(name, styles.Text.Bold(true))+bg.Spaces(2)+m.connectionBadge(styles, bg),
		m.kv(bg, styles, "Device time", orDash(status.CurrentTime)),
		m.kv(bg, styles, "IP", orDash(firstNonEmpty(status.IP, cfg.DeviceIP))),
		"",
		bg.Render("Refills", styles.AccentText.Bold(true)),
		m.refillLine(bg, styles, "Left ", status.Refills.Refill1, cfg.Food(storage.Slot1)),
		m.refillLine(bg, styles, "Right", status.Refills.Refill2, cfg.Food(storage.Slot2)),
		"",
		m.renderFeedButtons(bg, styles),
		"",
		bg.Render("Feedings", styles.AccentText.Bold(true)),
		bg.Render(fmt.Sprintf("Today %d   Week %d   Total %d", status.Stats.Today, status.Stats.Week, status.Stats.Total), styles.Text),
		"",
		bg.Render("Next schedule", styles.AccentText.Bold(true)),
	)

	if next, ok := flow.NextSchedule(status); ok {
		lines = append(lines, bg.Render(next.TimeLabel()+"  "+next.Refill.Label(), styles.Text))
	} else {
		lines = append(lines, bg.Render("No active schedules", styles.MutedText))
	}

	active := flow.Active(status.Schedules)
	if len(active) > 1 {
		labels := make([]string, 0, len(active))
		for _, s := range active {
			labels = append(labels, s.TimeLabel())
		}
		lines = append(lines, bg.Render("Active: "+strings.Join(labels, "  "), styles.MutedText))
	}

	return m.renderTitledBox("Home", strings.Join(lines, "\n"), m.width, m.contentHeight(), false)
}

func (m Model) refillLine(bg BgStyle, styles Styles, label string, refill feeder.Refill, food *catalog.Food) string {
	name := refill.Name
	if food != nil {
		name = food.DisplayName()
	}
	if name == "" {
		name = "not set"
	}
	line := bg.Render(label, styles.MutedText) + bg.Spaces(2) + bg.Render(truncate(name, 40), styles.Text)
	if refill.Quantity > 0 {
		line += bg.Spaces(2) + bg.Render(fmt.Sprintf("%d portions", refill.Quantity), styles.FaintText)
	}
	return line
}

func (m Model) renderFeedButtons(bg BgStyle, styles Styles) string {
	feeding := m.home.Feeding()
	buttons := make([]string, 0, len(feedButtons))
	for i, refill := range feedButtons {
		label := "Feed " + refill.Label()
		if feeding == refill {
			label = m.spinner.View() + " Feeding..."
		}
		style := lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color(m.theme.Text)).
			Background(lipgloss.Color(m.theme.Surface))
		if i == m.homeState.cursor {
			style = styles.Selected.Padding(0, 1)
		}
		buttons = append(buttons, style.Render(label))
	}
	return strings.Join(buttons, bg.Spaces(2))
}

func (m Model) kv(bg BgStyle, styles Styles, label, value string) string {
	return bg.Render(fmt.Sprintf("%-14s", label), styles.MutedText) + bg.Render(value, styles.Text)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
