package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/koi/internal/flow"
	"github.com/five82/koi/internal/notify"
)

// renderHeader renders the status bar: logo, tabs, connection and clock.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("koi", styles.Logo)}

	switch {
	case m.snapshot.Loading:
		parts = append(parts, bg.Render("Loading...", styles.WarningText.Bold(true)))
		return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
	case m.inSetup:
		view := m.setup.View()
		parts = append(parts,
			bg.Render("Setup", styles.AccentText.Bold(true)),
			bg.Render(setupStepTitle(view.Step), styles.MutedText),
		)
		return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
	}

	parts = append(parts, m.renderTabs(styles, bg))

	if status := m.snapshot.Status; status != nil && status.DeviceName != "" {
		parts = append(parts, bg.Render(truncate(status.DeviceName, 24), styles.Text.Bold(true)))
	}
	parts = append(parts, m.connectionBadge(styles, bg))

	if status := m.snapshot.Status; status != nil && status.MaxSchedules > 0 {
		parts = append(parts,
			bg.Render("Schedules:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d/%d", status.TotalSchedules, status.MaxSchedules), styles.Text),
		)
	}

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if m.busy() {
		parts = append(parts, bg.Render(m.spinner.View(), styles.AccentText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

func (m Model) renderTabs(styles Styles, bg BgStyle) string {
	tabs := make([]string, 0, len(screenOrder))
	for i, s := range screenOrder {
		label := fmt.Sprintf("%d %s", i+1, s.Title())
		if s == m.screen {
			tabs = append(tabs, bg.Render(label, styles.AccentText.Bold(true)))
			continue
		}
		tabs = append(tabs, bg.Render(label, styles.FaintText))
	}
	return bg.Join(tabs, " │ ")
}

// connectionBadge shows whether the poller currently reaches the feeder.
func (m Model) connectionBadge(styles Styles, bg BgStyle) string {
	snap := m.snapshot
	switch {
	case snap.IsOffline():
		label := "● OFFLINE"
		if snap.LastError != nil {
			label = "● " + classifyConnectionError(snap.LastError)
		}
		return bg.Render(label, styles.DangerText)
	case !snap.HasStatus():
		return bg.Render("● WAITING", styles.WarningText)
	default:
		return bg.Render("● ONLINE", styles.SuccessText)
	}
}

// formatTimestamp formats the last status time with a relative indicator.
func (m Model) formatTimestamp() string {
	updated := m.snapshot.StatusUpdated
	if updated.IsZero() {
		return ""
	}

	since := time.Since(updated)
	out := updated.Format("15:04:05")
	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}

// busy reports whether the visible page has a request in flight.
func (m Model) busy() bool {
	if m.inSetup {
		return m.setup.View().Busy
	}
	switch m.screen {
	case ScreenSchedules:
		v := m.schedules.View()
		return v.Loading || v.Saving
	case ScreenHistory:
		return m.history.View().Loading
	case ScreenSettings:
		return m.refills.Saving()
	default:
		return m.home.Loading() || m.home.Feeding() != ""
	}
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case strings.Contains(msg, "returned status"):
		return "DEVICE ERROR"
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

type command struct{ key, desc string }

// renderCommandBar renders the key hints for the visible page.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	commands := m.commands()
	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.screen == ScreenLogs && m.logState.query != "" && !m.inSetup {
		segments = append(segments, bg.Render("/"+truncate(m.logState.query, 18), styles.AccentText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

func (m Model) commands() []command {
	if m.snapshot.Loading {
		return []command{{"q", "Quit"}}
	}
	if m.inSetup {
		return m.setupCommands()
	}
	switch m.screen {
	case ScreenSchedules:
		if m.schedules.View().Mode == flow.Editing {
			return []command{{"tab", "Field"}, {"h/l", "Change"}, {"space", "Active"}, {"enter", "Save"}, {"esc", "Cancel"}}
		}
		if m.scheduleState.confirmDelete {
			return []command{{"y", "Delete"}, {"n", "Keep"}}
		}
		return []command{{"j/k", "Navigate"}, {"a", "Add"}, {"e", "Edit"}, {"space", "Toggle"}, {"d", "Delete"}, {"r", "Refresh"}, {"?", "More"}}
	case ScreenHistory:
		return []command{{"j/k", "Scroll"}, {"g/G", "Top/Bottom"}, {"r", "Refresh"}, {"?", "More"}}
	case ScreenSettings:
		return m.settingsCommands()
	case ScreenLogs:
		follow := "Pause"
		if !m.logState.follow {
			follow = "Follow"
		}
		return []command{{"space", follow}, {"/", "Filter"}, {"j/k", "Scroll"}, {"?", "More"}}
	default:
		return []command{{"f", "Feed both"}, {"[", "Left"}, {"]", "Right"}, {"r", "Refresh"}, {"tab", "Screens"}, {"?", "More"}}
	}
}

// renderToast renders the newest notification that has not expired.
func (m Model) renderToast() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	toast, ok := m.notes.Latest()
	if !ok {
		return bg.FillLine("", m.width)
	}

	var titleStyle lipgloss.Style
	switch toast.Level {
	case notify.LevelError:
		titleStyle = styles.DangerText
	case notify.LevelWarning:
		titleStyle = styles.WarningText.Bold(true)
	case notify.LevelSuccess:
		titleStyle = styles.SuccessText
	default:
		titleStyle = styles.InfoText.Bold(true)
	}

	line := bg.Render(toast.Title, titleStyle) + bg.Spaces(2) +
		bg.Render(truncate(toast.Message, m.width-len(toast.Title)-4), styles.Text)
	if more := len(m.notes.Active()) - 1; more > 0 {
		line += bg.Spaces(2) + bg.Render(fmt.Sprintf("+%d", more), styles.FaintText)
	}
	return bg.FillLine(line, m.width)
}
