package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/koi/internal/feeder"
	"github.com/five82/koi/internal/flow"
)

// formField is the focused row of the schedule form.
type formField int

const (
	fieldHour formField = iota
	fieldMinute
	fieldRefill
	fieldActive
	fieldCount
)

// scheduleState holds schedule screen view state.
type scheduleState struct {
	cursor        int
	focus         formField
	hour          textinput.Model
	minute        textinput.Model
	confirmDelete bool
	deleteID      int
}

func newScheduleState() scheduleState {
	return scheduleState{
		hour:   newTimeInput("HH"),
		minute: newTimeInput("MM"),
	}
}

func newTimeInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 2
	ti.Width = 3
	ti.Prompt = ""
	return ti
}

func (s *scheduleState) blurInputs() {
	s.hour.Blur()
	s.minute.Blur()
}

// setFocus moves focus to f, focusing the matching text input.
func (s *scheduleState) setFocus(f formField) tea.Cmd {
	s.focus = f
	s.blurInputs()
	switch f {
	case fieldHour:
		return s.hour.Focus()
	case fieldMinute:
		return s.minute.Focus()
	}
	return nil
}

// openForm loads the form the flow just opened into the inputs.
func (m *Model) openForm() tea.Cmd {
	form := m.schedules.View().Form
	m.scheduleState.hour.SetValue(form.Hour)
	m.scheduleState.minute.SetValue(form.Minute)
	m.scheduleState.hour.CursorEnd()
	m.scheduleState.minute.CursorEnd()
	return m.scheduleState.setFocus(fieldHour)
}

// handleSchedulesKey processes keyboard input for the schedule screen.
func (m Model) handleSchedulesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.schedules.View()
	if view.Mode == flow.Editing {
		return m.handleFormKey(msg, view)
	}
	if m.scheduleState.confirmDelete {
		return m.handleDeleteConfirm(msg)
	}

	list := view.Schedules
	selected := func() (feeder.Schedule, bool) {
		if len(list) == 0 {
			return feeder.Schedule{}, false
		}
		return list[clampCursor(m.scheduleState.cursor, len(list))], true
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.scheduleState.cursor = clampCursor(m.scheduleState.cursor-1, len(list))
	case key.Matches(msg, m.keys.Down):
		m.scheduleState.cursor = clampCursor(m.scheduleState.cursor+1, len(list))
	case key.Matches(msg, m.keys.Top):
		m.scheduleState.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.scheduleState.cursor = clampCursor(len(list)-1, len(list))
	case key.Matches(msg, m.keys.Refresh):
		return m, m.run(opScheduleRefresh, m.schedules.Refresh)
	case key.Matches(msg, m.keys.Add):
		m.schedules.OpenAdd()
		cmd := m.openForm()
		return m, cmd
	case key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.Confirm):
		if sc, ok := selected(); ok {
			m.schedules.OpenEdit(sc)
			cmd := m.openForm()
			return m, cmd
		}
	case key.Matches(msg, m.keys.Toggle):
		if sc, ok := selected(); ok && !view.Saving {
			id := sc.ID
			return m, m.run(opScheduleToggle, func(ctx context.Context) error {
				return m.schedules.Toggle(ctx, id)
			})
		}
	case key.Matches(msg, m.keys.Delete):
		if sc, ok := selected(); ok {
			m.scheduleState.confirmDelete = true
			m.scheduleState.deleteID = sc.ID
		}
	}
	return m, nil
}

func (m Model) handleDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.scheduleState.confirmDelete = false
		id := m.scheduleState.deleteID
		return m, m.run(opScheduleDelete, func(ctx context.Context) error {
			return m.schedules.Delete(ctx, id)
		})
	case "n", "N", "esc":
		m.scheduleState.confirmDelete = false
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg, view flow.ScheduleView) (tea.Model, tea.Cmd) {
	state := &m.scheduleState
	switch msg.Type {
	case tea.KeyEsc:
		m.schedules.Cancel()
		state.blurInputs()
		return m, nil
	case tea.KeyEnter:
		if view.Saving {
			return m, nil
		}
		return m, m.run(opScheduleSave, m.schedules.Save)
	case tea.KeyTab, tea.KeyDown:
		return m, state.setFocus((state.focus + 1) % fieldCount)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, state.setFocus((state.focus + fieldCount - 1) % fieldCount)
	}

	switch state.focus {
	case fieldHour, fieldMinute:
		var cmd tea.Cmd
		if state.focus == fieldHour {
			state.hour, cmd = state.hour.Update(msg)
		} else {
			state.minute, cmd = state.minute.Update(msg)
		}
		hour, minute := state.hour.Value(), state.minute.Value()
		m.schedules.UpdateForm(func(f *flow.Form) {
			f.Hour = hour
			f.Minute = minute
		})
		return m, cmd

	case fieldRefill:
		if msg.Type == tea.KeySpace || msg.Type == tea.KeyLeft || msg.Type == tea.KeyRight ||
			msg.String() == "h" || msg.String() == "l" {
			m.schedules.UpdateForm(func(f *flow.Form) { f.Refill = f.Refill.Next() })
		}

	case fieldActive:
		if msg.Type == tea.KeySpace || msg.Type == tea.KeyLeft || msg.Type == tea.KeyRight ||
			msg.String() == "h" || msg.String() == "l" {
			m.schedules.UpdateForm(func(f *flow.Form) { f.Active = !f.Active })
		}
	}
	return m, nil
}

// renderSchedules renders the schedule list or the open form.
func (m Model) renderSchedules() string {
	view := m.schedules.View()
	if view.Mode == flow.Editing {
		return m.renderScheduleForm(view)
	}

	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	title := "Schedules"
	if status := m.snapshot.Status; status != nil && status.MaxSchedules > 0 {
		title = fmt.Sprintf("Schedules %d/%d", len(view.Schedules), status.MaxSchedules)
	}

	var lines []string
	switch {
	case !view.Loaded && view.Loading:
		lines = append(lines, m.spinner.View()+" "+bg.Render("Loading schedules...", styles.AccentText))
	case len(view.Schedules) == 0:
		lines = append(lines, bg.Render("No schedules yet. Press a to add one.", styles.MutedText))
	}

	cursor := clampCursor(m.scheduleState.cursor, len(view.Schedules))
	for i, sc := range view.Schedules {
		lines = append(lines, m.renderScheduleRow(sc, i == cursor, styles, bg))
	}

	if m.scheduleState.confirmDelete {
		lines = append(lines, "", bg.Render(
			fmt.Sprintf("Delete schedule #%d? y/n", m.scheduleState.deleteID), styles.WarningText.Bold(true)))
	}

	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, m.contentHeight(), true)
}

func (m Model) renderScheduleRow(sc feeder.Schedule, selected bool, styles Styles, bg BgStyle) string {
	state := "inactive"
	if sc.Active {
		state = "active"
	}
	row := fmt.Sprintf("%s  %-14s", sc.TimeLabel(), sc.Refill.Label())
	if sc.UseInterval && sc.IntervalHours > 0 {
		row += fmt.Sprintf("  every %dh", sc.IntervalHours)
	}
	badge := styles.StatusStyle(state).Render(state)
	if selected {
		return styles.Selected.Render("▸ "+row) + bg.Spaces(2) + badge
	}
	style := styles.Text
	if !sc.Active {
		style = styles.MutedText
	}
	return bg.Render("  "+row, style) + bg.Spaces(2) + badge
}

func (m Model) renderScheduleForm(view flow.ScheduleView) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	state := m.scheduleState
	form := view.Form

	title := "New schedule"
	if !form.IsNew() {
		title = fmt.Sprintf("Edit schedule #%d", *form.ID)
	}

	active := "no"
	if form.Active {
		active = "yes"
	}

	row := func(f formField, label, value string) string {
		marker := "  "
		labelStyle := styles.MutedText
		if state.focus == f {
			marker = "▸ "
			labelStyle = styles.AccentText.Bold(true)
		}
		return bg.Render(marker, styles.AccentText) + bg.Render(fmt.Sprintf("%-8s", label), labelStyle) + bg.Space() + value
	}

	lines := []string{
		row(fieldHour, "Hour", state.hour.View()),
		row(fieldMinute, "Minute", state.minute.View()),
		row(fieldRefill, "Refill", bg.Render(form.Refill.Label(), styles.Text)),
		row(fieldActive, "Active", bg.Render(active, styles.Text)),
		"",
	}
	if view.Saving {
		lines = append(lines, m.spinner.View()+" "+bg.Render("Saving...", styles.AccentText))
	} else {
		lines = append(lines, bg.Render("Time is 00:00 to 23:59. Enter saves, esc cancels.", styles.FaintText))
	}

	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, m.contentHeight(), true)
}
