package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/koi/internal/catalog"
	"github.com/five82/koi/internal/feeder"
	"github.com/five82/koi/internal/storage"
)

type settingsAction int

const (
	actionNone settingsAction = iota
	actionRename
	actionFood1
	actionFood2
	actionReconfigure
	actionReset
)

var settingsActions = []settingsAction{actionRename, actionFood1, actionFood2, actionReconfigure, actionReset}

func (a settingsAction) label() string {
	switch a {
	case actionRename:
		return "Rename device"
	case actionFood1:
		return "Change left refill food"
	case actionFood2:
		return "Change right refill food"
	case actionReconfigure:
		return "Reconfigure WiFi"
	case actionReset:
		return "Reset app"
	default:
		return ""
	}
}

// settingsState holds settings screen view state.
type settingsState struct {
	cursor       int
	renaming     bool
	name         textinput.Model
	pickerCursor int
	confirm      settingsAction
}

func newSettingsState() settingsState {
	ti := textinput.New()
	ti.Placeholder = "Device name"
	ti.CharLimit = 32
	return settingsState{name: ti}
}

func (s *settingsState) reset() {
	s.renaming = false
	s.name.Blur()
	s.pickerCursor = 0
	s.confirm = actionNone
}

func (m Model) settingsCommands() []command {
	switch {
	case m.settingsState.renaming:
		return []command{{"enter", "Save"}, {"esc", "Cancel"}}
	case m.refills.Editing() != 0:
		return []command{{"j/k", "Navigate"}, {"enter", "Choose"}, {"esc", "Cancel"}}
	case m.settingsState.confirm != actionNone:
		return []command{{"y", "Confirm"}, {"n", "Cancel"}}
	default:
		return []command{{"j/k", "Navigate"}, {"enter", "Select"}, {"r", "Refresh"}, {"?", "More"}}
	}
}

// handleSettingsKey processes keyboard input for the settings screen.
func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := &m.settingsState

	if state.renaming {
		switch msg.Type {
		case tea.KeyEsc:
			state.renaming = false
			state.name.Blur()
			return m, nil
		case tea.KeyEnter:
			name := state.name.Value()
			return m, m.run(opRename, func(ctx context.Context) error {
				return m.device.Rename(ctx, name)
			})
		}
		var cmd tea.Cmd
		state.name, cmd = state.name.Update(msg)
		return m, cmd
	}

	if slot := m.refills.Editing(); slot != 0 {
		return m.handleFoodPickerKey(msg, slot)
	}

	if state.confirm != actionNone {
		switch msg.String() {
		case "y", "Y":
			action := state.confirm
			state.confirm = actionNone
			if action == actionReconfigure {
				return m, m.run(opReset, m.device.ReconfigureWiFi)
			}
			return m, m.run(opReset, m.device.ResetApp)
		case "n", "N", "esc":
			state.confirm = actionNone
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		state.cursor = clampCursor(state.cursor-1, len(settingsActions))
	case key.Matches(msg, m.keys.Down):
		state.cursor = clampCursor(state.cursor+1, len(settingsActions))
	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(
			m.run(opNetworkLoad, m.device.LoadNetwork),
			m.run(opHomeLoad, m.home.Load),
		)
	case key.Matches(msg, m.keys.Confirm):
		switch action := settingsActions[clampCursor(state.cursor, len(settingsActions))]; action {
		case actionRename:
			state.renaming = true
			if status := m.snapshot.Status; status != nil {
				state.name.SetValue(status.DeviceName)
			}
			state.name.CursorEnd()
			return m, state.name.Focus()
		case actionFood1:
			m.openFoodPicker(storage.Slot1)
		case actionFood2:
			m.openFoodPicker(storage.Slot2)
		default:
			state.confirm = action
		}
	}
	return m, nil
}

// openFoodPicker opens the refill picker with the current food highlighted.
func (m *Model) openFoodPicker(slot storage.Slot) {
	m.refills.Edit(slot)
	m.settingsState.pickerCursor = 0
	current := m.snapshot.Config.Food(slot)
	if current == nil {
		return
	}
	for i, f := range catalog.All() {
		if f.ID == current.ID {
			m.settingsState.pickerCursor = i
			return
		}
	}
}

func (m Model) handleFoodPickerKey(msg tea.KeyMsg, slot storage.Slot) (tea.Model, tea.Cmd) {
	foods := catalog.All()
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.refills.Cancel()
	case key.Matches(msg, m.keys.Up):
		m.settingsState.pickerCursor = clampCursor(m.settingsState.pickerCursor-1, len(foods))
	case key.Matches(msg, m.keys.Down):
		m.settingsState.pickerCursor = clampCursor(m.settingsState.pickerCursor+1, len(foods))
	case key.Matches(msg, m.keys.Confirm):
		if len(foods) == 0 || m.refills.Saving() {
			return m, nil
		}
		food := foods[clampCursor(m.settingsState.pickerCursor, len(foods))]
		return m, m.run(opChangeFood, func(ctx context.Context) error {
			return m.refills.ChangeFood(ctx, slot, food)
		})
	}
	return m, nil
}

// renderSettings renders device details, refills and the action list.
func (m Model) renderSettings() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	cfg := m.snapshot.Config

	if slot := m.refills.Editing(); slot != 0 {
		name := "left"
		if slot == storage.Slot2 {
			name = "right"
		}
		lines := []string{bg.Render("Choose the food in the "+name+" refill", styles.Text.Bold(true)), ""}
		lines = append(lines, m.renderFoodList(cfg.Food(slot), m.settingsState.pickerCursor, m.contentHeight()-6, styles, bg)...)
		if m.refills.Saving() {
			lines = append(lines, "", m.spinner.View()+" "+bg.Render("Saving...", styles.AccentText))
		}
		return m.renderTitledBox("Refills", strings.Join(lines, "\n"), m.width, m.contentHeight(), true)
	}

	lines := []string{bg.Render("Device", styles.AccentText.Bold(true))}
	if status := m.snapshot.Status; status != nil {
		lines = append(lines,
			m.kv(bg, styles, "Name", orDash(status.DeviceName)),
			m.kv(bg, styles, "ID", orDash(status.DeviceID)),
		)
	}
	if info, ok := m.device.Network(); ok {
		signal := feeder.SignalStrength(info.RSSI)
		lines = append(lines,
			m.kv(bg, styles, "IP", orDash(info.IP)),
			m.kv(bg, styles, "Hostname", orDash(info.Hostname)),
			m.kv(bg, styles, "Network", orDash(info.SSID)),
			m.kv(bg, styles, "Signal", fmt.Sprintf("%s %s (%d dBm)", signalBars(signal.Bars), signal.Label, info.RSSI)),
		)
	} else {
		lines = append(lines, m.kv(bg, styles, "IP", orDash(cfg.DeviceIP)))
	}

	lines = append(lines, "", bg.Render("Refills", styles.AccentText.Bold(true)))
	for _, slot := range []storage.Slot{storage.Slot1, storage.Slot2} {
		label := "Left"
		if slot == storage.Slot2 {
			label = "Right"
		}
		food := "not set"
		if f := cfg.Food(slot); f != nil {
			food = f.DisplayName()
		}
		lines = append(lines, m.kv(bg, styles, label, food))
	}

	if status := m.snapshot.Status; status != nil && status.MaxSchedules > 0 {
		lines = append(lines, "",
			m.kv(bg, styles, "Schedules", fmt.Sprintf("%d of %d", status.TotalSchedules, status.MaxSchedules)))
	}

	lines = append(lines, "", bg.Render("Actions", styles.AccentText.Bold(true)))
	cursor := clampCursor(m.settingsState.cursor, len(settingsActions))
	for i, action := range settingsActions {
		row := action.label()
		if i == cursor {
			lines = append(lines, styles.Selected.Render("▸ "+row))
			continue
		}
		style := styles.Text
		if action == actionReset {
			style = styles.DangerText.UnsetBold()
		}
		lines = append(lines, bg.Render("  "+row, style))
	}

	switch {
	case m.settingsState.renaming:
		lines = append(lines, "", bg.Render("New name", styles.MutedText), m.settingsState.name.View())
	case m.settingsState.confirm == actionReconfigure:
		lines = append(lines, "", bg.Render("Forget this feeder and run setup again? y/n", styles.WarningText.Bold(true)))
	case m.settingsState.confirm == actionReset:
		lines = append(lines, "", bg.Render("Erase every setting and return to setup? y/n", styles.DangerText))
	}

	return m.renderTitledBox("Settings", strings.Join(lines, "\n"), m.width, m.contentHeight(), true)
}
