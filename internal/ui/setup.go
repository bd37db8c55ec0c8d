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
	"github.com/five82/koi/internal/flow"
)

// setupState holds wizard view state that the flow does not own.
type setupState struct {
	cursor   int
	ssid     string
	password textinput.Model
	plan     flow.PlanSlot
}

func newSetupState() setupState {
	ti := textinput.New()
	ti.Placeholder = "WiFi password"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 63
	return setupState{password: ti}
}

func setupStepTitle(step flow.Step) string {
	switch step {
	case flow.StepWelcome:
		return "Welcome"
	case flow.StepConnectAP:
		return "1/5 Join the feeder"
	case flow.StepSelectNetwork:
		return "2/5 Home network"
	case flow.StepChooseFood1:
		return "3/5 Left refill"
	case flow.StepChooseFood2:
		return "4/5 Right refill"
	case flow.StepSchedule:
		return "5/5 Feeding plan"
	default:
		return "Done"
	}
}

func (m Model) setupCommands() []command {
	if m.setupState.password.Focused() {
		return []command{{"enter", "Connect"}, {"esc", "Cancel"}}
	}
	switch m.setup.View().Step {
	case flow.StepWelcome:
		return []command{{"enter", "Start"}, {"q", "Quit"}}
	case flow.StepConnectAP:
		return []command{{"enter", "Check connection"}, {"esc", "Back"}, {"q", "Quit"}}
	case flow.StepSelectNetwork:
		return []command{{"j/k", "Navigate"}, {"enter", "Select"}, {"r", "Rescan"}, {"esc", "Back"}}
	case flow.StepChooseFood1, flow.StepChooseFood2:
		return []command{{"j/k", "Navigate"}, {"enter", "Choose"}, {"esc", "Back"}}
	case flow.StepSchedule:
		return []command{{"j/k", "Plan"}, {"h/l", "Hour"}, {",/.", "Minute"}, {"space", "Enable"}, {"r", "Refill"}, {"enter", "Finish"}, {"s", "Skip"}}
	default:
		return []command{{"q", "Quit"}}
	}
}

// handleSetupKey processes keyboard input for the wizard.
func (m Model) handleSetupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.setupState.password.Focused() {
		return m.handlePasswordKey(msg)
	}

	view := m.setup.View()
	if view.Busy {
		return m, nil
	}

	switch view.Step {
	case flow.StepWelcome:
		if key.Matches(msg, m.keys.Confirm) {
			m.setup.Begin()
		}

	case flow.StepConnectAP:
		switch {
		case key.Matches(msg, m.keys.Confirm):
			return m, m.run(opProbe, m.setup.Probe)
		case key.Matches(msg, m.keys.Escape):
			m.setup.Back()
		}

	case flow.StepSelectNetwork:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.setupState.cursor = clampCursor(m.setupState.cursor-1, len(view.Networks))
		case key.Matches(msg, m.keys.Down):
			m.setupState.cursor = clampCursor(m.setupState.cursor+1, len(view.Networks))
		case key.Matches(msg, m.keys.Refresh):
			m.setupState.cursor = 0
			return m, m.run(opScan, m.setup.ScanNetworks)
		case key.Matches(msg, m.keys.Escape):
			m.setup.Back()
		case key.Matches(msg, m.keys.Confirm):
			if len(view.Networks) == 0 {
				return m, nil
			}
			network := view.Networks[clampCursor(m.setupState.cursor, len(view.Networks))]
			m.setupState.ssid = network.SSID
			if network.Secure {
				m.setupState.password.Reset()
				return m, m.setupState.password.Focus()
			}
			return m, m.connect(network.SSID, "")
		}

	case flow.StepChooseFood1, flow.StepChooseFood2:
		foods := catalog.All()
		switch {
		case key.Matches(msg, m.keys.Up):
			m.setupState.cursor = clampCursor(m.setupState.cursor-1, len(foods))
		case key.Matches(msg, m.keys.Down):
			m.setupState.cursor = clampCursor(m.setupState.cursor+1, len(foods))
		case key.Matches(msg, m.keys.Escape):
			m.setup.Back()
			m.setupState.cursor = 0
		case key.Matches(msg, m.keys.Confirm):
			if len(foods) == 0 {
				return m, nil
			}
			m.setup.SelectFood(foods[clampCursor(m.setupState.cursor, len(foods))])
			return m, m.run(opFoodNext, m.setup.NextFood)
		}

	case flow.StepSchedule:
		return m.handlePlanKey(msg)
	}
	return m, nil
}

func (m Model) handlePasswordKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.setupState.password.Blur()
		m.setupState.password.Reset()
		return m, nil
	case tea.KeyEnter:
		password := m.setupState.password.Value()
		m.setupState.password.Blur()
		return m, m.connect(m.setupState.ssid, password)
	}
	var cmd tea.Cmd
	m.setupState.password, cmd = m.setupState.password.Update(msg)
	return m, cmd
}

func (m Model) connect(ssid, password string) tea.Cmd {
	return m.run(opConnect, func(ctx context.Context) error {
		return m.setup.Connect(ctx, ssid, password)
	})
}

func (m Model) handlePlanKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	slot := m.setupState.plan
	switch {
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		if slot == flow.Morning {
			m.setupState.plan = flow.Evening
		} else {
			m.setupState.plan = flow.Morning
		}
	case key.Matches(msg, m.keys.Left):
		m.setup.UpdatePlan(slot, func(p flow.SlotPlan) flow.SlotPlan { return p.AdjustHour(-1) })
	case key.Matches(msg, m.keys.Right):
		m.setup.UpdatePlan(slot, func(p flow.SlotPlan) flow.SlotPlan { return p.AdjustHour(1) })
	case msg.String() == ",":
		m.setup.UpdatePlan(slot, func(p flow.SlotPlan) flow.SlotPlan { return p.AdjustMinute(-5) })
	case msg.String() == ".":
		m.setup.UpdatePlan(slot, func(p flow.SlotPlan) flow.SlotPlan { return p.AdjustMinute(5) })
	case key.Matches(msg, m.keys.Toggle):
		m.setup.UpdatePlan(slot, func(p flow.SlotPlan) flow.SlotPlan { p.Enabled = !p.Enabled; return p })
	case key.Matches(msg, m.keys.Refresh):
		m.setup.UpdatePlan(slot, func(p flow.SlotPlan) flow.SlotPlan { p.Refill = p.Refill.Next(); return p })
	case key.Matches(msg, m.keys.Confirm):
		return m, m.run(opFinish, m.setup.Finish)
	case key.Matches(msg, m.keys.Skip):
		return m, m.run(opSkip, m.setup.Skip)
	case key.Matches(msg, m.keys.Escape):
		m.setup.Back()
	}
	return m, nil
}

// renderSetup renders the current wizard page.
func (m Model) renderSetup() string {
	view := m.setup.View()
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	var lines []string
	switch view.Step {
	case flow.StepWelcome:
		lines = []string{
			bg.Render("Welcome to koi", styles.Logo),
			"",
			bg.Render("This assistant pairs the feeder with your home WiFi,", styles.Text),
			bg.Render("records the food in each refill and proposes a feeding plan.", styles.Text),
			"",
			bg.Render("Press enter to begin.", styles.MutedText),
		}

	case flow.StepConnectAP:
		lines = []string{
			bg.Render("Join the feeder's access point", styles.Text.Bold(true)),
			"",
			bg.Render("1. Power on the feeder and wait for the blinking light.", styles.Text),
			bg.Render("2. Connect this computer to the network \"Alimentador\".", styles.Text),
			bg.Render("3. Press enter to check the connection.", styles.Text),
			"",
		}
		if view.Busy {
			lines = append(lines, m.spinner.View()+" "+
				bg.Render(fmt.Sprintf("Looking for the feeder (attempt %d)...", view.Attempt), styles.AccentText))
		}

	case flow.StepSelectNetwork:
		lines = append(lines, bg.Render("Choose your home network", styles.Text.Bold(true)), "")
		if view.Busy && len(view.Networks) == 0 {
			lines = append(lines, m.spinner.View()+" "+bg.Render("Scanning...", styles.AccentText))
		} else if len(view.Networks) == 0 {
			lines = append(lines, bg.Render("No networks found. Press r to scan again.", styles.MutedText))
		}
		for i, n := range view.Networks {
			lines = append(lines, m.renderNetworkRow(n, i == m.setupState.cursor, styles, bg))
		}
		if m.setupState.password.Focused() {
			lines = append(lines, "",
				bg.Render("Password for "+m.setupState.ssid, styles.MutedText),
				m.setupState.password.View())
		} else if view.Busy && len(view.Networks) > 0 {
			lines = append(lines, "", m.spinner.View()+" "+bg.Render("Connecting...", styles.AccentText))
		}

	case flow.StepChooseFood1, flow.StepChooseFood2:
		slot := "left"
		selected := view.Food1
		if view.Step == flow.StepChooseFood2 {
			slot = "right"
			selected = view.Food2
		}
		lines = append(lines, bg.Render("What food is in the "+slot+" refill?", styles.Text.Bold(true)), "")
		lines = append(lines, m.renderFoodList(selected, m.setupState.cursor, m.contentHeight()-6, styles, bg)...)

	case flow.StepSchedule:
		lines = append(lines, bg.Render("Suggested feeding plan", styles.Text.Bold(true)), "")
		names := []string{"Morning", "Evening"}
		for i, plan := range view.Plans {
			lines = append(lines, m.renderPlanRow(names[i], plan, flow.PlanSlot(i) == m.setupState.plan, styles, bg))
		}
		lines = append(lines, "", bg.Render("Enter creates the enabled schedules. s skips this step.", styles.MutedText))

	default:
		lines = []string{bg.Render("Setup complete.", styles.SuccessText)}
	}

	return m.renderTitledBox("Setup: "+setupStepTitle(view.Step), strings.Join(lines, "\n"), m.width, m.contentHeight(), true)
}

func (m Model) renderNetworkRow(n feeder.WiFiNetwork, selected bool, styles Styles, bg BgStyle) string {
	signal := feeder.SignalStrength(n.RSSI)
	lock := " "
	if n.Secure {
		lock = "🔒"
	}
	row := fmt.Sprintf("%-32s %s %s %s", truncate(n.SSID, 32), signalBars(signal.Bars), signal.Label, lock)
	if selected {
		return styles.Selected.Render("▸ " + row)
	}
	return bg.Render("  "+row, styles.Text)
}

func (m Model) renderPlanRow(name string, plan flow.SlotPlan, selected bool, styles Styles, bg BgStyle) string {
	mark := "[ ]"
	if plan.Enabled {
		mark = "[x]"
	}
	row := fmt.Sprintf("%s %-8s %s  %s", mark, name, plan.TimeLabel(), plan.Refill.Label())
	if selected {
		return styles.Selected.Render("▸ " + row)
	}
	style := styles.Text
	if !plan.Enabled {
		style = styles.MutedText
	}
	return bg.Render("  "+row, style)
}

// renderFoodList renders a scrolling catalog picker. selected marks the
// current choice.
func (m Model) renderFoodList(selected *catalog.Food, cursor, height int, styles Styles, bg BgStyle) []string {
	foods := catalog.All()
	if len(foods) == 0 {
		return []string{bg.Render("The food catalog is empty.", styles.MutedText)}
	}
	if height < 3 {
		height = 3
	}
	cursor = clampCursor(cursor, len(foods))
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := start + height
	if end > len(foods) {
		end = len(foods)
	}

	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		f := foods[i]
		mark := "  "
		if selected != nil && selected.ID == f.ID {
			mark = "✓ "
		}
		row := fmt.Sprintf("%s%-36s %s", mark, truncate(f.DisplayName(), 36), f.Category)
		if i == cursor {
			lines = append(lines, styles.Selected.Render(row))
			continue
		}
		lines = append(lines, bg.Render(row, styles.Text))
	}
	if desc := foods[cursor].Description; desc != "" {
		lines = append(lines, "", bg.Render(truncate(desc, m.width-6), styles.FaintText))
	}
	return lines
}

func signalBars(bars int) string {
	return strings.Repeat("▮", bars) + strings.Repeat("▯", 4-bars)
}

func clampCursor(cursor, n int) int {
	if n <= 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
