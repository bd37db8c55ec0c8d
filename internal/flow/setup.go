package flow

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/five82/koi/internal/catalog"
	"github.com/five82/koi/internal/feeder"
	"github.com/five82/koi/internal/state"
	"github.com/five82/koi/internal/storage"
)

// Step is a page of the first-run wizard.
type Step int

const (
	StepWelcome Step = iota
	StepConnectAP
	StepSelectNetwork
	StepChooseFood1
	StepChooseFood2
	StepSchedule
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepWelcome:
		return "welcome"
	case StepConnectAP:
		return "connect-ap"
	case StepSelectNetwork:
		return "select-network"
	case StepChooseFood1:
		return "choose-food-1"
	case StepChooseFood2:
		return "choose-food-2"
	case StepSchedule:
		return "schedule"
	case StepDone:
		return "done"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// ProbeConfig controls the access point check on the connect page.
type ProbeConfig struct {
	Attempts   int
	PerAttempt time.Duration
	Pause      time.Duration
}

// DefaultProbe tries three times, five seconds each, one second apart.
var DefaultProbe = ProbeConfig{Attempts: 3, PerAttempt: 5 * time.Second, Pause: time.Second}

// PlanSlot names one of the two schedules proposed during setup.
type PlanSlot int

const (
	Morning PlanSlot = iota
	Evening
)

// SlotPlan is a proposed schedule on the wizard's last page.
type SlotPlan struct {
	Enabled bool
	Hour    int
	Minute  int
	Refill  feeder.RefillType
}

// TimeLabel formats the plan time as HH:MM.
func (p SlotPlan) TimeLabel() string { return feeder.FormatTime(p.Hour, p.Minute) }

// AdjustHour moves the hour by delta, wrapping around the day.
func (p SlotPlan) AdjustHour(delta int) SlotPlan {
	p.Hour = ((p.Hour+delta)%24 + 24) % 24
	return p
}

// AdjustMinute moves the minute by delta in steps of five. Leaving 00..55
// carries into the hour.
func (p SlotPlan) AdjustMinute(delta int) SlotPlan {
	next := p.Minute + delta
	switch {
	case next < 0:
		p.Minute = 55
		p = p.AdjustHour(-1)
	case next > 55:
		p.Minute = 0
		p = p.AdjustHour(1)
	default:
		p.Minute = next
	}
	return p
}

// SetupView is a read-only copy of the wizard state.
type SetupView struct {
	Step     Step
	Networks []feeder.WiFiNetwork
	Food1    *catalog.Food
	Food2    *catalog.Food
	Plans    [2]SlotPlan
	Busy     bool
	Attempt  int
}

// Setup drives the first-run wizard.
type Setup struct {
	api   SetupAPI
	state *state.Store
	notes Notifier
	probe ProbeConfig

	mu       sync.Mutex
	step     Step
	networks []feeder.WiFiNetwork
	food1    *catalog.Food
	food2    *catalog.Food
	plans    [2]SlotPlan
	busy     bool
	attempt  int
}

// NewSetup returns a wizard on the welcome page.
func NewSetup(api SetupAPI, st *state.Store, notes Notifier, probe ProbeConfig) *Setup {
	if probe.Attempts <= 0 {
		probe.Attempts = DefaultProbe.Attempts
	}
	if probe.PerAttempt <= 0 {
		probe.PerAttempt = DefaultProbe.PerAttempt
	}
	return &Setup{
		api:   api,
		state: st,
		notes: notes,
		probe: probe,
		plans: defaultPlans(),
	}
}

func defaultPlans() [2]SlotPlan {
	return [2]SlotPlan{
		Morning: {Enabled: true, Hour: 8, Minute: 0, Refill: feeder.RefillBoth},
		Evening: {Enabled: true, Hour: 18, Minute: 0, Refill: feeder.RefillBoth},
	}
}

// View returns a copy of the wizard state.
func (s *Setup) View() SetupView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SetupView{
		Step:     s.step,
		Networks: append([]feeder.WiFiNetwork(nil), s.networks...),
		Food1:    copyFood(s.food1),
		Food2:    copyFood(s.food2),
		Plans:    s.plans,
		Busy:     s.busy,
		Attempt:  s.attempt,
	}
}

// Step returns the current page.
func (s *Setup) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Restart returns to the welcome page and forgets every choice.
func (s *Setup) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = StepWelcome
	s.networks = nil
	s.food1, s.food2 = nil, nil
	s.plans = defaultPlans()
	s.attempt = 0
}

// Begin leaves the welcome page.
func (s *Setup) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step == StepWelcome {
		s.step = StepConnectAP
	}
}

// Back returns to the previous page where that makes sense.
func (s *Setup) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.step {
	case StepConnectAP, StepSelectNetwork, StepChooseFood2, StepSchedule:
		s.step--
	}
}

func (s *Setup) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *Setup) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Probe checks that the user has joined the feeder's access point. It is a
// user-triggered check with a few attempts, not a retry of a failed request.
func (s *Setup) Probe(ctx context.Context) error {
	if !s.begin() {
		return ErrBusy
	}
	defer s.end()

	for attempt := 1; attempt <= s.probe.Attempts; attempt++ {
		s.mu.Lock()
		s.attempt = attempt
		s.mu.Unlock()

		attemptCtx, cancel := context.WithTimeout(ctx, s.probe.PerAttempt)
		err := s.api.ProbeAccessPoint(attemptCtx)
		cancel()
		if err == nil {
			s.mu.Lock()
			s.step = StepSelectNetwork
			s.attempt = 0
			s.mu.Unlock()
			return nil
		}
		log.Printf("flow: probe attempt %d/%d failed: %v", attempt, s.probe.Attempts, err)
		if ctx.Err() != nil {
			break
		}
		if attempt < s.probe.Attempts && s.probe.Pause > 0 {
			if err := sleep(ctx, s.probe.Pause); err != nil {
				break
			}
		}
	}

	s.mu.Lock()
	s.attempt = 0
	s.mu.Unlock()
	s.notes.Error(titleError, "Não foi possível encontrar o alimentador. Verifique se você está conectado à rede WiFi do alimentador.")
	return ErrUnreachable
}

// ScanNetworks lists the networks the feeder sees, strongest first.
func (s *Setup) ScanNetworks(ctx context.Context) error {
	if !s.begin() {
		return ErrBusy
	}
	defer s.end()

	networks, err := s.api.ScanWiFi(ctx)
	if err != nil {
		reportFailure(s.notes, err, "Não foi possível buscar as redes WiFi. Verifique se está conectado ao alimentador.")
		return err
	}
	sort.SliceStable(networks, func(i, j int) bool { return networks[i].RSSI > networks[j].RSSI })

	s.mu.Lock()
	s.networks = networks
	s.mu.Unlock()
	return nil
}

// Connect sends the home network credentials to the feeder.
func (s *Setup) Connect(ctx context.Context, ssid, password string) error {
	if !s.begin() {
		return ErrBusy
	}
	defer s.end()

	result, err := s.api.ConfigureWiFi(ctx, ssid, password)
	if err != nil {
		reportFailure(s.notes, err, "Não foi possível configurar a rede WiFi.")
		return err
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "Falha ao conectar"
		}
		s.notes.Error(titleError, msg)
		return fmt.Errorf("%w: %s", ErrWiFiRejected, msg)
	}
	if result.IP != "" {
		if err := s.state.SetDeviceIP(result.IP).Wait(ctx); err != nil {
			log.Printf("flow: persist device ip: %v", err)
		}
	}

	s.mu.Lock()
	s.step = StepChooseFood1
	s.mu.Unlock()
	return nil
}

// SelectFood picks food for the refill shown on the current page.
func (s *Setup) SelectFood(food catalog.Food) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.step {
	case StepChooseFood1:
		s.food1 = &food
	case StepChooseFood2:
		s.food2 = &food
	}
}

// NextFood validates the current selection and advances. After the second
// refill both choices are persisted and the device is told their names.
func (s *Setup) NextFood(ctx context.Context) error {
	s.mu.Lock()
	step := s.step
	var selected *catalog.Food
	switch step {
	case StepChooseFood1:
		selected = s.food1
	case StepChooseFood2:
		selected = s.food2
	default:
		s.mu.Unlock()
		return nil
	}
	if selected == nil {
		s.mu.Unlock()
		s.notes.Warn(titleWarning, "Por favor, selecione uma ração para este refil.")
		return ErrNoSelection
	}
	if step == StepChooseFood1 {
		s.step = StepChooseFood2
		s.mu.Unlock()
		return nil
	}
	food1, food2 := copyFood(s.food1), copyFood(s.food2)
	s.mu.Unlock()

	if food1 == nil {
		s.notes.Warn(titleWarning, "Por favor, selecione rações para ambos os refis.")
		return ErrNoSelection
	}
	if !s.begin() {
		return ErrBusy
	}
	defer s.end()

	w1 := s.state.SetFood(storage.Slot1, food1)
	w2 := s.state.SetFood(storage.Slot2, food2)
	for _, w := range []*state.Completion{w1, w2} {
		if err := w.Wait(ctx); err != nil {
			s.notes.Error(titleError, "Não foi possível salvar as configurações.")
			return fmt.Errorf("persist refill foods: %w", err)
		}
	}

	name1, name2 := food1.DisplayName(), food2.DisplayName()
	if _, err := s.api.UpdateConfig(ctx, feeder.ConfigUpdate{Refill1Name: &name1, Refill2Name: &name2}); err != nil {
		// The feeder may still be switching networks.
		log.Printf("flow: send refill names: %v", err)
	}

	s.mu.Lock()
	s.step = StepSchedule
	s.mu.Unlock()
	return nil
}

// UpdatePlan applies edit to one of the proposed schedules.
func (s *Setup) UpdatePlan(slot PlanSlot, edit func(SlotPlan) SlotPlan) {
	if slot != Morning && slot != Evening {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[slot] = edit(s.plans[slot])
}

// Finish creates the enabled schedules and completes setup. Schedule creation
// is best effort because the feeder may not be reachable yet.
func (s *Setup) Finish(ctx context.Context) error {
	if !s.begin() {
		return ErrBusy
	}
	defer s.end()

	s.mu.Lock()
	plans := s.plans
	s.mu.Unlock()

	for _, plan := range plans {
		if !plan.Enabled {
			continue
		}
		_, err := s.api.CreateSchedule(ctx, feeder.ScheduleInput{
			Hour:   plan.Hour,
			Minute: plan.Minute,
			Refill: plan.Refill,
			Active: true,
		})
		if err != nil {
			log.Printf("flow: create setup schedule %s: %v", plan.TimeLabel(), err)
			break
		}
	}
	return s.complete(ctx)
}

// Skip completes setup without creating schedules.
func (s *Setup) Skip(ctx context.Context) error {
	if !s.begin() {
		return ErrBusy
	}
	defer s.end()
	return s.complete(ctx)
}

func (s *Setup) complete(ctx context.Context) error {
	if err := s.state.CompleteSetup().Wait(ctx); err != nil {
		s.notes.Error(titleError, "Não foi possível salvar os agendamentos.")
		return fmt.Errorf("complete setup: %w", err)
	}
	s.mu.Lock()
	s.step = StepDone
	s.mu.Unlock()
	return nil
}

func copyFood(f *catalog.Food) *catalog.Food {
	if f == nil {
		return nil
	}
	dup := *f
	return &dup
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
