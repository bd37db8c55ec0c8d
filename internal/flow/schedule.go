package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/five82/koi/internal/feeder"
)

// ScheduleMode is the state of the schedule management screen.
type ScheduleMode int

const (
	ViewingList ScheduleMode = iota
	Editing
)

func (m ScheduleMode) String() string {
	switch m {
	case ViewingList:
		return "list"
	case Editing:
		return "editing"
	default:
		return fmt.Sprintf("ScheduleMode(%d)", int(m))
	}
}

// Form holds the schedule being added or edited. ID is nil when adding.
// Hour and Minute are kept as typed so the user can edit them freely.
type Form struct {
	ID     *int
	Hour   string
	Minute string
	Refill feeder.RefillType
	Active bool
}

// IsNew reports whether saving creates a schedule.
func (f Form) IsNew() bool { return f.ID == nil }

// ScheduleView is a read-only copy of the schedule screen state.
type ScheduleView struct {
	Mode      ScheduleMode
	Form      Form
	Schedules []feeder.Schedule
	Loaded    bool
	Loading   bool
	Saving    bool
}

// Schedules drives the schedule management screen. The device owns the list;
// every mutation is followed by a fresh fetch instead of a local edit.
type Schedules struct {
	api   ScheduleAPI
	notes Notifier

	mu      sync.Mutex
	mode    ScheduleMode
	form    Form
	list    []feeder.Schedule
	loaded  bool
	loading bool
	saving  bool
}

// NewSchedules returns a controller in the list state with an empty list.
func NewSchedules(api ScheduleAPI, notes Notifier) *Schedules {
	return &Schedules{api: api, notes: notes}
}

// View returns a copy of the current state.
func (s *Schedules) View() ScheduleView {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := ScheduleView{
		Mode:    s.mode,
		Form:    s.form,
		Loaded:  s.loaded,
		Loading: s.loading,
		Saving:  s.saving,
	}
	if s.form.ID != nil {
		id := *s.form.ID
		view.Form.ID = &id
	}
	view.Schedules = append([]feeder.Schedule(nil), s.list...)
	return view
}

// Refresh replaces the list with the device's. On failure the previous list
// is kept.
func (s *Schedules) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	list, err := s.api.Schedules(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		reportFailure(s.notes, err, "Não foi possível carregar os agendamentos.")
		return err
	}
	s.list = list
	s.loaded = true
	return nil
}

// OpenAdd opens an empty form with the default 08:00 active schedule for both refills.
func (s *Schedules) OpenAdd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = Form{Hour: "08", Minute: "00", Refill: feeder.RefillBoth, Active: true}
	s.mode = Editing
}

// OpenEdit opens the form prefilled from sc.
func (s *Schedules) OpenEdit(sc feeder.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := sc.ID
	s.form = Form{
		ID:     &id,
		Hour:   fmt.Sprintf("%02d", sc.Hour),
		Minute: fmt.Sprintf("%02d", sc.Minute),
		Refill: sc.Refill,
		Active: sc.Active,
	}
	s.mode = Editing
}

// UpdateForm applies edit to the open form. It is a no-op outside Editing.
func (s *Schedules) UpdateForm(edit func(*Form)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != Editing {
		return
	}
	id := s.form.ID
	edit(&s.form)
	s.form.ID = id
}

// Cancel closes the form without saving.
func (s *Schedules) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ViewingList
	s.form = Form{}
}

// Save validates the form and creates or updates the schedule. An invalid
// time never reaches the device.
func (s *Schedules) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.mode != Editing {
		s.mu.Unlock()
		return nil
	}
	if s.saving {
		s.mu.Unlock()
		return ErrBusy
	}
	form := s.form
	hour, minute, err := ParseTime(form.Hour, form.Minute)
	if err != nil {
		s.mu.Unlock()
		s.notes.Error(titleError, "Horário inválido")
		return err
	}
	refill := form.Refill
	if !refill.Valid() {
		refill = feeder.RefillBoth
	}
	s.saving = true
	s.mu.Unlock()

	var (
		callErr error
		message string
	)
	if form.IsNew() {
		_, callErr = s.api.CreateSchedule(ctx, feeder.ScheduleInput{
			Hour:   hour,
			Minute: minute,
			Refill: refill,
			Active: form.Active,
		})
		message = "Agendamento criado!"
	} else {
		active := form.Active
		_, callErr = s.api.UpdateSchedule(ctx, *form.ID, feeder.SchedulePatch{
			Hour:   &hour,
			Minute: &minute,
			Refill: &refill,
			Active: &active,
		})
		message = "Agendamento atualizado!"
	}

	s.mu.Lock()
	s.saving = false
	if callErr != nil {
		s.mu.Unlock()
		reportFailure(s.notes, callErr, "Não foi possível salvar o agendamento.")
		return callErr
	}
	s.mode = ViewingList
	s.form = Form{}
	s.mu.Unlock()

	s.notes.Success(titleSuccess, message)
	_ = s.Refresh(ctx)
	return nil
}

// Toggle flips the active flag of schedule id on the device, then refetches.
func (s *Schedules) Toggle(ctx context.Context, id int) error {
	sc, ok := s.find(id)
	if !ok {
		return fmt.Errorf("toggle schedule %d: %w", id, ErrUnknownSchedule)
	}
	sc.Active = !sc.Active
	if _, err := s.api.UpdateSchedule(ctx, id, feeder.PatchFrom(sc)); err != nil {
		reportFailure(s.notes, err, "Não foi possível atualizar o agendamento.")
		return err
	}
	_ = s.Refresh(ctx)
	return nil
}

// Delete removes schedule id on the device, then refetches.
func (s *Schedules) Delete(ctx context.Context, id int) error {
	if _, err := s.api.DeleteSchedule(ctx, id); err != nil {
		reportFailure(s.notes, err, "Não foi possível excluir o agendamento.")
		return err
	}
	_ = s.Refresh(ctx)
	return nil
}

func (s *Schedules) find(id int) (feeder.Schedule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range s.list {
		if sc.ID == id {
			return sc, true
		}
	}
	return feeder.Schedule{}, false
}

// Active returns the active schedules of list in their original order.
func Active(list []feeder.Schedule) []feeder.Schedule {
	var out []feeder.Schedule
	for _, sc := range list {
		if sc.Active {
			out = append(out, sc)
		}
	}
	return out
}

// ParseTime reads user-typed hour and minute. Text without a leading number
// reads as 0; the result must fall within 00:00..23:59.
func ParseTime(hour, minute string) (int, int, error) {
	h := leadingInt(hour)
	m := leadingInt(minute)
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("%w: %s:%s", ErrInvalidTime, hour, minute)
	}
	return h, m, nil
}

func leadingInt(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Overflow: far outside any valid bound.
		return -1
	}
	return n
}
