package flow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/five82/koi/internal/feeder"
	"github.com/five82/koi/internal/notify"
	"github.com/five82/koi/internal/state"
	"github.com/five82/koi/internal/storage"
)

// fakeDevice implements every flow API against an in-memory schedule list.
type fakeDevice struct {
	mu        sync.Mutex
	calls     []string
	schedules []feeder.Schedule
	nextID    int
	fail      map[string]error

	probeFailures int
	networks      []feeder.WiFiNetwork
	wifiResult    feeder.WiFiConfigResult
	configs       []feeder.ConfigUpdate
	created       []feeder.ScheduleInput
	patches       map[int]feeder.SchedulePatch
	status        *feeder.DeviceStatus
	history       feeder.HistoryResponse
	stats         feeder.Statistics
	network       feeder.NetworkInfo
	feedBlock     chan struct{}
	fed           []feeder.RefillType
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		nextID:  1,
		fail:    map[string]error{},
		patches: map[int]feeder.SchedulePatch{},
	}
}

var errDevice = &feeder.OpError{Op: feeder.OpStatus, Message: "Falha simulada", Err: errors.New("boom")}

func (f *fakeDevice) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.fail[call]
}

func (f *fakeDevice) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeDevice) count(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeDevice) Schedules(context.Context) ([]feeder.Schedule, error) {
	if err := f.record("schedules"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]feeder.Schedule{}, f.schedules...), nil
}

func (f *fakeDevice) CreateSchedule(_ context.Context, in feeder.ScheduleInput) (feeder.CreateResult, error) {
	if err := f.record("create"); err != nil {
		return feeder.CreateResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.created = append(f.created, in)
	f.schedules = append(f.schedules, feeder.Schedule{ID: id, Hour: in.Hour, Minute: in.Minute, Refill: in.Refill, Active: in.Active})
	return feeder.CreateResult{Status: "ok", ID: id}, nil
}

func (f *fakeDevice) UpdateSchedule(_ context.Context, id int, p feeder.SchedulePatch) (feeder.Ack, error) {
	if err := f.record("update"); err != nil {
		return feeder.Ack{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches[id] = p
	for i := range f.schedules {
		if f.schedules[i].ID != id {
			continue
		}
		if p.Hour != nil {
			f.schedules[i].Hour = *p.Hour
		}
		if p.Minute != nil {
			f.schedules[i].Minute = *p.Minute
		}
		if p.Refill != nil {
			f.schedules[i].Refill = *p.Refill
		}
		if p.Active != nil {
			f.schedules[i].Active = *p.Active
		}
	}
	return feeder.Ack{Status: "ok"}, nil
}

func (f *fakeDevice) DeleteSchedule(_ context.Context, id int) (feeder.DeleteResult, error) {
	if err := f.record("delete"); err != nil {
		return feeder.DeleteResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.schedules[:0]
	for _, s := range f.schedules {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	f.schedules = kept
	return feeder.DeleteResult{Status: "ok", Total: len(kept)}, nil
}

func (f *fakeDevice) ProbeAccessPoint(context.Context) error {
	_ = f.record("probe")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.probeFailures > 0 {
		f.probeFailures--
		return errDevice
	}
	return nil
}

func (f *fakeDevice) ScanWiFi(context.Context) ([]feeder.WiFiNetwork, error) {
	if err := f.record("scan"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]feeder.WiFiNetwork(nil), f.networks...), nil
}

func (f *fakeDevice) ConfigureWiFi(_ context.Context, ssid, password string) (feeder.WiFiConfigResult, error) {
	if err := f.record("wifi"); err != nil {
		return feeder.WiFiConfigResult{}, err
	}
	return f.wifiResult, nil
}

func (f *fakeDevice) UpdateConfig(_ context.Context, u feeder.ConfigUpdate) (feeder.Ack, error) {
	if err := f.record("config"); err != nil {
		return feeder.Ack{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs = append(f.configs, u)
	return feeder.Ack{Status: "ok"}, nil
}

func (f *fakeDevice) Status(context.Context) (*feeder.DeviceStatus, error) {
	if err := f.record("status"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == nil {
		return &feeder.DeviceStatus{}, nil
	}
	return f.status.Clone(), nil
}

func (f *fakeDevice) Feed(_ context.Context, refill feeder.RefillType) (feeder.FeedResult, error) {
	if err := f.record("feed"); err != nil {
		return feeder.FeedResult{}, err
	}
	if f.feedBlock != nil {
		<-f.feedBlock
	}
	f.mu.Lock()
	f.fed = append(f.fed, refill)
	f.mu.Unlock()
	return feeder.FeedResult{Status: "ok", Refill: refill}, nil
}

func (f *fakeDevice) History(context.Context) (feeder.HistoryResponse, error) {
	if err := f.record("history"); err != nil {
		return feeder.HistoryResponse{}, err
	}
	return f.history, nil
}

func (f *fakeDevice) Statistics(context.Context) (feeder.Statistics, error) {
	if err := f.record("statistics"); err != nil {
		return feeder.Statistics{}, err
	}
	return f.stats, nil
}

func (f *fakeDevice) NetworkInfo(_ context.Context, mode feeder.Mode) (feeder.NetworkInfo, error) {
	if err := f.record(fmt.Sprintf("ip:%d", mode)); err != nil {
		return feeder.NetworkInfo{}, err
	}
	return f.network, nil
}

func newTestState(t *testing.T) (*state.Store, *storage.Store) {
	t.Helper()
	persisted := storage.NewStore(storage.NewFileBackend(filepath.Join(t.TempDir(), "state.toml")))
	st := state.New(persisted)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := st.Init(ctx).Wait(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return st, persisted
}

func lastToast(t *testing.T, c *notify.Center) notify.Toast {
	t.Helper()
	toast, ok := c.Latest()
	if !ok {
		t.Fatalf("no notification pushed")
	}
	return toast
}
