package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/five82/koi/internal/feeder"
	"github.com/five82/koi/internal/state"
	"github.com/five82/koi/internal/storage"
)

type stubSource struct {
	mu     sync.Mutex
	calls  int
	status *feeder.DeviceStatus
	err    error
}

func (s *stubSource) Status(context.Context) (*feeder.DeviceStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.status, s.err
}

func (s *stubSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newState(t *testing.T, configured bool) *state.Store {
	t.Helper()
	backend := storage.NewFileBackend(filepath.Join(t.TempDir(), "state.toml"))
	st := state.New(storage.NewStore(backend))
	ctx := context.Background()
	if err := st.Init(ctx).Wait(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if configured {
		if err := st.CompleteSetup().Wait(ctx); err != nil {
			t.Fatalf("CompleteSetup: %v", err)
		}
	}
	return st
}

func TestNewPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(newState(t, true), &stubSource{}, 0)
	if p.interval != defaultPollInterval {
		t.Fatalf("interval = %v, want %v", p.interval, defaultPollInterval)
	}
}

func TestRefreshGates(t *testing.T) {
	tests := []struct {
		name       string
		configured bool
		visible    bool
		wantCall   bool
	}{
		{"before setup", false, true, false},
		{"off the home screen", true, false, false},
		{"home screen showing", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &stubSource{status: &feeder.DeviceStatus{DeviceName: "Sala"}}
			p := NewPoller(newState(t, tt.configured), src, time.Hour)
			p.SetHomeVisible(tt.visible)

			if got := p.refresh(context.Background()); got != tt.wantCall {
				t.Fatalf("refresh = %v, want %v", got, tt.wantCall)
			}
			if got := src.Calls() > 0; got != tt.wantCall {
				t.Fatalf("called Status = %v, want %v", got, tt.wantCall)
			}
		})
	}
}

func TestRefreshStoresStatus(t *testing.T) {
	st := newState(t, true)
	p := NewPoller(st, &stubSource{status: &feeder.DeviceStatus{DeviceName: "Sala"}}, time.Hour)
	p.SetHomeVisible(true)

	p.refresh(context.Background())

	snap := st.Snapshot()
	if !snap.HasStatus() || snap.Status.DeviceName != "Sala" {
		t.Fatalf("status = %+v, want DeviceName Sala", snap.Status)
	}
}

func TestRefreshStopsAfterFailureUntilManualReload(t *testing.T) {
	st := newState(t, true)
	src := &stubSource{err: errors.New("timeout")}
	p := NewPoller(st, src, time.Hour)
	p.SetHomeVisible(true)
	ctx := context.Background()

	if !p.refresh(ctx) {
		t.Fatalf("first refresh made no request")
	}
	if got := st.Snapshot().ConsecutiveFailures; got != 1 {
		t.Fatalf("ConsecutiveFailures = %d, want 1", got)
	}
	for i := 0; i < 3; i++ {
		if p.refresh(ctx) {
			t.Fatalf("refresh %d retried after a failure", i+2)
		}
	}
	if got := src.Calls(); got != 1 {
		t.Fatalf("Status calls = %d, want 1", got)
	}

	// A user-triggered reload that succeeds resumes polling.
	st.SetDeviceStatus(&feeder.DeviceStatus{})
	src.mu.Lock()
	src.err = nil
	src.status = &feeder.DeviceStatus{DeviceName: "Sala"}
	src.mu.Unlock()
	if !p.refresh(ctx) {
		t.Fatalf("refresh after recovery made no request")
	}
}

func TestStartPollsAtFixedCadenceWithoutRetry(t *testing.T) {
	st := newState(t, true)
	src := &stubSource{err: errors.New("connection refused")}
	p := NewPoller(st, src, 5*time.Millisecond)
	p.SetHomeVisible(true)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)
	deadline := time.Now().Add(2 * time.Second)
	for src.Calls() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("poller never called Status")
		}
		time.Sleep(time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	if got := src.Calls(); got != 1 {
		t.Fatalf("Status calls after a failure = %d, want 1", got)
	}
}
