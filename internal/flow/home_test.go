package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/five82/koi/internal/feeder"
	"github.com/five82/koi/internal/notify"
)

func TestHome_LoadStoresStatus(t *testing.T) {
	dev := newFakeDevice()
	dev.status = &feeder.DeviceStatus{DeviceName: "Aquario", Schedules: []feeder.Schedule{
		{ID: 1, Hour: 7, Active: false},
		{ID: 2, Hour: 9, Active: true},
	}}
	st, _ := newTestState(t)
	h := NewHome(dev, st, notify.NewCenter(time.Minute), HomeOptions{})
	defer h.Close()

	if err := h.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap := st.Snapshot()
	if snap.Status == nil || snap.Status.DeviceName != "Aquario" {
		t.Fatalf("status = %+v", snap.Status)
	}
	next, ok := NextSchedule(snap.Status)
	if !ok || next.ID != 2 {
		t.Fatalf("NextSchedule = %+v, %v, want id 2", next, ok)
	}
}

func TestHome_LoadFailureRecorded(t *testing.T) {
	dev := newFakeDevice()
	dev.fail["status"] = errDevice
	st, _ := newTestState(t)
	notes := notify.NewCenter(time.Minute)
	h := NewHome(dev, st, notes, HomeOptions{})
	defer h.Close()

	if err := h.Load(context.Background()); !errors.Is(err, feeder.ErrOperationFailed) {
		t.Fatalf("Load = %v, want ErrOperationFailed", err)
	}
	if st.Snapshot().ConsecutiveFailures != 1 {
		t.Fatalf("failure not recorded")
	}
	if toast := lastToast(t, notes); toast.Level != notify.LevelError {
		t.Fatalf("toast = %+v", toast)
	}
}

func TestHome_FeedThrottled(t *testing.T) {
	dev := newFakeDevice()
	st, _ := newTestState(t)
	notes := notify.NewCenter(time.Minute)
	h := NewHome(dev, st, notes, HomeOptions{FeedInterval: time.Hour, ReloadDelay: time.Hour})
	defer h.Close()
	ctx := context.Background()

	if err := h.Feed(ctx, feeder.RefillLeft); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if toast := lastToast(t, notes); toast.Message != "Refil esquerdo acionado com sucesso!" {
		t.Fatalf("toast = %q", toast.Message)
	}
	if err := h.Feed(ctx, feeder.RefillLeft); !errors.Is(err, ErrThrottled) {
		t.Fatalf("second Feed = %v, want ErrThrottled", err)
	}
	if n := dev.count("feed"); n != 1 {
		t.Fatalf("feed calls = %d, want 1", n)
	}
}

func TestHome_FailedFeedDoesNotThrottleRetry(t *testing.T) {
	dev := newFakeDevice()
	dev.fail["feed"] = errDevice
	st, _ := newTestState(t)
	notes := notify.NewCenter(time.Minute)
	h := NewHome(dev, st, notes, HomeOptions{FeedInterval: time.Hour, ReloadDelay: time.Hour})
	defer h.Close()
	ctx := context.Background()

	if err := h.Feed(ctx, feeder.RefillRight); !errors.Is(err, feeder.ErrOperationFailed) {
		t.Fatalf("first Feed = %v, want ErrOperationFailed", err)
	}

	dev.mu.Lock()
	delete(dev.fail, "feed")
	dev.mu.Unlock()

	if err := h.Feed(ctx, feeder.RefillRight); err != nil {
		t.Fatalf("retry Feed = %v, want nil", err)
	}
	if n := dev.count("feed"); n != 2 {
		t.Fatalf("feed calls = %d, want 2", n)
	}
	if err := h.Feed(ctx, feeder.RefillRight); !errors.Is(err, ErrThrottled) {
		t.Fatalf("Feed after success = %v, want ErrThrottled", err)
	}
}

func TestHome_FeedDefaultsToLeftRefill(t *testing.T) {
	dev := newFakeDevice()
	st, _ := newTestState(t)
	notes := notify.NewCenter(time.Minute)
	h := NewHome(dev, st, notes, HomeOptions{ReloadDelay: time.Hour})
	defer h.Close()

	if err := h.Feed(context.Background(), ""); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	dev.mu.Lock()
	fed := append([]feeder.RefillType(nil), dev.fed...)
	dev.mu.Unlock()
	if len(fed) != 1 || fed[0] != feeder.RefillLeft {
		t.Fatalf("fed = %v, want [%s]", fed, feeder.RefillLeft)
	}
	if toast := lastToast(t, notes); toast.Message != "Refil esquerdo acionado com sucesso!" {
		t.Fatalf("toast = %q", toast.Message)
	}
}

func TestFeedLabel(t *testing.T) {
	tests := []struct {
		refill feeder.RefillType
		want   string
	}{
		{feeder.RefillLeft, "Refil esquerdo"},
		{feeder.RefillRight, "Refil direito"},
		{feeder.RefillBoth, "Ambos os refis"},
	}
	for _, tt := range tests {
		if got := feedLabel(tt.refill); got != tt.want {
			t.Fatalf("feedLabel(%q) = %q, want %q", tt.refill, got, tt.want)
		}
	}
}

func TestHome_FeedInFlight(t *testing.T) {
	dev := newFakeDevice()
	dev.feedBlock = make(chan struct{})
	st, _ := newTestState(t)
	h := NewHome(dev, st, notify.NewCenter(time.Minute), HomeOptions{FeedInterval: time.Millisecond, ReloadDelay: time.Hour})
	defer h.Close()
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- h.Feed(ctx, feeder.RefillBoth) }()

	deadline := time.Now().Add(2 * time.Second)
	for h.Feeding() == "" {
		if time.Now().After(deadline) {
			t.Fatal("feed never started")
		}
		time.Sleep(time.Millisecond)
	}
	time.Sleep(5 * time.Millisecond)
	if err := h.Feed(ctx, feeder.RefillBoth); !errors.Is(err, ErrBusy) {
		t.Fatalf("concurrent Feed = %v, want ErrBusy", err)
	}

	close(dev.feedBlock)
	if err := <-done; err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if h.Feeding() != "" {
		t.Fatalf("Feeding = %q after completion", h.Feeding())
	}
}

func TestHome_FeedReloadsStatus(t *testing.T) {
	dev := newFakeDevice()
	dev.status = &feeder.DeviceStatus{Stats: feeder.FeedingStats{Today: 3}}
	st, _ := newTestState(t)
	h := NewHome(dev, st, notify.NewCenter(time.Minute), HomeOptions{ReloadDelay: 10 * time.Millisecond})
	defer h.Close()

	if err := h.Feed(context.Background(), feeder.RefillBoth); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		if snap := st.Snapshot(); snap.Status != nil && snap.Status.Stats.Today == 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("status not reloaded after feed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNextSchedule_None(t *testing.T) {
	if _, ok := NextSchedule(nil); ok {
		t.Fatalf("NextSchedule(nil) ok = true")
	}
	status := &feeder.DeviceStatus{Schedules: []feeder.Schedule{{ID: 1}}}
	if _, ok := NextSchedule(status); ok {
		t.Fatalf("NextSchedule with only inactive schedules ok = true")
	}
}
