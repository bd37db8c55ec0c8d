package app

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/five82/koi/internal/feeder"
	"github.com/five82/koi/internal/state"
)

const defaultPollInterval = 5 * time.Second

// StatusSource fetches the device snapshot. *feeder.Client implements it.
type StatusSource interface {
	Status(ctx context.Context) (*feeder.DeviceStatus, error)
}

// Poller refreshes the device status at a fixed cadence while the home
// screen is on display. It never retries: after a failed fetch it stays
// idle until a successful manual reload clears the failure count.
type Poller struct {
	store    *state.Store
	source   StatusSource
	interval time.Duration
	visible  atomic.Bool
}

// NewPoller returns an idle poller. Interval <= 0 uses the default.
func NewPoller(store *state.Store, source StatusSource, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{store: store, source: source, interval: interval}
}

// SetHomeVisible gates polling on whether the home screen is showing.
func (p *Poller) SetHomeVisible(visible bool) {
	p.visible.Store(visible)
}

// Start runs the poll loop until ctx is cancelled. It returns immediately.
func (p *Poller) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.refresh(ctx)
			}
		}
	}()
}

// refresh polls once and reports whether a request was made. Nothing is
// fetched before setup, off the home screen, or while the last fetch failed.
func (p *Poller) refresh(ctx context.Context) bool {
	if !p.visible.Load() {
		return false
	}
	snap := p.store.Snapshot()
	if snap.Loading || !snap.Config.Configured || snap.ConsecutiveFailures > 0 {
		return false
	}
	status, err := p.source.Status(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.store.RecordFailure(err)
			log.Printf("status poll failed: %v", err)
		}
		return true
	}
	p.store.SetDeviceStatus(status)
	return true
}
