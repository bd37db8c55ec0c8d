package sim

import (
	"context"
	"time"
)

// DefaultTickInterval is how often Run checks for due schedules.
const DefaultTickInterval = 15 * time.Second

// Run fires due schedules until ctx is done.
func (d *Device) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Tick(d.now())
		}
	}
}
