package flow

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/five82/koi/internal/feeder"
)

// HistoryView is a read-only copy of the history screen state.
type HistoryView struct {
	Entries []feeder.HistoryEntry
	Total   int
	Stats   *feeder.Statistics
	Loaded  bool
	Loading bool
}

// History drives the feeding history screen.
type History struct {
	api   HistoryAPI
	notes Notifier

	mu      sync.Mutex
	entries []feeder.HistoryEntry
	total   int
	stats   *feeder.Statistics
	loaded  bool
	loading bool
}

// NewHistory returns an empty history controller.
func NewHistory(api HistoryAPI, notes Notifier) *History {
	return &History{api: api, notes: notes}
}

// View returns a copy of the current state.
func (h *History) View() HistoryView {
	h.mu.Lock()
	defer h.mu.Unlock()
	view := HistoryView{
		Entries: append([]feeder.HistoryEntry(nil), h.entries...),
		Total:   h.total,
		Loaded:  h.loaded,
		Loading: h.loading,
	}
	if h.stats != nil {
		stats := *h.stats
		view.Stats = &stats
	}
	return view
}

// Load fetches the history. Statistics are fetched alongside and only shown
// when available.
func (h *History) Load(ctx context.Context) error {
	h.mu.Lock()
	h.loading = true
	h.mu.Unlock()

	var (
		wg       sync.WaitGroup
		stats    feeder.Statistics
		statsErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		stats, statsErr = h.api.Statistics(ctx)
	}()
	resp, err := h.api.History(ctx)
	wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading = false
	if statsErr != nil {
		log.Printf("flow: load statistics: %v", statsErr)
	} else {
		h.stats = &stats
	}
	if err != nil {
		reportFailure(h.notes, err, "Não foi possível carregar o histórico.")
		return err
	}
	h.entries = resp.Entries
	h.total = resp.Total
	h.loaded = true
	return nil
}

// TodayCount counts entries that happened on now's calendar day, in now's
// location.
func TodayCount(entries []feeder.HistoryEntry, now time.Time) int {
	y, m, d := now.Date()
	count := 0
	for _, e := range entries {
		ey, em, ed := e.Time().In(now.Location()).Date()
		if ey == y && em == m && ed == d {
			count++
		}
	}
	return count
}
