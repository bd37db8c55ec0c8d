package flow

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/five82/koi/internal/feeder"
	"github.com/five82/koi/internal/state"
)

// DefaultFeedInterval is the minimum spacing between manual feedings.
const DefaultFeedInterval = 2 * time.Second

// HomeOptions tunes the home controller. Zero values select the defaults.
type HomeOptions struct {
	FeedInterval time.Duration
	ReloadDelay  time.Duration
}

// Home drives the home screen: device status and manual feeding.
type Home struct {
	api     FeedAPI
	state   *state.Store
	notes   Notifier
	limiter *rate.Limiter
	delay   time.Duration

	mu      sync.Mutex
	feeding feeder.RefillType
	loading bool
	reload  *time.Timer
	closed  bool
}

// NewHome returns a home controller.
func NewHome(api FeedAPI, st *state.Store, notes Notifier, opts HomeOptions) *Home {
	interval := opts.FeedInterval
	if interval <= 0 {
		interval = DefaultFeedInterval
	}
	delay := opts.ReloadDelay
	if delay <= 0 {
		delay = DefaultFeedInterval
	}
	return &Home{
		api:     api,
		state:   st,
		notes:   notes,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		delay:   delay,
	}
}

// Feeding returns the refill currently being fed, or "".
func (h *Home) Feeding() feeder.RefillType {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.feeding
}

// Loading reports whether a status fetch is in flight.
func (h *Home) Loading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loading
}

// Load fetches the device status into the state store.
func (h *Home) Load(ctx context.Context) error {
	h.mu.Lock()
	h.loading = true
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.loading = false
		h.mu.Unlock()
	}()

	status, err := h.api.Status(ctx)
	if err != nil {
		h.state.RecordFailure(err)
		reportFailure(h.notes, err, "Não foi possível obter o status do dispositivo.")
		return err
	}
	h.state.SetDeviceStatus(status)
	return nil
}

// Feed triggers a manual feeding. Taps while a feeding is in flight or
// within the feed interval of the last successful feeding are rejected
// without reaching the device. A failed feeding does not count, so the
// user can retry at once.
func (h *Home) Feed(ctx context.Context, refill feeder.RefillType) error {
	if refill == "" {
		refill = feeder.RefillLeft
	}
	h.mu.Lock()
	if h.feeding != "" {
		h.mu.Unlock()
		h.notes.Warn(titleWarning, "Alimentação em andamento.")
		return ErrBusy
	}
	if h.limiter.Tokens() < 1 {
		h.mu.Unlock()
		h.notes.Warn(titleWarning, "Aguarde um instante antes de alimentar novamente.")
		return ErrThrottled
	}
	h.feeding = refill
	h.mu.Unlock()

	_, err := h.api.Feed(ctx, refill)

	h.mu.Lock()
	h.feeding = ""
	if err == nil {
		h.limiter.Allow()
	}
	h.mu.Unlock()

	if err != nil {
		reportFailure(h.notes, err, "Não foi possível acionar o alimentador. Verifique a conexão.")
		return err
	}
	h.notes.Success(titleSuccess, feedLabel(refill)+" acionado com sucesso!")
	h.scheduleReload()
	return nil
}

// scheduleReload refreshes the status once the device has logged the feeding.
func (h *Home) scheduleReload() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if h.reload != nil {
		h.reload.Stop()
	}
	h.reload = time.AfterFunc(h.delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		reloadStatus(ctx, h.api, h.state)
	})
}

// Close stops a pending reload.
func (h *Home) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	if h.reload != nil {
		h.reload.Stop()
	}
}

func feedLabel(refill feeder.RefillType) string {
	switch refill {
	case feeder.RefillBoth:
		return "Ambos os refis"
	case feeder.RefillRight:
		return "Refil direito"
	default:
		return "Refil esquerdo"
	}
}

// NextSchedule returns the first active schedule in device order.
func NextSchedule(status *feeder.DeviceStatus) (feeder.Schedule, bool) {
	if status == nil {
		return feeder.Schedule{}, false
	}
	active := Active(status.Schedules)
	if len(active) == 0 {
		return feeder.Schedule{}, false
	}
	return active[0], true
}
