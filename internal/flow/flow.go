package flow

import (
	"context"
	"errors"
	"log"

	"github.com/five82/koi/internal/feeder"
	"github.com/five82/koi/internal/notify"
	"github.com/five82/koi/internal/state"
)

// Validation and guard errors. Device failures are reported as *feeder.OpError.
var (
	ErrInvalidTime     = errors.New("invalid time")
	ErrBusy            = errors.New("operation already in progress")
	ErrThrottled       = errors.New("too many requests")
	ErrNoSelection     = errors.New("no food selected")
	ErrWiFiRejected    = errors.New("wifi configuration rejected")
	ErrEmptyName       = errors.New("device name is empty")
	ErrUnknownSchedule = errors.New("unknown schedule")
	ErrUnreachable     = errors.New("feeder access point not found")
)

// Notification titles.
const (
	titleError   = "Erro"
	titleSuccess = "Sucesso"
	titleWarning = "Atenção"
)

// Notifier surfaces short messages to the user. *notify.Center implements it.
type Notifier interface {
	Success(title, message string) notify.Toast
	Warn(title, message string) notify.Toast
	Error(title, message string) notify.Toast
}

// ScheduleAPI is the part of the device client used by schedule management.
type ScheduleAPI interface {
	Schedules(ctx context.Context) ([]feeder.Schedule, error)
	CreateSchedule(ctx context.Context, input feeder.ScheduleInput) (feeder.CreateResult, error)
	UpdateSchedule(ctx context.Context, id int, patch feeder.SchedulePatch) (feeder.Ack, error)
	DeleteSchedule(ctx context.Context, id int) (feeder.DeleteResult, error)
}

// SetupAPI is the part of the device client used by the first-run wizard.
type SetupAPI interface {
	ProbeAccessPoint(ctx context.Context) error
	ScanWiFi(ctx context.Context) ([]feeder.WiFiNetwork, error)
	ConfigureWiFi(ctx context.Context, ssid, password string) (feeder.WiFiConfigResult, error)
	UpdateConfig(ctx context.Context, update feeder.ConfigUpdate) (feeder.Ack, error)
	CreateSchedule(ctx context.Context, input feeder.ScheduleInput) (feeder.CreateResult, error)
}

// FeedAPI is the part of the device client used by the home screen.
type FeedAPI interface {
	StatusAPI
	Feed(ctx context.Context, refill feeder.RefillType) (feeder.FeedResult, error)
}

// HistoryAPI is the part of the device client used by the history screen.
type HistoryAPI interface {
	History(ctx context.Context) (feeder.HistoryResponse, error)
	Statistics(ctx context.Context) (feeder.Statistics, error)
}

// DeviceAPI is the part of the device client used by device settings and
// refill management.
type DeviceAPI interface {
	NetworkInfo(ctx context.Context, mode feeder.Mode) (feeder.NetworkInfo, error)
	UpdateConfig(ctx context.Context, update feeder.ConfigUpdate) (feeder.Ack, error)
	StatusAPI
}

// StatusAPI fetches the device status.
type StatusAPI interface {
	Status(ctx context.Context) (*feeder.DeviceStatus, error)
}

// reloadStatus re-fetches the device status after a mutation. The mutation
// already succeeded, so a failed fetch is only recorded.
func reloadStatus(ctx context.Context, api StatusAPI, st *state.Store) {
	status, err := api.Status(ctx)
	if err != nil {
		log.Printf("flow: reload status: %v", err)
		st.RecordFailure(err)
		return
	}
	st.SetDeviceStatus(status)
}

// reportFailure logs err and shows its user message.
func reportFailure(notes Notifier, err error, fallback string) {
	log.Printf("flow: %v", err)
	notes.Error(titleError, feeder.UserMessage(err, fallback))
}
