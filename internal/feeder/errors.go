package feeder

import (
	"errors"
	"fmt"
)

// ErrOperationFailed matches every error returned by Client operations.
var ErrOperationFailed = errors.New("device operation failed")

// Op names a device capability.
type Op string

const (
	OpScanWiFi       Op = "scan-wifi"
	OpConfigureWiFi  Op = "config-wifi"
	OpNetworkInfo    Op = "network-info"
	OpProbe          Op = "probe"
	OpStatus         Op = "status"
	OpFeed           Op = "feed"
	OpUpdateConfig   Op = "update-config"
	OpCreateSchedule Op = "create-schedule"
	OpListSchedules  Op = "list-schedules"
	OpGetSchedule    Op = "get-schedule"
	OpUpdateSchedule Op = "update-schedule"
	OpDeleteSchedule Op = "delete-schedule"
	OpHistory        Op = "history"
	OpStatistics     Op = "statistics"
)

var opMessages = map[Op]string{
	OpScanWiFi:       "Não foi possível escanear as redes WiFi",
	OpConfigureWiFi:  "Não foi possível configurar o WiFi",
	OpNetworkInfo:    "Não foi possível obter informações de rede",
	OpProbe:          "Não foi possível encontrar o alimentador",
	OpStatus:         "Não foi possível obter o status do dispositivo",
	OpFeed:           "Não foi possível alimentar",
	OpUpdateConfig:   "Não foi possível atualizar as configurações",
	OpCreateSchedule: "Não foi possível criar o agendamento",
	OpListSchedules:  "Não foi possível obter os agendamentos",
	OpGetSchedule:    "Não foi possível obter o agendamento",
	OpUpdateSchedule: "Não foi possível atualizar o agendamento",
	OpDeleteSchedule: "Não foi possível remover o agendamento",
	OpHistory:        "Não foi possível obter o histórico",
	OpStatistics:     "Não foi possível obter as estatísticas",
}

// Message returns the localized failure text for op.
func (op Op) Message() string {
	if msg, ok := opMessages[op]; ok {
		return msg
	}
	return "Falha na comunicação com o alimentador"
}

// OpError is the single failure shape of the client. Message is meant for the
// user; Err is the underlying cause and is only useful for logs.
type OpError struct {
	Op      Op
	Message string
	Err     error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrOperationFailed) hold for every OpError.
func (e *OpError) Is(target error) bool {
	return target == ErrOperationFailed
}

// UserMessage extracts the user-facing text from err, falling back to fallback
// when err is not an OpError.
func UserMessage(err error, fallback string) string {
	var opErr *OpError
	if errors.As(err, &opErr) && opErr.Message != "" {
		return opErr.Message
	}
	return fallback
}
