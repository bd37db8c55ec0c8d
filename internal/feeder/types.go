package feeder

import (
	"fmt"
	"time"
)

// RefillType selects which physical dispenser a feeding targets.
type RefillType string

const (
	RefillLeft  RefillType = "refill1"
	RefillRight RefillType = "refill2"
	RefillBoth  RefillType = "ambos"
)

// RefillTypes lists the selectors in display order.
var RefillTypes = []RefillType{RefillBoth, RefillLeft, RefillRight}

// Valid reports whether r is one of the selectors the device understands.
func (r RefillType) Valid() bool {
	switch r {
	case RefillLeft, RefillRight, RefillBoth:
		return true
	}
	return false
}

// Label returns the user-facing name of the refill selector.
func (r RefillType) Label() string {
	switch r {
	case RefillLeft:
		return "Esquerdo"
	case RefillRight:
		return "Direito"
	case RefillBoth:
		return "Ambos"
	default:
		return string(r)
	}
}

// Next cycles through RefillTypes.
func (r RefillType) Next() RefillType {
	for i, candidate := range RefillTypes {
		if candidate == r {
			return RefillTypes[(i+1)%len(RefillTypes)]
		}
	}
	return RefillTypes[0]
}

// WiFiNetwork is a single scan result reported in AP mode.
type WiFiNetwork struct {
	SSID   string `json:"ssid"`
	RSSI   int    `json:"rssi"`
	Auth   string `json:"auth"`
	Secure bool   `json:"-"`
}

type scanResponse struct {
	Networks []WiFiNetwork `json:"redes"`
}

// NetworkInfo mirrors /ip.
type NetworkInfo struct {
	IP        string `json:"ip"`
	Hostname  string `json:"hostname"`
	Connected bool   `json:"connected"`
	APMode    bool   `json:"apMode"`
	SSID      string `json:"ssid"`
	RSSI      int    `json:"rssi"`
}

// Refill describes what the device believes is loaded in a dispenser.
type Refill struct {
	Name     string `json:"nome"`
	Quantity int    `json:"quantidade"`
}

// Refills groups both dispensers.
type Refills struct {
	Refill1 Refill `json:"refill1"`
	Refill2 Refill `json:"refill2"`
}

// FeedingStats is the aggregate block embedded in /status.
type FeedingStats struct {
	Today int `json:"alimentacoesHoje"`
	Week  int `json:"alimentacoesSemana"`
	Total int `json:"totalHistorico"`
}

// DeviceStatus mirrors /status. It is a point-in-time snapshot.
type DeviceStatus struct {
	DeviceID       string       `json:"deviceId"`
	DeviceName     string       `json:"deviceName"`
	IP             string       `json:"ip"`
	CurrentTime    string       `json:"horaAtual"`
	Refills        Refills      `json:"refills"`
	Stats          FeedingStats `json:"estatisticas"`
	TotalSchedules int          `json:"totalAgendamentos"`
	MaxSchedules   int          `json:"maxAgendamentos"`
	Schedules      []Schedule   `json:"agendamentos"`
}

// Clone returns a copy that shares no slices with s.
func (s *DeviceStatus) Clone() *DeviceStatus {
	if s == nil {
		return nil
	}
	dup := *s
	if s.Schedules != nil {
		dup.Schedules = make([]Schedule, len(s.Schedules))
		copy(dup.Schedules, s.Schedules)
	}
	return &dup
}

// Schedule is a device-owned feeding rule.
type Schedule struct {
	ID            int        `json:"id"`
	Hour          int        `json:"hora"`
	Minute        int        `json:"minuto"`
	Refill        RefillType `json:"refill"`
	Active        bool       `json:"ativo"`
	UseInterval   bool       `json:"usarIntervalo"`
	IntervalHours int        `json:"intervaloHoras"`
}

// TimeLabel formats the trigger time as HH:MM.
func (s Schedule) TimeLabel() string {
	return FormatTime(s.Hour, s.Minute)
}

// ScheduleInput is the body of POST /agendamento.
type ScheduleInput struct {
	Hour          int        `json:"hora"`
	Minute        int        `json:"minuto"`
	Refill        RefillType `json:"refill"`
	Active        bool       `json:"ativo"`
	UseInterval   *bool      `json:"usarIntervalo,omitempty"`
	IntervalHours *int       `json:"intervaloHoras,omitempty"`
}

// SchedulePatch is the partial body of PUT /agendamento. Nil fields are not sent.
type SchedulePatch struct {
	Hour          *int        `json:"hora,omitempty"`
	Minute        *int        `json:"minuto,omitempty"`
	Refill        *RefillType `json:"refill,omitempty"`
	Active        *bool       `json:"ativo,omitempty"`
	UseInterval   *bool       `json:"usarIntervalo,omitempty"`
	IntervalHours *int        `json:"intervaloHoras,omitempty"`
}

// PatchFrom builds a patch carrying every field of s except its id.
func PatchFrom(s Schedule) SchedulePatch {
	return SchedulePatch{
		Hour:          &s.Hour,
		Minute:        &s.Minute,
		Refill:        &s.Refill,
		Active:        &s.Active,
		UseInterval:   &s.UseInterval,
		IntervalHours: &s.IntervalHours,
	}
}

// ConfigUpdate is the partial body of PUT /configuracoes.
type ConfigUpdate struct {
	DeviceName      *string `json:"deviceName,omitempty"`
	Refill1Name     *string `json:"refill1Nome,omitempty"`
	Refill1Quantity *int    `json:"refill1Quantidade,omitempty"`
	Refill2Name     *string `json:"refill2Nome,omitempty"`
	Refill2Quantity *int    `json:"refill2Quantidade,omitempty"`
}

// Empty reports whether the update carries no fields.
func (u ConfigUpdate) Empty() bool {
	return u.DeviceName == nil && u.Refill1Name == nil && u.Refill1Quantity == nil &&
		u.Refill2Name == nil && u.Refill2Quantity == nil
}

// Ack is the minimal {status} reply.
type Ack struct {
	Status string `json:"status"`
}

// FeedResult mirrors the /alimentar reply.
type FeedResult struct {
	Status string     `json:"status"`
	Refill RefillType `json:"refill"`
}

// CreateResult mirrors the POST /agendamento reply.
type CreateResult struct {
	Status string `json:"status"`
	ID     int    `json:"id"`
}

// DeleteResult mirrors the DELETE /agendamento reply.
type DeleteResult struct {
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// HistoryEntry is an immutable past feeding event.
type HistoryEntry struct {
	Timestamp int64      `json:"timestamp"`
	Refill    RefillType `json:"refill"`
	Manual    bool       `json:"manual"`
	Quantity  int        `json:"quantidade"`
}

// Time converts the unix timestamp to local time.
func (h HistoryEntry) Time() time.Time {
	return time.Unix(h.Timestamp, 0)
}

// KindLabel returns "Manual" or "Agendado".
func (h HistoryEntry) KindLabel() string {
	if h.Manual {
		return "Manual"
	}
	return "Agendado"
}

// HistoryResponse mirrors /historico.
type HistoryResponse struct {
	Total   int            `json:"total"`
	Entries []HistoryEntry `json:"historico"`
}

// RefillCounts breaks feedings down per selector.
type RefillCounts struct {
	Refill1 int `json:"refill1"`
	Refill2 int `json:"refill2"`
	Both    int `json:"ambos"`
}

// KindCounts breaks feedings down by trigger.
type KindCounts struct {
	Manual    int `json:"manual"`
	Scheduled int `json:"agendado"`
}

// Statistics mirrors /estatisticas.
type Statistics struct {
	Today    int          `json:"alimentacoesHoje"`
	Week     int          `json:"alimentacoesSemana"`
	Total    int          `json:"totalHistorico"`
	ByRefill RefillCounts `json:"porRefill"`
	ByKind   KindCounts   `json:"porTipo"`
}

// Signal describes a WiFi signal in human terms.
type Signal struct {
	Label string
	Bars  int
}

// SignalStrength buckets an RSSI value.
func SignalStrength(rssi int) Signal {
	switch {
	case rssi >= -50:
		return Signal{Label: "Excelente", Bars: 4}
	case rssi >= -60:
		return Signal{Label: "Bom", Bars: 3}
	case rssi >= -70:
		return Signal{Label: "Regular", Bars: 2}
	default:
		return Signal{Label: "Fraco", Bars: 1}
	}
}

// FormatTime renders hour and minute as HH:MM.
func FormatTime(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

const timestampLayout = "02/01 15:04"

// FormatTimestamp renders a unix timestamp as dd/mm HH:MM in loc.
func FormatTimestamp(unix int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(unix, 0).In(loc).Format(timestampLayout)
}
