package sim

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/koi/internal/feeder"
)

const (
	DefaultName         = "Alimentador"
	DefaultMaxSchedules = 10
	DefaultHistoryLimit = 50
	defaultQuantity     = 5
	defaultIP           = "192.168.1.50"
	apIP                = "192.168.4.1"
	defaultHostname     = "alimentador"
)

var (
	ErrInvalidRefill   = errors.New("refill inválido")
	ErrInvalidTime     = errors.New("horário inválido")
	ErrInvalidInterval = errors.New("intervalo inválido")
	ErrScheduleLimit   = errors.New("limite de agendamentos atingido")
	ErrScheduleMissing = errors.New("agendamento não encontrado")
	ErrEmptySSID       = errors.New("ssid vazio")
)

// AckShape picks which of the firmware reply shapes /config-wifi answers with.
type AckShape string

const (
	AckSuccess AckShape = "success"
	AckStatus  AckShape = "status"
	AckMessage AckShape = "message"
	AckError   AckShape = "error"
)

// ParseAckShape maps a name to an AckShape, defaulting to AckStatus.
func ParseAckShape(raw string) (AckShape, error) {
	switch shape := AckShape(strings.ToLower(strings.TrimSpace(raw))); shape {
	case "":
		return AckStatus, nil
	case AckSuccess, AckStatus, AckMessage, AckError:
		return shape, nil
	default:
		return "", fmt.Errorf("unknown wifi ack shape %q", raw)
	}
}

// Options configure a Device. Zero values fall back to defaults.
type Options struct {
	Name         string
	WiFiAck      AckShape
	MaxSchedules int
	HistoryLimit int
	Networks     []feeder.WiFiNetwork
	Now          func() time.Time
}

// DefaultNetworks is what an unconfigured simulator reports from a scan.
var DefaultNetworks = []feeder.WiFiNetwork{
	{SSID: "CasaAquario", RSSI: -48, Auth: "secure"},
	{SSID: "Vizinho_5G", RSSI: -77, Auth: "secure"},
	{SSID: "CafeAberto", RSSI: -66, Auth: "open"},
	{SSID: "Escritorio", RSSI: -59, Auth: "secure"},
}

// Device is an in-memory feeder. It is safe for concurrent use.
type Device struct {
	mu sync.Mutex

	id           string
	name         string
	ip           string
	hostname     string
	ssid         string
	rssi         int
	apMode       bool
	refills      feeder.Refills
	schedules    []feeder.Schedule
	nextID       int
	history      []feeder.HistoryEntry
	lastFired    map[int]string
	ack          AckShape
	maxSchedules int
	historyLimit int
	networks     []feeder.WiFiNetwork
	now          func() time.Time
}

// NewDevice returns a feeder in AP mode with no schedules.
func NewDevice(opts Options) *Device {
	d := &Device{
		id:           uuid.NewString(),
		name:         strings.TrimSpace(opts.Name),
		ip:           apIP,
		hostname:     defaultHostname,
		apMode:       true,
		nextID:       1,
		lastFired:    make(map[int]string),
		ack:          opts.WiFiAck,
		maxSchedules: opts.MaxSchedules,
		historyLimit: opts.HistoryLimit,
		networks:     opts.Networks,
		now:          opts.Now,
		refills: feeder.Refills{
			Refill1: feeder.Refill{Quantity: defaultQuantity},
			Refill2: feeder.Refill{Quantity: defaultQuantity},
		},
	}
	if d.name == "" {
		d.name = DefaultName
	}
	if d.ack == "" {
		d.ack = AckStatus
	}
	if d.maxSchedules <= 0 {
		d.maxSchedules = DefaultMaxSchedules
	}
	if d.historyLimit <= 0 {
		d.historyLimit = DefaultHistoryLimit
	}
	if d.networks == nil {
		d.networks = DefaultNetworks
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

// ID returns the generated device id.
func (d *Device) ID() string { return d.id }

// Status returns the /status snapshot.
func (d *Device) Status() feeder.DeviceStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	stats := d.statsLocked(now)
	schedules := make([]feeder.Schedule, len(d.schedules))
	copy(schedules, d.schedules)
	return feeder.DeviceStatus{
		DeviceID:       d.id,
		DeviceName:     d.name,
		IP:             d.ip,
		CurrentTime:    now.Format("15:04:05"),
		Refills:        d.refills,
		Stats:          feeder.FeedingStats{Today: stats.Today, Week: stats.Week, Total: stats.Total},
		TotalSchedules: len(d.schedules),
		MaxSchedules:   d.maxSchedules,
		Schedules:      schedules,
	}
}

// Network returns the /ip reply.
func (d *Device) Network() feeder.NetworkInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return feeder.NetworkInfo{
		IP:        d.ip,
		Hostname:  d.hostname,
		Connected: !d.apMode,
		APMode:    d.apMode,
		SSID:      d.ssid,
		RSSI:      d.rssi,
	}
}

// Scan lists visible networks.
func (d *Device) Scan() []feeder.WiFiNetwork {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]feeder.WiFiNetwork, len(d.networks))
	copy(out, d.networks)
	return out
}

// ConfigureWiFi joins ssid and returns the reply body in the configured shape.
// The error shape never joins.
func (d *Device) ConfigureWiFi(ssid, password string) (map[string]any, error) {
	ssid = strings.TrimSpace(ssid)
	if ssid == "" {
		return nil, ErrEmptySSID
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ack == AckError {
		log.Printf("sim: rejecting wifi %q", ssid)
		return map[string]any{"status": "error", "message": "Falha ao conectar na rede " + ssid}, nil
	}

	d.apMode = false
	d.ssid = ssid
	d.ip = defaultIP
	d.rssi = -60
	for _, n := range d.networks {
		if n.SSID == ssid {
			d.rssi = n.RSSI
		}
	}
	log.Printf("sim: joined wifi %q as %s", ssid, d.ip)

	switch d.ack {
	case AckSuccess:
		return map[string]any{"success": true, "ip": d.ip}, nil
	case AckMessage:
		return map[string]any{"message": "Conectado com sucesso", "ip": d.ip}, nil
	default:
		return map[string]any{"status": "ok", "ip": d.ip}, nil
	}
}

// Feed dispenses from refill and records a manual history entry.
func (d *Device) Feed(refill feeder.RefillType) (feeder.FeedResult, error) {
	if !refill.Valid() {
		return feeder.FeedResult{}, ErrInvalidRefill
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recordLocked(refill, true, d.now())
	return feeder.FeedResult{Status: "ok", Refill: refill}, nil
}

// UpdateConfig applies the non-nil fields of update.
func (d *Device) UpdateConfig(update feeder.ConfigUpdate) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if update.DeviceName != nil {
		d.name = strings.TrimSpace(*update.DeviceName)
	}
	if update.Refill1Name != nil {
		d.refills.Refill1.Name = *update.Refill1Name
	}
	if update.Refill1Quantity != nil {
		d.refills.Refill1.Quantity = *update.Refill1Quantity
	}
	if update.Refill2Name != nil {
		d.refills.Refill2.Name = *update.Refill2Name
	}
	if update.Refill2Quantity != nil {
		d.refills.Refill2.Quantity = *update.Refill2Quantity
	}
}

// CreateSchedule validates input and stores it under a new id.
func (d *Device) CreateSchedule(input feeder.ScheduleInput) (int, error) {
	s := feeder.Schedule{
		Hour:   input.Hour,
		Minute: input.Minute,
		Refill: input.Refill,
		Active: input.Active,
	}
	if input.UseInterval != nil {
		s.UseInterval = *input.UseInterval
	}
	if input.IntervalHours != nil {
		s.IntervalHours = *input.IntervalHours
	}
	if err := validateSchedule(s); err != nil {
		return 0, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.schedules) >= d.maxSchedules {
		return 0, ErrScheduleLimit
	}
	s.ID = d.nextID
	d.nextID++
	d.schedules = append(d.schedules, s)
	sortSchedules(d.schedules)
	return s.ID, nil
}

// Schedule returns a single schedule.
func (d *Device) Schedule(id int) (feeder.Schedule, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.indexLocked(id)
	if i < 0 {
		return feeder.Schedule{}, ErrScheduleMissing
	}
	return d.schedules[i], nil
}

// UpdateSchedule applies patch to schedule id. Nothing changes when the result is invalid.
func (d *Device) UpdateSchedule(id int, patch feeder.SchedulePatch) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.indexLocked(id)
	if i < 0 {
		return ErrScheduleMissing
	}
	s := d.schedules[i]
	if patch.Hour != nil {
		s.Hour = *patch.Hour
	}
	if patch.Minute != nil {
		s.Minute = *patch.Minute
	}
	if patch.Refill != nil {
		s.Refill = *patch.Refill
	}
	if patch.Active != nil {
		s.Active = *patch.Active
	}
	if patch.UseInterval != nil {
		s.UseInterval = *patch.UseInterval
	}
	if patch.IntervalHours != nil {
		s.IntervalHours = *patch.IntervalHours
	}
	if err := validateSchedule(s); err != nil {
		return err
	}
	d.schedules[i] = s
	sortSchedules(d.schedules)
	return nil
}

// DeleteSchedule removes schedule id and returns how many remain.
func (d *Device) DeleteSchedule(id int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.indexLocked(id)
	if i < 0 {
		return len(d.schedules), ErrScheduleMissing
	}
	d.schedules = append(d.schedules[:i], d.schedules[i+1:]...)
	delete(d.lastFired, id)
	return len(d.schedules), nil
}

// History returns the feeding log, newest first.
func (d *Device) History() feeder.HistoryResponse {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]feeder.HistoryEntry, len(d.history))
	for i, entry := range d.history {
		out[len(d.history)-1-i] = entry
	}
	return feeder.HistoryResponse{Total: len(out), Entries: out}
}

// Statistics returns aggregate counters.
func (d *Device) Statistics() feeder.Statistics {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.statsLocked(d.now())
}

// Tick fires every active schedule due at now. Each schedule fires at most
// once per minute no matter how often Tick runs.
func (d *Device) Tick(now time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	minuteKey := now.Format("2006-01-02 15:04")
	fired := 0
	for _, s := range d.schedules {
		if !s.Active || !due(s, now) || d.lastFired[s.ID] == minuteKey {
			continue
		}
		d.lastFired[s.ID] = minuteKey
		d.recordLocked(s.Refill, false, now)
		fired++
		log.Printf("sim: schedule %d fired (%s, %s)", s.ID, s.TimeLabel(), s.Refill)
	}
	return fired
}

func due(s feeder.Schedule, now time.Time) bool {
	if now.Minute() != s.Minute {
		return false
	}
	if s.UseInterval && s.IntervalHours > 0 {
		diff := now.Hour() - s.Hour
		if diff < 0 {
			diff += 24
		}
		return diff%s.IntervalHours == 0
	}
	return now.Hour() == s.Hour
}

func (d *Device) recordLocked(refill feeder.RefillType, manual bool, at time.Time) {
	d.history = append(d.history, feeder.HistoryEntry{
		Timestamp: at.Unix(),
		Refill:    refill,
		Manual:    manual,
		Quantity:  d.quantityLocked(refill),
	})
	if over := len(d.history) - d.historyLimit; over > 0 {
		d.history = append([]feeder.HistoryEntry(nil), d.history[over:]...)
	}
}

func (d *Device) quantityLocked(refill feeder.RefillType) int {
	switch refill {
	case feeder.RefillLeft:
		return d.refills.Refill1.Quantity
	case feeder.RefillRight:
		return d.refills.Refill2.Quantity
	default:
		return d.refills.Refill1.Quantity + d.refills.Refill2.Quantity
	}
}

func (d *Device) statsLocked(now time.Time) feeder.Statistics {
	y, m, day := now.Date()
	startOfDay := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	weekAgo := now.Add(-7 * 24 * time.Hour)

	var stats feeder.Statistics
	stats.Total = len(d.history)
	for _, entry := range d.history {
		at := time.Unix(entry.Timestamp, 0)
		if !at.Before(startOfDay) {
			stats.Today++
		}
		if !at.Before(weekAgo) {
			stats.Week++
		}
		switch entry.Refill {
		case feeder.RefillLeft:
			stats.ByRefill.Refill1++
		case feeder.RefillRight:
			stats.ByRefill.Refill2++
		case feeder.RefillBoth:
			stats.ByRefill.Both++
		}
		if entry.Manual {
			stats.ByKind.Manual++
		} else {
			stats.ByKind.Scheduled++
		}
	}
	return stats
}

func (d *Device) indexLocked(id int) int {
	for i, s := range d.schedules {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func validateSchedule(s feeder.Schedule) error {
	if s.Hour < 0 || s.Hour > 23 || s.Minute < 0 || s.Minute > 59 {
		return ErrInvalidTime
	}
	if !s.Refill.Valid() {
		return ErrInvalidRefill
	}
	if s.UseInterval && (s.IntervalHours < 1 || s.IntervalHours > 24) {
		return ErrInvalidInterval
	}
	return nil
}

func sortSchedules(list []feeder.Schedule) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Hour != list[j].Hour {
			return list[i].Hour < list[j].Hour
		}
		return list[i].Minute < list[j].Minute
	})
}
