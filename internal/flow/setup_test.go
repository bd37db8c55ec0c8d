package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/five82/koi/internal/catalog"
	"github.com/five82/koi/internal/feeder"
	"github.com/five82/koi/internal/notify"
)

var fastProbe = ProbeConfig{Attempts: 3, PerAttempt: time.Second, Pause: time.Millisecond}

func TestSlotPlan_Adjust(t *testing.T) {
	tests := []struct {
		name   string
		plan   SlotPlan
		adjust func(SlotPlan) SlotPlan
		want   string
	}{
		{name: "hour wraps forward", plan: SlotPlan{Hour: 23}, adjust: func(p SlotPlan) SlotPlan { return p.AdjustHour(1) }, want: "00:00"},
		{name: "hour wraps back", plan: SlotPlan{Hour: 0}, adjust: func(p SlotPlan) SlotPlan { return p.AdjustHour(-1) }, want: "23:00"},
		{name: "minute step", plan: SlotPlan{Hour: 8, Minute: 10}, adjust: func(p SlotPlan) SlotPlan { return p.AdjustMinute(5) }, want: "08:15"},
		{name: "minute carries forward", plan: SlotPlan{Hour: 8, Minute: 55}, adjust: func(p SlotPlan) SlotPlan { return p.AdjustMinute(5) }, want: "09:00"},
		{name: "minute carries back", plan: SlotPlan{Hour: 8, Minute: 0}, adjust: func(p SlotPlan) SlotPlan { return p.AdjustMinute(-5) }, want: "07:55"},
		{name: "midnight carries back", plan: SlotPlan{Hour: 0, Minute: 0}, adjust: func(p SlotPlan) SlotPlan { return p.AdjustMinute(-5) }, want: "23:55"},
		{name: "late night carries forward", plan: SlotPlan{Hour: 23, Minute: 55}, adjust: func(p SlotPlan) SlotPlan { return p.AdjustMinute(5) }, want: "00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.adjust(tt.plan).TimeLabel(); got != tt.want {
				t.Fatalf("TimeLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetup_FullWizard(t *testing.T) {
	dev := newFakeDevice()
	dev.networks = []feeder.WiFiNetwork{
		{SSID: "weak", RSSI: -80},
		{SSID: "strong", RSSI: -40},
		{SSID: "mid", RSSI: -60},
	}
	dev.wifiResult = feeder.WiFiConfigResult{Success: true, IP: "192.168.1.77"}
	st, persisted := newTestState(t)
	notes := notify.NewCenter(time.Minute)
	s := NewSetup(dev, st, notes, fastProbe)
	ctx := context.Background()

	if s.Step() != StepWelcome {
		t.Fatalf("initial step = %v", s.Step())
	}
	s.Begin()

	dev.probeFailures = 2
	if err := s.Probe(ctx); err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if n := dev.count("probe"); n != 3 {
		t.Fatalf("probe attempts = %d, want 3", n)
	}
	if s.Step() != StepSelectNetwork {
		t.Fatalf("step after probe = %v", s.Step())
	}

	if err := s.ScanNetworks(ctx); err != nil {
		t.Fatalf("ScanNetworks: %v", err)
	}
	nets := s.View().Networks
	if nets[0].SSID != "strong" || nets[1].SSID != "mid" || nets[2].SSID != "weak" {
		t.Fatalf("networks not sorted by signal: %+v", nets)
	}

	if err := s.Connect(ctx, "strong", "secret"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if s.Step() != StepChooseFood1 {
		t.Fatalf("step after connect = %v", s.Step())
	}
	if ip := persisted.Load(ctx).DeviceIP; ip != "192.168.1.77" {
		t.Fatalf("persisted ip = %q, want 192.168.1.77", ip)
	}

	if err := s.NextFood(ctx); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("NextFood without selection = %v, want ErrNoSelection", err)
	}
	foods := catalog.All()
	s.SelectFood(foods[0])
	if err := s.NextFood(ctx); err != nil {
		t.Fatalf("NextFood 1: %v", err)
	}
	s.SelectFood(foods[1])
	if err := s.NextFood(ctx); err != nil {
		t.Fatalf("NextFood 2: %v", err)
	}
	if s.Step() != StepSchedule {
		t.Fatalf("step after foods = %v", s.Step())
	}
	cfg := persisted.Load(ctx)
	if cfg.Refill1Food == nil || cfg.Refill1Food.ID != foods[0].ID || cfg.Refill2Food == nil || cfg.Refill2Food.ID != foods[1].ID {
		t.Fatalf("persisted foods = %+v / %+v", cfg.Refill1Food, cfg.Refill2Food)
	}
	if len(dev.configs) != 1 || *dev.configs[0].Refill1Name != foods[0].DisplayName() {
		t.Fatalf("config updates = %+v", dev.configs)
	}

	s.UpdatePlan(Evening, func(p SlotPlan) SlotPlan {
		p.Enabled = false
		return p
	})
	s.UpdatePlan(Morning, func(p SlotPlan) SlotPlan { return p.AdjustMinute(5) })
	if err := s.Finish(ctx); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if len(dev.created) != 1 || dev.created[0].Hour != 8 || dev.created[0].Minute != 5 || !dev.created[0].Active {
		t.Fatalf("created schedules = %+v, want morning 08:05 only", dev.created)
	}
	if s.Step() != StepDone {
		t.Fatalf("step after finish = %v", s.Step())
	}
	if !persisted.Load(ctx).Configured {
		t.Fatalf("setup flag not persisted")
	}
}

func TestSetup_ProbeGivesUp(t *testing.T) {
	dev := newFakeDevice()
	dev.probeFailures = 10
	st, _ := newTestState(t)
	notes := notify.NewCenter(time.Minute)
	s := NewSetup(dev, st, notes, fastProbe)
	s.Begin()

	if err := s.Probe(context.Background()); !errors.Is(err, ErrUnreachable) {
		t.Fatalf("Probe = %v, want ErrUnreachable", err)
	}
	if n := dev.count("probe"); n != 3 {
		t.Fatalf("probe attempts = %d, want 3", n)
	}
	if s.Step() != StepConnectAP {
		t.Fatalf("step = %v, want connect-ap", s.Step())
	}
	if toast := lastToast(t, notes); toast.Level != notify.LevelError {
		t.Fatalf("toast = %+v, want error", toast)
	}
}

func TestSetup_ConnectRejected(t *testing.T) {
	tests := []struct {
		name    string
		result  feeder.WiFiConfigResult
		wantMsg string
	}{
		{name: "device message", result: feeder.WiFiConfigResult{Message: "Senha incorreta"}, wantMsg: "Senha incorreta"},
		{name: "no message", result: feeder.WiFiConfigResult{}, wantMsg: "Falha ao conectar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newFakeDevice()
			dev.wifiResult = tt.result
			st, persisted := newTestState(t)
			notes := notify.NewCenter(time.Minute)
			s := NewSetup(dev, st, notes, fastProbe)

			err := s.Connect(context.Background(), "net", "pw")
			if !errors.Is(err, ErrWiFiRejected) {
				t.Fatalf("Connect = %v, want ErrWiFiRejected", err)
			}
			if toast := lastToast(t, notes); toast.Message != tt.wantMsg {
				t.Fatalf("toast message = %q, want %q", toast.Message, tt.wantMsg)
			}
			if ip := persisted.Load(context.Background()).DeviceIP; ip != "" {
				t.Fatalf("device ip persisted on failure: %q", ip)
			}
		})
	}
}

func TestSetup_FinishToleratesDeviceFailure(t *testing.T) {
	dev := newFakeDevice()
	dev.fail["create"] = errDevice
	st, persisted := newTestState(t)
	s := NewSetup(dev, st, notify.NewCenter(time.Minute), fastProbe)

	if err := s.Finish(context.Background()); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if n := dev.count("create"); n != 1 {
		t.Fatalf("create attempts = %d, want 1", n)
	}
	if !persisted.Load(context.Background()).Configured {
		t.Fatalf("setup not completed")
	}
}

func TestSetup_SkipAndBack(t *testing.T) {
	dev := newFakeDevice()
	st, _ := newTestState(t)
	s := NewSetup(dev, st, notify.NewCenter(time.Minute), fastProbe)

	s.Begin()
	s.Back()
	if s.Step() != StepWelcome {
		t.Fatalf("Back from connect = %v, want welcome", s.Step())
	}
	if err := s.Skip(context.Background()); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if s.Step() != StepDone || !st.Snapshot().Config.Configured {
		t.Fatalf("Skip did not complete setup")
	}
	if calls := dev.Calls(); len(calls) != 0 {
		t.Fatalf("Skip made device calls: %v", calls)
	}
}
