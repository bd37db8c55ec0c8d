package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/five82/koi/internal/catalog"
	"github.com/five82/koi/internal/feeder"
	"github.com/five82/koi/internal/notify"
	"github.com/five82/koi/internal/storage"
)

func TestDevice_Rename(t *testing.T) {
	dev := newFakeDevice()
	st, _ := newTestState(t)
	notes := notify.NewCenter(time.Minute)
	d := NewDevice(dev, st, notes)
	ctx := context.Background()

	if err := d.Rename(ctx, "   "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("Rename(blank) = %v, want ErrEmptyName", err)
	}
	if err := d.Rename(ctx, " Aquario Sala "); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if len(dev.configs) != 1 || dev.configs[0].DeviceName == nil || *dev.configs[0].DeviceName != "Aquario Sala" {
		t.Fatalf("config updates = %+v", dev.configs)
	}
	if dev.configs[0].Refill1Name != nil {
		t.Fatalf("rename sent refill fields")
	}
	if toast := lastToast(t, notes); toast.Level != notify.LevelSuccess {
		t.Fatalf("toast = %+v", toast)
	}
}

func TestDevice_RenameReloadsStatus(t *testing.T) {
	dev := newFakeDevice()
	dev.status = &feeder.DeviceStatus{DeviceName: "Aquario Sala"}
	st, _ := newTestState(t)
	d := NewDevice(dev, st, notify.NewCenter(time.Minute))

	if err := d.Rename(context.Background(), "Aquario Sala"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	calls := dev.Calls()
	if len(calls) != 2 || calls[0] != "config" || calls[1] != "status" {
		t.Fatalf("calls = %v, want [config status]", calls)
	}
	if snap := st.Snapshot(); snap.Status == nil || snap.Status.DeviceName != "Aquario Sala" {
		t.Fatalf("status = %+v, want the renamed device", snap.Status)
	}
}

func TestDevice_RenameSucceedsWhenReloadFails(t *testing.T) {
	dev := newFakeDevice()
	dev.fail["status"] = errDevice
	st, _ := newTestState(t)
	notes := notify.NewCenter(time.Minute)
	d := NewDevice(dev, st, notes)

	if err := d.Rename(context.Background(), "Sala"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if got := st.Snapshot().ConsecutiveFailures; got != 1 {
		t.Fatalf("ConsecutiveFailures = %d, want 1", got)
	}
	if toast := lastToast(t, notes); toast.Level != notify.LevelSuccess {
		t.Fatalf("toast = %+v, want the rename success", toast)
	}
}

func TestDevice_LoadNetworkUsesStationAddress(t *testing.T) {
	dev := newFakeDevice()
	dev.network = feeder.NetworkInfo{IP: "192.168.1.9", SSID: "casa", RSSI: -55}
	st, _ := newTestState(t)
	notes := notify.NewCenter(time.Minute)
	d := NewDevice(dev, st, notes)

	if _, ok := d.Network(); ok {
		t.Fatalf("Network reported before load")
	}
	if err := d.LoadNetwork(context.Background()); err != nil {
		t.Fatalf("LoadNetwork: %v", err)
	}
	info, ok := d.Network()
	if !ok || info.SSID != "casa" {
		t.Fatalf("Network = %+v, %v", info, ok)
	}
	if calls := dev.Calls(); len(calls) != 1 || calls[0] != "ip:0" {
		t.Fatalf("calls = %v, want device-mode ip lookup", calls)
	}

	dev.fail["ip:0"] = errDevice
	if err := d.LoadNetwork(context.Background()); err == nil {
		t.Fatalf("LoadNetwork returned nil error")
	}
	if _, ok := notes.Latest(); ok {
		t.Fatalf("network failure produced a notification")
	}
}

func TestDevice_ResetApp(t *testing.T) {
	dev := newFakeDevice()
	st, persisted := newTestState(t)
	ctx := context.Background()
	_ = st.SetDeviceIP("10.0.0.2").Wait(ctx)
	_ = st.CompleteSetup().Wait(ctx)

	d := NewDevice(dev, st, notify.NewCenter(time.Minute))
	if err := d.ReconfigureWiFi(ctx); err != nil {
		t.Fatalf("ReconfigureWiFi: %v", err)
	}
	if cfg := persisted.Load(ctx); cfg != (storage.AppConfig{}) {
		t.Fatalf("persisted config after reset = %+v", cfg)
	}
	if st.Snapshot().Config.Configured {
		t.Fatalf("memory still configured after reset")
	}
}

func TestRefills_ChangeFood(t *testing.T) {
	dev := newFakeDevice()
	st, persisted := newTestState(t)
	notes := notify.NewCenter(time.Minute)
	r := NewRefills(dev, st, notes)
	ctx := context.Background()
	food := catalog.All()[2]

	r.Edit(storage.Slot2)
	if r.Editing() != storage.Slot2 {
		t.Fatalf("Editing = %d, want 2", r.Editing())
	}
	if err := r.ChangeFood(ctx, storage.Slot2, food); err != nil {
		t.Fatalf("ChangeFood: %v", err)
	}
	if r.Editing() != 0 {
		t.Fatalf("picker still open after change")
	}
	if got := persisted.Load(ctx).Refill2Food; got == nil || got.ID != food.ID {
		t.Fatalf("persisted food = %+v", got)
	}
	if len(dev.configs) != 1 || dev.configs[0].Refill2Name == nil || *dev.configs[0].Refill2Name != food.DisplayName() || dev.configs[0].Refill1Name != nil {
		t.Fatalf("config updates = %+v", dev.configs)
	}
	if n := dev.count("status"); n != 1 {
		t.Fatalf("status reloads = %d, want 1", n)
	}
}

func TestRefills_ChangeFoodDeviceFailure(t *testing.T) {
	dev := newFakeDevice()
	dev.fail["config"] = errDevice
	st, _ := newTestState(t)
	notes := notify.NewCenter(time.Minute)
	r := NewRefills(dev, st, notes)

	r.Edit(storage.Slot1)
	err := r.ChangeFood(context.Background(), storage.Slot1, catalog.All()[0])
	if !errors.Is(err, feeder.ErrOperationFailed) {
		t.Fatalf("ChangeFood = %v, want ErrOperationFailed", err)
	}
	if r.Editing() != storage.Slot1 {
		t.Fatalf("picker closed after failure")
	}
	if toast := lastToast(t, notes); toast.Level != notify.LevelError {
		t.Fatalf("toast = %+v", toast)
	}
	if err := r.ChangeFood(context.Background(), storage.Slot(7), catalog.All()[0]); err == nil {
		t.Fatalf("ChangeFood(slot 7) returned nil error")
	}
}
