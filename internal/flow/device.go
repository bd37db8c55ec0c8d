package flow

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/five82/koi/internal/catalog"
	"github.com/five82/koi/internal/feeder"
	"github.com/five82/koi/internal/state"
	"github.com/five82/koi/internal/storage"
)

// Device drives the device settings screen.
type Device struct {
	api   DeviceAPI
	state *state.Store
	notes Notifier

	mu      sync.Mutex
	network *feeder.NetworkInfo
	saving  bool
}

// NewDevice returns a device settings controller.
func NewDevice(api DeviceAPI, st *state.Store, notes Notifier) *Device {
	return &Device{api: api, state: st, notes: notes}
}

// Network returns the last network info fetched, if any.
func (d *Device) Network() (feeder.NetworkInfo, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.network == nil {
		return feeder.NetworkInfo{}, false
	}
	return *d.network, true
}

// LoadNetwork fetches the feeder's station network details. The screen works
// without them, so a failure is only logged.
func (d *Device) LoadNetwork(ctx context.Context) error {
	info, err := d.api.NetworkInfo(ctx, feeder.ModeDevice)
	if err != nil {
		log.Printf("flow: load network info: %v", err)
		return err
	}
	d.mu.Lock()
	d.network = &info
	d.mu.Unlock()
	return nil
}

// Rename sets the device's display name and re-fetches the status so the
// new name reaches the state store.
func (d *Device) Rename(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		d.notes.Warn(titleWarning, "Informe um nome para o dispositivo.")
		return ErrEmptyName
	}
	d.mu.Lock()
	if d.saving {
		d.mu.Unlock()
		return ErrBusy
	}
	d.saving = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.saving = false
		d.mu.Unlock()
	}()

	if _, err := d.api.UpdateConfig(ctx, feeder.ConfigUpdate{DeviceName: &name}); err != nil {
		reportFailure(d.notes, err, "Não foi possível salvar as configurações.")
		return err
	}
	d.notes.Success(titleSuccess, "Nome do dispositivo atualizado!")
	reloadStatus(ctx, d.api, d.state)
	return nil
}

// ReconfigureWiFi forgets the configuration so the wizard can run again.
// The feeder itself must be reset to accept new credentials.
func (d *Device) ReconfigureWiFi(ctx context.Context) error {
	return d.ResetApp(ctx)
}

// ResetApp clears every persisted setting and waits for the write.
func (d *Device) ResetApp(ctx context.Context) error {
	if err := d.state.ResetApp().Wait(ctx); err != nil {
		d.notes.Error(titleError, "Não foi possível resetar as configurações.")
		return fmt.Errorf("reset app: %w", err)
	}
	d.mu.Lock()
	d.network = nil
	d.mu.Unlock()
	return nil
}

// Refills drives refill management: changing the food in a compartment.
type Refills struct {
	api   DeviceAPI
	state *state.Store
	notes Notifier

	mu      sync.Mutex
	editing storage.Slot
	saving  bool
}

// NewRefills returns a refill management controller.
func NewRefills(api DeviceAPI, st *state.Store, notes Notifier) *Refills {
	return &Refills{api: api, state: st, notes: notes}
}

// Edit opens the food picker for slot.
func (r *Refills) Edit(slot storage.Slot) {
	if !slot.Valid() {
		return
	}
	r.mu.Lock()
	r.editing = slot
	r.mu.Unlock()
}

// Editing returns the slot being edited, or 0.
func (r *Refills) Editing() storage.Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.editing
}

// Saving reports whether a change is in flight.
func (r *Refills) Saving() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saving
}

// Cancel closes the picker.
func (r *Refills) Cancel() {
	r.mu.Lock()
	r.editing = 0
	r.mu.Unlock()
}

// ChangeFood stores food for slot and sends its name to the device.
func (r *Refills) ChangeFood(ctx context.Context, slot storage.Slot, food catalog.Food) error {
	if !slot.Valid() {
		return fmt.Errorf("change food: invalid slot %d", int(slot))
	}
	r.mu.Lock()
	if r.saving {
		r.mu.Unlock()
		return ErrBusy
	}
	r.saving = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.saving = false
		r.mu.Unlock()
	}()

	if err := r.state.SetFood(slot, &food).Wait(ctx); err != nil {
		r.notes.Error(titleError, "Não foi possível atualizar a ração.")
		return fmt.Errorf("persist food: %w", err)
	}

	name := food.DisplayName()
	update := feeder.ConfigUpdate{Refill1Name: &name}
	if slot == storage.Slot2 {
		update = feeder.ConfigUpdate{Refill2Name: &name}
	}
	if _, err := r.api.UpdateConfig(ctx, update); err != nil {
		reportFailure(r.notes, err, "Não foi possível atualizar a ração.")
		return err
	}

	r.mu.Lock()
	r.editing = 0
	r.mu.Unlock()
	r.notes.Success(titleSuccess, "Ração atualizada com sucesso!")
	reloadStatus(ctx, r.api, r.state)
	return nil
}
