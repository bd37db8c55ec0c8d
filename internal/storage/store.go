package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/five82/koi/internal/catalog"
)

// Persisted keys. The names are part of the on-disk format.
const (
	KeyConfigured  = "isConfigured"
	KeyDeviceIP    = "deviceIp"
	KeyRefill1Food = "refill1Food"
	KeyRefill2Food = "refill2Food"
)

// Slot identifies one of the two refill compartments.
type Slot int

const (
	Slot1 Slot = 1
	Slot2 Slot = 2
)

// Valid reports whether s names a compartment.
func (s Slot) Valid() bool { return s == Slot1 || s == Slot2 }

func (s Slot) key() (string, error) {
	switch s {
	case Slot1:
		return KeyRefill1Food, nil
	case Slot2:
		return KeyRefill2Food, nil
	default:
		return "", fmt.Errorf("invalid refill slot %d", int(s))
	}
}

// AppConfig is the persisted application configuration.
type AppConfig struct {
	Configured  bool
	DeviceIP    string
	Refill1Food *catalog.Food
	Refill2Food *catalog.Food
}

// Food returns the selection stored for slot, or nil.
func (c AppConfig) Food(slot Slot) *catalog.Food {
	switch slot {
	case Slot1:
		return c.Refill1Food
	case Slot2:
		return c.Refill2Food
	default:
		return nil
	}
}

// Clone returns a copy that shares no food pointers with c.
func (c AppConfig) Clone() AppConfig {
	dup := c
	dup.Refill1Food = cloneFood(c.Refill1Food)
	dup.Refill2Food = cloneFood(c.Refill2Food)
	return dup
}

func cloneFood(f *catalog.Food) *catalog.Food {
	if f == nil {
		return nil
	}
	dup := *f
	if f.Image != nil {
		img := *f.Image
		dup.Image = &img
	}
	return &dup
}

// Store maps AppConfig onto backend keys.
type Store struct {
	backend Backend
}

// NewStore wraps backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Close releases the backend.
func (s *Store) Close() error { return s.backend.Close() }

// Load reads every key concurrently. A key that cannot be read or decoded is
// logged and treated as absent, so Load never fails.
func (s *Store) Load(ctx context.Context) AppConfig {
	var (
		cfg AppConfig
		mu  sync.Mutex
		wg  sync.WaitGroup
	)
	read := func(key string, apply func(string)) {
		defer wg.Done()
		value, ok, err := s.backend.Get(ctx, key)
		if err != nil {
			log.Printf("storage: load %s: %v", key, err)
			return
		}
		if !ok {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		apply(value)
	}

	wg.Add(4)
	go read(KeyConfigured, func(v string) {
		configured, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("storage: decode %s: %v", KeyConfigured, err)
			return
		}
		cfg.Configured = configured
	})
	go read(KeyDeviceIP, func(v string) { cfg.DeviceIP = v })
	go read(KeyRefill1Food, func(v string) { cfg.Refill1Food = decodeFood(KeyRefill1Food, v) })
	go read(KeyRefill2Food, func(v string) { cfg.Refill2Food = decodeFood(KeyRefill2Food, v) })
	wg.Wait()
	return cfg
}

func decodeFood(key, raw string) *catalog.Food {
	var food catalog.Food
	if err := json.Unmarshal([]byte(raw), &food); err != nil {
		log.Printf("storage: decode %s: %v", key, err)
		return nil
	}
	return &food
}

// SetConfigured persists the setup-complete flag.
func (s *Store) SetConfigured(ctx context.Context, configured bool) error {
	return s.backend.Set(ctx, KeyConfigured, strconv.FormatBool(configured))
}

// SetDeviceIP persists ip; an empty ip removes the key.
func (s *Store) SetDeviceIP(ctx context.Context, ip string) error {
	if ip == "" {
		return s.backend.Remove(ctx, KeyDeviceIP)
	}
	return s.backend.Set(ctx, KeyDeviceIP, ip)
}

// SetFood persists the selection for slot; nil removes the key.
func (s *Store) SetFood(ctx context.Context, slot Slot, food *catalog.Food) error {
	key, err := slot.key()
	if err != nil {
		return err
	}
	if food == nil {
		return s.backend.Remove(ctx, key)
	}
	encoded, err := json.Marshal(food)
	if err != nil {
		return fmt.Errorf("encode food: %w", err)
	}
	return s.backend.Set(ctx, key, string(encoded))
}

// ResetAll removes every persisted key in a single backend call.
func (s *Store) ResetAll(ctx context.Context) error {
	return s.backend.Remove(ctx, KeyConfigured, KeyDeviceIP, KeyRefill1Food, KeyRefill2Food)
}
