package state

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/five82/koi/internal/catalog"
	"github.com/five82/koi/internal/feeder"
	"github.com/five82/koi/internal/storage"
)

// persistTimeout bounds a single background write.
const persistTimeout = 10 * time.Second

// Persister is the durable side of the store. *storage.Store implements it.
type Persister interface {
	Load(ctx context.Context) storage.AppConfig
	SetConfigured(ctx context.Context, configured bool) error
	SetDeviceIP(ctx context.Context, ip string) error
	SetFood(ctx context.Context, slot storage.Slot, food *catalog.Food) error
	ResetAll(ctx context.Context) error
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Config  storage.AppConfig
	Loading bool

	Status              *feeder.DeviceStatus
	StatusUpdated       time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed status fetches
}

// IsOffline returns true when the last two status fetches failed.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// HasStatus reports whether a device status has been received.
func (s Snapshot) HasStatus() bool {
	return s.Status != nil
}

// Store coordinates concurrent updates to the snapshot and mirrors
// configuration changes to the persister.
type Store struct {
	persister Persister

	mu       sync.RWMutex
	snapshot Snapshot

	initOnce sync.Once
	initDone *Completion
	// touched marks config fields set before the initial load finished;
	// the load keeps those and fills in the rest.
	touched configField

	// lastWrite chains background writes so they reach the persister in
	// the order the setters were called.
	writeMu   sync.Mutex
	lastWrite *Completion

	subMu   sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
}

type configField uint8

const (
	fieldConfigured configField = 1 << iota
	fieldDeviceIP
	fieldRefill1
	fieldRefill2

	allFields = fieldConfigured | fieldDeviceIP | fieldRefill1 | fieldRefill2
)

// merge copies into dst the fields of loaded that no setter has touched.
func merge(dst *storage.AppConfig, loaded storage.AppConfig, touched configField) {
	if touched&fieldConfigured == 0 {
		dst.Configured = loaded.Configured
	}
	if touched&fieldDeviceIP == 0 {
		dst.DeviceIP = loaded.DeviceIP
	}
	if touched&fieldRefill1 == 0 {
		dst.Refill1Food = loaded.Refill1Food
	}
	if touched&fieldRefill2 == 0 {
		dst.Refill2Food = loaded.Refill2Food
	}
}

// New returns a store that reports Loading until Init completes.
func New(persister Persister) *Store {
	return &Store{
		persister: persister,
		snapshot:  Snapshot{Loading: true},
		subs:      make(map[int]chan Snapshot),
	}
}

// Init loads the persisted configuration once. Later calls return the same
// completion.
func (s *Store) Init(ctx context.Context) *Completion {
	s.initOnce.Do(func() {
		s.initDone = newCompletion()
		go func() {
			cfg := s.persister.Load(ctx).Clone()
			s.mu.Lock()
			merge(&s.snapshot.Config, cfg, s.touched)
			s.snapshot.Loading = false
			s.mu.Unlock()
			s.publish()
			s.initDone.finish(nil)
		}()
	})
	return s.initDone
}

// SetDeviceIP records the feeder's address on the home network.
func (s *Store) SetDeviceIP(ip string) *Completion {
	s.mu.Lock()
	s.snapshot.Config.DeviceIP = ip
	s.touch(fieldDeviceIP)
	s.mu.Unlock()
	s.publish()
	return s.persist("device ip", func(ctx context.Context) error {
		return s.persister.SetDeviceIP(ctx, ip)
	})
}

// SetFood records the food for slot; nil clears it.
func (s *Store) SetFood(slot storage.Slot, food *catalog.Food) *Completion {
	var stored *catalog.Food
	if food != nil {
		dup := *food
		stored = &dup
	}
	s.mu.Lock()
	switch slot {
	case storage.Slot1:
		s.snapshot.Config.Refill1Food = stored
		s.touch(fieldRefill1)
	case storage.Slot2:
		s.snapshot.Config.Refill2Food = stored
		s.touch(fieldRefill2)
	}
	s.mu.Unlock()
	s.publish()
	return s.persist("refill food", func(ctx context.Context) error {
		return s.persister.SetFood(ctx, slot, stored)
	})
}

// CompleteSetup marks the first-run wizard as finished.
func (s *Store) CompleteSetup() *Completion {
	s.mu.Lock()
	s.snapshot.Config.Configured = true
	s.touch(fieldConfigured)
	s.mu.Unlock()
	s.publish()
	return s.persist("setup flag", func(ctx context.Context) error {
		return s.persister.SetConfigured(ctx, true)
	})
}

// ResetApp clears configuration and device data. The UI routes back to setup
// once the returned completion is done.
func (s *Store) ResetApp() *Completion {
	s.mu.Lock()
	s.snapshot.Config = storage.AppConfig{}
	s.touch(allFields)
	s.snapshot.Status = nil
	s.snapshot.StatusUpdated = time.Time{}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	s.mu.Unlock()
	s.publish()
	return s.persist("reset", s.persister.ResetAll)
}

// touch records f as set by the caller. Once the initial load has been
// applied nothing reads the mask. Callers hold s.mu.
func (s *Store) touch(f configField) {
	if s.snapshot.Loading {
		s.touched |= f
	}
}

// SetDeviceStatus stores a fresh device status. It is never persisted.
func (s *Store) SetDeviceStatus(status *feeder.DeviceStatus) {
	s.mu.Lock()
	s.snapshot.Status = status.Clone()
	s.snapshot.StatusUpdated = time.Now()
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	s.mu.Unlock()
	s.publish()
}

// RecordFailure keeps the previous status but records err for visibility.
func (s *Store) RecordFailure(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	s.snapshot.LastError = err
	s.snapshot.ConsecutiveFailures++
	s.mu.Unlock()
	s.publish()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Config = s.snapshot.Config.Clone()
	snap.Status = s.snapshot.Status.Clone()
	return snap
}

// Subscribe returns a channel that always holds the most recent snapshot.
// Slow readers miss intermediate states, never the latest one.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.Snapshot()
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
	return ch, cancel
}

func (s *Store) publish() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if len(s.subs) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Store) persist(what string, write func(ctx context.Context) error) *Completion {
	done := newCompletion()

	s.writeMu.Lock()
	prev := s.lastWrite
	s.lastWrite = done
	s.writeMu.Unlock()

	go func() {
		if prev != nil {
			<-prev.Done()
		}
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		err := write(ctx)
		if err != nil {
			log.Printf("state: persist %s: %v", what, err)
		}
		done.finish(err)
	}()
	return done
}
