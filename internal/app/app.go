package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/five82/koi/internal/applog"
	"github.com/five82/koi/internal/config"
	"github.com/five82/koi/internal/feeder"
	"github.com/five82/koi/internal/notify"
	"github.com/five82/koi/internal/state"
	"github.com/five82/koi/internal/storage"
	"github.com/five82/koi/internal/ui"
)

const defaultEnvPath = ".env"

// Options configure the koi application.
type Options struct {
	ConfigPath string
	EnvPath    string // empty uses ./.env
	PrefsPath  string // empty uses default ~/.config/koi/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
}

// Run boots the koi TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	envPath := opts.EnvPath
	if envPath == "" {
		envPath = defaultEnvPath
	}
	if err := config.LoadDotEnv(envPath); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logCloser, err := applog.Setup(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = logCloser.Close() }()

	backend, err := storage.Open(cfg.StoreBackend, cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	persisted := storage.NewStore(backend)
	defer func() {
		if err := persisted.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	store := state.New(persisted)
	store.Init(ctx)

	client, err := feeder.NewClient(feeder.Options{
		APBaseURL:     cfg.APURL,
		DeviceBaseURL: cfg.DeviceURL,
		Timeout:       cfg.Timeout,
	})
	if err != nil {
		return fmt.Errorf("init feeder client: %w", err)
	}

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	log.Printf("koi starting: device %s, access point %s, store %s", client.DeviceURL(), client.APURL(), cfg.StoreBackend)

	poller := NewPoller(store, client, interval)
	poller.Start(ctx)

	return ui.Run(ui.Options{
		Context:       ctx,
		Client:        client,
		Store:         store,
		Notes:         notify.NewCenter(notify.DefaultTTL),
		Config:        &cfg,
		PollTick:      time.Second,
		ThemeName:     strings.TrimSpace(cfg.Theme),
		PrefsPath:     opts.PrefsPath,
		OnHomeVisible: poller.SetHomeVisible,
	})
}
