// Package app is the composition root of koi.
//
// Run wires the pieces in order:
//
//  1. Load .env overrides, then ~/.config/koi/config.toml
//  2. Redirect the standard logger to the log file (the TUI owns the terminal)
//  3. Open the configured storage backend and start loading the persisted AppConfig
//  4. Build the feeder HTTP client for the AP and device base URLs
//  5. Start the status poller, gated on the home screen being visible
//  6. Run the TUI until the user quits or the context is cancelled
//
// # Polling
//
// The poller refreshes the status at a fixed cadence, and only while setup is
// complete and the home screen is showing. It never retries: one failed fetch
// is recorded in state.Store and the poller stays idle until the user reloads
// (r, or reopening the home screen) and that reload succeeds.
//
// # Errors
//
// Only setup failures (bad config, unopenable store or log file) are returned
// from Run. Everything after that is logged and surfaced as a notification.
package app
