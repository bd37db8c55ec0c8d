// Package applog owns the client's log file.
//
// The terminal belongs to the UI while koi runs, so Setup points the standard
// logger at ~/.local/state/koi/koi.log (or the configured path). Tail reads
// the end of that file back for the diagnostics screen.
package applog
