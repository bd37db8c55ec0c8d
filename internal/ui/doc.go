// Package ui provides the terminal interface for koi.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model is the root state; screen logic lives
// in the flow package and the UI only renders flow views and turns keys into
// flow calls. Device requests run as tea.Cmd functions off the UI goroutine
// and report back with a flowDoneMsg.
//
// # Screens
//
//   - Setup: first-run wizard shown while the app is not configured
//   - Home: device status, refills, manual feeding and the next schedule
//   - Schedules: list, add, edit, toggle and delete feeding schedules
//   - History: past feedings with daily and weekly counts
//   - Settings: device name, refill foods, WiFi reconfiguration and reset
//   - Logs: the tail of the application log with a text filter
//
// # Event Flow
//
//  1. Run subscribes to state.Store and starts the program
//  2. Every published snapshot arrives as a snapshotMsg; the listener is re-armed after each one
//  3. The configured flag of the snapshot selects the wizard or the main screens
//  4. Keys start flow operations; results are dropped when the user has moved to another page
//  5. A periodic tick refreshes the clock, expiring toasts and the followed log
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context:  ctx,
//		Client:   client,
//		Store:    store,
//		Notes:    notify.NewCenter(notify.DefaultTTL),
//		Config:   &cfg,
//		PollTick: time.Second,
//	})
package ui
