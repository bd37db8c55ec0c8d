// Package state holds the application state shared by the poller, the screen
// flows and the UI.
//
// A Store is created once in app.Run and passed down explicitly. It keeps a
// Snapshot made of two halves:
//
//   - the persisted configuration (setup flag, device address, refill foods),
//     loaded once by Init and mirrored to a Persister on every change; a field
//     set while Init is still loading keeps the set value
//   - the latest device status, written by the screens and the poller and
//     never persisted
//
// Setters change memory synchronously and notify subscribers before the write
// reaches the persister. Each returns a Completion; callers that must not
// proceed until the value is durable (finishing setup, resetting the app)
// wait on it:
//
//	if err := store.CompleteSetup().Wait(ctx); err != nil {
//		return err
//	}
//
// Writes reach the persister in the order the setters were called.
//
// Fetch failures are recorded with RecordFailure. The previous status is kept
// and Snapshot.IsOffline reports true after two consecutive failures.
//
// Subscribe hands out a one-slot channel. A publish replaces any unread
// snapshot, so a slow reader always sees the newest state.
package state
