// Package flow contains the screen controllers of the client, independent of
// how they are rendered.
//
// Each controller owns the transient state of one screen, talks to the feeder
// through a narrow interface implemented by *feeder.Client and reports every
// failure as a notification. Device data is never edited locally: after a
// mutation the controller fetches the device's view again.
//
// Controllers are safe for concurrent use; the UI calls them from commands
// running off the render loop and reads them back through View methods.
package flow
