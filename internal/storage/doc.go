// Package storage persists the client's local configuration: the setup flag,
// the feeder's address on the home network and the food chosen for each refill.
//
// Values live under four fixed keys in a Backend. Two backends exist: a TOML
// file (the default, ~/.config/koi/state.toml) and a SQLite table managed
// through gorm. Store layers the typed AppConfig on top and treats every
// unreadable value as absent, so a damaged store never prevents startup.
package storage
