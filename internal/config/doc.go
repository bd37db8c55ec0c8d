// Package config loads the koi client configuration.
//
// Settings come from three layers, later ones winning:
//
//  1. built-in defaults (AP at http://192.168.4.1, device at
//     http://alimentador.local, 10s timeout, file store)
//  2. ~/.config/koi/config.toml, or the path passed to Load
//  3. KOI_* environment variables, optionally seeded from a .env file with
//     LoadDotEnv
//
// A missing config file is not an error. An unparsable file or an unknown
// store backend is.
//
// Example config.toml:
//
//	device_url = "http://192.168.1.40"
//	timeout_seconds = 10
//	poll_seconds = 5
//	store_backend = "sqlite"
//	store_path = "~/.local/share/koi/state.db"
//	theme = "Kanagawa"
//
// Paths accept a leading tilde.
package config
