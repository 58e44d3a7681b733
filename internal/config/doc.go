// Package config loads bookshelf settings from TOML and the environment.
//
// # Resolution Order
//
//  1. Built-in defaults
//  2. The TOML file (explicit path, or ~/.config/bookshelf/config.toml)
//  3. BOOKSHELF_* environment variables, optionally seeded from a .env file
//     via LoadDotEnv
//
// Command line flags are applied by the caller on top of the returned Config.
// A missing config file is not an error; blank values fall back to defaults.
//
// # TOML Format
//
//	api_url = "http://localhost:8080"
//	timeout = "5s"
//	refresh_interval = "30s"   # "0s" disables background refresh
//	log_file = "~/.local/state/bookshelf/bookshelf.log"   # "-" disables logging
//	log_level = "info"
//	locale = "ko-KR"
//
// # Environment
//
//	BOOKSHELF_API_URL, BOOKSHELF_TIMEOUT, BOOKSHELF_REFRESH_INTERVAL,
//	BOOKSHELF_LOG_FILE, BOOKSHELF_LOG_LEVEL, BOOKSHELF_LOCALE
//
// Durations use time.ParseDuration syntax. Tilde paths are expanded to the home
// directory and relative paths are made absolute.
package config
