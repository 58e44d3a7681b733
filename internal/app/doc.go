// Package app provides the orchestration layer for the bookshelf application.
//
// # Overview
//
// This package wires together configuration, logging, the API client, the
// shared store, the catalog controller, background refresh, and the UI. It is
// the composition root: NewRuntime builds the dependencies that both the TUI
// and the CLI subcommands use, and Run starts the TUI on top of them.
//
// # Startup
//
//  1. Load an optional .env file, then ~/.config/bookshelf/config.toml, then
//     BOOKSHELF_* environment overrides, then command-line overrides
//  2. Open the zap log file (or use a no-op logger when log_file = "-")
//  3. Create the books.Client and a catalog.Controller over a state.Store
//  4. Load the book list once so the first frame has data or an error row
//  5. Start the poller if refresh_interval is positive
//  6. Run the Bubble Tea program until the user quits or the context ends
//
// # Polling Behavior
//
// The poller calls Controller.Reload every refresh_interval (default 30s).
// After a failure the wait doubles per consecutive failure, capped at 30s, and
// resets on the next success. The store counts consecutive failures itself and
// the UI reports the API as offline after two in a row.
//
// # Error Handling
//
// Fatal errors (returned from NewRuntime or Run):
//   - configuration that cannot be parsed or fails validation
//   - a log file that cannot be opened
//   - an API URL that cannot be parsed
//
// Recoverable errors (logged, shown in the UI):
//   - failed list, create, update, or delete calls
//   - network errors and timeouts during refresh
package app
