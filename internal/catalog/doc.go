// Package catalog is the headless controller behind the book form and table.
//
// A Controller turns form submissions into validated create or update calls,
// fetches books for editing, deletes them, and reloads the list into a
// state.Store after every change. The only state it owns is the id of the
// book being edited. The terminal UI and the CLI both drive it; neither talks
// to the API client directly for mutations.
//
// Formatter renders prices with locale digit grouping (golang.org/x/text) and
// dates as YYYY-MM-DD, substituting a dash for missing values.
package catalog
