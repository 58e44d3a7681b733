// Package ui provides the terminal user interface for bookshelf.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program with two panes: the book form on the left
// (stacked on top in narrow terminals) and the book table on the right. All
// mutations go through catalog.Controller; the model only renders the shared
// state.Store snapshot and the controller's edit mode.
//
// # Package Structure
//
//   - app.go: Model, Update loop, key routing, and the commands that call the controller
//   - form.go: the six text inputs, focus handling, and the submit button
//   - table.go: the book table, selection, and the empty/error rows
//   - header.go: status bar, command hints, and the transient message line
//   - modal.go: the delete confirmation dialog
//   - help.go: help overlay built from the key map
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//
// # Focus Model
//
// Tab walks the form fields in order, then moves to the table, then back to the
// first field; shift+tab walks the same ring backwards. While a form field has
// focus every printable key is typed into it, so single-letter shortcuts (j/k,
// e, d, r, T, ?) only act while the table has focus.
//
// # Messages
//
// Controller calls run inside tea.Cmds and report back as submitDoneMsg,
// editLoadedMsg, deleteDoneMsg, or reloadDoneMsg. Outcomes are shown on the
// status line for MessageTTL; a validation failure also moves the cursor to the
// failing field. A one-second tick pulls fresh snapshots that the background
// poller writes into the store.
//
// # Thread Safety
//
// The Model is only touched by the Bubble Tea event loop. The controller and
// store guard their own state, so commands may call them from other goroutines.
package ui
