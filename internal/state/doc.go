// Package state holds the book list shared between loaders and the UI.
//
// # Overview
//
// Loads happen on UI commands and on the background refresher, while rendering
// reads from the Bubble Tea update loop. The Store sits between them:
//
//	Loaders:                      UI:
//	┌──────────────────┐         ┌──────────────────┐
//	│ ListBooks()      │         │                  │
//	│      ↓           │         │                  │
//	│ store.Update()   │────────→│ store.Snapshot() │
//	└──────────────────┘ (mutex) └──────────────────┘
//
// # Error Handling
//
// A failed load keeps the previous book list and records the error, so the
// table keeps showing the last known rows while the header reports the failure.
// ConsecutiveFailures counts failed loads since the last success; IsOffline
// turns true after two.
//
// # Snapshots
//
// Snapshot returns deep copies (including each book's detail) so callers can
// sort or mutate rows without affecting the store.
package state
