package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/bookshelf/internal/books"
)

// offlineThreshold is the number of consecutive failed loads after which the
// API is reported as offline.
const offlineThreshold = 2

// Snapshot represents the latest catalog data available to the UI.
type Snapshot struct {
	Books               []books.Book
	Loaded              bool // true once a list has been fetched successfully
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the API has been unreachable for multiple loads.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= offlineThreshold
}

// Find returns the book with the given id from the snapshot.
func (s Snapshot) Find(id int64) (books.Book, bool) {
	for _, b := range s.Books {
		if b.ID == id {
			return b, true
		}
	}
	return books.Book{}, false
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored book list. When err is non-nil the previous list
// is kept but the error is recorded for visibility.
func (s *Store) Update(list []books.Book, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Books = cloneBooks(list)
	s.snapshot.Loaded = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Books = cloneBooks(s.snapshot.Books)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneBooks(list []books.Book) []books.Book {
	if len(list) == 0 {
		return nil
	}
	dup := make([]books.Book, len(list))
	for i, b := range list {
		if b.Detail != nil {
			detail := *b.Detail
			b.Detail = &detail
		}
		dup[i] = b
	}
	return dup
}
