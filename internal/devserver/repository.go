package devserver

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/five82/bookshelf/internal/books"
)

var (
	errNotFound      = errors.New("book not found")
	errDuplicateISBN = errors.New("a book with this ISBN already exists")
)

// repository is the in-memory book table.
type repository struct {
	mu     sync.RWMutex
	rows   map[int64]books.Book
	nextID int64
}

func newRepository() *repository {
	return &repository{rows: make(map[int64]books.Book), nextID: 1}
}

func (r *repository) list() []books.Book {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]books.Book, 0, len(r.rows))
	for _, b := range r.rows {
		out = append(out, cloneBook(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *repository) get(id int64) (books.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.rows[id]
	if !ok {
		return books.Book{}, errNotFound
	}
	return cloneBook(b), nil
}

func (r *repository) create(req books.BookRequest) (books.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isbnTaken(req.ISBN, 0) {
		return books.Book{}, errDuplicateISBN
	}
	b := fromRequest(r.nextID, req)
	r.rows[b.ID] = b
	r.nextID++
	return cloneBook(b), nil
}

func (r *repository) update(id int64, req books.BookRequest) (books.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.rows[id]
	if !ok {
		return books.Book{}, errNotFound
	}
	if r.isbnTaken(req.ISBN, id) {
		return books.Book{}, errDuplicateISBN
	}
	b := fromRequest(id, req)
	if existing.Detail != nil && b.Detail != nil {
		detail := *existing.Detail
		detail.Publisher = b.Detail.Publisher
		b.Detail = &detail
	}
	r.rows[id] = b
	return cloneBook(b), nil
}

func (r *repository) delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return errNotFound
	}
	delete(r.rows, id)
	return nil
}

// isbnTaken must be called with the lock held.
func (r *repository) isbnTaken(isbn string, except int64) bool {
	for id, b := range r.rows {
		if id != except && b.ISBN == isbn {
			return true
		}
	}
	return false
}

func fromRequest(id int64, req books.BookRequest) books.Book {
	b := books.Book{
		ID:     id,
		Title:  strings.TrimSpace(req.Title),
		Author: strings.TrimSpace(req.Author),
		ISBN:   strings.TrimSpace(req.ISBN),
		Price:  req.Price,
	}
	if req.PublishDate != nil {
		b.PublishDate = strings.TrimSpace(*req.PublishDate)
	}
	if p := strings.TrimSpace(req.DetailRequest.Publisher); p != "" {
		b.Detail = &books.BookDetail{ID: id, Publisher: p}
	}
	return b
}

func cloneBook(b books.Book) books.Book {
	if b.Detail != nil {
		detail := *b.Detail
		b.Detail = &detail
	}
	return b
}
