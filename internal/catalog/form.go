package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/five82/bookshelf/internal/books"
	"github.com/five82/bookshelf/internal/validate"
)

// Form holds the raw text of the book entry form.
type Form struct {
	Title       string
	Author      string
	ISBN        string
	Price       string
	PublishDate string
	Publisher   string
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (f Form) Trimmed() Form {
	return Form{
		Title:       strings.TrimSpace(f.Title),
		Author:      strings.TrimSpace(f.Author),
		ISBN:        strings.TrimSpace(f.ISBN),
		Price:       strings.TrimSpace(f.Price),
		PublishDate: strings.TrimSpace(f.PublishDate),
		Publisher:   strings.TrimSpace(f.Publisher),
	}
}

// Fields exposes the validated subset of the form.
func (f Form) Fields() *validate.Fields {
	return &validate.Fields{
		Title:       f.Title,
		Author:      f.Author,
		ISBN:        f.ISBN,
		Price:       f.Price,
		PublishDate: f.PublishDate,
	}
}

// Request converts a validated form into the API payload.
func (f Form) Request() (*books.BookRequest, error) {
	f = f.Trimmed()
	price, err := strconv.ParseInt(f.Price, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", f.Price, err)
	}
	req := &books.BookRequest{
		Title:  f.Title,
		Author: f.Author,
		ISBN:   f.ISBN,
		Price:  price,
		DetailRequest: books.DetailRequest{
			Publisher: f.Publisher,
		},
	}
	if f.PublishDate != "" {
		date := f.PublishDate
		req.PublishDate = &date
	}
	return req, nil
}

// IsZero reports whether every field is blank.
func (f Form) IsZero() bool {
	return f.Trimmed() == Form{}
}

// FormFromBook fills a form from a stored book for editing.
func FormFromBook(b books.Book) Form {
	return Form{
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		Price:       strconv.FormatInt(b.Price, 10),
		PublishDate: displayDate(b),
		Publisher:   b.Publisher(),
	}
}

func displayDate(b books.Book) string {
	if strings.TrimSpace(b.PublishDate) == "" {
		return ""
	}
	if t := b.ParsedPublishDate(); !t.IsZero() {
		return t.Format(books.DateLayout)
	}
	return strings.TrimSpace(b.PublishDate)
}
