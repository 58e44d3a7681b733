package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/five82/bookshelf/internal/books"
)

func TestFormatterPrice(t *testing.T) {
	f := NewFormatter("ko-KR")
	assert.Equal(t, "15,000", f.Price(15000))
	assert.Equal(t, "0", f.Price(0))

	de := NewFormatter("de-DE")
	assert.Equal(t, "1.234.567", de.Price(1234567))

	bad := NewFormatter("not a locale")
	assert.Equal(t, "1,000", bad.Price(1000))

	var zero Formatter
	assert.Equal(t, "2,500", zero.Price(2500))
}

func TestFormatterPlaceholders(t *testing.T) {
	f := NewFormatter(DefaultLocale)
	b := books.Book{Title: "T", Author: "A", ISBN: "1234567890", Price: 12000}

	assert.Equal(t, []string{"T", "A", "1234567890", "12,000", "-", "-"}, f.Row(b))

	b.PublishDate = "2023-01-02"
	b.Detail = &books.BookDetail{Publisher: "O'Reilly"}
	assert.Equal(t, "2023-01-02", f.Date(b))
	assert.Equal(t, "O'Reilly", f.Publisher(b))
	assert.Len(t, Columns, len(f.Row(b)))
}
