package catalog

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/five82/bookshelf/internal/books"
)

// DefaultLocale is used when no locale is configured or the tag is invalid.
const DefaultLocale = "ko-KR"

const placeholder = "-"

// Formatter renders book values for display.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter returns a Formatter for the given BCP 47 locale tag.
func NewFormatter(locale string) Formatter {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	return Formatter{printer: message.NewPrinter(tag)}
}

// Price groups digits according to the locale, e.g. 15,000.
func (f Formatter) Price(price int64) string {
	if f.printer == nil {
		f = NewFormatter(DefaultLocale)
	}
	return f.printer.Sprintf("%d", price)
}

// Date renders the publish date as YYYY-MM-DD, or a dash when absent.
func (f Formatter) Date(b books.Book) string {
	if d := displayDate(b); d != "" {
		return d
	}
	return placeholder
}

// Publisher returns the publisher, or a dash when absent.
func (f Formatter) Publisher(b books.Book) string {
	if p := b.Publisher(); p != "" {
		return p
	}
	return placeholder
}

// Row returns the display cells for a table row in column order.
func (f Formatter) Row(b books.Book) []string {
	return []string{b.Title, b.Author, b.ISBN, f.Price(b.Price), f.Date(b), f.Publisher(b)}
}

// Columns are the table headings matching Row.
var Columns = []string{"Title", "Author", "ISBN", "Price", "Published", "Publisher"}
