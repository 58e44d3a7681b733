package books

import (
	"strings"
	"time"
)

// DateLayout is the wire format for publish dates.
const DateLayout = "2006-01-02"

// Book mirrors a record returned by /api/books.
type Book struct {
	ID          int64       `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	Author      string      `json:"author" yaml:"author"`
	ISBN        string      `json:"isbn" yaml:"isbn"`
	Price       int64       `json:"price" yaml:"price"`
	PublishDate string      `json:"publishDate,omitempty" yaml:"publishDate,omitempty"`
	Detail      *BookDetail `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// BookDetail holds the optional nested detail record.
type BookDetail struct {
	ID            int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Publisher     string `json:"publisher" yaml:"publisher"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	Language      string `json:"language,omitempty" yaml:"language,omitempty"`
	PageCount     int    `json:"pageCount,omitempty" yaml:"pageCount,omitempty"`
	CoverImageURL string `json:"coverImageUrl,omitempty" yaml:"coverImageUrl,omitempty"`
	Edition       string `json:"edition,omitempty" yaml:"edition,omitempty"`
}

// BookRequest is the payload accepted by POST and PUT.
type BookRequest struct {
	Title         string        `json:"title"`
	Author        string        `json:"author"`
	ISBN          string        `json:"isbn"`
	Price         int64         `json:"price"`
	PublishDate   *string       `json:"publishDate"`
	DetailRequest DetailRequest `json:"detailRequest"`
}

// DetailRequest carries the nested detail fields of a BookRequest.
type DetailRequest struct {
	Publisher string `json:"publisher"`
}

// Publisher returns the detail publisher, or an empty string when the book has no detail.
func (b Book) Publisher() string {
	if b.Detail == nil {
		return ""
	}
	return strings.TrimSpace(b.Detail.Publisher)
}

// ParsedPublishDate returns the publish date as time.Time when possible.
func (b Book) ParsedPublishDate() time.Time {
	return parseDate(b.PublishDate)
}

func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{DateLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
