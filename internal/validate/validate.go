// Package validate checks book form input before it is sent to the API.
//
// Rules run in a fixed order and the first failing rule wins, so callers get a
// single field to focus and a single message to show.
package validate

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf16"
)

// Field names, matching the JSON keys of a book.
const (
	FieldTitle       = "title"
	FieldAuthor      = "author"
	FieldISBN        = "isbn"
	FieldPrice       = "price"
	FieldPublishDate = "publishDate"
)

const dateLayout = "2006-01-02"

const titleMinLength = 2

var (
	isbnPattern  = regexp.MustCompile(`^[0-9]{10,13}$`)
	pricePattern = regexp.MustCompile(`^[0-9]+$`)
)

// User facing messages.
const (
	MsgBookRequired   = "Book data is required."
	MsgTitleRequired  = "Please enter a title."
	MsgTitleTooShort  = "Title must be at least 2 characters."
	MsgAuthorRequired = "Please enter an author."
	MsgISBNRequired   = "Please enter an ISBN."
	MsgISBNFormat     = "ISBN must be 10 or 13 digits."
	MsgPriceRequired  = "Please enter a price."
	MsgPriceFormat    = "Price must contain digits only."
	MsgPublishDateFmt = "Publish date must use the YYYY-MM-DD format."
	MsgUnknownField   = "Unknown field."
)

// Fields is the raw text of a book form.
type Fields struct {
	Title       string
	Author      string
	ISBN        string
	Price       string
	PublishDate string
}

// Result is the outcome of a validation pass. Field is empty when the failure
// is not tied to a single input.
type Result struct {
	Valid   bool
	Field   string
	Message string
}

// Err returns nil for a valid result and an *Error otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Field: r.Field, Message: r.Message}
}

// Error carries a failed Result through error returns.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Rule is a single check and the failure it reports.
type Rule struct {
	Check   func() bool
	Field   string
	Message string
}

// First runs rules in order and reports the first failure.
func First(rules ...Rule) Result {
	for _, rule := range rules {
		if !rule.Check() {
			return Result{Valid: false, Field: rule.Field, Message: rule.Message}
		}
	}
	return Result{Valid: true}
}

// Book validates every field of a book in form order: title, author, isbn,
// price, publish date.
func Book(f *Fields) Result {
	if f == nil {
		return Result{Valid: false, Message: MsgBookRequired}
	}
	var rules []Rule
	rules = append(rules, titleRules(f.Title)...)
	rules = append(rules, authorRules(f.Author)...)
	rules = append(rules, isbnRules(f.ISBN)...)
	rules = append(rules, priceRules(f.Price)...)
	rules = append(rules, publishDateRules(f.PublishDate)...)
	return First(rules...)
}

var fieldRules = map[string]func(string) []Rule{
	FieldTitle:       titleRules,
	FieldAuthor:      authorRules,
	FieldISBN:        isbnRules,
	FieldPrice:       priceRules,
	FieldPublishDate: publishDateRules,
}

// Field validates a single named field. Unknown names pass.
func Field(name, value string) Result {
	rules, ok := fieldRules[name]
	if !ok {
		return Result{Valid: true, Message: MsgUnknownField}
	}
	return First(rules(value)...)
}

// IsEmpty reports whether value is blank after trimming.
func IsEmpty(value string) bool {
	return strings.TrimSpace(value) == ""
}

func required(field, value, message string) Rule {
	return Rule{
		Check:   func() bool { return !IsEmpty(value) },
		Field:   field,
		Message: message,
	}
}

func matches(field, value string, pattern *regexp.Regexp, message string) Rule {
	return Rule{
		Check:   func() bool { return pattern.MatchString(strings.TrimSpace(value)) },
		Field:   field,
		Message: message,
	}
}

func titleRules(title string) []Rule {
	return []Rule{
		required(FieldTitle, title, MsgTitleRequired),
		{
			// Length is counted in UTF-16 code units, as browsers do.
			Check: func() bool {
				return len(utf16.Encode([]rune(strings.TrimSpace(title)))) >= titleMinLength
			},
			Field:   FieldTitle,
			Message: MsgTitleTooShort,
		},
	}
}

func authorRules(author string) []Rule {
	return []Rule{required(FieldAuthor, author, MsgAuthorRequired)}
}

func isbnRules(isbn string) []Rule {
	return []Rule{
		required(FieldISBN, isbn, MsgISBNRequired),
		matches(FieldISBN, isbn, isbnPattern, MsgISBNFormat),
	}
}

func priceRules(price string) []Rule {
	return []Rule{
		required(FieldPrice, price, MsgPriceRequired),
		matches(FieldPrice, price, pricePattern, MsgPriceFormat),
	}
}

// publishDateRules accepts a blank date; the date is optional.
func publishDateRules(date string) []Rule {
	return []Rule{{
		Check: func() bool {
			if IsEmpty(date) {
				return true
			}
			_, err := time.Parse(dateLayout, strings.TrimSpace(date))
			return err == nil
		},
		Field:   FieldPublishDate,
		Message: MsgPublishDateFmt,
	}}
}
