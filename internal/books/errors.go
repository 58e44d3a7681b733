package books

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIDRequired is returned when an operation needs a book id and none was given.
	ErrIDRequired = errors.New("book id is required")

	// ErrDataRequired is returned when a create or update has no payload.
	ErrDataRequired = errors.New("book data is required")
)

const unknownServerMessage = "An unknown error occurred."

// APIError is returned for responses with a 4xx or 5xx status.
// Error returns the message meant for the user.
type APIError struct {
	StatusCode    int
	ServerMessage string
	Method        string
	Path          string
}

func (e *APIError) Error() string {
	return MessageForStatus(e.StatusCode, e.ServerMessage)
}

// NetworkError wraps a transport failure such as a refused connection or timeout.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return "Check your network connection."
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// MessageForStatus maps an HTTP status and the server supplied message to the text shown to users.
func MessageForStatus(status int, serverMessage string) string {
	msg := strings.TrimSpace(serverMessage)
	if msg == "" {
		msg = unknownServerMessage
	}
	switch status {
	case 400:
		return "Invalid input: " + msg
	case 404:
		return "Not found: " + msg
	case 409:
		return "Duplicate: " + msg
	case 500:
		return "Server error: " + msg
	default:
		return fmt.Sprintf("Error (%d): %s", status, msg)
	}
}

// StatusCode reports the HTTP status carried by err, or 0 when err is not an APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return StatusCode(err) == 404
}
