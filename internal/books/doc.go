// Package books provides an HTTP client for the book catalog REST API.
//
// # Overview
//
// The client wraps the five catalog endpoints and turns every non-2xx response
// into an error whose text can be shown to the user as-is:
//
//   - GET    /api/books       list every book
//   - GET    /api/books/{id}  fetch one book
//   - POST   /api/books       register a book
//   - PUT    /api/books/{id}  replace a book
//   - DELETE /api/books/{id}  remove a book (response body is ignored)
//
// # Client Usage
//
//	client, err := books.NewClient("http://localhost:8080", books.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	list, err := client.ListBooks(ctx)
//
// # Error Handling
//
// Responses with status >= 400 become *APIError. The server is expected to send a
// JSON body of the form {"message": "..."}; the message is prefixed according to
// the status:
//
//   - 400: "Invalid input: ..."
//   - 404: "Not found: ..."
//   - 409: "Duplicate: ..."
//   - 500: "Server error: ..."
//   - other: "Error (<status>): ..."
//
// A missing or unreadable message is replaced with "An unknown error occurred.".
// Transport failures become *NetworkError ("Check your network connection.") and
// keep the underlying cause for logging via errors.Unwrap. A cancelled context is
// returned unchanged.
//
// # Request Handling
//
// Every request sends Content-Type and Accept headers for JSON, a User-Agent of
// bookshelf/<version> and a fresh X-Request-ID so server and client logs can be
// correlated. Requests are logged at debug level; failures at warn level.
//
// # Thread Safety
//
// The Client is safe for concurrent use.
package books
