// Package devserver serves the book REST API from memory.
//
// It implements the same contract the client expects: JSON bodies, 201 on
// create, 204 on delete, and {"message": "..."} error bodies with 400 for
// invalid input, 404 for unknown ids, and 409 for duplicate ISBNs. Request
// payloads go through the same validate rules the form uses.
//
// `bookshelf serve` runs it for local work; package tests mount Router on an
// httptest server.
package devserver
