// Package logtail reads the tail of the bookshelf log file and renders its
// JSON records for humans.
//
// # Reading Log Files
//
// Read keeps a ring buffer of maxLines entries while scanning the file once,
// so memory stays proportional to the requested tail, not the file size:
//
//  1. Store each line at the current index
//  2. Advance the index, wrapping at maxLines
//  3. Return the buffer starting at the oldest retained line
//
// A non-positive maxLines returns the whole file. A missing file returns no
// lines and no error, since logging may be disabled.
//
// # Formatting
//
// The logger writes one JSON object per line. ParseLine decodes a record and
// FormatLine renders it as
//
//	2025-10-08 21:01:05 WARN [api] api request failed status=404 url=...
//
// with fields sorted by key. ColorizeLine does the same with lipgloss colors
// for level, logger name, timestamp, and field keys. Lines that are not JSON
// records are returned unchanged.
package logtail
