package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the form stacks above the table.
	LayoutCompactWidth = 110

	// FormPaneWidth is the width of the form pane in side-by-side mode.
	FormPaneWidth = 44
)

// Table column widths; the title column takes the remaining space.
const (
	colAuthor    = 16
	colISBN      = 13
	colPrice     = 10
	colDate      = 10
	colPublisher = 14
	colMinTitle  = 12
)

// Timing constants.
const (
	// MessageTTL is how long a status message stays visible.
	MessageTTL = 4 * time.Second

	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second
)
