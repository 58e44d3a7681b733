package ui

import (
	"strings"

	"github.com/five82/bookshelf/internal/books"
	"github.com/five82/bookshelf/internal/catalog"
)

// selectedBook returns the book under the table cursor.
func (m Model) selectedBook() (books.Book, bool) {
	list := m.snapshot.Books
	if len(list) == 0 {
		return books.Book{}, false
	}
	row := m.selectedRow
	if row < 0 || row >= len(list) {
		return books.Book{}, false
	}
	return list[row], true
}

// clampSelection keeps the cursor inside the current list.
func (m *Model) clampSelection() {
	n := len(m.snapshot.Books)
	switch {
	case n == 0:
		m.selectedRow = 0
	case m.selectedRow >= n:
		m.selectedRow = n - 1
	case m.selectedRow < 0:
		m.selectedRow = 0
	}
}

// columnWidths returns widths for the table columns given the inner width.
func columnWidths(inner int) []int {
	fixed := colAuthor + colISBN + colPrice + colDate + colPublisher
	gaps := len(catalog.Columns) - 1
	title := maxInt(inner-fixed-gaps, colMinTitle)
	return []int{title, colAuthor, colISBN, colPrice, colDate, colPublisher}
}

func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if i == 3 {
			// Right-align prices.
			cell = truncate(cell, widths[i])
			parts[i] = strings.Repeat(" ", maxInt(widths[i]-len([]rune(cell)), 0)) + cell
			continue
		}
		parts[i] = fit(cell, widths[i])
	}
	return strings.Join(parts, " ")
}

// renderTable renders the book list pane.
func (m Model) renderTable(width, height int) string {
	styles := m.theme.Styles()
	focused := m.pane == paneTable && m.modal == nil

	inner := maxInt(width-4, 30)
	widths := columnWidths(inner)

	var lines []string
	header := styles.AccentText.Bold(true).Render(formatRow(catalog.Columns, widths))
	lines = append(lines, header)
	lines = append(lines, styles.FaintText.Render(strings.Repeat("─", inner)))

	if err := m.snapshot.LastError; err != nil {
		lines = append(lines,
			"",
			styles.DangerText.Render(catalog.MsgLoadError),
			styles.DangerText.Render(truncate(catalog.Message(err), inner)),
			"",
		)
	}

	switch {
	case !m.snapshot.Loaded && m.snapshot.LastError == nil:
		lines = append(lines, styles.MutedText.Render("Loading books..."))
	case m.snapshot.Loaded && len(m.snapshot.Books) == 0:
		lines = append(lines, "", styles.MutedText.Render(catalog.MsgEmpty))
	}

	// Keep the cursor row visible.
	visible := maxInt(height-len(lines)-2, 1)
	start := 0
	if m.selectedRow >= visible {
		start = m.selectedRow - visible + 1
	}
	for i := start; i < len(m.snapshot.Books) && i < start+visible; i++ {
		row := formatRow(m.formatter.Row(m.snapshot.Books[i]), widths)
		switch {
		case i == m.selectedRow && focused:
			row = styles.Selected.Render(row)
		case m.snapshot.Books[i].ID == m.ctrl.Editing():
			row = styles.WarningText.Render(row)
		case m.snapshot.LastError != nil:
			row = styles.FaintText.Render(row)
		default:
			row = styles.Text.Render(row)
		}
		lines = append(lines, row)
	}

	pane := styles.Pane
	if focused {
		pane = styles.FocusedPane
	}
	return pane.Width(width - 2).Height(maxInt(height-2, 1)).Render(strings.Join(lines, "\n"))
}
