package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/five82/bookshelf/internal/books"
	"github.com/five82/bookshelf/internal/catalog"
)

// renderHeader renders the connection and catalog status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("bookshelf", styles.Logo)}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts,
			bg.Render("● "+classifyConnectionError(m.snapshot.LastError), styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
		)
	case m.snapshot.LastError != nil:
		parts = append(parts, bg.Render("● ERROR", styles.DangerText))
	case m.snapshot.Loaded:
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	default:
		parts = append(parts, bg.Render("Connecting...", styles.WarningText.Bold(true)))
	}

	if m.snapshot.Loaded {
		parts = append(parts,
			bg.Render("Books:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", len(m.snapshot.Books)), styles.Text),
		)
	}
	if id := m.ctrl.Editing(); id != 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("Editing #%d", id), styles.WarningText.Bold(true)))
	}
	if m.apiURL != "" && m.width >= LayoutCompactWidth {
		parts = append(parts, bg.Render(truncate(m.apiURL, 40), styles.FaintText))
	}
	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// formatTimestamp formats the last update time with a relative indicator.
func (m Model) formatTimestamp() string {
	if m.snapshot.LastUpdated.IsZero() {
		return ""
	}
	since := time.Since(m.snapshot.LastUpdated)
	out := m.snapshot.LastUpdated.Format("15:04:05")
	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	default:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}

// classifyConnectionError returns a short description of a load failure.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "TIMEOUT"
	}
	var netErr *books.NetworkError
	if !errors.As(err, &netErr) {
		return "ERROR"
	}
	if netErr.Err == nil {
		return "OFFLINE"
	}
	msg := netErr.Err.Error()
	switch {
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "OFFLINE"
	}
}

// renderCommandBar renders the key hints for the focused pane.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.pane {
	case paneForm:
		commands = []cmd{
			{"tab", "Next"},
			{"enter", "Next/Save"},
			{"ctrl+s", "Save"},
		}
		if m.ctrl.Editing() != 0 {
			commands = append(commands, cmd{"esc", "Cancel edit"})
		}
	default:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"e", "Edit"},
			{"d", "Delete"},
			{"n", "New"},
			{"r", "Reload"},
			{"tab", "Form"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// renderStatusLine renders the current success or error message.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	if m.status.text == "" {
		return ""
	}
	style := styles.InfoText
	switch m.status.level {
	case catalog.LevelSuccess:
		style = styles.SuccessText
	case catalog.LevelError:
		style = styles.DangerText
	}
	return " " + style.Render(truncate(m.status.text, maxInt(m.width-2, 10)))
}
