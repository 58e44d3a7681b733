package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns the whole file. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var all []string
		for scanner.Scan() {
			all = append(all, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return all, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one decoded JSON log record.
type Entry struct {
	Time    time.Time
	Level   string
	Logger  string
	Message string
	Fields  map[string]any
}

// reserved keys are rendered in fixed positions rather than as fields.
var reserved = map[string]struct{}{
	"ts": {}, "level": {}, "logger": {}, "msg": {}, "caller": {}, "stacktrace": {},
}

// ParseLine decodes a JSON log line. ok is false for lines that are not JSON
// objects with a message.
func ParseLine(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "{") {
		return Entry{}, false
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	msg, ok := raw["msg"].(string)
	if !ok {
		return Entry{}, false
	}

	e := Entry{Message: msg, Fields: map[string]any{}}
	if lvl, ok := raw["level"].(string); ok {
		e.Level = strings.ToUpper(lvl)
	}
	if name, ok := raw["logger"].(string); ok {
		e.Logger = name
	}
	if ts, ok := raw["ts"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Time = t
		} else if t, err := time.Parse("2006-01-02T15:04:05.000Z0700", ts); err == nil {
			e.Time = t
		}
	}
	for k, v := range raw {
		if _, skip := reserved[k]; !skip {
			e.Fields[k] = v
		}
	}
	return e, true
}

// fieldKeys returns the entry's field names in sorted order.
func (e Entry) fieldKeys() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		if strings.ContainsAny(val, " \t") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(encoded)
	}
}

// FormatLine renders a JSON log line as
// "2006-01-02 15:04:05 LEVEL [logger] message key=value". Other lines are
// returned unchanged.
func FormatLine(line string) string {
	e, ok := ParseLine(line)
	if !ok {
		return line
	}
	return render(e, plainStyles())
}

// ColorizeLine is FormatLine with lipgloss colors for terminal output.
func ColorizeLine(line string) string {
	e, ok := ParseLine(line)
	if !ok {
		return line
	}
	return render(e, colorStyles())
}

// ColorizeLines applies ColorizeLine to each line.
func ColorizeLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = ColorizeLine(line)
	}
	return out
}

type lineStyles struct {
	plain  bool
	time   lipgloss.Style
	levels map[string]lipgloss.Style
	logger lipgloss.Style
	key    lipgloss.Style
}

func plainStyles() lineStyles {
	return lineStyles{plain: true}
}

func colorStyles() lineStyles {
	return lineStyles{
		time: lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
		levels: map[string]lipgloss.Style{
			"DEBUG": lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true),
			"INFO":  lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true),
			"WARN":  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
			"ERROR": lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		},
		logger: lipgloss.NewStyle().Foreground(lipgloss.Color("#87AFFF")),
		key:    lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

func (s lineStyles) paint(style lipgloss.Style, text string) string {
	if s.plain {
		return text
	}
	return style.Render(text)
}

func render(e Entry, s lineStyles) string {
	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, s.paint(s.time, e.Time.Local().Format("2006-01-02 15:04:05")))
	}
	if e.Level != "" {
		style, ok := s.levels[e.Level]
		if !ok {
			style = lipgloss.NewStyle()
		}
		parts = append(parts, s.paint(style, e.Level))
	}
	if e.Logger != "" {
		parts = append(parts, s.paint(s.logger, "["+e.Logger+"]"))
	}
	parts = append(parts, e.Message)
	for _, k := range e.fieldKeys() {
		parts = append(parts, s.paint(s.key, k+"=")+formatValue(e.Fields[k]))
	}
	return strings.Join(parts, " ")
}
