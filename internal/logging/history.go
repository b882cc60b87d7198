package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Entry is one parsed log record.
type Entry struct {
	Time      time.Time      `json:"time"`
	Level     string         `json:"level"`
	Message   string         `json:"msg"`
	Component string         `json:"component,omitempty"`
	RunID     string         `json:"run_id,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// Filter selects log entries. Zero-valued fields match everything.
type Filter struct {
	// MinLevel keeps entries at or above this level.
	MinLevel  string
	Component string
	RunID     string
	Since     time.Time
	Contains  string
}

var levelRank = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ReadEntries parses {stateDir}/triage.log. Lines that are not valid JSON
// are skipped. Entries are returned oldest first. A missing log file yields
// no entries and no error.
func ReadEntries(stateDir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(stateDir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	const maxLine = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry, err := parseEntry(line)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Time.Before(entries[j].Time)
	})
	return entries, nil
}

func parseEntry(line string) (Entry, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, fmt.Errorf("invalid JSON: %w", err)
	}

	var e Entry
	for k, v := range raw {
		s, _ := v.(string)
		switch k {
		case "time":
			if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
				e.Time = t
			}
		case "level":
			e.Level = s
		case "msg":
			e.Message = s
		case "component":
			e.Component = s
		case "run_id":
			e.RunID = s
		default:
			if e.Attrs == nil {
				e.Attrs = make(map[string]any)
			}
			e.Attrs[k] = v
		}
	}
	return e, nil
}

// FilterEntries returns the entries matching f, preserving order.
func FilterEntries(entries []Entry, f Filter) []Entry {
	minRank := -1
	if f.MinLevel != "" {
		minRank = levelRank[ParseLevel(f.MinLevel)]
	}

	var out []Entry
	for _, e := range entries {
		if minRank >= 0 && levelRank[strings.ToUpper(e.Level)] < minRank {
			continue
		}
		if f.Component != "" && e.Component != f.Component {
			continue
		}
		if f.RunID != "" && !strings.HasPrefix(e.RunID, f.RunID) {
			continue
		}
		if !f.Since.IsZero() && e.Time.Before(f.Since) {
			continue
		}
		if f.Contains != "" && !strings.Contains(strings.ToLower(e.Message), strings.ToLower(f.Contains)) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Format renders an entry as a single human-readable line.
func (e Entry) Format() string {
	var b strings.Builder
	b.WriteString(e.Time.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, " %-5s", e.Level)
	if e.Component != "" {
		fmt.Fprintf(&b, " [%s]", e.Component)
	}
	b.WriteString(" ")
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Attrs[k])
	}
	if e.RunID != "" {
		fmt.Fprintf(&b, " run=%s", shortID(e.RunID))
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
