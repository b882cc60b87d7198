package taskqueue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/triage/internal/errors"
	"github.com/Iron-Ham/triage/internal/task"
)

// Format selects the decoder used by [ParseBulk].
type Format string

const (
	// FormatAuto picks JSON when the payload starts with '[' or '{', YAML otherwise.
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath guesses the format from a file name extension.
func FormatForPath(path string) Format {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML
	default:
		return FormatAuto
	}
}

// ParseBulk decodes a bulk import payload into raw records, one per list
// entry. Entries that are not objects become empty records so that they are
// counted and then skipped by [TaskQueue.BulkLoad].
//
// A payload that is not a list, cannot be decoded, or holds a field value that
// cannot be coerced yields a [errors.MalformedInputError]. No records are
// returned in that case.
func ParseBulk(data []byte, format Format, source string) ([]RawRecord, error) {
	if format == FormatAuto {
		format = detectFormat(data)
	}

	var payload any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, errors.NewMalformedInputError(source, "payload is not valid JSON").WithCause(err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &payload); err != nil {
			return nil, errors.NewMalformedInputError(source, "payload is not valid YAML").WithCause(err)
		}
	default:
		return nil, errors.NewMalformedInputError(source, fmt.Sprintf("unknown format %q", format))
	}

	entries, ok := payload.([]any)
	if !ok {
		return nil, errors.NewMalformedInputError(source, "expected a list of tasks")
	}

	records := make([]RawRecord, 0, len(entries))
	for i, entry := range entries {
		fields, ok := asObject(entry)
		if !ok {
			records = append(records, RawRecord{})
			continue
		}
		rec, err := coerceRecord(fields)
		if err != nil {
			return nil, errors.NewMalformedInputError(source, err.Error()).WithEntry(i)
		}
		records = append(records, rec)
	}
	return records, nil
}

func detectFormat(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	return FormatYAML
}

// asObject accepts both JSON objects and YAML mappings.
func asObject(entry any) (map[string]any, bool) {
	switch v := entry.(type) {
	case map[string]any:
		return v, true
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[cast.ToString(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// coerceRecord converts the known fields of one entry. Unknown fields are
// ignored. A missing or null field stays unset so that defaults apply.
func coerceRecord(fields map[string]any) (RawRecord, error) {
	var rec RawRecord

	if v, ok := fields["title"]; ok && v != nil {
		s, err := cast.ToStringE(v)
		if err != nil {
			return RawRecord{}, fmt.Errorf("title: %w", err)
		}
		rec.Title = strings.TrimSpace(s)
	}

	if v, ok := fields["id"]; ok && v != nil {
		s, err := cast.ToStringE(v)
		if err != nil {
			return RawRecord{}, fmt.Errorf("id: %w", err)
		}
		rec.ID = strings.TrimSpace(s)
	}

	if v, ok := fields["due_date"]; ok && v != nil {
		d, err := coerceDate(v)
		if err != nil {
			return RawRecord{}, fmt.Errorf("due_date: %w", err)
		}
		rec.DueDate = d
	}

	if v, ok := fields["estimated_hours"]; ok && v != nil {
		h, err := cast.ToFloat64E(v)
		if err != nil {
			return RawRecord{}, fmt.Errorf("estimated_hours: %w", err)
		}
		if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
			return RawRecord{}, fmt.Errorf("estimated_hours: %v is not a non-negative number", v)
		}
		rec.EstimatedHours = &h
	}

	if v, ok := fields["importance"]; ok && v != nil {
		n, err := cast.ToIntE(v)
		if err != nil {
			return RawRecord{}, fmt.Errorf("importance: %w", err)
		}
		if n < task.MinImportance || n > task.MaxImportance {
			return RawRecord{}, fmt.Errorf("importance: %d is outside %d-%d", n, task.MinImportance, task.MaxImportance)
		}
		rec.Importance = &n
	}

	if v, ok := fields["dependencies"]; ok && v != nil {
		if list, isList := v.([]any); isList {
			deps, err := cast.ToStringSliceE(list)
			if err != nil {
				return RawRecord{}, fmt.Errorf("dependencies: %w", err)
			}
			for _, d := range deps {
				if d = strings.TrimSpace(d); d != "" {
					rec.Dependencies = append(rec.Dependencies, d)
				}
			}
		}
	}

	return rec, nil
}

func coerceDate(v any) (*task.Date, error) {
	switch val := v.(type) {
	case time.Time:
		d := task.DateOf(val)
		return &d, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		d, err := task.ParseDate(val)
		if err != nil {
			return nil, err
		}
		return &d, nil
	default:
		return nil, fmt.Errorf("unable to use %#v as a date", v)
	}
}

// BulkLoad appends the records that carry a title, applying defaults for
// absent fields. A supplied id that is empty or already queued is replaced
// with a fresh sequential id; collisions are reported in the result.
func (q *TaskQueue) BulkLoad(records []RawRecord) BulkLoadResult {
	res := BulkLoadResult{Received: len(records)}

	q.mu.Lock()
	defer q.mu.Unlock()

	for _, rec := range records {
		if !rec.HasTitle() {
			res.Skipped++
			continue
		}
		t := rec.toTask()
		if err := t.Validate(); err != nil {
			res.Skipped++
			continue
		}

		if t.ID == "" {
			t.ID = q.allocateIDLocked()
		} else if _, taken := q.ids[t.ID]; taken {
			fresh := q.allocateIDLocked()
			if res.Reassigned == nil {
				res.Reassigned = make(map[string]string)
			}
			res.Reassigned[t.ID] = fresh
			t.ID = fresh
		}

		q.ids[t.ID] = struct{}{}
		q.tasks = append(q.tasks, t)
		res.Accepted++
	}
	return res
}
