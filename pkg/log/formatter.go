package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Formatter renders a log entry to bytes.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// TextFormatter renders entries as a single human-readable line:
//
//	2006-01-02T15:04:05.000Z INFO  server started component=http addr=:8080
type TextFormatter struct {
	// DisableTimestamp omits the leading timestamp, useful in tests.
	DisableTimestamp bool
}

// Format implements Formatter.
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var buf bytes.Buffer
	if !f.DisableTimestamp {
		buf.WriteString(entry.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z"))
		buf.WriteByte(' ')
	}
	fmt.Fprintf(&buf, "%-5s %s", entry.Level.String(), entry.Message)

	// Sort keys for deterministic output.
	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&buf, " %s=%v", k, entry.Fields[k])
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// JSONFormatter renders entries as one JSON object per line.
type JSONFormatter struct{}

// Format implements Formatter.
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	obj := make(map[string]interface{}, len(entry.Fields)+3)
	for k, v := range entry.Fields {
		obj[k] = v
	}
	obj["ts"] = entry.Timestamp.UTC().Format(time.RFC3339Nano)
	obj["level"] = entry.Level.String()
	obj["msg"] = entry.Message
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
