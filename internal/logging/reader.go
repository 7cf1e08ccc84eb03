// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"strings"
)

// Entry is one decoded log record.
type Entry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Logger    string         `json:"logger,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"-"`
}

// reserved keys are lifted into Entry; everything else lands in Fields.
var reserved = map[string]bool{
	"timestamp": true, "level": true, "logger": true, "message": true, "caller": true, "stacktrace": true,
}

// ReadEntries returns up to limit records from path, newest first.
// level filters by exact level name (case-insensitive); empty keeps all.
// A missing file yields no entries. Lines that are not JSON are skipped.
func ReadEntries(path, level string, limit int) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	level = strings.ToUpper(level)

	var entries []Entry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		var raw map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &raw); err != nil {
			continue
		}
		e := Entry{
			Timestamp: str(raw["timestamp"]),
			Level:     str(raw["level"]),
			Logger:    str(raw["logger"]),
			Message:   str(raw["message"]),
		}
		if level != "" && e.Level != level {
			continue
		}
		for k, v := range raw {
			if reserved[k] {
				continue
			}
			if e.Fields == nil {
				e.Fields = make(map[string]any)
			}
			e.Fields[k] = v
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Newest first
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
