// Package heartbeat writes and checks the sync heartbeat file for
// ModelCheck.
//
// A writer on the file server stamps the file with the current UTC time
// on a schedule; checkers elsewhere read the stamp through the sync
// layer and flag it when it stops advancing.
package heartbeat

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoHeartbeat is returned when the heartbeat file does not exist,
// typically because sync never delivered it.
var ErrNoHeartbeat = errors.New("heartbeat file not found")

// ErrEmptyHeartbeat is returned when the heartbeat file exists but
// holds no timestamp, typically because the writer died mid-write.
var ErrEmptyHeartbeat = errors.New("heartbeat file is empty")

// Status reports one heartbeat check.
type Status struct {
	Path      string
	Timestamp time.Time
	Age       time.Duration
	Stale     bool
}

// Write stamps path with the current UTC time, creating parent
// directories as needed. Returns the written timestamp.
func Write(path string) (time.Time, error) {
	now := time.Now().UTC()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return time.Time{}, fmt.Errorf("failed to create heartbeat directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(now.Format(time.RFC3339Nano)+"\n"), 0644); err != nil {
		return time.Time{}, fmt.Errorf("failed to write heartbeat: %w", err)
	}
	return now, nil
}

// Check reads the heartbeat at path and measures its age against the
// staleness threshold.
func Check(path string, threshold time.Duration) (*Status, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoHeartbeat, path)
		}
		return nil, fmt.Errorf("failed to read heartbeat: %w", err)
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyHeartbeat, path)
	}

	ts, err := parseTimestamp(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse heartbeat timestamp %q: %w", raw, err)
	}

	age := time.Since(ts)
	return &Status{
		Path:      path,
		Timestamp: ts,
		Age:       age,
		Stale:     age > threshold,
	}, nil
}

// parseTimestamp accepts RFC3339 stamps with or without fractional
// seconds. A stamp without a zone is treated as UTC, matching writers
// that omit it.
func parseTimestamp(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", raw, time.UTC)
}
