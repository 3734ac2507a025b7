// Package quota tracks daily download events per user.
package quota

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Tracker counts and records quota-consuming events. The exporter is its only
// consumer: it counts since the UTC midnight boundary before rendering and
// records one event after a successful encode.
type Tracker interface {
	CountEventsSince(userID string, since time.Time) (int, error)
	RecordEvent(userID string, at time.Time) error
}

// StartOfDayUTC returns the UTC-midnight-aligned day boundary for t.
func StartOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// FileTracker is a Tracker persisted as a JSON event log, one timestamp list
// per user.
type FileTracker struct {
	mu     sync.Mutex
	path   string
	events map[string][]time.Time
}

// NewFileTracker opens (or starts) the event log at path.
func NewFileTracker(path string) *FileTracker {
	t := &FileTracker{
		path:   path,
		events: make(map[string][]time.Time),
	}
	if data, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(data, &t.events)
	}
	return t
}

// CountEventsSince implements Tracker.
func (t *FileTracker) CountEventsSince(userID string, since time.Time) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	count := 0
	for _, at := range t.events[userID] {
		if !at.Before(since) {
			count++
		}
	}
	return count, nil
}

// RecordEvent implements Tracker.
func (t *FileTracker) RecordEvent(userID string, at time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[userID] = append(t.events[userID], at)
	return t.persist()
}

func (t *FileTracker) persist() error {
	data, err := json.MarshalIndent(t.events, "", "  ")
	if err != nil {
		return fmt.Errorf("encode quota log: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("create quota dir: %w", err)
	}
	if err := os.WriteFile(t.path, data, 0o644); err != nil {
		return fmt.Errorf("write quota log: %w", err)
	}
	return nil
}
