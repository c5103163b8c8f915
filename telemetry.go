package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bekirdag/vdcdash/internal/session"
)

// telemetryEvent is one line of the NDJSON event journal.
type telemetryEvent struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
	Project   string    `json:"project,omitempty"`
	Step      string    `json:"step,omitempty"`
	Phase     string    `json:"phase,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// telemetryLogger appends events to a journal file. A nil logger drops
// everything, so callers never check whether the journal is enabled.
type telemetryLogger struct {
	path      string
	sessionID string
	userID    string

	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
	dead bool
}

func newTelemetryLogger(path, sessionID, userID string) *telemetryLogger {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	return &telemetryLogger{
		path:      path,
		sessionID: strings.TrimSpace(sessionID),
		userID:    strings.TrimSpace(userID),
	}
}

// open must be called with mu held. A journal that cannot be opened is
// not retried.
func (t *telemetryLogger) open() bool {
	if t.enc != nil {
		return true
	}
	if t.dead {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		t.dead = true
		return false
	}
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.dead = true
		return false
	}
	t.file = f
	t.enc = json.NewEncoder(f)
	return true
}

func (t *telemetryLogger) Emit(event telemetryEvent) {
	if t == nil || strings.TrimSpace(event.Event) == "" {
		return
	}
	if event.SessionID == "" {
		event.SessionID = t.sessionID
	}
	if event.UserID = strings.TrimSpace(event.UserID); event.UserID == "" {
		event.UserID = t.userID
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open() {
		return
	}
	_ = t.enc.Encode(event)
}

// EmitChange journals one applied session command together with the
// position it was applied at.
func (t *telemetryLogger) EmitChange(change session.Change, snap session.Snapshot) {
	t.Emit(telemetryEvent{
		Event:   change.Command,
		Detail:  change.Detail,
		Project: snap.ProjectID,
		Step:    snap.StepID,
		Phase:   snap.Phase,
	})
}

func (t *telemetryLogger) Close() error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dead = true
	t.enc = nil
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	return err
}

func newTelemetrySessionID() string {
	return uuid.NewString()
}

// resolveTelemetryUserID prefers VDCDASH_USER over the login name.
func resolveTelemetryUserID() string {
	for _, name := range []string{"VDCDASH_USER", "USER", "USERNAME"} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}
