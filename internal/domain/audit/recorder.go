package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"airsolutions/internal/core/id"
)

// Action is the kind of change recorded in the audit trail.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionPayment Action = "payment"
	ActionCancel  Action = "cancel"
	ActionDelete  Action = "delete"
)

// Entry is one recorded change.
type Entry struct {
	ID         id.ID           `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   id.ID           `json:"entityId"`
	Action     Action          `json:"action"`
	Username   string          `json:"username,omitempty"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Recorder persists and reads the audit trail.
type Recorder interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action Action, changes any) error
	History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error)
}

// Nop discards every entry.
var Nop Recorder = nopRecorder{}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, string, id.ID, Action, any) error { return nil }

func (nopRecorder) History(context.Context, string, id.ID, int) ([]Entry, error) {
	return []Entry{}, nil
}

// MemoryRecorder keeps entries in process, newest first on read.
type MemoryRecorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Record implements Recorder.
func (m *MemoryRecorder) Record(ctx context.Context, entityType string, entityID id.ID, action Action, changes any) error {
	raw, err := json.Marshal(changes)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{
		ID:         id.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Username:   usernameFrom(ctx),
		Changes:    raw,
		CreatedAt:  time.Now().UTC(),
	})
	return nil
}

// History implements Recorder.
func (m *MemoryRecorder) History(_ context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Entry{}
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.EntityType != entityType || e.EntityID != entityID {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
