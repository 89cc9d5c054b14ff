// Package notify carries user-facing notifications: the in-memory inbox a
// client drains, and an optional publisher that mirrors them elsewhere.
package notify

import (
	"context"
	"sync"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notification struct {
	WorkspaceID string    `json:"workspace_id"`
	Level       Level     `json:"level"`
	Message     string    `json:"message"`
	VideoID     string    `json:"video_id,omitempty"`
	Created_At  time.Time `json:"created_at"`
}

type Publisher interface {
	Publish(ctx context.Context, n Notification) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Notification) error { return nil }

// Inbox holds notifications until the client reads them.
type Inbox struct {
	mu    sync.Mutex
	items []Notification
	limit int
}

func NewInbox(limit int) *Inbox {
	return &Inbox{limit: limit}
}

// Push appends n, dropping the oldest entry once the inbox is full.
func (in *Inbox) Push(n Notification) {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.items = append(in.items, n)
	if in.limit > 0 && len(in.items) > in.limit {
		in.items = in.items[len(in.items)-in.limit:]
	}
}

func (in *Inbox) Drain() []Notification {
	in.mu.Lock()
	defer in.mu.Unlock()

	out := in.items
	in.items = nil
	return out
}

func (in *Inbox) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.items)
}
