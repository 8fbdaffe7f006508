package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Alert kinds.
const (
	AlertSuccess = "success"
	AlertDanger  = "danger"
)

// Alert is a dismissible banner shown at the top of the content container.
type Alert struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// AlertBox holds at most one banner; showing a new one replaces the current.
type AlertBox struct {
	mu      sync.Mutex
	current *Alert
}

// Show replaces the current banner and returns the new one.
func (b *AlertBox) Show(kind, message string, now time.Time) Alert {
	alert := Alert{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
	}
	b.mu.Lock()
	b.current = &alert
	b.mu.Unlock()
	return alert
}

// Dismiss removes the banner if id still names the current one.
func (b *AlertBox) Dismiss(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil || b.current.ID != id {
		return false
	}
	b.current = nil
	return true
}

// Current returns the visible banner, if any.
func (b *AlertBox) Current() *Alert {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil
	}
	alert := *b.current
	return &alert
}
