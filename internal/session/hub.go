// Package session keeps the process-wide view of who is signed in and lets
// other components react to sign-in, sign-out and profile changes.
package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipehub/backend/internal/types"
)

// EventKind names an auth state transition
type EventKind string

const (
	SignedUp       EventKind = "signed_up"
	SignedIn       EventKind = "signed_in"
	SignedOut      EventKind = "signed_out"
	TokenRefreshed EventKind = "token_refreshed"
	ProfileUpdated EventKind = "profile_updated"
	AccountDeleted EventKind = "account_deleted"
)

// Event is published by the auth service on every transition
type Event struct {
	Kind      EventKind
	Principal types.Profile
	At        time.Time
}

// ends reports whether the event removes the principal from the active set
func (e Event) ends() bool {
	return e.Kind == SignedOut || e.Kind == AccountDeleted
}

// Hub holds the current principal of every active user. Consumers get
// copies; only Publish changes the state.
type Hub struct {
	mu          sync.RWMutex
	principals  map[string]types.Profile
	subscribers map[int]func(Event)
	nextID      int
}

// NewHub returns an empty hub
func NewHub() *Hub {
	return &Hub{
		principals:  make(map[string]types.Profile),
		subscribers: make(map[int]func(Event)),
	}
}

// Subscribe registers fn for every later event. Calling the returned
// function removes it; calling it twice is harmless.
func (h *Hub) Subscribe(fn func(Event)) (unsubscribe func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subscribers[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, id)
			h.mu.Unlock()
		})
	}
}

// Publish updates the snapshot and then delivers e to subscribers, in the
// caller's goroutine and outside the lock so a subscriber may read the hub.
func (h *Hub) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	h.mu.Lock()
	if e.ends() {
		delete(h.principals, e.Principal.UID)
	} else {
		h.principals[e.Principal.UID] = e.Principal
	}
	subs := make([]func(Event), 0, len(h.subscribers))
	for _, fn := range h.subscribers {
		subs = append(subs, fn)
	}
	h.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}

// Current returns a copy of the principal for userID
func (h *Hub) Current(userID string) (types.Profile, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.principals[userID]
	return p, ok
}

// Active returns the number of signed-in users
func (h *Hub) Active() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.principals)
}

// AuditLogger returns a subscriber that writes every event to log
func AuditLogger(log *zap.Logger) func(Event) {
	return func(e Event) {
		log.Info("auth event",
			zap.String("event", string(e.Kind)),
			zap.String("user_id", e.Principal.UID),
			zap.Time("at", e.At),
		)
	}
}
