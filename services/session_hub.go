package services

import (
	"sync"

	"hotel-booking/models"
)

type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "signed_in"
	SessionSignedOut SessionEventType = "signed_out"
)

type SessionEvent struct {
	Type SessionEventType `json:"type"`
	User *models.User     `json:"user,omitempty"`
}

// SessionHub fans session changes out to every subscriber of a user.
type SessionHub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan SessionEvent
}

func NewSessionHub() *SessionHub {
	return &SessionHub{subs: make(map[string]map[int]chan SessionEvent)}
}

// Subscribe returns a channel of userID's session events. cancel closes it.
func (h *SessionHub) Subscribe(userID string) (<-chan SessionEvent, func()) {
	ch := make(chan SessionEvent, 16)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[int]chan SessionEvent)
	}
	h.subs[userID][id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[userID], id)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish never blocks; a subscriber whose buffer is full misses the event.
func (h *SessionHub) Publish(userID string, ev SessionEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs[userID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *SessionHub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
