package game

import "time"

type EventType string

const (
	EventSpawned   EventType = "spawned"
	EventMoved     EventType = "moved"
	EventDespawned EventType = "despawned"
	EventExpired   EventType = "expired"
)

// Event describes a change to a session that other parties may want to see.
type Event struct {
	Type   EventType `json:"type"`
	UserID string    `json:"userId"`
	Name   string    `json:"name"`
	From   string    `json:"from,omitempty"`
	To     string    `json:"to,omitempty"`
	At     time.Time `json:"at"`
}

// Publisher delivers session events to interested subscribers.
type Publisher interface {
	PublishEvent(Event) error
}
