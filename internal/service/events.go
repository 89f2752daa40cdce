package service

import "sync"

// EventType defines the type of event
type EventType string

const (
	EventDiagramChanged EventType = "diagram_changed"
	EventHistoryUndone  EventType = "history_undone"
	EventHistoryRedone  EventType = "history_redone"
	EventDiagramReset   EventType = "diagram_reset"
	EventSnapshotSaved  EventType = "snapshot_saved"
)

// Event represents an event that occurred in the system
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ChangePayload accompanies history events
type ChangePayload struct {
	Action  string `json:"action"`
	CanUndo bool   `json:"can_undo"`
	CanRedo bool   `json:"can_redo"`
	Nodes   int    `json:"nodes"`
	Links   int    `json:"links"`
	Groups  int    `json:"groups"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Unsubscribe removes a subscriber. The channel is not closed.
func (eb *EventBus) Unsubscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for i, sub := range eb.subscribers {
		if sub == ch {
			eb.subscribers = append(eb.subscribers[:i:i], eb.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
