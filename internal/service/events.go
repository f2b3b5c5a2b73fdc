package service

import "sync"

// EventType defines the type of event
type EventType string

const (
	EventSchemaReset    EventType = "schema_reset"
	EventFixturesLoaded EventType = "fixtures_loaded"
	EventLoadFailed     EventType = "load_failed"
)

// Event represents an event that occurred in the system
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// LoadPayload describes the outcome of a load
type LoadPayload struct {
	Dirs        []string `json:"dirs"`
	DryRun      bool     `json:"dry_run,omitempty"`
	Directories int      `json:"directories"`
	Files       int      `json:"files"`
	Instances   int      `json:"instances"`
	Error       string   `json:"error,omitempty"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers without blocking
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
