package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/bizledger/backend/internal/domain/shared"
)

// EventSerializer round-trips domain events through JSON for outbox
// storage. Deserialization needs a concrete type per event type
// string, so every event the system emits is registered at startup.
type EventSerializer struct {
	mu        sync.RWMutex
	factories map[string]func() shared.DomainEvent
}

func NewEventSerializer() *EventSerializer {
	return &EventSerializer{
		factories: make(map[string]func() shared.DomainEvent),
	}
}

// Register maps an event type string to the concrete type of the given
// instance. The string must match what EventType() returns on the
// event.
func (s *EventSerializer) Register(eventType string, eventInstance shared.DomainEvent) {
	t := reflect.TypeOf(eventInstance)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.factories[eventType] = func() shared.DomainEvent {
		return reflect.New(t).Interface().(shared.DomainEvent)
	}
}

// Serialize encodes a domain event as JSON.
func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// Deserialize decodes JSON into a fresh instance of the registered
// type for eventType.
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	factory, ok := s.factories[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	event := factory()
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s event: %w", eventType, err)
	}
	return event, nil
}

// IsRegistered reports whether eventType can be deserialized.
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.factories[eventType]
	return ok
}
