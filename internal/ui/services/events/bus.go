package events

import (
	"fmt"
	"slices"
	"sync"
)

// Bus delivers UI service events synchronously on the publishing goroutine.
// UI services run inside the bubbletea update loop, so listeners observe
// state changes before the next message is processed.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]func(interface{})
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[string][]func(interface{})),
	}
}

// Subscribe registers a listener for an event type, see TypeOf
func (b *Bus) Subscribe(eventType string, handler func(interface{})) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners[eventType] = append(b.listeners[eventType], handler)
}

// Publish sends an event to all listeners of its type
func (b *Bus) Publish(event interface{}) {
	b.mu.RLock()
	handlers := slices.Clone(b.listeners[TypeOf(event)])
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// TypeOf returns the event type key used for subscriptions
func TypeOf(event interface{}) string {
	return fmt.Sprintf("%T", event)
}
