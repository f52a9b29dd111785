package ui

import (
	"everywhere/internal/eventbus"
	"everywhere/internal/session"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// batchMsg carries one throttled batch of the running query
type batchMsg struct {
	batch   session.Batch
	batches <-chan session.Batch
}

// batchesClosedMsg signals that a query's batch channel was closed
type batchesClosedMsg struct {
	generation int
}
