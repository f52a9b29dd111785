package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchStarted    EventType = "SearchStarted"
	EventProviderFinished EventType = "ProviderFinished"
	EventSearchCompleted  EventType = "SearchCompleted"
	EventError            EventType = "Error"
	EventConfigLoaded     EventType = "ConfigLoaded"
	EventConfigSaved      EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchStartedEvent is emitted when a new query is dispatched to the providers
type SearchStartedEvent struct {
	Generation int
	Pattern    string
	Providers  []string
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// ProviderFinishedEvent is emitted when a provider's search returns
type ProviderFinishedEvent struct {
	Generation int
	ProviderID string
	Err        error
}

func (e ProviderFinishedEvent) Type() EventType { return EventProviderFinished }

// SearchCompletedEvent is emitted once every provider of a query has ended
type SearchCompletedEvent struct {
	Generation int
	Pattern    string
	Results    int
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Roots []string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
