package domain

// ResultEvent is one upstream change to the result list.
// Implemented by ResultAdded, ResultReplaced and ResultEnd only.
type ResultEvent interface {
	isResultEvent()
}

// ResultAdded is emitted when a provider finds a new item
type ResultAdded struct {
	Item *ResultItem
}

// ResultReplaced is emitted when a provider supersedes earlier items
type ResultReplaced struct {
	UUIDsToReplace []string
	NewItem        *ResultItem
}

// ResultEnd is emitted when a provider has no more results
type ResultEnd struct {
	ProviderID string
}

func (ResultAdded) isResultEvent()    {}
func (ResultReplaced) isResultEvent() {}
func (ResultEnd) isResultEvent()      {}

// ThrottledBatch is what the throttler hands to the result list model.
// Implemented by AccumulatedBatch and SingleEvent only.
type ThrottledBatch interface {
	isThrottledBatch()
	Events() []ResultEvent
}

// AccumulatedBatch holds events coalesced while the consumer was busy
type AccumulatedBatch struct {
	Items []ResultEvent
}

// SingleEvent passes one event through untouched
type SingleEvent struct {
	Event ResultEvent
}

func (AccumulatedBatch) isThrottledBatch() {}
func (SingleEvent) isThrottledBatch()      {}

func (b AccumulatedBatch) Events() []ResultEvent { return b.Items }
func (b SingleEvent) Events() []ResultEvent      { return []ResultEvent{b.Event} }
