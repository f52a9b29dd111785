// Package results holds the incremental result list: ordering, event
// application, freezing and the live/scratch list adapters.
//
// A Model is single-writer. All methods must be called from one goroutine
// (the UI loop); nothing in this package locks.
package results

import (
	"everywhere/internal/domain"
)

// Model owns the live result rows shown by the UI
type Model struct {
	rows    []domain.Row
	freezer Freezer
	valid   bool
	pending PendingSet

	policy  *OrderingPolicy
	handler *EventHandler
	live    *liveList
}

// Options configures a Model
type Options struct {
	Priorities        map[string]int // provider id -> priority
	FullReplaceSearch bool
	Cursor            SelectionCursor // may be nil
}

// NewModel creates an empty, valid model
func NewModel(opts Options) *Model {
	policy := NewOrderingPolicy(opts.Priorities)
	m := &Model{
		pending: make(PendingSet),
		policy:  policy,
		handler: NewEventHandler(policy, opts.FullReplaceSearch),
		valid:   true,
	}
	m.live = &liveList{model: m, cursor: opts.Cursor}
	return m
}

// SetPattern sets the query the rows are ordered against
func (m *Model) SetPattern(pattern string) {
	m.policy.SetPattern(pattern)
}

// Pattern returns the current query
func (m *Model) Pattern() string {
	return m.policy.Pattern()
}

// Reset clears everything for a new search session
func (m *Model) Reset() {
	m.rows = nil
	m.pending = make(PendingSet)
	m.valid = true
	m.freezer.Disable()
}

// Invalidate marks the rows stale; the next applied batch resets first
func (m *Model) Invalidate() {
	m.valid = false
}

// IsValid reports whether the rows belong to the current session
func (m *Model) IsValid() bool {
	return m.valid
}

// RemoveLoadingItem drops the trailing loading row, if any
func (m *Model) RemoveLoadingItem() {
	if n := len(m.rows); n > 0 && domain.IsLoadingRow(m.rows[n-1]) {
		m.live.RemoveRow(n - 1)
		m.live.settle(-1)
	}
}

// Apply consumes one throttled batch
func (m *Model) Apply(batch domain.ThrottledBatch) {
	if !m.valid {
		m.Reset()
	}

	switch b := batch.(type) {
	case domain.AccumulatedBatch:
		m.applyAccumulated(b.Items)
	case domain.SingleEvent:
		m.handler.Handle(m.live, b.Event)
	}
}

// applyAccumulated replays events off-screen and appends the outcome in one step.
// Scratch replay only matches sequential application on an empty list, so a
// non-empty list gets the events applied in place.
func (m *Model) applyAccumulated(events []domain.ResultEvent) {
	if len(m.rows) > 0 {
		for _, event := range events {
			m.handler.Handle(m.live, event)
		}
		return
	}

	scratch := newScratchList(m.pending)
	for _, event := range events {
		m.handler.Handle(scratch, event)
	}
	m.rows = append(m.rows, scratch.rows...)
}

// Size returns the number of rows including the loading row
func (m *Model) Size() int {
	return len(m.rows)
}

// Row returns the row at index i
func (m *Model) Row(i int) domain.Row {
	return m.rows[i]
}

// Rows returns a copy of the current rows
func (m *Model) Rows() []domain.Row {
	return append([]domain.Row(nil), m.rows...)
}

// ItemCount returns the number of item rows
func (m *Model) ItemCount() int {
	n := len(m.rows)
	if n > 0 && domain.IsLoadingRow(m.rows[n-1]) {
		n--
	}
	return n
}

// PendingReplacements exposes the uuids waiting for a late add
func (m *Model) PendingReplacements() PendingSet {
	return m.pending
}

// FrozenCount is the effective frozen prefix, never larger than Size
func (m *Model) FrozenCount() int {
	return min(m.freezer.Count(), len(m.rows))
}

// EnableFreezing turns on prefix pinning
func (m *Model) EnableFreezing() {
	m.freezer.Enable()
}

// IsFreezingEnabled reports whether prefix pinning is on
func (m *Model) IsFreezingEnabled() bool {
	return m.freezer.IsEnabled()
}

// FreezeIfEnabled pins the first n rows
func (m *Model) FreezeIfEnabled(n int) {
	m.freezer.FreezeIfEnabled(n)
}

// FreezeAllIfEnabled pins every current row
func (m *Model) FreezeAllIfEnabled() {
	m.freezer.FreezeAllIfEnabled(len(m.rows))
}
