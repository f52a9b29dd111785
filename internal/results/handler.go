package results

import (
	"log"
	"slices"

	"everywhere/internal/domain"
)

// EventHandler applies result events to a ResultList one at a time
type EventHandler struct {
	policy     *OrderingPolicy
	fullSearch bool // replace lookups also scan the frozen prefix
}

// NewEventHandler creates an event handler using policy for insertions
func NewEventHandler(policy *OrderingPolicy, fullSearch bool) *EventHandler {
	return &EventHandler{
		policy:     policy,
		fullSearch: fullSearch,
	}
}

// Handle applies a single event to list
func (h *EventHandler) Handle(list ResultList, event domain.ResultEvent) {
	switch e := event.(type) {
	case domain.ResultAdded:
		h.handleAdded(list, e.Item)
	case domain.ResultReplaced:
		h.handleReplaced(list, e.UUIDsToReplace, e.NewItem)
	case domain.ResultEnd:
		// provider completion is tracked by the session
	}
}

func (h *EventHandler) handleAdded(list ResultList, item *domain.ResultItem) {
	if list.PendingReplacements().Take(item.UUID) {
		log.Printf("Dropping %s from %s: already replaced", item.UUID, item.ProviderID)
		return
	}
	h.insert(list, item)
}

func (h *EventHandler) handleReplaced(list ResultList, uuids []string, newItem *domain.ResultItem) {
	var found []int
	for _, uuid := range uuids {
		index := h.find(list, uuid)
		if index < 0 {
			log.Printf("Replace target %s not found, waiting for it to be added", uuid)
			list.PendingReplacements().Add(uuid)
			continue
		}
		found = append(found, index)
	}

	if len(found) == 0 {
		h.insert(list, newItem)
		return
	}

	slices.Sort(found)
	found = slices.Compact(found)
	for i := len(found) - 1; i >= 0; i-- {
		list.RemoveRow(found[i])
	}
	// the replacement takes the first freed slot; other matches are dropped
	list.AddRow(found[0], domain.ItemRow{Item: newItem})
}

// insert places item by the ordering policy and bootstraps the loading row
func (h *EventHandler) insert(list ResultList, item *domain.ResultItem) {
	list.AddRow(h.policy.IndexToAdd(list, item), domain.ItemRow{Item: item})
	if list.Size() == 1 {
		list.AppendRow(domain.LoadingIndicator)
	}
}

// find returns the index of the row holding uuid, or -1
func (h *EventHandler) find(list ResultList, uuid string) int {
	start := list.FrozenCount()
	if h.fullSearch {
		start = 0
	}
	for i := start; i < list.Size(); i++ {
		if item := domain.RowItem(list.Row(i)); item != nil && item.UUID == uuid {
			return i
		}
	}
	return -1
}
