package results

import (
	"strings"

	"everywhere/internal/domain"
)

// OrderingPolicy decides where a new item belongs in a result list
type OrderingPolicy struct {
	pattern    string
	priorities map[string]int // provider id -> priority, missing means 0
}

// NewOrderingPolicy creates a policy for the given provider priorities
func NewOrderingPolicy(priorities map[string]int) *OrderingPolicy {
	p := &OrderingPolicy{priorities: make(map[string]int, len(priorities))}
	for id, prio := range priorities {
		p.priorities[id] = prio
	}
	return p
}

// SetPattern sets the active search pattern used to order commands
func (p *OrderingPolicy) SetPattern(pattern string) {
	p.pattern = pattern
}

// Pattern returns the active search pattern
func (p *OrderingPolicy) Pattern() string {
	return p.pattern
}

// Priority returns the priority of a provider
func (p *OrderingPolicy) Priority(providerID string) int {
	return p.priorities[providerID]
}

// IndexToAdd returns the insertion index for item in list
func (p *OrderingPolicy) IndexToAdd(list ResultList, item *domain.ResultItem) int {
	if item.IsCommand {
		return p.commandIndex(list, item)
	}

	for i := list.FrozenCount(); i < list.Size(); i++ {
		existing := domain.RowItem(list.Row(i))
		if existing == nil {
			continue // loading row is never an anchor
		}
		if p.weaker(existing, item) {
			return i
		}
	}
	return lastIndexToInsertItem(list)
}

// commandIndex scans the leading command block from the top, frozen or not
func (p *OrderingPolicy) commandIndex(list ResultList, item *domain.ResultItem) int {
	for i := 0; i < list.Size(); i++ {
		existing := domain.RowItem(list.Row(i))
		if existing == nil || !existing.IsCommand {
			return i
		}
		if p.commandLess(item, existing) {
			return i
		}
	}
	return list.Size()
}

// commandLess orders pattern-prefixed commands first, then by case-insensitive text
func (p *OrderingPolicy) commandLess(a, b *domain.ResultItem) bool {
	pattern := strings.ToLower(p.pattern)
	textA := strings.ToLower(a.PresentationText)
	textB := strings.ToLower(b.PresentationText)

	prefixA := strings.HasPrefix(textA, pattern)
	prefixB := strings.HasPrefix(textB, pattern)
	if prefixA != prefixB {
		return prefixA
	}
	return textA < textB
}

// weaker reports whether existing orders strictly after candidate
func (p *OrderingPolicy) weaker(existing, candidate *domain.ResultItem) bool {
	prioExisting := p.Priority(existing.ProviderID)
	prioCandidate := p.Priority(candidate.ProviderID)
	if prioExisting != prioCandidate {
		return prioExisting < prioCandidate
	}
	return existing.Weight < candidate.Weight
}

// lastIndexToInsertItem is the end of the list, before a trailing loading row
func lastIndexToInsertItem(list ResultList) int {
	size := list.Size()
	if size > 0 && domain.IsLoadingRow(list.Row(size-1)) {
		return size - 1
	}
	return size
}
