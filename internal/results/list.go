package results

import (
	"slices"

	"everywhere/internal/domain"
)

// ResultList is the narrow view of a row sequence the event handler works on
type ResultList interface {
	Size() int
	FrozenCount() int
	PendingReplacements() PendingSet
	Row(i int) domain.Row
	AddRow(i int, row domain.Row)
	AppendRow(row domain.Row)
	RemoveRow(i int)
}

// SelectionCursor is the capability the live list needs from the selection widget
type SelectionCursor interface {
	SelectedIndices() []int
	SetSelectedIndex(index int)
}

// PendingSet holds uuids a replace expected to find but could not
type PendingSet map[string]struct{}

func (p PendingSet) Add(uuid string) { p[uuid] = struct{}{} }

// Take removes uuid and reports whether it was present
func (p PendingSet) Take(uuid string) bool {
	if _, ok := p[uuid]; !ok {
		return false
	}
	delete(p, uuid)
	return true
}

// liveList adapts the model's rows and keeps the selection pointing at the same row.
// Removals are held until the next insertion so a replace moves the selection once.
type liveList struct {
	model   *Model
	cursor  SelectionCursor
	removed []int // indices removed since the selection was last settled
}

func (l *liveList) Size() int                       { return len(l.model.rows) }
func (l *liveList) FrozenCount() int                { return l.model.FrozenCount() }
func (l *liveList) PendingReplacements() PendingSet { return l.model.pending }
func (l *liveList) Row(i int) domain.Row            { return l.model.rows[i] }

func (l *liveList) AddRow(i int, row domain.Row) {
	l.model.rows = slices.Insert(l.model.rows, i, row)
	l.settle(i)
}

func (l *liveList) AppendRow(row domain.Row) {
	l.AddRow(len(l.model.rows), row)
}

func (l *liveList) RemoveRow(i int) {
	l.model.rows = slices.Delete(l.model.rows, i, i+1)
	if l.cursor != nil {
		l.removed = append(l.removed, i)
	}
}

// settle moves the selection after the held removals and an insertion at
// inserted; inserted < 0 settles removals alone.
// A multi-selection touched by the change is not tracked and collapses to the top.
func (l *liveList) settle(inserted int) {
	removed := l.removed
	l.removed = nil
	if l.cursor == nil {
		return
	}

	selected := l.cursor.SelectedIndices()
	switch {
	case len(selected) == 0:
		return
	case len(selected) == 1:
		l.settleSingle(selected[0], removed, inserted)
	default:
		last := selected[len(selected)-1]
		for _, r := range removed {
			if r <= last {
				l.cursor.SetSelectedIndex(0)
				return
			}
		}
		if inserted >= 0 && inserted <= last {
			l.cursor.SetSelectedIndex(0)
		}
	}
}

func (l *liveList) settleSingle(s int, removed []int, inserted int) {
	target, gone := s, false
	for _, r := range removed {
		if r < target {
			target--
		} else if r == target {
			gone = true
			break
		}
	}

	switch {
	case inserted < 0:
	case gone:
		// the inserted row took the selected row's place
		target = inserted
	case len(removed) > 0 && inserted <= target:
		target++
	case inserted < target:
		target++
	case inserted == target:
		target = 0
	}

	if target != s {
		l.cursor.SetSelectedIndex(target)
	}
}

// scratchList is an invisible row buffer used to replay accumulated batches
type scratchList struct {
	rows    []domain.Row
	pending PendingSet
}

func newScratchList(pending PendingSet) *scratchList {
	return &scratchList{pending: pending}
}

func (l *scratchList) Size() int                       { return len(l.rows) }
func (l *scratchList) FrozenCount() int                { return 0 }
func (l *scratchList) PendingReplacements() PendingSet { return l.pending }
func (l *scratchList) Row(i int) domain.Row            { return l.rows[i] }
func (l *scratchList) AddRow(i int, row domain.Row)    { l.rows = slices.Insert(l.rows, i, row) }
func (l *scratchList) AppendRow(row domain.Row)        { l.rows = append(l.rows, row) }
func (l *scratchList) RemoveRow(i int)                 { l.rows = slices.Delete(l.rows, i, i+1) }
