package selection

import (
	"sort"

	"everywhere/internal/ui/services/events"
)

// Service tracks which result rows are selected.
// It implements results.SelectionCursor so the live result list can keep the
// selection on the same rows while results are inserted.
type Service struct {
	state    *State
	bus      events.EventBus
	cursorFn func() int // current cursor row
	moveFn   func(int)  // moves the cursor
	countFn  func() int // number of selectable rows
}

// NewService creates a new selection service
func NewService(bus events.EventBus) *Service {
	return &Service{
		state: &State{
			Selected:     make(map[int]bool),
			LastSelected: -1,
		},
		bus: bus,
	}
}

// SetCursorFunctions wires the service to the navigation cursor
func (s *Service) SetCursorFunctions(cursor func() int, move func(int), count func() int) {
	s.cursorFn = cursor
	s.moveFn = move
	s.countFn = count
}

// SelectedIndices returns the marked rows, or the cursor row when nothing is marked
func (s *Service) SelectedIndices() []int {
	if len(s.state.Selected) > 0 {
		return s.sorted()
	}
	if s.cursorFn == nil || s.countFn == nil || s.countFn() == 0 {
		return nil
	}
	return []int{s.cursorFn()}
}

// SetSelectedIndex moves the selection to index. A lone mark is moved and the
// cursor stays put; several marks are dropped and the cursor moves instead.
func (s *Service) SetSelectedIndex(index int) {
	switch len(s.state.Selected) {
	case 0:
	case 1:
		s.moveMark(index)
		return
	default:
		s.DeselectAll()
	}
	if s.moveFn != nil {
		s.moveFn(index)
	}
}

func (s *Service) moveMark(index int) {
	old := s.sorted()[0]
	if old == index {
		return
	}
	s.state.Selected = map[int]bool{index: true}
	if s.state.LastSelected == old {
		s.state.LastSelected = index
	}

	s.bus.Publish(SelectionChangedEvent{
		Added:   []int{index},
		Removed: []int{old},
		Total:   1,
	})
}

// Toggle toggles the mark at index
func (s *Service) Toggle(index int) {
	var added, removed []int
	if s.state.Selected[index] {
		delete(s.state.Selected, index)
		removed = append(removed, index)
	} else {
		s.state.Selected[index] = true
		added = append(added, index)
	}
	s.state.LastSelected = index

	s.bus.Publish(SelectionChangedEvent{
		Added:   added,
		Removed: removed,
		Total:   len(s.state.Selected),
	})
}

// SelectRange marks every row from the last toggled one to toIndex
func (s *Service) SelectRange(toIndex int) {
	if s.state.LastSelected < 0 {
		s.Toggle(toIndex)
		return
	}

	start, end := s.state.LastSelected, toIndex
	if start > end {
		start, end = end, start
	}

	var added []int
	for i := start; i <= end; i++ {
		if !s.state.Selected[i] {
			s.state.Selected[i] = true
			added = append(added, i)
		}
	}

	if len(added) > 0 {
		s.bus.Publish(SelectionChangedEvent{
			Added: added,
			Total: len(s.state.Selected),
		})
	}
}

// DeselectAll clears all marks
func (s *Service) DeselectAll() {
	s.state.Selected = make(map[int]bool)
	s.state.LastSelected = -1

	s.bus.Publish(SelectionClearedEvent{})
}

// IsSelected reports whether index is marked
func (s *Service) IsSelected(index int) bool {
	return s.state.Selected[index]
}

// GetCount returns the number of marked rows
func (s *Service) GetCount() int {
	return len(s.state.Selected)
}

func (s *Service) sorted() []int {
	indices := make([]int, 0, len(s.state.Selected))
	for i := range s.state.Selected {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices
}
