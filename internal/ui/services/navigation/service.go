package navigation

import (
	"everywhere/internal/ui/services/events"
)

// chromeHeight is the number of terminal lines not available to result rows
const chromeHeight = 6

// Service moves the cursor over the result rows and keeps it in the viewport
type Service struct {
	state   *State
	bus     events.EventBus
	countFn func() int // number of selectable rows
}

// NewService creates a new navigation service
func NewService(bus events.EventBus) *Service {
	return &Service{
		state: &State{
			ViewportHeight: 20, // updated on the first window size message
		},
		bus: bus,
	}
}

// SetCountFunction sets the function reporting how many rows can be selected
func (s *Service) SetCountFunction(fn func() int) {
	s.countFn = fn
}

// GetCursor returns current cursor position
func (s *Service) GetCursor() int {
	return s.state.Cursor
}

// GetViewportOffset returns current viewport offset
func (s *Service) GetViewportOffset() int {
	return s.state.ViewportOffset
}

// GetViewportHeight returns current viewport height
func (s *Service) GetViewportHeight() int {
	return s.state.ViewportHeight
}

// VisibleEnd returns the index just past the last visible row
func (s *Service) VisibleEnd() int {
	return s.state.ViewportOffset + s.state.ViewportHeight
}

// SetViewportHeight updates the viewport from the terminal height
func (s *Service) SetViewportHeight(height int) {
	s.state.ViewportHeight = max(height-chromeHeight, 1)
	s.ensureVisible()
}

// Reset puts the cursor back on the first row
func (s *Service) Reset() {
	s.state.ViewportOffset = 0
	s.moveTo(0, false)
}

// Navigate handles a user movement
func (s *Service) Navigate(direction Direction) {
	s.refreshMax()
	target := s.state.Cursor

	switch direction {
	case DirectionUp:
		target--
	case DirectionDown:
		target++
	case DirectionPageUp:
		target -= s.state.ViewportHeight - 1
	case DirectionPageDown:
		target += s.state.ViewportHeight - 1
	case DirectionHome:
		target = 0
	case DirectionEnd:
		target = s.state.MaxIndex
	}

	s.moveTo(target, true)
}

// MoveToIndex moves the cursor without it counting as user interaction
func (s *Service) MoveToIndex(index int) {
	s.refreshMax()
	s.moveTo(index, false)
}

func (s *Service) moveTo(index int, byUser bool) {
	old := s.state.Cursor
	s.state.Cursor = s.clampIndex(index)
	s.ensureVisible()

	if old != s.state.Cursor || byUser {
		s.bus.Publish(CursorMovedEvent{
			OldIndex: old,
			NewIndex: s.state.Cursor,
			ByUser:   byUser,
		})
	}
}

func (s *Service) refreshMax() {
	if s.countFn == nil {
		return
	}
	s.state.MaxIndex = max(s.countFn()-1, 0)
}

func (s *Service) clampIndex(index int) int {
	if index < 0 {
		return 0
	}
	if index > s.state.MaxIndex {
		return s.state.MaxIndex
	}
	return index
}

func (s *Service) ensureVisible() {
	offset := s.state.ViewportOffset
	if s.state.Cursor < offset {
		offset = s.state.Cursor
	} else if s.state.Cursor >= offset+s.state.ViewportHeight {
		offset = s.state.Cursor - s.state.ViewportHeight + 1
	}

	if offset != s.state.ViewportOffset {
		s.state.ViewportOffset = offset
		s.bus.Publish(ViewportChangedEvent{
			Offset: offset,
			Height: s.state.ViewportHeight,
		})
	}
}
