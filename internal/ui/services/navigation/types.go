package navigation

// State holds all navigation-related state
type State struct {
	Cursor         int
	ViewportOffset int
	ViewportHeight int
	MaxIndex       int
}

// Direction represents movement directions
type Direction string

const (
	DirectionUp       Direction = "up"
	DirectionDown     Direction = "down"
	DirectionPageUp   Direction = "pageup"
	DirectionPageDown Direction = "pagedown"
	DirectionHome     Direction = "home"
	DirectionEnd      Direction = "end"
)

// CursorMovedEvent is published whenever the cursor changes.
// ByUser is false when the result list moved the cursor to follow an insertion.
type CursorMovedEvent struct {
	OldIndex int
	NewIndex int
	ByUser   bool
}

type ViewportChangedEvent struct {
	Offset int
	Height int
}
