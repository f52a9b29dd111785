package selection

// State holds selection state
type State struct {
	Selected     map[int]bool // marked row indices, empty means the cursor row alone
	LastSelected int          // anchor for range selection
}

// Event types
type SelectionChangedEvent struct {
	Added   []int
	Removed []int
	Total   int
}

type SelectionClearedEvent struct{}
