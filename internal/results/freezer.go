package results

// Freezer tracks how many leading rows are pinned against reordering
type Freezer struct {
	frozenCountToApply int
	enabled            bool
}

// Enable turns freezing on
func (f *Freezer) Enable() {
	f.enabled = true
}

// Disable turns freezing off and forgets the frozen prefix
func (f *Freezer) Disable() {
	f.enabled = false
	f.frozenCountToApply = 0
}

// IsEnabled reports whether freezing is on
func (f *Freezer) IsEnabled() bool {
	return f.enabled
}

// FreezeIfEnabled grows the frozen prefix to n; it never shrinks
func (f *Freezer) FreezeIfEnabled(n int) {
	if !f.enabled {
		return
	}
	if n > f.frozenCountToApply {
		f.frozenCountToApply = n
	}
}

// FreezeAllIfEnabled freezes a list of the given size entirely
func (f *Freezer) FreezeAllIfEnabled(size int) {
	f.FreezeIfEnabled(size)
}

// Count is the effective frozen prefix length
func (f *Freezer) Count() int {
	if !f.enabled {
		return 0
	}
	return f.frozenCountToApply
}
