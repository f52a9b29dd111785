package results

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"everywhere/internal/domain"
)

type fakeCursor struct {
	selected []int
}

func (c *fakeCursor) SelectedIndices() []int {
	return append([]int(nil), c.selected...)
}

func (c *fakeCursor) SetSelectedIndex(index int) {
	c.selected = []int{index}
}

func seededLive(cursor *fakeCursor, n int) *liveList {
	m := NewModel(Options{Cursor: cursor})
	for i := 0; i < n; i++ {
		m.rows = append(m.rows, domain.ItemRow{Item: item(string(rune('a'+i)), "files", 0)})
	}
	return m.live
}

func TestLiveInsertShiftsSingleSelection(t *testing.T) {
	tests := []struct {
		name     string
		selected int
		insertAt int
		want     []int
	}{
		{"before selection", 2, 0, []int{3}},
		{"at selection", 2, 2, []int{0}},
		{"at top selection", 0, 0, []int{0}},
		{"after selection", 1, 3, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cursor := &fakeCursor{selected: []int{tt.selected}}
			l := seededLive(cursor, 4)

			l.AddRow(tt.insertAt, domain.ItemRow{Item: item("new", "files", 0)})

			assert.Equal(t, tt.want, cursor.selected)
			assert.Equal(t, 5, l.Size())
		})
	}
}

func TestLiveInsertResetsSpanningMultiSelection(t *testing.T) {
	cursor := &fakeCursor{selected: []int{1, 4}}
	l := seededLive(cursor, 5)

	l.AddRow(3, domain.ItemRow{Item: item("new", "files", 0)})

	assert.Equal(t, []int{0}, cursor.selected)
}

func TestLiveInsertKeepsMultiSelectionAbove(t *testing.T) {
	cursor := &fakeCursor{selected: []int{1, 2}}
	l := seededLive(cursor, 5)

	l.AppendRow(domain.LoadingIndicator)

	assert.Equal(t, []int{1, 2}, cursor.selected)
}

func TestLiveInsertWithoutSelection(t *testing.T) {
	cursor := &fakeCursor{}
	l := seededLive(cursor, 2)

	l.AddRow(0, domain.ItemRow{Item: item("new", "files", 0)})

	assert.Empty(t, cursor.selected)
}

func TestLiveReplaceBelowSelectionKeepsSelection(t *testing.T) {
	cursor := &fakeCursor{}
	m := NewModel(Options{Cursor: cursor})
	m.Apply(added(item("a", "files", 30)))
	m.Apply(added(item("b", "files", 20)))
	m.Apply(added(item("c", "files", 10)))
	cursor.selected = []int{1}

	m.Apply(replaced(item("c2", "files", 10), "c"))

	assert.Equal(t, []string{"a", "b", "c2", loading}, uuidsOf(m.Rows()))
	assert.Equal(t, []int{1}, cursor.selected)
}

func seededModel(cursor *fakeCursor) *Model {
	m := NewModel(Options{Cursor: cursor})
	m.Apply(added(item("f", "files", 40)))
	m.Apply(added(item("e", "files", 30)))
	m.Apply(added(item("d", "files", 20)))
	m.Apply(added(item("c", "files", 10)))
	return m
}

func TestLiveReplaceAboveSelectionKeepsSelection(t *testing.T) {
	cursor := &fakeCursor{}
	m := seededModel(cursor)
	cursor.selected = []int{3}

	m.Apply(replaced(item("d2", "files", 20), "d"))

	assert.Equal(t, []string{"f", "e", "d2", "c", loading}, uuidsOf(m.Rows()))
	assert.Equal(t, []int{3}, cursor.selected)
}

func TestLiveReplaceSelectedRowKeepsSelection(t *testing.T) {
	cursor := &fakeCursor{}
	m := seededModel(cursor)
	cursor.selected = []int{2}

	m.Apply(replaced(item("d2", "files", 20), "d"))

	assert.Equal(t, []string{"f", "e", "d2", "c", loading}, uuidsOf(m.Rows()))
	assert.Equal(t, []int{2}, cursor.selected)
}

func TestLiveReplaceManyAboveSelection(t *testing.T) {
	cursor := &fakeCursor{}
	m := seededModel(cursor)
	cursor.selected = []int{3}

	m.Apply(replaced(item("n", "files", 40), "d", "f"))

	assert.Equal(t, []string{"n", "e", "c", loading}, uuidsOf(m.Rows()))
	assert.Equal(t, []int{2}, cursor.selected)
}

func TestLiveReplaceAboveMultiSelectionResets(t *testing.T) {
	cursor := &fakeCursor{}
	m := seededModel(cursor)
	cursor.selected = []int{2, 3}

	m.Apply(replaced(item("e2", "files", 30), "e"))

	assert.Equal(t, []int{0}, cursor.selected)
}

func TestLiveLoneRemovalSettlesImmediately(t *testing.T) {
	cursor := &fakeCursor{selected: []int{3}}
	l := seededLive(cursor, 4)

	l.RemoveRow(1)
	l.settle(-1)

	assert.Equal(t, []int{2}, cursor.selected)
	assert.Empty(t, l.removed)
}

func TestScratchListHasNoFrozenPrefix(t *testing.T) {
	pending := make(PendingSet)
	l := newScratchList(pending)

	l.AppendRow(domain.ItemRow{Item: item("a", "files", 0)})
	l.AddRow(0, domain.ItemRow{Item: item("b", "files", 0)})
	l.RemoveRow(1)

	assert.Equal(t, 0, l.FrozenCount())
	assert.Equal(t, []string{"b"}, uuidsOf(l.rows))

	l.PendingReplacements().Add("x")
	assert.Contains(t, pending, "x", "scratch shares the model's pending set")
}

func TestPendingSetTake(t *testing.T) {
	p := make(PendingSet)
	p.Add("u")

	assert.True(t, p.Take("u"))
	assert.False(t, p.Take("u"))
	assert.NotContains(t, p, "u")
}
