package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"everywhere/internal/domain"
)

// RowRenderer renders single result rows
type RowRenderer struct {
	styles       *Styles
	showProvider bool
}

// NewRowRenderer creates a new row renderer
func NewRowRenderer(styles *Styles, showProvider bool) *RowRenderer {
	return &RowRenderer{
		styles:       styles,
		showProvider: showProvider,
	}
}

// RowState describes how one row is drawn
type RowState struct {
	IsCursor    bool
	IsMarked    bool
	MultiSelect bool   // some row is marked
	Spinner     string // current spinner frame for the loading row
	Width       int
}

// RenderRow renders an item or the loading row
func (r *RowRenderer) RenderRow(row domain.Row, state RowState) string {
	var line string
	switch row := row.(type) {
	case domain.LoadingRow:
		line = r.styles.Loading.Render(fmt.Sprintf("%s Searching...", state.Spinner))
	case domain.ItemRow:
		line = r.renderItem(row.Item, state)
	}

	if state.IsCursor {
		line = r.styles.SelectionBg.Render(padRight(line, state.Width))
	}
	return line
}

func (r *RowRenderer) renderItem(item *domain.ResultItem, state RowState) string {
	var parts []string

	if state.MultiSelect {
		indicator := "[ ]"
		if state.IsMarked {
			indicator = "[x]"
		}
		parts = append(parts, indicator)
	}

	text := item.PresentationText
	if item.IsCommand {
		text = r.styles.Command.Render("> " + text)
	}
	parts = append(parts, text)

	if r.showProvider {
		parts = append(parts, r.styles.Provider.Render(item.ProviderID))
	}

	return strings.Join(parts, " ")
}

// padRight pads s with spaces to width visible cells
func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
