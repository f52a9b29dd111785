package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"everywhere/internal/domain"
)

// ReadyMarker is printed in end-to-end test mode once the UI has drawn
const ReadyMarker = "__READY__"

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width          int
	Height         int
	Input          string // rendered query input
	Rows           []domain.Row
	Cursor         int
	Marked         map[int]bool
	ViewportOffset int
	ViewportHeight int
	Spinner        string
	Progress       domain.SearchProgress
	FrozenCount    int
	StatusMessage  string
	StatusIsError  bool
	HelpModel      help.Model
	HelpKeys       help.KeyMap
	ShowReady      bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles    *Styles
	rowRender *RowRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(showProvider bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:    styles,
		rowRender: NewRowRenderer(styles, showProvider),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	// Title line with the search state right-aligned
	logo := r.styles.Title.Render("everywhere")
	indicator := r.renderIndicator(state)
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 2 - lipgloss.Width(logo) - lipgloss.Width(indicator)
	if padding < 2 {
		padding = 2
	}
	content.WriteString(logo + strings.Repeat(" ", padding) + indicator)
	content.WriteString("\n")

	content.WriteString(state.Input)
	content.WriteString("\n\n")

	lines := 0
	if len(state.Rows) == 0 {
		if state.Progress.IsSearching {
			content.WriteString(r.styles.Dim.Render("Searching..."))
		} else {
			content.WriteString(r.styles.Dim.Render("No results"))
		}
		lines = 1
	} else {
		lines = r.renderRows(content, state)
	}

	// Push status and help to the bottom
	if pad := state.ViewportHeight - lines; pad > 0 {
		content.WriteString(strings.Repeat("\n", pad))
	}
	content.WriteString("\n")
	content.WriteString(r.renderStatus(state))
	content.WriteString("\n")
	content.WriteString(r.styles.Help.Render(state.HelpModel.View(state.HelpKeys)))

	return r.styles.Main.Render(content.String())
}

func (r *Renderer) renderIndicator(state ViewState) string {
	if state.Progress.IsSearching {
		return r.styles.Dim.Render(fmt.Sprintf("%s %d providers running", state.Spinner, state.Progress.ActiveProviders))
	}
	if state.ShowReady {
		return r.styles.Dim.Render(ReadyMarker)
	}
	return ""
}

func (r *Renderer) renderRows(b *strings.Builder, state ViewState) int {
	start := min(max(state.ViewportOffset, 0), len(state.Rows))
	end := min(start+state.ViewportHeight, len(state.Rows))

	for i := start; i < end; i++ {
		b.WriteString(r.rowRender.RenderRow(state.Rows[i], RowState{
			IsCursor:    i == state.Cursor,
			IsMarked:    state.Marked[i],
			MultiSelect: len(state.Marked) > 0,
			Spinner:     state.Spinner,
			Width:       state.Width - 2,
		}))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return end - start
}

func (r *Renderer) renderStatus(state ViewState) string {
	if state.StatusMessage != "" {
		if state.StatusIsError {
			return r.styles.StatusError.Render(state.StatusMessage)
		}
		return r.styles.StatusSuccess.Render(state.StatusMessage)
	}

	items := 0
	for _, row := range state.Rows {
		if domain.RowItem(row) != nil {
			items++
		}
	}
	status := fmt.Sprintf("%d results", items)
	if state.FrozenCount > 0 {
		status += fmt.Sprintf(" · %d pinned", state.FrozenCount)
	}
	if len(state.Marked) > 0 {
		status += fmt.Sprintf(" · %d marked", len(state.Marked))
	}
	return r.styles.Status.Render(status)
}
