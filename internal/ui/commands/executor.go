package commands

import (
	tea "github.com/charmbracelet/bubbletea"

	"everywhere/internal/domain"
)

// reposProvider is the id of the provider whose items are repositories
const reposProvider = "repos"

// Executor handles command execution
type Executor struct {
	ctx *CommandContext
}

// NewExecutor creates a new command executor
func NewExecutor(pager Pager, dir string) *Executor {
	return &Executor{
		ctx: &CommandContext{
			Pager: pager,
			Dir:   dir,
		},
	}
}

// ExecuteOpen opens a result item; it returns nil when there is nothing to do
func (e *Executor) ExecuteOpen(item *domain.ResultItem) tea.Cmd {
	cmd := ForItem(e.ctx, item)
	if cmd == nil {
		return nil
	}
	return cmd.Execute()
}

func isRepo(item *domain.ResultItem) bool {
	return item.ProviderID == reposProvider
}
