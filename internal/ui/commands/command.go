package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"everywhere/internal/domain"
	"everywhere/internal/git"
)

// logLimit is how many commits the repository log shows
const logLimit = 200

// Pager shows content full screen
type Pager interface {
	ShowFile(path string) error
	ShowReader(r io.Reader) error
}

// Command represents an executable action on a result
type Command interface {
	Execute() tea.Cmd
}

// CommandContext provides context for command execution
type CommandContext struct {
	Pager Pager
	Dir   string // working directory for user commands
}

// OpenedMsg reports that opening a result finished
type OpenedMsg struct {
	Target string
	Err    error
}

// OpenFileCommand shows a file in the pager
type OpenFileCommand struct {
	ctx  *CommandContext
	path string
}

// NewOpenFileCommand creates a new open file command
func NewOpenFileCommand(ctx *CommandContext, path string) *OpenFileCommand {
	return &OpenFileCommand{ctx: ctx, path: path}
}

// Execute opens the file
func (c *OpenFileCommand) Execute() tea.Cmd {
	return func() tea.Msg {
		return OpenedMsg{Target: c.path, Err: c.ctx.Pager.ShowFile(c.path)}
	}
}

// RepoLogCommand shows a repository's history in the pager
type RepoLogCommand struct {
	ctx      *CommandContext
	repoPath string
}

// NewRepoLogCommand creates a new repository log command
func NewRepoLogCommand(ctx *CommandContext, repoPath string) *RepoLogCommand {
	return &RepoLogCommand{ctx: ctx, repoPath: repoPath}
}

// Execute reads the log and opens the pager
func (c *RepoLogCommand) Execute() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		output, err := git.Log(ctx, c.repoPath, logLimit)
		if err != nil {
			return OpenedMsg{Target: c.repoPath, Err: err}
		}
		return OpenedMsg{Target: c.repoPath, Err: c.ctx.Pager.ShowReader(bytes.NewReader(output))}
	}
}

// RunCommand runs a user command in the shell, handing it the terminal
type RunCommand struct {
	ctx  *CommandContext
	name string
	run  string
}

// NewRunCommand creates a new run command
func NewRunCommand(ctx *CommandContext, name, run string) *RunCommand {
	return &RunCommand{ctx: ctx, name: name, run: run}
}

// Execute runs the command
func (c *RunCommand) Execute() tea.Cmd {
	cmd := exec.Command("sh", "-c", c.run)
	cmd.Dir = c.ctx.Dir
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			err = fmt.Errorf("%s: %w", c.name, err)
		}
		return OpenedMsg{Target: c.name, Err: err}
	})
}

// ForItem returns the command that opens item, or nil if it cannot be opened
func ForItem(ctx *CommandContext, item *domain.ResultItem) Command {
	switch {
	case item == nil:
		return nil
	case item.IsCommand:
		if item.Run == "" {
			return nil
		}
		return NewRunCommand(ctx, item.PresentationText, item.Run)
	case item.Path == "":
		return nil
	case isRepo(item):
		return NewRepoLogCommand(ctx, item.Path)
	default:
		return NewOpenFileCommand(ctx, item.Path)
	}
}
