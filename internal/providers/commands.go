package providers

import (
	"context"

	"github.com/sahilm/fuzzy"

	"everywhere/internal/config"
	"everywhere/internal/domain"
)

// Commands offers the configured commands as results
type Commands struct {
	commands []config.CommandConfig
}

// NewCommands creates a command provider
func NewCommands(commands []config.CommandConfig) *Commands {
	return &Commands{commands: commands}
}

func (c *Commands) ID() string { return CommandsID }

// Len implements fuzzy.Source
func (c *Commands) Len() int { return len(c.commands) }

// String implements fuzzy.Source
func (c *Commands) String(i int) string { return c.commands[i].Name }

func (c *Commands) Search(ctx context.Context, pattern string, emit EmitFunc) error {
	if pattern == "" {
		for _, cmd := range c.commands {
			emit(domain.ResultAdded{Item: commandItem(cmd, 0)})
		}
		return ctx.Err()
	}

	for _, m := range fuzzy.FindFrom(pattern, c) {
		if err := ctx.Err(); err != nil {
			return err
		}
		emit(domain.ResultAdded{Item: commandItem(c.commands[m.Index], m.Score)})
	}
	return nil
}

func commandItem(cmd config.CommandConfig, score int) *domain.ResultItem {
	return &domain.ResultItem{
		UUID:             stableID("command", cmd.Name),
		ProviderID:       CommandsID,
		Weight:           score,
		IsCommand:        true,
		PresentationText: cmd.Name,
		Run:              cmd.Run,
	}
}
