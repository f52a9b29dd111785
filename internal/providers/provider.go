// Package providers produces result events for a search pattern.
package providers

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"everywhere/internal/config"
	"everywhere/internal/domain"
)

// Provider ids
const (
	FilesID    = "files"
	ReposID    = "repos"
	CommandsID = "commands"
)

// ErrNoRoots is returned by providers that need a directory to search
var ErrNoRoots = errors.New("no search roots configured")

// EmitFunc receives the events of a running search. It may be called
// from several goroutines.
type EmitFunc func(domain.ResultEvent)

// Provider searches one source of results
type Provider interface {
	ID() string
	// Search emits results for pattern until done or ctx is cancelled
	Search(ctx context.Context, pattern string, emit EmitFunc) error
}

// FromConfig returns the enabled providers in a stable order
func FromConfig(cfg *config.Config) []Provider {
	var all []Provider
	if cfg.ProviderEnabled(CommandsID) {
		all = append(all, NewCommands(cfg.Commands))
	}
	if cfg.ProviderEnabled(ReposID) {
		all = append(all, NewRepos(cfg.Roots, cfg.MaxDepth))
	}
	if cfg.ProviderEnabled(FilesID) {
		all = append(all, NewFiles(cfg.Roots, cfg.MaxDepth, cfg.MaxResults))
	}
	return all
}

var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("everywhere"))

// stableID derives the same uuid for the same hit across searches
func stableID(kind, key string) string {
	return uuid.NewSHA1(namespace, []byte(kind+":"+key)).String()
}
