package providers

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"everywhere/internal/discovery"
	"everywhere/internal/domain"
	"everywhere/internal/git"
)

// BranchPlaceholder is shown until a repository's branch is known
const BranchPlaceholder = "⋯"

// Repos matches the pattern against git repositories below the roots.
// Each hit is first emitted with a placeholder branch and replaced once
// the branch has been read.
type Repos struct {
	roots      []string
	maxDepth   int
	workerPool chan struct{} // Semaphore for limiting concurrent branch lookups
}

// NewRepos creates a repository provider
func NewRepos(roots []string, maxDepth int) *Repos {
	return &Repos{
		roots:      roots,
		maxDepth:   maxDepth,
		workerPool: make(chan struct{}, 5),
	}
}

func (r *Repos) ID() string { return ReposID }

func (r *Repos) Search(ctx context.Context, pattern string, emit EmitFunc) error {
	if len(r.roots) == 0 {
		return ErrNoRoots
	}

	var repos []discovery.Entry
	for _, root := range r.roots {
		err := discovery.Walk(ctx, root, r.maxDepth, func(e discovery.Entry) bool {
			if e.IsRepo {
				repos = append(repos, e)
			}
			return true
		})
		if err != nil {
			return err
		}
	}

	matched := matchEntries(pattern, repos)
	for _, m := range matched {
		emit(domain.ResultAdded{Item: repoItem(m.entry, m.score, BranchPlaceholder)})
	}

	var wg sync.WaitGroup
	for _, m := range matched {
		wg.Add(1)
		go func(m scoredEntry) {
			defer wg.Done()
			r.resolveBranch(ctx, m, emit)
		}(m)
	}
	wg.Wait()

	return ctx.Err()
}

func (r *Repos) resolveBranch(ctx context.Context, m scoredEntry, emit EmitFunc) {
	// Acquire worker slot
	select {
	case r.workerPool <- struct{}{}:
		defer func() { <-r.workerPool }()
	case <-ctx.Done():
		return
	}

	branch, err := git.Branch(m.entry.Path)
	if err != nil {
		log.Printf("Failed to get branch for %s: %v", m.entry.Path, err)
		return
	}
	if ctx.Err() != nil {
		return
	}

	item := repoItem(m.entry, m.score, branch)
	emit(domain.ResultReplaced{UUIDsToReplace: []string{item.UUID}, NewItem: item})
}

func repoItem(e discovery.Entry, score int, branch string) *domain.ResultItem {
	name := e.Rel
	if name == "." || name == "" {
		name = filepath.Base(e.Root)
	}
	return &domain.ResultItem{
		UUID:             stableID("repo", e.Path),
		ProviderID:       ReposID,
		Weight:           score,
		PresentationText: fmt.Sprintf("%s [%s]", name, branch),
		Path:             e.Path,
	}
}
