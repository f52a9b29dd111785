package providers

import (
	"context"

	"github.com/sahilm/fuzzy"

	"everywhere/internal/discovery"
	"everywhere/internal/domain"
)

// matchChunk is how many paths are collected before they are matched
const matchChunk = 256

// Files matches the pattern against file paths below the roots
type Files struct {
	roots      []string
	maxDepth   int
	maxResults int
}

// NewFiles creates a file provider
func NewFiles(roots []string, maxDepth, maxResults int) *Files {
	return &Files{roots: roots, maxDepth: maxDepth, maxResults: maxResults}
}

func (f *Files) ID() string { return FilesID }

func (f *Files) Search(ctx context.Context, pattern string, emit EmitFunc) error {
	if len(f.roots) == 0 {
		return ErrNoRoots
	}

	emitted := 0
	full := func() bool { return f.maxResults > 0 && emitted >= f.maxResults }

	var chunk []discovery.Entry
	flush := func() {
		for _, e := range matchEntries(pattern, chunk) {
			if full() {
				break
			}
			emit(domain.ResultAdded{Item: fileItem(e.entry, e.score)})
			emitted++
		}
		chunk = chunk[:0]
	}

	for _, root := range f.roots {
		err := discovery.Walk(ctx, root, f.maxDepth, func(e discovery.Entry) bool {
			if e.IsRepo {
				return true
			}
			chunk = append(chunk, e)
			if len(chunk) >= matchChunk {
				flush()
			}
			return !full()
		})
		if err != nil {
			return err
		}
		if full() {
			return nil
		}
	}
	flush()
	return nil
}

type scoredEntry struct {
	entry discovery.Entry
	score int
}

// matchEntries returns the entries matching pattern, best first.
// An empty pattern matches everything with a zero score.
func matchEntries(pattern string, entries []discovery.Entry) []scoredEntry {
	if pattern == "" {
		out := make([]scoredEntry, len(entries))
		for i, e := range entries {
			out[i] = scoredEntry{entry: e}
		}
		return out
	}

	rels := make([]string, len(entries))
	for i, e := range entries {
		rels[i] = e.Rel
	}

	matches := fuzzy.Find(pattern, rels)
	out := make([]scoredEntry, len(matches))
	for i, m := range matches {
		out[i] = scoredEntry{entry: entries[m.Index], score: m.Score}
	}
	return out
}

func fileItem(e discovery.Entry, score int) *domain.ResultItem {
	return &domain.ResultItem{
		UUID:             stableID("file", e.Path),
		ProviderID:       FilesID,
		Weight:           score,
		PresentationText: e.Rel,
		Path:             e.Path,
	}
}
