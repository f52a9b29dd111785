package discovery

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
)

// Entry is a file or git repository found under a root
type Entry struct {
	Root   string // root the walk started from
	Path   string // absolute path
	Rel    string // path relative to Root, slash separated
	IsRepo bool   // Path is a git working tree
}

// VisitFunc receives each entry; returning false stops the walk
type VisitFunc func(Entry) bool

// skipDirs are never descended into
var skipDirs = map[string]bool{
	"node_modules":  true,
	"vendor":        true,
	"dist":          true,
	"build":         true,
	"target":        true,
	"__pycache__":   true,
	".pytest_cache": true,
	".tox":          true,
	"venv":          true,
	".venv":         true,
}

// Walk visits regular files and git repositories below root, at most
// maxDepth directories deep. Hidden and build output directories are skipped.
func Walk(ctx context.Context, root string, maxDepth int, visit VisitFunc) error {
	errStop := errors.New("stop")

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			log.Printf("Error walking path %s: %v", path, err)
			return nil
		}

		rel, _ := filepath.Rel(root, path)
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if !d.IsDir() {
			if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), ".") {
				return nil
			}
			if !visit(Entry{Root: root, Path: path, Rel: rel}) {
				return errStop
			}
			return nil
		}

		name := d.Name()
		if name == ".git" {
			repo := filepath.Dir(path)
			repoRel, _ := filepath.Rel(root, repo)
			if !visit(Entry{Root: root, Path: repo, Rel: filepath.ToSlash(repoRel), IsRepo: true}) {
				return errStop
			}
			return fs.SkipDir
		}

		if skipDirs[name] || strings.HasPrefix(name, ".") {
			return fs.SkipDir
		}
		if strings.Count(rel, "/") >= maxDepth {
			return fs.SkipDir
		}
		return nil
	})

	if errors.Is(err, errStop) {
		return nil
	}
	return err
}
