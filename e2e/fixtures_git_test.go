//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// CreateTestWorkspace creates the directory the application searches
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tf.workspace = tf.t.TempDir()
	return tf.workspace, nil
}

// CreateFile writes a file below the workspace, creating parent directories
func (tf *TUITestFramework) CreateFile(rel, content string) (string, error) {
	if tf.workspace == "" {
		return "", fmt.Errorf("workspace not created")
	}
	path := filepath.Join(tf.workspace, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	return path, os.WriteFile(path, []byte(content), 0644)
}

// WriteConfig writes the config file the application reads from the workspace
func (tf *TUITestFramework) WriteConfig(contents string) error {
	_, err := tf.CreateFile(".everywhere.toml", contents)
	return err
}

// CreateTestRepo creates a git repository on branch main with one commit
func (tf *TUITestFramework) CreateTestRepo(name string) (string, error) {
	readme, err := tf.CreateFile(filepath.Join(name, "README.md"), "# "+name+"\n")
	if err != nil {
		return "", err
	}
	repoPath := filepath.Dir(readme)

	for _, args := range [][]string{
		{"init", "--initial-branch=main"},
		{"add", "."},
		{"commit", "-m", "Initial commit"},
	} {
		if err := runGit(repoPath, args...); err != nil {
			return "", err
		}
	}
	return repoPath, nil
}

func runGit(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Everywhere Test",
		"GIT_AUTHOR_EMAIL=test@everywhere.test",
		"GIT_COMMITTER_NAME=Everywhere Test",
		"GIT_COMMITTER_EMAIL=test@everywhere.test",
		"GIT_CONFIG_GLOBAL=/dev/null",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git %v failed: %w; out=%s", args, err, out)
	}
	return nil
}
