package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const refPrefix = "ref: refs/heads/"

// Branch returns the checked out branch of the repository at repoPath.
// A detached HEAD is reported as "detached@<short sha>".
func Branch(repoPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(repoPath, ".git", "HEAD"))
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}

	head := strings.TrimSpace(string(data))
	if strings.HasPrefix(head, refPrefix) {
		return strings.TrimPrefix(head, refPrefix), nil
	}

	if len(head) >= 7 {
		return "detached@" + head[:7], nil
	}
	return "", fmt.Errorf("unexpected HEAD contents: %q", head)
}

// Log returns the recent history of a repository, one commit per line
func Log(ctx context.Context, repoPath string, limit int) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", "log", "--oneline", "--decorate", "-n", fmt.Sprint(limit))
	cmd.Dir = repoPath

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git log failed: %v\nOutput: %s", err, stderr.String())
	}
	return output, nil
}
