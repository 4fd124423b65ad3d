package vcs

import (
	"context"
	"fmt"
	"strings"
)

// git prints one of these when a commit had nothing to record.
var nothingToCommitMarkers = []string{
	"nothing to commit",
	"nothing added to commit",
}

// Repo is the work tree the snapshots are written into.
type Repo struct {
	Dir    string
	Runner Runner
}

func (r *Repo) Pull(ctx context.Context) error {
	if _, err := r.Runner.Run(ctx, r.Dir, "pull"); err != nil {
		return fmt.Errorf("vcs: pull: %w", err)
	}
	return nil
}

// Add stages path, relative to Dir.
func (r *Repo) Add(ctx context.Context, path string) error {
	if _, err := r.Runner.Run(ctx, r.Dir, "add", path); err != nil {
		return fmt.Errorf("vcs: add %s: %w", path, err)
	}
	return nil
}

// Commit records whatever is staged.  committed is false when git's output says there was
// nothing to commit.
func (r *Repo) Commit(ctx context.Context, message string) (committed bool, err error) {
	lines, err := r.Runner.Run(ctx, r.Dir, "commit", "-m", message)
	if err != nil {
		return false, fmt.Errorf("vcs: commit: %w", err)
	}

	return !NothingToCommit(lines), nil
}

func (r *Repo) Push(ctx context.Context) error {
	if _, err := r.Runner.Run(ctx, r.Dir, "push"); err != nil {
		return fmt.Errorf("vcs: push: %w", err)
	}
	return nil
}

// NothingToCommit reports whether any line of git commit's output says nothing was committed.
func NothingToCommit(lines []string) bool {
	for _, line := range lines {
		for _, marker := range nothingToCommitMarkers {
			if strings.Contains(line, marker) {
				return true
			}
		}
	}
	return false
}
