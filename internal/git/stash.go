package git

import (
	"context"
	"fmt"
	"strings"
)

// StashList returns the raw `git stash list` lines, newest first.
// Returns nil for an empty stash list. Indices embedded in the lines are
// valid only until the next stash mutation.
func StashList(ctx context.Context, path string) ([]string, error) {
	output, err := outputGit(ctx, path, "stash", "list")
	if err != nil {
		return nil, fmt.Errorf("failed to list stashes: %v", err)
	}
	trimmed := strings.TrimRight(string(output), "\n")
	if trimmed == "" {
		return nil, nil
	}
	return strings.Split(trimmed, "\n"), nil
}

// StashPush stashes tracked changes with the given message.
// Untracked files are deliberately NOT included: callers gate on untracked
// files up front, and a silent partial capture would lose work.
func StashPush(ctx context.Context, path, message string) error {
	if err := runGit(ctx, path, "stash", "push", "-m", message); err != nil {
		return fmt.Errorf("failed to stash changes: %v", err)
	}
	return nil
}

// StashPopIndex applies and removes the stash entry at the given position.
// The caller's other stash indices are invalid afterwards.
func StashPopIndex(ctx context.Context, path string, index int) error {
	ref := fmt.Sprintf("stash@{%d}", index)
	if err := runGit(ctx, path, "stash", "pop", "--quiet", ref); err != nil {
		return fmt.Errorf("failed to pop %s: %v", ref, err)
	}
	return nil
}
