package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// BranchExists returns true if the named local branch exists.
// A missing branch is not an error; git exits 1 for it.
func BranchExists(ctx context.Context, path, name string) (bool, error) {
	err := runGit(ctx, path, "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return false, nil
		}
		return false, fmt.Errorf("failed to check branch %s: %v", name, err)
	}
	return true, nil
}

// CreateBranch creates a branch at the current HEAD without switching to it.
func CreateBranch(ctx context.Context, path, name string) error {
	if err := runGit(ctx, path, "branch", name); err != nil {
		return fmt.Errorf("failed to create branch %s: %v", name, err)
	}
	return nil
}

// Checkout switches the working tree to the named branch.
func Checkout(ctx context.Context, path, name string) error {
	if err := runGit(ctx, path, "checkout", name); err != nil {
		return fmt.Errorf("failed to checkout %s: %v", name, err)
	}
	return nil
}

// ResetHard discards all tracked and index changes, restoring HEAD.
// Irreversible; callers are responsible for confirming with the user.
func ResetHard(ctx context.Context, path string) error {
	if err := runGit(ctx, path, "reset", "--hard", "HEAD"); err != nil {
		return fmt.Errorf("failed to reset: %v", err)
	}
	return nil
}
