package git

import (
	"context"
)

// Pull runs `git pull` for the repo, returning the combined porcelain output.
func Pull(ctx context.Context, path string) ([]byte, error) {
	return outputGit(ctx, path, "pull")
}

// Rebase runs `git rebase [upstream]` for the repo. An empty upstream lets
// git pick the configured one.
func Rebase(ctx context.Context, path, upstream string) ([]byte, error) {
	args := []string{"rebase"}
	if upstream != "" {
		args = append(args, upstream)
	}
	return outputGit(ctx, path, args...)
}
