package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// resolveTempDir creates a temp directory and resolves macOS symlinks.
func resolveTempDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("failed to resolve symlinks for %s: %v", tmpDir, err)
	}
	return resolved
}

// configureTestRepo sets git user config and disables GPG signing.
func configureTestRepo(t *testing.T, repoPath string) {
	t.Helper()
	ctx := context.Background()
	for _, args := range [][]string{
		{"config", "user.email", "test@test.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
	} {
		if err := runGit(ctx, repoPath, args...); err != nil {
			t.Fatalf("failed to run git %v: %v", args, err)
		}
	}
}

// setupTestRepo creates a git repo with main branch, initial commit, and git config.
// Returns the resolved repo path.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	tmpDir := resolveTempDir(t)
	repoPath := filepath.Join(tmpDir, "test-repo")

	ctx := context.Background()
	if err := runGit(ctx, "", "init", "-b", "main", repoPath); err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}

	configureTestRepo(t, repoPath)

	readme := filepath.Join(repoPath, "README.md")
	if err := os.WriteFile(readme, []byte("# test\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := runGit(ctx, repoPath, "add", "README.md"); err != nil {
		t.Fatalf("failed to add file: %v", err)
	}
	if err := runGit(ctx, repoPath, "commit", "-m", "Initial commit"); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	return repoPath
}

// writeFile writes a file in the repo, failing the test on error.
func writeFile(t *testing.T, repoPath, name, content string) string {
	t.Helper()
	path := filepath.Join(repoPath, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
