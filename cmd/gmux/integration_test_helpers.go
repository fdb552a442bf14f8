//go:build integration

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gmux-sh/gmux/internal/config"
	"github.com/gmux-sh/gmux/internal/log"
	"github.com/gmux-sh/gmux/internal/output"
)

// resolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// setupSessionRepo creates a git repo with an initial commit in dir/name
// and returns its absolute path.
func setupSessionRepo(t *testing.T, dir, name string) string {
	t.Helper()

	dir = resolvePath(t, dir)
	repoPath := filepath.Join(dir, name)
	if err := os.MkdirAll(repoPath, 0755); err != nil {
		t.Fatalf("failed to create repo dir: %v", err)
	}

	runGit(t, repoPath, "init", "-b", "main")
	runGit(t, repoPath, "config", "user.email", "test@test.com")
	runGit(t, repoPath, "config", "user.name", "Test User")
	runGit(t, repoPath, "config", "commit.gpgsign", "false")

	readmePath := filepath.Join(repoPath, "README.md")
	if err := os.WriteFile(readmePath, []byte("# "+name+"\n"), 0644); err != nil {
		t.Fatalf("failed to write README: %v", err)
	}
	runGit(t, repoPath, "add", "README.md")
	runGit(t, repoPath, "commit", "-m", "Initial commit")

	return repoPath
}

// runGit runs a git command in dir, failing the test on error.
func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

// testContext builds a command context with quiet logging, default config,
// and a captured output buffer.
func testContext(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()

	// Command state lives in package globals; reset them per test.
	origFlag, origCfg := sessionFlag, cfg
	t.Cleanup(func() { sessionFlag, cfg = origFlag, origCfg })
	sessionFlag = ""
	cfg = config.Default()

	var buf bytes.Buffer
	ctx := context.Background()
	ctx = log.WithLogger(ctx, log.New(io.Discard, false, true))
	ctx = output.WithPrinter(ctx, &buf)
	ctx = config.WithConfig(ctx, cfg)
	return ctx, &buf
}
