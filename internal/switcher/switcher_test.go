package switcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gmux-sh/gmux/internal/git"
	"github.com/gmux-sh/gmux/internal/log"
	"github.com/gmux-sh/gmux/internal/stashtag"
)

func testCtx() context.Context {
	return log.WithLogger(context.Background(), log.New(io.Discard, false, false))
}

// setupTestRepo creates a git repo with main branch, initial commit, and git config.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("failed to resolve symlinks: %v", err)
	}
	repoPath := filepath.Join(resolved, "test-repo")

	ctx := testCtx()
	if err := git.RunGitCommand(ctx, "", "init", "-b", "main", repoPath); err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	for _, args := range [][]string{
		{"config", "user.email", "test@test.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
	} {
		if err := git.RunGitCommand(ctx, repoPath, args...); err != nil {
			t.Fatalf("failed to run git %v: %v", args, err)
		}
	}

	writeFile(t, repoPath, "x.txt", "original\n")
	if err := git.RunGitCommand(ctx, repoPath, "add", "x.txt"); err != nil {
		t.Fatalf("failed to add: %v", err)
	}
	if err := git.RunGitCommand(ctx, repoPath, "commit", "-m", "Initial commit"); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	return repoPath
}

func writeFile(t *testing.T, repoPath, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(repoPath, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func readFile(t *testing.T, repoPath, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(repoPath, name))
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(content)
}

func currentBranch(t *testing.T, repoPath string) string {
	t.Helper()
	branch, err := git.CurrentBranch(testCtx(), repoPath)
	if err != nil {
		t.Fatalf("CurrentBranch failed: %v", err)
	}
	return branch
}

func stashEntries(t *testing.T, repoPath string) []stashtag.Entry {
	t.Helper()
	lines, err := git.StashList(testCtx(), repoPath)
	if err != nil {
		t.Fatalf("StashList failed: %v", err)
	}
	return stashtag.Default.ParseList(lines)
}

func TestSwitch_FlagValidation(t *testing.T) {
	t.Parallel()

	if err := Switch(testCtx(), "/nowhere", Options{Target: "x", Bring: true, Discard: true}); err == nil {
		t.Error("Switch with bring+discard = nil, want error")
	}
	if err := Switch(testCtx(), "/nowhere", Options{}); err == nil {
		t.Error("Switch without target = nil, want error")
	}
}

func TestSwitch_CleanRepoCreatesBranch(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	ctx := testCtx()

	if err := Switch(ctx, repoPath, Options{Target: "feature"}); err != nil {
		t.Fatalf("Switch failed: %v", err)
	}
	if got := currentBranch(t, repoPath); got != "feature" {
		t.Errorf("branch = %q, want feature", got)
	}
	if entries := stashEntries(t, repoPath); len(entries) != 0 {
		t.Errorf("stash entries = %d, want 0", len(entries))
	}

	// Target already exists on the way back: no branch creation, plain checkout.
	if err := Switch(ctx, repoPath, Options{Target: "main"}); err != nil {
		t.Fatalf("Switch back failed: %v", err)
	}
	if got := currentBranch(t, repoPath); got != "main" {
		t.Errorf("branch = %q, want main", got)
	}
}

func TestSwitch_DirtyStashesForSourceAndRestores(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	ctx := testCtx()

	writeFile(t, repoPath, "x.txt", "work in progress\n")

	if err := Switch(ctx, repoPath, Options{Target: "feature"}); err != nil {
		t.Fatalf("Switch failed: %v", err)
	}

	// Work was set aside for main; feature starts clean.
	if got := readFile(t, repoPath, "x.txt"); got != "original\n" {
		t.Errorf("x.txt on feature = %q, want original content", got)
	}
	entries := stashEntries(t, repoPath)
	if len(entries) != 1 {
		t.Fatalf("stash entries = %d, want 1", len(entries))
	}
	if entries[0].Branch != "main" || entries[0].Role != stashtag.RoleLatest {
		t.Errorf("stash entry = %+v, want latest for main", entries[0])
	}

	// Switching back restores the stashed work and consumes the entry.
	if err := Switch(ctx, repoPath, Options{Target: "main"}); err != nil {
		t.Fatalf("Switch back failed: %v", err)
	}
	if got := readFile(t, repoPath, "x.txt"); got != "work in progress\n" {
		t.Errorf("x.txt back on main = %q, want restored work", got)
	}
	if entries := stashEntries(t, repoPath); len(entries) != 0 {
		t.Errorf("stash entries after restore = %d, want 0", len(entries))
	}
}

func TestSwitch_BringChange(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	ctx := testCtx()

	writeFile(t, repoPath, "x.txt", "bring me along\n")

	if err := Switch(ctx, repoPath, Options{Target: "feature", Bring: true}); err != nil {
		t.Fatalf("Switch failed: %v", err)
	}

	if got := currentBranch(t, repoPath); got != "feature" {
		t.Errorf("branch = %q, want feature", got)
	}
	if got := readFile(t, repoPath, "x.txt"); got != "bring me along\n" {
		t.Errorf("x.txt = %q, want change carried over", got)
	}
	if entries := stashEntries(t, repoPath); len(entries) != 0 {
		t.Errorf("stash entries = %d, want 0 (change was popped)", len(entries))
	}
}

func TestSwitch_NoStashLeavesTaggedStash(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	ctx := testCtx()

	// Earlier invocation: dirty on feature, switched away, leaving a latest
	// stash for feature.
	if err := Switch(ctx, repoPath, Options{Target: "feature"}); err != nil {
		t.Fatalf("setup switch failed: %v", err)
	}
	writeFile(t, repoPath, "x.txt", "feature work\n")
	if err := Switch(ctx, repoPath, Options{Target: "main"}); err != nil {
		t.Fatalf("setup switch back failed: %v", err)
	}
	if entries := stashEntries(t, repoPath); len(entries) != 1 {
		t.Fatalf("setup stash entries = %d, want 1", len(entries))
	}

	// NoStash: branch switches but the tagged stash stays put.
	if err := Switch(ctx, repoPath, Options{Target: "feature", NoStash: true}); err != nil {
		t.Fatalf("Switch failed: %v", err)
	}
	if got := currentBranch(t, repoPath); got != "feature" {
		t.Errorf("branch = %q, want feature", got)
	}
	if got := readFile(t, repoPath, "x.txt"); got != "original\n" {
		t.Errorf("x.txt = %q, want original (stash untouched)", got)
	}
	entries := stashEntries(t, repoPath)
	if len(entries) != 1 || entries[0].Branch != "feature" || entries[0].Role != stashtag.RoleLatest {
		t.Errorf("stash entries = %+v, want the feature latest entry intact", entries)
	}
}

func TestSwitch_DefaultRestoresPreviousInvocation(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	ctx := testCtx()

	if err := Switch(ctx, repoPath, Options{Target: "feature"}); err != nil {
		t.Fatalf("setup switch failed: %v", err)
	}
	writeFile(t, repoPath, "x.txt", "feature work\n")
	if err := Switch(ctx, repoPath, Options{Target: "main"}); err != nil {
		t.Fatalf("setup switch back failed: %v", err)
	}

	// Default flags: the feature stash from the earlier invocation pops.
	if err := Switch(ctx, repoPath, Options{Target: "feature"}); err != nil {
		t.Fatalf("Switch failed: %v", err)
	}
	if got := readFile(t, repoPath, "x.txt"); got != "feature work\n" {
		t.Errorf("x.txt = %q, want feature work restored", got)
	}
	if entries := stashEntries(t, repoPath); len(entries) != 0 {
		t.Errorf("stash entries = %d, want 0 after restore", len(entries))
	}
}

func TestSwitch_DiscardSkipsStashCreation(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	ctx := testCtx()

	writeFile(t, repoPath, "x.txt", "doomed changes\n")

	if err := Switch(ctx, repoPath, Options{Target: "feature", Discard: true}); err != nil {
		t.Fatalf("Switch failed: %v", err)
	}
	if got := currentBranch(t, repoPath); got != "feature" {
		t.Errorf("branch = %q, want feature", got)
	}
	if got := readFile(t, repoPath, "x.txt"); got != "original\n" {
		t.Errorf("x.txt = %q, want changes discarded", got)
	}
	if entries := stashEntries(t, repoPath); len(entries) != 0 {
		t.Errorf("stash entries = %d, want 0 (discard never stashes)", len(entries))
	}
}

func TestDemoteStaleLatest(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	ctx := testCtx()
	tags := stashtag.Default

	// Manufacture two latest-tagged stashes for main with different
	// discriminators, as two crashed/interleaved invocations would leave.
	writeFile(t, repoPath, "x.txt", "first\n")
	if err := git.StashPush(ctx, repoPath, tags.Tag("main", "100")); err != nil {
		t.Fatalf("StashPush failed: %v", err)
	}
	writeFile(t, repoPath, "x.txt", "second\n")
	if err := git.StashPush(ctx, repoPath, tags.Tag("main", "200")); err != nil {
		t.Fatalf("StashPush failed: %v", err)
	}

	if err := demoteStaleLatest(ctx, repoPath, tags, "main", "200"); err != nil {
		t.Fatalf("demoteStaleLatest failed: %v", err)
	}

	assertAtMostOneLatest := func() stashtag.Entry {
		t.Helper()
		entries := stashEntries(t, repoPath)
		if len(entries) != 2 {
			t.Fatalf("stash entries = %d, want 2", len(entries))
		}
		var latest []stashtag.Entry
		for _, e := range entries {
			if e.Branch == "main" && e.Role == stashtag.RoleLatest {
				latest = append(latest, e)
			}
		}
		if len(latest) != 1 {
			t.Fatalf("latest entries for main = %d, want exactly 1", len(latest))
		}
		return latest[0]
	}

	if e := assertAtMostOneLatest(); e.Discriminator != "200" {
		t.Errorf("surviving latest discriminator = %q, want 200", e.Discriminator)
	}

	// Idempotence: a second run changes nothing.
	before := stashEntries(t, repoPath)
	if err := demoteStaleLatest(ctx, repoPath, tags, "main", "200"); err != nil {
		t.Fatalf("second demoteStaleLatest failed: %v", err)
	}
	after := stashEntries(t, repoPath)
	if len(before) != len(after) {
		t.Fatalf("entry count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("entry %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}

	if e := assertAtMostOneLatest(); e.Discriminator != "200" {
		t.Errorf("after rerun, surviving latest discriminator = %q, want 200", e.Discriminator)
	}
}

func TestSwitch_UserStashesUntouched(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	ctx := testCtx()

	// A stash the user made by hand, outside gmux.
	writeFile(t, repoPath, "x.txt", "users own work\n")
	if err := git.RunGitCommand(ctx, repoPath, "stash", "push", "-m", "my manual stash"); err != nil {
		t.Fatalf("manual stash failed: %v", err)
	}

	if err := Switch(ctx, repoPath, Options{Target: "feature"}); err != nil {
		t.Fatalf("Switch failed: %v", err)
	}

	lines, err := git.StashList(ctx, repoPath)
	if err != nil {
		t.Fatalf("StashList failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("stash list = %d lines, want the manual stash preserved", len(lines))
	}
	if entries := stashtag.Default.ParseList(lines); len(entries) != 0 {
		t.Errorf("manual stash parsed as gmux entry: %+v", entries)
	}
}
