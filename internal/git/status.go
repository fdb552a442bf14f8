package git

import (
	"context"
	"fmt"
	"strings"
)

// Status is the probed state of a working tree.
type Status struct {
	Branch    string `json:"branch"`
	Clean     bool   `json:"clean"`
	Untracked bool   `json:"untracked"`
}

// ProbeStatus returns branch, cleanliness, and untracked state of a repo in
// a single git invocation.
func ProbeStatus(ctx context.Context, path string) (Status, error) {
	output, err := outputGit(ctx, path, "status", "--porcelain=v1", "--branch")
	if err != nil {
		return Status{}, fmt.Errorf("failed to get status: %v", err)
	}
	return parseStatus(output)
}

// parseStatus parses `git status --porcelain=v1 --branch` output.
// Kept separate from ProbeStatus so git's exact phrasing stays a single
// point of change.
func parseStatus(output []byte) (Status, error) {
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "## ") {
		return Status{}, fmt.Errorf("unexpected status output: %q", string(output))
	}

	st := Status{
		Branch: parseBranchHeader(lines[0]),
		Clean:  true,
	}

	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		st.Clean = false
		if strings.HasPrefix(line, "?? ") {
			st.Untracked = true
		}
	}

	return st, nil
}

// parseBranchHeader extracts the branch name from a porcelain "## " line.
// Handles "## main", "## main...origin/main [ahead 1]",
// "## No commits yet on main", and "## HEAD (no branch)".
func parseBranchHeader(header string) string {
	branch := strings.TrimPrefix(header, "## ")
	branch = strings.TrimPrefix(branch, "No commits yet on ")
	if idx := strings.Index(branch, "..."); idx != -1 {
		branch = branch[:idx]
	}
	if branch == "HEAD (no branch)" {
		return "(detached)"
	}
	return branch
}

// CurrentBranch returns the current branch name.
// Returns "(detached)" for detached HEAD state.
func CurrentBranch(ctx context.Context, path string) (string, error) {
	output, err := outputGit(ctx, path, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %v", err)
	}
	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "(detached)", nil
	}
	return branch, nil
}
