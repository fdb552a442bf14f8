// Package git provides git operations via shell commands.
//
// All operations use [os/exec.Command] to call the git CLI directly rather
// than using Go git libraries. This approach is simpler, more reliable, and
// ensures compatibility with user configurations (SSH keys, credential
// helpers, aliases).
//
// Every function takes the repository path explicitly; nothing here relies
// on the process working directory, so callers may run operations against
// different repositories concurrently.
//
// # State Probing
//
//   - [ProbeStatus]: branch, cleanliness, and untracked state in one call
//   - [CurrentBranch], [BranchExists]: branch queries
//   - [IsWorkTree]: repository detection
//
// # Mutations
//
//   - [CreateBranch], [Checkout], [ResetHard]
//   - [StashList], [StashPush], [StashPopIndex]
//   - [Pull], [Rebase]
//
// Stash entries are addressed positionally and indices are invalidated by
// every push or pop; callers must re-fetch [StashList] after any stash
// mutation before addressing another entry.
package git
