// Package switcher implements the per-repo branch switch state machine.
//
// A switch moves a possibly-dirty working copy to a target branch while
// preserving uncommitted work in tagged stashes (see the stashtag package).
// The steps run strictly in order for one repo; any git failure aborts the
// switch for that repo immediately, leaving whatever intermediate state the
// failing command produced. No rollback is attempted; the user inspects
// the stash list manually.
//
// Untracked files are a precondition failure handled by the caller at the
// session level before any repo is switched: a stash without untracked
// files would silently drop them.
package switcher

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gmux-sh/gmux/internal/git"
	"github.com/gmux-sh/gmux/internal/log"
	"github.com/gmux-sh/gmux/internal/stashtag"
)

// discardDiscriminator is used on the discard path. Tags always carry a
// numeric discriminator, so it can never match an existing stash.
const discardDiscriminator = "discard"

// Options controls a branch switch for a single repo.
type Options struct {
	// Target is the branch to switch to; created at the current position
	// if it does not exist.
	Target string
	// Bring carries the current uncommitted changes over to the target
	// branch instead of leaving them stashed for the source branch.
	Bring bool
	// Discard hard-resets uncommitted changes instead of stashing them.
	// Mutually exclusive with Bring; validated before fan-out.
	Discard bool
	// NoStash leaves any previously tagged stash for the target branch in
	// the stash list instead of restoring it.
	NoStash bool
	// Tags is the stash tag protocol; the zero value means stashtag.Default.
	Tags stashtag.Protocol
}

// Switch moves the repo at path to opts.Target, preserving or discarding
// uncommitted work per opts.
func Switch(ctx context.Context, path string, opts Options) error {
	if opts.Bring && opts.Discard {
		return fmt.Errorf("bring and discard are mutually exclusive")
	}
	if opts.Target == "" {
		return fmt.Errorf("no target branch")
	}
	if (opts.Tags == stashtag.Protocol{}) {
		opts.Tags = stashtag.Default
	}

	l := log.FromContext(ctx)

	// Snapshot the source branch and cleanliness.
	st, err := git.ProbeStatus(ctx, path)
	if err != nil {
		return err
	}
	source := st.Branch

	// Preserve or discard current work.
	disc := discardDiscriminator
	if opts.Discard {
		if err := git.ResetHard(ctx, path); err != nil {
			return err
		}
	} else {
		disc = strconv.FormatInt(time.Now().UnixNano(), 10)
		if !st.Clean {
			l.Debug("stashing changes", "path", path, "branch", source, "disc", disc)
			if err := git.StashPush(ctx, path, opts.Tags.Tag(source, disc)); err != nil {
				return err
			}
		}
	}

	// Leave exactly one latest-tagged stash for the source branch, namely
	// the one just created, if any.
	if err := demoteStaleLatest(ctx, path, opts.Tags, source, disc); err != nil {
		return err
	}

	exists, err := git.BranchExists(ctx, path, opts.Target)
	if err != nil {
		return err
	}
	if !exists {
		l.Debug("creating branch", "path", path, "branch", opts.Target)
		if err := git.CreateBranch(ctx, path, opts.Target); err != nil {
			return err
		}
	}

	if err := git.Checkout(ctx, path, opts.Target); err != nil {
		return err
	}

	switch {
	case opts.Bring:
		// The stash created above follows the invocation to the target
		// branch. Normalize the target first so a stale latest stash there
		// cannot shadow future lookups.
		if err := demoteStaleLatest(ctx, path, opts.Tags, opts.Target, disc); err != nil {
			return err
		}
		// Found by discriminator regardless of branch or role: if the
		// normalization above happened to re-tag this entry, the
		// discriminator survives the re-tag.
		entry, found, err := findByDiscriminator(ctx, path, opts.Tags, disc)
		if err != nil {
			return err
		}
		if found {
			return git.StashPopIndex(ctx, path, entry.Index)
		}
	case opts.NoStash:
		// Leave any tagged stash for the target branch untouched.
	default:
		// Restore what a previous invocation stashed for the target branch,
		// if anything. No match means the branch simply starts clean.
		entry, found, err := findLatest(ctx, path, opts.Tags, opts.Target)
		if err != nil {
			return err
		}
		if found {
			l.Debug("restoring stash", "path", path, "branch", opts.Target, "disc", entry.Discriminator)
			return git.StashPopIndex(ctx, path, entry.Index)
		}
	}

	return nil
}

// demoteStaleLatest re-tags every latest stash for branch whose
// discriminator differs from keep as archived, so at most one latest entry
// per branch remains. Stash indices are invalidated by every pop/push, so
// the list is re-fetched on every iteration rather than iterated once.
func demoteStaleLatest(ctx context.Context, path string, tags stashtag.Protocol, branch, keep string) error {
	for {
		stale, found, err := findStaleLatest(ctx, path, tags, branch, keep)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}
		// Re-tagging means pop + immediate re-push with the archived
		// message. The working tree is clean at every call site, so the
		// pop only materializes the stashed changes for the re-push.
		if err := git.StashPopIndex(ctx, path, stale.Index); err != nil {
			return err
		}
		archived := tags.Archive(tags.Tag(stale.Branch, stale.Discriminator))
		if err := git.StashPush(ctx, path, archived); err != nil {
			return err
		}
	}
}

// findStaleLatest returns the first latest-tagged entry for branch whose
// discriminator differs from keep.
func findStaleLatest(ctx context.Context, path string, tags stashtag.Protocol, branch, keep string) (stashtag.Entry, bool, error) {
	entries, err := taggedEntries(ctx, path, tags)
	if err != nil {
		return stashtag.Entry{}, false, err
	}
	for _, e := range entries {
		if e.Branch == branch && e.Role == stashtag.RoleLatest && e.Discriminator != keep {
			return e, true, nil
		}
	}
	return stashtag.Entry{}, false, nil
}

// findLatest returns the latest-tagged entry for branch, if any.
func findLatest(ctx context.Context, path string, tags stashtag.Protocol, branch string) (stashtag.Entry, bool, error) {
	entries, err := taggedEntries(ctx, path, tags)
	if err != nil {
		return stashtag.Entry{}, false, err
	}
	for _, e := range entries {
		if e.Branch == branch && e.Role == stashtag.RoleLatest {
			return e, true, nil
		}
	}
	return stashtag.Entry{}, false, nil
}

// findByDiscriminator returns the entry with the given discriminator,
// regardless of branch or role.
func findByDiscriminator(ctx context.Context, path string, tags stashtag.Protocol, disc string) (stashtag.Entry, bool, error) {
	entries, err := taggedEntries(ctx, path, tags)
	if err != nil {
		return stashtag.Entry{}, false, err
	}
	for _, e := range entries {
		if e.Discriminator == disc {
			return e, true, nil
		}
	}
	return stashtag.Entry{}, false, nil
}

// taggedEntries fetches a fresh stash list and parses the gmux entries.
func taggedEntries(ctx context.Context, path string, tags stashtag.Protocol) ([]stashtag.Entry, error) {
	lines, err := git.StashList(ctx, path)
	if err != nil {
		return nil, err
	}
	return tags.ParseList(lines), nil
}
