package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmux-sh/gmux/internal/fanout"
	"github.com/gmux-sh/gmux/internal/git"
	"github.com/gmux-sh/gmux/internal/log"
	"github.com/gmux-sh/gmux/internal/output"
	"github.com/gmux-sh/gmux/internal/session"
	"github.com/gmux-sh/gmux/internal/stashtag"
	"github.com/gmux-sh/gmux/internal/switcher"
	"github.com/gmux-sh/gmux/internal/ui/prompt"
	"github.com/gmux-sh/gmux/internal/ui/styles"
)

func newSwitchCmd() *cobra.Command {
	var (
		bring   bool
		discard bool
		noStash bool
		yes     bool
	)

	cmd := &cobra.Command{
		Use:     "switch <branch>",
		Short:   "Switch every repo to a branch, stashing work per branch",
		Aliases: []string{"sw"},
		GroupID: GroupBulk,
		Args:    cobra.ExactArgs(1),
		Long: `Switch every repo of the active session to <branch>, creating it where
it does not exist.

Uncommitted changes are stashed under a tag tied to the branch you are
leaving, and the stash previously tagged for <branch> is restored, so
each branch keeps its own work in progress per repo. Repos with
untracked files block the whole switch before any repo is touched,
because stashing does not capture untracked content.`,
		Example: `  gmux switch feature/login        # Stash here, restore there
  gmux sw main -b                  # Bring current changes along
  gmux sw main -d                  # Discard current changes
  gmux sw release --no-stash       # Do not restore the target's stash`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			target := args[0]

			store, err := session.Load()
			if err != nil {
				return fmt.Errorf("load sessions: %w", err)
			}
			sess, err := activeSessionRepos(store)
			if err != nil {
				return err
			}

			// Untracked files are not captured by stash, so any repo
			// carrying them blocks the whole switch before a single repo
			// is touched.
			probes := fanout.Run(ctx, sess.Repos, parallelLimit(ctx), git.ProbeStatus)
			var blocked []string
			for _, p := range probes {
				if p.Failed() {
					return fmt.Errorf("probe %s: %w", p.Path, p.Err)
				}
				if p.Value.Untracked {
					blocked = append(blocked, p.Path)
				}
			}
			if len(blocked) > 0 {
				out.Printf("%s\n", styles.ErrorStyle.Render("untracked files block the switch:"))
				for _, path := range blocked {
					out.Printf("  %s\n", path)
				}
				return fmt.Errorf("commit, stash with -u, or remove untracked files first")
			}

			if discard && !yes {
				result, err := prompt.Confirm(fmt.Sprintf("Discard uncommitted changes in %d repos?", len(sess.Repos)))
				if err != nil {
					return err
				}
				if result.Cancelled || !result.Confirmed {
					out.Println("Aborted")
					return nil
				}
			}

			opts := switcher.Options{
				Target:  target,
				Bring:   bring,
				Discard: discard,
				NoStash: noStash,
				Tags:    stashtag.New(cfg.StashPrefix),
			}

			l.Debug("switching session", "session", sess.Name, "target", target, "repos", len(sess.Repos))

			outcomes := fanout.Run(ctx, sess.Repos, parallelLimit(ctx), func(ctx context.Context, path string) (struct{}, error) {
				return struct{}{}, switcher.Switch(ctx, path, opts)
			})

			return reportOutcomes(ctx, outcomes, "switch")
		},
	}

	cmd.Flags().BoolVarP(&bring, "bring", "b", false, "Carry uncommitted changes to the target branch")
	cmd.Flags().BoolVarP(&discard, "discard", "d", false, "Discard uncommitted changes instead of stashing")
	cmd.Flags().BoolVar(&noStash, "no-stash", false, "Do not restore the target branch's tagged stash")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt for --discard")
	cmd.MarkFlagsMutuallyExclusive("bring", "discard")

	return cmd
}
