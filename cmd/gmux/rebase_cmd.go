package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmux-sh/gmux/internal/fanout"
	"github.com/gmux-sh/gmux/internal/git"
	"github.com/gmux-sh/gmux/internal/session"
)

func newRebaseCmd() *cobra.Command {
	var onto string

	cmd := &cobra.Command{
		Use:     "rebase",
		Short:   "Rebase every repo in the session",
		GroupID: GroupBulk,
		Args:    cobra.NoArgs,
		Long: `Run 'git rebase' in every repo of the active session concurrently.

Without --onto each repo rebases onto its configured upstream. A repo
that hits conflicts is left mid-rebase for manual resolution and
reported as failed; the other repos are unaffected.`,
		Example: `  gmux rebase
  gmux rebase --onto origin/main`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := session.Load()
			if err != nil {
				return fmt.Errorf("load sessions: %w", err)
			}
			sess, err := activeSessionRepos(store)
			if err != nil {
				return err
			}

			outcomes := fanout.Run(ctx, sess.Repos, parallelLimit(ctx), func(ctx context.Context, path string) ([]byte, error) {
				return git.Rebase(ctx, path, onto)
			})

			return reportOutcomes(ctx, outcomes, "rebase")
		},
	}

	cmd.Flags().StringVar(&onto, "onto", "", "Upstream to rebase onto (default: configured upstream)")

	return cmd
}
