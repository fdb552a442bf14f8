package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gmux-sh/gmux/internal/fanout"
	"github.com/gmux-sh/gmux/internal/git"
	"github.com/gmux-sh/gmux/internal/log"
	"github.com/gmux-sh/gmux/internal/session"
)

func newPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pull",
		Short:   "Pull every repo in the session",
		GroupID: GroupBulk,
		Args:    cobra.NoArgs,
		Long: `Run 'git pull' in every repo of the active session concurrently.

A repo that fails to pull (conflicts, no upstream) is reported and does
not stop the others.`,
		Example: `  gmux pull
  gmux pull -s infra`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			store, err := session.Load()
			if err != nil {
				return fmt.Errorf("load sessions: %w", err)
			}
			sess, err := activeSessionRepos(store)
			if err != nil {
				return err
			}

			outcomes := fanout.Run(ctx, sess.Repos, parallelLimit(ctx), func(ctx context.Context, path string) ([]byte, error) {
				return git.Pull(ctx, path)
			})

			if l.IsVerbose() {
				for _, o := range outcomes {
					if text := strings.TrimSpace(string(o.Value)); text != "" {
						l.Printf("[%s]\n%s\n", o.Path, text)
					}
				}
			}

			return reportOutcomes(ctx, outcomes, "pull")
		},
	}

	return cmd
}
