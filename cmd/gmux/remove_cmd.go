package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmux-sh/gmux/internal/output"
	"github.com/gmux-sh/gmux/internal/session"
)

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <repo>...",
		Short:   "Remove repositories from the session",
		Aliases: []string{"rm"},
		GroupID: GroupSession,
		Args:    cobra.MinimumNArgs(1),
		Long: `Remove repositories from the active session.

Repos can be referenced by full path or by directory name. The working
copies on disk are not touched.`,
		Example: `  gmux remove ~/work/api   # Remove by path
  gmux rm api              # Remove by directory name`,
		ValidArgsFunction: completeSessionRepos,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			store, err := session.Load()
			if err != nil {
				return fmt.Errorf("load sessions: %w", err)
			}
			sess, err := activeSession(store)
			if err != nil {
				return err
			}

			for _, ref := range args {
				if err := sess.RemoveRepo(ref); err != nil {
					return err
				}
				out.Printf("Removed %s from session %q\n", ref, sess.Name)
			}

			if err := store.Save(); err != nil {
				return fmt.Errorf("save sessions: %w", err)
			}

			return nil
		},
	}

	return cmd
}

// completeSessionRepos provides completion for repo arguments from the
// active session.
func completeSessionRepos(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	store, err := session.Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	sess, err := activeSession(store)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return sess.Repos, cobra.ShellCompDirectiveNoFileComp
}
