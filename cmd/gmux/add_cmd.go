package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gmux-sh/gmux/internal/git"
	"github.com/gmux-sh/gmux/internal/log"
	"github.com/gmux-sh/gmux/internal/output"
	"github.com/gmux-sh/gmux/internal/session"
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add <path>...",
		Short:   "Add repositories to the session",
		Aliases: []string{"a"},
		GroupID: GroupSession,
		Args:    cobra.MinimumNArgs(1),
		Long: `Add existing git working copies to the active session.

The session is created if it does not exist yet. Paths that are not git
working trees are skipped with a note. Paths are stored absolute, so the
session works from any directory.`,
		Example: `  gmux add ~/work/api ~/work/web     # Add two repos
  gmux add ~/work/*                  # Add every repo in a directory
  gmux add -s infra ~/ops/terraform  # Add to a specific session`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			store, err := session.Load()
			if err != nil {
				return fmt.Errorf("load sessions: %w", err)
			}
			sess := store.Ensure(resolveSessionName(store))

			var added int
			for _, path := range args {
				absPath, err := filepath.Abs(path)
				if err != nil {
					l.Printf("skipping %s: %v\n", path, err)
					continue
				}

				if !git.IsWorkTree(ctx, absPath) {
					l.Printf("skipping %s: not a git working tree\n", absPath)
					continue
				}

				if err := sess.AddRepo(absPath); err != nil {
					l.Printf("skipping %s: %v\n", absPath, err)
					continue
				}

				out.Printf("Added %s to session %q\n", absPath, sess.Name)
				added++
			}

			if added == 0 {
				return fmt.Errorf("no repositories added")
			}

			if err := store.Save(); err != nil {
				return fmt.Errorf("save sessions: %w", err)
			}

			return nil
		},
	}

	return cmd
}
