package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmux-sh/gmux/internal/output"
	"github.com/gmux-sh/gmux/internal/session"
	"github.com/gmux-sh/gmux/internal/ui/prompt"
	"github.com/gmux-sh/gmux/internal/ui/static"
	"github.com/gmux-sh/gmux/internal/ui/styles"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Short:   "Manage sessions",
		Aliases: []string{"se"},
		GroupID: GroupSession,
		Long: `Manage sessions, the named repo groups gmux operates on.

Deleting a session only removes the grouping; the working copies on disk
are never touched.`,
		Example: `  gmux session list
  gmux session new infra
  gmux session use infra
  gmux session rename infra ops
  gmux session delete ops`,
	}

	cmd.AddCommand(newSessionListCmd())
	cmd.AddCommand(newSessionUseCmd())
	cmd.AddCommand(newSessionNewCmd())
	cmd.AddCommand(newSessionRenameCmd())
	cmd.AddCommand(newSessionDeleteCmd())

	return cmd
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List sessions",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			store, err := session.Load()
			if err != nil {
				return fmt.Errorf("load sessions: %w", err)
			}

			if len(store.Sessions) == 0 {
				out.Println("no sessions yet; run 'gmux add <path>...' to create one")
				return nil
			}

			current := resolveSessionName(store)
			rows := make([][]string, 0, len(store.Sessions))
			for _, sess := range store.Sessions {
				name := sess.Name
				if sess.Name == current {
					name = styles.AccentStyle.Render(name + " *")
				}
				rows = append(rows, []string{name, fmt.Sprintf("%d", len(sess.Repos))})
			}
			out.Print(static.RenderTable([]string{"SESSION", "REPOS"}, rows))

			return nil
		},
	}
}

func newSessionUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "use <name>",
		Short:             "Set the current session",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSessions,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			store, err := session.Load()
			if err != nil {
				return fmt.Errorf("load sessions: %w", err)
			}

			if err := store.Use(args[0]); err != nil {
				if hint := suggestName(store.Names(), args[0]); hint != "" {
					return fmt.Errorf("%w (did you mean %q?)", err, hint)
				}
				return err
			}
			if err := store.Save(); err != nil {
				return fmt.Errorf("save sessions: %w", err)
			}

			out.Printf("Current session is now %q\n", args[0])
			return nil
		},
	}
}

func newSessionNewCmd() *cobra.Command {
	var use bool

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			store, err := session.Load()
			if err != nil {
				return fmt.Errorf("load sessions: %w", err)
			}

			name := args[0]
			if _, err := store.Get(name); err == nil {
				return fmt.Errorf("session %q already exists", name)
			}
			store.Ensure(name)
			if use {
				if err := store.Use(name); err != nil {
					return err
				}
			}
			if err := store.Save(); err != nil {
				return fmt.Errorf("save sessions: %w", err)
			}

			out.Printf("Created session %q\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&use, "use", "u", false, "Also make it the current session")

	return cmd
}

func newSessionRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "rename <old> <new>",
		Short:             "Rename a session",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeSessions,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			store, err := session.Load()
			if err != nil {
				return fmt.Errorf("load sessions: %w", err)
			}

			if err := store.Rename(args[0], args[1]); err != nil {
				return err
			}
			if err := store.Save(); err != nil {
				return fmt.Errorf("save sessions: %w", err)
			}

			out.Printf("Renamed session %q to %q\n", args[0], args[1])
			return nil
		},
	}
}

func newSessionDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:               "delete <name>",
		Short:             "Delete a session",
		Aliases:           []string{"rm"},
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSessions,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			store, err := session.Load()
			if err != nil {
				return fmt.Errorf("load sessions: %w", err)
			}

			name := args[0]
			sess, err := store.Get(name)
			if err != nil {
				return err
			}

			if !yes {
				result, err := prompt.Confirm(fmt.Sprintf("Delete session %q (%d repos stay on disk)?", name, len(sess.Repos)))
				if err != nil {
					return err
				}
				if result.Cancelled || !result.Confirmed {
					out.Println("Aborted")
					return nil
				}
			}

			if err := store.Delete(name); err != nil {
				return err
			}
			if err := store.Save(); err != nil {
				return fmt.Errorf("save sessions: %w", err)
			}

			out.Printf("Deleted session %q\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
