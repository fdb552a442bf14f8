package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gmux-sh/gmux/internal/output"
	"github.com/gmux-sh/gmux/internal/session"
	"github.com/gmux-sh/gmux/internal/ui/static"
)

func newListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List repositories in the session",
		Aliases: []string{"ls"},
		GroupID: GroupSession,
		Args:    cobra.NoArgs,
		Long: `List the repositories of the active session.

Unlike 'gmux status' this does not touch the repos, so it is instant.`,
		Example: `  gmux list
  gmux ls --json | jq -r '.repos[]'`,
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

			if jsonOutput {
				payload := struct {
					Session string   `json:"session"`
					Repos   []string `json:"repos"`
				}{Session: sess.Name, Repos: sess.Repos}
				data, err := json.MarshalIndent(payload, "", "  ")
				if err != nil {
					return err
				}
				out.Println(string(data))
				return nil
			}

			if len(sess.Repos) == 0 {
				out.Printf("session %q has no repos\n", sess.Name)
				return nil
			}

			rows := make([][]string, 0, len(sess.Repos))
			for _, path := range sess.Repos {
				rows = append(rows, []string{filepath.Base(path), path})
			}
			out.Print(static.RenderTable([]string{"REPO", "PATH"}, rows))

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
