package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmux-sh/gmux/internal/fanout"
	"github.com/gmux-sh/gmux/internal/git"
	"github.com/gmux-sh/gmux/internal/output"
	"github.com/gmux-sh/gmux/internal/session"
	"github.com/gmux-sh/gmux/internal/ui/static"
	"github.com/gmux-sh/gmux/internal/ui/styles"
)

func newStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show branch and dirty state of every repo",
		Aliases: []string{"st"},
		GroupID: GroupBulk,
		Args:    cobra.NoArgs,
		Long: `Probe every repo of the active session concurrently and show its
current branch, whether the working tree is dirty, and whether it has
untracked files.`,
		Example: `  gmux status
  gmux st --json | jq '.[] | select(.untracked)'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			store, err := session.Load()
			if err != nil {
				return fmt.Errorf("load sessions: %w", err)
			}
			sess, err := activeSessionRepos(store)
			if err != nil {
				return err
			}

			outcomes := fanout.Run(ctx, sess.Repos, parallelLimit(ctx), git.ProbeStatus)

			if jsonOutput {
				type repoStatus struct {
					Path      string `json:"path"`
					Branch    string `json:"branch,omitempty"`
					Clean     bool   `json:"clean"`
					Untracked bool   `json:"untracked"`
					Error     string `json:"error,omitempty"`
				}
				statuses := make([]repoStatus, 0, len(outcomes))
				for _, o := range outcomes {
					rs := repoStatus{Path: o.Path}
					if o.Failed() {
						rs.Error = o.Err.Error()
					} else {
						rs.Branch = o.Value.Branch
						rs.Clean = o.Value.Clean
						rs.Untracked = o.Value.Untracked
					}
					statuses = append(statuses, rs)
				}
				data, err := json.MarshalIndent(statuses, "", "  ")
				if err != nil {
					return err
				}
				out.Println(string(data))
			} else {
				rows := make([][]string, 0, len(outcomes))
				for _, o := range outcomes {
					rows = append(rows, []string{o.Path, statusBranch(o), statusState(o)})
				}
				out.Print(static.RenderTable([]string{"PATH", "BRANCH", "STATE"}, rows))
			}

			if fanout.AnyFailed(outcomes) {
				return fmt.Errorf("status failed for some repos")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func statusBranch(o fanout.Outcome[git.Status]) string {
	if o.Failed() {
		return styles.MutedStyle.Render("-")
	}
	return o.Value.Branch
}

func statusState(o fanout.Outcome[git.Status]) string {
	if o.Failed() {
		return styles.ErrorStyle.Render("error: " + o.Err.Error())
	}
	state := styles.SuccessStyle.Render("clean")
	if !o.Value.Clean {
		state = styles.WarnStyle.Render("dirty")
	}
	if o.Value.Untracked {
		state += styles.WarnStyle.Render(" +untracked")
	}
	return state
}
