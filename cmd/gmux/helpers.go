package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/gmux-sh/gmux/internal/config"
	"github.com/gmux-sh/gmux/internal/fanout"
	"github.com/gmux-sh/gmux/internal/output"
	"github.com/gmux-sh/gmux/internal/session"
	"github.com/gmux-sh/gmux/internal/ui/styles"
)

// resolveSessionName picks the session a command operates on:
// --session flag, then the store's current pointer, then the configured
// default.
func resolveSessionName(store *session.Store) string {
	if sessionFlag != "" {
		return sessionFlag
	}
	if store.Current != "" {
		return store.Current
	}
	return cfg.DefaultSession
}

// activeSession loads the resolved session, with a fuzzy "did you mean"
// hint when the name does not exist.
func activeSession(store *session.Store) (*session.Session, error) {
	name := resolveSessionName(store)
	sess, err := store.Get(name)
	if err != nil {
		if hint := suggestName(store.Names(), name); hint != "" {
			return nil, fmt.Errorf("session %q not found (did you mean %q?)", name, hint)
		}
		return nil, err
	}
	return sess, nil
}

// activeSessionRepos is activeSession plus a non-empty check, shared by
// every bulk command.
func activeSessionRepos(store *session.Store) (*session.Session, error) {
	sess, err := activeSession(store)
	if err != nil {
		return nil, err
	}
	if len(sess.Repos) == 0 {
		return nil, fmt.Errorf("session %q has no repos; run 'gmux add <path>...' first", sess.Name)
	}
	return sess, nil
}

// suggestName returns the best fuzzy match for input among candidates,
// or "" when nothing is close.
func suggestName(candidates []string, input string) string {
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

// parallelLimit returns the configured fan-out width.
func parallelLimit(ctx context.Context) int {
	return config.FromContext(ctx).Parallel
}

// reportOutcomes prints one ok/FAIL line per repo and returns an error
// summarizing the failures, if any. Outcomes arrive sorted by path.
func reportOutcomes[T any](ctx context.Context, outcomes []fanout.Outcome[T], verb string) error {
	out := output.FromContext(ctx)

	var failed int
	for _, o := range outcomes {
		if o.Failed() {
			failed++
			out.Printf("%s %s\n", styles.ErrorStyle.Render("FAIL"), o.Path)
			for _, line := range strings.Split(strings.TrimSpace(o.Err.Error()), "\n") {
				out.Printf("     %s\n", styles.MutedStyle.Render(line))
			}
			continue
		}
		out.Printf("%s   %s\n", styles.SuccessStyle.Render("ok"), o.Path)
	}

	if failed > 0 {
		return fmt.Errorf("%s failed in %d of %d repos", verb, failed, len(outcomes))
	}
	return nil
}

// completeSessions provides completion for session name arguments and
// the --session flag.
func completeSessions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	store, err := session.Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return store.Names(), cobra.ShellCompDirectiveNoFileComp
}
