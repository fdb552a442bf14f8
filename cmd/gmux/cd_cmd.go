package main

import (
	"fmt"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/gmux-sh/gmux/internal/log"
	"github.com/gmux-sh/gmux/internal/output"
	"github.com/gmux-sh/gmux/internal/session"
	"github.com/sahilm/fuzzy"
)

func newCdCmd() *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:     "cd <repo>",
		Short:   "Print a repo path for shell scripting",
		GroupID: GroupUtility,
		Args:    cobra.ExactArgs(1),
		Long: `Print the path of a repo in the active session for shell scripting.

The argument is matched fuzzily against the repo directory names, so a
unique fragment is enough.

Use with shell command substitution: cd $(gmux cd api)`,
		Example: `  cd $(gmux cd api)       # cd into the api repo
  gmux cd --copy api      # copy the path to the clipboard`,
		ValidArgsFunction: completeSessionRepos,
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

			path, err := matchRepo(sess, args[0])
			if err != nil {
				return err
			}

			if copyToClipboard {
				if err := clipboard.WriteAll(path); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				log.FromContext(ctx).Printf("Copied %s to clipboard\n", path)
				return nil
			}

			out.Println(path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyToClipboard, "copy", "c", false, "Copy the path to the clipboard instead of printing")

	return cmd
}

// matchRepo resolves ref against the session's repos: exact path, exact
// directory name, then unique fuzzy match on directory names.
func matchRepo(sess *session.Session, ref string) (string, error) {
	names := make([]string, len(sess.Repos))
	for i, path := range sess.Repos {
		if path == ref || filepath.Base(path) == ref {
			return path, nil
		}
		names[i] = filepath.Base(path)
	}

	matches := fuzzy.Find(ref, names)
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no repo matching %q in session %q", ref, sess.Name)
	case 1:
		return sess.Repos[matches[0].Index], nil
	default:
		return "", fmt.Errorf("%q is ambiguous: matches %s and %s", ref,
			matches[0].Str, matches[1].Str)
	}
}
