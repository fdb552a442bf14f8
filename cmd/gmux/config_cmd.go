package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/gmux-sh/gmux/internal/config"
	"github.com/gmux-sh/gmux/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		GroupID: GroupConfig,
		Long: `Manage the gmux configuration at ~/.config/gmux/config.toml
(honoring XDG_CONFIG_HOME). A missing file means defaults.`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			path, err := config.WriteDefault(force)
			if err != nil {
				return err
			}

			out.Printf("Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			effective := config.FromContext(ctx)

			if jsonOutput {
				data, err := json.MarshalIndent(effective, "", "  ")
				if err != nil {
					return err
				}
				out.Println(string(data))
				return nil
			}

			path, err := config.Path()
			if err != nil {
				return err
			}
			out.Printf("# %s\n", path)
			out.Printf("default_session = %q\n", effective.DefaultSession)
			out.Printf("parallel = %d\n", effective.Parallel)
			out.Printf("stash_prefix = %q\n", effective.StashPrefix)
			out.Printf("color = %q\n", effective.Color)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
