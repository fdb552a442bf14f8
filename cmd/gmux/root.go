package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/gmux-sh/gmux/internal/config"
	"github.com/gmux-sh/gmux/internal/git"
	"github.com/gmux-sh/gmux/internal/log"
	"github.com/gmux-sh/gmux/internal/output"
)

var (
	// Global flags
	verbose     bool
	quiet       bool
	sessionFlag string

	// Shared state injected into commands
	cfg     config.Config
	workDir string
)

// Command group IDs for organizing help output
const (
	GroupSession = "session"
	GroupBulk    = "bulk"
	GroupUtility = "utility"
	GroupConfig  = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gmux",
	Short: "Coordinate branches and stashes across a group of git repos",
	Long: `gmux operates on a session, a named group of git working copies, and runs
bulk operations across all of them: switch branches, pull, rebase, status.

Switching branches stashes uncommitted work under a tag tied to the branch
you leave and restores the matching stash on the branch you enter, so each
branch keeps its own work in progress across every repo of the session.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip git check for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}

		// Validate mutually exclusive flags
		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}

		// Check git is available
		return git.CheckGit()
	},
	// Run is not set - shows help when no subcommand provided
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Load config
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg = loadedCfg

	applyColorMode(cfg.Color)

	// Get working directory
	workDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gmux: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create logger (stderr for diagnostics)
	logger := log.New(os.Stderr, verbose, quiet)
	ctx = log.WithLogger(ctx, logger)

	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, os.Stdout)

	ctx = config.WithConfig(ctx, cfg)
	ctx = config.WithWorkDir(ctx, workDir)

	// Store context for commands to use
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'gmux -h' for help")
		os.Exit(1)
	}
}

// applyColorMode maps the color config setting onto lipgloss.
func applyColorMode(mode string) {
	switch mode {
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	default: // auto
		if !isatty.IsTerminal(os.Stdout.Fd()) {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.PersistentFlags().StringVarP(&sessionFlag, "session", "s", "", "Session to operate on (default: current session)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	rootCmd.RegisterFlagCompletionFunc("session", completeSessions)

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupSession, Title: "Session Commands:"},
		&cobra.Group{ID: GroupBulk, Title: "Bulk Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Session commands
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newSessionCmd())

	// Bulk commands
	rootCmd.AddCommand(newSwitchCmd())
	rootCmd.AddCommand(newPullCmd())
	rootCmd.AddCommand(newRebaseCmd())
	rootCmd.AddCommand(newStatusCmd())

	// Utility commands
	rootCmd.AddCommand(newCdCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())
}
