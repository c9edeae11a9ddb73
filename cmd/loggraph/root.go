package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/loggraph/pkg/common/logger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// rootOptions holds the flags every command shares
type rootOptions struct {
	repoDir  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "loggraph",
		Short: "Browse commit history with foldable linear runs",
		Long: `loggraph draws the commit graph of a git repository and lets you fold
unbranched runs of commits into a single dotted edge.

Folded runs keep the shape of the history readable: merges, forks and branch
heads stay on screen while long stretches of plain commits collapse.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flag("log-level").Changed {
				return nil
			}
			level, err := logger.ParseLevel(opts.logLevel)
			if err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}
			logger.SetLevel(level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.repoDir, "repo", "C", ".", "Path to the git repository")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		newLogCmd(opts),
		newRowsCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the loggraph version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "loggraph version %s\n", version)
		},
	}
}
