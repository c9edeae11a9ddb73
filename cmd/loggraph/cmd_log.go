package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/utkarsh5026/loggraph/pkg/graph"
	"github.com/utkarsh5026/loggraph/pkg/stage"
)

// logOptions holds all the options for the log command
type logOptions struct {
	viewOptions
	collapse []string
	fold     []string
	expand   []string
	useTable bool
}

func newLogCmd(root *rootOptions) *cobra.Command {
	opts := &logOptions{}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the commit graph with folded runs",
		Long: `Show the commit graph of the repository.

Runs of commits are folded into a dotted edge; the commit above the fold is
drawn hollow. Folds are applied in this order:
- --collapse-all folds every unbranched run
- --collapse FIRST:LAST folds the run from FIRST down to LAST
- --fold COMMIT folds the longest unbranched run through COMMIT
- --expand COMMIT reveals the next commit of a fold touching COMMIT

Commits are given by hash or unique hash prefix.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := openSession(ctx, cmd, root, &opts.viewOptions)
			if err != nil {
				return err
			}

			if err := applyFolds(s, opts); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if s.view().NodeCount() == 0 {
				fmt.Fprintln(out, "No commits to show")
				return nil
			}

			if opts.useTable {
				if err := displayLogTable(s, cmd); err != nil {
					return fmt.Errorf("failed to display commits: %w", err)
				}
			} else {
				renderer := graph.NewRenderer(s.view(), func(row int) string {
					return s.shortHash(row) + " " + s.subject(row)
				})
				fmt.Fprint(out, renderer.Render())
			}

			fmt.Fprintln(out, s.summary())
			return nil
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringArrayVar(&opts.collapse, "collapse", nil, "Fold the run FIRST:LAST (repeatable)")
	cmd.Flags().StringArrayVar(&opts.fold, "fold", nil, "Fold the unbranched run through a commit (repeatable)")
	cmd.Flags().StringArrayVar(&opts.expand, "expand", nil, "Reveal one folded commit next to a commit (repeatable)")
	cmd.Flags().BoolVarP(&opts.useTable, "table", "t", false, "Display rows in table format")

	return cmd
}

// applyFolds runs the fold and expand flags as actions on the chain
func applyFolds(s *session, opts *logOptions) error {
	for _, run := range opts.collapse {
		first, last, ok := strings.Cut(run, ":")
		if !ok {
			return fmt.Errorf("invalid --collapse %q: want FIRST:LAST", run)
		}
		firstRow, err := s.rowOf(first)
		if err != nil {
			return err
		}
		lastRow, err := s.rowOf(last)
		if err != nil {
			return err
		}
		if s.chain.HandleAction(stage.CollapseRun(firstRow, lastRow)).Empty() {
			return fmt.Errorf("cannot collapse %s: not an unbranched run", run)
		}
	}

	for _, hash := range opts.fold {
		row, err := s.rowOf(hash)
		if err != nil {
			return err
		}
		if s.chain.HandleAction(stage.Click(s.view().Node(row))).Empty() {
			return fmt.Errorf("cannot fold %s: not on an unbranched run", hash)
		}
	}

	for _, hash := range opts.expand {
		row, err := s.rowOf(hash)
		if err != nil {
			return err
		}
		edge, ok := foldAt(s.view(), row)
		if !ok {
			return fmt.Errorf("nothing folded next to %s", hash)
		}
		s.chain.HandleAction(stage.Click(edge))
	}

	return nil
}

// foldAt returns the first skip edge of row, looking below it first
func foldAt(g graph.LinearGraph, row int) (graph.Edge, bool) {
	for _, filter := range []graph.EdgeFilter{graph.FilterDown, graph.FilterUp} {
		for _, e := range g.Edges(row, filter) {
			if e.IsSkip() {
				return e, true
			}
		}
	}
	return graph.Edge{}, false
}

// displayLogTable shows the view in a compact table format
func displayLogTable(s *session, cmd *cobra.Command) error {
	view := s.view()
	renderer := graph.NewRenderer(view, nil)

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Row", "Graph", "Commit", "Subject")

	for row := 0; row < view.NodeCount(); row++ {
		_, marker := renderer.RenderRow(row)

		subject := s.subject(row)
		if len(subject) > 50 {
			subject = subject[:47] + "..."
		}

		if err := table.Append(row, marker, s.shortHash(row), subject); err != nil {
			return err
		}
	}

	return table.Render()
}
