package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/utkarsh5026/loggraph/pkg/graph"
)

func newRowsCmd(root *rootOptions) *cobra.Command {
	opts := &viewOptions{}

	cmd := &cobra.Command{
		Use:   "rows",
		Short: "Dump the rows and edges of the collapsed view",
		Long: `Print every row of the collapsed view with the row it maps to in the
full history and its edges.

Edges name commits by permanent id (#n). A folded edge carries the id of the
commit a click would reveal as its target; edges leaving the loaded history
end at "above" or "below".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(context.Background(), cmd, root, opts)
			if err != nil {
				return err
			}

			view := s.view()
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Row", "Full Row", "Id", "Commit", "Up", "Down")

			for row := 0; row < view.NodeCount(); row++ {
				full, _ := s.controller.ToDelegateRow(row)
				if err := table.Append(
					row,
					full,
					view.IDOf(row),
					s.shortHash(row),
					edgeList(view, row, graph.FilterUp),
					edgeList(view, row, graph.FilterDown),
				); err != nil {
					return err
				}
			}
			if err := table.Render(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), s.summary())
			return nil
		},
	}

	opts.addFlags(cmd)

	return cmd
}

func edgeList(g graph.LinearGraph, row int, filter graph.EdgeFilter) string {
	edges := g.Edges(row, filter)
	refs := make([]string, len(edges))
	for i, e := range edges {
		refs[i] = graph.RefOf(g, e).String()
	}
	return strings.Join(refs, " ")
}
