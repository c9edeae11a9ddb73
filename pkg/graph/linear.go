// Package graph holds the value types shared by every stage of the history
// view: rows, edges, the LinearGraph query contract and id-keyed diffs.
//
// A LinearGraph exposes a commit DAG as rows 0..N-1, newest first. Every stage
// of the pipeline produces one: the permanent graph at the bottom, the
// collapsed view on top of it. Row numbers are only meaningful for the graph
// that produced them; permanent ids are stable across all of them.
package graph

// LinearGraph is a read-only, row-indexed view of a commit graph.
//
// Implementations must not change once handed out; a stage that changes
// shape produces a new LinearGraph instead.
type LinearGraph interface {
	// NodeCount returns the number of rows.
	NodeCount() int

	// IndexOf returns the row of a permanent id, false if the id has no row
	// in this view.
	IndexOf(id int) (int, bool)

	// IDOf returns the permanent id of a row. It panics on rows out of range.
	IDOf(row int) int

	// Node returns the node at row.
	Node(row int) Node

	// Edges returns the edges adjacent to row selected by filter, up edges
	// first, in a deterministic order.
	Edges(row int, filter EdgeFilter) []Edge
}

// UpRows returns the rows directly above row, skipping ends outside the view.
func UpRows(g LinearGraph, row int) []int {
	var rows []int
	for _, e := range g.Edges(row, FilterUp) {
		if up, ok := e.Up.Row(); ok {
			rows = append(rows, up)
		}
	}
	return rows
}

// DownRows returns the rows directly below row, skipping ends outside the view.
func DownRows(g LinearGraph, row int) []int {
	var rows []int
	for _, e := range g.Edges(row, FilterDown) {
		if down, ok := e.Down.Row(); ok {
			rows = append(rows, down)
		}
	}
	return rows
}

// IDs returns the permanent ids of all rows in row order.
func IDs(g LinearGraph) []int {
	ids := make([]int, g.NodeCount())
	for row := range ids {
		ids[row] = g.IDOf(row)
	}
	return ids
}

// IDSpace returns the number of permanent ids g may refer to: one past the
// highest id with a row, or the graph's own Len when it tracks ids of
// commits referenced but not loaded.
func IDSpace(g LinearGraph) int {
	n := 0
	if s, ok := g.(interface{ Len() int }); ok {
		n = s.Len()
	}
	for row := 0; row < g.NodeCount(); row++ {
		if id := g.IDOf(row); id >= n {
			n = id + 1
		}
	}
	return n
}
