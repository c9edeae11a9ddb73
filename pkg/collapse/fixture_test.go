package collapse

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/utkarsh5026/loggraph/pkg/graph"
	"github.com/utkarsh5026/loggraph/pkg/stage"
	"github.com/utkarsh5026/loggraph/pkg/visibility"
)

// fixture is a LinearGraph whose rows are their own permanent ids. Parents
// at or past the row count are treated as not loaded.
type fixture struct {
	parents  [][]int
	children [][]int
}

func newFixture(parents ...[]int) *fixture {
	f := &fixture{parents: parents, children: make([][]int, len(parents))}
	for row, ps := range parents {
		for _, p := range ps {
			if p < len(parents) {
				f.children[p] = append(f.children[p], row)
			}
		}
	}
	return f
}

// chain returns n rows, each the only parent of the row above
func chain(n int) *fixture {
	parents := make([][]int, n)
	for i := 0; i < n-1; i++ {
		parents[i] = []int{i + 1}
	}
	return newFixture(parents...)
}

func (f *fixture) NodeCount() int { return len(f.parents) }

func (f *fixture) IndexOf(id int) (int, bool) {
	return id, id >= 0 && id < len(f.parents)
}

func (f *fixture) IDOf(row int) int {
	if row < 0 || row >= len(f.parents) {
		panic(fmt.Sprintf("row %d out of range", row))
	}
	return row
}

func (f *fixture) Node(row int) graph.Node {
	return graph.Node{Row: f.IDOf(row)}
}

func (f *fixture) Edges(row int, filter graph.EdgeFilter) []graph.Edge {
	var edges []graph.Edge
	if filter.Up() {
		for _, c := range f.children[row] {
			edges = append(edges, graph.NewEdge(c, row))
		}
	}
	if filter.Down() {
		for _, p := range f.parents[row] {
			if p < len(f.parents) {
				edges = append(edges, graph.NewEdge(row, p))
			} else {
				edges = append(edges, graph.NewTailEdge(row, graph.EdgeNotLoaded, p))
			}
		}
	}
	return edges
}

// fixedStage is a bottom stage serving a graph that can be swapped
type fixedStage struct {
	g graph.LinearGraph
}

func (s *fixedStage) Compile() graph.LinearGraph                     { return s.g }
func (s *fixedStage) HandleAction(stage.Action) (stage.Answer, bool) { return stage.Answer{}, false }
func (s *fixedStage) OnUpstreamChanged(a stage.Answer) stage.Answer  { return a }
func (s *fixedStage) ToDelegate(graph.Element) (graph.Element, bool) { return nil, false }

// visibleExcept returns a set of n ids with only the given ids hidden
func visibleExcept(n int, hidden ...int) *visibility.Set {
	s := visibility.All(n)
	for _, id := range hidden {
		s.Set(id, false)
	}
	return s
}

// newTestController builds a controller over a fixed graph
func newTestController(t *testing.T, g graph.LinearGraph, roots []int, opts ...Option) (*Controller, *fixedStage) {
	t.Helper()
	st := &fixedStage{g: g}
	c, err := NewController(context.Background(), st, g, roots, opts...)
	require.NoError(t, err)
	return c, st
}

// edgeIDs renders the edges of a view by permanent ids, for readable asserts
func edgeIDs(g graph.LinearGraph, row int, filter graph.EdgeFilter) []string {
	var out []string
	for _, e := range g.Edges(row, filter) {
		out = append(out, graph.RefOf(g, e).String())
	}
	return out
}

// checkConsistent verifies the store invariants against its delegate
func checkConsistent(t *testing.T, s *Store) {
	t.Helper()
	delegate := s.Delegate()
	vis := s.Visibility()

	visibleRows := 0
	for d := 0; d < delegate.NodeCount(); d++ {
		c, ok := s.ToCollapsedRow(d)
		require.Equal(t, vis.Get(delegate.IDOf(d)), ok, "delegate row %d", d)
		if ok {
			visibleRows++
			require.Equal(t, d, s.ToDelegateRow(c), "round trip of delegate row %d", d)
		}
	}

	view := s.Compile()
	require.Equal(t, visibleRows, view.NodeCount())
	require.Equal(t, vis.Count(), view.NodeCount())

	rows := make([]int, view.NodeCount())
	for c := range rows {
		rows[c] = s.ToDelegateRow(c)
	}
	require.True(t, slices.IsSorted(rows), "collapsed rows keep delegate order")

	// every edge is reported identically by both of its present ends
	for c := 0; c < view.NodeCount(); c++ {
		for _, e := range view.Edges(c, graph.FilterDown) {
			down, ok := e.Down.Row()
			if !ok {
				continue
			}
			require.Contains(t, view.Edges(down, graph.FilterUp), e, "edge %s missing at its lower end", e)
		}
	}
}
