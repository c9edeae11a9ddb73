package collapse

import (
	"slices"

	"github.com/utkarsh5026/loggraph/pkg/graph"
	"github.com/utkarsh5026/loggraph/pkg/visibility"
)

// The functions in this file change a store's visibility for one user action
// and return the ids that flipped. Requests naming rows or ids the view does
// not have are no-ops: they return nil and leave the store untouched.

// isLinear reports whether row has exactly one up and one down edge, both
// between rows of g.
func isLinear(g graph.LinearGraph, row int) bool {
	up := g.Edges(row, graph.FilterUp)
	if len(up) != 1 || !up[0].Up.Present() {
		return false
	}
	down := g.Edges(row, graph.FilterDown)
	return len(down) == 1 && down[0].Down.Present()
}

// expandEdge shows the hidden commit a skip edge of the current view points
// at. The target is always a hidden neighbour of the edge's upper end (or of
// its only end), so nothing lies between the two and exactly one commit
// reappears.
func expandEdge(s *Store, e graph.Edge) []int {
	if !e.IsSkip() {
		return nil
	}
	target, _ := e.Target()
	d, ok := s.Delegate().IndexOf(target)
	if !ok || s.IsVisible(d) {
		return nil
	}
	return s.Modify().Show(d).Apply()
}

// chainRows returns the rows of the unbranched chain of view running down
// from first to last, false if rows first..last do not hold one.
func chainRows(view graph.LinearGraph, first, last int) ([]int, bool) {
	if first < 0 || last >= view.NodeCount() || first > last {
		return nil, false
	}

	var chain []int
	for row := first; ; {
		if !isLinear(view, row) {
			return nil, false
		}
		chain = append(chain, row)
		if row == last {
			return chain, true
		}
		next, _ := view.Edges(row, graph.FilterDown)[0].Down.Row()
		if next > last {
			return nil, false
		}
		row = next
	}
}

// collapseRun hides the chain first..last of the current view. It returns
// the flipped ids and the id of the row right above the chain, which is the
// natural row to select afterwards.
func collapseRun(s *Store, first, last int) ([]int, int, bool) {
	view := s.Compile()
	chain, ok := chainRows(view, first, last)
	if !ok {
		return nil, 0, false
	}
	above := view.IDOf(graph.UpRows(view, first)[0])

	mod := s.Modify()
	for _, row := range chain {
		mod.Hide(s.ToDelegateRow(row))
	}
	return mod.Apply(), above, true
}

// collapseAround hides the longest chain of the current view that contains
// row.
func collapseAround(s *Store, row int) ([]int, int, bool) {
	view := s.Compile()
	if row < 0 || row >= view.NodeCount() || !isLinear(view, row) {
		return nil, 0, false
	}

	first, last := row, row
	for {
		up := graph.UpRows(view, first)[0]
		if !isLinear(view, up) {
			break
		}
		first = up
	}
	for {
		down := graph.DownRows(view, last)[0]
		if !isLinear(view, down) {
			break
		}
		last = down
	}
	return collapseRun(s, first, last)
}

// expandAll shows every commit of scope the delegate has a row for.
func expandAll(s *Store, scope *visibility.Set) []int {
	delegate := s.Delegate()
	mod := s.Modify()
	scope.ForEach(func(id int) {
		if d, ok := delegate.IndexOf(id); ok {
			mod.Show(d)
		}
	})
	return mod.Apply()
}

// collapseAll hides every commit of scope that has exactly one parent and one
// child in the delegate view, both of them in scope or shown. A commit whose
// parent or child lies outside the shown history is the edge of that history
// and stays. Linearity is judged below this stage, so a second call finds
// nothing left to hide.
func collapseAll(s *Store, scope *visibility.Set) []int {
	delegate := s.Delegate()
	kept := func(d int) bool {
		return scope.Get(delegate.IDOf(d)) || s.IsVisible(d)
	}

	mod := s.Modify()
	for d := 0; d < delegate.NodeCount(); d++ {
		if !scope.Get(delegate.IDOf(d)) || !isLinear(delegate, d) {
			continue
		}
		up, _ := delegate.Edges(d, graph.FilterUp)[0].Up.Row()
		down, _ := delegate.Edges(d, graph.FilterDown)[0].Down.Row()
		if kept(up) && kept(down) {
			mod.Hide(d)
		}
	}
	return mod.Apply()
}

// affected returns the ids whose adjacency may differ between before and
// after when the ids in flipped changed visibility: the flipped ids and
// their neighbours on either side.
func affected(before, after graph.LinearGraph, flipped []int) []int {
	ids := slices.Clone(flipped)
	ids = append(ids, graph.Around(before, flipped)...)
	ids = append(ids, graph.Around(after, flipped)...)
	return ids
}
