// Package reachability computes which commits can be reached from a set of
// branch heads by walking towards their ancestors.
package reachability

import (
	"context"

	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/utkarsh5026/loggraph/pkg/graph"
	"github.com/utkarsh5026/loggraph/pkg/visibility"
)

// checkEvery is how many nodes are visited between context checks
const checkEvery = 4096

// Reachable returns the set of ids reachable from roots by following down
// edges (child to parent) in g.
//
// Nil or empty roots mean every node is a root: all rows come out visible.
// Roots without a row in g are skipped. The walk only fails when ctx is done.
func Reachable(ctx context.Context, g graph.LinearGraph, roots []int) (*visibility.Set, error) {
	set := visibility.New(graph.IDSpace(g))

	if len(roots) == 0 {
		for row := 0; row < g.NodeCount(); row++ {
			if row%checkEvery == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			set.Set(g.IDOf(row), true)
		}
		return set, nil
	}

	stack := arraystack.New()
	for _, id := range roots {
		if row, ok := g.IndexOf(id); ok {
			stack.Push(row)
		}
	}

	visited := 0
	for !stack.Empty() {
		v, _ := stack.Pop()
		row := v.(int)

		id := g.IDOf(row)
		if set.Get(id) {
			continue
		}
		set.Set(id, true)

		visited++
		if visited%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		for _, down := range graph.DownRows(g, row) {
			if !set.Get(g.IDOf(down)) {
				stack.Push(down)
			}
		}
	}

	return set, nil
}

// IsAncestor reports whether ancestor can be reached from descendant by
// following down edges. A commit is its own ancestor.
func IsAncestor(g graph.LinearGraph, ancestor, descendant int) bool {
	target, ok := g.IndexOf(ancestor)
	if !ok {
		return false
	}
	start, ok := g.IndexOf(descendant)
	if !ok {
		return false
	}

	seen := make(map[int]bool)
	stack := arraystack.New()
	stack.Push(start)
	for !stack.Empty() {
		v, _ := stack.Pop()
		row := v.(int)
		if row == target {
			return true
		}
		if seen[row] {
			continue
		}
		seen[row] = true
		for _, down := range graph.DownRows(g, row) {
			stack.Push(down)
		}
	}
	return false
}
