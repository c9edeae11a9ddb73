package graph

import (
	"cmp"
	"fmt"
	"slices"
)

// EdgeRef names an edge by permanent ids instead of rows, so it stays valid
// after a view is renumbered. Present ends of Up and Down carry ids.
type EdgeRef struct {
	Up        Endpoint
	Down      Endpoint
	Type      EdgeType
	Target    int
	HasTarget bool
}

// RefOf converts an edge of g into an EdgeRef.
func RefOf(g LinearGraph, e Edge) EdgeRef {
	e = e.Remap(g.IDOf)
	target, ok := e.Target()
	return EdgeRef{Up: e.Up, Down: e.Down, Type: e.Type, Target: target, HasTarget: ok}
}

func (r EdgeRef) String() string {
	if r.HasTarget {
		return fmt.Sprintf("%s->%s(%s, target #%d)", idEnd(r.Up), idEnd(r.Down), r.Type, r.Target)
	}
	return fmt.Sprintf("%s->%s(%s)", idEnd(r.Up), idEnd(r.Down), r.Type)
}

func idEnd(e Endpoint) string {
	if e.Present() {
		return "#" + e.String()
	}
	return e.String()
}

// ChangedNode records a node that appeared or disappeared.
type ChangedNode struct {
	ID      int
	Removed bool
}

// ChangedEdge records an edge that appeared or disappeared.
type ChangedEdge struct {
	Edge    EdgeRef
	Removed bool
}

// Changes is the diff a stage reports after its view changed shape.
type Changes struct {
	Nodes []ChangedNode
	Edges []ChangedEdge
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.Nodes) == 0 && len(c.Edges) == 0
}

// AddedNodes returns the ids of nodes that appeared.
func (c Changes) AddedNodes() []int { return c.nodes(false) }

// RemovedNodes returns the ids of nodes that disappeared.
func (c Changes) RemovedNodes() []int { return c.nodes(true) }

func (c Changes) nodes(removed bool) []int {
	var ids []int
	for _, n := range c.Nodes {
		if n.Removed == removed {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// AddedEdges returns the edges that appeared.
func (c Changes) AddedEdges() []EdgeRef { return c.edges(false) }

// RemovedEdges returns the edges that disappeared.
func (c Changes) RemovedEdges() []EdgeRef { return c.edges(true) }

func (c Changes) edges(removed bool) []EdgeRef {
	var refs []EdgeRef
	for _, e := range c.Edges {
		if e.Removed == removed {
			refs = append(refs, e.Edge)
		}
	}
	return refs
}

// Touched returns every id named by the changes: nodes and present edge ends.
func (c Changes) Touched() []int {
	seen := make(map[int]struct{})
	var ids []int
	add := func(id int) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, n := range c.Nodes {
		add(n.ID)
	}
	for _, e := range c.Edges {
		if id, ok := e.Edge.Up.Row(); ok {
			add(id)
		}
		if id, ok := e.Edge.Down.Row(); ok {
			add(id)
		}
	}
	return ids
}

// Around returns the ids present in g among ids, plus the ids of their
// direct neighbours in g.
func Around(g LinearGraph, ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	var out []int
	add := func(id int) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, id := range ids {
		row, ok := g.IndexOf(id)
		if !ok {
			continue
		}
		add(id)
		for _, e := range g.Edges(row, FilterAll) {
			if r, ok := e.Up.Row(); ok {
				add(g.IDOf(r))
			}
			if r, ok := e.Down.Row(); ok {
				add(g.IDOf(r))
			}
		}
	}
	return out
}

// Diff compares two views of the same history restricted to ids: nodes among
// ids that appear or vanish, and edges touching them that appear or vanish.
// Callers pass every id whose adjacency may differ; edges elsewhere are not
// inspected.
func Diff(before, after LinearGraph, ids []int) Changes {
	var changes Changes

	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	for _, id := range ids {
		_, was := before.IndexOf(id)
		_, is := after.IndexOf(id)
		if was != is {
			changes.Nodes = append(changes.Nodes, ChangedNode{ID: id, Removed: was})
		}
	}

	old := edgeRefs(before, ids)
	cur := edgeRefs(after, ids)
	for ref := range old {
		if _, ok := cur[ref]; !ok {
			changes.Edges = append(changes.Edges, ChangedEdge{Edge: ref, Removed: true})
		}
	}
	for ref := range cur {
		if _, ok := old[ref]; !ok {
			changes.Edges = append(changes.Edges, ChangedEdge{Edge: ref})
		}
	}
	slices.SortFunc(changes.Edges, func(a, b ChangedEdge) int {
		if c := compareRefs(a.Edge, b.Edge); c != 0 {
			return c
		}
		return cmpBool(a.Removed, b.Removed)
	})
	return changes
}

func edgeRefs(g LinearGraph, ids []int) map[EdgeRef]struct{} {
	refs := make(map[EdgeRef]struct{})
	for _, id := range ids {
		row, ok := g.IndexOf(id)
		if !ok {
			continue
		}
		for _, e := range g.Edges(row, FilterAll) {
			refs[RefOf(g, e)] = struct{}{}
		}
	}
	return refs
}

func compareEnds(a, b Endpoint) int {
	if c := cmp.Compare(a.kind, b.kind); c != 0 {
		return c
	}
	return cmp.Compare(a.row, b.row)
}

func compareRefs(a, b EdgeRef) int {
	if c := compareEnds(a.Up, b.Up); c != 0 {
		return c
	}
	if c := compareEnds(a.Down, b.Down); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Type, b.Type); c != 0 {
		return c
	}
	if c := cmpBool(a.HasTarget, b.HasTarget); c != 0 {
		return c
	}
	return cmp.Compare(a.Target, b.Target)
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// CompareEdges orders edges of one view: by up end, then down end, then type
// and target.
func CompareEdges(a, b Edge) int {
	if c := compareEnds(a.Up, b.Up); c != 0 {
		return c
	}
	if c := compareEnds(a.Down, b.Down); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Type, b.Type); c != 0 {
		return c
	}
	if c := cmpBool(a.hasTarget, b.hasTarget); c != 0 {
		return c
	}
	return cmp.Compare(a.target, b.target)
}
