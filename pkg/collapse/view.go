package collapse

import (
	"fmt"
	"slices"

	"github.com/emirpasic/gods/stacks/arraystack"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/utkarsh5026/loggraph/pkg/graph"
)

// adjacency holds the compiled edges of one collapsed row
type adjacency struct {
	up   []graph.Edge
	down []graph.Edge
}

// View is the collapsed view of a store at one point in time.
//
// Edges to visible delegate rows are carried over. Where a delegate edge
// enters hidden rows, the view walks through them and draws one skip edge to
// every visible row on the far side. The target of a skip edge is the topmost
// hidden commit next to its upper end on a hidden path between the two ends,
// so both ends report the same edge. When the hidden rows lead nowhere
// visible but out of the view, a single skip-up or skip-down edge hangs off
// the row instead, aimed at the nearest hidden neighbour. Hidden rows that
// lead nowhere produce no edge.
//
// Adjacency is computed on first use and kept in an LRU cache, so a View is
// cheap to create and safe for concurrent readers.
type View struct {
	l     *layout
	cache *lru.Cache[int, adjacency]
}

var _ graph.LinearGraph = (*View)(nil)

func newView(l *layout, cacheSize int) *View {
	cache, err := lru.New[int, adjacency](cacheSize)
	if err != nil {
		panic(fmt.Sprintf("collapse: adjacency cache: %v", err))
	}
	return &View{l: l, cache: cache}
}

// NodeCount returns the number of visible rows.
func (v *View) NodeCount() int {
	return len(v.l.rows)
}

// IndexOf returns the collapsed row of a permanent id, false when the id is
// hidden or unknown to the delegate.
func (v *View) IndexOf(id int) (int, bool) {
	d, ok := v.l.delegate.IndexOf(id)
	if !ok || !v.l.visible(d) {
		return 0, false
	}
	return v.l.rank[d], true
}

// IDOf returns the permanent id shown at row c.
func (v *View) IDOf(c int) int {
	return v.l.delegate.IDOf(v.delegateRow(c))
}

// Node returns the node at row c.
func (v *View) Node(c int) graph.Node {
	n := v.l.delegate.Node(v.delegateRow(c))
	n.Row = c
	return n
}

// Edges returns the edges of row c.
func (v *View) Edges(c int, filter graph.EdgeFilter) []graph.Edge {
	adj, ok := v.cache.Get(c)
	if !ok {
		d := v.delegateRow(c)
		adj = adjacency{
			up:   v.collect(d, c, true),
			down: v.collect(d, c, false),
		}
		v.cache.Add(c, adj)
	}

	var edges []graph.Edge
	if filter.Up() {
		edges = append(edges, adj.up...)
	}
	if filter.Down() {
		edges = append(edges, adj.down...)
	}
	return edges
}

func (v *View) delegateRow(c int) int {
	if c < 0 || c >= len(v.l.rows) {
		panic(fmt.Sprintf("collapse: row %d out of range [0, %d)", c, len(v.l.rows)))
	}
	return v.l.rows[c]
}

func (v *View) collapsedRow(d int) int {
	return v.l.rank[d]
}

// far returns the end of e away from the row the edge was listed for
func far(e graph.Edge, up bool) (int, bool) {
	if up {
		return e.Up.Row()
	}
	return e.Down.Row()
}

// collect compiles the edges of delegate row d, shown at c, in one direction
func (v *View) collect(d, c int, up bool) []graph.Edge {
	filter := graph.FilterDown
	if up {
		filter = graph.FilterUp
	}

	var (
		edges  []graph.Edge
		hidden []int
	)
	for _, e := range v.l.delegate.Edges(d, filter) {
		o, ok := far(e, up)
		if ok && !v.l.visible(o) {
			hidden = append(hidden, o)
			continue
		}
		edges = append(edges, e.Remap(v.collapsedRow))
	}

	if len(hidden) > 0 {
		slices.Sort(hidden)
		hidden = slices.Compact(hidden)
		if up {
			edges = append(edges, v.skipUp(c, hidden)...)
		} else {
			edges = append(edges, v.skipDown(c, hidden)...)
		}
	}

	for _, e := range edges {
		e.Check()
	}
	slices.SortFunc(edges, graph.CompareEdges)
	return slices.Compact(edges)
}

// skipDown draws the edges from row c through the hidden rows below it.
// starts are the hidden down neighbours, ascending.
func (v *View) skipDown(c int, starts []int) []graph.Edge {
	var (
		visited = make(map[int]bool)
		targets = make(map[int]int)
		reached []int
		exit    = -1
	)
	for _, h := range starts {
		if visited[h] {
			continue
		}
		v.walk(h, false, visited, func(_, o int, present bool) {
			if !present {
				if exit < 0 {
					exit = h
				}
				return
			}
			if _, ok := targets[o]; !ok {
				targets[o] = v.l.delegate.IDOf(h)
				reached = append(reached, o)
			}
		})
	}

	var edges []graph.Edge
	for _, o := range reached {
		edges = append(edges, graph.NewSkipEdge(c, v.l.rank[o], targets[o]))
	}
	if len(edges) == 0 && exit >= 0 {
		edges = append(edges, graph.NewTailEdge(c, graph.EdgeSkipDown, v.l.delegate.IDOf(exit)))
	}
	return edges
}

// skipUp draws the edges from row c through the hidden rows above it.
// starts are the hidden up neighbours, ascending.
func (v *View) skipUp(c int, starts []int) []graph.Edge {
	var (
		visited = make(map[int]bool)
		best    = make(map[int]int)
		reached []int
		exit    = -1
	)
	for i := len(starts) - 1; i >= 0; i-- {
		h := starts[i]
		if visited[h] {
			continue
		}
		v.walk(h, true, visited, func(x, u int, present bool) {
			if !present {
				if exit < 0 {
					exit = h
				}
				return
			}
			if b, ok := best[u]; !ok || x < b {
				if !ok {
					reached = append(reached, u)
				}
				best[u] = x
			}
		})
	}

	var edges []graph.Edge
	for _, u := range reached {
		edges = append(edges, graph.NewSkipEdge(v.l.rank[u], c, v.l.delegate.IDOf(best[u])))
	}
	if len(edges) == 0 && exit >= 0 {
		edges = append(edges, graph.NewTailEdge(c, graph.EdgeSkipUp, v.l.delegate.IDOf(exit)))
	}
	return edges
}

// walk visits the hidden rows reachable from the hidden row start through
// hidden rows, upwards or downwards. For every edge leaving the hidden region
// it calls out with the hidden row, the row on the other side and whether
// that row is part of the delegate view at all.
func (v *View) walk(start int, up bool, visited map[int]bool, out func(x, o int, present bool)) {
	filter := graph.FilterDown
	if up {
		filter = graph.FilterUp
	}

	stack := arraystack.New()
	stack.Push(start)
	visited[start] = true
	for !stack.Empty() {
		top, _ := stack.Pop()
		x := top.(int)
		for _, e := range v.l.delegate.Edges(x, filter) {
			o, ok := far(e, up)
			switch {
			case !ok:
				out(x, 0, false)
			case v.l.visible(o):
				out(x, o, true)
			case !visited[o]:
				visited[o] = true
				stack.Push(o)
			}
		}
	}
}
