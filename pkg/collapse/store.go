// Package collapse folds unbranched runs of history away and unfolds them on
// request.
//
// The package sits on top of a delegate LinearGraph (the view of the stage
// below) and keeps one visibility flag per permanent id. Visible delegate rows
// are renumbered densely into collapsed rows; hidden ones are replaced in the
// compiled view by skip edges that carry the id of a hidden commit, so a click
// on the edge can bring the commits back.
package collapse

import (
	"slices"
	"sort"

	"github.com/utkarsh5026/loggraph/pkg/graph"
	"github.com/utkarsh5026/loggraph/pkg/visibility"
)

// DefaultCacheSize is the number of rows whose adjacency a compiled view
// keeps.
const DefaultCacheSize = 4096

// layout is one consistent state of a store. It is never modified after
// construction, so views compiled from it stay valid when the store moves on.
type layout struct {
	delegate graph.LinearGraph
	vis      *visibility.Set

	// rank maps delegate row to collapsed row, -1 when hidden
	rank []int

	// rows maps collapsed row to delegate row
	rows []int
}

// newLayout indexes delegate under vis. Rows before from are copied from
// prev, which must share the delegate and agree with vis on those rows.
func newLayout(delegate graph.LinearGraph, vis *visibility.Set, prev *layout, from int) *layout {
	n := delegate.NodeCount()
	l := &layout{
		delegate: delegate,
		vis:      vis,
		rank:     make([]int, n),
		rows:     make([]int, 0, vis.Count()),
	}

	if prev == nil {
		from = 0
	}
	if from > 0 {
		copy(l.rank[:from], prev.rank[:from])
		kept := sort.SearchInts(prev.rows, from)
		l.rows = append(l.rows, prev.rows[:kept]...)
	}
	for d := from; d < n; d++ {
		if vis.Get(delegate.IDOf(d)) {
			l.rank[d] = len(l.rows)
			l.rows = append(l.rows, d)
		} else {
			l.rank[d] = -1
		}
	}
	return l
}

func (l *layout) visible(d int) bool {
	return l.rank[d] >= 0
}

// Store owns the visibility flags of one collapse stage and the index maps
// derived from them.
//
// The maps are always rebuilt as a unit: the only ways to change a Store are
// a Modification and RebuildAfterGrowth. A Store is not safe for concurrent
// mutation; views returned by Compile are immutable and may be shared.
type Store struct {
	cur       *layout
	view      *View
	cacheSize int
}

// NewStore indexes delegate under initial, which the store takes ownership
// of. Collapsed rows follow ascending delegate order. cacheSize bounds the
// adjacency cache of compiled views; zero or less selects DefaultCacheSize.
func NewStore(delegate graph.LinearGraph, initial *visibility.Set, cacheSize int) *Store {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &Store{
		cur:       newLayout(delegate, initial, nil, 0),
		cacheSize: cacheSize,
	}
}

// RebuildAfterGrowth indexes a new delegate in place of old's. Rows already in
// old's delegate keep their flags; rows new to the delegate are set to def.
// Ids that lost their row are cleared, and ids referenced by the delegate
// without a row of their own stay hidden, so the number of visible ids always
// equals the number of collapsed rows.
func RebuildAfterGrowth(old *Store, delegate graph.LinearGraph, def bool) *Store {
	prev := old.cur
	vis := prev.vis.Clone()
	vis.Grow(graph.IDSpace(delegate), false)
	for row := 0; row < delegate.NodeCount(); row++ {
		id := delegate.IDOf(row)
		if _, had := prev.delegate.IndexOf(id); !had {
			vis.Set(id, def)
		}
	}
	for row := 0; row < prev.delegate.NodeCount(); row++ {
		id := prev.delegate.IDOf(row)
		if _, has := delegate.IndexOf(id); !has {
			vis.Set(id, false)
		}
	}

	return &Store{
		cur:       newLayout(delegate, vis, nil, 0),
		cacheSize: old.cacheSize,
	}
}

// Delegate returns the view the store is built on.
func (s *Store) Delegate() graph.LinearGraph {
	return s.cur.delegate
}

// Visibility returns a copy of the visibility flags.
func (s *Store) Visibility() *visibility.Set {
	return s.cur.vis.Clone()
}

// NodeCount returns the number of collapsed rows.
func (s *Store) NodeCount() int {
	return len(s.cur.rows)
}

// ToDelegateRow returns the delegate row shown at collapsed row c. It panics
// when c is out of range.
func (s *Store) ToDelegateRow(c int) int {
	return s.cur.rows[c]
}

// ToCollapsedRow returns the collapsed row of delegate row d, false when d is
// hidden or out of range.
func (s *Store) ToCollapsedRow(d int) (int, bool) {
	if d < 0 || d >= len(s.cur.rank) || !s.cur.visible(d) {
		return 0, false
	}
	return s.cur.rank[d], true
}

// IsVisible reports whether delegate row d is shown.
func (s *Store) IsVisible(d int) bool {
	_, ok := s.ToCollapsedRow(d)
	return ok
}

// IsAbsorbedEdge reports whether the delegate edge between du and dd has no
// drawing of its own in the collapsed view: it lies inside a hidden run or is
// folded into a skip edge.
func (s *Store) IsAbsorbedEdge(du, dd int) bool {
	return !s.IsVisible(du) || !s.IsVisible(dd)
}

// Compile returns the collapsed view of the current state.
func (s *Store) Compile() *View {
	if s.view == nil {
		s.view = newView(s.cur, s.cacheSize)
	}
	return s.view
}

// Modify starts a batch of visibility changes.
func (s *Store) Modify() *Modification {
	return &Modification{store: s, want: make(map[int]bool)}
}

// Modification collects visibility changes by delegate row. Apply flips all
// of them and rebuilds the index maps once.
type Modification struct {
	store *Store
	want  map[int]bool
}

// Show marks delegate row d to be shown.
func (m *Modification) Show(d int) *Modification {
	m.want[d] = true
	return m
}

// Hide marks delegate row d to be hidden.
func (m *Modification) Hide(d int) *Modification {
	m.want[d] = false
	return m
}

// Apply performs the collected changes and returns the ids whose flag
// actually flipped, ascending. Nothing is rebuilt when nothing flipped.
func (m *Modification) Apply() []int {
	cur := m.store.cur
	n := cur.delegate.NodeCount()

	rows := make([]int, 0, len(m.want))
	for d := range m.want {
		if d >= 0 && d < n {
			rows = append(rows, d)
		}
	}
	slices.Sort(rows)

	var (
		vis     *visibility.Set
		flipped []int
		from    int
	)
	for _, d := range rows {
		if cur.visible(d) == m.want[d] {
			continue
		}
		if vis == nil {
			vis = cur.vis.Clone()
			from = d
		}
		id := cur.delegate.IDOf(d)
		vis.Set(id, m.want[d])
		flipped = append(flipped, id)
	}
	clear(m.want)

	if len(flipped) == 0 {
		return nil
	}

	m.store.cur = newLayout(cur.delegate, vis, cur, from)
	m.store.view = nil
	slices.Sort(flipped)
	return flipped
}
