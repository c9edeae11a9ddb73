package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout_LinearHistory(t *testing.T) {
	g, err := BuildGraph(createLinearHistory(4))
	require.NoError(t, err)

	layout := NewLayout(g)

	// All commits should be in lane 0 for linear history
	assert.Equal(t, 1, layout.Width)
	for row, rl := range layout.Rows {
		assert.Equal(t, 0, rl.Lane, "row %d", row)
		assert.Empty(t, rl.Through)
		assert.Empty(t, rl.Forks)
	}
}

func TestLayout_Merge(t *testing.T) {
	g, err := BuildGraph(createMergeHistory())
	require.NoError(t, err)

	layout := NewLayout(g)
	require.Len(t, layout.Rows, 4)
	assert.Equal(t, 2, layout.Width)

	// A forks its second parent into a new lane
	assert.Equal(t, 0, layout.Rows[0].Lane)
	assert.Equal(t, []int{1}, layout.Rows[0].Forks)

	// B continues the first parent, C sits in the forked lane
	assert.Equal(t, 0, layout.Rows[1].Lane)
	assert.Equal(t, []Passing{{Lane: 1}}, layout.Rows[1].Through)
	assert.Equal(t, 1, layout.Rows[2].Lane)

	// D takes both lanes back
	assert.Equal(t, 0, layout.Rows[3].Lane)
	assert.Equal(t, []int{1}, layout.Rows[3].Joins)
}

func TestLayout_SkipLanes(t *testing.T) {
	// a view where row 0 skips over hidden commits to row 2 while row 1
	// hangs off a second lane
	g := skipView{}
	layout := NewLayout(g)

	assert.Equal(t, []Passing{{Lane: 0, Skip: true}}, layout.Rows[1].Through)
}

// skipView is two rows joined by a skip edge with a side branch between them
//
//	0
//	┊ 1
//	┊/
//	2
type skipView struct{}

func (skipView) NodeCount() int             { return 3 }
func (skipView) IndexOf(id int) (int, bool) { return id, id >= 0 && id < 3 }
func (skipView) IDOf(row int) int           { return row }
func (skipView) Node(row int) Node          { return Node{Row: row} }

func (skipView) Edges(row int, filter EdgeFilter) []Edge {
	up := map[int][]Edge{2: {NewSkipEdge(0, 2, 5), NewEdge(1, 2)}}
	down := map[int][]Edge{0: {NewSkipEdge(0, 2, 5)}, 1: {NewEdge(1, 2)}}

	var edges []Edge
	if filter.Up() {
		edges = append(edges, up[row]...)
	}
	if filter.Down() {
		edges = append(edges, down[row]...)
	}
	return edges
}

func TestRenderer_Render(t *testing.T) {
	g, err := BuildGraph(createMergeHistory())
	require.NoError(t, err)

	out := NewRenderer(g, func(row int) string { return g.Subject(g.IDOf(row)) }).Render()
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Contains(t, lines[0], CommitMerge)
	assert.Contains(t, lines[0], ForkLeft)
	assert.Contains(t, lines[0], "Merge")
	assert.Contains(t, lines[1], CommitNormal)
	assert.Contains(t, lines[1], LineVertical)
	assert.Contains(t, lines[3], CommitInitial)
	assert.Contains(t, lines[3], JoinLeft)
	assert.Contains(t, lines[3], "Base")
}

func TestRenderer_SkipEdges(t *testing.T) {
	r := NewRenderer(skipView{}, nil)

	prefix, marker := r.RenderRow(0)
	assert.Contains(t, marker, CommitCollapsed)
	assert.Contains(t, prefix, CommitCollapsed)

	prefix, _ = r.RenderRow(1)
	assert.Contains(t, prefix, LineSkip)

	prefix, marker = r.RenderRow(7)
	assert.Empty(t, prefix)
	assert.Empty(t, marker)
}
