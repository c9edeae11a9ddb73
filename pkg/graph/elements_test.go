package graph

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdge_Shapes(t *testing.T) {
	tests := []struct {
		name   string
		edge   Edge
		skip   bool
		str    string
		target int
	}{
		{"usual", NewEdge(1, 2), false, "1->2(usual)", 0},
		{"skip between rows", NewSkipEdge(1, 4, 2), true, "1->4(usual, target 2)", 2},
		{"skip up", NewTailEdge(3, EdgeSkipUp, 7), true, "above->3(skip-up, target 7)", 7},
		{"skip down", NewTailEdge(3, EdgeSkipDown, 8), true, "3->below(skip-down, target 8)", 8},
		{"not loaded", NewTailEdge(3, EdgeNotLoaded, 9), false, "3->below(not-loaded, target 9)", 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, tt.edge.Check)
			assert.Equal(t, tt.skip, tt.edge.IsSkip())
			assert.Equal(t, tt.str, tt.edge.String())
			target, _ := tt.edge.Target()
			assert.Equal(t, tt.target, target)
		})
	}
}

func TestEdge_MalformedPanics(t *testing.T) {
	assert.Panics(t, func() { NewTailEdge(1, EdgeUsual, 2) })
	assert.Panics(t, func() { At(-1) })
	assert.Panics(t, func() { Edge{Up: AboveView(), Down: At(1), Type: EdgeUsual}.Check() })
	assert.Panics(t, func() { Edge{Up: At(1), Down: At(2), Type: EdgeSkipDown}.Check() })
	assert.Panics(t, func() { Edge{Up: At(1), Down: BelowView(), Type: EdgeSkipUp}.Check() })
	assert.Panics(t, func() { Edge{Up: At(1), Down: At(2), Type: EdgeType(9)}.Check() })
}

func TestEdge_Remap(t *testing.T) {
	double := func(row int) int { return row * 2 }

	assert.Equal(t, NewSkipEdge(2, 8, 5), NewSkipEdge(1, 4, 5).Remap(double))

	tail := NewTailEdge(3, EdgeSkipUp, 7).Remap(double)
	assert.Equal(t, EndpointAbove, tail.Up.Kind())
	row, ok := tail.Down.Row()
	assert.True(t, ok)
	assert.Equal(t, 6, row)
	target, _ := tail.Target()
	assert.Equal(t, 7, target, "targets are ids and never remapped")
}

func TestEdgeFilter(t *testing.T) {
	assert.True(t, FilterAll.Up())
	assert.True(t, FilterAll.Down())
	assert.True(t, FilterUp.Up())
	assert.False(t, FilterUp.Down())
	assert.False(t, FilterDown.Up())
	assert.True(t, FilterDown.Down())
}

func TestEndpoint(t *testing.T) {
	_, ok := AboveView().Row()
	assert.False(t, ok)
	assert.False(t, BelowView().Present())
	assert.Equal(t, "below", BelowView().String())
	assert.Equal(t, EndpointPresent, At(0).Kind())
}

func TestCompareEdges(t *testing.T) {
	edges := []Edge{
		NewEdge(1, 3),
		NewTailEdge(1, EdgeSkipDown, 4),
		NewSkipEdge(1, 3, 2),
		NewEdge(0, 1),
	}
	want := []Edge{
		NewEdge(0, 1),
		NewEdge(1, 3),
		NewSkipEdge(1, 3, 2),
		NewTailEdge(1, EdgeSkipDown, 4),
	}

	slices.SortFunc(edges, CompareEdges)
	assert.Equal(t, want, edges)
}
