package graph

import "fmt"

// EdgeType tells how an edge is drawn and what clicking it does.
type EdgeType int

const (
	// EdgeUsual is a plain parent link. When it carries a target id it is a
	// skip edge: it spans hidden rows and the target names the hidden commit
	// to reveal on expansion.
	EdgeUsual EdgeType = iota

	// EdgeSkipUp leads from a row to hidden commits above it that have no
	// visible row to attach to. Its upper end is outside the view.
	EdgeSkipUp

	// EdgeSkipDown is the downward counterpart of EdgeSkipUp.
	EdgeSkipDown

	// EdgeNotLoaded points at a parent outside the loaded segment of history.
	EdgeNotLoaded
)

func (t EdgeType) String() string {
	switch t {
	case EdgeUsual:
		return "usual"
	case EdgeSkipUp:
		return "skip-up"
	case EdgeSkipDown:
		return "skip-down"
	case EdgeNotLoaded:
		return "not-loaded"
	default:
		return fmt.Sprintf("EdgeType(%d)", int(t))
	}
}

// EdgeFilter selects which adjacent edges of a row are returned.
type EdgeFilter int

const (
	FilterAll EdgeFilter = iota
	FilterUp
	FilterDown
)

// Up reports whether the filter lets up edges through.
func (f EdgeFilter) Up() bool { return f != FilterDown }

// Down reports whether the filter lets down edges through.
func (f EdgeFilter) Down() bool { return f != FilterUp }

// EndpointKind distinguishes the three shapes an edge end can take.
type EndpointKind uint8

const (
	// EndpointPresent means the end is a row of the view.
	EndpointPresent EndpointKind = iota
	// EndpointAbove means the end lies above the view.
	EndpointAbove
	// EndpointBelow means the end lies below the view.
	EndpointBelow
)

// Endpoint is one end of an edge.
type Endpoint struct {
	kind EndpointKind
	row  int
}

// At returns an endpoint present at row.
func At(row int) Endpoint {
	if row < 0 {
		panic(fmt.Sprintf("graph: negative row %d", row))
	}
	return Endpoint{kind: EndpointPresent, row: row}
}

// AboveView returns an endpoint outside the view, above it.
func AboveView() Endpoint { return Endpoint{kind: EndpointAbove} }

// BelowView returns an endpoint outside the view, below it.
func BelowView() Endpoint { return Endpoint{kind: EndpointBelow} }

// Kind returns the endpoint shape.
func (e Endpoint) Kind() EndpointKind { return e.kind }

// Row returns the row of a present endpoint.
func (e Endpoint) Row() (int, bool) {
	if e.kind != EndpointPresent {
		return 0, false
	}
	return e.row, true
}

// Present reports whether the endpoint is a row of the view.
func (e Endpoint) Present() bool { return e.kind == EndpointPresent }

func (e Endpoint) String() string {
	switch e.kind {
	case EndpointAbove:
		return "above"
	case EndpointBelow:
		return "below"
	default:
		return fmt.Sprintf("%d", e.row)
	}
}

// Edge connects two ends, at least one of them present.
type Edge struct {
	Up   Endpoint
	Down Endpoint
	Type EdgeType

	target    int
	hasTarget bool
}

// NewEdge returns a usual edge between two rows of the same view.
func NewEdge(up, down int) Edge {
	return Edge{Up: At(up), Down: At(down), Type: EdgeUsual}
}

// NewSkipEdge returns a usual edge between two rows that spans hidden rows,
// target being the permanent id of the hidden commit to reveal.
func NewSkipEdge(up, down, target int) Edge {
	return Edge{Up: At(up), Down: At(down), Type: EdgeUsual, target: target, hasTarget: true}
}

// NewTailEdge returns an edge with one end outside the view. Skip-up edges
// hang above row, skip-down and not-loaded edges hang below it.
func NewTailEdge(row int, typ EdgeType, target int) Edge {
	switch typ {
	case EdgeSkipUp:
		return Edge{Up: AboveView(), Down: At(row), Type: typ, target: target, hasTarget: true}
	case EdgeSkipDown, EdgeNotLoaded:
		return Edge{Up: At(row), Down: BelowView(), Type: typ, target: target, hasTarget: true}
	default:
		panic(fmt.Sprintf("graph: %s edge cannot have an end outside the view", typ))
	}
}

// Target returns the permanent id an edge points at beyond the view or
// across hidden rows.
func (e Edge) Target() (int, bool) { return e.target, e.hasTarget }

// IsSkip reports whether the edge stands in for hidden rows.
func (e Edge) IsSkip() bool {
	switch e.Type {
	case EdgeSkipUp, EdgeSkipDown:
		return true
	case EdgeUsual:
		return e.hasTarget
	default:
		return false
	}
}

// Remap returns a copy of the edge with present ends passed through fn.
// Ends outside the view are kept.
func (e Edge) Remap(fn func(row int) int) Edge {
	if e.Up.Present() {
		e.Up = At(fn(e.Up.row))
	}
	if e.Down.Present() {
		e.Down = At(fn(e.Down.row))
	}
	return e
}

// Check panics if the edge type contradicts its ends.
func (e Edge) Check() {
	switch e.Type {
	case EdgeUsual:
		if !e.Up.Present() || !e.Down.Present() {
			panic(fmt.Sprintf("graph: usual edge %s must have both ends present", e))
		}
	case EdgeSkipUp:
		if e.Up.kind != EndpointAbove || !e.Down.Present() || !e.hasTarget {
			panic(fmt.Sprintf("graph: malformed skip-up edge %s", e))
		}
	case EdgeSkipDown, EdgeNotLoaded:
		if !e.Up.Present() || e.Down.kind != EndpointBelow || !e.hasTarget {
			panic(fmt.Sprintf("graph: malformed %s edge %s", e.Type, e))
		}
	default:
		panic(fmt.Sprintf("graph: unknown edge type %d", int(e.Type)))
	}
}

func (e Edge) String() string {
	if e.hasTarget {
		return fmt.Sprintf("%s->%s(%s, target %d)", e.Up, e.Down, e.Type, e.target)
	}
	return fmt.Sprintf("%s->%s(%s)", e.Up, e.Down, e.Type)
}

func (Edge) element() {}

// NodeKind tells usual commits from placeholders of history not loaded yet.
type NodeKind int

const (
	NodeUsual NodeKind = iota
	NodeNotLoaded
)

// Node is a row of a view.
type Node struct {
	Row  int
	Kind NodeKind
}

func (Node) element() {}

// Element is a clickable piece of a view: a Node or an Edge.
type Element interface {
	element()
}
