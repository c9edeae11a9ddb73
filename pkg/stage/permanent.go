package stage

import (
	"sync"

	"github.com/utkarsh5026/loggraph/pkg/graph"
)

// Permanent is the bottom stage: it shows every loaded commit.
type Permanent struct {
	mu    sync.RWMutex
	graph *graph.PermanentGraph
}

var _ Stage = (*Permanent)(nil)

// NewPermanent creates the bottom stage over g.
func NewPermanent(g *graph.PermanentGraph) *Permanent {
	return &Permanent{graph: g}
}

// Compile returns the permanent graph.
func (p *Permanent) Compile() graph.LinearGraph {
	return p.Graph()
}

// Graph returns the permanent graph with its metadata accessors.
func (p *Permanent) Graph() *graph.PermanentGraph {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.graph
}

// HandleAction handles nothing: the permanent graph cannot change shape on
// user request.
func (p *Permanent) HandleAction(Action) (Answer, bool) {
	return Answer{}, false
}

// OnUpstreamChanged passes the answer through; nothing lies below.
func (p *Permanent) OnUpstreamChanged(answer Answer) Answer {
	return answer
}

// ToDelegate reports that nothing lies below.
func (p *Permanent) ToDelegate(graph.Element) (graph.Element, bool) {
	return nil, false
}

// Load replaces the graph with next, a graph holding more history with the
// same ids, and returns what changed.
func (p *Permanent) Load(next *graph.PermanentGraph) Answer {
	p.mu.Lock()
	prev := p.graph
	p.graph = next
	p.mu.Unlock()

	var fresh []int
	for row := 0; row < next.NodeCount(); row++ {
		id := next.IDOf(row)
		if _, ok := prev.IndexOf(id); !ok {
			fresh = append(fresh, id)
		}
	}
	return Answer{Changes: graph.Diff(prev, next, graph.Around(next, fresh))}
}
