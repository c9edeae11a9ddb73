// Package stage composes the history view as a pipeline of stages.
//
// Each stage wraps the stage below it, turns the view it compiles into a new
// one and handles the user actions it understands. The bottom stage owns the
// permanent graph. Structural changes travel up the chain through
// OnUpstreamChanged; actions travel down until a stage handles them, and the
// answer then travels back up.
//
//	┌───────────────────────────┐
//	│ collapse.Controller       │  rows shown to the user
//	└─────────────┬─────────────┘
//	              │ Compile / ToDelegate
//	┌─────────────▼─────────────┐
//	│ stage.Permanent           │  every loaded commit
//	└───────────────────────────┘
package stage

import (
	"github.com/utkarsh5026/loggraph/pkg/graph"
)

// Stage is one layer of the pipeline.
type Stage interface {
	// Compile returns the current view of this stage. The returned graph is
	// an immutable snapshot and may be read from any goroutine.
	Compile() graph.LinearGraph

	// HandleAction performs action against this stage's view. It returns
	// false when the action is not one this stage handles, so the caller can
	// hand it to the stage below.
	HandleAction(action Action) (Answer, bool)

	// OnUpstreamChanged is called by the owner of the chain after the stage
	// below changed shape. answer is the lower stage's answer; the returned
	// answer describes the change in this stage's view.
	OnUpstreamChanged(answer Answer) Answer

	// ToDelegate translates an element of this stage's view into the view of
	// the stage below. It returns false when the element has no counterpart
	// there.
	ToDelegate(el graph.Element) (graph.Element, bool)
}

// Answer is the result of an action or of a structural change.
type Answer struct {
	// Changes lists nodes and edges that appeared or vanished, by permanent id
	Changes graph.Changes

	// Selected holds permanent ids the UI should select afterwards
	Selected []int
}

// Empty reports whether the answer carries neither changes nor a selection.
func (a Answer) Empty() bool {
	return a.Changes.Empty() && len(a.Selected) == 0
}
