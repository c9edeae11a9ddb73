package stage

import (
	"fmt"

	"github.com/utkarsh5026/loggraph/pkg/graph"
)

// ActionKind is the kind of a user action
type ActionKind int

const (
	// ActionClick is a click on a node or an edge
	ActionClick ActionKind = iota
	// ActionCollapseRun folds an explicit run of rows
	ActionCollapseRun
	// ActionExpandAll unfolds everything
	ActionExpandAll
	// ActionCollapseAll folds every unbranched run
	ActionCollapseAll
)

func (k ActionKind) String() string {
	switch k {
	case ActionClick:
		return "click"
	case ActionCollapseRun:
		return "collapse-run"
	case ActionExpandAll:
		return "expand-all"
	case ActionCollapseAll:
		return "collapse-all"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is a user action addressed at the view of the stage receiving it.
type Action struct {
	Kind ActionKind

	// Element is the clicked node or edge (ActionClick)
	Element graph.Element

	// First and Last are the first and last rows of the run (ActionCollapseRun)
	First int
	Last  int
}

// Click returns an action clicking el.
func Click(el graph.Element) Action {
	return Action{Kind: ActionClick, Element: el}
}

// CollapseRun returns an action folding rows first through last.
func CollapseRun(first, last int) Action {
	return Action{Kind: ActionCollapseRun, First: first, Last: last}
}

// ExpandAll returns an action unfolding everything.
func ExpandAll() Action {
	return Action{Kind: ActionExpandAll}
}

// CollapseAll returns an action folding every unbranched run.
func CollapseAll() Action {
	return Action{Kind: ActionCollapseAll}
}
