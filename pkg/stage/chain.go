package stage

import (
	"errors"

	"github.com/utkarsh5026/loggraph/pkg/graph"
)

// ErrEmptyChain is returned when a chain is built without stages.
var ErrEmptyChain = errors.New("stage: chain needs at least one stage")

// Chain is an ordered pipeline of stages, bottom first. Every stage is
// expected to wrap the one before it.
//
// Chain is not safe for concurrent mutation: actions and change
// notifications must be delivered from one goroutine, in order. Compiled
// views may be read from anywhere.
type Chain struct {
	stages []Stage
}

// NewChain composes stages, bottom first.
func NewChain(stages ...Stage) (*Chain, error) {
	if len(stages) == 0 {
		return nil, ErrEmptyChain
	}
	return &Chain{stages: stages}, nil
}

// Top returns the stage the UI talks to.
func (c *Chain) Top() Stage {
	return c.stages[len(c.stages)-1]
}

// Compile returns the view of the top stage.
func (c *Chain) Compile() graph.LinearGraph {
	return c.Top().Compile()
}

// HandleAction offers action to the top stage and then to each lower stage,
// translating the clicked element on the way down. The answer of the stage
// that handled it is passed up through the stages above it. Actions nobody
// handles yield an empty answer.
func (c *Chain) HandleAction(action Action) Answer {
	for i := len(c.stages) - 1; i >= 0; i-- {
		if answer, ok := c.stages[i].HandleAction(action); ok {
			return c.propagate(i, answer)
		}
		if action.Element == nil {
			return Answer{}
		}
		el, ok := c.stages[i].ToDelegate(action.Element)
		if !ok {
			return Answer{}
		}
		action.Element = el
	}
	return Answer{}
}

// Changed delivers the answer of a stage that changed shape on its own, such
// as the permanent stage after loading more history, to the stages above it.
func (c *Chain) Changed(from Stage, answer Answer) Answer {
	for i, s := range c.stages {
		if s == from {
			return c.propagate(i, answer)
		}
	}
	return answer
}

func (c *Chain) propagate(from int, answer Answer) Answer {
	for i := from + 1; i < len(c.stages); i++ {
		answer = c.stages[i].OnUpstreamChanged(answer)
	}
	return answer
}
