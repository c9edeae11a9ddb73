package collapse

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/utkarsh5026/loggraph/pkg/common/logger"
	"github.com/utkarsh5026/loggraph/pkg/graph"
	"github.com/utkarsh5026/loggraph/pkg/reachability"
	"github.com/utkarsh5026/loggraph/pkg/stage"
	"github.com/utkarsh5026/loggraph/pkg/visibility"
)

// Option configures a Controller.
type Option func(*options)

type options struct {
	logger          *slog.Logger
	cacheSize       int
	newNodesVisible bool
}

// WithLogger sets the logger. The default is the process logger tagged with
// component=collapse.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCacheSize bounds the number of rows whose edges a compiled view caches.
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// WithNewNodesVisible chooses whether commits loaded after construction are
// shown (the default) or start out folded away.
func WithNewNodesVisible(visible bool) Option {
	return func(o *options) { o.newNodesVisible = visible }
}

// Controller is the collapse stage of the pipeline.
//
// Thread Safety:
// All methods may be called from any goroutine. Mutations are serialized;
// a view returned by Compile is a snapshot that later actions do not change.
// Upstream notifications must still be delivered in the order the stage below
// produced them.
type Controller struct {
	mu       sync.RWMutex
	delegate stage.Stage
	store    *Store

	// scope holds the ids expand-all may show: the initial reachable set
	// plus everything loaded since
	scope *visibility.Set

	opts   options
	logger *slog.Logger
}

var _ stage.Stage = (*Controller)(nil)

// NewController builds a collapse stage on top of delegate.
//
// permanent is the full permanent graph; roots are the permanent ids of the
// branch heads to show. Commits not reachable from them start out hidden.
// Nil or empty roots show everything. The reachability scan is the only
// expensive step and honors ctx.
func NewController(ctx context.Context, delegate stage.Stage, permanent graph.LinearGraph, roots []int, opts ...Option) (*Controller, error) {
	o := options{
		cacheSize:       DefaultCacheSize,
		newNodesVisible: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.With("component", "collapse")
	}

	initial, err := reachability.Reachable(ctx, permanent, roots)
	if err != nil {
		return nil, fmt.Errorf("scan reachable commits: %w", err)
	}

	c := &Controller{
		delegate: delegate,
		store:    NewStore(delegate.Compile(), initial.Clone(), o.cacheSize),
		scope:    initial,
		opts:     o,
		logger:   o.logger,
	}
	c.logger.Debug("collapse stage ready",
		"rows", c.store.NodeCount(),
		"delegateRows", c.store.Delegate().NodeCount(),
		"roots", len(roots))
	return c, nil
}

// Compile returns the current collapsed view.
func (c *Controller) Compile() graph.LinearGraph {
	return c.View()
}

// View is Compile with the concrete type.
func (c *Controller) View() *View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Compile()
}

// ToDelegateRow returns the delegate row shown at collapsed row.
func (c *Controller) ToDelegateRow(row int) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if row < 0 || row >= c.store.NodeCount() {
		return 0, false
	}
	return c.store.ToDelegateRow(row), true
}

// ToCollapsedRow returns the collapsed row of a delegate row, false when it
// is hidden.
func (c *Controller) ToCollapsedRow(d int) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.ToCollapsedRow(d)
}

// HandleAction performs a collapse or expand action.
//
// Clicking a skip edge drawn by this stage expands it; clicking a commit with
// one parent and one child collapses the longest such run around it. Other
// clicks are left to the stage below. Collapse-run, expand-all and
// collapse-all are always handled; when they find nothing to do the answer
// is empty.
func (c *Controller) HandleAction(action stage.Action) (stage.Answer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.store.Compile()

	switch action.Kind {
	case stage.ActionClick:
		return c.handleClick(before, action.Element)

	case stage.ActionCollapseRun:
		flipped, above, ok := collapseRun(c.store, action.First, action.Last)
		if !ok {
			c.logger.Debug("collapse run rejected", "first", action.First, "last", action.Last)
			return stage.Answer{}, true
		}
		return c.answer(before, flipped, above), true

	case stage.ActionExpandAll:
		flipped := expandAll(c.store, c.scope)
		c.logger.Debug("expanded all", "shown", len(flipped))
		return c.answer(before, flipped), true

	case stage.ActionCollapseAll:
		flipped := collapseAll(c.store, c.scope)
		c.logger.Debug("collapsed all", "hidden", len(flipped))
		return c.answer(before, flipped), true

	default:
		return stage.Answer{}, false
	}
}

func (c *Controller) handleClick(before *View, el graph.Element) (stage.Answer, bool) {
	switch el := el.(type) {
	case graph.Edge:
		if !el.IsSkip() || c.passesThrough(before, el) {
			return stage.Answer{}, false
		}
		flipped := expandEdge(c.store, el)
		var selected []int
		if target, ok := el.Target(); ok && len(flipped) > 0 {
			selected = append(selected, target)
		}
		c.logger.Debug("expanded skip edge", "edge", el.String(), "shown", len(flipped))
		return c.answer(before, flipped, selected...), true

	case graph.Node:
		flipped, above, ok := collapseAround(c.store, el.Row)
		if !ok {
			return stage.Answer{}, false
		}
		c.logger.Debug("collapsed run", "row", el.Row, "hidden", len(flipped))
		return c.answer(before, flipped, above), true

	default:
		return stage.Answer{}, false
	}
}

// passesThrough reports whether a skip edge of the current view was drawn by
// the stage below rather than by this one.
func (c *Controller) passesThrough(view *View, e graph.Edge) bool {
	de, ok := c.translate(view, e)
	if !ok {
		return false
	}
	return c.delegateHas(de)
}

// answer describes the change from before to the current view.
func (c *Controller) answer(before *View, flipped []int, selected ...int) stage.Answer {
	if len(flipped) == 0 {
		return stage.Answer{}
	}
	after := c.store.Compile()
	return stage.Answer{
		Changes:  graph.Diff(before, after, affected(before, after, flipped)),
		Selected: selected,
	}
}

// OnUpstreamChanged re-indexes the stage after the stage below changed
// shape. Commits that gained a row in the stage below are shown unless the
// controller was built with WithNewNodesVisible(false); commits that already
// had a row keep their flag even when their edges changed. The returned
// changes are in this stage's view; the selection of the stage below is
// passed through.
func (c *Controller) OnUpstreamChanged(answer stage.Answer) stage.Answer {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.store.Compile()
	prev := c.store.Delegate()
	delegate := c.delegate.Compile()
	c.store = RebuildAfterGrowth(c.store, delegate, c.opts.newNodesVisible)

	added := 0
	for row := 0; row < delegate.NodeCount(); row++ {
		id := delegate.IDOf(row)
		if _, had := prev.IndexOf(id); !had {
			c.scope.Set(id, true)
			added++
		}
	}

	after := c.store.Compile()
	ids := answer.Changes.Touched()
	ids = append(ids, affected(before, after, ids)...)

	c.logger.Debug("upstream changed",
		"delegateRows", delegate.NodeCount(),
		"rows", after.NodeCount(),
		"added", added)

	return stage.Answer{
		Changes:  graph.Diff(before, after, ids),
		Selected: answer.Selected,
	}
}

// ToDelegate translates a node or edge of the collapsed view into the view
// below. Skip edges drawn by this stage have no counterpart there.
func (c *Controller) ToDelegate(el graph.Element) (graph.Element, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := c.store.Compile()
	switch el := el.(type) {
	case graph.Node:
		if el.Row < 0 || el.Row >= view.NodeCount() {
			return nil, false
		}
		return c.store.Delegate().Node(c.store.ToDelegateRow(el.Row)), true

	case graph.Edge:
		de, ok := c.translate(view, el)
		if !ok || !c.delegateHas(de) {
			return nil, false
		}
		return de, true

	default:
		return nil, false
	}
}

// translate maps the present ends of e from collapsed to delegate rows
func (c *Controller) translate(view *View, e graph.Edge) (graph.Edge, bool) {
	for _, end := range []graph.Endpoint{e.Up, e.Down} {
		if row, ok := end.Row(); ok && row >= view.NodeCount() {
			return graph.Edge{}, false
		}
	}
	de := e.Remap(c.store.ToDelegateRow)
	up, upOK := de.Up.Row()
	down, downOK := de.Down.Row()
	if upOK && downOK && c.store.IsAbsorbedEdge(up, down) {
		return graph.Edge{}, false
	}
	return de, true
}

// delegateHas reports whether the delegate view has edge e
func (c *Controller) delegateHas(e graph.Edge) bool {
	row, ok := e.Up.Row()
	filter := graph.FilterDown
	if !ok {
		row, ok = e.Down.Row()
		filter = graph.FilterUp
	}
	if !ok {
		return false
	}
	return slices.Contains(c.store.Delegate().Edges(row, filter), e)
}
