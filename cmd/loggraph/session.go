package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/loggraph/pkg/collapse"
	"github.com/utkarsh5026/loggraph/pkg/common/logger"
	"github.com/utkarsh5026/loggraph/pkg/config"
	"github.com/utkarsh5026/loggraph/pkg/gitlog"
	"github.com/utkarsh5026/loggraph/pkg/graph"
	"github.com/utkarsh5026/loggraph/pkg/stage"
)

// viewOptions are the flags of commands that open a collapsed view
type viewOptions struct {
	branches    []string
	limit       int
	collapseAll bool
	more        int
}

func (o *viewOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&o.branches, "branch", "b", nil, "Show only history reachable from these branches, tags or commits")
	cmd.Flags().IntVarP(&o.limit, "limit", "n", config.DefaultLimit, "Number of commits to load")
	cmd.Flags().BoolVar(&o.collapseAll, "collapse-all", false, "Fold every unbranched run")
	cmd.Flags().IntVar(&o.more, "more", 0, "Load this many further commits after the view is built")
}

// session is an opened repository with its stage chain:
// the permanent graph at the bottom, the collapse controller on top
type session struct {
	repo       *gitlog.Repository
	cfg        *config.Config
	builder    *graph.Builder
	permanent  *stage.Permanent
	controller *collapse.Controller
	chain      *stage.Chain

	// pending holds commits read from the log but not loaded yet
	pending []graph.CommitRef
}

func openSession(ctx context.Context, cmd *cobra.Command, root *rootOptions, opts *viewOptions) (*session, error) {
	var (
		repo    *gitlog.Repository
		commits []graph.CommitRef
		cfg     *config.Config
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := gitlog.Open(root.repoDir)
		if err != nil {
			return err
		}
		refs, err := r.Log(gctx, 0)
		if err != nil {
			return err
		}
		repo, commits = r, refs
		return nil
	})
	g.Go(func() error {
		c, err := config.Load(root.repoDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := applyFlags(cmd, cfg, opts); err != nil {
		return nil, err
	}

	log := logger.With("component", "cli")

	loaded := commits
	if cfg.Limit > 0 && len(loaded) > cfg.Limit {
		loaded = commits[:cfg.Limit]
	}

	builder := graph.NewBuilder()
	pg, err := builder.Build(loaded)
	if err != nil {
		return nil, fmt.Errorf("failed to build commit graph: %w", err)
	}

	heads, err := repo.Heads(ctx, cfg.Branches)
	if err != nil {
		return nil, err
	}
	roots := make([]int, 0, len(heads))
	for i, h := range heads {
		id, ok := pg.Lookup(h)
		if ok {
			_, ok = pg.IndexOf(id)
		}
		if !ok {
			return nil, fmt.Errorf("branch %q is not within the %d loaded commits; raise --limit", cfg.Branches[i], len(loaded))
		}
		roots = append(roots, id)
	}

	permanent := stage.NewPermanent(pg)
	controller, err := collapse.NewController(ctx, permanent, pg, roots, cfg.CollapseOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to open view: %w", err)
	}
	chain, err := stage.NewChain(permanent, controller)
	if err != nil {
		return nil, err
	}

	s := &session{
		repo:       repo,
		cfg:        cfg,
		builder:    builder,
		permanent:  permanent,
		controller: controller,
		chain:      chain,
		pending:    commits[len(loaded):],
	}

	if cfg.CollapseAll {
		answer := chain.HandleAction(stage.CollapseAll())
		log.Debug("collapsed all runs", "changes", len(answer.Changes.Nodes))
	}

	if opts.more > 0 {
		answer, err := s.loadMore(opts.more)
		if err != nil {
			return nil, err
		}
		log.Debug("loaded more history", "added", len(answer.Changes.AddedNodes()))
	}

	log.Debug("view ready", "rows", s.view().NodeCount(), "commits", pg.NodeCount())
	return s, nil
}

// applyFlags lets explicitly set flags win over config values
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *viewOptions) error {
	if cmd.Flags().Changed("branch") {
		cfg.Branches = opts.branches
	}
	if cmd.Flags().Changed("limit") {
		cfg.Limit = opts.limit
	}
	if opts.collapseAll {
		cfg.CollapseAll = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if !cmd.Flag("log-level").Changed {
		level, _ := logger.ParseLevel(cfg.LogLevel)
		logger.SetLevel(level)
	}
	return nil
}

// loadMore appends up to n pending commits to the permanent graph and
// passes the change up the chain
func (s *session) loadMore(n int) (stage.Answer, error) {
	if n > len(s.pending) {
		n = len(s.pending)
	}
	next, err := s.builder.Build(s.pending[:n])
	if err != nil {
		return stage.Answer{}, fmt.Errorf("failed to load more history: %w", err)
	}
	s.pending = s.pending[n:]
	return s.chain.Changed(s.permanent, s.permanent.Load(next)), nil
}

func (s *session) view() graph.LinearGraph {
	return s.chain.Compile()
}

func (s *session) history() *graph.PermanentGraph {
	return s.permanent.Graph()
}

// rowOf finds the visible row of a commit given by hash or unique prefix
func (s *session) rowOf(hash string) (int, error) {
	id, ok := s.history().Lookup(hash)
	if !ok {
		return 0, fmt.Errorf("unknown commit '%s'", hash)
	}
	row, ok := s.view().IndexOf(id)
	if !ok {
		return 0, fmt.Errorf("commit '%s' is not shown", hash)
	}
	return row, nil
}

// shortHash returns the abbreviated hash of the commit at row
func (s *session) shortHash(row int) string {
	hash := s.history().Hash(s.view().IDOf(row))
	if len(hash) > 8 {
		hash = hash[:8]
	}
	return hash
}

func (s *session) subject(row int) string {
	return s.history().Subject(s.view().IDOf(row))
}

func (s *session) summary() string {
	return fmt.Sprintf("%d of %d commits shown", s.view().NodeCount(), s.history().NodeCount())
}
