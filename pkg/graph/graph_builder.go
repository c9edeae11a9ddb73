package graph

import (
	"fmt"
	"slices"
)

// Builder turns log output into PermanentGraphs.
//
// A Builder accumulates: every Build call appends an older segment of the
// same history and returns a snapshot of everything loaded so far. Ids handed
// out by earlier calls never change.
type Builder struct {
	// ids maps every hash seen so far to its permanent id
	ids map[string]int

	// hashes and subjects are indexed by permanent id
	hashes   []string
	subjects []string

	// rowIDs lists loaded commits in log order
	rowIDs []int

	// parents holds the parent ids of each loaded row
	parents [][]int
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{
		ids: make(map[string]int),
	}
}

// Build appends commits to the history and returns the resulting graph.
//
// Commits should be in log order (newest first) and must not repeat commits
// of earlier calls.
func (b *Builder) Build(commits []CommitRef) (*PermanentGraph, error) {
	loaded := make(map[int]bool, len(b.rowIDs))
	for _, id := range b.rowIDs {
		loaded[id] = true
	}

	for i, c := range commits {
		if c.Hash == "" {
			return nil, fmt.Errorf("commit %d: empty hash", i)
		}
		id := b.idOf(c.Hash)
		if loaded[id] {
			return nil, fmt.Errorf("commit %s: loaded twice", c.Hash)
		}
		loaded[id] = true
		b.subjects[id] = c.Subject

		parents := make([]int, 0, len(c.Parents))
		for _, p := range c.Parents {
			pid := b.idOf(p)
			if !slices.Contains(parents, pid) {
				parents = append(parents, pid)
			}
		}

		b.rowIDs = append(b.rowIDs, id)
		b.parents = append(b.parents, parents)
	}

	return b.snapshot(), nil
}

// idOf returns the id of a hash, handing out the next one if unseen
func (b *Builder) idOf(hash string) int {
	if id, ok := b.ids[hash]; ok {
		return id
	}
	id := len(b.hashes)
	b.ids[hash] = id
	b.hashes = append(b.hashes, hash)
	b.subjects = append(b.subjects, "")
	return id
}

// snapshot copies the builder state into an immutable graph
func (b *Builder) snapshot() *PermanentGraph {
	g := &PermanentGraph{
		rowIDs:   slices.Clone(b.rowIDs),
		rows:     make(map[int]int, len(b.rowIDs)),
		hashes:   slices.Clone(b.hashes),
		subjects: slices.Clone(b.subjects),
		parents:  make([][]int, len(b.parents)),
		children: make([][]int, len(b.rowIDs)),
	}
	for row, id := range g.rowIDs {
		g.rows[id] = row
	}
	for row, parents := range b.parents {
		g.parents[row] = slices.Clone(parents)
		for _, p := range parents {
			if prow, ok := g.rows[p]; ok {
				g.children[prow] = append(g.children[prow], row)
			}
		}
	}
	return g
}

// BuildGraph is a shorthand for building a graph from a single segment.
func BuildGraph(commits []CommitRef) (*PermanentGraph, error) {
	return NewBuilder().Build(commits)
}
