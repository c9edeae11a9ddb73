// Package gitlog reads commit history from a git repository with go-git and
// hands it out as graph.CommitRef values in log order.
package gitlog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/utkarsh5026/loggraph/pkg/graph"
)

// Repository wraps a go-git repository.
type Repository struct {
	repo *git.Repository
	path string
}

// Open opens an existing git repository.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	return &Repository{repo: repo, path: path}, nil
}

// Path returns the directory the repository was opened from.
func (r *Repository) Path() string {
	return r.path
}

// Log returns the commits reachable from any ref, children before parents
// and otherwise newest first. A positive limit keeps only the first limit
// commits; their parents beyond the cut stay referenced by hash.
func (r *Repository) Log(ctx context.Context, limit int) ([]graph.CommitRef, error) {
	iter, err := r.repo.Log(&git.LogOptions{All: true, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	defer iter.Close()

	commits := make(map[plumbing.Hash]*object.Commit)
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		commits[c.Hash] = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}

	ordered := topoOrder(commits)
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}

	refs := make([]graph.CommitRef, len(ordered))
	for i, c := range ordered {
		refs[i] = toRef(c)
	}
	return refs, nil
}

// Heads resolves branch names, tags and revisions to commit hashes, in the
// order given. No names means no heads.
func (r *Repository) Heads(ctx context.Context, names []string) ([]string, error) {
	hashes := make([]string, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h, err := r.resolve(name)
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, h.String())
	}
	return hashes, nil
}

// resolve tries name as a branch, then a tag, then any revision go-git parses
func (r *Repository) resolve(name string) (plumbing.Hash, error) {
	if ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), true); err == nil {
		return ref.Hash(), nil
	}

	if ref, err := r.repo.Reference(plumbing.NewTagReferenceName(name), true); err == nil {
		return r.peel(ref.Hash())
	}

	h, err := r.repo.ResolveRevision(plumbing.Revision(name))
	if err != nil {
		return plumbing.ZeroHash, NewErrRefNotFound(name)
	}
	if _, err := r.repo.CommitObject(*h); err != nil {
		return plumbing.ZeroHash, NewErrRefNotFound(name)
	}
	return *h, nil
}

// peel follows an annotated tag to its commit
func (r *Repository) peel(h plumbing.Hash) (plumbing.Hash, error) {
	tag, err := r.repo.TagObject(h)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return h, nil
	}
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("reading tag %s: %w", h, err)
	}
	c, err := tag.Commit()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("tag %s does not point to a commit: %w", tag.Name, err)
	}
	return c.Hash, nil
}

// topoOrder emits a commit only once all of its children among commits are
// out, picking the newest ready commit each time
func topoOrder(commits map[plumbing.Hash]*object.Commit) []*object.Commit {
	children := make(map[plumbing.Hash]int, len(commits))
	for _, c := range commits {
		for _, p := range c.ParentHashes {
			if _, ok := commits[p]; ok {
				children[p]++
			}
		}
	}

	ready := binaryheap.NewWith(newestFirst)
	for h, c := range commits {
		if children[h] == 0 {
			ready.Push(c)
		}
	}

	ordered := make([]*object.Commit, 0, len(commits))
	for !ready.Empty() {
		v, _ := ready.Pop()
		c := v.(*object.Commit)
		ordered = append(ordered, c)

		for _, p := range c.ParentHashes {
			parent, ok := commits[p]
			if !ok {
				continue
			}
			children[p]--
			if children[p] == 0 {
				ready.Push(parent)
			}
		}
	}
	return ordered
}

func newestFirst(a, b interface{}) int {
	ca, cb := a.(*object.Commit), b.(*object.Commit)
	if c := cb.Committer.When.Compare(ca.Committer.When); c != 0 {
		return c
	}
	return strings.Compare(ca.Hash.String(), cb.Hash.String())
}

func toRef(c *object.Commit) graph.CommitRef {
	parents := make([]string, len(c.ParentHashes))
	for i, p := range c.ParentHashes {
		parents[i] = p.String()
	}
	subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return graph.CommitRef{
		Hash:    c.Hash.String(),
		Parents: parents,
		Subject: subject,
	}
}
