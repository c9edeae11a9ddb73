package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// TestHelper builds throwaway repositories for command tests
type TestHelper struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	wt   *git.Worktree
	when time.Time
}

func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &TestHelper{
		t:    t,
		dir:  dir,
		repo: repo,
		wt:   wt,
		when: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Commit records an empty commit a minute after the previous one
func (h *TestHelper) Commit(msg string, parents ...plumbing.Hash) plumbing.Hash {
	h.t.Helper()
	h.when = h.when.Add(time.Minute)
	hash, err := h.wt.Commit(msg, &git.CommitOptions{
		Author:            &object.Signature{Name: "Test User", Email: "test@example.com", When: h.when},
		AllowEmptyCommits: true,
		Parents:           parents,
	})
	require.NoError(h.t, err)
	return hash
}

// Branch points refs/heads/name at hash
func (h *TestHelper) Branch(name string, hash plumbing.Hash) {
	h.t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), hash)
	require.NoError(h.t, h.repo.Storer.SetReference(ref))
}

// Linear commits n commits named "commit 0" (oldest) to "commit n-1"
func (h *TestHelper) Linear(n int) []plumbing.Hash {
	h.t.Helper()
	hashes := make([]plumbing.Hash, n)
	for i := range hashes {
		hashes[i] = h.Commit(fmt.Sprintf("commit %d", i))
	}
	return hashes
}

func (h *TestHelper) WriteConfig(content string) {
	h.t.Helper()
	require.NoError(h.t, os.WriteFile(filepath.Join(h.dir, ".loggraph.yaml"), []byte(content), 0o644))
}

// Run executes loggraph against the helper's repository
func (h *TestHelper) Run(args ...string) (string, error) {
	h.t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--repo", h.dir))
	err := cmd.Execute()
	return out.String(), err
}
