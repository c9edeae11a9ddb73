package gitlog

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type testRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	wt   *git.Worktree
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &testRepo{t: t, dir: dir, repo: repo, wt: wt}
}

// commit records an empty commit at epoch plus minute minutes
func (r *testRepo) commit(msg string, minute int, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()
	sig := &object.Signature{
		Name:  "Test User",
		Email: "test@example.com",
		When:  epoch.Add(time.Duration(minute) * time.Minute),
	}
	h, err := r.wt.Commit(msg, &git.CommitOptions{
		Author:            sig,
		AllowEmptyCommits: true,
		Parents:           parents,
	})
	require.NoError(r.t, err)
	return h
}

func (r *testRepo) branch(name string, h plumbing.Hash) {
	r.t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), h)
	require.NoError(r.t, r.repo.Storer.SetReference(ref))
}

// history builds
//
//	merge
//	|\
//	| f1     (feature)
//	m2 |
//	m1 |
//	|/
//	base
func history(t *testing.T) (*testRepo, map[string]plumbing.Hash) {
	r := newTestRepo(t)
	h := map[string]plumbing.Hash{}
	h["base"] = r.commit("base\n\nfirst commit", 0)
	h["m1"] = r.commit("m1", 1)
	h["m2"] = r.commit("m2", 2)
	h["f1"] = r.commit("f1", 3, h["base"])
	r.branch("feature", h["f1"])
	h["merge"] = r.commit("merge", 4, h["m2"], h["f1"])
	r.branch("master", h["merge"])
	return r, h
}

func subjects(t *testing.T, r *Repository, limit int) []string {
	t.Helper()
	refs, err := r.Log(context.Background(), limit)
	require.NoError(t, err)
	var out []string
	for _, c := range refs {
		out = append(out, c.Subject)
	}
	return out
}

func TestLog(t *testing.T) {
	tr, h := history(t)
	r, err := Open(tr.dir)
	require.NoError(t, err)
	assert.Equal(t, tr.dir, r.Path())

	refs, err := r.Log(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, refs, 5)

	assert.Equal(t, []string{"merge", "f1", "m2", "m1", "base"}, subjects(t, r, 0))
	assert.Equal(t, h["merge"].String(), refs[0].Hash)
	assert.Equal(t, []string{h["m2"].String(), h["f1"].String()}, refs[0].Parents)
	assert.Empty(t, refs[4].Parents)
	assert.Equal(t, "base", refs[4].Subject, "only the first line is kept")
}

func TestLog_Limit(t *testing.T) {
	tr, h := history(t)
	r, err := Open(tr.dir)
	require.NoError(t, err)

	refs, err := r.Log(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "f1", refs[1].Subject)
	assert.Equal(t, []string{h["base"].String()}, refs[1].Parents, "parents past the cut are still named")
}

func TestLog_ChildrenBeforeParents(t *testing.T) {
	tr := newTestRepo(t)
	parent := tr.commit("parent", 10)
	tr.commit("child with a skewed clock", 1, parent)

	r, err := Open(tr.dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"child with a skewed clock", "parent"}, subjects(t, r, 0))
}

func TestLog_EmptyRepository(t *testing.T) {
	tr := newTestRepo(t)
	r, err := Open(tr.dir)
	require.NoError(t, err)

	refs, err := r.Log(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestLog_Cancelled(t *testing.T) {
	tr, _ := history(t)
	r, err := Open(tr.dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Log(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHeads(t *testing.T) {
	tr, h := history(t)
	_, err := tr.repo.CreateTag("v1", h["m1"], nil)
	require.NoError(t, err)
	_, err = tr.repo.CreateTag("v2", h["m2"], &git.CreateTagOptions{
		Tagger:  &object.Signature{Name: "Test User", Email: "test@example.com", When: epoch},
		Message: "release",
	})
	require.NoError(t, err)

	r, err := Open(tr.dir)
	require.NoError(t, err)

	tests := []struct {
		name string
		want plumbing.Hash
	}{
		{"feature", h["f1"]},
		{"master", h["merge"]},
		{"v1", h["m1"]},
		{"v2", h["m2"]},
		{"HEAD", h["merge"]},
		{h["base"].String(), h["base"]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			heads, err := r.Heads(context.Background(), []string{tt.name})
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want.String()}, heads)
		})
	}
}

func TestHeads_NotFound(t *testing.T) {
	tr, _ := history(t)
	r, err := Open(tr.dir)
	require.NoError(t, err)

	_, err = r.Heads(context.Background(), []string{"master", "nope"})
	var notFound *ErrRefNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nope", notFound.Name)

	heads, err := r.Heads(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, heads)
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}
