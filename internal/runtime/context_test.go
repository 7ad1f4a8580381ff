package runtime_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ghcommit.dev/ghcommit/internal/config"
	"ghcommit.dev/ghcommit/internal/runtime"
	"ghcommit.dev/ghcommit/testhelpers"
)

func TestNewContextResolvesRootFromSubdirectory(t *testing.T) {
	repo := testhelpers.NewGitRepo(t)
	repo.WriteFile("sub/dir/file.txt", "x")
	repo.Git("remote", "add", "origin", "git@github.com:octo/widgets.git")

	cfg := &config.Config{Token: "tok", WorkDir: filepath.Join(repo.Dir, "sub", "dir")}
	rc, err := runtime.NewContext(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	wantRoot, err := filepath.EvalSymlinks(repo.Dir)
	require.NoError(t, err)
	gotRoot, err := filepath.EvalSymlinks(rc.RepoRoot)
	require.NoError(t, err)
	require.Equal(t, wantRoot, gotRoot)
	require.Equal(t, rc.RepoRoot, rc.Checkout.Dir())
	require.Equal(t, "octo", cfg.Owner)
	require.Equal(t, "widgets", cfg.Repo)
}

func TestNewContextKeepsConfiguredRepository(t *testing.T) {
	repo := testhelpers.NewGitRepo(t)
	repo.Git("remote", "add", "origin", "https://github.com/someone/else.git")

	cfg := &config.Config{Token: "tok", WorkDir: repo.Dir, Owner: "octo", Repo: "widgets"}
	rc, err := runtime.NewContext(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	require.Equal(t, "octo", cfg.Owner)
	require.Equal(t, "widgets", cfg.Repo)
}

func TestNewContextOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Token: "tok", WorkDir: dir}

	rc, err := runtime.NewContext(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	require.Equal(t, dir, rc.RepoRoot)
	require.False(t, cfg.HasRepository())
}

func TestNewContextEnterpriseAPI(t *testing.T) {
	cfg := &config.Config{Token: "tok", WorkDir: t.TempDir(), APIURL: "https://ghe.example.com/api/v3"}
	rc, err := runtime.NewContext(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	deps := rc.Dependencies()
	require.NotNil(t, deps.VCS)
	require.NotNil(t, deps.Remote)
	require.NotNil(t, deps.ReadFile)
	require.Same(t, rc.Splog, deps.Splog)
}
