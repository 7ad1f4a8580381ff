package github_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/require"

	ghcerrors "ghcommit.dev/ghcommit/internal/errors"
	githubpkg "ghcommit.dev/ghcommit/internal/github"
	"ghcommit.dev/ghcommit/testhelpers"
)

func TestCreateTree(t *testing.T) {
	t.Run("sends base tree and every entry", func(t *testing.T) {
		config := testhelpers.NewMockGitDataServerConfig("C0")
		client, _ := testhelpers.NewMockGitDataClient(t, config)

		sha, err := client.CreateTree(context.Background(), "owner", "repo", "T0", []githubpkg.TreeEntry{
			{Path: "a.txt", Mode: githubpkg.ModeRegularFile, Type: githubpkg.TypeBlob, Content: "hello"},
			{Path: "dir/b.txt", Mode: githubpkg.ModeRegularFile, Type: githubpkg.TypeBlob, Content: "world"},
		})
		require.NoError(t, err)
		require.Equal(t, "tree-1", sha)

		require.Len(t, config.Trees, 1)
		require.Equal(t, "T0", config.Trees[0].BaseTree)
		require.Equal(t, []testhelpers.RecordedTreeEntry{
			{Path: "a.txt", Mode: "100644", Type: "blob", Content: "hello"},
			{Path: "dir/b.txt", Mode: "100644", Type: "blob", Content: "world"},
		}, config.Trees[0].Entries)
	})

	t.Run("classifies API errors as remote failures", func(t *testing.T) {
		config := testhelpers.NewMockGitDataServerConfig("C0")
		config.ErrorResponses["trees"] = http.StatusUnauthorized
		client, _ := testhelpers.NewMockGitDataClient(t, config)

		_, err := client.CreateTree(context.Background(), "owner", "repo", "T0", []githubpkg.TreeEntry{
			{Path: "a.txt", Mode: githubpkg.ModeRegularFile, Type: githubpkg.TypeBlob, Content: "hello"},
		})
		require.Error(t, err)
		require.Equal(t, ghcerrors.RemoteAPIFailure, ghcerrors.KindOf(err))

		var ghErr *github.ErrorResponse
		require.ErrorAs(t, err, &ghErr)
		require.Equal(t, http.StatusUnauthorized, ghErr.Response.StatusCode)
	})
}

func TestCreateCommit(t *testing.T) {
	config := testhelpers.NewMockGitDataServerConfig("C0")
	client, _ := testhelpers.NewMockGitDataClient(t, config)

	sha, err := client.CreateCommit(context.Background(), "owner", "repo", "Regenerate", "T1", "C0")
	require.NoError(t, err)
	require.Equal(t, "commit-1", sha)

	require.Len(t, config.Commits, 1)
	require.Equal(t, "Regenerate", config.Commits[0].Message)
	require.Equal(t, "T1", config.Commits[0].Tree)
	require.Equal(t, []string{"C0"}, config.Commits[0].Parents)
}

func TestUpdateRef(t *testing.T) {
	t.Run("fast-forwards the branch", func(t *testing.T) {
		config := testhelpers.NewMockGitDataServerConfig("C0")
		client, _ := testhelpers.NewMockGitDataClient(t, config)

		commit, err := client.CreateCommit(context.Background(), "owner", "repo", "msg", "T1", "C0")
		require.NoError(t, err)

		require.NoError(t, client.UpdateRef(context.Background(), "owner", "repo", "heads/main", commit))
		require.Equal(t, commit, config.Ref("main"))
		require.Equal(t, []testhelpers.RecordedRefUpdate{{Ref: "heads/main", SHA: commit, Force: false}}, config.RefUpdates)
	})

	t.Run("branch names with slashes", func(t *testing.T) {
		config := testhelpers.NewMockGitDataServerConfig("C0")
		config.Refs["feature/gen"] = "C0"
		client, _ := testhelpers.NewMockGitDataClient(t, config)

		commit, err := client.CreateCommit(context.Background(), "owner", "repo", "msg", "T1", "C0")
		require.NoError(t, err)

		require.NoError(t, client.UpdateRef(context.Background(), "owner", "repo", "heads/feature/gen", commit))
		require.Equal(t, commit, config.Ref("feature/gen"))
	})

	t.Run("rejects non fast-forward updates", func(t *testing.T) {
		config := testhelpers.NewMockGitDataServerConfig("C0")
		client, _ := testhelpers.NewMockGitDataClient(t, config)

		commit, err := client.CreateCommit(context.Background(), "owner", "repo", "msg", "T1", "C0")
		require.NoError(t, err)

		// Someone else advanced main after HEAD was resolved
		config.Refs["main"] = "C-other"

		err = client.UpdateRef(context.Background(), "owner", "repo", "heads/main", commit)
		require.Error(t, err)
		require.Equal(t, ghcerrors.RemoteAPIFailure, ghcerrors.KindOf(err))
		require.Contains(t, err.Error(), "not a fast forward")
		require.Equal(t, "C-other", config.Ref("main"))
	})
}

func TestNewClient(t *testing.T) {
	t.Run("defaults to api.github.com", func(t *testing.T) {
		client, err := githubpkg.NewClient(context.Background(), "token", "")
		require.NoError(t, err)
		require.Equal(t, "https://api.github.com/", client.BaseURL())
	})

	t.Run("enterprise endpoint gets a trailing slash", func(t *testing.T) {
		client, err := githubpkg.NewClient(context.Background(), "token", "https://ghe.example.com/api/v3")
		require.NoError(t, err)
		require.Equal(t, "https://ghe.example.com/api/v3/", client.BaseURL())
		require.Equal(t, "https://ghe.example.com/api/uploads/", client.UploadURL())
	})

	t.Run("enterprise host without a path gets the REST prefix", func(t *testing.T) {
		client, err := githubpkg.NewClient(context.Background(), "token", "https://ghe.example.com")
		require.NoError(t, err)
		require.Equal(t, "https://ghe.example.com/api/v3/", client.BaseURL())
		require.Equal(t, "https://ghe.example.com/api/uploads/", client.UploadURL())
	})

	t.Run("sends the token as a bearer credential", func(t *testing.T) {
		config := testhelpers.NewMockGitDataServerConfig("C0")
		var seen string
		server := httptest.NewServer(withAuthCapture(testhelpers.NewMockGitDataHandler(config), &seen))
		t.Cleanup(server.Close)

		client, err := githubpkg.NewClient(context.Background(), "s3cret", server.URL)
		require.NoError(t, err)

		_, err = client.CreateCommit(context.Background(), "owner", "repo", "msg", "T1", "C0")
		require.NoError(t, err)
		require.Equal(t, "Bearer s3cret", seen)
	})
}

func withAuthCapture(next http.Handler, seen *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = r.Header.Get("Authorization")
		next.ServeHTTP(w, r)
	})
}
