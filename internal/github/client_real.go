package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	ghcerrors "ghcommit.dev/ghcommit/internal/errors"
)

// DefaultAPIURL is the public GitHub REST endpoint
const DefaultAPIURL = "https://api.github.com/"

// RealClient implements Client using the real GitHub API
type RealClient struct {
	client *github.Client
}

// NewClient creates a RealClient authenticated with token.
// apiURL may point at a GitHub Enterprise endpoint such as
// https://ghe.example.com/api/v3; empty means api.github.com.
func NewClient(ctx context.Context, token, apiURL string) (*RealClient, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	if apiURL != "" && strings.TrimSuffix(apiURL, "/") != strings.TrimSuffix(DefaultAPIURL, "/") {
		// REST API: https://hostname/api/v3/
		// Upload API: https://hostname/api/uploads/
		uploadURL := strings.TrimSuffix(strings.TrimSuffix(apiURL, "/"), "/api/v3")
		enterprise, err := client.WithEnterpriseURLs(apiURL, uploadURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse API URL %s: %w", apiURL, err)
		}
		client = enterprise
	}

	return &RealClient{client: client}, nil
}

// NewClientFromGitHub wraps an already configured go-github client
func NewClientFromGitHub(client *github.Client) *RealClient {
	return &RealClient{client: client}
}

// BaseURL returns the REST endpoint the client talks to
func (c *RealClient) BaseURL() string {
	return c.client.BaseURL.String()
}

// UploadURL returns the upload endpoint paired with BaseURL
func (c *RealClient) UploadURL() string {
	return c.client.UploadURL.String()
}

// CreateTree creates a tree overlaying entries onto baseTree
func (c *RealClient) CreateTree(ctx context.Context, owner, repo, baseTree string, entries []TreeEntry) (string, error) {
	ghEntries := make([]*github.TreeEntry, 0, len(entries))
	for _, e := range entries {
		ghEntries = append(ghEntries, &github.TreeEntry{
			Path:    github.String(e.Path),
			Mode:    github.String(e.Mode),
			Type:    github.String(e.Type),
			Content: github.String(e.Content),
		})
	}

	tree, _, err := c.client.Git.CreateTree(ctx, owner, repo, baseTree, ghEntries)
	if err != nil {
		return "", ghcerrors.NewRemoteError("create tree", err)
	}
	if tree.GetSHA() == "" {
		return "", ghcerrors.NewRemoteError("create tree", fmt.Errorf("response did not include a tree SHA"))
	}
	return tree.GetSHA(), nil
}

// CreateCommit creates a commit pointing at tree whose only parent is parent
func (c *RealClient) CreateCommit(ctx context.Context, owner, repo, message, tree, parent string) (string, error) {
	commit := &github.Commit{
		Message: github.String(message),
		Tree:    &github.Tree{SHA: github.String(tree)},
		Parents: []*github.Commit{{SHA: github.String(parent)}},
	}

	created, _, err := c.client.Git.CreateCommit(ctx, owner, repo, commit, nil)
	if err != nil {
		return "", ghcerrors.NewRemoteError("create commit", err)
	}
	if created.GetSHA() == "" {
		return "", ghcerrors.NewRemoteError("create commit", fmt.Errorf("response did not include a commit SHA"))
	}
	return created.GetSHA(), nil
}

// UpdateRef moves ref to sha. GitHub rejects the update with 422 when it is
// not a fast-forward, which is how a concurrently advanced branch is caught.
func (c *RealClient) UpdateRef(ctx context.Context, owner, repo, ref, sha string) error {
	reference := &github.Reference{
		Ref:    github.String(ref),
		Object: &github.GitObject{SHA: github.String(sha)},
	}

	if _, _, err := c.client.Git.UpdateRef(ctx, owner, repo, reference, false); err != nil {
		return ghcerrors.NewRemoteError("update ref "+ref, err)
	}
	return nil
}
