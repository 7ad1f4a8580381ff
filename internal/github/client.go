// Package github publishes commits through the GitHub REST git-data API.
package github

import "context"

// Fixed values for every tree entry ghcommit creates
const (
	ModeRegularFile = "100644"
	TypeBlob        = "blob"
)

// TreeEntry is a blob descriptor layered onto the base tree.
// This is a simplified struct to avoid coupling callers to go-github.
type TreeEntry struct {
	Path    string
	Mode    string
	Type    string
	Content string
}

// Client is an interface for the git-data calls needed to publish a commit
type Client interface {
	// CreateTree creates a tree overlaying entries onto baseTree and returns its SHA
	CreateTree(ctx context.Context, owner, repo, baseTree string, entries []TreeEntry) (string, error)

	// CreateCommit creates a commit with exactly one parent and returns its SHA
	CreateCommit(ctx context.Context, owner, repo, message, tree, parent string) (string, error)

	// UpdateRef moves ref (e.g. "heads/main") to sha without forcing
	UpdateRef(ctx context.Context, owner, repo, ref, sha string) error
}
