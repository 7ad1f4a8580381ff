// Package git provides the local Git operations ghcommit needs.
//
// Commands run through CommandRunner, which treats anything written to stderr
// as a failure. Checkout lists changed paths and resolves the base commit and
// tree; Repository uses go-git to find the worktree root and origin remote.
//
// This package should be the only place where git commands are executed.
package git
