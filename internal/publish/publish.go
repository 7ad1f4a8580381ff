// Package publish turns local working tree changes into a single commit on
// a GitHub branch.
//
// The pipeline is strictly sequential: discover changed paths, capture their
// contents, resolve the base commit and tree, then create a tree, create a
// commit and move the branch ref. Nothing is retried and nothing is rolled
// back; a failed ref update leaves unreferenced tree and commit objects for
// GitHub to collect.
package publish

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"ghcommit.dev/ghcommit/internal/config"
	ghcerrors "ghcommit.dev/ghcommit/internal/errors"
	"ghcommit.dev/ghcommit/internal/github"
	"ghcommit.dev/ghcommit/internal/output"
)

// VersionControl inspects the local checkout
type VersionControl interface {
	ListChangedPaths(ctx context.Context) ([]string, error)
	ResolveHeadCommit(ctx context.Context) (string, error)
	ResolveTreeForCommit(ctx context.Context, commitSHA string) (string, error)
}

// Remote is the hosting service side of a publish
type Remote interface {
	CreateTree(ctx context.Context, owner, repo, baseTree string, entries []github.TreeEntry) (string, error)
	CreateCommit(ctx context.Context, owner, repo, message, tree, parent string) (string, error)
	UpdateRef(ctx context.Context, owner, repo, ref, sha string) error
}

// FileReader reads a changed path reported by VersionControl
type FileReader func(path string) ([]byte, error)

// DirReader returns a FileReader resolving paths against root
func DirReader(root string) FileReader {
	return func(path string) ([]byte, error) {
		return os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
	}
}

// Dependencies are the collaborators a run needs
type Dependencies struct {
	VCS      VersionControl
	Remote   Remote
	ReadFile FileReader
	Splog    *output.Splog
	// Confirm, when set, is asked before anything is sent to GitHub.
	// Returning false cancels the run without error.
	Confirm func(plan *Result) (bool, error)
}

// Result describes what a run did
type Result struct {
	Changed    []string
	BaseCommit string
	BaseTree   string
	Ref        string
	Tree       string
	Commit     string
	DryRun     bool
	Canceled   bool
	// Updated is set once GitHub accepted the ref update
	Updated bool
}

// NoOp reports whether the run found nothing to publish
func (r *Result) NoOp() bool {
	return len(r.Changed) == 0
}

// Published reports whether the branch ref was moved
func (r *Result) Published() bool {
	return r.Updated
}

// Run executes the whole pipeline for cfg
func Run(ctx context.Context, cfg *config.Config, deps Dependencies) (*Result, error) {
	splog := deps.Splog
	if splog == nil {
		splog = output.NewDiscardSplog()
	}
	result := &Result{DryRun: cfg.DryRun}

	paths, err := DiscoverChanges(ctx, deps.VCS)
	if err != nil {
		return result, err
	}
	if len(paths) == 0 {
		splog.Info("No changed files; nothing to commit.")
		return result, nil
	}
	result.Changed = paths
	splog.Info("Found %d changed file(s).", len(paths))
	for _, p := range paths {
		splog.Debug("  %s", p)
	}

	if err := cfg.CheckBranch(); err != nil {
		return result, err
	}
	if !cfg.HasRepository() {
		return result, ghcerrors.NewPreconditionError(ghcerrors.ErrMissingRepository, "set --repo or GITHUB_REPOSITORY")
	}
	result.Ref = cfg.RefName()

	entries, err := CaptureContents(paths, deps.ReadFile)
	if err != nil {
		return result, err
	}

	result.BaseCommit, result.BaseTree, err = ResolveBase(ctx, deps.VCS)
	if err != nil {
		return result, err
	}
	splog.Debug("Base commit %s, tree %s", result.BaseCommit, result.BaseTree)

	if cfg.DryRun {
		splog.Info("Dry run: would commit %d file(s) on top of %s and update %s in %s/%s.",
			len(entries), short(result.BaseCommit), result.Ref, cfg.Owner, cfg.Repo)
		return result, nil
	}

	if deps.Confirm != nil {
		ok, err := deps.Confirm(result)
		if err != nil {
			return result, err
		}
		if !ok {
			result.Canceled = true
			splog.Warn("Canceled; nothing was published.")
			return result, nil
		}
	}

	if err := publishCommit(ctx, cfg, deps.Remote, entries, result); err != nil {
		return result, err
	}
	splog.Success("Committed %d file(s) to %s as %s.", len(entries), cfg.Branch, short(result.Commit))
	return result, nil
}

// DiscoverChanges lists changed paths, dropping blank lines and duplicates
// while keeping discovery order.
func DiscoverChanges(ctx context.Context, vcs VersionControl) ([]string, error) {
	lines, err := vcs.ListChangedPaths(ctx)
	if err != nil {
		return nil, &ghcerrors.Error{Kind: ghcerrors.SubprocessFailure, Op: "list changed files", Err: err}
	}

	seen := make(map[string]bool, len(lines))
	paths := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" || seen[line] {
			continue
		}
		seen[line] = true
		paths = append(paths, line)
	}
	return paths, nil
}

// CaptureContents reads every path in order. The first unreadable path
// aborts the capture; there is no partial result.
func CaptureContents(paths []string, readFile FileReader) ([]github.TreeEntry, error) {
	entries := make([]github.TreeEntry, 0, len(paths))
	for _, path := range paths {
		data, err := readFile(path)
		if err != nil {
			return nil, ghcerrors.NewIOError(path, err)
		}
		entries = append(entries, github.TreeEntry{
			Path:    path,
			Mode:    github.ModeRegularFile,
			Type:    github.TypeBlob,
			Content: strings.ToValidUTF8(string(data), "\uFFFD"),
		})
	}
	return entries, nil
}

// ResolveBase returns the commit HEAD points at and that commit's tree
func ResolveBase(ctx context.Context, vcs VersionControl) (string, string, error) {
	commit, err := vcs.ResolveHeadCommit(ctx)
	if err != nil {
		return "", "", &ghcerrors.Error{Kind: ghcerrors.SubprocessFailure, Op: "resolve HEAD", Err: err}
	}
	tree, err := vcs.ResolveTreeForCommit(ctx, commit)
	if err != nil {
		return "", "", &ghcerrors.Error{Kind: ghcerrors.SubprocessFailure, Op: "resolve tree of " + commit, Err: err}
	}
	return commit, tree, nil
}

func publishCommit(ctx context.Context, cfg *config.Config, remote Remote, entries []github.TreeEntry, result *Result) error {
	tree, err := remote.CreateTree(ctx, cfg.Owner, cfg.Repo, result.BaseTree, entries)
	if err != nil {
		return asRemote("create tree", err)
	}
	result.Tree = tree

	commit, err := remote.CreateCommit(ctx, cfg.Owner, cfg.Repo, cfg.Message, tree, result.BaseCommit)
	if err != nil {
		return asRemote("create commit", err)
	}
	result.Commit = commit

	if err := remote.UpdateRef(ctx, cfg.Owner, cfg.Repo, result.Ref, commit); err != nil {
		return asRemote("update ref "+result.Ref, err)
	}
	result.Updated = true
	return nil
}

// asRemote classifies errors from Remote implementations that did not do so themselves
func asRemote(op string, err error) error {
	if ghcerrors.KindOf(err) != ghcerrors.UnknownFailure {
		return err
	}
	return ghcerrors.NewRemoteError(op, err)
}

func short(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
