package runtime

import (
	"context"
	"io"

	"ghcommit.dev/ghcommit/internal/config"
	"ghcommit.dev/ghcommit/internal/git"
	"ghcommit.dev/ghcommit/internal/github"
	"ghcommit.dev/ghcommit/internal/output"
	"ghcommit.dev/ghcommit/internal/publish"
)

// Context provides access to configuration, output and adapters for commands
type Context struct {
	Config   *config.Config
	Splog    *output.Splog
	Reporter *output.Reporter
	// RepoRoot is the worktree top level; git commands and file reads are
	// relative to it
	RepoRoot string
	Checkout *git.Checkout
	GitHub   github.Client
}

// NewContext creates a context for cfg writing console output to stdout.
// The GitHub client is created but nothing is sent until the pipeline runs.
func NewContext(ctx context.Context, cfg *config.Config, stdout io.Writer) (*Context, error) {
	splog, err := output.NewSplogWithConfig(stdout, cfg.LogFile, cfg.Debug)
	if err != nil {
		return nil, err
	}

	rc := &Context{
		Config: cfg,
		Splog:  splog,
		Reporter: output.NewReporter(splog, output.ReporterOptions{
			Stdout:      stdout,
			Actions:     cfg.Actions,
			OutputFile:  cfg.OutputFile,
			SummaryFile: cfg.SummaryFile,
		}),
	}

	rc.RepoRoot = resolveRepoRoot(cfg, splog)
	rc.Checkout = git.NewCheckout(rc.RepoRoot)

	client, err := github.NewClient(ctx, cfg.Token, cfg.APIURL)
	if err != nil {
		return nil, err
	}
	rc.GitHub = client
	splog.Debug("GitHub API: %s", client.BaseURL())

	return rc, nil
}

// resolveRepoRoot finds the worktree root with go-git and, when the
// repository was not configured, fills owner/repo from the origin remote.
// If go-git cannot open the directory the configured directory is used as
// is, so the git CLI reports the real problem when the pipeline starts.
func resolveRepoRoot(cfg *config.Config, splog *output.Splog) string {
	dir := cfg.WorkDir
	if dir == "" {
		dir = "."
	}

	repo, err := git.OpenRepository(dir)
	if err != nil {
		splog.Debug("Could not open repository at %s: %v", dir, err)
		return dir
	}

	if !cfg.HasRepository() {
		fillRepositoryFromOrigin(cfg, repo, splog)
	}
	return repo.Root()
}

func fillRepositoryFromOrigin(cfg *config.Config, repo *git.Repository, splog *output.Splog) {
	remoteURL, err := repo.OriginURL()
	if err != nil {
		splog.Debug("No repository configured and %v", err)
		return
	}
	info, err := git.ParseRemoteURL(remoteURL)
	if err != nil {
		splog.Debug("Could not parse origin URL %s: %v", remoteURL, err)
		return
	}
	cfg.Owner, cfg.Repo = info.Owner, info.Repo
	splog.Debug("Using repository %s/%s from origin", info.Owner, info.Repo)
}

// Dependencies returns the publish pipeline collaborators for this context
func (c *Context) Dependencies() publish.Dependencies {
	return publish.Dependencies{
		VCS:      c.Checkout,
		Remote:   c.GitHub,
		ReadFile: publish.DirReader(c.RepoRoot),
		Splog:    c.Splog,
	}
}

// Close releases the log file
func (c *Context) Close() error {
	return c.Splog.Close()
}
