package git

import (
	"context"
	"fmt"
)

// Checkout answers the questions the publisher asks of a local working tree.
type Checkout struct {
	runner *CommandRunner
}

// NewCheckout creates a Checkout whose git commands run in dir
func NewCheckout(dir string) *Checkout {
	return &Checkout{runner: NewCommandRunner(dir)}
}

// Dir returns the directory paths reported by ListChangedPaths are relative to
func (c *Checkout) Dir() string {
	return c.runner.WorkingDir()
}

// ListChangedPaths lists modified and untracked files, honoring .gitignore and
// the other standard exclude sources. The raw entries are returned unfiltered.
func (c *Checkout) ListChangedPaths(ctx context.Context) ([]string, error) {
	// -z keeps names with quotes, backslashes, tabs or non-ASCII bytes unquoted
	return c.runner.RunNulTerminated(ctx, "ls-files", "-z", "--others", "--modified", "--exclude-standard")
}

// ResolveHeadCommit returns the SHA HEAD points at
func (c *Checkout) ResolveHeadCommit(ctx context.Context) (string, error) {
	sha, err := c.runner.Run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	if sha == "" {
		return "", fmt.Errorf("git rev-parse HEAD returned no commit")
	}
	return sha, nil
}

// ResolveTreeForCommit returns the tree SHA of the given commit
func (c *Checkout) ResolveTreeForCommit(ctx context.Context, commitSHA string) (string, error) {
	sha, err := c.runner.Run(ctx, "rev-parse", commitSHA+"^{tree}")
	if err != nil {
		return "", err
	}
	if sha == "" {
		return "", fmt.Errorf("git rev-parse %s^{tree} returned no tree", commitSHA)
	}
	return sha, nil
}
