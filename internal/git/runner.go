package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	ghcerrors "ghcommit.dev/ghcommit/internal/errors"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 5 * time.Minute

// CommandRunner handles execution of git commands.
// Any output on stderr fails the command, even when git exits zero.
type CommandRunner struct {
	workingDir string
	binary     string
}

// NewCommandRunner creates a new CommandRunner rooted at workingDir
func NewCommandRunner(workingDir string) *CommandRunner {
	return &CommandRunner{workingDir: workingDir, binary: "git"}
}

// WorkingDir returns the directory git commands run in
func (r *CommandRunner) WorkingDir() string {
	return r.workingDir
}

// Run executes a git command and returns its trimmed stdout
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	out, err := r.run(ctx, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RunNulTerminated executes a git command given -z and returns the
// NUL-terminated records of stdout. Paths come back verbatim, without the
// C-style quoting git applies to newline-delimited output.
func (r *CommandRunner) RunNulTerminated(ctx context.Context, args ...string) ([]string, error) {
	out, err := r.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	out = strings.TrimSuffix(out, "\x00")
	if out == "" {
		return []string{}, nil
	}
	return strings.Split(out, "\x00"), nil
}

func (r *CommandRunner) run(ctx context.Context, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	binary := r.binary
	if binary == "" {
		binary = "git"
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = ctx.Err()
		}
		return "", ghcerrors.NewGitCommandError(binary, args, stdout.String(), stderr.String(), err)
	}
	if stderr.Len() > 0 {
		return "", ghcerrors.NewGitCommandError(binary, args, stdout.String(), stderr.String(), ghcerrors.ErrStderrOutput)
	}
	return stdout.String(), nil
}
