package testhelpers

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// GitRepo represents a throwaway Git repository for tests.
type GitRepo struct {
	Dir string
	t   *testing.T
}

// NewGitRepo initializes a repository on main in a temp directory with one
// commit so HEAD resolves.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	repo := &GitRepo{Dir: t.TempDir(), t: t}
	repo.Git("-c", "init.defaultBranch=main", "init", "-b", "main")
	repo.Git("config", "user.name", "Test User")
	repo.Git("config", "user.email", "test@example.com")
	repo.Git("config", "core.autocrlf", "false")
	repo.WriteFile("README.md", "# test\n")
	repo.CommitAll("initial")
	return repo
}

// Git runs a git command in the repository and returns trimmed stdout.
// Uses GIT_CONFIG_GLOBAL=/dev/null so the developer's config cannot leak in.
func (r *GitRepo) Git(args ...string) string {
	r.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null", "GIT_CONFIG_NOSYSTEM=1")
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// WriteFile writes content to a path relative to the repository root,
// creating parent directories as needed.
func (r *GitRepo) WriteFile(name, content string) {
	r.t.Helper()
	path := filepath.Join(r.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		r.t.Fatalf("write %s: %v", name, err)
	}
}

// RemoveFile deletes a path relative to the repository root
func (r *GitRepo) RemoveFile(name string) {
	r.t.Helper()
	if err := os.Remove(filepath.Join(r.Dir, filepath.FromSlash(name))); err != nil {
		r.t.Fatalf("remove %s: %v", name, err)
	}
}

// CommitAll stages everything and commits it
func (r *GitRepo) CommitAll(message string) string {
	r.t.Helper()
	r.Git("add", "-A")
	r.Git("commit", "-q", "-m", message)
	return r.Head()
}

// Head returns the SHA of HEAD
func (r *GitRepo) Head() string {
	r.t.Helper()
	return r.Git("rev-parse", "HEAD")
}

// Tree returns the tree SHA of HEAD
func (r *GitRepo) Tree() string {
	r.t.Helper()
	return r.Git("rev-parse", "HEAD^{tree}")
}
