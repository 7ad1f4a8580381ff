package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ghcommit.dev/ghcommit/internal/cli"
	"ghcommit.dev/ghcommit/internal/config"
	"ghcommit.dev/ghcommit/testhelpers"
)

type harness struct {
	repo    *testhelpers.GitRepo
	server  *testhelpers.MockGitDataServerConfig
	env     map[string]string
	outputs string
	summary string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	repo := testhelpers.NewGitRepo(t)
	server := testhelpers.NewMockGitDataServerConfig(repo.Head())
	url := testhelpers.NewMockGitDataServer(t, server).URL

	meta := t.TempDir()
	h := &harness{
		repo:    repo,
		server:  server,
		outputs: filepath.Join(meta, "output"),
		summary: filepath.Join(meta, "summary"),
	}
	h.env = map[string]string{
		"GITHUB_ACTIONS":      "true",
		"CI":                  "true",
		"INPUT_GITHUB-TOKEN":  "tok",
		"INPUT_MESSAGE":       "chore: regenerate",
		"GITHUB_REPOSITORY":   server.Owner + "/" + server.Repo,
		"GITHUB_REF":          "refs/heads/main",
		"GITHUB_API_URL":      url,
		"GITHUB_WORKSPACE":    repo.Dir,
		"GITHUB_OUTPUT":       h.outputs,
		"GITHUB_STEP_SUMMARY": h.summary,
	}
	return h
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := cli.NewRootCmdWithEnv(cli.BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"}, config.MapEnviron(h.env))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

func TestPublishInActions(t *testing.T) {
	h := newHarness(t)
	h.repo.WriteFile("gen/out.txt", "generated\n")

	out, err := h.run(t)
	require.NoError(t, err, out)
	require.Contains(t, out, "Committed 1 file(s) to main")

	require.Equal(t, "commit-1", h.server.Ref("main"))
	require.Equal(t, "chore: regenerate", h.server.Commits[0].Message)

	outputs := readFile(t, h.outputs)
	require.Contains(t, outputs, "changed-files=1\n")
	require.Contains(t, outputs, "commit-sha=commit-1\n")
	require.Contains(t, outputs, "tree-sha=tree-1\n")
	require.Contains(t, readFile(t, h.summary), "- `gen/out.txt`")
}

func TestPublishListsFilesAsMultilineOutput(t *testing.T) {
	h := newHarness(t)
	h.repo.WriteFile("a.txt", "hello")
	h.repo.WriteFile("b.txt", "world")

	_, err := h.run(t)
	require.NoError(t, err)

	outputs := readFile(t, h.outputs)
	require.Regexp(t, `(?s)files<<(ghadelimiter_\S+)\na\.txt\nb\.txt\n(ghadelimiter_\S+)\n`, outputs)
	require.Contains(t, outputs, "changed-files=2\n")
}

func TestPublishNothingChanged(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t)
	require.NoError(t, err)
	require.Contains(t, out, "nothing to commit")
	require.Zero(t, h.server.Calls())
	require.Equal(t, "changed-files=0\n", readFile(t, h.outputs))
}

func TestPublishMissingTokenFailsFirst(t *testing.T) {
	h := newHarness(t)
	delete(h.env, "INPUT_GITHUB-TOKEN")
	h.repo.WriteFile("a.txt", "hello")

	out, err := h.run(t)
	require.Error(t, err)
	require.Equal(t, "::error::credential not found\n", out)
	require.Zero(t, h.server.Calls())
	require.Empty(t, readFile(t, h.outputs))
}

func TestPublishUnsupportedRef(t *testing.T) {
	h := newHarness(t)
	h.env["GITHUB_REF"] = "refs/tags/v1.0.0"
	h.repo.WriteFile("a.txt", "hello")

	out, err := h.run(t)
	require.Error(t, err)
	require.Contains(t, out, "::error::refs/tags/v1.0.0: unsupported ref")
	require.Zero(t, h.server.Calls())
}

func TestPublishTagRefWithNothingChanged(t *testing.T) {
	h := newHarness(t)
	h.env["GITHUB_REF"] = "refs/tags/v1.0.0"

	out, err := h.run(t)
	require.NoError(t, err, out)
	require.NotContains(t, out, "::error::")
	require.Contains(t, out, "nothing to commit")
	require.Zero(t, h.server.Calls())
	require.Equal(t, "changed-files=0\n", readFile(t, h.outputs))
}

func TestPublishQuotedFileNames(t *testing.T) {
	h := newHarness(t)
	h.repo.WriteFile(`we"ird.txt`, "x")
	h.repo.WriteFile("tab\there.txt", "y")

	out, err := h.run(t)
	require.NoError(t, err, out)
	testhelpers.ExpectTree(t, h.server.Trees[0], map[string]string{
		`we"ird.txt`:    "x",
		"tab\there.txt": "y",
	})
}

func TestPublishRejectedRefUpdate(t *testing.T) {
	h := newHarness(t)
	h.server.Refs["main"] = "moved-on"
	h.repo.WriteFile("a.txt", "hello")

	out, err := h.run(t)
	require.Error(t, err)
	require.Contains(t, out, "::error::update ref heads/main:")
	require.Contains(t, out, "not a fast forward")
	require.Equal(t, "moved-on", h.server.Ref("main"))
	require.Empty(t, readFile(t, h.outputs))
}

func TestPublishDryRunFlag(t *testing.T) {
	h := newHarness(t)
	h.repo.WriteFile("a.txt", "hello")

	out, err := h.run(t, "--dry-run")
	require.NoError(t, err)
	require.Contains(t, out, "Dry run: would commit 1 file(s)")
	require.Zero(t, h.server.Calls())
	require.Contains(t, readFile(t, h.outputs), "changed-files=1\n")
	require.NotContains(t, readFile(t, h.outputs), "commit-sha")
	require.Contains(t, readFile(t, h.summary), "(dry run)")
}

func TestPublishFlagsOverrideEnvironment(t *testing.T) {
	h := newHarness(t)
	h.server.Refs["generated"] = h.repo.Head()
	h.repo.WriteFile("a.txt", "hello")

	_, err := h.run(t, "--branch", "generated", "-m", "from flag")
	require.NoError(t, err)
	require.Equal(t, "heads/generated", h.server.RefUpdates[0].Ref)
	require.Equal(t, "from flag", h.server.Commits[0].Message)
	require.Equal(t, h.repo.Head(), h.server.Ref("main"))
}

func TestPublishRejectsArguments(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "extra")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "version")
	require.NoError(t, err)
	require.Equal(t, "ghcommit 1.2.3 (commit abc, built today)\n", out)
}
