// Package testhelpers provides testing utilities for ghcommit: throwaway Git
// repositories, a mock GitHub git-data API and assertions over both.
package testhelpers

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. Use it in test setup where errors are not
// expected.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectChangedFiles asserts the set of paths git reports as modified or
// untracked, ignoring order.
func ExpectChangedFiles(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	output := repo.Git("ls-files", "-z", "--others", "--modified", "--exclude-standard")
	actual := []string{}
	for _, record := range strings.Split(output, "\x00") {
		if record != "" {
			actual = append(actual, record)
		}
	}

	sort.Strings(actual)
	expected = append([]string(nil), expected...)
	sort.Strings(expected)
	require.Equal(t, expected, actual, "Changed files do not match")
}

// ExpectTree asserts that a recorded create-tree request carries exactly the
// given path to content pairs, each as a regular-file blob.
func ExpectTree(t *testing.T, tree RecordedTree, expected map[string]string) {
	t.Helper()

	actual := make(map[string]string, len(tree.Entries))
	for _, entry := range tree.Entries {
		require.Equal(t, "100644", entry.Mode, "mode of %s", entry.Path)
		require.Equal(t, "blob", entry.Type, "type of %s", entry.Path)
		_, dup := actual[entry.Path]
		require.False(t, dup, "duplicate tree entry %s", entry.Path)
		actual[entry.Path] = entry.Content
	}
	require.Equal(t, expected, actual, "Tree entries do not match")
}

// ExpectCommits asserts the most recent commit subjects on the current branch,
// newest first.
func ExpectCommits(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	commits := strings.Split(repo.Git("log", "--format=%s"), "\n")
	if len(commits) < len(expected) {
		require.Fail(t, "Not enough commits", "Expected %d commits, got %d", len(expected), len(commits))
		return
	}
	require.Equal(t, expected, commits[:len(expected)], "Commits do not match")
}
