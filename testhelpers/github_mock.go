package testhelpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/google/go-github/v62/github"

	githubpkg "ghcommit.dev/ghcommit/internal/github"
)

// RecordedTree is a create-tree request received by the mock server
type RecordedTree struct {
	BaseTree string
	Entries  []RecordedTreeEntry
}

// RecordedTreeEntry is one entry of a recorded create-tree request
type RecordedTreeEntry struct {
	Path    string `json:"path"`
	Mode    string `json:"mode"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// RecordedCommit is a create-commit request received by the mock server
type RecordedCommit struct {
	Message string
	Tree    string
	Parents []string
}

// RecordedRefUpdate is an update-ref request received by the mock server
type RecordedRefUpdate struct {
	Ref   string
	SHA   string
	Force bool
}

// MockGitDataServerConfig configures and records the behavior of a mock
// GitHub git-data API.
type MockGitDataServerConfig struct {
	Owner string
	Repo  string
	// Refs maps branch names to the commit SHA they currently point at
	Refs map[string]string
	// ErrorResponses maps "trees", "commits" or "refs" to an HTTP status to fail with
	ErrorResponses map[string]int

	mu         sync.Mutex
	Trees      []RecordedTree
	Commits    []RecordedCommit
	RefUpdates []RecordedRefUpdate
	parents    map[string][]string
}

// NewMockGitDataServerConfig creates a config for owner/repo with main at baseCommit
func NewMockGitDataServerConfig(baseCommit string) *MockGitDataServerConfig {
	return &MockGitDataServerConfig{
		Owner:          "owner",
		Repo:           "repo",
		Refs:           map[string]string{"main": baseCommit},
		ErrorResponses: make(map[string]int),
		parents:        make(map[string][]string),
	}
}

// Calls returns the number of API calls the server has accepted or rejected
func (c *MockGitDataServerConfig) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Trees) + len(c.Commits) + len(c.RefUpdates)
}

// Ref returns the SHA a branch currently points at
func (c *MockGitDataServerConfig) Ref(branch string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Refs[branch]
}

// NewMockGitDataServer creates an httptest server that mocks the git-data endpoints
func NewMockGitDataServer(t *testing.T, config *MockGitDataServerConfig) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(NewMockGitDataHandler(config))
	t.Cleanup(server.Close)
	return server
}

// NewMockGitDataHandler returns the mock git-data API as a plain handler,
// served both at the root and under the enterprise /api/v3 prefix
func NewMockGitDataHandler(config *MockGitDataServerConfig) http.Handler {
	if config.parents == nil {
		config.parents = make(map[string][]string)
	}

	base := "/repos/" + config.Owner + "/" + config.Repo + "/git"
	mux := http.NewServeMux()

	mux.HandleFunc("POST "+base+"/trees", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			BaseTree string              `json:"base_tree"`
			Tree     []RecordedTreeEntry `json:"tree"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMockError(w, http.StatusBadRequest, fmt.Sprintf("Problems parsing JSON: %v", err))
			return
		}

		config.mu.Lock()
		defer config.mu.Unlock()
		config.Trees = append(config.Trees, RecordedTree{BaseTree: req.BaseTree, Entries: req.Tree})
		if status := config.ErrorResponses["trees"]; status != 0 {
			writeMockError(w, status, "tree creation failed")
			return
		}

		writeMockJSON(w, http.StatusCreated, map[string]interface{}{
			"sha": fmt.Sprintf("tree-%d", len(config.Trees)),
		})
	})

	mux.HandleFunc("POST "+base+"/commits", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message string   `json:"message"`
			Tree    string   `json:"tree"`
			Parents []string `json:"parents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMockError(w, http.StatusBadRequest, fmt.Sprintf("Problems parsing JSON: %v", err))
			return
		}

		config.mu.Lock()
		defer config.mu.Unlock()
		config.Commits = append(config.Commits, RecordedCommit{Message: req.Message, Tree: req.Tree, Parents: req.Parents})
		if status := config.ErrorResponses["commits"]; status != 0 {
			writeMockError(w, status, "commit creation failed")
			return
		}

		sha := fmt.Sprintf("commit-%d", len(config.Commits))
		config.parents[sha] = req.Parents
		writeMockJSON(w, http.StatusCreated, map[string]interface{}{
			"sha":     sha,
			"message": req.Message,
			"tree":    map[string]string{"sha": req.Tree},
		})
	})

	mux.HandleFunc("PATCH "+base+"/refs/heads/{branch...}", func(w http.ResponseWriter, r *http.Request) {
		branch := r.PathValue("branch")
		var req struct {
			SHA   string `json:"sha"`
			Force bool   `json:"force"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMockError(w, http.StatusBadRequest, fmt.Sprintf("Problems parsing JSON: %v", err))
			return
		}

		config.mu.Lock()
		defer config.mu.Unlock()
		config.RefUpdates = append(config.RefUpdates, RecordedRefUpdate{Ref: "heads/" + branch, SHA: req.SHA, Force: req.Force})
		if status := config.ErrorResponses["refs"]; status != 0 {
			writeMockError(w, status, "reference update failed")
			return
		}

		current, ok := config.Refs[branch]
		if !ok {
			writeMockError(w, http.StatusUnprocessableEntity, "Reference does not exist")
			return
		}
		if !req.Force && !config.isDescendant(req.SHA, current) {
			writeMockError(w, http.StatusUnprocessableEntity, "Update is not a fast forward")
			return
		}

		config.Refs[branch] = req.SHA
		writeMockJSON(w, http.StatusOK, map[string]interface{}{
			"ref":    "refs/heads/" + branch,
			"object": map[string]string{"sha": req.SHA, "type": "commit"},
		})
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeMockError(w, http.StatusNotFound, "Not Found: "+r.Method+" "+r.URL.Path)
	})

	// Enterprise clients built from a bare host talk to /api/v3/
	root := http.NewServeMux()
	root.Handle("/api/v3/", http.StripPrefix("/api/v3", mux))
	root.Handle("/", mux)
	return root
}

// isDescendant walks recorded parents from sha looking for ancestor.
// Callers must hold c.mu.
func (c *MockGitDataServerConfig) isDescendant(sha, ancestor string) bool {
	seen := map[string]bool{}
	queue := []string{sha}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == ancestor {
			return true
		}
		if seen[next] {
			continue
		}
		seen[next] = true
		queue = append(queue, c.parents[next]...)
	}
	return false
}

// NewMockGitDataClient starts a mock server and returns a client pointed at it
func NewMockGitDataClient(t *testing.T, config *MockGitDataServerConfig) (*githubpkg.RealClient, *httptest.Server) {
	t.Helper()
	server := NewMockGitDataServer(t, config)
	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL
	client.UploadURL = baseURL
	return githubpkg.NewClientFromGitHub(client), server
}

func writeMockJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMockError(w http.ResponseWriter, status int, message string) {
	writeMockJSON(w, status, map[string]interface{}{
		"message":           message,
		"documentation_url": "https://docs.github.com/rest/git",
	})
}
