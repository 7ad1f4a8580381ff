package git

import (
	"fmt"
	"net/url"
	"strings"
)

// RepoInfo identifies a hosted repository parsed from a remote URL
type RepoInfo struct {
	Hostname string
	Owner    string
	Repo     string
}

// ParseRemoteURL extracts hostname, owner and repo from a git remote URL.
// Supported shapes:
//   - https://github.com/owner/repo.git
//   - ssh://git@github.com/owner/repo.git
//   - git@github.com:owner/repo.git
//   - https://github.company.com/org/team/repo.git (owner is the second-to-last segment)
func ParseRemoteURL(remoteURL string) (*RepoInfo, error) {
	remoteURL = strings.TrimSpace(remoteURL)
	if remoteURL == "" {
		return nil, fmt.Errorf("empty remote URL")
	}

	var hostname, path string
	if strings.Contains(remoteURL, "://") {
		u, err := url.Parse(remoteURL)
		if err != nil {
			return nil, fmt.Errorf("invalid remote URL: %w", err)
		}
		hostname = u.Hostname()
		path = u.Path
	} else {
		// scp-like syntax: [user@]host:owner/repo
		at := strings.LastIndex(remoteURL, "@")
		hostAndPath := remoteURL[at+1:]
		host, rest, ok := strings.Cut(hostAndPath, ":")
		if !ok {
			return nil, fmt.Errorf("invalid SSH remote URL: missing ':' after host")
		}
		hostname = host
		path = rest
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	segments := strings.Split(path, "/")
	if len(segments) < 2 {
		return nil, fmt.Errorf("invalid remote URL %q: path must be owner/repo", remoteURL)
	}

	info := &RepoInfo{
		Hostname: hostname,
		Owner:    segments[len(segments)-2],
		Repo:     segments[len(segments)-1],
	}
	if info.Hostname == "" || info.Owner == "" || info.Repo == "" {
		return nil, fmt.Errorf("failed to parse hostname, owner, or repo from remote URL %q", remoteURL)
	}
	return info, nil
}
