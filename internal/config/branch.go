package config

import (
	"strings"

	ghcerrors "ghcommit.dev/ghcommit/internal/errors"
)

const headsPrefix = "refs/heads/"

// NormalizeBranch turns a branch name or fully qualified branch ref into a
// bare branch name. GITHUB_REF carries refs/heads/<name> on push events while
// GITHUB_HEAD_REF carries the bare name on pull requests; both must end up as
// <name> so the ref sent to GitHub is heads/<name>. Tags, pull request merge
// refs and any other refs/ namespace are rejected.
func NormalizeBranch(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return "", nil
	case strings.HasPrefix(ref, headsPrefix):
		name := strings.TrimPrefix(ref, headsPrefix)
		if name == "" {
			return "", ghcerrors.NewPreconditionError(ghcerrors.ErrUnsupportedRef, ref)
		}
		return name, nil
	case strings.HasPrefix(ref, "refs/"):
		return "", ghcerrors.NewPreconditionError(ghcerrors.ErrUnsupportedRef, ref)
	default:
		return ref, nil
	}
}
