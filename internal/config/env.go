package config

import (
	"os"
	"strconv"
	"strings"
)

// Environ looks up a variable the way os.LookupEnv does
type Environ func(key string) (string, bool)

// OSEnviron returns an Environ backed by the process environment
func OSEnviron() Environ {
	return os.LookupEnv
}

// MapEnviron returns an Environ backed by a map, for tests and embedding
func MapEnviron(vars map[string]string) Environ {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

// get returns the trimmed value of the first non-empty variable among keys
func (e Environ) get(keys ...string) string {
	for _, key := range keys {
		if v, ok := e(key); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// input returns an action input. The runner exposes input "github-token" as
// INPUT_GITHUB-TOKEN; the underscore spelling is accepted for shells that
// cannot export dashes.
func (e Environ) input(name string) string {
	upper := strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
	return e.get("INPUT_"+upper, "INPUT_"+strings.ReplaceAll(upper, "-", "_"))
}

// boolInput parses an action boolean input. Unset or unparsable values are false.
func (e Environ) boolInput(name string) bool {
	v, err := strconv.ParseBool(e.input(name))
	return err == nil && v
}

// IsActions reports whether the process runs inside a GitHub Actions job
func (e Environ) IsActions() bool {
	return e.get("GITHUB_ACTIONS") == "true"
}

// IsDebug reports whether debug output was requested, either locally or by
// re-running a workflow with debug logging
func (e Environ) IsDebug() bool {
	return e.get("DEBUG") != "" || e.get("RUNNER_DEBUG") == "1"
}
