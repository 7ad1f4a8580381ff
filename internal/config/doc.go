// Package config resolves ghcommit's run configuration.
//
// Values come from, in order of precedence:
//   - command line flags
//   - GitHub Actions inputs (INPUT_* variables) and runner variables
//   - an optional YAML file (.github/ghcommit.yml by default)
//   - built-in defaults
//
// The result is read once at startup; nothing downstream consults the
// environment again.
package config
