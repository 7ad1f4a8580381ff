// Package errors provides sentinel errors and custom error types for ghcommit.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrCredentialNotFound indicates that no GitHub token was supplied
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrUnsupportedRef indicates that the target ref is not a branch
	ErrUnsupportedRef = errors.New("unsupported ref")

	// ErrMissingBranch indicates that no target branch could be resolved
	ErrMissingBranch = errors.New("target branch not set")

	// ErrMissingRepository indicates that the owner/repo pair could not be resolved
	ErrMissingRepository = errors.New("repository not set")

	// ErrStderrOutput indicates that a git command wrote to its error stream
	ErrStderrOutput = errors.New("git wrote to stderr")
)

// Kind classifies a failure for reporting. It never drives control flow.
type Kind int

const (
	// UnknownFailure is anything that was not classified at its origin
	UnknownFailure Kind = iota
	// PreconditionFailure is detected before any side effect
	PreconditionFailure
	// SubprocessFailure comes from the git CLI
	SubprocessFailure
	// IOFailure comes from reading the working tree
	IOFailure
	// RemoteAPIFailure comes from the GitHub API
	RemoteAPIFailure
)

func (k Kind) String() string {
	switch k {
	case PreconditionFailure:
		return "precondition failure"
	case SubprocessFailure:
		return "subprocess failure"
	case IOFailure:
		return "I/O failure"
	case RemoteAPIFailure:
		return "remote API failure"
	default:
		return "unknown failure"
	}
}

// Error is a classified failure raised somewhere in the publish pipeline
type Error struct {
	Kind   Kind
	Op     string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Detail
	if e.Op != "" {
		if msg == "" {
			msg = e.Op
		} else {
			msg = e.Op + ": " + msg
		}
	}
	if e.Err != nil {
		if msg == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewPreconditionError creates a PreconditionFailure wrapping a sentinel
func NewPreconditionError(err error, detail string) *Error {
	return &Error{Kind: PreconditionFailure, Detail: detail, Err: err}
}

// NewIOError creates an IOFailure for the given path
func NewIOError(path string, err error) *Error {
	return &Error{Kind: IOFailure, Op: "read " + path, Err: err}
}

// NewRemoteError creates a RemoteAPIFailure for a GitHub API operation
func NewRemoteError(op string, err error) *Error {
	return &Error{Kind: RemoteAPIFailure, Op: op, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return UnknownFailure
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	var gitErr *GitCommandError
	if errors.As(err, &gitErr) {
		return SubprocessFailure
	}
	return UnknownFailure
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
