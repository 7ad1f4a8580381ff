package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	ghcerrors "ghcommit.dev/ghcommit/internal/errors"
)

// Output is a named step output written to GITHUB_OUTPUT
type Output struct {
	Name  string
	Value string
}

// ReporterOptions configures where a Reporter writes
type ReporterOptions struct {
	// Stdout receives workflow commands
	Stdout io.Writer
	// Actions selects ::error:: workflow commands over styled console lines
	Actions     bool
	OutputFile  string
	SummaryFile string
}

// Reporter turns run results and failures into what the automation host sees
type Reporter struct {
	splog *Splog
	opts  ReporterOptions
}

// NewReporter creates a Reporter logging through splog
func NewReporter(splog *Splog, opts ReporterOptions) *Reporter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return &Reporter{splog: splog, opts: opts}
}

// FailureMessage renders err for the failure report. The kind selects the
// format only.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	if ghcerrors.KindOf(err) == ghcerrors.UnknownFailure {
		return "unexpected failure: " + err.Error()
	}
	return err.Error()
}

// Failure reports err once. The cause chain goes to the debug log in place
// of a stack trace.
func (r *Reporter) Failure(err error) {
	if err == nil {
		return
	}
	msg := FailureMessage(err)
	if r.opts.Actions {
		_, _ = fmt.Fprintf(r.opts.Stdout, "::error::%s\n", escapeData(msg))
	} else {
		r.splog.Error("%s", msg)
	}

	r.splog.Debug("failure kind: %s", ghcerrors.KindOf(err))
	depth := 0
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		depth++
		r.splog.Debug("%scaused by: %v", strings.Repeat("  ", depth), cause)
	}
}

// SetOutputs appends step outputs to GITHUB_OUTPUT. It is a no-op outside Actions.
func (r *Reporter) SetOutputs(outputs ...Output) error {
	if r.opts.OutputFile == "" || len(outputs) == 0 {
		return nil
	}

	var b strings.Builder
	for _, o := range outputs {
		if !strings.ContainsAny(o.Value, "\r\n") {
			fmt.Fprintf(&b, "%s=%s\n", o.Name, o.Value)
			continue
		}
		delimiter, err := newDelimiter(o.Value)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "%s<<%s\n%s\n%s\n", o.Name, delimiter, o.Value, delimiter)
	}
	return appendFile(r.opts.OutputFile, b.String())
}

// Summary appends markdown to the job summary. It is a no-op outside Actions.
func (r *Reporter) Summary(markdown string) error {
	if r.opts.SummaryFile == "" {
		return nil
	}
	if !strings.HasSuffix(markdown, "\n") {
		markdown += "\n"
	}
	return appendFile(r.opts.SummaryFile, markdown)
}

func newDelimiter(value string) (string, error) {
	for {
		id, err := gonanoid.New()
		if err != nil {
			return "", fmt.Errorf("failed to generate output delimiter: %w", err)
		}
		delimiter := "ghadelimiter_" + id
		if !strings.Contains(value, delimiter) {
			return delimiter, nil
		}
	}
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// escapeData escapes a workflow command message
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}
