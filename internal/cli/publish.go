package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"ghcommit.dev/ghcommit/internal/config"
	ghcerrors "ghcommit.dev/ghcommit/internal/errors"
	"ghcommit.dev/ghcommit/internal/output"
	"ghcommit.dev/ghcommit/internal/publish"
	"ghcommit.dev/ghcommit/internal/runtime"
)

// runPublish is the top-level handler: every failure is reported exactly
// once here and turned into a non-zero exit by main.
func runPublish(cmd *cobra.Command, env config.Environ, flags config.Overrides) error {
	stdout := cmd.OutOrStdout()

	cfg, err := config.Load(env, flags)
	if err != nil {
		reportEarlyFailure(stdout, env, err)
		return err
	}

	rc, err := runtime.NewContext(cmd.Context(), cfg, stdout)
	if err != nil {
		reportEarlyFailure(stdout, env, err)
		return err
	}
	defer func() { _ = rc.Close() }()

	deps := rc.Dependencies()
	if !cfg.AssumeYes && !cfg.Actions && !cfg.DryRun && output.IsInteractive() {
		deps.Confirm = confirmPublish(cfg, rc.Splog)
	}

	result, err := publish.Run(cmd.Context(), cfg, deps)
	if err != nil {
		rc.Reporter.Failure(err)
		return err
	}

	if err := reportResult(rc, result); err != nil {
		err = &ghcerrors.Error{Kind: ghcerrors.IOFailure, Op: "write step outputs", Err: err}
		rc.Reporter.Failure(err)
		return err
	}
	return nil
}

func confirmPublish(cfg *config.Config, splog *output.Splog) func(*publish.Result) (bool, error) {
	return func(plan *publish.Result) (bool, error) {
		for _, path := range plan.Changed {
			splog.Info("  %s", splog.Styles().Detail(path))
		}

		var ok bool
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Commit %d file(s) on top of %s to %s/%s@%s?",
				len(plan.Changed), shortSHA(plan.BaseCommit), cfg.Owner, cfg.Repo, cfg.Branch),
			Default: false,
		}
		if err := survey.AskOne(prompt, &ok); err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return false, nil
			}
			return false, fmt.Errorf("confirmation prompt failed: %w", err)
		}
		return ok, nil
	}
}

// reportResult writes step outputs and the job summary
func reportResult(rc *runtime.Context, result *publish.Result) error {
	outputs := []output.Output{{Name: "changed-files", Value: strconv.Itoa(len(result.Changed))}}
	if !result.NoOp() {
		outputs = append(outputs, output.Output{Name: "files", Value: strings.Join(result.Changed, "\n")})
	}
	if result.Published() {
		outputs = append(outputs,
			output.Output{Name: "commit-sha", Value: result.Commit},
			output.Output{Name: "tree-sha", Value: result.Tree},
		)
	}
	if err := rc.Reporter.SetOutputs(outputs...); err != nil {
		return err
	}

	summary := summarize(rc.Config, result)
	if summary == "" {
		return nil
	}
	return rc.Reporter.Summary(summary)
}

func summarize(cfg *config.Config, result *publish.Result) string {
	var b strings.Builder
	switch {
	case result.NoOp():
		b.WriteString("ghcommit: no changed files; nothing to commit.\n")
		return b.String()
	case result.Published():
		fmt.Fprintf(&b, "ghcommit: committed %d file(s) to `%s` in %s/%s as `%s`.\n",
			len(result.Changed), cfg.Branch, cfg.Owner, cfg.Repo, result.Commit)
	case result.DryRun:
		fmt.Fprintf(&b, "ghcommit (dry run): %d file(s) would be committed to `%s` in %s/%s.\n",
			len(result.Changed), cfg.Branch, cfg.Owner, cfg.Repo)
	default:
		return ""
	}

	b.WriteString("\n")
	for _, path := range result.Changed {
		fmt.Fprintf(&b, "- `%s`\n", path)
	}
	return b.String()
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
