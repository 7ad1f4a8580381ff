// Package cli wires the ghcommit command line onto the publish pipeline.
package cli

import (
	"io"

	"github.com/spf13/cobra"

	"ghcommit.dev/ghcommit/internal/config"
	"ghcommit.dev/ghcommit/internal/output"
)

// BuildInfo is stamped into the binary at release time
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCmd creates the root cobra command reading the process environment
func NewRootCmd(info BuildInfo) *cobra.Command {
	return NewRootCmdWithEnv(info, config.OSEnviron())
}

// NewRootCmdWithEnv creates the root command resolving configuration from env
func NewRootCmdWithEnv(info BuildInfo, env config.Environ) *cobra.Command {
	var flags config.Overrides

	rootCmd := &cobra.Command{
		Use:   "ghcommit",
		Short: "Commit modified and untracked files to a GitHub branch through the API",
		Long: `Commit modified and untracked files to a GitHub branch through the API.

ghcommit lists the files git reports as modified or untracked (honoring
.gitignore), uploads their contents as a new tree on top of HEAD, creates a
commit whose only parent is HEAD and fast-forwards the target branch to it.
Nothing is pushed with git, so the commit is created and signed by GitHub.

Inside GitHub Actions the repository, branch and token come from the job
environment; locally use --repo, --branch and --token.`,
		Version:       info.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPublish(cmd, env, flags)
		},
	}

	f := rootCmd.Flags()
	f.StringVar(&flags.Token, "token", "", "GitHub token (default $INPUT_GITHUB-TOKEN or $GITHUB_TOKEN)")
	f.StringVarP(&flags.Message, "message", "m", "", "commit message (default $INPUT_MESSAGE)")
	f.StringVar(&flags.Branch, "branch", "", "target branch (default $GITHUB_HEAD_REF or $GITHUB_REF)")
	f.StringVar(&flags.Repository, "repo", "", "target repository as owner/name (default $GITHUB_REPOSITORY or the origin remote)")
	f.StringVar(&flags.APIURL, "api-url", "", "GitHub REST API URL (default $GITHUB_API_URL)")
	f.StringVarP(&flags.WorkDir, "dir", "C", "", "directory inside the checkout (default $GITHUB_WORKSPACE or the current directory)")
	f.StringVar(&flags.ConfigFile, "config", "", "YAML config file (default "+config.DefaultConfigFile+" when present)")
	f.StringVar(&flags.LogFile, "log-file", "", "also write a debug log to this file")
	f.BoolVar(&flags.DryRun, "dry-run", false, "show what would be committed without calling GitHub")
	f.BoolVarP(&flags.Yes, "yes", "y", false, "do not ask for confirmation")

	rootCmd.AddCommand(newVersionCmd(info))

	return rootCmd
}

// reportEarlyFailure reports a failure that happened before a run context
// existed, such as a configuration error.
func reportEarlyFailure(w io.Writer, env config.Environ, err error) {
	splog, splogErr := output.NewSplogWithConfig(w, "", env.IsDebug())
	if splogErr != nil {
		splog = output.NewDiscardSplog()
	}
	output.NewReporter(splog, output.ReporterOptions{Stdout: w, Actions: env.IsActions()}).Failure(err)
}
