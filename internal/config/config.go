package config

import (
	"strings"

	ghcerrors "ghcommit.dev/ghcommit/internal/errors"
)

// DefaultMessage is the commit message used when none is configured
const DefaultMessage = "Default commit message"

// Config is everything a run needs, resolved once at startup
type Config struct {
	Owner   string
	Repo    string
	Token   string
	Message string
	// Ref is the branch as given, before normalization
	Ref string
	// Branch is a bare branch name; empty when Ref was unset or not a branch
	Branch string
	APIURL string
	// WorkDir is where the checkout lives; empty means the current directory
	WorkDir string
	DryRun  bool
	// AssumeYes skips the interactive confirmation prompt
	AssumeYes bool
	Debug     bool
	// Actions is set when running inside a GitHub Actions job
	Actions bool
	LogFile string
	// OutputFile and SummaryFile are the runner's GITHUB_OUTPUT and GITHUB_STEP_SUMMARY
	OutputFile  string
	SummaryFile string
}

// Overrides carries values given on the command line. Empty strings and
// false booleans mean "not set".
type Overrides struct {
	Token      string
	Message    string
	Branch     string
	Repository string
	APIURL     string
	WorkDir    string
	ConfigFile string
	LogFile    string
	DryRun     bool
	Yes        bool
}

// Load builds a Config from flags, the environment and the optional YAML file.
// A missing token fails before anything else is consulted.
func Load(env Environ, flags Overrides) (*Config, error) {
	if env == nil {
		env = OSEnviron()
	}

	token := first(flags.Token, env.input("github-token"), env.get("GITHUB_TOKEN"))
	if token == "" {
		return nil, ghcerrors.NewPreconditionError(ghcerrors.ErrCredentialNotFound, "")
	}

	cfg := &Config{
		Token:       token,
		WorkDir:     first(flags.WorkDir, env.get("GITHUB_WORKSPACE")),
		Debug:       env.IsDebug(),
		Actions:     env.IsActions(),
		OutputFile:  env.get("GITHUB_OUTPUT"),
		SummaryFile: env.get("GITHUB_STEP_SUMMARY"),
	}

	path, required := resolveFilePath(first(flags.ConfigFile, env.get("GHCOMMIT_CONFIG")), cfg.WorkDir)
	file, err := loadFile(path, required)
	if err != nil {
		return nil, ghcerrors.NewPreconditionError(err, "")
	}

	cfg.Message = first(flags.Message, env.input("message"), file.Message, DefaultMessage)
	cfg.APIURL = first(flags.APIURL, env.get("GITHUB_API_URL"), file.APIURL)
	cfg.LogFile = first(flags.LogFile, env.get("GHCOMMIT_LOG_FILE"), file.LogFile)
	cfg.DryRun = flags.DryRun || env.boolInput("dry-run") || (file.DryRun != nil && *file.DryRun)
	cfg.AssumeYes = flags.Yes || env.get("CI") != ""

	// An unusable ref only matters once there is something to publish;
	// CheckBranch reports it then.
	cfg.Ref = first(flags.Branch, env.get("GITHUB_HEAD_REF", "GITHUB_REF"), file.Branch)
	cfg.Branch, _ = NormalizeBranch(cfg.Ref)

	if repository := first(flags.Repository, env.get("GITHUB_REPOSITORY"), file.Repository); repository != "" {
		owner, repo, err := SplitRepository(repository)
		if err != nil {
			return nil, err
		}
		cfg.Owner, cfg.Repo = owner, repo
	}

	return cfg, nil
}

// SplitRepository parses an "owner/name" pair
func SplitRepository(repository string) (string, string, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(repository), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", ghcerrors.NewPreconditionError(ghcerrors.ErrMissingRepository, "expected owner/name, got "+repository)
	}
	return owner, repo, nil
}

// CheckBranch reports why no target branch is available, or nil when Branch is set
func (c *Config) CheckBranch() error {
	if c.Branch != "" {
		return nil
	}
	if _, err := NormalizeBranch(c.Ref); err != nil {
		return err
	}
	return ghcerrors.NewPreconditionError(ghcerrors.ErrMissingBranch, "set --branch, GITHUB_HEAD_REF or GITHUB_REF")
}

// RefName returns the ref passed to the update-ref call
func (c *Config) RefName() string {
	return "heads/" + c.Branch
}

// HasRepository reports whether owner and repo are both known
func (c *Config) HasRepository() bool {
	return c.Owner != "" && c.Repo != ""
}

func first(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
