package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up relative to the working directory
const DefaultConfigFile = ".github/ghcommit.yml"

// FileConfig is the on-disk YAML configuration. The token is deliberately
// absent: secrets only come from flags or the environment.
type FileConfig struct {
	Message    string `yaml:"message"`
	Branch     string `yaml:"branch"`
	Repository string `yaml:"repository"`
	APIURL     string `yaml:"api_url"`
	DryRun     *bool  `yaml:"dry_run"`
	LogFile    string `yaml:"log_file"`
}

// loadFile reads path. When required is false a missing file yields an empty config.
func loadFile(path string, required bool) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// resolveFilePath returns the config file path and whether it was asked for explicitly
func resolveFilePath(explicit, workDir string) (string, bool) {
	if explicit != "" {
		if !filepath.IsAbs(explicit) && workDir != "" {
			explicit = filepath.Join(workDir, explicit)
		}
		return explicit, true
	}
	return filepath.Join(workDir, filepath.FromSlash(DefaultConfigFile)), false
}
