package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".grinscan"

// xdgConfigFile is the file name looked up inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the YAML configuration file.
type File struct {
	// Sources are the node logs to read.
	Sources []Source `yaml:"sources"`

	// Analyses are the deanonymization runs. DefaultAnalyses applies when empty.
	Analyses []Analysis `yaml:"analyses"`

	// ContinueOnError skips malformed received-tx lines.
	ContinueOnError bool `yaml:"continueOnError"`

	// Converge runs elimination passes to a fixed point.
	Converge bool `yaml:"converge"`

	// Jobs is the number of sources extracted concurrently.
	Jobs int `yaml:"jobs,omitempty"`
}

// LoadConfigFile loads the configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Unknown keys are rejected so typos in analysis definitions surface early.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// Relative log paths are relative to the config file.
	dir := filepath.Dir(path)
	for i, s := range cf.Sources {
		if s.Path != "" && !filepath.IsAbs(s.Path) {
			cf.Sources[i].Path = filepath.Join(dir, s.Path)
		}
	}

	return &cf, nil
}

// Apply merges the file into cfg. Sources given on the command line replace
// the file's sources, while the file's analyses still apply to them by name.
// Boolean switches are enabled if either side enables them; jobs from the
// file apply only when cfg has the default.
func (f *File) Apply(cfg *Config) {
	if len(cfg.Sources) == 0 {
		cfg.Sources = f.Sources
	}
	if len(cfg.Analyses) == 0 {
		cfg.Analyses = f.Analyses
	}
	cfg.ContinueOnError = cfg.ContinueOnError || f.ContinueOnError
	cfg.Converge = cfg.Converge || f.Converge
	if f.Jobs > 0 && cfg.Jobs == DefaultJobs {
		cfg.Jobs = f.Jobs
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .grinscan in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .grinscan in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
