package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "grinscan"

	// DefaultJobs reads sources one after another. Log volumes are small
	// enough that parallel decompression rarely matters.
	DefaultJobs = 1
)

// Log output formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds all configuration options for grinscan.
// It is populated from CLI flags and the configuration file and passed
// through the application explicitly.
type Config struct {
	// Sources are the node logs to read, in report order.
	Sources []Source

	// Analyses are the deanonymization runs to perform over the sources.
	// When empty after loading, DefaultAnalyses is applied.
	Analyses []Analysis

	// Verbose enables debug log output.
	Verbose bool

	// LogFormat selects text or JSON log lines on stderr.
	LogFormat string

	// ConfigFilePath is the configuration file given on the command line.
	// If empty, the tool searches the usual locations (see FindConfigFile).
	ConfigFilePath string

	// JSONReport enables JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// JQFilter is a jq program applied to the JSON report. Requires JSONReport.
	JQFilter string

	// ReportFile is the output file path for the report. Stdout when empty.
	ReportFile string

	// MetricsFile is where run metrics are written in the Prometheus text
	// format. No metrics are written when empty.
	MetricsFile string

	// ContinueOnError skips malformed received-tx lines instead of
	// aborting the run. Off by default: a corrupted log aborts.
	ContinueOnError bool

	// Converge keeps running elimination passes until nothing changes.
	// The three reported checkpoints are unaffected.
	Converge bool

	// Jobs is the number of sources extracted concurrently.
	Jobs int
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Jobs:      DefaultJobs,
		LogFormat: LogFormatText,
	}
}

// XDGConfigDir returns the XDG config directory for grinscan.
// On Linux: ~/.config/grinscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// SourceNames returns the names of the configured sources in order.
func (c *Config) SourceNames() []string {
	names := make([]string, len(c.Sources))
	for i, s := range c.Sources {
		names[i] = s.Name
	}
	return names
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSource
	}

	known := make(map[string]bool, len(c.Sources))
	for _, s := range c.Sources {
		if err := s.Validate(); err != nil {
			return err
		}
		if known[s.Name] {
			return duplicateError(ErrDuplicateSource, s.Name)
		}
		known[s.Name] = true
	}

	if c.Jobs <= 0 {
		return ErrInvalidJobs
	}

	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat)
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.JQFilter != "" && !c.JSONReport {
		return ErrJQRequiresJSON
	}

	names := make(map[string]bool, len(c.Analyses))
	for _, a := range c.Analyses {
		if err := a.Validate(known); err != nil {
			return err
		}
		if names[a.Name] {
			return duplicateError(ErrDuplicateAnalysis, a.Name)
		}
		names[a.Name] = true
	}

	return nil
}
