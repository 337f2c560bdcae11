package config

import (
	"errors"
	"fmt"
)

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can match
// them with errors.Is.
var (
	// ErrNoSource is returned when no log source is configured.
	ErrNoSource = errors.New("no log source specified: pass log files as arguments or list them in the config file")

	// ErrInvalidSource is returned when a source has no name or no path.
	ErrInvalidSource = errors.New("invalid source: name and path are required")

	// ErrDuplicateSource is returned when two sources share a name.
	ErrDuplicateSource = errors.New("duplicate source name")

	// ErrInvalidJobs is returned when the job count is not positive.
	ErrInvalidJobs = errors.New("invalid jobs: must be positive")

	// ErrInvalidLogFormat is returned when the log format is neither text nor json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConflictingReportFormats is returned when both --json and --markdown are set.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrJQRequiresJSON is returned when a jq filter is given without JSON output.
	ErrJQRequiresJSON = errors.New("--jq requires --json")

	// ErrInvalidAnalysis is returned when an analysis is incomplete.
	ErrInvalidAnalysis = errors.New("invalid analysis")

	// ErrDuplicateAnalysis is returned when two analyses share a name.
	ErrDuplicateAnalysis = errors.New("duplicate analysis name")

	// ErrUnknownSource is returned when an analysis refers to a source that is not configured.
	ErrUnknownSource = errors.New("unknown source")
)

func duplicateError(sentinel error, name string) error {
	return fmt.Errorf("%w: %q", sentinel, name)
}
