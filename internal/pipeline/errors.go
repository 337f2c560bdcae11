package pipeline

import "errors"

var (
	// ErrSourceNotLoaded is returned when an analysis needs a source that
	// the extract step did not load.
	ErrSourceNotLoaded = errors.New("source not loaded")

	// ErrKernelSetMissing is returned when an analysis runs before the
	// kernel set step.
	ErrKernelSetMissing = errors.New("kernel set not built")
)
