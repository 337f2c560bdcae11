package model

import "time"

// AnalysisReport is the main result structure of a grinscan run.
// It is filled in step by step by the pipeline and then handed to a
// report writer.
type AnalysisReport struct {
	// DateAnalyzed is when the run started.
	DateAnalyzed time.Time `json:"date_analyzed"`

	// Sources summarizes each log source in the order they were configured.
	Sources []SourceSummary `json:"sources"`

	// SharedKernels is the number of kernels seen by every source.
	SharedKernels int `json:"shared_kernels"`

	// Index holds statistics over the kernel index of all sources.
	Index *IndexStats `json:"index,omitempty"`

	// Analyses holds one result per configured analysis.
	Analyses []AnalysisResult `json:"analyses"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps"`

	// Error is the error that stopped the run, if any.
	Error error `json:"-"`

	// ErrorMessage is Error rendered as text for serialization.
	ErrorMessage string `json:"error,omitempty"`

	collections map[string]*Collection
	kernelSets  map[string]KernelSet
}

// SourceSummary describes one extracted log source.
type SourceSummary struct {
	// Name identifies the source in analyses (e.g. "aws_eu").
	Name string `json:"name"`

	// Path is the log file the source was read from.
	Path string `json:"path"`

	// Lines is the number of lines read.
	Lines int `json:"lines"`

	// MatchedLines is the number of lines carrying the received-tx marker.
	MatchedLines int `json:"matched_lines"`

	// Transactions is the number of distinct transactions extracted.
	Transactions int `json:"transactions"`

	// Duplicates is the number of parsed transactions dropped as repeats.
	Duplicates int `json:"duplicates"`

	// Kernels is the number of distinct kernels in the source.
	Kernels int `json:"kernels"`

	// ParseErrors lists lines skipped when running with continue-on-error.
	ParseErrors []string `json:"parse_errors,omitempty"`
}

// IndexStats describes the shape of the kernel index.
type IndexStats struct {
	// Kernels is the number of distinct kernels in the index.
	Kernels int `json:"kernels"`

	// Transactions is the number of distinct transactions in the index.
	Transactions int `json:"transactions"`

	// KernelSizes maps a kernel count to the number of transactions with
	// that many kernels.
	KernelSizes map[int]int `json:"kernel_sizes"`

	// SharedKernels is the number of kernels found in more than one
	// distinct transaction.
	SharedKernels int `json:"shared_kernels"`
}

// AnalysisResult holds the output of one deanonymization analysis.
type AnalysisResult struct {
	// Name identifies the analysis.
	Name string `json:"name"`

	// TransactionSources are the sources whose transactions were analyzed.
	TransactionSources []string `json:"transaction_sources"`

	// TargetDescription describes how the attempted kernel set was built.
	TargetDescription string `json:"target"`

	// Transactions is the number of transaction records fed to the engine,
	// counting repeats across sources.
	Transactions int `json:"transactions"`

	// AttemptedKernels is the size of the attempted kernel set.
	AttemptedKernels int `json:"attempted_kernels"`

	// Total is the number of attempted kernels present in the transactions.
	Total int `json:"total"`

	// Deanon1 is the number of attempted kernels attributed after round 0.
	Deanon1 int `json:"deanon1"`

	// Deanon2 is the number attributed after the first elimination pass.
	Deanon2 int `json:"deanon2"`

	// Deanon3 is the number attributed after the second elimination pass.
	Deanon3 int `json:"deanon3"`

	// Checkpoints lists the attributed count after every pass, starting
	// with round 0. It has more than three entries in convergence mode.
	Checkpoints []int `json:"checkpoints"`

	// Converged is true when the last pass attributed no new kernel.
	Converged bool `json:"converged"`
}

// Remaining returns the number of attempted kernels present in the
// transactions that are still not attributed after the last pass.
func (r AnalysisResult) Remaining() int {
	if len(r.Checkpoints) == 0 {
		return r.Total
	}
	return r.Total - r.Checkpoints[len(r.Checkpoints)-1]
}

// NewAnalysisReport creates an empty report stamped with the current time.
func NewAnalysisReport() *AnalysisReport {
	return &AnalysisReport{
		DateAnalyzed:   time.Now(),
		Sources:        make([]SourceSummary, 0),
		Analyses:       make([]AnalysisResult, 0),
		PerformedSteps: make([]string, 0),
		collections:    make(map[string]*Collection),
		kernelSets:     make(map[string]KernelSet),
	}
}

// SetCollection stores the transactions extracted for a source.
// Collections are working data and are not serialized.
func (r *AnalysisReport) SetCollection(source string, c *Collection) {
	r.collections[source] = c
}

// Collection returns the transactions extracted for a source, or nil.
func (r *AnalysisReport) Collection(source string) *Collection {
	return r.collections[source]
}

// SetKernelSet stores the kernel set of a source.
func (r *AnalysisReport) SetKernelSet(source string, s KernelSet) {
	r.kernelSets[source] = s
}

// KernelSet returns the kernel set of a source, or nil.
func (r *AnalysisReport) KernelSet(source string) KernelSet {
	return r.kernelSets[source]
}

// SourceNames returns the names of all summarized sources in order.
func (r *AnalysisReport) SourceNames() []string {
	names := make([]string, len(r.Sources))
	for i, s := range r.Sources {
		names[i] = s.Name
	}
	return names
}
