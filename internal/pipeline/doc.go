// Package pipeline runs a grinscan analysis as a sequence of steps.
//
// Each step receives the shared *model.AnalysisReport and fills in its part:
// extracting the log sources, building per-source kernel sets, computing
// kernel index statistics and running the configured deanonymization
// analyses. Steps run in order and the pipeline stops at the first failure,
// so a report is either complete or carries the error that ended the run.
//
// Log sources are extracted by a SourceLoader, which bounds concurrency
// with errgroup.
package pipeline
