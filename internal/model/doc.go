// Package model defines the core data structures used throughout grinscan.
//
// This package contains the following main types:
//   - Commitment: an opaque hex-encoded Pedersen commitment taken from a node log
//   - Record: the inputs, outputs and kernels of one logged transaction
//   - Collection: a deduplicated set of Records extracted from one log source
//   - KernelSet: a set of kernel commitments
//   - AnalysisReport: the result of a complete analysis run
//
// Models live in their own package so that grinlog, kernel, deanon, pipeline
// and report can share them without import cycles. The report types are
// serializable to JSON.
package model
