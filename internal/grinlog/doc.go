// Package grinlog extracts transaction records from Grin node logs.
//
// A Grin node started with the transaction hooks enabled writes one WARN
// line for every transaction it receives:
//
//	... WARN grin_servers::common::hooks - Received tx 5d2b..., 1/2/1 in/out/kern, Inputs: [Commitment(09ab...)], Outputs: [Commitment(08f1...), Commitment(0932...)], Kernels: [Commitment(08c4...)]
//
// ParseLine turns such a line into a model.Record and ignores every other
// line. An Extractor applies ParseLine to a whole log source (gzip, zstd or
// plain text) and deduplicates the records it produces.
//
// # Error policy
//
// A line that carries the marker but does not have the expected structure
// is a format error. By default the Extractor stops at the first one and
// returns no records: a corrupted log usually means the capture itself is
// unreliable. WithContinueOnError switches to collecting the errors and
// skipping the offending lines.
package grinlog
