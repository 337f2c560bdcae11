package model

// CommitmentHexLen is the length of a commitment payload as logged by a Grin
// node: a 33-byte compressed Pedersen commitment, hex encoded.
const CommitmentHexLen = 66

// Commitment is an opaque identifier for an input, output or kernel.
// Only equality is meaningful; the payload is never decoded.
type Commitment string

// String returns the commitment payload.
func (c Commitment) String() string {
	return string(c)
}

// Short returns the first eight characters of the commitment followed by an
// ellipsis. It is used for log output and human-readable reports.
func (c Commitment) Short() string {
	if len(c) <= 8 {
		return string(c)
	}
	return string(c[:8]) + "…"
}
