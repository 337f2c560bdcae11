package model

import (
	"slices"
	"strconv"
	"strings"
)

// Record is a transaction as it appeared in a node log.
// The three sequences keep the order in which the node logged them.
// A Record is treated as immutable once parsed.
type Record struct {
	// Inputs are the commitments spent by the transaction.
	Inputs []Commitment `json:"inputs"`

	// Outputs are the commitments created by the transaction.
	Outputs []Commitment `json:"outputs"`

	// Kernels are the transaction kernels' excess commitments.
	// More than one kernel means the transaction was aggregated.
	Kernels []Commitment `json:"kernels"`
}

// Equal reports whether r and other have element-wise equal inputs,
// outputs and kernels.
func (r Record) Equal(other Record) bool {
	return slices.Equal(r.Inputs, other.Inputs) &&
		slices.Equal(r.Outputs, other.Outputs) &&
		slices.Equal(r.Kernels, other.Kernels)
}

// Key returns a canonical string for r. Two records have the same key
// if and only if they are Equal, so the key can index sets and maps.
func (r Record) Key() string {
	var sb strings.Builder
	// Items are length-prefixed so payload bytes never act as separators.
	writeSeq := func(seq []Commitment) {
		for _, c := range seq {
			sb.WriteString(strconv.Itoa(len(c)))
			sb.WriteByte(':')
			sb.WriteString(string(c))
		}
	}
	writeSeq(r.Inputs)
	sb.WriteByte('|')
	writeSeq(r.Outputs)
	sb.WriteByte('|')
	writeSeq(r.Kernels)
	return sb.String()
}
