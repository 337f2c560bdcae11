package model

import (
	"maps"
	"slices"
)

// KernelSet is a set of kernel commitments.
type KernelSet map[Commitment]struct{}

// NewKernelSet returns a set containing the given kernels.
func NewKernelSet(kernels ...Commitment) KernelSet {
	s := make(KernelSet, len(kernels))
	for _, k := range kernels {
		s.Add(k)
	}
	return s
}

// KernelsOf collects every kernel of every record.
func KernelsOf(records []Record) KernelSet {
	s := make(KernelSet)
	for _, r := range records {
		for _, k := range r.Kernels {
			s.Add(k)
		}
	}
	return s
}

// Add inserts k into the set.
func (s KernelSet) Add(k Commitment) {
	s[k] = struct{}{}
}

// Has reports whether k is in the set.
func (s KernelSet) Has(k Commitment) bool {
	_, ok := s[k]
	return ok
}

// Len returns the number of kernels in the set.
func (s KernelSet) Len() int {
	return len(s)
}

// Union returns a new set with the kernels of s and all others.
func (s KernelSet) Union(others ...KernelSet) KernelSet {
	out := maps.Clone(s)
	if out == nil {
		out = make(KernelSet)
	}
	for _, o := range others {
		maps.Copy(out, o)
	}
	return out
}

// Intersect returns a new set with the kernels present in s and every other set.
func (s KernelSet) Intersect(others ...KernelSet) KernelSet {
	out := make(KernelSet)
	for k := range s {
		inAll := true
		for _, o := range others {
			if !o.Has(k) {
				inAll = false
				break
			}
		}
		if inAll {
			out.Add(k)
		}
	}
	return out
}

// IntersectionSize returns |s ∩ other| without allocating.
func (s KernelSet) IntersectionSize(other KernelSet) int {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for k := range small {
		if large.Has(k) {
			n++
		}
	}
	return n
}

// Sorted returns the kernels in lexical order.
func (s KernelSet) Sorted() []Commitment {
	return slices.Sorted(maps.Keys(s))
}
