package kernel

import "github.com/grinscan/grinscan/internal/model"

// Index maps every kernel to the set of records whose kernels contain it.
type Index struct {
	entries map[model.Commitment]*model.Collection
	records *model.Collection
}

// NewIndex builds an Index over the given record collections, treated as
// one concatenated sequence. Repeated records collapse within each entry.
func NewIndex(collections ...[]model.Record) *Index {
	idx := &Index{
		entries: make(map[model.Commitment]*model.Collection),
		records: model.NewCollection(),
	}
	for _, records := range collections {
		for _, r := range records {
			idx.add(r)
		}
	}
	return idx
}

func (idx *Index) add(r model.Record) {
	idx.records.Add(r)
	for _, k := range r.Kernels {
		entry, ok := idx.entries[k]
		if !ok {
			entry = model.NewCollection()
			idx.entries[k] = entry
		}
		entry.Add(r)
	}
}

// Len returns the number of distinct kernels.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Kernels returns the set of indexed kernels.
func (idx *Index) Kernels() model.KernelSet {
	s := make(model.KernelSet, len(idx.entries))
	for k := range idx.entries {
		s.Add(k)
	}
	return s
}

// Transactions returns the distinct records carrying k, or nil when k is
// not indexed.
func (idx *Index) Transactions(k model.Commitment) []model.Record {
	entry, ok := idx.entries[k]
	if !ok {
		return nil
	}
	return entry.Records()
}

// TransactionCount returns the number of distinct records in the index.
func (idx *Index) TransactionCount() int {
	return idx.records.Len()
}

// SizeHistogram counts distinct records by their number of kernels.
func (idx *Index) SizeHistogram() map[int]int {
	hist := make(map[int]int)
	for _, r := range idx.records.Records() {
		hist[len(r.Kernels)]++
	}
	return hist
}

// SharedKernels returns the number of kernels carried by more than one
// distinct record.
func (idx *Index) SharedKernels() int {
	n := 0
	for _, entry := range idx.entries {
		if entry.Len() > 1 {
			n++
		}
	}
	return n
}

// Stats summarizes the index for reporting.
func (idx *Index) Stats() *model.IndexStats {
	return &model.IndexStats{
		Kernels:       idx.Len(),
		Transactions:  idx.TransactionCount(),
		KernelSizes:   idx.SizeHistogram(),
		SharedKernels: idx.SharedKernels(),
	}
}
