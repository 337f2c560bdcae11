package model

// Collection is a set of Records with value semantics: adding a record
// equal to one already present is a no-op. Iteration follows the order in
// which distinct records were first added.
type Collection struct {
	index   map[string]int
	records []Record
}

// NewCollection returns an empty Collection.
func NewCollection() *Collection {
	return &Collection{
		index:   make(map[string]int),
		records: make([]Record, 0),
	}
}

// CollectionOf builds a Collection from records, dropping duplicates.
func CollectionOf(records ...Record) *Collection {
	c := NewCollection()
	for _, r := range records {
		c.Add(r)
	}
	return c
}

// Add inserts r and reports whether it was not already present.
func (c *Collection) Add(r Record) bool {
	key := r.Key()
	if _, ok := c.index[key]; ok {
		return false
	}
	c.index[key] = len(c.records)
	c.records = append(c.records, r)
	return true
}

// Contains reports whether a record equal to r is in the collection.
func (c *Collection) Contains(r Record) bool {
	_, ok := c.index[r.Key()]
	return ok
}

// Len returns the number of distinct records.
func (c *Collection) Len() int {
	return len(c.records)
}

// Records returns the distinct records in insertion order.
// The returned slice must not be modified.
func (c *Collection) Records() []Record {
	return c.records
}

// Kernels returns every kernel referenced by the collection.
func (c *Collection) Kernels() KernelSet {
	return KernelsOf(c.records)
}
