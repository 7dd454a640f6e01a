package galaxy

// Array is a growable homogeneous buffer of galaxy records with append
// semantics (spec.md §4.C). It backs both the per-FOF-group working
// buffer built by join and the per-snapshot committed output.
type Array struct {
	records []Record
}

// NewArray returns an empty Array pre-sized for n galaxies.
func NewArray(capacity int) *Array {
	return &Array{records: make([]Record, 0, capacity)}
}

// Len returns the number of galaxies currently held.
func (a *Array) Len() int { return len(a.records) }

// At returns a pointer to the galaxy at index i. The pointer is valid
// only until the next Append that triggers a reallocation; callers must
// not hold it across mutations (spec.md §9's array-index-reference
// guidance).
func (a *Array) At(i int) *Record { return &a.records[i] }

// Append copies rec onto the end of the array and returns its new index.
func (a *Array) Append(rec Record) int {
	a.records = append(a.records, rec)
	return len(a.records) - 1
}

// Slice exposes the backing records for read-only iteration by callers
// that need to range over the whole buffer.
func (a *Array) Slice() []Record { return a.records }

// Truncate resets the array to length 0 without releasing capacity,
// letting one FOF group's working buffer be reused across halos.
func (a *Array) Truncate() { a.records = a.records[:0] }
