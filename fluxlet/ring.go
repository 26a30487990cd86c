package fluxlet

import testlet "github.com/Fluxlet/fluxlet-testlet"

// dispatchRing is a ring buffer of recent dispatch records.
type dispatchRing struct {
	records []testlet.DispatchRecord
	size    int
	head    int
	count   int
}

// newDispatchRing creates a ring buffer with the given capacity. If size is
// 0 or negative, the ring is disabled.
func newDispatchRing(size int) *dispatchRing {
	if size <= 0 {
		return nil
	}
	return &dispatchRing{
		records: make([]testlet.DispatchRecord, size),
		size:    size,
	}
}

// push adds a record, evicting the oldest when full.
func (r *dispatchRing) push(rec testlet.DispatchRecord) {
	if r == nil {
		return
	}
	r.records[r.head] = rec
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// all returns the retained records, oldest first.
func (r *dispatchRing) all() []testlet.DispatchRecord {
	if r == nil || r.count == 0 {
		return nil
	}
	out := make([]testlet.DispatchRecord, 0, r.count)
	start := (r.head - r.count + r.size) % r.size
	for i := 0; i < r.count; i++ {
		out = append(out, r.records[(start+i)%r.size])
	}
	return out
}
