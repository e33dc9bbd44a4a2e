// Package state provides the generic machinery shared by every entity
// container: the bulk-fetch status enum, per-item in-flight tracking, and
// a per-key sequence guard that keeps stale responses from clobbering
// newer ones.
package state

import "sync"

// Status describes the most recent bulk fetch of a container, not
// per-item state.
type Status int

const (
	Idle Status = iota
	Loading
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Inflight tracks identifiers with an unresolved per-item operation.
// Resolved identifiers are deleted, never set false, so both presence and
// boolean checks are valid "in flight" tests.
type Inflight struct {
	mu sync.Mutex
	m  map[string]bool
}

// NewInflight creates an empty in-flight set.
func NewInflight() *Inflight {
	return &Inflight{m: make(map[string]bool)}
}

// Begin marks id as in flight.
func (f *Inflight) Begin(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[id] = true
}

// End removes id from the set.
func (f *Inflight) End(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m, id)
}

// Has reports whether id is in flight.
func (f *Inflight) Has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.m[id]
}

// Len returns the number of in-flight identifiers.
func (f *Inflight) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.m)
}

// Reset drops all entries.
func (f *Inflight) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m = make(map[string]bool)
}

// SeqGuard assigns a monotonically increasing sequence number per entity
// key and discards resolutions that arrive after a newer one has already
// been applied. Completion order follows network resolution order, so
// without the guard a slow earlier update could overwrite a later one.
type SeqGuard struct {
	mu       sync.Mutex
	next     map[string]uint64
	resolved map[string]uint64
}

// NewSeqGuard creates an empty guard.
func NewSeqGuard() *SeqGuard {
	return &SeqGuard{
		next:     make(map[string]uint64),
		resolved: make(map[string]uint64),
	}
}

// Begin reserves the next sequence number for key.
func (g *SeqGuard) Begin(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next[key]++
	return g.next[key]
}

// Resolve reports whether the resolution with the given sequence number
// may be applied. A resolution loses when a higher sequence number has
// already resolved for the key; winners record their number.
func (g *SeqGuard) Resolve(key string, seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq < g.resolved[key] {
		return false
	}
	g.resolved[key] = seq
	return true
}

// Reset drops all sequence history.
func (g *SeqGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next = make(map[string]uint64)
	g.resolved = make(map[string]uint64)
}
