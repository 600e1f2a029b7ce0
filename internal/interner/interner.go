// Package interner provides a generic hash-consing arena: structurally
// identical keys always resolve to the same dense id. Ids are never reused
// and entries are never removed, which makes them safe to embed in side
// tables for the lifetime of a build.
package interner

// Interner maps keys to dense ids and stores a value alongside each key.
// The zero value is not usable; construct with New.
type Interner[K comparable, V any, ID ~int32] struct {
	ids  map[K]ID
	vals []V
	keys []K
}

// New creates an empty interner.
func New[K comparable, V any, ID ~int32]() *Interner[K, V, ID] {
	return &Interner[K, V, ID]{ids: make(map[K]ID)}
}

// Intern returns the id for key, allocating a new one if the key has never
// been seen. The value is stored only on first insertion; later calls with
// the same key leave the stored value untouched. The second return reports
// whether the key was newly added.
func (in *Interner[K, V, ID]) Intern(key K, val V) (ID, bool) {
	if id, ok := in.ids[key]; ok {
		return id, false
	}
	id := ID(len(in.vals))
	in.ids[key] = id
	in.vals = append(in.vals, val)
	in.keys = append(in.keys, key)
	return id, true
}

// Lookup returns the id for key without inserting.
func (in *Interner[K, V, ID]) Lookup(key K) (ID, bool) {
	id, ok := in.ids[key]
	return id, ok
}

// Get returns the value stored for id. It panics if id was never issued,
// since a dangling id indicates a defect in the caller's bookkeeping.
func (in *Interner[K, V, ID]) Get(id ID) V {
	return in.vals[id]
}

// Key returns the key stored for id.
func (in *Interner[K, V, ID]) Key(id ID) K {
	return in.keys[id]
}

// Len returns the number of interned entries.
func (in *Interner[K, V, ID]) Len() int {
	return len(in.vals)
}

// Each visits every entry in insertion order until fn returns false.
func (in *Interner[K, V, ID]) Each(fn func(ID, V) bool) {
	for i, v := range in.vals {
		if !fn(ID(i), v) {
			return
		}
	}
}
