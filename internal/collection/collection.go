// Package collection holds an ordered, mutex-guarded sequence of records
// addressed by an integer id.
//
// Lookups are linear and the first record with a matching id wins. Ids are
// not required to be unique: replacing a record may give it an id that
// another record already uses.
package collection

import "sync"

// Collection is safe for concurrent use. Every operation holds the lock for
// its whole scan so a read-modify-write is atomic.
type Collection[T any] struct {
	mu      sync.RWMutex
	idOf    func(T) int64
	records []T
}

func New[T any](idOf func(T) int64, seed ...T) *Collection[T] {
	records := make([]T, 0, len(seed))
	records = append(records, seed...)
	return &Collection[T]{idOf: idOf, records: records}
}

// All returns a copy of the records in insertion order.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Find returns the first record with id.
func (c *Collection[T]) Find(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.index(id); i >= 0 {
		return c.records[i], true
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) Append(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, v)
}

// AppendUnique appends v unless a record with the same id exists.
func (c *Collection[T]) AppendUnique(v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index(c.idOf(v)) >= 0 {
		return false
	}
	c.records = append(c.records, v)
	return true
}

// Replace overwrites the first record with id.
func (c *Collection[T]) Replace(id int64, v T) (T, bool) {
	return c.Update(id, func(T) T { return v })
}

// Update stores fn(current) in place of the first record with id.
func (c *Collection[T]) Update(id int64, fn func(T) T) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		var zero T
		return zero, false
	}
	c.records[i] = fn(c.records[i])
	return c.records[i], true
}

// Remove deletes the first record with id and returns it.
func (c *Collection[T]) Remove(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		var zero T
		return zero, false
	}
	removed := c.records[i]
	c.records = append(c.records[:i], c.records[i+1:]...)
	return removed, true
}

// index must be called with mu held.
func (c *Collection[T]) index(id int64) int {
	for i, r := range c.records {
		if c.idOf(r) == id {
			return i
		}
	}
	return -1
}
