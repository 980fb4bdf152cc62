/*
Package cache implements a content addressed store that hands out small,
stable integer handles for values.

Offering a value equal to one already held returns the existing handle,
otherwise the value is appended and its position returned. Handles never
change and double as indices into the slice returned by Values. There is
no eviction; a cache lives as long as the movie being assembled.
*/
package cache

import (
	"hash"

	"github.com/bodgit/snesmovie/crc32"
	"github.com/sasha-s/go-deadlock"
)

// Handle identifies a value held by a Cache.
type Handle uint32

// Value is implemented by types that can be stored in a Cache. AppendKey
// appends a canonical encoding of the value used for hashing; values that
// are Equal must produce the same key.
type Value[T any] interface {
	AppendKey([]byte) []byte
	Equal(T) bool
}

// Cache deduplicates values of type T. It is safe for concurrent use,
// however handles are assigned in the order values are first offered.
type Cache[T Value[T]] struct {
	mu      deadlock.Mutex
	newHash func() hash.Hash32
	buckets map[uint32][]Handle
	values  []T
}

// New returns an empty cache hashing with crc32.
func New[T Value[T]]() *Cache[T] {
	return NewWithHash[T](crc32.New)
}

// NewWithHash returns an empty cache using the hash returned by fn.
func NewWithHash[T Value[T]](fn func() hash.Hash32) *Cache[T] {
	return &Cache[T]{
		newHash: fn,
		buckets: make(map[uint32][]Handle),
	}
}

// Offer returns the handle of the value equal to v, storing v first if no
// such value is held.
func (c *Cache[T]) Offer(v T) Handle {
	h := c.newHash()
	_, _ = h.Write(v.AppendKey(nil))
	sum := h.Sum32()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Values sharing a hash are compared in full so a collision never
	// merges two different values
	for _, handle := range c.buckets[sum] {
		if c.values[handle].Equal(v) {
			return handle
		}
	}

	handle := Handle(len(c.values))
	c.values = append(c.values, v)
	c.buckets[sum] = append(c.buckets[sum], handle)
	return handle
}

// Get returns the value for handle h.
func (c *Cache[T]) Get(h Handle) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if int(h) >= len(c.values) {
		var zero T
		return zero, false
	}
	return c.values[h], true
}

// Len returns the number of distinct values held.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.values)
}

// Values returns a copy of the held values indexed by handle.
func (c *Cache[T]) Values() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]T(nil), c.values...)
}
