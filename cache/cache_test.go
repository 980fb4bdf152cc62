package cache

import (
	"hash"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blob []byte

func (b blob) AppendKey(key []byte) []byte { return append(key, b...) }

func (b blob) Equal(o blob) bool { return string(b) == string(o) }

// constant is a hash that maps everything to the same value.
type constant struct{}

func (constant) Write(p []byte) (int, error) { return len(p), nil }
func (constant) Sum(b []byte) []byte         { return append(b, 0, 0, 0, 0) }
func (constant) Reset()                      {}
func (constant) Size() int                   { return 4 }
func (constant) BlockSize() int              { return 1 }
func (constant) Sum32() uint32               { return 0 }

func TestOfferIdempotent(t *testing.T) {
	c := New[blob]()

	a := c.Offer(blob("alpha"))
	b := c.Offer(blob("beta"))
	assert.Equal(t, Handle(0), a)
	assert.Equal(t, Handle(1), b)

	assert.Equal(t, a, c.Offer(blob("alpha")))
	assert.Equal(t, b, c.Offer(blob("beta")))
	assert.Equal(t, 2, c.Len())

	assert.Equal(t, []blob{blob("alpha"), blob("beta")}, c.Values())
}

func TestOfferCollision(t *testing.T) {
	c := NewWithHash[blob](func() hash.Hash32 { return constant{} })

	a := c.Offer(blob("alpha"))
	b := c.Offer(blob("beta"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c.Offer(blob("alpha")))
	assert.Equal(t, b, c.Offer(blob("beta")))
	assert.Equal(t, 2, c.Len())
}

func TestGet(t *testing.T) {
	c := New[blob]()
	h := c.Offer(blob("gamma"))

	v, ok := c.Get(h)
	require.True(t, ok)
	assert.Equal(t, blob("gamma"), v)

	_, ok = c.Get(h + 1)
	assert.False(t, ok)
}

func TestOfferConcurrent(t *testing.T) {
	c := New[blob]()
	values := []blob{blob("a"), blob("b"), blob("c"), blob("d")}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, v := range values {
				c.Offer(v)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, len(values), c.Len())
	for _, v := range values {
		h := c.Offer(v)
		got, _ := c.Get(h)
		assert.Equal(t, v, got)
	}
}
