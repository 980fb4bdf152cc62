package surface

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bodgit/snesmovie/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type space = geom.Artwork

func pt(x, y uint32) geom.Point[space] { return geom.Pt[space](x, y) }

func sz(w, h uint32) geom.Size[space] { return geom.Sz[space](w, h) }

// numbered returns a surface where each pixel holds its own linear index
// plus one, so that zero always means untouched.
func numbered(size geom.Size[space]) *Surface[int, space] {
	s := New[int](size)
	for i := range s.Data() {
		s.Data()[i] = i + 1
	}
	return s
}

func TestIndex(t *testing.T) {
	s := New[uint8](sz(12, 8))

	i, ok := s.Index(pt(3, 2))
	assert.True(t, ok)
	assert.Equal(t, 27, i)

	_, ok = s.Index(pt(12, 0))
	assert.False(t, ok)
	_, ok = s.Index(pt(0, 8))
	assert.False(t, ok)

	assert.Equal(t, 1, s.WrapIndex(pt(13, 8)))

	assert.True(t, s.Set(pt(11, 7), 5))
	assert.False(t, s.Set(pt(12, 7), 5))
	v, ok := s.At(pt(11, 7))
	assert.True(t, ok)
	assert.Equal(t, uint8(5), v)
}

func TestFromSlice(t *testing.T) {
	_, err := FromSlice(sz(2, 2), []int{1, 2, 3})
	assert.Error(t, err)

	s, err := FromSlice(sz(2, 2), []int{1, 2, 3, 4})
	require.NoError(t, err)
	v, _ := s.At(pt(1, 1))
	assert.Equal(t, 4, v)
}

func TestEachRow(t *testing.T) {
	s := New[uint8](sz(12, 8))

	var rows [][2]int
	s.View(geom.RectAt(pt(2, 5), sz(3, 2))).EachRow(func(start, end int) {
		rows = append(rows, [2]int{start, end})
	})
	assert.Equal(t, [][2]int{{62, 65}, {74, 77}}, rows)
}

func TestViewOutOfBounds(t *testing.T) {
	s := New[uint8](sz(12, 8))
	assert.Panics(t, func() {
		s.View(geom.RectAt(pt(10, 0), sz(4, 1)))
	})
}

func TestIterate2Identity(t *testing.T) {
	size := sz(12, 8)

	for w := uint32(1); w <= 4; w++ {
		for h := uint32(1); h <= 4; h++ {
			for _, origin := range []geom.Point[space]{pt(0, 0), pt(3, 2), pt(10, 6)} {
				t.Run(fmt.Sprintf("%dx%d at %v", w, h, origin), func(t *testing.T) {
					src := numbered(size)
					dst := New[int](size)
					r := geom.RectAt(origin, sz(w, h))

					require.NoError(t, Blit(dst, origin, src, r, false, false))

					for _, p := range r.Wrap(size) {
						src.View(p.Rect).EachRow(func(start, end int) {
							assert.Equal(t, src.Data()[start:end], dst.Data()[start:end])
						})
					}

					var touched int
					for _, v := range dst.Data() {
						if v != 0 {
							touched++
						}
					}
					assert.Equal(t, int(w*h), touched)
				})
			}
		}
	}
}

func TestIterate2Mirrored(t *testing.T) {
	size := sz(12, 8)
	src := numbered(size)
	dst := New[int](size)

	require.NoError(t, Blit(dst, pt(6, 3), src, geom.RectAt(pt(1, 4), sz(4, 4)), true, false))

	want := []int{
		// Row 3 onwards, columns 6-9 receive source rows 4-7, columns
		// 4 down to 1
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 53, 52, 51, 50, 0, 0,
		0, 0, 0, 0, 0, 0, 65, 64, 63, 62, 0, 0,
		0, 0, 0, 0, 0, 0, 77, 76, 75, 74, 0, 0,
		0, 0, 0, 0, 0, 0, 89, 88, 87, 86, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
	assert.Equal(t, want, dst.Data())
}

func TestIterate2Flips(t *testing.T) {
	size := sz(4, 4)
	r := geom.RectAt(pt(1, 1), sz(2, 2))

	tables := []struct {
		hflip, vflip bool
		want         []int
	}{
		{false, false, []int{6, 7, 10, 11}},
		{true, false, []int{7, 6, 11, 10}},
		{false, true, []int{10, 11, 6, 7}},
		{true, true, []int{11, 10, 7, 6}},
	}

	for _, table := range tables {
		t.Run(fmt.Sprintf("h=%v v=%v", table.hflip, table.vflip), func(t *testing.T) {
			src := numbered(size)
			dst := New[int](geom.Sz[geom.Sprite](2, 2))
			require.NoError(t, Blit(dst, geom.Point[geom.Sprite]{}, src, r, table.hflip, table.vflip))
			assert.Equal(t, table.want, dst.Data())
		})
	}
}

func TestIterate2Wraps(t *testing.T) {
	size := sz(12, 8)

	var cols []uint32
	err := Iterate2Points(size, geom.RectAt(pt(10, 0), sz(4, 1)), size, pt(10, 0), false, false, func(src, dst geom.Point[space]) {
		assert.Equal(t, src, dst)
		cols = append(cols, uint32(src.X))
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{10, 11, 0, 1}, cols)

	var indices [][2]int
	err = Iterate2(size, geom.RectAt(pt(11, 7), sz(2, 2)), size, pt(0, 0), false, false, func(src, dst int) {
		indices = append(indices, [2]int{src, dst})
	})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{95, 0}, {84, 1}, {11, 12}, {0, 13}}, indices)
}

func TestIterateSelf(t *testing.T) {
	size := sz(3, 1)
	src := []int{1, 2, 3}
	dst := make([]int, 3)

	require.NoError(t, Iterate(size, geom.RectFromSize(size), true, false, func(s, d int) {
		dst[d] = src[s]
	}))
	assert.Equal(t, []int{3, 2, 1}, dst)
}

func TestDimensionMismatch(t *testing.T) {
	size := sz(12, 8)
	visit := func(int, int) { t.Fatal("visited") }

	err := IterateRects(size, geom.RectAt(pt(0, 0), sz(4, 4)), size, geom.RectAt(pt(0, 0), sz(4, 3)), false, false, visit)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))

	err = Iterate2(size, geom.RectAt(pt(0, 0), sz(4, 4)), geom.Sz[geom.Sprite](2, 2), geom.Point[geom.Sprite]{}, false, false, visit)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))

	err = Iterate2(size, geom.RectAt(pt(0, 0), sz(13, 1)), size, pt(0, 0), false, false, visit)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}
