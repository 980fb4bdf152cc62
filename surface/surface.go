/*
Package surface implements two dimensional pixel buffers addressed as a
torus, along with the iteration engine used to copy rectangles between
them.

A surface stores its pixels row-major in a flat slice. Coordinates passed
to WrapIndex and to the iteration functions wrap modulo the surface
dimensions, so a rectangle may be positioned so that it runs off one edge
and re-enters from the opposite one.
*/
package surface

import (
	"errors"
	"fmt"

	"github.com/bodgit/snesmovie/geom"
)

var (
	// ErrDimensionMismatch is returned when two rectangles that should
	// describe the same area differ in size, or a rectangle does not fit
	// within the surface it addresses.
	ErrDimensionMismatch = errors.New("surface: dimension mismatch")

	errBadLength = errors.New("surface: data length does not match size")
)

// Surface is a width by height grid of pixels of type T in space S.
type Surface[T any, S geom.Space] struct {
	size geom.Size[S]
	data []T
}

// New returns a zeroed surface of the given size.
func New[T any, S geom.Space](size geom.Size[S]) *Surface[T, S] {
	return &Surface[T, S]{
		size: size,
		data: make([]T, size.Area()),
	}
}

// FromSlice returns a surface of the given size backed by data, which
// must hold exactly one element per pixel.
func FromSlice[T any, S geom.Space](size geom.Size[S], data []T) (*Surface[T, S], error) {
	if len(data) != size.Area() {
		return nil, fmt.Errorf("%w: want %d, got %d", errBadLength, size.Area(), len(data))
	}
	return &Surface[T, S]{
		size: size,
		data: data,
	}, nil
}

// Size returns the dimensions of the surface.
func (s *Surface[T, S]) Size() geom.Size[S] {
	return s.size
}

// Bounds returns the rectangle covering the whole surface.
func (s *Surface[T, S]) Bounds() geom.Rect[S] {
	return geom.RectFromSize(s.size)
}

// Data returns the backing slice.
func (s *Surface[T, S]) Data() []T {
	return s.data
}

// Index returns the linear index of p, or false if p lies outside the
// surface.
func (s *Surface[T, S]) Index(p geom.Point[S]) (int, bool) {
	if p.X >= s.size.Width || p.Y >= s.size.Height {
		return 0, false
	}
	return p.Y.Int()*s.size.Width.Int() + p.X.Int(), true
}

// WrapIndex returns the linear index of p with both axes wrapped modulo
// the surface dimensions.
func (s *Surface[T, S]) WrapIndex(p geom.Point[S]) int {
	return wrapIndex(s.size, p.X.Int(), p.Y.Int())
}

// At returns the pixel at p, or false if p lies outside the surface.
func (s *Surface[T, S]) At(p geom.Point[S]) (T, bool) {
	i, ok := s.Index(p)
	if !ok {
		var zero T
		return zero, false
	}
	return s.data[i], true
}

// Set stores v at p. It reports false, leaving the surface untouched, if p
// lies outside it.
func (s *Surface[T, S]) Set(p geom.Point[S], v T) bool {
	i, ok := s.Index(p)
	if ok {
		s.data[i] = v
	}
	return ok
}

// View returns a view of the rectangle r within s.
func (s *Surface[T, S]) View(r geom.Rect[S]) View[S] {
	return NewView(s.size, r)
}

func wrapIndex[S geom.Space](size geom.Size[S], x, y int) int {
	w, h := size.Width.Int(), size.Height.Int()
	return (y%h)*w + x%w
}

// View is a non-wrapping rectangle within a surface of a given size.
type View[S geom.Space] struct {
	size geom.Size[S]
	rect geom.Rect[S]
}

// NewView returns a view of r within a surface of the given size. It
// panics if r does not lie entirely within the surface; callers are
// expected to validate the rectangle first.
func NewView[S geom.Space](size geom.Size[S], r geom.Rect[S]) View[S] {
	if r.Min.X > r.Max.X || r.Min.Y > r.Max.Y || !r.Within(size) {
		panic(fmt.Sprintf("surface: view %v out of bounds of %v", r, size))
	}
	return View[S]{size, r}
}

// EachRow calls fn once per row of the view, top to bottom, with the half
// open range of linear indices that row occupies.
func (v View[S]) EachRow(fn func(start, end int)) {
	w := v.size.Width.Int()
	x0, x1 := v.rect.Min.X.Int(), v.rect.Max.X.Int()+1
	for y := v.rect.Min.Y.Int(); y <= v.rect.Max.Y.Int(); y++ {
		fn(y*w+x0, y*w+x1)
	}
}
