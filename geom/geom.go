/*
Package geom implements points, sizes and rectangles whose coordinates are
tagged with the coordinate space they belong to.

A Unit is an unsigned coordinate parameterised by a zero-sized marker type
naming its space. Because the marker is part of the type, arithmetic
between coordinates from different spaces, such as a sprite-local offset
and a screen position, does not compile. Converting to a plain integer is
always explicit.

Rectangles store inclusive minimum and maximum corners so that single
pixel rectangles and wraparound arithmetic need no special cases.
*/
package geom

import "fmt"

// Space is implemented by the marker types that name a coordinate space.
type Space interface {
	Name() string
}

// Artwork is the space of decoded tile graphics, the atlas.
type Artwork struct{}

// Name implements Space.
func (Artwork) Name() string { return "artwork" }

// Sprite is the space local to a single sprite tile.
type Sprite struct{}

// Name implements Space.
func (Sprite) Name() string { return "sprite" }

// Screen is the space of positions on the console's output.
type Screen struct{}

// Name implements Space.
func (Screen) Name() string { return "screen" }

// Unit is a coordinate or length in space S.
type Unit[S Space] uint32

// Int returns u as a plain int.
func (u Unit[S]) Int() int {
	return int(u)
}

func (u Unit[S]) String() string {
	var s S
	return fmt.Sprintf("%d(%s)", uint32(u), s.Name())
}

// Point is a position in space S.
type Point[S Space] struct {
	X, Y Unit[S]
}

// Pt is shorthand for Point[S]{X: x, Y: y}.
func Pt[S Space](x, y uint32) Point[S] {
	return Point[S]{Unit[S](x), Unit[S](y)}
}

// Add returns p translated by q.
func (p Point[S]) Add(q Point[S]) Point[S] {
	return Point[S]{p.X + q.X, p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point[S]) Sub(q Point[S]) Point[S] {
	return Point[S]{p.X - q.X, p.Y - q.Y}
}

// Mod returns p with each axis reduced modulo the corresponding dimension
// of s.
func (p Point[S]) Mod(s Size[S]) Point[S] {
	return Point[S]{p.X % s.Width, p.Y % s.Height}
}

// Size is a width and height in space S.
type Size[S Space] struct {
	Width, Height Unit[S]
}

// Sz is shorthand for Size[S]{Width: w, Height: h}.
func Sz[S Space](w, h uint32) Size[S] {
	return Size[S]{Unit[S](w), Unit[S](h)}
}

// Area returns the number of cells covered by s.
func (s Size[S]) Area() int {
	return s.Width.Int() * s.Height.Int()
}

// Empty reports whether either dimension is zero.
func (s Size[S]) Empty() bool {
	return s.Width == 0 || s.Height == 0
}

// Fits reports whether s is no larger than o on both axes.
func (s Size[S]) Fits(o Size[S]) bool {
	return s.Width <= o.Width && s.Height <= o.Height
}

// Cast reinterprets a size from space S in space D. It is the one place
// lengths are allowed to cross spaces, for example when a rectangle of
// artwork is copied into a sprite tile of the same dimensions.
func Cast[D, S Space](s Size[S]) Size[D] {
	return Size[D]{Unit[D](s.Width), Unit[D](s.Height)}
}

func (s Size[S]) String() string {
	var sp S
	return fmt.Sprintf("%dx%d(%s)", uint32(s.Width), uint32(s.Height), sp.Name())
}

// Rect is a rectangle in space S with inclusive corners.
type Rect[S Space] struct {
	Min, Max Point[S]
}

// RectAt returns the rectangle with top-left corner p and the given size.
// The size must not be empty.
func RectAt[S Space](p Point[S], s Size[S]) Rect[S] {
	return Rect[S]{
		Min: p,
		Max: Point[S]{p.X + s.Width - 1, p.Y + s.Height - 1},
	}
}

// RectFromSize returns the rectangle anchored at the origin with the given
// size.
func RectFromSize[S Space](s Size[S]) Rect[S] {
	return RectAt(Point[S]{}, s)
}

// Width returns the number of columns covered by r.
func (r Rect[S]) Width() Unit[S] {
	return r.Max.X - r.Min.X + 1
}

// Height returns the number of rows covered by r.
func (r Rect[S]) Height() Unit[S] {
	return r.Max.Y - r.Min.Y + 1
}

// Size returns the dimensions of r.
func (r Rect[S]) Size() Size[S] {
	return Size[S]{r.Width(), r.Height()}
}

// Contains reports whether p lies within r.
func (r Rect[S]) Contains(p Point[S]) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Within reports whether r lies entirely within a surface of size s
// anchored at the origin.
func (r Rect[S]) Within(s Size[S]) bool {
	return !s.Empty() && r.Max.X < s.Width && r.Max.Y < s.Height
}

// Intersect returns the overlap of r and o and whether there is one.
func (r Rect[S]) Intersect(o Rect[S]) (Rect[S], bool) {
	out := r
	if o.Min.X > out.Min.X {
		out.Min.X = o.Min.X
	}
	if o.Min.Y > out.Min.Y {
		out.Min.Y = o.Min.Y
	}
	if o.Max.X < out.Max.X {
		out.Max.X = o.Max.X
	}
	if o.Max.Y < out.Max.Y {
		out.Max.Y = o.Max.Y
	}
	if out.Min.X > out.Max.X || out.Min.Y > out.Max.Y {
		return Rect[S]{}, false
	}
	return out, true
}

func (r Rect[S]) String() string {
	var sp S
	return fmt.Sprintf("(%d,%d)-(%d,%d)(%s)", uint32(r.Min.X), uint32(r.Min.Y), uint32(r.Max.X), uint32(r.Max.Y), sp.Name())
}
