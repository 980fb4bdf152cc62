package surface

import (
	"fmt"

	"github.com/bodgit/snesmovie/geom"
)

// axis walks one dimension of a source rectangle, either ascending from
// its first cell or descending from its last.
type axis struct {
	start, step int
}

func newAxis(min, extent int, flip bool) axis {
	if flip {
		return axis{min + extent - 1, -1}
	}
	return axis{min, 1}
}

func (a axis) at(i int) int {
	return a.start + a.step*i
}

func checkFit[S geom.Space](which string, size geom.Size[S], r geom.Rect[S]) error {
	if r.Min.X > r.Max.X || r.Min.Y > r.Max.Y {
		return fmt.Errorf("%w: %s rectangle %v is inverted", ErrDimensionMismatch, which, r)
	}
	if !r.Size().Fits(size) {
		return fmt.Errorf("%w: %s rectangle %v larger than surface %v", ErrDimensionMismatch, which, r, size)
	}
	return nil
}

type visitor func(sx, sy, dx, dy, si, di int)

func iterate[S, D geom.Space](srcSize geom.Size[S], srcRect geom.Rect[S], dstSize geom.Size[D], dstRect geom.Rect[D], hflip, vflip bool, visit visitor) error {
	if err := checkFit("source", srcSize, srcRect); err != nil {
		return err
	}
	if err := checkFit("destination", dstSize, dstRect); err != nil {
		return err
	}
	if srcRect.Size() != geom.Cast[S](dstRect.Size()) {
		return fmt.Errorf("%w: source %v, destination %v", ErrDimensionMismatch, srcRect.Size(), dstRect.Size())
	}

	sw, sh := srcSize.Width.Int(), srcSize.Height.Int()
	dw, dh := dstSize.Width.Int(), dstSize.Height.Int()
	w, h := srcRect.Width().Int(), srcRect.Height().Int()

	xs := newAxis(srcRect.Min.X.Int(), w, hflip)
	ys := newAxis(srcRect.Min.Y.Int(), h, vflip)
	dx0, dy0 := dstRect.Min.X.Int(), dstRect.Min.Y.Int()

	for j := 0; j < h; j++ {
		sy := ys.at(j) % sh
		dy := (dy0 + j) % dh
		for i := 0; i < w; i++ {
			sx := xs.at(i) % sw
			dx := (dx0 + i) % dw
			visit(sx, sy, dx, dy, sy*sw+sx, dy*dw+dx)
		}
	}

	return nil
}

// IterateRects visits every cell of srcRect within a wrapping surface of
// srcSize alongside the matching cell of dstRect within a wrapping surface
// of dstSize. Cells are visited row by row in destination order; hflip and
// vflip reverse the order the source is read in, the destination is never
// mirrored. visit receives the linear index of the source cell and then
// of the destination cell.
//
// ErrDimensionMismatch is returned if the two rectangles differ in size or
// either is larger than its surface.
func IterateRects[S, D geom.Space](srcSize geom.Size[S], srcRect geom.Rect[S], dstSize geom.Size[D], dstRect geom.Rect[D], hflip, vflip bool, visit func(src, dst int)) error {
	return iterate(srcSize, srcRect, dstSize, dstRect, hflip, vflip, func(_, _, _, _, si, di int) {
		visit(si, di)
	})
}

// Iterate2 is IterateRects with the destination rectangle given by its top
// left corner, the size being that of srcRect.
func Iterate2[S, D geom.Space](srcSize geom.Size[S], srcRect geom.Rect[S], dstSize geom.Size[D], dstPoint geom.Point[D], hflip, vflip bool, visit func(src, dst int)) error {
	dstRect := geom.RectAt(dstPoint, geom.Cast[D](srcRect.Size()))
	return IterateRects(srcSize, srcRect, dstSize, dstRect, hflip, vflip, visit)
}

// Iterate2Points is Iterate2 reporting wrapped coordinates rather than
// linear indices.
func Iterate2Points[S, D geom.Space](srcSize geom.Size[S], srcRect geom.Rect[S], dstSize geom.Size[D], dstPoint geom.Point[D], hflip, vflip bool, visit func(src geom.Point[S], dst geom.Point[D])) error {
	dstRect := geom.RectAt(dstPoint, geom.Cast[D](srcRect.Size()))
	return iterate(srcSize, srcRect, dstSize, dstRect, hflip, vflip, func(sx, sy, dx, dy, _, _ int) {
		visit(geom.Pt[S](uint32(sx), uint32(sy)), geom.Pt[D](uint32(dx), uint32(dy)))
	})
}

// Iterate maps rect within a surface of the given size onto itself,
// reading the source in flipped order. It is used to produce an upright
// copy of a mirrored image.
func Iterate[S geom.Space](size geom.Size[S], rect geom.Rect[S], hflip, vflip bool, visit func(src, dst int)) error {
	return IterateRects(size, rect, size, rect, hflip, vflip, visit)
}

// Blit copies srcRect from src into dst with its top left corner at
// dstPoint, both surfaces wrapping.
func Blit[T any, S, D geom.Space](dst *Surface[T, D], dstPoint geom.Point[D], src *Surface[T, S], srcRect geom.Rect[S], hflip, vflip bool) error {
	s, d := src.data, dst.data
	return Iterate2(src.size, srcRect, dst.size, dstPoint, hflip, vflip, func(si, di int) {
		d[di] = s[si]
	})
}
