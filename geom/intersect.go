package geom

// Kind describes how a rectangle was divided by IntersectPoint.
type Kind int

const (
	// None means the point did not divide the rectangle.
	None Kind = iota
	// Vertical means only the vertical line through the point crossed
	// the rectangle.
	Vertical
	// Horizontal means only the horizontal line through the point
	// crossed the rectangle.
	Horizontal
	// Both means the rectangle was divided into four.
	Both
)

func (k Kind) String() string {
	switch k {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	case Both:
		return "both"
	default:
		return "none"
	}
}

// Intersection holds the pieces split off a rectangle by IntersectPoint.
// Vertical populates TopRight, Horizontal populates BottomLeft and Both
// populates all three.
type Intersection[S Space] struct {
	Kind        Kind
	TopRight    Rect[S]
	BottomLeft  Rect[S]
	BottomRight Rect[S]
}

// Remainders returns the pieces that were split off, in reading order.
func (i Intersection[S]) Remainders() []Rect[S] {
	switch i.Kind {
	case Vertical:
		return []Rect[S]{i.TopRight}
	case Horizontal:
		return []Rect[S]{i.BottomLeft}
	case Both:
		return []Rect[S]{i.TopRight, i.BottomLeft, i.BottomRight}
	default:
		return nil
	}
}

// IntersectPoint divides r by the vertical and horizontal lines through p.
// The column and row containing p belong to the top-left side, so an axis
// is only split when Min <= p < Max on that axis; a point on the far edge
// leaves nothing to split off. r is shrunk in place to the top-left piece
// and the remaining pieces are returned. Together they cover the original
// rectangle exactly once.
func (r *Rect[S]) IntersectPoint(p Point[S]) Intersection[S] {
	splitX := r.Min.X <= p.X && p.X < r.Max.X
	splitY := r.Min.Y <= p.Y && p.Y < r.Max.Y

	switch {
	case splitX && splitY:
		i := Intersection[S]{
			Kind: Both,
			TopRight: Rect[S]{
				Min: Point[S]{p.X + 1, r.Min.Y},
				Max: Point[S]{r.Max.X, p.Y},
			},
			BottomLeft: Rect[S]{
				Min: Point[S]{r.Min.X, p.Y + 1},
				Max: Point[S]{p.X, r.Max.Y},
			},
			BottomRight: Rect[S]{
				Min: Point[S]{p.X + 1, p.Y + 1},
				Max: r.Max,
			},
		}
		r.Max = p
		return i
	case splitX:
		i := Intersection[S]{
			Kind: Vertical,
			TopRight: Rect[S]{
				Min: Point[S]{p.X + 1, r.Min.Y},
				Max: r.Max,
			},
		}
		r.Max.X = p.X
		return i
	case splitY:
		i := Intersection[S]{
			Kind: Horizontal,
			BottomLeft: Rect[S]{
				Min: Point[S]{r.Min.X, p.Y + 1},
				Max: r.Max,
			},
		}
		r.Max.Y = p.Y
		return i
	}

	return Intersection[S]{}
}

// Piece is one part of a rectangle that crosses the edge of a wrapping
// space. Rect lies inside the space and Offset is the position of its top
// left corner relative to the top left corner of the unwrapped rectangle.
type Piece[S Space] struct {
	Rect   Rect[S]
	Offset Point[S]
}

// Wrap splits r into the pieces it covers on a torus of the given size,
// each lying entirely inside the torus. r may start anywhere; it must be
// no larger than size on either axis.
func (r Rect[S]) Wrap(size Size[S]) []Piece[S] {
	origin := r.Min.Mod(size)
	tl := RectAt(origin, r.Size())

	i := tl.IntersectPoint(Point[S]{size.Width - 1, size.Height - 1})

	pieces := make([]Piece[S], 0, 4)
	pieces = append(pieces, Piece[S]{Rect: tl})
	for _, rem := range i.Remainders() {
		pieces = append(pieces, Piece[S]{
			Rect:   RectAt(rem.Min.Mod(size), rem.Size()),
			Offset: rem.Min.Sub(origin),
		})
	}
	return pieces
}
