package render

import (
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"

	"github.com/bodgit/snesmovie"
	"github.com/bodgit/snesmovie/ppu"
	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

// A GIF palette holds 256 colors, one of which is reserved for
// transparency.
const maxColors = 255

// Scale enlarges img by an integer factor without smoothing.
func Scale(img image.Image, factor int) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// gifPalette returns a palette holding transparent and then up to 255
// colors, reduced from the colors of m if it uses too many.
func gifPalette(m *snesmovie.Movie) color.Palette {
	p := Palette(m)
	if len(p)-1 <= maxColors {
		return p
	}

	// Lay the colors out as an image so they can be quantized
	colors := p[1:]
	src := image.NewNRGBA(image.Rect(0, 0, len(colors), 1))
	for i, c := range colors {
		src.Set(i, 0, c)
	}

	q := quantize.MedianCutQuantizer{}
	return append(color.Palette{ppu.Transparent}, q.Quantize(make(color.Palette, 0, maxColors), src)...)
}

// EncodeGIF writes m to w as a looping animated GIF, each frame enlarged
// by scale.
func EncodeGIF(w io.Writer, m *snesmovie.Movie, scale int) error {
	if scale < 1 {
		scale = 1
	}

	palette := gifPalette(m)
	delay := int(math.Round(100 / float64(m.FrameRate().FPS())))

	g := &gif.GIF{}
	for _, f := range m.Frames() {
		img, err := Frame(m, f)
		if err != nil {
			return err
		}
		if scale > 1 {
			img = Scale(img, scale)
		}

		pm := image.NewPaletted(img.Bounds(), palette)
		draw.Draw(pm, pm.Bounds(), img, image.Point{}, draw.Src)

		g.Image = append(g.Image, pm)
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}

	return gif.EncodeAll(w, g)
}
