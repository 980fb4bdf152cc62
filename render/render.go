/*
Package render draws the frames of a movie as images.

Sprites are positioned within the 512 by 256 space the hardware wraps
sprite coordinates in, so a sprite with a large X appears partly at the
left hand edge of the screen. Only the visible area, the movie's screen
size anchored at the origin, is drawn.
*/
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/bodgit/snesmovie"
	"github.com/bodgit/snesmovie/geom"
	"github.com/bodgit/snesmovie/ppu"
	"github.com/bodgit/snesmovie/surface"
)

// Tile returns an upright image of t colored with p, mirrored as a sprite
// with the given flags would be.
func Tile(t ppu.Tile, p ppu.Palette, hflip, vflip bool) (*image.Paletted, error) {
	size := t.Size()
	img := image.NewPaletted(image.Rect(0, 0, size.Width.Int(), size.Height.Int()), p.Colors())

	pixels := t.Pixels()
	if err := surface.Iterate(size, geom.RectFromSize(size), hflip, vflip, func(src, dst int) {
		img.Pix[dst] = uint8(pixels[src])
	}); err != nil {
		return nil, err
	}

	return img, nil
}

// Frame draws the sprites of f onto a transparent image the size of the
// screen of m. The first sprite ends up on top.
func Frame(m *snesmovie.Movie, f snesmovie.MovieFrame) (*image.NRGBA, error) {
	screen := m.ScreenSize()
	img := image.NewNRGBA(image.Rect(0, 0, screen.Width.Int(), screen.Height.Int()))

	for i := len(f.Sprites) - 1; i >= 0; i-- {
		s := f.Sprites[i]

		t, ok := m.Tile(s.Tile)
		if !ok {
			return nil, fmt.Errorf("render: frame %d: sprite %d: no tile %d", f.Number, i, s.Tile)
		}
		p, ok := m.Palette(s.Palette)
		if !ok {
			return nil, fmt.Errorf("render: frame %d: sprite %d: no palette %d", f.Number, i, s.Palette)
		}

		if err := drawSprite(img, screen, t, p, s); err != nil {
			return nil, fmt.Errorf("render: frame %d: sprite %d: %w", f.Number, i, err)
		}
	}

	return img, nil
}

func drawSprite(img *image.NRGBA, screen geom.Size[geom.Screen], t ppu.Tile, p ppu.Palette, s snesmovie.Sprite) error {
	pixels := t.Pixels()
	edge := uint32(t.TileSize())
	visible := geom.RectFromSize(screen)

	set := func(src, dst int) {
		c := p[pixels[src]]
		if c.Transparent {
			return
		}
		copy(img.Pix[dst*4:], []uint8{c.R, c.G, c.B, 0xff})
	}

	r := geom.RectAt(s.Position, geom.Cast[geom.Screen](t.Size()))
	for _, piece := range r.Wrap(ppu.ObjectSpace) {
		clipped, ok := piece.Rect.Intersect(visible)
		if !ok {
			continue
		}

		// Position of the clipped piece within the sprite as drawn,
		// then within the artwork taking any mirroring into account
		offset := piece.Offset.Add(clipped.Min.Sub(piece.Rect.Min))
		w, h := uint32(clipped.Width()), uint32(clipped.Height())
		x, y := uint32(offset.X), uint32(offset.Y)
		if s.HFlip {
			x = edge - x - w
		}
		if s.VFlip {
			y = edge - y - h
		}

		src := geom.RectAt(geom.Pt[geom.Sprite](x, y), geom.Sz[geom.Sprite](w, h))
		if err := surface.Iterate2(t.Size(), src, screen, clipped.Min, s.HFlip, s.VFlip, set); err != nil {
			return err
		}
	}

	return nil
}

// Palette returns every distinct color used by m, preceded by transparent.
func Palette(m *snesmovie.Movie) color.Palette {
	seen := make(map[ppu.Color]struct{})
	p := color.Palette{ppu.Transparent}
	for _, palette := range m.Palettes() {
		for _, c := range palette {
			if c.Transparent {
				continue
			}
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				p = append(p, c)
			}
		}
	}
	return p
}
