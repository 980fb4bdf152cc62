package snesmovie

import (
	"fmt"
	"strings"

	"github.com/bodgit/snesmovie/cache"
	"github.com/bodgit/snesmovie/geom"
	"github.com/bodgit/snesmovie/ppu"
)

// FrameRate is the refresh rate of the console the frames were captured
// from.
type FrameRate int

// Frame rates.
const (
	NTSC FrameRate = iota
	PAL
)

// ParseFrameRate parses "ntsc" or "pal", ignoring case.
func ParseFrameRate(s string) (FrameRate, error) {
	switch strings.ToLower(s) {
	case "ntsc":
		return NTSC, nil
	case "pal":
		return PAL, nil
	default:
		return 0, fmt.Errorf("unknown frame rate %q", s)
	}
}

// FPS returns the number of frames per second.
func (r FrameRate) FPS() int {
	if r == PAL {
		return 50
	}
	return 60
}

func (r FrameRate) String() string {
	if r == PAL {
		return "PAL"
	}
	return "NTSC"
}

// Sprite is one tile drawn at a position on screen. Tile and Palette are
// handles into the tables of the Movie the sprite belongs to.
type Sprite struct {
	Tile     cache.Handle
	Palette  cache.Handle
	Position geom.Point[geom.Screen]
	HFlip    bool
	VFlip    bool
	Priority uint8
}

// MovieFrame is the sprites shown during one captured frame. The first
// sprite is drawn on top of all the others.
type MovieFrame struct {
	Number  uint64
	Sprites []Sprite
}

// Movie is an ordered sequence of frames sharing deduplicated tiles and
// palettes. A Movie is not modified once created.
type Movie struct {
	screenSize geom.Size[geom.Screen]
	palettes   []ppu.Palette
	tiles      []ppu.Tile
	frames     []MovieFrame
	frameRate  FrameRate
}

// ScreenSize returns the visible area of the screen.
func (m *Movie) ScreenSize() geom.Size[geom.Screen] {
	return m.screenSize
}

// Palettes returns the palette table, indexed by Sprite.Palette.
func (m *Movie) Palettes() []ppu.Palette {
	return append([]ppu.Palette(nil), m.palettes...)
}

// Tiles returns the tile table, indexed by Sprite.Tile.
func (m *Movie) Tiles() []ppu.Tile {
	return append([]ppu.Tile(nil), m.tiles...)
}

// Frames returns the frames in order.
func (m *Movie) Frames() []MovieFrame {
	frames := make([]MovieFrame, len(m.frames))
	for i, f := range m.frames {
		frames[i] = MovieFrame{
			Number:  f.Number,
			Sprites: append([]Sprite(nil), f.Sprites...),
		}
	}
	return frames
}

// FrameRate returns the frame rate of the movie.
func (m *Movie) FrameRate() FrameRate {
	return m.frameRate
}

// Palette returns the palette with handle h.
func (m *Movie) Palette(h cache.Handle) (ppu.Palette, bool) {
	if int(h) >= len(m.palettes) {
		return ppu.Palette{}, false
	}
	return m.palettes[h], true
}

// Tile returns the tile with handle h.
func (m *Movie) Tile(h cache.Handle) (ppu.Tile, bool) {
	if int(h) >= len(m.tiles) {
		return ppu.Tile{}, false
	}
	return m.tiles[h], true
}
