package ppu

import (
	"fmt"
	"slices"

	"github.com/bodgit/snesmovie/geom"
	"github.com/bodgit/snesmovie/surface"
)

// TileSize is the edge length in pixels of a square sprite.
type TileSize uint8

// Sprite edge lengths.
const (
	Tile8  TileSize = 8
	Tile16 TileSize = 16
	Tile32 TileSize = 32
	Tile64 TileSize = 64
)

// Valid reports whether s is one of the four sprite sizes.
func (s TileSize) Valid() bool {
	switch s {
	case Tile8, Tile16, Tile32, Tile64:
		return true
	}
	return false
}

// Size returns s as a size in sprite space.
func (s TileSize) Size() geom.Size[geom.Sprite] {
	return geom.Sz[geom.Sprite](uint32(s), uint32(s))
}

func (s TileSize) String() string {
	return fmt.Sprintf("%dx%d", s, s)
}

// Tile is the artwork of one sprite as palette indices. A Tile is never
// modified once created.
type Tile struct {
	s *surface.Surface[PaletteIndex, geom.Sprite]
}

// NewTile returns a tile of the given size holding a copy of pixels, which
// are stored row-major.
func NewTile(size TileSize, pixels []PaletteIndex) (Tile, error) {
	if !size.Valid() {
		return Tile{}, invalidData("tile: unsupported size %d", size)
	}
	s, err := surface.FromSlice(size.Size(), append([]PaletteIndex(nil), pixels...))
	if err != nil {
		return Tile{}, invalidData("tile: expected %d pixels, got %d", size.Size().Area(), len(pixels))
	}
	return Tile{s}, nil
}

// TileSize returns the edge length of the tile.
func (t Tile) TileSize() TileSize {
	return TileSize(t.s.Size().Width)
}

// Size returns the dimensions of the tile.
func (t Tile) Size() geom.Size[geom.Sprite] {
	return t.s.Size()
}

// At returns the palette index at p, or false if p lies outside the tile.
func (t Tile) At(p geom.Point[geom.Sprite]) (PaletteIndex, bool) {
	return t.s.At(p)
}

// Pixels returns a copy of the palette indices, row-major.
func (t Tile) Pixels() []PaletteIndex {
	return append([]PaletteIndex(nil), t.s.Data()...)
}

// AppendKey appends the tile size followed by its pixels to b.
func (t Tile) AppendKey(b []byte) []byte {
	b = append(b, byte(t.TileSize()))
	for _, p := range t.s.Data() {
		b = append(b, byte(p))
	}
	return b
}

// Equal reports whether t and o are the same size with the same pixels.
func (t Tile) Equal(o Tile) bool {
	return t.s.Size() == o.s.Size() && slices.Equal(t.s.Data(), o.s.Data())
}

// MarshalBinary encodes the tile as its edge length followed by one byte
// per pixel.
func (t Tile) MarshalBinary() ([]byte, error) {
	return t.AppendKey(make([]byte, 0, 1+t.s.Size().Area())), nil
}

// UnmarshalBinary decodes a tile encoded by MarshalBinary.
func (t *Tile) UnmarshalBinary(b []byte) error {
	if len(b) == 0 {
		return invalidData("tile: expected at least 1 byte, got 0")
	}
	size := TileSize(b[0])
	if !size.Valid() {
		return invalidData("tile: unsupported size %d", b[0])
	}
	if err := checkLength("tile", b[1:], size.Size().Area()); err != nil {
		return err
	}
	pixels := make([]PaletteIndex, len(b)-1)
	for i, p := range b[1:] {
		pixels[i] = PaletteIndex(p)
	}
	n, err := NewTile(size, pixels)
	if err != nil {
		return err
	}
	*t = n
	return nil
}
