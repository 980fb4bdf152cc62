package ppu

import (
	"github.com/bodgit/snesmovie/geom"
	"github.com/bodgit/snesmovie/surface"
)

// AtlasSize is the size of the decoded sprite artwork: both name tables,
// base above select.
var AtlasSize = geom.Sz[geom.Artwork](tableWidth, tableHeight*2)

// Atlas is the decoded sprite artwork. It wraps in both directions, so a
// large sprite near the right hand edge picks up tiles from the left hand
// edge and one near the bottom of the base table continues into the select
// table.
type Atlas struct {
	s *surface.Surface[PaletteIndex, geom.Artwork]
}

// NewAtlas returns an atlas with every pixel set to zero.
func NewAtlas() *Atlas {
	return &Atlas{surface.New[PaletteIndex](AtlasSize)}
}

// DecodeAtlas decodes the base and select tile name tables.
func DecodeAtlas(base, sel []byte) (*Atlas, error) {
	if err := checkLength("base name table", base, TableSize); err != nil {
		return nil, err
	}
	if err := checkLength("select name table", sel, TableSize); err != nil {
		return nil, err
	}

	a := NewAtlas()
	a.decodeTable(base, 0)
	a.decodeTable(sel, tableHeight)

	return a, nil
}

// Each tile is 32 bytes. The first 16 hold bit planes 0 and 1 and the
// second 16 hold bit planes 2 and 3, each as one byte per plane per row,
// the most significant bit being the leftmost pixel
func (a *Atlas) decodeTable(b []byte, top uint32) {
	pixels := a.s.Data()
	for t := 0; t < numTiles; t++ {
		tile := b[t*tileBytes : (t+1)*tileBytes]
		origin := geom.Pt[geom.Artwork](uint32(t%tilesAcross*tileEdge), top+uint32(t/tilesAcross*tileEdge))

		y := 0
		a.s.View(geom.RectAt(origin, geom.Sz[geom.Artwork](tileEdge, tileEdge))).EachRow(func(start, end int) {
			p0, p1 := tile[y*2], tile[y*2+1]
			p2, p3 := tile[16+y*2], tile[16+y*2+1]
			for x, i := 7, start; i < end; x, i = x-1, i+1 {
				pixels[i] = PaletteIndex(p0>>x&1 | (p1>>x&1)<<1 | (p2>>x&1)<<2 | (p3>>x&1)<<3)
			}
			y++
		})
	}
}

// Size returns the dimensions of the atlas.
func (a *Atlas) Size() geom.Size[geom.Artwork] {
	return a.s.Size()
}

// At returns the palette index at p.
func (a *Atlas) At(p geom.Point[geom.Artwork]) (PaletteIndex, bool) {
	return a.s.At(p)
}

// Set stores v at p, reporting false if p lies outside the atlas.
func (a *Atlas) Set(p geom.Point[geom.Artwork], v PaletteIndex) bool {
	return a.s.Set(p, v)
}

// SourceRect returns the rectangle of artwork used by a sprite with the
// given tile name and edge length. The low four bits of the name select
// the column and the next four the row; bit 8 selects the select table.
// The rectangle may extend past the edge of the atlas.
func SourceRect(name uint16, size TileSize) geom.Rect[geom.Artwork] {
	col := uint32(name & 0x0f)
	row := uint32(name >> 4 & 0x0f)
	top := uint32(0)
	if name&0x100 != 0 {
		top = tableHeight
	}
	return geom.RectAt(
		geom.Pt[geom.Artwork](col*tileEdge, top+row*tileEdge),
		geom.Cast[geom.Artwork](size.Size()),
	)
}

// Tile copies the artwork for a sprite with the given tile name and size
// into a new Tile.
func (a *Atlas) Tile(name uint16, size TileSize) (Tile, error) {
	if !size.Valid() {
		return Tile{}, invalidData("tile: unsupported size %d", size)
	}

	dst := surface.New[PaletteIndex](size.Size())
	if err := surface.Blit(dst, geom.Point[geom.Sprite]{}, a.s, SourceRect(name, size), false, false); err != nil {
		return Tile{}, err
	}
	return Tile{dst}, nil
}

// Encode is the inverse of DecodeAtlas, returning the base and select name
// tables.
func (a *Atlas) Encode() (base, sel []byte) {
	return a.encodeTable(0), a.encodeTable(tableHeight)
}

func (a *Atlas) encodeTable(top uint32) []byte {
	b := make([]byte, TableSize)
	pixels := a.s.Data()
	for t := 0; t < numTiles; t++ {
		tile := b[t*tileBytes : (t+1)*tileBytes]
		origin := geom.Pt[geom.Artwork](uint32(t%tilesAcross*tileEdge), top+uint32(t/tilesAcross*tileEdge))

		y := 0
		a.s.View(geom.RectAt(origin, geom.Sz[geom.Artwork](tileEdge, tileEdge))).EachRow(func(start, end int) {
			for x, i := 7, start; i < end; x, i = x-1, i+1 {
				p := byte(pixels[i])
				tile[y*2] |= (p & 1) << x
				tile[y*2+1] |= (p >> 1 & 1) << x
				tile[16+y*2] |= (p >> 2 & 1) << x
				tile[16+y*2+1] |= (p >> 3 & 1) << x
			}
			y++
		})
	}
	return b
}
