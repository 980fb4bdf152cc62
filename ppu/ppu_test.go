package ppu

import (
	"errors"
	"testing"

	"github.com/bodgit/snesmovie/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func artwork(x, y uint32) geom.Point[geom.Artwork] { return geom.Pt[geom.Artwork](x, y) }

func requireInvalidData(t *testing.T, err error, msg string) {
	t.Helper()
	var die *DataImportError
	require.True(t, errors.As(err, &die), "%v", err)
	assert.Equal(t, InvalidData, die.Kind)
	assert.Contains(t, die.Error(), msg)
}

func TestExpand5(t *testing.T) {
	assert.Equal(t, uint8(0x00), Expand5(0x00))
	assert.Equal(t, uint8(0xff), Expand5(0x1f))
	assert.Equal(t, uint8(0x84), Expand5(0x10))

	for c := uint8(0); c < 32; c++ {
		assert.Equal(t, c, Expand5(c)>>3)
	}
}

func TestDecodeColor(t *testing.T) {
	tables := []struct {
		name string
		in   [2]byte
		want Color
	}{
		{"black", [2]byte{0x00, 0x00}, Color{}},
		{"red", [2]byte{0x1f, 0x00}, Color{R: 0xff}},
		{"green", [2]byte{0xe0, 0x03}, Color{G: 0xff}},
		{"blue", [2]byte{0x00, 0x7c}, Color{B: 0xff}},
		{"white", [2]byte{0xff, 0x7f}, Color{R: 0xff, G: 0xff, B: 0xff}},
		{"unused bit", [2]byte{0xff, 0xff}, Color{R: 0xff, G: 0xff, B: 0xff}},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			c := DecodeColor(table.in)
			assert.Equal(t, table.want, c)

			in := table.in
			in[1] &= 0x7f
			assert.Equal(t, in, EncodeColor(c))
		})
	}
}

func TestColorRGBA(t *testing.T) {
	r, g, b, a := Transparent.RGBA()
	assert.Equal(t, [4]uint32{0, 0, 0, 0}, [4]uint32{r, g, b, a})

	r, g, b, a = Color{R: 0xff}.RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0, 0, 0xffff}, [4]uint32{r, g, b, a})
}

func TestDecodePalette(t *testing.T) {
	b := make([]byte, PaletteSize)
	copy(b, []byte{0, 0, 159, 75, 28, 59})

	p, err := DecodePalette(b)
	require.NoError(t, err)
	assert.Equal(t, Transparent, p[0])
	assert.Equal(t, Color{R: 255, G: 231, B: 148}, p[1])
	assert.Equal(t, Color{R: 231, G: 198, B: 115}, p[2])
	assert.Equal(t, Color{}, p[3])

	// Entry zero is transparent whatever it holds
	b[0], b[1] = 0xff, 0x7f
	p, err = DecodePalette(b)
	require.NoError(t, err)
	assert.Equal(t, Transparent, p[0])

	_, err = DecodePalette(b[:31])
	requireInvalidData(t, err, "expected 32 bytes, got 31")
}

func TestPaletteMarshal(t *testing.T) {
	b := make([]byte, PaletteSize)
	for i := range b {
		b[i] = byte(i * 13)
	}
	b[1] &= 0x7f

	var p Palette
	require.NoError(t, p.UnmarshalBinary(b))

	out, err := p.MarshalBinary()
	require.NoError(t, err)

	// Entry zero is lost to transparency
	assert.Equal(t, []byte{0, 0}, out[:2])
	for i := 1; i < colorsPerPalette; i++ {
		assert.Equal(t, b[i*2], out[i*2])
		assert.Equal(t, b[i*2+1]&0x7f, out[i*2+1])
	}

	assert.True(t, p.Equal(p))
	assert.Len(t, p.Colors(), colorsPerPalette)
}

func TestDecodePaletteTable(t *testing.T) {
	b := make([]byte, PaletteTableSize)
	b[PaletteSize*7+2] = 0x1f

	table, err := DecodePaletteTable(b)
	require.NoError(t, err)
	for _, p := range table {
		assert.Equal(t, Transparent, p[0])
	}
	assert.Equal(t, Color{R: 0xff}, table[7][1])
	assert.Equal(t, Color{}, table[6][1])

	_, err = DecodePaletteTable(make([]byte, CGRAMSize))
	requireInvalidData(t, err, "expected 256 bytes, got 512")
}

func TestDecodeAtlas(t *testing.T) {
	base := make([]byte, TableSize)
	sel := make([]byte, TableSize)

	// Tile 0, row 0: leftmost pixel has planes 0, 1 set, rightmost has
	// plane 3 set
	base[0], base[1], base[16], base[17] = 0x80, 0x80, 0x00, 0x01
	// Tile 17 of the select table, row 7: every pixel is 15
	o := 17*tileBytes + 7*2
	sel[o], sel[o+1], sel[o+16], sel[o+17] = 0xff, 0xff, 0xff, 0xff

	a, err := DecodeAtlas(base, sel)
	require.NoError(t, err)
	assert.Equal(t, geom.Sz[geom.Artwork](128, 256), a.Size())

	tables := []struct {
		p    geom.Point[geom.Artwork]
		want PaletteIndex
	}{
		{artwork(0, 0), 3},
		{artwork(1, 0), 0},
		{artwork(7, 0), 8},
		{artwork(0, 1), 0},
		{artwork(8, 128+8+7), 15},
		{artwork(15, 128+8+7), 15},
		{artwork(16, 128+8+7), 0},
		{artwork(8, 128+8+6), 0},
	}

	for _, table := range tables {
		v, ok := a.At(table.p)
		require.True(t, ok)
		assert.Equal(t, table.want, v, "%v", table.p)
	}

	_, err = DecodeAtlas(base[:100], sel)
	requireInvalidData(t, err, "base name table: expected 8192 bytes, got 100")
	_, err = DecodeAtlas(base, append(sel, 0))
	requireInvalidData(t, err, "select name table: expected 8192 bytes, got 8193")
}

func TestAtlasEncode(t *testing.T) {
	base := make([]byte, TableSize)
	sel := make([]byte, TableSize)
	for i := range base {
		base[i] = byte(i * 7)
		sel[i] = byte(i*11 + 3)
	}

	a, err := DecodeAtlas(base, sel)
	require.NoError(t, err)

	b, s := a.Encode()
	assert.Equal(t, base, b)
	assert.Equal(t, sel, s)
}

func TestSourceRect(t *testing.T) {
	r := SourceRect(0x123, Tile16)
	assert.Equal(t, geom.RectAt(artwork(24, 128+16), geom.Sz[geom.Artwork](16, 16)), r)

	r = SourceRect(0x0ff, Tile8)
	assert.Equal(t, geom.RectAt(artwork(120, 120), geom.Sz[geom.Artwork](8, 8)), r)
}

func TestAtlasTile(t *testing.T) {
	a := NewAtlas()

	// A 16x16 sprite at column 15 wraps round to column 0
	a.Set(artwork(120, 0), 1)
	a.Set(artwork(127, 15), 2)
	a.Set(artwork(0, 0), 3)
	a.Set(artwork(7, 15), 4)
	a.Set(artwork(8, 0), 5)

	tile, err := a.Tile(0x00f, Tile16)
	require.NoError(t, err)
	assert.Equal(t, Tile16, tile.TileSize())

	tables := []struct {
		x, y uint32
		want PaletteIndex
	}{
		{0, 0, 1},
		{7, 15, 2},
		{8, 0, 3},
		{15, 15, 4},
		{1, 0, 0},
	}

	for _, table := range tables {
		v, ok := tile.At(geom.Pt[geom.Sprite](table.x, table.y))
		require.True(t, ok)
		assert.Equal(t, table.want, v, "(%d,%d)", table.x, table.y)
	}

	_, err = a.Tile(0, TileSize(12))
	requireInvalidData(t, err, "unsupported size 12")
}

func TestTile(t *testing.T) {
	pixels := make([]PaletteIndex, 64)
	for i := range pixels {
		pixels[i] = PaletteIndex(i % 16)
	}

	a, err := NewTile(Tile8, pixels)
	require.NoError(t, err)

	// The tile keeps its own copy
	pixels[0] = 15
	assert.Equal(t, PaletteIndex(0), a.Pixels()[0])

	b, err := NewTile(Tile8, a.Pixels())
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.AppendKey(nil), b.AppendKey(nil))

	c, err := NewTile(Tile8, pixels)
	require.NoError(t, err)
	assert.False(t, a.Equal(c))

	data, err := a.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, 65)

	var d Tile
	require.NoError(t, d.UnmarshalBinary(data))
	assert.True(t, a.Equal(d))

	_, err = NewTile(Tile16, pixels)
	requireInvalidData(t, err, "expected 256 pixels, got 64")

	requireInvalidData(t, d.UnmarshalBinary(data[:10]), "expected 64 bytes, got 9")
}

func TestSizeSelect(t *testing.T) {
	tables := []struct {
		code         byte
		small, large TileSize
	}{
		{0, Tile8, Tile16},
		{1, Tile8, Tile32},
		{2, Tile8, Tile64},
		{3, Tile16, Tile32},
		{4, Tile16, Tile64},
		{5, Tile32, Tile64},
	}

	for _, table := range tables {
		s, err := DecodeSizeSelect(table.code)
		require.NoError(t, err)
		assert.Equal(t, table.small, s.Resolve(false))
		assert.Equal(t, table.large, s.Resolve(true))
	}

	for _, code := range []byte{6, 7, 0xff} {
		_, err := DecodeSizeSelect(code)
		requireInvalidData(t, err, "size select")
	}
}

func TestDecodeOAM(t *testing.T) {
	b := make([]byte, OAMSize)
	copy(b[5*4:], []byte{0x10, 0x20, 0x42, 0xeb})
	b[lowTableSize+1] = 0x03 << 2

	objects, err := DecodeOAM(b)
	require.NoError(t, err)

	o := objects[5]
	assert.Equal(t, Object{
		X:        0x110,
		Y:        0x20,
		Name:     0x142,
		Palette:  5,
		Priority: 2,
		HFlip:    true,
		VFlip:    true,
		Large:    true,
	}, o)
	assert.Equal(t, -240, o.SignedX())
	assert.Equal(t, geom.Pt[geom.Screen](0x110, 0x20), o.Position())

	assert.Equal(t, Object{}, objects[4])
	assert.Equal(t, Object{}, objects[6])

	assert.Equal(t, b, EncodeOAM(objects))

	_, err = DecodeOAM(b[:lowTableSize])
	requireInvalidData(t, err, "OAM: expected 544 bytes, got 512")
}
