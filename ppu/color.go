package ppu

import (
	"encoding/binary"
	"image/color"
)

// Color is either an opaque 24-bit RGB color or fully transparent. It
// implements color.Color.
type Color struct {
	R, G, B     uint8
	Transparent bool
}

// Transparent is the color of palette entry zero.
var Transparent = Color{Transparent: true}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	if c.Transparent {
		return 0, 0, 0, 0
	}
	return color.RGBA{c.R, c.G, c.B, 0xff}.RGBA()
}

// Expand5 widens a 5-bit channel to 8 bits by replicating its top bits into
// the vacated low bits, so 0x1f becomes 0xff rather than 0xf8.
func Expand5(c uint8) uint8 {
	c &= 0x1f
	return c<<3 | c>>2
}

// DecodeColor decodes a little-endian 0BBBBBGGGGGRRRRR word.
func DecodeColor(b [2]byte) Color {
	w := binary.LittleEndian.Uint16(b[:])
	return Color{
		R: Expand5(uint8(w & 0x1f)),
		G: Expand5(uint8(w >> 5 & 0x1f)),
		B: Expand5(uint8(w >> 10 & 0x1f)),
	}
}

// EncodeColor is the inverse of DecodeColor. Transparent encodes as black.
func EncodeColor(c Color) [2]byte {
	var b [2]byte
	if c.Transparent {
		return b
	}
	w := uint16(c.R>>3) | uint16(c.G>>3)<<5 | uint16(c.B>>3)<<10
	binary.LittleEndian.PutUint16(b[:], w)
	return b
}

// PaletteIndex selects a color within a Palette.
type PaletteIndex uint8

// Palette is one sixteen color sprite palette.
type Palette [colorsPerPalette]Color

// DecodePalette decodes a 32 byte palette. Entry zero is always
// Transparent as the hardware never draws it for sprites.
func DecodePalette(b []byte) (Palette, error) {
	var p Palette
	if err := checkLength("palette", b, PaletteSize); err != nil {
		return p, err
	}
	for i := range p {
		p[i] = DecodeColor([2]byte{b[i*bytesPerColor], b[i*bytesPerColor+1]})
	}
	p[0] = Transparent
	return p, nil
}

// DecodePaletteTable decodes the eight sprite palettes.
func DecodePaletteTable(b []byte) ([NumPalettes]Palette, error) {
	var t [NumPalettes]Palette
	if err := checkLength("palette table", b, PaletteTableSize); err != nil {
		return t, err
	}
	for i := range t {
		p, err := DecodePalette(b[i*PaletteSize : (i+1)*PaletteSize])
		if err != nil {
			return t, err
		}
		t[i] = p
	}
	return t, nil
}

// MarshalBinary encodes the palette back to its 32 byte form.
func (p Palette) MarshalBinary() ([]byte, error) {
	return p.AppendKey(make([]byte, 0, PaletteSize)), nil
}

// UnmarshalBinary decodes a palette from its 32 byte form.
func (p *Palette) UnmarshalBinary(b []byte) error {
	d, err := DecodePalette(b)
	if err != nil {
		return err
	}
	*p = d
	return nil
}

// AppendKey appends the encoded palette to b.
func (p Palette) AppendKey(b []byte) []byte {
	for _, c := range p {
		e := EncodeColor(c)
		b = append(b, e[:]...)
	}
	return b
}

// Equal reports whether p and o hold the same colors.
func (p Palette) Equal(o Palette) bool {
	return p == o
}

// Colors returns the palette as a color.Palette.
func (p Palette) Colors() color.Palette {
	out := make(color.Palette, len(p))
	for i, c := range p {
		out[i] = c
	}
	return out
}
