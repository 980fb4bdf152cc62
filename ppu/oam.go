package ppu

import (
	"fmt"

	"github.com/bodgit/snesmovie/geom"
)

// ObjectSpace is the size of the space sprite positions wrap within; X is
// nine bits and Y is eight.
var ObjectSpace = geom.Sz[geom.Screen](512, 256)

// SizeSelect is the global choice of small and large sprite sizes, bits 5
// to 7 of the OBSEL register.
type SizeSelect uint8

// Sprite size pairs, small then large.
const (
	Size8And16 SizeSelect = iota
	Size8And32
	Size8And64
	Size16And32
	Size16And64
	Size32And64
	numSizeSelects
)

var sizeSelects = [numSizeSelects][2]TileSize{
	Size8And16:  {Tile8, Tile16},
	Size8And32:  {Tile8, Tile32},
	Size8And64:  {Tile8, Tile64},
	Size16And32: {Tile16, Tile32},
	Size16And64: {Tile16, Tile64},
	Size32And64: {Tile32, Tile64},
}

// DecodeSizeSelect validates a size select code. The two remaining codes
// select rectangular sprites which are not supported.
func DecodeSizeSelect(b byte) (SizeSelect, error) {
	if b >= byte(numSizeSelects) {
		return 0, invalidData("size select: expected 0 to %d, got %d", numSizeSelects-1, b)
	}
	return SizeSelect(b), nil
}

// Small returns the size of small sprites.
func (s SizeSelect) Small() TileSize {
	return sizeSelects[s][0]
}

// Large returns the size of large sprites.
func (s SizeSelect) Large() TileSize {
	return sizeSelects[s][1]
}

// Resolve returns the size of a sprite with the given large flag.
func (s SizeSelect) Resolve(large bool) TileSize {
	if large {
		return s.Large()
	}
	return s.Small()
}

func (s SizeSelect) String() string {
	if s >= numSizeSelects {
		return fmt.Sprintf("SizeSelect(%d)", uint8(s))
	}
	return fmt.Sprintf("%d/%d", s.Small(), s.Large())
}

// Object is one decoded OAM record.
type Object struct {
	// X is the nine bit horizontal position, bit 8 coming from the high
	// table. Values from 256 are to the left of the screen.
	X uint16
	Y uint8
	// Name is the nine bit tile name, bit 8 selecting the select table.
	Name     uint16
	Palette  uint8
	Priority uint8
	HFlip    bool
	VFlip    bool
	Large    bool
}

// SignedX returns X as a two's complement value between -256 and 255.
func (o Object) SignedX() int {
	if o.X&0x100 != 0 {
		return int(o.X) - 512
	}
	return int(o.X)
}

// Position returns the position of the object within ObjectSpace.
func (o Object) Position() geom.Point[geom.Screen] {
	return geom.Pt[geom.Screen](uint32(o.X), uint32(o.Y))
}

// DecodeOAM decodes all 128 records. Each low table record is X, Y, name
// and then vhoopppN; the high table packs four objects per byte, least
// significant bits first, as X bit 8 and then the large flag.
func DecodeOAM(b []byte) ([NumObjects]Object, error) {
	var objects [NumObjects]Object
	if err := checkLength("OAM", b, OAMSize); err != nil {
		return objects, err
	}

	for i := range objects {
		low := b[i*objectBytes : (i+1)*objectBytes]
		high := b[lowTableSize+i/4] >> (uint(i%4) * 2) & 0x03
		attr := low[3]

		objects[i] = Object{
			X:        uint16(low[0]) | uint16(high&0x01)<<8,
			Y:        low[1],
			Name:     uint16(low[2]) | uint16(attr&0x01)<<8,
			Palette:  attr >> 1 & 0x07,
			Priority: attr >> 4 & 0x03,
			HFlip:    attr&0x40 != 0,
			VFlip:    attr&0x80 != 0,
			Large:    high&0x02 != 0,
		}
	}

	return objects, nil
}

// EncodeOAM is the inverse of DecodeOAM.
func EncodeOAM(objects [NumObjects]Object) []byte {
	b := make([]byte, OAMSize)
	for i, o := range objects {
		attr := byte(o.Name>>8&0x01) | (o.Palette&0x07)<<1 | (o.Priority&0x03)<<4
		if o.HFlip {
			attr |= 0x40
		}
		if o.VFlip {
			attr |= 0x80
		}
		copy(b[i*objectBytes:], []byte{byte(o.X), o.Y, byte(o.Name), attr})

		high := byte(o.X >> 8 & 0x01)
		if o.Large {
			high |= 0x02
		}
		b[lowTableSize+i/4] |= high << (uint(i%4) * 2)
	}
	return b
}
