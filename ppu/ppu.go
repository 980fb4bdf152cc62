/*
Package ppu decodes the video memory of the SNES picture processing unit.

It understands the sprite half of CGRAM, where each of the eight sprite
palettes holds sixteen 15-bit colors stored as little-endian BGR words; the
two sprite tile name tables, each a 16 by 16 grid of 8 by 8 tiles stored
as 4 bit planes; and OAM, a 512 byte table of four byte sprite records
followed by a 32 byte table packing two extra bits per sprite.

Every decoder checks the length of its input exactly and returns a
DataImportError rather than padding or truncating.
*/
package ppu

import "fmt"

const (
	bytesPerColor    = 2
	colorsPerPalette = 16
	// PaletteSize is the length in bytes of one encoded palette.
	PaletteSize = colorsPerPalette * bytesPerColor
	// NumPalettes is the number of sprite palettes.
	NumPalettes = 8
	// PaletteTableSize is the length in bytes of the sprite palette table.
	PaletteTableSize = NumPalettes * PaletteSize
	// CGRAMSize is the length in bytes of the whole of CGRAM.
	CGRAMSize = 512
	// SpritePalettesOffset is where the sprite palettes start in CGRAM.
	SpritePalettesOffset = 0x100

	tileEdge    = 8
	tileBytes   = 32
	tilesAcross = 16
	tilesDown   = 16
	numTiles    = tilesAcross * tilesDown
	// TableSize is the length in bytes of one tile name table.
	TableSize = numTiles * tileBytes

	tableWidth  = tilesAcross * tileEdge
	tableHeight = tilesDown * tileEdge

	// NumObjects is the number of sprite records in OAM.
	NumObjects   = 128
	objectBytes  = 4
	lowTableSize = NumObjects * objectBytes
	// HighTableSize is the length in bytes of the packed extra bits.
	HighTableSize = NumObjects / 4
	// OAMSize is the length in bytes of the whole of OAM.
	OAMSize = lowTableSize + HighTableSize
)

// ErrorKind classifies a DataImportError.
type ErrorKind int

const (
	// InvalidData means the input does not match the expected format.
	InvalidData ErrorKind = iota
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidData:
		return "invalid data"
	default:
		return "unknown"
	}
}

// DataImportError is returned when captured data cannot be decoded.
type DataImportError struct {
	Kind ErrorKind
	Msg  string
}

func (e *DataImportError) Error() string {
	return fmt.Sprintf("ppu: %s: %s", e.Kind, e.Msg)
}

func invalidData(format string, a ...interface{}) error {
	return &DataImportError{
		Kind: InvalidData,
		Msg:  fmt.Sprintf(format, a...),
	}
}

func checkLength(what string, b []byte, expected int) error {
	if len(b) != expected {
		return invalidData("%s: expected %d bytes, got %d", what, expected, len(b))
	}
	return nil
}
