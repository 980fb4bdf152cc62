/*
Package snesmovie assembles captures of SNES sprite video memory into a
movie of positioned, paletted sprites.

Each capture is decoded independently into tiles and palettes, which are
then offered to caches shared across the whole movie so that artwork
repeated from frame to frame is stored once and referenced by handle.
Handles are assigned in the order frames are added, so frames must be
added in the order they were captured.
*/
package snesmovie

import (
	"errors"
	"fmt"
	"io/ioutil"
	"log"

	"github.com/bodgit/snesmovie/cache"
	"github.com/bodgit/snesmovie/capture"
	"github.com/bodgit/snesmovie/geom"
	"github.com/bodgit/snesmovie/ppu"
	"github.com/bodgit/snesmovie/surface"
)

// DataImportError is returned when a capture cannot be decoded.
type DataImportError = ppu.DataImportError

// InvalidData means a capture does not match the expected format.
const InvalidData = ppu.InvalidData

// Assembler builds a Movie one capture at a time.
type Assembler struct {
	// SkipInvalid causes frames that fail to decode to be logged and
	// left out rather than stopping the whole movie.
	SkipInvalid bool

	logger   *log.Logger
	tiles    *cache.Cache[ppu.Tile]
	palettes *cache.Cache[ppu.Palette]
	frames   []MovieFrame
}

// New returns an empty Assembler logging to logger, which may be nil.
func New(logger *log.Logger) *Assembler {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	return &Assembler{
		logger:   logger,
		tiles:    cache.New[ppu.Tile](),
		palettes: cache.New[ppu.Palette](),
	}
}

type decodedSprite struct {
	tile    ppu.Tile
	palette ppu.Palette
	object  ppu.Object
}

type decodedFrame struct {
	number  uint64
	sprites []decodedSprite
}

// decodeFrame turns a capture into tiles and palettes without touching any
// shared state, so it is safe to call from many goroutines at once.
func decodeFrame(c *capture.Capture, logger *log.Logger) (*decodedFrame, error) {
	sizes, err := ppu.DecodeSizeSelect(c.SizeSelect)
	if err != nil {
		return nil, err
	}

	objects, err := ppu.DecodeOAM(c.OAM)
	if err != nil {
		return nil, err
	}

	if len(c.CGRAM) != ppu.CGRAMSize {
		return nil, &DataImportError{
			Kind: InvalidData,
			Msg:  fmt.Sprintf("CGRAM: expected %d bytes, got %d", ppu.CGRAMSize, len(c.CGRAM)),
		}
	}
	palettes, err := ppu.DecodePaletteTable(c.CGRAM[ppu.SpritePalettesOffset:])
	if err != nil {
		return nil, err
	}

	atlas, err := ppu.DecodeAtlas(c.Base, c.Select)
	if err != nil {
		return nil, err
	}

	f := &decodedFrame{
		number:  c.Frame,
		sprites: make([]decodedSprite, 0, len(objects)),
	}

	for i, o := range objects {
		tile, err := atlas.Tile(o.Name, sizes.Resolve(o.Large))
		if err != nil {
			if errors.Is(err, surface.ErrDimensionMismatch) {
				logger.Printf("Frame %d: skipping sprite %d: %s\n", c.Frame, i, err)
				continue
			}
			return nil, err
		}

		f.sprites = append(f.sprites, decodedSprite{
			tile:    tile,
			palette: palettes[o.Palette],
			object:  o,
		})
	}

	return f, nil
}

func (a *Assembler) merge(f *decodedFrame) {
	frame := MovieFrame{
		Number:  f.number,
		Sprites: make([]Sprite, len(f.sprites)),
	}

	for i, s := range f.sprites {
		frame.Sprites[i] = Sprite{
			Tile:     a.tiles.Offer(s.tile),
			Palette:  a.palettes.Offer(s.palette),
			Position: s.object.Position(),
			HFlip:    s.object.HFlip,
			VFlip:    s.object.VFlip,
			Priority: s.object.Priority,
		}
	}

	a.frames = append(a.frames, frame)
	a.logger.Printf("Frame %d: %d sprites, %d tiles and %d palettes so far\n", f.number, len(frame.Sprites), a.tiles.Len(), a.palettes.Len())
}

// AddCapture decodes c and appends it as the next frame. If c cannot be
// decoded the Assembler is left unchanged and the error returned, or only
// logged if SkipInvalid is set.
func (a *Assembler) AddCapture(c *capture.Capture) error {
	f, err := decodeFrame(c, a.logger)
	if err != nil {
		return a.invalid(c.Frame, err)
	}
	a.merge(f)
	return nil
}

func (a *Assembler) invalid(frame uint64, err error) error {
	err = fmt.Errorf("frame %d: %w", frame, err)
	var die *DataImportError
	if a.SkipInvalid && errors.As(err, &die) {
		a.logger.Printf("Skipping %s\n", err)
		return nil
	}
	return err
}

// Len returns the number of frames added so far.
func (a *Assembler) Len() int {
	return len(a.frames)
}

// Movie returns the frames added so far as a Movie with the given screen
// size and frame rate.
func (a *Assembler) Movie(screen geom.Size[geom.Screen], rate FrameRate) *Movie {
	return &Movie{
		screenSize: screen,
		palettes:   a.palettes.Values(),
		tiles:      a.tiles.Values(),
		frames:     append([]MovieFrame(nil), a.frames...),
		frameRate:  rate,
	}
}

// CreateMovie assembles captures, in order, into a Movie. It stops at the
// first capture that cannot be decoded.
func CreateMovie(captures []*capture.Capture, screen geom.Size[geom.Screen], rate FrameRate) (*Movie, error) {
	a := New(nil)
	for _, c := range captures {
		if err := a.AddCapture(c); err != nil {
			return nil, err
		}
	}
	return a.Movie(screen, rate), nil
}
