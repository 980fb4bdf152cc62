/*
Package capture implements the file written for each frame captured from
the console's video memory.

The file is little-endian throughout: an 8 byte frame number, one byte of
sprite size select, then four blocks each preceded by a 4 byte length;
CGRAM, OAM, and the base and select sprite name tables. The lengths are
stored rather than assumed so that a capture from a misbehaving tool can
still be read and then rejected by the decoder with a useful message.
*/
package capture

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
)

const (
	// Ext is the expected filename extension of a capture.
	Ext = ".cap"

	// MaxBlockSize is the largest block that will be read, well above
	// anything the video memory can hold.
	MaxBlockSize = 1 << 16
)

var (
	errTooLarge = errors.New("capture: block too large")
	errTooMuch  = errors.New("capture: trailing data")
)

// Capture is the video memory of a single frame.
type Capture struct {
	Frame      uint64
	SizeSelect uint8
	CGRAM      []byte
	OAM        []byte
	Base       []byte
	Select     []byte
}

func (c *Capture) blocks() []*[]byte {
	return []*[]byte{&c.CGRAM, &c.OAM, &c.Base, &c.Select}
}

// MarshalBinary encodes the capture into binary form and returns the
// result.
func (c *Capture) MarshalBinary() ([]byte, error) {
	b := new(bytes.Buffer)

	if err := binary.Write(b, binary.LittleEndian, c.Frame); err != nil {
		return nil, err
	}
	if err := b.WriteByte(c.SizeSelect); err != nil {
		return nil, err
	}

	for _, block := range c.blocks() {
		if len(*block) > MaxBlockSize {
			return nil, errTooLarge
		}
		if err := binary.Write(b, binary.LittleEndian, uint32(len(*block))); err != nil {
			return nil, err
		}
		if _, err := b.Write(*block); err != nil {
			return nil, err
		}
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the capture from binary form.
func (c *Capture) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)

	if err := binary.Read(r, binary.LittleEndian, &c.Frame); err != nil {
		return fmt.Errorf("capture: frame number: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &c.SizeSelect); err != nil {
		return fmt.Errorf("capture: size select: %w", err)
	}

	for _, block := range c.blocks() {
		var length uint32
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return fmt.Errorf("capture: block length: %w", err)
		}
		if length > MaxBlockSize {
			return errTooLarge
		}
		*block = make([]byte, length)
		if _, err := io.ReadFull(r, *block); err != nil {
			return fmt.Errorf("capture: block: %w", err)
		}
	}

	if r.Len() > 0 {
		return errTooMuch
	}

	return nil
}

// ReadFile reads and decodes the capture stored in file.
func ReadFile(file string) (*Capture, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}

	c := new(Capture)
	if err := c.UnmarshalBinary(b); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return c, nil
}

// WriteFile encodes c and writes it to file.
func WriteFile(file string, c *Capture) error {
	b, err := c.MarshalBinary()
	if err != nil {
		return err
	}
	return ioutil.WriteFile(file, b, 0644)
}

// Glob returns the capture files within dir sorted by filename, which is
// the order the frames are assembled in.
func Glob(dir string) ([]string, error) {
	d, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	names, err := d.Readdirnames(0)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, name := range names {
		// Ignore any hidden files
		if name[0] == '.' || filepath.Ext(name) != Ext {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)

	return files, nil
}
