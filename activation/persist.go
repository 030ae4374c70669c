package activation

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// File format: magic, version, header, raw little-endian float64
// payload. The header records the frame rate so window parameters
// convert from seconds to frames identically on reload.
const (
	fileMagic   = "AONS"
	fileVersion = uint32(1)

	// decodeChunkValues bounds the per-read payload allocation.
	decodeChunkValues = 1 << 16
)

type fileHeader struct {
	Version uint32
	Width   uint32
	Frames  uint64
	FPS     float64
}

// Save writes a to the given path.
//
// The file is written to a temporary sibling and renamed into place,
// so a failed write never leaves a readable partial file at path.
func Save(a *Activation, path string) error {
	if err := a.Validate(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".activation-*")
	if err != nil {
		return fmt.Errorf("activation: save: %w", err)
	}

	if err := Encode(a, tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("activation: save: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("activation: save: %w", err)
	}

	return nil
}

// Load reads an activation previously written by Save.
func Load(path string) (*Activation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("activation: load: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Encode writes the binary representation of a to w.
func Encode(a *Activation, w io.Writer) error {
	if err := a.Validate(); err != nil {
		return err
	}

	if _, err := w.Write([]byte(fileMagic)); err != nil {
		return fmt.Errorf("activation: encode: %w", err)
	}

	hdr := fileHeader{
		Version: fileVersion,
		Width:   uint32(a.Width),
		Frames:  uint64(a.Len()),
		FPS:     a.FPS,
	}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("activation: encode: %w", err)
	}

	buf := make([]byte, 8*len(a.Data))
	for i, v := range a.Data {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("activation: encode: %w", err)
	}

	return nil
}

// Decode reads an activation from r.
func Decode(r io.Reader) (*Activation, error) {
	magic := make([]byte, len(fileMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("activation: decode: %w", err)
	}

	if string(magic) != fileMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrFormat, magic)
	}

	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("activation: decode: %w", err)
	}

	if hdr.Version != fileVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, hdr.Version)
	}

	if hdr.Width == 0 || hdr.FPS <= 0 {
		return nil, fmt.Errorf("%w: width=%d fps=%f", ErrFormat, hdr.Width, hdr.FPS)
	}

	// The header is untrusted: reject counts whose byte size cannot be
	// represented, and read the payload in bounded chunks so a frame
	// count larger than the stream fails on the short read instead of
	// sizing the full allocation up front.
	if hdr.Frames > uint64(math.MaxInt)/8/uint64(hdr.Width) {
		return nil, fmt.Errorf("%w: implausible frame count %d", ErrFormat, hdr.Frames)
	}

	n := int(hdr.Frames) * int(hdr.Width)
	chunk := make([]byte, 8*decodeChunkValues)

	var data []float64
	for read := 0; read < n; {
		c := n - read
		if c > decodeChunkValues {
			c = decodeChunkValues
		}

		buf := chunk[:8*c]
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("activation: decode: %w", err)
		}

		if data == nil {
			data = make([]float64, 0, c)
		}

		for i := 0; i < c; i++ {
			data = append(data, math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:])))
		}

		read += c
	}

	return &Activation{Data: data, Width: int(hdr.Width), FPS: hdr.FPS}, nil
}
