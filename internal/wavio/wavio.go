// Package wavio decodes WAV files into mono float64 sample slices for
// the analysis pipeline.
package wavio

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrInvalidFile reports a file that is not decodable PCM WAV.
var ErrInvalidFile = errors.New("wavio: invalid wav file")

// ReadMono decodes the WAV file at path and returns its samples in
// [-1, 1] together with the sample rate. Multi-channel content is
// downmixed by averaging the channels.
func ReadMono(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("wavio: open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidFile, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("wavio: decode %s: %w", path, err)
	}

	samples, err := Downmix(buf)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", err, path)
	}

	return samples, buf.Format.SampleRate, nil
}

// Downmix converts an interleaved PCM buffer to mono float64 samples
// in [-1, 1].
func Downmix(buf *audio.IntBuffer) ([]float64, error) {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, ErrInvalidFile
	}

	channels := buf.Format.NumChannels
	scale := 1.0
	if buf.SourceBitDepth > 1 {
		scale = 1.0 / float64(int64(1)<<(buf.SourceBitDepth-1))
	}

	frames := len(buf.Data) / channels
	out := make([]float64, frames)

	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}

		out[i] = sum * scale / float64(channels)
	}

	return out, nil
}
