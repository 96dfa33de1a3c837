// Package audio converts between WAV files and arrays.
package audio

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cwbudde/wav"

	"github.com/example/go-vops/internal/array"
)

// ErrInvalidWAV is returned for input that is not a readable WAV file.
var ErrInvalidWAV = errors.New("invalid WAV file")

// Info describes the format of a decoded WAV file.
type Info struct {
	SampleRate int `json:"sample_rate"`
	Channels   int `json:"channels"`
	BitDepth   int `json:"bit_depth"`
	Frames     int `json:"frames"`
}

// DecodeWAV decodes WAV bytes into a Float32 array with samples in [-1, 1].
// Mono files give shape [frames]; multi-channel files give [frames, channels]
// with one row per frame.
func DecodeWAV(data []byte) (*array.Array, Info, error) {
	if len(data) == 0 {
		return nil, Info{}, fmt.Errorf("audio: empty input: %w", ErrInvalidWAV)
	}

	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, Info{}, fmt.Errorf("audio: %w", ErrInvalidWAV)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, Info{}, fmt.Errorf("audio: reading PCM data: %w", err)
	}

	info := Info{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}

	if info.Channels < 1 {
		return nil, Info{}, fmt.Errorf("audio: %d channels: %w", info.Channels, ErrInvalidWAV)
	}

	samples := buf.Data
	info.Frames = len(samples) / info.Channels
	samples = samples[:info.Frames*info.Channels]

	shape := array.Shape{int64(info.Frames)}
	if info.Channels > 1 {
		shape = array.Shape{int64(info.Frames), int64(info.Channels)}
	}

	a, err := array.New(samples, shape)
	if err != nil {
		return nil, Info{}, fmt.Errorf("audio: %w", err)
	}

	return a, info, nil
}
