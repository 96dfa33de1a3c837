package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/cwbudde/wav"
	goaudio "github.com/go-audio/audio"

	"github.com/example/go-vops/internal/array"
)

// ErrUnsupportedFormat is returned when an array or format cannot be encoded.
var ErrUnsupportedFormat = errors.New("unsupported WAV format")

// EncodeWAV encodes a real array as PCM WAV. A rank-1 array is written as
// mono, a rank-2 array [frames, channels] as interleaved channels. Samples
// are converted to float32 and clamped to [-1, 1].
func EncodeWAV(a *array.Array, sampleRate, bitDepth int) ([]byte, error) {
	if a == nil || !a.Kind().IsReal() {
		return nil, fmt.Errorf("audio: need a real array: %w", ErrUnsupportedFormat)
	}

	channels := 1

	switch a.Rank() {
	case 1:
	case 2:
		channels = int(a.RawShape()[1])
	default:
		return nil, fmt.Errorf("audio: array of rank %d: %w", a.Rank(), ErrUnsupportedFormat)
	}

	if channels < 1 {
		return nil, fmt.Errorf("audio: %d channels: %w", channels, ErrUnsupportedFormat)
	}

	if sampleRate < 1 {
		return nil, fmt.Errorf("audio: sample rate %d: %w", sampleRate, ErrUnsupportedFormat)
	}

	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("audio: bit depth %d: %w", bitDepth, ErrUnsupportedFormat)
	}

	f, err := array.Coerce(a, array.Float32)
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}

	samples := make([]float32, f.Len())
	for i, v := range f.Float32s() {
		samples[i] = max(-1, min(1, v))
	}

	var out bytes.Buffer

	enc := wav.NewEncoder(&seekBuffer{buf: &out}, sampleRate, bitDepth, channels, 1) // 1 = PCM

	pcm := &goaudio.Float32Buffer{
		Data:           samples,
		Format:         &goaudio.Format{SampleRate: sampleRate, NumChannels: channels},
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(pcm); err != nil {
		return nil, fmt.Errorf("audio: writing PCM: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("audio: closing encoder: %w", err)
	}

	return out.Bytes(), nil
}

// seekBuffer is an in-memory io.WriteSeeker; the encoder seeks back to patch
// chunk sizes on Close.
type seekBuffer struct {
	buf *bytes.Buffer
	pos int
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	if s.pos == s.buf.Len() {
		n, err := s.buf.Write(p)
		s.pos += n

		return n, err
	}

	data := s.buf.Bytes()
	if s.pos > len(data) {
		s.buf.Write(make([]byte, s.pos-len(data)))
		data = s.buf.Bytes()
	}

	n := copy(data[s.pos:], p)
	if n < len(p) {
		s.buf.Write(p[n:])
	}

	s.pos += len(p)

	return len(p), nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64

	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(s.pos) + offset
	case io.SeekEnd:
		pos = int64(s.buf.Len()) + offset
	default:
		return 0, fmt.Errorf("audio: invalid whence %d", whence)
	}

	if pos < 0 {
		return 0, errors.New("audio: seek before start")
	}

	s.pos = int(pos)

	return pos, nil
}
