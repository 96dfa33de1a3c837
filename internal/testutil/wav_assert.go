package testutil

import (
	"encoding/binary"
	"errors"
	"testing"
)

// WAVFormat is the expected fmt chunk of a PCM WAV file.
type WAVFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// AssertValidWAV checks that data is a PCM WAV file in format f with the
// given number of frames.
func AssertValidWAV(tb testing.TB, data []byte, f WAVFormat, frames int) {
	tb.Helper()

	if len(data) < 44 {
		tb.Fatalf("WAV data too short: %d bytes", len(data))
	}

	if string(data[0:4]) != "RIFF" {
		tb.Fatalf("WAV: missing RIFF header (got %q)", string(data[0:4]))
	}

	if string(data[8:12]) != "WAVE" {
		tb.Fatalf("WAV: missing WAVE marker (got %q)", string(data[8:12]))
	}

	if string(data[12:16]) != "fmt " {
		tb.Fatalf("WAV: missing fmt chunk (got %q)", string(data[12:16]))
	}

	if audioFmt := binary.LittleEndian.Uint16(data[20:22]); audioFmt != 1 {
		tb.Fatalf("WAV: expected PCM format (1), got %d", audioFmt)
	}

	if ch := int(binary.LittleEndian.Uint16(data[22:24])); ch != f.Channels {
		tb.Fatalf("WAV: expected %d channels, got %d", f.Channels, ch)
	}

	if sr := int(binary.LittleEndian.Uint32(data[24:28])); sr != f.SampleRate {
		tb.Fatalf("WAV: expected sample rate %d, got %d", f.SampleRate, sr)
	}

	if bd := int(binary.LittleEndian.Uint16(data[34:36])); bd != f.BitDepth {
		tb.Fatalf("WAV: expected %d-bit depth, got %d", f.BitDepth, bd)
	}

	dataSize, err := findDataChunkSize(data)
	if err != nil {
		tb.Fatalf("WAV: %v", err)
	}

	blockAlign := f.Channels * f.BitDepth / 8
	if got := int(dataSize) / blockAlign; got != frames {
		tb.Fatalf("WAV: %d frames, want %d", got, frames)
	}
}

// findDataChunkSize walks the WAV chunk list to locate the "data" sub-chunk
// and returns its size in bytes.
func findDataChunkSize(data []byte) (uint32, error) {
	// Start after the 12-byte RIFF/WAVE header.
	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])

		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		if id == "data" {
			return size, nil
		}

		offset += 8 + int(size)
		// Pad to even boundary.
		if size%2 != 0 {
			offset++
		}
	}

	return 0, errors.New("data chunk not found in WAV")
}
