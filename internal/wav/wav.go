// Package wav frames raw 16-bit PCM into canonical 44-byte-header WAV files.
package wav

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// WAV format constants.
const (
	// HeaderSize is the size of a canonical WAV header in bytes.
	HeaderSize = 44

	// FormatPCM is the audio format tag for uncompressed PCM.
	FormatPCM = 1

	// BitsPerSample is the only sample width this package frames.
	BitsPerSample = 16

	// ContentType is the MIME type of an encoded file.
	ContentType = "audio/wav"
)

// Speech API output format: 16-bit signed little-endian mono at 24 kHz.
const (
	GeminiSampleRate = 24000
	GeminiChannels   = 1
)

// ErrInvalidHeader is returned when a buffer does not start with a canonical PCM WAV header.
var ErrInvalidHeader = errors.New("invalid wav header")

// Header describes the fields of a canonical PCM WAV header.
type Header struct {
	RIFFSize      uint32
	Format        uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataSize      uint32
}

// Encode prepends a WAV header to raw 16-bit little-endian PCM.
// The PCM bytes are appended verbatim; callers guarantee sample alignment.
func Encode(pcm []byte, sampleRate, channels int) []byte {
	dataSize := len(pcm)
	blockAlign := channels * 2
	byteRate := sampleRate * blockAlign

	out := make([]byte, HeaderSize, HeaderSize+dataSize)

	copy(out[0:4], "RIFF")
	PutLE32(out[4:8], uint32(36+dataSize))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	PutLE32(out[16:20], 16)
	PutLE16(out[20:22], FormatPCM)
	PutLE16(out[22:24], uint16(channels))
	PutLE32(out[24:28], uint32(sampleRate))
	PutLE32(out[28:32], uint32(byteRate))
	PutLE16(out[32:34], uint16(blockAlign))
	PutLE16(out[34:36], BitsPerSample)

	copy(out[36:40], "data")
	PutLE32(out[40:44], uint32(dataSize))

	return append(out, pcm...)
}

// EncodeMono frames PCM in the speech API's native format (24 kHz mono).
func EncodeMono(pcm []byte) []byte {
	return Encode(pcm, GeminiSampleRate, GeminiChannels)
}

// ParseHeader reads the canonical 44-byte header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrInvalidHeader, len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" ||
		string(data[12:16]) != "fmt " || string(data[36:40]) != "data" {
		return Header{}, fmt.Errorf("%w: missing chunk id", ErrInvalidHeader)
	}

	h := Header{
		RIFFSize:      LE32(data[4:8]),
		Format:        LE16(data[20:22]),
		Channels:      LE16(data[22:24]),
		SampleRate:    LE32(data[24:28]),
		ByteRate:      LE32(data[28:32]),
		BlockAlign:    LE16(data[32:34]),
		BitsPerSample: LE16(data[34:36]),
		DataSize:      LE32(data[40:44]),
	}
	if h.Format != FormatPCM {
		return Header{}, fmt.Errorf("%w: format %d", ErrInvalidHeader, h.Format)
	}
	return h, nil
}

// Duration returns the playback length of an encoded file.
func Duration(data []byte) (time.Duration, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return 0, err
	}
	if h.ByteRate == 0 {
		return 0, fmt.Errorf("%w: zero byte rate", ErrInvalidHeader)
	}
	return time.Duration(float64(h.DataSize) / float64(h.ByteRate) * float64(time.Second)), nil
}

// Filename returns the download name for audio created at ts.
func Filename(ts time.Time) string {
	return "voz-viva-" + strconv.FormatInt(ts.UnixMilli(), 10) + ".wav"
}

// PutLE16 writes a uint16 value in little-endian format to a byte slice.
func PutLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// PutLE32 writes a uint32 value in little-endian format to a byte slice.
func PutLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// LE16 reads a little-endian uint16.
func LE16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

// LE32 reads a little-endian uint32.
func LE32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
