package audio

import (
	"math"
	"strconv"
	"strings"
)

// Samples converts signed 16-bit little-endian PCM into floats in [-1, 1).
// A trailing odd byte is ignored.
func Samples(pcm []byte) []float64 {
	out := make([]float64, len(pcm)/2)
	for i := range out {
		v := int16(uint16(pcm[2*i]) | uint16(pcm[2*i+1])<<8)
		out[i] = float64(v) / 32768
	}
	return out
}

// PCM16 converts float samples into signed 16-bit little-endian PCM,
// clamping to [-1, 1].
func PCM16(samples []float64) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := uint16(int16(math.Round(s * 32767)))
		out[2*i] = byte(v)
		out[2*i+1] = byte(v >> 8)
	}
	return out
}

// ParseRate extracts the rate parameter from an L16 MIME type such as
// "audio/L16;codec=pcm;rate=24000". It returns fallback when absent.
func ParseRate(mimeType string, fallback int) int {
	for _, part := range strings.Split(mimeType, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || !strings.EqualFold(key, "rate") {
			continue
		}
		if rate, err := strconv.Atoi(value); err == nil && rate > 0 {
			return rate
		}
	}
	return fallback
}
