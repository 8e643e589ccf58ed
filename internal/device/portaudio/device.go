// Package portaudio connects the studio to the host's default microphone and
// speakers. The PortAudio binding is compiled only with the portaudio build
// tag; without it the device reports capture.ErrDevice.
package portaudio

import (
	"log/slog"

	"github.com/dgnsrekt/vozviva-go/internal/wav"
)

// FramesPerBuffer is the PortAudio buffer size for capture and playback.
const FramesPerBuffer = 1024

// Source opens the default input device.
type Source struct {
	sampleRate int
	logger     *slog.Logger
}

// NewSource creates a microphone source. A non-positive rate uses the
// device's default rate.
func NewSource(sampleRate int, logger *slog.Logger) *Source {
	return &Source{sampleRate: sampleRate, logger: logger}
}

// Sink plays WAV audio on the default output device.
type Sink struct {
	logger *slog.Logger
}

// NewSink creates a speaker sink.
func NewSink(logger *slog.Logger) *Sink {
	return &Sink{logger: logger}
}

// Name returns the sink identifier.
func (s *Sink) Name() string {
	return "portaudio"
}

// toFloat64 widens a capture buffer into a new slice.
func toFloat64(src []float32) []float64 {
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = float64(v)
	}
	return out
}

// pcmFrames splits the data chunk of a WAV file into interleaved int16
// samples. A trailing odd byte is dropped.
func pcmFrames(data []byte) []int16 {
	pcm := data[wav.HeaderSize:]
	out := make([]int16, len(pcm)/2)
	for i := range out {
		out[i] = int16(wav.LE16(pcm[i*2:]))
	}
	return out
}
