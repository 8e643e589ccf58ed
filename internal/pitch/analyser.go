// Package pitch estimates a speaker's dominant frequency from live
// microphone audio and drives the record, name and save flow of voice cloning.
package pitch

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
)

// Analyser defaults, matching a browser AnalyserNode.
const (
	DefaultFFTSize     = 2048
	DefaultSmoothing   = 0.8
	DefaultMinDecibels = -100.0
	DefaultMaxDecibels = -30.0
	minFFTSize         = 32
	maxFFTSize         = 32768
)

// ErrInvalidFFTSize is returned for a size that is not a power of two in [32, 32768].
var ErrInvalidFFTSize = errors.New("fft size must be a power of two between 32 and 32768")

// Analyser keeps the most recent fftSize samples of a stream and produces a
// smoothed, byte-scaled magnitude spectrum on demand.
type Analyser struct {
	mu sync.Mutex

	size       int
	sampleRate int
	smoothing  float64
	minDB      float64
	maxDB      float64

	ring   []float64
	pos    int
	window []float64
	frame  []float64
	prev   []float64
}

// NewAnalyser creates an analyser over fftSize-sample frames at sampleRate.
func NewAnalyser(fftSize, sampleRate int) (*Analyser, error) {
	if fftSize < minFFTSize || fftSize > maxFFTSize || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	return &Analyser{
		size:       fftSize,
		sampleRate: sampleRate,
		smoothing:  DefaultSmoothing,
		minDB:      DefaultMinDecibels,
		maxDB:      DefaultMaxDecibels,
		ring:       make([]float64, fftSize),
		window:     blackman(fftSize),
		frame:      make([]float64, fftSize),
		prev:       make([]float64, fftSize/2),
	}, nil
}

// blackman returns the a=0.16 Blackman window of length n.
func blackman(n int) []float64 {
	const a0, a1, a2 = 0.42, 0.5, 0.08
	w := make([]float64, n)
	for i := range w {
		x := 2 * math.Pi * float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
	}
	return w
}

// FFTSize returns the frame length.
func (a *Analyser) FFTSize() int { return a.size }

// SampleRate returns the input rate in Hz.
func (a *Analyser) SampleRate() int { return a.sampleRate }

// FrequencyBinCount returns the number of spectrum bins, fftSize/2.
func (a *Analyser) FrequencyBinCount() int { return a.size / 2 }

// Write appends samples to the analysis window, dropping the oldest.
func (a *Analyser) Write(samples []float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(samples) > a.size {
		samples = samples[len(samples)-a.size:]
	}
	for _, s := range samples {
		a.ring[a.pos] = s
		a.pos = (a.pos + 1) % a.size
	}
}

// ByteFrequencyData writes the current spectrum into dst, growing it if
// needed, and returns it. Each call advances the time smoothing by one step.
func (a *Analyser) ByteFrequencyData(dst []uint8) []uint8 {
	a.mu.Lock()
	defer a.mu.Unlock()

	bins := a.size / 2
	if cap(dst) < bins {
		dst = make([]uint8, bins)
	}
	dst = dst[:bins]

	// oldest sample first
	for i := range a.frame {
		a.frame[i] = a.ring[(a.pos+i)%a.size] * a.window[i]
	}
	spectrum := fft.FFTReal(a.frame)

	scale := 255 / (a.maxDB - a.minDB)
	for k := 0; k < bins; k++ {
		mag := cmplx.Abs(spectrum[k]) / float64(a.size)
		a.prev[k] = a.smoothing*a.prev[k] + (1-a.smoothing)*mag

		if a.prev[k] == 0 {
			dst[k] = 0
			continue
		}
		db := 20 * math.Log10(a.prev[k])
		v := math.Floor(scale * (db - a.minDB))
		switch {
		case v < 0:
			dst[k] = 0
		case v > 255:
			dst[k] = 255
		default:
			dst[k] = uint8(v)
		}
	}
	return dst
}

// PeakBin returns the index and magnitude of the loudest bin. Ties resolve
// to the lowest index; an empty spectrum yields (0, 0).
func PeakBin(spectrum []uint8) (int, uint8) {
	bin, peak := 0, uint8(0)
	for i, m := range spectrum {
		if m > peak {
			bin, peak = i, m
		}
	}
	return bin, peak
}

// BinFrequency converts a bin index to Hz.
func BinFrequency(bin, sampleRate, fftSize int) float64 {
	return float64(bin) * float64(sampleRate) / float64(fftSize)
}
