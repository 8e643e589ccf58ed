package tts

import (
	"context"
	"math"
	"time"

	"github.com/dgnsrekt/vozviva-go/internal/audio"
	"github.com/dgnsrekt/vozviva-go/internal/voice"
	"github.com/dgnsrekt/vozviva-go/internal/wav"
)

// ToneEngine is an offline engine that renders a sine tone per base voice.
// It exercises the full PCM to WAV path without a credential.
type ToneEngine struct {
	// PerRune is the tone length contributed by each character of text.
	PerRune time.Duration
}

// Tone length bounds.
const (
	toneMin       = 300 * time.Millisecond
	toneMax       = 10 * time.Second
	toneAmplitude = 0.3
)

var toneFrequencies = map[voice.BaseVoice]float64{
	voice.Charon: 110,
	voice.Fenrir: 150,
	voice.Zephyr: 180,
	voice.Kore:   220,
	voice.Puck:   280,
}

// NewToneEngine creates a tone engine.
func NewToneEngine() *ToneEngine {
	return &ToneEngine{PerRune: 60 * time.Millisecond}
}

// Name returns the engine identifier.
func (t *ToneEngine) Name() string {
	return "tone"
}

// Synthesize renders a tone whose length follows the script length.
func (t *ToneEngine) Synthesize(ctx context.Context, req SpeechRequest) (*AudioResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	freq, ok := toneFrequencies[req.BaseVoice]
	if !ok {
		freq = toneFrequencies[voice.FallbackBaseVoice]
	}

	d := time.Duration(len([]rune(req.Config.Text))) * t.PerRune
	if d < toneMin {
		d = toneMin
	}
	if d > toneMax {
		d = toneMax
	}

	n := int(d * wav.GeminiSampleRate / time.Second)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = toneAmplitude * math.Sin(2*math.Pi*freq*float64(i)/wav.GeminiSampleRate)
	}

	return &AudioResult{
		Data:       wav.EncodeMono(audio.PCM16(samples)),
		Format:     "wav",
		SampleRate: wav.GeminiSampleRate,
		Channels:   wav.GeminiChannels,
	}, nil
}
