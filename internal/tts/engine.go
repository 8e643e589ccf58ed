// Package tts builds speech requests from the studio's choices and turns them
// into WAV audio through a pluggable synthesis engine.
package tts

import (
	"bytes"
	"context"
	"errors"
)

var (
	// ErrMissingCredential is returned when no API key is configured.
	ErrMissingCredential = errors.New("API key not configured")
	// ErrGeneration is returned when the remote call succeeds without audio.
	ErrGeneration = errors.New("speech generation failed")
	// ErrNoAudio marks a response that carried no audio payload.
	ErrNoAudio = errors.New("no audio generated; try simplifying the text or tags")
	// ErrRemote is returned when the speech API call fails.
	ErrRemote = errors.New("speech API request failed")
)

// AudioResult represents synthesized audio output.
type AudioResult struct {
	// Data contains the WAV file bytes.
	Data []byte
	// Format is the container name ("wav").
	Format string
	// SampleRate is the audio sample rate in Hz.
	SampleRate int
	// Channels is the number of audio channels.
	Channels int
}

// Reader returns a seekable reader over the WAV bytes.
func (a *AudioResult) Reader() *bytes.Reader {
	return bytes.NewReader(a.Data)
}

// Engine is the interface for text-to-speech synthesis.
type Engine interface {
	// Synthesize renders a request to WAV audio.
	Synthesize(ctx context.Context, req SpeechRequest) (*AudioResult, error)
	// Name returns the engine identifier.
	Name() string
}
