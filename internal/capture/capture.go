// Package capture defines the microphone collaborator used by voice cloning
// and the browser implementation that streams audio over a WebSocket.
package capture

import (
	"context"
	"errors"
	"sync"
)

// ErrDevice is returned when the microphone cannot be acquired or is lost.
var ErrDevice = errors.New("capture device unavailable")

// Source acquires a microphone stream.
type Source interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is an open microphone. Read blocks until the next block of mono
// samples in [-1, 1] is available and returns io.EOF when the stream ends.
// Close releases the device and unblocks a pending Read.
type Stream interface {
	SampleRate() int
	Read(ctx context.Context) ([]float64, error)
	Close() error
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (Stream, error)

// Open calls f.
func (f SourceFunc) Open(ctx context.Context) (Stream, error) {
	return f(ctx)
}

// Opened returns a Source that hands out an already open stream once.
// Later opens fail with ErrDevice.
func Opened(s Stream) Source {
	var once sync.Once
	return SourceFunc(func(ctx context.Context) (Stream, error) {
		var out Stream
		once.Do(func() { out = s })
		if out == nil {
			return nil, errors.Join(ErrDevice, errors.New("stream already claimed"))
		}
		return out, nil
	})
}
