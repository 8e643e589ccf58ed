//go:build !portaudio

package portaudio

import (
	"context"
	"errors"

	"github.com/dgnsrekt/vozviva-go/internal/capture"
)

var errNotBuilt = errors.New("built without portaudio support")

// Open always fails; rebuild with -tags portaudio for device access.
func (s *Source) Open(ctx context.Context) (capture.Stream, error) {
	return nil, errors.Join(capture.ErrDevice, errNotBuilt)
}

// Play always fails; rebuild with -tags portaudio for device access.
func (s *Sink) Play(ctx context.Context, data []byte) error {
	return errors.Join(capture.ErrDevice, errNotBuilt)
}
