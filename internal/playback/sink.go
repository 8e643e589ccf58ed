package playback

import (
	"context"
	"time"

	"github.com/dgnsrekt/vozviva-go/internal/wav"
)

// Sink renders WAV audio. Play blocks until the audio ends or ctx is done.
type Sink interface {
	Play(ctx context.Context, data []byte) error
	Name() string
}

// ClockSink does not render audio. It holds the slot for the file's
// duration, tracking playback that happens in the browser.
type ClockSink struct{}

// Name returns the sink identifier.
func (ClockSink) Name() string {
	return "clock"
}

// Play waits for the WAV duration or for cancellation.
func (ClockSink) Play(ctx context.Context, data []byte) error {
	d, err := wav.Duration(data)
	if err != nil {
		return err
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
