//go:build portaudio

package portaudio

import (
	"context"
	"fmt"
	"io"
	"sync"

	pa "github.com/gordonklaus/portaudio"

	"github.com/dgnsrekt/vozviva-go/internal/capture"
	"github.com/dgnsrekt/vozviva-go/internal/wav"
)

// Open initializes PortAudio and starts the default input device.
func (s *Source) Open(ctx context.Context) (capture.Stream, error) {
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: failed to initialize portaudio: %v", capture.ErrDevice, err)
	}

	dev, err := pa.DefaultInputDevice()
	if err != nil {
		pa.Terminate()
		return nil, fmt.Errorf("%w: no default input device: %v", capture.ErrDevice, err)
	}

	rate := float64(s.sampleRate)
	if rate <= 0 {
		rate = dev.DefaultSampleRate
	}

	buf := make([]float32, FramesPerBuffer)
	params := pa.StreamParameters{
		Input: pa.StreamDeviceParameters{
			Device:   dev,
			Channels: 1,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      rate,
		FramesPerBuffer: FramesPerBuffer,
	}

	stream, err := pa.OpenStream(params, buf)
	if err != nil {
		pa.Terminate()
		return nil, fmt.Errorf("%w: failed to open input stream: %v", capture.ErrDevice, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		pa.Terminate()
		return nil, fmt.Errorf("%w: failed to start input stream: %v", capture.ErrDevice, err)
	}

	s.logger.Info("microphone opened", "device", dev.Name, "sample_rate", rate)
	return &inputStream{stream: stream, buf: buf, rate: int(rate)}, nil
}

// inputStream is an open PortAudio capture stream.
type inputStream struct {
	mu     sync.Mutex
	stream *pa.Stream
	buf    []float32
	rate   int
	closed bool
}

func (s *inputStream) SampleRate() int {
	return s.rate
}

// Read blocks for one buffer. Close waits for a pending Read to return.
func (s *inputStream) Read(ctx context.Context) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, io.EOF
	}
	if err := s.stream.Read(); err != nil && err != pa.InputOverflowed {
		return nil, fmt.Errorf("%w: %v", capture.ErrDevice, err)
	}
	return toFloat64(s.buf), nil
}

func (s *inputStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	s.stream.Stop()
	err := s.stream.Close()
	pa.Terminate()
	return err
}

// Play writes the WAV file to the default output device, returning early
// when ctx is cancelled.
func (s *Sink) Play(ctx context.Context, data []byte) error {
	h, err := wav.ParseHeader(data)
	if err != nil {
		return err
	}
	channels := int(h.Channels)
	frames := pcmFrames(data)

	if err := pa.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	defer pa.Terminate()

	out := make([]int16, FramesPerBuffer*channels)
	stream, err := pa.OpenDefaultStream(0, channels, float64(h.SampleRate), FramesPerBuffer, out)
	if err != nil {
		return fmt.Errorf("failed to open output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start output stream: %w", err)
	}
	defer stream.Stop()

	for off := 0; off < len(frames); off += len(out) {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := copy(out, frames[off:])
		clear(out[n:])
		if err := stream.Write(); err != nil && err != pa.OutputUnderflowed {
			return fmt.Errorf("failed to write audio: %w", err)
		}
	}

	s.logger.Debug("speaker playback finished", "bytes", len(data))
	return nil
}
