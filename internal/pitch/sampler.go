package pitch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dgnsrekt/vozviva-go/internal/capture"
	"github.com/dgnsrekt/vozviva-go/internal/voice"
)

// DefaultFrameInterval paces spectrum reads at roughly one display frame.
const DefaultFrameInterval = 16 * time.Millisecond

// ErrInvalidTransition is returned when an operation does not apply to the
// sampler's current state.
var ErrInvalidTransition = errors.New("invalid sampler transition")

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("sampler closed")

// State is the phase of the clone flow.
type State string

// Sampler states.
const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StateNaming    State = "naming"
)

// Clone is a saved voice sample.
type Clone struct {
	Name      string          `json:"name"`
	Frequency float64         `json:"frequency"`
	Identity  voice.Identity  `json:"identity"`
	BaseVoice voice.BaseVoice `json:"base_voice"`
}

// Status is a consistent view of the sampler.
type Status struct {
	State     State   `json:"state"`
	Frequency float64 `json:"frequency"`
}

// SamplerConfig holds the analysis parameters.
type SamplerConfig struct {
	FFTSize       int
	FrameInterval time.Duration
}

// Sampler runs the idle, recording, naming cycle. While recording, a pump
// goroutine feeds the analyser from the stream and a ticker folds the
// spectrum peak into the smoothed frequency.
type Sampler struct {
	config SamplerConfig
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	smoother Smoother
	sess     *session
	opening  bool // a Start is waiting on its source; state is still idle
	closed   bool
}

// session owns everything acquired by Start.
type session struct {
	stream   capture.Stream
	analyser *Analyser
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	once     sync.Once
}

// release stops both goroutines and closes the stream, once.
func (s *session) release() {
	s.once.Do(func() {
		s.cancel()
		s.stream.Close()
		s.wg.Wait()
	})
}

// NewSampler creates an idle sampler.
func NewSampler(cfg SamplerConfig, logger *slog.Logger) *Sampler {
	if cfg.FFTSize == 0 {
		cfg.FFTSize = DefaultFFTSize
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}
	return &Sampler{
		config: cfg,
		logger: logger,
		state:  StateIdle,
	}
}

// Start acquires a stream from src and begins sampling. The source is opened
// without holding the sampler lock, so Status stays responsive while a device
// starts. On failure the sampler stays idle and holds nothing.
func (s *Sampler) Start(ctx context.Context, src capture.Source) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrClosed
	case s.opening:
		s.mu.Unlock()
		return fmt.Errorf("%w: start while opening a source", ErrInvalidTransition)
	case s.state != StateIdle:
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: start while %s", ErrInvalidTransition, state)
	}
	s.opening = true
	s.mu.Unlock()

	stream, analyser, err := s.open(ctx, src)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.opening = false

	if err != nil {
		return err
	}
	if s.closed {
		stream.Close()
		return ErrClosed
	}

	runCtx, cancel := context.WithCancel(context.Background())
	sess := &session{
		stream:   stream,
		analyser: analyser,
		cancel:   cancel,
	}

	s.smoother.Reset()
	s.sess = sess
	s.state = StateRecording

	sess.wg.Add(2)
	go s.pump(runCtx, sess)
	go s.track(runCtx, sess)

	s.logger.Info("voice sampling started",
		"sample_rate", stream.SampleRate(),
		"fft_size", s.config.FFTSize,
	)
	return nil
}

// open acquires the stream and its analysis context.
func (s *Sampler) open(ctx context.Context, src capture.Source) (capture.Stream, *Analyser, error) {
	stream, err := src.Open(ctx)
	if err != nil {
		if errors.Is(err, capture.ErrDevice) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", capture.ErrDevice, err)
	}

	analyser, err := NewAnalyser(s.config.FFTSize, stream.SampleRate())
	if err != nil {
		stream.Close()
		return nil, nil, fmt.Errorf("%w: %v", capture.ErrDevice, err)
	}
	return stream, analyser, nil
}

// pump copies stream audio into the analyser. A stream that ends or fails
// while still recording stops the session as if Stop had been called.
func (s *Sampler) pump(ctx context.Context, sess *session) {
	defer sess.wg.Done()
	for {
		samples, err := sess.stream.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Warn("capture stream ended while recording", "error", err)
				go s.finish(sess)
			}
			return
		}
		sess.analyser.Write(samples)
	}
}

// track reads the spectrum once per frame interval.
func (s *Sampler) track(ctx context.Context, sess *session) {
	defer sess.wg.Done()

	ticker := time.NewTicker(s.config.FrameInterval)
	defer ticker.Stop()

	buf := make([]uint8, sess.analyser.FrequencyBinCount())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			buf = sess.analyser.ByteFrequencyData(buf)
			bin, magnitude := PeakBin(buf)
			freq := BinFrequency(bin, sess.analyser.SampleRate(), sess.analyser.FFTSize())

			s.mu.Lock()
			if s.sess == sess {
				s.smoother.Update(magnitude, freq)
			}
			s.mu.Unlock()
		}
	}
}

// finish moves a still-current session to naming.
func (s *Sampler) finish(sess *session) {
	s.mu.Lock()
	if s.sess != sess {
		s.mu.Unlock()
		return
	}
	s.sess = nil
	s.state = StateNaming
	freq := s.smoother.Value()
	s.mu.Unlock()

	sess.release()
	s.logger.Info("voice sampling stopped", "frequency", freq, "reason", "stream ended")
}

// Stop ends recording, releases the stream and returns the final frequency.
func (s *Sampler) Stop() (float64, error) {
	s.mu.Lock()
	if s.state != StateRecording {
		state := s.state
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: stop while %s", ErrInvalidTransition, state)
	}
	sess := s.sess
	s.sess = nil
	s.state = StateNaming
	freq := s.smoother.Value()
	s.mu.Unlock()

	sess.release()
	s.logger.Info("voice sampling stopped", "frequency", freq)
	return freq, nil
}

// Save names the sample and returns to idle. An empty name leaves the
// sampler in naming and reports ok=false.
func (s *Sampler) Save(name string) (Clone, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateNaming {
		return Clone{}, false, fmt.Errorf("%w: save while %s", ErrInvalidTransition, s.state)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Clone{}, false, nil
	}

	freq := s.smoother.Value()
	id := voice.Match(freq)
	s.state = StateIdle

	return Clone{
		Name:      name,
		Frequency: freq,
		Identity:  id,
		BaseVoice: id.BaseVoice(),
	}, true, nil
}

// Cancel discards the sample and returns to idle.
func (s *Sampler) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateNaming {
		return fmt.Errorf("%w: cancel while %s", ErrInvalidTransition, s.state)
	}
	s.state = StateIdle
	return nil
}

// Close ends any recording session, releasing its stream, and makes later
// Starts fail with ErrClosed. A Start still opening its source releases the
// stream it gets. The sampler is left idle.
func (s *Sampler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	sess := s.sess
	s.sess = nil
	s.state = StateIdle
	s.mu.Unlock()

	if sess != nil {
		sess.release()
		s.logger.Info("voice sampling aborted", "reason", "sampler closed")
	}
}

// State returns the current phase.
func (s *Sampler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Frequency returns the smoothed frequency in Hz.
func (s *Sampler) Frequency() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.smoother.Value()
}

// Status returns the state and frequency together.
func (s *Sampler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{State: s.state, Frequency: s.smoother.Value()}
}
