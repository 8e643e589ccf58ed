// Package playback owns the single audio output slot: starting an item
// interrupts whatever is playing.
package playback

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrSlotClosed is returned when playing on a closed slot.
var ErrSlotClosed = errors.New("playback slot is closed")

// FinishCallback is called after each item stops, with the sink's error.
type FinishCallback func(item *Item, err error)

// Slot plays at most one item at a time on a single worker goroutine.
type Slot struct {
	mu            sync.Mutex
	sink          Sink
	logger        *slog.Logger
	pending       *Item
	current       *Item
	cancelCurrent context.CancelFunc
	onFinish      FinishCallback
	closed        bool
	wg            sync.WaitGroup
	stopCh        chan struct{}
	playCh        chan struct{}
}

// NewSlot creates a slot rendering to sink.
func NewSlot(sink Sink, logger *slog.Logger) *Slot {
	return &Slot{
		sink:   sink,
		logger: logger,
		stopCh: make(chan struct{}),
		playCh: make(chan struct{}, 1),
	}
}

// SetFinishCallback sets the function called when an item stops.
func (s *Slot) SetFinishCallback(fn FinishCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFinish = fn
}

// Start begins the worker goroutine.
func (s *Slot) Start() {
	s.wg.Add(1)
	go s.worker()
}

// Close stops the current item and the worker.
func (s *Slot) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.pending = nil
	if s.cancelCurrent != nil {
		s.cancelCurrent()
	}
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
}

// Play interrupts the current item and makes item the next to play.
func (s *Slot) Play(item *Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSlotClosed
	}

	if s.cancelCurrent != nil {
		s.cancelCurrent()
	}
	if s.pending != nil {
		s.logger.Debug("replacing pending item", "item_id", s.pending.ID)
	}
	s.pending = item

	select {
	case s.playCh <- struct{}{}:
	default:
	}
	return nil
}

// Stop interrupts the current item and drops any pending one. It reports
// whether anything was stopped.
func (s *Slot) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	stopped := s.pending != nil || s.current != nil
	s.pending = nil
	if s.cancelCurrent != nil {
		s.cancelCurrent()
	}
	if stopped {
		s.logger.Info("playback stopped")
	}
	return stopped
}

// StopSource stops the current or pending item only if it plays source,
// checking and cancelling under one lock. It reports whether anything was
// stopped.
func (s *Slot) StopSource(source string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	stopped := false
	if s.pending != nil && s.pending.Source == source {
		s.pending = nil
		stopped = true
	}
	if s.current != nil && s.current.Source == source && s.cancelCurrent != nil {
		s.cancelCurrent()
		stopped = true
	}
	if stopped {
		s.logger.Info("playback stopped", "source", source)
	}
	return stopped
}

// Current returns the playing item, if any.
func (s *Slot) Current() (*Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != nil
}

func (s *Slot) worker() {
	defer s.wg.Done()

	for {
		if item := s.take(); item != nil {
			s.play(item)
			continue
		}

		select {
		case <-s.stopCh:
			return
		case <-s.playCh:
		}
	}
}

func (s *Slot) take() *Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.pending
	s.pending = nil
	return item
}

func (s *Slot) play(item *Item) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return
	}
	s.current = item
	s.cancelCurrent = cancel
	s.mu.Unlock()

	s.logger.Info("playback started", "item_id", item.ID, "source", item.Source, "sink", s.sink.Name())
	err := s.sink.Play(ctx, item.Data)
	cancel()

	s.mu.Lock()
	s.current = nil
	s.cancelCurrent = nil
	callback := s.onFinish
	s.mu.Unlock()

	switch {
	case errors.Is(err, context.Canceled):
		s.logger.Info("playback interrupted", "item_id", item.ID)
	case err != nil:
		s.logger.Error("playback failed", "item_id", item.ID, "error", err)
	default:
		s.logger.Info("playback complete", "item_id", item.ID)
	}

	if callback != nil {
		callback(item, err)
	}
}
