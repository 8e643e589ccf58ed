package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/dgnsrekt/vozviva-go/internal/capture"
	"github.com/dgnsrekt/vozviva-go/internal/media"
	"github.com/dgnsrekt/vozviva-go/internal/pitch"
	"github.com/dgnsrekt/vozviva-go/internal/playback"
	"github.com/dgnsrekt/vozviva-go/internal/tts"
	"github.com/dgnsrekt/vozviva-go/internal/voice"
	"github.com/dgnsrekt/vozviva-go/internal/wav"
)

var (
	// ErrBusy is returned when a synthesis is already in flight.
	ErrBusy = errors.New("a generation is already in progress")
	// ErrNotFound is returned for an unknown history item, voice or resource.
	ErrNotFound = errors.New("not found")
)

// PreviewFallbackName is used in the demo phrase when the voice has no name.
const PreviewFallbackName = "tu asistente"

// Config holds studio limits.
type Config struct {
	// MaxTextLength caps the script length in characters; 0 disables it.
	MaxTextLength int
}

// Deps are the collaborators a Studio drives.
type Deps struct {
	Engines *tts.Registry
	Media   *media.Store
	Slot    *playback.Slot
	Sampler *pitch.Sampler
	// Meter is optional; nil records nothing.
	Meter metric.Meter
}

// Studio is the single-session application service.
type Studio struct {
	config  Config
	store   *Store
	engines *tts.Registry
	media   *media.Store
	slot    *playback.Slot
	sampler *pitch.Sampler
	metrics *metrics
	logger  *slog.Logger

	busy atomic.Bool
	now  func() time.Time
}

// New creates a studio over the static voice catalog.
func New(cfg Config, static []voice.Option, deps Deps, logger *slog.Logger) (*Studio, error) {
	store := NewStore(NewState(static))

	m, err := newMetrics(deps.Meter, store, deps.Media)
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	return &Studio{
		config:  cfg,
		store:   store,
		engines: deps.Engines,
		media:   deps.Media,
		slot:    deps.Slot,
		sampler: deps.Sampler,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// State returns the current session state.
func (s *Studio) State() State {
	return s.store.State()
}

// Voices returns static and custom voices.
func (s *Studio) Voices() []voice.Option {
	return s.store.State().Voices()
}

// History returns history items, newest first.
func (s *Studio) History() []HistoryItem {
	return s.store.State().History
}

// Busy reports whether a synthesis is in flight.
func (s *Studio) Busy() bool {
	return s.busy.Load()
}

// ConfigPatch is a partial update of the generation choices. Enumerated
// fields accept a code or a display label.
type ConfigPatch struct {
	Text    *string `json:"text,omitempty"`
	VoiceID *string `json:"voice_id,omitempty"`
	Region  *string `json:"region,omitempty"`
	Style   *string `json:"style,omitempty"`
	Speed   *string `json:"speed,omitempty"`
	Pitch   *string `json:"pitch,omitempty"`
}

// UpdateConfig validates every field of p and then applies them together.
func (s *Studio) UpdateConfig(p ConfigPatch) (tts.GenerationConfig, error) {
	var actions []Action
	var errs []error

	if p.Text != nil {
		actions = append(actions, SetText{Text: *p.Text})
	}
	if p.VoiceID != nil {
		if _, ok := voice.Find(s.Voices(), *p.VoiceID); ok {
			actions = append(actions, SetVoice{ID: *p.VoiceID})
		} else {
			errs = append(errs, fmt.Errorf("%w: voice %q", tts.ErrInvalidOption, *p.VoiceID))
		}
	}
	if p.Region != nil {
		r, err := tts.ParseRegion(*p.Region)
		errs = append(errs, err)
		actions = append(actions, SetRegion{Region: r})
	}
	if p.Style != nil {
		v, err := tts.ParseStyle(*p.Style)
		errs = append(errs, err)
		actions = append(actions, SetStyle{Style: v})
	}
	if p.Speed != nil {
		v, err := tts.ParseSpeed(*p.Speed)
		errs = append(errs, err)
		actions = append(actions, SetSpeed{Speed: v})
	}
	if p.Pitch != nil {
		v, err := tts.ParsePitch(*p.Pitch)
		errs = append(errs, err)
		actions = append(actions, SetPitch{Pitch: v})
	}

	if err := errors.Join(errs...); err != nil {
		return s.store.State().Config, err
	}

	var next State
	for _, a := range actions {
		_, next = s.store.Dispatch(a)
	}
	if len(actions) == 0 {
		next = s.store.State()
	}
	return next.Config, nil
}

// InsertTag inserts a known stage-direction tag over the rune range
// [start, end) of the text and returns the new text and cursor.
func (s *Studio) InsertTag(start, end int, tag string) (string, int, error) {
	known := false
	for _, t := range tts.Tags {
		if t.Tag == tag {
			known = true
			break
		}
	}
	if !known {
		return "", 0, fmt.Errorf("%w: tag %q", tts.ErrInvalidOption, tag)
	}

	_, next := s.store.Dispatch(InsertTag{Start: start, End: end, Tag: tag})
	return next.Config.Text, next.Cursor, nil
}

// acquire claims the in-flight flag.
func (s *Studio) acquire(ctx context.Context, kind string) error {
	if !s.busy.CompareAndSwap(false, true) {
		s.metrics.recordGeneration(ctx, kind, outcomeBusy, 0)
		return ErrBusy
	}
	return nil
}

// synthesize runs one request on the default engine. The caller's
// cancellation is detached: an in-flight generation always runs to completion
// or to the engine's own timeout.
func (s *Studio) synthesize(ctx context.Context, kind string, req tts.SpeechRequest) (*tts.AudioResult, error) {
	engine, err := s.engines.Default()
	if err != nil {
		return nil, err
	}

	start := s.now()
	result, err := engine.Synthesize(context.WithoutCancel(ctx), req)
	elapsed := s.now().Sub(start)

	if err != nil {
		s.metrics.recordGeneration(ctx, kind, outcomeError, elapsed)
		s.logger.Error("synthesis failed",
			"kind", kind,
			"engine", engine.Name(),
			"base_voice", req.BaseVoice,
			"error", err,
		)
		return nil, err
	}

	s.metrics.recordGeneration(ctx, kind, outcomeOK, elapsed)
	s.logger.Info("synthesis complete",
		"kind", kind,
		"engine", engine.Name(),
		"base_voice", req.BaseVoice,
		"bytes", len(result.Data),
		"elapsed", elapsed,
	)
	return result, nil
}

// Generate synthesizes the current configuration and prepends the result to
// history. Input is validated before the busy check and before any engine
// call; history changes only on success.
func (s *Studio) Generate(ctx context.Context) (HistoryItem, error) {
	state := s.store.State()
	cfg := state.Config
	if err := cfg.Validate(s.config.MaxTextLength); err != nil {
		return HistoryItem{}, err
	}

	if err := s.acquire(ctx, "generate"); err != nil {
		return HistoryItem{}, err
	}
	defer s.busy.Store(false)

	req := tts.BuildRequest(cfg, state.Voices())
	result, err := s.synthesize(ctx, "generate", req)
	if err != nil {
		return HistoryItem{}, err
	}

	created := s.now()
	resource := s.media.Put(result.Data, wav.ContentType)
	item := HistoryItem{
		ID:        uuid.New().String(),
		Text:      strings.TrimSpace(cfg.Text),
		AudioID:   resource.ID,
		AudioURL:  resource.URL(),
		Filename:  wav.Filename(created),
		Bytes:     len(result.Data),
		CreatedAt: created,
		VoiceName: req.VoiceName,
		Style:     cfg.Style,
		Region:    cfg.Region,
	}
	s.store.Dispatch(AddHistory{Item: item})

	s.logger.Info("history item added", "history_id", item.ID, "voice_id", cfg.VoiceID)
	return item, nil
}

// PreviewText returns the demo phrase for a voice.
func PreviewText(name string) string {
	if name == "" {
		name = PreviewFallbackName
	}
	return "Hola, soy " + name + ". Así suena mi voz."
}

// Preview synthesizes the demo phrase for voiceID in the current region
// with neutral style, speed and pitch, and plays it. It is not added to
// history.
func (s *Studio) Preview(ctx context.Context, voiceID string) (*tts.AudioResult, error) {
	state := s.store.State()
	v, ok := voice.Find(state.Voices(), voiceID)
	if !ok {
		return nil, fmt.Errorf("%w: voice %q", ErrNotFound, voiceID)
	}

	if err := s.acquire(ctx, "preview"); err != nil {
		return nil, err
	}
	defer s.busy.Store(false)

	cfg := tts.GenerationConfig{
		Text:    PreviewText(v.Name),
		VoiceID: voiceID,
		Region:  state.Config.Region,
		Style:   tts.StyleNatural,
		Speed:   tts.SpeedMedium,
		Pitch:   tts.PitchMedium,
	}
	result, err := s.synthesize(ctx, "preview", tts.BuildRequest(cfg, state.Voices()))
	if err != nil {
		return nil, err
	}

	if err := s.slot.Play(playback.NewItem("preview:"+voiceID, result.Data)); err != nil {
		s.logger.Warn("preview playback unavailable", "voice_id", voiceID, "error", err)
	}
	return result, nil
}

// Audio returns a history item and its WAV bytes.
func (s *Studio) Audio(historyID string) (HistoryItem, []byte, error) {
	item, ok := s.store.State().FindHistory(historyID)
	if !ok {
		return HistoryItem{}, nil, fmt.Errorf("%w: history item %q", ErrNotFound, historyID)
	}
	resource, ok := s.media.Get(item.AudioID)
	if !ok {
		return HistoryItem{}, nil, fmt.Errorf("%w: audio for %q", ErrNotFound, historyID)
	}
	return item, resource.Data, nil
}

// Media returns a live resource by id.
func (s *Studio) Media(id string) (media.Resource, error) {
	r, ok := s.media.Get(id)
	if !ok {
		return media.Resource{}, fmt.Errorf("%w: media %q", ErrNotFound, id)
	}
	return r, nil
}

// DeleteHistory removes one item and releases its audio. Unknown ids are a
// no-op and report false.
func (s *Studio) DeleteHistory(id string) bool {
	prev, next := s.store.Dispatch(DeleteHistory{ID: id})
	if len(prev.History) == len(next.History) {
		return false
	}

	item, _ := prev.FindHistory(id)
	s.slot.StopSource(id)
	s.media.Revoke(item.AudioID)

	s.logger.Info("history item deleted", "history_id", id)
	return true
}

// Play starts playback of a history item, interrupting whatever is playing.
func (s *Studio) Play(historyID string) (*playback.Item, error) {
	_, data, err := s.Audio(historyID)
	if err != nil {
		return nil, err
	}
	item := playback.NewItem(historyID, data)
	if err := s.slot.Play(item); err != nil {
		return nil, err
	}
	return item, nil
}

// PlaybackStatus describes the playback slot.
type PlaybackStatus struct {
	Playing bool   `json:"playing"`
	ItemID  string `json:"item_id,omitempty"`
	Source  string `json:"source,omitempty"`
}

// Playback returns the slot's current item.
func (s *Studio) Playback() PlaybackStatus {
	cur, ok := s.slot.Current()
	if !ok {
		return PlaybackStatus{}
	}
	return PlaybackStatus{Playing: true, ItemID: cur.ID, Source: cur.Source}
}

// StopPlayback stops the playing item, reporting whether one was playing.
func (s *Studio) StopPlayback() bool {
	return s.slot.Stop()
}

// StartClone begins sampling from src.
func (s *Studio) StartClone(ctx context.Context, src capture.Source) error {
	return s.sampler.Start(ctx, src)
}

// StopClone ends sampling and returns the final frequency.
func (s *Studio) StopClone() (float64, error) {
	return s.sampler.Stop()
}

// SaveClone turns the sample into a custom voice and selects it. A blank
// name is a no-op reporting false.
func (s *Studio) SaveClone(ctx context.Context, name string) (voice.Option, bool, error) {
	clone, ok, err := s.sampler.Save(name)
	if err != nil || !ok {
		return voice.Option{}, false, err
	}

	v := voice.Option{
		ID:        "custom-" + uuid.New().String(),
		Name:      clone.Name,
		Gender:    voice.GenderCustom,
		BaseVoice: clone.BaseVoice,
		Custom:    true,
	}
	s.store.Dispatch(AddCustomVoice{Voice: v})
	s.metrics.recordClone(ctx, string(v.BaseVoice))

	s.logger.Info("custom voice saved",
		"voice_id", v.ID,
		"frequency", clone.Frequency,
		"identity", clone.Identity,
		"base_voice", v.BaseVoice,
	)
	return v, true, nil
}

// CancelClone discards the sample.
func (s *Studio) CancelClone() error {
	return s.sampler.Cancel()
}

// Close ends any recording session. Later clone starts fail.
func (s *Studio) Close() {
	s.sampler.Close()
}

// CloneStatus returns the sampler's state and frequency.
func (s *Studio) CloneStatus() pitch.Status {
	return s.sampler.Status()
}
