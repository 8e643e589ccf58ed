package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dgnsrekt/vozviva-go/internal/audio"
	"github.com/dgnsrekt/vozviva-go/internal/capture"
	"github.com/dgnsrekt/vozviva-go/internal/config"
	"github.com/dgnsrekt/vozviva-go/internal/logging"
	"github.com/dgnsrekt/vozviva-go/internal/media"
	"github.com/dgnsrekt/vozviva-go/internal/pitch"
	"github.com/dgnsrekt/vozviva-go/internal/playback"
	"github.com/dgnsrekt/vozviva-go/internal/studio"
	"github.com/dgnsrekt/vozviva-go/internal/tts"
	"github.com/dgnsrekt/vozviva-go/internal/voice"
	"github.com/dgnsrekt/vozviva-go/internal/wav"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			HTTPPort:      8080,
			BearerToken:   "test-token",
			MaxTextLength: 100,
		},
		TTS: config.TTSConfig{
			Engine:  config.EngineTone,
			Timeout: 45 * time.Second,
		},
		Logging: config.LoggingConfig{Level: "info", Format: "text"},
	}
}

// stubEngine returns err, or blocks until release is closed, or falls back
// to the tone engine.
type stubEngine struct {
	err     error
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (e *stubEngine) Name() string { return "stub" }

func (e *stubEngine) Synthesize(ctx context.Context, req tts.SpeechRequest) (*tts.AudioResult, error) {
	if e.started != nil {
		e.once.Do(func() { close(e.started) })
	}
	if e.release != nil {
		<-e.release
	}
	if e.err != nil {
		return nil, e.err
	}
	return tts.NewToneEngine().Synthesize(ctx, req)
}

func newTestServer(t *testing.T, cfg *config.Config, engine tts.Engine, opts Options) *Server {
	t.Helper()
	logger := logging.New("error", "text") // quiet logger for tests

	engines, err := tts.NewRegistryWith(engine.Name(), engine)
	if err != nil {
		t.Fatalf("NewRegistryWith() error = %v", err)
	}
	slot := playback.NewSlot(playback.ClockSink{}, logger)
	slot.Start()
	t.Cleanup(slot.Close)

	st, err := studio.New(studio.Config{MaxTextLength: cfg.Server.MaxTextLength}, voice.Static(), studio.Deps{
		Engines: engines,
		Media:   media.NewStore(),
		Slot:    slot,
		Sampler: pitch.NewSampler(pitch.SamplerConfig{FrameInterval: 5 * time.Millisecond}, logger),
	}, logger)
	if err != nil {
		t.Fatalf("studio.New() error = %v", err)
	}
	return New(cfg, logger, st, opts)
}

func testServer(cfg *config.Config) *Server {
	logger := logging.New("error", "text")
	engines, _ := tts.NewRegistryWith("tone", tts.NewToneEngine())
	st, _ := studio.New(studio.Config{MaxTextLength: cfg.Server.MaxTextLength}, voice.Static(), studio.Deps{
		Engines: engines,
		Media:   media.NewStore(),
		Slot:    playback.NewSlot(playback.ClockSink{}, logger),
		Sampler: pitch.NewSampler(pitch.SamplerConfig{}, logger),
	}, logger)
	return New(cfg, logger, st, Options{})
}

// do sends a request through the full route table with a valid token.
func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", "Bearer test-token")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	cfg := testConfig()
	srv := testServer(cfg)

	req := httptest.NewRequest("GET", "/v1/healthz", nil)
	w := httptest.NewRecorder()

	srv.handleHealthz(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := decode[HealthResponse](t, w)
	if resp.Status != "ok" {
		t.Errorf("expected status 'ok', got '%s'", resp.Status)
	}
	if resp.Busy {
		t.Error("expected busy=false")
	}
}

func TestVoicesAndTags(t *testing.T) {
	srv := testServer(testConfig())

	voices := decode[VoicesResponse](t, do(t, srv, "GET", "/v1/voices", ""))
	if len(voices.Voices) != 12 {
		t.Errorf("expected 12 voices, got %d", len(voices.Voices))
	}

	tags := decode[TagsResponse](t, do(t, srv, "GET", "/v1/tags", ""))
	if len(tags.Tags) != len(tts.Tags) {
		t.Errorf("expected %d tags, got %d", len(tts.Tags), len(tags.Tags))
	}
}

func TestConfigRoutes(t *testing.T) {
	srv := testServer(testConfig())

	got := decode[ConfigResponse](t, do(t, srv, "GET", "/v1/config", ""))
	if got.Config != tts.DefaultConfig() {
		t.Errorf("default config = %+v", got.Config)
	}
	if len(got.Options.Regions) != 4 {
		t.Errorf("expected 4 regions, got %d", len(got.Options.Regions))
	}

	w := do(t, srv, "PATCH", "/v1/config", `{"voice_id":"f3","region":"México","speed":"fast"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	got = decode[ConfigResponse](t, w)
	if got.Config.VoiceID != "f3" || got.Config.Region != tts.RegionMX || got.Config.Speed != tts.SpeedFast {
		t.Errorf("patched config = %+v", got.Config)
	}

	w = do(t, srv, "PATCH", "/v1/config", `{"style":"screaming"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	w = do(t, srv, "PATCH", "/v1/config", `{invalid json}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestInsertTagRoute(t *testing.T) {
	srv := testServer(testConfig())
	do(t, srv, "PATCH", "/v1/config", `{"text":"Hola amigo"}`)

	w := do(t, srv, "POST", "/v1/config/tags", `{"start":4,"end":4,"tag":"[risa]"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	resp := decode[InsertTagResponse](t, w)
	if resp.Text != "Hola [risa]  amigo" || resp.Cursor != 12 {
		t.Errorf("unexpected insert result %+v", resp)
	}

	w = do(t, srv, "POST", "/v1/config/tags", `{"start":0,"end":0,"tag":"[baile]"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGenerateHistoryFlow(t *testing.T) {
	srv := newTestServer(t, testConfig(), tts.NewToneEngine(), Options{})

	w := do(t, srv, "POST", "/v1/generate", `{"text":"Hola mundo","voice_id":"f1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	item := decode[studio.HistoryItem](t, w)
	if item.VoiceName != "Sofía" || item.Text != "Hola mundo" {
		t.Errorf("unexpected history item %+v", item)
	}

	history := decode[HistoryResponse](t, do(t, srv, "GET", "/v1/history", ""))
	if len(history.Items) != 1 || history.Items[0].ID != item.ID {
		t.Fatalf("unexpected history %+v", history.Items)
	}

	// Download is byte-identical to the playable resource.
	dl := do(t, srv, "GET", "/v1/history/"+item.ID+"/download", "")
	if dl.Code != http.StatusOK {
		t.Fatalf("download status %d", dl.Code)
	}
	if ct := dl.Header().Get("Content-Type"); ct != "audio/wav" {
		t.Errorf("Content-Type = %q", ct)
	}
	wantDisposition := fmt.Sprintf("attachment; filename=%q", item.Filename)
	if cd := dl.Header().Get("Content-Disposition"); cd != wantDisposition {
		t.Errorf("Content-Disposition = %q, want %q", cd, wantDisposition)
	}
	res := do(t, srv, "GET", item.AudioURL, "")
	if res.Code != http.StatusOK || !bytes.Equal(res.Body.Bytes(), dl.Body.Bytes()) {
		t.Error("media body differs from download")
	}
	if _, err := wav.ParseHeader(dl.Body.Bytes()); err != nil {
		t.Errorf("download is not a WAV file: %v", err)
	}

	// Play, then stop.
	play := do(t, srv, "POST", "/v1/history/"+item.ID+"/play", "")
	if play.Code != http.StatusAccepted {
		t.Fatalf("play status %d: %s", play.Code, play.Body.String())
	}
	if status := decode[studio.PlaybackStatus](t, play); status.Source != item.ID {
		t.Errorf("playback source = %q", status.Source)
	}
	do(t, srv, "POST", "/v1/playback/stop", "")

	// Delete releases the media.
	del := decode[DeleteResponse](t, do(t, srv, "DELETE", "/v1/history/"+item.ID, ""))
	if !del.Deleted {
		t.Error("expected deleted=true")
	}
	if w := do(t, srv, "GET", item.AudioURL, ""); w.Code != http.StatusNotFound {
		t.Errorf("media after delete status %d, want 404", w.Code)
	}
	if w := do(t, srv, "GET", "/v1/history/"+item.ID+"/download", ""); w.Code != http.StatusNotFound {
		t.Errorf("download after delete status %d, want 404", w.Code)
	}
	del = decode[DeleteResponse](t, do(t, srv, "DELETE", "/v1/history/"+item.ID, ""))
	if del.Deleted {
		t.Error("second delete reported deleted=true")
	}
}

func TestDownloadRangeAndConditional(t *testing.T) {
	srv := newTestServer(t, testConfig(), tts.NewToneEngine(), Options{})
	item := decode[studio.HistoryItem](t, do(t, srv, "POST", "/v1/generate", `{"text":"Hola"}`))

	path := "/v1/history/" + item.ID + "/download"
	get := func(header, value string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", path, nil)
		req.Header.Set(header, value)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		return w
	}

	w := get("Range", "bytes=0-43")
	if w.Code != http.StatusPartialContent {
		t.Fatalf("range status %d, want %d", w.Code, http.StatusPartialContent)
	}
	if w.Body.Len() != wav.HeaderSize {
		t.Errorf("range body %d bytes, want %d", w.Body.Len(), wav.HeaderSize)
	}
	if !strings.HasPrefix(w.Body.String(), "RIFF") {
		t.Error("range body does not start with the WAV header")
	}

	full := do(t, srv, "GET", path, "")
	lastModified := full.Header().Get("Last-Modified")
	if lastModified == "" {
		t.Fatal("download has no Last-Modified header")
	}
	if w := get("If-Modified-Since", lastModified); w.Code != http.StatusNotModified {
		t.Errorf("conditional status %d, want %d", w.Code, http.StatusNotModified)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name       string
		engine     *stubEngine
		body       string
		wantStatus int
		wantError  string
	}{
		{"empty text", &stubEngine{}, `{"text":"   "}`, http.StatusBadRequest, "text is empty"},
		{"no body uses empty session text", &stubEngine{}, "", http.StatusBadRequest, "text is empty"},
		{"invalid json", &stubEngine{}, `{invalid json}`, http.StatusBadRequest, "invalid JSON body"},
		{"too long", &stubEngine{}, `{"text":"` + strings.Repeat("a", 101) + `"}`, http.StatusBadRequest, ""},
		{"unknown voice", &stubEngine{}, `{"text":"Hola","voice_id":"zz"}`, http.StatusBadRequest, ""},
		{"missing credential", &stubEngine{err: tts.ErrMissingCredential}, `{"text":"Hola"}`, http.StatusServiceUnavailable, "API key not configured"},
		{"remote", &stubEngine{err: fmt.Errorf("%w: quota", tts.ErrRemote)}, `{"text":"Hola"}`, http.StatusBadGateway, ""},
		{"no audio", &stubEngine{err: fmt.Errorf("%w: %w: %w", tts.ErrGeneration, tts.ErrNoAudio, audio.ErrDecode)}, `{"text":"Hola"}`, http.StatusBadGateway, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, testConfig(), tt.engine, Options{})

			w := do(t, srv, "POST", "/v1/generate", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			resp := decode[ErrorResponse](t, w)
			if tt.wantError != "" && resp.Error != tt.wantError {
				t.Errorf("expected error %q, got %q", tt.wantError, resp.Error)
			}
			if history := srv.studio.History(); len(history) != 0 {
				t.Errorf("history changed on error: %+v", history)
			}
		})
	}
}

func TestGenerateBusy(t *testing.T) {
	engine := &stubEngine{started: make(chan struct{}), release: make(chan struct{})}
	srv := newTestServer(t, testConfig(), engine, Options{})
	do(t, srv, "PATCH", "/v1/config", `{"text":"Hola"}`)

	done := make(chan int, 1)
	go func() {
		done <- do(t, srv, "POST", "/v1/generate", "").Code
	}()
	<-engine.started

	if w := do(t, srv, "POST", "/v1/generate", ""); w.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, w.Code)
	}
	if resp := decode[HealthResponse](t, do(t, srv, "GET", "/v1/healthz", "")); !resp.Busy {
		t.Error("expected busy=true during generation")
	}

	close(engine.release)
	if code := <-done; code != http.StatusCreated {
		t.Errorf("first generate status %d", code)
	}
}

func TestPreviewRoute(t *testing.T) {
	srv := newTestServer(t, testConfig(), tts.NewToneEngine(), Options{})

	w := do(t, srv, "POST", "/v1/voices/b1/preview", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "audio/wav" {
		t.Errorf("Content-Type = %q", ct)
	}
	if len(srv.studio.History()) != 0 {
		t.Error("preview added to history")
	}

	if w := do(t, srv, "POST", "/v1/voices/zz/preview", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown voice status %d, want 404", w.Code)
	}
}

func TestPlaybackRoutes(t *testing.T) {
	srv := newTestServer(t, testConfig(), tts.NewToneEngine(), Options{})

	if w := do(t, srv, "POST", "/v1/history/missing/play", ""); w.Code != http.StatusNotFound {
		t.Errorf("play unknown status %d, want 404", w.Code)
	}
	status := decode[studio.PlaybackStatus](t, do(t, srv, "GET", "/v1/playback", ""))
	if status.Playing {
		t.Error("expected nothing playing")
	}
	stop := decode[StopResponse](t, do(t, srv, "POST", "/v1/playback/stop", ""))
	if stop.Stopped {
		t.Error("expected stopped=false with nothing playing")
	}
}

func TestWAVRoute(t *testing.T) {
	srv := testServer(testConfig())
	pcm := []byte{0x01, 0x02, 0x03, 0x04}

	body := fmt.Sprintf(`{"pcm":%q}`, base64.StdEncoding.EncodeToString(pcm))
	w := do(t, srv, "POST", "/v1/wav", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if !bytes.Equal(w.Body.Bytes(), wav.EncodeMono(pcm)) {
		t.Error("body differs from EncodeMono")
	}

	w = do(t, srv, "POST", "/v1/wav", `{"pcm":"AQID","sample_rate":44100,"channels":2}`)
	h, err := wav.ParseHeader(w.Body.Bytes())
	if err != nil {
		t.Fatalf("ParseHeader() error = %v", err)
	}
	if h.SampleRate != 44100 || h.Channels != 2 {
		t.Errorf("header = %+v", h)
	}

	tests := []struct {
		name string
		body string
	}{
		{"bad base64", `{"pcm":"not base64!"}`},
		{"bad channels", `{"pcm":"AQID","channels":3}`},
		{"invalid json", `{pcm}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(t, srv, "POST", "/v1/wav", tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestMutatingRoutesRequireAuth(t *testing.T) {
	srv := testServer(testConfig())

	routes := []struct{ method, path string }{
		{"PATCH", "/v1/config"},
		{"POST", "/v1/generate"},
		{"DELETE", "/v1/history/x"},
		{"POST", "/v1/wav"},
		{"POST", "/v1/clone/stop"},
	}
	for _, rt := range routes {
		req := httptest.NewRequest(rt.method, rt.path, nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status %d, want 401", rt.method, rt.path, w.Code)
		}
	}

	// Reads stay open.
	req := httptest.NewRequest("GET", "/v1/voices", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("GET /v1/voices without token: status %d", w.Code)
	}
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "vozviva_up 1\n")
	})
	srv := newTestServer(t, testConfig(), tts.NewToneEngine(), Options{Metrics: metrics})

	w := do(t, srv, "GET", "/metrics", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "vozviva_up") {
		t.Errorf("metrics route: %d %q", w.Code, w.Body.String())
	}

	without := testServer(testConfig())
	if w := do(t, without, "GET", "/metrics", ""); w.Code != http.StatusNotFound {
		t.Errorf("metrics without handler: status %d, want 404", w.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{tts.ErrEmptyText, http.StatusBadRequest},
		{fmt.Errorf("%w: style", tts.ErrInvalidOption), http.StatusBadRequest},
		{tts.ErrTextTooLong, http.StatusBadRequest},
		{studio.ErrNotFound, http.StatusNotFound},
		{studio.ErrBusy, http.StatusConflict},
		{pitch.ErrInvalidTransition, http.StatusConflict},
		{tts.ErrMissingCredential, http.StatusServiceUnavailable},
		{capture.ErrDevice, http.StatusServiceUnavailable},
		{playback.ErrSlotClosed, http.StatusServiceUnavailable},
		{pitch.ErrClosed, http.StatusServiceUnavailable},
		{tts.ErrRemote, http.StatusBadGateway},
		{audio.ErrDecode, http.StatusBadGateway},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

// sineStream is a continuous 234.375 Hz tone at 48 kHz until closed.
type sineStream struct {
	n      int
	closed chan struct{}
	once   sync.Once
}

func (s *sineStream) SampleRate() int { return 48000 }

func (s *sineStream) Read(ctx context.Context) ([]float64, error) {
	select {
	case <-s.closed:
		return nil, io.EOF
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(time.Millisecond):
	}
	block := make([]float64, 512)
	for i := range block {
		block[i] = 0.5 * math.Sin(2*math.Pi*234.375*float64(s.n)/48000)
		s.n++
	}
	return block, nil
}

func (s *sineStream) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func TestCloneRoutes_LocalDevice(t *testing.T) {
	cfg := testConfig()

	noDevice := newTestServer(t, cfg, tts.NewToneEngine(), Options{})
	if w := do(t, noDevice, "POST", "/v1/clone/start", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("start without device: status %d, want 503", w.Code)
	}

	src := capture.SourceFunc(func(ctx context.Context) (capture.Stream, error) {
		return &sineStream{closed: make(chan struct{})}, nil
	})
	srv := newTestServer(t, cfg, tts.NewToneEngine(), Options{LocalSource: src})

	if w := do(t, srv, "POST", "/v1/clone/cancel", ""); w.Code != http.StatusConflict {
		t.Errorf("cancel while idle: status %d, want 409", w.Code)
	}

	w := do(t, srv, "POST", "/v1/clone/start", "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("start: status %d: %s", w.Code, w.Body.String())
	}
	if w := do(t, srv, "POST", "/v1/clone/start", ""); w.Code != http.StatusConflict {
		t.Errorf("second start: status %d, want 409", w.Code)
	}

	deadline := time.Now().Add(2 * time.Second)
	for decode[pitch.Status](t, do(t, srv, "GET", "/v1/clone", "")).Frequency < 200 {
		if time.Now().After(deadline) {
			t.Fatal("frequency never converged")
		}
		time.Sleep(10 * time.Millisecond)
	}

	stop := decode[StopCloneResponse](t, do(t, srv, "POST", "/v1/clone/stop", ""))
	if stop.Frequency < 200 || stop.Frequency > 235 {
		t.Errorf("frequency = %v, want about 234", stop.Frequency)
	}

	blank := do(t, srv, "POST", "/v1/clone/save", `{"name":"  "}`)
	if blank.Code != http.StatusOK || decode[SaveCloneResponse](t, blank).Saved {
		t.Errorf("blank save: %d %s", blank.Code, blank.Body.String())
	}

	saved := do(t, srv, "POST", "/v1/clone/save", `{"name":"Mi voz"}`)
	if saved.Code != http.StatusCreated {
		t.Fatalf("save: status %d: %s", saved.Code, saved.Body.String())
	}
	resp := decode[SaveCloneResponse](t, saved)
	if !resp.Saved || resp.Voice == nil || resp.Voice.BaseVoice != voice.Kore {
		t.Errorf("unexpected save response %+v", resp)
	}

	cfgResp := decode[ConfigResponse](t, do(t, srv, "GET", "/v1/config", ""))
	if cfgResp.Config.VoiceID != resp.Voice.ID {
		t.Errorf("custom voice not selected: %q", cfgResp.Config.VoiceID)
	}
}

func mustDialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	return conn
}

func sinePCM(n int, freq float64) []byte {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/48000)
	}
	return audio.PCM16(samples)
}

func TestCloneStream(t *testing.T) {
	srv := newTestServer(t, testConfig(), tts.NewToneEngine(), Options{StreamInterval: 10 * time.Millisecond})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/clone/stream?token=test-token"
	conn := mustDialWS(t, url)
	defer conn.Close()

	if err := conn.WriteJSON(capture.Message{Type: capture.MessageStart, SampleRate: 48000}); err != nil {
		t.Fatalf("write start: %v", err)
	}
	pcm := sinePCM(4*2048, 234.375)
	if err := conn.WriteMessage(websocket.BinaryMessage, pcm); err != nil {
		t.Fatalf("write pcm: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg capture.Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read frequency: %v", err)
		}
		if msg.Type == capture.MessageFrequency && msg.Frequency > 200 {
			break
		}
	}

	if err := conn.WriteJSON(capture.Message{Type: capture.MessageStop}); err != nil {
		t.Fatalf("write stop: %v", err)
	}

	for {
		var msg capture.Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read stopped: %v", err)
		}
		if msg.Type != capture.MessageStopped {
			continue
		}
		if msg.State != string(pitch.StateNaming) {
			t.Errorf("stopped state = %q, want naming", msg.State)
		}
		if msg.Frequency < 200 {
			t.Errorf("stopped frequency = %v", msg.Frequency)
		}
		break
	}

	if st := srv.studio.CloneStatus(); st.State != pitch.StateNaming {
		t.Errorf("sampler state = %q, want naming", st.State)
	}
}

func TestCloneStream_RequiresStart(t *testing.T) {
	srv := newTestServer(t, testConfig(), tts.NewToneEngine(), Options{StartTimeout: time.Second})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := mustDialWS(t, "ws"+strings.TrimPrefix(ts.URL, "http")+"/v1/clone/stream?token=test-token")
	defer conn.Close()

	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{0, 0}); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg capture.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != capture.MessageError {
		t.Errorf("message type = %q, want error", msg.Type)
	}
	if st := srv.studio.CloneStatus(); st.State != pitch.StateIdle {
		t.Errorf("sampler state = %q, want idle", st.State)
	}
}
