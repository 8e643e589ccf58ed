package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/dgnsrekt/vozviva-go/internal/capture"
	"github.com/dgnsrekt/vozviva-go/internal/config"
	"github.com/dgnsrekt/vozviva-go/internal/studio"
)

// maxBodyBytes caps JSON and PCM request bodies.
const maxBodyBytes = 25 << 20

// Options are optional collaborators of the server.
type Options struct {
	// LocalSource is the server-side microphone used by POST /v1/clone/start.
	// Nil means cloning is only available through the WebSocket stream.
	LocalSource capture.Source
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
	// StreamInterval paces frequency updates on the clone stream.
	StreamInterval time.Duration
	// StartTimeout bounds the wait for a clone stream's start frame.
	StartTimeout time.Duration
}

// Server handles HTTP API requests.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	server   *http.Server
	studio   *studio.Studio
	opts     Options
	upgrader websocket.Upgrader
}

// New creates a new API server.
func New(cfg *config.Config, logger *slog.Logger, st *studio.Studio, opts Options) *Server {
	if opts.StreamInterval <= 0 {
		opts.StreamInterval = 100 * time.Millisecond
	}
	if opts.StartTimeout <= 0 {
		opts.StartTimeout = 10 * time.Second
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		studio: st,
		opts:   opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	s.server = &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:     s.Handler(),
		ReadTimeout: 10 * time.Second,
		// Generation holds the response open for up to the engine timeout.
		WriteTimeout: cfg.TTS.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the route multiplexer.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/healthz", s.handleHealthz)

	mux.HandleFunc("GET /v1/voices", s.handleVoices)
	mux.HandleFunc("GET /v1/tags", s.handleTags)
	mux.HandleFunc("GET /v1/config", s.handleGetConfig)
	mux.HandleFunc("PATCH /v1/config", s.withAuth(s.handlePatchConfig))
	mux.HandleFunc("POST /v1/config/tags", s.withAuth(s.handleInsertTag))

	mux.HandleFunc("POST /v1/generate", s.withAuth(s.handleGenerate))
	mux.HandleFunc("POST /v1/voices/{id}/preview", s.withAuth(s.handlePreview))

	mux.HandleFunc("GET /v1/history", s.handleHistory)
	mux.HandleFunc("DELETE /v1/history/{id}", s.withAuth(s.handleDeleteHistory))
	mux.HandleFunc("GET /v1/history/{id}/download", s.handleDownload)
	mux.HandleFunc("POST /v1/history/{id}/play", s.withAuth(s.handlePlay))

	mux.HandleFunc("GET /v1/playback", s.handlePlayback)
	mux.HandleFunc("POST /v1/playback/stop", s.withAuth(s.handleStopPlayback))
	mux.HandleFunc("GET /v1/media/{id}", s.handleMedia)
	mux.HandleFunc("POST /v1/wav", s.withAuth(s.handleWAV))

	mux.HandleFunc("GET /v1/clone", s.handleCloneStatus)
	mux.HandleFunc("GET /v1/clone/stream", s.withStreamAuth(s.handleCloneStream))
	mux.HandleFunc("POST /v1/clone/start", s.withAuth(s.handleCloneStart))
	mux.HandleFunc("POST /v1/clone/stop", s.withAuth(s.handleCloneStop))
	mux.HandleFunc("POST /v1/clone/save", s.withAuth(s.handleCloneSave))
	mux.HandleFunc("POST /v1/clone/cancel", s.withAuth(s.handleCloneCancel))

	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	if s.opts.Metrics != nil {
		mux.Handle("GET /metrics", s.opts.Metrics)
	}

	return mux
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
