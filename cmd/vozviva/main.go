// Vozviva is a Spanish text-to-speech studio server. It owns the session
// state, synthesizes scripts through the Gemini speech API, keeps a history of
// generated clips and clones voices from a microphone sample.
//
// Usage:
//
//	vozviva [flags]
//	vozviva -config /path/to/vozviva.yaml
//
// @title                       VozViva Studio API
// @version                     1.0
// @description                 Spanish text-to-speech studio: script editing, synthesis, history, playback and voice cloning.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/dgnsrekt/vozviva-go/docs"
	"github.com/dgnsrekt/vozviva-go/internal/api"
	"github.com/dgnsrekt/vozviva-go/internal/capture"
	"github.com/dgnsrekt/vozviva-go/internal/config"
	"github.com/dgnsrekt/vozviva-go/internal/device/portaudio"
	"github.com/dgnsrekt/vozviva-go/internal/health"
	"github.com/dgnsrekt/vozviva-go/internal/logging"
	"github.com/dgnsrekt/vozviva-go/internal/media"
	"github.com/dgnsrekt/vozviva-go/internal/pitch"
	"github.com/dgnsrekt/vozviva-go/internal/playback"
	"github.com/dgnsrekt/vozviva-go/internal/studio"
	"github.com/dgnsrekt/vozviva-go/internal/telemetry"
	"github.com/dgnsrekt/vozviva-go/internal/tts"
	"github.com/dgnsrekt/vozviva-go/internal/voice"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/vozviva.yaml)")
	flag.Parse()

	if *showVersion {
		fmt.Println("vozviva", version)
		return
	}

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		// Use stderr before logger is initialized
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Initialize structured logger
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("starting vozviva", "version", version)

	// Warn if bearer token auth is disabled
	if cfg.AuthDisabled() {
		logger.Warn("HTTP bearer authentication is disabled (server.bearer_token is empty)")
	}

	// Log loaded configuration (without sensitive values)
	logger.Info("configuration loaded",
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format,
		"http_port", cfg.Server.HTTPPort,
		"max_text_length", cfg.Server.MaxTextLength,
		"tts_engine", cfg.TTS.Engine,
		"tts_model", cfg.TTS.Model,
		"tts_timeout", cfg.TTS.Timeout,
		"api_key_set", cfg.TTS.APIKey != "",
		"capture_device", cfg.Capture.Device,
		"playback_sink", cfg.Playback.Sink,
		"grpc_enabled", cfg.GRPC.Enabled,
		"metrics_enabled", cfg.Metrics.Enabled,
	)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()
	}()

	// Telemetry
	tel, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: "vozviva",
		Version:     version,
		Enabled:     cfg.Metrics.Enabled,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown telemetry", "error", err)
		}
	}()

	// Initialize TTS engine registry. Both engines are registered so the
	// offline tone engine stays available for diagnostics.
	gemini := tts.NewGeminiEngine(tts.GeminiConfig{
		APIKey:  cfg.TTS.APIKey,
		Model:   cfg.TTS.Model,
		Timeout: cfg.TTS.Timeout,
	}, logger)
	ttsRegistry, err := tts.NewRegistryWith(cfg.TTS.Engine, gemini, tts.NewToneEngine())
	if err != nil {
		logger.Error("failed to initialize TTS engines", "error", err)
		os.Exit(1)
	}
	if cfg.TTS.Engine == config.EngineGemini && cfg.TTS.APIKey == "" {
		logger.Warn("no API key configured, generation will fail until one is set")
	}
	logger.Info("TTS engines registered", "engines", ttsRegistry.List(), "default", cfg.TTS.Engine)

	// Playback slot
	var sink playback.Sink = playback.ClockSink{}
	if cfg.Playback.Sink == config.SinkPortAudio {
		sink = portaudio.NewSink(logger)
	}
	slot := playback.NewSlot(sink, logger)
	slot.SetFinishCallback(func(item *playback.Item, err error) {
		if err != nil && ctx.Err() == nil {
			logger.Debug("playback ended early", "item_id", item.ID, "source", item.Source, "error", err)
		}
	})
	slot.Start()
	defer slot.Close()

	// Voice sampler
	var localSource capture.Source
	if cfg.Capture.Device == config.DevicePortAudio {
		localSource = portaudio.NewSource(cfg.Capture.SampleRate, logger)
	}
	sampler := pitch.NewSampler(pitch.SamplerConfig{
		FFTSize:       cfg.Capture.FFTSize,
		FrameInterval: cfg.Capture.FrameInterval,
	}, logger)

	// Studio
	st, err := studio.New(studio.Config{MaxTextLength: cfg.Server.MaxTextLength}, voice.Static(), studio.Deps{
		Engines: ttsRegistry,
		Media:   media.NewStore(),
		Slot:    slot,
		Sampler: sampler,
		Meter:   tel.Meter(studio.MeterName),
	}, logger)
	if err != nil {
		logger.Error("failed to create studio", "error", err)
		os.Exit(1)
	}

	// Create and start HTTP server
	server := api.New(cfg, logger, st, api.Options{
		LocalSource: localSource,
		Metrics:     tel.Handler(),
	})

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	// Optional gRPC health service
	var healthServer *health.Server
	if cfg.GRPC.Enabled {
		healthServer = health.New(cfg.GRPC.Port, logger)
		go func() {
			if err := healthServer.ListenAndServe(ctx); err != nil {
				logger.Error("gRPC health server error", "error", err)
			}
		}()
		healthServer.SetReady(true)
	}

	// Wait for shutdown signal
	<-ctx.Done()

	if healthServer != nil {
		healthServer.SetReady(false)
	}

	// Release the capture device if a recording is still running
	st.Close()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
}
