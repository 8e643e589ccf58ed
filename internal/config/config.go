// Package config loads and validates the studio configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	TTS      TTSConfig      `mapstructure:"tts"`
	Capture  CaptureConfig  `mapstructure:"capture"`
	Playback PlaybackConfig `mapstructure:"playback"`
	GRPC     GRPCConfig     `mapstructure:"grpc"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	HTTPPort      int    `mapstructure:"http_port"`
	BearerToken   string `mapstructure:"bearer_token"`
	MaxTextLength int    `mapstructure:"max_text_length"`
}

// TTSConfig selects and configures the synthesis engine.
type TTSConfig struct {
	Engine  string        `mapstructure:"engine"` // "gemini" or "tone"
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CaptureConfig configures microphone sampling for voice cloning.
type CaptureConfig struct {
	Device        string        `mapstructure:"device"` // "browser" or "portaudio"
	FFTSize       int           `mapstructure:"fft_size"`
	FrameInterval time.Duration `mapstructure:"frame_interval"`
	SampleRate    int           `mapstructure:"sample_rate"` // local device only
}

// PlaybackConfig selects where played audio goes.
type PlaybackConfig struct {
	Sink string `mapstructure:"sink"` // "clock" or "portaudio"
}

// GRPCConfig configures the gRPC health endpoint.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
}

// Engine names.
const (
	EngineGemini = "gemini"
	EngineTone   = "tone"
)

// Device and sink names.
const (
	DeviceBrowser   = "browser"
	DevicePortAudio = "portaudio"
	SinkClock       = "clock"
	SinkPortAudio   = "portaudio"
)

// Load reads configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise vozviva.yaml is
// looked up in ., ./configs and /etc/vozviva.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("vozviva")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/vozviva")
	}

	// VOZVIVA_SERVER_HTTP_PORT, VOZVIVA_TTS_ENGINE, etc.
	v.SetEnvPrefix("VOZVIVA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("tts.api_key", "VOZVIVA_TTS_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, fmt.Errorf("binding api key: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Debug("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.Server.BearerToken = resolveEnvRef(cfg.Server.BearerToken)
	cfg.TTS.APIKey = resolveEnvRef(cfg.TTS.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.bearer_token", "")
	v.SetDefault("server.max_text_length", 5000)
	v.SetDefault("tts.engine", EngineGemini)
	v.SetDefault("tts.api_key", "")
	v.SetDefault("tts.model", "gemini-2.5-flash-preview-tts")
	v.SetDefault("tts.timeout", 45*time.Second)
	v.SetDefault("capture.device", DeviceBrowser)
	v.SetDefault("capture.fft_size", 2048)
	v.SetDefault("capture.frame_interval", 16*time.Millisecond)
	v.SetDefault("capture.sample_rate", 44100)
	v.SetDefault("playback.sink", SinkClock)
	v.SetDefault("grpc.enabled", false)
	v.SetDefault("grpc.port", 9090)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// resolveEnvRef replaces a "${VAR_NAME}" value with the environment variable.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		if envVal := os.Getenv(val[2 : len(val)-1]); envVal != "" {
			return envVal
		}
	}
	return val
}

// AuthDisabled returns true if bearer token authentication is disabled.
func (c *Config) AuthDisabled() bool {
	return c.Server.BearerToken == ""
}

// Validate checks that configuration values are in range.
// A missing API key is not an error here: synthesis reports it per request.
func (c *Config) Validate() error {
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return errors.New("server.http_port must be between 1 and 65535")
	}

	if c.Server.MaxTextLength < 1 {
		return errors.New("server.max_text_length must be at least 1")
	}

	if c.TTS.Engine != EngineGemini && c.TTS.Engine != EngineTone {
		return errors.New("tts.engine must be one of: gemini, tone")
	}

	if c.TTS.Timeout <= 0 {
		return errors.New("tts.timeout must be positive")
	}

	if c.Capture.Device != DeviceBrowser && c.Capture.Device != DevicePortAudio {
		return errors.New("capture.device must be one of: browser, portaudio")
	}

	// power of two between 32 and 32768, as for a Web Audio analyser
	if n := c.Capture.FFTSize; n < 32 || n > 32768 || n&(n-1) != 0 {
		return errors.New("capture.fft_size must be a power of two between 32 and 32768")
	}

	if c.Capture.FrameInterval <= 0 {
		return errors.New("capture.frame_interval must be positive")
	}

	if c.Capture.SampleRate < 8000 {
		return errors.New("capture.sample_rate must be at least 8000")
	}

	if c.Playback.Sink != SinkClock && c.Playback.Sink != SinkPortAudio {
		return errors.New("playback.sink must be one of: clock, portaudio")
	}

	if c.GRPC.Enabled && (c.GRPC.Port < 1 || c.GRPC.Port > 65535) {
		return errors.New("grpc.port must be between 1 and 65535")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return errors.New("logging.level must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"text": true, "json": true}
	if !validLogFormats[c.Logging.Format] {
		return errors.New("logging.format must be one of: text, json")
	}

	return nil
}
