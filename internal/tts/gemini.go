package tts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/dgnsrekt/vozviva-go/internal/audio"
	"github.com/dgnsrekt/vozviva-go/internal/wav"
)

// DefaultGeminiModel is the speech model used when none is configured.
const DefaultGeminiModel = "gemini-2.5-flash-preview-tts"

// DefaultTimeout bounds one remote synthesis call.
const DefaultTimeout = 45 * time.Second

// contentGenerator is the subset of *genai.Models the engine calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig holds configuration for the Gemini speech engine.
type GeminiConfig struct {
	// APIKey authenticates against the Gemini API. It may be empty; calls
	// then fail with ErrMissingCredential.
	APIKey string
	// Model is the speech model name.
	Model string
	// Timeout bounds each call.
	Timeout time.Duration
}

// GeminiEngine implements Engine with the Gemini generative speech API.
type GeminiEngine struct {
	config GeminiConfig
	logger *slog.Logger

	newGenerator func(ctx context.Context, apiKey string) (contentGenerator, error)
}

// NewGeminiEngine creates a Gemini speech engine.
func NewGeminiEngine(cfg GeminiConfig, logger *slog.Logger) *GeminiEngine {
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &GeminiEngine{
		config:       cfg,
		logger:       logger,
		newGenerator: newGenAIGenerator,
	}
}

func newGenAIGenerator(ctx context.Context, apiKey string) (contentGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}

// Name returns the engine identifier.
func (g *GeminiEngine) Name() string {
	return "gemini"
}

// Synthesize sends the prompt with the request's prebuilt voice and frames the
// returned PCM as WAV. The credential is checked before any remote call.
func (g *GeminiEngine) Synthesize(ctx context.Context, req SpeechRequest) (*AudioResult, error) {
	if g.config.APIKey == "" {
		return nil, ErrMissingCredential
	}

	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	gen, err := g.newGenerator(ctx, g.config.APIKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemote, err)
	}

	g.logger.Debug("requesting speech",
		"model", g.config.Model,
		"base_voice", req.BaseVoice,
		"voice_name", req.VoiceName,
		"text_length", len(req.Config.Text),
	)

	start := time.Now()
	resp, err := gen.GenerateContent(ctx, g.config.Model, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: string(req.BaseVoice),
				},
			},
		},
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %s", ErrRemote, g.config.Timeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrRemote, err)
	}

	// genai decodes the base64 inline data while unmarshalling the response.
	blob := inlineAudio(resp)
	if blob == nil || len(blob.Data) == 0 {
		return nil, fmt.Errorf("%w: %w: %w", ErrGeneration, ErrNoAudio, audio.ErrDecode)
	}

	rate := audio.ParseRate(blob.MIMEType, wav.GeminiSampleRate)
	data := wav.Encode(blob.Data, rate, wav.GeminiChannels)

	g.logger.Debug("speech received",
		"pcm_bytes", len(blob.Data),
		"sample_rate", rate,
		"duration", time.Since(start),
	)

	return &AudioResult{
		Data:       data,
		Format:     "wav",
		SampleRate: rate,
		Channels:   wav.GeminiChannels,
	}, nil
}

// inlineAudio returns the first candidate's first part payload, if any.
func inlineAudio(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return nil
	}
	return content.Parts[0].InlineData
}
