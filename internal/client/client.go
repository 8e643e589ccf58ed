// Package client is a Go client for the studio HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/dgnsrekt/vozviva-go/internal/studio"
	"github.com/dgnsrekt/vozviva-go/internal/voice"
)

// DefaultServerURL is the studio's default local address.
const DefaultServerURL = "http://localhost:8080"

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid client config")

// Config holds client settings.
type Config struct {
	ServerURL   string
	BearerToken string
	// Timeout bounds each request. Generation can take up to the server's
	// engine timeout, so keep this above it.
	Timeout time.Duration
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("%w: server URL is required", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("%w: server URL must start with http:// or https://", ErrInvalidConfig)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// APIError is a non-2xx response from the studio.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("studio returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to a studio server.
type Client struct {
	cfg        *Config
	logger     *slog.Logger
	httpClient *http.Client
}

// New creates a client.
func New(cfg *Config, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *Client) url(path string) string {
	return strings.TrimSuffix(c.cfg.ServerURL, "/") + path
}

// do sends a request and returns the response for 2xx statuses. Other
// statuses are turned into an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), r)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	c.logger.Debug("studio request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		var parsed struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &parsed) == nil && parsed.Error != "" {
			apiErr.Message = parsed.Error
		}
		return nil, apiErr
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Healthz checks that the studio is up.
func (c *Client) Healthz(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, http.MethodGet, "/v1/healthz", nil, &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("studio status %q", out.Status)
	}
	return nil
}

// Voices lists the studio's voices.
func (c *Client) Voices(ctx context.Context) ([]voice.Option, error) {
	var out struct {
		Voices []voice.Option `json:"voices"`
	}
	if err := c.getJSON(ctx, http.MethodGet, "/v1/voices", nil, &out); err != nil {
		return nil, err
	}
	return out.Voices, nil
}

// Generate applies patch and synthesizes the session's script.
func (c *Client) Generate(ctx context.Context, patch studio.ConfigPatch) (studio.HistoryItem, error) {
	var item studio.HistoryItem
	if err := c.getJSON(ctx, http.MethodPost, "/v1/generate", patch, &item); err != nil {
		return studio.HistoryItem{}, err
	}
	c.logger.Info("generated", "history_id", item.ID, "voice_name", item.VoiceName, "bytes", item.Bytes)
	return item, nil
}

// Download fetches a history item's WAV bytes and the server's filename.
func (c *Client) Download(ctx context.Context, historyID string) ([]byte, string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/history/"+historyID+"/download", nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read audio: %w", err)
	}

	var filename string
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}
	return data, filename, nil
}
