package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgnsrekt/vozviva-go/internal/studio"
	"github.com/dgnsrekt/vozviva-go/internal/voice"
	"github.com/dgnsrekt/vozviva-go/internal/wav"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(url, token string) *Client {
	return New(&Config{ServerURL: url, BearerToken: token, Timeout: 5 * time.Second}, newTestLogger())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{ServerURL: "http://localhost:8080", Timeout: time.Second}, false},
		{"https", Config{ServerURL: "https://studio.example", Timeout: time.Second}, false},
		{"missing url", Config{Timeout: time.Second}, true},
		{"bad scheme", Config{ServerURL: "ftp://x", Timeout: time.Second}, true},
		{"zero timeout", Config{ServerURL: "http://localhost:8080"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	var mu sync.Mutex
	var receivedPatch studio.ConfigPatch
	var receivedAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		if r.URL.Path != "/v1/generate" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		receivedAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&receivedPatch); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(studio.HistoryItem{ID: "h1", VoiceName: "Sofía", Bytes: 44})
	}))
	defer server.Close()

	text, voiceID := "Hola", "f1"
	item, err := newTestClient(server.URL, "test-token").Generate(context.Background(), studio.ConfigPatch{Text: &text, VoiceID: &voiceID})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if item.ID != "h1" || item.VoiceName != "Sofía" {
		t.Errorf("unexpected item %+v", item)
	}

	mu.Lock()
	defer mu.Unlock()
	if receivedPatch.Text == nil || *receivedPatch.Text != "Hola" {
		t.Errorf("patch text = %v", receivedPatch.Text)
	}
	if receivedPatch.Region != nil {
		t.Error("unset fields should be omitted")
	}
	if receivedAuth != "Bearer test-token" {
		t.Errorf("expected auth 'Bearer test-token', got %q", receivedAuth)
	}
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	var receivedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	if err := newTestClient(server.URL, "").Healthz(context.Background()); err != nil {
		t.Fatalf("Healthz() error = %v", err)
	}
	if receivedAuth != "" {
		t.Errorf("expected no auth header, got %q", receivedAuth)
	}
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "a generation is already in progress"})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, "").Generate(context.Background(), studio.ConfigPatch{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Generate() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Message != "a generation is already in progress" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestVoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"voices": voice.Static()})
	}))
	defer server.Close()

	voices, err := newTestClient(server.URL, "").Voices(context.Background())
	if err != nil {
		t.Fatalf("Voices() error = %v", err)
	}
	if len(voices) != len(voice.Static()) {
		t.Errorf("len(voices) = %d", len(voices))
	}
}

func TestDownload(t *testing.T) {
	body := wav.EncodeMono([]byte{1, 2, 3, 4})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/h1/download") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "audio/wav")
		w.Header().Set("Content-Disposition", `attachment; filename="voz-viva-1700000000123.wav"`)
		w.Write(body)
	}))
	defer server.Close()

	c := newTestClient(server.URL+"/", "")
	data, name, err := c.Download(context.Background(), "h1")
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if string(data) != string(body) {
		t.Error("downloaded bytes differ")
	}
	if name != "voz-viva-1700000000123.wav" {
		t.Errorf("filename = %q", name)
	}

	if _, _, err := c.Download(context.Background(), "missing"); err == nil {
		t.Error("expected error for missing item")
	}
}
