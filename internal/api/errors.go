package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgnsrekt/vozviva-go/internal/audio"
	"github.com/dgnsrekt/vozviva-go/internal/capture"
	"github.com/dgnsrekt/vozviva-go/internal/pitch"
	"github.com/dgnsrekt/vozviva-go/internal/playback"
	"github.com/dgnsrekt/vozviva-go/internal/studio"
	"github.com/dgnsrekt/vozviva-go/internal/tts"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps a domain error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, studio.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tts.ErrEmptyText),
		errors.Is(err, tts.ErrTextTooLong),
		errors.Is(err, tts.ErrInvalidOption):
		return http.StatusBadRequest
	case errors.Is(err, studio.ErrBusy),
		errors.Is(err, pitch.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, tts.ErrMissingCredential),
		errors.Is(err, capture.ErrDevice),
		errors.Is(err, pitch.ErrClosed),
		errors.Is(err, playback.ErrSlotClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, tts.ErrRemote),
		errors.Is(err, tts.ErrGeneration),
		errors.Is(err, audio.ErrDecode):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeError responds with the status mapped from err.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	} else {
		s.logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeErrorMessage(w, status, err.Error())
}
