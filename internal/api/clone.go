package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dgnsrekt/vozviva-go/internal/capture"
	"github.com/dgnsrekt/vozviva-go/internal/pitch"
	"github.com/dgnsrekt/vozviva-go/internal/voice"
)

// StopCloneResponse is the final smoothed frequency of a sample.
type StopCloneResponse struct {
	Frequency float64 `json:"frequency"`
}

// SaveCloneRequest names the sampled voice.
type SaveCloneRequest struct {
	Name string `json:"name"`
}

// SaveCloneResponse reports the created voice. Saved is false for a blank
// name, in which case the sampler keeps waiting for one.
type SaveCloneResponse struct {
	Saved bool          `json:"saved"`
	Voice *voice.Option `json:"voice,omitempty"`
}

// handleCloneStatus handles GET /v1/clone.
//
// @Summary  Voice sampler status
// @Tags     clone
// @Produce  json
// @Success  200  {object}  pitch.Status
// @Router   /v1/clone [get]
func (s *Server) handleCloneStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.studio.CloneStatus())
}

// handleCloneStart handles POST /v1/clone/start.
//
// @Summary  Start sampling from the server's microphone
// @Tags     clone
// @Produce  json
// @Success  202  {object}  pitch.Status
// @Failure  409  {object}  ErrorResponse  "Sampler is not idle"
// @Failure  503  {object}  ErrorResponse  "No capture device"
// @Security BearerAuth
// @Router   /v1/clone/start [post]
func (s *Server) handleCloneStart(w http.ResponseWriter, r *http.Request) {
	if s.opts.LocalSource == nil {
		s.writeError(w, r, errors.Join(capture.ErrDevice, errors.New("no local capture device configured")))
		return
	}
	if err := s.studio.StartClone(r.Context(), s.opts.LocalSource); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, s.studio.CloneStatus())
}

// handleCloneStop handles POST /v1/clone/stop.
//
// @Summary  Stop sampling
// @Tags     clone
// @Produce  json
// @Success  200  {object}  StopCloneResponse
// @Failure  409  {object}  ErrorResponse  "Sampler is not recording"
// @Security BearerAuth
// @Router   /v1/clone/stop [post]
func (s *Server) handleCloneStop(w http.ResponseWriter, r *http.Request) {
	freq, err := s.studio.StopClone()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StopCloneResponse{Frequency: freq})
}

// handleCloneSave handles POST /v1/clone/save.
//
// @Summary  Save the sample as a custom voice
// @Description The new voice is selected for generation.
// @Tags     clone
// @Accept   json
// @Produce  json
// @Param    request  body      SaveCloneRequest  true  "Voice name"
// @Success  201      {object}  SaveCloneResponse
// @Success  200      {object}  SaveCloneResponse  "Blank name, nothing saved"
// @Failure  409      {object}  ErrorResponse      "No sample awaiting a name"
// @Security BearerAuth
// @Router   /v1/clone/save [post]
func (s *Server) handleCloneSave(w http.ResponseWriter, r *http.Request) {
	var req SaveCloneRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	v, ok, err := s.studio.SaveClone(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, SaveCloneResponse{})
		return
	}
	writeJSON(w, http.StatusCreated, SaveCloneResponse{Saved: true, Voice: &v})
}

// handleCloneCancel handles POST /v1/clone/cancel.
//
// @Summary  Discard the sample
// @Tags     clone
// @Produce  json
// @Success  200  {object}  pitch.Status
// @Failure  409  {object}  ErrorResponse
// @Security BearerAuth
// @Router   /v1/clone/cancel [post]
func (s *Server) handleCloneCancel(w http.ResponseWriter, r *http.Request) {
	if err := s.studio.CancelClone(); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.studio.CloneStatus())
}

// handleCloneStream handles GET /v1/clone/stream.
//
// The client opens the socket, sends {"type":"start","sample_rate":N} and
// then streams PCM. The server answers with periodic frequency messages and
// a final stopped message once sampling ends, whether by a client stop
// message, a disconnect or POST /v1/clone/stop.
//
// @Summary  Stream microphone audio from the browser
// @Tags     clone
// @Param    token  query  string  false  "Bearer token, for clients that cannot set headers"
// @Success  101
// @Security BearerAuth
// @Router   /v1/clone/stream [get]
func (s *Server) handleCloneStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("clone stream upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	stream, err := capture.AcceptWebSocket(conn, s.opts.StartTimeout)
	if err != nil {
		s.logger.Warn("clone stream rejected", "error", err)
		s.sendClose(conn, capture.Message{Type: capture.MessageError, Error: err.Error()})
		return
	}

	// The sampler owns the stream for the rest of the session.
	if err := s.studio.StartClone(context.WithoutCancel(r.Context()), capture.Opened(stream)); err != nil {
		stream.Close()
		s.logger.Warn("clone stream could not start", "error", err)
		s.sendClose(conn, capture.Message{Type: capture.MessageError, Error: err.Error()})
		return
	}
	s.logger.Info("clone stream started", "remote_addr", r.RemoteAddr, "sample_rate", stream.SampleRate())

	ticker := time.NewTicker(s.opts.StreamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stream.Done():
			status := s.studio.CloneStatus()
			s.sendClose(conn, capture.Message{
				Type:      capture.MessageStopped,
				State:     string(status.State),
				Frequency: status.Frequency,
			})
			s.logger.Info("clone stream ended", "frequency", status.Frequency, "state", status.State)
			return
		case <-ticker.C:
			status := s.studio.CloneStatus()
			if status.State != pitch.StateRecording {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(capture.Message{Type: capture.MessageFrequency, Frequency: status.Frequency}); err != nil {
				// The pump sees the broken socket and ends the session.
				s.logger.Debug("clone stream write failed", "error", err)
			}
		}
	}
}

// sendClose writes a final message and a normal close frame.
func (s *Server) sendClose(conn *websocket.Conn, msg capture.Message) {
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	_ = conn.WriteJSON(msg)
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
