package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dgnsrekt/vozviva-go/internal/audio"
	"github.com/dgnsrekt/vozviva-go/internal/studio"
	"github.com/dgnsrekt/vozviva-go/internal/tts"
	"github.com/dgnsrekt/vozviva-go/internal/voice"
	"github.com/dgnsrekt/vozviva-go/internal/wav"
)

// HealthResponse represents the response body for /v1/healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Busy   bool   `json:"busy"`
}

// VoicesResponse lists static and custom voices.
type VoicesResponse struct {
	Voices []voice.Option `json:"voices"`
}

// TagsResponse lists the stage-direction tags.
type TagsResponse struct {
	Tags []tts.Tag `json:"tags"`
}

// ConfigResponse is the current generation choices and the option tables.
type ConfigResponse struct {
	Config  tts.GenerationConfig `json:"config"`
	Cursor  int                  `json:"cursor"`
	Options tts.Options          `json:"options"`
}

// InsertTagRequest inserts Tag over the rune range [Start, End) of the text.
type InsertTagRequest struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Tag   string `json:"tag"`
}

// InsertTagResponse is the text after insertion and the new cursor.
type InsertTagResponse struct {
	Text   string `json:"text"`
	Cursor int    `json:"cursor"`
}

// HistoryResponse lists generated clips, newest first.
type HistoryResponse struct {
	Items []studio.HistoryItem `json:"items"`
}

// DeleteResponse reports whether anything was removed.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// StopResponse reports whether anything was playing.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// WAVRequest is base64 PCM to be framed as a WAV file.
type WAVRequest struct {
	PCM        string `json:"pcm"`
	SampleRate int    `json:"sample_rate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
}

// decodeJSON decodes an optional JSON body into v. An empty body leaves v
// untouched.
func decodeJSON(r *http.Request, w http.ResponseWriter, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

func serveWAV(w http.ResponseWriter, r *http.Request, content io.ReadSeeker, filename string, modtime time.Time) {
	serveAudio(w, r, content, wav.ContentType, filename, modtime)
}

// serveAudio writes content with range and conditional request support.
// A non-empty filename marks the response as a download.
func serveAudio(w http.ResponseWriter, r *http.Request, content io.ReadSeeker, contentType, filename string, modtime time.Time) {
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	http.ServeContent(w, r, filename, modtime, content)
}

// handleHealthz handles GET /v1/healthz requests.
//
// @Summary  Liveness check
// @Tags     system
// @Produce  json
// @Success  200  {object}  HealthResponse
// @Router   /v1/healthz [get]
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Busy: s.studio.Busy()})
}

// handleVoices handles GET /v1/voices.
//
// @Summary  List voices
// @Description Static catalog first, then custom voices in creation order.
// @Tags     voices
// @Produce  json
// @Success  200  {object}  VoicesResponse
// @Router   /v1/voices [get]
func (s *Server) handleVoices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VoicesResponse{Voices: s.studio.Voices()})
}

// handleTags handles GET /v1/tags.
//
// @Summary  List stage-direction tags
// @Tags     config
// @Produce  json
// @Success  200  {object}  TagsResponse
// @Router   /v1/tags [get]
func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TagsResponse{Tags: tts.Tags})
}

func (s *Server) configResponse() ConfigResponse {
	state := s.studio.State()
	return ConfigResponse{
		Config:  state.Config,
		Cursor:  state.Cursor,
		Options: tts.AllOptions(),
	}
}

// handleGetConfig handles GET /v1/config.
//
// @Summary  Current generation choices
// @Tags     config
// @Produce  json
// @Success  200  {object}  ConfigResponse
// @Router   /v1/config [get]
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.configResponse())
}

// handlePatchConfig handles PATCH /v1/config.
//
// @Summary  Update generation choices
// @Description Enumerated fields accept a code or a display label. Nothing is applied if any field is invalid.
// @Tags     config
// @Accept   json
// @Produce  json
// @Param    patch  body      studio.ConfigPatch  true  "Fields to change"
// @Success  200    {object}  ConfigResponse
// @Failure  400    {object}  ErrorResponse
// @Security BearerAuth
// @Router   /v1/config [patch]
func (s *Server) handlePatchConfig(w http.ResponseWriter, r *http.Request) {
	var patch studio.ConfigPatch
	if err := decodeJSON(r, w, &patch); err != nil {
		s.logger.Warn("failed to decode config patch", "error", err)
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if _, err := s.studio.UpdateConfig(patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.configResponse())
}

// handleInsertTag handles POST /v1/config/tags.
//
// @Summary  Insert a stage-direction tag into the text
// @Tags     config
// @Accept   json
// @Produce  json
// @Param    request  body      InsertTagRequest  true  "Selection and tag"
// @Success  200      {object}  InsertTagResponse
// @Failure  400      {object}  ErrorResponse
// @Security BearerAuth
// @Router   /v1/config/tags [post]
func (s *Server) handleInsertTag(w http.ResponseWriter, r *http.Request) {
	var req InsertTagRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	text, cursor, err := s.studio.InsertTag(req.Start, req.End, req.Tag)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, InsertTagResponse{Text: text, Cursor: cursor})
}

// handleGenerate handles POST /v1/generate.
//
// @Summary  Synthesize the current script
// @Description An optional config patch is applied first. The result is prepended to history.
// @Tags     generate
// @Accept   json
// @Produce  json
// @Param    patch  body      studio.ConfigPatch  false  "Optional changes applied before generating"
// @Success  201    {object}  studio.HistoryItem
// @Failure  400    {object}  ErrorResponse  "Empty text or invalid option"
// @Failure  409    {object}  ErrorResponse  "A generation is already in progress"
// @Failure  502    {object}  ErrorResponse  "Remote synthesis failed"
// @Failure  503    {object}  ErrorResponse  "API key not configured"
// @Security BearerAuth
// @Router   /v1/generate [post]
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var patch studio.ConfigPatch
	if err := decodeJSON(r, w, &patch); err != nil {
		s.logger.Warn("failed to decode generate request", "error", err)
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if _, err := s.studio.UpdateConfig(patch); err != nil {
		s.writeError(w, r, err)
		return
	}

	item, err := s.studio.Generate(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// handlePreview handles POST /v1/voices/{id}/preview.
//
// @Summary  Preview a voice
// @Description Synthesizes a short demo phrase in the current region with neutral style, speed and pitch and starts playback. It is not added to history.
// @Tags     voices
// @Produce  audio/wav
// @Param    id   path      string  true  "Voice id"
// @Success  200  {file}    binary
// @Failure  404  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse
// @Security BearerAuth
// @Router   /v1/voices/{id}/preview [post]
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	result, err := s.studio.Preview(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	serveWAV(w, r, result.Reader(), "", time.Time{})
}

// handleHistory handles GET /v1/history.
//
// @Summary  List generated clips
// @Tags     history
// @Produce  json
// @Success  200  {object}  HistoryResponse
// @Router   /v1/history [get]
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	items := s.studio.History()
	if items == nil {
		items = []studio.HistoryItem{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Items: items})
}

// handleDeleteHistory handles DELETE /v1/history/{id}.
//
// @Summary  Delete a clip
// @Description Releases the clip's audio. Unknown ids are not an error.
// @Tags     history
// @Produce  json
// @Param    id   path      string  true  "History item id"
// @Success  200  {object}  DeleteResponse
// @Security BearerAuth
// @Router   /v1/history/{id} [delete]
func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DeleteResponse{Deleted: s.studio.DeleteHistory(r.PathValue("id"))})
}

// handleDownload handles GET /v1/history/{id}/download.
//
// @Summary  Download a clip
// @Tags     history
// @Produce  audio/wav
// @Param    id   path      string  true  "History item id"
// @Success  200  {file}    binary
// @Failure  404  {object}  ErrorResponse
// @Router   /v1/history/{id}/download [get]
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	item, data, err := s.studio.Audio(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	serveWAV(w, r, bytes.NewReader(data), item.Filename, item.CreatedAt)
}

// handlePlay handles POST /v1/history/{id}/play.
//
// @Summary  Play a clip
// @Description Interrupts whatever is playing.
// @Tags     playback
// @Produce  json
// @Param    id   path      string  true  "History item id"
// @Success  202  {object}  studio.PlaybackStatus
// @Failure  404  {object}  ErrorResponse
// @Security BearerAuth
// @Router   /v1/history/{id}/play [post]
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	item, err := s.studio.Play(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, studio.PlaybackStatus{Playing: true, ItemID: item.ID, Source: item.Source})
}

// handlePlayback handles GET /v1/playback.
//
// @Summary  Playback status
// @Tags     playback
// @Produce  json
// @Success  200  {object}  studio.PlaybackStatus
// @Router   /v1/playback [get]
func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.studio.Playback())
}

// handleStopPlayback handles POST /v1/playback/stop.
//
// @Summary  Stop playback
// @Tags     playback
// @Produce  json
// @Success  200  {object}  StopResponse
// @Security BearerAuth
// @Router   /v1/playback/stop [post]
func (s *Server) handleStopPlayback(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StopResponse{Stopped: s.studio.StopPlayback()})
}

// handleMedia handles GET /v1/media/{id}.
//
// @Summary  Fetch playable audio
// @Tags     history
// @Produce  audio/wav
// @Param    id   path      string  true  "Media id"
// @Success  200  {file}    binary
// @Failure  404  {object}  ErrorResponse
// @Router   /v1/media/{id} [get]
func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	res, err := s.studio.Media(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	serveAudio(w, r, bytes.NewReader(res.Data), res.ContentType, "", res.CreatedAt)
}

// handleWAV handles POST /v1/wav.
//
// @Summary  Frame base64 PCM as WAV
// @Description Defaults to 24 kHz mono, the speech API's output format.
// @Tags     audio
// @Accept   json
// @Produce  audio/wav
// @Param    request  body      WAVRequest  true  "Base64 16-bit little-endian PCM"
// @Success  200      {file}    binary
// @Failure  400      {object}  ErrorResponse
// @Security BearerAuth
// @Router   /v1/wav [post]
func (s *Server) handleWAV(w http.ResponseWriter, r *http.Request) {
	var req WAVRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SampleRate == 0 {
		req.SampleRate = wav.GeminiSampleRate
	}
	if req.Channels == 0 {
		req.Channels = wav.GeminiChannels
	}
	if req.SampleRate < 0 || req.Channels < 1 || req.Channels > 2 {
		writeErrorMessage(w, http.StatusBadRequest, "sample_rate must be positive and channels 1 or 2")
		return
	}

	// Undecodable client data is a bad request, not a gateway failure.
	pcm, err := audio.DecodeBase64(req.PCM)
	if err != nil {
		s.logger.Warn("invalid pcm payload", "error", err)
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	serveWAV(w, r, bytes.NewReader(wav.Encode(pcm, req.SampleRate, req.Channels)), "", time.Time{})
}
