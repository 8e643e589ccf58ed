package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dgnsrekt/vozviva-go/internal/audio"
)

// DefaultBrowserSampleRate is assumed when the start frame omits a rate.
const DefaultBrowserSampleRate = 48000

// Message types exchanged on the capture socket.
const (
	MessageStart     = "start"
	MessageAudio     = "audio"
	MessageStop      = "stop"
	MessageFrequency = "frequency"
	MessageStopped   = "stopped"
	MessageError     = "error"
)

// Message is a text frame on the capture socket.
type Message struct {
	Type       string  `json:"type"`
	SampleRate int     `json:"sample_rate,omitempty"`
	PCM        string  `json:"pcm,omitempty"`
	Frequency  float64 `json:"frequency,omitempty"`
	State      string  `json:"state,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// WebSocketStream reads browser microphone audio from a WebSocket. Binary
// frames carry 16-bit little-endian mono PCM; text frames carry a Message.
type WebSocketStream struct {
	conn *websocket.Conn
	rate int

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// AcceptWebSocket waits up to timeout for the client's start frame and
// returns a stream at the announced sample rate.
func AcceptWebSocket(conn *websocket.Conn, timeout time.Duration) (*WebSocketStream, error) {
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	messageType, frame, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("%w: reading start frame: %v", ErrDevice, err)
	}
	if messageType != websocket.TextMessage {
		return nil, fmt.Errorf("%w: first frame must be a start message", ErrDevice)
	}

	var msg Message
	if err := json.Unmarshal(frame, &msg); err != nil || msg.Type != MessageStart {
		return nil, fmt.Errorf("%w: first frame must be a start message", ErrDevice)
	}
	_ = conn.SetReadDeadline(time.Time{})

	return NewWebSocketStream(conn, msg.SampleRate), nil
}

// NewWebSocketStream wraps conn. A non-positive rate selects
// DefaultBrowserSampleRate.
func NewWebSocketStream(conn *websocket.Conn, sampleRate int) *WebSocketStream {
	if sampleRate <= 0 {
		sampleRate = DefaultBrowserSampleRate
	}
	return &WebSocketStream{
		conn: conn,
		rate: sampleRate,
		done: make(chan struct{}),
	}
}

// SampleRate returns the client's capture rate.
func (s *WebSocketStream) SampleRate() int {
	return s.rate
}

// Read returns the next block of samples. A stop message or a normal close
// ends the stream with io.EOF; any other read failure wraps ErrDevice.
func (s *WebSocketStream) Read(ctx context.Context) ([]float64, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.isClosed() {
			return nil, io.EOF
		}

		messageType, frame, err := s.conn.ReadMessage()
		if err != nil {
			if s.isClosed() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("%w: %v", ErrDevice, err)
		}

		switch messageType {
		case websocket.BinaryMessage:
			return audio.Samples(frame), nil
		case websocket.TextMessage:
			var msg Message
			if err := json.Unmarshal(frame, &msg); err != nil {
				continue
			}
			switch msg.Type {
			case MessageStop:
				return nil, io.EOF
			case MessageAudio:
				pcm, err := audio.DecodeBase64(msg.PCM)
				if err != nil {
					return nil, err
				}
				return audio.Samples(pcm), nil
			}
		}
	}
}

// Close unblocks a pending Read. The connection itself belongs to the
// caller that accepted it.
func (s *WebSocketStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.done)
	return s.conn.SetReadDeadline(time.Now())
}

// Done is closed once the stream has been closed.
func (s *WebSocketStream) Done() <-chan struct{} {
	return s.done
}

func (s *WebSocketStream) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
