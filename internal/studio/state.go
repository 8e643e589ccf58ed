// Package studio holds the session's application state and orchestrates
// synthesis, history, playback and voice cloning on top of it.
package studio

import (
	"time"

	"github.com/dgnsrekt/vozviva-go/internal/tts"
	"github.com/dgnsrekt/vozviva-go/internal/voice"
)

// HistoryItem is one generated clip. It owns the media resource AudioID.
type HistoryItem struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	AudioID   string     `json:"audio_id"`
	AudioURL  string     `json:"audio_url"`
	Filename  string     `json:"filename"`
	Bytes     int        `json:"bytes"`
	CreatedAt time.Time  `json:"created_at"`
	VoiceName string     `json:"voice_name"`
	Style     tts.Style  `json:"style"`
	Region    tts.Region `json:"region"`
}

// State is the whole session. Slices are never modified in place, so a
// State value can be shared once returned.
type State struct {
	Config       tts.GenerationConfig `json:"config"`
	Cursor       int                  `json:"cursor"`
	StaticVoices []voice.Option       `json:"-"`
	CustomVoices []voice.Option       `json:"custom_voices"`
	History      []HistoryItem        `json:"history"`
}

// NewState returns a fresh session over the given static catalog.
func NewState(static []voice.Option) State {
	return State{
		Config:       tts.DefaultConfig(),
		StaticVoices: static,
	}
}

// Voices returns the static catalog followed by custom voices.
func (s State) Voices() []voice.Option {
	out := make([]voice.Option, 0, len(s.StaticVoices)+len(s.CustomVoices))
	out = append(out, s.StaticVoices...)
	return append(out, s.CustomVoices...)
}

// FindHistory returns the history item with the given id.
func (s State) FindHistory(id string) (HistoryItem, bool) {
	for _, item := range s.History {
		if item.ID == id {
			return item, true
		}
	}
	return HistoryItem{}, false
}

// Action is a state transition understood by Reduce.
type Action interface {
	action()
}

// Config actions.
type (
	SetText   struct{ Text string }
	SetVoice  struct{ ID string }
	SetRegion struct{ Region tts.Region }
	SetStyle  struct{ Style tts.Style }
	SetSpeed  struct{ Speed tts.Speed }
	SetPitch  struct{ Pitch tts.Pitch }
	// InsertTag replaces the rune range [Start, End) of the text with Tag.
	InsertTag struct {
		Start, End int
		Tag        string
	}
)

// Catalog and history actions.
type (
	// AddHistory prepends an item.
	AddHistory struct{ Item HistoryItem }

	// DeleteHistory removes the item with ID; unknown ids are ignored.
	DeleteHistory struct{ ID string }

	// AddCustomVoice appends a voice and selects it.
	AddCustomVoice struct{ Voice voice.Option }
)

func (SetText) action() {}
func (SetVoice) action() {}
func (SetRegion) action() {}
func (SetStyle) action() {}
func (SetSpeed) action() {}
func (SetPitch) action() {}
func (InsertTag) action() {}
func (AddHistory) action() {}
func (DeleteHistory) action() {}
func (AddCustomVoice) action() {}

// Reduce returns the state after applying a. It does not modify s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetText:
		s.Config.Text = a.Text
	case SetVoice:
		s.Config.VoiceID = a.ID
	case SetRegion:
		s.Config.Region = a.Region
	case SetStyle:
		s.Config.Style = a.Style
	case SetSpeed:
		s.Config.Speed = a.Speed
	case SetPitch:
		s.Config.Pitch = a.Pitch
	case InsertTag:
		s.Config.Text, s.Cursor = tts.InsertTag(s.Config.Text, a.Start, a.End, a.Tag)
	case AddHistory:
		history := make([]HistoryItem, 0, len(s.History)+1)
		history = append(history, a.Item)
		s.History = append(history, s.History...)
	case DeleteHistory:
		history := make([]HistoryItem, 0, len(s.History))
		for _, item := range s.History {
			if item.ID != a.ID {
				history = append(history, item)
			}
		}
		s.History = history
	case AddCustomVoice:
		custom := make([]voice.Option, 0, len(s.CustomVoices)+1)
		custom = append(custom, s.CustomVoices...)
		s.CustomVoices = append(custom, a.Voice)
		s.Config.VoiceID = a.Voice.ID
	}
	return s
}
