// Package voice defines the voice catalog and the frequency-based matcher
// that assigns a prebuilt speech voice to a cloned voice.
package voice

import (
	"errors"
	"fmt"
)

// BaseVoice is a prebuilt voice token recognized by the speech API.
type BaseVoice string

// Prebuilt voices accepted by the speech API.
const (
	Puck   BaseVoice = "Puck"
	Charon BaseVoice = "Charon"
	Kore   BaseVoice = "Kore"
	Fenrir BaseVoice = "Fenrir"
	Zephyr BaseVoice = "Zephyr"
)

// FallbackBaseVoice is used when a voice id cannot be resolved.
const FallbackBaseVoice = Puck

// BaseVoices lists every valid BaseVoice.
var BaseVoices = []BaseVoice{Puck, Charon, Kore, Fenrir, Zephyr}

// Valid reports whether b is a known prebuilt voice.
func (b BaseVoice) Valid() bool {
	for _, v := range BaseVoices {
		if v == b {
			return true
		}
	}
	return false
}

// Gender is the category tag of a voice.
type Gender string

// Voice categories.
const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderBoy    Gender = "boy"
	GenderGirl   Gender = "girl"
	GenderCustom Gender = "custom"
)

var genderLabels = map[Gender]string{
	GenderMale:   "Hombre",
	GenderFemale: "Mujer",
	GenderBoy:    "Niño",
	GenderGirl:   "Niña",
	GenderCustom: "Personalizada",
}

// Label returns the display label used in prompts and listings.
func (g Gender) Label() string {
	if l, ok := genderLabels[g]; ok {
		return l
	}
	return string(g)
}

// Valid reports whether g is a known category.
func (g Gender) Valid() bool {
	_, ok := genderLabels[g]
	return ok
}

// Option is a selectable voice.
type Option struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Gender    Gender    `json:"gender" yaml:"gender"`
	BaseVoice BaseVoice `json:"base_voice" yaml:"base_voice"`
	Custom    bool      `json:"custom,omitempty" yaml:"-"`
}

// UnknownName is the character name used when a voice id is unresolved.
const UnknownName = "Desconocido"

// ErrInvalidCatalog is returned when a catalog document fails validation.
var ErrInvalidCatalog = errors.New("invalid voice catalog")

// Find returns the option with the given id.
func Find(voices []Option, id string) (Option, bool) {
	for _, v := range voices {
		if v.ID == id {
			return v, true
		}
	}
	return Option{}, false
}

// Resolve returns the option with the given id, or a placeholder using
// FallbackBaseVoice when the id is unknown.
func Resolve(voices []Option, id string) Option {
	if v, ok := Find(voices, id); ok {
		return v
	}
	return Option{ID: id, Name: UnknownName, Gender: GenderCustom, BaseVoice: FallbackBaseVoice}
}

// BaseVoiceFor returns the prebuilt voice for id, or FallbackBaseVoice.
func BaseVoiceFor(voices []Option, id string) BaseVoice {
	return Resolve(voices, id).BaseVoice
}

func validate(voices []Option) error {
	seen := make(map[string]bool, len(voices))
	for i, v := range voices {
		if v.ID == "" || v.Name == "" {
			return fmt.Errorf("%w: entry %d missing id or name", ErrInvalidCatalog, i)
		}
		if seen[v.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, v.ID)
		}
		seen[v.ID] = true
		if !v.Gender.Valid() {
			return fmt.Errorf("%w: %s has unknown gender %q", ErrInvalidCatalog, v.ID, v.Gender)
		}
		if !v.BaseVoice.Valid() {
			return fmt.Errorf("%w: %s has unknown base voice %q", ErrInvalidCatalog, v.ID, v.BaseVoice)
		}
	}
	return nil
}
