package tts

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyText is returned when the script is empty after trimming.
	ErrEmptyText = errors.New("text is empty")
	// ErrTextTooLong is returned when the script exceeds the configured limit.
	ErrTextTooLong = errors.New("text too long")
	// ErrInvalidOption is returned for a value outside a closed enumeration.
	ErrInvalidOption = errors.New("invalid option")
)

// Region is the accent of the generated speech.
type Region string

// Accent regions.
const (
	RegionES    Region = "es"
	RegionMX    Region = "mx"
	RegionAR    Region = "ar"
	RegionLATAM Region = "latam"
)

// Style is the delivery style.
type Style string

// Delivery styles.
const (
	StyleNatural     Style = "natural"
	StyleHappy       Style = "happy"
	StyleSad         Style = "sad"
	StyleWhisper     Style = "whisper"
	StyleStoryteller Style = "storyteller"
)

// Speed is the speaking rate.
type Speed string

// Speaking rates.
const (
	SpeedSlow   Speed = "slow"
	SpeedMedium Speed = "medium"
	SpeedFast   Speed = "fast"
)

// Pitch is the requested voice register.
type Pitch string

// Voice registers, low to high.
const (
	PitchLow        Pitch = "low"
	PitchMediumLow  Pitch = "medium_low"
	PitchMedium     Pitch = "medium"
	PitchMediumHigh Pitch = "medium_high"
	PitchHigh       Pitch = "high"
)

// Choice is a code/label pair used in listings.
type Choice struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// The order of each table is the display order.
var (
	regionChoices = []Choice{
		{string(RegionES), "España"},
		{string(RegionMX), "México"},
		{string(RegionAR), "Argentina"},
		{string(RegionLATAM), "Latinoamérica Neutro"},
	}
	styleChoices = []Choice{
		{string(StyleNatural), "Natural"},
		{string(StyleHappy), "Alegre"},
		{string(StyleSad), "Triste"},
		{string(StyleWhisper), "Susurrado"},
		{string(StyleStoryteller), "Storyteller"},
	}
	speedChoices = []Choice{
		{string(SpeedSlow), "Lento"},
		{string(SpeedMedium), "Medio"},
		{string(SpeedFast), "Rápido"},
	}
	pitchChoices = []Choice{
		{string(PitchLow), "Grave"},
		{string(PitchMediumLow), "Medio Grave"},
		{string(PitchMedium), "Medio"},
		{string(PitchMediumHigh), "Medio Agudo"},
		{string(PitchHigh), "Agudo"},
	}
)

func lookup(choices []Choice, code string) (Choice, bool) {
	for _, c := range choices {
		if c.Code == code {
			return c, true
		}
	}
	return Choice{}, false
}

// parse accepts a code or a display label, case-insensitively.
func parse(kind string, choices []Choice, s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, c := range choices {
		if strings.EqualFold(c.Code, s) || strings.EqualFold(c.Label, s) {
			return c.Code, nil
		}
	}
	return "", fmt.Errorf("%w: %s %q", ErrInvalidOption, kind, s)
}

func label(choices []Choice, code string) string {
	if c, ok := lookup(choices, code); ok {
		return c.Label
	}
	return code
}

// ParseRegion parses a region code or label.
func ParseRegion(s string) (Region, error) {
	c, err := parse("region", regionChoices, s)
	return Region(c), err
}

// ParseStyle parses a style code or label.
func ParseStyle(s string) (Style, error) {
	c, err := parse("style", styleChoices, s)
	return Style(c), err
}

// ParseSpeed parses a speed code or label.
func ParseSpeed(s string) (Speed, error) {
	c, err := parse("speed", speedChoices, s)
	return Speed(c), err
}

// ParsePitch parses a pitch code or label.
func ParsePitch(s string) (Pitch, error) {
	c, err := parse("pitch", pitchChoices, s)
	return Pitch(c), err
}

// Label returns the display label.
func (r Region) Label() string { return label(regionChoices, string(r)) }

// Label returns the display label.
func (s Style) Label() string { return label(styleChoices, string(s)) }

// Label returns the display label.
func (s Speed) Label() string { return label(speedChoices, string(s)) }

// Label returns the display label.
func (p Pitch) Label() string { return label(pitchChoices, string(p)) }

// Options lists every choice per option kind, in display order.
type Options struct {
	Regions []Choice `json:"regions"`
	Styles  []Choice `json:"styles"`
	Speeds  []Choice `json:"speeds"`
	Pitches []Choice `json:"pitches"`
}

// AllOptions returns copies of the option tables.
func AllOptions() Options {
	return Options{
		Regions: append([]Choice(nil), regionChoices...),
		Styles:  append([]Choice(nil), styleChoices...),
		Speeds:  append([]Choice(nil), speedChoices...),
		Pitches: append([]Choice(nil), pitchChoices...),
	}
}

// GenerationConfig is the full set of user choices for one synthesis.
type GenerationConfig struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id"`
	Region  Region `json:"region"`
	Style   Style  `json:"style"`
	Speed   Speed  `json:"speed"`
	Pitch   Pitch  `json:"pitch"`
}

// DefaultVoiceID is the voice selected in a new session.
const DefaultVoiceID = "m1"

// DefaultConfig returns the initial session choices with empty text.
func DefaultConfig() GenerationConfig {
	return GenerationConfig{
		VoiceID: DefaultVoiceID,
		Region:  RegionES,
		Style:   StyleNatural,
		Speed:   SpeedMedium,
		Pitch:   PitchMedium,
	}
}

// Validate checks the enumerations and that the text is non-empty after
// trimming. maxLen <= 0 disables the length check.
func (c GenerationConfig) Validate(maxLen int) error {
	if strings.TrimSpace(c.Text) == "" {
		return ErrEmptyText
	}
	if maxLen > 0 && len([]rune(c.Text)) > maxLen {
		return fmt.Errorf("%w: %d characters, limit %d", ErrTextTooLong, len([]rune(c.Text)), maxLen)
	}
	var errs []error
	if _, ok := lookup(regionChoices, string(c.Region)); !ok {
		errs = append(errs, fmt.Errorf("%w: region %q", ErrInvalidOption, c.Region))
	}
	if _, ok := lookup(styleChoices, string(c.Style)); !ok {
		errs = append(errs, fmt.Errorf("%w: style %q", ErrInvalidOption, c.Style))
	}
	if _, ok := lookup(speedChoices, string(c.Speed)); !ok {
		errs = append(errs, fmt.Errorf("%w: speed %q", ErrInvalidOption, c.Speed))
	}
	if _, ok := lookup(pitchChoices, string(c.Pitch)); !ok {
		errs = append(errs, fmt.Errorf("%w: pitch %q", ErrInvalidOption, c.Pitch))
	}
	if c.VoiceID == "" {
		errs = append(errs, fmt.Errorf("%w: voice id is empty", ErrInvalidOption))
	}
	return errors.Join(errs...)
}
