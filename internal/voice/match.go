package voice

// Identity is the coarse voice class inferred from a dominant frequency.
type Identity string

// Voice classes, ordered by frequency band.
const (
	DeepMale     Identity = "deep-male"
	StandardMale Identity = "standard-male"
	Female       Identity = "female"
	ChildHigh    Identity = "child/high"
)

// Band upper bounds in Hz. Each band is half-open: [previous, bound).
const (
	deepMaleBelow     = 130
	standardMaleBelow = 190
	femaleBelow       = 250
)

// Match maps a frequency in Hz onto a voice class. The first band whose
// bound exceeds freq wins; values on a bound fall into the higher band.
func Match(freq float64) Identity {
	switch {
	case freq < deepMaleBelow:
		return DeepMale
	case freq < standardMaleBelow:
		return StandardMale
	case freq < femaleBelow:
		return Female
	default:
		return ChildHigh
	}
}

// BaseVoice returns the prebuilt voice used for the class.
func (i Identity) BaseVoice() BaseVoice {
	switch i {
	case DeepMale:
		return Charon
	case StandardMale:
		return Fenrir
	case Female:
		return Kore
	default:
		return Puck
	}
}
