package pitch

// Smoothing parameters for the tracked frequency.
const (
	// NoiseFloor is the peak magnitude a frame must exceed to count.
	NoiseFloor = 100
	// Alpha is the weight of the newest frame.
	Alpha = 0.2
)

// Smoother is an exponential moving average of peak frequencies that ignores
// frames at or below NoiseFloor. The zero value starts at 0 Hz.
type Smoother struct {
	value float64
}

// Update folds one frame into the average and reports whether it counted.
func (s *Smoother) Update(magnitude uint8, freq float64) bool {
	if magnitude <= NoiseFloor {
		return false
	}
	s.value = s.value*(1-Alpha) + freq*Alpha
	return true
}

// Value returns the smoothed frequency in Hz.
func (s *Smoother) Value() float64 {
	return s.value
}

// Reset returns the average to 0 Hz.
func (s *Smoother) Reset() {
	s.value = 0
}
