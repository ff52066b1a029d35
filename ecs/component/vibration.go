package component

// Vibration shakes an entity sideways for Duration seconds. Offset is
// sampled from Elapsed every tick.
type Vibration struct {
	Elapsed   float64
	Duration  float64
	Amplitude float64
	Frequency float64
	Offset    float64
}

var VibrationComponent = NewComponent[Vibration]()
