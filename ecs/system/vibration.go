package system

import (
	"math"

	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
)

// VibrationOffset samples a decaying sideways shake at elapsed seconds after
// it started. It is zero outside [0, Duration).
func VibrationOffset(elapsed float64, v component.Vibration) float64 {
	if elapsed < 0 || elapsed >= v.Duration || v.Duration <= 0 {
		return 0
	}
	decay := 1 - elapsed/v.Duration
	return v.Amplitude * decay * math.Sin(2*math.Pi*v.Frequency*elapsed)
}

// VibrationSystem advances shake effects and drops them once finished.
type VibrationSystem struct{}

func NewVibrationSystem() *VibrationSystem { return &VibrationSystem{} }

func (s *VibrationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach(w, component.VibrationComponent.Kind(), func(e ecs.Entity, v *component.Vibration) {
		v.Elapsed += dt
		v.Offset = VibrationOffset(v.Elapsed, *v)
		if v.Elapsed >= v.Duration {
			_ = ecs.Remove(w, e, component.VibrationComponent.Kind())
		}
	})
}
