package system

import (
	"math"

	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
)

// NextCombo advances the combo for a new attack input and returns the index
// of the attack to play. An expired window restarts the sequence at 0. With
// no attacks available it does nothing and reports false.
func NextCombo(c *component.Combo, attackCount int, window float64) (int, bool) {
	if c == nil || attackCount <= 0 {
		return 0, false
	}
	if c.Timeout <= 0 {
		c.Index = -1
	}
	c.Index = (c.Index + 1) % attackCount
	c.Timeout = window
	return c.Index, true
}

// ComboSystem decays the combo window, never below zero.
type ComboSystem struct{}

func NewComboSystem() *ComboSystem { return &ComboSystem{} }

func (s *ComboSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach(w, component.ComboComponent.Kind(), func(e ecs.Entity, c *component.Combo) {
		c.Timeout = math.Max(0, c.Timeout-dt)
	})
}
