package system

import (
	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs/component"
)

// Feedback is the set of fire-and-forget hooks the core calls into. Any hook
// may be nil.
type Feedback struct {
	PlaySound    func(name string, volume float64)
	LoopSound    func(name string, volume float64)
	SpawnEffect  func(name string, pos common.Vec3)
	RegisterLoot func(kind component.LootKind, pos common.Vec3)
}

func (f *Feedback) playSound(name string, volume float64) {
	if f != nil && f.PlaySound != nil {
		f.PlaySound(name, volume)
	}
}

func (f *Feedback) loopSound(name string, volume float64) {
	if f != nil && f.LoopSound != nil {
		f.LoopSound(name, volume)
	}
}

func (f *Feedback) spawnEffect(name string, pos common.Vec3) {
	if f != nil && f.SpawnEffect != nil {
		f.SpawnEffect(name, pos)
	}
}

func (f *Feedback) registerLoot(kind component.LootKind, pos common.Vec3) {
	if f != nil && f.RegisterLoot != nil {
		f.RegisterLoot(kind, pos)
	}
}
