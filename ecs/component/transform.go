package component

import "github.com/milk9111/brawler/common"

// Transform is owned by the simulation; renderers only read it. Yaw is in
// radians around the vertical axis, 0 facing +Z.
type Transform struct {
	X   float64
	Y   float64
	Z   float64
	Yaw float64
}

func (t *Transform) Position() common.Vec3 {
	return common.Vec3{X: t.X, Y: t.Y, Z: t.Z}
}

func (t *Transform) SetPosition(p common.Vec3) {
	t.X, t.Y, t.Z = p.X, p.Y, p.Z
}

var TransformComponent = NewComponent[Transform]()
