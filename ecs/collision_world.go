package ecs

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/brawler/common"
)

// footprintEpsilon shrinks query rectangles so that boxes which only touch
// along an edge are not reported by Chipmunk's inclusive BB test.
const footprintEpsilon = 1e-6

// Box is an axis-aligned bounding volume in world space.
type Box struct {
	Min common.Vec3
	Max common.Vec3
}

// BoxAt builds a box whose bottom face is centred on base.
func BoxAt(base common.Vec3, width, height, depth float64) Box {
	return Box{
		Min: common.Vec3{X: base.X - width/2, Y: base.Y, Z: base.Z - depth/2},
		Max: common.Vec3{X: base.X + width/2, Y: base.Y + height, Z: base.Z + depth/2},
	}
}

// Intersects reports a strictly positive overlap volume. Boxes resting on
// top of each other or standing side by side do not intersect.
func (b Box) Intersects(o Box) bool {
	return b.Min.X < o.Max.X && b.Max.X > o.Min.X &&
		b.Min.Y < o.Max.Y && b.Max.Y > o.Min.Y &&
		b.Min.Z < o.Max.Z && b.Max.Z > o.Min.Z
}

// Footprint projects the box onto the XZ plane.
func (b Box) Footprint() cp.BB {
	return cp.BB{L: b.Min.X, B: b.Min.Z, R: b.Max.X, T: b.Max.Z}
}

// Obstacle is one member of the collision set.
type Obstacle struct {
	Entity    Entity
	Box       Box
	Floor     bool
	Preview   bool
	Destroyed bool

	shape *cp.Shape
}

// Blocking reports whether the obstacle takes part in placement validation.
func (o *Obstacle) Blocking() bool {
	return o != nil && !o.Floor && !o.Preview && !o.Destroyed
}

// Bounds is the rectangular playable area on the XZ plane.
type Bounds struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

func (b Bounds) Contains(p common.Vec3) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Z >= b.MinZ && p.Z <= b.MaxZ
}

// RayHit is the nearest surface found by Raycast.
type RayHit struct {
	Hit      bool
	Point    common.Vec3
	Distance float64
	Floor    bool
	Entity   Entity
}

// CollisionWorld owns the Chipmunk space used as a static spatial index for
// floors, walls and barricades. The space is never stepped; it only answers
// BB queries, and vertical extents live on the Obstacle records.
type CollisionWorld struct {
	space     *cp.Space
	obstacles []*Obstacle
	byEntity  map[Entity]*Obstacle
	bounds    Bounds
}

// NewCollisionWorld creates an empty collision set for a map.
func NewCollisionWorld(bounds Bounds) *CollisionWorld {
	return &CollisionWorld{
		space:    cp.NewSpace(),
		byEntity: make(map[Entity]*Obstacle),
		bounds:   bounds,
	}
}

// Space returns the underlying Chipmunk space.
func (cw *CollisionWorld) Space() *cp.Space {
	if cw == nil {
		return nil
	}
	return cw.space
}

func (cw *CollisionWorld) Bounds() Bounds {
	if cw == nil {
		return Bounds{}
	}
	return cw.bounds
}

// Add registers an obstacle and returns it.
func (cw *CollisionWorld) Add(o *Obstacle) *Obstacle {
	if cw == nil || o == nil || o.shape != nil {
		return o
	}
	bb := o.Box.Footprint()
	if bb.R-bb.L < footprintEpsilon {
		bb.R = bb.L + footprintEpsilon
	}
	if bb.T-bb.B < footprintEpsilon {
		bb.T = bb.B + footprintEpsilon
	}
	shape := cp.NewBox2(cw.space.StaticBody, bb, 0)
	shape.UserData = o
	cw.space.AddShape(shape)
	o.shape = shape
	cw.obstacles = append(cw.obstacles, o)
	if o.Entity.Valid() {
		cw.byEntity[o.Entity] = o
	}
	return o
}

// Remove unregisters an obstacle. It reports false if it was not a member.
func (cw *CollisionWorld) Remove(o *Obstacle) bool {
	if cw == nil || o == nil || o.shape == nil {
		return false
	}
	for i, member := range cw.obstacles {
		if member != o {
			continue
		}
		cw.space.RemoveShape(o.shape)
		o.shape = nil
		cw.obstacles = append(cw.obstacles[:i], cw.obstacles[i+1:]...)
		if cw.byEntity[o.Entity] == o {
			delete(cw.byEntity, o.Entity)
		}
		return true
	}
	return false
}

// ObstacleOf returns the registered obstacle owned by e.
func (cw *CollisionWorld) ObstacleOf(e Entity) (*Obstacle, bool) {
	if cw == nil {
		return nil, false
	}
	o, ok := cw.byEntity[e]
	return o, ok
}

// Len returns the number of registered obstacles.
func (cw *CollisionWorld) Len() int {
	if cw == nil {
		return 0
	}
	return len(cw.obstacles)
}

// Obstacles returns the collision set in insertion order.
func (cw *CollisionWorld) Obstacles() []*Obstacle {
	if cw == nil {
		return nil
	}
	return cw.obstacles
}

func (cw *CollisionWorld) query(bb cp.BB, fn func(o *Obstacle)) {
	if cw == nil || cw.space == nil {
		return
	}
	cw.space.BBQuery(bb, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		if o, ok := shape.UserData.(*Obstacle); ok && o != nil {
			fn(o)
		}
	}, nil)
}

// Intersecting returns the blocking obstacles whose volume overlaps box.
func (cw *CollisionWorld) Intersecting(box Box) []*Obstacle {
	bb := box.Footprint()
	bb.L += footprintEpsilon
	bb.B += footprintEpsilon
	bb.R -= footprintEpsilon
	bb.T -= footprintEpsilon

	var out []*Obstacle
	cw.query(bb, func(o *Obstacle) {
		if o.Blocking() && o.Box.Intersects(box) {
			out = append(out, o)
		}
	})
	return out
}

// RestingHeight returns the height an object dropped at (x, z) comes to rest
// at: the top of the tallest obstacle within tolerance of that point, or 0
// when nothing is below.
func (cw *CollisionWorld) RestingHeight(x, z, tolerance float64) float64 {
	height := 0.0
	found := false
	bb := cp.BB{L: x - tolerance, B: z - tolerance, R: x + tolerance, T: z + tolerance}
	cw.query(bb, func(o *Obstacle) {
		if o.Preview || o.Destroyed {
			return
		}
		if !found || o.Box.Max.Y > height {
			height = o.Box.Max.Y
			found = true
		}
	})
	return height
}

// Raycast finds the nearest obstacle surface along the ray from origin in
// direction dir, up to maxDist. Preview and destroyed obstacles are ignored.
func (cw *CollisionWorld) Raycast(origin, dir common.Vec3, maxDist float64) RayHit {
	dir = dir.Norm()
	if cw == nil || maxDist <= 0 || dir == (common.Vec3{}) {
		return RayHit{}
	}
	end := origin.Add(dir.Scale(maxDist))
	bb := cp.BB{
		L: math.Min(origin.X, end.X), B: math.Min(origin.Z, end.Z),
		R: math.Max(origin.X, end.X), T: math.Max(origin.Z, end.Z),
	}

	best := RayHit{Distance: maxDist}
	cw.query(bb, func(o *Obstacle) {
		if o.Preview || o.Destroyed {
			return
		}
		t, ok := raySlab(origin, dir, o.Box)
		if !ok || t > best.Distance {
			return
		}
		best = RayHit{
			Hit:      true,
			Point:    origin.Add(dir.Scale(t)),
			Distance: t,
			Floor:    o.Floor,
			Entity:   o.Entity,
		}
	})
	return best
}

func raySlab(origin, dir common.Vec3, box Box) (float64, bool) {
	tmin := 0.0
	tmax := math.Inf(1)
	axes := [3][4]float64{
		{origin.X, dir.X, box.Min.X, box.Max.X},
		{origin.Y, dir.Y, box.Min.Y, box.Max.Y},
		{origin.Z, dir.Z, box.Min.Z, box.Max.Z},
	}
	for _, a := range axes {
		o, d, lo, hi := a[0], a[1], a[2], a[3]
		if math.Abs(d) < 1e-12 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
