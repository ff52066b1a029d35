package system

import (
	"testing"

	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/ecs/entity"
)

func newTestBarricades(t *testing.T, withClips bool) *BarricadeSystem {
	t.Helper()
	var clips *component.AnimationSet
	if withClips {
		clips = mustClips(t, "barricade")
	}
	return NewBarricadeSystem(testBarricadeSpec(), testCombatSpec(), clips, nil)
}

func addWall(w *ecs.World, at common.Vec3, width, height, depth float64) {
	w.CollisionWorld().Add(&ecs.Obstacle{Box: ecs.BoxAt(at, width, height, depth)})
}

func TestTogglePlacement(t *testing.T) {
	w := newTestWorld(t)
	player := addPlayer(t, w, common.Vec3{})
	s := newTestBarricades(t, false)

	if !s.TogglePlacement(w, player) {
		t.Fatalf("expected previewing")
	}
	pl, _ := ecs.Get(w, player, component.PlacementComponent.Kind())
	if pl.Preview.Z != 2 || !pl.Valid {
		t.Fatalf("expected valid preview ahead of player, got %+v", pl)
	}

	if s.TogglePlacement(w, player) {
		t.Fatalf("expected placement mode off")
	}
	if *pl != (component.Placement{}) {
		t.Fatalf("expected preview discarded, got %+v", pl)
	}

	inv, _ := ecs.Get(w, player, component.InventoryComponent.Kind())
	inv.Barricades = 0
	if s.TogglePlacement(w, player) {
		t.Fatalf("expected no preview without barricades")
	}
}

func TestPlaceBarricadeRejectionChangesNothing(t *testing.T) {
	tests := []struct {
		name string
		at   common.Vec3
	}{
		{name: "overlaps wall", at: common.Vec3{X: 7.6, Z: 5}},
		{name: "out of bounds", at: common.Vec3{X: 25, Z: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			player := addPlayer(t, w, common.Vec3{})
			addWall(w, common.Vec3{X: 5, Z: 5}, 4, 3, 1)
			s := newTestBarricades(t, false)

			s.TogglePlacement(w, player)
			s.MovePreview(w, player, tt.at.X, tt.at.Z)

			pl, _ := ecs.Get(w, player, component.PlacementComponent.Kind())
			inv, _ := ecs.Get(w, player, component.InventoryComponent.Kind())
			before := *pl
			obstacles := w.CollisionWorld().Len()

			for i := 0; i < 3; i++ {
				if _, ok := s.PlaceBarricade(w, player); ok {
					t.Fatalf("expected placement rejected")
				}
			}
			if *pl != before {
				t.Fatalf("expected preview untouched, got %+v want %+v", *pl, before)
			}
			if inv.Barricades != 3 {
				t.Fatalf("expected inventory 3, got %d", inv.Barricades)
			}
			if got := w.CollisionWorld().Len(); got != obstacles {
				t.Fatalf("expected %d obstacles, got %d", obstacles, got)
			}
		})
	}
}

func TestPlaceBarricadeCommits(t *testing.T) {
	w := newTestWorld(t)
	player := addPlayer(t, w, common.Vec3{})
	s := newTestBarricades(t, true)

	s.TogglePlacement(w, player)
	s.MovePreview(w, player, -4, 6)
	e, ok := s.PlaceBarricade(w, player)
	if !ok {
		t.Fatalf("expected placement")
	}

	inv, _ := ecs.Get(w, player, component.InventoryComponent.Kind())
	if inv.Barricades != 2 {
		t.Fatalf("expected inventory 2, got %d", inv.Barricades)
	}
	pl, _ := ecs.Get(w, player, component.PlacementComponent.Kind())
	if pl.Mode != component.PlacementInactive {
		t.Fatalf("expected placement mode off")
	}
	bar, _ := ecs.Get(w, e, component.BarricadeComponent.Kind())
	if !bar.PlayerPlaced {
		t.Fatalf("expected player placed barricade")
	}
	if got := health(t, w, e); got != 100 {
		t.Fatalf("expected player barricade health 100, got %d", got)
	}
	if _, ok := w.CollisionWorld().ObstacleOf(e); !ok {
		t.Fatalf("expected barricade in collision set")
	}

	s.TogglePlacement(w, player)
	s.MovePreview(w, player, -4, 6)
	if pl.Preview.Y != 1 || !pl.Valid {
		t.Fatalf("expected valid stacked preview at height 1, got %+v", pl)
	}
}

func TestPreviewStacksOnObstacle(t *testing.T) {
	heights := []float64{0.5, 1, 2.5}
	for _, h := range heights {
		w := newTestWorld(t)
		player := addPlayer(t, w, common.Vec3{})
		addWall(w, common.Vec3{X: 6, Z: -3}, 3, h, 3)
		s := newTestBarricades(t, false)

		s.TogglePlacement(w, player)
		s.MovePreview(w, player, 6.2, -3.1)
		pl, _ := ecs.Get(w, player, component.PlacementComponent.Kind())
		if pl.Preview.Y < h {
			t.Fatalf("height %v: preview at %v sinks into obstacle", h, pl.Preview.Y)
		}
		if !pl.Valid {
			t.Fatalf("height %v: expected stacked preview to be valid", h)
		}
	}
}

func TestMovePreviewRay(t *testing.T) {
	w := newTestWorld(t)
	player := addPlayer(t, w, common.Vec3{})
	addWall(w, common.Vec3{X: 3, Z: 3}, 2, 2, 2)
	s := newTestBarricades(t, false)
	s.TogglePlacement(w, player)

	origin, dir, dist := PointerRay(3, 3)
	if !s.MovePreviewRay(w, player, origin, dir, dist) {
		t.Fatalf("expected ray to hit the wall")
	}
	pl, _ := ecs.Get(w, player, component.PlacementComponent.Kind())
	if pl.Preview.X != 3 || pl.Preview.Z != 3 || pl.Preview.Y != 2 {
		t.Fatalf("expected preview on top of wall, got %+v", pl.Preview)
	}
}

func TestBuyBarricade(t *testing.T) {
	w := newTestWorld(t)
	player := addPlayer(t, w, common.Vec3{})
	s := newTestBarricades(t, false)
	inv, _ := ecs.Get(w, player, component.InventoryComponent.Kind())

	if s.BuyBarricade(w, player) {
		t.Fatalf("expected purchase refused without money")
	}
	inv.Money = 30
	if !s.BuyBarricade(w, player) {
		t.Fatalf("expected purchase")
	}
	if inv.Money != 5 || inv.Barricades != 4 {
		t.Fatalf("expected money 5 and 4 barricades, got %+v", inv)
	}
}

func TestBarricadeDestroySweep(t *testing.T) {
	tests := []struct {
		name      string
		withClips bool
	}{
		{name: "with destroy clip", withClips: true},
		{name: "without destroy clip", withClips: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			s := newTestBarricades(t, tt.withClips)
			var clips *component.AnimationSet
			if tt.withClips {
				clips = mustClips(t, "barricade")
			}
			e, err := entity.NewBarricade(w, common.Vec3{X: 2}, entity.BarricadeSize{Width: 2, Height: 1, Depth: 0.5}, 30, true, clips)
			if err != nil {
				t.Fatalf("NewBarricade: %v", err)
			}

			if !s.DamageBarricade(w, e, 20) {
				t.Fatalf("expected damage to apply")
			}
			if !ecs.Has(w, e, component.VibrationComponent.Kind()) {
				t.Fatalf("expected vibration on hit")
			}
			tick(w, 0.1, s)
			if _, ok := w.CollisionWorld().ObstacleOf(e); !ok {
				t.Fatalf("expected damaged barricade to stay")
			}

			s.DamageBarricade(w, e, 20)
			tick(w, 0.1, s)
			if _, ok := w.CollisionWorld().ObstacleOf(e); ok {
				t.Fatalf("expected destroyed barricade out of the collision set")
			}

			if !tt.withClips {
				if ecs.IsAlive(w, e) {
					t.Fatalf("expected barricade removed at once")
				}
				return
			}

			anim, _ := ecs.Get(w, e, component.AnimatorComponent.Kind())
			if anim.Active != "destroy" {
				t.Fatalf("expected destroy clip, got %q", anim.Active)
			}
			ttl := NewTTLSystem()
			tick(w, 0.5, s, ttl)
			if !ecs.IsAlive(w, e) {
				t.Fatalf("expected barricade to linger during destroy clip")
			}
			tick(w, 0.5, s, ttl)
			if ecs.IsAlive(w, e) {
				t.Fatalf("expected barricade removed after destroy clip")
			}
		})
	}
}

func TestDestroyedBarricadeFreesPlacement(t *testing.T) {
	w := newTestWorld(t)
	player := addPlayer(t, w, common.Vec3{})
	s := newTestBarricades(t, false)

	e, err := entity.NewBarricade(w, common.Vec3{X: 4, Z: 4}, entity.BarricadeSize{Width: 2, Height: 1, Depth: 0.5}, 10, false, nil)
	if err != nil {
		t.Fatalf("NewBarricade: %v", err)
	}
	if s.IsPlacementValid(w, common.Vec3{X: 4, Z: 4}) {
		t.Fatalf("expected occupied spot to be invalid")
	}

	s.DamageBarricade(w, e, 10)
	if !s.IsPlacementValid(w, common.Vec3{X: 4, Z: 4}) {
		t.Fatalf("expected destroyed barricade to stop blocking")
	}
	tick(w, 0.1, s)

	s.TogglePlacement(w, player)
	s.MovePreview(w, player, 4, 4)
	if _, ok := s.PlaceBarricade(w, player); !ok {
		t.Fatalf("expected placement on cleared spot")
	}
}

func TestVibrationOffset(t *testing.T) {
	v := component.Vibration{Duration: 0.4, Amplitude: 0.2, Frequency: 10}

	if got := VibrationOffset(0, v); got != 0 {
		t.Fatalf("expected 0 at start, got %v", got)
	}
	if got := VibrationOffset(0.4, v); got != 0 {
		t.Fatalf("expected 0 at end, got %v", got)
	}
	for i := 1; i < 40; i++ {
		at := float64(i) * 0.01
		got := VibrationOffset(at, v)
		limit := v.Amplitude * (1 - at/v.Duration)
		if got > limit+1e-12 || got < -limit-1e-12 {
			t.Fatalf("offset %v at %v exceeds decay envelope %v", got, at, limit)
		}
		if got != VibrationOffset(at, v) {
			t.Fatalf("expected offset to be deterministic")
		}
	}

	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.VibrationComponent.Kind(), &v); err != nil {
		t.Fatalf("add vibration: %v", err)
	}
	system := NewVibrationSystem()
	tick(w, 0.25, system)
	if !ecs.Has(w, e, component.VibrationComponent.Kind()) {
		t.Fatalf("expected vibration running")
	}
	tick(w, 0.25, system)
	if ecs.Has(w, e, component.VibrationComponent.Kind()) {
		t.Fatalf("expected vibration removed when finished")
	}
}
