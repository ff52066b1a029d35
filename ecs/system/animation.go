package system

import (
	"log"
	"math"
	"math/rand"

	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
)

// SetActiveAnimation crossfades anim to the named clip over fade seconds. It
// is a no-op when the clip is already active. A clip missing from the set
// falls back to idle. The previous active track keeps fading out on its own.
func SetActiveAnimation(anim *component.Animator, name string, fade float64) bool {
	if anim == nil || name == "" || name == anim.Active {
		return false
	}

	clip := anim.Set.Lookup(name)
	if clip == nil {
		log.Printf("animation: %s clip %q missing, falling back to idle", anim.Set.Kind, name)
		clip = anim.Set.Idle
		if clip == nil || clip.Name == anim.Active {
			return false
		}
	}

	if anim.Tracks == nil {
		anim.Tracks = map[string]*component.AnimationTrack{}
	}

	if cur, ok := anim.Tracks[anim.Active]; ok {
		cur.Target = 0
		cur.FadeDuration = fade
		if fade <= 0 {
			delete(anim.Tracks, anim.Active)
		}
	}

	track := &component.AnimationTrack{Clip: clip, Target: 1, FadeDuration: fade}
	if fade <= 0 {
		track.Weight = 1
	}
	anim.Tracks[clip.Name] = track
	anim.Active = clip.Name
	return true
}

// PlayClip is SetActiveAnimation for a clip pointer. A nil clip is logged and
// replaced by idle.
func PlayClip(anim *component.Animator, clip *component.Clip, fade float64) bool {
	if anim == nil {
		return false
	}
	if clip == nil {
		log.Printf("animation: %s clip missing, falling back to idle", anim.Set.Kind)
		if anim.Set.Idle == nil {
			return false
		}
		clip = anim.Set.Idle
	}
	return SetActiveAnimation(anim, clip.Name, fade)
}

// ClipForSlot resolves a slot name ("idle", "attack", "hit", ...) to a clip
// of set. List slots pick uniformly at random. Any other name is looked up
// as a clip name.
func ClipForSlot(set *component.AnimationSet, slot string, rng *rand.Rand) *component.Clip {
	if set == nil {
		return nil
	}
	switch slot {
	case "idle":
		return set.Idle
	case "running":
		return set.Running
	case "attack":
		return pickClip(set.Attacks, rng)
	case "hit":
		return pickClip(set.Hits, rng)
	case "death":
		return pickClip(set.Deaths, rng)
	case "block":
		return set.Block
	case "block_reaction":
		return set.BlockReaction
	case "fury":
		return set.Fury
	case "destroy":
		return set.Destroy
	}
	return set.Lookup(slot)
}

func pickClip(clips []*component.Clip, rng *rand.Rand) *component.Clip {
	switch len(clips) {
	case 0:
		return nil
	case 1:
		return clips[0]
	}
	if rng == nil {
		return clips[0]
	}
	return clips[rng.Intn(len(clips))]
}

func clipDuration(c *component.Clip, fallback float64) float64 {
	if c == nil || c.Duration <= 0 {
		return fallback
	}
	return c.Duration
}

// AnimationSystem advances clip time and crossfade weights. It runs last in
// the tick so that the pose reflects this tick's combat.
type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem { return &AnimationSystem{} }

func (s *AnimationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach(w, component.AnimatorComponent.Kind(), func(e ecs.Entity, anim *component.Animator) {
		for name, track := range anim.Tracks {
			advanceTrack(track, dt)
			if name != anim.Active && track.Target == 0 && track.Weight <= 0 {
				delete(anim.Tracks, name)
			}
		}
	})
}

func advanceTrack(track *component.AnimationTrack, dt float64) {
	if track == nil || track.Clip == nil {
		return
	}

	d := track.Clip.Duration
	switch {
	case d <= 0:
		track.Finished = !track.Clip.Loop
	case track.Clip.Loop:
		track.Time = math.Mod(track.Time+dt, d)
	default:
		// one-shot clips hold their last pose
		track.Time = math.Min(track.Time+dt, d)
		track.Finished = track.Time >= d
	}

	if track.FadeDuration <= 0 {
		track.Weight = track.Target
		return
	}
	track.Weight = common.Approach(track.Weight, track.Target, dt/track.FadeDuration)
}
