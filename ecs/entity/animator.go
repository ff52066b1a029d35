package entity

import "github.com/milk9111/brawler/ecs/component"

// NewAnimator wraps a clip set with its idle clip already playing at full
// weight. A set without an idle clip starts with no active animation.
func NewAnimator(set *component.AnimationSet) *component.Animator {
	anim := &component.Animator{Tracks: map[string]*component.AnimationTrack{}}
	if set == nil {
		return anim
	}
	anim.Set = *set
	if set.Idle != nil {
		anim.Active = set.Idle.Name
		anim.Tracks[set.Idle.Name] = &component.AnimationTrack{Clip: set.Idle, Weight: 1, Target: 1}
	}
	return anim
}
