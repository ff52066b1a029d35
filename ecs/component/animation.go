package component

// EntityKind tags which animation slots an AnimationSet may use.
type EntityKind uint8

const (
	KindPlayer EntityKind = iota
	KindEnemy
	KindBoss
	KindBarricade
)

func (k EntityKind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	case KindBoss:
		return "boss"
	case KindBarricade:
		return "barricade"
	default:
		return "unknown"
	}
}

// Clip is a loaded animation. One-shot clips (Loop == false) hold their last
// pose when they finish.
type Clip struct {
	Name     string
	Duration float64
	Loop     bool
}

// AnimationSet holds the named animation slots of one entity. Block,
// BlockReaction and Fury are only filled for bosses; Destroy only for
// barricades. A nil slot means the clip is absent.
type AnimationSet struct {
	Kind EntityKind

	Idle    *Clip
	Running *Clip
	Attacks []*Clip
	Hits    []*Clip
	Deaths  []*Clip

	Block         *Clip
	BlockReaction *Clip
	Fury          *Clip

	Destroy *Clip
}

// Lookup finds a clip by name across every slot.
func (s *AnimationSet) Lookup(name string) *Clip {
	if s == nil || name == "" {
		return nil
	}
	for _, c := range []*Clip{s.Idle, s.Running, s.Block, s.BlockReaction, s.Fury, s.Destroy} {
		if c != nil && c.Name == name {
			return c
		}
	}
	for _, list := range [][]*Clip{s.Attacks, s.Hits, s.Deaths} {
		for _, c := range list {
			if c != nil && c.Name == name {
				return c
			}
		}
	}
	return nil
}

// AnimationTrack is the playback state of one clip. Weight moves toward
// Target over FadeDuration seconds.
type AnimationTrack struct {
	Clip         *Clip
	Time         float64
	Weight       float64
	Target       float64
	FadeDuration float64
	Finished     bool
}

// Animator owns the tracks of an entity. Active names the single canonical
// clip; other tracks may still be fading out.
type Animator struct {
	Set    AnimationSet
	Active string
	Tracks map[string]*AnimationTrack
}

var AnimatorComponent = NewComponent[Animator]()
