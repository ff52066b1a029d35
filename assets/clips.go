package assets

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/brawler/ecs/component"
)

//go:embed clips/*.yaml
var clipsFS embed.FS

var ErrClipNotFound = errors.New("assets: clip set not found")

type clipSpec struct {
	Name     string  `yaml:"name"`
	Duration float64 `yaml:"duration"`
	Loop     bool    `yaml:"loop"`
}

type clipManifest struct {
	Kind          string     `yaml:"kind"`
	Idle          *clipSpec  `yaml:"idle"`
	Running       *clipSpec  `yaml:"running"`
	Attacks       []clipSpec `yaml:"attacks"`
	Hits          []clipSpec `yaml:"hits"`
	Deaths        []clipSpec `yaml:"deaths"`
	Block         *clipSpec  `yaml:"block"`
	BlockReaction *clipSpec  `yaml:"block_reaction"`
	Fury          *clipSpec  `yaml:"fury"`
	Destroy       *clipSpec  `yaml:"destroy"`
}

// LoadClipSet reads a clip manifest from clips/ and builds the animation
// slots for it. Boss-only slots in a non-boss manifest are rejected.
func LoadClipSet(name string) (*component.AnimationSet, error) {
	clean := cleanClipPath(name)
	data, err := clipsFS.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrClipNotFound, name)
	}
	return ParseClipSet(data)
}

// ParseClipSet decodes a clip manifest.
func ParseClipSet(data []byte) (*component.AnimationSet, error) {
	var m clipManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("assets: unmarshal clips: %w", err)
	}

	kind, err := parseKind(m.Kind)
	if err != nil {
		return nil, err
	}
	if kind != component.KindBoss && (m.Block != nil || m.BlockReaction != nil || m.Fury != nil) {
		return nil, fmt.Errorf("assets: %s clips cannot define boss slots", kind)
	}

	set := &component.AnimationSet{
		Kind:          kind,
		Idle:          m.Idle.clip(false),
		Running:       m.Running.clip(false),
		Attacks:       clipList(m.Attacks),
		Hits:          clipList(m.Hits),
		Deaths:        clipList(m.Deaths),
		Block:         m.Block.clip(false),
		BlockReaction: m.BlockReaction.clip(false),
		Fury:          m.Fury.clip(false),
		Destroy:       m.Destroy.clip(false),
	}
	if set.Idle != nil {
		set.Idle.Loop = true
	}
	if set.Running != nil {
		set.Running.Loop = true
	}
	return set, nil
}

func (s *clipSpec) clip(loop bool) *component.Clip {
	if s == nil || s.Name == "" {
		return nil
	}
	return &component.Clip{Name: s.Name, Duration: s.Duration, Loop: s.Loop || loop}
}

func clipList(specs []clipSpec) []*component.Clip {
	if len(specs) == 0 {
		return nil
	}
	out := make([]*component.Clip, 0, len(specs))
	for i := range specs {
		// attacks, hits and deaths always hold their final pose
		if c := specs[i].clip(false); c != nil {
			c.Loop = false
			out = append(out, c)
		}
	}
	return out
}

func parseKind(s string) (component.EntityKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "player":
		return component.KindPlayer, nil
	case "enemy", "":
		return component.KindEnemy, nil
	case "boss":
		return component.KindBoss, nil
	case "barricade":
		return component.KindBarricade, nil
	default:
		return 0, fmt.Errorf("assets: unknown clip kind %q", s)
	}
}

func cleanClipPath(p string) string {
	s := filepath.ToSlash(p)
	s = strings.TrimPrefix(s, "assets/")
	s = strings.TrimPrefix(s, "clips/")
	if path.Ext(s) == "" {
		s += ".yaml"
	}
	return path.Join("clips", s)
}
