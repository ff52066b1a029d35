package assets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/milk9111/brawler/ecs/component"
)

func TestLoadClipSet(t *testing.T) {
	tests := []struct {
		name      string
		kind      component.EntityKind
		attacks   int
		bossSlots bool
	}{
		{name: "player", kind: component.KindPlayer, attacks: 4},
		{name: "enemy.yaml", kind: component.KindEnemy, attacks: 1},
		{name: "clips/boss.yaml", kind: component.KindBoss, attacks: 2, bossSlots: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := LoadClipSet(tt.name)
			if err != nil {
				t.Fatalf("LoadClipSet(%q): %v", tt.name, err)
			}
			if set.Kind != tt.kind {
				t.Fatalf("expected kind %v, got %v", tt.kind, set.Kind)
			}
			if len(set.Attacks) != tt.attacks {
				t.Fatalf("expected %d attacks, got %d", tt.attacks, len(set.Attacks))
			}
			if set.Idle == nil || !set.Idle.Loop {
				t.Fatalf("expected looping idle clip, got %+v", set.Idle)
			}
			for _, c := range set.Attacks {
				if c.Loop {
					t.Fatalf("expected one-shot attack clip %q", c.Name)
				}
			}
			if got := set.Block != nil && set.Fury != nil && set.BlockReaction != nil; got != tt.bossSlots {
				t.Fatalf("expected boss slots=%v, got %v", tt.bossSlots, got)
			}
		})
	}
}

func TestLoadClipSetMissing(t *testing.T) {
	if _, err := LoadClipSet("dragon"); !errors.Is(err, ErrClipNotFound) {
		t.Fatalf("expected ErrClipNotFound, got %v", err)
	}
}

func TestParseClipSetRejectsBossSlotsOnEnemy(t *testing.T) {
	data := []byte("kind: enemy\nfury: {name: fury, duration: 1}\n")
	if _, err := ParseClipSet(data); err == nil {
		t.Fatalf("expected error for fury slot on a regular enemy")
	}
}

func TestClipFuture(t *testing.T) {
	release := make(chan struct{})
	f := Go(func() (*component.AnimationSet, error) {
		<-release
		return &component.AnimationSet{Kind: component.KindEnemy}, nil
	})

	if _, done, _ := f.Poll(); done {
		t.Fatalf("expected pending future before release")
	}
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	set, err := f.Wait(ctx)
	if err != nil || set == nil {
		t.Fatalf("Wait: set=%v err=%v", set, err)
	}
	if _, done, err := f.Poll(); !done || err != nil {
		t.Fatalf("expected resolved future, done=%v err=%v", done, err)
	}
}

func TestResolvedFailure(t *testing.T) {
	f := Resolved(nil, ErrClipNotFound)
	set, done, err := f.Poll()
	if !done || set != nil || !errors.Is(err, ErrClipNotFound) {
		t.Fatalf("unexpected poll result set=%v done=%v err=%v", set, done, err)
	}
}
