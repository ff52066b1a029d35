package levels

import "testing"

func TestLoadArena(t *testing.T) {
	lvl, err := LoadLevelFromFS("arena.json")
	if err != nil {
		t.Fatalf("LoadLevelFromFS: %v", err)
	}
	if lvl.Bounds.MinX != -20 || lvl.Bounds.MaxZ != 20 {
		t.Fatalf("unexpected bounds %+v", lvl.Bounds)
	}
	if len(lvl.SpawnPoints) != 4 {
		t.Fatalf("expected 4 spawn points, got %d", len(lvl.SpawnPoints))
	}
	for _, b := range lvl.Barricades {
		if b.Health != 500 {
			t.Fatalf("expected map barricade health 500, got %d", b.Health)
		}
	}
}

func TestParseLevelRejectsEmptyBounds(t *testing.T) {
	if _, err := parseLevel([]byte(`{"name":"x","spawn_points":[{"x":0,"z":0}]}`)); err == nil {
		t.Fatalf("expected error for empty bounds")
	}
}
