package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is an arena map. Coordinates are world units on the XZ plane with Y
// up.
type Level struct {
	Name        string   `json:"name"`
	Bounds      Rect     `json:"bounds"`
	FloorY      float64  `json:"floor_y"`
	PlayerStart Point    `json:"player_start"`
	SpawnPoints []Point  `json:"spawn_points"`
	BossSpawn   *Point   `json:"boss_spawn,omitempty"`
	Obstacles   []Block  `json:"obstacles,omitempty"`
	Barricades  []Block  `json:"barricades,omitempty"`
	Props       []Entity `json:"props,omitempty"`
}

type Rect struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinZ float64 `json:"min_z"`
	MaxZ float64 `json:"max_z"`
}

type Point struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Block is an axis-aligned box standing on the floor, centred on (X, Z).
type Block struct {
	X      float64 `json:"x"`
	Z      float64 `json:"z"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
	Health int     `json:"health,omitempty"`
}

// Entity is a free-form map marker the core does not interpret.
type Entity struct {
	Type  string                 `json:"type"`
	X     float64                `json:"x"`
	Z     float64                `json:"z"`
	Props map[string]interface{} `json:"props,omitempty"`
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return parseLevel(data)
}

// LoadLevel prefers a file on disk and falls back to the embedded maps.
func LoadLevel(name string) (*Level, error) {
	if data, err := os.ReadFile(filepath.Join("levels", name)); err == nil {
		return parseLevel(data)
	}
	return LoadLevelFromFS(name)
}

func parseLevel(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if lvl.Bounds.MaxX <= lvl.Bounds.MinX || lvl.Bounds.MaxZ <= lvl.Bounds.MinZ {
		return nil, fmt.Errorf("level %q: empty bounds", lvl.Name)
	}
	if len(lvl.SpawnPoints) == 0 {
		return nil, fmt.Errorf("level %q: no spawn points", lvl.Name)
	}
	return &lvl, nil
}
