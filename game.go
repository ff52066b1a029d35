package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"path"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/ecs/system"
	"github.com/milk9111/brawler/prefabs"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

const (
	tickDelta     = 1.0 / 60.0
	stickDeadzone = 0.2
	maxLogLines   = 8
)

// Game is a top-down debug view of one arena.
type Game struct {
	levelName string
	seed      int64

	arena   *system.Arena
	watcher *prefabs.Watcher
	pauseUI *ebitenui.UI

	paused       bool
	clipboardOK  bool
	status       string
	log          []string
	restartCount int
}

func NewGame(levelName string, seed int64, watch bool) (*Game, error) {
	g := &Game{levelName: levelName, seed: seed}
	if err := g.restart(); err != nil {
		return nil, err
	}

	if watch {
		w, err := prefabs.NewWatcher()
		if err != nil {
			log.Printf("watch prefabs: %v", err)
		} else {
			g.watcher = w
		}
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}

	g.pauseUI = NewPauseUI(g)
	return g, nil
}

func (g *Game) restart() error {
	cfg, err := system.LoadArenaConfig(g.levelName)
	if err != nil {
		return err
	}
	cfg.Seed = g.seed + int64(g.restartCount)
	cfg.Feedback = g.feedback()

	arena, err := system.NewArena(cfg)
	if err != nil {
		return err
	}
	g.arena = arena
	g.log = nil
	g.restartCount++
	return nil
}

func (g *Game) feedback() *system.Feedback {
	return &system.Feedback{
		PlaySound: func(name string, volume float64) {
			log.Printf("sound: %s (%.2f)", name, volume)
		},
		LoopSound: func(name string, volume float64) {
			log.Printf("music: %s (%.2f)", name, volume)
		},
		SpawnEffect: func(name string, pos common.Vec3) {
			log.Printf("effect: %s at (%.1f, %.1f, %.1f)", name, pos.X, pos.Y, pos.Z)
		},
		RegisterLoot: func(kind component.LootKind, pos common.Vec3) {
			log.Printf("loot: %s at (%.1f, %.1f)", kind, pos.X, pos.Z)
		},
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			log.Printf("close watcher: %v", err)
		}
	}
}

func (g *Game) Update() error {
	g.pollReloads()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.handleInput()
	g.arena.Tick(tickDelta)

	for _, ev := range g.arena.Events() {
		g.appendLog(fmt.Sprintf("%s %s", ev.Kind, ev.Entity))
	}
	return nil
}

func (g *Game) handleInput() {
	dx, dz := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		dx--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		dx++
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		dz++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		dz--
	}

	attack := inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		y := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(x, y) > stickDeadzone {
			dx, dz = x, -y
		}
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom) {
			attack = true
		}
	}

	g.arena.Move(dx, dz, tickDelta)
	if attack {
		res := g.arena.Attack()
		if len(res.Killed) > 0 {
			g.status = fmt.Sprintf("killed %d", len(res.Killed))
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.arena.TogglePlacement()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if !g.arena.BuyBarricade() {
			g.status = "not enough money"
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copySummary()
	}

	mx, my := ebiten.CursorPosition()
	x, z := screenToWorld(float64(mx), float64(my))
	g.arena.PointPreview(x, z)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		if _, ok := g.arena.PlaceBarricade(); !ok {
			g.status = "cannot place here"
		}
	}
}

// pollReloads applies prefab edits reported by the watcher without blocking.
func (g *Game) pollReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name := <-g.watcher.Events:
			g.reload(name)
		case err := <-g.watcher.Errors:
			log.Printf("watch prefabs: %v", err)
		default:
			return
		}
	}
}

func (g *Game) reload(name string) {
	switch {
	case name == "combat.yaml":
		spec, err := prefabs.LoadCombatSpec()
		if err != nil {
			log.Printf("reload %s: %v", name, err)
			return
		}
		g.arena.SetCombatSpec(spec)
	case strings.HasPrefix(name, "scripts/"), strings.HasSuffix(path.Base(name), "_fsm.yaml"):
		g.arena.AI.Invalidate()
	default:
		return
	}
	g.appendLog("reloaded " + name)
}

func (g *Game) appendLog(line string) {
	g.log = append(g.log, line)
	if len(g.log) > maxLogLines {
		g.log = g.log[len(g.log)-maxLogLines:]
	}
}

// encounterSummary is the snapshot copied to the clipboard.
type encounterSummary struct {
	Level            string `yaml:"level"`
	Seed             int64  `yaml:"seed"`
	Elapsed          string `yaml:"elapsed"`
	Wave             int    `yaml:"wave"`
	MaxWave          int    `yaml:"max_wave"`
	EnemiesRemaining int    `yaml:"enemies_remaining"`
	FinalWave        bool   `yaml:"final_wave"`
	GameWon          bool   `yaml:"game_won"`
	PlayerDefeated   bool   `yaml:"player_defeated"`
	PlayerHealth     int    `yaml:"player_health"`
	Money            int    `yaml:"money"`
	Barricades       int    `yaml:"barricades"`
}

func (g *Game) summary() encounterSummary {
	w := g.arena.World
	st := g.arena.State()
	s := encounterSummary{
		Level:            g.levelName,
		Seed:             g.seed,
		Elapsed:          fmt.Sprintf("%.1fs", w.Elapsed()),
		Wave:             st.CurrentWave,
		MaxWave:          st.MaxWave,
		EnemiesRemaining: st.EnemiesRemaining,
		FinalWave:        st.IsFinalWave,
		GameWon:          st.GameWon,
		PlayerDefeated:   st.PlayerDefeated,
	}
	if h, ok := ecs.Get(w, g.arena.Player, component.HealthComponent.Kind()); ok {
		s.PlayerHealth = h.Current
	}
	if inv, ok := ecs.Get(w, g.arena.Player, component.InventoryComponent.Kind()); ok {
		s.Money = inv.Money
		s.Barricades = inv.Barricades
	}
	return s
}

func (g *Game) copySummary() {
	out, err := yaml.Marshal(g.summary())
	if err != nil {
		g.status = err.Error()
		return
	}
	if !g.clipboardOK {
		log.Printf("summary:\n%s", out)
		g.status = "clipboard unavailable, summary logged"
		return
	}
	clipboard.Write(clipboard.FmtText, out)
	g.status = "summary copied"
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)
	w := g.arena.World

	for _, o := range w.CollisionWorld().Obstacles() {
		if o.Floor {
			continue
		}
		drawBox(screen, o.Box, obstacleColor(o))
	}

	if pl, ok := ecs.Get(w, g.arena.Player, component.PlacementComponent.Kind()); ok && pl.Mode == component.PlacementPreviewing {
		drawBox(screen, g.arena.Barricades.BoxAt(pl.Preview), previewColor(pl.Valid))
	}

	ecs.ForEach2(w, component.PickupComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, p *component.Pickup, t *component.Transform) {
		x, y := worldToScreen(t.X, t.Z)
		c := colornames.Gold
		if p.Kind == component.LootHealth {
			c = colornames.Lightgreen
		}
		vector.FillCircle(screen, float32(x), float32(y), 4, c, true)
	})

	ecs.ForEach2(w, component.EnemyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, en *component.Enemy, t *component.Transform) {
		radius := float32(0.5 * common.PixelsPerUnit)
		if ecs.Has(w, e, component.BossComponent.Kind()) {
			radius *= 1.6
		}
		drawActor(screen, t, radius, enemyColor(en.State))
	})

	if t, ok := ecs.Get(w, g.arena.Player, component.TransformComponent.Kind()); ok {
		drawActor(screen, t, float32(0.5*common.PixelsPerUnit), colornames.Dodgerblue)
	}

	g.drawHUD(screen)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	s := g.summary()
	lines := []string{
		fmt.Sprintf("FPS: %.1f  seed: %d", ebiten.ActualFPS(), g.seed),
		fmt.Sprintf("wave %d/%d  remaining %d", s.Wave, s.MaxWave, s.EnemiesRemaining),
		fmt.Sprintf("health %d  money %d  barricades %d", s.PlayerHealth, s.Money, s.Barricades),
		"WASD move  Space attack  B place  RMB drop  P buy  C copy  Esc pause",
	}
	switch {
	case s.GameWon:
		lines = append(lines, "VICTORY")
	case s.PlayerDefeated:
		lines = append(lines, "DEFEATED")
	}
	if g.status != "" {
		lines = append(lines, g.status)
	}
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), 8, 8)
	ebitenutil.DebugPrintAt(screen, strings.Join(g.log, "\n"), 8, common.BaseHeight-16*(maxLogLines+1))
}

func drawActor(screen *ebiten.Image, t *component.Transform, radius float32, c color.Color) {
	x, y := worldToScreen(t.X, t.Z)
	vector.FillCircle(screen, float32(x), float32(y), radius, c, true)
	facing := common.Heading(t.Yaw)
	fx, fy := worldToScreen(t.X+facing.X, t.Z+facing.Z)
	vector.StrokeLine(screen, float32(x), float32(y), float32(fx), float32(fy), 2, colornames.White, true)
}

func drawBox(screen *ebiten.Image, b ecs.Box, c color.Color) {
	x0, y0 := worldToScreen(b.Min.X, b.Max.Z)
	x1, y1 := worldToScreen(b.Max.X, b.Min.Z)
	vector.FillRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), c, false)
	vector.StrokeRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), 1, colornames.Black, false)
}

func obstacleColor(o *ecs.Obstacle) color.Color {
	switch {
	case o.Destroyed:
		return color.RGBA{R: 80, G: 40, B: 20, A: 96}
	case o.Entity.Valid():
		return colornames.Sienna
	default:
		return colornames.Dimgray
	}
}

func previewColor(valid bool) color.Color {
	if valid {
		return color.RGBA{G: 200, A: 120}
	}
	return color.RGBA{R: 200, A: 120}
}

func enemyColor(s component.EnemyState) color.Color {
	switch s {
	case component.StateAttacking:
		return colornames.Orangered
	case component.StateHit, component.StateBlockReaction:
		return colornames.Yellow
	case component.StateBlocking:
		return colornames.Lightsteelblue
	case component.StateFury:
		return colornames.Magenta
	case component.StateDead:
		return colornames.Gray
	default:
		return colornames.Crimson
	}
}

// worldToScreen maps the XZ plane onto the screen with +Z pointing up.
func worldToScreen(x, z float64) (float64, float64) {
	return common.BaseWidth/2 + x*common.PixelsPerUnit, common.BaseHeight/2 - z*common.PixelsPerUnit
}

func screenToWorld(sx, sy float64) (float64, float64) {
	return (sx - common.BaseWidth/2) / common.PixelsPerUnit, (common.BaseHeight/2 - sy) / common.PixelsPerUnit
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
