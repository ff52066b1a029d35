package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/brawler/common"
)

func main() {
	levelName := flag.String("level", "arena.json", "level name in levels/ (basename, .json optional)")
	seed := flag.Int64("seed", 0, "random seed (0 uses the current time)")
	watch := flag.Bool("watch", false, "reload tuning and AI scripts from prefabs/ when they change")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("brawler")

	game, err := NewGame(*levelName, *seed, *watch)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
