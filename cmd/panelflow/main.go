package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/panelflow/internal/config"
	"github.com/Garsondee/panelflow/internal/game"
	"github.com/Garsondee/panelflow/internal/sketch"
)

func main() {
	var configPath string
	var seed int64
	var showHUD bool
	var scale float64
	var noiseName string

	flag.StringVar(&configPath, "config", "", "parameter file (.toml, .yaml), reloaded on change")
	flag.Int64Var(&seed, "seed", 1, "RNG and noise seed")
	flag.BoolVar(&showHUD, "hud", false, "start with the HUD visible")
	flag.StringVar(&noiseName, "noise", sketch.NoisePerlin, "noise oracle: perlin or value")
	flag.Float64Var(&scale, "scale", 0.45, "window size relative to the 1080x1920 canvas")
	flag.Parse()

	params := sketch.NewParams()
	opts := game.Options{Seed: seed, Params: params, ShowHUD: showHUD}
	if configPath != "" {
		if err := config.Load(configPath, params); err != nil {
			log.Fatal(err)
		}
		opts.Watcher = config.NewWatcher(configPath, params)
	}

	noise, err := sketch.NewNoise(noiseName, seed, params)
	if err != nil {
		log.Fatal(err)
	}
	opts.Noise = noise

	g := game.New(opts)
	l := g.Sketch().Layout()
	if scale <= 0 {
		scale = 1
	}
	ebiten.SetWindowTitle("Panelflow")
	ebiten.SetWindowSize(int(float64(l.Width)*scale), int(float64(l.Height)*scale))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(sketch.FrameRate)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
