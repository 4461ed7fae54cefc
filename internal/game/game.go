package game

import (
	"bytes"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/Garsondee/panelflow/internal/config"
	"github.com/Garsondee/panelflow/internal/render"
	"github.com/Garsondee/panelflow/internal/sketch"
)

const (
	hudFontSize = 16
	hudLineH    = 22
	hudPad      = 10

	// configPollTicks is how often, in frames, the parameter file is checked.
	configPollTicks = sketch.FrameRate
)

// simSpeeds are the selectable ticks-per-frame rates; 0 is paused.
var simSpeeds = []float64{0, 0.25, 0.5, 1, 2, 4}

// Options configures a Game.
type Options struct {
	Seed    int64
	Params  *sketch.Params
	Noise   sketch.Noise    // nil uses seeded Perlin noise
	Watcher *config.Watcher // nil disables live reload
	ShowHUD bool
}

// Game drives a sketch from ebiten's update loop and shows its main surface.
type Game struct {
	sketch  *sketch.Sketch
	main    *render.Surface
	params  *sketch.Params
	watcher *config.Watcher
	events  *EventLog
	face    text.Face

	width, height int

	showHUD   bool
	simSpeed  float64
	tickAccum float64
	frames    int
	prevKeys  map[ebiten.Key]bool
}

// New builds the sketch on the GPU backend.
func New(opts Options) *Game {
	params := opts.Params
	if params == nil {
		params = sketch.NewParams()
	}
	events := NewEventLog()
	g := &Game{
		params:   params,
		watcher:  opts.Watcher,
		events:   events,
		showHUD:  opts.ShowHUD,
		simSpeed: 1,
		prevKeys: make(map[ebiten.Key]bool),
	}

	src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		log.Printf("hud font unavailable, using debug font: %v", err)
	} else {
		g.face = &text.GoTextFace{Source: src, Size: hudFontSize}
	}

	seed := opts.Seed
	if seed == 0 {
		seed = 1
	}
	sketchOpts := []sketch.Option{
		sketch.WithSeed(seed),
		sketch.WithParams(params),
		sketch.WithEvents(events),
	}
	if opts.Noise != nil {
		sketchOpts = append(sketchOpts, sketch.WithNoise(opts.Noise))
	}
	g.sketch = sketch.New(render.NewRenderer(true), sketchOpts...)
	g.main = g.sketch.Main().(*render.Surface)
	l := g.sketch.Layout()
	g.width, g.height = l.Width, l.Height
	return g
}

// Sketch returns the running sketch.
func (g *Game) Sketch() *sketch.Sketch { return g.sketch }

func (g *Game) Update() error {
	g.handleInput()
	g.frames++
	if g.watcher != nil && g.frames%configPollTicks == 0 {
		g.pollConfig()
	}

	// Fractional speeds accumulate across frames.
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.sketch.Step()
	}
	return nil
}

func (g *Game) pollConfig() {
	changed, err := g.watcher.Poll()
	if err != nil {
		log.Printf("config: %v", err)
		g.events.Add(g.sketch.Tick(), "cfg", "config", "error", err.Error(), 0)
		return
	}
	if changed {
		g.events.Add(g.sketch.Tick(), "cfg", "config", "reload", g.watcher.Path(), 0)
	}
}

func (g *Game) handleInput() {
	current := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		current[k] = ebiten.IsKeyPressed(k)
		return current[k] && !g.prevKeys[k]
	}

	if pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	if pressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if pressed(ebiten.KeyComma) {
		g.simSpeed = slower(g.simSpeed)
	}
	if pressed(ebiten.KeyPeriod) {
		g.simSpeed = faster(g.simSpeed)
	}
	// Backspace: back to default parameters.
	if pressed(ebiten.KeyBackspace) {
		g.params.Reset()
		g.events.Add(g.sketch.Tick(), "cfg", "config", "reset", "defaults", 0)
	}

	g.prevKeys = current
}

func slower(speed float64) float64 {
	for i := len(simSpeeds) - 1; i > 0; i-- {
		if simSpeeds[i] < speed {
			return simSpeeds[i]
		}
	}
	return simSpeeds[0]
}

func faster(speed float64) float64 {
	for _, s := range simSpeeds {
		if s > speed {
			return s
		}
	}
	return simSpeeds[len(simSpeeds)-1]
}

func speedLabel(speed float64) string {
	if speed == 0 {
		return "PAUSED"
	}
	return fmt.Sprintf("%gx", speed)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	screen.DrawImage(g.main.Image(), nil)
	if g.showHUD {
		g.drawHUD(screen)
	}
}

func (g *Game) hudLines() []string {
	rep := g.sketch.Report()
	return []string{
		fmt.Sprintf("tick %d  t=%.1fs  %s", rep.Tick, rep.Time/1000, speedLabel(g.simSpeed)),
		fmt.Sprintf("strokes %d  dormant %d  active %d  expired %d", rep.Strokes, rep.Dormant, rep.Active, rep.Expired),
		fmt.Sprintf("per region %v", rep.PerRegion),
		fmt.Sprintf("particles %d/%.0f  grid %d cells @%dpx", rep.Particles, g.params.Float(sketch.ParamParticleMaxCount), rep.GridCells, rep.GridCellSize),
		"H hud  P pause  ,/. speed  Backspace defaults",
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := g.hudLines()
	boxW := float32(g.width - 2*hudPad)
	boxH := float32(len(lines)*hudLineH + 2*hudPad)
	vector.FillRect(screen, hudPad, hudPad, boxW, boxH, color.RGBA{R: 6, G: 10, B: 6, A: 210}, false)
	vector.StrokeRect(screen, hudPad, hudPad, boxW, boxH, 1, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)
	for i, line := range lines {
		drawText(screen, g.face, line, 2*hudPad, 2*hudPad+i*hudLineH, color.White)
	}

	logY := int(boxH) + 2*hudPad
	logH := g.height/3 - logY
	if logH > logTitleH {
		g.events.Draw(screen, g.face, hudPad, logY, logH)
	}
}

// Layout keeps the logical screen at canvas size; ebiten scales it to the
// window.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
