package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Garsondee/panelflow/internal/config"
	"github.com/Garsondee/panelflow/internal/raster"
	"github.com/Garsondee/panelflow/internal/sketch"
)

type runStats struct {
	runIndex int
	seed     int64

	firstActivateTick   int
	firstRegenerateTick int
	firstSaturatedTick  int
	lastRegenerateTick  int

	strokeSpawns  int
	activations   int
	expiries      int
	regenerations int
	trims         int
	orphans       int
	particleSpawn int
	gridRebuilds  int

	report sketch.Report

	mainAlpha     float64
	particleAlpha float64
	strokeAlpha   float64

	eventLog string
}

// logOptions selects what a run records and which part of its event log is
// printed.
type logOptions struct {
	keep    bool   // print the event log at all
	verbose bool   // record per-particle moves
	from    int    // first tick printed
	to      int    // last tick printed, negative for no limit
	subject string // only this subject, e.g. "S3" or "P0"
}

// runOptions configures one headless run.
type runOptions struct {
	params *sketch.Params
	noise  string
	log    logOptions
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var configPath string
	var copyOut bool
	var showLog bool
	var verbose bool
	var logFrom int
	var logTo int
	var subject string
	var noiseName string

	flag.IntVar(&runs, "runs", 5, "number of headless sketch runs")
	flag.IntVar(&ticks, "ticks", 600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&configPath, "config", "", "parameter file (.toml, .yaml)")
	flag.BoolVar(&copyOut, "copy", false, "copy the report to the clipboard")
	flag.BoolVar(&showLog, "log", false, "include every run's event log")
	flag.BoolVar(&verbose, "verbose", false, "record per-particle moves in the event log")
	flag.IntVar(&logFrom, "log-from", 0, "first tick of the printed event log")
	flag.IntVar(&logTo, "log-to", -1, "last tick of the printed event log (-1 = end)")
	flag.StringVar(&subject, "subject", "", "print only events for this subject (e.g. S3, P0)")
	flag.StringVar(&noiseName, "noise", sketch.NoisePerlin, "noise oracle: perlin or value")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}

	params := sketch.NewParams()
	if configPath != "" {
		if err := config.Load(configPath, params); err != nil {
			log.Fatal(err)
		}
	}
	if _, err := sketch.NewNoise(noiseName, seedBase, params); err != nil {
		log.Fatal(err)
	}
	opts := runOptions{
		params: params,
		noise:  noiseName,
		log: logOptions{
			keep:    showLog || subject != "" || logFrom > 0 || logTo >= 0,
			verbose: verbose,
			from:    logFrom,
			to:      logTo,
			subject: subject,
		},
	}

	var sb strings.Builder
	out := io.MultiWriter(os.Stdout, &sb)

	fmt.Fprintf(out, "=== Headless Sketch Report ===\n")
	fmt.Fprintf(out, "runs=%d ticks=%d seed_base=%d seed_step=%d noise=%s config=%q\n\n", runs, ticks, seedBase, seedStep, noiseName, configPath)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runSketch(i+1, seed, ticks, opts)
		all = append(all, stats)
		printRun(out, stats)
	}
	printAggregate(out, all)

	if copyOut {
		if err := clipboard.WriteAll(sb.String()); err != nil {
			log.Printf("copy to clipboard: %v", err)
		} else {
			log.Printf("report copied to clipboard (%d bytes)", sb.Len())
		}
	}
}

// runSketch steps a fresh sketch on the software backend and collects its
// lifecycle counts. Every run gets its own copy of the params.
func runSketch(runIndex int, seed int64, ticks int, opts runOptions) runStats {
	p := sketch.NewParams()
	if opts.params != nil {
		for _, name := range sketch.ParamNames() {
			p.SetRaw(name, opts.params.Float(name))
		}
	}
	noise, err := sketch.NewNoise(opts.noise, seed, p)
	if err != nil {
		log.Printf("run %d: %v, using perlin", runIndex, err)
		noise, _ = sketch.NewNoise(sketch.NoisePerlin, seed, p)
	}
	events := sketch.NewSimLog(opts.log.verbose)
	sk := sketch.New(raster.Renderer{},
		sketch.WithSeed(seed),
		sketch.WithParams(p),
		sketch.WithNoise(noise),
		sketch.WithEvents(events),
	)
	sk.Run(ticks)

	rs := summarize(events.Entries())
	rs.runIndex = runIndex
	rs.seed = seed
	rs.report = sk.Report()
	rs.mainAlpha = sk.Main().(*raster.Image).MeanAlpha()
	rs.particleAlpha = sk.ParticleLayer().(*raster.Image).MeanAlpha()
	rs.strokeAlpha = sk.StrokeLayer().(*raster.Image).MeanAlpha()
	rs.lastRegenerateTick = -1
	if e, ok := events.LastOf("stroke", "regenerate"); ok {
		rs.lastRegenerateTick = e.Tick
	}
	if opts.log.keep {
		rs.eventLog = selectLog(events, opts.log)
	}
	return rs
}

// selectLog renders the part of the event log chosen by lo.
func selectLog(events *sketch.SimLog, lo logOptions) string {
	to := lo.to
	if to < 0 {
		to = math.MaxInt
	}
	if lo.subject == "" {
		return events.FormatRange(lo.from, to)
	}
	var sb strings.Builder
	for _, e := range events.FilterSubject(lo.subject) {
		if e.Tick < lo.from || e.Tick > to {
			continue
		}
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// summarize counts lifecycle events. Setup spawns are logged at tick 0 and
// count like any other spawn.
func summarize(entries []sketch.SimLogEntry) runStats {
	rs := runStats{
		firstActivateTick:   firstTick(entries, "stroke", "activate"),
		firstRegenerateTick: firstTick(entries, "stroke", "regenerate"),
		firstSaturatedTick:  firstTick(entries, "particle", "saturated"),
	}
	for _, e := range entries {
		switch e.Category {
		case "stroke":
			switch e.Key {
			case "spawn":
				rs.strokeSpawns++
			case "activate":
				rs.activations++
			case "expire":
				rs.expiries++
			case "regenerate":
				rs.regenerations++
			case "trim":
				rs.trims++
			case "orphan":
				rs.orphans++
			}
		case "particle":
			if e.Key == "spawn" {
				rs.particleSpawn++
			}
		case "grid":
			if e.Key == "rebuild" {
				rs.gridRebuilds++
			}
		}
	}
	return rs
}

func firstTick(entries []sketch.SimLogEntry, category, key string) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return -1
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(w, "phase_markers: first_activate=%d first_regenerate=%d last_regenerate=%d particles_saturated=%d\n",
		rs.firstActivateTick, rs.firstRegenerateTick, rs.lastRegenerateTick, rs.firstSaturatedTick)
	fmt.Fprintf(w, "stroke_events: spawn=%d activate=%d expire=%d regenerate=%d trim=%d orphan=%d\n",
		rs.strokeSpawns, rs.activations, rs.expiries, rs.regenerations, rs.trims, rs.orphans)
	fmt.Fprintf(w, "particle_events: spawn=%d  grid_rebuilds=%d\n", rs.particleSpawn, rs.gridRebuilds)
	fmt.Fprintf(w, "layer_alpha_mean: main=%.1f particles=%.2f strokes=%.2f\n", rs.mainAlpha, rs.particleAlpha, rs.strokeAlpha)
	fmt.Fprint(w, rs.report.String())
	if rs.eventLog != "" {
		fmt.Fprintln(w, "event_log:")
		fmt.Fprint(w, rs.eventLog)
	}
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	var spawns, activations, regenerations, trims, orphans, particleSpawns int
	var particleAlpha, strokeAlpha float64
	activateTicks := make([]int, 0, len(all))
	regenerateTicks := make([]int, 0, len(all))
	saturatedTicks := make([]int, 0, len(all))

	for _, rs := range all {
		spawns += rs.strokeSpawns
		activations += rs.activations
		regenerations += rs.regenerations
		trims += rs.trims
		orphans += rs.orphans
		particleSpawns += rs.particleSpawn
		particleAlpha += rs.particleAlpha
		strokeAlpha += rs.strokeAlpha
		if rs.firstActivateTick >= 0 {
			activateTicks = append(activateTicks, rs.firstActivateTick)
		}
		if rs.firstRegenerateTick >= 0 {
			regenerateTicks = append(regenerateTicks, rs.firstRegenerateTick)
		}
		if rs.firstSaturatedTick >= 0 {
			saturatedTicks = append(saturatedTicks, rs.firstSaturatedTick)
		}
	}

	n := len(all)
	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d\n", n)
	fmt.Fprintf(w, "avg_stroke_events_per_run: spawn=%.1f activate=%.1f regenerate=%.1f trim=%.1f orphan=%.1f\n",
		avg(spawns, n), avg(activations, n), avg(regenerations, n), avg(trims, n), avg(orphans, n))
	fmt.Fprintf(w, "avg_particle_spawns_per_run=%.1f\n", avg(particleSpawns, n))
	fmt.Fprintf(w, "phase_marker_avg_ticks: first_activate=%s first_regenerate=%s particles_saturated=%s\n",
		avgTickString(activateTicks), avgTickString(regenerateTicks), avgTickString(saturatedTicks))
	if n > 0 {
		fmt.Fprintf(w, "avg_layer_alpha: particles=%.2f strokes=%.2f\n", particleAlpha/float64(n), strokeAlpha/float64(n))
	}
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
