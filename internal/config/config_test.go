package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Garsondee/panelflow/internal/sketch"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "params.toml", "linesPerRegion = 5\nnoiseScale = 0.02\n")
	p := sketch.NewParams()
	if err := Load(path, p); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := p.Float(sketch.ParamLinesPerRegion); got != 5 {
		t.Fatalf("linesPerRegion = %v, want 5", got)
	}
	if got := p.Float(sketch.ParamNoiseScale); got < 0.0199 || got > 0.0201 {
		t.Fatalf("noiseScale = %v, want 0.02", got)
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"params.yaml", "params.yml"} {
		path := writeFile(t, dir, name, "particleMaxCount: 20\ntrailTransparency: 30\n")
		p := sketch.NewParams()
		if err := Load(path, p); err != nil {
			t.Fatalf("Load %s: %v", name, err)
		}
		if p.Float(sketch.ParamParticleMaxCount) != 20 || p.Float(sketch.ParamTrailTransparency) != 30 {
			t.Fatalf("%s: values not applied", name)
		}
	}
}

func TestLoad_ClampsOutOfRange(t *testing.T) {
	path := writeFile(t, t.TempDir(), "params.toml", "linesPerRegion = 99\n")
	p := sketch.NewParams()
	if err := Load(path, p); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := p.Float(sketch.ParamLinesPerRegion); got != 10 {
		t.Fatalf("linesPerRegion = %v, want clamp to 10", got)
	}
}

func TestLoad_UnknownParamAppliesNothing(t *testing.T) {
	path := writeFile(t, t.TempDir(), "params.toml", "linesPerRegion = 7\nbogus = 1\n")
	p := sketch.NewParams()
	err := Load(path, p)
	if !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("expected ErrUnknownParam, got %v", err)
	}
	if got := p.Float(sketch.ParamLinesPerRegion); got != sketch.ParamDefs[sketch.ParamLinesPerRegion].Default {
		t.Fatalf("partial apply: linesPerRegion = %v", got)
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "params.json", "{}")
	if err := Load(path, sketch.NewParams()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "nope.toml"), sketch.NewParams())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected a wrapped not-exist error, got %v", err)
	}
}

func TestDecode_RejectsNonNumbers(t *testing.T) {
	if _, err := Decode([]byte(`gridSize = "big"`), FormatTOML); err == nil {
		t.Fatal("expected an error for a string value")
	}
	if _, err := Decode([]byte("gridSize: [1, 2]\n"), FormatYAML); err == nil {
		t.Fatal("expected an error for a list value")
	}
}

func TestDecode_SyntaxError(t *testing.T) {
	if _, err := Decode([]byte("gridSize = = 3"), FormatTOML); err == nil {
		t.Fatal("expected a TOML syntax error")
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "params.toml", "gridSize = 20\n")
	p := sketch.NewParams()
	w := NewWatcher(path, p)

	changed, err := w.Poll()
	if err != nil || !changed {
		t.Fatalf("first poll: changed=%v err=%v", changed, err)
	}
	if p.Float(sketch.ParamGridSize) != 20 {
		t.Fatal("first poll did not apply")
	}

	changed, err = w.Poll()
	if err != nil || changed {
		t.Fatalf("unchanged file: changed=%v err=%v", changed, err)
	}

	writeFile(t, dir, "params.toml", "gridSize = 30\n")
	later := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	changed, err = w.Poll()
	if err != nil || !changed {
		t.Fatalf("edited file: changed=%v err=%v", changed, err)
	}
	if p.Float(sketch.ParamGridSize) != 30 {
		t.Fatalf("gridSize = %v, want 30", p.Float(sketch.ParamGridSize))
	}
}

func TestWatcher_MissingFile(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "gone.yaml"), sketch.NewParams())
	if _, err := w.Poll(); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
