// Package config loads sketch parameters from flat TOML or YAML files.
//
// A file is a single table of parameter name to number:
//
//	linesPerRegion = 5
//	particleMaxCount = 20
//
// Values go through Params.Set, so they are clamped and snapped like any
// other live edit.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Garsondee/panelflow/internal/sketch"
)

var (
	// ErrUnknownParam is returned when a file names a parameter the sketch
	// does not define.
	ErrUnknownParam = errors.New("unknown parameter")
	// ErrUnsupportedFormat is returned for file extensions other than
	// .toml, .yaml and .yml.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// Format is a parameter file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf picks the encoding from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// Decode parses data as a flat name→number table and checks every name
// against sketch.ParamDefs.
func Decode(data []byte, format Format) (map[string]float64, error) {
	raw := map[string]any{}
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &raw)
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}

	values := make(map[string]float64, len(raw))
	for name, v := range raw {
		if _, ok := sketch.ParamDefs[name]; !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownParam, name)
		}
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("parameter %q: want a number, got %T", name, v)
		}
		values[name] = f
	}
	return values, nil
}

// Apply writes values into p in name order and returns the names applied.
func Apply(p *sketch.Params, values map[string]float64) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p.Set(name, values[name])
	}
	return names
}

// Load reads path and applies it to p. Nothing is applied when any entry is
// invalid.
func Load(path string, p *sketch.Params) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	values, err := Decode(data, format)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	Apply(p, values)
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Watcher re-applies a parameter file whenever its modification time changes.
// Poll it from the frame loop; it never blocks beyond a stat.
type Watcher struct {
	path   string
	params *sketch.Params

	modTime time.Time
	size    int64
	loaded  bool
}

// NewWatcher returns a watcher for path. The first Poll loads the file.
func NewWatcher(path string, p *sketch.Params) *Watcher {
	return &Watcher{path: path, params: p}
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Poll loads the file if it changed since the last successful load and
// reports whether it did. A failed load is retried on the next change.
func (w *Watcher) Poll() (bool, error) {
	info, err := os.Stat(w.path)
	if err != nil {
		return false, fmt.Errorf("stat config: %w", err)
	}
	if w.loaded && info.ModTime().Equal(w.modTime) && info.Size() == w.size {
		return false, nil
	}
	w.modTime, w.size, w.loaded = info.ModTime(), info.Size(), true
	if err := Load(w.path, w.params); err != nil {
		return false, err
	}
	return true, nil
}
