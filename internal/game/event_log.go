package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	logMaxEntries = 40
	logPanelWidth = 520
	logLineHeight = 20
	logTitleH     = 26
)

// EventEntry is a single line in the event log.
type EventEntry struct {
	Tick     int
	Subject  string // e.g. "S12", "P3", "grid"
	Category string
	Key      string
	Value    string
}

// EventLog is a ring buffer of recent sketch events, drawn as a HUD panel.
// It implements sketch.EventSink.
type EventLog struct {
	entries []EventEntry
	head    int
	count   int
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{entries: make([]EventEntry, logMaxEntries)}
}

// Add appends an entry, overwriting the oldest once full.
func (el *EventLog) Add(tick int, subject, category, key, value string, _ float64) {
	el.entries[el.head] = EventEntry{
		Tick:     tick,
		Subject:  subject,
		Category: category,
		Key:      key,
		Value:    value,
	}
	el.head = (el.head + 1) % logMaxEntries
	if el.count < logMaxEntries {
		el.count++
	}
}

// Len returns how many entries are held.
func (el *EventLog) Len() int { return el.count }

// Recent returns entries in chronological order (oldest first).
func (el *EventLog) Recent() []EventEntry {
	result := make([]EventEntry, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + logMaxEntries) % logMaxEntries
		result[i] = el.entries[idx]
	}
	return result
}

func categoryColor(category string) color.RGBA {
	switch category {
	case "stroke":
		return color.RGBA{R: 70, G: 110, B: 210, A: 255}
	case "particle":
		return color.RGBA{R: 210, G: 70, B: 70, A: 255}
	case "config":
		return color.RGBA{R: 220, G: 180, B: 40, A: 255}
	}
	return color.RGBA{R: 120, G: 160, B: 120, A: 255}
}

// Draw renders the log panel with its top-left corner at (panelX, panelY).
// face may be nil, in which case the debug font is used.
func (el *EventLog) Draw(screen *ebiten.Image, face text.Face, panelX, panelY, panelH int) {
	px, py := float32(panelX), float32(panelY)
	vector.FillRect(screen, px, py, logPanelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 220}, false)
	vector.FillRect(screen, px, py, logPanelWidth, logTitleH, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	vector.StrokeLine(screen, px, py+logTitleH, px+logPanelWidth, py+logTitleH, 1, color.RGBA{R: 50, G: 80, B: 50, A: 200}, false)
	drawText(screen, face, "EVENTS", panelX+8, panelY+4, color.White)

	entries := el.Recent()
	maxVisible := (panelH - logTitleH - 4) / logLineHeight
	if maxVisible < 0 {
		maxVisible = 0
	}
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := panelY + logTitleH + 4
	for i, e := range entries {
		if i >= len(entries)-3 {
			vector.FillRect(screen, px+2, float32(y), logPanelWidth-4, logLineHeight, color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
		}
		vector.FillRect(screen, px+5, float32(y+6), 4, 8, categoryColor(e.Category), false)
		line := fmt.Sprintf("%5d %-5s %s %s", e.Tick, e.Subject, e.Key, e.Value)
		drawText(screen, face, line, panelX+14, y, color.RGBA{R: 200, G: 210, B: 200, A: 255})
		y += logLineHeight
	}
}

func drawText(screen *ebiten.Image, face text.Face, s string, x, y int, clr color.Color) {
	if face == nil {
		ebitenutil.DebugPrintAt(screen, s, x, y)
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, face, op)
}
