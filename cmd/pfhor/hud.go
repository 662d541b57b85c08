package main

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/pfhor/pkg/render"
)

// HUD styles
var (
	hudStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0e0e0")).
			Background(lipgloss.Color("#101018"))
	hudFPSStyle = hudStyle.Foreground(lipgloss.Color("#5fff87")).Bold(true)
	hudMsgStyle = hudStyle.Foreground(lipgloss.Color("#ffd75f"))
)

// messageLifetime is how long a status message stays on screen.
const messageLifetime = 3 * time.Second

// HUD is the one-line status overlay of the viewer.
type HUD struct {
	Visible bool

	name      string
	fps       float64
	fpsFrames int
	fpsTime   time.Time

	message   string
	messageAt time.Time
}

// NewHUD creates a visible HUD for the level called name.
func NewHUD(name string, now time.Time) *HUD {
	return &HUD{Visible: true, name: name, fpsTime: now}
}

// Tick counts one frame. The rate is recomputed once a second.
func (h *HUD) Tick(now time.Time) {
	h.fpsFrames++
	elapsed := now.Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// FPS returns the last measured frame rate.
func (h *HUD) FPS() float64 {
	return h.fps
}

// Say shows msg for a few seconds.
func (h *HUD) Say(now time.Time, format string, args ...any) {
	h.message = fmt.Sprintf(format, args...)
	h.messageAt = now
}

// Line renders the status line for the given frame.
func (h *HUD) Line(now time.Time, polygon int, stats render.Stats) string {
	var b strings.Builder
	b.WriteString(hudFPSStyle.Render(fmt.Sprintf(" %3.0f FPS ", h.fps)))
	b.WriteString(hudStyle.Render(fmt.Sprintf(" %s │ polygon %d │ %d portals │ %d entries ",
		h.name, polygon, stats.Portals, stats.Entries)))
	if h.message != "" && now.Sub(h.messageAt) < messageLifetime {
		b.WriteString(hudMsgStyle.Render(" " + h.message + " "))
	}
	return b.String()
}

// Draw draws the status line on the top row of area.
func (h *HUD) Draw(scr uv.Screen, area uv.Rectangle, line string) {
	if !h.Visible || area.Empty() {
		return
	}
	row := area
	row.Max.Y = row.Min.Y + 1
	uv.NewStyledString(line).Draw(scr, row)
}
