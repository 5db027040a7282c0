// Package debug draws the on-screen overlays: FPS, heap usage and the player HUD.
package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"sphere-trail/internal/game"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: overlay text is only rebuilt every N frames to limit allocations.
	updateInterval = 30
)

// Debug holds the overlay toggles. FPS and memory are off by default; the HUD is on.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowHUD      bool

	frameCount uint32
	fpsText    string
	memText    string
	memStats   runtime.MemStats
}

// New returns overlays with only the HUD visible.
func New() *Debug {
	return &Debug{ShowHUD: true}
}

// SetShowFPS toggles the FPS counter (top-right, green).
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
}

// SetShowMemAlloc toggles the heap counter drawn under FPS.
func (d *Debug) SetShowMemAlloc(show bool) {
	d.ShowMemAlloc = show
}

// HUDLines describes the game state for the top-left overlay.
func HUDLines(g *game.Game) []string {
	c := g.Player()
	st := c.ExportState()
	pos := st.LatestPosition
	dir := st.Direction
	return []string{
		"scene: " + g.Current().Name,
		fmt.Sprintf("pos: %.1f %.1f %.1f", pos.X, pos.Y, pos.Z),
		fmt.Sprintf("dir: %.0f %.0f %.0f", dir.X, dir.Y, dir.Z),
		fmt.Sprintf("steps: %d", st.Steps),
		"WASD steer, 0 toggle scene, ESC terminal",
	}
}

func drawRight(text string, y int32) {
	w := rl.MeasureText(text, fontSize)
	rl.DrawText(text, int32(rl.GetScreenWidth())-w-padding, y, fontSize, rl.Green)
}

// Draw renders the enabled overlays. Call after the scene and terminal in the draw loop.
func (d *Debug) Draw(g *game.Game) {
	d.frameCount++
	refresh := d.frameCount%updateInterval == 0 ||
		(d.ShowFPS && d.fpsText == "") || (d.ShowMemAlloc && d.memText == "")

	y := int32(padding)
	if d.ShowFPS {
		if refresh {
			d.fpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		drawRight(d.fpsText, y)
		y += lineHeight
	}
	if d.ShowMemAlloc {
		if refresh {
			runtime.ReadMemStats(&d.memStats)
			d.memText = fmt.Sprintf("Mem: %.2f MiB", float64(d.memStats.Alloc)/(1024*1024))
		}
		drawRight(d.memText, y)
	}

	if d.ShowHUD && g != nil {
		for i, line := range HUDLines(g) {
			rl.DrawText(line, padding, int32(padding+i*lineHeight), fontSize, rl.RayWhite)
		}
	}
}
