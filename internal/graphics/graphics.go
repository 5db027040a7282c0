// Package graphics owns the raylib window and frame loop.
package graphics

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Window describes the window to open. Zero Width/Height with Fullscreen uses the monitor size.
type Window struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	TargetFPS  int
	// Shutdown runs after the loop while the GL context is still alive (unload meshes, shaders).
	Shutdown func()
}

// DefaultWindow is a resizable 1280x720 window at 60 FPS.
func DefaultWindow() Window {
	return Window{Title: "sphere-trail", Width: 1280, Height: 720, TargetFPS: 60}
}

// Run opens the window and runs the loop until it is closed or done returns true.
// Each frame it calls update with the frame time, then clears the screen and calls draw.
// ESC is left to the terminal, so the window is closed with its close button.
func Run(w Window, update func(dt time.Duration), draw func(), done func() bool) {
	if w.Fullscreen {
		rl.SetConfigFlags(rl.FlagFullscreenMode)
		w.Width, w.Height = 0, 0
	} else {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}
	rl.InitWindow(int32(w.Width), int32(w.Height), w.Title)
	defer rl.CloseWindow()

	if w.Fullscreen {
		m := rl.GetCurrentMonitor()
		rl.SetWindowSize(rl.GetMonitorWidth(m), rl.GetMonitorHeight(m))
	}
	rl.SetExitKey(rl.KeyNull)
	if w.TargetFPS > 0 {
		rl.SetTargetFPS(int32(w.TargetFPS))
	}

	for !rl.WindowShouldClose() && (done == nil || !done()) {
		update(time.Duration(float64(rl.GetFrameTime()) * float64(time.Second)))

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		draw()
		rl.EndDrawing()
	}
	if w.Shutdown != nil {
		w.Shutdown()
	}
}
