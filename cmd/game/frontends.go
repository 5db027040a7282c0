package main

import (
	"context"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"sphere-trail/internal/commands"
	"sphere-trail/internal/debug"
	"sphere-trail/internal/engineconfig"
	"sphere-trail/internal/game"
	"sphere-trail/internal/graphics"
	"sphere-trail/internal/logger"
	"sphere-trail/internal/render"
	"sphere-trail/internal/scene"
	"sphere-trail/internal/schedule"
	"sphere-trail/internal/terminal"
	"sphere-trail/internal/tui"
)

// gameKeys are forwarded to the game when the terminal is closed.
var gameKeys = []int32{rl.KeyW, rl.KeyA, rl.KeyS, rl.KeyD, rl.KeyZero}

func setGrid(scenes *scene.Registry, show bool) {
	for _, name := range scenes.Names() {
		if s, err := scenes.Get(name); err == nil {
			s.GridVisible = show
		}
	}
}

func runRaylib(ctx context.Context, g *game.Game, reg *commands.Registry, logs *logger.Logger, prefs engineconfig.EnginePrefs, notify *func(string)) {
	term := terminal.New(logs, reg)
	*notify = term.Notify
	dbg := debug.New()
	r := render.New()
	r.FreeCamera = CLI.FreeCamera
	dbg.SetShowFPS(prefs.ShowFPS)
	dbg.SetShowMemAlloc(prefs.ShowMemAlloc)
	game.RegisterCommands(ctx, reg, g, game.Overlays{
		ShowFPS:      dbg.SetShowFPS,
		ShowMemAlloc: dbg.SetShowMemAlloc,
		ShowGrid:     func(show bool) { setGrid(g.Scenes(), show) },
		FreeCamera:   func(free bool) { r.FreeCamera = free },
	}, term.Say)
	g.OnResize(func(w, h int) {
		logs.Debug().Int("width", w).Int("height", h).Msg("window resized")
	})

	win := graphics.DefaultWindow()
	win.Fullscreen = CLI.Fullscreen
	win.Shutdown = r.Unload

	update := func(dt time.Duration) {
		term.Update()
		if !term.IsOpen() {
			for _, k := range gameKeys {
				if rl.IsKeyPressed(k) {
					g.HandleKey(k)
				}
			}
		}
		if rl.IsWindowResized() {
			g.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
		}
		// Long frames (window drag, breakpoints) are clamped; the scheduler bounds catch-up too.
		g.Scheduler().Advance(min(dt, schedule.DefaultMaxCatchUp*g.Player().TickPeriod()))
		r.Update(g.Current())
	}
	draw := func() {
		r.Draw(g.Current())
		term.Draw()
		dbg.Draw(g)
	}
	graphics.Run(win, update, draw, func() bool { return ctx.Err() != nil })
}

func runTUI(ctx context.Context, g *game.Game, reg *commands.Registry, log zerolog.Logger, notify *func(string)) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	app := tui.New(screen, g, reg, log)
	*notify = app.Notify
	game.RegisterCommands(ctx, reg, g, game.Overlays{
		ShowGrid: func(show bool) { setGrid(g.Scenes(), show) },
	}, app.Say)
	app.Run(ctx)
	return nil
}
