// Package tui is a terminal frontend: it draws the world top-down with tcell and drives the
// scheduler from its own frame ticker, so the demo runs without a GPU.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chewxy/math32"
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"sphere-trail/internal/commands"
	"sphere-trail/internal/game"
	"sphere-trail/internal/physics"
	"sphere-trail/internal/player"
	"sphere-trail/internal/scene"
)

// FramePeriod is the redraw cadence (~30 FPS).
const FramePeriod = 33 * time.Millisecond

// colsPerUnit and rowsPerUnit scale world units to cells. Terminal cells are about twice as tall as wide,
// so X gets twice the columns.
const (
	colsPerUnit = 2
	rowsPerUnit = 1
)

var (
	styleDefault = tcell.StyleDefault
	styleGround  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleGrid    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(60, 60, 60))
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleTail    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleBody    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleStatus  = tcell.StyleDefault.Background(tcell.NewRGBColor(40, 40, 40)).Foreground(tcell.ColorWhite)
	styleNotice  = tcell.StyleDefault.Background(tcell.NewRGBColor(40, 40, 40)).Foreground(tcell.ColorOrange)
)

// App is the tcell frontend. HandleEvent and Frame must run on the same goroutine; Run does that.
type App struct {
	screen tcell.Screen
	game   *game.Game
	reg    *commands.Registry
	log    zerolog.Logger

	width, height int
	notice        string
	reply         string
	cmdMode       bool
	input         string
}

// New wraps an initialized screen.
func New(screen tcell.Screen, g *game.Game, reg *commands.Registry, log zerolog.Logger) *App {
	a := &App{screen: screen, game: g, reg: reg, log: log}
	a.width, a.height = screen.Size()
	return a
}

// Notify shows msg on the status line until the next one.
func (a *App) Notify(msg string) {
	a.notice = msg
}

// Say shows a command reply on the status line.
func (a *App) Say(msg string) {
	a.notice = ""
	a.reply = msg
}

// HandleEvent applies one tcell event. It returns false when the user asked to quit.
// ':' opens a command line whose text runs as "cmd <text>".
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if a.cmdMode {
			a.handleCommandKey(ev)
			return true
		}
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch r := ev.Rune(); r {
			case 'q':
				return false
			case ':':
				a.cmdMode = true
				a.input = ""
			default:
				a.game.HandleKey(player.KeyForRune(r))
			}
		}
	case *tcell.EventResize:
		a.width, a.height = ev.Size()
		a.screen.Sync()
		a.game.Resize(a.width, a.height)
	}
	return true
}

func (a *App) handleCommandKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.cmdMode = false
	case tcell.KeyEnter:
		a.cmdMode = false
		a.execute(a.input)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(a.input); len(r) > 0 {
			a.input = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		a.input += string(ev.Rune())
	}
}

func (a *App) execute(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	a.notice = ""
	a.reply = ""
	args, _ := commands.Parse("cmd " + line)
	if err := a.reg.Execute(args); err != nil {
		a.reply = err.Error()
		a.log.Debug().Err(err).Str("line", line).Msg("command failed")
	}
}

// Frame advances the game clock by dt and redraws.
func (a *App) Frame(dt time.Duration) {
	a.game.Scheduler().Advance(dt)
	a.Draw()
}

// Draw renders the current scene and the status lines.
func (a *App) Draw() {
	a.screen.Clear()
	s := a.game.Current()
	v := newView(a.width, a.height-2)
	if s.GridVisible {
		a.drawGrid(v)
	}
	for _, b := range s.World().Bodies {
		a.drawBody(v, b)
	}
	a.drawStatus()
	a.screen.Show()
}

// view maps world X/Z to screen cells with the origin at the centre of the map area; +Z is up.
type view struct {
	w, h   int
	cx, cy int
}

func newView(w, h int) view {
	return view{w: w, h: max(h, 0), cx: w / 2, cy: max(h, 0) / 2}
}

func (v view) cell(x, z float32) (col, row int, ok bool) {
	col = v.cx + int(math32.Round(x*colsPerUnit))
	row = v.cy - int(math32.Round(z*rowsPerUnit))
	return col, row, col >= 0 && col < v.w && row >= 0 && row < v.h
}

func (a *App) drawGrid(v view) {
	for row := 0; row < v.h; row++ {
		for col := 0; col < v.w; col++ {
			if (col-v.cx)%(colsPerUnit*5) == 0 && (row-v.cy)%(rowsPerUnit*5) == 0 {
				a.screen.SetContent(col, row, '+', nil, styleGrid)
			}
		}
	}
}

func (a *App) drawBody(v view, b *physics.Body) {
	switch {
	case b.Shape == physics.ShapePlane:
		hx, hz := b.Scale.X/2, b.Scale.Z/2
		c0, r0, _ := v.cell(b.Position.X-hx, b.Position.Z+hz)
		c1, r1, _ := v.cell(b.Position.X+hx, b.Position.Z-hz)
		for row := max(r0, 0); row <= min(r1, v.h-1); row++ {
			for col := max(c0, 0); col <= min(c1, v.w-1); col++ {
				if r, _, _, _ := a.screen.GetContent(col, row); r == ' ' || r == 0 {
					a.screen.SetContent(col, row, '.', nil, styleGround)
				}
			}
		}
	case b.Name == scene.PlayerName:
		if col, row, ok := v.cell(b.Position.X, b.Position.Z); ok {
			a.screen.SetContent(col, row, '@', nil, stylePlayer)
		}
	case strings.HasPrefix(b.Name, scene.TailPrefix):
		if col, row, ok := v.cell(b.Position.X, b.Position.Z); ok {
			a.screen.SetContent(col, row, 'o', nil, styleTail)
		}
	default:
		if col, row, ok := v.cell(b.Position.X, b.Position.Z); ok {
			a.screen.SetContent(col, row, '#', nil, styleBody)
		}
	}
}

func (a *App) putString(row int, s string, style tcell.Style) {
	col := 0
	for _, r := range s {
		if col >= a.width {
			return
		}
		a.screen.SetContent(col, row, r, nil, style)
		col++
	}
	for ; col < a.width; col++ {
		a.screen.SetContent(col, row, ' ', nil, style)
	}
}

// StatusLine is the one-line summary shown under the map.
func (a *App) StatusLine() string {
	st := a.game.Player().ExportState()
	p := st.LatestPosition
	return fmt.Sprintf("[%s] pos %.0f,%.0f dir %.0f,%.0f steps %d | wasd steer, 0 toggle, : command, q quit",
		a.game.Current().Name, p.X, p.Z, st.Direction.X, st.Direction.Z, st.Steps)
}

func (a *App) drawStatus() {
	if a.height < 2 {
		return
	}
	a.putString(a.height-2, a.StatusLine(), styleStatus)
	switch {
	case a.cmdMode:
		a.putString(a.height-1, ":"+a.input+"_", styleDefault)
	case a.notice != "":
		a.putString(a.height-1, a.notice, styleNotice)
	default:
		a.putString(a.height-1, a.reply, styleDefault)
	}
}

// Run polls screen events on a goroutine and runs the frame loop until ctx ends or the user quits.
func (a *App) Run(ctx context.Context) {
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(FramePeriod)
	defer ticker.Stop()
	last := time.Now()
	a.Draw()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if !a.HandleEvent(ev) {
				return
			}
		case now := <-ticker.C:
			a.Frame(now.Sub(last))
			last = now
		}
	}
}
