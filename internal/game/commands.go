package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sphere-trail/internal/commands"
)

// Overlays are the view switches the terminal commands can flip. Nil funcs are skipped.
type Overlays struct {
	ShowFPS      func(bool)
	ShowMemAlloc func(bool)
	ShowGrid     func(bool)
	// FreeCamera switches between user-orbited (true) and the scene's fixed camera.
	FreeCamera func(bool)
}

// RegisterCommands adds the game's terminal commands to reg. Output lines go to say.
func RegisterCommands(ctx context.Context, reg *commands.Registry, g *Game, ov Overlays, say func(string)) {
	reg.Register("scene", "<name>", nil, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: cmd scene <name> (have %s)", strings.Join(g.Scenes().Names(), ", "))
		}
		return g.SwitchScene(args[0])
	})
	reg.Register("scenes", "", nil, func([]string) error {
		say("scenes: " + strings.Join(g.Scenes().Names(), ", ") + " (current " + g.Current().Name + ")")
		return nil
	})
	reg.Register("toggle", "", nil, func([]string) error {
		return g.Toggle()
	})
	reg.Register("save", "", nil, func([]string) error {
		if err := g.Save(ctx); err != nil {
			return err
		}
		say("session saved")
		return nil
	})
	reg.Register("load", "", nil, func([]string) error {
		found, err := g.Load(ctx)
		if err != nil {
			return err
		}
		if !found {
			say("no saved session")
			return nil
		}
		say("session loaded")
		return nil
	})

	tickFS := commands.NewFlagSet("tick")
	ms := tickFS.Int("ms", 0, "tick period in milliseconds")
	reg.Register("tick", "--ms N", tickFS, func([]string) error {
		if *ms <= 0 {
			say(fmt.Sprintf("tick period %s", g.Player().TickPeriod()))
			return nil
		}
		d := time.Duration(*ms) * time.Millisecond
		g.SetTickPeriod(d)
		say(fmt.Sprintf("tick period set to %s", d))
		return nil
	})

	registerSwitch(reg, "fps", "show", "hide", ov.ShowFPS)
	registerSwitch(reg, "memalloc", "show", "hide", ov.ShowMemAlloc)
	registerSwitch(reg, "grid", "show", "hide", ov.ShowGrid)
	registerSwitch(reg, "camera", "free", "fixed", ov.FreeCamera)

	reg.Register("help", "", nil, func([]string) error {
		for _, line := range reg.Help() {
			say(line)
		}
		return nil
	})
}

// registerSwitch adds a "--on|--off" command calling set(true) or set(false).
// Nothing is registered for a nil set func.
func registerSwitch(reg *commands.Registry, name, on, off string, set func(bool)) {
	if set == nil {
		return
	}
	fs := commands.NewFlagSet(name)
	onFlag := fs.Bool(on, false, on+" "+name)
	offFlag := fs.Bool(off, false, off+" "+name)
	usage := "--" + on + "|--" + off
	reg.Register(name, usage, fs, func([]string) error {
		switch {
		case *onFlag && *offFlag:
			return fmt.Errorf("use either --%s or --%s", on, off)
		case *onFlag:
			set(true)
		case *offFlag:
			set(false)
		default:
			return fmt.Errorf("usage: cmd %s %s", name, usage)
		}
		return nil
	})
}
