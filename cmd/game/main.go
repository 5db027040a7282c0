package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sphere-trail/internal/commands"
	"sphere-trail/internal/engineconfig"
	"sphere-trail/internal/game"
	"sphere-trail/internal/logger"
	"sphere-trail/internal/schedule"
	"sphere-trail/internal/storage"
)

var CLI struct {
	Config      string `help:"Engine config file." default:"config/engine.yaml" type:"path" env:"SPHERE_TRAIL_CONFIG"`
	WriteConfig bool   `help:"Write the default config to --config and exit."`
	Debug       bool   `help:"Enable debug logging."`
	Frontend    string `help:"Frontend to run." enum:"raylib,tui" default:"raylib" env:"SPHERE_TRAIL_FRONTEND"`
	Fullscreen  bool   `help:"Open the raylib window fullscreen."`
	FreeCamera  bool   `help:"Start with the orbiting camera (toggle in game with cmd camera --free|--fixed)."`
	Scene       string `help:"Scene to start in, overriding the config."`
	Restore     bool   `help:"Restore the saved session on start."`
	NoSave      bool   `help:"Do not save the session on exit."`

	Storage       string `help:"Session storage backend (file or redis), overriding the config." env:"SPHERE_TRAIL_STORAGE"`
	RedisAddr     string `help:"Redis address for the redis backend." env:"SPHERE_TRAIL_REDIS_ADDR"`
	RedisPassword string `help:"Redis password." env:"SPHERE_TRAIL_REDIS_PASSWORD"`
}

const redisPingTimeout = 2 * time.Second

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	kong.Parse(&CLI,
		kong.Name("sphere-trail"),
		kong.Description("a sphere with a tail, steered with WASD across two scenes"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true, Summary: true}))

	if CLI.WriteConfig {
		if err := engineconfig.Save(CLI.Config, engineconfig.Default()); err != nil {
			writeError(err)
		}
		return
	}

	if err := run(); err != nil {
		writeError(err)
	}
}

func run() error {
	level := zerolog.InfoLevel
	if CLI.Debug {
		level = zerolog.DebugLevel
	}
	logOpts := logger.Options{FilePath: logger.LogFilePath, Level: level}
	if CLI.Frontend == "raylib" {
		// The tui owns the terminal; only the raylib frontend also logs to stderr.
		logOpts.Console = os.Stderr
	}
	logs := logger.NewWithOptions(logOpts)
	defer logs.Close()
	log := logs.With().Str("session", uuid.NewString()).Logger()

	prefs, err := engineconfig.Load(CLI.Config)
	if err != nil {
		log.Warn().Err(err).Str("path", CLI.Config).Msg("using default config")
	}
	applyOverrides(&prefs)
	if err := prefs.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := openStore(ctx, prefs.Storage, log)
	defer closeStore()

	scenes, err := game.BuildScenes(prefs.Scenes)
	if err != nil {
		return err
	}
	setGrid(scenes, prefs.GridVisible)

	// The frontend that shows notices is built after the game, so notices go through notify.
	var notify func(string)
	opts := game.OptionsFromPrefs(prefs)
	opts.Logger = log
	opts.Store = store
	opts.Notifier = game.NotifierFunc(func(msg string) {
		if notify != nil {
			notify(msg)
		}
	})
	g, err := game.New(scenes, schedule.New(), opts)
	if err != nil {
		return err
	}
	defer g.Close()

	if CLI.Restore {
		if _, err := g.Load(ctx); err != nil {
			log.Warn().Err(err).Msg("could not restore session")
		}
	}

	reg := commands.NewRegistry()
	switch CLI.Frontend {
	case "tui":
		err = runTUI(ctx, g, reg, log, &notify)
	default:
		runRaylib(ctx, g, reg, logs, prefs, &notify)
	}
	if err != nil {
		return err
	}

	if !CLI.NoSave {
		saveCtx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err := g.Save(saveCtx); err != nil && !errors.Is(err, game.ErrNoStore) {
			log.Error().Err(err).Msg("could not save session")
		}
	}
	return nil
}

func applyOverrides(p *engineconfig.EnginePrefs) {
	if CLI.Scene != "" {
		p.StartScene = CLI.Scene
	}
	if CLI.Storage != "" {
		p.Storage.Backend = CLI.Storage
	}
	if CLI.RedisAddr != "" {
		p.Storage.RedisAddr = CLI.RedisAddr
	}
	if CLI.RedisPassword != "" {
		p.Storage.RedisPassword = CLI.RedisPassword
	}
}

// openStore returns the configured session store. An unreachable Redis falls back to files.
func openStore(ctx context.Context, p engineconfig.StoragePrefs, log zerolog.Logger) (storage.Store, func()) {
	files := storage.NewFileStore(p.Dir)
	if p.Backend != engineconfig.BackendRedis {
		return files, func() {}
	}
	rs := storage.NewRedisStore(p.RedisAddr, p.RedisPassword, p.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rs.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", p.RedisAddr).Msg("redis unavailable, saving sessions to files")
		_ = rs.Close()
		return files, func() {}
	}
	log.Info().Str("addr", p.RedisAddr).Msg("saving sessions to redis")
	return rs, func() { _ = rs.Close() }
}
