package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Versifine/locomotion/internal/camera"
	"github.com/Versifine/locomotion/internal/config"
	"github.com/Versifine/locomotion/internal/debug"
	"github.com/Versifine/locomotion/internal/input"
	"github.com/Versifine/locomotion/internal/locomotion"
	"github.com/Versifine/locomotion/internal/logger"
	"github.com/Versifine/locomotion/internal/visual"
	"github.com/Versifine/locomotion/internal/world"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the sandbox config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logFile, err := logger.Open(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		slog.Error("Failed to open log", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	scene, err := world.LoadScene(cfg.Sandbox.Scene)
	if err != nil {
		slog.Error("Failed to load scene", "path", cfg.Sandbox.Scene, "error", err)
		os.Exit(1)
	}

	orbit := &camera.Orbit{}
	bus := input.NewBus()
	driver := visual.NewDriver()
	deps := locomotion.Deps{
		Physics:   scene,
		Animation: driver,
		Input:     bus,
		Camera:    orbit,
	}

	ctrl, err := locomotion.New(cfg.Locomotion, deps, scene.Spawn)
	if err != nil {
		slog.Error("Failed to create controller", "error", err)
		os.Exit(1)
	}
	if err := ctrl.Activate(); err != nil {
		slog.Error("Failed to activate controller", "error", err)
		os.Exit(1)
	}
	current := ctrl
	defer func() { current.Deactivate() }()

	console := debug.NewConsole(ctrl, bus, orbit, driver, scene.Spawn)
	console.SetTickInterval(cfg.Sandbox.TickInterval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Sandbox.Watch {
		watcher, err := config.NewWatcher(*configPath)
		if err != nil {
			slog.Error("Failed to watch config", "error", err)
			os.Exit(1)
		}
		defer watcher.Close()
		go watchConfig(ctx, watcher, func(next *config.Config) {
			console.Do(func() {
				logger.SetLevel(next.Logging.Level)
				if rebuilt, ok := rebuild(current, next.Locomotion, deps); ok {
					current = rebuilt
					console.SetCharacter(rebuilt)
				}
			})
		})
	}

	slog.Info("Sandbox ready", "scene", cfg.Sandbox.Scene, "objects", len(scene.Objects()), "spawn", scene.Spawn)
	if err := console.Start(ctx); err != nil {
		slog.Error("Console stopped", "error", err)
		os.Exit(1)
	}
}

func watchConfig(ctx context.Context, w *config.Watcher, apply func(*config.Config)) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			slog.Warn("Config watcher error", "error", err)
		case path, ok := <-w.Events:
			if !ok {
				return
			}
			next, err := config.Load(path)
			if err != nil {
				slog.Warn("Config reload rejected", "path", path, "error", err)
				continue
			}
			slog.Info("Config reloaded", "path", path)
			apply(next)
		}
	}
}

// rebuild swaps in a controller built from settings, carrying the current
// locomotion state over. The old controller stays active on failure.
func rebuild(old *locomotion.Controller, settings locomotion.Settings, deps locomotion.Deps) (*locomotion.Controller, bool) {
	st := old.State()
	next, err := locomotion.New(settings, deps, st.Position)
	if err != nil {
		slog.Warn("Controller rebuild rejected", "error", err)
		return nil, false
	}
	next.Restore(st)
	old.Deactivate()
	if err := next.Activate(); err != nil {
		slog.Warn("Controller activation failed", "error", err)
		_ = old.Activate()
		return nil, false
	}
	return next, true
}
