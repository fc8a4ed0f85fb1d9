package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lagoon-sim/lagoon/camera"
	"github.com/lagoon-sim/lagoon/config"
	"github.com/lagoon-sim/lagoon/renderer"
	"github.com/lagoon-sim/lagoon/sim"
	"github.com/lagoon-sim/lagoon/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "Spawn jitter seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited, headless only)")

	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Structured logging: JSON to stdout
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	s, err := sim.New(cfg, sim.Options{
		Seed:      rngSeed,
		OutputDir: *outputDir,
		LogStats:  *logStats,
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	slog.Info("simulation ready",
		"particles", cfg.Sim.ParticleCount,
		"dt", cfg.Sim.DT,
		"seed", rngSeed,
	)

	if *headless {
		runHeadless(s, *maxTicks)
		return
	}
	runGraphics(cfg, s)
}

// runHeadless steps as fast as possible without a window.
func runHeadless(s *sim.Sim, maxTicks int) {
	start := time.Now()
	for maxTicks == 0 || s.Tick() < maxTicks {
		s.Update()
	}
	elapsed := time.Since(start)
	slog.Info("headless run complete",
		"ticks", s.Tick(),
		"elapsed", elapsed.String(),
		"ticks_per_sec", float64(s.Tick())/elapsed.Seconds(),
	)
}

// runGraphics opens the window and drives the interactive loop.
func runGraphics(cfg *config.Config, s *sim.Sim) {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "lagoon")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	cam := camera.New(
		cfg.Container.Center[0],
		cfg.Container.Center[1],
		cfg.Container.Center[2],
		4.0,
	)
	fr := renderer.NewFluidRenderer()
	panel := ui.NewTuningPanel(20, 50, 300)

	for !rl.WindowShouldClose() {
		s.HandleInput()
		handleCameraInput(cam)
		if rl.IsKeyPressed(rl.KeyTab) {
			panel.Toggle()
		}

		s.Update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(12, 16, 24, 255))

		rl.BeginMode3D(renderer.Camera3D(cam))
		fr.Draw(s.Particles())
		fr.DrawContainer(s.Container())
		rl.EndMode3D()

		actions := panel.Draw(s.Params(), s.Paused(), s.Tick())
		if actions.TogglePause {
			s.TogglePause()
		}
		if actions.StepOnce {
			s.RequestStep()
		}
		if actions.Reset {
			s.Reset()
		}

		rl.DrawFPS(int32(cfg.Screen.Width)-100, 10)
		rl.EndDrawing()
	}
}

// handleCameraInput orbits with left-drag and zooms with the wheel.
func handleCameraInput(cam *camera.Camera) {
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		delta := rl.GetMouseDelta()
		cam.Orbit(float64(-delta.X)*0.005, float64(delta.Y)*0.005)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.Zoom(float64(wheel) * 0.3)
	}
}
