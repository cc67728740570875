package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsim/config"
	"github.com/pthm-cable/gridsim/game"
	"github.com/pthm-cable/gridsim/tui"
	"github.com/pthm-cable/gridsim/ui"
)

// options are the command line settings.
type options struct {
	configPath     string
	headless       bool
	terminal       bool
	logStats       bool
	logFormat      string
	logFile        string
	outputDir      string
	seed           int64
	maxTicks       int
	stepsPerUpdate int
	mode           string
	pattern        string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	flag.BoolVar(&opts.headless, "headless", false, "Run without graphics")
	flag.BoolVar(&opts.terminal, "tui", false, "Render in the terminal instead of a window")
	flag.BoolVar(&opts.logStats, "log-stats", false, "Output stats via slog")
	flag.StringVar(&opts.logFormat, "log-format", "json", "Log format: json or text")
	flag.StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of stdout")
	flag.StringVar(&opts.outputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	flag.Int64Var(&opts.seed, "seed", 0, "RNG seed (0 = time-based)")
	flag.IntVar(&opts.maxTicks, "max-ticks", 0, "Stop after N generations (0 = unlimited)")
	flag.IntVar(&opts.stepsPerUpdate, "steps-per-update", 0, "Generations per update call (0 = use config)")
	flag.StringVar(&opts.mode, "mode", "", "Simulation mode: ecosystem or life (empty = use config)")
	flag.StringVar(&opts.pattern, "pattern", "", "Life mode pattern file or name in the pattern directory")
	flag.Parse()

	if err := run(opts); err != nil {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			slog.Error("invalid configuration", "key", cfgErr.Key, "reason", cfgErr.Reason)
		} else {
			slog.Error("startup failed", "error", err)
		}
		os.Exit(1)
	}
}

// run sets up logging, builds the game and hands it to a front end.
// Deferred cleanup has finished by the time an error is returned.
func run(opts options) error {
	var logOut io.Writer = os.Stdout
	if opts.logFile != "" {
		f, err := os.Create(opts.logFile)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	var handler slog.Handler = slog.NewJSONHandler(logOut, nil)
	if opts.logFormat == "text" {
		handler = slog.NewTextHandler(logOut, nil)
	}
	prev := slog.Default()
	slog.SetDefault(slog.New(handler))
	if opts.logFile != "" {
		// Errors returned from here are logged after the file is closed
		defer slog.SetDefault(prev)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gameOpts := game.Options{
		Config:         cfg,
		Seed:           seed,
		Mode:           opts.mode,
		Pattern:        opts.pattern,
		Headless:       opts.headless,
		Autostart:      opts.headless,
		LogStats:       opts.logStats,
		OutputDir:      opts.outputDir,
		StepsPerUpdate: opts.stepsPerUpdate,
	}

	switch {
	case opts.headless:
		return runHeadless(gameOpts, opts.maxTicks)
	case opts.terminal:
		return runTerminal(gameOpts, opts.maxTicks, opts.logFile == "")
	default:
		return runWindow(gameOpts, opts.maxTicks)
	}
}

// runHeadless runs a pure CPU simulation, no raylib window needed.
func runHeadless(opts game.Options, maxTicks int) error {
	g, err := game.NewGame(opts)
	if err != nil {
		return err
	}
	defer g.Close()

	slog.Info("starting headless simulation",
		"seed", g.Seed(),
		"mode", g.Mode(),
		"max_ticks", maxTicks,
		"steps_per_update", g.StepsPerUpdate(),
	)

	for g.State() == game.Running {
		g.Update()

		if maxTicks > 0 && g.Generation() >= maxTicks {
			slog.Info("max ticks reached", "generation", g.Generation())
			break
		}
	}
	return nil
}

// runTerminal draws the game with tcell. Without a log file the terminal
// owns stdout, so logs are discarded while it runs.
func runTerminal(opts game.Options, maxTicks int, quiet bool) error {
	// Runs last so shutdown logs stay quiet until the screen is released
	restore := func() {}
	defer func() { restore() }()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	g, err := game.NewGame(opts)
	if err != nil {
		return err
	}
	defer g.Close()

	if quiet {
		restore = tui.QuietLogs()
	}
	if err := tui.New(g, screen, opts.Config.Screen.TargetFPS).Run(maxTicks); err != nil {
		return fmt.Errorf("terminal run: %w", err)
	}
	return nil
}

func runWindow(opts game.Options, maxTicks int) error {
	screen := opts.Config.Screen
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(screen.Width), int32(screen.Height), "Grid Ecosystem")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(screen.TargetFPS))
	// Escape deselects nothing; closing goes through the window button
	rl.SetExitKey(0)

	g, err := game.NewGame(opts)
	if err != nil {
		return err
	}
	defer g.Close()

	ui.NewViewer(g).Run(maxTicks)
	return nil
}
