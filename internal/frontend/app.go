package frontend

import (
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Application owns the host window lifecycle: configuration, the
// running game, and session statistics, wired up the way cmd/gones
// expects regardless of whether a ROM was supplied on the command line.
type Application struct {
	cfg   *Config
	game  *game
	start time.Time
}

// NewApplication loads (or creates) the configuration at configPath and
// constructs an Application with no ROM loaded yet.
func NewApplication(configPath string) (*Application, error) {
	cfg := NewConfig()
	if err := cfg.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &Application{cfg: cfg, game: newGame(cfg), start: time.Now()}, nil
}

// Config returns the application's configuration.
func (a *Application) Config() *Config { return a.cfg }

// LoadROM reads an iNES image off disk and powers the console on with it.
func (a *Application) LoadROM(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read ROM: %w", err)
	}
	return a.game.LoadROM(data, path)
}

// Run starts the Ebitengine window and blocks until it closes.
func (a *Application) Run() error {
	width, height := a.cfg.WindowResolution()
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("gones")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(a.cfg.Window.Fullscreen)
	ebiten.SetVsyncEnabled(a.cfg.Video.VSync)
	return ebiten.RunGame(a.game)
}

// RunHeadless runs frames worth of emulation with no window, useful for
// smoke-testing a ROM or generating a deterministic trace.
func (a *Application) RunHeadless(frames int) {
	for i := 0; i < frames; i++ {
		a.game.sys.Input.SetButtons1(a.game.player1.poll())
		a.game.sys.RunFrame()
	}
}

// FrameCount returns the number of PPU frames rendered so far.
func (a *Application) FrameCount() uint64 { return a.game.sys.PPU.FrameCount() }

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration { return time.Since(a.start) }

// FPS reports the average frames rendered per second since start.
func (a *Application) FPS() float64 {
	elapsed := a.Uptime().Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(a.game.sys.PPU.FrameCount()) / elapsed
}

// Cleanup releases any held resources; the underlying System has none
// that outlive the process, so this only exists for main's defer.
func (a *Application) Cleanup() error { return nil }
