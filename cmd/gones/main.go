// Package main implements the gones NES emulator executable.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gones/internal/frontend"
	"gones/internal/version"
)

func main() {
	var (
		romFile    = flag.String("rom", "", "Path to NES ROM file (optional for GUI mode)")
		configFile = flag.String("config", "", "Path to configuration file")
		nogui      = flag.Bool("nogui", false, "Run without a window (headless smoke test)")
		showHelp   = flag.Bool("help", false, "Show help message")
		showVer    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}
	if *showVer {
		version.PrintBuildInfo()
		return
	}

	configPath := *configFile
	if configPath == "" {
		configPath = frontend.DefaultConfigPath()
	}

	app, err := frontend.NewApplication(configPath)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer app.Cleanup()

	if *romFile != "" {
		if err := app.LoadROM(*romFile); err != nil {
			log.Fatalf("failed to load ROM %q: %v", *romFile, err)
		}
	}

	if *nogui {
		if *romFile == "" {
			log.Fatal("-rom is required with -nogui")
		}
		app.RunHeadless(120)
		fmt.Printf("rendered %d frames\n", app.FrameCount())
		return
	}

	if err := app.Run(); err != nil {
		log.Fatalf("emulator exited with error: %v", err)
	}
	fmt.Printf("frames: %d, uptime: %v, avg fps: %.1f\n", app.FrameCount(), app.Uptime(), app.FPS())
}

func printUsage() {
	fmt.Println("gones - Go NES Emulator")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  gones [options]                    Start GUI mode without ROM")
	fmt.Println("  gones -rom <file> [options]        Start with ROM loaded")
	fmt.Println("  gones -nogui -rom <file>           Run a headless smoke test")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("CONTROLS (default, see config file to remap):")
	fmt.Println("  Player 1: WASD + J/K (A/B) + Enter/Space (Start/Select)")
	fmt.Println("  Player 2: Arrow keys + N/M + RShift/RControl")
	fmt.Println("  F1-F4:       save state to slot")
	fmt.Println("  Shift+F1-F4: load state from slot")
	fmt.Println("  Escape:      pause")
	os.Exit(0)
}
