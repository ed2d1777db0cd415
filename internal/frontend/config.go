// Package frontend is the Ebitengine host: it drives the system's
// master clock one frame at a time, presents the PPU's framebuffer and
// the APU's sample stream, reads keyboard input into the two joypads,
// and manages save states on disk.
package frontend

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds everything the frontend needs that isn't part of the
// emulated console itself.
type Config struct {
	Window WindowConfig `json:"window"`
	Video  VideoConfig  `json:"video"`
	Audio  AudioConfig  `json:"audio"`
	Input  InputConfig  `json:"input"`
	Paths  PathsConfig  `json:"paths"`

	configPath string
	loaded     bool
}

// WindowConfig controls the host window.
type WindowConfig struct {
	Fullscreen bool `json:"fullscreen"`
	Scale      int  `json:"scale"`
}

// VideoConfig controls presentation of the PPU's framebuffer.
type VideoConfig struct {
	VSync bool `json:"vsync"`
}

// AudioConfig controls presentation of the APU's sample stream.
type AudioConfig struct {
	Enabled    bool    `json:"enabled"`
	SampleRate int     `json:"sample_rate"`
	Volume     float64 `json:"volume"`
}

// KeyMapping names one controller's eight buttons as ebiten key names.
type KeyMapping struct {
	Up     string `json:"up"`
	Down   string `json:"down"`
	Left   string `json:"left"`
	Right  string `json:"right"`
	A      string `json:"a"`
	B      string `json:"b"`
	Start  string `json:"start"`
	Select string `json:"select"`
}

// InputConfig maps host keys to the two NES controller ports.
type InputConfig struct {
	Player1 KeyMapping `json:"player1"`
	Player2 KeyMapping `json:"player2"`
}

// PathsConfig names the directories the frontend reads and writes.
type PathsConfig struct {
	SaveStates string `json:"save_states"`
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{
		Window: WindowConfig{Fullscreen: false, Scale: 2},
		Video:  VideoConfig{VSync: true},
		Audio:  AudioConfig{Enabled: true, SampleRate: 44100, Volume: 0.8},
		Input: InputConfig{
			Player1: KeyMapping{
				Up: "W", Down: "S", Left: "A", Right: "D",
				A: "J", B: "K", Start: "Enter", Select: "Space",
			},
			Player2: KeyMapping{
				Up: "Up", Down: "Down", Left: "Left", Right: "Right",
				A: "N", B: "M", Start: "RShift", Select: "RControl",
			},
		},
		Paths: PathsConfig{SaveStates: "./states"},
	}
}

// LoadFromFile reads a JSON config file, writing out the default one if
// it doesn't exist yet.
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c.SaveToFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	c.loaded = true
	return os.MkdirAll(c.Paths.SaveStates, 0755)
}

// SaveToFile writes the configuration out as indented JSON.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	c.configPath = path
	return os.MkdirAll(c.Paths.SaveStates, 0755)
}

// WindowResolution returns the host window size for the configured scale.
func (c *Config) WindowResolution() (width, height int) {
	return 256 * c.Window.Scale, 240 * c.Window.Scale
}

// IsLoaded reports whether the configuration came from an existing file.
func (c *Config) IsLoaded() bool { return c.loaded }

// DefaultConfigPath is where the frontend looks for a config file when
// none is given on the command line.
func DefaultConfigPath() string { return "./config/gones.json" }
