package frontend

import (
	"path/filepath"
	"testing"
)

func TestNewConfig_ShouldHaveSensibleDefaults(t *testing.T) {
	cfg := NewConfig()
	if cfg.Window.Scale != 2 {
		t.Errorf("expected default scale 2, got %d", cfg.Window.Scale)
	}
	if !cfg.Audio.Enabled {
		t.Error("expected audio enabled by default")
	}
	w, h := cfg.WindowResolution()
	if w != 512 || h != 480 {
		t.Errorf("expected 512x480 at scale 2, got %dx%d", w, h)
	}
}

func TestLoadFromFile_ShouldWriteDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gones.json")

	cfg := NewConfig()
	if err := cfg.LoadFromFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IsLoaded() {
		t.Error("expected IsLoaded false when writing a fresh default file")
	}

	cfg2 := NewConfig()
	if err := cfg2.LoadFromFile(path); err != nil {
		t.Fatalf("unexpected error on reload: %v", err)
	}
	if !cfg2.IsLoaded() {
		t.Error("expected IsLoaded true after reading an existing file")
	}
	if cfg2.Window.Scale != cfg.Window.Scale {
		t.Errorf("expected scale to round-trip, got %d want %d", cfg2.Window.Scale, cfg.Window.Scale)
	}
}

func TestLoadFromFile_ShouldRoundTripEdits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gones.json")

	cfg := NewConfig()
	cfg.Window.Scale = 4
	cfg.Audio.Volume = 0.5
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg2 := NewConfig()
	if err := cfg2.LoadFromFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg2.Window.Scale != 4 {
		t.Errorf("expected scale 4, got %d", cfg2.Window.Scale)
	}
	if cfg2.Audio.Volume != 0.5 {
		t.Errorf("expected volume 0.5, got %f", cfg2.Audio.Volume)
	}
}
