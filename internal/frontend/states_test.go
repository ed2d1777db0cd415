package frontend

import (
	"os"
	"path/filepath"
	"testing"

	"gones/internal/system"
)

func makeNROM() []byte {
	header := make([]byte, 16)
	header[0], header[1], header[2], header[3] = 'N', 'E', 'S', 0x1A
	header[4] = 1
	header[5] = 1

	prg := make([]byte, 16384)
	prg[0x0000] = 0x4C
	prg[0x0001] = 0x00
	prg[0x0002] = 0x80
	prg[0x3FFC] = 0x00
	prg[0x3FFD] = 0x80

	chr := make([]byte, 8192)

	data := append([]byte{}, header...)
	data = append(data, prg...)
	data = append(data, chr...)
	return data
}

func writeTestROM(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.nes")
	if err := os.WriteFile(path, makeNROM(), 0644); err != nil {
		t.Fatalf("write test ROM: %v", err)
	}
	return path
}

func TestSaveLoad_ShouldRoundTripSystemState(t *testing.T) {
	romPath := writeTestROM(t)
	sm := newStateManager(t.TempDir())

	s := system.New()
	if err := s.LoadCartridge(makeNROM()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.PowerOn()
	s.CPU.Run(50)

	if err := sm.Save(s, 1, romPath); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	if !sm.HasSlot(1, romPath) {
		t.Error("expected slot 1 to exist after save")
	}

	s2 := system.New()
	if err := s2.LoadCartridge(makeNROM()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s2.PowerOn()

	if err := sm.Load(s2, 1, romPath); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if s2.CPU.Cycles() != s.CPU.Cycles() {
		t.Errorf("expected cycles to round-trip, got %d want %d", s2.CPU.Cycles(), s.CPU.Cycles())
	}
}

func TestLoad_DifferentROM_ShouldBeRejected(t *testing.T) {
	romPath := writeTestROM(t)

	// Same basename as romPath (so it maps to the same slot file) but
	// different content, so only the checksum distinguishes them.
	otherRomPath := filepath.Join(t.TempDir(), filepath.Base(romPath))
	otherData := makeNROM()
	otherData[20] = 0xFF // perturb PRG so the checksum differs
	if err := os.WriteFile(otherRomPath, otherData, 0644); err != nil {
		t.Fatalf("write other ROM: %v", err)
	}

	sm := newStateManager(t.TempDir())
	s := system.New()
	if err := s.LoadCartridge(makeNROM()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.PowerOn()
	if err := sm.Save(s, 1, romPath); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	if err := sm.Load(s, 1, otherRomPath); err == nil {
		t.Error("expected load against a different ROM to be rejected")
	}
}

func TestHasSlot_ShouldReportFalseWhenAbsent(t *testing.T) {
	sm := newStateManager(t.TempDir())
	if sm.HasSlot(3, "whatever.nes") {
		t.Error("expected HasSlot false for a never-saved slot")
	}
}
