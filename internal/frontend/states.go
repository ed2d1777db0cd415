package frontend

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gones/internal/system"
)

// StateManager persists System.Serialize blobs to numbered slot files
// alongside a small JSON metadata envelope (timestamp, ROM checksum),
// so a load can refuse to apply a state saved against a different ROM.
type StateManager struct {
	dir string
}

func newStateManager(dir string) *StateManager {
	return &StateManager{dir: dir}
}

// saveFile is the on-disk envelope around one System.Serialize blob.
type saveFile struct {
	Version     int       `json:"version"`
	Timestamp   time.Time `json:"timestamp"`
	ROMChecksum string    `json:"rom_checksum"`
	Blob        string    `json:"blob"`
}

const saveFormatVersion = 1

// Save writes the system's current state to the numbered slot for romName.
func (sm *StateManager) Save(s *system.System, slot int, romName string) error {
	if err := os.MkdirAll(sm.dir, 0755); err != nil {
		return fmt.Errorf("create save directory: %w", err)
	}
	f := saveFile{
		Version:     saveFormatVersion,
		Timestamp:   time.Now(),
		ROMChecksum: romChecksum(romName),
		Blob:        base64.StdEncoding.EncodeToString(s.Serialize()),
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal save state: %w", err)
	}
	return os.WriteFile(sm.slotPath(slot, romName), data, 0644)
}

// Load restores the numbered slot's state into s, refusing to apply a
// state saved against a different ROM.
func (sm *StateManager) Load(s *system.System, slot int, romName string) error {
	data, err := os.ReadFile(sm.slotPath(slot, romName))
	if err != nil {
		return fmt.Errorf("read save state: %w", err)
	}
	var f saveFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse save state: %w", err)
	}
	if f.ROMChecksum != romChecksum(romName) {
		return fmt.Errorf("save state belongs to a different ROM")
	}
	blob, err := base64.StdEncoding.DecodeString(f.Blob)
	if err != nil {
		return fmt.Errorf("decode save state: %w", err)
	}
	return s.Restore(blob)
}

// HasSlot reports whether a save file exists for the given slot.
func (sm *StateManager) HasSlot(slot int, romName string) bool {
	_, err := os.Stat(sm.slotPath(slot, romName))
	return err == nil
}

func (sm *StateManager) slotPath(slot int, romName string) string {
	base := filepath.Base(romName)
	ext := filepath.Ext(base)
	base = base[:len(base)-len(ext)]
	return filepath.Join(sm.dir, fmt.Sprintf("%s.slot%d.sav", base, slot))
}

// romChecksum fingerprints a ROM by content so a state saved from one
// path can't silently be applied to an unrelated ROM sharing a slot
// number, even after the file has been renamed or moved.
func romChecksum(romName string) string {
	data, err := os.ReadFile(romName)
	if err != nil {
		return romName
	}
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}
