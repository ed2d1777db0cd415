// Package system assembles the CPU, PPU, APU, bus, joypads, and cartridge
// mapper into one running NES, and owns the master clock relationship
// between them: every CPU cycle steps the PPU DotsPerCPUCycle times and
// the APU once, exactly as spec.md §4.1 describes.
package system

import (
	"gones/internal/apu"
	"gones/internal/bus"
	"gones/internal/cartridge"
	"gones/internal/cpu"
	"gones/internal/input"
	"gones/internal/ppu"
	"gones/internal/region"
	"gones/internal/serialize"
)

// System is the complete emulated console.
type System struct {
	CPU   *cpu.CPU
	PPU   *ppu.PPU
	APU   *apu.APU
	Bus   *bus.Bus
	Input *input.InputState

	mapper cartridge.Mapper
	tables *region.Tables

	// palAccumulator tracks PAL's fractional 3.2-dots-per-CPU-cycle average
	// (16 dots per 5 CPU cycles: four cycles of 3 dots, one of 4).
	palAccumulator int
}

// New constructs a fully-wired System with no cartridge loaded yet,
// defaulting to NTSC timing. Call LoadCartridge before PowerOn.
func New() *System {
	s := &System{Input: input.NewInputState()}
	s.tables = &region.NTSCTables

	s.PPU = ppu.New(nil, s, s)
	s.APU = apu.New(s, s, s)
	s.Bus = bus.New(s.PPU, s.APU, s.Input)
	s.CPU = cpu.New(s.Bus, s)

	s.Bus.SetOAMDMATrigger(s.CPU.PerformOAMDMA)

	return s
}

// SetNMILow/SetNMIHigh implement ppu.NMILine, forwarding to the CPU.
func (s *System) SetNMILow()  { s.CPU.SetNMILow() }
func (s *System) SetNMIHigh() { s.CPU.SetNMIHigh() }

// RenderFrame implements ppu.FrameSink. The host frontend installs its own
// sink by replacing s.PPU's sink via PPU.SetSink before PowerOn if it
// wants frames delivered directly; by default System just discards them,
// since headless test runs don't need video output.
func (s *System) RenderFrame(pixels []byte) {}

// Read implements apu.Bus, letting the DMC channel fetch sample bytes
// straight off the CPU's address space without going through the CPU
// itself (the CPU is what's being stalled, so it can't be the caller).
func (s *System) Read(addr uint16) uint8 { return s.Bus.Read(addr) }

// Stall implements apu.CPUStaller.
func (s *System) Stall() { s.CPU.Stall() }

// SetIRQLow/SetIRQHigh implement apu.IRQLine.
func (s *System) SetIRQLow(source cpu.IRQSource)  { s.CPU.SetIRQLow(source) }
func (s *System) SetIRQHigh(source cpu.IRQSource) { s.CPU.SetIRQHigh(source) }

// LoadCartridge parses an iNES/NES 2.0 ROM image and wires its mapper into
// the PPU and bus, selecting the region the header declares.
func (s *System) LoadCartridge(data []byte) error {
	m, err := cartridge.Load(data)
	if err != nil {
		return err
	}
	s.mapper = m
	s.Bus.SetMapper(m)
	s.SetRegion(region.For(m.Properties().Region))
	s.PPU.SetMapper(m)
	return nil
}

// SetRegion installs a TV-standard timing profile across the PPU and APU
// and resets the PAL dot-averaging accumulator.
func (s *System) SetRegion(tables *region.Tables) {
	s.tables = tables
	s.PPU.SetRegion(tables)
	s.APU.SetRegion(tables)
	s.palAccumulator = 0
}

// PowerOn resets every component to its documented power-up state.
func (s *System) PowerOn() {
	s.CPU.PowerOn()
	s.PPU.PowerOn()
	s.APU.PowerOn()
	s.Bus.Reset()
	s.Input.Reset()
	s.palAccumulator = 0
}

// Reset runs the CPU/PPU/APU's /RESET behavior, short of a full power
// cycle (RAM, OAM, and palette contents survive).
func (s *System) Reset() {
	s.CPU.Reset(true)
	s.PPU.Reset()
	s.APU.Reset()
	s.Input.Reset()
	s.palAccumulator = 0
}

// StepAllButCPU implements cpu.Clock: it is called exactly once per CPU
// cycle, after that cycle's bus access has already happened, and advances
// every other component the appropriate number of ticks for the active
// region.
func (s *System) StepAllButCPU() {
	dots := s.tables.DotsPerCPUCycle
	if s.tables.Standard == region.PAL {
		dots = 3
		s.palAccumulator++
		if s.palAccumulator == 5 {
			dots = 4
			s.palAccumulator = 0
		}
	}
	for i := 0; i < dots; i++ {
		s.PPU.StepCycle()
	}
	s.APU.Step()
	if c, ok := s.mapper.(interface{ ConsumeCycle() }); ok {
		c.ConsumeCycle()
	}
	s.pollMapperIRQ()
}

func (s *System) pollMapperIRQ() {
	if s.mapper == nil {
		return
	}
	if s.mapper.IRQPending() {
		s.CPU.SetIRQLow(cpu.IRQSourceMapper)
	} else {
		s.CPU.SetIRQHigh(cpu.IRQSourceMapper)
	}
}

// RunFrame runs the CPU until one full PPU frame has been produced,
// returning the CPU cycle count actually elapsed.
func (s *System) RunFrame() uint64 {
	startFrame := s.PPU.FrameCount()
	start := s.CPU.Cycles()
	for s.PPU.FrameCount() == startFrame {
		s.CPU.Run(1)
	}
	return s.CPU.Cycles() - start
}

// Serialize captures every component's state plus the mapper's
// variant-specific state, for the save-state contract in spec.md §6.
func (s *System) Serialize() []byte {
	w := serialize.NewWriter()
	w.Blob(s.CPU.Serialize())
	w.Blob(s.PPU.Serialize())
	w.Blob(s.APU.Serialize())
	if s.mapper != nil {
		w.Blob(s.mapper.Serialize())
	} else {
		w.Blob(nil)
	}
	w.U8(uint8(s.tables.Standard))
	w.U8(uint8(s.palAccumulator))
	return w.Bytes()
}

// Restore replays a Serialize blob back into every component. The
// cartridge must already be loaded (LoadCartridge) before calling this,
// since ROM/CHR contents are not part of the save-state blob.
func (s *System) Restore(data []byte) error {
	r := serialize.NewReader(data)
	cpuBlob := r.Blob()
	ppuBlob := r.Blob()
	apuBlob := r.Blob()
	mapperBlob := r.Blob()
	standard := region.Standard(r.U8())
	palAccumulator := int(r.U8())
	if r.Err() != nil {
		return serialize.ErrTruncated("system", r.Err())
	}

	s.SetRegion(region.For(standard))
	s.palAccumulator = palAccumulator

	if err := s.CPU.Restore(cpuBlob); err != nil {
		return err
	}
	if err := s.PPU.Restore(ppuBlob); err != nil {
		return err
	}
	if err := s.APU.Restore(apuBlob); err != nil {
		return err
	}
	if s.mapper != nil && len(mapperBlob) > 0 {
		if err := s.mapper.Restore(mapperBlob); err != nil {
			return err
		}
	}
	return nil
}
