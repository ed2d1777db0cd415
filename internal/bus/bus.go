// Package bus implements the NES's CPU-visible address space: RAM
// mirroring, the $2000-$3FFF PPU register window, APU/input register
// routing, and the cartridge window at $4020-$FFFF. It is pure address
// decode; stepping the components and deriving interrupts from it is the
// system aggregate's job.
package bus

import (
	"gones/internal/apu"
	"gones/internal/cartridge"
	"gones/internal/input"
	"gones/internal/ppu"
)

// PPU is the subset of ppu.PPU the bus drives through its register window.
type PPU interface {
	ReadRegister(addr uint16) uint8
	WriteRegister(addr uint16, value uint8)
	PeekRegister(addr uint16) uint8
}

// APU is the subset of apu.APU the bus drives through $4000-$4017.
type APU interface {
	WriteRegister(address uint16, value uint8)
	ReadStatus() uint8
}

// Input is the subset of input.InputState the bus drives through
// $4016/$4017.
type Input interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// Mapper is the subset of cartridge.Mapper the bus drives through the
// $4020-$FFFF cartridge window.
type Mapper interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, value uint8)
}

// Bus is the CPU's view of the NES address space. It satisfies cpu.Bus.
type Bus struct {
	ram [0x800]byte

	ppu    PPU
	apu    APU
	input  Input
	mapper Mapper

	openBus uint8

	// oamDMA is invoked on a $4014 write with the selected page; the system
	// aggregate wires this to CPU.PerformOAMDMA, since the DMA copy loop
	// must itself drive the CPU's cycle clock.
	oamDMA func(page uint8)
}

// New constructs a Bus with no mapper installed; call SetMapper once the
// cartridge has been loaded.
func New(p *ppu.PPU, a *apu.APU, in *input.InputState) *Bus {
	return &Bus{ppu: p, apu: a, input: in}
}

// SetMapper installs the cartridge mapper, replacing any previous one.
func (b *Bus) SetMapper(m cartridge.Mapper) {
	b.mapper = m
}

// SetOAMDMATrigger installs the callback driven by a $4014 write.
func (b *Bus) SetOAMDMATrigger(trigger func(page uint8)) {
	b.oamDMA = trigger
}

// Reset clears RAM back to its (arbitrary but deterministic) power-up
// pattern and the open-bus latch. Real NES RAM is not zeroed on power-up,
// but unlike the analog noise real hardware has, a fixed pattern keeps
// runs reproducible; it has no effect on correctly-behaved ROMs, which
// never depend on initial RAM contents.
func (b *Bus) Reset() {
	for i := range b.ram {
		b.ram[i] = 0
	}
	b.openBus = 0
}

// Read services one CPU memory read and updates the open-bus latch with
// whatever this access decoded to.
func (b *Bus) Read(addr uint16) uint8 {
	v := b.read(addr)
	b.openBus = v
	return v
}

func (b *Bus) read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x07FF]
	case addr < 0x4000:
		return b.ppu.ReadRegister(0x2000 + addr&0x0007)
	case addr == 0x4015:
		return b.apu.ReadStatus()
	case addr == 0x4016 || addr == 0x4017:
		return b.input.Read(addr)
	case addr < 0x4020:
		return b.openBus
	default:
		if b.mapper == nil {
			return b.openBus
		}
		return b.mapper.ReadPRG(addr)
	}
}

// Peek is Read without side effects, for UI/debugger inspection.
func (b *Bus) Peek(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x07FF]
	case addr < 0x4000:
		return b.ppu.PeekRegister(0x2000 + addr&0x0007)
	case addr == 0x4016 || addr == 0x4017:
		return b.openBus
	case addr < 0x4020:
		return b.openBus
	default:
		if b.mapper == nil {
			return b.openBus
		}
		return b.mapper.ReadPRG(addr)
	}
}

// Write services one CPU memory write.
func (b *Bus) Write(addr uint16, value uint8) {
	b.openBus = value

	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = value

	case addr < 0x4000:
		b.ppu.WriteRegister(0x2000+addr&0x0007, value)

	case addr == 0x4014:
		if b.oamDMA != nil {
			b.oamDMA(value)
		}

	case addr == 0x4016:
		b.input.Write(addr, value)

	case addr >= 0x4000 && addr <= 0x4013, addr == 0x4015, addr == 0x4017:
		b.apu.WriteRegister(addr, value)

	case addr < 0x4020:
		// $4018-$401F: APU/IO test-mode scratch, unimplemented on retail
		// hardware and not writable here.

	default:
		if b.mapper != nil {
			b.mapper.WritePRG(addr, value)
		}
	}
}
