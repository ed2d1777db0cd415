// Package cpu implements the 6502-derived CPU at the heart of the NES:
// instruction decode, the per-cycle interrupt edge/level detectors, DMA
// stalling, and the master-clock role (every memory access drives the
// system clock once).
package cpu

// Status register flag bit masks.
const (
	flagC uint8 = 1 << 0
	flagZ uint8 = 1 << 1
	flagI uint8 = 1 << 2
	flagD uint8 = 1 << 3
	flagB uint8 = 1 << 4
	flagU uint8 = 1 << 5 // unused, always read back as 1
	flagV uint8 = 1 << 6
	flagN uint8 = 1 << 7
)

const (
	stackBase   = 0x0100
	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// IRQSource is a bitmask identifying which device is asserting the level-
// triggered IRQ line. Multiple sources OR together onto one input.
type IRQSource uint8

const (
	IRQSourceFrameCounter IRQSource = 1 << iota
	IRQSourceDMC
	IRQSourceMapper
)

// Bus is the address-space the CPU drives. Every Read/Write is one cycle.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// Clock is stepped once per CPU cycle (read, write, or idle), advancing the
// APU and PPU the appropriate number of ticks for the active region.
type Clock interface {
	StepAllButCPU()
}

// CPU is the 6502-derived decoder. PowerOn, Reset and Run are called by the
// system aggregate between Run calls; the interrupt-line setters, Stall and
// PerformOAMDMA are called from inside Run's own cycles (through the bus and
// the system clock). None of them may be called concurrently with Run from
// another goroutine.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8 // status register; flagU always reads as 1

	bus   Bus
	clock Clock

	cycles uint64

	oddCycle bool

	// NMI edge detector: three-stage shift register per spec.md §3/§9.
	nmiLine           bool
	polledNMILine     bool
	prevPolledNMILine bool
	needNMI           bool
	polledNeedNMI     bool

	// IRQ level detector: OR of all asserted sources.
	irqLine       IRQSource
	needIRQ       bool
	polledNeedIRQ bool

	// Deferred I-flag write (CLI/SEI/PLP apply to I only at the next
	// instruction's first cycle).
	pendingIWrite bool
	pendingIValue bool

	stopped bool
}

// New constructs a CPU driving the given bus and system clock.
func New(bus Bus, clock Clock) *CPU {
	return &CPU{bus: bus, clock: clock}
}

// PowerOn initialises registers to the documented NES power-on state.
func (c *CPU) PowerOn() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = flagU | flagI
	c.oddCycle = false
	c.stopped = false
	c.irqLine = 0
	c.needIRQ = false
	c.polledNeedIRQ = false
	c.nmiLine = false
	c.polledNMILine = false
	c.prevPolledNMILine = false
	c.needNMI = false
	c.polledNeedNMI = false
	c.pendingIWrite = false
	c.Reset(true)
}

// Reset runs the 6502 reset microcode: two idle cycles, three stack
// accesses that do not actually write (SP decrements without storing), then
// the two-byte vector fetch. If jumpToResetVector is false the PC is left
// alone (used by tests that want to drive PC manually while still paying
// the reset's cycle cost and register side effects).
func (c *CPU) Reset(jumpToResetVector bool) {
	c.SP -= 3
	c.P |= flagI
	c.stopped = false

	c.read(c.PC)
	c.read(c.PC)
	c.read(stackBase + uint16(c.SP+3))
	c.read(stackBase + uint16(c.SP+2))
	c.read(stackBase + uint16(c.SP+1))

	lo := c.read(resetVector)
	hi := c.read(resetVector + 1)
	if jumpToResetVector {
		c.PC = uint16(hi)<<8 | uint16(lo)
	}
}

// Run executes instructions until the per-run cycle counter reaches
// cycleBudget, returning the number of cycles actually elapsed (it always
// finishes the in-flight instruction, so it may slightly overrun budget).
func (c *CPU) Run(cycleBudget uint64) uint64 {
	start := c.cycles
	for c.cycles-start < cycleBudget {
		c.step()
	}
	return c.cycles - start
}

// SetIRQLow/SetIRQHigh assert/deassert one bit of the OR-combined IRQ line.
func (c *CPU) SetIRQLow(source IRQSource)  { c.irqLine |= source }
func (c *CPU) SetIRQHigh(source IRQSource) { c.irqLine &^= source }

// SetNMILow/SetNMIHigh drive the edge-triggered NMI line.
func (c *CPU) SetNMILow()  { c.nmiLine = true }
func (c *CPU) SetNMIHigh() { c.nmiLine = false }

// Stall burns 4 idle read cycles, stepping the system clock each time, for
// a DMC sample fetch.
func (c *CPU) Stall() {
	for i := 0; i < 4; i++ {
		c.read(c.PC)
	}
}

// PerformOAMDMA copies 256 bytes from page*0x100 into PPU OAM via the bus's
// $2004 write, starting at the PPU's current OAMADDR and wrapping modulo
// 256 (the PPU, not this loop, tracks the wrap). One dummy cycle always
// happens; a second is added if the DMA begins on an odd CPU cycle.
func (c *CPU) PerformOAMDMA(page uint8) {
	startedOnOddCycle := c.oddCycle
	c.read(c.PC)
	if startedOnOddCycle {
		c.read(c.PC)
	}
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		v := c.read(base + uint16(i))
		c.write(0x2004, v)
	}
}

// cycle steps the shared clock once, updates the odd/even toggle, and
// advances the NMI edge detector / IRQ level snapshot with the one-cycle
// delay spec.md §4.2/§9 describes between "need" and "polled need".
func (c *CPU) cycle() {
	c.clock.StepAllButCPU()
	c.cycles++
	c.oddCycle = !c.oddCycle

	c.polledNeedNMI = c.needNMI
	c.polledNeedIRQ = c.needIRQ

	c.prevPolledNMILine = c.polledNMILine
	c.polledNMILine = c.nmiLine
	if !c.prevPolledNMILine && c.polledNMILine {
		c.needNMI = true
	}
	c.needIRQ = c.irqLine != 0
}

func (c *CPU) read(addr uint16) uint8 {
	v := c.bus.Read(addr)
	c.cycle()
	return v
}

func (c *CPU) write(addr uint16, v uint8) {
	c.bus.Write(addr, v)
	c.cycle()
}

func (c *CPU) getFlag(mask uint8) bool { return c.P&mask != 0 }

func (c *CPU) setFlag(mask uint8, v bool) {
	if v {
		c.P |= mask
	} else {
		c.P &^= mask
	}
}

func (c *CPU) setZN(v uint8) {
	c.setFlag(flagZ, v == 0)
	c.setFlag(flagN, v&0x80 != 0)
}

func (c *CPU) push(v uint8) {
	c.write(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.read(stackBase + uint16(c.SP))
}

// applyPendingIWrite commits a deferred CLI/SEI/PLP write to the I flag.
// Spec.md §4.2 models this as "observably indistinguishable from applying
// at the start of the next instruction's first cycle".
func (c *CPU) applyPendingIWrite() {
	if c.pendingIWrite {
		c.setFlag(flagI, c.pendingIValue)
		c.pendingIWrite = false
	}
}

// step executes one instruction boundary: either services a pending
// interrupt or fetches and dispatches the next opcode.
func (c *CPU) step() {
	c.applyPendingIWrite()

	if c.stopped {
		c.read(c.PC)
		return
	}

	if c.polledNeedNMI {
		c.polledNeedNMI = false
		c.needNMI = false
		c.dispatchInterrupt(false, true)
		return
	}
	if c.polledNeedIRQ && !c.getFlag(flagI) {
		c.dispatchInterrupt(false, false)
		return
	}

	opcode := c.read(c.PC)
	c.PC++
	c.execute(opcode)
}

// dispatchInterrupt pushes PC and status and redirects PC through the
// chosen vector. forBRK distinguishes the B flag pushed onto the stack and
// skips the two hardware-only dummy-read cycles (BRK already spent one
// cycle reading its signature byte). nmi selects $FFFA/$FFFB over
// $FFFE/$FFFF; an NMI that becomes pending while a BRK/IRQ dispatch is
// already underway hijacks it (spec.md §4.2) by upgrading nmi to true and
// consuming the pending edge here instead of on the next step.
func (c *CPU) dispatchInterrupt(forBRK, nmi bool) {
	if !forBRK {
		c.read(c.PC)
		c.read(c.PC)
	}

	c.push(uint8(c.PC >> 8))
	c.push(uint8(c.PC))

	status := c.P | flagU
	if forBRK {
		status |= flagB
	} else {
		status &^= flagB
	}
	c.push(status)

	if !nmi && c.polledNeedNMI {
		nmi = true
		c.polledNeedNMI = false
		c.needNMI = false
	}

	vector := uint16(irqVector)
	if nmi {
		vector = nmiVector
	}

	c.setFlag(flagI, true)

	lo := c.read(vector)
	hi := c.read(vector + 1)
	c.PC = uint16(hi)<<8 | uint16(lo)
}
