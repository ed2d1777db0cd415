package cpu

import "gones/internal/serialize"

// Serialize captures every field named in spec.md §3's CPU state list, in
// the order given there, for the save-state contract (spec.md §6).
func (c *CPU) Serialize() []byte {
	w := serialize.NewWriter()
	w.U8(c.A)
	w.U8(c.X)
	w.U8(c.Y)
	w.U8(c.SP)
	w.U16(c.PC)
	w.U8(c.P)
	w.Bool(c.oddCycle)
	w.Bool(c.nmiLine)
	w.Bool(c.polledNMILine)
	w.Bool(c.prevPolledNMILine)
	w.Bool(c.needNMI)
	w.Bool(c.polledNeedNMI)
	w.U8(uint8(c.irqLine))
	w.Bool(c.needIRQ)
	w.Bool(c.polledNeedIRQ)
	w.Bool(c.pendingIWrite)
	w.Bool(c.pendingIValue)
	w.U64(c.cycles)
	w.Bool(c.stopped)
	return w.Bytes()
}

// Restore replays a Serialize blob back into the CPU's fields.
func (c *CPU) Restore(data []byte) error {
	r := serialize.NewReader(data)
	c.A = r.U8()
	c.X = r.U8()
	c.Y = r.U8()
	c.SP = r.U8()
	c.PC = r.U16()
	c.P = r.U8()
	c.oddCycle = r.Bool()
	c.nmiLine = r.Bool()
	c.polledNMILine = r.Bool()
	c.prevPolledNMILine = r.Bool()
	c.needNMI = r.Bool()
	c.polledNeedNMI = r.Bool()
	c.irqLine = IRQSource(r.U8())
	c.needIRQ = r.Bool()
	c.polledNeedIRQ = r.Bool()
	c.pendingIWrite = r.Bool()
	c.pendingIValue = r.Bool()
	c.cycles = r.U64()
	c.stopped = r.Bool()
	return r.Err()
}

// Cycles returns the CPU's running cycle counter (for System.RunFrame's
// cycle accounting and for tests).
func (c *CPU) Cycles() uint64 { return c.cycles }

// PCRegister and the other accessors below expose register/flag state for
// tests and host-side inspection; nothing in the core execution path uses
// them.
func (c *CPU) PCRegister() uint16 { return c.PC }
func (c *CPU) Registers() (a, x, y, sp uint8, pc uint16, status uint8) {
	return c.A, c.X, c.Y, c.SP, c.PC, c.P
}
func (c *CPU) Stopped() bool { return c.stopped }
