package cpu

// execute dispatches one already-fetched opcode. Every addressing-mode
// helper and every read/write call it makes already pays for its own
// cycle, so by construction the total cycle count for any opcode matches
// the documented table for its addressing mode (spec.md §8's first
// invariant) without this switch tracking cycle counts itself.
func (c *CPU) execute(opcode uint8) {
	switch opcode {

	// ---- load/store ----
	case 0xA9:
		c.A = c.read(c.immediate())
		c.setZN(c.A)
	case 0xA5:
		c.A = c.read(c.zeroPage())
		c.setZN(c.A)
	case 0xB5:
		c.A = c.read(c.zeroPageIndexed(c.X))
		c.setZN(c.A)
	case 0xAD:
		c.A = c.read(c.absolute())
		c.setZN(c.A)
	case 0xBD:
		addr, _ := c.absoluteIndexed(c.X, false)
		c.A = c.read(addr)
		c.setZN(c.A)
	case 0xB9:
		addr, _ := c.absoluteIndexed(c.Y, false)
		c.A = c.read(addr)
		c.setZN(c.A)
	case 0xA1:
		c.A = c.read(c.indexedIndirect())
		c.setZN(c.A)
	case 0xB1:
		addr, _ := c.indirectIndexed(false)
		c.A = c.read(addr)
		c.setZN(c.A)

	case 0xA2:
		c.X = c.read(c.immediate())
		c.setZN(c.X)
	case 0xA6:
		c.X = c.read(c.zeroPage())
		c.setZN(c.X)
	case 0xB6:
		c.X = c.read(c.zeroPageIndexed(c.Y))
		c.setZN(c.X)
	case 0xAE:
		c.X = c.read(c.absolute())
		c.setZN(c.X)
	case 0xBE:
		addr, _ := c.absoluteIndexed(c.Y, false)
		c.X = c.read(addr)
		c.setZN(c.X)

	case 0xA0:
		c.Y = c.read(c.immediate())
		c.setZN(c.Y)
	case 0xA4:
		c.Y = c.read(c.zeroPage())
		c.setZN(c.Y)
	case 0xB4:
		c.Y = c.read(c.zeroPageIndexed(c.X))
		c.setZN(c.Y)
	case 0xAC:
		c.Y = c.read(c.absolute())
		c.setZN(c.Y)
	case 0xBC:
		addr, _ := c.absoluteIndexed(c.X, false)
		c.Y = c.read(addr)
		c.setZN(c.Y)

	case 0x85:
		c.write(c.zeroPage(), c.A)
	case 0x95:
		c.write(c.zeroPageIndexed(c.X), c.A)
	case 0x8D:
		c.write(c.absolute(), c.A)
	case 0x9D:
		addr, _ := c.absoluteIndexed(c.X, true)
		c.write(addr, c.A)
	case 0x99:
		addr, _ := c.absoluteIndexed(c.Y, true)
		c.write(addr, c.A)
	case 0x81:
		c.write(c.indexedIndirect(), c.A)
	case 0x91:
		addr, _ := c.indirectIndexed(true)
		c.write(addr, c.A)

	case 0x86:
		c.write(c.zeroPage(), c.X)
	case 0x96:
		c.write(c.zeroPageIndexed(c.Y), c.X)
	case 0x8E:
		c.write(c.absolute(), c.X)

	case 0x84:
		c.write(c.zeroPage(), c.Y)
	case 0x94:
		c.write(c.zeroPageIndexed(c.X), c.Y)
	case 0x8C:
		c.write(c.absolute(), c.Y)

	// ---- transfers ----
	case 0xAA:
		c.implied()
		c.X = c.A
		c.setZN(c.X)
	case 0xA8:
		c.implied()
		c.Y = c.A
		c.setZN(c.Y)
	case 0xBA:
		c.implied()
		c.X = c.SP
		c.setZN(c.X)
	case 0x8A:
		c.implied()
		c.A = c.X
		c.setZN(c.A)
	case 0x9A:
		c.implied()
		c.SP = c.X
	case 0x98:
		c.implied()
		c.A = c.Y
		c.setZN(c.A)

	// ---- stack ----
	case 0x48:
		c.implied()
		c.push(c.A)
	case 0x08:
		c.implied()
		c.push(c.P | flagU | flagB)
	case 0x68:
		c.implied()
		c.read(stackBase + uint16(c.SP)) // dummy pre-increment read
		c.A = c.pop()
		c.setZN(c.A)
	case 0x28:
		c.implied()
		c.read(stackBase + uint16(c.SP))
		v := c.pop()
		c.P = (v &^ flagI) | (c.P & flagI) | flagU
		c.pendingIWrite = true
		c.pendingIValue = v&flagI != 0

	// ---- logic/arithmetic (read) ----
	case 0x29:
		c.and(c.read(c.immediate()))
	case 0x25:
		c.and(c.read(c.zeroPage()))
	case 0x35:
		c.and(c.read(c.zeroPageIndexed(c.X)))
	case 0x2D:
		c.and(c.read(c.absolute()))
	case 0x3D:
		addr, _ := c.absoluteIndexed(c.X, false)
		c.and(c.read(addr))
	case 0x39:
		addr, _ := c.absoluteIndexed(c.Y, false)
		c.and(c.read(addr))
	case 0x21:
		c.and(c.read(c.indexedIndirect()))
	case 0x31:
		addr, _ := c.indirectIndexed(false)
		c.and(c.read(addr))

	case 0x09:
		c.ora(c.read(c.immediate()))
	case 0x05:
		c.ora(c.read(c.zeroPage()))
	case 0x15:
		c.ora(c.read(c.zeroPageIndexed(c.X)))
	case 0x0D:
		c.ora(c.read(c.absolute()))
	case 0x1D:
		addr, _ := c.absoluteIndexed(c.X, false)
		c.ora(c.read(addr))
	case 0x19:
		addr, _ := c.absoluteIndexed(c.Y, false)
		c.ora(c.read(addr))
	case 0x01:
		c.ora(c.read(c.indexedIndirect()))
	case 0x11:
		addr, _ := c.indirectIndexed(false)
		c.ora(c.read(addr))

	case 0x49:
		c.eor(c.read(c.immediate()))
	case 0x45:
		c.eor(c.read(c.zeroPage()))
	case 0x55:
		c.eor(c.read(c.zeroPageIndexed(c.X)))
	case 0x4D:
		c.eor(c.read(c.absolute()))
	case 0x5D:
		addr, _ := c.absoluteIndexed(c.X, false)
		c.eor(c.read(addr))
	case 0x59:
		addr, _ := c.absoluteIndexed(c.Y, false)
		c.eor(c.read(addr))
	case 0x41:
		c.eor(c.read(c.indexedIndirect()))
	case 0x51:
		addr, _ := c.indirectIndexed(false)
		c.eor(c.read(addr))

	case 0x69:
		c.adc(c.read(c.immediate()))
	case 0x65:
		c.adc(c.read(c.zeroPage()))
	case 0x75:
		c.adc(c.read(c.zeroPageIndexed(c.X)))
	case 0x6D:
		c.adc(c.read(c.absolute()))
	case 0x7D:
		addr, _ := c.absoluteIndexed(c.X, false)
		c.adc(c.read(addr))
	case 0x79:
		addr, _ := c.absoluteIndexed(c.Y, false)
		c.adc(c.read(addr))
	case 0x61:
		c.adc(c.read(c.indexedIndirect()))
	case 0x71:
		addr, _ := c.indirectIndexed(false)
		c.adc(c.read(addr))

	case 0xE9, 0xEB:
		c.sbc(c.read(c.immediate()))
	case 0xE5:
		c.sbc(c.read(c.zeroPage()))
	case 0xF5:
		c.sbc(c.read(c.zeroPageIndexed(c.X)))
	case 0xED:
		c.sbc(c.read(c.absolute()))
	case 0xFD:
		addr, _ := c.absoluteIndexed(c.X, false)
		c.sbc(c.read(addr))
	case 0xF9:
		addr, _ := c.absoluteIndexed(c.Y, false)
		c.sbc(c.read(addr))
	case 0xE1:
		c.sbc(c.read(c.indexedIndirect()))
	case 0xF1:
		addr, _ := c.indirectIndexed(false)
		c.sbc(c.read(addr))

	case 0xC9:
		c.compare(c.A, c.read(c.immediate()))
	case 0xC5:
		c.compare(c.A, c.read(c.zeroPage()))
	case 0xD5:
		c.compare(c.A, c.read(c.zeroPageIndexed(c.X)))
	case 0xCD:
		c.compare(c.A, c.read(c.absolute()))
	case 0xDD:
		addr, _ := c.absoluteIndexed(c.X, false)
		c.compare(c.A, c.read(addr))
	case 0xD9:
		addr, _ := c.absoluteIndexed(c.Y, false)
		c.compare(c.A, c.read(addr))
	case 0xC1:
		c.compare(c.A, c.read(c.indexedIndirect()))
	case 0xD1:
		addr, _ := c.indirectIndexed(false)
		c.compare(c.A, c.read(addr))

	case 0xE0:
		c.compare(c.X, c.read(c.immediate()))
	case 0xE4:
		c.compare(c.X, c.read(c.zeroPage()))
	case 0xEC:
		c.compare(c.X, c.read(c.absolute()))

	case 0xC0:
		c.compare(c.Y, c.read(c.immediate()))
	case 0xC4:
		c.compare(c.Y, c.read(c.zeroPage()))
	case 0xCC:
		c.compare(c.Y, c.read(c.absolute()))

	case 0x24:
		c.bit(c.read(c.zeroPage()))
	case 0x2C:
		c.bit(c.read(c.absolute()))

	// ---- read-modify-write ----
	case 0x0A:
		c.implied()
		c.A = c.asl(c.A)
	case 0x06:
		c.readModifyWrite(c.zeroPage(), c.asl)
	case 0x16:
		c.readModifyWrite(c.zeroPageIndexed(c.X), c.asl)
	case 0x0E:
		c.readModifyWrite(c.absolute(), c.asl)
	case 0x1E:
		addr, _ := c.absoluteIndexed(c.X, true)
		c.readModifyWrite(addr, c.asl)

	case 0x4A:
		c.implied()
		c.A = c.lsr(c.A)
	case 0x46:
		c.readModifyWrite(c.zeroPage(), c.lsr)
	case 0x56:
		c.readModifyWrite(c.zeroPageIndexed(c.X), c.lsr)
	case 0x4E:
		c.readModifyWrite(c.absolute(), c.lsr)
	case 0x5E:
		addr, _ := c.absoluteIndexed(c.X, true)
		c.readModifyWrite(addr, c.lsr)

	case 0x2A:
		c.implied()
		c.A = c.rol(c.A)
	case 0x26:
		c.readModifyWrite(c.zeroPage(), c.rol)
	case 0x36:
		c.readModifyWrite(c.zeroPageIndexed(c.X), c.rol)
	case 0x2E:
		c.readModifyWrite(c.absolute(), c.rol)
	case 0x3E:
		addr, _ := c.absoluteIndexed(c.X, true)
		c.readModifyWrite(addr, c.rol)

	case 0x6A:
		c.implied()
		c.A = c.ror(c.A)
	case 0x66:
		c.readModifyWrite(c.zeroPage(), c.ror)
	case 0x76:
		c.readModifyWrite(c.zeroPageIndexed(c.X), c.ror)
	case 0x6E:
		c.readModifyWrite(c.absolute(), c.ror)
	case 0x7E:
		addr, _ := c.absoluteIndexed(c.X, true)
		c.readModifyWrite(addr, c.ror)

	case 0xE6:
		c.readModifyWrite(c.zeroPage(), c.incv)
	case 0xF6:
		c.readModifyWrite(c.zeroPageIndexed(c.X), c.incv)
	case 0xEE:
		c.readModifyWrite(c.absolute(), c.incv)
	case 0xFE:
		addr, _ := c.absoluteIndexed(c.X, true)
		c.readModifyWrite(addr, c.incv)

	case 0xC6:
		c.readModifyWrite(c.zeroPage(), c.decv)
	case 0xD6:
		c.readModifyWrite(c.zeroPageIndexed(c.X), c.decv)
	case 0xCE:
		c.readModifyWrite(c.absolute(), c.decv)
	case 0xDE:
		addr, _ := c.absoluteIndexed(c.X, true)
		c.readModifyWrite(addr, c.decv)

	case 0xE8:
		c.implied()
		c.X++
		c.setZN(c.X)
	case 0xC8:
		c.implied()
		c.Y++
		c.setZN(c.Y)
	case 0xCA:
		c.implied()
		c.X--
		c.setZN(c.X)
	case 0x88:
		c.implied()
		c.Y--
		c.setZN(c.Y)

	// ---- branches ----
	case 0x90:
		c.branch(!c.getFlag(flagC))
	case 0xB0:
		c.branch(c.getFlag(flagC))
	case 0xF0:
		c.branch(c.getFlag(flagZ))
	case 0xD0:
		c.branch(!c.getFlag(flagZ))
	case 0x30:
		c.branch(c.getFlag(flagN))
	case 0x10:
		c.branch(!c.getFlag(flagN))
	case 0x50:
		c.branch(!c.getFlag(flagV))
	case 0x70:
		c.branch(c.getFlag(flagV))

	// ---- flags ----
	case 0x18:
		c.implied()
		c.setFlag(flagC, false)
	case 0x38:
		c.implied()
		c.setFlag(flagC, true)
	case 0xD8:
		c.implied()
		c.setFlag(flagD, false)
	case 0xF8:
		c.implied()
		c.setFlag(flagD, true)
	case 0xB8:
		c.implied()
		c.setFlag(flagV, false)
	case 0x58:
		c.implied()
		c.pendingIWrite = true
		c.pendingIValue = false
	case 0x78:
		c.implied()
		c.pendingIWrite = true
		c.pendingIValue = true

	// ---- jumps/calls ----
	case 0x4C:
		c.PC = c.absolute()
	case 0x6C:
		c.PC = c.indirectJMP()
	case 0x20:
		lo := c.read(c.PC)
		c.PC++
		c.read(stackBase + uint16(c.SP)) // internal delay cycle
		c.push(uint8(c.PC >> 8))
		c.push(uint8(c.PC))
		hi := c.read(c.PC)
		c.PC = uint16(hi)<<8 | uint16(lo)
	case 0x60:
		c.implied()
		c.read(stackBase + uint16(c.SP))
		lo := c.pop()
		hi := c.pop()
		c.PC = uint16(hi)<<8 | uint16(lo)
		c.read(c.PC)
		c.PC++
	case 0x40:
		c.implied()
		c.read(stackBase + uint16(c.SP))
		v := c.pop()
		c.P = v | flagU
		lo := c.pop()
		hi := c.pop()
		c.PC = uint16(hi)<<8 | uint16(lo)
	case 0x00:
		c.read(c.PC)
		c.PC++
		c.dispatchInterrupt(true, false)

	case 0xEA:
		c.implied()

	// ---- unofficial: NOPs of various widths ----
	case 0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA:
		c.implied()
	case 0x80, 0x82, 0x89, 0xC2, 0xE2:
		c.read(c.immediate())
	case 0x04, 0x44, 0x64:
		c.read(c.zeroPage())
	case 0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4:
		c.read(c.zeroPageIndexed(c.X))
	case 0x0C:
		c.read(c.absolute())
	case 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC:
		addr, _ := c.absoluteIndexed(c.X, false)
		c.read(addr)

	// ---- unofficial: combined RMW ----
	case 0x07:
		c.readModifyWrite(c.zeroPage(), c.slo)
	case 0x17:
		c.readModifyWrite(c.zeroPageIndexed(c.X), c.slo)
	case 0x0F:
		c.readModifyWrite(c.absolute(), c.slo)
	case 0x1F:
		addr, _ := c.absoluteIndexed(c.X, true)
		c.readModifyWrite(addr, c.slo)
	case 0x1B:
		addr, _ := c.absoluteIndexed(c.Y, true)
		c.readModifyWrite(addr, c.slo)
	case 0x03:
		c.readModifyWrite(c.indexedIndirect(), c.slo)
	case 0x13:
		addr, _ := c.indirectIndexed(true)
		c.readModifyWrite(addr, c.slo)

	case 0x27:
		c.readModifyWrite(c.zeroPage(), c.rla)
	case 0x37:
		c.readModifyWrite(c.zeroPageIndexed(c.X), c.rla)
	case 0x2F:
		c.readModifyWrite(c.absolute(), c.rla)
	case 0x3F:
		addr, _ := c.absoluteIndexed(c.X, true)
		c.readModifyWrite(addr, c.rla)
	case 0x3B:
		addr, _ := c.absoluteIndexed(c.Y, true)
		c.readModifyWrite(addr, c.rla)
	case 0x23:
		c.readModifyWrite(c.indexedIndirect(), c.rla)
	case 0x33:
		addr, _ := c.indirectIndexed(true)
		c.readModifyWrite(addr, c.rla)

	case 0x47:
		c.readModifyWrite(c.zeroPage(), c.sre)
	case 0x57:
		c.readModifyWrite(c.zeroPageIndexed(c.X), c.sre)
	case 0x4F:
		c.readModifyWrite(c.absolute(), c.sre)
	case 0x5F:
		addr, _ := c.absoluteIndexed(c.X, true)
		c.readModifyWrite(addr, c.sre)
	case 0x5B:
		addr, _ := c.absoluteIndexed(c.Y, true)
		c.readModifyWrite(addr, c.sre)
	case 0x43:
		c.readModifyWrite(c.indexedIndirect(), c.sre)
	case 0x53:
		addr, _ := c.indirectIndexed(true)
		c.readModifyWrite(addr, c.sre)

	case 0x67:
		c.readModifyWrite(c.zeroPage(), c.rra)
	case 0x77:
		c.readModifyWrite(c.zeroPageIndexed(c.X), c.rra)
	case 0x6F:
		c.readModifyWrite(c.absolute(), c.rra)
	case 0x7F:
		addr, _ := c.absoluteIndexed(c.X, true)
		c.readModifyWrite(addr, c.rra)
	case 0x7B:
		addr, _ := c.absoluteIndexed(c.Y, true)
		c.readModifyWrite(addr, c.rra)
	case 0x63:
		c.readModifyWrite(c.indexedIndirect(), c.rra)
	case 0x73:
		addr, _ := c.indirectIndexed(true)
		c.readModifyWrite(addr, c.rra)

	case 0xC7:
		c.readModifyWrite(c.zeroPage(), c.dcp)
	case 0xD7:
		c.readModifyWrite(c.zeroPageIndexed(c.X), c.dcp)
	case 0xCF:
		c.readModifyWrite(c.absolute(), c.dcp)
	case 0xDF:
		addr, _ := c.absoluteIndexed(c.X, true)
		c.readModifyWrite(addr, c.dcp)
	case 0xDB:
		addr, _ := c.absoluteIndexed(c.Y, true)
		c.readModifyWrite(addr, c.dcp)
	case 0xC3:
		c.readModifyWrite(c.indexedIndirect(), c.dcp)
	case 0xD3:
		addr, _ := c.indirectIndexed(true)
		c.readModifyWrite(addr, c.dcp)

	case 0xE7:
		c.readModifyWrite(c.zeroPage(), c.isc)
	case 0xF7:
		c.readModifyWrite(c.zeroPageIndexed(c.X), c.isc)
	case 0xEF:
		c.readModifyWrite(c.absolute(), c.isc)
	case 0xFF:
		addr, _ := c.absoluteIndexed(c.X, true)
		c.readModifyWrite(addr, c.isc)
	case 0xFB:
		addr, _ := c.absoluteIndexed(c.Y, true)
		c.readModifyWrite(addr, c.isc)
	case 0xE3:
		c.readModifyWrite(c.indexedIndirect(), c.isc)
	case 0xF3:
		addr, _ := c.indirectIndexed(true)
		c.readModifyWrite(addr, c.isc)

	// ---- unofficial: register combos ----
	case 0xA7:
		c.A = c.read(c.zeroPage())
		c.X = c.A
		c.setZN(c.A)
	case 0xB7:
		c.A = c.read(c.zeroPageIndexed(c.Y))
		c.X = c.A
		c.setZN(c.A)
	case 0xAF:
		c.A = c.read(c.absolute())
		c.X = c.A
		c.setZN(c.A)
	case 0xBF:
		addr, _ := c.absoluteIndexed(c.Y, false)
		c.A = c.read(addr)
		c.X = c.A
		c.setZN(c.A)
	case 0xA3:
		c.A = c.read(c.indexedIndirect())
		c.X = c.A
		c.setZN(c.A)
	case 0xB3:
		addr, _ := c.indirectIndexed(false)
		c.A = c.read(addr)
		c.X = c.A
		c.setZN(c.A)

	case 0x87:
		c.write(c.zeroPage(), c.A&c.X)
	case 0x97:
		c.write(c.zeroPageIndexed(c.Y), c.A&c.X)
	case 0x8F:
		c.write(c.absolute(), c.A&c.X)
	case 0x83:
		c.write(c.indexedIndirect(), c.A&c.X)

	case 0x0B, 0x2B:
		c.and(c.read(c.immediate()))
		c.setFlag(flagC, c.getFlag(flagN))
	case 0x4B:
		c.and(c.read(c.immediate()))
		c.A = c.lsr(c.A)
	case 0x6B:
		c.and(c.read(c.immediate()))
		c.A = c.ror(c.A)
		c.setFlag(flagC, c.A&0x40 != 0)
		c.setFlag(flagV, (c.A>>6)&1 != (c.A>>5)&1)
	case 0xCB:
		v := c.read(c.immediate())
		ax := c.A & c.X
		c.setFlag(flagC, ax >= v)
		c.X = ax - v
		c.setZN(c.X)
	case 0xBB:
		v := c.read(c.absolute1())
		r := v & c.SP
		c.A, c.X, c.SP = r, r, r
		c.setZN(r)

	// SHX/SHY/AHX/TAS: documented as unstable on real hardware when a page
	// boundary is crossed; this emulates the commonly-agreed stable case
	// (high byte AND with index+1) per spec.md §9's open question.
	case 0x9E:
		addr, _ := c.absoluteIndexed(c.X, true)
		v := c.X & (uint8(addr>>8) + 1)
		c.write(addr, v)
	case 0x9C:
		addr, _ := c.absoluteIndexed(c.Y, true)
		v := c.Y & (uint8(addr>>8) + 1)
		c.write(addr, v)
	case 0x9F:
		addr, _ := c.absoluteIndexed(c.Y, true)
		v := c.A & c.X & (uint8(addr>>8) + 1)
		c.write(addr, v)
	case 0x93:
		addr, _ := c.indirectIndexed(true)
		v := c.A & c.X & (uint8(addr>>8) + 1)
		c.write(addr, v)
	case 0x9B:
		addr, _ := c.absoluteIndexed(c.Y, true)
		c.SP = c.A & c.X
		v := c.SP & (uint8(addr>>8) + 1)
		c.write(addr, v)

	// XAA (ANE): highly unstable; modeled with the magic constant at 0 per
	// spec.md §9, i.e. A = (A | 0) & X & immediate.
	case 0x8B:
		v := c.read(c.immediate())
		c.A = c.A & c.X & v
		c.setZN(c.A)

	// STP/JAM/KIL: halts permanently until reset.
	case 0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2:
		c.stopped = true

	default:
		c.implied()
	}
}

// implied consumes the one extra cycle every implied/accumulator-mode
// instruction spends re-reading (and discarding) the following byte.
func (c *CPU) implied() { c.read(c.PC) }

// absolute1 resolves the absolute,Y operand address for LAS (0xBB), with
// the same timing as the other ABS,Y reads (dummy read only on page cross).
func (c *CPU) absolute1() uint16 {
	addr, _ := c.absoluteIndexed(c.Y, false)
	return addr
}
