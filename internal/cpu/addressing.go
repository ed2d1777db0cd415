package cpu

// Every helper here consumes exactly the bus cycles real 6502 hardware
// spends resolving that addressing mode, via c.read; nothing here computes
// an address without paying for it cycle-by-cycle.

func (c *CPU) immediate() uint16 {
	addr := c.PC
	c.PC++
	return addr
}

func (c *CPU) zeroPage() uint16 {
	addr := uint16(c.read(c.PC))
	c.PC++
	return addr
}

func (c *CPU) zeroPageIndexed(index uint8) uint16 {
	base := c.read(c.PC)
	c.PC++
	c.read(uint16(base)) // dummy read before the index is added
	return uint16(base + index)
}

func (c *CPU) absolute() uint16 {
	lo := c.read(c.PC)
	c.PC++
	hi := c.read(c.PC)
	c.PC++
	return uint16(hi)<<8 | uint16(lo)
}

// absoluteIndexed resolves addr+index, paying the extra dummy-read cycle
// whenever the page crosses, or unconditionally when forceExtra is set
// (write and read-modify-write instructions always pay it).
func (c *CPU) absoluteIndexed(index uint8, forceExtra bool) (addr uint16, crossed bool) {
	lo := c.read(c.PC)
	c.PC++
	hi := c.read(c.PC)
	c.PC++
	base := uint16(hi)<<8 | uint16(lo)
	addr = base + uint16(index)
	crossed = addr&0xFF00 != base&0xFF00
	if crossed || forceExtra {
		c.read((base & 0xFF00) | (addr & 0x00FF))
	}
	return addr, crossed
}

func (c *CPU) indexedIndirect() uint16 {
	zp := c.read(c.PC)
	c.PC++
	c.read(uint16(zp))
	zpX := zp + c.X
	lo := c.read(uint16(zpX))
	hi := c.read(uint16(zpX + 1))
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) indirectIndexed(forceExtra bool) (addr uint16, crossed bool) {
	zp := c.read(c.PC)
	c.PC++
	lo := c.read(uint16(zp))
	hi := c.read(uint16(zp + 1))
	base := uint16(hi)<<8 | uint16(lo)
	addr = base + uint16(c.Y)
	crossed = addr&0xFF00 != base&0xFF00
	if crossed || forceExtra {
		c.read((base & 0xFF00) | (addr & 0x00FF))
	}
	return addr, crossed
}

// indirectJMP resolves JMP ($addr), reproducing the page-wrap bug where the
// high byte is fetched from the start of the same page instead of the next.
func (c *CPU) indirectJMP() uint16 {
	lo := c.read(c.PC)
	c.PC++
	hi := c.read(c.PC)
	c.PC++
	ptr := uint16(hi)<<8 | uint16(lo)
	rlo := c.read(ptr)
	rhi := c.read((ptr & 0xFF00) | ((ptr + 1) & 0x00FF))
	return uint16(rhi)<<8 | uint16(rlo)
}

func (c *CPU) branch(taken bool) {
	offset := int8(c.read(c.PC))
	c.PC++
	if !taken {
		return
	}
	oldPC := c.PC
	c.read(c.PC)
	newPC := uint16(int32(oldPC) + int32(offset))
	c.PC = newPC
	if newPC&0xFF00 != oldPC&0xFF00 {
		c.read((oldPC & 0xFF00) | (newPC & 0x00FF))
	}
}

// readModifyWrite performs the canonical three-access RMW sequence: read
// the original value, dummy-write it back unchanged, then write the
// modified value produced by op.
func (c *CPU) readModifyWrite(addr uint16, op func(uint8) uint8) uint8 {
	v := c.read(addr)
	c.write(addr, v)
	nv := op(v)
	c.write(addr, nv)
	return nv
}
