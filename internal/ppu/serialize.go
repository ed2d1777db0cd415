package ppu

import "gones/internal/serialize"

// Serialize encodes the full PPU state needed to resume rendering mid-frame:
// registers, OAM, palette RAM, scroll latches, the open-bus decay latch, the
// background/sprite pipelines, and scanline/dot position.
func (p *PPU) Serialize() []byte {
	w := serialize.NewWriter()

	w.U8(p.ctrl)
	w.U8(p.mask)
	w.U8(p.status)

	w.U8(p.oamAddr)
	w.Raw(p.oam[:])
	w.Raw(p.secondaryOAM[:])

	w.U16(p.v)
	w.U16(p.t)
	w.U8(p.x)
	w.Bool(p.w)

	w.Raw(p.paletteRAM[:])

	w.U8(p.busLatch)
	for _, stamp := range p.busBitStamp {
		w.U64(stamp)
	}
	w.U64(p.ppuCycleCount)

	w.U8(p.ppudataBuffer)

	w.U16(p.bgPatternLo)
	w.U16(p.bgPatternHi)
	w.U16(p.bgAttrLo)
	w.U16(p.bgAttrHi)
	w.U16(p.nextTileAddr)
	w.U8(p.nextTile)
	w.U8(p.nextAttr)
	w.U8(p.nextPatternLo)
	w.U8(p.nextPatternHi)

	for _, s := range p.sprites {
		w.U8(s.patternLo)
		w.U8(s.patternHi)
		w.U8(s.attributes)
		w.U8(s.x)
		w.Bool(s.isSprite0)
	}
	w.U8(uint8(p.spriteCount))
	w.Bool(p.sprite0Next)
	w.U8(uint8(p.secondaryIndex))

	writeInt(w, p.scanline)
	writeInt(w, p.dot)
	w.Bool(p.oddFrame)

	w.Bool(p.a12Low)
	w.U8(uint8(p.a12LowCounter))

	w.U64(p.frameCount)

	return w.Bytes()
}

// Restore decodes a blob produced by Serialize, reallocating the
// framebuffer for the current region if needed.
func (p *PPU) Restore(data []byte) error {
	r := serialize.NewReader(data)

	p.ctrl = r.U8()
	p.mask = r.U8()
	p.status = r.U8()

	p.oamAddr = r.U8()
	copy(p.oam[:], r.Raw(len(p.oam)))
	copy(p.secondaryOAM[:], r.Raw(len(p.secondaryOAM)))

	p.v = r.U16()
	p.t = r.U16()
	p.x = r.U8()
	p.w = r.Bool()

	copy(p.paletteRAM[:], r.Raw(len(p.paletteRAM)))

	p.busLatch = r.U8()
	for i := range p.busBitStamp {
		p.busBitStamp[i] = r.U64()
	}
	p.ppuCycleCount = r.U64()

	p.ppudataBuffer = r.U8()

	p.bgPatternLo = r.U16()
	p.bgPatternHi = r.U16()
	p.bgAttrLo = r.U16()
	p.bgAttrHi = r.U16()
	p.nextTileAddr = r.U16()
	p.nextTile = r.U8()
	p.nextAttr = r.U8()
	p.nextPatternLo = r.U8()
	p.nextPatternHi = r.U8()

	for i := range p.sprites {
		p.sprites[i] = spriteSlot{
			patternLo:  r.U8(),
			patternHi:  r.U8(),
			attributes: r.U8(),
			x:          r.U8(),
			isSprite0:  r.Bool(),
		}
	}
	p.spriteCount = int(r.U8())
	p.sprite0Next = r.Bool()
	p.secondaryIndex = int(r.U8())

	p.scanline = readInt(r)
	p.dot = readInt(r)
	p.oddFrame = r.Bool()

	p.a12Low = r.Bool()
	p.a12LowCounter = int(r.U8())

	p.frameCount = r.U64()

	if r.Err() != nil {
		return serialize.ErrTruncated("ppu", r.Err())
	}
	if len(p.framebuffer) != 256*p.tables.NumVisibleScanlines*3 {
		p.framebuffer = make([]byte, 256*p.tables.NumVisibleScanlines*3)
	}
	return nil
}

func writeInt(w *serialize.Writer, v int) { w.U32(uint32(int32(v))) }
func readInt(r *serialize.Reader) int     { return int(int32(r.U32())) }
