package ppu

// evaluateSpritesCycle drives the sprite-evaluation scratch state machine.
// Real hardware interleaves OAM reads (odd dots) and secondary-OAM writes
// (even dots) across dots 65-256; this collapses that into a single pass at
// dot 65 while preserving the documented inputs/outputs (up to 8 sprites
// copied, sprite-0 presence tracked, the overflow flag set on a 9th match).
func (p *PPU) evaluateSpritesCycle(dot int) {
	if dot == 1 {
		for i := range p.secondaryOAM {
			p.secondaryOAM[i] = 0xFF
		}
		p.secondaryIndex = 0
		p.sprite0Next = false
	}
	if dot == 65 {
		p.runSpriteEvaluation()
	}
}

func (p *PPU) runSpriteEvaluation() {
	height := 8
	if p.ctrl&ctrlSpriteSize16 != 0 {
		height = 16
	}
	target := p.scanline + 1

	found := 0
	for n := 0; n < 64; n++ {
		y := int(p.oam[n*4])
		row := target - y
		if row < 0 || row >= height {
			continue
		}
		if found < 8 {
			copy(p.secondaryOAM[found*4:found*4+4], p.oam[n*4:n*4+4])
			if n == 0 {
				p.sprite0Next = true
			}
			found++
			continue
		}
		p.status |= statusSpriteOverflow
		break
	}
	p.secondaryIndex = found
}

// loadSpriteShiftersForNextScanline fetches pattern bytes for every sprite
// found during evaluation and reloads the eight sprite lanes, called at dot
// 257 per spec.md §4.3.
func (p *PPU) loadSpriteShiftersForNextScanline() {
	height := 8
	if p.ctrl&ctrlSpriteSize16 != 0 {
		height = 16
	}
	target := p.scanline + 1

	p.spriteCount = p.secondaryIndex
	for i := 0; i < p.secondaryIndex; i++ {
		y := p.secondaryOAM[i*4]
		tile := p.secondaryOAM[i*4+1]
		attr := p.secondaryOAM[i*4+2]
		x := p.secondaryOAM[i*4+3]

		row := target - int(y)
		if attr&0x80 != 0 { // vertical flip
			row = height - 1 - row
		}

		var base uint16
		var patternIndex uint8
		if height == 16 {
			base = uint16(tile&0x01) * 0x1000
			patternIndex = tile &^ 0x01
			if row >= 8 {
				patternIndex++
				row -= 8
			}
		} else {
			base = 0
			if p.ctrl&ctrlSpritePattern != 0 {
				base = 0x1000
			}
			patternIndex = tile
		}

		addr := base + uint16(patternIndex)*16 + uint16(row)
		p.observeA12(addr)
		lo := p.readVRAM(addr)
		p.observeA12(addr + 8)
		hi := p.readVRAM(addr + 8)
		if attr&0x40 != 0 { // horizontal flip
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}

		p.sprites[i] = spriteSlot{
			patternLo: lo,
			patternHi: hi,
			attributes: attr,
			x:          x,
			isSprite0:  i == 0 && p.sprite0Next,
		}
	}
	for i := p.secondaryIndex; i < 8; i++ {
		p.sprites[i] = spriteSlot{}
	}
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}
