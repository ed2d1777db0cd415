package ppu

// StepCycle advances the PPU by one dot and performs that dot's work. The
// system clock calls this three times per CPU cycle on NTSC/Dendy, and on
// PAL three times plus a fourth dot once every five CPU cycles (averaging
// 3.2 dots/cycle).
func (p *PPU) StepCycle() {
	p.ppuCycleCount++
	p.advanceDot()

	switch {
	case p.scanline >= -1 && p.scanline < p.tables.NumVisibleScanlines:
		p.renderOrPreRenderCycle()
	case p.scanline == p.tables.NMIScanline:
		if p.dot == 1 {
			p.status |= statusVBlank
			p.updateNMILine()
		}
	}
}

func (p *PPU) advanceDot() {
	maxDot := 340
	if p.scanline == -1 && p.oddFrame && p.renderingEnabled() && p.tables.PreRenderShortensOnOddFrame {
		maxDot = 339
	}
	p.dot++
	if p.dot > maxDot {
		p.dot = 0
		p.scanline++
		if p.scanline > p.tables.NumScanlines-2 {
			p.scanline = -1
			p.oddFrame = !p.oddFrame
			p.frameCount++
		}
	}
}

func (p *PPU) renderOrPreRenderCycle() {
	preRender := p.scanline == -1

	if preRender && p.dot == 1 {
		p.status &^= statusVBlank | statusSprite0Hit | statusSpriteOverflow
		p.updateNMILine()
		if p.sink != nil {
			p.sink.RenderFrame(p.framebuffer)
		}
	}

	rendering := p.renderingEnabled()

	switch {
	case p.dot == 0:
		// idle
	case p.dot >= 1 && p.dot <= 256:
		if rendering {
			p.backgroundFetchStep(p.dot)
			p.shiftBackground()
			p.evaluateSpritesCycle(p.dot)
		}
		if p.dot <= 256 && !preRender {
			p.outputPixel(p.dot - 1)
		}
		if p.dot == 256 && rendering {
			p.incrementY()
		}
	case p.dot == 257:
		if rendering {
			p.copyX()
			p.loadSpriteShiftersForNextScanline()
		}
	case p.dot >= 258 && p.dot <= 320:
		if rendering && preRender && p.dot >= 280 && p.dot <= 304 {
			p.copyY()
		}
	case p.dot >= 321 && p.dot <= 336:
		if rendering {
			p.backgroundFetchStep(p.dot)
			p.shiftBackground()
		}
	case p.dot == 337 || p.dot == 339:
		if rendering {
			p.fetchNametableByte()
		}
	}

	if preRender && rendering && p.dot >= 280 && p.dot <= 304 {
		p.copyY()
	}
}

// backgroundFetchStep implements the classic 8-dot tile-fetch cadence:
// nametable byte, attribute byte, pattern low, pattern high, with the
// accumulated next-tile data latched into the shift registers at the tile
// boundary.
func (p *PPU) backgroundFetchStep(dot int) {
	switch dot % 8 {
	case 1:
		p.reloadShiftersFromLatch()
		p.fetchNametableByte()
	case 3:
		p.fetchAttributeByte()
	case 5:
		p.fetchPatternLow()
	case 7:
		p.fetchPatternHigh()
	case 0:
		p.incrementX()
	}
}

func (p *PPU) fetchNametableByte() {
	addr := 0x2000 | (p.v & 0x0FFF)
	p.nextTile = p.readVRAM(addr)
}

func (p *PPU) fetchAttributeByte() {
	addr := 0x23C0 | (p.v & 0x0C00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
	attr := p.readVRAM(addr)
	shift := ((p.v >> 4) & 0x04) | (p.v & 0x02)
	p.nextAttr = (attr >> shift) & 0x03
}

func (p *PPU) fetchPatternLow() {
	fineY := (p.v >> 12) & 0x07
	base := uint16(0)
	if p.ctrl&ctrlBGPattern != 0 {
		base = 0x1000
	}
	addr := base + uint16(p.nextTile)*16 + fineY
	p.observeA12(addr)
	p.nextPatternLo = p.readVRAM(addr)
}

func (p *PPU) fetchPatternHigh() {
	fineY := (p.v >> 12) & 0x07
	base := uint16(0)
	if p.ctrl&ctrlBGPattern != 0 {
		base = 0x1000
	}
	addr := base + uint16(p.nextTile)*16 + fineY + 8
	p.observeA12(addr)
	p.nextPatternHi = p.readVRAM(addr)
}

func (p *PPU) reloadShiftersFromLatch() {
	p.bgPatternLo = (p.bgPatternLo &^ 0x00FF) | uint16(p.nextPatternLo)
	p.bgPatternHi = (p.bgPatternHi &^ 0x00FF) | uint16(p.nextPatternHi)
	attrLo, attrHi := uint16(0), uint16(0)
	if p.nextAttr&0x01 != 0 {
		attrLo = 0x00FF
	}
	if p.nextAttr&0x02 != 0 {
		attrHi = 0x00FF
	}
	p.bgAttrLo = (p.bgAttrLo &^ 0x00FF) | attrLo
	p.bgAttrHi = (p.bgAttrHi &^ 0x00FF) | attrHi
}

func (p *PPU) shiftBackground() {
	p.bgPatternLo <<= 1
	p.bgPatternHi <<= 1
	p.bgAttrLo <<= 1
	p.bgAttrHi <<= 1
}

// outputPixel composes the final color for the dot just rendered and
// writes it as RGB888 into the framebuffer.
func (p *PPU) outputPixel(x int) {
	if x < 0 || x >= 256 || p.scanline < 0 || p.scanline >= p.tables.NumVisibleScanlines {
		return
	}

	bgColorID, bgPalette := p.backgroundPixel(x)
	sprColorID, sprPalette, sprPriority, sprIsZero := p.spritePixel(x)

	var paletteAddr uint16
	switch {
	case bgColorID == 0 && sprColorID == 0:
		paletteAddr = 0x3F00
	case bgColorID == 0 && sprColorID != 0:
		paletteAddr = 0x3F10 + uint16(sprPalette)*4 + uint16(sprColorID)
	case bgColorID != 0 && sprColorID == 0:
		paletteAddr = 0x3F00 + uint16(bgPalette)*4 + uint16(bgColorID)
	default:
		if sprPriority == 0 {
			paletteAddr = 0x3F10 + uint16(sprPalette)*4 + uint16(sprColorID)
		} else {
			paletteAddr = 0x3F00 + uint16(bgPalette)*4 + uint16(bgColorID)
		}
	}

	if bgColorID != 0 && sprColorID != 0 && sprIsZero {
		p.trySetSprite0Hit(x)
	}

	colorIndex := p.readPaletteByte(paletteAddr)
	r, g, b := nesPalette[colorIndex&0x3F][0], nesPalette[colorIndex&0x3F][1], nesPalette[colorIndex&0x3F][2]
	off := (p.scanline*256 + x) * 3
	p.framebuffer[off], p.framebuffer[off+1], p.framebuffer[off+2] = r, g, b
}

func (p *PPU) backgroundPixel(x int) (colorID, palette uint8) {
	if p.mask&maskShowBG == 0 {
		return 0, 0
	}
	if x < 8 && p.mask&maskShowBGLeft == 0 {
		return 0, 0
	}
	shift := uint(15 - p.x)
	lo := uint8((p.bgPatternLo >> shift) & 1)
	hi := uint8((p.bgPatternHi >> shift) & 1)
	colorID = lo | hi<<1
	paletteLo := uint8((p.bgAttrLo >> shift) & 1)
	paletteHi := uint8((p.bgAttrHi >> shift) & 1)
	palette = paletteLo | paletteHi<<1
	return colorID, palette
}

// spritePixel returns the first sprite (lowest index = highest priority)
// whose 8-pixel span starting at its X position covers x and whose color
// ID at that pixel is non-zero.
func (p *PPU) spritePixel(x int) (colorID, palette, priority uint8, isSprite0 bool) {
	if p.mask&maskShowSprites == 0 {
		return 0, 0, 0, false
	}
	if x < 8 && p.mask&maskShowSpritesLeft == 0 {
		return 0, 0, 0, false
	}
	for i := 0; i < p.spriteCount; i++ {
		s := &p.sprites[i]
		offset := x - int(s.x)
		if offset < 0 || offset > 7 {
			continue
		}
		bit := uint(7 - offset)
		lo := (s.patternLo >> bit) & 1
		hi := (s.patternHi >> bit) & 1
		cid := lo | hi<<1
		if cid == 0 {
			continue
		}
		return cid, s.attributes & 0x03, (s.attributes >> 5) & 1, s.isSprite0
	}
	return 0, 0, 0, false
}

func (p *PPU) trySetSprite0Hit(x int) {
	if p.status&statusSprite0Hit != 0 {
		return
	}
	if x == 255 {
		return
	}
	if x < 8 && (p.mask&maskShowBGLeft == 0 || p.mask&maskShowSpritesLeft == 0) {
		return
	}
	p.status |= statusSprite0Hit
}
