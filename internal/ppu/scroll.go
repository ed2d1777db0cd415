package ppu

// incrementX wraps coarse-X from 31 to 0, flipping the horizontal
// nametable-select bit (bit 10) on wrap.
func (p *PPU) incrementX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

// incrementY increments fine-Y (bits 14-12); on overflow it resets fine-Y
// and increments coarse-Y, wrapping coarse-Y from 29 (flipping the
// vertical nametable-select bit) or from 31 (the attribute-area rows,
// which wrap without flipping the nametable bit — the documented quirk for
// out-of-range scroll writes).
func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	coarseY := (p.v & 0x03E0) >> 5
	switch coarseY {
	case 29:
		coarseY = 0
		p.v ^= 0x0800
	case 31:
		coarseY = 0
	default:
		coarseY++
	}
	p.v = (p.v &^ 0x03E0) | (coarseY << 5)
}

// copyX copies the horizontal scroll bits of t into v (dot 257 of visible
// scanlines, rendering enabled).
func (p *PPU) copyX() {
	p.v = (p.v &^ 0x041F) | (p.t & 0x041F)
}

// copyY copies the vertical scroll bits of t into v (dots 280-304 of the
// pre-render scanline, rendering enabled).
func (p *PPU) copyY() {
	p.v = (p.v &^ 0x7BE0) | (p.t & 0x7BE0)
}
