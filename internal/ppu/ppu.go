// Package ppu implements the NES picture processing unit: the background
// and sprite shift-register pipelines, scroll register arithmetic, OAM and
// sprite evaluation, the open-bus latch, and the A12 rise detector that
// drives MMC3's IRQ counter.
package ppu

import "gones/internal/region"

// Mapper is the subset of the cartridge.Mapper contract the PPU drives
// directly: CHR storage, the logical nametable space, and the A12-rise IRQ
// clock for mappers that derive an IRQ from it.
type Mapper interface {
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, value uint8)
	ReadNametableRAM(addr uint16) uint8
	WriteNametableRAM(addr uint16, value uint8)
	ClockIRQ()
}

// NMILine is the CPU-side edge-triggered interrupt input the PPU drives.
type NMILine interface {
	SetNMILow()
	SetNMIHigh()
}

// FrameSink receives one completed RGB888 framebuffer per frame, called at
// pre-render dot 1 per spec.md §6.
type FrameSink interface {
	RenderFrame(pixels []byte)
}

const (
	regPPUCTRL   = 0x2000
	regPPUMASK   = 0x2001
	regPPUSTATUS = 0x2002
	regOAMADDR   = 0x2003
	regOAMDATA   = 0x2004
	regPPUSCROLL = 0x2005
	regPPUADDR   = 0x2006
	regPPUDATA   = 0x2007
)

// PPUCTRL bits.
const (
	ctrlNametableMask = 0x03
	ctrlIncrement32   = 0x04
	ctrlSpritePattern = 0x08
	ctrlBGPattern     = 0x10
	ctrlSpriteSize16  = 0x20
	ctrlMasterSlave   = 0x40
	ctrlNMIEnable     = 0x80
)

// PPUMASK bits.
const (
	maskGreyscale       = 0x01
	maskShowBGLeft      = 0x02
	maskShowSpritesLeft = 0x04
	maskShowBG          = 0x08
	maskShowSprites     = 0x10
	maskEmphasizeRed    = 0x20
	maskEmphasizeGreen  = 0x40
	maskEmphasizeBlue   = 0x80
)

// PPUSTATUS bits.
const (
	statusSpriteOverflow = 0x20
	statusSprite0Hit     = 0x40
	statusVBlank         = 0x80
)

// decayThresholdCycles approximates the documented ~0.6s open-bus decay
// window in PPU-cycle units (NTSC PPU clock ≈ 5.369 MHz).
const decayThresholdCycles = uint64(3221590)

// spriteSlot is one of the eight sprite pipeline lanes, all reloaded at
// dot 257 from secondary OAM.
type spriteSlot struct {
	patternLo, patternHi uint8
	attributes           uint8
	x                    uint8
	isSprite0            bool
}

// PPU is the complete picture-processing state machine.
type PPU struct {
	mapper Mapper
	nmi    NMILine
	sink   FrameSink
	tables *region.Tables

	ctrl   uint8
	mask   uint8
	status uint8

	oamAddr      uint8
	oam          [256]byte
	secondaryOAM [32]byte

	v, t uint16
	x    uint8
	w    bool

	paletteRAM [32]byte

	// Open bus latch: one shared byte, per-bit last-write PPU-cycle stamp.
	busLatch      uint8
	busBitStamp   [8]uint64
	ppuCycleCount uint64

	ppudataBuffer uint8

	// Background pipeline.
	bgPatternLo, bgPatternHi     uint16
	bgAttrLo, bgAttrHi           uint16
	nextTileAddr                 uint16
	nextTile                     uint8
	nextAttr                     uint8
	nextPatternLo, nextPatternHi uint8

	// Sprite pipeline.
	sprites           [8]spriteSlot
	spriteCount       int
	sprite0OnScanline bool
	sprite0Next       bool

	// Sprite evaluation scratch (dots 65-256).
	evalN          int
	evalM          int
	evalCopied     int
	evalIdle       bool
	secondaryIndex int
	evalOAMAddr    uint8

	scanline int
	dot      int
	oddFrame bool

	sprite0HitPending   bool
	sprite0HitDelayDots int

	a12Low        bool
	a12LowCounter int

	frameCount uint64

	framebuffer []byte
}

// New constructs a PPU wired to the given mapper, CPU NMI input, and video
// sink, defaulting to NTSC geometry (call SetRegion before PowerOn to
// change it).
func New(mapper Mapper, nmi NMILine, sink FrameSink) *PPU {
	p := &PPU{mapper: mapper, nmi: nmi, sink: sink}
	p.SetRegion(&region.NTSCTables)
	return p
}

// SetMapper installs the cartridge mapper, replacing any previous one.
// Used when the PPU is constructed before a cartridge is loaded.
func (p *PPU) SetMapper(mapper Mapper) {
	p.mapper = mapper
}

// SetSink installs the video sink that receives each completed frame,
// replacing any previous one. Used by host frontends that want frames
// delivered directly instead of through the System's default no-op sink.
func (p *PPU) SetSink(sink FrameSink) {
	p.sink = sink
}

// FrameCount returns the number of frames fully rendered since power-on.
func (p *PPU) FrameCount() uint64 {
	return p.frameCount
}

// VisibleScanlines returns the active region's visible scanline count
// (240 for NTSC, 239 for PAL and Dendy), i.e. the framebuffer's height in
// pixels.
func (p *PPU) VisibleScanlines() int {
	return p.tables.NumVisibleScanlines
}

// SetRegion installs the region-specific scanline/dot geometry and
// (re)allocates the framebuffer to match.
func (p *PPU) SetRegion(tables *region.Tables) {
	p.tables = tables
	p.framebuffer = make([]byte, 256*tables.NumVisibleScanlines*3)
}

var powerOnPalette = [4]byte{0x09, 0x01, 0x00, 0x01}

// PowerOn resets all state to the documented power-on values, including
// palette RAM's conventional garbage-fill pattern.
func (p *PPU) PowerOn() {
	p.ctrl, p.mask, p.status = 0, 0, 0
	p.oamAddr = 0
	p.v, p.t, p.x, p.w = 0, 0, 0, false
	p.ppudataBuffer = 0
	p.scanline = -1
	p.dot = 0
	p.oddFrame = false
	p.frameCount = 0
	p.a12Low = false
	p.a12LowCounter = 0
	p.busLatch = 0
	p.ppuCycleCount = 0
	for i := range p.paletteRAM {
		p.paletteRAM[i] = powerOnPalette[i%len(powerOnPalette)]
	}
	for i := range p.framebuffer {
		p.framebuffer[i] = 0
	}
}

// Reset restores the subset of state a real /RESET pin clears (scroll
// latch and current scanline position), leaving OAM and palette RAM
// intact.
func (p *PPU) Reset() {
	p.mask = 0
	p.w = false
	p.ppudataBuffer = 0
	p.scanline = -1
	p.dot = 0
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskShowBG|maskShowSprites) != 0
}

// refreshBus marks every bit the just-completed access actually drove as
// fresh, latching the driven value for those bits.
func (p *PPU) refreshBus(value, bits uint8) {
	for i := 0; i < 8; i++ {
		bit := uint8(1) << i
		if bits&bit == 0 {
			continue
		}
		p.busLatch = (p.busLatch &^ bit) | (value & bit)
		p.busBitStamp[i] = p.ppuCycleCount
	}
}

// readBus returns the latch, with any bit that has decayed past the
// threshold reading back as 0.
func (p *PPU) readBus() uint8 {
	out := p.busLatch
	for i := 0; i < 8; i++ {
		if p.ppuCycleCount-p.busBitStamp[i] > decayThresholdCycles {
			out &^= 1 << i
		}
	}
	return out
}
