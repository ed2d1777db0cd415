package cartridge

import "gones/internal/serialize"

// mmc3 implements mapper 4 (MMC3/TxROM): eight switchable 1-2 KiB CHR banks,
// two switchable 8 KiB PRG banks (R6, R7) plus the second-to-last bank
// (fixed at $8000 or $C000 by the PRG mode) and the last bank (fixed at
// $E000), and a scanline IRQ counter clocked by the PPU's filtered A12 rise
// detector.
type mmc3 struct {
	prgRAMPersistence
	nametables

	props    Properties
	prgROM   []byte
	prgBanks int
	chr      []byte
	chrBanks int // in 1 KiB units

	bankSelect uint8 // which of R0-R7 the next data write updates
	prgMode    uint8 // bit 6 of bank-select write
	chrA12Inv  uint8 // bit 7 of bank-select write
	regs       [8]uint8

	prgRAMEnabled      bool
	prgRAMWriteProtect bool

	irqLatch      uint8
	irqCounter    uint8
	irqReload     bool
	irqEnabled    bool
	irqPending    bool
}

func newMMC3(props Properties, prgROM, chr []byte) *mmc3 {
	m := &mmc3{
		props:         props,
		prgROM:        prgROM,
		prgBanks:      len(prgROM) / 0x2000,
		chr:           chr,
		chrBanks:      len(chr) / 0x400,
		prgRAMEnabled: true,
	}
	if m.chrBanks == 0 {
		m.chrBanks = 1
	}
	m.mirroring = props.Mirroring
	m.prgRAM = make([]byte, props.PRGRAMSize)
	m.persistent = props.HasPersistentRAM
	return m
}

func (m *mmc3) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if !m.prgRAMEnabled || len(m.prgRAM) == 0 {
			return 0
		}
		return m.prgRAM[int(addr-0x6000)%len(m.prgRAM)]

	case addr >= 0x8000 && addr < 0xA000:
		bank := m.regs[6]
		if m.prgMode == 1 {
			bank = uint8(m.prgBanks - 2)
		}
		return m.prgAt(bank, addr-0x8000)

	case addr >= 0xA000 && addr < 0xC000:
		return m.prgAt(m.regs[7], addr-0xA000)

	case addr >= 0xC000 && addr < 0xE000:
		bank := uint8(m.prgBanks - 2)
		if m.prgMode == 1 {
			bank = m.regs[6]
		}
		return m.prgAt(bank, addr-0xC000)

	case addr >= 0xE000:
		return m.prgAt(uint8(m.prgBanks-1), addr-0xE000)
	}
	return 0
}

func (m *mmc3) prgAt(bank uint8, offset uint16) uint8 {
	b := int(bank) % m.prgBanks
	return m.prgROM[b*0x2000+int(offset)]
}

func (m *mmc3) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.prgRAMEnabled && !m.prgRAMWriteProtect && len(m.prgRAM) > 0 {
			m.prgRAM[int(addr-0x6000)%len(m.prgRAM)] = value
		}

	case addr >= 0x8000 && addr < 0xA000:
		if addr&1 == 0 {
			m.bankSelect = value & 0x07
			m.prgMode = (value >> 6) & 0x01
			m.chrA12Inv = (value >> 7) & 0x01
		} else {
			m.regs[m.bankSelect] = value
		}

	case addr >= 0xA000 && addr < 0xC000:
		if addr&1 == 0 {
			if value&0x01 == 0 {
				m.mirroring = MirrorVertical
			} else {
				m.mirroring = MirrorHorizontal
			}
			if m.props.FourScreen {
				m.mirroring = MirrorFourScreen
			}
		} else {
			m.prgRAMWriteProtect = value&0x40 != 0
			m.prgRAMEnabled = value&0x80 != 0
		}

	case addr >= 0xC000 && addr < 0xE000:
		if addr&1 == 0 {
			m.irqLatch = value
		} else {
			m.irqCounter = 0
			m.irqReload = true
		}

	case addr >= 0xE000:
		if addr&1 == 0 {
			m.irqEnabled = false
			m.irqPending = false
		} else {
			m.irqEnabled = true
		}
	}
}

func (m *mmc3) ReadCHR(addr uint16) uint8 {
	off := m.chrOffset(addr)
	if off < len(m.chr) {
		return m.chr[off]
	}
	return 0
}

func (m *mmc3) WriteCHR(addr uint16, value uint8) {
	if !m.props.ChrIsRAM {
		return
	}
	off := m.chrOffset(addr)
	if off < len(m.chr) {
		m.chr[off] = value
	}
}

func (m *mmc3) chrOffset(addr uint16) int {
	a := addr
	if m.chrA12Inv == 1 {
		a ^= 0x1000
	}
	var bank int
	var base uint16
	switch {
	case a < 0x0800:
		bank = int(m.regs[0] &^ 1)
		base = a
	case a < 0x1000:
		bank = int(m.regs[1] &^ 1)
		base = a - 0x0800
	case a < 0x1400:
		bank = int(m.regs[2])
		base = a - 0x1000
	case a < 0x1800:
		bank = int(m.regs[3])
		base = a - 0x1400
	case a < 0x1C00:
		bank = int(m.regs[4])
		base = a - 0x1800
	default:
		bank = int(m.regs[5])
		base = a - 0x1C00
	}
	bank %= m.chrBanks
	return bank*0x400 + int(base)
}

// ClockIRQ is invoked by the PPU's A12-rise filter on a low-to-high A12
// transition that follows at least four consecutive low-A12 PPU address
// observations; the filter counts observed addresses, not CPU cycles. The
// counter reloads to irqLatch either
// when it is already zero or when a reload was requested by a $C001 write;
// otherwise it decrements, asserting the IRQ line when it reaches zero
// while enabled.
func (m *mmc3) ClockIRQ() {
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnabled {
		m.irqPending = true
	}
}

func (m *mmc3) IRQPending() bool { return m.irqPending }
func (m *mmc3) ClearIRQ()        { m.irqPending = false }

func (m *mmc3) ReadNametableRAM(addr uint16) uint8        { return m.readNametableRAM(addr) }
func (m *mmc3) WriteNametableRAM(addr uint16, value uint8) { m.writeNametableRAM(addr, value) }
func (m *mmc3) CurrentMirroring() MirrorMode               { return m.mirroring }
func (m *mmc3) Properties() Properties                     { return m.props }

func (m *mmc3) Serialize() []byte {
	w := serialize.NewWriter()
	w.U8(m.bankSelect)
	w.U8(m.prgMode)
	w.U8(m.chrA12Inv)
	w.Raw(m.regs[:])
	w.Bool(m.prgRAMEnabled)
	w.Bool(m.prgRAMWriteProtect)
	w.U8(m.irqLatch)
	w.U8(m.irqCounter)
	w.Bool(m.irqReload)
	w.Bool(m.irqEnabled)
	w.Bool(m.irqPending)
	w.U8(uint8(m.mirroring))
	w.Blob(m.prgRAM)
	if m.props.ChrIsRAM {
		w.Blob(m.chr)
	}
	return w.Bytes()
}

func (m *mmc3) Restore(data []byte) error {
	r := serialize.NewReader(data)
	m.bankSelect = r.U8()
	m.prgMode = r.U8()
	m.chrA12Inv = r.U8()
	copy(m.regs[:], r.Raw(8))
	m.prgRAMEnabled = r.Bool()
	m.prgRAMWriteProtect = r.Bool()
	m.irqLatch = r.U8()
	m.irqCounter = r.U8()
	m.irqReload = r.Bool()
	m.irqEnabled = r.Bool()
	m.irqPending = r.Bool()
	m.mirroring = MirrorMode(r.U8())
	copy(m.prgRAM, r.Blob())
	if m.props.ChrIsRAM {
		copy(m.chr, r.Blob())
	}
	return r.Err()
}
