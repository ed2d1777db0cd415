package cartridge

import "gones/internal/serialize"

// mmc1 implements mapper 1 (MMC1/SxROM). Every write to $8000-$FFFF shifts
// one bit (LSB first) into a 5-bit serial register; bit 7 of the written
// value resets the register instead. On the fifth shift, the accumulated
// value is latched into one of four internal registers selected by the
// address range of that fifth write.
type mmc1 struct {
	noIRQ
	prgRAMPersistence
	nametables

	props    Properties
	prgROM   []byte
	prgBanks int
	chr      []byte
	chrBanks int // in 4 KiB units

	shift      uint8
	shiftCount uint8

	control  uint8 // mirroring(2) | prgMode(2) | chrMode(1)
	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8

	// Consecutive writes within the same CPU cycle are ignored after the
	// first (real MMC1 latches only one write per cycle); the system clock
	// calls ConsumeCycle once per CPU cycle to clear this.
	wroteThisCycle bool
}

func newMMC1(props Properties, prgROM, chr []byte) *mmc1 {
	m := &mmc1{
		props:    props,
		prgROM:   prgROM,
		prgBanks: len(prgROM) / 0x4000,
		chr:      chr,
		chrBanks: len(chr) / 0x1000,
		shift:    0,
		control:  0x0C, // power-on: PRG mode 3 (fix last bank at $C000)
	}
	if m.chrBanks == 0 {
		m.chrBanks = 1
	}
	m.prgRAM = make([]byte, props.PRGRAMSize)
	m.persistent = props.HasPersistentRAM
	m.applyMirroring()
	return m
}

func (m *mmc1) prgMode() uint8 { return (m.control >> 2) & 0x03 }
func (m *mmc1) chrMode() uint8 { return (m.control >> 4) & 0x01 }

func (m *mmc1) applyMirroring() {
	switch m.control & 0x03 {
	case 0:
		m.mirroring = MirrorSingleLower
	case 1:
		m.mirroring = MirrorSingleUpper
	case 2:
		m.mirroring = MirrorVertical
	default:
		m.mirroring = MirrorHorizontal
	}
}

// ConsumeCycle is called once per CPU cycle by the system clock so that two writes
// landing in the same cycle (impossible for ordinary CPU instructions, but
// reachable via certain RMW sequences on real hardware) only count once.
func (m *mmc1) ConsumeCycle() { m.wroteThisCycle = false }

func (m *mmc1) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if len(m.prgRAM) == 0 {
			return 0
		}
		return m.prgRAM[int(addr-0x6000)%len(m.prgRAM)]

	case addr >= 0x8000 && addr < 0xC000:
		var bank int
		switch m.prgMode() {
		case 0, 1:
			bank = int(m.prgBank &^ 1)
		case 2:
			bank = 0
		default: // 3
			bank = int(m.prgBank)
		}
		bank %= m.prgBanks
		return m.prgROM[bank*0x4000+int(addr-0x8000)]

	case addr >= 0xC000:
		var bank int
		switch m.prgMode() {
		case 0, 1:
			bank = int(m.prgBank | 1)
		case 2:
			bank = int(m.prgBank)
		default: // 3
			bank = m.prgBanks - 1
		}
		bank %= m.prgBanks
		return m.prgROM[bank*0x4000+int(addr-0xC000)]
	}
	return 0
}

func (m *mmc1) WritePRG(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		if len(m.prgRAM) > 0 {
			m.prgRAM[int(addr-0x6000)%len(m.prgRAM)] = value
		}
		return
	}
	if addr < 0x8000 {
		return
	}
	if m.wroteThisCycle {
		return
	}
	m.wroteThisCycle = true

	if value&0x80 != 0 {
		m.shift = 0
		m.shiftCount = 0
		m.control |= 0x0C
		m.applyMirroring()
		return
	}

	m.shift = (m.shift >> 1) | ((value & 1) << 4)
	m.shiftCount++
	if m.shiftCount < 5 {
		return
	}

	result := m.shift
	m.shift = 0
	m.shiftCount = 0

	switch {
	case addr < 0xA000:
		m.control = result
		m.applyMirroring()
	case addr < 0xC000:
		m.chrBank0 = result
	case addr < 0xE000:
		m.chrBank1 = result
	default:
		m.prgBank = result & 0x0F
		m.persistent = m.props.HasPersistentRAM && result&0x10 == 0
	}
}

func (m *mmc1) ReadCHR(addr uint16) uint8 {
	off := m.chrOffset(addr)
	if off < len(m.chr) {
		return m.chr[off]
	}
	return 0
}

func (m *mmc1) WriteCHR(addr uint16, value uint8) {
	if !m.props.ChrIsRAM {
		return
	}
	off := m.chrOffset(addr)
	if off < len(m.chr) {
		m.chr[off] = value
	}
}

func (m *mmc1) chrOffset(addr uint16) int {
	if m.chrMode() == 0 {
		bank := int(m.chrBank0 &^ 1)
		if addr >= 0x1000 {
			bank |= 1
		}
		bank %= m.chrBanks
		return bank*0x1000 + int(addr&0x0FFF)
	}
	if addr < 0x1000 {
		return (int(m.chrBank0) % m.chrBanks) * 0x1000 + int(addr)
	}
	return (int(m.chrBank1) % m.chrBanks) * 0x1000 + int(addr-0x1000)
}

func (m *mmc1) ReadNametableRAM(addr uint16) uint8        { return m.readNametableRAM(addr) }
func (m *mmc1) WriteNametableRAM(addr uint16, value uint8) { m.writeNametableRAM(addr, value) }
func (m *mmc1) CurrentMirroring() MirrorMode               { return m.mirroring }
func (m *mmc1) Properties() Properties                     { return m.props }

func (m *mmc1) Serialize() []byte {
	w := serialize.NewWriter()
	w.U8(m.shift)
	w.U8(m.shiftCount)
	w.U8(m.control)
	w.U8(m.chrBank0)
	w.U8(m.chrBank1)
	w.U8(m.prgBank)
	w.Blob(m.prgRAM)
	if m.props.ChrIsRAM {
		w.Blob(m.chr)
	}
	return w.Bytes()
}

func (m *mmc1) Restore(data []byte) error {
	r := serialize.NewReader(data)
	m.shift = r.U8()
	m.shiftCount = r.U8()
	m.control = r.U8()
	m.chrBank0 = r.U8()
	m.chrBank1 = r.U8()
	m.prgBank = r.U8()
	copy(m.prgRAM, r.Blob())
	if m.props.ChrIsRAM {
		copy(m.chr, r.Blob())
	}
	m.applyMirroring()
	return r.Err()
}
