package cartridge

import "gones/internal/serialize"

// axrom implements mapper 7 (AxROM): switchable 32 KiB PRG banks, 8 KiB
// CHR-RAM, single-screen mirroring selected by bit 4 of the bank-select
// write.
type axrom struct {
	noIRQ
	noPersistence
	nametables

	props    Properties
	prgROM   []byte
	prgBanks int
	bank     uint8
	chr      []byte
}

func newAxROM(props Properties, prgROM, chr []byte) *axrom {
	m := &axrom{
		props:    props,
		prgROM:   prgROM,
		prgBanks: len(prgROM) / 0x8000,
		chr:      chr,
	}
	if m.prgBanks == 0 {
		m.prgBanks = 1
	}
	m.mirroring = MirrorSingleLower
	return m
}

func (m *axrom) ReadPRG(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	bank := int(m.bank) % m.prgBanks
	return m.prgROM[bank*0x8000+int(addr-0x8000)]
}

func (m *axrom) WritePRG(addr uint16, value uint8) {
	if addr < 0x8000 {
		return
	}
	m.bank = value & 0x07
	if value&0x10 != 0 {
		m.mirroring = MirrorSingleUpper
	} else {
		m.mirroring = MirrorSingleLower
	}
}

func (m *axrom) ReadCHR(addr uint16) uint8 {
	if int(addr) < len(m.chr) {
		return m.chr[addr]
	}
	return 0
}

func (m *axrom) WriteCHR(addr uint16, value uint8) {
	if int(addr) < len(m.chr) {
		m.chr[addr] = value
	}
}

func (m *axrom) ReadNametableRAM(addr uint16) uint8        { return m.readNametableRAM(addr) }
func (m *axrom) WriteNametableRAM(addr uint16, value uint8) { m.writeNametableRAM(addr, value) }
func (m *axrom) CurrentMirroring() MirrorMode               { return m.mirroring }
func (m *axrom) Properties() Properties                     { return m.props }

func (m *axrom) Serialize() []byte {
	w := serialize.NewWriter()
	w.U8(m.bank)
	w.U8(uint8(m.mirroring))
	w.Blob(m.chr)
	return w.Bytes()
}

func (m *axrom) Restore(data []byte) error {
	r := serialize.NewReader(data)
	m.bank = r.U8()
	m.mirroring = MirrorMode(r.U8())
	copy(m.chr, r.Blob())
	return r.Err()
}
