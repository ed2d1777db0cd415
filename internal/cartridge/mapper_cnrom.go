package cartridge

import "gones/internal/serialize"

// cnrom implements mapper 3 (CNROM): fixed PRG-ROM (16 or 32 KiB, mirrored
// if 16 KiB), an 8 KiB switchable CHR-ROM bank selected by the low bits of
// any write to $8000-$FFFF.
type cnrom struct {
	noIRQ
	noPersistence
	nametables

	props    Properties
	prgROM   []byte
	chr      []byte
	chrBanks int
	bank     uint8
}

func newCNROM(props Properties, prgROM, chr []byte) *cnrom {
	m := &cnrom{
		props:    props,
		prgROM:   prgROM,
		chr:      chr,
		chrBanks: len(chr) / 0x2000,
	}
	if m.chrBanks == 0 {
		m.chrBanks = 1
	}
	m.mirroring = props.Mirroring
	return m
}

func (m *cnrom) ReadPRG(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	off := int(addr-0x8000) % len(m.prgROM)
	return m.prgROM[off]
}

func (m *cnrom) WritePRG(addr uint16, value uint8) {
	if addr >= 0x8000 {
		m.bank = value & uint8(m.chrBanks-1)
	}
}

func (m *cnrom) ReadCHR(addr uint16) uint8 {
	off := int(m.bank)*0x2000 + int(addr)
	if off < len(m.chr) {
		return m.chr[off]
	}
	return 0
}

func (m *cnrom) WriteCHR(addr uint16, value uint8) {
	if !m.props.ChrIsRAM {
		return
	}
	off := int(m.bank)*0x2000 + int(addr)
	if off < len(m.chr) {
		m.chr[off] = value
	}
}

func (m *cnrom) ReadNametableRAM(addr uint16) uint8        { return m.readNametableRAM(addr) }
func (m *cnrom) WriteNametableRAM(addr uint16, value uint8) { m.writeNametableRAM(addr, value) }
func (m *cnrom) CurrentMirroring() MirrorMode               { return m.mirroring }
func (m *cnrom) Properties() Properties                     { return m.props }

func (m *cnrom) Serialize() []byte {
	w := serialize.NewWriter()
	w.U8(m.bank)
	if m.props.ChrIsRAM {
		w.Blob(m.chr)
	}
	return w.Bytes()
}

func (m *cnrom) Restore(data []byte) error {
	r := serialize.NewReader(data)
	m.bank = r.U8()
	if m.props.ChrIsRAM {
		copy(m.chr, r.Blob())
	}
	return r.Err()
}
