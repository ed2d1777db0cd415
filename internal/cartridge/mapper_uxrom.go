package cartridge

import "gones/internal/serialize"

// uxrom implements mapper 2 (UxROM): a 16 KiB switchable bank at
// $8000-$BFFF, the last 16 KiB bank fixed at $C000-$FFFF, 8 KiB CHR-RAM,
// mirroring fixed from the header.
type uxrom struct {
	noIRQ
	noPersistence
	nametables

	props    Properties
	prgROM   []byte
	prgBanks int
	bank     uint8
	chr      []byte
}

func newUxROM(props Properties, prgROM, chr []byte) *uxrom {
	m := &uxrom{
		props:    props,
		prgROM:   prgROM,
		prgBanks: len(prgROM) / 0x4000,
		chr:      chr,
	}
	m.mirroring = props.Mirroring
	return m
}

func (m *uxrom) bankSelect(addr uint16) uint8 { return m.bank }

func (m *uxrom) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x8000 && addr < 0xC000:
		bank := int(m.bankSelect(addr)) % m.prgBanks
		return m.prgROM[bank*0x4000+int(addr-0x8000)]
	case addr >= 0xC000:
		bank := m.prgBanks - 1
		return m.prgROM[bank*0x4000+int(addr-0xC000)]
	}
	return 0
}

func (m *uxrom) WritePRG(addr uint16, value uint8) {
	if addr >= 0x8000 {
		m.bank = value
	}
}

func (m *uxrom) ReadCHR(addr uint16) uint8 {
	if int(addr) < len(m.chr) {
		return m.chr[addr]
	}
	return 0
}

func (m *uxrom) WriteCHR(addr uint16, value uint8) {
	if int(addr) < len(m.chr) {
		m.chr[addr] = value
	}
}

func (m *uxrom) ReadNametableRAM(addr uint16) uint8        { return m.readNametableRAM(addr) }
func (m *uxrom) WriteNametableRAM(addr uint16, value uint8) { m.writeNametableRAM(addr, value) }
func (m *uxrom) CurrentMirroring() MirrorMode               { return m.mirroring }
func (m *uxrom) Properties() Properties                     { return m.props }

func (m *uxrom) Serialize() []byte {
	w := serialize.NewWriter()
	w.U8(m.bank)
	w.Blob(m.chr)
	return w.Bytes()
}

func (m *uxrom) Restore(data []byte) error {
	r := serialize.NewReader(data)
	m.bank = r.U8()
	copy(m.chr, r.Blob())
	return r.Err()
}

// mapper094 is mapper 94 (UN1ROM): a UxROM variant where the bank select
// uses data bits 4-2 instead of the low bits.
type mapper094 struct {
	*uxrom
}

func newMapper094(props Properties, prgROM, chr []byte) *mapper094 {
	return &mapper094{uxrom: newUxROM(props, prgROM, chr)}
}

func (m *mapper094) WritePRG(addr uint16, value uint8) {
	if addr >= 0x8000 {
		m.bank = (value >> 2) & 0x07
	}
}

// mapper180 is mapper 180 (Crazy Climber): a UxROM variant where the
// switchable bank sits at $8000-$BFFF as usual, but the *first* PRG bank is
// fixed at $C000-$FFFF instead of the last.
type mapper180 struct {
	*uxrom
}

func newMapper180(props Properties, prgROM, chr []byte) *mapper180 {
	return &mapper180{uxrom: newUxROM(props, prgROM, chr)}
}

func (m *mapper180) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x8000 && addr < 0xC000:
		bank := int(m.bank) % m.prgBanks
		return m.prgROM[bank*0x4000+int(addr-0x8000)]
	case addr >= 0xC000:
		return m.prgROM[int(addr-0xC000)]
	}
	return 0
}
