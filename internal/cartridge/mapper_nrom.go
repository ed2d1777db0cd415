package cartridge

import "gones/internal/serialize"

// nrom implements mapper 0 (NROM): fixed PRG-ROM, fixed CHR, optional
// 8 KiB PRG-RAM, mirroring taken straight from the header. No bank
// switching of any kind.
type nrom struct {
	noIRQ
	noPersistence
	nametables

	props Properties

	prgROM []byte
	prgRAM [0x2000]byte
	chr    []byte
}

func newNROM(props Properties, prgROM, chr []byte) *nrom {
	m := &nrom{props: props, prgROM: prgROM, chr: chr}
	m.mirroring = props.Mirroring
	return m
}

func (m *nrom) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.prgRAM[addr-0x6000]
	case addr >= 0x8000:
		return m.prgROM[int(addr-0x8000)%len(m.prgROM)]
	}
	return 0
}

func (m *nrom) WritePRG(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.prgRAM[addr-0x6000] = value
	}
	// Writes to $8000-$FFFF are ignored; NROM has no registers.
}

func (m *nrom) ReadCHR(addr uint16) uint8 {
	if int(addr) < len(m.chr) {
		return m.chr[addr]
	}
	return 0
}

func (m *nrom) WriteCHR(addr uint16, value uint8) {
	if m.props.ChrIsRAM && int(addr) < len(m.chr) {
		m.chr[addr] = value
	}
}

func (m *nrom) ReadNametableRAM(addr uint16) uint8        { return m.readNametableRAM(addr) }
func (m *nrom) WriteNametableRAM(addr uint16, value uint8) { m.writeNametableRAM(addr, value) }
func (m *nrom) CurrentMirroring() MirrorMode               { return m.mirroring }
func (m *nrom) Properties() Properties                     { return m.props }

func (m *nrom) Serialize() []byte {
	w := serialize.NewWriter()
	w.Blob(m.prgRAM[:])
	if m.props.ChrIsRAM {
		w.Blob(m.chr)
	}
	return w.Bytes()
}

func (m *nrom) Restore(data []byte) error {
	r := serialize.NewReader(data)
	copy(m.prgRAM[:], r.Blob())
	if m.props.ChrIsRAM {
		copy(m.chr, r.Blob())
	}
	return r.Err()
}
