package cartridge

import "testing"

func makeHeader(prgBanks, chrBanks, mapper byte, flags6 byte) []byte {
	h := make([]byte, 16)
	h[0], h[1], h[2], h[3] = 'N', 'E', 'S', 0x1A
	h[4] = prgBanks
	h[5] = chrBanks
	h[6] = flags6 | (mapper&0x0F)<<4
	h[7] = mapper & 0xF0
	return h
}

func makeROM(prgBanks, chrBanks byte, mapper byte, flags6 byte) []byte {
	data := makeHeader(prgBanks, chrBanks, mapper, flags6)
	data = append(data, make([]byte, int(prgBanks)*16384)...)
	data = append(data, make([]byte, int(chrBanks)*8192)...)
	return data
}

func TestParseHeader_ShouldRejectBadMagic(t *testing.T) {
	data := make([]byte, 16)
	if _, err := ParseHeader(data); err == nil {
		t.Fatal("expected error for bad magic bytes")
	}
}

func TestParseHeader_ShouldRejectShortFile(t *testing.T) {
	if _, err := ParseHeader(make([]byte, 8)); err == nil {
		t.Fatal("expected error for file shorter than header")
	}
}

func TestParseHeader_ShouldDecodeINESMapperAndMirroring(t *testing.T) {
	data := makeHeader(2, 1, 1, 0x01)
	h, err := ParseHeader(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Mapper != 1 {
		t.Errorf("expected mapper 1, got %d", h.Mapper)
	}
	if h.Mirroring != MirrorVertical {
		t.Errorf("expected vertical mirroring, got %v", h.Mirroring)
	}
	if h.PRGROMSize != 2*16384 {
		t.Errorf("expected PRG-ROM size %d, got %d", 2*16384, h.PRGROMSize)
	}
}

func TestParseHeader_ShouldDetectNES20(t *testing.T) {
	data := makeHeader(1, 1, 4, 0x00)
	data[7] |= 0x08
	h, err := ParseHeader(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !h.IsNES20 {
		t.Error("expected IsNES20 true when flags7 bits 2-3 are 0b10")
	}
}

func TestLoad_ShouldRejectUnsupportedMapper(t *testing.T) {
	rom := makeROM(1, 1, 200, 0x00)
	if _, err := Load(rom); err == nil {
		t.Fatal("expected error for unsupported mapper number")
	}
}

func TestLoad_ShouldRejectTruncatedPRGROM(t *testing.T) {
	rom := makeHeader(2, 1, 0, 0x00)
	if _, err := Load(rom); err == nil {
		t.Fatal("expected error when file is too small for declared PRG-ROM size")
	}
}

func TestLoad_NROM_ShouldConstructMapper(t *testing.T) {
	rom := makeROM(2, 1, 0, 0x00)
	m, err := Load(rom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Properties().MapperNumber != 0 {
		t.Errorf("expected mapper number 0, got %d", m.Properties().MapperNumber)
	}
}

func TestNROM_ShouldMirrorPRGROMWhenSingleBank(t *testing.T) {
	props := Properties{PRGROMSize: 16384}
	prg := make([]byte, 16384)
	prg[0] = 0x42
	m := newNROM(props, prg, make([]byte, 8192))

	if got := m.ReadPRG(0x8000); got != 0x42 {
		t.Errorf("expected mirrored byte 0x42 at $8000, got %#x", got)
	}
	if got := m.ReadPRG(0xC000); got != 0x42 {
		t.Errorf("expected mirrored byte 0x42 at $C000, got %#x", got)
	}
}

func TestNROM_ShouldPersistPRGRAMWrites(t *testing.T) {
	props := Properties{PRGROMSize: 16384, PRGRAMSize: 8192}
	m := newNROM(props, make([]byte, 16384), make([]byte, 8192))

	m.WritePRG(0x6000, 0x7E)
	if got := m.ReadPRG(0x6000); got != 0x7E {
		t.Errorf("expected PRG-RAM echo 0x7E, got %#x", got)
	}
}

func TestMMC1_ShouldLatchControlAfterFiveShiftWrites(t *testing.T) {
	props := Properties{PRGROMSize: 4 * 16384, PRGRAMSize: 8192}
	m := newMMC1(props, make([]byte, 4*16384), make([]byte, 8192))

	shiftWrite := func(addr uint16, value uint8) {
		m.WritePRG(addr, value)
		m.ConsumeCycle()
	}
	// write control = 0b00010 (vertical mirroring, PRG mode 0, CHR mode 0)
	for i := 0; i < 5; i++ {
		bit := (uint8(0b00010) >> i) & 1
		shiftWrite(0x8000, bit)
	}
	if m.mirroring != MirrorVertical {
		t.Errorf("expected vertical mirroring after control latch, got %v", m.mirroring)
	}
}

func TestMMC1_ShouldResetShiftRegisterOnHighBitWrite(t *testing.T) {
	props := Properties{PRGROMSize: 4 * 16384, PRGRAMSize: 8192}
	m := newMMC1(props, make([]byte, 4*16384), make([]byte, 8192))

	m.WritePRG(0x8000, 0x01)
	m.ConsumeCycle()
	m.WritePRG(0x8000, 0x80)
	if m.shift != 0 || m.shiftCount != 0 {
		t.Errorf("expected shift register reset, got shift=%d count=%d", m.shift, m.shiftCount)
	}
	if m.prgMode() != 3 {
		t.Errorf("expected PRG mode 3 after reset, got %d", m.prgMode())
	}
}

func TestMMC1_ShouldIgnoreSecondWriteWithinSameCycle(t *testing.T) {
	props := Properties{PRGROMSize: 4 * 16384, PRGRAMSize: 8192}
	m := newMMC1(props, make([]byte, 4*16384), make([]byte, 8192))

	m.WritePRG(0x8000, 0x01)
	m.WritePRG(0x8000, 0x01) // same cycle, should be ignored
	if m.shiftCount != 1 {
		t.Errorf("expected only one shift to register, got count=%d", m.shiftCount)
	}
}

func TestUxROM_ShouldFixLastBankAtUpperHalf(t *testing.T) {
	props := Properties{PRGROMSize: 2 * 16384}
	prg := make([]byte, 2*16384)
	prg[16384] = 0x55
	m := newUxROM(props, prg, make([]byte, 8192))

	if got := m.ReadPRG(0xC000); got != 0x55 {
		t.Errorf("expected last bank fixed at $C000, got %#x", got)
	}
}

func TestMapper094_ShouldUseBits4Through2ForBankSelect(t *testing.T) {
	props := Properties{PRGROMSize: 4 * 16384}
	m := newMapper094(props, make([]byte, 4*16384), make([]byte, 8192))

	m.WritePRG(0x8000, 0b00011100) // bits 4-2 = 0b111 = 7
	if m.bank != 7 {
		t.Errorf("expected bank 7 from bits 4-2, got %d", m.bank)
	}
}

func TestMapper180_ShouldFixFirstBankAtUpperHalf(t *testing.T) {
	props := Properties{PRGROMSize: 2 * 16384}
	prg := make([]byte, 2*16384)
	prg[0] = 0x99
	m := newMapper180(props, prg, make([]byte, 8192))

	if got := m.ReadPRG(0xC000); got != 0x99 {
		t.Errorf("expected first bank fixed at $C000, got %#x", got)
	}
}

func TestCNROM_ShouldSwitchCHRBankOnWrite(t *testing.T) {
	props := Properties{PRGROMSize: 16384}
	chr := make([]byte, 2*8192)
	chr[8192] = 0x33
	m := newCNROM(props, make([]byte, 16384), chr)

	m.WritePRG(0x8000, 1)
	if got := m.ReadCHR(0x0000); got != 0x33 {
		t.Errorf("expected bank 1 selected, got %#x", got)
	}
}

func TestAxROM_ShouldSelectSingleScreenMirroringFromBankWrite(t *testing.T) {
	props := Properties{PRGROMSize: 32768}
	m := newAxROM(props, make([]byte, 32768), make([]byte, 8192))

	m.WritePRG(0x8000, 0x10)
	if m.mirroring != MirrorSingleUpper {
		t.Errorf("expected single-screen upper mirroring, got %v", m.mirroring)
	}
}

func TestMMC3_ShouldSelectPRGBankViaBankSelectAndData(t *testing.T) {
	props := Properties{PRGROMSize: 4 * 0x2000}
	prg := make([]byte, 4*0x2000)
	prg[3*0x2000] = 0x77
	m := newMMC3(props, prg, make([]byte, 8192))

	m.WritePRG(0x8000, 6) // select R6 (first switchable 8KiB PRG bank)
	m.WritePRG(0x8001, 3)
	if got := m.ReadPRG(0x8000); got != 0x77 {
		t.Errorf("expected bank 3 selected at $8000, got %#x", got)
	}
}

func TestMMC3_ShouldReloadIRQCounterOnClockWhenZero(t *testing.T) {
	props := Properties{PRGROMSize: 4 * 0x2000}
	m := newMMC3(props, make([]byte, 4*0x2000), make([]byte, 8192))

	m.WritePRG(0xC000, 4) // irq latch = 4
	m.WritePRG(0xC001, 0) // request reload
	m.irqEnabled = true

	m.ClockIRQ() // counter was 0, and reload requested -> reloads to 4
	if m.irqCounter != 4 {
		t.Errorf("expected counter reloaded to 4, got %d", m.irqCounter)
	}
	if m.irqPending {
		t.Error("did not expect IRQ pending immediately after reload to nonzero")
	}

	for i := 0; i < 4; i++ {
		m.ClockIRQ()
	}
	if !m.irqPending {
		t.Error("expected IRQ pending after counter reaches zero while enabled")
	}
}

func TestMMC3_ShouldClearIRQOnAcknowledge(t *testing.T) {
	props := Properties{PRGROMSize: 4 * 0x2000}
	m := newMMC3(props, make([]byte, 4*0x2000), make([]byte, 8192))
	m.irqPending = true

	m.ClearIRQ()
	if m.IRQPending() {
		t.Error("expected IRQPending false after ClearIRQ")
	}
}

func TestMMC3_ShouldTrackMirroringWrites(t *testing.T) {
	props := Properties{PRGROMSize: 4 * 0x2000}
	m := newMMC3(props, make([]byte, 4*0x2000), make([]byte, 8192))

	m.WritePRG(0xA000, 1) // horizontal
	if m.mirroring != MirrorHorizontal {
		t.Errorf("expected horizontal mirroring, got %v", m.mirroring)
	}
	m.WritePRG(0xA000, 0) // vertical
	if m.mirroring != MirrorVertical {
		t.Errorf("expected vertical mirroring, got %v", m.mirroring)
	}
}

func TestQuadrantPages_ShouldMapAllFiveModes(t *testing.T) {
	cases := map[MirrorMode][4]int{
		MirrorHorizontal:  {0, 0, 1, 1},
		MirrorVertical:    {0, 1, 0, 1},
		MirrorSingleLower: {0, 0, 0, 0},
		MirrorSingleUpper: {1, 1, 1, 1},
		MirrorFourScreen:  {0, 1, 2, 3},
	}
	for mode, want := range cases {
		if got := quadrantPages(mode); got != want {
			t.Errorf("mode %v: expected %v, got %v", mode, want, got)
		}
	}
}
