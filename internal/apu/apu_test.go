package apu

import (
	"testing"

	"gones/internal/cpu"
)

type fakeBus struct {
	data map[uint16]uint8
}

func (f *fakeBus) Read(addr uint16) uint8 { return f.data[addr] }

type fakeStaller struct{ stalls int }

func (f *fakeStaller) Stall() { f.stalls++ }

type fakeIRQ struct {
	low map[cpu.IRQSource]bool
}

func newFakeIRQ() *fakeIRQ { return &fakeIRQ{low: make(map[cpu.IRQSource]bool)} }

func (f *fakeIRQ) SetIRQLow(source cpu.IRQSource)  { f.low[source] = true }
func (f *fakeIRQ) SetIRQHigh(source cpu.IRQSource) { f.low[source] = false }

func newTestAPU() (*APU, *fakeIRQ) {
	irq := newFakeIRQ()
	a := New(&fakeBus{data: map[uint16]uint8{}}, &fakeStaller{}, irq)
	a.PowerOn()
	return a, irq
}

func TestWriteRegister_PulseTimerHigh_ShouldLoadLengthCounter(t *testing.T) {
	a, _ := newTestAPU()
	a.WriteRegister(0x4015, 0x01) // enable pulse1
	a.WriteRegister(0x4000, 0x30) // constant volume
	a.WriteRegister(0x4003, 0x08) // length index 1 -> 254

	if a.pulse1.lengthCounter != 254 {
		t.Errorf("expected length counter 254, got %d", a.pulse1.lengthCounter)
	}
}

func TestWriteRegister_ChannelEnable_ShouldClearDisabledLengthCounters(t *testing.T) {
	a, _ := newTestAPU()
	a.WriteRegister(0x4015, 0x01)
	a.WriteRegister(0x4003, 0x08)
	if a.pulse1.lengthCounter == 0 {
		t.Fatal("expected nonzero length counter before disable")
	}

	a.WriteRegister(0x4015, 0x00)
	if a.pulse1.lengthCounter != 0 {
		t.Errorf("expected length counter cleared on disable, got %d", a.pulse1.lengthCounter)
	}
}

func TestReadStatus_ShouldReflectActiveLengthCounters(t *testing.T) {
	a, _ := newTestAPU()
	a.WriteRegister(0x4015, 0x01)
	a.WriteRegister(0x4003, 0x08)

	status := a.ReadStatus()
	if status&0x01 == 0 {
		t.Error("expected bit 0 set for pulse1 active")
	}
	if status&0x02 != 0 {
		t.Error("expected bit 1 clear for disabled pulse2")
	}
}

func TestStep_FourStepMode_ShouldRaiseFrameIRQAtSequenceEnd(t *testing.T) {
	a, irq := newTestAPU()

	lastStep := int(a.tbl.FrameCounterStepCycleTable[4])
	for i := 0; i < lastStep; i++ {
		a.Step()
	}

	if !irq.low[cpu.IRQSourceFrameCounter] {
		t.Error("expected frame IRQ asserted at end of 4-step sequence")
	}
}

func TestReadStatus_ShouldClearFrameIRQFlagButNotReassertIt(t *testing.T) {
	a, irq := newTestAPU()
	lastStep := int(a.tbl.FrameCounterStepCycleTable[4])
	for i := 0; i < lastStep; i++ {
		a.Step()
	}

	status := a.ReadStatus()
	if status&0x40 == 0 {
		t.Error("expected frame IRQ flag bit set in status before read clears it")
	}
	if irq.low[cpu.IRQSourceFrameCounter] {
		t.Error("expected ReadStatus to drop the frame IRQ line")
	}

	status2 := a.ReadStatus()
	if status2&0x40 != 0 {
		t.Error("expected frame IRQ flag cleared on second read")
	}
}

func TestWriteFrameCounter_InhibitIRQBit_ShouldSuppressFutureIRQ(t *testing.T) {
	a, irq := newTestAPU()
	a.WriteRegister(0x4017, 0x40) // bit6: inhibit IRQ, 4-step mode

	delay := a.pendingFrameDelay
	for i := 0; i < delay; i++ {
		a.Step()
	}

	lastStep := int(a.tbl.FrameCounterStepCycleTable[4])
	for i := 0; i < lastStep; i++ {
		a.Step()
	}

	if irq.low[cpu.IRQSourceFrameCounter] {
		t.Error("expected frame IRQ suppressed when inhibit bit is set")
	}
}

func TestWriteFrameCounter_FiveStepMode_ShouldClockImmediately(t *testing.T) {
	a, _ := newTestAPU()
	a.WriteRegister(0x4015, 0x01)
	a.WriteRegister(0x4003, 0x08) // length counter loaded, halt clear

	a.WriteRegister(0x4017, 0x80) // bit7: 5-step mode, clocks length/sweep now
	delay := a.pendingFrameDelay
	for i := 0; i < delay; i++ {
		a.Step()
	}

	if a.pulse1.lengthCounter != 253 {
		t.Errorf("expected immediate length clock to decrement to 253, got %d", a.pulse1.lengthCounter)
	}
}

func TestGetSamples_ShouldDrainBufferAndRespectSampleRate(t *testing.T) {
	a, _ := newTestAPU()
	a.SetSampleRate(44100)

	cpuCyclesPerSecond := int(a.tbl.CPUClockHz)
	for i := 0; i < cpuCyclesPerSecond; i++ {
		a.Step()
	}

	samples := a.GetSamples()
	if len(samples) < 44000 || len(samples) > 44200 {
		t.Errorf("expected roughly 44100 samples for one second at 44.1kHz, got %d", len(samples))
	}

	if len(a.GetSamples()) != 0 {
		t.Error("expected buffer drained after GetSamples")
	}
}

func TestReset_ShouldSilenceChannelsAndClearIRQLines(t *testing.T) {
	a, irq := newTestAPU()
	a.WriteRegister(0x4015, 0x1F)
	a.WriteRegister(0x4003, 0x08)

	a.Reset()

	if a.pulse1.lengthCounter != 0 {
		t.Errorf("expected length counter cleared on reset, got %d", a.pulse1.lengthCounter)
	}
	if a.channelEnable[0] {
		t.Error("expected channels disabled on reset")
	}
	if irq.low[cpu.IRQSourceFrameCounter] || irq.low[cpu.IRQSourceDMC] {
		t.Error("expected both IRQ sources deasserted on reset")
	}
}
