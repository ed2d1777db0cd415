// Package apu implements the NES Audio Processing Unit: five channels
// (two pulse, triangle, noise, DMC), the 4-step/5-step frame sequencer, and
// the non-linear mixer.
package apu

import (
	"gones/internal/cpu"
	"gones/internal/region"
)

// Bus is the CPU address space the DMC channel reads sample bytes from.
type Bus interface {
	Read(addr uint16) uint8
}

// CPUStaller is the subset of the CPU the DMC sample fetch stalls.
type CPUStaller interface {
	Stall()
}

// IRQLine is the CPU's OR-combined level-triggered interrupt input; the
// frame counter and DMC each own one bit of it.
type IRQLine interface {
	SetIRQLow(source cpu.IRQSource)
	SetIRQHigh(source cpu.IRQSource)
}

// APU is the complete audio state machine.
type APU struct {
	bus  Bus
	cpu  CPUStaller
	irq  IRQLine
	tbl  *region.Tables

	pulse1   PulseChannel
	pulse2   PulseChannel
	triangle TriangleChannel
	noise    NoiseChannel
	dmc      DMCChannel

	frameCounter   uint16
	frameMode      bool // false = 4-step, true = 5-step
	frameIRQEnable bool
	frameIRQFlag   bool

	pendingFrameWrite bool
	pendingFrameValue uint8
	pendingFrameDelay int

	channelEnable [5]bool

	sampleBuffer     []float32
	sampleRate       int
	cycleAccumulator float64

	cycles uint64
}

// New constructs an APU driving the given CPU memory bus, CPU stall input,
// and IRQ line, defaulting to NTSC region tables.
func New(bus Bus, cpuStall CPUStaller, irq IRQLine) *APU {
	a := &APU{
		bus:          bus,
		cpu:          cpuStall,
		irq:          irq,
		tbl:          &region.NTSCTables,
		sampleBuffer: make([]float32, 0, 4096),
		sampleRate:   44100,
	}
	a.noise.shiftRegister = 1
	return a
}

// SetRegion installs the region-specific frame-sequencer cycle table.
func (a *APU) SetRegion(tables *region.Tables) {
	a.tbl = tables
}

// PowerOn resets the APU to documented power-on state: frame mode clear
// (4-step), all channels silent, noise LFSR seeded to 1.
func (a *APU) PowerOn() {
	a.Reset()
}

// Reset clears channel and frame-counter state, as a real /RESET pulse
// does (channel enable flags drop to 0, silencing all channels).
func (a *APU) Reset() {
	a.pulse1 = PulseChannel{}
	a.pulse2 = PulseChannel{}
	a.triangle = TriangleChannel{}
	a.noise = NoiseChannel{shiftRegister: 1}
	a.dmc = DMCChannel{}

	a.frameCounter = 0
	a.frameMode = false
	a.frameIRQEnable = true
	a.frameIRQFlag = false
	a.pendingFrameWrite = false

	for i := range a.channelEnable {
		a.channelEnable[i] = false
	}

	a.cycles = 0
	a.cycleAccumulator = 0
	a.sampleBuffer = a.sampleBuffer[:0]

	a.irq.SetIRQHigh(cpu.IRQSourceFrameCounter)
	a.irq.SetIRQHigh(cpu.IRQSourceDMC)
}

// Step advances the APU by one CPU cycle: the frame sequencer, every
// channel's timer, the DMC sample reader, and the sample-rate-converted
// audio output.
func (a *APU) Step() {
	a.cycles++

	a.applyPendingFrameWrite()
	a.stepFrameCounter()
	a.stepChannelTimers()
	a.generateSample()
}

func (a *APU) applyPendingFrameWrite() {
	if !a.pendingFrameWrite {
		return
	}
	a.pendingFrameDelay--
	if a.pendingFrameDelay > 0 {
		return
	}
	a.pendingFrameWrite = false
	a.commitFrameCounterWrite(a.pendingFrameValue)
}

// stepFrameCounter drives the quarter/half-frame clocks off the region's
// exact cycle table rather than hardcoded literals, so PAL/Dendy reuse the
// same state machine with their own cadence.
func (a *APU) stepFrameCounter() {
	a.frameCounter++
	t := a.tbl.FrameCounterStepCycleTable

	if !a.frameMode {
		switch a.frameCounter {
		case t[0]:
			a.clockEnvelopeAndLinear()
		case t[1]:
			a.clockEnvelopeAndLinear()
			a.clockLengthAndSweep()
		case t[2]:
			a.clockEnvelopeAndLinear()
		case t[3]:
			a.clockEnvelopeAndLinear()
			a.clockLengthAndSweep()
		case t[4]:
			if a.frameIRQEnable {
				a.frameIRQFlag = true
				a.irq.SetIRQLow(cpu.IRQSourceFrameCounter)
			}
			a.frameCounter = 0
		}
		return
	}

	switch a.frameCounter {
	case t[0]:
		a.clockEnvelopeAndLinear()
	case t[1]:
		a.clockEnvelopeAndLinear()
		a.clockLengthAndSweep()
	case t[2]:
		a.clockEnvelopeAndLinear()
	case t[5]:
		a.clockEnvelopeAndLinear()
		a.clockLengthAndSweep()
	case t[6]:
		a.frameCounter = 0
	}
}

func (a *APU) clockEnvelopeAndLinear() {
	a.clockPulseEnvelope(&a.pulse1)
	a.clockPulseEnvelope(&a.pulse2)
	a.clockNoiseEnvelope(&a.noise)
	a.clockTriangleLinear(&a.triangle)
}

func (a *APU) clockLengthAndSweep() {
	a.clockPulseLength(&a.pulse1)
	a.clockPulseSweep(&a.pulse1, true)
	a.clockPulseLength(&a.pulse2)
	a.clockPulseSweep(&a.pulse2, false)
	a.clockTriangleLength(&a.triangle)
	a.clockNoiseLength(&a.noise)
}

func (a *APU) stepChannelTimers() {
	if a.channelEnable[0] {
		a.stepPulseTimer(&a.pulse1)
	}
	if a.channelEnable[1] {
		a.stepPulseTimer(&a.pulse2)
	}
	if a.channelEnable[2] {
		a.stepTriangleTimer(&a.triangle)
	}
	if a.channelEnable[3] {
		a.stepNoiseTimer(&a.noise)
	}
	if a.channelEnable[4] {
		a.stepDMCTimer(&a.dmc)
	}
}

func (a *APU) generateSample() {
	a.cycleAccumulator += float64(a.sampleRate) / a.tbl.CPUClockHz
	if a.cycleAccumulator < 1.0 {
		return
	}
	a.cycleAccumulator -= 1.0

	p1 := a.getPulseOutput(&a.pulse1)
	p2 := a.getPulseOutput(&a.pulse2)
	tr := a.getTriangleOutput(&a.triangle)
	no := a.getNoiseOutput(&a.noise)
	dm := a.dmc.outputLevel

	a.sampleBuffer = append(a.sampleBuffer, mix(p1, p2, tr, no, dm))
}

// GetSamples drains and returns the accumulated sample buffer.
func (a *APU) GetSamples() []float32 {
	samples := make([]float32, len(a.sampleBuffer))
	copy(samples, a.sampleBuffer)
	a.sampleBuffer = a.sampleBuffer[:0]
	return samples
}

// SetSampleRate changes the target output sample rate.
func (a *APU) SetSampleRate(rate int) {
	a.sampleRate = rate
	a.cycleAccumulator = 0
}

// GetSampleRate returns the current target output sample rate.
func (a *APU) GetSampleRate() int { return a.sampleRate }
