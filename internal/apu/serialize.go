package apu

import "gones/internal/serialize"

// Serialize encodes all five channels plus frame-sequencer and pending
// deferred-write state.
func (a *APU) Serialize() []byte {
	w := serialize.NewWriter()

	serializePulse(w, &a.pulse1)
	serializePulse(w, &a.pulse2)

	w.Bool(a.triangle.lengthCounterHalt)
	w.U8(a.triangle.linearCounterLoad)
	w.U16(a.triangle.timer)
	w.U16(a.triangle.timerCounter)
	w.U8(a.triangle.lengthCounter)
	w.U8(a.triangle.linearCounter)
	w.Bool(a.triangle.linearCounterReload)
	w.U8(a.triangle.sequencerPos)

	w.Bool(a.noise.envelopeLoop)
	w.Bool(a.noise.envelopeDisable)
	w.U8(a.noise.volume)
	w.Bool(a.noise.mode)
	w.U8(a.noise.periodIndex)
	w.U16(a.noise.timerCounter)
	w.U8(a.noise.lengthCounter)
	w.Bool(a.noise.lengthHalt)
	w.Bool(a.noise.envelopeStart)
	w.U8(a.noise.envelopeCounter)
	w.U8(a.noise.envelopeDivider)
	w.U16(a.noise.shiftRegister)

	w.Bool(a.dmc.irqEnable)
	w.Bool(a.dmc.loop)
	w.U8(a.dmc.rateIndex)
	w.U8(a.dmc.outputLevel)
	w.U16(a.dmc.sampleAddress)
	w.U16(a.dmc.sampleLength)
	w.U16(a.dmc.timerCounter)
	w.U8(a.dmc.sampleBuffer)
	w.U8(a.dmc.sampleBufferBits)
	w.Bool(a.dmc.sampleBufferEmpty)
	w.U16(a.dmc.bytesRemaining)
	w.U16(a.dmc.currentAddress)
	w.Bool(a.dmc.irqFlag)

	w.U16(a.frameCounter)
	w.Bool(a.frameMode)
	w.Bool(a.frameIRQEnable)
	w.Bool(a.frameIRQFlag)
	w.Bool(a.pendingFrameWrite)
	w.U8(a.pendingFrameValue)
	w.U8(uint8(a.pendingFrameDelay))

	for _, v := range a.channelEnable {
		w.Bool(v)
	}

	w.U64(a.cycles)

	return w.Bytes()
}

func serializePulse(w *serialize.Writer, p *PulseChannel) {
	w.U8(p.dutyCycle)
	w.Bool(p.envelopeLoop)
	w.Bool(p.envelopeDisable)
	w.U8(p.volume)
	w.Bool(p.sweepEnable)
	w.U8(p.sweepPeriod)
	w.Bool(p.sweepNegate)
	w.U8(p.sweepShift)
	w.Bool(p.sweepReload)
	w.U8(p.sweepCounter)
	w.U16(p.timer)
	w.U16(p.timerCounter)
	w.U8(p.lengthCounter)
	w.Bool(p.lengthHalt)
	w.Bool(p.envelopeStart)
	w.U8(p.envelopeCounter)
	w.U8(p.envelopeDivider)
	w.U8(p.dutyIndex)
	w.U8(p.sequencerPos)
}

func restorePulse(r *serialize.Reader, p *PulseChannel) {
	p.dutyCycle = r.U8()
	p.envelopeLoop = r.Bool()
	p.envelopeDisable = r.Bool()
	p.volume = r.U8()
	p.sweepEnable = r.Bool()
	p.sweepPeriod = r.U8()
	p.sweepNegate = r.Bool()
	p.sweepShift = r.U8()
	p.sweepReload = r.Bool()
	p.sweepCounter = r.U8()
	p.timer = r.U16()
	p.timerCounter = r.U16()
	p.lengthCounter = r.U8()
	p.lengthHalt = r.Bool()
	p.envelopeStart = r.Bool()
	p.envelopeCounter = r.U8()
	p.envelopeDivider = r.U8()
	p.dutyIndex = r.U8()
	p.sequencerPos = r.U8()
}

// Restore decodes a blob produced by Serialize.
func (a *APU) Restore(data []byte) error {
	r := serialize.NewReader(data)

	restorePulse(r, &a.pulse1)
	restorePulse(r, &a.pulse2)

	a.triangle.lengthCounterHalt = r.Bool()
	a.triangle.linearCounterLoad = r.U8()
	a.triangle.timer = r.U16()
	a.triangle.timerCounter = r.U16()
	a.triangle.lengthCounter = r.U8()
	a.triangle.linearCounter = r.U8()
	a.triangle.linearCounterReload = r.Bool()
	a.triangle.sequencerPos = r.U8()

	a.noise.envelopeLoop = r.Bool()
	a.noise.envelopeDisable = r.Bool()
	a.noise.volume = r.U8()
	a.noise.mode = r.Bool()
	a.noise.periodIndex = r.U8()
	a.noise.timerCounter = r.U16()
	a.noise.lengthCounter = r.U8()
	a.noise.lengthHalt = r.Bool()
	a.noise.envelopeStart = r.Bool()
	a.noise.envelopeCounter = r.U8()
	a.noise.envelopeDivider = r.U8()
	a.noise.shiftRegister = r.U16()

	a.dmc.irqEnable = r.Bool()
	a.dmc.loop = r.Bool()
	a.dmc.rateIndex = r.U8()
	a.dmc.outputLevel = r.U8()
	a.dmc.sampleAddress = r.U16()
	a.dmc.sampleLength = r.U16()
	a.dmc.timerCounter = r.U16()
	a.dmc.sampleBuffer = r.U8()
	a.dmc.sampleBufferBits = r.U8()
	a.dmc.sampleBufferEmpty = r.Bool()
	a.dmc.bytesRemaining = r.U16()
	a.dmc.currentAddress = r.U16()
	a.dmc.irqFlag = r.Bool()

	a.frameCounter = r.U16()
	a.frameMode = r.Bool()
	a.frameIRQEnable = r.Bool()
	a.frameIRQFlag = r.Bool()
	a.pendingFrameWrite = r.Bool()
	a.pendingFrameValue = r.U8()
	a.pendingFrameDelay = int(r.U8())

	for i := range a.channelEnable {
		a.channelEnable[i] = r.Bool()
	}

	a.cycles = r.U64()

	if r.Err() != nil {
		return serialize.ErrTruncated("apu", r.Err())
	}
	return nil
}
