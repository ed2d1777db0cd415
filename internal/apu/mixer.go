package apu

// pulseTable and tndTable are the NES's non-linear mixer lookup tables,
// precomputed once at package init per the documented formulas:
// pulse_table[i] = 95.52/(8128/i+100), tnd_table[i] = 163.67/(24329/i+100).
var pulseTable [31]float32
var tndTable [203]float32

func init() {
	for i := 1; i < len(pulseTable); i++ {
		pulseTable[i] = float32(95.52 / (8128.0/float64(i) + 100.0))
	}
	for i := 1; i < len(tndTable); i++ {
		tndTable[i] = float32(163.67 / (24329.0/float64(i) + 100.0))
	}
}

// mix combines the five channel outputs into one sample in about
// [-0.5, 0.5] via the additive non-linear tables, then recenters the result
// (the tables alone produce a [0, ~1.0] unipolar signal).
func mix(pulse1, pulse2, triangle, noise, dmc uint8) float32 {
	pulseOut := pulseTable[pulse1+pulse2]
	tndOut := tndTable[3*triangle+2*noise+dmc]
	return pulseOut + tndOut - 0.5
}
