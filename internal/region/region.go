// Package region implements the per-TV-standard timing and rate tables that
// the CPU, PPU, and APU read from but never mutate.
package region

// Standard identifies the TV standard the system is running under.
type Standard uint8

const (
	NTSC Standard = iota
	PAL
	Dendy
)

func (s Standard) String() string {
	switch s {
	case NTSC:
		return "NTSC"
	case PAL:
		return "PAL"
	case Dendy:
		return "Dendy"
	default:
		return "unknown"
	}
}

// Tables holds the read-only constants a region contributes to every other
// component. A System picks one at construction time and hands out a
// pointer; nothing in cpu/ppu/apu ever writes through it.
type Tables struct {
	Standard Standard

	// CPUClockHz is the master CPU clock rate in Hz.
	CPUClockHz float64

	// DotsPerCPUCycle is 3 for NTSC/Dendy. PAL averages 3.2 (16 dots per 5
	// CPU cycles); System.StepAllButCPU models that average directly rather
	// than storing a fractional dot count here.
	DotsPerCPUCycle int

	NumVisibleScanlines int
	NumScanlines        int
	PostRenderScanline  int
	NMIScanline         int

	// PreRenderShortensOnOddFrame is true when rendering enabled skips one
	// dot on the pre-render scanline of odd frames (NTSC/Dendy only; PAL
	// does not skip a dot).
	PreRenderShortensOnOddFrame bool

	DMCRateTable             [16]uint16
	NoisePeriodTable          [16]uint16
	FrameCounterStepCycleTable [8]uint16
}

// NTSCTables is the standard 60Hz NTSC NES timing profile.
var NTSCTables = Tables{
	Standard:                    NTSC,
	CPUClockHz:                  1789773.0,
	DotsPerCPUCycle:             3,
	NumVisibleScanlines:         240,
	NumScanlines:                262,
	PostRenderScanline:          240,
	NMIScanline:                 241,
	PreRenderShortensOnOddFrame: true,
	DMCRateTable: [16]uint16{
		428, 380, 340, 320, 286, 254, 226, 214,
		190, 160, 142, 128, 106, 84, 72, 54,
	},
	NoisePeriodTable: [16]uint16{
		4, 8, 16, 32, 64, 96, 128, 160,
		202, 254, 380, 508, 762, 1016, 2034, 4068,
	},
	FrameCounterStepCycleTable: [8]uint16{
		7457, 14913, 22371, 29828, 29829, 37281, 37282, 0,
	},
}

// PALTables is the 50Hz PAL timing profile. The PPU runs at an average of
// 3.2 dots per CPU cycle (16 dots / 5 CPU cycles); the pre-render line is
// never shortened on PAL.
var PALTables = Tables{
	Standard:                    PAL,
	CPUClockHz:                  1662607.0,
	DotsPerCPUCycle:             3,
	NumVisibleScanlines:         239,
	NumScanlines:                312,
	PostRenderScanline:          239,
	NMIScanline:                 241,
	PreRenderShortensOnOddFrame: false,
	DMCRateTable: [16]uint16{
		398, 354, 316, 298, 276, 236, 210, 198,
		176, 148, 132, 118, 98, 78, 66, 50,
	},
	NoisePeriodTable: [16]uint16{
		4, 8, 14, 30, 60, 88, 118, 148,
		188, 236, 354, 472, 708, 944, 1890, 3778,
	},
	FrameCounterStepCycleTable: [8]uint16{
		8313, 16627, 24939, 33252, 33253, 41565, 41566, 0,
	},
}

// DendyTables is the 50Hz Dendy clone timing profile: PAL-like scanline
// count, NTSC-like audio rate tables, and an NTSC-style shortened pre-render
// line on odd frames.
var DendyTables = Tables{
	Standard:                    Dendy,
	CPUClockHz:                  1773448.0,
	DotsPerCPUCycle:             3,
	NumVisibleScanlines:         239,
	NumScanlines:                312,
	PostRenderScanline:          239,
	NMIScanline:                 291,
	PreRenderShortensOnOddFrame: true,
	DMCRateTable:                NTSCTables.DMCRateTable,
	NoisePeriodTable:            NTSCTables.NoisePeriodTable,
	FrameCounterStepCycleTable:  NTSCTables.FrameCounterStepCycleTable,
}

// For selects the Tables value for a Standard.
func For(s Standard) *Tables {
	switch s {
	case PAL:
		return &PALTables
	case Dendy:
		return &DendyTables
	default:
		return &NTSCTables
	}
}
