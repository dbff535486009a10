package smf

import "fmt"

// TimeDivision is the division field of the MThd chunk. The top bit selects
// between metrical timing (ticks per quarter note) and SMPTE timing (frames
// per second plus ticks per frame).
type TimeDivision uint16

// TicksPerQuarterNote returns the number of ticks per quarter note, or 0 if
// the division specifies SMPTE timing instead.
func (d TimeDivision) TicksPerQuarterNote() uint16 {
	if (d & 0x8000) != 0 {
		return 0
	}
	return uint16(d)
}

// IsSMPTE reports whether the division encodes SMPTE timing.
func (d TimeDivision) IsSMPTE() bool {
	return (d & 0x8000) != 0
}

// SMPTETimeCode returns the frames per second followed by the number of MIDI
// ticks per frame. Returns 0, 0 for metrical divisions.
func (d TimeDivision) SMPTETimeCode() (uint8, uint8) {
	if (d & 0x8000) == 0 {
		return 0, 0
	}
	// The frames per second is stored as a negative two's complement 8-bit
	// integer in the upper byte.
	fps := uint8(-int8(d >> 8))
	ticksPerFrame := uint8(d & 0xff)
	return fps, ticksPerFrame
}

func (d TimeDivision) String() string {
	if (d & 0x7fff) == 0 {
		return fmt.Sprintf("invalid division 0x%04x", uint16(d))
	}
	if qn := d.TicksPerQuarterNote(); qn != 0 {
		return fmt.Sprintf("%d ticks per quarter note", qn)
	}
	fps, tpf := d.SMPTETimeCode()
	return fmt.Sprintf("%d frames per second, %d ticks per frame", fps, tpf)
}
