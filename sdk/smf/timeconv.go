package smf

// TicksToMs converts an absolute tick to milliseconds from the start of the
// file, accumulating elapsed time segment by segment through the tempo map.
// Pure and deterministic: equal ticks always yield equal milliseconds.
//
// For SMPTE divisions the tempo map does not apply; the conversion uses the
// fixed frames-per-second rate from the header instead.
func (f *File) TicksToMs(tick uint32) float64 {
	if f.Division.IsSMPTE() {
		fps, tpf := f.Division.SMPTETimeCode()
		ticksPerSecond := float64(fps) * float64(tpf)
		if ticksPerSecond == 0 {
			return 0
		}
		return float64(tick) / ticksPerSecond * 1000.0
	}

	tpq := float64(f.Division.TicksPerQuarterNote())
	if tpq == 0 {
		return 0
	}

	var micros float64
	prev := TempoChange{Tick: 0, MicrosPerQuarter: DefaultTempo}
	for _, tc := range f.TempoMap {
		if tc.Tick >= tick {
			break
		}
		micros += float64(tc.Tick-prev.Tick) * float64(prev.MicrosPerQuarter) / tpq
		prev = tc
	}
	micros += float64(tick-prev.Tick) * float64(prev.MicrosPerQuarter) / tpq
	return micros / 1000.0
}

// MsToTicks is the inverse of TicksToMs: it returns the absolute tick reached
// after the given number of milliseconds. Fractional ticks truncate toward
// zero. Negative inputs map to tick 0.
func (f *File) MsToTicks(ms float64) uint32 {
	if ms <= 0 {
		return 0
	}
	if f.Division.IsSMPTE() {
		fps, tpf := f.Division.SMPTETimeCode()
		return uint32(ms / 1000.0 * float64(fps) * float64(tpf))
	}

	tpq := float64(f.Division.TicksPerQuarterNote())
	if tpq == 0 {
		return 0
	}

	target := ms * 1000.0 // microseconds
	var elapsed float64
	prev := TempoChange{Tick: 0, MicrosPerQuarter: DefaultTempo}
	for _, tc := range f.TempoMap {
		segment := float64(tc.Tick-prev.Tick) * float64(prev.MicrosPerQuarter) / tpq
		if elapsed+segment > target {
			break
		}
		elapsed += segment
		prev = tc
	}
	remaining := target - elapsed
	return prev.Tick + uint32(remaining*tpq/float64(prev.MicrosPerQuarter))
}

// TempoAt returns the microseconds per quarter note in effect at the given
// absolute tick.
func (f *File) TempoAt(tick uint32) uint32 {
	tempo := DefaultTempo
	for _, tc := range f.TempoMap {
		if tc.Tick > tick {
			break
		}
		tempo = tc.MicrosPerQuarter
	}
	return tempo
}
