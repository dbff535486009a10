package smf

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// Two-track format-1 file at 480 ticks per quarter: 120 BPM from tick 0,
// 240 BPM from tick 960.
func twoTempoFile(t *testing.T) *File {
	track0 := trackChunk(append(append(
		tempoEventBytes(0, 500000),
		tempoEventBytes(960, 250000)...), endOfTrack...))
	track1 := trackChunk(append(append(
		noteOnBytes(0, 0, 60, 100),
		noteOffBytes(1920, 0, 60, 0)...), endOfTrack...))
	return mustParse(t, append(headerChunk(1, 2, 480), append(track0, track1...)...))
}

func TestTicksToMs(t *testing.T) {
	f := twoTempoFile(t)
	tests := []struct {
		tick uint32
		ms   float64
	}{
		{0, 0},
		{240, 250},
		{480, 500},
		{960, 1000},
		{1200, 1125}, // 240 ticks into the 240 BPM segment
		{1440, 1250},
	}
	for _, tc := range tests {
		if got := f.TicksToMs(tc.tick); !almostEqual(got, tc.ms) {
			t.Errorf("TicksToMs(%d) = %v, want %v", tc.tick, got, tc.ms)
		}
	}
}

func TestMsToTicksInvertsTicksToMs(t *testing.T) {
	f := twoTempoFile(t)
	for _, tick := range []uint32{0, 240, 480, 960, 1440, 1920} {
		ms := f.TicksToMs(tick)
		if got := f.MsToTicks(ms); got != tick {
			t.Errorf("MsToTicks(TicksToMs(%d)) = %d", tick, got)
		}
	}
	// Fractional ticks truncate, so arbitrary ticks round-trip to within one.
	for tick := uint32(0); tick <= 2000; tick += 13 {
		got := f.MsToTicks(f.TicksToMs(tick))
		if diff := int64(got) - int64(tick); diff < -1 || diff > 1 {
			t.Errorf("MsToTicks(TicksToMs(%d)) = %d, off by %d", tick, got, diff)
		}
	}
	if got := f.MsToTicks(-5); got != 0 {
		t.Errorf("MsToTicks(-5) = %d, want 0", got)
	}
}

func TestTicksToMsMonotonic(t *testing.T) {
	f := twoTempoFile(t)
	prev := f.TicksToMs(0)
	for tick := uint32(1); tick <= 2000; tick += 7 {
		ms := f.TicksToMs(tick)
		if ms < prev {
			t.Fatalf("TicksToMs not monotonic at tick %d: %v < %v", tick, ms, prev)
		}
		prev = ms
	}
}

func TestTicksToMsDefaultTempo(t *testing.T) {
	f := mustParse(t, singleTrackFile(480, noteOnBytes(480, 0, 60, 100)))
	// 480 ticks = one quarter at the default 500000 us.
	if got := f.TicksToMs(480); !almostEqual(got, 500) {
		t.Errorf("TicksToMs(480) = %v, want 500", got)
	}
}

func TestSMPTEDivisionBypassesTempoMap(t *testing.T) {
	// -25 fps, 40 ticks per frame: exactly 1000 ticks per second. A tempo
	// event present in the track must not affect the conversion.
	f := mustParse(t, singleTrackFile(0xE728,
		tempoEventBytes(0, 250000),
		noteOnBytes(500, 0, 60, 100),
	))
	if !f.Division.IsSMPTE() {
		t.Fatal("division not recognized as SMPTE")
	}
	fps, tpf := f.Division.SMPTETimeCode()
	if fps != 25 || tpf != 40 {
		t.Fatalf("SMPTE code = %d fps, %d tpf; want 25, 40", fps, tpf)
	}
	if got := f.TicksToMs(500); !almostEqual(got, 500) {
		t.Errorf("TicksToMs(500) = %v, want 500", got)
	}
	if got := f.MsToTicks(500); got != 500 {
		t.Errorf("MsToTicks(500) = %d, want 500", got)
	}
}

func TestTempoAt(t *testing.T) {
	f := twoTempoFile(t)
	tests := []struct {
		tick uint32
		want uint32
	}{
		{0, 500000},
		{959, 500000},
		{960, 250000},
		{5000, 250000},
	}
	for _, tc := range tests {
		if got := f.TempoAt(tc.tick); got != tc.want {
			t.Errorf("TempoAt(%d) = %d, want %d", tc.tick, got, tc.want)
		}
	}
}

func TestDurationMs(t *testing.T) {
	f := twoTempoFile(t)
	// Last event at tick 1920: 1000ms for the first segment, then 960 ticks
	// at 250000 us per quarter.
	if got := f.DurationMs(); !almostEqual(got, 1500) {
		t.Errorf("DurationMs = %v, want 1500", got)
	}
}
