package smf

import (
	"errors"
	"testing"

	"github.com/midilink-io/midilink/sdk/contracts"
)

// A track with events at ticks 0, 10, 10, 20, 30 (plus end-of-track at 30).
func queryFixture(t *testing.T) *File {
	return mustParse(t, singleTrackFile(480,
		noteOnBytes(0, 0, 60, 100),
		noteOnBytes(10, 0, 62, 100),
		noteOnBytes(0, 0, 64, 100),
		noteOffBytes(10, 0, 60, 0),
		noteOffBytes(10, 0, 62, 0),
	))
}

func ticksOf(events []Event) []uint32 {
	out := make([]uint32, len(events))
	for i := range events {
		out[i] = events[i].Tick
	}
	return out
}

func TestEventsInRange(t *testing.T) {
	f := queryFixture(t)
	tests := []struct {
		name       string
		start, end uint32
		want       []uint32
	}{
		{"all", 0, 100, []uint32{0, 10, 10, 20, 30, 30}},
		{"half-open excludes end", 0, 30, []uint32{0, 10, 10, 20}},
		{"interior", 10, 21, []uint32{10, 10, 20}},
		{"single tick", 10, 11, []uint32{10, 10}},
		{"between events", 11, 20, nil},
		{"past the end", 1000, 2000, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			events, err := f.EventsInRange(0, tc.start, tc.end)
			if err != nil {
				t.Fatalf("EventsInRange failed: %v", err)
			}
			got := ticksOf(events)
			if len(got) != len(tc.want) {
				t.Fatalf("ticks = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("ticks = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestEventsInRangeEmptyRange(t *testing.T) {
	f := queryFixture(t)
	for _, tc := range [][2]uint32{{10, 10}, {20, 10}} {
		events, err := f.EventsInRange(0, tc[0], tc[1])
		if err != nil {
			t.Fatalf("EventsInRange(%d, %d) failed: %v", tc[0], tc[1], err)
		}
		if len(events) != 0 {
			t.Errorf("EventsInRange(%d, %d) = %d events, want 0", tc[0], tc[1], len(events))
		}
	}
}

func TestEventsInRangeStableOrder(t *testing.T) {
	f := queryFixture(t)
	events, err := f.EventsInRange(0, 10, 11)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].Data1() != 62 || events[1].Data1() != 64 {
		t.Errorf("tie order not preserved: %+v", events)
	}
}

func TestEventsInRangeBadTrack(t *testing.T) {
	f := queryFixture(t)
	for _, idx := range []int{-1, 1, 99} {
		if _, err := f.EventsInRange(idx, 0, 100); !errors.Is(err, contracts.ErrIndexOutOfRange) {
			t.Errorf("EventsInRange(track %d) error = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
}

func TestEventAt(t *testing.T) {
	f := queryFixture(t)
	ev, err := f.EventAt(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Tick != 10 || ev.Data1() != 62 {
		t.Errorf("EventAt(0, 1) = %+v", ev)
	}
	if _, err := f.EventAt(0, 99); !errors.Is(err, contracts.ErrIndexOutOfRange) {
		t.Errorf("out-of-range event index error = %v", err)
	}
	if _, err := f.EventAt(5, 0); !errors.Is(err, contracts.ErrIndexOutOfRange) {
		t.Errorf("out-of-range track index error = %v", err)
	}
}

func TestEventCount(t *testing.T) {
	f := queryFixture(t)
	n, err := f.EventCount(0)
	if err != nil {
		t.Fatal(err)
	}
	if n != 6 { // five notes plus end-of-track
		t.Errorf("EventCount = %d, want 6", n)
	}
}
