package smf

import (
	"sort"

	"github.com/midilink-io/midilink/sdk/contracts"
)

// EventsInRange returns every event of the given track whose absolute tick
// lies in [startTick, endTick), in ascending tick order, stable on ties by
// original event order. An empty range yields an empty result, not an error.
//
// The returned slice aliases the track's event storage; callers must not
// mutate it.
func (f *File) EventsInRange(trackIndex int, startTick, endTick uint32) ([]Event, error) {
	if trackIndex < 0 || trackIndex >= len(f.Tracks) {
		return nil, contracts.ErrIndexOutOfRange
	}
	if startTick >= endTick {
		return []Event{}, nil
	}
	events := f.Tracks[trackIndex].Events
	// Ticks are non-decreasing within a track, so both bounds binary-search.
	lo := sort.Search(len(events), func(i int) bool { return events[i].Tick >= startTick })
	hi := sort.Search(len(events), func(i int) bool { return events[i].Tick >= endTick })
	return events[lo:hi], nil
}

// EventCount returns the number of events in the given track.
func (f *File) EventCount(trackIndex int) (int, error) {
	if trackIndex < 0 || trackIndex >= len(f.Tracks) {
		return 0, contracts.ErrIndexOutOfRange
	}
	return len(f.Tracks[trackIndex].Events), nil
}

// EventAt returns the event at the given position in the given track.
func (f *File) EventAt(trackIndex, eventIndex int) (*Event, error) {
	if trackIndex < 0 || trackIndex >= len(f.Tracks) {
		return nil, contracts.ErrIndexOutOfRange
	}
	events := f.Tracks[trackIndex].Events
	if eventIndex < 0 || eventIndex >= len(events) {
		return nil, contracts.ErrIndexOutOfRange
	}
	return &events[eventIndex], nil
}
