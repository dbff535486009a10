// Package smf decodes Standard MIDI Files and answers time and range queries
// against them. The package is pure: no global state, no I/O beyond the byte
// buffer handed to Parse.
package smf

import (
	"fmt"
	"os"
)

// TempoChange is one entry of the merged tempo map.
type TempoChange struct {
	Tick             uint32
	MicrosPerQuarter uint32
}

// DefaultTempo is the implicit microseconds-per-quarter-note (120 BPM) that
// applies before the first explicit tempo event.
const DefaultTempo uint32 = 500000

// Track is one decoded track with the timeline already built: every event
// carries its absolute tick, non-decreasing in slice order.
type Track struct {
	Name        string
	Instrument  string
	ChannelMask uint16 // Bit n set if channel n appears in this track.
	Events      []Event
}

// File is a fully parsed SMF: header fields, per-track absolute-tick event
// lists and the merged tempo map. A File is immutable after Parse and safe
// for concurrent reads.
type File struct {
	Format   uint16
	Division TimeDivision
	Tracks   []Track
	TempoMap []TempoChange
}

// Parse decodes the buffer and builds the timeline and tempo map.
func Parse(data []byte) (*File, error) {
	f, err := Decode(data)
	if err != nil {
		return nil, err
	}
	f.buildTimeline()
	return f, nil
}

// ParseFile reads and parses the SMF at path.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// TrackCount returns the number of tracks.
func (f *File) TrackCount() int { return len(f.Tracks) }

// DurationTicks returns the absolute tick of the latest event across all
// tracks, 0 for a file with no events.
func (f *File) DurationTicks() uint32 {
	var max uint32
	for i := range f.Tracks {
		events := f.Tracks[i].Events
		if len(events) == 0 {
			continue
		}
		if last := events[len(events)-1].Tick; last > max {
			max = last
		}
	}
	return max
}

// DurationMs returns the file duration in milliseconds.
func (f *File) DurationMs() float64 {
	return f.TicksToMs(f.DurationTicks())
}
