package smf

import (
	"math"
	"sort"
)

// buildTimeline computes absolute ticks for every track by prefix-summing
// delta times, captures track names, instrument names and channel masks, and
// merges tempo changes from all tracks into one tempo map.
func (f *File) buildTimeline() {
	type tempoEvent struct {
		tick   uint32
		micros uint32
	}
	var tempi []tempoEvent

	// Tracks are walked in file order, events in track order, so a plain
	// stable sort by tick leaves document order as the tie-break: the change
	// appearing last in the file wins at any given tick.
	for t := range f.Tracks {
		track := &f.Tracks[t]
		var tick uint64
		for i := range track.Events {
			ev := &track.Events[i]
			tick += uint64(ev.Delta)
			if tick > math.MaxUint32 {
				tick = math.MaxUint32
			}
			ev.Tick = uint32(tick)

			switch {
			case ev.IsChannelVoice():
				track.ChannelMask |= 1 << ev.Channel()
			case ev.IsMeta():
				switch ev.Meta {
				case MetaTrackName:
					track.Name = ev.Text()
				case MetaInstrumentName:
					track.Instrument = ev.Text()
				case MetaSetTempo:
					tempi = append(tempi, tempoEvent{tick: ev.Tick, micros: ev.Tempo()})
				}
			}
		}
	}

	sort.SliceStable(tempi, func(i, j int) bool { return tempi[i].tick < tempi[j].tick })

	f.TempoMap = make([]TempoChange, 0, len(tempi)+1)
	if len(tempi) == 0 || tempi[0].tick > 0 {
		f.TempoMap = append(f.TempoMap, TempoChange{Tick: 0, MicrosPerQuarter: DefaultTempo})
	}
	for _, te := range tempi {
		// Keep only the last change at any given tick.
		if n := len(f.TempoMap); n > 0 && f.TempoMap[n-1].Tick == te.tick {
			f.TempoMap[n-1].MicrosPerQuarter = te.micros
			continue
		}
		f.TempoMap = append(f.TempoMap, TempoChange{Tick: te.tick, MicrosPerQuarter: te.micros})
	}
}
