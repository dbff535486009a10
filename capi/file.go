package capi

import (
	"math"

	"github.com/midilink-io/midilink/sdk/smf"
)

// EventData is the fixed-layout event record handed across the boundary.
type EventData struct {
	Tick    uint32
	Type    int32 // smf.EventType code.
	Channel int32
	Data1   int32
	Data2   int32
	Value   int32 // Pitch bend 14-bit value or tempo microseconds; otherwise 0.
}

func fillEventData(out *EventData, ev *smf.Event) {
	out.Tick = ev.Tick
	out.Type = int32(ev.Type())
	out.Channel = int32(ev.Channel())
	out.Data1 = int32(ev.Data1())
	out.Data2 = int32(ev.Data2())
	switch ev.Type() {
	case smf.EventPitchBend:
		out.Value = int32(ev.PitchBendValue())
	case smf.EventMetaSetTempo:
		out.Value = int32(ev.Tempo())
	default:
		out.Value = 0
	}
}

// FileOpen parses the SMF at path and returns its handle (always positive)
// or a negative status: StatusError for unreadable paths, StatusMalformedFile
// for structural violations.
func (rt *Runtime) FileOpen(path string) int32 {
	handle, err := rt.client.OpenFile(path)
	if err != nil {
		return statusFromError(err)
	}
	return handle
}

// FileClose releases a file handle; idempotent like Close.
func (rt *Runtime) FileClose(handle int32) int32 {
	return rt.Close(handle)
}

// FileGetInfo reports the header fields through the caller's out parameters.
// Division is the raw 16-bit field; bit 15 set means SMPTE timing.
func (rt *Runtime) FileGetInfo(handle int32, format, trackCount, division *int32) int32 {
	file, err := rt.client.File(handle)
	if err != nil {
		return statusFromError(err)
	}
	if format != nil {
		*format = int32(file.Format)
	}
	if trackCount != nil {
		*trackCount = int32(file.TrackCount())
	}
	if division != nil {
		*division = int32(uint16(file.Division))
	}
	return StatusOK
}

// FileGetTrackInfo reports the event count of one track.
func (rt *Runtime) FileGetTrackInfo(handle, trackIndex int32, eventCount *int32) int32 {
	file, err := rt.client.File(handle)
	if err != nil {
		return statusFromError(err)
	}
	n, err := file.EventCount(int(trackIndex))
	if err != nil {
		return statusFromError(err)
	}
	if eventCount != nil {
		*eventCount = int32(n)
	}
	return StatusOK
}

// FileGetTrackName writes the NUL-terminated track name into buf; tracks
// without a name meta event yield an empty string.
func (rt *Runtime) FileGetTrackName(handle, trackIndex int32, buf []byte) int32 {
	file, err := rt.client.File(handle)
	if err != nil {
		return statusFromError(err)
	}
	if trackIndex < 0 || int(trackIndex) >= file.TrackCount() {
		return StatusIndexOutOfRange
	}
	return copyString(buf, file.Tracks[trackIndex].Name)
}

// FileGetEvent copies the event at the given position into out.
func (rt *Runtime) FileGetEvent(handle, trackIndex, eventIndex int32, out *EventData) int32 {
	file, err := rt.client.File(handle)
	if err != nil {
		return statusFromError(err)
	}
	ev, err := file.EventAt(int(trackIndex), int(eventIndex))
	if err != nil {
		return statusFromError(err)
	}
	if out != nil {
		fillEventData(out, ev)
	}
	return StatusOK
}

// FileGetEventUID packs a stable identifier for one event:
// handle in the top byte, track in the next, event index in the low 16 bits.
func (rt *Runtime) FileGetEventUID(handle, trackIndex, eventIndex int32) int64 {
	file, err := rt.client.File(handle)
	if err != nil {
		return int64(statusFromError(err))
	}
	if _, err := file.EventAt(int(trackIndex), int(eventIndex)); err != nil {
		return int64(statusFromError(err))
	}
	uid := uint32(handle&0xFF)<<24 | uint32(trackIndex&0xFF)<<16 | uint32(eventIndex&0xFFFF)
	return int64(uid)
}

// FileTicksToMs converts an absolute tick to milliseconds using the file's
// tempo map (or the fixed SMPTE rate). Negative on error.
func (rt *Runtime) FileTicksToMs(handle int32, tick int64) float64 {
	file, err := rt.client.File(handle)
	if err != nil {
		return float64(statusFromError(err))
	}
	if tick < 0 || tick > math.MaxUint32 {
		return float64(StatusIndexOutOfRange)
	}
	return file.TicksToMs(uint32(tick))
}

// FileMsToTicks is the inverse conversion. Negative on error.
func (rt *Runtime) FileMsToTicks(handle int32, ms float64) int64 {
	file, err := rt.client.File(handle)
	if err != nil {
		return int64(statusFromError(err))
	}
	return int64(file.MsToTicks(ms))
}

// FileDurationTicks returns the absolute tick of the file's latest event.
func (rt *Runtime) FileDurationTicks(handle int32) int64 {
	file, err := rt.client.File(handle)
	if err != nil {
		return int64(statusFromError(err))
	}
	return int64(file.DurationTicks())
}

// FileGetEventsInRange copies every event of the track whose absolute tick
// lies in [startTick, endTick) into out, in ascending tick order, and returns
// the number written. An empty range yields 0, not an error; when out is too
// small the result truncates to its capacity.
func (rt *Runtime) FileGetEventsInRange(handle, trackIndex int32, startTick, endTick int64, out []EventData) int32 {
	file, err := rt.client.File(handle)
	if err != nil {
		return statusFromError(err)
	}
	start, end := clampTick(startTick), clampTick(endTick)
	events, err := file.EventsInRange(int(trackIndex), start, end)
	if err != nil {
		return statusFromError(err)
	}
	n := len(events)
	if n > len(out) {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		fillEventData(&out[i], &events[i])
	}
	return int32(n)
}

func clampTick(t int64) uint32 {
	if t < 0 {
		return 0
	}
	if t > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(t)
}
