package smf

// Status byte classes.
const (
	statusNoteOff           = 0x80
	statusNoteOn            = 0x90
	statusPolyAftertouch    = 0xA0
	statusControlChange     = 0xB0
	statusProgramChange     = 0xC0
	statusChannelAftertouch = 0xD0
	statusPitchBend         = 0xE0
	statusSysEx             = 0xF0
	statusSysExContinue     = 0xF7
	statusMeta              = 0xFF
)

// Meta event types.
const (
	MetaSequenceNumber    = 0x00
	MetaText              = 0x01
	MetaCopyright         = 0x02
	MetaTrackName         = 0x03
	MetaInstrumentName    = 0x04
	MetaLyric             = 0x05
	MetaMarker            = 0x06
	MetaCuePoint          = 0x07
	MetaChannelPrefix     = 0x20
	MetaEndOfTrack        = 0x2F
	MetaSetTempo          = 0x51
	MetaSMPTEOffset       = 0x54
	MetaTimeSignature     = 0x58
	MetaKeySignature      = 0x59
	MetaSequencerSpecific = 0x7F
)

// EventType classifies an event for consumers that cannot switch on raw
// status bytes (the C surface exposes these values verbatim, so the numeric
// order is load-bearing and must not change).
type EventType int32

const (
	EventNoteOff EventType = iota
	EventNoteOn
	EventPolyAftertouch
	EventControlChange
	EventProgramChange
	EventChannelAftertouch
	EventPitchBend
	EventSysEx
	EventMetaSequenceNumber
	EventMetaText
	EventMetaCopyright
	EventMetaTrackName
	EventMetaInstrumentName
	EventMetaLyric
	EventMetaMarker
	EventMetaCuePoint
	EventMetaChannelPrefix
	EventMetaEndOfTrack
	EventMetaSetTempo
	EventMetaSMPTEOffset
	EventMetaTimeSignature
	EventMetaKeySignature
	EventMetaSequencerSpecific
	EventUnknown
)

var metaTypeNames = map[byte]EventType{
	MetaSequenceNumber:    EventMetaSequenceNumber,
	MetaText:              EventMetaText,
	MetaCopyright:         EventMetaCopyright,
	MetaTrackName:         EventMetaTrackName,
	MetaInstrumentName:    EventMetaInstrumentName,
	MetaLyric:             EventMetaLyric,
	MetaMarker:            EventMetaMarker,
	MetaCuePoint:          EventMetaCuePoint,
	MetaChannelPrefix:     EventMetaChannelPrefix,
	MetaEndOfTrack:        EventMetaEndOfTrack,
	MetaSetTempo:          EventMetaSetTempo,
	MetaSMPTEOffset:       EventMetaSMPTEOffset,
	MetaTimeSignature:     EventMetaTimeSignature,
	MetaKeySignature:      EventMetaKeySignature,
	MetaSequencerSpecific: EventMetaSequencerSpecific,
}

// Event is one decoded track event. Status always carries the expanded status
// byte (running status is resolved at decode time). For meta events Status is
// 0xFF and Meta holds the meta type; unknown meta types are retained as
// opaque payloads, not rejected.
type Event struct {
	Delta  uint32 // Ticks since the previous event in the same track.
	Tick   uint32 // Absolute tick, filled by the timeline builder.
	Status byte
	Meta   byte
	Data   []byte
}

// IsMeta reports whether the event is a meta event.
func (e *Event) IsMeta() bool { return e.Status == statusMeta }

// IsSysEx reports whether the event is a system-exclusive event.
func (e *Event) IsSysEx() bool {
	return e.Status == statusSysEx || e.Status == statusSysExContinue
}

// IsChannelVoice reports whether the event is a channel voice message.
func (e *Event) IsChannelVoice() bool {
	return e.Status >= 0x80 && e.Status < 0xF0
}

// Channel returns the MIDI channel (0-15) for channel voice events, 0 otherwise.
func (e *Event) Channel() uint8 {
	if !e.IsChannelVoice() {
		return 0
	}
	return e.Status & 0x0F
}

// Data1 returns the first data byte, or 0 if the event has none.
func (e *Event) Data1() uint8 {
	if len(e.Data) < 1 {
		return 0
	}
	return e.Data[0]
}

// Data2 returns the second data byte, or 0 if the event has none.
func (e *Event) Data2() uint8 {
	if len(e.Data) < 2 {
		return 0
	}
	return e.Data[1]
}

// PitchBendValue returns the 14-bit pitch bend value (8192 is center).
func (e *Event) PitchBendValue() uint16 {
	return uint16(e.Data1()) | uint16(e.Data2())<<7
}

// Tempo returns the microseconds per quarter note for set-tempo meta events,
// 0 for anything else.
func (e *Event) Tempo() uint32 {
	if !e.IsMeta() || e.Meta != MetaSetTempo || len(e.Data) != 3 {
		return 0
	}
	return uint32(e.Data[0])<<16 | uint32(e.Data[1])<<8 | uint32(e.Data[2])
}

// Text returns the payload as a string for textual meta events.
func (e *Event) Text() string { return string(e.Data) }

// Type classifies the event. A NoteOn with velocity zero classifies as
// NoteOff, matching how devices interpret it.
func (e *Event) Type() EventType {
	switch {
	case e.IsMeta():
		if t, ok := metaTypeNames[e.Meta]; ok {
			return t
		}
		return EventUnknown
	case e.IsSysEx():
		return EventSysEx
	}
	switch e.Status & 0xF0 {
	case statusNoteOff:
		return EventNoteOff
	case statusNoteOn:
		if e.Data2() == 0 {
			return EventNoteOff
		}
		return EventNoteOn
	case statusPolyAftertouch:
		return EventPolyAftertouch
	case statusControlChange:
		return EventControlChange
	case statusProgramChange:
		return EventProgramChange
	case statusChannelAftertouch:
		return EventChannelAftertouch
	case statusPitchBend:
		return EventPitchBend
	}
	return EventUnknown
}
