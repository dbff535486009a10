package midilink

import "fmt"

// Message type codes exposed by ParseMessage. The values are part of the C
// surface contract.
const (
	MsgNoteOff       int32 = 0
	MsgNoteOn        int32 = 1
	MsgControlChange int32 = 2
	MsgProgramChange int32 = 3
	MsgPitchBend     int32 = 4
	MsgUnknown       int32 = 255
)

// NoteOn builds a Note On message. Channel, note and velocity are masked to
// their legal ranges.
func NoteOn(channel, note, velocity uint8) []byte {
	return []byte{0x90 | channel&0x0F, note & 0x7F, velocity & 0x7F}
}

// NoteOff builds a Note Off message.
func NoteOff(channel, note, velocity uint8) []byte {
	return []byte{0x80 | channel&0x0F, note & 0x7F, velocity & 0x7F}
}

// ControlChange builds a Control Change message.
func ControlChange(channel, controller, value uint8) []byte {
	return []byte{0xB0 | channel&0x0F, controller & 0x7F, value & 0x7F}
}

// ParsedMessage is the decomposition of one raw channel voice message.
type ParsedMessage struct {
	Type    int32 // One of the Msg* codes.
	Channel uint8
	Data1   uint8 // Note or controller number; pitch bend low byte.
	Data2   uint8 // Velocity or controller value; pitch bend high byte.
}

// ParseMessage decomposes a raw MIDI message into type, channel and data
// bytes. A Note On with velocity zero reports as Note Off. For pitch bend the
// two data bytes carry the recombined 14-bit value, low byte first.
func ParseMessage(data []byte) (ParsedMessage, error) {
	if len(data) == 0 {
		return ParsedMessage{}, fmt.Errorf("empty MIDI message")
	}
	status := data[0]
	p := ParsedMessage{Channel: status & 0x0F}
	if len(data) > 1 {
		p.Data1 = data[1]
	}
	if len(data) > 2 {
		p.Data2 = data[2]
	}

	switch status & 0xF0 {
	case 0x80:
		p.Type = MsgNoteOff
	case 0x90:
		if p.Data2 == 0 {
			p.Type = MsgNoteOff
		} else {
			p.Type = MsgNoteOn
		}
	case 0xB0:
		p.Type = MsgControlChange
	case 0xC0:
		p.Type = MsgProgramChange
		p.Data2 = 0
	case 0xE0:
		p.Type = MsgPitchBend
		bend := uint16(p.Data1) | uint16(p.Data2)<<7
		p.Data1 = uint8(bend & 0xFF)
		p.Data2 = uint8(bend >> 8)
	default:
		p.Type = MsgUnknown
		p.Data1 = 0
		p.Data2 = 0
	}
	return p, nil
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName renders a MIDI note number as scientific pitch notation, middle C
// (note 60) being "C4".
func NoteName(note uint8) (string, error) {
	if note > 127 {
		return "", fmt.Errorf("note %d out of range", note)
	}
	octave := int(note)/12 - 1
	return fmt.Sprintf("%s%d", noteNames[note%12], octave), nil
}

// MessageTypeName names a Msg* code for diagnostics.
func MessageTypeName(messageType int32) string {
	switch messageType {
	case MsgNoteOff:
		return "Note Off"
	case MsgNoteOn:
		return "Note On"
	case MsgControlChange:
		return "Control Change"
	case MsgProgramChange:
		return "Program Change"
	case MsgPitchBend:
		return "Pitch Bend"
	case MsgUnknown:
		return "Unknown"
	}
	return "Invalid"
}
