package midilink

import (
	"bytes"
	"testing"
)

func TestMessageBuilders(t *testing.T) {
	tests := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"note on", NoteOn(0, 60, 100), []byte{0x90, 60, 100}},
		{"note on channel 9", NoteOn(9, 36, 127), []byte{0x99, 36, 127}},
		{"note off", NoteOff(2, 64, 0), []byte{0x82, 64, 0}},
		{"control change", ControlChange(1, 7, 127), []byte{0xB1, 7, 127}},
		{"channel masked", NoteOn(0x1F, 60, 100), []byte{0x9F, 60, 100}},
		{"data masked", NoteOn(0, 0xFF, 0xFF), []byte{0x90, 0x7F, 0x7F}},
	}
	for _, tc := range tests {
		if !bytes.Equal(tc.got, tc.want) {
			t.Errorf("%s = % x, want % x", tc.name, tc.got, tc.want)
		}
	}
}

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want ParsedMessage
	}{
		{"note on", []byte{0x93, 60, 100}, ParsedMessage{MsgNoteOn, 3, 60, 100}},
		{"note off", []byte{0x80, 60, 0}, ParsedMessage{MsgNoteOff, 0, 60, 0}},
		{"note on velocity zero", []byte{0x90, 60, 0}, ParsedMessage{MsgNoteOff, 0, 60, 0}},
		{"control change", []byte{0xB1, 7, 127}, ParsedMessage{MsgControlChange, 1, 7, 127}},
		{"program change", []byte{0xC5, 12}, ParsedMessage{MsgProgramChange, 5, 12, 0}},
		{"pitch bend center", []byte{0xE0, 0x00, 0x40}, ParsedMessage{MsgPitchBend, 0, 0, 32}},
		{"aftertouch is unknown", []byte{0xA0, 60, 50}, ParsedMessage{MsgUnknown, 0, 0, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseMessage(tc.in)
			if err != nil {
				t.Fatalf("ParseMessage failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("ParseMessage(% x) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseMessagePitchBendRecombines(t *testing.T) {
	// lsb=0x21, msb=0x24 -> 14-bit value 0x1221 = 4641
	got, err := ParseMessage([]byte{0xE2, 0x21, 0x24})
	if err != nil {
		t.Fatal(err)
	}
	bend := uint16(got.Data1) | uint16(got.Data2)<<8
	if bend != 4641 {
		t.Errorf("recombined bend = %d, want 4641", bend)
	}
	if got.Channel != 2 {
		t.Errorf("channel = %d, want 2", got.Channel)
	}
}

func TestParseMessageEmpty(t *testing.T) {
	if _, err := ParseMessage(nil); err == nil {
		t.Error("ParseMessage(nil) did not fail")
	}
}

func TestParseRoundTripsBuilders(t *testing.T) {
	p, err := ParseMessage(NoteOn(4, 72, 99))
	if err != nil {
		t.Fatal(err)
	}
	if p.Type != MsgNoteOn || p.Channel != 4 || p.Data1 != 72 || p.Data2 != 99 {
		t.Errorf("round trip = %+v", p)
	}
}

func TestNoteName(t *testing.T) {
	tests := []struct {
		note uint8
		want string
	}{
		{0, "C-1"},
		{21, "A0"},
		{60, "C4"},
		{61, "C#4"},
		{69, "A4"},
		{127, "G9"},
	}
	for _, tc := range tests {
		got, err := NoteName(tc.note)
		if err != nil {
			t.Fatalf("NoteName(%d) failed: %v", tc.note, err)
		}
		if got != tc.want {
			t.Errorf("NoteName(%d) = %q, want %q", tc.note, got, tc.want)
		}
	}
	if _, err := NoteName(128); err == nil {
		t.Error("NoteName(128) did not fail")
	}
}

func TestMessageTypeName(t *testing.T) {
	if got := MessageTypeName(MsgNoteOn); got != "Note On" {
		t.Errorf("MessageTypeName(MsgNoteOn) = %q", got)
	}
	if got := MessageTypeName(42); got != "Invalid" {
		t.Errorf("MessageTypeName(42) = %q", got)
	}
}
