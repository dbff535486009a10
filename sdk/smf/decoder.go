package smf

import (
	"encoding/binary"
	"fmt"
)

const (
	headerChunkLen = 6
	// A variable-length quantity that fits a 32-bit accumulator never needs
	// more than five 7-bit groups.
	maxVLQBytes = 5
)

// decoder walks the raw byte buffer, tracking the absolute offset so that
// malformed-file errors can point at the failing byte.
type decoder struct {
	data []byte
	off  int
}

func (d *decoder) remaining() int { return len(d.data) - d.off }

func (d *decoder) u8() (byte, error) {
	if d.off >= len(d.data) {
		return 0, malformed(d.off, "1 more byte", "end of input")
	}
	b := d.data[d.off]
	d.off++
	return b, nil
}

func (d *decoder) u16() (uint16, error) {
	if d.remaining() < 2 {
		return 0, malformed(d.off, "2 more bytes", "end of input")
	}
	v := binary.BigEndian.Uint16(d.data[d.off:])
	d.off += 2
	return v, nil
}

func (d *decoder) u32() (uint32, error) {
	if d.remaining() < 4 {
		return 0, malformed(d.off, "4 more bytes", "end of input")
	}
	v := binary.BigEndian.Uint32(d.data[d.off:])
	d.off += 4
	return v, nil
}

func (d *decoder) bytes(n int) ([]byte, error) {
	if n < 0 || d.remaining() < n {
		return nil, malformed(d.off, fmt.Sprintf("%d more bytes", n), "end of input")
	}
	b := d.data[d.off : d.off+n : d.off+n]
	d.off += n
	return b, nil
}

// vlq reads a variable-length quantity: 7 bits per byte, big-endian bit
// order, continuation flag in the high bit.
func (d *decoder) vlq() (uint32, error) {
	start := d.off
	var v uint64
	for i := 0; i < maxVLQBytes; i++ {
		b, err := d.u8()
		if err != nil {
			return 0, err
		}
		v = v<<7 | uint64(b&0x7F)
		if b&0x80 == 0 {
			if v > 0xFFFFFFFF {
				return 0, malformed(start, "variable-length quantity within 32-bit range",
					fmt.Sprintf("value 0x%x", v))
			}
			return uint32(v), nil
		}
	}
	return 0, malformed(start, "variable-length quantity of at most 5 bytes",
		"continuation past 5th byte")
}

// Decode parses raw SMF bytes into a header plus per-track event lists with
// delta times only; absolute ticks and the tempo map come from the timeline
// builder. Decode never panics on arbitrary input: every structural violation
// comes back as a *MalformedFileError.
func Decode(data []byte) (*File, error) {
	d := &decoder{data: data}

	magic, err := d.bytes(4)
	if err != nil {
		return nil, err
	}
	if string(magic) != "MThd" {
		return nil, malformed(d.off-4, `chunk magic "MThd"`, fmt.Sprintf("%q", magic))
	}
	hdrLen, err := d.u32()
	if err != nil {
		return nil, err
	}
	if hdrLen != headerChunkLen {
		return nil, malformed(d.off-4, "header length 6", fmt.Sprintf("%d", hdrLen))
	}
	format, err := d.u16()
	if err != nil {
		return nil, err
	}
	if format > 2 {
		return nil, malformed(d.off-2, "format 0, 1 or 2", fmt.Sprintf("%d", format))
	}
	trackCount, err := d.u16()
	if err != nil {
		return nil, err
	}
	if trackCount == 0 {
		return nil, malformed(d.off-2, "at least one track", "0")
	}
	if format == 0 && trackCount != 1 {
		return nil, malformed(d.off-2, "exactly one track for format 0",
			fmt.Sprintf("%d", trackCount))
	}
	divRaw, err := d.u16()
	if err != nil {
		return nil, err
	}
	division := TimeDivision(divRaw)
	if (divRaw & 0x7FFF) == 0 {
		return nil, malformed(d.off-2, "non-zero division", "0")
	}

	f := &File{
		Format:   format,
		Division: division,
		Tracks:   make([]Track, 0, trackCount),
	}
	for i := 0; i < int(trackCount); i++ {
		events, err := d.track()
		if err != nil {
			return nil, err
		}
		f.Tracks = append(f.Tracks, Track{Events: events})
	}
	return f, nil
}

// track decodes one MTrk chunk as (delta, event) pairs until the declared
// chunk length is exhausted. The end-of-track meta event must be the final
// event of the chunk, exactly once.
func (d *decoder) track() ([]Event, error) {
	magic, err := d.bytes(4)
	if err != nil {
		return nil, err
	}
	if string(magic) != "MTrk" {
		return nil, malformed(d.off-4, `chunk magic "MTrk"`, fmt.Sprintf("%q", magic))
	}
	chunkLen, err := d.u32()
	if err != nil {
		return nil, err
	}
	if uint32(d.remaining()) < chunkLen {
		return nil, malformed(d.off, fmt.Sprintf("%d bytes of track data", chunkLen),
			fmt.Sprintf("%d remaining", d.remaining()))
	}
	end := d.off + int(chunkLen)

	// Roughly 3 bytes per event in typical files.
	events := make([]Event, 0, chunkLen/3)
	runningStatus := byte(0)
	sawEOT := false
	for d.off < end {
		if sawEOT {
			return nil, malformed(d.off, "no events after end-of-track", "more data")
		}
		delta, err := d.vlq()
		if err != nil {
			return nil, err
		}
		ev, err := d.event(&runningStatus)
		if err != nil {
			return nil, err
		}
		if d.off > end {
			return nil, malformed(end, "event within declared chunk length", "overrun")
		}
		ev.Delta = delta
		if ev.IsMeta() && ev.Meta == MetaEndOfTrack {
			sawEOT = true
		}
		events = append(events, ev)
	}
	if !sawEOT {
		return nil, malformed(d.off, "end-of-track meta event", "chunk exhausted")
	}
	return events, nil
}

func (d *decoder) event(runningStatus *byte) (Event, error) {
	statusOff := d.off
	status, err := d.u8()
	if err != nil {
		return Event{}, err
	}
	if status < 0x80 {
		// Running status: reuse the previous channel-voice status byte and
		// treat this byte as the first data byte.
		if *runningStatus == 0 {
			return Event{}, malformed(statusOff, "status byte",
				fmt.Sprintf("data byte 0x%02x with no running status", status))
		}
		d.off--
		status = *runningStatus
	}

	switch {
	case status == statusMeta:
		*runningStatus = 0
		return d.metaEvent()
	case status == statusSysEx || status == statusSysExContinue:
		*runningStatus = 0
		length, err := d.vlq()
		if err != nil {
			return Event{}, err
		}
		payload, err := d.bytes(int(length))
		if err != nil {
			return Event{}, err
		}
		return Event{Status: status, Data: payload}, nil
	case status >= 0xF0:
		// System common and realtime bytes have no place in a track chunk.
		return Event{}, malformed(statusOff, "channel voice, meta or sysex status",
			fmt.Sprintf("0x%02x", status))
	}

	*runningStatus = status
	n := 2
	if status&0xF0 == statusProgramChange || status&0xF0 == statusChannelAftertouch {
		n = 1
	}
	data, err := d.bytes(n)
	if err != nil {
		return Event{}, err
	}
	for i, b := range data {
		if b >= 0x80 {
			return Event{}, malformed(d.off-n+i, "data byte below 0x80",
				fmt.Sprintf("0x%02x", b))
		}
	}
	return Event{Status: status, Data: data}, nil
}

func (d *decoder) metaEvent() (Event, error) {
	metaType, err := d.u8()
	if err != nil {
		return Event{}, err
	}
	length, err := d.vlq()
	if err != nil {
		return Event{}, err
	}
	payload, err := d.bytes(int(length))
	if err != nil {
		return Event{}, err
	}
	if metaType == MetaEndOfTrack && length != 0 {
		return Event{}, malformed(d.off-int(length), "empty end-of-track payload",
			fmt.Sprintf("%d bytes", length))
	}
	if metaType == MetaSetTempo && length != 3 {
		return Event{}, malformed(d.off-int(length), "3-byte tempo payload",
			fmt.Sprintf("%d bytes", length))
	}
	return Event{Status: statusMeta, Meta: metaType, Data: payload}, nil
}
