package smf

import "encoding/binary"

// Byte-level fixture builders for crafting SMF inputs in tests.

func be16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func be32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func encodeVLQ(v uint32) []byte {
	out := []byte{byte(v & 0x7F)}
	v >>= 7
	for v > 0 {
		out = append([]byte{byte(v&0x7F) | 0x80}, out...)
		v >>= 7
	}
	return out
}

func headerChunk(format, trackCount, division uint16) []byte {
	b := []byte("MThd")
	b = append(b, be32(6)...)
	b = append(b, be16(format)...)
	b = append(b, be16(trackCount)...)
	b = append(b, be16(division)...)
	return b
}

// trackChunk wraps a body in an MTrk chunk. The body must already end with
// the end-of-track event when a valid track is intended.
func trackChunk(body []byte) []byte {
	b := []byte("MTrk")
	b = append(b, be32(uint32(len(body)))...)
	return append(b, body...)
}

var endOfTrack = []byte{0x00, 0xFF, 0x2F, 0x00}

func tempoEventBytes(delta, microsPerQuarter uint32) []byte {
	b := encodeVLQ(delta)
	b = append(b, 0xFF, 0x51, 0x03,
		byte(microsPerQuarter>>16), byte(microsPerQuarter>>8), byte(microsPerQuarter))
	return b
}

func noteOnBytes(delta uint32, channel, note, velocity byte) []byte {
	b := encodeVLQ(delta)
	return append(b, 0x90|channel, note, velocity)
}

func noteOffBytes(delta uint32, channel, note, velocity byte) []byte {
	b := encodeVLQ(delta)
	return append(b, 0x80|channel, note, velocity)
}

// singleTrackFile builds a format-0 file from raw event bytes, appending the
// end-of-track marker.
func singleTrackFile(division uint16, events ...[]byte) []byte {
	var body []byte
	for _, e := range events {
		body = append(body, e...)
	}
	body = append(body, endOfTrack...)
	return append(headerChunk(0, 1, division), trackChunk(body)...)
}
