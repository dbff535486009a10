package capi

import (
	"github.com/midilink-io/midilink/sdk/contracts"
	"github.com/midilink-io/midilink/sdk/midilink"
)

// Direction codes at the C boundary.
const (
	DirectionInput  int32 = 0
	DirectionOutput int32 = 1
)

func direction(code int32) (contracts.Direction, bool) {
	switch code {
	case DirectionInput:
		return contracts.DirectionInput, true
	case DirectionOutput:
		return contracts.DirectionOutput, true
	}
	return 0, false
}

// copyString writes s NUL-terminated into buf, or reports the buffer too
// small. Strings never allocate on the caller's side of the boundary.
func copyString(buf []byte, s string) int32 {
	if len(s)+1 > len(buf) {
		return StatusBufferTooSmall
	}
	n := copy(buf, s)
	buf[n] = 0
	return StatusOK
}

// GetPortCount returns the number of ports for one direction, or a negative
// status. The count is a snapshot; it may change between calls on hot-plug.
func (rt *Runtime) GetPortCount(directionCode int32) int32 {
	dir, ok := direction(directionCode)
	if !ok {
		return StatusIndexOutOfRange
	}
	ports, err := rt.client.ListPorts(dir)
	if err != nil {
		return statusFromError(err)
	}
	return int32(len(ports))
}

// GetPortName writes the NUL-terminated name of the port at the given index
// into buf. Indices are only stable within one enumeration pass.
func (rt *Runtime) GetPortName(directionCode, portIndex int32, buf []byte) int32 {
	dir, ok := direction(directionCode)
	if !ok {
		return StatusIndexOutOfRange
	}
	ports, err := rt.client.ListPorts(dir)
	if err != nil {
		return statusFromError(err)
	}
	if portIndex < 0 || int(portIndex) >= len(ports) {
		return StatusIndexOutOfRange
	}
	return copyString(buf, ports[portIndex].Name)
}

// OpenPort opens a connection to the port at the given index, returning its
// handle (always positive) or a negative status.
func (rt *Runtime) OpenPort(directionCode, portIndex int32) int32 {
	dir, ok := direction(directionCode)
	if !ok {
		return StatusIndexOutOfRange
	}
	handle, err := rt.client.OpenPort(dir, int(portIndex))
	if err != nil {
		return statusFromError(err)
	}
	return handle
}

// Close releases a device or file handle. Closing an unknown handle is a
// no-op success.
func (rt *Runtime) Close(handle int32) int32 {
	if err := rt.client.CloseHandle(handle); err != nil {
		return statusFromError(err)
	}
	return StatusOK
}

// PollMessage drains one received message into buf, returning the number of
// bytes written, StatusError when no message has arrived (never blocking),
// or another negative status. When timestampMs is non-nil it receives the
// capture time in milliseconds since the connection was opened.
func (rt *Runtime) PollMessage(handle int32, buf []byte, timestampMs *float64) int32 {
	msg, ok, err := rt.client.Poll(handle)
	if err != nil {
		return statusFromError(err)
	}
	if !ok {
		return StatusError
	}
	if len(msg.Data) > len(buf) {
		return StatusBufferTooSmall
	}
	n := copy(buf, msg.Data)
	if timestampMs != nil {
		*timestampMs = float64(msg.Timestamp) / 1e6
	}
	return int32(n)
}

// SendMessage forwards a raw message synchronously to an output connection.
func (rt *Runtime) SendMessage(handle int32, data []byte) int32 {
	if len(data) == 0 {
		return StatusError
	}
	if err := rt.client.Send(handle, data); err != nil {
		return statusFromError(err)
	}
	return StatusOK
}

// CreateNoteOn writes a Note On message into buf and returns its length.
func (rt *Runtime) CreateNoteOn(channel, note, velocity byte, buf []byte) int32 {
	return writeMessage(buf, midilink.NoteOn(channel, note, velocity))
}

// CreateNoteOff writes a Note Off message into buf and returns its length.
func (rt *Runtime) CreateNoteOff(channel, note, velocity byte, buf []byte) int32 {
	return writeMessage(buf, midilink.NoteOff(channel, note, velocity))
}

// CreateControlChange writes a Control Change message into buf and returns
// its length.
func (rt *Runtime) CreateControlChange(channel, controller, value byte, buf []byte) int32 {
	return writeMessage(buf, midilink.ControlChange(channel, controller, value))
}

func writeMessage(buf, msg []byte) int32 {
	if len(msg) > len(buf) {
		return StatusBufferTooSmall
	}
	return int32(copy(buf, msg))
}

// ParseMessage decomposes a raw message into type, channel and data bytes
// through the caller's out parameters.
func (rt *Runtime) ParseMessage(data []byte, messageType, channel, data1, data2 *int32) int32 {
	p, err := midilink.ParseMessage(data)
	if err != nil {
		return StatusError
	}
	if messageType != nil {
		*messageType = p.Type
	}
	if channel != nil {
		*channel = int32(p.Channel)
	}
	if data1 != nil {
		*data1 = int32(p.Data1)
	}
	if data2 != nil {
		*data2 = int32(p.Data2)
	}
	return StatusOK
}

// NoteToName writes the NUL-terminated note name ("C4" for note 60) into buf.
func (rt *Runtime) NoteToName(note int32, buf []byte) int32 {
	if note < 0 || note > 127 {
		return StatusIndexOutOfRange
	}
	name, err := midilink.NoteName(uint8(note))
	if err != nil {
		return StatusError
	}
	return copyString(buf, name)
}
