//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/midilink-io/midilink/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Type definitions for MIDI handles.
type (
	HMIDIIN  windows.Handle
	HMIDIOUT windows.Handle
)

// Constants for callback flags.
const (
	CALLBACK_FUNCTION = 0x00030000 // The callback argument is a function.
	CALLBACK_NULL     = 0x00000000
)

// Constants for MIDI input callback message types.
const (
	MIM_OPEN      = 0x3C1
	MIM_CLOSE     = 0x3C2
	MIM_DATA      = 0x3C3
	MIM_LONGDATA  = 0x3C4
	MIM_ERROR     = 0x3C5
	MIM_LONGERROR = 0x3C6
)

// MIDIHDR dwFlags bits.
const mhdrDone = 0x00000001

// Struct representing MIDI input device capabilities.
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// Struct representing MIDI output device capabilities.
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

// MIDIHDR layout used by midiOutLongMsg for system-exclusive payloads.
type midiHdr struct {
	lpData          uintptr
	dwBufferLength  uint32
	dwBytesRecorded uint32
	dwUser          uintptr
	dwFlags         uint32
	lpNext          uintptr
	reserved        uintptr
	dwOffset        uint32
	dwReserved      [8]uintptr
}

// Load the winmm.dll library and required functions.
var (
	winmm                      = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs       = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps       = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen             = winmm.NewProc("midiInOpen")
	procMidiInStart            = winmm.NewProc("midiInStart")
	procMidiInStop             = winmm.NewProc("midiInStop")
	procMidiInClose            = winmm.NewProc("midiInClose")
	procMidiOutGetNumDevs      = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps      = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen            = winmm.NewProc("midiOutOpen")
	procMidiOutShortMsg        = winmm.NewProc("midiOutShortMsg")
	procMidiOutLongMsg         = winmm.NewProc("midiOutLongMsg")
	procMidiOutPrepareHeader   = winmm.NewProc("midiOutPrepareHeader")
	procMidiOutUnprepareHeader = winmm.NewProc("midiOutUnprepareHeader")
	procMidiOutClose           = winmm.NewProc("midiOutClose")
)

// The winmm callback receives a bare instance word, not a Go pointer, so open
// input connections register themselves here under a monotonically increasing
// id that is passed through dwInstance.
var (
	inConnsMu sync.Mutex
	inConns   = map[uintptr]*inConn{}
	nextInID  uintptr = 1
	// Created once: NewCallback allocations are never released.
	callbackOnce sync.Once
	callbackPtr  uintptr
)

// Transport implements the platform MIDI capability on Windows via winmm.
type Transport struct {
	logger contracts.Logger
}

// NewTransport creates a winmm-backed transport.
func NewTransport(options *contracts.ClientOptions) (contracts.Transport, error) {
	options.Logger.Info("winmm MIDI transport created")
	return &Transport{logger: options.Logger}, nil
}

// ListPorts enumerates winmm input or output devices.
func (t *Transport) ListPorts(direction contracts.Direction) ([]contracts.PortInfo, error) {
	if direction == contracts.DirectionOutput {
		r0, _, _ := procMidiOutGetNumDevs.Call()
		ports := make([]contracts.PortInfo, 0, uint32(r0))
		for i := uint32(0); i < uint32(r0); i++ {
			var caps midiOutCaps
			r1, _, _ := procMidiOutGetDevCaps.Call(uintptr(i),
				uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps))
			if r1 != 0 {
				t.logger.Warn(fmt.Sprintf("failed to query MIDI output device %d", i))
				continue
			}
			ports = append(ports, contracts.PortInfo{
				Index: int(i), Name: windows.UTF16ToString(caps.szPname[:]),
			})
		}
		return ports, nil
	}

	r0, _, _ := procMidiInGetNumDevs.Call()
	ports := make([]contracts.PortInfo, 0, uint32(r0))
	for i := uint32(0); i < uint32(r0); i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(uintptr(i),
			uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps))
		if r1 != 0 {
			t.logger.Warn(fmt.Sprintf("failed to query MIDI input device %d", i))
			continue
		}
		ports = append(ports, contracts.PortInfo{
			Index: int(i), Name: windows.UTF16ToString(caps.szPname[:]),
		})
	}
	return ports, nil
}

// inConn is one open winmm input connection.
type inConn struct {
	handle    HMIDIIN
	id        uintptr
	onMessage func(data []byte)
	logger    contracts.Logger
}

// midiInCallback processes incoming MIDI messages on the winmm thread.
func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	inConnsMu.Lock()
	c := inConns[dwInstance]
	inConnsMu.Unlock()
	if c == nil {
		return 0
	}

	switch wMsg {
	case MIM_OPEN:
		c.logger.Debug("MIDI input device opened")
	case MIM_CLOSE:
		c.logger.Debug("MIDI input device closed")
	case MIM_DATA:
		status := byte(dwParam1 & 0xFF)
		data1 := byte((dwParam1 >> 8) & 0xFF)
		data2 := byte((dwParam1 >> 16) & 0xFF)
		c.onMessage(packShortMessage(status, data1, data2))
	case MIM_ERROR, MIM_LONGERROR:
		// Malformed bytes from hardware: dropped here so the callback thread
		// never crashes the host process.
		c.logger.Error(fmt.Sprintf("MIDI input error: msg=0x%X param=0x%X", wMsg, dwParam1))
	}
	return 0
}

// packShortMessage trims a packed winmm dword to the message's real length.
func packShortMessage(status, data1, data2 byte) []byte {
	switch {
	case status >= 0xF8: // system realtime
		return []byte{status}
	case status&0xF0 == 0xC0 || status&0xF0 == 0xD0:
		return []byte{status, data1}
	default:
		return []byte{status, data1, data2}
	}
}

// OpenInput opens the winmm device at the given index and starts capture.
func (t *Transport) OpenInput(portIndex int, onMessage func(data []byte)) (contracts.InputConn, error) {
	callbackOnce.Do(func() {
		callbackPtr = windows.NewCallback(midiInCallback)
	})

	c := &inConn{onMessage: onMessage, logger: t.logger}
	inConnsMu.Lock()
	c.id = nextInID
	nextInID++
	inConns[c.id] = c
	inConnsMu.Unlock()

	r1, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&c.handle)),
		uintptr(portIndex),
		callbackPtr,
		c.id,
		uintptr(CALLBACK_FUNCTION),
	)
	if r1 != 0 {
		t.unregister(c.id)
		return nil, fmt.Errorf("midiInOpen(%d) failed: %v", portIndex, err)
	}
	r1, _, err = procMidiInStart.Call(uintptr(c.handle))
	if r1 != 0 {
		procMidiInClose.Call(uintptr(c.handle))
		t.unregister(c.id)
		return nil, fmt.Errorf("midiInStart failed: %v", err)
	}
	return c, nil
}

func (t *Transport) unregister(id uintptr) {
	inConnsMu.Lock()
	delete(inConns, id)
	inConnsMu.Unlock()
}

// Close stops capture and releases the device. winmm delivers no further
// callbacks once midiInClose returns.
func (c *inConn) Close() error {
	if c.handle == 0 {
		return nil
	}
	var closeErr error
	if r1, _, err := procMidiInStop.Call(uintptr(c.handle)); r1 != 0 {
		closeErr = fmt.Errorf("midiInStop failed: %v", err)
	}
	if r1, _, err := procMidiInClose.Call(uintptr(c.handle)); r1 != 0 {
		closeErr = fmt.Errorf("midiInClose failed: %v", err)
	}
	c.handle = 0
	inConnsMu.Lock()
	delete(inConns, c.id)
	inConnsMu.Unlock()
	return closeErr
}

// outConn is one open winmm output connection.
type outConn struct {
	handle HMIDIOUT
}

var errSysExTimeout = errors.New("timed out waiting for sysex buffer")

// Send forwards one message synchronously. Messages up to three bytes go
// through midiOutShortMsg; longer payloads (system exclusive) use
// midiOutLongMsg with a prepared header.
func (c *outConn) Send(data []byte) error {
	if len(data) == 0 {
		return errors.New("empty MIDI message")
	}
	if len(data) <= 3 {
		var packed uintptr
		for i := len(data) - 1; i >= 0; i-- {
			packed = packed<<8 | uintptr(data[i])
		}
		if r1, _, err := procMidiOutShortMsg.Call(uintptr(c.handle), packed); r1 != 0 {
			return fmt.Errorf("midiOutShortMsg failed: %v", err)
		}
		return nil
	}

	hdr := midiHdr{
		lpData:         uintptr(unsafe.Pointer(&data[0])),
		dwBufferLength: uint32(len(data)),
	}
	size := unsafe.Sizeof(hdr)
	if r1, _, err := procMidiOutPrepareHeader.Call(uintptr(c.handle),
		uintptr(unsafe.Pointer(&hdr)), size); r1 != 0 {
		return fmt.Errorf("midiOutPrepareHeader failed: %v", err)
	}
	defer procMidiOutUnprepareHeader.Call(uintptr(c.handle), uintptr(unsafe.Pointer(&hdr)), size)
	if r1, _, err := procMidiOutLongMsg.Call(uintptr(c.handle),
		uintptr(unsafe.Pointer(&hdr)), size); r1 != 0 {
		return fmt.Errorf("midiOutLongMsg failed: %v", err)
	}
	// The driver owns the buffer until it flags the header done.
	for i := 0; i < 1000; i++ {
		if hdr.dwFlags&mhdrDone != 0 {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
	return errSysExTimeout
}

func (c *outConn) Close() error {
	if c.handle == 0 {
		return nil
	}
	r1, _, err := procMidiOutClose.Call(uintptr(c.handle))
	c.handle = 0
	if r1 != 0 {
		return fmt.Errorf("midiOutClose failed: %v", err)
	}
	return nil
}

// OpenOutput opens the winmm output device at the given index.
func (t *Transport) OpenOutput(portIndex int) (contracts.OutputConn, error) {
	c := &outConn{}
	r1, _, err := procMidiOutOpen.Call(
		uintptr(unsafe.Pointer(&c.handle)),
		uintptr(portIndex),
		0, 0,
		uintptr(CALLBACK_NULL),
	)
	if r1 != 0 {
		return nil, fmt.Errorf("midiOutOpen(%d) failed: %v", portIndex, err)
	}
	return c, nil
}

// Close releases the transport. Individual connections hold the device
// handles, so there is nothing shared to tear down.
func (t *Transport) Close() error { return nil }
