// The export package is the C-ABI shell of the library, built with
//
//	go build -buildmode=c-shared -o libmidilink.so ./export
//
// Every function is a thin translation from C primitives to the capi layer:
// no business logic lives here. All functions return a negative status on
// failure and never let a panic cross the boundary.
package main

/*
#include <stdlib.h>

typedef struct {
	unsigned int tick;
	int type;
	int channel;
	int data1;
	int data2;
	int value;
} midi_event_data;
*/
import "C"

import (
	"unsafe"

	"github.com/midilink-io/midilink/capi"
)

func runtimeOrStatus() (*capi.Runtime, C.int) {
	rt, err := capi.Default()
	if err != nil {
		return nil, C.int(capi.StatusDeviceUnavailable)
	}
	return rt, 0
}

// protect converts a panic into the generic failure status so the foreign
// caller sees a sentinel, never a crashed process.
func protect(f func() C.int) (status C.int) {
	defer func() {
		if recover() != nil {
			status = C.int(capi.StatusError)
		}
	}()
	return f()
}

func byteArg(p *C.uchar, n C.int) []byte {
	if p == nil || n <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), int(n))
}

func charBuf(p *C.char, n C.int) []byte {
	if p == nil || n <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), int(n))
}

//export midi_get_port_count
func midi_get_port_count(direction C.int) C.int {
	return protect(func() C.int {
		rt, status := runtimeOrStatus()
		if rt == nil {
			return status
		}
		return C.int(rt.GetPortCount(int32(direction)))
	})
}

//export midi_get_port_name
func midi_get_port_name(direction, portIndex C.int, buffer *C.char, bufferSize C.int) C.int {
	return protect(func() C.int {
		rt, status := runtimeOrStatus()
		if rt == nil {
			return status
		}
		buf := charBuf(buffer, bufferSize)
		if buf == nil {
			return C.int(capi.StatusBufferTooSmall)
		}
		return C.int(rt.GetPortName(int32(direction), int32(portIndex), buf))
	})
}

//export midi_open_port
func midi_open_port(direction, portIndex C.int) C.int {
	return protect(func() C.int {
		rt, status := runtimeOrStatus()
		if rt == nil {
			return status
		}
		return C.int(rt.OpenPort(int32(direction), int32(portIndex)))
	})
}

//export midi_close
func midi_close(handle C.int) C.int {
	return protect(func() C.int {
		rt, status := runtimeOrStatus()
		if rt == nil {
			return status
		}
		return C.int(rt.Close(int32(handle)))
	})
}

//export midi_poll_message
func midi_poll_message(handle C.int, buffer *C.uchar, bufferSize C.int, timestampMs *C.double) C.int {
	return protect(func() C.int {
		rt, status := runtimeOrStatus()
		if rt == nil {
			return status
		}
		buf := byteArg(buffer, bufferSize)
		if buf == nil {
			return C.int(capi.StatusBufferTooSmall)
		}
		return C.int(rt.PollMessage(int32(handle), buf, (*float64)(timestampMs)))
	})
}

//export midi_send_message
func midi_send_message(handle C.int, message *C.uchar, length C.int) C.int {
	return protect(func() C.int {
		rt, status := runtimeOrStatus()
		if rt == nil {
			return status
		}
		return C.int(rt.SendMessage(int32(handle), byteArg(message, length)))
	})
}

//export midi_create_note_on
func midi_create_note_on(channel, note, velocity C.uchar, buffer *C.uchar, bufferSize C.int) C.int {
	return protect(func() C.int {
		rt, status := runtimeOrStatus()
		if rt == nil {
			return status
		}
		return C.int(rt.CreateNoteOn(byte(channel), byte(note), byte(velocity), byteArg(buffer, bufferSize)))
	})
}

//export midi_create_note_off
func midi_create_note_off(channel, note, velocity C.uchar, buffer *C.uchar, bufferSize C.int) C.int {
	return protect(func() C.int {
		rt, status := runtimeOrStatus()
		if rt == nil {
			return status
		}
		return C.int(rt.CreateNoteOff(byte(channel), byte(note), byte(velocity), byteArg(buffer, bufferSize)))
	})
}

//export midi_create_control_change
func midi_create_control_change(channel, controller, value C.uchar, buffer *C.uchar, bufferSize C.int) C.int {
	return protect(func() C.int {
		rt, status := runtimeOrStatus()
		if rt == nil {
			return status
		}
		return C.int(rt.CreateControlChange(byte(channel), byte(controller), byte(value), byteArg(buffer, bufferSize)))
	})
}

//export midi_parse_message
func midi_parse_message(message *C.uchar, length C.int, messageType, channel, data1, data2 *C.int) C.int {
	return protect(func() C.int {
		rt, status := runtimeOrStatus()
		if rt == nil {
			return status
		}
		return C.int(rt.ParseMessage(byteArg(message, length),
			(*int32)(messageType), (*int32)(channel), (*int32)(data1), (*int32)(data2)))
	})
}

//export midi_note_to_name
func midi_note_to_name(note C.int, buffer *C.char, bufferSize C.int) C.int {
	return protect(func() C.int {
		rt, status := runtimeOrStatus()
		if rt == nil {
			return status
		}
		buf := charBuf(buffer, bufferSize)
		if buf == nil {
			return C.int(capi.StatusBufferTooSmall)
		}
		return C.int(rt.NoteToName(int32(note), buf))
	})
}

//export midi_file_open
func midi_file_open(path *C.char) C.int {
	return protect(func() C.int {
		rt, status := runtimeOrStatus()
		if rt == nil {
			return status
		}
		if path == nil {
			return C.int(capi.StatusError)
		}
		return C.int(rt.FileOpen(C.GoString(path)))
	})
}

//export midi_file_close
func midi_file_close(handle C.int) C.int {
	return protect(func() C.int {
		rt, status := runtimeOrStatus()
		if rt == nil {
			return status
		}
		return C.int(rt.FileClose(int32(handle)))
	})
}

//export midi_file_get_info
func midi_file_get_info(handle C.int, format, trackCount, division *C.int) C.int {
	return protect(func() C.int {
		rt, status := runtimeOrStatus()
		if rt == nil {
			return status
		}
		return C.int(rt.FileGetInfo(int32(handle),
			(*int32)(format), (*int32)(trackCount), (*int32)(division)))
	})
}

//export midi_file_get_track_info
func midi_file_get_track_info(handle, trackIndex C.int, eventCount *C.int) C.int {
	return protect(func() C.int {
		rt, status := runtimeOrStatus()
		if rt == nil {
			return status
		}
		return C.int(rt.FileGetTrackInfo(int32(handle), int32(trackIndex), (*int32)(eventCount)))
	})
}

//export midi_file_get_track_name
func midi_file_get_track_name(handle, trackIndex C.int, buffer *C.char, bufferSize C.int) C.int {
	return protect(func() C.int {
		rt, status := runtimeOrStatus()
		if rt == nil {
			return status
		}
		buf := charBuf(buffer, bufferSize)
		if buf == nil {
			return C.int(capi.StatusBufferTooSmall)
		}
		return C.int(rt.FileGetTrackName(int32(handle), int32(trackIndex), buf))
	})
}

//export midi_file_get_event
func midi_file_get_event(handle, trackIndex, eventIndex C.int, out *C.midi_event_data) C.int {
	return protect(func() C.int {
		rt, status := runtimeOrStatus()
		if rt == nil {
			return status
		}
		return C.int(rt.FileGetEvent(int32(handle), int32(trackIndex), int32(eventIndex),
			(*capi.EventData)(unsafe.Pointer(out))))
	})
}

//export midi_file_get_event_uid
func midi_file_get_event_uid(handle, trackIndex, eventIndex C.int) C.longlong {
	rt, err := capi.Default()
	if err != nil {
		return C.longlong(capi.StatusDeviceUnavailable)
	}
	return C.longlong(rt.FileGetEventUID(int32(handle), int32(trackIndex), int32(eventIndex)))
}

//export midi_file_ticks_to_ms
func midi_file_ticks_to_ms(handle C.int, tick C.longlong) C.double {
	rt, err := capi.Default()
	if err != nil {
		return C.double(capi.StatusDeviceUnavailable)
	}
	return C.double(rt.FileTicksToMs(int32(handle), int64(tick)))
}

//export midi_file_ms_to_ticks
func midi_file_ms_to_ticks(handle C.int, ms C.double) C.longlong {
	rt, err := capi.Default()
	if err != nil {
		return C.longlong(capi.StatusDeviceUnavailable)
	}
	return C.longlong(rt.FileMsToTicks(int32(handle), float64(ms)))
}

//export midi_file_duration_ticks
func midi_file_duration_ticks(handle C.int) C.longlong {
	rt, err := capi.Default()
	if err != nil {
		return C.longlong(capi.StatusDeviceUnavailable)
	}
	return C.longlong(rt.FileDurationTicks(int32(handle)))
}

//export midi_file_get_events_in_range
func midi_file_get_events_in_range(handle, trackIndex C.int, startTick, endTick C.longlong, out *C.midi_event_data, maxEvents C.int) C.int {
	return protect(func() C.int {
		rt, status := runtimeOrStatus()
		if rt == nil {
			return status
		}
		if out == nil || maxEvents <= 0 {
			return C.int(capi.StatusBufferTooSmall)
		}
		events := unsafe.Slice((*capi.EventData)(unsafe.Pointer(out)), int(maxEvents))
		return C.int(rt.FileGetEventsInRange(int32(handle), int32(trackIndex),
			int64(startTick), int64(endTick), events))
	})
}

//export midi_shutdown
func midi_shutdown() C.int {
	return C.int(capi.Shutdown())
}

func main() {}
