package capi

import (
	"errors"

	"github.com/midilink-io/midilink/sdk/contracts"
	"github.com/midilink-io/midilink/sdk/smf"
)

// Status codes returned across the C boundary. 0 is success; every failure is
// a negative sentinel so callers can check the sign before consuming any
// output buffer.
const (
	StatusOK                int32 = 0
	StatusError             int32 = -1 // Generic failure; also "nothing available" for poll.
	StatusInvalidHandle     int32 = -2
	StatusIndexOutOfRange   int32 = -3
	StatusMalformedFile     int32 = -4
	StatusDeviceUnavailable int32 = -5
	StatusTransportError    int32 = -6
	StatusBufferTooSmall    int32 = -7
)

// statusFromError maps the library's error taxonomy onto status codes.
func statusFromError(err error) int32 {
	var malformed *smf.MalformedFileError
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, contracts.ErrInvalidHandle):
		return StatusInvalidHandle
	case errors.Is(err, contracts.ErrIndexOutOfRange):
		return StatusIndexOutOfRange
	case errors.Is(err, contracts.ErrDeviceUnavailable):
		return StatusDeviceUnavailable
	case errors.Is(err, contracts.ErrTransportError):
		return StatusTransportError
	case errors.As(err, &malformed):
		return StatusMalformedFile
	}
	return StatusError
}
