package contracts

import "errors"

// Error taxonomy shared by the registry, the bridge and the C surface. Each
// maps to one negative status code at the FFI boundary.
var (
	// ErrInvalidHandle indicates an unknown or already-closed handle.
	ErrInvalidHandle = errors.New("invalid or closed handle")
	// ErrIndexOutOfRange indicates a port, track or event index beyond bounds.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrDeviceUnavailable indicates a platform enumeration or open failure.
	ErrDeviceUnavailable = errors.New("MIDI device unavailable")
	// ErrTransportError indicates an I/O failure on an established connection.
	ErrTransportError = errors.New("MIDI transport error")
	// ErrUnsupportedOS is returned when no transport exists for the current OS.
	ErrUnsupportedOS = errors.New("unsupported operating system")
)
