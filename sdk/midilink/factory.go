package midilink

import (
	"fmt"
	"runtime"

	"github.com/midilink-io/midilink/internal/midi/mididarwin"
	"github.com/midilink-io/midilink/internal/midi/midirtmidi"
	"github.com/midilink-io/midilink/internal/midi/midiwindows"
	"github.com/midilink-io/midilink/sdk/contracts"
)

// transportInitializers maps OS names to corresponding MIDI transport initializers.
var transportInitializers = map[string]func(*contracts.ClientOptions) (contracts.Transport, error){
	"darwin":  mididarwin.NewTransport,  // macOS (Darwin) CoreMIDI transport.
	"windows": midiwindows.NewTransport, // Windows winmm transport.
	"linux":   midirtmidi.NewTransport,  // Linux rtmidi/ALSA transport.
}

// NewTransport initializes the platform MIDI transport for the current
// operating system, returning contracts.ErrUnsupportedOS when none exists.
func NewTransport(opts *contracts.ClientOptions) (contracts.Transport, error) {
	if initializer, exists := transportInitializers[runtime.GOOS]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", contracts.ErrUnsupportedOS, runtime.GOOS)
}
