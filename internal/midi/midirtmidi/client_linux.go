//go:build linux && cgo
// +build linux,cgo

package midirtmidi

import (
	"fmt"

	"github.com/midilink-io/midilink/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register rtmidi driver
)

// Transport implements the platform MIDI capability on Linux through the
// rtmidi driver registered with gomidi.
type Transport struct {
	logger contracts.Logger
}

// NewTransport creates an rtmidi-backed transport.
func NewTransport(options *contracts.ClientOptions) (contracts.Transport, error) {
	options.Logger.Info("rtmidi MIDI transport created")
	return &Transport{logger: options.Logger}, nil
}

// ListPorts enumerates the rtmidi driver's ports.
func (t *Transport) ListPorts(direction contracts.Direction) ([]contracts.PortInfo, error) {
	if direction == contracts.DirectionOutput {
		outs := midi.GetOutPorts()
		ports := make([]contracts.PortInfo, len(outs))
		for i, out := range outs {
			ports[i] = contracts.PortInfo{Index: i, Name: out.String()}
		}
		return ports, nil
	}

	ins := midi.GetInPorts()
	ports := make([]contracts.PortInfo, len(ins))
	for i, in := range ins {
		ports[i] = contracts.PortInfo{Index: i, Name: in.String()}
	}
	return ports, nil
}

// inConn is one listening rtmidi input port.
type inConn struct {
	port drivers.In
	stop func()
}

func (c *inConn) Close() error {
	c.stop()
	return c.port.Close()
}

// OpenInput opens the input port at the given index and starts the raw-byte
// listener. rtmidi invokes the listener on its own thread.
func (t *Transport) OpenInput(portIndex int, onMessage func(data []byte)) (contracts.InputConn, error) {
	ins := midi.GetInPorts()
	if portIndex < 0 || portIndex >= len(ins) {
		return nil, fmt.Errorf("input port index %d out of range", portIndex)
	}
	port := ins[portIndex]
	if err := port.Open(); err != nil {
		return nil, fmt.Errorf("opening input port %q: %w", port.String(), err)
	}
	stop, err := port.Listen(func(data []byte, milliseconds int32) {
		onMessage(data)
	}, drivers.ListenConfig{
		SysEx: true,
		OnErr: func(err error) {
			t.logger.Warn("rtmidi listener error", t.logger.Field().Error("error", err))
		},
	})
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("starting listener on %q: %w", port.String(), err)
	}
	return &inConn{port: port, stop: stop}, nil
}

// outConn is one open rtmidi output port.
type outConn struct {
	port drivers.Out
}

func (c *outConn) Send(data []byte) error {
	return c.port.Send(data)
}

func (c *outConn) Close() error {
	return c.port.Close()
}

// OpenOutput opens the output port at the given index.
func (t *Transport) OpenOutput(portIndex int) (contracts.OutputConn, error) {
	outs := midi.GetOutPorts()
	if portIndex < 0 || portIndex >= len(outs) {
		return nil, fmt.Errorf("output port index %d out of range", portIndex)
	}
	port := outs[portIndex]
	if err := port.Open(); err != nil {
		return nil, fmt.Errorf("opening output port %q: %w", port.String(), err)
	}
	return &outConn{port: port}, nil
}

// Close shuts down the registered rtmidi driver.
func (t *Transport) Close() error {
	midi.CloseDriver()
	return nil
}
